package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gogpu/wallgen/preview"
	"github.com/gogpu/wallgen/scene"
)

func (c *CLI) previewCommand() *cobra.Command {
	var (
		output        string
		width, height int
		padding       int
		keep          bool
	)
	cmd := &cobra.Command{
		Use:   "preview <scene.json>",
		Short: "Render the walls of a scene to PNG",
		Long: `Preview draws the walls of a scene file. Walls are regenerated from the
drawings first unless --keep is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := scene.ReadFile(args[0])
			if err != nil {
				return err
			}
			items := f.Items
			if !keep {
				if items, err = c.generate(cmd.Context(), items); err != nil {
					return err
				}
			}

			opts := preview.DefaultOptions()
			opts.Width, opts.Height = width, height
			if cmd.Flags().Changed("padding") {
				opts.Padding = padding
			}

			fh, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := preview.Render(fh, items, opts); err != nil {
				fh.Close()
				_ = os.Remove(output)
				return err
			}
			if err := fh.Close(); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Rendered preview")
			printFile(cmd.OutOrStdout(), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "walls.png", "output PNG file")
	cmd.Flags().IntVar(&width, "width", 0, "image width in pixels (0 fits the walls)")
	cmd.Flags().IntVar(&height, "height", 0, "image height in pixels (0 fits the walls)")
	cmd.Flags().IntVar(&padding, "padding", 0, "padding around the walls in pixels")
	cmd.Flags().BoolVar(&keep, "keep", false, "draw the walls stored in the file instead of regenerating them")
	return cmd
}
