package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gogpu/wallgen/scene"
)

func (c *CLI) markCommand() *cobra.Command {
	var (
		wall, door, off bool
		output          string
	)
	cmd := &cobra.Command{
		Use:   "mark <scene.json> <id>...",
		Short: "Tag drawings as walls or doors",
		Long: `Mark sets the wall or door tag on drawings of a scene file. With --off
the tag is removed. The file is rewritten in place unless --output is given.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, ids := args[0], args[1:]
			f, err := scene.ReadFile(path)
			if err != nil {
				return err
			}

			key, what := scene.MetaWall, "wall"
			if door {
				key, what = scene.MetaDoor, "door"
			}
			for _, id := range ids {
				it, ok := f.Find(id)
				if !ok {
					return fmt.Errorf("item %q not found in %s", id, path)
				}
				if !it.IsDrawing() {
					return fmt.Errorf("item %q is a %s, not a drawing", id, it.Kind)
				}
				it.SetFlag(key, !off)
			}

			dest := output
			if dest == "" {
				dest = path
			}
			if err := f.WriteFile(dest); err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if off {
				printSuccess(w, "Removed the %s tag from %s", what, plural(len(ids), "drawing"))
			} else {
				printSuccess(w, "Tagged %s as %s", plural(len(ids), "drawing"), what)
			}
			printFile(w, dest)
			return nil
		},
	}
	cmd.Flags().BoolVar(&wall, "wall", false, "tag as wall")
	cmd.Flags().BoolVar(&door, "door", false, "tag as door")
	cmd.Flags().BoolVar(&off, "off", false, "remove the tag instead of setting it")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of the input")
	cmd.MarkFlagsOneRequired("wall", "door")
	cmd.MarkFlagsMutuallyExclusive("wall", "door")
	return cmd
}
