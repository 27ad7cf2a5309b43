package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gogpu/wallgen/reconcile"
	"github.com/gogpu/wallgen/scene"
	"github.com/gogpu/wallgen/walls"
)

func (c *CLI) contoursCommand() *cobra.Command {
	var (
		output string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "contours <scene.json>",
		Short: "Generate the walls of a scene file",
		Long: `Contours regenerates every wall of a scene file from the drawings tagged
as walls, with door openings cut out. Walls already in the file keep their
ids; walls of drawings that are gone or untagged are removed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := scene.ReadFile(args[0])
			if err != nil {
				return err
			}
			prog := newProgress(loggerFromContext(cmd.Context()))
			items, err := c.generate(cmd.Context(), f.Items)
			if err != nil {
				return err
			}
			f.Items = items

			w := cmd.OutOrStdout()
			if asJSON {
				return f.Encode(w)
			}
			prog.done("Generated walls")
			summarize(w, items)
			if output != "" {
				if err := f.WriteFile(output); err != nil {
					return err
				}
				printFile(w, output)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the scene with its walls to this file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the scene with its walls as JSON")
	return cmd
}

// generate rebuilds the walls of items in one reconciliation pass. Walls
// of wall drawings are kept and patched in place; walls whose drawing is
// gone or no longer tagged are dropped.
func (c *CLI) generate(ctx context.Context, items []scene.Item) ([]scene.Item, error) {
	owners := make(map[string]bool)
	for _, it := range items {
		if it.HasWalls() {
			owners[it.ID] = true
		}
	}
	kept := make([]scene.Item, 0, len(items))
	for _, it := range items {
		if !it.IsWall() || owners[it.AttachedTo] {
			kept = append(kept, it)
		}
	}
	store, err := scene.NewMemoryStore(kept...)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	engine := reconcile.New(store)
	walls.Register(engine, c.extractor())
	if err := engine.Reconcile(ctx, kept); err != nil {
		return nil, fmt.Errorf("generate walls: %w", err)
	}
	return store.Items(ctx)
}

// summarize prints the walls of every wall drawing.
func summarize(w io.Writer, items []scene.Item) {
	type stats struct{ walls, points int }
	per := make(map[string]*stats)
	doors := 0
	for _, it := range items {
		switch {
		case it.HasWalls():
			per[it.ID] = &stats{}
		case it.IsDoor():
			doors++
		}
	}
	for _, it := range items {
		if s, ok := per[it.AttachedTo]; ok && it.IsWall() {
			s.walls++
			s.points += len(it.Points)
		}
	}

	if len(per) == 0 {
		printWarning(w, "no drawings are tagged as walls")
		return
	}
	printInfo(w, "%s, %s", plural(len(per), "wall drawing"), plural(doors, "door"))
	for _, it := range items {
		s, ok := per[it.ID]
		if !ok {
			continue
		}
		name := it.ID
		if it.Name != "" {
			name = fmt.Sprintf("%s (%s)", it.Name, it.ID)
		}
		fmt.Fprintln(w, "  "+StyleTitle.Render(name))
		printStats(w, plural(s.walls, "wall"), plural(s.points, "point"))
	}
}
