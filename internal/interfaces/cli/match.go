package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// NewMatchCommand creates the match command.
func NewMatchCommand(container *Container) *cobra.Command {
	var (
		withBuiltins bool
		asDir        bool
		layers       []string
		writers      bool
	)

	cmd := &cobra.Command{
		Use:   "match <path>",
		Short: "Resolve which readers or writers handle a path",
		Long: `Match shows which reader contributions accept a path, most specific
pattern first. Matching is case-sensitive: sample.PNG does not match a
reader declaring *.png.

With --writers, match instead shows the writers able to save the layer
types given with --layers to the path.

Examples:
  vx match cells.tif
  vx match ./dataset.zarr --dir
  vx match out.png --writers --layers image
  vx match stack --writers --layers image,image,labels`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			problems, err := container.PopulateRegistry(cmd.Context(), withBuiltins)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, p := range problems {
				fmt.Fprintf(out, "⚠️  skipped %s: %v\n", p.Path, p.Err)
			}

			if writers {
				if len(layers) == 0 {
					return fmt.Errorf("--writers requires --layers")
				}
				matches := container.Registry.WritersFor(layers, path)
				if len(matches) == 0 {
					fmt.Fprintf(out, "❌ no writer can save [%s] to %s\n", strings.Join(layers, ","), path)
					return nil
				}
				for _, m := range matches {
					fmt.Fprintf(out, "✅ %s  %s (%s)  extensions: %s\n",
						m.Plugin, m.Writer.Command, m.Writer.DisplayName,
						strings.Join(m.Writer.FilenameExtensions, " "))
				}
				return nil
			}

			isDir := asDir
			if !isDir {
				if info, err := os.Stat(path); err == nil {
					isDir = info.IsDir()
				}
			}

			matches := container.Registry.ReadersFor(path, isDir)
			if len(matches) == 0 {
				fmt.Fprintf(out, "❌ no reader accepts %s\n", path)
				return nil
			}
			for _, m := range matches {
				via := m.Pattern
				if via == "" {
					via = "directory"
				}
				fmt.Fprintf(out, "✅ %s  %s  via %s\n", m.Plugin, m.Reader.Command, via)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&withBuiltins, "builtins", true, "Include the viewer's builtin contributions")
	cmd.Flags().BoolVar(&asDir, "dir", false, "Treat the path as a directory even if it does not exist")
	cmd.Flags().BoolVar(&writers, "writers", false, "Match writers instead of readers")
	cmd.Flags().StringSliceVar(&layers, "layers", nil, "Layer types to save (repeat for multiple layers)")
	return cmd
}
