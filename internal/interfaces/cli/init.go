package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/voxelview/vx/internal/core/manifest"
	"github.com/voxelview/vx/internal/infrastructure/manifestfile"
)

// NewInitCommand creates the init command.
func NewInitCommand(container *Container) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "init <name>",
		Short: "Scaffold a new plugin manifest",
		Long: `Init writes a starter manifest for a new plugin: one command wired to
a reader contribution, ready to edit. The file is written atomically
and validated before writing.

Examples:
  vx init my-plugin
  vx init my-plugin -o plugins/my-plugin.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			path := output
			if path == "" {
				path = name + ".yaml"
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}

			m := scaffold(name)
			if err := m.Validate(); err != nil {
				return fmt.Errorf("scaffold for %q is invalid: %w", name, err)
			}
			if err := manifestfile.Save(path, m); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✅ wrote %s\n", path)
			fmt.Fprintf(cmd.OutOrStdout(), "Next: edit the exec references, then run 'vx validate %s'\n", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output path (default <name>.yaml)")
	return cmd
}

// scaffold builds the starter manifest for a new plugin name.
func scaffold(name string) *manifest.Manifest {
	return &manifest.Manifest{
		Name:        name,
		DisplayName: name,
		Contributions: manifest.Contributions{
			Commands: []manifest.Command{
				{
					ID:    name + ".get_reader",
					Title: "Open with " + name,
					Exec:  name + ":GetReader",
				},
			},
			Readers: []manifest.Reader{
				{
					Command:          name + ".get_reader",
					FilenamePatterns: []string{"*.tif"},
				},
			},
		},
	}
}
