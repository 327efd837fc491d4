package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voxelview/vx/internal/infrastructure/manifestfile"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(container *Container) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <manifest>...",
		Short: "Validate plugin manifest files",
		Long: `Validate checks plugin manifests for static well-formedness:

  - every reader/writer/sample/widget/menu references a declared command
  - command ids are unique and namespaced under the plugin name
  - writer extensions begin with a dot
  - reader filename patterns are valid glob expressions

All violations are reported, not just the first one.

Examples:
  vx validate my-plugin.yaml
  vx validate plugins/*.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			invalid := 0
			for _, path := range args {
				m, err := manifestfile.Load(path)
				if err != nil {
					fmt.Fprintf(out, "❌ %s: %v\n", path, err)
					invalid++
					continue
				}
				if err := m.Validate(); err != nil {
					fmt.Fprintf(out, "❌ %s (%s):\n", path, m.Name)
					for _, issue := range flatten(err) {
						fmt.Fprintf(out, "   - %v\n", issue)
					}
					invalid++
					continue
				}
				fmt.Fprintf(out, "✅ %s (%s)\n", path, m.Name)
			}

			if invalid > 0 {
				return fmt.Errorf("%d of %d manifests invalid", invalid, len(args))
			}
			return nil
		},
	}
}

// flatten unwraps an errors.Join result into its individual issues.
func flatten(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}
