package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewShowCommand creates the show command.
func NewShowCommand(container *Container) *cobra.Command {
	var withBuiltins bool

	cmd := &cobra.Command{
		Use:   "show <plugin>",
		Short: "Print a plugin's manifest as normalized YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := container.PopulateRegistry(cmd.Context(), withBuiltins); err != nil {
				return err
			}

			m, ok := container.Registry.Manifest(args[0])
			if !ok {
				return fmt.Errorf("plugin %q is not installed (try 'vx list')", args[0])
			}
			return m.Encode(cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&withBuiltins, "builtins", true, "Include the viewer's builtin contributions")
	return cmd
}
