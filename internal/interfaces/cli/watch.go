package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/voxelview/vx/internal/infrastructure/discovery"
)

// NewWatchCommand creates the watch command.
func NewWatchCommand(container *Container) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch plugin directories and log manifest changes",
		Long: `Watch performs an initial discovery scan, then keeps running and
re-registers plugins as manifest files are created, rewritten, or
removed. Stop with Ctrl-C.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			watcher := discovery.NewWatcher(container.Scanner, container.Registry)

			fmt.Fprintf(cmd.OutOrStdout(), "Watching %d plugin directories (Ctrl-C to stop)\n", len(container.Config.PluginDirs))
			_, err := watcher.Run(ctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}
