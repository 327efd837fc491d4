// Package cli wires the vx command tree: tooling around Voxelview
// plugin manifests (validate, list, match, show, init, watch, browse).
package cli

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/voxelview/vx/internal/builtins"
	"github.com/voxelview/vx/internal/core/registry"
	"github.com/voxelview/vx/internal/infrastructure/config"
	"github.com/voxelview/vx/internal/infrastructure/discovery"
	"github.com/voxelview/vx/internal/infrastructure/logging"
)

var (
	Version   = "dev"     // Overridden by ldflags
	BuildTime = "unknown" // Overridden by ldflags
)

// Container holds the dependencies shared by all CLI commands. It is
// populated by the root command's PersistentPreRunE.
type Container struct {
	Config   *config.Config
	Registry *registry.Registry
	Scanner  *discovery.Scanner
}

// PopulateRegistry discovers installed plugin manifests (plus the
// embedded builtins unless skipped) into the container's registry and
// returns the manifests that could not be registered.
func (c *Container) PopulateRegistry(ctx context.Context, withBuiltins bool) ([]discovery.Problem, error) {
	if withBuiltins {
		if err := builtins.Register(c.Registry); err != nil {
			return nil, fmt.Errorf("register builtins: %w", err)
		}
	}
	_, problems, err := c.Scanner.Populate(ctx, c.Registry)
	return problems, err
}

// NewRootCommand builds the vx command tree.
func NewRootCommand(container *Container) *cobra.Command {
	var (
		configPath string
		pluginDirs []string
		logLevel   string
	)

	rootCmd := &cobra.Command{
		Use:   "vx",
		Short: "Voxelview plugin manifest tooling",
		Long: `vx inspects, validates, and scaffolds Voxelview plugin manifests.

A plugin contributes commands, file readers, file writers, sample
datasets, widgets, and menu placements through a declarative YAML
manifest. vx is the tooling side of that contract: it validates
manifests, shows which reader opens a file, which writers can save a
set of layers, and watches plugin directories for changes.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path := configPath
			if path == "" {
				path = config.DefaultPath()
			}
			cfg, err := config.Load(path)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if len(pluginDirs) > 0 {
				cfg.PluginDirs = pluginDirs
			}
			if logLevel != "" {
				cfg.Log.Level = logLevel
			}

			logging.Configure(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

			container.Config = cfg
			container.Registry = registry.New()
			container.Scanner = discovery.NewScanner(cfg.PluginDirs)
			return nil
		},
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf("{{.Name}} version {{.Version}}\nBuild time: %s\nGo version: %s\nPlatform: %s/%s\n",
		BuildTime, goVersion(), runtime.GOOS, runtime.GOARCH))

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default is $HOME/.vx/config.yaml)")
	rootCmd.PersistentFlags().StringSliceVar(&pluginDirs, "plugin-dir", nil, "Plugin manifest directory (repeatable, overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(NewValidateCommand(container))
	rootCmd.AddCommand(NewListCommand(container))
	rootCmd.AddCommand(NewMatchCommand(container))
	rootCmd.AddCommand(NewShowCommand(container))
	rootCmd.AddCommand(NewInitCommand(container))
	rootCmd.AddCommand(NewWatchCommand(container))
	rootCmd.AddCommand(NewBrowseCommand(container))

	return rootCmd
}

// goVersion returns the Go version used to build the binary
func goVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.GoVersion
	}
	return "unknown"
}

// Execute runs the vx command tree.
func Execute() {
	rootCmd := NewRootCommand(&Container{})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
