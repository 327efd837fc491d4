// Package config loads tool configuration from defaults, an optional
// YAML config file, and VX_-prefixed environment variables, in that
// order of precedence (later wins).
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	// PluginDirs are the directories scanned for plugin manifests.
	PluginDirs []string  `koanf:"plugin_dirs"`
	Log        LogConfig `koanf:"log"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // console, json
}

// DefaultPath returns the default config file location, or "" when the
// home directory cannot be resolved.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".vx", "config.yaml")
}

// Load reads configuration, layering the file at path (if it exists)
// and VX_ environment variables over built-in defaults.
// VX_LOG_LEVEL=debug maps to log.level; VX_PLUGIN_DIRS is a
// list separated by the OS path list separator.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	k.Set("plugin_dirs", []string{"~/.vx/plugins"})
	k.Set("log.level", "info")
	k.Set("log.format", "console")

	// A missing config file is fine; only a present but unreadable or
	// malformed one is an error.
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	if err := k.Load(env.ProviderWithValue("VX_", ".", func(s, v string) (string, any) {
		key := strings.ToLower(strings.TrimPrefix(s, "VX_"))
		// plugin_dirs keeps its underscore; only the log section
		// separator becomes a dot.
		if rest, ok := strings.CutPrefix(key, "log_"); ok {
			return "log." + rest, v
		}
		if key == "plugin_dirs" {
			return key, strings.Split(v, string(os.PathListSeparator))
		}
		return key, v
	}), nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ExpandPath expands a leading ~/ to the user home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
