// Package config loads laraguide settings from defaults, an optional
// .laraguide file, LARAGUIDE_* environment variables and command-line flags,
// in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/phobologic/laraguide/internal/analyze"
	"github.com/phobologic/laraguide/internal/bridge"
)

// FileName is the base name of the project configuration file; any
// extension viper understands is accepted.
const FileName = ".laraguide"

// EnvPrefix prefixes environment overrides, e.g. LARAGUIDE_WORKERS.
const EnvPrefix = "LARAGUIDE"

// Config holds all settings.
type Config struct {
	Exclude        []string      `mapstructure:"exclude"`
	Gitignore      bool          `mapstructure:"gitignore"`
	Workers        int           `mapstructure:"workers"`
	HierarchyCache int           `mapstructure:"hierarchy_cache"`
	Bridge         BridgeConfig  `mapstructure:"bridge"`
	Bases          analyze.Bases `mapstructure:"bases"`

	// File is the configuration file that was read, if any.
	File string `mapstructure:"-"`
}

// BridgeConfig configures the front-end analyzer processes.
type BridgeConfig struct {
	Node      string        `mapstructure:"node"`
	VueScript string        `mapstructure:"vue_script"`
	JSScript  string        `mapstructure:"js_script"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// flagKeys maps configuration keys to the flags that override them.
var flagKeys = map[string]string{
	"exclude":         "exclude",
	"gitignore":       "gitignore",
	"workers":         "workers",
	"hierarchy_cache": "hierarchy-cache",
	"bridge.node":     "node",
	"bridge.timeout":  "timeout",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("exclude", []string{})
	v.SetDefault("gitignore", false)
	v.SetDefault("workers", 1)
	v.SetDefault("hierarchy_cache", 1024)
	v.SetDefault("bridge.node", "node")
	v.SetDefault("bridge.vue_script", "resources/js/Mcp/VueAnalyzer.js")
	v.SetDefault("bridge.js_script", "resources/js/Mcp/JsAnalyzer.js")
	v.SetDefault("bridge.timeout", bridge.DefaultTimeout)
	for _, role := range []string{"model", "controller", "request", "command", "resource", "collection", "migration"} {
		v.SetDefault("bases."+role, []string{})
	}
}

// Load reads the configuration for the project at root. When file is
// empty, root/.laraguide.* is used if present. flags may be nil.
func Load(root, file string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(FileName)
		v.AddConfigPath(root)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for key, name := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding --%s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return &Error{Field: "workers", Message: "must not be negative"}
	}
	if c.Bridge.Timeout <= 0 {
		return &Error{Field: "bridge.timeout", Message: "must be positive"}
	}
	if c.HierarchyCache < 0 {
		return &Error{Field: "hierarchy_cache", Message: "must not be negative"}
	}
	return nil
}

// Script resolves a configured analyzer script path against root.
func Script(root, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, filepath.FromSlash(path))
}

// Error is a configuration value error.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
