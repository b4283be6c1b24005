// Package config handles startup configuration: command-line flags plus an
// optional TOML file, flags always winning. See spec.md §6 / SPEC_FULL.md
// §6.
package config

import (
	"flag"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/op/go-logging"
)

// Config holds the engine's tunable startup parameters.
type Config struct {
	TTMiBs       int
	DefaultMoveMs int
	LogLevel      string
}

// DefaultConfig returns the built-in defaults used when no flag or config
// file overrides them.
func DefaultConfig() Config {
	return Config{
		TTMiBs:        64,
		DefaultMoveMs: 1000,
		LogLevel:      "INFO",
	}
}

// fileConfig mirrors Config's fields as they appear in an optional TOML
// file; absence of the file is not an error.
type fileConfig struct {
	TTMiBs        int    `toml:"tt_mibs"`
	DefaultMoveMs int    `toml:"default_move_ms"`
	LogLevel      string `toml:"log_level"`
}

// Load builds a Config from defaults, then an optional TOML file named by
// a `--config <path>` (or `-config`, `--config=<path>`) anywhere in args,
// then the command-line flags, each layer overriding the previous. Flags
// always win over the file; a missing config file is not an error, but a
// file that exists and fails to decode is.
func Load(args []string) (Config, error) {
	cfg := DefaultConfig()
	configPath := extractConfigFlag(args)

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			var fc fileConfig
			if _, err := toml.DecodeFile(configPath, &fc); err != nil {
				return cfg, err
			}
			if fc.TTMiBs > 0 {
				cfg.TTMiBs = fc.TTMiBs
			}
			if fc.DefaultMoveMs > 0 {
				cfg.DefaultMoveMs = fc.DefaultMoveMs
			}
			if fc.LogLevel != "" {
				cfg.LogLevel = fc.LogLevel
			}
		}
	}

	fs := flag.NewFlagSet("corvid", flag.ContinueOnError)
	ttMiBs := fs.Int("ttMbs", cfg.TTMiBs, "transposition table size in mebibytes")
	moveMs := fs.Int("moveMs", cfg.DefaultMoveMs, "default think time in milliseconds")
	logLevel := fs.String("logLevel", cfg.LogLevel, "log level: DEBUG, INFO, WARNING, ERROR")
	fs.String("config", configPath, "path to an optional TOML config file")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	cfg.TTMiBs = *ttMiBs
	cfg.DefaultMoveMs = *moveMs
	cfg.LogLevel = *logLevel
	return cfg, nil
}

// extractConfigFlag scans args for a "--config <path>" or "--config=<path>"
// pair ahead of the main flag.Parse pass, since the config file must be
// read before flags that override it are applied.
func extractConfigFlag(args []string) string {
	for i, a := range args {
		switch {
		case a == "--config" || a == "-config":
			if i+1 < len(args) {
				return args[i+1]
			}
		case len(a) > len("--config=") && a[:len("--config=")] == "--config=":
			return a[len("--config="):]
		}
	}
	return ""
}

// ApplyLogLevel configures the go-logging backend's level from cfg.
func ApplyLogLevel(cfg Config) {
	level, err := logging.LogLevel(cfg.LogLevel)
	if err != nil {
		level = logging.INFO
	}
	logging.SetLevel(level, "")
}
