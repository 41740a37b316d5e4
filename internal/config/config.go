// Package config loads the runtime configuration. Layers, weakest first:
// built-in defaults, the YAML config file, REVISIO_* environment variables,
// then command-line flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config is the full runtime configuration.
type Config struct {
	Listen string      `koanf:"listen" validate:"required"`
	DB     string      `koanf:"db" validate:"required"`
	Scope  ScopeConfig `koanf:"scope"`
	Sync   SyncConfig  `koanf:"sync"`
}

// ScopeConfig selects how requests map to owner scopes. In shared mode
// every request resolves to Name; in header mode the scope is read from
// the Header request header.
type ScopeConfig struct {
	Mode   string `koanf:"mode" validate:"oneof=shared header"`
	Name   string `koanf:"name" validate:"required_if=Mode shared"`
	Header string `koanf:"header" validate:"required_if=Mode header"`
}

// SyncConfig configures topic-source syncing.
type SyncConfig struct {
	Repos string `koanf:"repos" validate:"required"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Listen: ":8080",
		DB:     "revisio.db",
		Scope: ScopeConfig{
			Mode:   "shared",
			Name:   "shared",
			Header: "X-Scope",
		},
		Sync: SyncConfig{
			Repos: "repos",
		},
	}
}

// Load builds the configuration from the given file path (skipped when the
// file does not exist) and flag set (may be nil).
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	// Defaults go in first so later layers, including unchanged flags,
	// only override what they actually set.
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("config: load defaults: %w", err)
	}

	if path != "" {
		err := k.Load(file.Provider(path), yaml.Parser())
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load %s: %w", path, err)
		}
	}

	// REVISIO_SCOPE_MODE=header becomes scope.mode, and so on.
	err := k.Load(env.Provider("REVISIO_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "REVISIO_")), "_", ".")
	}), nil)
	if err != nil {
		return Config{}, fmt.Errorf("config: load environment: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return Config{}, fmt.Errorf("config: load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("config: invalid: %w", err)
	}
	return cfg, nil
}
