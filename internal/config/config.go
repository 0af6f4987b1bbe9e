// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Candystore Contributors

// Package config loads server configuration from an optional YAML file with
// command-line flags layered on top.
package config

import (
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/candystore/candystore/internal/auth"
)

// Config holds the candystore server configuration.
type Config struct {
	DatabaseURL    string        `koanf:"database_url"`
	MetricsAddr    string        `koanf:"metrics_addr"`
	LogFormat      string        `koanf:"log_format"`
	TokenTTL       time.Duration `koanf:"token_ttl"`
	HashIterations int           `koanf:"hash_iterations"`
	AutoMigrate    bool          `koanf:"auto_migrate"`
}

// Default returns the configuration used when neither file nor flags set a value.
func Default() Config {
	return Config{
		MetricsAddr:    ":9090",
		LogFormat:      "json",
		TokenTTL:       auth.DefaultTokenTTL,
		HashIterations: auth.DefaultHashIterations,
	}
}

// Load reads configuration from the YAML file at path (skipped when path is
// empty) and overlays any flags changed on the command line. Flag names use
// dashes; they map to the underscore keys in the file.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("path", path).Wrap(err)
		}
	}

	if flags != nil {
		provider := posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "flags").Wrap(err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_PARSE_FAILED").Wrap(err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database_url is required")
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return oops.Code("CONFIG_INVALID").Errorf("log_format must be json or text, got %q", c.LogFormat)
	}
	if c.TokenTTL <= 0 {
		return oops.Code("CONFIG_INVALID").Errorf("token_ttl must be positive")
	}
	if c.HashIterations < 1 {
		return oops.Code("CONFIG_INVALID").Errorf("hash_iterations must be positive")
	}
	return nil
}
