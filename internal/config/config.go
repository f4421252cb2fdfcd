// SPDX-FileCopyrightText: 2026 The Lading Authors
// SPDX-License-Identifier: EUPL-1.2

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// DefaultRepositoryURL is the package repository queried when no other source
// is configured.
const DefaultRepositoryURL = "https://raw.githubusercontent.com/Gohncena/packagemgr/main/packages"

// DefaultHistoryLimit caps how many transactions the history command shows by
// default.
const DefaultHistoryLimit = 20

// Config is the user configuration read from config.toml. Every field is
// optional; zero values fall back to the defaults.
type Config struct {
	Repository   string `toml:"repository"`
	DataDir      string `toml:"data_dir"`
	HistoryLimit int    `toml:"history_limit"`
}

// LedgerPath is where the installed-package database lives.
func (c *Config) LedgerPath() string {
	return filepath.Join(c.DataDir, "ledger.db")
}

// CacheDir holds fetched archives and the index copy.
func (c *Config) CacheDir() string {
	return filepath.Join(c.DataDir, "cache")
}

// PathResolver provides the paths the loader reads from.
type PathResolver interface {
	ConfigFilePath() string
	DataDir() string
}

// DefaultPathResolver implements PathResolver using the XDG paths.
type DefaultPathResolver struct{}

// ConfigFilePath returns the path to the user's config.toml.
func (DefaultPathResolver) ConfigFilePath() string {
	return filepath.Join(GetXDGConfigHome(), "lading", "config.toml")
}

// DataDir returns the default data root.
func (DefaultPathResolver) DataDir() string {
	return GetLadingPath()
}

// Load reads the user configuration from the default location. A missing
// config file is not an error; defaults apply.
func Load() (*Config, error) {
	return LoadWithResolver(DefaultPathResolver{})
}

// LoadWithResolver reads the configuration through a custom path resolver.
func LoadWithResolver(resolver PathResolver) (*Config, error) {
	cfg := &Config{
		Repository:   DefaultRepositoryURL,
		DataDir:      resolver.DataDir(),
		HistoryLimit: DefaultHistoryLimit,
	}

	data, err := os.ReadFile(resolver.ConfigFilePath())
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Explicit empty values in the file fall back to the defaults too.
	if cfg.Repository == "" {
		cfg.Repository = DefaultRepositoryURL
	}

	if cfg.DataDir == "" {
		cfg.DataDir = resolver.DataDir()
	}

	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = DefaultHistoryLimit
	}

	return cfg, nil
}
