// SPDX-FileCopyrightText: 2026 The Lading Authors
// SPDX-License-Identifier: EUPL-1.2

// Package config resolves Lading's paths and reads the optional config.toml.
package config

import (
	"os"
	"path/filepath"
)

// GetLadingPath returns the data root where the ledger, cache, and installed
// payloads live.
func GetLadingPath() string {
	return GetLadingPathWithEnv(os.Getenv("LADING_PATH"), os.Getenv("XDG_DATA_HOME"))
}

// GetLadingPathWithEnv returns the data root with custom environment overrides for testing.
func GetLadingPathWithEnv(ladingPath, xdgDataHome string) string {
	if ladingPath != "" {
		return ladingPath
	}

	dataHome := GetXDGDataHomeWithEnv(xdgDataHome)
	if dataHome == "" {
		return ""
	}

	return filepath.Join(dataHome, "lading")
}

// GetXDGConfigHome returns XDG config directory.
func GetXDGConfigHome() string {
	return GetXDGConfigHomeWithEnv(os.Getenv("XDG_CONFIG_HOME"))
}

// GetXDGConfigHomeWithEnv returns XDG config directory with custom environment override for testing.
func GetXDGConfigHomeWithEnv(xdgConfigHome string) string {
	if xdgConfigHome != "" {
		return xdgConfigHome
	}

	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config")
	}

	return ""
}

// GetXDGDataHome returns XDG data directory.
func GetXDGDataHome() string {
	return GetXDGDataHomeWithEnv(os.Getenv("XDG_DATA_HOME"))
}

// GetXDGDataHomeWithEnv returns XDG data directory with custom environment override for testing.
func GetXDGDataHomeWithEnv(xdgDataHome string) string {
	if xdgDataHome != "" {
		return xdgDataHome
	}

	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share")
	}

	return ""
}
