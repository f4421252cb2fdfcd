// SPDX-FileCopyrightText: 2026 The Lading Authors
// SPDX-License-Identifier: EUPL-1.2

// Package domain contains the package selection and transaction engine:
// catalog merging, viewport cursor math, pending-action tracking, search
// resolution, and the transaction plan model.
package domain

import (
	"errors"
	"strings"
)

var (
	// ErrCatalogUnavailable indicates the package index could not be retrieved or parsed.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	// ErrFetchFailed indicates a package archive could not be downloaded.
	ErrFetchFailed = errors.New("fetch failed")
	// ErrExtractFailed indicates a fetched archive could not be unpacked.
	ErrExtractFailed = errors.New("extract failed")
	// ErrAlreadyInstalled indicates an install mark was requested for an installed package.
	ErrAlreadyInstalled = errors.New("already installed")
	// ErrNotInstalled indicates a remove mark was requested for a package that is not installed.
	ErrNotInstalled = errors.New("not installed")
)

// PackageRecord describes one package version as published in the index.
// Records are immutable once constructed; Files is populated only after an
// install step has extracted the archive.
type PackageRecord struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	Description  string   `json:"description"`
	Dependencies []string `json:"dependencies,omitempty"`
	Files        []string `json:"files,omitempty"`
}

// IsValid reports whether the record carries the fields every index entry must have.
func (r PackageRecord) IsValid() bool {
	return strings.TrimSpace(r.Name) != "" && strings.TrimSpace(r.Version) != ""
}

// WithFiles returns a copy of the record carrying the extracted file list.
func (r PackageRecord) WithFiles(files []string) PackageRecord {
	r.Files = files

	return r
}

// Archive is a handle to a fetched package archive on local disk.
type Archive struct {
	Path string
}
