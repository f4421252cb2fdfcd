// SPDX-FileCopyrightText: 2026 The Lading Authors
// SPDX-License-Identifier: EUPL-1.2

// Package application orchestrates the domain core against the ports:
// catalog loading and transaction execution.
package application

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/gohncena/lading/internal/domain"
	"github.com/gohncena/lading/internal/logging"
)

// CatalogService rebuilds the merged catalog from the index source and the
// installed-package ledger.
type CatalogService struct {
	source domain.CatalogSource
	ledger domain.Ledger
}

// NewCatalogService creates a CatalogService.
func NewCatalogService(source domain.CatalogSource, ledger domain.Ledger) *CatalogService {
	return &CatalogService{
		source: source,
		ledger: ledger,
	}
}

// LoadResult carries a rebuilt catalog plus how its records were obtained.
type LoadResult struct {
	Catalog      *domain.Catalog
	UsedFallback bool
}

// Load fetches the index, snapshots the ledger, and merges the two. An
// unavailable index degrades to the built-in fallback list instead of
// failing; a broken ledger is an error.
func (s *CatalogService) Load(ctx context.Context) (LoadResult, error) {
	var usedFallback bool

	records, err := s.source.ListAvailable(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrCatalogUnavailable) {
			return LoadResult{}, fmt.Errorf("listing packages: %w", err)
		}

		logging.Warn("package index unavailable, using fallback list", zap.Error(err))

		records = FallbackRecords()
		usedFallback = true
	}

	installed, err := s.ledger.Snapshot(ctx)
	if err != nil {
		return LoadResult{}, fmt.Errorf("reading ledger: %w", err)
	}

	return LoadResult{
		Catalog:      domain.BuildCatalog(records, installed),
		UsedFallback: usedFallback,
	}, nil
}

// FallbackRecords is the built-in package list used when neither the remote
// index nor a cached copy can be read.
func FallbackRecords() []domain.PackageRecord {
	return []domain.PackageRecord{
		{
			Name:        "sl",
			Version:     "5.0.2",
			Description: "Steam Locomotive - displays a steam locomotive",
		},
	}
}
