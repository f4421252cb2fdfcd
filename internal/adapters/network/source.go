// SPDX-FileCopyrightText: 2026 The Lading Authors
// SPDX-License-Identifier: EUPL-1.2

// Package network implements the catalog source port: package index retrieval
// over HTTP with an on-disk cache as fallback.
package network

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/gohncena/lading/internal/domain"
	"github.com/gohncena/lading/internal/logging"
)

// indexTimeout bounds one index request.
const indexTimeout = 10 * time.Second

// indexFile is the index name under the repository root and in the cache.
const indexFile = "index.json"

// Source fetches the package index from `<repository>/index.json`. Every
// successful fetch refreshes the cache copy; when the repository is
// unreachable the cache serves instead, and only when both fail does
// ListAvailable report ErrCatalogUnavailable.
type Source struct {
	client   *http.Client
	repoURL  string
	cacheDir string
}

// NewSource creates a Source for the repository URL, caching under cacheDir.
func NewSource(repoURL, cacheDir string) *Source {
	return &Source{
		client: &http.Client{
			Timeout: indexTimeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
			},
		},
		repoURL:  strings.TrimRight(repoURL, "/"),
		cacheDir: cacheDir,
	}
}

// ListAvailable implements domain.CatalogSource.
func (s *Source) ListAvailable(ctx context.Context) ([]domain.PackageRecord, error) {
	records, err := s.fromRepository(ctx)
	if err == nil {
		return records, nil
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	logging.Debug("index fetch failed, trying cache", zap.String("repo", s.repoURL), zap.Error(err))

	cached, cacheErr := s.fromCache()
	if cacheErr != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}

	logging.Info("serving package index from cache", zap.String("path", s.cachePath()))

	return cached, nil
}

// Refresh re-fetches the index from the repository and rewrites the cached
// copy. Unlike ListAvailable it never falls back to cached data.
func (s *Source) Refresh(ctx context.Context) ([]domain.PackageRecord, error) {
	records, err := s.fromRepository(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}

	return records, nil
}

func (s *Source) fromRepository(ctx context.Context) ([]domain.PackageRecord, error) {
	url := s.repoURL + "/" + indexFile

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch index: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("index fetch failed with status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read index: %w", err)
	}

	records, err := parseIndex(data)
	if err != nil {
		return nil, err
	}

	s.writeCache(data)

	return records, nil
}

func (s *Source) fromCache() ([]domain.PackageRecord, error) {
	data, err := os.ReadFile(s.cachePath())
	if err != nil {
		return nil, fmt.Errorf("failed to read cached index: %w", err)
	}

	return parseIndex(data)
}

// writeCache keeps a copy of the last good index. Best effort: a failed write
// costs only the offline fallback.
func (s *Source) writeCache(data []byte) {
	if err := os.MkdirAll(s.cacheDir, 0o755); err != nil {
		logging.Debug("failed to create cache directory", zap.Error(err))

		return
	}

	if err := os.WriteFile(s.cachePath(), data, 0o644); err != nil {
		logging.Debug("failed to write index cache", zap.Error(err))
	}
}

func (s *Source) cachePath() string {
	return filepath.Join(s.cacheDir, indexFile)
}

func parseIndex(data []byte) ([]domain.PackageRecord, error) {
	var records []domain.PackageRecord

	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse index: %w", err)
	}

	return records, nil
}
