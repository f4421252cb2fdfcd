// SPDX-FileCopyrightText: 2026 The Lading Authors
// SPDX-License-Identifier: EUPL-1.2

package application_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gohncena/lading/internal/application"
	"github.com/gohncena/lading/internal/domain"
	"github.com/gohncena/lading/internal/testutil"
)

func TestCatalogService_Load(t *testing.T) {
	t.Parallel()

	indexRecords := []domain.PackageRecord{
		{Name: "zsh", Version: "5.9", Description: "Z shell"},
		{Name: "htop", Version: "3.3.0", Description: "Interactive process viewer"},
	}

	tests := []struct {
		name         string
		setupMocks   func(*testutil.MockCatalogSource, *testutil.MockLedger)
		wantErr      bool
		wantNames    []string
		wantFallback bool
	}{
		{
			name: "merges index with ledger",
			setupMocks: func(source *testutil.MockCatalogSource, ledger *testutil.MockLedger) {
				source.On("ListAvailable", mock.Anything).Return(indexRecords, nil)
				ledger.On("Snapshot", mock.Anything).Return(map[string]domain.PackageRecord{
					"htop": {Name: "htop", Version: "3.3.0"},
				}, nil)
			},
			wantNames: []string{"htop", "zsh"},
		},
		{
			name: "unavailable index degrades to fallback list",
			setupMocks: func(source *testutil.MockCatalogSource, ledger *testutil.MockLedger) {
				source.On("ListAvailable", mock.Anything).
					Return(nil, fmt.Errorf("fetching index: %w", domain.ErrCatalogUnavailable))
				ledger.On("Snapshot", mock.Anything).Return(map[string]domain.PackageRecord{}, nil)
			},
			wantNames:    []string{"sl"},
			wantFallback: true,
		},
		{
			name: "other source errors propagate",
			setupMocks: func(source *testutil.MockCatalogSource, _ *testutil.MockLedger) {
				source.On("ListAvailable", mock.Anything).Return(nil, context.Canceled)
			},
			wantErr: true,
		},
		{
			name: "broken ledger fails the load",
			setupMocks: func(source *testutil.MockCatalogSource, ledger *testutil.MockLedger) {
				source.On("ListAvailable", mock.Anything).Return(indexRecords, nil)
				ledger.On("Snapshot", mock.Anything).Return(nil, errors.New("database is locked"))
			},
			wantErr: true,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			source := &testutil.MockCatalogSource{}
			ledger := &testutil.MockLedger{}
			testCase.setupMocks(source, ledger)

			service := application.NewCatalogService(source, ledger)

			result, err := service.Load(context.Background())

			if testCase.wantErr {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, testCase.wantNames, result.Catalog.Names())
			assert.Equal(t, testCase.wantFallback, result.UsedFallback)

			source.AssertExpectations(t)
			ledger.AssertExpectations(t)
		})
	}
}

func TestCatalogService_LoadMarksInstalledEntries(t *testing.T) {
	t.Parallel()

	source := &testutil.MockCatalogSource{}
	source.On("ListAvailable", mock.Anything).Return([]domain.PackageRecord{
		{Name: "sl", Version: "5.0.2", Description: "Steam Locomotive"},
	}, nil)

	ledger := &testutil.MockLedger{}
	ledger.On("Snapshot", mock.Anything).Return(map[string]domain.PackageRecord{
		"sl": {Name: "sl", Version: "5.0.2", Files: []string{"bin/sl"}},
	}, nil)

	result, err := application.NewCatalogService(source, ledger).Load(context.Background())

	require.NoError(t, err)
	require.Equal(t, 1, result.Catalog.Len())
	assert.True(t, result.Catalog.Entry(0).Installed)
	assert.Equal(t, 1, result.Catalog.InstalledCount())
}

func TestFallbackRecords(t *testing.T) {
	t.Parallel()

	records := application.FallbackRecords()

	require.Len(t, records, 1)
	assert.Equal(t, "sl", records[0].Name)
	assert.Equal(t, "5.0.2", records[0].Version)
	assert.True(t, records[0].IsValid())
}
