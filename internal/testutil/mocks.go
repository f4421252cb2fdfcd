// SPDX-FileCopyrightText: 2026 The Lading Authors
// SPDX-License-Identifier: EUPL-1.2

// Package testutil provides shared mocks for the domain ports.
package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/gohncena/lading/internal/domain"
)

// MockCatalogSource mocks the CatalogSource port for testing.
type MockCatalogSource struct {
	mock.Mock
}

// ListAvailable mocks fetching the package index.
func (m *MockCatalogSource) ListAvailable(ctx context.Context) ([]domain.PackageRecord, error) {
	args := m.Called(ctx)
	if result := args.Get(0); result != nil {
		records, ok := result.([]domain.PackageRecord)
		if !ok {
			return nil, args.Error(1)
		}

		return records, args.Error(1)
	}

	return nil, args.Error(1)
}

// MockLedger mocks the Ledger port for testing.
type MockLedger struct {
	mock.Mock
}

// Snapshot mocks reading the installed set.
func (m *MockLedger) Snapshot(ctx context.Context) (map[string]domain.PackageRecord, error) {
	args := m.Called(ctx)
	if result := args.Get(0); result != nil {
		snapshot, ok := result.(map[string]domain.PackageRecord)
		if !ok {
			return nil, args.Error(1)
		}

		return snapshot, args.Error(1)
	}

	return nil, args.Error(1)
}

// Add mocks recording an install.
func (m *MockLedger) Add(ctx context.Context, rec domain.PackageRecord) error {
	args := m.Called(ctx, rec)

	return args.Error(0)
}

// Remove mocks deleting a ledger entry.
func (m *MockLedger) Remove(ctx context.Context, name string) error {
	args := m.Called(ctx, name)

	return args.Error(0)
}

// MockInstaller mocks the Installer port for testing.
type MockInstaller struct {
	mock.Mock
}

// Fetch mocks downloading a package archive.
func (m *MockInstaller) Fetch(ctx context.Context, rec domain.PackageRecord) (domain.Archive, error) {
	args := m.Called(ctx, rec)
	if result := args.Get(0); result != nil {
		archive, ok := result.(domain.Archive)
		if !ok {
			return domain.Archive{}, args.Error(1)
		}

		return archive, args.Error(1)
	}

	return domain.Archive{}, args.Error(1)
}

// Extract mocks unpacking an archive.
func (m *MockInstaller) Extract(ctx context.Context, archive domain.Archive, name, version string) ([]string, error) {
	args := m.Called(ctx, archive, name, version)
	if result := args.Get(0); result != nil {
		files, ok := result.([]string)
		if !ok {
			return nil, args.Error(1)
		}

		return files, args.Error(1)
	}

	return nil, args.Error(1)
}

// DeleteInstalledFiles mocks removing an installed payload.
func (m *MockInstaller) DeleteInstalledFiles(ctx context.Context, name, version string) error {
	args := m.Called(ctx, name, version)

	return args.Error(0)
}

// PurgeResidue mocks removing every version of a package.
func (m *MockInstaller) PurgeResidue(ctx context.Context, name string) error {
	args := m.Called(ctx, name)

	return args.Error(0)
}

// MockTransactionLog mocks the TransactionLog port for testing.
type MockTransactionLog struct {
	mock.Mock
}

// RecordTransaction mocks appending a batch to the history.
func (m *MockTransactionLog) RecordTransaction(ctx context.Context, txn domain.TransactionRecord) error {
	args := m.Called(ctx, txn)

	return args.Error(0)
}

// Transactions mocks reading recent batches.
func (m *MockTransactionLog) Transactions(ctx context.Context, limit int) ([]domain.TransactionRecord, error) {
	args := m.Called(ctx, limit)
	if result := args.Get(0); result != nil {
		records, ok := result.([]domain.TransactionRecord)
		if !ok {
			return nil, args.Error(1)
		}

		return records, args.Error(1)
	}

	return nil, args.Error(1)
}
