// SPDX-FileCopyrightText: 2026 The Lading Authors
// SPDX-License-Identifier: EUPL-1.2

package domain

import "context"

// CatalogSource retrieves the remote package index.
type CatalogSource interface {
	// ListAvailable returns every package published in the index. It fails
	// with ErrCatalogUnavailable when the index can neither be retrieved
	// nor parsed; callers must tolerate that by substituting a cached or
	// built-in list, never by crashing.
	ListAvailable(ctx context.Context) ([]PackageRecord, error)
}

// Ledger persists the set of installed packages. Format and location are the
// implementation's concern.
type Ledger interface {
	// Snapshot returns the installed packages keyed by name.
	Snapshot(ctx context.Context) (map[string]PackageRecord, error)
	// Add records a package as installed, replacing any previous version.
	Add(ctx context.Context, rec PackageRecord) error
	// Remove deletes the named package from the ledger.
	Remove(ctx context.Context, name string) error
}

// Installer fetches, unpacks, and deletes package payloads on local disk.
type Installer interface {
	// Fetch downloads the archive for the record, failing with ErrFetchFailed
	// on any transport error.
	Fetch(ctx context.Context, rec PackageRecord) (Archive, error)
	// Extract unpacks the archive into the slot for (name, version) and
	// returns the relative paths of the extracted files. Fails with
	// ErrExtractFailed on any unpacking error.
	Extract(ctx context.Context, archive Archive, name, version string) ([]string, error)
	// DeleteInstalledFiles removes the installed payload for (name, version).
	// Missing files are not an error.
	DeleteInstalledFiles(ctx context.Context, name, version string) error
	// PurgeResidue removes every version and residual file of the named
	// package.
	PurgeResidue(ctx context.Context, name string) error
}

// TransactionLog keeps a history of executed batches.
type TransactionLog interface {
	// RecordTransaction appends one executed batch to the log.
	RecordTransaction(ctx context.Context, txn TransactionRecord) error
	// Transactions returns the most recent batches, newest first.
	Transactions(ctx context.Context, limit int) ([]TransactionRecord, error)
}
