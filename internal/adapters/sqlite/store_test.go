// SPDX-FileCopyrightText: 2026 The Lading Authors
// SPDX-License-Identifier: EUPL-1.2

package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gohncena/lading/internal/domain"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "lading.db")

	store, err := NewStore(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})

	return store, dbPath
}

func TestLedgerRoundtrip(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	ctx := context.Background()

	sl := domain.PackageRecord{
		Name:         "sl",
		Version:      "5.0.2",
		Description:  "Steam Locomotive - displays a steam locomotive",
		Dependencies: []string{"ncurses"},
		Files:        []string{"bin/sl", "share/man/man1/sl.1"},
	}
	htop := domain.PackageRecord{Name: "htop", Version: "3.3.0", Description: "Interactive process viewer"}

	require.NoError(t, store.Add(ctx, sl))
	require.NoError(t, store.Add(ctx, htop))

	snapshot, err := store.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snapshot, 2)
	assert.Equal(t, sl, snapshot["sl"])
	assert.Empty(t, snapshot["htop"].Files)

	require.NoError(t, store.Remove(ctx, "htop"))

	snapshot, err = store.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snapshot, 1)
	assert.Contains(t, snapshot, "sl")
}

func TestLedgerAddReplacesVersion(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, domain.PackageRecord{Name: "zsh", Version: "5.8"}))
	require.NoError(t, store.Add(ctx, domain.PackageRecord{Name: "zsh", Version: "5.9", Files: []string{"bin/zsh"}}))

	snapshot, err := store.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snapshot, 1)
	assert.Equal(t, "5.9", snapshot["zsh"].Version)
	assert.Equal(t, []string{"bin/zsh"}, snapshot["zsh"].Files)
}

func TestLedgerRemoveMissingIsNoError(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)

	require.NoError(t, store.Remove(context.Background(), "not-there"))
}

func TestLedgerPersistsAcrossReopen(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "lading.db")
	ctx := context.Background()

	store, err := NewStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Add(ctx, domain.PackageRecord{Name: "sl", Version: "5.0.2"}))
	require.NoError(t, store.Close())

	reopened, err := NewStore(dbPath)
	require.NoError(t, err)

	defer func() {
		_ = reopened.Close()
	}()

	snapshot, err := reopened.Snapshot(ctx)
	require.NoError(t, err)
	assert.Contains(t, snapshot, "sl")
}

func TestTransactionHistory(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 14, 9, 26, 53, 589793000, time.UTC)

	for i, txn := range []domain.TransactionRecord{
		{
			ID:       "txn-old",
			Installs: 1,
			Steps: []domain.StepResult{
				{Name: "sl", Action: domain.ActionInstall, Succeeded: true},
			},
		},
		{
			ID:       "txn-mid",
			Removals: 1,
			Failures: 1,
			Steps: []domain.StepResult{
				{Name: "htop", Action: domain.ActionRemove, Message: "permission denied"},
			},
		},
		{
			ID:       "txn-new",
			Installs: 2,
			Steps: []domain.StepResult{
				{Name: "zsh", Action: domain.ActionInstall, Succeeded: true},
				{Name: "tree", Action: domain.ActionInstall, Succeeded: true},
			},
		},
	} {
		txn.StartedAt = base.Add(time.Duration(i) * time.Hour)
		txn.FinishedAt = txn.StartedAt.Add(time.Minute)
		require.NoError(t, store.RecordTransaction(ctx, txn))
	}

	newest, err := store.Transactions(ctx, 2)
	require.NoError(t, err)
	require.Len(t, newest, 2)
	assert.Equal(t, "txn-new", newest[0].ID)
	assert.Equal(t, "txn-mid", newest[1].ID)

	// Steps and times survive the roundtrip.
	require.Len(t, newest[0].Steps, 2)
	assert.Equal(t, domain.ActionInstall, newest[0].Steps[0].Action)
	assert.True(t, newest[0].Steps[0].Succeeded)
	assert.Equal(t, "permission denied", newest[1].Steps[0].Message)
	assert.True(t, newest[0].StartedAt.Equal(base.Add(2*time.Hour)))

	all, err := store.Transactions(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestTransactionHistoryEmpty(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)

	txns, err := store.Transactions(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, txns)
}
