// SPDX-FileCopyrightText: 2026 The Lading Authors
// SPDX-License-Identifier: EUPL-1.2

package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gohncena/lading/internal/domain"
	"github.com/gohncena/lading/internal/logging"
)

// Transactor executes confirmed plans against the installer and the ledger.
// The transaction log is optional; a nil log disables history.
type Transactor struct {
	installer domain.Installer
	ledger    domain.Ledger
	log       domain.TransactionLog
}

// NewTransactor creates a Transactor.
func NewTransactor(installer domain.Installer, ledger domain.Ledger, log domain.TransactionLog) *Transactor {
	return &Transactor{
		installer: installer,
		ledger:    ledger,
		log:       log,
	}
}

// Execute runs the plan: installs in catalog order, then removals. An empty
// plan returns immediately without calling confirm; otherwise confirm is
// called exactly once and a false answer cancels with no side effects. A nil
// confirm runs the plan unprompted. Step failures never abort the batch and
// never escape as errors; each becomes a StepResult.
func (t *Transactor) Execute(ctx context.Context, plan domain.Plan, confirm func() bool) domain.Outcome {
	if plan.IsEmpty() {
		return domain.Outcome{}
	}

	if confirm != nil && !confirm() {
		return domain.Outcome{Cancelled: true}
	}

	started := time.Now()
	outcome := domain.Outcome{ID: uuid.NewString()}

	for _, step := range plan.Steps() {
		outcome.Steps = append(outcome.Steps, t.ExecuteStep(ctx, step))
	}

	t.Record(ctx, plan, outcome, started)

	return outcome
}

// ExecuteStep runs a single plan step and updates the catalog entry it
// aliases. This is the unit the progress screen drives; Execute is built on
// it.
func (t *Transactor) ExecuteStep(ctx context.Context, step domain.PlanStep) domain.StepResult {
	entry := step.Entry
	result := domain.StepResult{Name: entry.Record.Name, Action: step.Action}

	var err error

	switch step.Action {
	case domain.ActionInstall:
		err = t.install(ctx, entry)
	case domain.ActionRemove:
		err = t.remove(ctx, entry, false)
	case domain.ActionPurge:
		err = t.remove(ctx, entry, true)
	case domain.ActionNone:
	}

	// The mark is consumed whether the step succeeded or not.
	entry.Pending = domain.ActionNone

	if err != nil {
		logging.Warn("transaction step failed",
			zap.String("package", result.Name),
			zap.Stringer("action", result.Action),
			zap.Error(err),
		)

		result.Message = err.Error()

		return result
	}

	result.Succeeded = true

	return result
}

func (t *Transactor) install(ctx context.Context, entry *domain.CatalogEntry) error {
	archive, err := t.installer.Fetch(ctx, entry.Record)
	if err != nil {
		return err
	}

	files, err := t.installer.Extract(ctx, archive, entry.Record.Name, entry.Record.Version)
	if err != nil {
		return err
	}

	record := entry.Record.WithFiles(files)
	if err := t.ledger.Add(ctx, record); err != nil {
		return fmt.Errorf("recording install: %w", err)
	}

	entry.Record = record
	entry.Installed = true

	return nil
}

func (t *Transactor) remove(ctx context.Context, entry *domain.CatalogEntry, purge bool) error {
	name := entry.Record.Name

	if purge {
		if err := t.installer.PurgeResidue(ctx, name); err != nil {
			return err
		}
	} else if err := t.installer.DeleteInstalledFiles(ctx, name, entry.Record.Version); err != nil {
		return err
	}

	if err := t.ledger.Remove(ctx, name); err != nil {
		return fmt.Errorf("recording removal: %w", err)
	}

	entry.Installed = false
	entry.Record.Files = nil

	return nil
}

// Record appends the batch to the transaction log. Execute calls it once at
// the end; callers driving steps themselves via ExecuteStep do the same.
// History is best effort; a write failure is logged and forgotten.
func (t *Transactor) Record(ctx context.Context, plan domain.Plan, outcome domain.Outcome, started time.Time) {
	if t.log == nil {
		return
	}

	txn := domain.TransactionRecord{
		ID:         outcome.ID,
		StartedAt:  started,
		FinishedAt: time.Now(),
		Installs:   len(plan.Installs),
		Removals:   len(plan.Removals),
		Failures:   outcome.Failures(),
		Steps:      outcome.Steps,
	}

	if err := t.log.RecordTransaction(ctx, txn); err != nil {
		logging.Warn("recording transaction failed", zap.String("id", txn.ID), zap.Error(err))
	}
}
