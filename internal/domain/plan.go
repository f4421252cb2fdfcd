// SPDX-FileCopyrightText: 2026 The Lading Authors
// SPDX-License-Identifier: EUPL-1.2

package domain

import "time"

// PlanStep is one pending operation bound to its catalog entry.
type PlanStep struct {
	Action ActionState
	Entry  *CatalogEntry
}

// Plan partitions pending actions into the install set and the remove set.
// Purge steps travel in the remove set. Catalog order is preserved within
// each set, and installs always execute before removals.
type Plan struct {
	Installs []PlanStep
	Removals []PlanStep
}

// BuildPlan collects the pending actions of the catalog. Building a plan
// mutates nothing.
func BuildPlan(c *Catalog) Plan {
	var plan Plan

	for i := range c.entries {
		entry := &c.entries[i]

		switch entry.Pending {
		case ActionInstall:
			plan.Installs = append(plan.Installs, PlanStep{Action: ActionInstall, Entry: entry})
		case ActionRemove, ActionPurge:
			plan.Removals = append(plan.Removals, PlanStep{Action: entry.Pending, Entry: entry})
		case ActionNone:
		}
	}

	return plan
}

// IsEmpty reports whether the plan contains no steps.
func (p Plan) IsEmpty() bool {
	return len(p.Installs) == 0 && len(p.Removals) == 0
}

// Steps returns the full execution sequence: installs first, then removals.
func (p Plan) Steps() []PlanStep {
	steps := make([]PlanStep, 0, len(p.Installs)+len(p.Removals))
	steps = append(steps, p.Installs...)

	return append(steps, p.Removals...)
}

// StepResult records the outcome of a single executed step.
type StepResult struct {
	Name      string      `json:"name"`
	Action    ActionState `json:"action"`
	Succeeded bool        `json:"succeeded"`
	Message   string      `json:"message,omitempty"`
}

// Outcome is the aggregate result of executing one plan. ID is empty unless
// at least one step ran.
type Outcome struct {
	ID        string
	Cancelled bool
	Steps     []StepResult
}

// Failures counts the failed steps.
func (o Outcome) Failures() int {
	var failed int

	for _, step := range o.Steps {
		if !step.Succeeded {
			failed++
		}
	}

	return failed
}

// TransactionRecord is one executed batch as kept by the transaction log.
type TransactionRecord struct {
	ID         string       `json:"id"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Installs   int          `json:"installs"`
	Removals   int          `json:"removals"`
	Failures   int          `json:"failures"`
	Steps      []StepResult `json:"steps,omitempty"`
}
