// SPDX-FileCopyrightText: 2026 The Lading Authors
// SPDX-License-Identifier: EUPL-1.2

package models

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/gohncena/lading/internal/application"
	"github.com/gohncena/lading/internal/domain"
	"github.com/gohncena/lading/internal/tui/styles"
)

// Progress bar width bounds.
const (
	minBarWidth = 15
	maxBarWidth = 60
)

// stepDoneMsg reports one finished transaction step.
type stepDoneMsg struct {
	index  int
	result domain.StepResult
}

// batchRecordedMsg signals that the batch was written to the history log.
type batchRecordedMsg struct{}

// Apply is the transaction screen: it drives the confirmed plan one step at a
// time and shows each result as it lands.
type Apply struct {
	ctx        context.Context //nolint:containedctx // Parent context for command cancellation
	styles     *styles.Styles
	transactor *application.Transactor

	plan    domain.Plan
	steps   []domain.PlanStep
	results []domain.StepResult
	current int

	spinner spinner.Model
	bar     progress.Model

	batchID string
	started time.Time
	done    bool

	width  int
	height int
}

// NewApply creates the transaction screen for a confirmed plan.
func NewApply(ctx context.Context, styleConfig *styles.Styles, transactor *application.Transactor, plan domain.Plan, width, height int) *Apply {
	stepSpinner := spinner.New()
	stepSpinner.Spinner = spinner.Dot
	stepSpinner.Style = lipgloss.NewStyle().Foreground(styleConfig.Primary)

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = barWidth(width)

	return &Apply{
		ctx:        ctx,
		styles:     styleConfig,
		transactor: transactor,
		plan:       plan,
		steps:      plan.Steps(),
		spinner:    stepSpinner,
		bar:        bar,
		batchID:    uuid.NewString(),
		started:    time.Now(),
		width:      width,
		height:     height,
	}
}

// Init starts the spinner and the first step.
func (m *Apply) Init() tea.Cmd {
	if len(m.steps) == 0 {
		m.done = true

		return nil
	}

	return tea.Batch(m.spinner.Tick, m.runStep(0))
}

// runStep executes one plan step off the update loop.
func (m *Apply) runStep(index int) tea.Cmd {
	step := m.steps[index]

	return func() tea.Msg {
		return stepDoneMsg{index: index, result: m.transactor.ExecuteStep(m.ctx, step)}
	}
}

// recordBatch writes the finished batch to the history log. The outcome is
// snapshotted here so the command goroutine reads no model state.
func (m *Apply) recordBatch() tea.Cmd {
	outcome := domain.Outcome{ID: m.batchID, Steps: slices.Clone(m.results)}
	plan, started := m.plan, m.started

	return func() tea.Msg {
		m.transactor.Record(m.ctx, plan, outcome, started)

		return batchRecordedMsg{}
	}
}

// Update handles messages for the apply screen.
func (m *Apply) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stepDoneMsg:
		return m.handleStepDone(msg)
	case batchRecordedMsg:
		return m, nil
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = barWidth(msg.Width)

		return m, nil
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}

		var cmd tea.Cmd

		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m *Apply) handleStepDone(msg stepDoneMsg) (tea.Model, tea.Cmd) {
	m.results = append(m.results, msg.result)
	m.current = msg.index + 1

	if m.current < len(m.steps) {
		return m, m.runStep(m.current)
	}

	m.done = true

	return m, m.recordBatch()
}

func (m *Apply) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.done {
		return m, nil
	}

	switch msg.String() {
	case "esc", "enter":
		return m, navigateTo(BrowseScreen, RefreshCatalogData)
	}

	return m, nil
}

// View renders the apply screen.
func (m *Apply) View() string {
	var builder strings.Builder

	builder.WriteString(m.renderHeader())
	builder.WriteString("\n\n")

	for index := range m.steps {
		builder.WriteString(m.renderStep(index))
		builder.WriteString("\n")
	}

	builder.WriteString("\n")
	builder.WriteString(fmt.Sprintf("Overall: %d/%d\n", len(m.results), len(m.steps)))
	builder.WriteString(m.bar.ViewAs(m.fraction()))
	builder.WriteString("\n\n")

	if m.done {
		builder.WriteString(m.renderSummary())
		builder.WriteString("\n")
		builder.WriteString(m.styles.MutedText.Render("esc/enter: back to package list"))
	} else {
		builder.WriteString(m.styles.MutedText.Render(fmt.Sprintf("Elapsed: %s", time.Since(m.started).Round(time.Second))))
	}

	return builder.String()
}

func (m *Apply) renderHeader() string {
	title := "⚬ Applying Changes"
	if m.done {
		title = "✓ Transaction Complete"
		if m.failures() > 0 {
			title = "✗ Transaction Finished With Errors"
		}
	}

	subtitle := m.renderCounts()

	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Title.Render(title),
		m.styles.Subtitle.Render(subtitle),
	)
}

func (m *Apply) renderCounts() string {
	installs := len(m.plan.Installs)
	removals := len(m.plan.Removals)

	switch {
	case installs > 0 && removals > 0:
		return fmt.Sprintf("Installing %d, removing %d packages", installs, removals)
	case removals > 0:
		return fmt.Sprintf("Removing %d packages", removals)
	default:
		return fmt.Sprintf("Installing %d packages", installs)
	}
}

// renderStep formats one step line: results as they landed, a spinner on the
// running step, pending steps dimmed.
func (m *Apply) renderStep(index int) string {
	step := m.steps[index]
	name := step.Entry.Record.Name

	if index < len(m.results) {
		result := m.results[index]
		if result.Succeeded {
			line := fmt.Sprintf("Successfully %s %s", pastParticiple(step.Action), name)

			return m.styles.StatusIcon("success") + " " + m.styles.SuccessText.Render(line)
		}

		line := fmt.Sprintf("Error %s %s: %s", strings.ToLower(progressiveVerb(step.Action)), name, result.Message)

		return m.styles.StatusIcon("error") + " " + m.styles.ErrorText.Render(line)
	}

	if index == m.current && !m.done {
		return m.spinner.View() + fmt.Sprintf("%s %s...", progressiveVerb(step.Action), name)
	}

	return m.styles.StatusIcon("pending") + " " + m.styles.MutedText.Render(fmt.Sprintf("%s %s", imperativeVerb(step.Action), name))
}

func (m *Apply) renderSummary() string {
	failed := m.failures()
	if failed > 0 {
		return m.styles.ErrorText.Render(fmt.Sprintf("Applied %d changes, %d failed", len(m.results), failed))
	}

	return m.styles.SuccessText.Render(fmt.Sprintf("Applied %d changes", len(m.results)))
}

func (m *Apply) fraction() float64 {
	if len(m.steps) == 0 {
		return 1.0
	}

	return float64(len(m.results)) / float64(len(m.steps))
}

func (m *Apply) failures() int {
	failed := 0

	for _, result := range m.results {
		if !result.Succeeded {
			failed++
		}
	}

	return failed
}

func progressiveVerb(action domain.ActionState) string {
	switch action {
	case domain.ActionRemove:
		return "Removing"
	case domain.ActionPurge:
		return "Purging"
	case domain.ActionInstall, domain.ActionNone:
	}

	return "Installing"
}

func pastParticiple(action domain.ActionState) string {
	switch action {
	case domain.ActionRemove:
		return "removed"
	case domain.ActionPurge:
		return "purged"
	case domain.ActionInstall, domain.ActionNone:
	}

	return "installed"
}

func imperativeVerb(action domain.ActionState) string {
	switch action {
	case domain.ActionRemove:
		return "Remove"
	case domain.ActionPurge:
		return "Purge"
	case domain.ActionInstall, domain.ActionNone:
	}

	return "Install"
}

func barWidth(width int) int {
	bar := width - 10

	if bar < minBarWidth {
		return minBarWidth
	}

	if bar > maxBarWidth {
		return maxBarWidth
	}

	return bar
}
