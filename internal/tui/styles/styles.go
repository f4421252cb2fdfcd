// SPDX-FileCopyrightText: 2026 The Lading Authors
// SPDX-License-Identifier: EUPL-1.2

// Package styles defines consistent visual styling for TUI components.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the styles used in the TUI.
type Styles struct {
	// Color palette
	Primary lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color
	Muted   lipgloss.Color

	// Screen chrome
	TitleBar     lipgloss.Style
	ColumnHeader lipgloss.Style
	StatusBar    lipgloss.Style
	Footer       lipgloss.Style
	Title        lipgloss.Style
	Subtitle     lipgloss.Style

	// Package rows, keyed by entry state. Selected wins over the others.
	Selected      lipgloss.Style
	Installed     lipgloss.Style
	MarkedInstall lipgloss.Style
	MarkedRemove  lipgloss.Style
	Row           lipgloss.Style

	// Text styles (cached for performance)
	MutedText   lipgloss.Style
	SuccessText lipgloss.Style
	ErrorText   lipgloss.Style
	WarningText lipgloss.Style
	InfoText    lipgloss.Style
}

// New creates a new Styles instance with the default Tokyo Night theme. The
// row colors keep the original curses pairs: installed green, marked for
// install yellow, marked for removal red, headers cyan, selection reversed.
func New() *Styles {
	primary := lipgloss.Color("#7aa2f7")    // Blue
	success := lipgloss.Color("#9ece6a")    // Green
	warning := lipgloss.Color("#e0af68")    // Yellow
	errorColor := lipgloss.Color("#f7768e") // Red
	info := lipgloss.Color("#7dcfff")       // Cyan
	muted := lipgloss.Color("#565f89")      // Gray

	foreground := lipgloss.Color("#c0caf5") // Light foreground

	return &Styles{
		Primary: primary,
		Success: success,
		Warning: warning,
		Error:   errorColor,
		Info:    info,
		Muted:   muted,

		TitleBar: lipgloss.NewStyle().
			Foreground(info).
			Bold(true),

		ColumnHeader: lipgloss.NewStyle().
			Foreground(info),

		StatusBar: lipgloss.NewStyle().
			Foreground(info),

		Footer: lipgloss.NewStyle().
			Bold(true),

		Title: lipgloss.NewStyle().
			Foreground(primary).
			Bold(true),

		Subtitle: lipgloss.NewStyle().
			Foreground(muted),

		Selected: lipgloss.NewStyle().
			Reverse(true).
			Bold(true),

		Installed: lipgloss.NewStyle().
			Foreground(success),

		MarkedInstall: lipgloss.NewStyle().
			Foreground(warning),

		MarkedRemove: lipgloss.NewStyle().
			Foreground(errorColor),

		Row: lipgloss.NewStyle().
			Foreground(foreground),

		// Cached text styles
		MutedText: lipgloss.NewStyle().
			Foreground(muted),

		SuccessText: lipgloss.NewStyle().
			Foreground(success),

		ErrorText: lipgloss.NewStyle().
			Foreground(errorColor),

		WarningText: lipgloss.NewStyle().
			Foreground(warning),

		InfoText: lipgloss.NewStyle().
			Foreground(info),
	}
}

// StatusIcon returns the styled marker for a transaction step state.
func (s *Styles) StatusIcon(status string) string {
	style := s.MutedText

	var icon string

	switch status {
	case "success", "installed", "removed":
		style = s.SuccessText
		icon = "✓"
	case "error", "failed":
		style = s.ErrorText
		icon = "✗"
	case "running", "installing", "removing":
		style = s.InfoText
		icon = "⚬"
	case "pending":
		icon = "○"
	default:
		icon = "•"
	}

	return style.Render(icon)
}

// Keybinding formats a key hint for footers.
func (s *Styles) Keybinding(key, description string) string {
	keyStyle := lipgloss.NewStyle().
		Foreground(s.Primary).
		Bold(true)

	return keyStyle.Render(key) + " " + s.MutedText.Render(description)
}
