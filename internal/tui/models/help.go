// SPDX-FileCopyrightText: 2026 The Lading Authors
// SPDX-License-Identifier: EUPL-1.2

package models

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/gohncena/lading/internal/tui/styles"
)

// helpMarkdown is the help page, in the original's ordering: navigation,
// actions, the rest, and the status glyph legend.
const helpMarkdown = `# Lading Help

Lading installs packages from a remote repository into your home directory.
Mark packages in the list, then apply the pending changes in one batch.

## Navigation

- up / k: move up
- down / j: move down
- PgUp: page up
- PgDn: page down
- Home: go to first package
- End: go to last package

## Actions

- \+: mark package for installation
- \-: mark package for removal
- g: apply pending changes (Go)
- u: update the package list
- /: search packages by name or description

## Other

- ?: show this help
- q: quit

## Package Status

The first column of the list marks each package:

- i: installed, or marked for installation
- d: marked for removal
- p: marked for purge
- (space): not installed
`

// Help is the help screen: the rendered help page in a scrolling viewport.
type Help struct {
	styles   *styles.Styles
	viewport viewport.Model
	renderer *glamour.TermRenderer

	width  int
	height int
}

// NewHelp creates the help screen.
func NewHelp(styleConfig *styles.Styles, width, height int) *Help {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		renderer, _ = glamour.NewTermRenderer()
	}

	helpModel := &Help{
		styles:   styleConfig,
		viewport: viewport.New(width, contentHeight(height)),
		renderer: renderer,
		width:    width,
		height:   height,
	}
	helpModel.updateContent()

	return helpModel
}

// Init implements tea.Model.
func (m *Help) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help screen.
func (m *Help) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q", "?":
			return m, navigateTo(BrowseScreen, nil)
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = contentHeight(msg.Height)
		m.updateContent()

		return m, nil
	}

	var cmd tea.Cmd

	m.viewport, cmd = m.viewport.Update(msg)

	return m, cmd
}

// View renders the help screen.
func (m *Help) View() string {
	footer := strings.Join([]string{
		m.styles.Keybinding("↑↓/jk", "scroll"),
		m.styles.Keybinding("pgup/pgdn", "page"),
		m.styles.Keybinding("esc/q/?", "back"),
	}, "  ")

	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Title.Render("Lading - Help"),
		m.viewport.View(),
		footer,
	)
}

// updateContent renders the markdown and hands it to the viewport.
func (m *Help) updateContent() {
	rendered, err := m.renderer.Render(helpMarkdown)
	if err != nil {
		rendered = helpMarkdown
	}

	m.viewport.SetContent(rendered)
}

// contentHeight leaves one line each for the title and the footer.
func contentHeight(height int) int {
	if height-2 < 1 {
		return 1
	}

	return height - 2
}
