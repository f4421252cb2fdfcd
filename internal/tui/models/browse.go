// SPDX-FileCopyrightText: 2026 The Lading Authors
// SPDX-License-Identifier: EUPL-1.2

package models

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/gohncena/lading/internal/application"
	"github.com/gohncena/lading/internal/domain"
	"github.com/gohncena/lading/internal/tui/styles"
)

// chromeRows is the screen estate around the package list: title bar, column
// header, detail line, status line, footer.
const chromeRows = 5

// browseFooter lists the key bindings, in the original's wording.
const browseFooter = "q:Quit  +:Install  -:Remove  g:Go/Apply  u:Update  /:Search  ?:Help"

// browseMode is the input mode of the browse screen. Search and confirm both
// take over the status line.
type browseMode int

const (
	modeList browseMode = iota
	modeSearch
	modeConfirm
)

// catalogLoadedMsg carries the result of an asynchronous catalog rebuild.
type catalogLoadedMsg struct {
	result application.LoadResult
	err    error
}

// BrowseKeyMap defines key bindings for the browse screen.
type BrowseKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
	Install  key.Binding
	Remove   key.Binding
	Apply    key.Binding
	Update   key.Binding
	Search   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// DefaultBrowseKeyMap returns the default key bindings.
func DefaultBrowseKeyMap() BrowseKeyMap {
	return BrowseKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "page down"),
		),
		Home: key.NewBinding(
			key.WithKeys("home"),
			key.WithHelp("home", "first package"),
		),
		End: key.NewBinding(
			key.WithKeys("end"),
			key.WithHelp("end", "last package"),
		),
		Install: key.NewBinding(
			key.WithKeys("+"),
			key.WithHelp("+", "mark for install"),
		),
		Remove: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "mark for removal"),
		),
		Apply: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "apply changes"),
		),
		Update: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "update package list"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Browse is the package list screen: the catalog seen through a cursor, with
// marking, searching, and the apply confirmation prompt.
type Browse struct {
	ctx    context.Context //nolint:containedctx // Parent context for command cancellation
	styles *styles.Styles
	loader *application.CatalogService

	width  int
	height int

	catalog *domain.Catalog
	cursor  domain.Cursor

	mode   browseMode
	query  string
	status string
	plan   domain.Plan

	keyMap   BrowseKeyMap
	quitting bool
}

// NewBrowse creates the browse screen over an empty catalog; Init schedules
// the first load.
func NewBrowse(ctx context.Context, styleConfig *styles.Styles, loader *application.CatalogService, width, height int) *Browse {
	return &Browse{
		ctx:     ctx,
		styles:  styleConfig,
		loader:  loader,
		width:   width,
		height:  height,
		catalog: domain.BuildCatalog(nil, nil),
		cursor:  domain.NewCursor(0, listHeight(height)),
		status:  "Welcome to Lading",
		keyMap:  DefaultBrowseKeyMap(),
	}
}

// Init starts the initial catalog load.
func (m *Browse) Init() tea.Cmd {
	return m.loadCatalog()
}

// loadCatalog rebuilds the catalog off the update loop.
func (m *Browse) loadCatalog() tea.Cmd {
	m.status = "Loading packages..."

	return func() tea.Msg {
		result, err := m.loader.Load(m.ctx)

		return catalogLoadedMsg{result: result, err: err}
	}
}

// Update handles messages for the browse screen.
func (m *Browse) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.cursor.Resize(listHeight(msg.Height))

		return m, nil
	case CatalogReloadMsg:
		return m, m.loadCatalog()
	case catalogLoadedMsg:
		return m.handleCatalogLoaded(msg)
	}

	return m, nil
}

func (m *Browse) handleCatalogLoaded(msg catalogLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.status = fmt.Sprintf("Failed to load packages: %v", msg.err)

		return m, nil
	}

	m.catalog = msg.result.Catalog
	m.cursor.SetTotal(m.catalog.Len())
	m.status = fmt.Sprintf("Loaded %d packages", m.catalog.Len())

	return m, nil
}

func (m *Browse) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeSearch:
		return m.handleSearchKey(msg)
	case modeConfirm:
		return m.handleConfirmKey(msg)
	case modeList:
	}

	return m.handleListKey(msg)
}

//nolint:cyclop // One arm per key binding
func (m *Browse) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		m.quitting = true

		return m, tea.Quit
	case key.Matches(msg, m.keyMap.Up):
		m.cursor.MoveUp()
	case key.Matches(msg, m.keyMap.Down):
		m.cursor.MoveDown()
	case key.Matches(msg, m.keyMap.PageUp):
		m.cursor.PageUp()
	case key.Matches(msg, m.keyMap.PageDown):
		m.cursor.PageDown()
	case key.Matches(msg, m.keyMap.Home):
		m.cursor.Home()
	case key.Matches(msg, m.keyMap.End):
		m.cursor.End()
	case key.Matches(msg, m.keyMap.Install):
		m.markInstall()
	case key.Matches(msg, m.keyMap.Remove):
		m.markRemove()
	case key.Matches(msg, m.keyMap.Apply):
		m.requestApply()
	case key.Matches(msg, m.keyMap.Update):
		return m, m.loadCatalog()
	case key.Matches(msg, m.keyMap.Search):
		m.mode = modeSearch
		m.query = ""
	case key.Matches(msg, m.keyMap.Help):
		return m, navigateTo(HelpScreen, nil)
	}

	return m, nil
}

func (m *Browse) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeList
		m.status = "Search cancelled"
	case tea.KeyEnter:
		m.mode = modeList
		m.resolveSearch()
	case tea.KeyBackspace:
		if m.query != "" {
			runes := []rune(m.query)
			m.query = string(runes[:len(runes)-1])
		}
	case tea.KeySpace:
		m.query += " "
	case tea.KeyRunes:
		m.query += string(msg.Runes)
	default:
	}

	return m, nil
}

func (m *Browse) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = modeList

	if s := msg.String(); s == "y" || s == "Y" {
		m.status = ""

		return m, navigateTo(ApplyScreen, m.plan)
	}

	m.plan = domain.Plan{}
	m.status = "Changes cancelled"

	return m, nil
}

// markInstall marks the selected entry for installation; already-installed
// entries are reported instead.
func (m *Browse) markInstall() {
	entry := m.catalog.Entry(m.cursor.Selection)
	if entry == nil {
		return
	}

	if err := entry.MarkInstall(); err != nil {
		if errors.Is(err, domain.ErrAlreadyInstalled) {
			m.status = fmt.Sprintf("%s is already installed", entry.Record.Name)
		}

		return
	}

	m.status = fmt.Sprintf("Marked %s for installation", entry.Record.Name)
}

// markRemove marks the selected entry for removal; entries that are not
// installed are reported instead.
func (m *Browse) markRemove() {
	entry := m.catalog.Entry(m.cursor.Selection)
	if entry == nil {
		return
	}

	if err := entry.MarkRemove(); err != nil {
		if errors.Is(err, domain.ErrNotInstalled) {
			m.status = fmt.Sprintf("%s is not installed", entry.Record.Name)
		}

		return
	}

	m.status = fmt.Sprintf("Marked %s for removal", entry.Record.Name)
}

// requestApply builds the plan from pending marks and raises the confirm
// prompt, or reports that there is nothing to do.
func (m *Browse) requestApply() {
	plan := domain.BuildPlan(m.catalog)
	if plan.IsEmpty() {
		m.status = "No changes to apply"

		return
	}

	m.plan = plan
	m.mode = modeConfirm
}

// resolveSearch jumps to the next entry matching the query, wrapping past the
// end of the list.
func (m *Browse) resolveSearch() {
	result := domain.ResolveSearch(m.catalog, m.query, m.cursor.Selection)

	switch result.Status {
	case domain.SearchFound:
		m.cursor.JumpTo(result.Index)

		if entry := m.catalog.Entry(result.Index); entry != nil {
			m.status = fmt.Sprintf("Found: %s", entry.Record.Name)
		}
	case domain.SearchNoMatch:
		m.status = fmt.Sprintf("No packages matching '%s'", m.query)
	case domain.SearchCancelled:
		m.status = "Search cancelled"
	}
}

// View renders the browse screen.
func (m *Browse) View() string {
	if m.quitting {
		return ""
	}

	view := domain.BuildView(m.catalog, m.cursor)

	lines := make([]string, 0, m.height)
	lines = append(lines,
		lipgloss.PlaceHorizontal(m.width, lipgloss.Center, m.styles.TitleBar.Render(" Lading - Package Manager ")),
		m.styles.ColumnHeader.Render(m.padLine(fmt.Sprintf("  %-20s %-12s %s", "Name", "Version", "Description"))),
	)

	for _, row := range view.Rows {
		lines = append(lines, m.renderRow(row))
	}

	for filler := len(view.Rows); filler < listHeight(m.height); filler++ {
		lines = append(lines, "")
	}

	lines = append(lines,
		m.padLine(view.Detail),
		m.styles.StatusBar.Render(m.padLine(m.statusLine())),
		m.styles.Footer.Render(m.padLine(browseFooter)),
	)

	return strings.Join(lines, "\n")
}

// renderRow colors one list line by its entry state, the selection winning
// over everything else.
func (m *Browse) renderRow(row domain.Row) string {
	line := m.padLine(row.FormatLine(m.width))

	switch {
	case row.Selected:
		return m.styles.Selected.Render(line)
	case row.Action == domain.ActionInstall:
		return m.styles.MarkedInstall.Render(line)
	case row.Action == domain.ActionRemove, row.Action == domain.ActionPurge:
		return m.styles.MarkedRemove.Render(line)
	case row.Installed:
		return m.styles.Installed.Render(line)
	default:
		return m.styles.Row.Render(line)
	}
}

// statusLine is the bottom message row; search and confirm replace the last
// status message while they are active.
func (m *Browse) statusLine() string {
	switch m.mode {
	case modeSearch:
		return "Search: " + m.query
	case modeConfirm:
		return fmt.Sprintf("Apply %d installs, %d removals? (y/n)", len(m.plan.Installs), len(m.plan.Removals))
	case modeList:
	}

	return m.status
}

// padLine fills the line with spaces to the full screen width so row colors
// and the reversed selection cover the whole row.
func (m *Browse) padLine(line string) string {
	if m.width <= 0 {
		return line
	}

	return runewidth.FillRight(runewidth.Truncate(line, m.width, ""), m.width)
}

func listHeight(height int) int {
	if height-chromeRows < 1 {
		return 1
	}

	return height - chromeRows
}

// navigateTo wraps a NavigateMsg in a command.
func navigateTo(screen int, data any) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{Screen: screen, Data: data}
	}
}
