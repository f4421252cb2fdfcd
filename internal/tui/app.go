// SPDX-FileCopyrightText: 2026 The Lading Authors
// SPDX-License-Identifier: EUPL-1.2

// Package tui implements the interactive terminal interface: a root model
// that routes between the browse, apply, and help screens.
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gohncena/lading/internal/application"
	"github.com/gohncena/lading/internal/domain"
	"github.com/gohncena/lading/internal/tui/models"
	"github.com/gohncena/lading/internal/tui/styles"
)

// Initial dimensions until the first WindowSizeMsg arrives.
const (
	defaultWidth  = 80
	defaultHeight = 24
)

// Dependencies carries the services the screens run against.
type Dependencies struct {
	Catalog    *application.CatalogService
	Transactor *application.Transactor
}

// App is the root model. It owns the screen models, routes messages to the
// one on display, and handles navigation between them.
type App struct {
	ctx    context.Context //nolint:containedctx // Parent context for command cancellation
	styles *styles.Styles
	deps   Dependencies

	width  int
	height int

	current int
	content tea.Model
	cache   map[int]tea.Model
}

// New creates the application root model starting on the browse screen.
func New(ctx context.Context, deps Dependencies) *App {
	app := &App{
		ctx:    ctx,
		styles: styles.New(),
		deps:   deps,
		width:  defaultWidth,
		height: defaultHeight,
		cache:  make(map[int]tea.Model),
	}

	browse := models.NewBrowse(ctx, app.styles, deps.Catalog, app.width, app.height)
	app.cache[models.BrowseScreen] = browse
	app.content = browse
	app.current = models.BrowseScreen

	return app
}

// Run starts the interface on the alternate screen and blocks until quit.
func Run(ctx context.Context, deps Dependencies) error {
	program := tea.NewProgram(New(ctx, deps),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run interface: %w", err)
	}

	return nil
}

// Init initializes the starting screen.
func (a *App) Init() tea.Cmd {
	return a.content.Init()
}

// Update routes messages: quit and resize are handled here, navigation
// switches screens, everything else goes to the screen on display.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
	case models.NavigateMsg:
		return a, a.navigate(msg)
	}

	var cmd tea.Cmd

	a.content, cmd = a.content.Update(msg)

	return a, cmd
}

// View renders the screen on display.
func (a *App) View() string {
	return a.content.View()
}

// navigate switches to the requested screen. Freshly created screens are
// initialized and every target is brought up to the current window size.
func (a *App) navigate(msg models.NavigateMsg) tea.Cmd {
	content, created := a.screenModel(msg)
	if content == nil {
		return nil
	}

	a.content = content
	a.current = msg.Screen

	cmds := make([]tea.Cmd, 0, 3)

	if created {
		cmds = append(cmds, a.content.Init())
	}

	var sizeCmd tea.Cmd

	a.content, sizeCmd = a.content.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})
	cmds = append(cmds, sizeCmd)

	if msg.Screen == models.BrowseScreen && msg.Data == models.RefreshCatalogData {
		cmds = append(cmds, func() tea.Msg {
			return models.CatalogReloadMsg{}
		})
	}

	return tea.Batch(cmds...)
}

// screenModel resolves the target screen model, reporting whether it was
// created for this navigation. The apply screen is never cached: each
// confirmed plan gets a fresh one.
func (a *App) screenModel(msg models.NavigateMsg) (tea.Model, bool) {
	switch msg.Screen {
	case models.ApplyScreen:
		plan, ok := msg.Data.(domain.Plan)
		if !ok {
			return nil, false
		}

		return models.NewApply(a.ctx, a.styles, a.deps.Transactor, plan, a.width, a.height), true
	case models.HelpScreen:
		if cached, ok := a.cache[models.HelpScreen]; ok {
			return cached, false
		}

		help := models.NewHelp(a.styles, a.width, a.height)
		a.cache[models.HelpScreen] = help

		return help, true
	case models.BrowseScreen:
		if cached, ok := a.cache[models.BrowseScreen]; ok {
			return cached, false
		}

		browse := models.NewBrowse(a.ctx, a.styles, a.deps.Catalog, a.width, a.height)
		a.cache[models.BrowseScreen] = browse

		return browse, true
	}

	return nil, false
}
