// SPDX-FileCopyrightText: 2026 The Lading Authors
// SPDX-License-Identifier: EUPL-1.2

package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/gohncena/lading/internal/adapters/archive"
	"github.com/gohncena/lading/internal/adapters/network"
	"github.com/gohncena/lading/internal/adapters/sqlite"
	"github.com/gohncena/lading/internal/application"
	"github.com/gohncena/lading/internal/config"
	"github.com/gohncena/lading/internal/console"
	"github.com/gohncena/lading/internal/domain"
)

const (
	// downloadTimeout bounds a single archive download.
	downloadTimeout = 3 * time.Minute

	// listWidth is the rendered row width for list and search output.
	listWidth = 80
)

// services bundles the wired adapters behind the application layer.
type services struct {
	cfg        *config.Config
	store      *sqlite.Store
	source     *network.Source
	catalog    *application.CatalogService
	transactor *application.Transactor
}

// openServices resolves configuration and opens every adapter the commands use.
func (app *CLI) openServices() (*services, error) {
	cfg, err := app.resolveConfig()
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	store, err := sqlite.NewStore(cfg.LedgerPath())
	if err != nil {
		return nil, err
	}

	source := network.NewSource(cfg.Repository, cfg.CacheDir())
	installer := archive.NewInstaller(network.NewHTTPClient(downloadTimeout), cfg.Repository, cfg.DataDir)

	return &services{
		cfg:        cfg,
		store:      store,
		source:     source,
		catalog:    application.NewCatalogService(source, store),
		transactor: application.NewTransactor(installer, store, store),
	}, nil
}

// Close releases the ledger database.
func (s *services) Close() error {
	return s.store.Close()
}

// resolveConfig loads config.toml and applies overrides.
// Precedence: flag > environment > config file > default.
func (app *CLI) resolveConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if repo := os.Getenv("LADING_REPOSITORY"); repo != "" {
		cfg.Repository = repo
	}

	if path := os.Getenv("LADING_PATH"); path != "" {
		cfg.DataDir = path
	}

	if app.repoURL != "" {
		cfg.Repository = app.repoURL
	}

	if app.dataDir != "" {
		cfg.DataDir = app.dataDir
	}

	return cfg, nil
}

// loadCatalog loads the merged catalog, reporting index fallback on stderr.
func (app *CLI) loadCatalog(ctx context.Context, svc *services) (*domain.Catalog, error) {
	loaded, err := svc.catalog.Load(ctx)
	if err != nil {
		return nil, NewExitError(ExitGeneralError, "failed to load package catalog", err)
	}

	if loaded.UsedFallback {
		console.DefaultOutput.Warningf("package index unavailable, using built-in fallback list")
	}

	return loaded.Catalog, nil
}

// createInstallCommand creates the install command.
func (app *CLI) createInstallCommand() *cli.Command {
	return &cli.Command{
		Name:      "install",
		Usage:     "Download and install packages",
		ArgsUsage: "<name>...",
		Description: `Fetch package archives from the repository, unpack them under the data
directory, and record them in the ledger.

Examples:
  lading install sl            # Install one package
  lading install htop zsh      # Install several in one batch
  lading --yes install sl      # Skip the confirmation prompt`,
		Action: app.runInstall,
	}
}

func (app *CLI) runInstall(ctx context.Context, cmd *cli.Command) error {
	names := cmd.Args().Slice()
	if len(names) == 0 {
		return NewExitError(ExitUsageError, "no packages specified (usage: lading install <name>...)", nil)
	}

	svc, err := app.openServices()
	if err != nil {
		return NewExitError(ExitGeneralError, "failed to open package store", err)
	}
	defer func() { _ = svc.Close() }()

	catalog, err := app.loadCatalog(ctx, svc)
	if err != nil {
		return err
	}

	for _, name := range names {
		index, found := catalog.IndexOf(name)
		if !found {
			return unknownPackage(catalog, name)
		}

		if err := catalog.Entry(index).MarkInstall(); err != nil {
			console.DefaultOutput.Warningf("%s is already installed", name)
		}
	}

	return app.applyPlan(ctx, svc, catalog)
}

// createRemoveCommand creates the remove command.
func (app *CLI) createRemoveCommand() *cli.Command {
	return &cli.Command{
		Name:      "remove",
		Usage:     "Remove installed packages",
		ArgsUsage: "<name>...",
		Description: `Delete installed package files and drop the ledger records.

Examples:
  lading remove sl             # Remove one package
  lading remove sl --purge     # Also clear residual files of older versions`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "purge",
				Usage: "remove residual files from every version of the package",
			},
		},
		Action: app.runRemove,
	}
}

func (app *CLI) runRemove(ctx context.Context, cmd *cli.Command) error {
	names := cmd.Args().Slice()
	if len(names) == 0 {
		return NewExitError(ExitUsageError, "no packages specified (usage: lading remove <name>...)", nil)
	}

	purge := cmd.Bool("purge")

	svc, err := app.openServices()
	if err != nil {
		return NewExitError(ExitGeneralError, "failed to open package store", err)
	}
	defer func() { _ = svc.Close() }()

	catalog, err := app.loadCatalog(ctx, svc)
	if err != nil {
		return err
	}

	for _, name := range names {
		index, found := catalog.IndexOf(name)
		if !found {
			return unknownPackage(catalog, name)
		}

		entry := catalog.Entry(index)

		mark := entry.MarkRemove
		if purge {
			mark = entry.MarkPurge
		}

		if err := mark(); err != nil {
			console.DefaultOutput.Warningf("%s is not installed", name)
		}
	}

	return app.applyPlan(ctx, svc, catalog)
}

// applyPlan builds the plan from the marked catalog, confirms it, executes
// it, and reports the outcome.
func (app *CLI) applyPlan(ctx context.Context, svc *services, catalog *domain.Catalog) error {
	out := console.DefaultOutput

	plan := domain.BuildPlan(catalog)
	if plan.IsEmpty() {
		if app.json {
			out.JSONResult("success", map[string]any{"steps": []domain.StepResult{}, "failures": 0})
		} else if !app.plain {
			out.Successf("No changes to apply")
		}

		return nil
	}

	confirm, err := app.planConfirmer(len(plan.Installs), len(plan.Removals))
	if err != nil {
		return err
	}

	outcome := svc.transactor.Execute(ctx, plan, confirm)

	return app.reportOutcome(outcome)
}

// planConfirmer returns the confirmation prompt for a batch, or nil when the
// batch runs unprompted. Non-interactive runs must pass --yes.
func (app *CLI) planConfirmer(installs, removals int) (func() bool, error) {
	if app.yes {
		return nil, nil
	}

	if app.json || app.plain || !console.DefaultOutput.IsTTY(os.Stdin.Fd()) {
		return nil, NewExitError(ExitUsageError, "confirmation required in non-interactive mode: re-run with --yes", nil)
	}

	return func() bool {
		var confirmed bool

		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Apply %d installs, %d removals?", installs, removals)).
					Value(&confirmed),
			),
		)

		if err := form.Run(); err != nil {
			return false
		}

		return confirmed
	}, nil
}

// reportOutcome prints per-step results and maps failures to exit codes.
func (app *CLI) reportOutcome(outcome domain.Outcome) error {
	out := console.DefaultOutput

	if outcome.Cancelled {
		out.Warningf("Changes cancelled")

		return nil
	}

	failures := outcome.Failures()

	if app.json {
		status := "success"
		if failures > 0 {
			status = "error"
		}

		out.JSONResult(status, map[string]any{
			"transaction": outcome.ID,
			"steps":       outcome.Steps,
			"failures":    failures,
		})
	} else {
		for _, step := range outcome.Steps {
			switch {
			case step.Succeeded && app.plain:
				out.PlainKeyValue(step.Name, pastTense(step.Action))
			case step.Succeeded:
				out.Successf("%s %s", cases.Title(language.Und).String(pastTense(step.Action)), step.Name)
			default:
				out.Errorf("failed to %s %s: %s", step.Action, step.Name, step.Message)
			}
		}
	}

	switch {
	case failures > 0 && failures == len(outcome.Steps):
		return NewExitError(ExitGeneralError, fmt.Sprintf("all %d steps failed", failures), nil)
	case failures > 0:
		return NewExitError(ExitWarnings, fmt.Sprintf("%d of %d steps failed", failures, len(outcome.Steps)), nil)
	}

	return nil
}

// pastTense renders an action for result lines.
func pastTense(action domain.ActionState) string {
	switch action {
	case domain.ActionRemove:
		return "removed"
	case domain.ActionPurge:
		return "purged"
	default:
		return "installed"
	}
}

// unknownPackage builds the exit-5 error for a name missing from the
// catalog, attaching the closest match as a suggestion.
func unknownPackage(catalog *domain.Catalog, name string) error {
	msg := fmt.Sprintf("unknown package %q", name)

	if result := domain.ResolveSearch(catalog, name, -1); result.Status == domain.SearchFound {
		msg += fmt.Sprintf(" (did you mean %q?)", catalog.Entry(result.Index).Record.Name)
	} else if result.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", result.Suggestion)
	}

	return NewExitError(ExitNotFoundError, msg, nil)
}

// createListCommand creates the list command.
func (app *CLI) createListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List catalog packages with their installed state",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "installed",
				Usage: "show only installed packages",
			},
		},
		Action: app.runList,
	}
}

func (app *CLI) runList(ctx context.Context, cmd *cli.Command) error {
	svc, err := app.openServices()
	if err != nil {
		return NewExitError(ExitGeneralError, "failed to open package store", err)
	}
	defer func() { _ = svc.Close() }()

	catalog, err := app.loadCatalog(ctx, svc)
	if err != nil {
		return err
	}

	entries := catalog.Entries()
	if cmd.Bool("installed") {
		installed := entries[:0]

		for _, entry := range entries {
			if entry.Installed {
				installed = append(installed, entry)
			}
		}

		entries = installed
	}

	app.renderEntries(entries)

	if !app.json && !app.plain {
		console.DefaultOutput.Linef("%d packages, %d installed", catalog.Len(), catalog.InstalledCount())
	}

	return nil
}

// renderEntries prints catalog rows in the active output mode.
func (app *CLI) renderEntries(entries []domain.CatalogEntry) {
	out := console.DefaultOutput

	switch {
	case app.json:
		packages := make([]map[string]any, 0, len(entries))
		for _, entry := range entries {
			packages = append(packages, map[string]any{
				"name":        entry.Record.Name,
				"version":     entry.Record.Version,
				"description": entry.Record.Description,
				"installed":   entry.Installed,
			})
		}

		out.JSONResult("success", map[string]any{"packages": packages, "total": len(packages)})
	case app.plain:
		for _, entry := range entries {
			state := "available"
			if entry.Installed {
				state = "installed"
			}

			out.PlainKeyValue(entry.Record.Name, state)
		}
	default:
		out.Linef("%s", out.Header(fmt.Sprintf("  %-20s %-12s %s", "Name", "Version", "Description")))

		for _, entry := range entries {
			row := domain.Row{
				Glyph:       entry.StatusGlyph(),
				Name:        entry.Record.Name,
				Version:     entry.Record.Version,
				Description: entry.Record.Description,
				Installed:   entry.Installed,
			}
			out.Linef("%s", row.FormatLine(listWidth))
		}
	}
}

// createSearchCommand creates the search command.
func (app *CLI) createSearchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Find packages by name or description",
		ArgsUsage: "<query>",
		Action:    app.runSearch,
	}
}

func (app *CLI) runSearch(ctx context.Context, cmd *cli.Command) error {
	query := cmd.Args().First()
	if query == "" {
		return NewExitError(ExitUsageError, "no query specified (usage: lading search <query>)", nil)
	}

	svc, err := app.openServices()
	if err != nil {
		return NewExitError(ExitGeneralError, "failed to open package store", err)
	}
	defer func() { _ = svc.Close() }()

	catalog, err := app.loadCatalog(ctx, svc)
	if err != nil {
		return err
	}

	matches := catalog.Matches(query)
	if len(matches) == 0 {
		result := domain.ResolveSearch(catalog, query, -1)

		if app.json {
			console.DefaultOutput.JSONResult("error", map[string]any{
				"query":      query,
				"matches":    []string{},
				"suggestion": result.Suggestion,
			})
		}

		msg := fmt.Sprintf("no packages matching %q", query)
		if result.Suggestion != "" {
			msg += fmt.Sprintf(" (did you mean %q?)", result.Suggestion)
		}

		return NewExitError(ExitNotFoundError, msg, nil)
	}

	entries := make([]domain.CatalogEntry, 0, len(matches))
	for _, index := range matches {
		entries = append(entries, *catalog.Entry(index))
	}

	app.renderEntries(entries)

	return nil
}

// createRefreshCommand creates the refresh command.
func (app *CLI) createRefreshCommand() *cli.Command {
	return &cli.Command{
		Name:   "refresh",
		Usage:  "Re-fetch the package index and rewrite the cache",
		Action: app.runRefresh,
	}
}

func (app *CLI) runRefresh(ctx context.Context, _ *cli.Command) error {
	svc, err := app.openServices()
	if err != nil {
		return NewExitError(ExitGeneralError, "failed to open package store", err)
	}
	defer func() { _ = svc.Close() }()

	records, err := svc.source.Refresh(ctx)
	if err != nil {
		return NewExitError(ExitGeneralError, "failed to refresh package index", err)
	}

	out := console.DefaultOutput

	switch {
	case app.json:
		out.JSONResult("success", map[string]any{"packages": len(records)})
	case app.plain:
		out.PlainKeyValue("packages", strconv.Itoa(len(records)))
	default:
		out.Successf("Refreshed package index: %d packages available", len(records))
	}

	return nil
}

// createStatusCommand creates the status command.
func (app *CLI) createStatusCommand() *cli.Command {
	return &cli.Command{
		Name:   "status",
		Usage:  "Show repository, data directory, and package counts",
		Action: app.runStatus,
	}
}

func (app *CLI) runStatus(ctx context.Context, _ *cli.Command) error {
	svc, err := app.openServices()
	if err != nil {
		return NewExitError(ExitGeneralError, "failed to open package store", err)
	}
	defer func() { _ = svc.Close() }()

	catalog, err := app.loadCatalog(ctx, svc)
	if err != nil {
		return err
	}

	pending, err := svc.store.Transactions(ctx, 1)
	if err != nil {
		return NewExitError(ExitGeneralError, "failed to read transaction log", err)
	}

	out := console.DefaultOutput

	switch {
	case app.json:
		data := map[string]any{
			"repository": svc.cfg.Repository,
			"data_dir":   svc.cfg.DataDir,
			"available":  catalog.Len(),
			"installed":  catalog.InstalledCount(),
		}
		if len(pending) > 0 {
			data["last_transaction"] = pending[0]
		}

		out.JSONResult("success", data)
	case app.plain:
		out.PlainKeyValue("repository", svc.cfg.Repository)
		out.PlainKeyValue("data_dir", svc.cfg.DataDir)
		out.PlainKeyValue("available", strconv.Itoa(catalog.Len()))
		out.PlainKeyValue("installed", strconv.Itoa(catalog.InstalledCount()))
	default:
		out.Linef("Repository:     %s", svc.cfg.Repository)
		out.Linef("Data directory: %s", svc.cfg.DataDir)
		out.Linef("Packages:       %d available, %d installed", catalog.Len(), catalog.InstalledCount())

		if len(pending) > 0 {
			last := pending[0]
			out.Linef("Last batch:     %s (%d installs, %d removals, %d failures)",
				last.StartedAt.Local().Format("2006-01-02 15:04:05"), last.Installs, last.Removals, last.Failures)
		}
	}

	return nil
}

// createHistoryCommand creates the history command.
func (app *CLI) createHistoryCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show recent transaction batches",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "maximum batches to show (0 uses the configured limit)",
			},
		},
		Action: app.runHistory,
	}
}

func (app *CLI) runHistory(ctx context.Context, cmd *cli.Command) error {
	svc, err := app.openServices()
	if err != nil {
		return NewExitError(ExitGeneralError, "failed to open package store", err)
	}
	defer func() { _ = svc.Close() }()

	limit := int(cmd.Int("limit"))
	if limit <= 0 {
		limit = svc.cfg.HistoryLimit
	}

	transactions, err := svc.store.Transactions(ctx, limit)
	if err != nil {
		return NewExitError(ExitGeneralError, "failed to read transaction log", err)
	}

	out := console.DefaultOutput

	switch {
	case app.json:
		out.JSONResult("success", map[string]any{"transactions": transactions})
	case app.plain:
		for _, txn := range transactions {
			out.PlainKeyValue(txn.ID, fmt.Sprintf("installs=%d removals=%d failures=%d", txn.Installs, txn.Removals, txn.Failures))
		}
	case len(transactions) == 0:
		out.Linef("No transactions recorded")
	default:
		for _, txn := range transactions {
			out.Linef("%s  %s  %d installs, %d removals, %d failures",
				txn.StartedAt.Local().Format("2006-01-02 15:04:05"), shortID(txn.ID), txn.Installs, txn.Removals, txn.Failures)

			if app.verbose {
				for _, step := range txn.Steps {
					marker := "✓"
					if !step.Succeeded {
						marker = "✗"
					}

					out.Linef("    %s %s %s", marker, cases.Title(language.Und).String(step.Action.String()), step.Name)
				}
			}
		}
	}

	return nil
}

// shortID abbreviates a batch UUID for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}

	return id
}

// createVersionCommand creates the version command.
func (app *CLI) createVersionCommand() *cli.Command {
	return &cli.Command{
		Name:   "version",
		Usage:  "Show version information",
		Action: app.runVersion,
	}
}

func (app *CLI) runVersion(_ context.Context, _ *cli.Command) error {
	out := console.DefaultOutput

	switch {
	case app.json:
		out.JSONResult("success", map[string]any{"version": Version})
	case app.plain:
		out.PlainKeyValue("version", Version)
	default:
		out.Linef("lading %s", Version)
	}

	return nil
}
