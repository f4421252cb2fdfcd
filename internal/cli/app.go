// SPDX-FileCopyrightText: 2026 The Lading Authors
// SPDX-License-Identifier: EUPL-1.2

// Package cli provides the command-line interface for Lading.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/gohncena/lading/internal/console"
	"github.com/gohncena/lading/internal/tui"
)

// Exit codes follow standard Unix conventions for better scripting support.
const (
	ExitSuccess       = 0  // Operation completed successfully
	ExitGeneralError  = 1  // Generic failure (catch-all)
	ExitUsageError    = 2  // Invalid command line usage
	ExitNotFoundError = 5  // Requested package not found
	ExitWarnings      = 64 // Batch completed but some steps failed
)

// Version is the build version, overridden at link time for releases.
var Version = "dev" //nolint:gochecknoglobals

// ExitError carries a specific exit code for a failure mode.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

// NewExitError creates an ExitError with the specified code and message.
func NewExitError(code int, message string, err error) *ExitError {
	return &ExitError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

// CLI wires the command tree to the catalog and transaction services.
type CLI struct {
	app     *cli.Command
	verbose bool
	json    bool
	plain   bool
	yes     bool
	repoURL string
	dataDir string
}

// NewCLI creates the lading command tree.
func NewCLI() *CLI {
	app := &CLI{}

	app.app = &cli.Command{
		Name:    "lading",
		Usage:   "Install packages from a remote repository, in the terminal",
		Version: Version,
		Suggest: true, // Enable command and flag suggestions
		Description: `Lading keeps a catalog of packages published in a remote index, installs
their archives under a local data directory, and records every install in
a ledger so batches can be reviewed later.

Run without arguments to browse the catalog interactively. Mark packages
for installation or removal, then apply the batch in one transaction.

ESSENTIAL COMMANDS:
  install <name>...    Download and install packages
  remove <name>...     Remove installed packages
  list                 Show the catalog with installed state
  search <query>       Find packages by name or description

QUICK START:
  lading                   # Interactive package browser
  lading install sl        # Install the Steam Locomotive
  lading list --installed  # What is on this machine?`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "verbose",
				Usage:       "show progress messages on stderr",
				Aliases:     []string{"v"},
				Destination: &app.verbose,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output structured JSON results",
				Aliases:     []string{"j"},
				Destination: &app.json,
			},
			&cli.BoolFlag{
				Name:        "plain",
				Usage:       "output plain text without formatting for scripts",
				Destination: &app.plain,
			},
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "automatically answer yes to all prompts",
				Destination: &app.yes,
			},
			&cli.StringFlag{
				Name:        "repo",
				Usage:       "package repository URL (overrides config and LADING_REPOSITORY)",
				Destination: &app.repoURL,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "data directory for the ledger, cache, and installed packages",
				Destination: &app.dataDir,
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			return app.initOutput(ctx, cmd)
		},
		Action:          app.defaultAction,
		Commands:        app.createCommands(),
		CommandNotFound: app.commandNotFound,
	}

	return app
}

// Run executes the CLI application.
func (app *CLI) Run(ctx context.Context, args []string) error {
	return app.app.Run(ctx, args)
}

// App provides the root command for the process entry point.
func App() *cli.Command {
	return NewCLI().app
}

// createCommands builds every subcommand.
func (app *CLI) createCommands() []*cli.Command {
	return []*cli.Command{
		app.createInstallCommand(),
		app.createRemoveCommand(),
		app.createListCommand(),
		app.createSearchCommand(),
		app.createRefreshCommand(),
		app.createStatusCommand(),
		app.createHistoryCommand(),
		app.createVersionCommand(),
	}
}

// initOutput validates the output flags and configures the shared output state.
func (app *CLI) initOutput(ctx context.Context, _ *cli.Command) (context.Context, error) {
	if app.json && app.plain {
		return ctx, NewExitError(ExitUsageError, "cannot use both --json and --plain flags simultaneously", nil)
	}

	console.DefaultOutput.SetMode(app.verbose, app.json, app.plain)

	return ctx, nil
}

// defaultAction launches the interactive browser when no command is given.
func (app *CLI) defaultAction(ctx context.Context, _ *cli.Command) error {
	out := console.DefaultOutput
	if !out.IsTTY(os.Stdin.Fd()) || !out.IsTTY(os.Stdout.Fd()) {
		return NewExitError(ExitUsageError, "interactive mode requires a terminal (run 'lading --help' for commands)", nil)
	}

	svc, err := app.openServices()
	if err != nil {
		return NewExitError(ExitGeneralError, "failed to open package store", err)
	}
	defer func() { _ = svc.Close() }()

	if err := tui.Run(ctx, tui.Dependencies{
		Catalog:    svc.catalog,
		Transactor: svc.transactor,
	}); err != nil {
		return NewExitError(ExitGeneralError, "failed to launch interactive interface", err)
	}

	return nil
}

// commandNotFound handles unknown commands.
func (app *CLI) commandNotFound(_ context.Context, _ *cli.Command, command string) {
	console.DefaultOutput.Errorf("'%s' is not a lading command.", command)
	fmt.Fprintf(os.Stderr, "\nRun 'lading --help' to see available commands.\n")

	os.Exit(ExitNotFoundError)
}
