// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// newRootCommand builds the command tree around app.
func newRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mlesh",
		Short: "A database shell with an MLE module installer",
		Long: TitleStyle.Render("mlesh") + SubtitleStyle.Render(" - A database shell with an MLE module installer") + `

mlesh reads SQL statements and shell commands, and ships the mle.js
script which creates JavaScript MLE modules from a URL or a local file.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Point mlesh at a database with --dsn or 'mlesh config init'
  2. Install a module: mlesh script mle.js install my_mod ./my_mod.js
  3. Or register the keyword in a session: script mle.js register

` + SubtitleStyle.Render("Examples:") + `
  mlesh shell                            Start an interactive session
  mlesh script mle.js help               Show installer usage
  mlesh exec mle install m ./m.js 1.0    Run one statement with mle registered
  mlesh history                          List recorded installations
  mlesh config show                      Show current configuration`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			setupLogging(app.stderr, cfg.UI.Verbose)
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&app.flags.verbose, "verbose", "v", false, "enable verbose output")
	flags.StringVar(&app.flags.configFile, "config", "", "config file (default is $XDG_CONFIG_HOME/mlesh/config.cue)")
	flags.StringVar(&app.flags.configDir, "config-dir", "", "directory holding config.cue and history.db")
	flags.StringVar(&app.flags.dsn, "dsn", "", "database connection string (overrides database.dsn)")
	flags.StringVar(&app.flags.driver, "driver", "", "database driver: oracle or sqlite (overrides database.driver)")
	flags.BoolVar(&app.flags.dryRun, "dry-run", false, "print statements instead of executing them")

	rootCmd.AddCommand(
		newShellCommand(app),
		newScriptCommand(app),
		newExecCommand(app),
		newHistoryCommand(app),
		newConfigCommand(app),
		newCompletionCommand(),
	)
	return rootCmd
}

// setupLogging installs a charm logger as the slog default.
func setupLogging(w io.Writer, verbose bool) {
	logger := log.NewWithOptions(w, log.Options{Prefix: "mlesh"})
	if verbose {
		logger.SetLevel(log.DebugLevel)
		logger.SetReportTimestamp(true)
	} else {
		logger.SetLevel(log.WarnLevel)
	}
	slog.SetDefault(slog.New(logger))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	rootCmd := newRootCommand(app)

	// fang overrides rootCmd.Version, so the version goes through WithVersion.
	err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	)
	if err == nil {
		return
	}

	renderIssue(app.stderr, err)
	if app.flags.verbose {
		fmt.Fprintln(app.stderr, ErrorStyle.Render("Details:")+" "+formatErrorForDisplay(err, true))
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		os.Exit(exitErr.Code)
	}
	os.Exit(ExitFailure)
}
