// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/mlesh/mlesh/internal/config"
	"github.com/mlesh/mlesh/internal/history"
	"github.com/mlesh/mlesh/internal/issue"
	"github.com/mlesh/mlesh/internal/mle"
	"github.com/mlesh/mlesh/internal/session"
	"github.com/mlesh/mlesh/internal/shell"
)

type (
	// SessionOpener connects to a database.
	SessionOpener func(ctx context.Context, opts session.Options) (session.Session, error)

	// HistoryStore is the part of *history.Store the CLI uses.
	HistoryStore interface {
		Record(ctx context.Context, e history.Entry) error
		List(ctx context.Context, limit int) ([]history.Entry, error)
		Close() error
	}

	// HistoryOpener opens the ledger at path.
	HistoryOpener func(ctx context.Context, path string) (HistoryStore, error)

	// App wires CLI services and shared dependencies. It is the composition
	// root for the CLI layer; every Cobra command receives an App reference.
	App struct {
		Config      config.Provider
		OpenSession SessionOpener
		OpenHistory HistoryOpener
		Now         func() time.Time
		stdin       io.Reader
		stdout      io.Writer
		stderr      io.Writer

		flags    globalFlags
		cfg      *config.Config
		loadOpts config.LoadOptions
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config      config.Provider
		OpenSession SessionOpener
		OpenHistory HistoryOpener
		Now         func() time.Time
		Stdin       io.Reader
		Stdout      io.Writer
		Stderr      io.Writer
	}

	// globalFlags are the persistent root flags.
	globalFlags struct {
		configFile string
		configDir  string
		verbose    bool
		dsn        string
		driver     string
		dryRun     bool
	}
)

// NewApp creates an App, filling unset dependencies with production defaults.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config:      deps.Config,
		OpenSession: deps.OpenSession,
		OpenHistory: deps.OpenHistory,
		Now:         deps.Now,
		stdin:       deps.Stdin,
		stdout:      deps.Stdout,
		stderr:      deps.Stderr,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.OpenSession == nil {
		app.OpenSession = openSQLSession
	}
	if app.OpenHistory == nil {
		app.OpenHistory = openHistoryStore
	}
	if app.Now == nil {
		app.Now = time.Now
	}
	if app.stdin == nil {
		app.stdin = os.Stdin
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	return app
}

func openSQLSession(ctx context.Context, opts session.Options) (session.Session, error) {
	sess, err := session.Open(ctx, opts)
	if err != nil {
		return nil, err
	}
	return sess, nil
}

func openHistoryStore(ctx context.Context, path string) (HistoryStore, error) {
	store, err := history.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// loadConfig loads the configuration once and applies flag overrides.
func (a *App) loadConfig(ctx context.Context) (*config.Config, error) {
	if a.cfg != nil {
		return a.cfg, nil
	}

	a.loadOpts = config.LoadOptions{
		ConfigFilePath: a.flags.configFile,
		ConfigDirPath:  a.flags.configDir,
	}
	cfg, err := a.Config.Load(ctx, a.loadOpts)
	if err != nil {
		return nil, err
	}

	if a.flags.dsn != "" {
		cfg.Database.DSN = a.flags.dsn
	}
	if a.flags.driver != "" {
		cfg.Database.Driver = config.DatabaseDriver(a.flags.driver)
	}
	if a.flags.verbose {
		cfg.UI.Verbose = true
	}

	a.cfg = cfg
	return cfg, nil
}

// openSession returns the session statements run against: an echoing
// session in dry-run mode, a disconnected one without a DSN, and a live
// connection otherwise.
func (a *App) openSession(ctx context.Context, out io.Writer) (session.Session, error) {
	cfg, err := a.loadConfig(ctx)
	if err != nil {
		return nil, err
	}

	if a.flags.dryRun {
		return session.Echo{W: out}, nil
	}
	if cfg.Database.DSN == "" {
		slog.Debug("no database configured, statements will not be executed")
		return session.Disconnected{}, nil
	}

	driver := session.Driver(cfg.Database.Driver)
	if err := driver.Validate(); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("open database session").
			WithIssue(issue.InvalidDriverId).
			Wrap(err).
			BuildError()
	}

	sess, err := a.OpenSession(ctx, session.Options{Driver: driver, DSN: cfg.Database.DSN})
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("open database session").
			WithResource(string(driver)).
			WithIssue(issue.ConnectionFailedId).
			WithSuggestion("Check the DSN with 'mlesh config show'").
			WithSuggestion("Use --dry-run to print statements instead").
			Wrap(err).
			BuildError()
	}
	slog.Debug("database session opened", "driver", driver)
	return sess, nil
}

// historyStore opens the ledger. readOnly callers get the store even when
// recording is disabled.
func (a *App) historyStore(ctx context.Context, readOnly bool) (HistoryStore, error) {
	cfg, err := a.loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	if !readOnly && (!cfg.History.Enabled || a.flags.dryRun) {
		return nil, nil
	}

	path, err := config.HistoryPath(cfg, a.loadOpts)
	if err != nil {
		return nil, err
	}
	store, err := a.OpenHistory(ctx, path)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("open installation history").
			WithResource(path).
			WithIssue(issue.HistoryUnavailableId).
			Wrap(err).
			BuildError()
	}
	return store, nil
}

// mleDeps builds the installer collaborators. Installation works without a
// ledger, so a history failure is only logged. The returned function
// releases the ledger.
func (a *App) mleDeps(ctx context.Context) (mle.Deps, func(), error) {
	cfg, err := a.loadConfig(ctx)
	if err != nil {
		return mle.Deps{}, nil, err
	}

	deps := mle.Deps{
		Resolver: mle.NewResolver(
			mle.WithTimeout(cfg.Resolver.Timeout),
			mle.WithUserAgent(cfg.Resolver.UserAgent),
			mle.WithMaxBytes(cfg.Resolver.MaxBytes),
		),
	}

	store, err := a.historyStore(ctx, false)
	if err != nil {
		slog.Warn("installation history disabled", "error", err)
		return deps, func() {}, nil
	}
	if store == nil {
		return deps, func() {}, nil
	}

	deps.Recorder = mle.RecorderFunc(func(ctx context.Context, req mle.Request) error {
		version, _ := req.Version()
		return store.Record(ctx, history.NewEntry(req.ModuleName(), version, req.Source(), req.Content(), a.Now()))
	})
	release := func() {
		if err := store.Close(); err != nil {
			slog.Warn("failed to close installation history", "error", err)
		}
	}
	return deps, release, nil
}

// newShell builds a shell writing to out with the mle script installed. When
// registerKeyword is set the mle keyword listener is registered up front.
func (a *App) newShell(ctx context.Context, out io.Writer, interactive, registerKeyword bool) (*shell.Shell, func(), error) {
	cfg, err := a.loadConfig(ctx)
	if err != nil {
		return nil, nil, err
	}
	sess, err := a.openSession(ctx, out)
	if err != nil {
		return nil, nil, err
	}
	deps, release, err := a.mleDeps(ctx)
	if err != nil {
		_ = sess.Close()
		return nil, nil, err
	}

	sh := shell.New(out, sess,
		shell.WithPrompt(cfg.Shell.Prompt),
		shell.WithInteractive(interactive),
		shell.WithScript(mle.ScriptName, mle.Script(deps)),
	)
	if registerKeyword {
		mle.Register(sh.Registry(), mle.NewListener(deps))
	}

	cleanup := func() {
		release()
		if err := sess.Close(); err != nil && !errors.Is(err, session.ErrNotConnected) {
			slog.Warn("failed to close database session", "error", err)
		}
	}
	return sh, cleanup, nil
}

// exitCodeFor classifies errors returned by scripts.
func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, mle.ErrUsage),
		errors.Is(err, shell.ErrMissingScript),
		errors.Is(err, shell.ErrScriptNotFound):
		return ExitUsage
	default:
		return ExitFailure
	}
}

// scriptError wraps a failed script run as an ExitError, linking catalog
// guidance where one applies.
func scriptError(err error) error {
	code := exitCodeFor(err)

	var rerr *mle.ResolutionError
	switch {
	case errors.As(err, &rerr):
		err = issue.NewErrorContext().
			WithOperation("resolve module content").
			WithResource(rerr.Location).
			WithIssue(issue.ContentUnavailableId).
			Wrap(err).
			BuildError()
	case errors.Is(err, session.ErrNotConnected):
		err = issue.NewErrorContext().
			WithOperation("install mle module").
			WithIssue(issue.NotConnectedId).
			Wrap(err).
			BuildError()
	case errors.Is(err, shell.ErrScriptNotFound):
		err = issue.NewErrorContext().
			WithOperation("run script").
			WithIssue(issue.ScriptNotFoundId).
			Wrap(err).
			BuildError()
	case code == ExitFailure:
		err = issue.NewErrorContext().
			WithOperation("install mle module").
			WithIssue(issue.InstallFailedId).
			Wrap(err).
			BuildError()
	}
	return &ExitError{Code: code, Err: err}
}

// formatErrorForDisplay formats an error for user display, using the
// suggestions and optional error chain of an ActionableError.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}

// renderIssue prints the catalog entry linked to err, if any.
func renderIssue(w io.Writer, err error) {
	entry, ok := issue.IssueOf(err)
	if !ok {
		return
	}
	rendered, renderErr := entry.Render("dark")
	if renderErr != nil {
		slog.Warn("failed to render issue catalog entry", "issueID", entry.Id(), "error", renderErr)
		return
	}
	fmt.Fprint(w, rendered)
}
