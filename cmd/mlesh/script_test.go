// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mlesh/mlesh/internal/session"
	"github.com/mlesh/mlesh/internal/testutil"
)

const moduleSource = "export function hello() { return 'hi'; }"

func TestRunScript_InstallFromFile(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	sess := &testutil.RecordingSession{}
	app, _ := newTestApp(t, cfg, sess)
	installedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	app.Now = func() time.Time { return installedAt }

	path := testutil.MustWriteFile(t, t.TempDir(), "hello.js", moduleSource)

	var out bytes.Buffer
	err := runScript(context.Background(), app, scriptParams{
		Tokens: []string{"mle.js", "install", "hello_mod", path, "1.0.0"},
		Out:    &out,
	})
	if err != nil {
		t.Fatalf("runScript() error = %v", err)
	}

	want := "create or replace mle module hello_mod language javascript version '1.0.0' as\n" + moduleSource + "\n"
	stmts := sess.Statements()
	if len(stmts) != 1 || stmts[0] != want {
		t.Errorf("statements = %q, want [%q]", stmts, want)
	}
	if !strings.Contains(out.String(), "MLE module hello_mod installed.") {
		t.Errorf("output = %q, want install confirmation", out.String())
	}
	if !sess.Closed() {
		t.Error("session was not closed")
	}

	entries := listHistory(t, cfg.History.Path)
	if len(entries) != 1 {
		t.Fatalf("history has %d entries, want 1", len(entries))
	}
	got := entries[0]
	if got.Module != "hello_mod" || got.Version != "1.0.0" || got.Source != path {
		t.Errorf("entry = %+v, want hello_mod 1.0.0 from %s", got, path)
	}
	if got.Bytes != int64(len(moduleSource)) {
		t.Errorf("Bytes = %d, want %d", got.Bytes, len(moduleSource))
	}
	if !got.InstalledAt.Equal(installedAt) {
		t.Errorf("InstalledAt = %v, want %v", got.InstalledAt, installedAt)
	}
}

func TestRunScript_InstallFromURL(t *testing.T) {
	t.Parallel()

	srv := testutil.ModuleServer(t, map[string]string{"/lib/hello.js": moduleSource})
	sess := &testutil.RecordingSession{}
	app, _ := newTestApp(t, testConfig(t), sess)

	var out bytes.Buffer
	err := runScript(context.Background(), app, scriptParams{
		Tokens: []string{"mle.js", "install", "hello_mod", srv.URL + "/lib/hello.js"},
		Out:    &out,
	})
	if err != nil {
		t.Fatalf("runScript() error = %v", err)
	}

	want := "create or replace mle module hello_mod language javascript as\n" + moduleSource + "\n"
	if stmts := sess.Statements(); len(stmts) != 1 || stmts[0] != want {
		t.Errorf("statements = %q, want [%q]", stmts, want)
	}
}

func TestRunScript_DryRun(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	sess := &testutil.RecordingSession{}
	app, _ := newTestApp(t, cfg, sess)
	app.flags.dryRun = true

	path := testutil.MustWriteFile(t, t.TempDir(), "hello.js", moduleSource)

	var out bytes.Buffer
	err := runScript(context.Background(), app, scriptParams{
		Tokens: []string{"mle.js", "install", "hello_mod", path},
		Out:    &out,
	})
	if err != nil {
		t.Fatalf("runScript() error = %v", err)
	}

	if !strings.Contains(out.String(), "create or replace mle module hello_mod language javascript as\n"+moduleSource) {
		t.Errorf("output = %q, want echoed statement", out.String())
	}
	if stmts := sess.Statements(); len(stmts) != 0 {
		t.Errorf("database received %q during dry run", stmts)
	}
	if entries := listHistory(t, cfg.History.Path); len(entries) != 0 {
		t.Errorf("dry run recorded %d history entries", len(entries))
	}
}

func TestRunScript_HistoryDisabled(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.History.Enabled = false
	app, _ := newTestApp(t, cfg, &testutil.RecordingSession{})

	path := testutil.MustWriteFile(t, t.TempDir(), "hello.js", moduleSource)
	err := runScript(context.Background(), app, scriptParams{
		Tokens: []string{"mle.js", "install", "hello_mod", path},
		Out:    &bytes.Buffer{},
	})
	if err != nil {
		t.Fatalf("runScript() error = %v", err)
	}
	if entries := listHistory(t, cfg.History.Path); len(entries) != 0 {
		t.Errorf("history recorded %d entries while disabled", len(entries))
	}
}

func TestRunScript_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		tokens     []string
		noDSN      bool
		execErr    error
		wantCode   int
		wantOutput string
	}{
		{
			name:       "missing module name",
			tokens:     []string{"mle.js", "install"},
			wantCode:   ExitUsage,
			wantOutput: "missing mandatory <moduleName>.",
		},
		{
			name:       "unknown subcommand",
			tokens:     []string{"mle.js", "uninstall"},
			wantCode:   ExitUsage,
			wantOutput: "unknown subcommand 'uninstall'.",
		},
		{
			name:       "unresolvable content",
			tokens:     []string{"mle.js", "install", "m", "./does-not-exist.js"},
			wantCode:   ExitUsage,
			wantOutput: "cannot get content of './does-not-exist.js'.",
		},
		{
			name:       "unknown script",
			tokens:     []string{"other.js"},
			wantCode:   ExitUsage,
			wantOutput: "script 'other.js' not found.",
		},
		{
			name:       "rejected by database",
			tokens:     []string{"mle.js", "install", "m", "FILE"},
			execErr:    errors.New("ORA-04103: invalid module"),
			wantCode:   ExitFailure,
			wantOutput: "ORA-04103: invalid module",
		},
		{
			name:       "not connected",
			tokens:     []string{"mle.js", "install", "m", "FILE"},
			noDSN:      true,
			wantCode:   ExitFailure,
			wantOutput: session.ErrNotConnected.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := testConfig(t)
			if tt.noDSN {
				cfg.Database.DSN = ""
			}
			sess := &testutil.RecordingSession{Err: tt.execErr}
			app, _ := newTestApp(t, cfg, sess)

			path := testutil.MustWriteFile(t, t.TempDir(), "m.js", moduleSource)
			tokens := make([]string, len(tt.tokens))
			for i, tok := range tt.tokens {
				if tok == "FILE" {
					tok = path
				}
				tokens[i] = tok
			}

			var out bytes.Buffer
			err := runScript(context.Background(), app, scriptParams{Tokens: tokens, Out: &out})

			var exitErr *ExitError
			if !errors.As(err, &exitErr) {
				t.Fatalf("runScript() error = %v, want *ExitError", err)
			}
			if exitErr.Code != tt.wantCode {
				t.Errorf("Code = %d, want %d", exitErr.Code, tt.wantCode)
			}
			if !strings.Contains(out.String(), tt.wantOutput) {
				t.Errorf("output = %q, want it to contain %q", out.String(), tt.wantOutput)
			}
			if entries := listHistory(t, cfg.History.Path); len(entries) != 0 {
				t.Errorf("failed run recorded %d history entries", len(entries))
			}
		})
	}
}

func TestScriptCommand_PassesFlagsThrough(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t, testConfig(t), &testutil.RecordingSession{})
	root := newRootCommand(app)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--dry-run", "script", "mle.js", "version"})

	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got, want := out.String(), "\nMLE version 1.0.0\n\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
	if !app.flags.dryRun {
		t.Error("--dry-run before the subcommand was not parsed")
	}
}
