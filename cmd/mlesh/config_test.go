// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mlesh/mlesh/internal/config"
)

func TestShowConfig(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	app, _ := newTestApp(t, cfg, nil)

	var out bytes.Buffer
	if err := showConfig(context.Background(), app, &out); err != nil {
		t.Fatalf("showConfig() error = %v", err)
	}

	for _, want := range []string{
		"(using defaults)",
		"oracle",
		cfg.Database.DSN,
		config.DefaultUserAgent,
		cfg.History.Path,
		`"SQL> "`,
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestInitConfig(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t, testConfig(t), nil)
	app.flags.configDir = t.TempDir()

	var out bytes.Buffer
	if err := initConfig(app, &out); err != nil {
		t.Fatalf("initConfig() error = %v", err)
	}
	path := filepath.Join(app.flags.configDir, "config.cue")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not created: %v", err)
	}
	if !strings.Contains(out.String(), "Created configuration:") {
		t.Errorf("output = %q", out.String())
	}

	out.Reset()
	if err := initConfig(app, &out); err != nil {
		t.Fatalf("second initConfig() error = %v", err)
	}
	if !strings.Contains(out.String(), "Configuration already exists:") {
		t.Errorf("output = %q", out.String())
	}
}

func TestConfigDump(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t, testConfig(t), nil)
	root := newRootCommand(app)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--dsn", "file:dump.db", "--driver", "sqlite", "config", "dump"})

	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	for _, want := range []string{`driver: "sqlite"`, `dsn:    "file:dump.db"`} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("dump missing %q:\n%s", want, out.String())
		}
	}
}
