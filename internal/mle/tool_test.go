// SPDX-License-Identifier: MPL-2.0

package mle

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mlesh/mlesh/internal/session"
	"github.com/mlesh/mlesh/internal/shell"
)

const scriptUsage = "MLE version 1.0.0\n\n" +
	"usage: script mle.js {subcommand} [options]\n\n" +
	"Valid subcommands and options are:\n\n" +
	"- install <moduleName> {<url>|<fileName>} [<version>]\n" +
	"  Installs an MLE module from a file or URL.\n\n" +
	"- register\n" +
	"  Registers 'mle' as a shell command.\n\n" +
	"- help\n" +
	"  Shows this screen.\n\n" +
	"- version\n" +
	"  Print version and exit.\n\n"

const commandUsage = "MLE version 1.0.0\n\n" +
	"usage: mle {subcommand} [options]\n\n" +
	"Valid subcommands and options are:\n\n" +
	"- install <moduleName> {<url>|<fileName>} [<version>]\n" +
	"  Installs an MLE module from a file or URL.\n\n" +
	"- help\n" +
	"  Shows this screen.\n\n" +
	"- version\n" +
	"  Print version and exit.\n\n"

func writeModule(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "mod.js")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runShell(t *testing.T, deps Deps, input string) string {
	t.Helper()

	var out bytes.Buffer
	sh := shell.New(&out, session.Echo{W: &out}, shell.WithScript(ScriptName, Script(deps)))
	if err := sh.Run(context.Background(), strings.NewReader(input)); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return out.String()
}

func TestScript_HelpAndVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"version", "script mle.js version\n", "\nMLE version 1.0.0\n\n"},
		{"version ignores case", "script mle.js VERSION\n", "\nMLE version 1.0.0\n\n"},
		{"help", "script mle.js help\n", "\n" + scriptUsage},
		{"help with extra argument is validated", "script mle.js help me\n", "\nunknown subcommand 'help'.\n\n" + scriptUsage},
		{"no subcommand", "script mle.js\n", "\nmissing mandatory subcommand.\n\n" + scriptUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := runShell(t, Deps{}, tt.input); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestScript_Install(t *testing.T) {
	t.Parallel()

	path := writeModule(t, "export const x = 1;")

	var recorded []Request
	deps := Deps{Recorder: RecorderFunc(func(_ context.Context, req Request) error {
		recorded = append(recorded, req)
		return nil
	})}

	got := runShell(t, deps, "script mle.js install m "+path+" 1.0.3\n")
	want := "\n" +
		"create or replace mle module m language javascript version '1.0.3' as\nexport const x = 1;\n\n" +
		"MLE module m installed.\n\n"
	if got != want {
		t.Errorf("output = %q, want %q", got, want)
	}

	if len(recorded) != 1 {
		t.Fatalf("recorded %d requests, want 1", len(recorded))
	}
	if recorded[0].ModuleName() != "m" || recorded[0].Source() != path {
		t.Errorf("recorded %+v", recorded[0])
	}
}

func TestScript_QuotedPath(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "with space")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "mod.js")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	got := runShell(t, Deps{}, `script mle.js install m "`+path+`"`+"\n")
	if !strings.HasSuffix(got, "MLE module m installed.\n\n") {
		t.Errorf("output = %q", got)
	}
}

func TestScript_InstallFailure(t *testing.T) {
	t.Parallel()

	path := writeModule(t, "x")

	var out bytes.Buffer
	sc := &shell.Context{Out: &out, Session: session.Disconnected{}, Registry: shell.NewRegistry()}
	err := New(sc, Deps{}).Main(context.Background(), []string{"mle.js", "install", "m", path})
	if !errors.Is(err, session.ErrNotConnected) {
		t.Fatalf("Main() error = %v, want ErrNotConnected", err)
	}
	if strings.Contains(out.String(), "installed.") {
		t.Errorf("failed install reported success: %q", out.String())
	}
}

func TestScript_UsageErrorIsReturned(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	sc := &shell.Context{Out: &out, Session: session.Echo{W: &out}}
	err := New(sc, Deps{}).Main(context.Background(), []string{"mle.js", "install", "m"})
	if !errors.Is(err, ErrUsage) {
		t.Errorf("Main() error = %v, want ErrUsage", err)
	}
}

func TestRegister_KeywordForm(t *testing.T) {
	t.Parallel()

	path := writeModule(t, "export const y = 2;")

	got := runShell(t, Deps{}, "script mle.js register\nmle install m "+path+"\nMLE version\nmle register\n")
	want := "\nmle registered as shell command.\n\n" +
		"\ncreate or replace mle module m language javascript as\nexport const y = 2;\n\n" +
		"MLE module m installed.\n\n" +
		"\nMLE version 1.0.0\n\n" +
		"\nunknown subcommand 'register'.\n\n" + commandUsage
	if got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestRegister_KeywordNotHandledBeforeRegistration(t *testing.T) {
	t.Parallel()

	got := runShell(t, Deps{}, "mle version\n")
	if strings.Contains(got, "MLE version") {
		t.Errorf("unregistered keyword was handled: %q", got)
	}
	if got != "mle version\n\n" {
		t.Errorf("output = %q, want statement passed to the session", got)
	}
}
