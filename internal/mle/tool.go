// SPDX-License-Identifier: MPL-2.0

package mle

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/mlesh/mlesh/internal/shell"
)

const (
	// Version is the tool version printed by the version subcommand.
	Version = "1.0.0"

	// Keyword is the first token of statements handled by the registered
	// listener.
	Keyword = "mle"

	// ScriptName is the name the one-shot form is registered under in the
	// shell script table.
	ScriptName = "mle.js"
)

type (
	// Deps are the collaborators shared by every invocation of the tool.
	// A nil Resolver is replaced by NewResolver(); a nil Recorder disables
	// recording.
	Deps struct {
		Resolver ContentResolver
		Recorder Recorder
	}

	// Tool is a single invocation of mle bound to a shell context.
	Tool struct {
		out       io.Writer
		resolver  ContentResolver
		installer Installer
		registry  ListenerRegistry
		recorder  Recorder
		deps      Deps
	}
)

// New creates a tool that writes to sc.Out, installs through sc.Session and
// registers into sc.Registry.
func New(sc *shell.Context, deps Deps) *Tool {
	if deps.Resolver == nil {
		deps.Resolver = NewResolver()
	}
	t := &Tool{
		out:       sc.Out,
		resolver:  deps.Resolver,
		installer: SessionInstaller{Session: sc.Session},
		recorder:  deps.Recorder,
		deps:      deps,
	}
	if sc.Registry != nil {
		t.registry = sc.Registry
	}
	return t
}

// Script returns the shell script function for the one-shot form.
func Script(deps Deps) shell.ScriptFunc {
	return func(ctx context.Context, sc *shell.Context, tokens []string) error {
		return New(sc, deps).Main(ctx, tokens)
	}
}

// Main is the one-shot entry point: "register" installs the keyword listener,
// everything else goes to Dispatch.
func (t *Tool) Main(ctx context.Context, tokens []string) error {
	if len(tokens) >= 2 && strings.ToLower(tokens[1]) == "register" {
		t.register()
		return nil
	}
	return t.Dispatch(ctx, tokens)
}

// Dispatch shows help or the version, or validates and installs.
// A *UsageError is returned after the usage text has been printed.
func (t *Tool) Dispatch(ctx context.Context, tokens []string) error {
	asCommand := len(tokens) > 0 && strings.ToLower(tokens[0]) == Keyword
	fmt.Fprintln(t.out)

	switch {
	case len(tokens) == 2 && strings.ToLower(tokens[1]) == "help":
		t.printUsage(asCommand)
		return nil
	case len(tokens) == 2 && strings.ToLower(tokens[1]) == "version":
		t.printVersion()
		return nil
	}

	req, err := Validate(ctx, t.out, t.resolver, tokens)
	if err != nil {
		t.printUsage(asCommand)
		return err
	}
	return t.install(ctx, req)
}

func (t *Tool) install(ctx context.Context, req Request) error {
	if err := t.installer.Install(ctx, req); err != nil {
		fmt.Fprintf(t.out, "%v\n\n", err)
		return err
	}
	fmt.Fprintf(t.out, "MLE module %s installed.\n\n", req.ModuleName())

	if t.recorder != nil {
		if err := t.recorder.Record(ctx, req); err != nil {
			slog.Warn("failed to record installation", "module", req.ModuleName(), "error", err)
		}
	}
	return nil
}

func (t *Tool) register() {
	if t.registry == nil {
		fmt.Fprint(t.out, "\ncannot register mle: no command registry.\n\n")
		return
	}
	Register(t.registry, NewListener(t.deps))
	fmt.Fprint(t.out, "\nmle registered as shell command.\n\n")
}

func (t *Tool) printVersion() {
	fmt.Fprintf(t.out, "MLE version %s\n\n", Version)
}

func (t *Tool) printUsage(asCommand bool) {
	t.printVersion()
	if asCommand {
		fmt.Fprint(t.out, "usage: mle {subcommand} [options]\n\n")
	} else {
		fmt.Fprint(t.out, "usage: script mle.js {subcommand} [options]\n\n")
	}
	fmt.Fprint(t.out, "Valid subcommands and options are:\n\n")
	fmt.Fprint(t.out, "- install <moduleName> {<url>|<fileName>} [<version>]\n")
	fmt.Fprint(t.out, "  Installs an MLE module from a file or URL.\n\n")
	if !asCommand {
		fmt.Fprint(t.out, "- register\n")
		fmt.Fprint(t.out, "  Registers 'mle' as a shell command.\n\n")
	}
	fmt.Fprint(t.out, "- help\n")
	fmt.Fprint(t.out, "  Shows this screen.\n\n")
	fmt.Fprint(t.out, "- version\n")
	fmt.Fprint(t.out, "  Print version and exit.\n\n")
}
