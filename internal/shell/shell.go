// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/mlesh/mlesh/internal/args"
	"github.com/mlesh/mlesh/internal/session"
)

// DefaultPrompt is shown before each statement on interactive input.
const DefaultPrompt = "SQL> "

var (
	// ErrMissingScript is returned by RunScript when no script name is given.
	ErrMissingScript = errors.New("missing script name")
	// ErrScriptNotFound is returned by RunScript for names not in the script table.
	ErrScriptNotFound = errors.New("script not found")
)

type (
	// ScriptFunc runs a script invoked with "script <name> [args]". tokens[0]
	// is the script name as typed.
	ScriptFunc func(ctx context.Context, sc *Context, tokens []string) error

	// Shell reads statements and dispatches them.
	Shell struct {
		sc          *Context
		scripts     map[string]ScriptFunc
		prompt      string
		interactive bool
		promptStyle lipgloss.Style
	}

	// Option configures a Shell during construction.
	Option func(*Shell)
)

// WithRegistry shares an existing registry instead of creating a new one.
func WithRegistry(r *Registry) Option {
	return func(s *Shell) {
		s.sc.Registry = r
	}
}

// WithPrompt overrides DefaultPrompt.
func WithPrompt(prompt string) Option {
	return func(s *Shell) {
		s.prompt = prompt
	}
}

// WithInteractive enables the prompt. It should be set only when the input
// is a terminal.
func WithInteractive(interactive bool) Option {
	return func(s *Shell) {
		s.interactive = interactive
	}
}

// WithScript adds a script to the script table.
func WithScript(name string, fn ScriptFunc) Option {
	return func(s *Shell) {
		s.scripts[strings.ToLower(name)] = fn
	}
}

// New creates a shell writing to out and executing statements on sess.
func New(out io.Writer, sess session.Session, opts ...Option) *Shell {
	if sess == nil {
		sess = session.Disconnected{}
	}
	s := &Shell{
		sc: &Context{
			Out:     out,
			Session: sess,
		},
		scripts:     make(map[string]ScriptFunc),
		prompt:      DefaultPrompt,
		promptStyle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED")),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.sc.Registry == nil {
		s.sc.Registry = NewRegistry()
	}
	s.sc.Registry.Pin(ForAllStatements, traceListener{})
	return s
}

// Context returns the context handed to listeners and scripts.
func (s *Shell) Context() *Context { return s.sc }

// Registry returns the shell's listener registry.
func (s *Shell) Registry() *Registry { return s.sc.Registry }

// Run processes statements from r until end of input, an exit command or
// context cancellation. Statement failures are reported on the output and
// never stop the loop.
func (s *Shell) Run(ctx context.Context, r io.Reader) error {
	reader := NewReader(r)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.showPrompt()

		cmd, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read statement: %w", err)
		}

		if exit := s.Execute(ctx, &cmd); exit {
			return nil
		}
	}
}

// Execute processes a single statement and reports whether the shell should
// stop.
func (s *Shell) Execute(ctx context.Context, cmd *Command) (exit bool) {
	if s.dispatch(ctx, cmd) {
		return false
	}

	tokens := args.Split(cmd.SQL)
	if len(tokens) > 0 {
		switch strings.ToLower(tokens[0]) {
		case "exit", "quit":
			return true
		case "script":
			if err := s.RunScript(ctx, tokens[1:]); err != nil {
				slog.Debug("script finished with error", "error", err)
			}
			return false
		case "host":
			s.runHost(ctx, strings.TrimSpace(cmd.SQL[len(tokens[0]):]))
			return false
		}
		if strings.HasPrefix(cmd.SQL, "!") {
			s.runHost(ctx, strings.TrimSpace(cmd.SQL[1:]))
			return false
		}
	}

	s.execSQL(ctx, cmd)
	return false
}

// dispatch offers cmd to the registered listeners.
func (s *Shell) dispatch(ctx context.Context, cmd *Command) bool {
	listeners := s.sc.Registry.dispatchList(ForAllStatements)
	for _, l := range listeners {
		l.BeginEvent(ctx, s.sc, cmd)
	}

	handled := false
	for _, l := range listeners {
		if l.HandleEvent(ctx, s.sc, cmd) {
			handled = true
			break
		}
	}

	for _, l := range listeners {
		l.EndEvent(ctx, s.sc, cmd)
	}
	return handled
}

// RunScript runs the script named by tokens[0] with tokens as its
// arguments. Missing or unknown names are reported on the output and
// returned as ErrMissingScript or ErrScriptNotFound; otherwise the script's
// own error is returned.
func (s *Shell) RunScript(ctx context.Context, tokens []string) error {
	if len(tokens) == 0 {
		fmt.Fprint(s.sc.Out, "missing script name.\n\n")
		return ErrMissingScript
	}

	fn, ok := s.scripts[strings.ToLower(tokens[0])]
	if !ok {
		fmt.Fprintf(s.sc.Out, "script '%s' not found.\n\n", tokens[0])
		return fmt.Errorf("%w: %s", ErrScriptNotFound, tokens[0])
	}
	return fn(ctx, s.sc, tokens)
}

func (s *Shell) execSQL(ctx context.Context, cmd *Command) {
	res, err := s.sc.Session.Exec(ctx, cmd.SQL)
	if err != nil {
		fmt.Fprintf(s.sc.Out, "\nError at line %d: %v\n\n", cmd.Line, err)
		return
	}

	if !res.IsQuery() {
		return
	}
	if len(res.Rows) == 0 {
		fmt.Fprint(s.sc.Out, "\nno rows selected\n\n")
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(res.Columns...).
		Rows(res.Rows...)
	fmt.Fprintf(s.sc.Out, "\n%s\n\n%d rows selected.\n\n", t.Render(), len(res.Rows))
}

func (s *Shell) showPrompt() {
	if !s.interactive {
		return
	}
	fmt.Fprint(s.sc.Out, s.promptStyle.Render(s.prompt))
}
