// SPDX-License-Identifier: MPL-2.0

package mle

import (
	"context"
	"strings"

	"github.com/mlesh/mlesh/internal/args"
	"github.com/mlesh/mlesh/internal/shell"
)

// ListenerIdentity marks the keyword listener so re-registration can
// recognize and replace it.
const ListenerIdentity = "Mle"

// Listener handles statements whose first token is the mle keyword.
type Listener struct {
	deps Deps
}

// NewListener creates a keyword listener sharing deps across invocations.
func NewListener(deps Deps) *Listener {
	return &Listener{deps: deps}
}

// BeginEvent does nothing.
func (l *Listener) BeginEvent(context.Context, *shell.Context, *shell.Command) {}

// HandleEvent runs the tool for "mle ..." statements and reports them as
// handled. Usage and install failures have already been printed, so they do
// not propagate.
func (l *Listener) HandleEvent(ctx context.Context, sc *shell.Context, cmd *shell.Command) bool {
	tokens := args.Split(cmd.SQL)
	if len(tokens) == 0 || strings.ToLower(tokens[0]) != Keyword {
		return false
	}
	_ = New(sc, l.deps).Dispatch(ctx, tokens)
	return true
}

// EndEvent does nothing.
func (l *Listener) EndEvent(context.Context, *shell.Context, *shell.Command) {}

// Identity implements shell.Listener.
func (l *Listener) Identity() string { return ListenerIdentity }
