// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"
	"log/slog"
)

// traceListener logs every statement at debug level. It is pinned by New.
type traceListener struct{}

func (traceListener) BeginEvent(_ context.Context, _ *Context, cmd *Command) {
	slog.Debug("statement", "line", cmd.Line, "bytes", len(cmd.SQL))
}

func (traceListener) HandleEvent(context.Context, *Context, *Command) bool { return false }

func (traceListener) EndEvent(context.Context, *Context, *Command) {}

func (traceListener) Identity() string { return "Trace" }
