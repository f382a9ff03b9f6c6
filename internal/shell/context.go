// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"io"

	"github.com/mlesh/mlesh/internal/session"
)

type (
	// Command is a single statement as seen by listeners.
	Command struct {
		// SQL is the statement text without its terminator.
		SQL string
		// Line is the 1-based input line the statement starts on.
		Line int
	}

	// Context is the per-shell state handed to listeners and scripts.
	Context struct {
		// Out is the text sink for all user-visible output.
		Out io.Writer
		// Session is the active database session.
		Session session.Session
		// Registry is the shell's listener registry.
		Registry *Registry
	}
)
