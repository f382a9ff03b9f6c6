// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"context"
	"slices"
	"sync"

	"github.com/mlesh/mlesh/internal/session"
)

// RecordingSession is a session.Session that records every statement and
// answers with a canned result or error.
type RecordingSession struct {
	mu         sync.Mutex
	statements []string
	closed     bool

	// Result is returned by every Exec.
	Result session.Result
	// Err, when set, is returned by every Exec after recording.
	Err error
}

// Exec records stmt.
func (s *RecordingSession) Exec(_ context.Context, stmt string) (session.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.statements = append(s.statements, stmt)
	if s.Err != nil {
		return session.Result{}, s.Err
	}
	return s.Result, nil
}

// Close marks the session closed.
func (s *RecordingSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}

// Statements returns a copy of the recorded statements.
func (s *RecordingSession) Statements() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.statements)
}

// Closed reports whether Close was called.
func (s *RecordingSession) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.closed
}
