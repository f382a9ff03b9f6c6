// SPDX-License-Identifier: MPL-2.0

package mle

import (
	"context"
	"fmt"

	"github.com/mlesh/mlesh/internal/session"
)

type (
	// Installer submits a validated request to the database.
	Installer interface {
		Install(ctx context.Context, req Request) error
	}

	// SessionInstaller installs modules by executing Request.Statement on a
	// session.
	SessionInstaller struct {
		Session session.Session
	}

	// Recorder is notified after every successful installation.
	Recorder interface {
		Record(ctx context.Context, req Request) error
	}

	// RecorderFunc adapts a function to the Recorder interface.
	RecorderFunc func(ctx context.Context, req Request) error
)

// Install executes the module DDL.
func (i SessionInstaller) Install(ctx context.Context, req Request) error {
	if i.Session == nil {
		return session.ErrNotConnected
	}
	if _, err := i.Session.Exec(ctx, req.Statement()); err != nil {
		return fmt.Errorf("create mle module %s: %w", req.ModuleName(), err)
	}
	return nil
}

// Record calls f(ctx, req).
func (f RecorderFunc) Record(ctx context.Context, req Request) error {
	return f(ctx, req)
}
