// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the mlesh command tree. Every command is built by a
// newXCommand(app) factory so tests can run it against an App with fake
// sessions and stores.
package cmd
