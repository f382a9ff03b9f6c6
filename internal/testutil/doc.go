// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helpers shared by mlesh tests: temporary module
// files, an HTTP module server and a session that records statements.
package testutil
