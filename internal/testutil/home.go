// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"runtime"
	"testing"
)

// SetConfigHome points the platform config directory at dir for the rest of
// the test, so commands never read the user's real configuration.
//
// Platform handling:
//   - Windows: APPDATA
//   - macOS: HOME (config lives under Library/Application Support)
//   - Linux and others: XDG_CONFIG_HOME
func SetConfigHome(t *testing.T, dir string) {
	t.Helper()

	switch runtime.GOOS {
	case "windows":
		t.Setenv("APPDATA", dir)
	case "darwin":
		t.Setenv("HOME", dir)
	default:
		t.Setenv("XDG_CONFIG_HOME", dir)
	}
}
