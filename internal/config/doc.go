// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/mlesh/config.cue (or the XDG equivalent on Linux,
// ~/Library/Application Support/mlesh/config.cue on macOS, %APPDATA%\mlesh\config.cue
// on Windows), falling back to ./config.cue. Files are validated against the embedded
// CUE schema (config_schema.cue) and MLESH_* environment variables override file values.
package config
