// SPDX-License-Identifier: MPL-2.0

// Package mle implements the mle tool: it installs MLE (Multilingual Engine)
// JavaScript modules into the database from a URL or a local file.
//
// The tool runs in two forms. The one-shot form is started through the
// shell's script command ("script mle.js install ..."). Its "register"
// subcommand adds a Listener to the shell registry, after which every
// statement starting with the keyword "mle" is handled by the tool directly
// ("mle install ...").
//
// A run flows through Dispatch, Validate (which calls the Resolver to fetch
// the module source) and finally the Installer, which submits a
// CREATE OR REPLACE MLE MODULE statement to the active session. All
// diagnostics, usage and version text go to a single output writer.
package mle
