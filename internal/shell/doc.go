// SPDX-License-Identifier: MPL-2.0

// Package shell implements the statement loop that hosts tools such as mle.
//
// Statements read from the input are processed one at a time and to
// completion. Each statement is first offered to the listeners registered in
// the Registry under ForAllStatements; a listener that reports the statement
// as handled suppresses everything else. Unhandled statements are matched
// against the built-in commands (script, host, exit) and finally executed on
// the active session.
//
// The Registry is shared mutable state. It is passed by reference to every
// listener through Context so tools can register themselves while the shell
// is running.
package shell
