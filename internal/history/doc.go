// SPDX-License-Identifier: MPL-2.0

// Package history keeps a local ledger of installed MLE modules in a SQLite
// database so past installations can be listed without a database connection.
package history
