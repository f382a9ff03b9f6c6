// SPDX-License-Identifier: MPL-2.0

// Package session provides the database session that shell statements and
// module installations are submitted to.
//
// A session is opened through database/sql with one of the supported drivers
// (Oracle via go-ora, SQLite via modernc.org/sqlite). Two stand-ins exist for
// runs without a database: Echo prints every statement instead of executing
// it (dry-run mode), and Disconnected rejects every statement.
package session
