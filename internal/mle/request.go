// SPDX-License-Identifier: MPL-2.0

package mle

import (
	"strings"
)

// Request is a validated installation request. It is only produced by
// Validate and cannot be changed afterwards.
type Request struct {
	moduleName string
	content    string
	source     string
	version    string
	hasVersion bool
}

// ModuleName returns the name of the module to create or replace.
func (r Request) ModuleName() string { return r.moduleName }

// Content returns the module source text.
func (r Request) Content() string { return r.content }

// Source returns the URL or file name the content was read from.
func (r Request) Source() string { return r.source }

// Version returns the module version and whether one was given.
func (r Request) Version() (string, bool) { return r.version, r.hasVersion }

// Statement builds the DDL statement that installs the module.
func (r Request) Statement() string {
	var sb strings.Builder
	sb.WriteString("create or replace mle module ")
	sb.WriteString(r.moduleName)
	sb.WriteString(" language javascript")
	if r.hasVersion {
		sb.WriteString(" version ")
		sb.WriteString(quoteLiteral(r.version))
	}
	sb.WriteString(" as\n")
	sb.WriteString(r.content)
	sb.WriteString("\n")
	return sb.String()
}

// quoteLiteral renders s as a SQL string literal.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
