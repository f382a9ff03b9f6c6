// SPDX-License-Identifier: MPL-2.0

// Package args splits shell statements into argument tokens.
//
// The grammar is deliberately small: a double-quoted span is one token with
// the quotes removed, and any other run of non-whitespace characters is one
// token. There is no escaping inside quoted spans, so a quote character can
// never be part of a quoted token.
package args
