// SPDX-License-Identifier: MPL-2.0

package args

import (
	"regexp"
	"strings"
)

// tokenPattern matches either a quoted span (group 1 holds its contents) or a
// bare run of non-whitespace characters (group 2).
var tokenPattern = regexp.MustCompile(`"([^"]*)"|(\S+)`)

// Split tokenizes line in source order. An empty or blank line yields an
// empty, non-nil slice.
//
// A quote that is never closed does not open a span; it is kept as part of
// the bare token it starts, e.g. `a "b` splits into `a` and `"b`.
func Split(line string) []string {
	matches := tokenPattern.FindAllStringSubmatch(strings.TrimSpace(line), -1)
	tokens := make([]string, 0, len(matches))
	for _, m := range matches {
		if m[2] != "" {
			tokens = append(tokens, m[2])
			continue
		}
		tokens = append(tokens, m[1])
	}
	return tokens
}

// Join is the inverse of Split for tokens that contain no double quotes.
// Tokens that are empty or contain whitespace are wrapped in quotes.
func Join(tokens []string) string {
	var sb strings.Builder
	for i, tok := range tokens {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if tok == "" || strings.ContainsFunc(tok, isSpace) {
			sb.WriteByte('"')
			sb.WriteString(tok)
			sb.WriteByte('"')
			continue
		}
		sb.WriteString(tok)
	}
	return sb.String()
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	}
	return false
}
