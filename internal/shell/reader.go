// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"bufio"
	"io"
	"strings"
)

// maxLineBytes bounds a single input line; module sources are often minified
// onto one long line.
const maxLineBytes = 64 << 20

// sqlKeywords start statements that may span several lines. Any other first
// word makes the line a one-line command.
var sqlKeywords = map[string]struct{}{
	"alter":    {},
	"begin":    {},
	"call":     {},
	"comment":  {},
	"create":   {},
	"declare":  {},
	"delete":   {},
	"drop":     {},
	"grant":    {},
	"insert":   {},
	"merge":    {},
	"revoke":   {},
	"select":   {},
	"truncate": {},
	"update":   {},
	"with":     {},
}

// blockObjects are the object kinds whose CREATE statement carries a body that
// may itself contain semicolons. Such statements end only at a "/" line.
var blockObjects = map[string]struct{}{
	"function":  {},
	"library":   {},
	"mle":       {},
	"package":   {},
	"procedure": {},
	"trigger":   {},
	"type":      {},
}

// Reader splits input into statements.
type Reader struct {
	scanner *bufio.Scanner
	line    int
}

// NewReader creates a statement reader over r.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return &Reader{scanner: sc}
}

// Next returns the next statement, or io.EOF once the input is exhausted.
// Blank lines and "--" comment lines between statements are skipped. A
// statement still open at end of input is returned as is.
func (r *Reader) Next() (Command, error) {
	var (
		buf   []string
		start int
		block bool
	)

	for r.scanner.Scan() {
		r.line++
		text := r.scanner.Text()
		trimmed := strings.TrimSpace(text)

		if len(buf) == 0 {
			if trimmed == "" || strings.HasPrefix(trimmed, "--") {
				continue
			}
			start = r.line
			if !isSQL(trimmed) {
				return Command{SQL: trimmed, Line: start}, nil
			}
			block = isBlock(trimmed)
		}

		if trimmed == "/" {
			return Command{SQL: strings.Join(buf, "\n"), Line: start}, nil
		}

		if !block && strings.HasSuffix(trimmed, ";") {
			buf = append(buf, strings.TrimSuffix(strings.TrimRight(text, " \t"), ";"))
			return Command{SQL: strings.Join(buf, "\n"), Line: start}, nil
		}

		buf = append(buf, text)
	}

	if err := r.scanner.Err(); err != nil {
		return Command{}, err
	}
	if len(buf) > 0 {
		return Command{SQL: strings.Join(buf, "\n"), Line: start}, nil
	}
	return Command{}, io.EOF
}

func isSQL(line string) bool {
	_, ok := sqlKeywords[firstWord(line)]
	return ok
}

// isBlock reports whether a statement ends only at a "/" line.
func isBlock(line string) bool {
	words := strings.Fields(strings.ToLower(line))
	switch words[0] {
	case "begin", "declare":
		return true
	case "create":
	default:
		return false
	}

	for _, w := range words[1:] {
		switch w {
		case "or", "replace", "editionable", "noneditionable", "and", "resolve", "compile":
			continue
		}
		_, ok := blockObjects[w]
		return ok
	}
	return false
}

func firstWord(line string) string {
	end := strings.IndexFunc(line, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ';' || r == '('
	})
	if end < 0 {
		end = len(line)
	}
	return strings.ToLower(line[:end])
}
