// SPDX-License-Identifier: MPL-2.0

package mle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrUsage is the sentinel wrapped by UsageError.
var ErrUsage = errors.New("usage error")

// UsageError is a malformed or incomplete invocation. Message is the
// diagnostic line written to the output.
type UsageError struct {
	Message string
	Err     error
}

// Error implements the error interface.
func (e *UsageError) Error() string { return e.Message }

// Unwrap returns the cause, if any.
func (e *UsageError) Unwrap() error { return e.Err }

// Is reports ErrUsage as a match so callers can use errors.Is(err, ErrUsage).
func (e *UsageError) Is(target error) bool { return target == ErrUsage }

// Validate turns tokens into a Request.
//
// The checks run in a fixed order and the first failing one wins; its
// diagnostic is written to w and returned as a *UsageError:
//
//  1. missing subcommand
//  2. subcommand other than install
//  3. missing or empty module name
//  4. missing URL or file name
//  5. content that cannot be resolved (or is empty)
//  6. more than one trailing version argument
//
// Extra parameters are therefore only reported once the content resolved.
func Validate(ctx context.Context, w io.Writer, resolver ContentResolver, tokens []string) (Request, error) {
	if len(tokens) < 2 {
		return Request{}, usage(w, nil, "missing mandatory subcommand.")
	}
	if strings.ToLower(tokens[1]) != "install" {
		return Request{}, usage(w, nil, "unknown subcommand '%s'.", tokens[1])
	}
	if len(tokens) < 3 || tokens[2] == "" {
		return Request{}, usage(w, nil, "missing mandatory <moduleName>.")
	}
	if len(tokens) < 4 {
		return Request{}, usage(w, nil, "missing mandatory <url> or <fileName>.")
	}

	location := tokens[3]
	content, err := resolver.Resolve(ctx, location)
	if err == nil && content == "" {
		err = fmt.Errorf("%s is empty", location)
	}
	if err != nil {
		return Request{}, usage(w, err, "cannot get content of '%s'.", location)
	}

	req := Request{
		moduleName: tokens[2],
		content:    content,
		source:     location,
	}
	if len(tokens) == 5 {
		req.version = tokens[4]
		req.hasVersion = true
	}
	if len(tokens) > 5 {
		return Request{}, usage(w, nil, "too many parameters passed.")
	}
	return req, nil
}

func usage(w io.Writer, cause error, format string, a ...any) *UsageError {
	msg := fmt.Sprintf(format, a...)
	fmt.Fprintf(w, "%s\n\n", msg)
	return &UsageError{Message: msg, Err: cause}
}
