// SPDX-License-Identifier: MPL-2.0

package mle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"golang.org/x/text/encoding/unicode"
)

const (
	// DefaultTimeout bounds a single URL fetch.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxBytes is the upper bound on module source size (32 MB).
	DefaultMaxBytes int64 = 32 << 20
)

var (
	// ErrUnsupportedScheme is returned by the URL stage for locations that
	// are not absolute http, https or file URLs.
	ErrUnsupportedScheme = errors.New("unsupported url scheme")
	// ErrTooLarge is returned when the content exceeds the configured limit.
	ErrTooLarge = errors.New("content exceeds size limit")
)

type (
	// ContentResolver fetches module source text for a location.
	ContentResolver interface {
		Resolve(ctx context.Context, location string) (string, error)
	}

	// ResolutionError is returned when a location could be read neither as a
	// URL nor as a file. Both underlying failures are kept for errors.Is/As.
	ResolutionError struct {
		Location string
		URLErr   error
		FileErr  error
	}

	// HTTPStatusError is the URL stage failure for a non-2xx response.
	HTTPStatusError struct {
		URL        string
		StatusCode int
	}

	// Resolver reads a location as a URL first and falls back to a file path.
	Resolver struct {
		client    *http.Client
		userAgent string
		maxBytes  int64
	}

	// ResolverOption configures a Resolver during construction.
	ResolverOption func(*Resolver)
)

// Error formats the failure the way it is reported to the user.
func (e *ResolutionError) Error() string {
	return fmt.Sprintf("cannot get content of '%s'", e.Location)
}

// Unwrap returns both stage errors.
func (e *ResolutionError) Unwrap() []error {
	return []error{e.URLErr, e.FileErr}
}

// Error implements the error interface.
func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.StatusCode)
}

// WithHTTPClient sets a custom HTTP client, useful for tests or proxy configurations.
func WithHTTPClient(c *http.Client) ResolverOption {
	return func(r *Resolver) {
		r.client = c
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(d time.Duration) ResolverOption {
	return func(r *Resolver) {
		if d > 0 {
			r.client = &http.Client{Timeout: d}
		}
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) ResolverOption {
	return func(r *Resolver) {
		r.userAgent = ua
	}
}

// WithMaxBytes limits the size of fetched content.
func WithMaxBytes(n int64) ResolverOption {
	return func(r *Resolver) {
		if n > 0 {
			r.maxBytes = n
		}
	}
}

// NewResolver creates a Resolver with DefaultTimeout and DefaultMaxBytes.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		client:   &http.Client{Timeout: DefaultTimeout},
		maxBytes: DefaultMaxBytes,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the UTF-8 text found at location.
//
// The location is first tried as an absolute URL. Any failure of that stage
// is swallowed and the location is then read as a file path, so a string
// that parses as a URL but cannot be fetched still resolves if such a file
// exists. Only when both stages fail is a *ResolutionError returned.
func (r *Resolver) Resolve(ctx context.Context, location string) (string, error) {
	data, urlErr := r.fetchURL(ctx, location)
	if urlErr == nil {
		return decodeUTF8(data)
	}

	data, fileErr := r.readFile(location)
	if fileErr == nil {
		return decodeUTF8(data)
	}

	return "", &ResolutionError{Location: location, URLErr: urlErr, FileErr: fileErr}
}

func (r *Resolver) fetchURL(ctx context.Context, location string) ([]byte, error) {
	u, err := url.Parse(location)
	if err != nil {
		return nil, err
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("%w: %q is not an absolute url", ErrUnsupportedScheme, location)
	}

	switch u.Scheme {
	case "http", "https":
	case "file":
		return r.readFile(u.Path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, u.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return nil, err
	}
	if r.userAgent != "" {
		req.Header.Set("User-Agent", r.userAgent)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPStatusError{URL: u.String(), StatusCode: resp.StatusCode}
	}

	return r.readLimited(resp.Body)
}

func (r *Resolver) readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return r.readLimited(f)
}

func (r *Resolver) readLimited(src io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(src, r.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > r.maxBytes {
		return nil, fmt.Errorf("%w (%d bytes)", ErrTooLarge, r.maxBytes)
	}
	return data, nil
}

// decodeUTF8 strips a leading byte order mark and replaces invalid sequences
// with U+FFFD.
func decodeUTF8(data []byte) (string, error) {
	text, err := unicode.UTF8BOM.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decode utf-8: %w", err)
	}
	return string(text), nil
}
