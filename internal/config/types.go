// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// DriverOracle selects the go-ora driver.
	// Defined locally to avoid coupling config to internal/session.
	DriverOracle DatabaseDriver = "oracle"
	// DriverSQLite selects the modernc.org/sqlite driver.
	DriverSQLite DatabaseDriver = "sqlite"

	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// DefaultPrompt is the interactive shell prompt.
	DefaultPrompt = "SQL> "
	// DefaultUserAgent is sent with URL fetches.
	DefaultUserAgent = "mlesh"
	// DefaultResolverTimeout bounds a single URL fetch.
	DefaultResolverTimeout = 30 * time.Second
	// DefaultMaxBytes is the largest module source accepted (32 MB).
	DefaultMaxBytes int64 = 32 << 20
)

var (
	// ErrInvalidDatabaseDriver is returned when a DatabaseDriver value is not recognized.
	ErrInvalidDatabaseDriver = errors.New("invalid database driver")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidResolverConfig is the sentinel error wrapped by InvalidResolverConfigError.
	ErrInvalidResolverConfig = errors.New("invalid resolver config")
	// ErrInvalidShellConfig is returned when the shell prompt is blank.
	ErrInvalidShellConfig = errors.New("invalid shell config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// DatabaseDriver names the database/sql driver used for sessions.
	DatabaseDriver string

	// InvalidDatabaseDriverError is returned when a DatabaseDriver value is not recognized.
	// It wraps ErrInvalidDatabaseDriver for errors.Is() compatibility.
	InvalidDatabaseDriverError struct {
		Value DatabaseDriver
	}

	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidResolverConfigError describes a non-positive timeout or size limit.
	InvalidResolverConfigError struct {
		Field string
		Value string
	}

	// InvalidConfigError collects every field error of a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// Database selects the driver and connection string
		Database DatabaseConfig `json:"database" yaml:"database" mapstructure:"database"`
		// Resolver configures how module sources are fetched
		Resolver ResolverConfig `json:"resolver" yaml:"resolver" mapstructure:"resolver"`
		// History configures the local installation ledger
		History HistoryConfig `json:"history" yaml:"history" mapstructure:"history"`
		// Shell configures the interactive shell
		Shell ShellConfig `json:"shell" yaml:"shell" mapstructure:"shell"`
		// UI configures the user interface
		UI UIConfig `json:"ui" yaml:"ui" mapstructure:"ui"`
	}

	// DatabaseConfig selects the database connection.
	DatabaseConfig struct {
		Driver DatabaseDriver `json:"driver" yaml:"driver" mapstructure:"driver"`
		// DSN is empty when no connection is configured.
		DSN string `json:"dsn" yaml:"dsn" mapstructure:"dsn"`
	}

	// ResolverConfig controls URL and file content resolution.
	ResolverConfig struct {
		Timeout   time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
		UserAgent string        `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
		MaxBytes  int64         `json:"max_bytes" yaml:"max_bytes" mapstructure:"max_bytes"`
	}

	// HistoryConfig controls the installation ledger.
	HistoryConfig struct {
		Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
		// Path overrides the ledger location; empty means history.db in the config directory.
		Path string `json:"path" yaml:"path" mapstructure:"path"`
	}

	// ShellConfig configures the interactive shell.
	ShellConfig struct {
		Prompt string `json:"prompt" yaml:"prompt" mapstructure:"prompt"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" yaml:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables debug logging and full error chains
		Verbose bool `json:"verbose" yaml:"verbose" mapstructure:"verbose"`
	}
)

// String returns the string representation of the DatabaseDriver.
func (d DatabaseDriver) String() string { return string(d) }

// IsValid returns whether the DatabaseDriver is one of the supported drivers.
func (d DatabaseDriver) IsValid() (bool, []error) {
	switch d {
	case DriverOracle, DriverSQLite:
		return true, nil
	default:
		return false, []error{&InvalidDatabaseDriverError{Value: d}}
	}
}

// Error implements the error interface for InvalidDatabaseDriverError.
func (e *InvalidDatabaseDriverError) Error() string {
	return fmt.Sprintf("invalid database driver %q (valid: oracle, sqlite)", e.Value)
}

// Unwrap returns ErrInvalidDatabaseDriver for errors.Is() compatibility.
func (e *InvalidDatabaseDriverError) Unwrap() error { return ErrInvalidDatabaseDriver }

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error {
	return ErrInvalidColorScheme
}

// IsValid reports a non-positive timeout or size limit.
func (c ResolverConfig) IsValid() (bool, []error) {
	var errs []error
	if c.Timeout <= 0 {
		errs = append(errs, &InvalidResolverConfigError{Field: "timeout", Value: c.Timeout.String()})
	}
	if c.MaxBytes <= 0 {
		errs = append(errs, &InvalidResolverConfigError{Field: "max_bytes", Value: fmt.Sprint(c.MaxBytes)})
	}
	return len(errs) == 0, errs
}

// Error implements the error interface for InvalidResolverConfigError.
func (e *InvalidResolverConfigError) Error() string {
	return fmt.Sprintf("invalid resolver %s %s: must be positive", e.Field, e.Value)
}

// Unwrap returns ErrInvalidResolverConfig for errors.Is() compatibility.
func (e *InvalidResolverConfigError) Unwrap() error { return ErrInvalidResolverConfig }

// IsValid rejects a blank prompt.
func (c ShellConfig) IsValid() (bool, []error) {
	if strings.TrimSpace(c.Prompt) == "" {
		return false, []error{fmt.Errorf("%w: prompt must not be blank", ErrInvalidShellConfig)}
	}
	return true, nil
}

// IsValid returns whether the Config has valid fields. The DSN is not
// checked here; the driver reports malformed connection strings.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Database.Driver.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Resolver.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Shell.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig followed by the field errors, so errors.Is
// matches both the sentinel and each field's own sentinel.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver: DriverOracle,
			DSN:    "", // No connection until configured
		},
		Resolver: ResolverConfig{
			Timeout:   DefaultResolverTimeout,
			UserAgent: DefaultUserAgent,
			MaxBytes:  DefaultMaxBytes,
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    "", // history.db in the config directory
		},
		Shell: ShellConfig{
			Prompt: DefaultPrompt,
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
	}
}
