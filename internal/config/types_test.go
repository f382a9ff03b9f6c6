// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"
)

func TestDatabaseDriver_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value DatabaseDriver
		want  bool
	}{
		{DriverOracle, true},
		{DriverSQLite, true},
		{"", false},
		{"Oracle", false},
		{"postgres", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.value), func(t *testing.T) {
			t.Parallel()

			valid, errs := tt.value.IsValid()
			if valid != tt.want {
				t.Fatalf("IsValid() = %v, want %v", valid, tt.want)
			}
			if !valid && !errors.Is(errs[0], ErrInvalidDatabaseDriver) {
				t.Errorf("error %v does not wrap ErrInvalidDatabaseDriver", errs[0])
			}
		})
	}
}

func TestColorScheme_IsValid(t *testing.T) {
	t.Parallel()

	for _, cs := range []ColorScheme{ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight} {
		if valid, errs := cs.IsValid(); !valid {
			t.Errorf("%s.IsValid() = %v", cs, errs)
		}
	}
	valid, errs := ColorScheme("neon").IsValid()
	if valid || !errors.Is(errs[0], ErrInvalidColorScheme) {
		t.Errorf("neon.IsValid() = %v, %v", valid, errs)
	}
}

func TestConfig_IsValid_CollectsFieldErrors(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Database.Driver = "mysql"
	cfg.Resolver.Timeout = 0
	cfg.Resolver.MaxBytes = -1
	cfg.Shell.Prompt = "  "

	valid, errs := cfg.IsValid()
	if valid {
		t.Fatal("IsValid() = true, want false")
	}

	var cfgErr *InvalidConfigError
	if !errors.As(errs[0], &cfgErr) {
		t.Fatalf("error = %T, want *InvalidConfigError", errs[0])
	}
	if len(cfgErr.FieldErrors) != 4 {
		t.Errorf("FieldErrors = %v, want 4 errors", cfgErr.FieldErrors)
	}
	if !errors.Is(errs[0], ErrInvalidConfig) {
		t.Error("InvalidConfigError does not wrap ErrInvalidConfig")
	}
	if !errors.Is(cfgErr.FieldErrors[1], ErrInvalidResolverConfig) {
		t.Errorf("FieldErrors[1] = %v, want resolver error", cfgErr.FieldErrors[1])
	}
}
