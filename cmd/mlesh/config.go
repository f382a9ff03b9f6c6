// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mlesh/mlesh/internal/config"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `mlesh config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage mlesh configuration",
		Long: `Manage mlesh configuration.

Configuration is stored in:
  - Linux: ~/.config/mlesh/config.cue
  - macOS: ~/Library/Application Support/mlesh/config.cue
  - Windows: %APPDATA%\mlesh\config.cue

Every key can also be set from the environment, e.g. MLESH_DATABASE_DSN.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context(), app, cmd.OutOrStdout())
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(app, cmd.OutOrStdout())
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := app.Config.Path(app.loadOpts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App, w io.Writer) error {
	cfg, err := app.loadConfig(ctx)
	if err != nil {
		return err
	}

	valueStyle := SuccessStyle
	line := func(indent, key string, value any) {
		fmt.Fprintf(w, "%s%s: %s\n", indent, KeyStyle.Render(key), valueStyle.Render(fmt.Sprint(value)))
	}

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	if path, err := app.Config.Path(app.loadOpts); err == nil && fileExists(path) {
		line("", "Config file", path)
	} else {
		fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", KeyStyle.Render("database"))
	line("  ", "driver", cfg.Database.Driver)
	dsn := cfg.Database.DSN
	if dsn == "" {
		dsn = "(not configured)"
	}
	line("  ", "dsn", dsn)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", KeyStyle.Render("resolver"))
	line("  ", "timeout", cfg.Resolver.Timeout)
	line("  ", "user_agent", cfg.Resolver.UserAgent)
	line("  ", "max_bytes", cfg.Resolver.MaxBytes)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", KeyStyle.Render("history"))
	line("  ", "enabled", cfg.History.Enabled)
	if path, err := config.HistoryPath(cfg, app.loadOpts); err == nil {
		line("  ", "path", path)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", KeyStyle.Render("shell"))
	line("  ", "prompt", fmt.Sprintf("%q", cfg.Shell.Prompt))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", KeyStyle.Render("ui"))
	line("  ", "color_scheme", cfg.UI.ColorScheme)
	line("  ", "verbose", cfg.UI.Verbose)

	return nil
}

func initConfig(app *App, w io.Writer) error {
	path, created, err := config.CreateDefaultConfig(app.flags.configDir)
	if err != nil {
		return err
	}
	if !created {
		fmt.Fprintf(w, "%s %s\n", WarningStyle.Render("Configuration already exists:"), path)
		return nil
	}
	fmt.Fprintf(w, "%s %s\n", SuccessStyle.Render("Created configuration:"), path)
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
