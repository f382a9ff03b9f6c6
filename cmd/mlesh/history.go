// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/mlesh/mlesh/internal/history"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

type (
	// historyParams holds the inputs of `mlesh history`.
	historyParams struct {
		Limit  int
		Format string
		Out    io.Writer
	}

	// UnsupportedFormatError is returned for an unknown --format value.
	UnsupportedFormatError struct {
		Format string
	}
)

// Error implements the error interface.
func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported format %q (want table, json or yaml)", e.Format)
}

// newHistoryCommand creates the `mlesh history` command.
func newHistoryCommand(app *App) *cobra.Command {
	params := historyParams{}
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded module installations",
		Long: `List module installations recorded by mle.js, newest first.

Each entry keeps the module name, version, source location and the
SHA-256 digest of the installed source.`,
		Example: `  mlesh history
  mlesh history --limit 5
  mlesh history --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params.Out = cmd.OutOrStdout()
			if err := runHistory(cmd.Context(), app, params); err != nil {
				var formatErr *UnsupportedFormatError
				if errors.As(err, &formatErr) {
					return &ExitError{Code: ExitUsage, Err: err}
				}
				return &ExitError{Code: ExitFailure, Err: err}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&params.Limit, "limit", "n", 20, "maximum number of entries (0 for all)")
	cmd.Flags().StringVarP(&params.Format, "format", "o", formatTable, "output format: table, json or yaml")
	return cmd
}

func runHistory(ctx context.Context, app *App, params historyParams) error {
	switch params.Format {
	case formatTable, formatJSON, formatYAML:
	default:
		return &UnsupportedFormatError{Format: params.Format}
	}

	store, err := app.historyStore(ctx, true)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(ctx, params.Limit)
	if err != nil {
		return err
	}

	switch params.Format {
	case formatJSON:
		enc := json.NewEncoder(params.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case formatYAML:
		enc := yaml.NewEncoder(params.Out)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return err
		}
		return enc.Close()
	default:
		renderHistoryTable(params.Out, entries)
		return nil
	}
}

func renderHistoryTable(w io.Writer, entries []history.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, SubtitleStyle.Render("No installations recorded."))
		return
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		version := e.Version
		if version == "" {
			version = "-"
		}
		rows = append(rows, []string{
			e.InstalledAt.Local().Format(time.DateTime),
			e.Module,
			version,
			e.Source,
			strconv.FormatInt(e.Bytes, 10),
			e.SHA256[:min(len(e.SHA256), 12)],
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("INSTALLED", "MODULE", "VERSION", "SOURCE", "BYTES", "SHA256").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		})
	fmt.Fprintln(w, t.Render())
}
