// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"

	"github.com/mlesh/mlesh/internal/args"
	"github.com/mlesh/mlesh/internal/shell"

	"github.com/spf13/cobra"
)

// newExecCommand creates the `mlesh exec` command.
func newExecCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exec <statement...>",
		Short: "Run one statement with the mle keyword registered",
		Long: `Join the arguments into a single statement and run it through the shell
with the mle keyword already registered, so 'mle ...' works without a
prior 'script mle.js register'.`,
		Example: `  mlesh exec mle install my_mod ./my_mod.js
  mlesh exec mle version
  mlesh --dsn ./dev.db --driver sqlite exec "select 1"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, tokens []string) error {
			return runExec(cmd.Context(), app, tokens, cmd.OutOrStdout())
		},
	}
	cmd.Flags().SetInterspersed(false)
	return cmd
}

// runExec executes tokens as one statement. A single argument is taken
// verbatim. Failures are reported on out by the shell, as they would be in a
// session.
func runExec(ctx context.Context, app *App, tokens []string, out io.Writer) error {
	sh, cleanup, err := app.newShell(ctx, out, false, true)
	if err != nil {
		return &ExitError{Code: ExitFailure, Err: err}
	}
	defer cleanup()

	stmt := tokens[0]
	if len(tokens) > 1 {
		stmt = args.Join(tokens)
	}
	sh.Execute(ctx, &shell.Command{SQL: stmt, Line: 1})
	return nil
}
