// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"

	"github.com/spf13/cobra"
)

type (
	// scriptParams holds the inputs of a one-shot script run.
	scriptParams struct {
		Tokens []string
		Out    io.Writer
	}
)

// newScriptCommand creates the `mlesh script` command.
func newScriptCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "script <name> [args...]",
		Short: "Run a shell script once and exit",
		Long: `Run a script from the shell's script table with the given arguments,
exactly as 'script <name> [args...]' would inside a session.

Flags after the script name are passed to the script unchanged.`,
		Example: `  mlesh script mle.js help
  mlesh script mle.js install my_mod ./my_mod.js 1.0.0
  mlesh --dry-run script mle.js install my_mod https://example.com/my_mod.js`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScript(cmd.Context(), app, scriptParams{
				Tokens: args,
				Out:    cmd.OutOrStdout(),
			})
		},
	}
	cmd.Flags().SetInterspersed(false)
	return cmd
}

// runScript executes a single script invocation and maps its outcome to an
// exit code.
func runScript(ctx context.Context, app *App, params scriptParams) error {
	sh, cleanup, err := app.newShell(ctx, params.Out, false, false)
	if err != nil {
		return &ExitError{Code: ExitFailure, Err: err}
	}
	defer cleanup()

	if err := sh.RunScript(ctx, params.Tokens); err != nil {
		return scriptError(err)
	}
	return nil
}
