// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// newShellCommand creates the `mlesh shell` command.
func newShellCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "shell [file]",
		Short: "Start a session reading statements from stdin or a file",
		Long: `Start a session. Statements end with ';' or a line holding only '/'.
Inside a session, 'script mle.js ...' runs the installer and
'script mle.js register' makes 'mle ...' available as a command.

The prompt is shown only when stdin is a terminal.`,
		Example: `  mlesh shell
  mlesh --dry-run shell install.sql
  echo "script mle.js version" | mlesh shell`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = app.stdin
			interactive := isTerminal(app.stdin)
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return &ExitError{Code: ExitFailure, Err: err}
				}
				defer f.Close()
				in = f
				interactive = false
			}
			return runShell(cmd.Context(), app, in, cmd.OutOrStdout(), interactive)
		},
	}
}

func runShell(ctx context.Context, app *App, in io.Reader, out io.Writer, interactive bool) error {
	sh, cleanup, err := app.newShell(ctx, out, interactive, false)
	if err != nil {
		return &ExitError{Code: ExitFailure, Err: err}
	}
	defer cleanup()

	if err := sh.Run(ctx, in); err != nil {
		return &ExitError{Code: ExitFailure, Err: err}
	}
	return nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
