// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// runHost runs script in the embedded POSIX shell with the shell output as
// stdout and stderr.
func (s *Shell) runHost(ctx context.Context, script string) {
	if script == "" {
		fmt.Fprint(s.sc.Out, "missing host command.\n\n")
		return
	}

	prog, err := syntax.NewParser().Parse(strings.NewReader(script), "host")
	if err != nil {
		fmt.Fprintf(s.sc.Out, "%v\n\n", err)
		return
	}

	runner, err := interp.New(
		interp.StdIO(nil, s.sc.Out, s.sc.Out),
		interp.Env(expand.ListEnviron(os.Environ()...)),
	)
	if err != nil {
		fmt.Fprintf(s.sc.Out, "%v\n\n", err)
		return
	}

	if err := runner.Run(ctx, prog); err != nil {
		var status interp.ExitStatus
		if errors.As(err, &status) {
			fmt.Fprintf(s.sc.Out, "host command exited with status %d\n\n", uint8(status))
			return
		}
		fmt.Fprintf(s.sc.Out, "%v\n\n", err)
	}
}
