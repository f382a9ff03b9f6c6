// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/mlesh/mlesh/cmd/mlesh"

func main() {
	cmd.Execute()
}
