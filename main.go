// SPDX-License-Identifier: MPL-2.0

package main

import cmd "mythicrealms-cli/cmd/mythicrealms"

func main() {
	cmd.Execute()
}
