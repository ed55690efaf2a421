// SPDX-License-Identifier: MPL-2.0

package main

import cmd "jarmin/cmd/jarmin"

func main() {
	cmd.Execute()
}
