// SPDX-License-Identifier: MPL-2.0

package main

import "github.com/invowk/opsconsole/cmd/opsconsole"

func main() {
	cmd.Execute()
}
