// SPDX-License-Identifier: MPL-2.0

// Command langlock keeps the locked_keys registry of a Laravel AI translator
// in sync with @locked markers in translation files.
package main

import cmd "github.com/langlock/langlock/cmd/langlock"

func main() {
	cmd.Execute()
}
