// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the langlock CLI commands.
//
// Commands are thin: they resolve global flags and tool configuration into a
// session, call the export or generate services, and render the returned
// reports and diagnostics. Services never write to the terminal.
package cmd
