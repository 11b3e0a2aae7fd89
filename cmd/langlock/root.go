// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the langlock command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "langlock",
		Short: "Lock reviewed Laravel translations against re-translation",
		Long: TitleStyle.Render("langlock") + SubtitleStyle.Render(" - Lock reviewed Laravel translations against re-translation") + `

langlock keeps the locked_keys registry of a Laravel AI translator in sync
with @locked markers written next to translation strings, and creates
missing source-locale files for published vendor packages.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Mark reviewed strings:  'title' => 'Home', // @locked
  2. Preview the registry:   langlock export-locked --dry-run
  3. Write it:               langlock export-locked

` + SubtitleStyle.Render("Examples:") + `
  langlock export-locked --lock-vendor     Also lock every vendor translation
  langlock export-locked --format json     Write locked-translations.json
  langlock generate-source --vendor spatie Create 'en' files for one package
  langlock config show                     Show current configuration`,
	}
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.project, "project", "p", "", "Laravel project root (default: project_root from config)")
	pf.StringVar(&flags.configPath, "config", "", "config file (default is $HOME/.config/langlock/config.cue, then ./langlock.cue)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	pf.StringVar(&flags.lang, "lang", "", "console language, e.g. en or ko (default: ui.language, then $LANG)")

	rootCmd.AddCommand(
		newExportLockedCommand(app, flags),
		newGenerateSourceCommand(app, flags),
		newConfigCommand(app, flags),
	)

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute builds the production App and runs the command tree.
// This is called by main.main().
func Execute() {
	rootCmd := NewRootCommand(NewApp(Dependencies{}))

	// fang overrides rootCmd.Version, so the version is passed explicitly.
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(int(exitCodeOf(err)))
	}
}
