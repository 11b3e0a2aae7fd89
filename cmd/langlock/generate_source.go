// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/langlock/langlock/internal/config"
	"github.com/langlock/langlock/internal/i18n"
	"github.com/langlock/langlock/internal/sourcegen"
	"github.com/langlock/langlock/pkg/types"
)

type generateFlags struct {
	vendors   []string
	source    string
	reference string
	force     bool
	dryRun    bool
}

// newGenerateSourceCommand creates the `langlock generate-source` command.
func newGenerateSourceCommand(app *App, global *globalFlags) *cobra.Command {
	flags := &generateFlags{}

	cmd := &cobra.Command{
		Use:   "generate-source",
		Short: "Create missing source-locale files for vendor packages",
		Long: `Published vendor translations often ship without the source locale. For
every package under {source_directory}/vendor, generate-source reads the
files of a reference locale and writes {package}/{source}/{file}.php where
every value equals its own key, so the translator has something to
translate from.

Packages that already have the source locale are skipped unless --force is
given. Files that cannot be read or synthesized are reported and the run
continues; the command then exits non-zero.`,
		Example: `  # Generate 'en' for every vendor package
  langlock generate-source

  # Only some packages, reading keys from the 'de' files
  langlock generate-source --vendor 'filament*' --vendor spatie --reference de`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true
			return runGenerateSource(cmd, app, global, flags)
		},
	}

	cmd.Flags().StringArrayVar(&flags.vendors, "vendor", nil, "vendor package name or glob pattern (repeatable, default: all packages)")
	cmd.Flags().StringVar(&flags.source, "source", "", "source locale to generate (default: generate.source_locale from config)")
	cmd.Flags().StringVar(&flags.reference, "reference", "", "locale to read keys from (default: first other locale of each package)")
	cmd.Flags().BoolVar(&flags.force, "force", false, "overwrite an existing source locale")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "show what would be generated without writing files")

	return cmd
}

func runGenerateSource(cmd *cobra.Command, app *App, global *globalFlags, flags *generateFlags) error {
	ctx := cmd.Context()

	s, err := app.newSession(ctx, global)
	if err != nil {
		return err
	}

	ws, err := app.openWorkspace(ctx, s)
	if err != nil {
		return err
	}
	defer func() { _ = ws.Close() }()

	s.sayStyled(TitleStyle, i18n.MsgGenerateStart, nil)
	fmt.Fprintln(s.stdout)

	report, err := ws.Generate.Generate(ctx, generateRequest(s.cfg, flags))
	if err != nil {
		return s.fail(err)
	}

	s.renderDiagnostics(report.Diagnostics)
	renderGenerateReport(s, report)

	if failed := report.Failed(); failed > 0 {
		return &ExitError{Code: types.ExitFailure, Err: fmt.Errorf("%d source file(s) could not be generated", failed)}
	}
	return nil
}

// generateRequest merges flags over the tool configuration.
func generateRequest(cfg *config.Config, flags *generateFlags) sourcegen.Request {
	source := cfg.Generate.SourceLocale
	if flags.source != "" {
		source = flags.source
	}
	return sourcegen.Request{
		SourceDirectory: cfg.SourceDirectory,
		ConfigFile:      cfg.ConfigFile,
		Packages:        flags.vendors,
		SourceLocale:    source,
		Reference:       flags.reference,
		Force:           flags.force,
		DryRun:          flags.dryRun,
	}
}

func renderGenerateReport(s *session, r *sourcegen.Report) {
	if len(r.Packages) == 0 {
		s.sayStyled(WarningStyle, i18n.MsgNoPackages, nil)
	}

	for _, p := range r.Packages {
		data := map[string]any{
			"Package":   CmdStyle.Render(p.Package),
			"Locale":    r.SourceLocale,
			"Reference": p.Reference,
		}
		switch p.Status {
		case sourcegen.StatusSourceExists:
			s.say(i18n.MsgSourceExists, data)
		case sourcegen.StatusNoLocales:
			s.sayStyled(WarningStyle, i18n.MsgNoLocaleDirs, data)
		case sourcegen.StatusReferenceMissing:
			s.sayStyled(WarningStyle, i18n.MsgReferenceMissing, data)
		case sourcegen.StatusNoFiles:
			s.say(i18n.MsgGenerating, data)
			fmt.Fprintln(s.stdout, "  "+WarningStyle.Render(s.tr.T(i18n.MsgNoFiles, data)))
		case sourcegen.StatusGenerated:
			s.say(i18n.MsgGenerating, data)
			renderFileResults(s, p.Files)
		}
	}

	fmt.Fprintln(s.stdout)
	if r.DryRun {
		s.sayStyled(WarningStyle, i18n.MsgGenerateDryRun, nil)
		return
	}
	fmt.Fprintln(s.stdout, SuccessStyle.Render(s.tr.N(i18n.MsgGenerateSummary, r.Generated(), nil)))
}

func renderFileResults(s *session, files []sourcegen.FileResult) {
	for _, f := range files {
		if f.Failure != nil {
			line := s.tr.T(i18n.MsgFileFailed, map[string]any{"File": f.Name, "Error": f.Failure.Message})
			fmt.Fprintf(s.stderr, "  %s %s\n", errorIcon, ErrorStyle.Render(line))
			if s.verbose && f.Failure.Cause != nil {
				fmt.Fprintf(s.stderr, "      %s\n", SubtitleStyle.Render(f.Failure.Cause.Error()))
			}
			continue
		}
		fmt.Fprintf(s.stdout, "  %s %s\n", successIcon, s.tr.N(i18n.MsgFileGenerated, f.Keys, map[string]any{"File": f.Name}))
	}
}
