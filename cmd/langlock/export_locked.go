// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/langlock/langlock/internal/config"
	"github.com/langlock/langlock/internal/configpatch"
	"github.com/langlock/langlock/internal/i18n"
	"github.com/langlock/langlock/internal/issue"
	"github.com/langlock/langlock/internal/lockexport"
)

type exportFlags struct {
	dryRun     bool
	format     string
	lockVendor bool
}

// newExportLockedCommand creates the `langlock export-locked` command.
func newExportLockedCommand(app *App, global *globalFlags) *cobra.Command {
	flags := &exportFlags{}

	cmd := &cobra.Command{
		Use:   "export-locked",
		Short: "Collect @locked markers into the locked_keys registry",
		Long: `Scan {source_directory}/{locale}/*.php for @locked markers and merge the
discovered keys into the locked_keys registry.

A marker is either a trailing comment on a key line:
  'title' => 'Home', // @locked

or a comment naming a dotted key path:
  // @locked nav.home

With --lock-vendor every key of every published vendor translation file is
locked as well. The registry is written into config/ai-translator.php (php),
or to a standalone locked-translations.json (json) or .yaml (yaml) file.`,
		Example: `  # Preview what would be added
  langlock export-locked --dry-run

  # Lock vendor translations too and write a JSON registry
  langlock export-locked --lock-vendor --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true
			return runExportLocked(cmd, app, global, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "report what would change without writing")
	cmd.Flags().StringVar(&flags.format, "format", "", "registry format: php, json or yaml (default: export.format from config)")
	cmd.Flags().BoolVar(&flags.lockVendor, "lock-vendor", false, "lock every key of every vendor translation file")

	return cmd
}

func runExportLocked(cmd *cobra.Command, app *App, global *globalFlags, flags *exportFlags) error {
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

	req := exportRequest(s.cfg, flags)

	s.sayStyled(TitleStyle, i18n.MsgScanStart, nil)
	if req.LockVendor {
		s.sayStyled(TitleStyle, i18n.MsgScanVendor, nil)
	}

	report, err := ws.Export.Export(ctx, req)
	if err != nil {
		return s.fail(err)
	}

	s.renderDiagnostics(report.Diagnostics)
	renderExportReport(s, report)
	return nil
}

// exportRequest merges flags over the tool configuration.
func exportRequest(cfg *config.Config, flags *exportFlags) lockexport.Request {
	format := cfg.Export.Format
	if flags.format != "" {
		format = config.ExportFormat(flags.format)
	}
	return lockexport.Request{
		SourceDirectory: cfg.SourceDirectory,
		ConfigFile:      cfg.ConfigFile,
		Format:          format,
		OutputFile:      cfg.OutputFile(format),
		LockVendor:      flags.lockVendor || cfg.Export.LockVendor,
		DryRun:          flags.dryRun,
	}
}

func renderExportReport(s *session, r *lockexport.Report) {
	if r.Outcome == lockexport.OutcomeNoDiscoveries {
		if r.LockVendor {
			s.sayStyled(WarningStyle, i18n.MsgNoVendorKeys, nil)
		} else {
			s.sayStyled(WarningStyle, i18n.MsgNoMarkers, nil)
		}
		if r.ExistingCount > 0 {
			s.say(i18n.MsgExistingKeys, map[string]any{"Count": r.ExistingCount})
		}
		return
	}

	if r.ExistingCount > 0 {
		s.say(i18n.MsgExistingKeys, map[string]any{"Count": r.ExistingCount})
	}
	if r.MarkerKeyCount > 0 {
		s.say(i18n.MsgMarkerKeys, map[string]any{"Count": r.MarkerKeyCount})
	}
	if r.VendorKeyCount > 0 {
		s.say(i18n.MsgVendorKeys, map[string]any{"Count": r.VendorKeyCount})
	}

	if r.Outcome == lockexport.OutcomeNothingToAdd {
		fmt.Fprintln(s.stdout)
		s.sayStyled(SuccessStyle, i18n.MsgNothingToAdd, nil)
		return
	}

	fmt.Fprintln(s.stdout)
	s.say(i18n.MsgNewKeysHeader, nil)
	fmt.Fprintln(s.stdout)
	for _, e := range r.Delta.Entries() {
		line := s.tr.T(i18n.MsgNewKeyLine, map[string]any{
			"Key":     CmdStyle.Render(e.Key),
			"Locales": SuccessStyle.Render(e.Locales.String()),
		})
		fmt.Fprintln(s.stdout, "  "+line)
	}
	fmt.Fprintln(s.stdout)
	s.say(i18n.MsgMergeSummary, map[string]any{"New": r.Delta.Len(), "Total": r.TotalAfterMerge()})

	switch r.Outcome {
	case lockexport.OutcomeDryRun:
		fmt.Fprintln(s.stdout)
		s.sayStyled(WarningStyle, i18n.MsgExportDryRun, nil)
	case lockexport.OutcomeWritten:
		fmt.Fprintln(s.stdout)
		if r.Format == config.FormatPHP {
			fmt.Fprintf(s.stdout, "%s %s\n", successIcon, s.tr.T(i18n.MsgUpdatedConfig, map[string]any{"Path": r.OutputPath}))
			return
		}
		fmt.Fprintf(s.stdout, "%s %s\n", successIcon, s.tr.T(i18n.MsgExportedTo, map[string]any{"Path": r.OutputPath}))
		fmt.Fprintf(s.stdout, "%s %s\n", infoIcon, s.tr.T(i18n.MsgPasteHint, nil))
	case lockexport.OutcomeAnchorNotFound:
		renderAnchorNotFound(s, r)
	}
}

// renderAnchorNotFound prints the merged entry for manual pasting followed by
// the catalog help. Nothing was written, and the run still succeeds.
func renderAnchorNotFound(s *session, r *lockexport.Report) {
	fmt.Fprintln(s.stderr)
	fmt.Fprintf(s.stderr, "%s %s\n", warningIcon, WarningStyle.Render(s.tr.T(i18n.MsgAnchorNotFound, map[string]any{"Path": r.OutputPath})))
	fmt.Fprintln(s.stdout)
	fmt.Fprintln(s.stdout, "    'locked_keys' => "+r.Literal+",")
	renderServiceError(s.stderr, newServiceError(configpatch.ErrAnchorNotFound, issue.PatchAnchorNotFoundId, ""), s.stylePath(), s.logger)
}
