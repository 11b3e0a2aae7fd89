// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/langlock/langlock/internal/diag"
	"github.com/langlock/langlock/internal/i18n"
	"github.com/langlock/langlock/internal/issue"
)

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// say writes a localized message to stdout.
func (s *session) say(id string, data map[string]any) {
	fmt.Fprintln(s.stdout, s.tr.T(id, data))
}

// sayStyled writes a localized message to stdout with a style applied.
func (s *session) sayStyled(style lipgloss.Style, id string, data map[string]any) {
	fmt.Fprintln(s.stdout, style.Render(s.tr.T(id, data)))
}

// renderDiagnostics writes per-file diagnostics to stderr. The cause is only
// shown in verbose mode.
func (s *session) renderDiagnostics(ds []diag.Diagnostic) {
	w := s.stderr
	for _, d := range ds {
		data := map[string]any{"Message": d.Message, "Path": d.Path}
		if d.Severity == diag.SeverityError {
			fmt.Fprintf(w, "%s %s\n", errorIcon, s.tr.T(i18n.MsgError, data))
		} else {
			fmt.Fprintf(w, "%s %s\n", warningIcon, WarningStyle.Render(s.tr.T(i18n.MsgWarning, data)))
		}
		if s.verbose && d.Cause != nil {
			fmt.Fprintf(w, "    %s\n", SubtitleStyle.Render(d.Cause.Error()))
		}
	}
}
