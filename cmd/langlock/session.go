// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/charmbracelet/log"

	"github.com/langlock/langlock/internal/config"
	"github.com/langlock/langlock/internal/i18n"
	"github.com/langlock/langlock/pkg/types"
)

// localeEnvVars are consulted in order when no console language is configured.
var localeEnvVars = []string{"LC_ALL", "LC_MESSAGES", "LANG"}

type (
	// globalFlags are the persistent flags shared by every command.
	globalFlags struct {
		project    string
		configPath string
		verbose    bool
		lang       string
	}

	// session is the resolved state of one command invocation: tool config
	// with flag overrides applied, logger, translator and output writers.
	session struct {
		cfg     *config.Config
		cfgPath string
		verbose bool
		logger  *slog.Logger
		tr      *i18n.Translator
		stdout  io.Writer
		stderr  io.Writer
	}
)

// newSession loads tool configuration and applies the global flags on top of it.
// Load failures are rendered here and returned as an ExitError.
func (a *App) newSession(ctx context.Context, flags *globalFlags) (*session, error) {
	loaded, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: flags.configPath})
	if err != nil {
		logger := newLogger(a.stderr, flags.verbose)
		renderServiceError(a.stderr, serviceErrorFrom(err, flags.verbose), string(config.ColorSchemeAuto), logger)
		return nil, &ExitError{Code: types.ExitFailure, Err: err}
	}

	cfg := loaded.Config
	if flags.project != "" {
		cfg.ProjectRoot = flags.project
	}
	verbose := flags.verbose || cfg.UI.Verbose

	tr, err := i18n.New(a.language(flags.lang, cfg.UI.Language))
	if err != nil {
		return nil, err
	}

	return &session{
		cfg:     cfg,
		cfgPath: loaded.Path,
		verbose: verbose,
		logger:  newLogger(a.stderr, verbose),
		tr:      tr,
		stdout:  a.stdout,
		stderr:  a.stderr,
	}, nil
}

// language picks the console language: --lang, then ui.language, then the
// POSIX locale variables.
func (a *App) language(flagValue, configured string) string {
	if flagValue != "" {
		return flagValue
	}
	if configured != "" {
		return configured
	}
	for _, name := range localeEnvVars {
		if v := a.getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// newLogger returns a slog logger backed by a charmbracelet/log handler.
// Only warnings are shown unless verbose is set.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	handler := log.NewWithOptions(w, log.Options{
		Prefix: config.AppName,
		Level:  log.WarnLevel,
	})
	if verbose {
		handler.SetLevel(log.DebugLevel)
		handler.SetReportTimestamp(true)
	}
	return slog.New(handler)
}

// stylePath is the glamour style used for issue help.
func (s *session) stylePath() string {
	if s.cfg.UI.ColorScheme == "" {
		return string(config.ColorSchemeAuto)
	}
	return string(s.cfg.UI.ColorScheme)
}

// fail renders err with its catalog help and turns it into an ExitError.
func (s *session) fail(err error) error {
	renderServiceError(s.stderr, serviceErrorFrom(err, s.verbose), s.stylePath(), s.logger)
	return &ExitError{Code: types.ExitFailure, Err: err}
}

// openWorkspace opens the project services for this session.
func (a *App) openWorkspace(ctx context.Context, s *session) (*Workspace, error) {
	ws, err := a.Workspace.Open(ctx, s.cfg, s.logger)
	if err != nil {
		return nil, s.fail(err)
	}
	return ws, nil
}
