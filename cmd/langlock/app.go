// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/langlock/langlock/internal/config"
	"github.com/langlock/langlock/internal/issue"
	"github.com/langlock/langlock/internal/lockexport"
	"github.com/langlock/langlock/internal/sourcegen"
	"github.com/langlock/langlock/internal/storage"
	"github.com/langlock/langlock/internal/workerpool"
)

type (
	// App wires CLI services and shared dependencies. It is the composition root for
	// the CLI layer: every Cobra handler receives an App and delegates work through
	// its provider interfaces.
	App struct {
		Config    ConfigProvider
		Workspace WorkspaceOpener
		stdout    io.Writer
		stderr    io.Writer
		getenv    func(string) string
	}

	// Dependencies defines the injection points for building an App. Nil fields are
	// replaced with production defaults by NewApp.
	Dependencies struct {
		Config    ConfigProvider
		Workspace WorkspaceOpener
		Stdout    io.Writer
		Stderr    io.Writer
		// Getenv reads LANG and friends when no language is configured.
		Getenv func(string) string
	}

	// ConfigProvider loads tool configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (config.LoadedConfig, error)
	}

	// ExportService runs export-locked.
	ExportService interface {
		Export(ctx context.Context, req lockexport.Request) (*lockexport.Report, error)
	}

	// GenerateService runs generate-source.
	GenerateService interface {
		Generate(ctx context.Context, req sourcegen.Request) (*sourcegen.Report, error)
	}

	// WorkspaceOpener opens the services for one project.
	WorkspaceOpener interface {
		Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Workspace, error)
	}

	// Workspace holds the services bound to one project store and worker pool.
	// Close must be called once the command finishes.
	Workspace struct {
		Export   ExportService
		Generate GenerateService
		closers  []func() error
	}

	// dirWorkspaceOpener opens workspaces on the local file system.
	dirWorkspaceOpener struct{}
)

// NewApp creates an App with production defaults for every nil dependency.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Workspace == nil {
		deps.Workspace = dirWorkspaceOpener{}
	}
	if deps.Getenv == nil {
		deps.Getenv = os.Getenv
	}

	return &App{
		Config:    deps.Config,
		Workspace: deps.Workspace,
		stdout:    deps.Stdout,
		stderr:    deps.Stderr,
		getenv:    deps.Getenv,
	}
}

// Open opens the project root as a file-backed store.
func (dirWorkspaceOpener) Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Workspace, error) {
	store, err := storage.OpenDir(ctx, cfg.ProjectRoot)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("open project").
			WithResource(cfg.ProjectRoot).
			WithSuggestion("Pass the Laravel application root with --project").
			Wrap(err).
			BuildError()
	}

	ws, err := NewWorkspace(store, cfg, logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	ws.closers = append(ws.closers, store.Close)
	return ws, nil
}

// NewWorkspace binds the export and generate services to store, sharing one
// worker pool sized by cfg. The store stays owned by the caller.
func NewWorkspace(store *storage.Store, cfg *config.Config, logger *slog.Logger) (*Workspace, error) {
	pool, err := workerpool.New(
		workerpool.WithSize(cfg.ResolvedWorkers()),
		workerpool.WithPanicHandler(func(v any) {
			logger.Error("worker panicked", "value", v)
		}),
	)
	if err != nil {
		return nil, err
	}

	return &Workspace{
		Export:   lockexport.NewService(store, pool, lockexport.WithLogger(logger)),
		Generate: sourcegen.NewService(store, pool, sourcegen.WithLogger(logger)),
		closers: []func() error{func() error {
			pool.Release()
			return nil
		}},
	}, nil
}

// Close releases the worker pool and any store opened for the workspace.
func (w *Workspace) Close() error {
	var errs []error
	for _, c := range w.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}
