// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	_ "gocloud.dev/blob/memblob"

	"github.com/langlock/langlock/internal/config"
	"github.com/langlock/langlock/internal/issue"
	"github.com/langlock/langlock/internal/storage"
	"github.com/langlock/langlock/pkg/types"
)

const translatorConfig = `<?php

return [
    'source_locale' => 'en',

    // 'skip_files' => [],
];
`

type (
	// staticConfigProvider returns a fresh copy of cfg on every Load.
	staticConfigProvider struct {
		cfg  config.Config
		path string
		err  error
	}

	// memWorkspaceOpener binds services to a shared in-memory store.
	memWorkspaceOpener struct {
		store *storage.Store
		err   error
	}

	harness struct {
		store  *storage.Store
		stdout *bytes.Buffer
		stderr *bytes.Buffer
		app    *App
	}
)

func (p *staticConfigProvider) Load(_ context.Context, _ config.LoadOptions) (config.LoadedConfig, error) {
	if p.err != nil {
		return config.LoadedConfig{}, p.err
	}
	cfg := p.cfg
	return config.LoadedConfig{Config: &cfg, Path: p.path}, nil
}

func (o *memWorkspaceOpener) Open(_ context.Context, cfg *config.Config, logger *slog.Logger) (*Workspace, error) {
	if o.err != nil {
		return nil, o.err
	}
	return NewWorkspace(o.store, cfg, logger)
}

func newHarness(t *testing.T, files map[string]string) *harness {
	t.Helper()
	ctx := context.Background()
	store, err := storage.Open(ctx, "mem://", "/app")
	if err != nil {
		t.Fatalf("storage.Open() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	for name, content := range files {
		if err := store.WriteFile(ctx, name, []byte(content)); err != nil {
			t.Fatalf("WriteFile(%s) error = %v", name, err)
		}
	}

	cfg := *config.DefaultConfig()
	cfg.ProjectRoot = "/app"
	cfg.Workers = 2

	h := &harness{store: store, stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
	h.app = NewApp(Dependencies{
		Config:    &staticConfigProvider{cfg: cfg},
		Workspace: &memWorkspaceOpener{store: store},
		Stdout:    h.stdout,
		Stderr:    h.stderr,
		Getenv:    func(string) string { return "" },
	})
	return h
}

func (h *harness) run(args ...string) error {
	root := NewRootCommand(h.app)
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}

func (h *harness) read(t *testing.T, name string) string {
	t.Helper()
	data, err := h.store.ReadFile(context.Background(), name)
	if err != nil {
		t.Fatalf("ReadFile(%s) error = %v", name, err)
	}
	return string(data)
}

func assertContains(t *testing.T, label, got string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(got, want) {
			t.Errorf("%s missing %q:\n%s", label, want, got)
		}
	}
}

func TestNewApp_Defaults(t *testing.T) {
	t.Parallel()

	app := NewApp(Dependencies{})
	if app.Config == nil || app.Workspace == nil || app.stdout == nil || app.stderr == nil || app.getenv == nil {
		t.Fatalf("NewApp() left nil dependencies: %+v", app)
	}
	if _, ok := app.Workspace.(dirWorkspaceOpener); !ok {
		t.Errorf("Workspace = %T, want dirWorkspaceOpener", app.Workspace)
	}
}

func TestApp_Language(t *testing.T) {
	t.Parallel()

	env := map[string]string{"LANG": "ko_KR.UTF-8"}
	app := NewApp(Dependencies{Getenv: func(k string) string { return env[k] }})

	tests := []struct {
		name       string
		flag       string
		configured string
		want       string
	}{
		{name: "flag wins", flag: "en", configured: "ko", want: "en"},
		{name: "config before env", configured: "en", want: "en"},
		{name: "env fallback", want: "ko_KR.UTF-8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := app.language(tt.flag, tt.configured); got != tt.want {
				t.Errorf("language() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWorkspace_CloseReleasesPool(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil)
	ws, err := NewWorkspace(h.store, config.DefaultConfig(), slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("NewWorkspace() error = %v", err)
	}
	if err := ws.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	// The store is owned by the caller and must still be usable.
	if err := h.store.WriteFile(context.Background(), "x.txt", []byte("x")); err != nil {
		t.Errorf("store closed by Workspace.Close: %v", err)
	}
}

func TestSession_ConfigLoadFailure(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil)
	loadErr := issue.NewErrorContext().
		WithOperation("load configuration").
		WithResource("/etc/langlock.cue").
		WithIssue(issue.ToolConfigLoadFailedId).
		Wrap(errors.New("export.format: conflicting values")).
		BuildError()
	h.app.Config = &staticConfigProvider{err: loadErr}

	err := h.run("export-locked")
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != types.ExitFailure {
		t.Fatalf("run() error = %v, want ExitError code 1", err)
	}
	assertContains(t, "stderr", h.stderr.String(), "failed to load configuration: /etc/langlock.cue")
}

func TestSession_WorkspaceOpenFailure(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil)
	h.app.Workspace = &memWorkspaceOpener{err: errors.New("permission denied")}

	err := h.run("generate-source")
	if exitCodeOf(err) != types.ExitFailure {
		t.Fatalf("exitCodeOf() = %d, want 1 (err %v)", exitCodeOf(err), err)
	}
	assertContains(t, "stderr", h.stderr.String(), "permission denied")
}
