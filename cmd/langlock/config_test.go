// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/langlock/langlock/internal/config"
	"github.com/langlock/langlock/internal/testutil"
)

func TestConfigShow(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil)
	h.app.Config = &staticConfigProvider{cfg: *config.DefaultConfig(), path: "/home/dev/.config/langlock/config.cue"}

	if err := h.run("config", "show", "--project", "/srv/app"); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	assertContains(t, "stdout", h.stdout.String(),
		"Config file: /home/dev/.config/langlock/config.cue",
		"project_root: /srv/app",
		"source_directory: (from config/ai-translator.php)",
		"format: php",
		"source_locale: en",
		"color_scheme: auto",
	)
}

func TestConfigShow_Defaults(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil)
	if err := h.run("config", "show"); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	assertContains(t, "stdout", h.stdout.String(), "Config file: (using defaults)", "language: (from $LANG)")
}

func TestConfigDump_IsLoadable(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil)
	if err := h.run("config", "dump"); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "langlock.cue")
	testutil.MustWriteFile(t, path, h.stdout.String())
	loaded, err := config.NewProvider().Load(t.Context(), config.LoadOptions{ConfigFilePath: path})
	if err != nil {
		t.Fatalf("dumped config does not load: %v\n%s", err, h.stdout.String())
	}
	if loaded.ProjectRoot != "/app" || loaded.Workers != 2 {
		t.Errorf("loaded = %+v", *loaded.Config)
	}
}

func TestInitConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "langlock", "config.cue")
	var out bytes.Buffer

	if err := initConfig(&out, path); err != nil {
		t.Fatalf("initConfig() error = %v", err)
	}
	if !strings.Contains(out.String(), "Created default configuration at "+path) {
		t.Errorf("output = %q", out.String())
	}
	if !strings.Contains(testutil.MustReadFile(t, path), `format: "php"`) {
		t.Error("default config not written")
	}

	out.Reset()
	if err := initConfig(&out, path); err != nil {
		t.Fatalf("second initConfig() error = %v", err)
	}
	if !strings.Contains(out.String(), "already exists") {
		t.Errorf("second output = %q", out.String())
	}
}
