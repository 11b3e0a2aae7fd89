// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/langlock/langlock/internal/config"
	"github.com/langlock/langlock/internal/lockexport"
	"github.com/langlock/langlock/pkg/types"
)

func markerFiles() map[string]string {
	return map[string]string{
		"config/ai-translator.php": translatorConfig,
		"lang/en/messages.php": `<?php
return [
    'title' => 'Home', // @locked
    'body' => 'Text',
];`,
		"lang/ko/messages.php": `<?php
return [
    'title' => '홈', // @locked
];`,
	}
}

func TestExportLocked_PatchesConfig(t *testing.T) {
	t.Parallel()

	h := newHarness(t, markerFiles())
	if err := h.run("export-locked"); err != nil {
		t.Fatalf("run() error = %v\nstderr:\n%s", err, h.stderr.String())
	}

	assertContains(t, "stdout", h.stdout.String(),
		"Scanning translation files for @locked markers...",
		"Found @locked markers in files: 1",
		"New keys to add:",
		"messages.title => en, ko",
		"New keys: 1, Total after merge: 1",
		"Updated config: /app/config/ai-translator.php",
	)
	assertContains(t, "config", h.read(t, "config/ai-translator.php"),
		"'locked_keys' => [\n        'messages.title' => ['en', 'ko'],\n    ],")

	h.stdout.Reset()
	if err := h.run("export-locked"); err != nil {
		t.Fatalf("second run() error = %v", err)
	}
	assertContains(t, "second stdout", h.stdout.String(),
		"Existing locked keys in config: 1",
		"All markers already exist in config. Nothing to add.",
	)
}

func TestExportLocked_DryRun(t *testing.T) {
	t.Parallel()

	h := newHarness(t, markerFiles())
	if err := h.run("export-locked", "--dry-run"); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	assertContains(t, "stdout", h.stdout.String(), "messages.title => en, ko", "Dry run mode - no changes made.")
	if strings.Contains(h.read(t, "config/ai-translator.php"), "locked_keys") {
		t.Error("dry run must not patch the config")
	}
}

func TestExportLocked_JSONFormat(t *testing.T) {
	t.Parallel()

	h := newHarness(t, markerFiles())
	if err := h.run("export-locked", "--format", "json"); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	assertContains(t, "stdout", h.stdout.String(),
		"Exported to: /app/locked-translations.json",
		"Add this to your ai-translator.php config manually.",
	)
	want := "{\n    \"messages.title\": [\n        \"en\",\n        \"ko\"\n    ]\n}\n"
	if got := h.read(t, "locked-translations.json"); got != want {
		t.Errorf("registry file =\n%s\nwant\n%s", got, want)
	}
}

func TestExportLocked_NoMarkers(t *testing.T) {
	t.Parallel()

	h := newHarness(t, map[string]string{
		"lang/en/messages.php": `<?php return ['title' => 'Home'];`,
	})
	if err := h.run("export-locked"); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	assertContains(t, "stdout", h.stdout.String(), "No @locked markers found in files.")

	h.stdout.Reset()
	if err := h.run("export-locked", "--lock-vendor"); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	assertContains(t, "stdout", h.stdout.String(), "Scanning vendor translations...", "No vendor translations found to lock.")
}

func TestExportLocked_AnchorNotFoundPrintsLiteral(t *testing.T) {
	t.Parallel()

	files := markerFiles()
	files["config/ai-translator.php"] = "<?php\n\nreturn [\n    'source_locale' => 'en',\n];\n"
	h := newHarness(t, files)

	if err := h.run("export-locked"); err != nil {
		t.Fatalf("run() error = %v, want success", err)
	}
	assertContains(t, "stdout", h.stdout.String(), "'locked_keys' => [", "'messages.title' => ['en', 'ko'],")
	assertContains(t, "stderr", h.stderr.String(), "Could not find where to add locked_keys in /app/config/ai-translator.php")
	if strings.Contains(h.read(t, "config/ai-translator.php"), "locked_keys") {
		t.Error("config must be left untouched")
	}
}

func TestExportLocked_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		files  map[string]string
		args   []string
		stderr string
	}{
		{
			name:   "missing source directory",
			files:  map[string]string{"config/ai-translator.php": translatorConfig},
			args:   []string{"export-locked"},
			stderr: "/app/lang",
		},
		{
			name:   "invalid format flag",
			files:  markerFiles(),
			args:   []string{"export-locked", "--format", "xml"},
			stderr: "xml",
		},
		{
			name: "missing translator config",
			files: map[string]string{
				"lang/en/messages.php": `<?php return ['title' => 'Home', // @locked
];`,
			},
			args:   []string{"export-locked"},
			stderr: "/app/config/ai-translator.php",
		},
		{
			name: "unreadable locked_keys",
			files: map[string]string{
				"config/ai-translator.php": "<?php\nreturn [\n    'locked_keys' => ['auth.failed' => 5],\n];\n",
				"lang/en/messages.php":     "<?php return [\n    'title' => 'Home', // @locked\n];",
			},
			args:   []string{"export-locked"},
			stderr: "failed to merge locked keys: /app/config/ai-translator.php",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := newHarness(t, tt.files)
			err := h.run(tt.args...)
			var exitErr *ExitError
			if !errors.As(err, &exitErr) || exitErr.Code != types.ExitFailure {
				t.Fatalf("run() error = %v, want ExitError code 1", err)
			}
			assertContains(t, "stderr", h.stderr.String(), tt.stderr)
		})
	}
}

func TestExportRequest_FlagsOverrideConfig(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Export.LockVendor = true
	cfg.SourceDirectory = "resources/lang"

	req := exportRequest(cfg, &exportFlags{format: "yaml", dryRun: true})
	want := lockexport.Request{
		SourceDirectory: "resources/lang",
		ConfigFile:      "config/ai-translator.php",
		Format:          config.FormatYAML,
		OutputFile:      "locked-translations.yaml",
		LockVendor:      true,
		DryRun:          true,
	}
	if req != want {
		t.Errorf("exportRequest() = %+v, want %+v", req, want)
	}
}

func TestExportLocked_Korean(t *testing.T) {
	t.Parallel()

	h := newHarness(t, map[string]string{
		"lang/en/messages.php": `<?php return ['title' => 'Home'];`,
	})
	if err := h.run("--lang", "ko", "export-locked"); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	assertContains(t, "stdout", h.stdout.String(), "파일에서 @locked 마커를 찾지 못했습니다.")
}
