// SPDX-License-Identifier: MPL-2.0

package i18n

import (
	"testing"

	"golang.org/x/text/language"
)

var allMessages = []string{
	MsgScanStart, MsgScanVendor, MsgExistingKeys, MsgMarkerKeys, MsgVendorKeys,
	MsgNoMarkers, MsgNoVendorKeys, MsgNothingToAdd, MsgNewKeysHeader, MsgNewKeyLine,
	MsgMergeSummary, MsgExportDryRun, MsgExportedTo, MsgPasteHint, MsgUpdatedConfig,
	MsgAnchorNotFound, MsgGenerateStart, MsgSourceExists, MsgNoLocaleDirs,
	MsgReferenceMissing, MsgGenerating, MsgNoFiles, MsgFileGenerated, MsgFileFailed,
	MsgNoPackages, MsgGenerateDryRun, MsgGenerateSummary, MsgWarning, MsgError,
}

func TestMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want language.Tag
	}{
		{in: "", want: language.English},
		{in: "en", want: language.English},
		{in: "ko", want: language.Korean},
		{in: "ko_KR.UTF-8", want: language.Korean},
		{in: "ko-KR", want: language.Korean},
		{in: "C", want: language.English},
		{in: "de", want: language.English},
		{in: "!!", want: language.English},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			if got := Match(tt.in); got != tt.want {
				t.Errorf("Match(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestCatalogsAreComplete(t *testing.T) {
	t.Parallel()

	for _, lang := range []string{"en", "ko"} {
		tr, err := New(lang)
		if err != nil {
			t.Fatalf("New(%s) error = %v", lang, err)
		}
		for _, id := range allMessages {
			if got := tr.N(id, 2, map[string]any{"Path": "p", "Package": "pkg"}); got == id {
				t.Errorf("[%s] message %s is missing", lang, id)
			}
		}
	}
}

func TestTranslator_Render(t *testing.T) {
	t.Parallel()

	en, err := New("en")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if got := en.T(MsgMergeSummary, map[string]any{"New": 2, "Total": 5}); got != "New keys: 2, Total after merge: 5" {
		t.Errorf("T() = %q", got)
	}
	if got := en.N(MsgGenerateSummary, 1, nil); got != "Generated 1 source file." {
		t.Errorf("N(1) = %q", got)
	}
	if got := en.N(MsgGenerateSummary, 3, nil); got != "Generated 3 source files." {
		t.Errorf("N(3) = %q", got)
	}
	if got := en.T("no.such.message", nil); got != "no.such.message" {
		t.Errorf("unknown id rendered as %q", got)
	}

	ko, err := New("ko_KR.UTF-8")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if ko.Language() != language.Korean {
		t.Errorf("Language() = %s, want ko", ko.Language())
	}
	if got := ko.N(MsgGenerateSummary, 3, nil); got != "원본 파일 3개를 생성했습니다." {
		t.Errorf("ko N(3) = %q", got)
	}
}
