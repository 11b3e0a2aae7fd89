// SPDX-License-Identifier: MPL-2.0

package configpatch

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const literal = "[\n        'messages.title' => 'en',\n    ]"

func TestPatch_ReplacesExistingAssignment(t *testing.T) {
	t.Parallel()

	before := "<?php\n\nreturn [\n    'source_directory' => 'lang',\n\n    "
	after := ",\n\n    // ']' inside a comment\n    'skip_locales' => ['vendor'],\n];\n"

	tests := []struct {
		name     string
		existing string
	}{
		{name: "empty array", existing: "[]"},
		{name: "nested brackets", existing: "[\n        'a' => ['en', 'fr'],\n        'b' => 'ko',\n    ]"},
		{name: "bracket inside string", existing: "[\n        'odd]key' => 'en',\n    ]"},
		{name: "long array syntax", existing: "array(\n        'a' => array('en'),\n    )"},
		{name: "double quoted key", existing: `["x" => "en"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			key := "'locked_keys' => "
			if strings.Contains(tt.existing, `"x"`) {
				key = `"locked_keys" => `
			}
			src := before + key + tt.existing + after

			res, err := Patch([]byte(src), literal)
			if err != nil {
				t.Fatalf("Patch() error = %v", err)
			}
			if res.Action != ActionReplaced {
				t.Errorf("Action = %s, want %s", res.Action, ActionReplaced)
			}
			want := before + key + literal + after
			if diff := cmp.Diff(want, string(res.Source)); diff != "" {
				t.Errorf("Patch() mismatch (-want +got):\n%s", diff)
			}
			if res.Line != 6 {
				t.Errorf("Line = %d, want 6", res.Line)
			}
		})
	}
}

func TestPatch_ReplaceIsIdempotent(t *testing.T) {
	t.Parallel()

	src := []byte("<?php\nreturn [\n    'locked_keys' => [],\n];\n")
	first, err := Patch(src, literal)
	if err != nil {
		t.Fatalf("Patch() error = %v", err)
	}
	second, err := Patch(first.Source, literal)
	if err != nil {
		t.Fatalf("second Patch() error = %v", err)
	}
	if string(first.Source) != string(second.Source) {
		t.Errorf("re-patching changed the file:\n%s\n---\n%s", first.Source, second.Source)
	}
}

func TestPatch_InsertsAfterAnchor(t *testing.T) {
	t.Parallel()

	src := "<?php\n\nreturn [\n    // 'skip_locales' => [],\n    // 'skip_files' => [],\n\n    'other' => true,\n];\n"

	res, err := Patch([]byte(src), literal)
	if err != nil {
		t.Fatalf("Patch() error = %v", err)
	}
	if res.Action != ActionInserted {
		t.Errorf("Action = %s, want %s", res.Action, ActionInserted)
	}
	want := "<?php\n\nreturn [\n    // 'skip_locales' => [],\n    // 'skip_files' => [],\n\n    'locked_keys' => " + literal + ",\n\n    'other' => true,\n];\n"
	if diff := cmp.Diff(want, string(res.Source)); diff != "" {
		t.Errorf("Patch() mismatch (-want +got):\n%s", diff)
	}
	if n := strings.Count(string(res.Source), "'locked_keys'"); n != 1 {
		t.Errorf("locked_keys appears %d times, want 1", n)
	}
	if res.Line != 7 {
		t.Errorf("Line = %d, want 7", res.Line)
	}

	again, err := Patch(res.Source, literal)
	if err != nil || again.Action != ActionReplaced {
		t.Errorf("patching the result again = %s, %v; want a replacement", again.Action, err)
	}
}

func TestPatch_InsertsAfterFallbackAnchor(t *testing.T) {
	t.Parallel()

	src := "<?php\nreturn [\n    // 'skip_locales' => [],\n];\n"

	res, err := Patch([]byte(src), literal)
	if err != nil {
		t.Fatalf("Patch() error = %v", err)
	}
	if res.Action != ActionInsertedFallback {
		t.Errorf("Action = %s, want %s", res.Action, ActionInsertedFallback)
	}
	want := "<?php\nreturn [\n    // 'skip_locales' => [],\n    // 'skip_files' => [],\n\n    'locked_keys' => " + literal + ",\n];\n"
	if diff := cmp.Diff(want, string(res.Source)); diff != "" {
		t.Errorf("Patch() mismatch (-want +got):\n%s", diff)
	}
}

func TestPatch_AnchorNotFound(t *testing.T) {
	t.Parallel()

	src := []byte("<?php\nreturn [\n    'source_directory' => 'lang',\n];\n")

	res, err := Patch(src, literal)
	if !errors.Is(err, ErrAnchorNotFound) {
		t.Fatalf("Patch() error = %v, want ErrAnchorNotFound", err)
	}
	if res.Action != ActionAnchorNotFound {
		t.Errorf("Action = %s, want %s", res.Action, ActionAnchorNotFound)
	}
	if string(res.Source) != string(src) {
		t.Error("source must be returned unchanged")
	}
}

func TestPatch_CommentedAssignmentIsNotLive(t *testing.T) {
	t.Parallel()

	src := "<?php\nreturn [\n    // 'locked_keys' => ['a' => 'en'],\n    // 'skip_files' => [],\n];\n"

	res, err := Patch([]byte(src), literal)
	if err != nil {
		t.Fatalf("Patch() error = %v", err)
	}
	if res.Action != ActionInserted {
		t.Errorf("Action = %s, want %s", res.Action, ActionInserted)
	}
}

func TestPatch_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		src     string
		wantErr error
	}{
		{
			name:    "duplicate assignment",
			src:     "<?php\nreturn [\n    'locked_keys' => [],\n    'locked_keys' => [],\n];",
			wantErr: ErrDuplicateAssignment,
		},
		{
			name:    "non-array value",
			src:     "<?php\nreturn [\n    'locked_keys' => env('LOCKED'),\n];",
			wantErr: ErrUnsupportedValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Patch([]byte(tt.src), literal)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Patch() error = %v, want %v", err, tt.wantErr)
			}
			var posErr *PositionError
			if !errors.As(err, &posErr) || posErr.Line < 3 {
				t.Errorf("error should carry the line, got %v", err)
			}
		})
	}
}
