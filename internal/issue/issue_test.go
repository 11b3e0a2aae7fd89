// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

var allIds = []Id{
	SourceDirNotFoundId,
	VendorDirNotFoundId,
	ConfigFileNotFoundId,
	PatchAnchorNotFoundId,
	ConfigPatchFailedId,
	RegistryWriteFailedId,
	ToolConfigLoadFailedId,
	InvalidFormatId,
	MalformedTranslationFileId,
	PriorRegistryUnreadableId,
}

func TestId_Constants(t *testing.T) {
	seen := make(map[Id]bool)
	for _, id := range allIds {
		if seen[id] {
			t.Errorf("duplicate ID: %d", id)
		}
		seen[id] = true
	}

	if SourceDirNotFoundId != 1 {
		t.Errorf("SourceDirNotFoundId = %d, want 1", SourceDirNotFoundId)
	}
}

func TestIssuesMapCompleteness(t *testing.T) {
	for _, id := range allIds {
		issue := Get(id)
		if issue == nil {
			t.Errorf("Get(%d) returned nil", id)
			continue
		}
		if issue.Id() != id {
			t.Errorf("Get(%d).Id() = %d", id, issue.Id())
		}
		if strings.TrimSpace(string(issue.MarkdownMsg())) == "" {
			t.Errorf("issue %d has no markdown", id)
		}
	}

	if got := len(Values()); got != len(allIds) {
		t.Errorf("Values() returned %d issues, want %d", got, len(allIds))
	}
	if Get(Id(999)) != nil {
		t.Error("Get(999) should return nil")
	}
}

func TestValues_Sorted(t *testing.T) {
	values := Values()
	for i := 1; i < len(values); i++ {
		if values[i-1].Id() >= values[i].Id() {
			t.Fatalf("Values() not sorted at %d: %d >= %d", i, values[i-1].Id(), values[i].Id())
		}
	}
}

func TestIssue_LinksAreCloned(t *testing.T) {
	issue := Get(SourceDirNotFoundId)
	links := issue.ExtLinks()
	if len(links) == 0 {
		t.Fatal("SourceDirNotFound should have external links")
	}
	links[0] = "modified"
	if issue.ExtLinks()[0] == "modified" {
		t.Error("ExtLinks() should return a copy")
	}
}

func TestIssue_Render_WithLinks(t *testing.T) {
	originalRender := render
	defer func() { render = originalRender }()

	var rendered string
	render = func(in string, stylePath string) (string, error) {
		rendered = in
		return "styled:" + stylePath, nil
	}

	out, err := Get(SourceDirNotFoundId).Render("dark")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if out != "styled:dark" {
		t.Errorf("Render() = %q", out)
	}
	if !strings.Contains(rendered, "## See also") || !strings.Contains(rendered, "- <https://laravel.com/docs/localization>") {
		t.Errorf("rendered markdown lacks the link section:\n%s", rendered)
	}
}

func TestIssue_Render_NoLinks(t *testing.T) {
	originalRender := render
	defer func() { render = originalRender }()

	var rendered string
	render = func(in string, _ string) (string, error) {
		rendered = in
		return in, nil
	}

	if _, err := Get(PatchAnchorNotFoundId).Render("notty"); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if strings.Contains(rendered, "See also") {
		t.Error("issue without links should not render a See also section")
	}
	if !strings.Contains(rendered, "// 'skip_files' => [],") {
		t.Error("anchor issue should show the anchor lines")
	}
}

func TestAllIssuesAreRenderable(t *testing.T) {
	for _, issue := range Values() {
		if _, err := issue.Render("notty"); err != nil {
			t.Errorf("issue %d failed to render: %v", issue.Id(), err)
		}
	}
}
