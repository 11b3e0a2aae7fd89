// SPDX-License-Identifier: MPL-2.0

package lock

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func registryOf(t *testing.T, entries ...RegistryEntry) *Registry {
	t.Helper()
	r := NewRegistry()
	for _, e := range entries {
		r.set(e.Key, e.Locales)
	}
	return r
}

func TestMerge_NewKeysAndLocales(t *testing.T) {
	t.Parallel()

	prior := registryOf(t,
		RegistryEntry{Key: "messages.title", Locales: Single("en")},
		RegistryEntry{Key: "auth.failed", Locales: Many("en", "ko")},
	)
	ds := []Discovery{
		{Key: "messages.title", Locale: "en"},
		{Key: "messages.title", Locale: "fr"},
		{Key: "nav.home", Locale: "de"},
		{Key: "auth.failed", Locale: "ko"},
		{Key: "nav.home", Locale: "en"},
	}

	got, delta := Merge(prior, ds)

	want := registryOf(t,
		RegistryEntry{Key: "messages.title", Locales: Many("en", "fr")},
		RegistryEntry{Key: "auth.failed", Locales: Many("en", "ko")},
		RegistryEntry{Key: "nav.home", Locales: Many("de", "en")},
	)
	if !got.Equal(want) {
		t.Errorf("Merge() registry = %s, want %s", got.Literal(0), want.Literal(0))
	}

	wantDelta := []DeltaEntry{
		{Key: "messages.title", Locales: Single("fr"), NewKey: false},
		{Key: "nav.home", Locales: Many("de", "en"), NewKey: true},
	}
	if diff := cmp.Diff(wantDelta, delta.Entries()); diff != "" {
		t.Errorf("Merge() delta mismatch (-want +got):\n%s", diff)
	}

	if s, _ := prior.Get("messages.title"); s.Kind() != SetSingle {
		t.Error("Merge() modified the prior registry")
	}
}

func TestMerge_Idempotent(t *testing.T) {
	t.Parallel()

	priors := []*Registry{
		nil,
		NewRegistry(),
		registryOf(t, RegistryEntry{Key: "a.b", Locales: Many("en", "fr")}),
	}
	batches := [][]Discovery{
		nil,
		{{Key: "a.b", Locale: "en"}},
		{{Key: "a.b", Locale: "de"}, {Key: "c.d", Locale: "en"}, {Key: "c.d", Locale: "en"}},
		{{Key: "vendor/pkg/msgs.a", Locale: "de"}, {Key: "x.y", Locale: "ko"}, {Key: "x.y", Locale: "ja"}},
	}

	for _, prior := range priors {
		for _, ds := range batches {
			once, _ := Merge(prior, ds)
			twice, delta := Merge(once, ds)
			if !twice.Equal(once) {
				t.Errorf("second merge changed the registry: %s -> %s", once.Literal(0), twice.Literal(0))
			}
			if !delta.IsEmpty() {
				t.Errorf("second merge delta = %v, want empty", delta.Entries())
			}
		}
	}
}

func TestMerge_TwoLocalesRoundTrip(t *testing.T) {
	t.Parallel()

	got, _ := Merge(nil, []Discovery{{Key: "messages.title", Locale: "en"}, {Key: "messages.title", Locale: "fr"}})

	set, ok := got.Get("messages.title")
	if !ok || set.Kind() != SetMany {
		t.Fatalf("Get() = %v, %v; want a Many set", set, ok)
	}
	if diff := cmp.Diff([]string{"en", "fr"}, set.Locales()); diff != "" {
		t.Errorf("locale order mismatch (-want +got):\n%s", diff)
	}

	reparsed := mustRegistryFromLiteral(t, got.Literal(1))
	if !reparsed.Equal(got) {
		t.Errorf("round trip changed the registry: %s", reparsed.Literal(0))
	}
}

func TestMerge_SingleStaysScalar(t *testing.T) {
	t.Parallel()

	got, _ := Merge(nil, []Discovery{{Key: "k", Locale: "en"}, {Key: "k", Locale: "en"}})
	if want := "[\n    'k' => 'en',\n]"; got.Literal(0) != want {
		t.Errorf("Literal() = %q, want %q", got.Literal(0), want)
	}
}
