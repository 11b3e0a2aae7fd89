// SPDX-License-Identifier: MPL-2.0

package lock

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/langlock/langlock/pkg/phparray"
)

func TestLockVendorTree(t *testing.T) {
	t.Parallel()

	parse := func(src string) phparray.Value {
		v, err := phparray.ParseExpr([]byte(src))
		if err != nil {
			t.Fatalf("ParseExpr(%s) error = %v", src, err)
		}
		return v
	}

	tests := []struct {
		name  string
		value phparray.Value
		want  []Discovery
	}{
		{
			name:  "single nested leaf",
			value: parse(`['a' => ['b' => 'x']]`),
			want:  []Discovery{{Key: "vendor/pkg/msgs.a.b", Locale: "de"}},
		},
		{
			name:  "traversal order",
			value: parse(`['z' => '1', 'a' => ['c' => '2', 'b' => '3'], 'm' => '4']`),
			want: []Discovery{
				{Key: "vendor/pkg/msgs.z", Locale: "de"},
				{Key: "vendor/pkg/msgs.a.c", Locale: "de"},
				{Key: "vendor/pkg/msgs.a.b", Locale: "de"},
				{Key: "vendor/pkg/msgs.m", Locale: "de"},
			},
		},
		{
			name:  "non-tree input",
			value: phparray.String("not a tree"),
			want:  nil,
		},
		{
			name:  "empty tree",
			value: parse(`[]`),
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := LockVendorTree("pkg", "msgs", "de", tt.value)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("LockVendorTree() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDedupeAndCountKeys(t *testing.T) {
	t.Parallel()

	ds := []Discovery{
		{Key: "messages.title", Locale: "en"},
		{Key: "vendor/pkg/msgs.a", Locale: "de"},
		{Key: "messages.title", Locale: "en"},
		{Key: "messages.title", Locale: "fr"},
		{Key: "vendor/pkg/msgs.a", Locale: "en"},
	}

	want := []Discovery{
		{Key: "messages.title", Locale: "en"},
		{Key: "vendor/pkg/msgs.a", Locale: "de"},
		{Key: "messages.title", Locale: "fr"},
		{Key: "vendor/pkg/msgs.a", Locale: "en"},
	}
	if diff := cmp.Diff(want, Dedupe(ds)); diff != "" {
		t.Errorf("Dedupe() mismatch (-want +got):\n%s", diff)
	}

	marker, vendor := CountKeys(ds)
	if marker != 1 || vendor != 1 {
		t.Errorf("CountKeys() = %d, %d; want 1, 1", marker, vendor)
	}
}
