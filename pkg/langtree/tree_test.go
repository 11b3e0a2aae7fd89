// SPDX-License-Identifier: MPL-2.0

package langtree

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/langlock/langlock/pkg/phparray"
)

func mustParse(t *testing.T, src string) phparray.Value {
	t.Helper()
	v, err := phparray.ParseExpr([]byte(src))
	if err != nil {
		t.Fatalf("ParseExpr(%s) error = %v", src, err)
	}
	return v
}

func flatKeys(entries []FlatEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Key
	}
	return out
}

func TestFromValue_Nested(t *testing.T) {
	t.Parallel()

	tree, err := FromValue(mustParse(t, `['Hello' => 'foo', 'nested' => ['World' => 'bar', 'deep' => ['x' => 'y']], 'n' => 1]`))
	if err != nil {
		t.Fatalf("FromValue() error = %v", err)
	}

	if tree.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", tree.Len())
	}
	node, ok := tree.Get("nested")
	if !ok {
		t.Fatal("missing nested key")
	}
	if _, isTree := node.(*Tree); !isTree {
		t.Fatalf("nested = %T, want *Tree", node)
	}
	if got := tree.CountLeaves(); got != 4 {
		t.Errorf("CountLeaves() = %d, want 4", got)
	}
}

func TestFromValue_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value phparray.Value
	}{
		{name: "string root", value: phparray.String("oops")},
		{name: "nil root", value: nil},
		{name: "expression root", value: &phparray.Expr{Source: "config('x')"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := FromValue(tt.value)
			if !errors.Is(err, ErrMalformedTree) {
				t.Fatalf("FromValue() error = %v, want ErrMalformedTree", err)
			}
		})
	}
}

func TestFromValue_DepthBound(t *testing.T) {
	t.Parallel()

	root := phparray.NewArray()
	cur := root
	for range MaxDepth + 1 {
		next := phparray.NewArray()
		cur.Set("k", next)
		cur = next
	}

	_, err := FromValue(root)
	var malformed *MalformedTreeError
	if !errors.As(err, &malformed) {
		t.Fatalf("FromValue() error = %v, want *MalformedTreeError", err)
	}
	if !strings.HasPrefix(malformed.Path, "k.k.k") {
		t.Errorf("Path = %q, want a dotted path of k segments", malformed.Path)
	}
}

func TestFlatten(t *testing.T) {
	t.Parallel()

	tree, err := FromValue(mustParse(t, `['a' => ['b' => 'x', 'c' => ['d' => 'y']], 'e' => 'z', 'empty' => []]`))
	if err != nil {
		t.Fatalf("FromValue() error = %v", err)
	}

	want := []string{"a.b", "a.c.d", "e"}
	if diff := cmp.Diff(want, flatKeys(tree.Flatten())); diff != "" {
		t.Errorf("Flatten() keys mismatch (-want +got):\n%s", diff)
	}
}

func TestFlatten_CollisionFirstWins(t *testing.T) {
	t.Parallel()

	tree, err := FromValue(mustParse(t, `['a.b' => 'first', 'a' => ['b' => 'second']]`))
	if err != nil {
		t.Fatalf("FromValue() error = %v", err)
	}

	flat := tree.Flatten()
	if len(flat) != 1 {
		t.Fatalf("Flatten() returned %d entries, want 1", len(flat))
	}
	if flat[0].Leaf.Text() != "first" {
		t.Errorf("colliding key kept %q, want first", flat[0].Leaf.Text())
	}
}

func TestToArray_RoundTrip(t *testing.T) {
	t.Parallel()

	src := `['Hello' => 'foo', 'nested' => ['World' => 'bar'], 'list' => ['a', 'b'], 'empty' => []]`
	v := mustParse(t, src)
	tree, err := FromValue(v)
	if err != nil {
		t.Fatalf("FromValue() error = %v", err)
	}

	if !phparray.Equal(tree.ToArray(), v) {
		t.Errorf("ToArray() = %s, want %s", phparray.Encode(tree.ToArray(), 0), phparray.Encode(v, 0))
	}

	again, err := FromValue(tree.ToArray())
	if err != nil {
		t.Fatalf("FromValue(ToArray()) error = %v", err)
	}
	if !Equal(tree, again) {
		t.Error("tree changed after ToArray/FromValue round trip")
	}
}

func TestLeafText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		leaf Leaf
		want string
	}{
		{leaf: StringLeaf("hi"), want: "hi"},
		{leaf: Leaf{Value: phparray.Number("3")}, want: "3"},
		{leaf: Leaf{Value: phparray.Bool(true)}, want: "true"},
		{leaf: Leaf{}, want: ""},
	}

	for _, tt := range tests {
		if got := tt.leaf.Text(); got != tt.want {
			t.Errorf("Text() = %q, want %q", got, tt.want)
		}
	}
}
