// SPDX-License-Identifier: MPL-2.0

// Package langtree defines the Translation Tree: an ordered mapping from keys
// to leaf values or nested trees, built from a loaded PHP translation file.
package langtree

import (
	"errors"
	"fmt"

	"github.com/langlock/langlock/pkg/phparray"
)

// MaxDepth bounds tree nesting when converting untrusted values.
const MaxDepth = 64

// ErrMalformedTree is returned when a value does not have the nested-mapping
// shape of a translation file.
var ErrMalformedTree = errors.New("malformed translation tree")

type (
	// Node is either a Leaf or a *Tree.
	Node interface {
		isNode()
	}

	// Leaf is a terminal translation value. Value is normally a
	// phparray.String; other scalars are carried through untouched.
	Leaf struct {
		Value phparray.Value
	}

	// Entry is one key/node pair of a Tree.
	Entry struct {
		Key  string
		Node Node
	}

	// Tree is an ordered mapping with unique keys.
	Tree struct {
		entries []Entry
		index   map[string]int
	}

	// FlatEntry is a leaf addressed by its dotted key path.
	FlatEntry struct {
		Key  string
		Leaf Leaf
	}

	// MalformedTreeError describes why a value could not become a Tree.
	MalformedTreeError struct {
		// Path is the dotted key path of the offending node ("" for the root).
		Path   string
		Reason string
	}
)

func (Leaf) isNode()  {}
func (*Tree) isNode() {}

// Error implements the error interface.
func (e *MalformedTreeError) Error() string {
	if e.Path == "" {
		return "malformed translation tree: " + e.Reason
	}
	return fmt.Sprintf("malformed translation tree at %q: %s", e.Path, e.Reason)
}

// Unwrap returns ErrMalformedTree for errors.Is compatibility.
func (e *MalformedTreeError) Unwrap() error { return ErrMalformedTree }

// StringLeaf returns a Leaf holding a string value.
func StringLeaf(s string) Leaf {
	return Leaf{Value: phparray.String(s)}
}

// Text returns the leaf as display text.
func (l Leaf) Text() string {
	switch v := l.Value.(type) {
	case phparray.String:
		return string(v)
	case nil:
		return ""
	default:
		return phparray.Encode(v, 0)
	}
}

// New returns an empty tree.
func New() *Tree {
	return &Tree{index: make(map[string]int)}
}

// Len returns the number of direct children.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Entries returns the direct children in order. The slice must not be modified.
func (t *Tree) Entries() []Entry {
	if t == nil {
		return nil
	}
	return t.entries
}

// Get returns the child stored under key.
func (t *Tree) Get(key string) (Node, bool) {
	if t == nil {
		return nil, false
	}
	i, ok := t.index[key]
	if !ok {
		return nil, false
	}
	return t.entries[i].Node, true
}

// Set stores n under key, keeping the position of an existing key.
func (t *Tree) Set(key string, n Node) {
	if t.index == nil {
		t.index = make(map[string]int)
	}
	if i, ok := t.index[key]; ok {
		t.entries[i].Node = n
		return
	}
	t.index[key] = len(t.entries)
	t.entries = append(t.entries, Entry{Key: key, Node: n})
}

// FromValue converts a parsed PHP value into a Tree. The root must be an
// array; nested arrays become subtrees and every other value becomes a Leaf.
func FromValue(v phparray.Value) (*Tree, error) {
	arr, ok := v.(*phparray.Array)
	if !ok {
		kind := "nothing"
		if v != nil {
			kind = v.Kind().String()
		}
		return nil, &MalformedTreeError{Reason: "file returns " + kind + ", expected an array"}
	}
	return fromArray(arr, "", 1)
}

func fromArray(arr *phparray.Array, path string, depth int) (*Tree, error) {
	if depth > MaxDepth {
		return nil, &MalformedTreeError{Path: path, Reason: fmt.Sprintf("nesting exceeds %d levels", MaxDepth)}
	}
	t := New()
	for _, e := range arr.Entries() {
		if sub, ok := e.Value.(*phparray.Array); ok {
			child, err := fromArray(sub, join(path, e.Key), depth+1)
			if err != nil {
				return nil, err
			}
			t.Set(e.Key, child)
			continue
		}
		t.Set(e.Key, Leaf{Value: e.Value})
	}
	return t, nil
}

// ToArray converts the tree back to a PHP array value for encoding.
func (t *Tree) ToArray() *phparray.Array {
	arr := phparray.NewArray()
	for _, e := range t.Entries() {
		switch n := e.Node.(type) {
		case *Tree:
			arr.Set(e.Key, n.ToArray())
		case Leaf:
			arr.Set(e.Key, n.Value)
		}
	}
	return arr
}

// Flatten returns every leaf with its dotted key in traversal order. When two
// paths flatten to the same dotted key the first one wins.
func (t *Tree) Flatten() []FlatEntry {
	var out []FlatEntry
	seen := make(map[string]struct{})
	t.flatten("", &out, seen)
	return out
}

func (t *Tree) flatten(prefix string, out *[]FlatEntry, seen map[string]struct{}) {
	for _, e := range t.Entries() {
		key := join(prefix, e.Key)
		switch n := e.Node.(type) {
		case *Tree:
			n.flatten(key, out, seen)
		case Leaf:
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			*out = append(*out, FlatEntry{Key: key, Leaf: n})
		}
	}
}

// CountLeaves returns the number of leaves in the tree.
func (t *Tree) CountLeaves() int {
	n := 0
	for _, e := range t.Entries() {
		switch c := e.Node.(type) {
		case *Tree:
			n += c.CountLeaves()
		case Leaf:
			n++
		}
	}
	return n
}

// Equal reports whether two trees have the same shape, order and leaves.
func Equal(a, b *Tree) bool {
	if a.Len() != b.Len() {
		return false
	}
	be := b.Entries()
	for i, e := range a.Entries() {
		if e.Key != be[i].Key {
			return false
		}
		switch n := e.Node.(type) {
		case *Tree:
			m, ok := be[i].Node.(*Tree)
			if !ok || !Equal(n, m) {
				return false
			}
		case Leaf:
			m, ok := be[i].Node.(Leaf)
			if !ok || !phparray.Equal(n.Value, m.Value) {
				return false
			}
		}
	}
	return true
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
