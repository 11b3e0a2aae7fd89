// SPDX-License-Identifier: MPL-2.0

// Package synth builds source-locale translation trees for vendor packages
// that use their source text as translation keys.
package synth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/langlock/langlock/pkg/langtree"
	"github.com/langlock/langlock/pkg/phparray"
)

// GeneratorCommand is named in the header of every rendered file.
const GeneratorCommand = "langlock generate-source"

// ErrUnsupportedLeaf is the sentinel error wrapped by UnsupportedLeafError.
var ErrUnsupportedLeaf = errors.New("unsupported translation value")

// UnsupportedLeafError reports a leaf that is not a plain scalar, such as a
// function call, and therefore cannot be synthesized.
type UnsupportedLeafError struct {
	Path string
	Kind phparray.Kind
}

// Error implements the error interface.
func (e *UnsupportedLeafError) Error() string {
	return fmt.Sprintf("unsupported %s value at %q", e.Kind, e.Path)
}

// Unwrap returns ErrUnsupportedLeaf for errors.Is() compatibility.
func (e *UnsupportedLeafError) Unwrap() error { return ErrUnsupportedLeaf }

// Synthesize returns a tree shaped like ref in which every leaf holds its own
// key segment. Integer keys become integer values. ref is not modified.
func Synthesize(ref *langtree.Tree) (*langtree.Tree, error) {
	return synthesize(ref, "")
}

func synthesize(ref *langtree.Tree, path string) (*langtree.Tree, error) {
	out := langtree.New()
	for _, e := range ref.Entries() {
		keyPath := e.Key
		if path != "" {
			keyPath = path + "." + e.Key
		}
		switch n := e.Node.(type) {
		case *langtree.Tree:
			child, err := synthesize(n, keyPath)
			if err != nil {
				return nil, err
			}
			out.Set(e.Key, child)
		case langtree.Leaf:
			if n.Value != nil && n.Value.Kind() == phparray.KindExpr {
				return nil, &UnsupportedLeafError{Path: keyPath, Kind: n.Value.Kind()}
			}
			out.Set(e.Key, keyLeaf(e.Key))
		}
	}
	return out, nil
}

func keyLeaf(key string) langtree.Leaf {
	if phparray.IsIntKey(key) {
		return langtree.Leaf{Value: phparray.Number(key)}
	}
	return langtree.StringLeaf(key)
}

// RenderSourceFile renders t as a PHP translation file with a generated-file
// header.
func RenderSourceFile(t *langtree.Tree) []byte {
	var sb strings.Builder
	sb.WriteString("<?php\n\n")
	sb.WriteString("/**\n")
	sb.WriteString(" * Auto-generated source file.\n")
	sb.WriteString(" * Keys are used as values (source language text).\n")
	sb.WriteString(" * Generated by: " + GeneratorCommand + "\n")
	sb.WriteString(" */\n\n")
	sb.WriteString("return ")
	sb.WriteString(phparray.Encode(t.ToArray(), 0))
	sb.WriteString(";\n")
	return []byte(sb.String())
}
