// SPDX-License-Identifier: MPL-2.0

package lock

import (
	"github.com/langlock/langlock/pkg/langtree"
	"github.com/langlock/langlock/pkg/phparray"
)

// LockVendorTree locks every leaf of one vendor package file. Each flattened
// leaf key becomes `vendor/{pkg}/{file}.{key}` in traversal order. A value
// that is not a translation tree yields no discoveries.
func LockVendorTree(pkg, file, locale string, v phparray.Value) []Discovery {
	tree, err := langtree.FromValue(v)
	if err != nil {
		return nil
	}
	return lockTree(pkg, file, locale, tree)
}

func lockTree(pkg, file, locale string, tree *langtree.Tree) []Discovery {
	flat := tree.Flatten()
	if len(flat) == 0 {
		return nil
	}
	prefix := VendorPrefix + pkg + "/" + file + "."
	out := make([]Discovery, len(flat))
	for i, e := range flat {
		out[i] = Discovery{Key: prefix + e.Key, Locale: locale}
	}
	return out
}
