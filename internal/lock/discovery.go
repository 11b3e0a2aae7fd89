// SPDX-License-Identifier: MPL-2.0

package lock

import "strings"

// VendorPrefix starts every dotted key produced by LockVendorTree.
const VendorPrefix = "vendor/"

// Discovery is a single (dotted key, locale) finding produced by scanning.
type Discovery struct {
	Key    string
	Locale string
}

// IsVendor reports whether the discovery came from a locked vendor package.
func (d Discovery) IsVendor() bool {
	return strings.HasPrefix(d.Key, VendorPrefix)
}

// Dedupe returns ds without repeated (key, locale) pairs, keeping the first
// occurrence of each.
func Dedupe(ds []Discovery) []Discovery {
	if len(ds) == 0 {
		return nil
	}
	seen := make(map[Discovery]struct{}, len(ds))
	out := make([]Discovery, 0, len(ds))
	for _, d := range ds {
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	return out
}

// CountKeys returns the number of distinct annotated keys and distinct vendor
// keys among ds.
func CountKeys(ds []Discovery) (marker, vendor int) {
	seen := make(map[string]struct{}, len(ds))
	for _, d := range ds {
		if _, dup := seen[d.Key]; dup {
			continue
		}
		seen[d.Key] = struct{}{}
		if d.IsVendor() {
			vendor++
		} else {
			marker++
		}
	}
	return marker, vendor
}
