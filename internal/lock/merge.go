// SPDX-License-Identifier: MPL-2.0

package lock

type (
	// DeltaEntry records what one merge added for a key.
	DeltaEntry struct {
		Key string
		// Locales are the locales added for Key, in discovery order.
		Locales LocaleSet
		// NewKey is true when Key was absent from the prior registry.
		NewKey bool
	}

	// Delta is the ordered set of additions made by Merge. It is used for
	// reporting only.
	Delta struct {
		entries []DeltaEntry
		index   map[string]int
	}
)

// Len returns the number of keys that gained at least one locale.
func (d Delta) Len() int { return len(d.entries) }

// IsEmpty reports whether the merge added nothing.
func (d Delta) IsEmpty() bool { return len(d.entries) == 0 }

// Entries returns the additions in the order they were first seen.
func (d Delta) Entries() []DeltaEntry { return d.entries }

func (d *Delta) add(key, locale string, newKey bool) {
	if d.index == nil {
		d.index = make(map[string]int)
	}
	if i, ok := d.index[key]; ok {
		d.entries[i].Locales, _ = d.entries[i].Locales.With(locale)
		return
	}
	d.index[key] = len(d.entries)
	d.entries = append(d.entries, DeltaEntry{Key: key, Locales: Single(locale), NewKey: newKey})
}

// Merge folds discoveries into a copy of prior and reports what was added.
//
// Discoveries are applied in order: an absent key is inserted as
// Single(locale); a present key gains the locale at the end of its set unless
// it is already a member. Existing keys and locales are never removed or
// reordered, and prior is not modified. Merging the same discoveries into the
// result again returns an equal registry and an empty Delta.
func Merge(prior *Registry, discoveries []Discovery) (*Registry, Delta) {
	out := prior.Clone()
	var delta Delta
	for _, d := range discoveries {
		set, ok := out.Get(d.Key)
		if !ok {
			out.set(d.Key, Single(d.Locale))
			delta.add(d.Key, d.Locale, true)
			continue
		}
		next, added := set.With(d.Locale)
		if !added {
			continue
		}
		out.set(d.Key, next)
		delta.add(d.Key, d.Locale, false)
	}
	return out, delta
}
