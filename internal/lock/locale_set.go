// SPDX-License-Identifier: MPL-2.0

package lock

import (
	"slices"
	"strings"

	"github.com/langlock/langlock/pkg/phparray"
)

const (
	// SetEmpty is the zero LocaleSet. It never appears in a Registry.
	SetEmpty SetKind = iota
	// SetSingle holds exactly one locale and serializes as a scalar.
	SetSingle
	// SetMany holds two or more locales and serializes as a list.
	SetMany
)

type (
	// SetKind is the shape of a LocaleSet.
	SetKind int

	// LocaleSet is the set of locales a key is locked for. It is either
	// Single(locale) or Many(ordered locales); the shape follows the member
	// count so a set with one member is always Single. Members are unique and
	// keep insertion order. LocaleSet is immutable.
	LocaleSet struct {
		locales []string
	}
)

// Single returns a set holding one locale.
func Single(locale string) LocaleSet {
	return LocaleSet{locales: []string{locale}}
}

// Many returns a set of the given locales in order, dropping repeats.
func Many(locales ...string) LocaleSet {
	var s LocaleSet
	for _, l := range locales {
		s, _ = s.With(l)
	}
	return s
}

// Kind returns the shape of the set.
func (s LocaleSet) Kind() SetKind {
	switch len(s.locales) {
	case 0:
		return SetEmpty
	case 1:
		return SetSingle
	default:
		return SetMany
	}
}

// Len returns the number of locales.
func (s LocaleSet) Len() int { return len(s.locales) }

// Locales returns a copy of the members in order.
func (s LocaleSet) Locales() []string { return slices.Clone(s.locales) }

// Contains reports whether locale is a member.
func (s LocaleSet) Contains(locale string) bool { return slices.Contains(s.locales, locale) }

// With returns the set with locale appended. The second result is false when
// locale was already a member and the set is returned unchanged.
func (s LocaleSet) With(locale string) (LocaleSet, bool) {
	if s.Contains(locale) {
		return s, false
	}
	next := make([]string, len(s.locales), len(s.locales)+1)
	copy(next, s.locales)
	return LocaleSet{locales: append(next, locale)}, true
}

// Equal reports whether both sets hold the same locales in the same order.
func (s LocaleSet) Equal(o LocaleSet) bool { return slices.Equal(s.locales, o.locales) }

// Value returns the set as a PHP value: a string for Single, a list otherwise.
func (s LocaleSet) Value() phparray.Value {
	if s.Kind() == SetSingle {
		return phparray.String(s.locales[0])
	}
	arr := phparray.NewArray()
	for _, l := range s.locales {
		arr.Append(phparray.String(l))
	}
	return arr
}

// String joins the locales with ", ".
func (s LocaleSet) String() string { return strings.Join(s.locales, ", ") }
