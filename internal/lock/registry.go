// SPDX-License-Identifier: MPL-2.0

package lock

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/langlock/langlock/pkg/phparray"
)

// ErrInvalidRegistry is the sentinel error wrapped by InvalidRegistryError.
var ErrInvalidRegistry = errors.New("invalid locked_keys value")

type (
	// Registry is an ordered mapping from dotted key to LocaleSet. The zero
	// value is an empty registry ready to use.
	Registry struct {
		keys []string
		sets map[string]LocaleSet
	}

	// RegistryEntry is one key of a Registry.
	RegistryEntry struct {
		Key     string
		Locales LocaleSet
	}

	// InvalidRegistryError describes a persisted registry value that cannot be
	// interpreted.
	InvalidRegistryError struct {
		// Key is the offending entry, empty when the whole value is wrong.
		Key    string
		Reason string
	}
)

// Error implements the error interface.
func (e *InvalidRegistryError) Error() string {
	if e.Key == "" {
		return "invalid locked_keys: " + e.Reason
	}
	return fmt.Sprintf("invalid locked_keys entry %q: %s", e.Key, e.Reason)
}

// Unwrap returns ErrInvalidRegistry for errors.Is() compatibility.
func (e *InvalidRegistryError) Unwrap() error { return ErrInvalidRegistry }

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{sets: make(map[string]LocaleSet)}
}

// Len returns the number of keys.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// Get returns the locale set of key.
func (r *Registry) Get(key string) (LocaleSet, bool) {
	if r == nil {
		return LocaleSet{}, false
	}
	s, ok := r.sets[key]
	return s, ok
}

// Entries returns the keys and their locale sets in order.
func (r *Registry) Entries() []RegistryEntry {
	out := make([]RegistryEntry, 0, r.Len())
	for _, k := range r.keysOrNil() {
		out = append(out, RegistryEntry{Key: k, Locales: r.sets[k]})
	}
	return out
}

// Clone returns an independent copy. Cloning a nil registry returns an empty one.
func (r *Registry) Clone() *Registry {
	out := &Registry{
		keys: make([]string, 0, r.Len()),
		sets: make(map[string]LocaleSet, r.Len()),
	}
	for _, k := range r.keysOrNil() {
		out.keys = append(out.keys, k)
		out.sets[k] = r.sets[k]
	}
	return out
}

// Equal reports whether both registries hold the same keys in the same order
// with equal locale sets.
func (r *Registry) Equal(o *Registry) bool {
	if r.Len() != o.Len() {
		return false
	}
	ok := o.keysOrNil()
	for i, k := range r.keysOrNil() {
		if ok[i] != k || !r.sets[k].Equal(o.sets[k]) {
			return false
		}
	}
	return true
}

// set stores s under key, appending new keys at the end.
func (r *Registry) set(key string, s LocaleSet) {
	if r.sets == nil {
		r.sets = make(map[string]LocaleSet)
	}
	if _, ok := r.sets[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.sets[key] = s
}

func (r *Registry) keysOrNil() []string {
	if r == nil {
		return nil
	}
	return r.keys
}

// ToArray returns the registry as a PHP array: Single sets become strings and
// Many sets become lists.
func (r *Registry) ToArray() *phparray.Array {
	arr := phparray.NewArray()
	for _, e := range r.Entries() {
		arr.Set(e.Key, e.Locales.Value())
	}
	return arr
}

// Literal renders the registry as a PHP array literal nested at the given
// indent depth.
func (r *Registry) Literal(indent int) string {
	return phparray.Encode(r.ToArray(), indent)
}

// RegistryFromValue reads a persisted registry. v must be an array whose values
// are locale strings or lists of locale strings; nil means no prior registry.
func RegistryFromValue(v phparray.Value) (*Registry, error) {
	r := NewRegistry()
	if v == nil {
		return r, nil
	}
	if _, isNull := v.(phparray.Null); isNull {
		return r, nil
	}
	arr, ok := v.(*phparray.Array)
	if !ok {
		return nil, &InvalidRegistryError{Reason: "expected an array, got " + v.Kind().String()}
	}
	for _, e := range arr.Entries() {
		set, err := localeSetFromValue(e.Value)
		if err != nil {
			return nil, &InvalidRegistryError{Key: e.Key, Reason: err.Error()}
		}
		r.set(e.Key, set)
	}
	return r, nil
}

func localeSetFromValue(v phparray.Value) (LocaleSet, error) {
	switch val := v.(type) {
	case phparray.String:
		return Single(string(val)), nil
	case *phparray.Array:
		var s LocaleSet
		for _, e := range val.Entries() {
			str, ok := e.Value.(phparray.String)
			if !ok {
				return LocaleSet{}, errors.New("locale list must contain only strings")
			}
			s, _ = s.With(string(str))
		}
		if s.Len() == 0 {
			return LocaleSet{}, errors.New("locale list is empty")
		}
		return s, nil
	default:
		kind := "nothing"
		if v != nil {
			kind = v.Kind().String()
		}
		return LocaleSet{}, fmt.Errorf("expected a locale or list of locales, got %s", kind)
	}
}

// MarshalJSON encodes the registry as an object in key order. Single sets are
// strings and Many sets are arrays. HTML characters are not escaped.
func (r *Registry) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range r.Entries() {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSON(&buf, e.Key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		var v any = e.Locales.Locales()
		if e.Locales.Kind() == SetSingle {
			v = e.Locales.locales[0]
		}
		if err := writeJSON(&buf, v); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	// Encode terminates every value with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}

// MarshalYAML encodes the registry as an ordered mapping node.
func (r *Registry) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, e := range r.Entries() {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Key}
		var value *yaml.Node
		if e.Locales.Kind() == SetSingle {
			value = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Locales.locales[0]}
		} else {
			value = &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Style: yaml.FlowStyle}
			for _, l := range e.Locales.locales {
				value.Content = append(value.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: l})
			}
		}
		node.Content = append(node.Content, key, value)
	}
	return node, nil
}

// UnmarshalYAML reads a registry written by MarshalYAML.
func (r *Registry) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return &InvalidRegistryError{Reason: "expected a mapping"}
	}
	*r = Registry{sets: make(map[string]LocaleSet)}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i].Value, node.Content[i+1]
		switch value.Kind {
		case yaml.ScalarNode:
			r.set(key, Single(value.Value))
		case yaml.SequenceNode:
			var s LocaleSet
			for _, item := range value.Content {
				s, _ = s.With(item.Value)
			}
			if s.Len() == 0 {
				return &InvalidRegistryError{Key: key, Reason: "locale list is empty"}
			}
			r.set(key, s)
		default:
			return &InvalidRegistryError{Key: key, Reason: "expected a locale or list of locales"}
		}
	}
	return nil
}
