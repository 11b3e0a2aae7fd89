// SPDX-License-Identifier: MPL-2.0

package phparray

import (
	"strconv"
	"strings"
)

const (
	// KindString is a string literal (or a concatenation of string literals).
	KindString Kind = iota + 1
	// KindNumber is an integer or float literal.
	KindNumber
	// KindBool is true or false.
	KindBool
	// KindNull is null.
	KindNull
	// KindExpr is any expression that cannot be evaluated statically
	// (function calls, constants, class constants).
	KindExpr
	// KindArray is an ordered array literal.
	KindArray
)

type (
	// Kind identifies the shape of a Value.
	Kind int

	// Value is a statically evaluated PHP expression.
	Value interface {
		Kind() Kind
	}

	// String is a PHP string value.
	String string

	// Number is a numeric literal kept in its source spelling.
	Number string

	// Bool is a PHP boolean.
	Bool bool

	// Null is the PHP null value.
	Null struct{}

	// Expr is an expression that is preserved verbatim. Calls keep their
	// callee name and evaluated arguments so callers can resolve well-known
	// helpers such as env().
	Expr struct {
		// Source is the expression text exactly as written.
		Source string
		// Call is the function name when the expression is a plain call.
		Call string
		// Args are the evaluated call arguments.
		Args []Value
	}

	// Entry is one key/value pair of an Array.
	Entry struct {
		Key   string
		Value Value
	}

	// Array is an ordered PHP array. Keys are unique; integer keys are stored
	// in canonical decimal form.
	Array struct {
		entries []Entry
		index   map[string]int
		nextInt int
	}
)

// Kind implements Value.
func (String) Kind() Kind { return KindString }

// Kind implements Value.
func (Number) Kind() Kind { return KindNumber }

// Kind implements Value.
func (Bool) Kind() Kind { return KindBool }

// Kind implements Value.
func (Null) Kind() Kind { return KindNull }

// Kind implements Value.
func (*Expr) Kind() Kind { return KindExpr }

// Kind implements Value.
func (*Array) Kind() Kind { return KindArray }

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindNull:
		return "null"
	case KindExpr:
		return "expression"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// NewArray returns an empty array.
func NewArray() *Array {
	return &Array{index: make(map[string]int)}
}

// Len returns the number of entries.
func (a *Array) Len() int {
	if a == nil {
		return 0
	}
	return len(a.entries)
}

// Entries returns the entries in insertion order. The slice must not be modified.
func (a *Array) Entries() []Entry {
	if a == nil {
		return nil
	}
	return a.entries
}

// Get returns the value stored under key.
func (a *Array) Get(key string) (Value, bool) {
	if a == nil {
		return nil, false
	}
	i, ok := a.index[normalizeKey(key)]
	if !ok {
		return nil, false
	}
	return a.entries[i].Value, true
}

// Set stores v under key. An existing key keeps its position and has its
// value replaced, matching PHP array assignment.
func (a *Array) Set(key string, v Value) {
	if a.index == nil {
		a.index = make(map[string]int)
	}
	key = normalizeKey(key)
	if i, ok := a.index[key]; ok {
		a.entries[i].Value = v
		return
	}
	if n, ok := intKey(key); ok && n >= a.nextInt {
		a.nextInt = n + 1
	}
	a.index[key] = len(a.entries)
	a.entries = append(a.entries, Entry{Key: key, Value: v})
}

// Append stores v under the next integer key.
func (a *Array) Append(v Value) {
	a.Set(strconv.Itoa(a.nextInt), v)
}

// IsList reports whether the keys are exactly 0..n-1 in order.
func (a *Array) IsList() bool {
	for i, e := range a.Entries() {
		if e.Key != strconv.Itoa(i) {
			return false
		}
	}
	return true
}

// Equal reports whether two values have the same kind, shape and content,
// including key order.
func Equal(x, y Value) bool {
	if x == nil || y == nil {
		return x == nil && y == nil
	}
	if x.Kind() != y.Kind() {
		return false
	}
	switch xv := x.(type) {
	case *Array:
		yv, _ := y.(*Array)
		if xv.Len() != yv.Len() {
			return false
		}
		ye := yv.Entries()
		for i, e := range xv.Entries() {
			if e.Key != ye[i].Key || !Equal(e.Value, ye[i].Value) {
				return false
			}
		}
		return true
	case *Expr:
		yv, _ := y.(*Expr)
		return xv.Source == yv.Source
	default:
		return x == y
	}
}

// IsIntKey reports whether key is an integer key in PHP's canonical form.
func IsIntKey(key string) bool {
	_, ok := intKey(key)
	return ok
}

// normalizeKey mirrors PHP's key casting: decimal strings without leading
// zeros become integer keys.
func normalizeKey(key string) string {
	if n, ok := intKey(key); ok {
		return strconv.Itoa(n)
	}
	return key
}

func intKey(key string) (int, bool) {
	if key == "" || (len(key) > 1 && key[0] == '0') || key == "-0" || strings.HasPrefix(key, "+") {
		return 0, false
	}
	if strings.HasPrefix(key, "-0") {
		return 0, false
	}
	n, err := strconv.Atoi(key)
	if err != nil {
		return 0, false
	}
	return n, true
}
