// SPDX-License-Identifier: MPL-2.0

package phparray

import (
	"strings"
)

// IndentUnit is the indentation used per nesting level.
const IndentUnit = "    "

// Encode renders v as PHP source that evaluates back to an equal value.
//
// Arrays use short syntax with one `key => value` per line, a trailing comma
// on every entry and the closing bracket at the given indent depth. An empty
// array renders as `[]`. Lists whose values are all scalars render inline
// (`['en', 'fr']`) so single-line registry values stay compact. Strings are
// single-quoted with backslashes and quotes escaped.
func Encode(v Value, indent int) string {
	var sb strings.Builder
	encodeValue(&sb, v, indent)
	return sb.String()
}

// Quote returns s as a single-quoted PHP string literal.
func Quote(s string) string {
	var sb strings.Builder
	quoteTo(&sb, s)
	return sb.String()
}

func quoteTo(sb *strings.Builder, s string) {
	sb.WriteByte('\'')
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\'' || c == '\\' {
			sb.WriteByte('\\')
		}
		sb.WriteByte(c)
	}
	sb.WriteByte('\'')
}

func encodeKey(sb *strings.Builder, key string) {
	if IsIntKey(key) {
		sb.WriteString(key)
		return
	}
	quoteTo(sb, key)
}

func encodeValue(sb *strings.Builder, v Value, indent int) {
	switch val := v.(type) {
	case nil:
		sb.WriteString("null")
	case String:
		quoteTo(sb, string(val))
	case Number:
		sb.WriteString(string(val))
	case Bool:
		if val {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case Null:
		sb.WriteString("null")
	case *Expr:
		sb.WriteString(val.Source)
	case *Array:
		encodeArray(sb, val, indent)
	}
}

func encodeArray(sb *strings.Builder, arr *Array, indent int) {
	if arr.Len() == 0 {
		sb.WriteString("[]")
		return
	}

	if arr.IsList() && allScalar(arr) {
		sb.WriteByte('[')
		for i, e := range arr.Entries() {
			if i > 0 {
				sb.WriteString(", ")
			}
			encodeValue(sb, e.Value, indent)
		}
		sb.WriteByte(']')
		return
	}

	inner := strings.Repeat(IndentUnit, indent+1)
	sb.WriteString("[\n")
	for _, e := range arr.Entries() {
		sb.WriteString(inner)
		encodeKey(sb, e.Key)
		sb.WriteString(" => ")
		encodeValue(sb, e.Value, indent+1)
		sb.WriteString(",\n")
	}
	sb.WriteString(strings.Repeat(IndentUnit, indent))
	sb.WriteByte(']')
}

func allScalar(arr *Array) bool {
	for _, e := range arr.Entries() {
		if e.Value != nil && e.Value.Kind() == KindArray {
			return false
		}
	}
	return true
}
