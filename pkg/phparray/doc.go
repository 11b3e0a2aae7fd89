// SPDX-License-Identifier: MPL-2.0

// Package phparray reads and writes the subset of PHP used by translation
// and configuration files: a file that returns a (possibly nested) array
// literal.
//
// Tokenize exposes the token stream, comments included, for tools that
// inspect annotations. Parse evaluates `return <expr>;` into an ordered
// Value tree without executing any code; calls and constants survive as Expr
// values carrying their source text. Encode renders a Value back to
// re-loadable PHP.
package phparray
