// SPDX-License-Identifier: MPL-2.0

package laravel

import (
	"strings"

	"github.com/langlock/langlock/pkg/phparray"
)

// EnvResolver evaluates env('KEY', default) calls the way Laravel does: the
// process environment wins over the dotenv file, and the default applies when
// neither defines the key.
type EnvResolver struct {
	Dotenv    map[string]string
	LookupEnv func(string) (string, bool)
}

// Resolve returns v with every env() call replaced by its value. Arrays are
// copied; other expressions are returned unchanged.
func (r *EnvResolver) Resolve(v phparray.Value) phparray.Value {
	switch val := v.(type) {
	case *phparray.Array:
		out := phparray.NewArray()
		for _, e := range val.Entries() {
			out.Set(e.Key, r.Resolve(e.Value))
		}
		return out
	case *phparray.Expr:
		if val.Call != "env" || len(val.Args) == 0 {
			return v
		}
		name, ok := val.Args[0].(phparray.String)
		if !ok {
			return v
		}
		if s, found := r.lookup(string(name)); found {
			return castEnvValue(s)
		}
		if len(val.Args) > 1 {
			return r.Resolve(val.Args[1])
		}
		return phparray.Null{}
	default:
		return v
	}
}

func (r *EnvResolver) lookup(name string) (string, bool) {
	if r.LookupEnv != nil {
		if s, ok := r.LookupEnv(name); ok {
			return s, true
		}
	}
	s, ok := r.Dotenv[name]
	return s, ok
}

// castEnvValue applies Laravel's env() conversions for the literal words
// true, false, empty and null, with or without parentheses.
func castEnvValue(s string) phparray.Value {
	switch strings.ToLower(s) {
	case "true", "(true)":
		return phparray.Bool(true)
	case "false", "(false)":
		return phparray.Bool(false)
	case "empty", "(empty)":
		return phparray.String("")
	case "null", "(null)":
		return phparray.Null{}
	}
	return phparray.String(s)
}
