// SPDX-License-Identifier: MPL-2.0

// Package cueutil compiles user CUE files against an embedded schema.
//
// Every caller follows the same flow: compile the schema, compile the user
// data and unify it with a schema definition, then validate and decode.
//
//	//go:embed config_schema.cue
//	var schema string
//
//	res, err := cueutil.ParseAndDecodeString[map[string]any](
//	    schema, data, "#Config",
//	    cueutil.WithFilename("langlock.cue"),
//	    cueutil.WithConcrete(false),
//	)
package cueutil
