// SPDX-License-Identifier: MPL-2.0

// Package sourcegen implements the generate-source pipeline. Some vendor
// packages use source-language text as translation keys and ship no
// source-locale directory; for each such package the service synthesizes one
// from a reference locale, using every key as its own value.
package sourcegen
