// SPDX-License-Identifier: MPL-2.0

package lock

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/langlock/langlock/pkg/phparray"
)

// Marker is the annotation that locks a key. It is matched case-insensitively.
const Marker = "@locked"

// ScanAnnotations returns the locked keys annotated in one translation file.
//
// Two rules are applied to the token stream of text and their results unioned:
//
//   - inline: a `'key' => 'value',` entry followed on the same line by a `//`
//     or `/* */` comment that starts with @locked locks `{filename}.{key}`.
//   - pointer: a `// @locked path` comment on a line of its own locks `path`
//     when it contains a dot and `{filename}.{path}` otherwise.
//
// Keys are returned in source order without duplicates. A file without
// markers yields an empty slice and no error; text that cannot be tokenized
// returns an error wrapping phparray.ErrSyntax.
func ScanAnnotations(filename, text, locale string) ([]Discovery, error) {
	tokens, err := phparray.Tokenize([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", filename, err)
	}

	var (
		out  []Discovery
		seen = make(map[string]struct{})
	)
	add := func(key string) {
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		out = append(out, Discovery{Key: key, Locale: locale})
	}

	prevLine := 0
	for i, tok := range tokens {
		if tok.Type == phparray.TokenEOF {
			break
		}
		if tok.IsComment() {
			if key, ok := inlineKey(text, tokens, i); ok {
				add(filename + "." + key)
			} else if tok.Line > prevLine && isSlashComment(text, tok) {
				if path, ok := pointerPath(tok.Value); ok {
					if !strings.Contains(path, ".") {
						path = filename + "." + path
					}
					add(path)
				}
			}
		}
		prevLine = tok.EndLine
	}
	return out, nil
}

// inlineKey matches STRING => STRING [,] immediately before the marker
// comment at index i, all ending on the comment's line. Only `//` and
// `/* */` comments carry inline markers.
func inlineKey(text string, tokens []phparray.Token, i int) (string, bool) {
	comment := tokens[i]
	if !isSlashComment(text, comment) && comment.Type != phparray.TokenBlockComment {
		return "", false
	}
	if !hasMarker(comment.Value) {
		return "", false
	}
	j := i - 1
	if j >= 0 && tokens[j].Type == phparray.TokenComma {
		j--
	}
	if j < 2 {
		return "", false
	}
	value, arrow, key := tokens[j], tokens[j-1], tokens[j-2]
	if value.Type != phparray.TokenString || arrow.Type != phparray.TokenArrow || key.Type != phparray.TokenString {
		return "", false
	}
	if value.EndLine != comment.Line {
		return "", false
	}
	return key.Value, true
}

// pointerPath extracts the path from a `@locked path` comment body.
func pointerPath(body string) (string, bool) {
	rest, ok := cutMarker(body)
	if !ok {
		return "", false
	}
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return "", false
	}
	return fields[0], true
}

func hasMarker(body string) bool {
	_, ok := cutMarker(body)
	return ok
}

// cutMarker reports whether body starts with the marker as a whole word and
// returns the text after it.
func cutMarker(body string) (string, bool) {
	body = strings.TrimLeftFunc(body, unicode.IsSpace)
	if len(body) < len(Marker) || !strings.EqualFold(body[:len(Marker)], Marker) {
		return "", false
	}
	rest := body[len(Marker):]
	if r, _ := utf8.DecodeRuneInString(rest); rest != "" && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
		return "", false
	}
	return rest, true
}

func isSlashComment(text string, tok phparray.Token) bool {
	return tok.Type == phparray.TokenLineComment && strings.HasPrefix(text[tok.Pos:], "//")
}
