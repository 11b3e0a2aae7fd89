// SPDX-License-Identifier: MPL-2.0

// Package configpatch rewrites the `locked_keys` entry of a PHP configuration
// file in place, leaving every other byte of the file untouched.
package configpatch

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/langlock/langlock/pkg/phparray"
)

// KeyName is the configuration key that holds the locked-key registry.
const KeyName = "locked_keys"

const (
	// ActionReplaced means an existing assignment was replaced in place.
	ActionReplaced Action = "replaced"
	// ActionInserted means the assignment was inserted after the primary anchor.
	ActionInserted Action = "inserted"
	// ActionInsertedFallback means the assignment was inserted after the
	// fallback anchor.
	ActionInsertedFallback Action = "inserted_fallback"
	// ActionAnchorNotFound means no insertion point exists and nothing changed.
	ActionAnchorNotFound Action = "anchor_not_found"
)

var (
	// ErrAnchorNotFound is returned when the file has no locked_keys entry and
	// neither insertion anchor.
	ErrAnchorNotFound = errors.New("no insertion anchor for locked_keys")
	// ErrDuplicateAssignment is returned when more than one live locked_keys
	// entry exists.
	ErrDuplicateAssignment = errors.New("locked_keys is assigned more than once")
	// ErrUnsupportedValue is returned when the existing locked_keys value is not
	// an array literal.
	ErrUnsupportedValue = errors.New("locked_keys value is not an array literal")

	primaryAnchor  = regexp.MustCompile(`//\s*'skip_files'\s*=>\s*\[\],?`)
	fallbackAnchor = regexp.MustCompile(`//\s*'skip_locales'\s*=>\s*\[\],?`)
)

type (
	// Action describes what Patch did.
	Action string

	// Result is the outcome of a patch.
	Result struct {
		// Source is the patched file, or the input unchanged when Action is
		// ActionAnchorNotFound.
		Source []byte
		Action Action
		// Line is the 1-based line where the literal was written.
		Line int
	}

	// PositionError carries the location of a problem in the config file.
	PositionError struct {
		Line int
		Err  error
	}

	assignment struct {
		valueStart, valueEnd int
		line                 int
	}
)

// Error implements the error interface.
func (e *PositionError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

// Unwrap returns the underlying sentinel.
func (e *PositionError) Unwrap() error { return e.Err }

// Patch returns src with literal as the value of its locked_keys entry.
//
// An existing `'locked_keys' => [...]` (or `array(...)`) entry has only its
// value replaced. Otherwise the entry is inserted after the commented
// `// 'skip_files' => [],` line, or after `// 'skip_locales' => [],` together
// with a commented skip_files line. When neither anchor exists Patch returns
// the source unchanged with ActionAnchorNotFound and ErrAnchorNotFound.
func Patch(src []byte, literal string) (Result, error) {
	tokens, err := phparray.Tokenize(src)
	if err != nil {
		return Result{}, fmt.Errorf("read config: %w", err)
	}

	found, err := findAssignments(significant(tokens))
	if err != nil {
		return Result{}, err
	}
	switch len(found) {
	case 0:
	case 1:
		a := found[0]
		return Result{Source: splice(src, a.valueStart, a.valueEnd, literal), Action: ActionReplaced, Line: a.line}, nil
	default:
		return Result{}, &PositionError{Line: found[1].line, Err: ErrDuplicateAssignment}
	}

	entry := "'" + KeyName + "' => " + literal + ","
	if loc := primaryAnchor.FindIndex(src); loc != nil {
		return Result{
			Source: splice(src, loc[1], loc[1], "\n\n    "+entry),
			Action: ActionInserted,
			Line:   lineAt(src, loc[1]) + 2,
		}, nil
	}
	if loc := fallbackAnchor.FindIndex(src); loc != nil {
		return Result{
			Source: splice(src, loc[1], loc[1], "\n    // 'skip_files' => [],\n\n    "+entry),
			Action: ActionInsertedFallback,
			Line:   lineAt(src, loc[1]) + 3,
		}, nil
	}
	return Result{Source: src, Action: ActionAnchorNotFound}, ErrAnchorNotFound
}

func significant(tokens []phparray.Token) []phparray.Token {
	out := make([]phparray.Token, 0, len(tokens))
	for _, tok := range tokens {
		if !tok.IsComment() {
			out = append(out, tok)
		}
	}
	return out
}

func findAssignments(tokens []phparray.Token) ([]assignment, error) {
	var found []assignment
	for i := 0; i+2 < len(tokens); i++ {
		key := tokens[i]
		if key.Type != phparray.TokenString || key.Value != KeyName || tokens[i+1].Type != phparray.TokenArrow {
			continue
		}
		end, err := valueEnd(tokens, i+2)
		if err != nil {
			return nil, &PositionError{Line: key.Line, Err: err}
		}
		found = append(found, assignment{valueStart: tokens[i+2].Pos, valueEnd: tokens[end].End, line: key.Line})
		i = end
	}
	return found, nil
}

// valueEnd returns the index of the token closing the array literal that
// starts at tokens[start].
func valueEnd(tokens []phparray.Token, start int) (int, error) {
	open, closing := phparray.TokenLeftBracket, phparray.TokenRightBracket
	i := start
	switch {
	case tokens[i].Type == phparray.TokenLeftBracket:
	case tokens[i].Type == phparray.TokenIdent && isArrayKeyword(tokens[i].Value) &&
		i+1 < len(tokens) && tokens[i+1].Type == phparray.TokenLeftParen:
		open, closing = phparray.TokenLeftParen, phparray.TokenRightParen
		i++
	default:
		return 0, ErrUnsupportedValue
	}

	depth := 0
	for ; i < len(tokens); i++ {
		switch tokens[i].Type {
		case open:
			depth++
		case closing:
			depth--
			if depth == 0 {
				return i, nil
			}
		case phparray.TokenEOF:
			return 0, fmt.Errorf("%w: unclosed array", phparray.ErrSyntax)
		}
	}
	return 0, fmt.Errorf("%w: unclosed array", phparray.ErrSyntax)
}

func isArrayKeyword(s string) bool {
	return strings.EqualFold(s, "array")
}

func splice(src []byte, start, end int, text string) []byte {
	out := make([]byte, 0, len(src)-(end-start)+len(text))
	out = append(out, src[:start]...)
	out = append(out, text...)
	return append(out, src[end:]...)
}

func lineAt(src []byte, offset int) int {
	line := 1
	for _, c := range src[:offset] {
		if c == '\n' {
			line++
		}
	}
	return line
}
