// SPDX-License-Identifier: MPL-2.0

package phparray

import (
	"errors"
	"testing"
)

func tokenTypes(tokens []Token) []TokenType {
	out := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Type
	}
	return out
}

func TestTokenize_InlineMarkerLine(t *testing.T) {
	t.Parallel()

	tokens, err := Tokenize([]byte(`'title' => 'Home', // @locked`))
	if err != nil {
		t.Fatalf("Tokenize() error = %v", err)
	}

	want := []TokenType{TokenString, TokenArrow, TokenString, TokenComma, TokenLineComment, TokenEOF}
	got := tokenTypes(tokens)
	if len(got) != len(want) {
		t.Fatalf("Tokenize() returned %d tokens %v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token[%d] = %s, want %s", i, got[i], want[i])
		}
	}
	if tokens[0].Value != "title" || tokens[2].Value != "Home" {
		t.Errorf("string values = %q, %q; want title, Home", tokens[0].Value, tokens[2].Value)
	}
	if tokens[4].Value != " @locked" {
		t.Errorf("comment body = %q, want %q", tokens[4].Value, " @locked")
	}
}

func TestTokenize_StringEscapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{name: "single quoted escaped quote", src: `'it\'s'`, want: "it's"},
		{name: "single quoted escaped backslash", src: `'a\\b'`, want: `a\b`},
		{name: "single quoted keeps other escapes", src: `'a\nb'`, want: `a\nb`},
		{name: "double quoted escaped quote", src: `"say \"hi\""`, want: `say "hi"`},
		{name: "double quoted newline", src: `"a\nb"`, want: "a\nb"},
		{name: "double quoted dollar", src: `"\$5"`, want: "$5"},
		{name: "double quoted unicode", src: `"caf\u{e9}"`, want: "café"},
		{name: "double quoted unknown escape kept", src: `"a\qb"`, want: `a\qb`},
		{name: "utf8 passthrough", src: `'안녕하세요'`, want: "안녕하세요"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tokens, err := Tokenize([]byte(tt.src))
			if err != nil {
				t.Fatalf("Tokenize(%s) error = %v", tt.src, err)
			}
			if tokens[0].Type != TokenString {
				t.Fatalf("Tokenize(%s) first token = %s, want STRING", tt.src, tokens[0])
			}
			if tokens[0].Value != tt.want {
				t.Errorf("Tokenize(%s) value = %q, want %q", tt.src, tokens[0].Value, tt.want)
			}
		})
	}
}

func TestTokenize_Comments(t *testing.T) {
	t.Parallel()

	src := "<?php\n/* @locked */\n# hash\n// @locked nav.home\nreturn [];\n"
	tokens, err := Tokenize([]byte(src))
	if err != nil {
		t.Fatalf("Tokenize() error = %v", err)
	}

	var comments []Token
	for _, tok := range tokens {
		if tok.IsComment() {
			comments = append(comments, tok)
		}
	}
	if len(comments) != 3 {
		t.Fatalf("got %d comments, want 3", len(comments))
	}
	if comments[0].Type != TokenBlockComment || comments[0].Value != " @locked " {
		t.Errorf("block comment = %s %q", comments[0].Type, comments[0].Value)
	}
	if comments[2].Line != 4 || comments[2].Column != 1 {
		t.Errorf("pointer comment position = %d:%d, want 4:1", comments[2].Line, comments[2].Column)
	}
}

func TestTokenize_Positions(t *testing.T) {
	t.Parallel()

	src := "return [\n    'a' => 'b',\n];"
	tokens, err := Tokenize([]byte(src))
	if err != nil {
		t.Fatalf("Tokenize() error = %v", err)
	}
	key := tokens[2]
	if key.Type != TokenString || key.Line != 2 || key.Column != 5 {
		t.Errorf("key token = %s at %d:%d, want STRING at 2:5", key, key.Line, key.Column)
	}
	if got := src[key.Pos:key.End]; got != "'a'" {
		t.Errorf("key span = %q, want %q", got, "'a'")
	}
}

func TestTokenize_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
	}{
		{name: "unterminated single quote", src: `'abc`},
		{name: "unterminated double quote", src: `"abc`},
		{name: "unterminated block comment", src: `/* abc`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Tokenize([]byte(tt.src))
			if err == nil {
				t.Fatal("Tokenize() expected error, got nil")
			}
			if !errors.Is(err, ErrSyntax) {
				t.Errorf("error %v does not wrap ErrSyntax", err)
			}
			var synErr *SyntaxError
			if !errors.As(err, &synErr) || synErr.Line != 1 {
				t.Errorf("expected *SyntaxError on line 1, got %v", err)
			}
		})
	}
}
