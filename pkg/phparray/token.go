// SPDX-License-Identifier: MPL-2.0

package phparray

import "fmt"

const (
	// TokenEOF marks the end of input.
	TokenEOF TokenType = iota
	// TokenOpenTag is the `<?php` opening tag.
	TokenOpenTag
	// TokenCloseTag is the `?>` closing tag.
	TokenCloseTag
	// TokenString is a single- or double-quoted string literal. Value holds the decoded text.
	TokenString
	// TokenNumber is an integer or float literal.
	TokenNumber
	// TokenIdent is an identifier, keyword or (possibly namespaced) name.
	TokenIdent
	// TokenArrow is `=>`.
	TokenArrow
	// TokenDoubleColon is `::`.
	TokenDoubleColon
	// TokenLeftBracket is `[`.
	TokenLeftBracket
	// TokenRightBracket is `]`.
	TokenRightBracket
	// TokenLeftParen is `(`.
	TokenLeftParen
	// TokenRightParen is `)`.
	TokenRightParen
	// TokenComma is `,`.
	TokenComma
	// TokenSemicolon is `;`.
	TokenSemicolon
	// TokenDot is the `.` concatenation operator.
	TokenDot
	// TokenMinus is `-`.
	TokenMinus
	// TokenLineComment is a `//` or `#` comment up to (not including) the newline.
	TokenLineComment
	// TokenBlockComment is a `/* ... */` comment, including doc comments.
	TokenBlockComment
	// TokenOther is any other single punctuation character.
	TokenOther
)

type (
	// TokenType identifies the lexical class of a Token.
	TokenType int

	// Token is a lexical token with its byte span and position.
	Token struct {
		Type TokenType
		// Value is the token text; for strings it is the decoded literal,
		// for comments it is the comment body without delimiters.
		Value string
		// Pos is the byte offset of the first byte of the token.
		Pos int
		// End is the byte offset just past the token.
		End int
		// Line is the 1-based line of the first byte.
		Line int
		// Column is the 1-based column of the first byte.
		Column int
		// EndLine is the 1-based line of the last byte.
		EndLine int
		// Quote is the delimiter of a string token (' or ").
		Quote byte
	}
)

// IsComment reports whether the token is a line or block comment.
func (t Token) IsComment() bool {
	return t.Type == TokenLineComment || t.Type == TokenBlockComment
}

// String returns a short description for error messages.
func (t Token) String() string {
	switch t.Type {
	case TokenEOF:
		return "EOF"
	case TokenString:
		return fmt.Sprintf("STRING(%q)", t.Value)
	default:
		return fmt.Sprintf("%s(%s)", t.Type, t.Value)
	}
}

// String returns the name of the token type.
func (tt TokenType) String() string {
	switch tt {
	case TokenEOF:
		return "EOF"
	case TokenOpenTag:
		return "OPEN_TAG"
	case TokenCloseTag:
		return "CLOSE_TAG"
	case TokenString:
		return "STRING"
	case TokenNumber:
		return "NUMBER"
	case TokenIdent:
		return "IDENT"
	case TokenArrow:
		return "ARROW"
	case TokenDoubleColon:
		return "DOUBLE_COLON"
	case TokenLeftBracket:
		return "LEFT_BRACKET"
	case TokenRightBracket:
		return "RIGHT_BRACKET"
	case TokenLeftParen:
		return "LEFT_PAREN"
	case TokenRightParen:
		return "RIGHT_PAREN"
	case TokenComma:
		return "COMMA"
	case TokenSemicolon:
		return "SEMICOLON"
	case TokenDot:
		return "DOT"
	case TokenMinus:
		return "MINUS"
	case TokenLineComment:
		return "LINE_COMMENT"
	case TokenBlockComment:
		return "BLOCK_COMMENT"
	case TokenOther:
		return "OTHER"
	default:
		return "UNKNOWN"
	}
}
