// SPDX-License-Identifier: MPL-2.0

package phparray

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ErrSyntax is the sentinel error wrapped by SyntaxError.
var ErrSyntax = errors.New("php syntax error")

type (
	// SyntaxError reports a lexing or parsing failure at a source position.
	SyntaxError struct {
		Line    int
		Column  int
		Message string
	}

	lexer struct {
		src    string
		pos    int
		line   int
		col    int
		tokens []Token
	}
)

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// Unwrap returns ErrSyntax for errors.Is compatibility.
func (e *SyntaxError) Unwrap() error { return ErrSyntax }

// Tokenize splits PHP source into tokens. Comments are kept as tokens so
// annotation scanners can inspect them; whitespace is dropped. The returned
// slice always ends with a TokenEOF token.
func Tokenize(src []byte) ([]Token, error) {
	lx := &lexer{src: string(src), line: 1, col: 1}
	if err := lx.run(); err != nil {
		return lx.tokens, err
	}
	return lx.tokens, nil
}

func (lx *lexer) run() error {
	// UTF-8 byte order mark
	if strings.HasPrefix(lx.src, "\ufeff") {
		lx.advance(len("\ufeff"))
	}

	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		switch {
		case c == '\n' || c == ' ' || c == '\t' || c == '\r' || c == '\f' || c == '\v':
			lx.advance(1)
		case strings.HasPrefix(lx.src[lx.pos:], "<?php"):
			lx.emitSpan(TokenOpenTag, len("<?php"), "<?php")
		case strings.HasPrefix(lx.src[lx.pos:], "?>"):
			lx.emitSpan(TokenCloseTag, 2, "?>")
		case strings.HasPrefix(lx.src[lx.pos:], "//"):
			lx.lineComment(2)
		case c == '#' && !strings.HasPrefix(lx.src[lx.pos:], "#["):
			lx.lineComment(1)
		case strings.HasPrefix(lx.src[lx.pos:], "/*"):
			if err := lx.blockComment(); err != nil {
				return err
			}
		case c == '\'' || c == '"':
			if err := lx.str(c); err != nil {
				return err
			}
		case isDigit(c):
			lx.number()
		case isIdentStart(c):
			lx.ident()
		case strings.HasPrefix(lx.src[lx.pos:], "=>"):
			lx.emitSpan(TokenArrow, 2, "=>")
		case strings.HasPrefix(lx.src[lx.pos:], "::"):
			lx.emitSpan(TokenDoubleColon, 2, "::")
		default:
			lx.punct(c)
		}
	}

	lx.tokens = append(lx.tokens, Token{Type: TokenEOF, Pos: lx.pos, End: lx.pos, Line: lx.line, Column: lx.col, EndLine: lx.line})
	return nil
}

func (lx *lexer) punct(c byte) {
	var tt TokenType
	switch c {
	case '[':
		tt = TokenLeftBracket
	case ']':
		tt = TokenRightBracket
	case '(':
		tt = TokenLeftParen
	case ')':
		tt = TokenRightParen
	case ',':
		tt = TokenComma
	case ';':
		tt = TokenSemicolon
	case '.':
		tt = TokenDot
	case '-':
		tt = TokenMinus
	default:
		tt = TokenOther
	}
	_, size := utf8.DecodeRuneInString(lx.src[lx.pos:])
	lx.emitSpan(tt, size, lx.src[lx.pos:lx.pos+size])
}

// advance moves the cursor n bytes forward, keeping line/column in sync.
func (lx *lexer) advance(n int) {
	for i := 0; i < n && lx.pos < len(lx.src); i++ {
		if lx.src[lx.pos] == '\n' {
			lx.line++
			lx.col = 1
		} else {
			lx.col++
		}
		lx.pos++
	}
}

func (lx *lexer) emitSpan(tt TokenType, n int, value string) {
	tok := Token{Type: tt, Value: value, Pos: lx.pos, Line: lx.line, Column: lx.col}
	lx.advance(n)
	tok.End = lx.pos
	tok.EndLine = lx.line
	lx.tokens = append(lx.tokens, tok)
}

func (lx *lexer) errorf(line, col int, format string, args ...any) error {
	return &SyntaxError{Line: line, Column: col, Message: fmt.Sprintf(format, args...)}
}

func (lx *lexer) lineComment(prefix int) {
	start := lx.pos
	end := start + prefix
	for end < len(lx.src) && lx.src[end] != '\n' {
		if strings.HasPrefix(lx.src[end:], "?>") {
			break
		}
		end++
	}
	body := strings.TrimRight(lx.src[start+prefix:end], "\r")
	lx.emitSpan(TokenLineComment, end-start, body)
}

func (lx *lexer) blockComment() error {
	line, col := lx.line, lx.col
	closeIdx := strings.Index(lx.src[lx.pos+2:], "*/")
	if closeIdx < 0 {
		return lx.errorf(line, col, "unterminated comment")
	}
	body := lx.src[lx.pos+2 : lx.pos+2+closeIdx]
	lx.emitSpan(TokenBlockComment, closeIdx+4, body)
	return nil
}

func (lx *lexer) str(quote byte) error {
	line, col := lx.line, lx.col
	var sb strings.Builder
	i := lx.pos + 1
	for {
		if i >= len(lx.src) {
			return lx.errorf(line, col, "unterminated string literal")
		}
		c := lx.src[i]
		if c == quote {
			i++
			break
		}
		if c != '\\' || i+1 >= len(lx.src) {
			sb.WriteByte(c)
			i++
			continue
		}
		next := lx.src[i+1]
		if quote == '\'' {
			if next == '\'' || next == '\\' {
				sb.WriteByte(next)
			} else {
				sb.WriteByte('\\')
				sb.WriteByte(next)
			}
			i += 2
			continue
		}
		i += decodeDoubleQuotedEscape(lx.src[i:], &sb)
	}

	tok := Token{Type: TokenString, Value: sb.String(), Pos: lx.pos, Line: line, Column: col, Quote: quote}
	lx.advance(i - lx.pos)
	tok.End = lx.pos
	tok.EndLine = lx.line
	lx.tokens = append(lx.tokens, tok)
	return nil
}

// decodeDoubleQuotedEscape decodes one escape sequence at the start of s
// (s[0] == '\\') and returns the number of bytes consumed. Unknown escapes
// are kept verbatim, as PHP does.
func decodeDoubleQuotedEscape(s string, sb *strings.Builder) int {
	switch s[1] {
	case 'n':
		sb.WriteByte('\n')
	case 't':
		sb.WriteByte('\t')
	case 'r':
		sb.WriteByte('\r')
	case 'v':
		sb.WriteByte('\v')
	case 'e':
		sb.WriteByte(0x1b)
	case 'f':
		sb.WriteByte('\f')
	case '\\', '$', '"':
		sb.WriteByte(s[1])
	case 'x':
		n := 2
		for n < 4 && n < len(s) && isHexDigit(s[n]) {
			n++
		}
		if n == 2 {
			sb.WriteString(s[:2])
			return 2
		}
		v, _ := strconv.ParseUint(s[2:n], 16, 8)
		sb.WriteByte(byte(v))
		return n
	case 'u':
		if len(s) > 2 && s[2] == '{' {
			if end := strings.IndexByte(s, '}'); end > 3 {
				if v, err := strconv.ParseUint(s[3:end], 16, 32); err == nil {
					sb.WriteRune(rune(v))
					return end + 1
				}
			}
		}
		sb.WriteString(s[:2])
	default:
		if s[1] >= '0' && s[1] <= '7' {
			n := 1
			for n < 4 && n < len(s) && s[n] >= '0' && s[n] <= '7' {
				n++
			}
			v, _ := strconv.ParseUint(s[1:n], 8, 16)
			sb.WriteByte(byte(v))
			return n
		}
		sb.WriteString(s[:2])
	}
	return 2
}

func (lx *lexer) number() {
	end := lx.pos
	if strings.HasPrefix(lx.src[end:], "0x") || strings.HasPrefix(lx.src[end:], "0X") {
		end += 2
		for end < len(lx.src) && (isHexDigit(lx.src[end]) || lx.src[end] == '_') {
			end++
		}
		lx.emitSpan(TokenNumber, end-lx.pos, lx.src[lx.pos:end])
		return
	}
	for end < len(lx.src) && (isDigit(lx.src[end]) || lx.src[end] == '_') {
		end++
	}
	if end+1 < len(lx.src) && lx.src[end] == '.' && isDigit(lx.src[end+1]) {
		end++
		for end < len(lx.src) && (isDigit(lx.src[end]) || lx.src[end] == '_') {
			end++
		}
	}
	if end < len(lx.src) && (lx.src[end] == 'e' || lx.src[end] == 'E') {
		exp := end + 1
		if exp < len(lx.src) && (lx.src[exp] == '+' || lx.src[exp] == '-') {
			exp++
		}
		if exp < len(lx.src) && isDigit(lx.src[exp]) {
			end = exp
			for end < len(lx.src) && isDigit(lx.src[end]) {
				end++
			}
		}
	}
	lx.emitSpan(TokenNumber, end-lx.pos, lx.src[lx.pos:end])
}

func (lx *lexer) ident() {
	end := lx.pos + 1
	for end < len(lx.src) && isIdentPart(lx.src[end]) {
		end++
	}
	lx.emitSpan(TokenIdent, end-lx.pos, lx.src[lx.pos:end])
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || c == '\\' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isIdentPart(c byte) bool {
	return c == '_' || c == '\\' || isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}
