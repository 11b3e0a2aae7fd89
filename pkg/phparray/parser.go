// SPDX-License-Identifier: MPL-2.0

package phparray

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxDepth bounds array nesting so hostile input cannot exhaust the stack.
const MaxDepth = 128

type parser struct {
	src    string
	tokens []Token
	pos    int
	prev   Token
	depth  int
}

// Parse evaluates a PHP file of the form `<?php ... return <expr>;` and
// returns the value of the returned expression. Leading `declare`, `use` and
// `namespace` statements are skipped. Only static expressions are supported:
// literals, arrays, string concatenation, constants and function calls (the
// last two are preserved as Expr values).
func Parse(src []byte) (Value, error) {
	tokens, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{src: string(src), tokens: significant(tokens)}
	return p.file()
}

// ParseExpr evaluates a single PHP expression such as an array literal.
func ParseExpr(src []byte) (Value, error) {
	tokens, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{src: string(src), tokens: significant(tokens)}
	v, err := p.expr()
	if err != nil {
		return nil, err
	}
	if p.peek().Type == TokenSemicolon {
		p.next()
	}
	if tok := p.peek(); tok.Type != TokenEOF {
		return nil, p.errorf(tok, "unexpected %s after expression", tok)
	}
	return v, nil
}

func significant(tokens []Token) []Token {
	out := make([]Token, 0, len(tokens))
	for _, t := range tokens {
		if !t.IsComment() {
			out = append(out, t)
		}
	}
	return out
}

func (p *parser) peek() Token {
	return p.tokens[p.pos]
}

func (p *parser) next() Token {
	tok := p.tokens[p.pos]
	if tok.Type != TokenEOF {
		p.pos++
	}
	p.prev = tok
	return tok
}

func (p *parser) expect(tt TokenType) (Token, error) {
	tok := p.next()
	if tok.Type != tt {
		return tok, p.errorf(tok, "expected %s, found %s", tt, tok)
	}
	return tok, nil
}

func (p *parser) errorf(tok Token, format string, args ...any) error {
	return &SyntaxError{Line: tok.Line, Column: tok.Column, Message: fmt.Sprintf(format, args...)}
}

func (p *parser) file() (Value, error) {
	if p.peek().Type == TokenOpenTag {
		p.next()
	}
	for {
		tok := p.peek()
		switch {
		case tok.Type == TokenEOF:
			return nil, p.errorf(tok, "missing return statement")
		case tok.Type == TokenIdent && strings.EqualFold(tok.Value, "return"):
			p.next()
			v, err := p.expr()
			if err != nil {
				return nil, err
			}
			if end := p.next(); end.Type != TokenSemicolon && end.Type != TokenEOF && end.Type != TokenCloseTag {
				return nil, p.errorf(end, "expected ; after return value, found %s", end)
			}
			return v, nil
		case tok.Type == TokenIdent && isSkippableStatement(tok.Value):
			p.skipStatement()
		default:
			return nil, p.errorf(tok, "unsupported statement starting with %s", tok)
		}
	}
}

func isSkippableStatement(word string) bool {
	switch strings.ToLower(word) {
	case "declare", "use", "namespace":
		return true
	}
	return false
}

func (p *parser) skipStatement() {
	for {
		tok := p.next()
		if tok.Type == TokenSemicolon || tok.Type == TokenEOF {
			return
		}
	}
}

// expr parses a concatenation chain: term ('.' term)*.
func (p *parser) expr() (Value, error) {
	start := p.peek()
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.peek().Type == TokenDot {
		p.next()
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		ls, lok := left.(String)
		rs, rok := right.(String)
		if lok && rok {
			left = ls + rs
			continue
		}
		left = &Expr{Source: p.src[start.Pos:p.prev.End]}
	}
	return left, nil
}

func (p *parser) term() (Value, error) {
	tok := p.next()
	switch tok.Type {
	case TokenString:
		return String(tok.Value), nil
	case TokenNumber:
		return Number(tok.Value), nil
	case TokenMinus:
		num, err := p.expect(TokenNumber)
		if err != nil {
			return nil, err
		}
		return Number("-" + num.Value), nil
	case TokenLeftBracket:
		return p.array(TokenRightBracket, tok)
	case TokenLeftParen:
		v, err := p.expr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRightParen); err != nil {
			return nil, err
		}
		return v, nil
	case TokenIdent:
		return p.identTerm(tok)
	default:
		return nil, p.errorf(tok, "unexpected %s", tok)
	}
}

func (p *parser) identTerm(tok Token) (Value, error) {
	lower := strings.ToLower(tok.Value)
	switch {
	case lower == "array" && p.peek().Type == TokenLeftParen:
		open := p.next()
		return p.array(TokenRightParen, open)
	case lower == "true":
		return Bool(true), nil
	case lower == "false":
		return Bool(false), nil
	case lower == "null":
		return Null{}, nil
	}

	switch p.peek().Type {
	case TokenLeftParen:
		p.next()
		args, err := p.args()
		if err != nil {
			return nil, err
		}
		return &Expr{Source: p.src[tok.Pos:p.prev.End], Call: tok.Value, Args: args}, nil
	case TokenDoubleColon:
		p.next()
		if _, err := p.expect(TokenIdent); err != nil {
			return nil, err
		}
		return &Expr{Source: p.src[tok.Pos:p.prev.End]}, nil
	default:
		return &Expr{Source: tok.Value}, nil
	}
}

func (p *parser) args() ([]Value, error) {
	var args []Value
	for {
		if p.peek().Type == TokenRightParen {
			p.next()
			return args, nil
		}
		v, err := p.expr()
		if err != nil {
			return nil, err
		}
		args = append(args, v)
		switch tok := p.next(); tok.Type {
		case TokenComma:
		case TokenRightParen:
			return args, nil
		default:
			return nil, p.errorf(tok, "expected , or ) in argument list, found %s", tok)
		}
	}
}

func (p *parser) array(closing TokenType, open Token) (Value, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > MaxDepth {
		return nil, p.errorf(open, "array nesting exceeds %d levels", MaxDepth)
	}

	arr := NewArray()
	for {
		if p.peek().Type == closing {
			p.next()
			return arr, nil
		}
		first, err := p.expr()
		if err != nil {
			return nil, err
		}
		if p.peek().Type == TokenArrow {
			keyTok := p.prev
			p.next()
			key, err := arrayKey(first)
			if err != nil {
				return nil, p.errorf(keyTok, "%v", err)
			}
			val, err := p.expr()
			if err != nil {
				return nil, err
			}
			arr.Set(key, val)
		} else {
			arr.Append(first)
		}

		switch tok := p.next(); tok.Type {
		case TokenComma:
		case closing:
			return arr, nil
		default:
			return nil, p.errorf(tok, "expected , or closing delimiter in array, found %s", tok)
		}
	}
}

// arrayKey converts a key expression to its canonical string form.
func arrayKey(v Value) (string, error) {
	switch k := v.(type) {
	case String:
		return string(k), nil
	case Number:
		n, err := strconv.ParseInt(strings.ReplaceAll(string(k), "_", ""), 0, 64)
		if err != nil {
			f, ferr := strconv.ParseFloat(string(k), 64)
			if ferr != nil {
				return "", fmt.Errorf("invalid numeric key %s", k)
			}
			n = int64(f)
		}
		return strconv.FormatInt(n, 10), nil
	case Bool:
		if k {
			return "1", nil
		}
		return "0", nil
	case Null:
		return "", nil
	case *Expr:
		return k.Source, nil
	default:
		return "", fmt.Errorf("unsupported array key of kind %s", v.Kind())
	}
}
