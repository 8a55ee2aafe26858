// Package parser builds the AST from a token stream by recursive descent.
package parser

import (
	"fmt"

	"virtolang/interpreter-go/pkg/ast"
	"virtolang/interpreter-go/pkg/diagnostics"
	"virtolang/interpreter-go/pkg/lexer"
	"virtolang/interpreter-go/pkg/token"
)

// Parser consumes a fully tokenized source. It is single-use.
type Parser struct {
	tokens []token.Token
	pos    int
	src    *token.Source
}

// New prepares a parser over tokens produced from src. src may be nil.
func New(tokens []token.Token, src *token.Source) *Parser {
	return &Parser{tokens: tokens, src: src}
}

// ParseProgram tokenizes and parses source text under filename.
func ParseProgram(filename string, source []byte) (*ast.Program, error) {
	src := token.NewSource(filename, string(source))
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}
	return New(tokens, src).Parse()
}

// Parse returns every top-level statement in source order. Errors are
// *diagnostics.Error values of kind SyntaxError.
func (p *Parser) Parse() (*ast.Program, error) {
	body := make([]ast.Statement, 0)
	for p.peek() != nil {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			body = append(body, stmt)
		}
	}
	return ast.NewProgram(body, p.src), nil
}

func (p *Parser) peek() *token.Token {
	return p.peekAt(0)
}

func (p *Parser) peekAt(offset int) *token.Token {
	idx := p.pos + offset
	if idx < 0 || idx >= len(p.tokens) {
		return nil
	}
	return &p.tokens[idx]
}

func (p *Parser) check(kind token.Kind) bool {
	tok := p.peek()
	return tok != nil && tok.Kind == kind
}

func (p *Parser) checkAt(offset int, kind token.Kind) bool {
	tok := p.peekAt(offset)
	return tok != nil && tok.Kind == kind
}

func (p *Parser) advance() token.Token {
	tok := p.tokens[p.pos]
	p.pos++
	return tok
}

// match consumes the next token when it has one of kinds.
func (p *Parser) match(kinds ...token.Kind) (token.Token, bool) {
	tok := p.peek()
	if tok == nil {
		return token.Token{}, false
	}
	for _, kind := range kinds {
		if tok.Kind == kind {
			return p.advance(), true
		}
	}
	return token.Token{}, false
}

// expect consumes a token of kind or fails with message at the current token.
func (p *Parser) expect(kind token.Kind, message string) (token.Token, error) {
	if tok, ok := p.match(kind); ok {
		return tok, nil
	}
	return token.Token{}, p.fail(message)
}

// fail reports message at the current token; at end of input it points at the
// last token consumed.
func (p *Parser) fail(message string) error {
	tok := p.peek()
	if tok == nil && p.pos > 0 {
		last := p.lastToken()
		tok = &last
	}
	return p.failAt(tok, message)
}

func (p *Parser) failAt(tok *token.Token, message string) error {
	return diagnostics.NewSyntaxError(message, tok).WithSource(p.src)
}

func (p *Parser) failf(format string, args ...any) error {
	return p.fail(fmt.Sprintf(format, args...))
}

func (p *Parser) lastToken() token.Token {
	return p.tokens[p.pos-1]
}
