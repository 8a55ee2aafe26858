package parser

import (
	"strings"

	"virtolang/interpreter-go/pkg/ast"
	"virtolang/interpreter-go/pkg/token"
)

const notInHint = "Expected 'in' or 'is' after 'not' in condition. Did you mean 'not in' or 'is not'?"

// parseStatement dispatches on the lookahead token. A nil statement with a nil
// error means an empty statement (a stray ';').
func (p *Parser) parseStatement() (ast.Statement, error) {
	tok := p.peek()
	switch tok.Kind {
	case token.Semicolon:
		p.advance()
		return nil, nil
	case token.Identifier:
		if p.checkAt(1, token.Assign) {
			return p.parseAssignment()
		}
		return p.parseExpressionStatement()
	case token.Async:
		if p.checkAt(1, token.LParen) {
			return p.parseExpressionStatement()
		}
		start := p.advance()
		if _, ok := p.match(token.Def); !ok {
			return nil, p.fail("Expected 'def' after 'async'")
		}
		return p.parseFunctionDefinition(start, true)
	case token.Def:
		start := p.advance()
		return p.parseFunctionDefinition(start, false)
	case token.If:
		return p.parseIfStatement()
	case token.While:
		return p.parseWhileLoop()
	case token.For:
		return p.parseForLoop()
	case token.With:
		return p.parseWithStatement()
	case token.Print:
		return p.parsePrintStatement()
	case token.Import:
		return p.parseImportStatement()
	case token.Return:
		return p.parseReturnStatement()
	case token.Await:
		start := p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return ast.At(ast.NewAwaitExpression(expr), start), nil
	case token.Try:
		return p.parseTryStatement()
	case token.Raise:
		start := p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return ast.At(ast.NewRaiseStatement(expr), start), nil
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseExpressionStatement() (ast.Statement, error) {
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return expr, nil
}

func (p *Parser) parseAssignment() (ast.Statement, error) {
	nameTok := p.advance()
	p.advance() // '='
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	target := ast.At(ast.NewIdentifier(nameTok.Value), nameTok)
	return ast.At(ast.NewAssignmentStatement(target, value), nameTok), nil
}

// parseBlock consumes statements up to the closing brace; the opening brace has
// already been consumed as open.
func (p *Parser) parseBlock(open token.Token) (*ast.Block, error) {
	body := make([]ast.Statement, 0)
	for {
		if _, ok := p.match(token.RBrace); ok {
			return ast.At(ast.NewBlock(body), open), nil
		}
		if p.peek() == nil {
			return nil, p.failAt(&open, "Unclosed block")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			body = append(body, stmt)
		}
	}
}

func (p *Parser) expectBlock(message string) (*ast.Block, error) {
	open, err := p.expect(token.LBrace, message)
	if err != nil {
		return nil, err
	}
	return p.parseBlock(open)
}

func (p *Parser) parseFunctionDefinition(start token.Token, isAsync bool) (ast.Statement, error) {
	nameTok := p.peek()
	if nameTok == nil || nameTok.Kind != token.Identifier {
		if isAsync {
			if nameTok == nil {
				return nil, p.fail("Expected function name after 'async def', but found end of input")
			}
			return nil, p.failf("Expected function name after 'async def', but found %s ('%s') instead", nameTok.Kind, nameTok.Value)
		}
		return nil, p.fail("Expected function name after 'def'")
	}
	name := p.advance()
	if _, err := p.expect(token.LParen, "Expected '(' after function name"); err != nil {
		return nil, err
	}
	params := make([]*ast.Identifier, 0)
	if _, ok := p.match(token.RParen); !ok {
		for {
			param, ok := p.match(token.Identifier)
			if !ok {
				return nil, p.fail("Expected parameter name in function definition")
			}
			params = append(params, ast.At(ast.NewIdentifier(param.Value), param))
			if _, ok := p.match(token.Comma); ok {
				continue
			}
			if _, ok := p.match(token.RParen); ok {
				break
			}
			return nil, p.fail("Expected ',' or ')' in parameter list")
		}
	}
	body, err := p.expectBlock("Expected '{' to start function body")
	if err != nil {
		return nil, err
	}
	id := ast.At(ast.NewIdentifier(name.Value), name)
	return ast.At(ast.NewFunctionDefinition(id, params, body, isAsync), start), nil
}

// parseCondition parses the parenthesized condition of an if statement,
// turning a stray 'not' into the not-in / is-not hint.
func (p *Parser) parseCondition() (ast.Expression, error) {
	cond, err := p.parseExpression()
	if err != nil {
		if tok := p.peek(); tok != nil && tok.Kind == token.Not {
			return nil, p.failAt(tok, notInHint)
		}
		return nil, err
	}
	if tok := p.peek(); tok != nil && tok.Kind == token.Not {
		return nil, p.failAt(tok, notInHint)
	}
	return cond, nil
}

func (p *Parser) parseIfStatement() (ast.Statement, error) {
	start := p.advance()
	if _, err := p.expect(token.LParen, "Expected '(' after 'if'"); err != nil {
		return nil, err
	}
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RParen, "Expected ')' after if condition. Make sure your condition is valid. Example: if (x not in y) { ... }"); err != nil {
		return nil, err
	}
	body, err := p.expectBlock("Expected '{' after if condition")
	if err != nil {
		return nil, err
	}

	var elifs []*ast.ElifClause
	for {
		elifTok, ok := p.match(token.Elif)
		if !ok {
			break
		}
		if _, err := p.expect(token.LParen, "Expected '(' after 'elif'"); err != nil {
			return nil, err
		}
		elifCond, err := p.parseCondition()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RParen, "Expected ')' after elif condition"); err != nil {
			return nil, err
		}
		elifBody, err := p.expectBlock("Expected '{' after elif condition")
		if err != nil {
			return nil, err
		}
		elifs = append(elifs, ast.At(ast.NewElifClause(elifCond, elifBody), elifTok))
	}

	var elseBody *ast.Block
	if _, ok := p.match(token.Else); ok {
		elseBody, err = p.expectBlock("Expected '{' after 'else'")
		if err != nil {
			return nil, err
		}
	}
	return ast.At(ast.NewIfStatement(cond, body, elifs, elseBody), start), nil
}

func (p *Parser) parseWhileLoop() (ast.Statement, error) {
	start := p.advance()
	if _, err := p.expect(token.LParen, "Expected '(' after 'while'"); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RParen, "Expected ')' after while condition"); err != nil {
		return nil, err
	}
	body, err := p.expectBlock("Expected '{' after while condition")
	if err != nil {
		return nil, err
	}
	return ast.At(ast.NewWhileLoop(cond, body), start), nil
}

func (p *Parser) parseForLoop() (ast.Statement, error) {
	start := p.advance()
	if _, err := p.expect(token.LParen, "Expected '(' after 'for'"); err != nil {
		return nil, err
	}
	varTok, err := p.expect(token.Identifier, "Expected variable name in for loop")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.In, "Expected 'in' in for loop"); err != nil {
		return nil, err
	}
	iterable, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RParen, "Expected ')' after for loop header"); err != nil {
		return nil, err
	}
	body, err := p.expectBlock("Expected '{' after for loop header")
	if err != nil {
		return nil, err
	}
	variable := ast.At(ast.NewIdentifier(varTok.Value), varTok)
	return ast.At(ast.NewForLoop(variable, iterable, body), start), nil
}

// parseWithStatement accepts both `with (expr as name)` and `with (expr) as name`.
func (p *Parser) parseWithStatement() (ast.Statement, error) {
	start := p.advance()
	if _, err := p.expect(token.LParen, "Expected '(' after 'with'"); err != nil {
		return nil, err
	}
	resource, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	aliasInside := false
	if _, ok := p.match(token.As); ok {
		aliasInside = true
	} else if _, ok := p.match(token.RParen); ok {
		if _, err := p.expect(token.As, "Expected 'as' in with statement"); err != nil {
			return nil, err
		}
	} else {
		return nil, p.fail("Expected 'as' in with statement")
	}
	aliasTok, err := p.expect(token.Identifier, "Expected variable name after 'as'")
	if err != nil {
		return nil, err
	}
	if aliasInside {
		if _, err := p.expect(token.RParen, "Expected ')' after with statement"); err != nil {
			return nil, err
		}
	}
	body, err := p.expectBlock("Expected '{' after with statement")
	if err != nil {
		return nil, err
	}
	alias := ast.At(ast.NewIdentifier(aliasTok.Value), aliasTok)
	return ast.At(ast.NewWithStatement(resource, alias, body), start), nil
}

func (p *Parser) parsePrintStatement() (ast.Statement, error) {
	start := p.advance()
	if _, err := p.expect(token.LParen, "Expected '(' after 'print'"); err != nil {
		return nil, err
	}
	args := make([]ast.Expression, 0)
	if _, ok := p.match(token.RParen); !ok {
		for {
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if _, ok := p.match(token.Comma); ok {
				continue
			}
			if _, ok := p.match(token.RParen); ok {
				break
			}
			return nil, p.fail("Expected ',' or ')' after print argument")
		}
	}
	return ast.At(ast.NewPrintStatement(args), start), nil
}

// parseImportStatement accepts a quoted path or a dotted module name.
func (p *Parser) parseImportStatement() (ast.Statement, error) {
	start := p.advance()
	if lit, ok := p.match(token.String); ok {
		return ast.At(ast.NewImportStatement(lit.Value, true), start), nil
	}
	first, ok := p.match(token.Identifier)
	if !ok {
		return nil, p.fail("Expected module name (identifier or string) after 'import'")
	}
	segments := []string{first.Value}
	for p.check(token.Dot) {
		p.advance()
		seg, ok := p.match(token.Identifier)
		if !ok {
			return nil, p.fail("Expected module name after '.' in import")
		}
		segments = append(segments, seg.Value)
	}
	return ast.At(ast.NewImportStatement(strings.Join(segments, "."), false), start), nil
}

// parseReturnStatement allows a bare `return` before a closing brace.
func (p *Parser) parseReturnStatement() (ast.Statement, error) {
	start := p.advance()
	if p.peek() == nil || p.check(token.RBrace) || p.check(token.Semicolon) {
		return ast.At(ast.NewReturnStatement(nil), start), nil
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return ast.At(ast.NewReturnStatement(value), start), nil
}

func (p *Parser) parseTryStatement() (ast.Statement, error) {
	start := p.advance()
	body, err := p.expectBlock("Expected '{' after 'try'")
	if err != nil {
		return nil, err
	}
	var handlers []*ast.ExceptClause
	for {
		exceptTok, ok := p.match(token.Except)
		if !ok {
			break
		}
		var typeName, binding *ast.Identifier
		if typeTok, ok := p.match(token.Identifier); ok {
			typeName = ast.At(ast.NewIdentifier(typeTok.Value), typeTok)
		}
		if _, ok := p.match(token.As); ok {
			varTok, ok := p.match(token.Identifier)
			if !ok {
				return nil, p.fail("Expected variable name after 'as' in except block")
			}
			binding = ast.At(ast.NewIdentifier(varTok.Value), varTok)
		}
		handlerBody, err := p.expectBlock("Expected '{' after 'except' block")
		if err != nil {
			return nil, err
		}
		handlers = append(handlers, ast.At(ast.NewExceptClause(typeName, binding, handlerBody), exceptTok))
	}
	var finallyBody *ast.Block
	if _, ok := p.match(token.Finally); ok {
		finallyBody, err = p.expectBlock("Expected '{' after 'finally'")
		if err != nil {
			return nil, err
		}
	}
	return ast.At(ast.NewTryStatement(body, handlers, finallyBody), start), nil
}
