package parser

import (
	"virtolang/interpreter-go/pkg/ast"
	"virtolang/interpreter-go/pkg/token"
)

var equalityOperators = map[token.Kind]ast.BinaryOperator{
	token.Eq:    ast.OpEqual,
	token.NotEq: ast.OpNotEqual,
}

// Relational level also accepts == and != so `a < b == c` parses left to right.
var relationalOperators = map[token.Kind]ast.BinaryOperator{
	token.Less:      ast.OpLess,
	token.LessEq:    ast.OpLessEq,
	token.Greater:   ast.OpGreater,
	token.GreaterEq: ast.OpGreaterEq,
	token.Eq:        ast.OpEqual,
	token.NotEq:     ast.OpNotEqual,
}

var additiveOperators = map[token.Kind]ast.BinaryOperator{
	token.Plus:  ast.OpAdd,
	token.Minus: ast.OpSubtract,
}

var multiplicativeOperators = map[token.Kind]ast.BinaryOperator{
	token.Multiply: ast.OpMultiply,
	token.Divide:   ast.OpDivide,
	token.Percent:  ast.OpModulo,
}

func (p *Parser) parseExpression() (ast.Expression, error) {
	return p.parseLogicalOr()
}

func (p *Parser) parseLogicalOr() (ast.Expression, error) {
	left, err := p.parseLogicalAnd()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.match(token.Or)
		if !ok {
			return left, nil
		}
		right, err := p.parseLogicalAnd()
		if err != nil {
			return nil, err
		}
		left = ast.At(ast.NewBinaryExpression(ast.OpOr, left, right), op)
	}
}

func (p *Parser) parseLogicalAnd() (ast.Expression, error) {
	left, err := p.parseLogicalNot()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.match(token.And)
		if !ok {
			return left, nil
		}
		right, err := p.parseLogicalNot()
		if err != nil {
			return nil, err
		}
		left = ast.At(ast.NewBinaryExpression(ast.OpAnd, left, right), op)
	}
}

func (p *Parser) parseLogicalNot() (ast.Expression, error) {
	if op, ok := p.match(token.Not, token.Bang); ok {
		operand, err := p.parseLogicalNot()
		if err != nil {
			return nil, err
		}
		return ast.At(ast.NewUnaryExpression(ast.UnaryNot, operand), op), nil
	}
	return p.parseIdentity()
}

func (p *Parser) parseIdentity() (ast.Expression, error) {
	left, err := p.parseMembership()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.match(token.Is)
		if !ok {
			return left, nil
		}
		operator := ast.OpIs
		if _, ok := p.match(token.Not); ok {
			operator = ast.OpIsNot
		}
		right, err := p.parseMembership()
		if err != nil {
			return nil, err
		}
		left = ast.At(ast.NewBinaryExpression(operator, left, right), op)
	}
}

// parseMembership handles `in` and `not in`. A `not` that is not followed by
// `in` is pushed back for the caller.
func (p *Parser) parseMembership() (ast.Expression, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for {
		var (
			op       token.Token
			operator ast.BinaryOperator
		)
		if notTok, ok := p.match(token.Not); ok {
			if _, ok := p.match(token.In); !ok {
				p.pos--
				return left, nil
			}
			op, operator = notTok, ast.OpNotIn
		} else if inTok, ok := p.match(token.In); ok {
			op, operator = inTok, ast.OpIn
		} else {
			return left, nil
		}
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = ast.At(ast.NewBinaryExpression(operator, left, right), op)
	}
}

func (p *Parser) parseEquality() (ast.Expression, error) {
	return p.parseBinaryLevel(equalityOperators, p.parseRelational)
}

func (p *Parser) parseRelational() (ast.Expression, error) {
	return p.parseBinaryLevel(relationalOperators, p.parseAdditive)
}

func (p *Parser) parseAdditive() (ast.Expression, error) {
	return p.parseBinaryLevel(additiveOperators, p.parseMultiplicative)
}

func (p *Parser) parseMultiplicative() (ast.Expression, error) {
	return p.parseBinaryLevel(multiplicativeOperators, p.parseUnary)
}

// parseBinaryLevel folds a left-associative chain of operators from ops over
// operands produced by next.
func (p *Parser) parseBinaryLevel(ops map[token.Kind]ast.BinaryOperator, next func() (ast.Expression, error)) (ast.Expression, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok == nil {
			return left, nil
		}
		operator, ok := ops[tok.Kind]
		if !ok {
			return left, nil
		}
		op := p.advance()
		right, err := next()
		if err != nil {
			return nil, err
		}
		left = ast.At(ast.NewBinaryExpression(operator, left, right), op)
	}
}

func (p *Parser) parseUnary() (ast.Expression, error) {
	if op, ok := p.match(token.Await); ok {
		expr, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.At(ast.NewAwaitExpression(expr), op), nil
	}
	if op, ok := p.match(token.Minus); ok {
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.At(ast.NewUnaryExpression(ast.UnaryNegate, operand), op), nil
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (ast.Expression, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		open, ok := p.match(token.LBracket)
		if !ok {
			return expr, nil
		}
		index, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RBracket, "Expected ']' after index"); err != nil {
			return nil, err
		}
		expr = ast.At(ast.NewIndexExpression(expr, index), open)
	}
}

func (p *Parser) parsePrimary() (ast.Expression, error) {
	tok := p.peek()
	if tok == nil {
		return nil, p.fail("Unexpected end of input")
	}
	switch tok.Kind {
	case token.Number:
		t := p.advance()
		return ast.At(ast.NewIntegerLiteral(t.Int), t), nil
	case token.String:
		t := p.advance()
		return ast.At(ast.NewStringLiteral(t.Value), t), nil
	case token.True, token.False:
		t := p.advance()
		return ast.At(ast.NewBooleanLiteral(t.Kind == token.True), t), nil
	case token.Null:
		t := p.advance()
		return ast.At(ast.NewNullLiteral(), t), nil
	case token.Identifier:
		t := p.advance()
		id := ast.At(ast.NewIdentifier(t.Value), t)
		if p.check(token.LParen) {
			return p.parseCall(id, t)
		}
		return id, nil
	case token.Async:
		// async(fn, ...) names the builtin; only async def is a declaration.
		if !p.checkAt(1, token.LParen) {
			return nil, p.failf("Unexpected token: %s", tok)
		}
		t := p.advance()
		return p.parseCall(ast.At(ast.NewIdentifier("async"), t), t)
	case token.LParen:
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RParen, "Expected ')'"); err != nil {
			return nil, err
		}
		return expr, nil
	case token.LBracket:
		return p.parseListLiteral()
	case token.LBrace:
		return p.parseDictLiteral()
	default:
		return nil, p.failf("Unexpected token: %s", tok)
	}
}

func (p *Parser) parseCall(callee *ast.Identifier, start token.Token) (ast.Expression, error) {
	p.advance() // '('
	args := make([]ast.Expression, 0)
	if !p.check(token.RParen) {
		for {
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if _, ok := p.match(token.Comma); ok {
				continue
			}
			if p.check(token.RParen) {
				break
			}
			return nil, p.fail("Expected ',' or ')' in function call")
		}
	}
	if _, err := p.expect(token.RParen, "Expected ')' after function call arguments"); err != nil {
		return nil, err
	}
	return ast.At(ast.NewFunctionCall(callee, args), start), nil
}

func (p *Parser) parseListLiteral() (ast.Expression, error) {
	open := p.advance()
	elements := make([]ast.Expression, 0)
	if _, ok := p.match(token.RBracket); !ok {
		for {
			elem, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			elements = append(elements, elem)
			if _, ok := p.match(token.Comma); ok {
				continue
			}
			if _, ok := p.match(token.RBracket); ok {
				break
			}
			return nil, p.fail("Expected ',' or ']' in list literal")
		}
	}
	return ast.At(ast.NewListLiteral(elements), open), nil
}

func (p *Parser) parseDictLiteral() (ast.Expression, error) {
	open := p.advance()
	entries := make([]*ast.DictEntry, 0)
	if _, ok := p.match(token.RBrace); !ok {
		for {
			key, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			colon, err := p.expect(token.Colon, "Expected ':' after dict key")
			if err != nil {
				return nil, err
			}
			value, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			entries = append(entries, ast.At(ast.NewDictEntry(key, value), colon))
			if _, ok := p.match(token.Comma); ok {
				continue
			}
			if _, ok := p.match(token.RBrace); ok {
				break
			}
			return nil, p.fail("Expected ',' or '}' in dict literal")
		}
	}
	return ast.At(ast.NewDictLiteral(entries), open), nil
}
