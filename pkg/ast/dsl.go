package ast

// Short builders used by tests and by code that synthesizes programs.

func ID(name string) *Identifier { return NewIdentifier(name) }

func Int(v int64) *IntegerLiteral { return NewIntegerLiteral(v) }

func Str(v string) *StringLiteral { return NewStringLiteral(v) }

func Call(callee string, args ...Expression) *FunctionCall {
	return NewFunctionCall(ID(callee), args)
}

func Bin(op BinaryOperator, left, right Expression) *BinaryExpression {
	return NewBinaryExpression(op, left, right)
}

func Assign(name string, value Expression) *AssignmentStatement {
	return NewAssignmentStatement(ID(name), value)
}

func Blk(body ...Statement) *Block { return NewBlock(body) }

func Fn(name string, params []string, body ...Statement) *FunctionDefinition {
	ids := make([]*Identifier, len(params))
	for i, n := range params {
		ids[i] = ID(n)
	}
	return NewFunctionDefinition(ID(name), ids, Blk(body...), false)
}

func Print(args ...Expression) *PrintStatement { return NewPrintStatement(args) }

func Ret(value Expression) *ReturnStatement { return NewReturnStatement(value) }

func If(cond Expression, then *Block, elseBody *Block) *IfStatement {
	return NewIfStatement(cond, then, nil, elseBody)
}

func Prog(body ...Statement) *Program { return NewProgram(body, nil) }
