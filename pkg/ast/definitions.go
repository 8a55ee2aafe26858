package ast

import "virtolang/interpreter-go/pkg/token"

// Statements

type AssignmentStatement struct {
	nodeImpl
	statementMarker

	Target *Identifier `json:"target"`
	Value  Expression  `json:"value"`
}

func NewAssignmentStatement(target *Identifier, value Expression) *AssignmentStatement {
	return &AssignmentStatement{nodeImpl: newNodeImpl(NodeAssignmentStatement), Target: target, Value: value}
}

type Block struct {
	nodeImpl

	Body []Statement `json:"body"`
}

func NewBlock(body []Statement) *Block {
	return &Block{nodeImpl: newNodeImpl(NodeBlock), Body: body}
}

type FunctionDefinition struct {
	nodeImpl
	statementMarker

	ID      *Identifier   `json:"id"`
	Params  []*Identifier `json:"params"`
	Body    *Block        `json:"body"`
	IsAsync bool          `json:"isAsync,omitempty"`
}

func NewFunctionDefinition(id *Identifier, params []*Identifier, body *Block, isAsync bool) *FunctionDefinition {
	return &FunctionDefinition{nodeImpl: newNodeImpl(NodeFunctionDefinition), ID: id, Params: params, Body: body, IsAsync: isAsync}
}

// ParamNames lists the declared parameter names in order.
func (f *FunctionDefinition) ParamNames() []string {
	names := make([]string, len(f.Params))
	for i, p := range f.Params {
		names[i] = p.Name
	}
	return names
}

type ElifClause struct {
	nodeImpl

	Condition Expression `json:"condition"`
	Body      *Block     `json:"body"`
}

func NewElifClause(condition Expression, body *Block) *ElifClause {
	return &ElifClause{nodeImpl: newNodeImpl(NodeElifClause), Condition: condition, Body: body}
}

type IfStatement struct {
	nodeImpl
	statementMarker

	Condition   Expression    `json:"condition"`
	Body        *Block        `json:"body"`
	ElifClauses []*ElifClause `json:"elifClauses,omitempty"`
	ElseBody    *Block        `json:"elseBody,omitempty"`
}

func NewIfStatement(condition Expression, body *Block, elifs []*ElifClause, elseBody *Block) *IfStatement {
	return &IfStatement{nodeImpl: newNodeImpl(NodeIfStatement), Condition: condition, Body: body, ElifClauses: elifs, ElseBody: elseBody}
}

type WhileLoop struct {
	nodeImpl
	statementMarker

	Condition Expression `json:"condition"`
	Body      *Block     `json:"body"`
}

func NewWhileLoop(condition Expression, body *Block) *WhileLoop {
	return &WhileLoop{nodeImpl: newNodeImpl(NodeWhileLoop), Condition: condition, Body: body}
}

type ForLoop struct {
	nodeImpl
	statementMarker

	Variable *Identifier `json:"variable"`
	Iterable Expression  `json:"iterable"`
	Body     *Block      `json:"body"`
}

func NewForLoop(variable *Identifier, iterable Expression, body *Block) *ForLoop {
	return &ForLoop{nodeImpl: newNodeImpl(NodeForLoop), Variable: variable, Iterable: iterable, Body: body}
}

type WithStatement struct {
	nodeImpl
	statementMarker

	Resource Expression  `json:"resource"`
	Alias    *Identifier `json:"alias"`
	Body     *Block      `json:"body"`
}

func NewWithStatement(resource Expression, alias *Identifier, body *Block) *WithStatement {
	return &WithStatement{nodeImpl: newNodeImpl(NodeWithStatement), Resource: resource, Alias: alias, Body: body}
}

type PrintStatement struct {
	nodeImpl
	statementMarker

	Arguments []Expression `json:"arguments"`
}

func NewPrintStatement(args []Expression) *PrintStatement {
	return &PrintStatement{nodeImpl: newNodeImpl(NodePrintStatement), Arguments: args}
}

// ImportStatement names a module either by dotted path (Path) or, when
// IsLiteral is set, by a quoted file path.
type ImportStatement struct {
	nodeImpl
	statementMarker

	Path      string `json:"path"`
	IsLiteral bool   `json:"isLiteral,omitempty"`
}

func NewImportStatement(path string, isLiteral bool) *ImportStatement {
	return &ImportStatement{nodeImpl: newNodeImpl(NodeImportStatement), Path: path, IsLiteral: isLiteral}
}

type ReturnStatement struct {
	nodeImpl
	statementMarker

	Argument Expression `json:"argument,omitempty"`
}

func NewReturnStatement(argument Expression) *ReturnStatement {
	return &ReturnStatement{nodeImpl: newNodeImpl(NodeReturnStatement), Argument: argument}
}

// ExceptClause with a nil TypeName catches everything.
type ExceptClause struct {
	nodeImpl

	TypeName *Identifier `json:"typeName,omitempty"`
	Binding  *Identifier `json:"binding,omitempty"`
	Body     *Block      `json:"body"`
}

func NewExceptClause(typeName, binding *Identifier, body *Block) *ExceptClause {
	return &ExceptClause{nodeImpl: newNodeImpl(NodeExceptClause), TypeName: typeName, Binding: binding, Body: body}
}

type TryStatement struct {
	nodeImpl
	statementMarker

	Body        *Block          `json:"body"`
	Handlers    []*ExceptClause `json:"handlers,omitempty"`
	FinallyBody *Block          `json:"finallyBody,omitempty"`
}

func NewTryStatement(body *Block, handlers []*ExceptClause, finallyBody *Block) *TryStatement {
	return &TryStatement{nodeImpl: newNodeImpl(NodeTryStatement), Body: body, Handlers: handlers, FinallyBody: finallyBody}
}

type RaiseStatement struct {
	nodeImpl
	statementMarker

	Expression Expression `json:"expression"`
}

func NewRaiseStatement(expr Expression) *RaiseStatement {
	return &RaiseStatement{nodeImpl: newNodeImpl(NodeRaiseStatement), Expression: expr}
}

// Program is one parsed translation unit.
type Program struct {
	nodeImpl

	Body   []Statement   `json:"body"`
	Source *token.Source `json:"-"`
}

func NewProgram(body []Statement, src *token.Source) *Program {
	return &Program{nodeImpl: newNodeImpl(NodeProgram), Body: body, Source: src}
}
