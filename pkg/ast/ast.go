package ast

import "virtolang/interpreter-go/pkg/token"

type NodeType string

const (
	NodeIdentifier          NodeType = "Identifier"
	NodeStringLiteral       NodeType = "StringLiteral"
	NodeIntegerLiteral      NodeType = "IntegerLiteral"
	NodeBooleanLiteral      NodeType = "BooleanLiteral"
	NodeNullLiteral         NodeType = "NullLiteral"
	NodeListLiteral         NodeType = "ListLiteral"
	NodeDictEntry           NodeType = "DictEntry"
	NodeDictLiteral         NodeType = "DictLiteral"
	NodeUnaryExpression     NodeType = "UnaryExpression"
	NodeBinaryExpression    NodeType = "BinaryExpression"
	NodeFunctionCall        NodeType = "FunctionCall"
	NodeIndexExpression     NodeType = "IndexExpression"
	NodeAwaitExpression     NodeType = "AwaitExpression"
	NodeAssignmentStatement NodeType = "AssignmentStatement"
	NodeBlock               NodeType = "Block"
	NodeFunctionDefinition  NodeType = "FunctionDefinition"
	NodeIfStatement         NodeType = "IfStatement"
	NodeElifClause          NodeType = "ElifClause"
	NodeWhileLoop           NodeType = "WhileLoop"
	NodeForLoop             NodeType = "ForLoop"
	NodeWithStatement       NodeType = "WithStatement"
	NodePrintStatement      NodeType = "PrintStatement"
	NodeImportStatement     NodeType = "ImportStatement"
	NodeReturnStatement     NodeType = "ReturnStatement"
	NodeTryStatement        NodeType = "TryStatement"
	NodeExceptClause        NodeType = "ExceptClause"
	NodeRaiseStatement      NodeType = "RaiseStatement"
	NodeProgram             NodeType = "Program"
)

type Node interface {
	NodeType() NodeType
	Anchor() *token.Token
	setAnchor(tok token.Token)
	isNode()
}

type nodeImpl struct {
	Type NodeType     `json:"type"`
	Pos  *token.Token `json:"-"`
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (nodeImpl) isNode()              {}

// Anchor is the token the node was parsed from, nil for synthesized nodes.
func (n nodeImpl) Anchor() *token.Token { return n.Pos }

func (n *nodeImpl) setAnchor(tok token.Token) {
	copied := tok
	n.Pos = &copied
}

// At records tok as the source position of node and returns node.
func At[T Node](node T, tok token.Token) T {
	node.setAnchor(tok)
	return node
}

// Marker interfaces.

// Expression nodes may appear wherever a statement is expected.
type Expression interface {
	Node
	expressionNode()
	statementNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

type Statement interface {
	Node
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

type Literal interface {
	Expression
	literalNode()
}

type literalMarker struct{}

func (literalMarker) literalNode() {}

// Literals

type Identifier struct {
	nodeImpl
	expressionMarker
	statementMarker

	Name string `json:"name"`
}

func NewIdentifier(name string) *Identifier {
	return &Identifier{nodeImpl: newNodeImpl(NodeIdentifier), Name: name}
}

type StringLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker
	literalMarker

	Value string `json:"value"`
}

func NewStringLiteral(value string) *StringLiteral {
	return &StringLiteral{nodeImpl: newNodeImpl(NodeStringLiteral), Value: value}
}

type IntegerLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker
	literalMarker

	Value int64 `json:"value"`
}

func NewIntegerLiteral(value int64) *IntegerLiteral {
	return &IntegerLiteral{nodeImpl: newNodeImpl(NodeIntegerLiteral), Value: value}
}

type BooleanLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker
	literalMarker

	Value bool `json:"value"`
}

func NewBooleanLiteral(value bool) *BooleanLiteral {
	return &BooleanLiteral{nodeImpl: newNodeImpl(NodeBooleanLiteral), Value: value}
}

type NullLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker
	literalMarker
}

func NewNullLiteral() *NullLiteral {
	return &NullLiteral{nodeImpl: newNodeImpl(NodeNullLiteral)}
}

type ListLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker
	literalMarker

	Elements []Expression `json:"elements"`
}

func NewListLiteral(elements []Expression) *ListLiteral {
	return &ListLiteral{nodeImpl: newNodeImpl(NodeListLiteral), Elements: elements}
}

type DictEntry struct {
	nodeImpl

	Key   Expression `json:"key"`
	Value Expression `json:"value"`
}

func NewDictEntry(key, value Expression) *DictEntry {
	return &DictEntry{nodeImpl: newNodeImpl(NodeDictEntry), Key: key, Value: value}
}

type DictLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker
	literalMarker

	Entries []*DictEntry `json:"entries"`
}

func NewDictLiteral(entries []*DictEntry) *DictLiteral {
	return &DictLiteral{nodeImpl: newNodeImpl(NodeDictLiteral), Entries: entries}
}

// Operators

type UnaryOperator string

const (
	UnaryNot    UnaryOperator = "not"
	UnaryNegate UnaryOperator = "-"
)

type UnaryExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Operator UnaryOperator `json:"operator"`
	Operand  Expression    `json:"operand"`
}

func NewUnaryExpression(operator UnaryOperator, operand Expression) *UnaryExpression {
	return &UnaryExpression{nodeImpl: newNodeImpl(NodeUnaryExpression), Operator: operator, Operand: operand}
}

type BinaryOperator string

const (
	OpAdd       BinaryOperator = "+"
	OpSubtract  BinaryOperator = "-"
	OpMultiply  BinaryOperator = "*"
	OpDivide    BinaryOperator = "/"
	OpModulo    BinaryOperator = "%"
	OpEqual     BinaryOperator = "=="
	OpNotEqual  BinaryOperator = "!="
	OpLess      BinaryOperator = "<"
	OpLessEq    BinaryOperator = "<="
	OpGreater   BinaryOperator = ">"
	OpGreaterEq BinaryOperator = ">="
	OpAnd       BinaryOperator = "and"
	OpOr        BinaryOperator = "or"
	OpIs        BinaryOperator = "is"
	OpIsNot     BinaryOperator = "is not"
	OpIn        BinaryOperator = "in"
	OpNotIn     BinaryOperator = "not in"
)

type BinaryExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Operator BinaryOperator `json:"operator"`
	Left     Expression     `json:"left"`
	Right    Expression     `json:"right"`
}

func NewBinaryExpression(operator BinaryOperator, left, right Expression) *BinaryExpression {
	return &BinaryExpression{nodeImpl: newNodeImpl(NodeBinaryExpression), Operator: operator, Left: left, Right: right}
}

// FunctionCall is always a call by name; the callee is never an arbitrary
// expression.
type FunctionCall struct {
	nodeImpl
	expressionMarker
	statementMarker

	Callee    *Identifier  `json:"callee"`
	Arguments []Expression `json:"arguments"`
}

func NewFunctionCall(callee *Identifier, args []Expression) *FunctionCall {
	return &FunctionCall{nodeImpl: newNodeImpl(NodeFunctionCall), Callee: callee, Arguments: args}
}

type IndexExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Object Expression `json:"object"`
	Index  Expression `json:"index"`
}

func NewIndexExpression(object, index Expression) *IndexExpression {
	return &IndexExpression{nodeImpl: newNodeImpl(NodeIndexExpression), Object: object, Index: index}
}

type AwaitExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Expression Expression `json:"expression"`
}

func NewAwaitExpression(expr Expression) *AwaitExpression {
	return &AwaitExpression{nodeImpl: newNodeImpl(NodeAwaitExpression), Expression: expr}
}
