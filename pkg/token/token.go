package token

import "fmt"

// Kind identifies the lexical category of a token.
type Kind int

const (
	Illegal Kind = iota

	Number
	String
	Identifier

	// Keywords
	If
	Else
	Elif
	While
	For
	Return
	Def
	True
	False
	Null
	And
	Or
	Not
	Print
	Import
	With
	As
	Async
	Await
	Try
	Except
	Finally
	Raise
	In
	Is

	// Operators and punctuation
	Plus
	Minus
	Multiply
	Divide
	Percent
	Eq
	NotEq
	LessEq
	GreaterEq
	Less
	Greater
	Assign
	LBrace
	RBrace
	LParen
	RParen
	LBracket
	RBracket
	Comma
	Semicolon
	Colon
	Dot
	Bang
)

var kindNames = map[Kind]string{
	Illegal:    "ILLEGAL",
	Number:     "NUMBER",
	String:     "STRING",
	Identifier: "IDENTIFIER",
	If:         "IF",
	Else:       "ELSE",
	Elif:       "ELIF",
	While:      "WHILE",
	For:        "FOR",
	Return:     "RETURN",
	Def:        "DEF",
	True:       "TRUE",
	False:      "FALSE",
	Null:       "NULL",
	And:        "AND",
	Or:         "OR",
	Not:        "NOT",
	Print:      "PRINT",
	Import:     "IMPORT",
	With:       "WITH",
	As:         "AS",
	Async:      "ASYNC",
	Await:      "AWAIT",
	Try:        "TRY",
	Except:     "EXCEPT",
	Finally:    "FINALLY",
	Raise:      "RAISE",
	In:         "IN",
	Is:         "IS",
	Plus:       "PLUS",
	Minus:      "MINUS",
	Multiply:   "MULTIPLY",
	Divide:     "DIVIDE",
	Percent:    "PERCENT",
	Eq:         "EQ",
	NotEq:      "NEQ",
	LessEq:     "LE",
	GreaterEq:  "GE",
	Less:       "LT",
	Greater:    "GT",
	Assign:     "ASSIGN",
	LBrace:     "LBRACE",
	RBrace:     "RBRACE",
	LParen:     "LPAREN",
	RParen:     "RPAREN",
	LBracket:   "LBRACKET",
	RBracket:   "RBRACKET",
	Comma:      "COMMA",
	Semicolon:  "SEMICOLON",
	Colon:      "COLON",
	Dot:        "DOT",
	Bang:       "BANG",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("KIND_%d", int(k))
}

// Keywords maps every reserved word to its token kind.
var Keywords = map[string]Kind{
	"if":      If,
	"else":    Else,
	"elif":    Elif,
	"while":   While,
	"for":     For,
	"return":  Return,
	"def":     Def,
	"true":    True,
	"false":   False,
	"null":    Null,
	"and":     And,
	"or":      Or,
	"not":     Not,
	"print":   Print,
	"import":  Import,
	"with":    With,
	"as":      As,
	"async":   Async,
	"await":   Await,
	"try":     Try,
	"except":  Except,
	"finally": Finally,
	"raise":   Raise,
	"in":      In,
	"is":      Is,
}

// Source is one translation unit. Every token produced from it points back here so
// diagnostics can quote the offending line.
type Source struct {
	Filename string
	Text     string
}

// NewSource wraps source text under a display name.
func NewSource(filename, text string) *Source {
	return &Source{Filename: filename, Text: text}
}

// Name returns the display name, falling back to <input>.
func (s *Source) Name() string {
	if s == nil || s.Filename == "" {
		return "<input>"
	}
	return s.Filename
}

// Token is an immutable lexical unit. Value holds the raw lexeme; Int holds the
// parsed value of Number tokens.
type Token struct {
	Kind   Kind
	Value  string
	Int    int64
	Line   int
	Column int
	Source *Source
}

func (t Token) String() string {
	if t.Kind == Number {
		return fmt.Sprintf("Token(%s, %d, line=%d, col=%d)", t.Kind, t.Int, t.Line, t.Column)
	}
	return fmt.Sprintf("Token(%s, %s, line=%d, col=%d)", t.Kind, t.Value, t.Line, t.Column)
}

// Before reports whether t starts strictly before other.
func (t Token) Before(other Token) bool {
	if t.Line != other.Line {
		return t.Line < other.Line
	}
	return t.Column < other.Column
}
