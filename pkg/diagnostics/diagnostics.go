// Package diagnostics defines the three user-facing error kinds of the language
// and renders them with a source pointer.
package diagnostics

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"

	"virtolang/interpreter-go/pkg/token"
)

// Kind is the diagnostic category shown to users.
type Kind int

const (
	KindSyntax Kind = iota
	KindArgument
	KindRuntime
)

func (k Kind) String() string {
	switch k {
	case KindSyntax:
		return "SyntaxError"
	case KindArgument:
		return "ArgumentError"
	default:
		return "RuntimeError"
	}
}

// Error is a diagnostic. Type is the exception type name that `except` clauses
// compare against; it defaults to the kind name.
type Error struct {
	Kind     Kind
	Type     string
	Message  string
	Filename string
	Token    *token.Token
	Source   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.TypeName(), e.Message)
}

// TypeName returns the exception type name of the diagnostic.
func (e *Error) TypeName() string {
	if e.Type != "" {
		return e.Type
	}
	return e.Kind.String()
}

// NewSyntaxError reports a lexer or parser failure at tok (may be nil).
func NewSyntaxError(message string, tok *token.Token) *Error {
	return newError(KindSyntax, "", message, tok)
}

// NewArgumentError reports a builtin called with the wrong argument shape.
func NewArgumentError(message string, tok *token.Token) *Error {
	return newError(KindArgument, "", message, tok)
}

// NewRuntimeError reports an evaluation failure. typeName may be empty.
func NewRuntimeError(typeName, message string, tok *token.Token) *Error {
	return newError(KindRuntime, typeName, message, tok)
}

func newError(kind Kind, typeName, message string, tok *token.Token) *Error {
	e := &Error{Kind: kind, Type: typeName, Message: message}
	if tok != nil {
		copied := *tok
		e.Token = &copied
		if tok.Source != nil {
			e.Filename = tok.Source.Name()
			e.Source = tok.Source.Text
		}
	}
	return e
}

// WithSource fills in the filename and text when no token supplied them.
func (e *Error) WithSource(src *token.Source) *Error {
	if src == nil {
		return e
	}
	if e.Filename == "" {
		e.Filename = src.Name()
	}
	if e.Source == "" {
		e.Source = src.Text
	}
	return e
}

// WithToken anchors a diagnostic that was created without a position.
func (e *Error) WithToken(tok *token.Token) *Error {
	if e.Token != nil || tok == nil {
		return e
	}
	copied := *tok
	e.Token = &copied
	if tok.Source != nil {
		e.WithSource(tok.Source)
	}
	return e
}

// As extracts a diagnostic from an error chain.
func As(err error) (*Error, bool) {
	var diag *Error
	if errors.As(err, &diag) {
		return diag, true
	}
	return nil, false
}

// Render formats the diagnostic with the offending line and a caret under the
// column. colorize toggles ANSI colouring of the header.
func (e *Error) Render(colorize bool) string {
	header := color.New(color.FgRed)
	if colorize {
		header.EnableColor()
	} else {
		header.DisableColor()
	}

	filename := e.Filename
	if filename == "" {
		filename = "<input>"
	}

	var b strings.Builder
	b.WriteString(header.Sprintf("%s: %s", e.TypeName(), e.Message))
	if e.Token == nil {
		fmt.Fprintf(&b, "\n  File %q", filename)
		return b.String()
	}
	fmt.Fprintf(&b, "\n  File %q, line %d, col %d", filename, e.Token.Line, e.Token.Column)
	if line, ok := sourceLine(e.Source, e.Token.Line); ok {
		pad := e.Token.Column - 1
		if pad < 0 {
			pad = 0
		}
		fmt.Fprintf(&b, "\n    %s\n    %s^", line, strings.Repeat(" ", pad))
	}
	return b.String()
}

func sourceLine(src string, line int) (string, bool) {
	if src == "" || line < 1 {
		return "", false
	}
	lines := strings.Split(src, "\n")
	if line > len(lines) {
		return "", false
	}
	return strings.TrimRight(lines[line-1], "\r"), true
}
