package interpreter

import (
	"errors"
	"fmt"

	"virtolang/interpreter-go/pkg/diagnostics"
	"virtolang/interpreter-go/pkg/runtime"
	"virtolang/interpreter-go/pkg/token"
)

// returnSignal unwinds a function body back to its call site.
type returnSignal struct {
	value runtime.Value
}

func (r returnSignal) Error() string {
	return "return"
}

// raiseSignal carries a user-raised exception.
type raiseSignal struct {
	value runtime.ErrorValue
	token *token.Token
}

func (r raiseSignal) Error() string {
	return fmt.Sprintf("%s: %s", r.value.TypeName, r.value.Message)
}

// ExitError ends the program with Code. Pending finally blocks run first.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// exceptionFrom reports the exception value an except clause sees for err.
// Return and exit signals are not exceptions.
func exceptionFrom(err error) (runtime.ErrorValue, bool) {
	var rs raiseSignal
	if errors.As(err, &rs) {
		return rs.value, true
	}
	if diag, ok := diagnostics.As(err); ok {
		return runtime.NewError(diag.TypeName(), diag.Message), true
	}
	return runtime.ErrorValue{}, false
}

func makeErrorValue(val runtime.Value) runtime.ErrorValue {
	if errVal, ok := val.(runtime.ErrorValue); ok {
		return errVal
	}
	errVal := runtime.NewError("Error", runtime.ToString(val))
	errVal.Payload = val
	return errVal
}

// runtimeError builds a diagnostic of the given exception type anchored at tok.
func runtimeError(tok *token.Token, typeName, format string, args ...any) error {
	return diagnostics.NewRuntimeError(typeName, fmt.Sprintf(format, args...), tok)
}

// anchor gives a position-less diagnostic the location of tok.
func anchor(err error, tok *token.Token) error {
	if diag, ok := diagnostics.As(err); ok && diag.Token == nil {
		diag.WithToken(tok)
	}
	return err
}
