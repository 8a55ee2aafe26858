package interpreter

import (
	"strings"
	"testing"

	"virtolang/interpreter-go/pkg/diagnostics"
)

func TestExceptMatchesBuiltinErrorType(t *testing.T) {
	out := mustRun(t, `
try { x = 1 / 0 } except ZeroDivisionError as e { print("caught", type(e), e) }
try { d = {}; d["k"] } except KeyError as e { print("key", e) }
try { [1][3] } except IndexError { print("index") }
`)
	want := "caught ZeroDivisionError division by zero\nkey 'k'\nindex\n"
	if out != want {
		t.Fatalf("expected %q, got %q", want, out)
	}
}

func TestExceptWithoutTypeCatchesEverything(t *testing.T) {
	out := mustRun(t, `try { raise Exception("Custom", "c") } except { print("any") }`)
	if out != "any\n" {
		t.Fatalf("expected bare except to catch, got %q", out)
	}
}

func TestFirstMatchingHandlerWins(t *testing.T) {
	out := mustRun(t, `
try { raise Exception("ValueError", "v") }
except TypeError { print("type") }
except ValueError as e { print("value", e) }
except { print("fallback") }
`)
	if out != "value v\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestNonMatchingHandlerPropagates(t *testing.T) {
	out, err := runSource(t, `try { raise Error("inner") } except ValueError { print("wrong") } finally { print("finally") }`)
	if out != "finally\n" {
		t.Fatalf("expected only the finally block to run, got %q", out)
	}
	expectDiagnostic(t, err, "RuntimeError", "Uncaught Error: inner")
}

func TestFinallyRunsOnceOnEveryPath(t *testing.T) {
	out := mustRun(t, `
def f() {
  try { return "body" } finally { print("cleanup f") }
}
print(f())
try { print("ok") } finally { print("cleanup ok") }
try { raise Error("x") } except Error { print("handled") } finally { print("cleanup err") }
`)
	want := "cleanup f\nbody\nok\ncleanup ok\nhandled\ncleanup err\n"
	if out != want {
		t.Fatalf("expected %q, got %q", want, out)
	}
}

func TestFinallyErrorReplacesPendingError(t *testing.T) {
	_, err := runSource(t, `try { raise Error("first") } finally { raise Error("second") }`)
	expectDiagnostic(t, err, "RuntimeError", "Uncaught Error: second")
}

func TestReturnIsNotAnException(t *testing.T) {
	out := mustRun(t, `
def f() {
  try { return 1 } except { print("should not catch") }
  return 2
}
print(f())
`)
	if out != "1\n" {
		t.Fatalf("expected return to pass through the handler, got %q", out)
	}
}

func TestExitIsNotCatchable(t *testing.T) {
	out, err := runSource(t, `try { exit(2) } except { print("caught") }`)
	if out != "" {
		t.Fatalf("expected except to ignore exit, got %q", out)
	}
	exit, ok := err.(*ExitError)
	if !ok || exit.Code != 2 {
		t.Fatalf("expected exit code 2, got %#v", err)
	}
}

func TestHandlerBindingsStayInHandler(t *testing.T) {
	_, err := runSource(t, `
try { raise Error("x") } except Error as e { inner = 1 }
print(e)
`)
	expectDiagnostic(t, err, "NameError", "Undefined variable: e")

	_, err = runSource(t, `
try { raise Error("x") } except Error { inner = 1 }
print(inner)
`)
	expectDiagnostic(t, err, "NameError", "Undefined variable: inner")
}

func TestTryBodyBindingsAreVisibleAfterwards(t *testing.T) {
	out := mustRun(t, `try { a = 1; raise Error("x") } except { b = 2 }
print(a)`)
	if out != "1\n" {
		t.Fatalf("expected try body bindings to persist, got %q", out)
	}
}

func TestBuiltinArityErrors(t *testing.T) {
	_, err := runSource(t, "len()")
	diag := expectDiagnostic(t, err, "ArgumentError", "Error in built-in function 'len': len() missing required argument 'x'")
	if diag.Kind != diagnostics.KindArgument {
		t.Fatalf("expected argument kind, got %v", diag.Kind)
	}

	_, err = runSource(t, "len([1], [2])")
	expectDiagnostic(t, err, "ArgumentError", "Error in built-in function 'len': len() takes 1 positional argument but 2 were given")

	_, err = runSource(t, `split("a b", " ", 1, 2)`)
	expectDiagnostic(t, err, "ArgumentError", "")
}

func TestBuiltinValueAndTypeErrorsAreCatchable(t *testing.T) {
	out := mustRun(t, `
try { int("abc") } except ValueError as e { print(e) }
try { len(5) } except TypeError as e { print(e) }
`)
	want := "Error in built-in function 'int': invalid literal for int() with base 10: 'abc'\n" +
		"Error in built-in function 'len': object of type 'int' has no len()\n"
	if out != want {
		t.Fatalf("expected %q, got %q", want, out)
	}

	_, err := runSource(t, `int("abc")`)
	diag := expectDiagnostic(t, err, "ValueError", "")
	if diag.Kind != diagnostics.KindArgument {
		t.Fatalf("expected argument kind for builtin ValueError, got %v", diag.Kind)
	}
}

func TestRaisingNonErrorValues(t *testing.T) {
	out := mustRun(t, `
try { raise "oops" } except Error as e { print(e) }
try { raise 42 } except Error as e { print(type(e), e) }
`)
	if out != "Error: oops\nError Error: 42\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestCustomExceptionTypes(t *testing.T) {
	_, err := runSource(t, `raise Exception("NotFound", "missing thing")`)
	expectDiagnostic(t, err, "RuntimeError", "Uncaught NotFound: missing thing")

	out := mustRun(t, `try { raise Exception("NotFound", "m") } except NotFound as e { print(type(e), e) }`)
	if out != "NotFound m\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestErrorsInsideFunctionsKeepTheirLocation(t *testing.T) {
	_, err := runSource(t, "def f() {\n  return missing\n}\nf()")
	diag := expectDiagnostic(t, err, "NameError", "Undefined variable: missing")
	if diag.Token == nil || diag.Token.Line != 2 || diag.Token.Column != 10 {
		t.Fatalf("expected location 2:10, got %#v", diag.Token)
	}
	rendered := diag.Render(false)
	if !strings.Contains(rendered, "return missing") || !strings.Contains(rendered, "line 2") {
		t.Fatalf("expected rendered source line, got %q", rendered)
	}
}

func TestSyntaxErrorsAreReported(t *testing.T) {
	_, err := runSource(t, "def f(a,) { }")
	expectDiagnostic(t, err, "SyntaxError", "")

	_, err = runSource(t, "x = \"unterminated")
	expectDiagnostic(t, err, "SyntaxError", "")
}
