package interpreter

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"

	"virtolang/interpreter-go/pkg/ast"
	"virtolang/interpreter-go/pkg/diagnostics"
	"virtolang/interpreter-go/pkg/runtime"
)

const testRoot = "/proj"

func newTestInterpreter(t *testing.T, fs billy.Filesystem) (*Interpreter, *bytes.Buffer) {
	t.Helper()
	if fs == nil {
		fs = memfs.New()
	}
	var out bytes.Buffer
	interp := New(Options{
		FS:         fs,
		Stdout:     &out,
		Stdin:      strings.NewReader(""),
		SearchRoot: testRoot,
		WorkDir:    testRoot,
		ScriptDir:  testRoot,
		Workers:    2,
	})
	return interp, &out
}

func writeFile(t *testing.T, fs billy.Filesystem, path, contents string) {
	t.Helper()
	if err := util.WriteFile(fs, path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func runSource(t *testing.T, source string) (string, error) {
	t.Helper()
	interp, out := newTestInterpreter(t, nil)
	err := interp.RunString("test.vlang", source)
	return out.String(), err
}

func mustRun(t *testing.T, source string) string {
	t.Helper()
	out, err := runSource(t, source)
	if err != nil {
		t.Fatalf("unexpected error: %v (output %q)", err, out)
	}
	return out
}

func expectDiagnostic(t *testing.T, err error, typeName, message string) *diagnostics.Error {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s, got no error", typeName)
	}
	diag, ok := diagnostics.As(err)
	if !ok {
		t.Fatalf("expected diagnostic, got %#v", err)
	}
	if diag.TypeName() != typeName {
		t.Fatalf("expected type %s, got %s (%s)", typeName, diag.TypeName(), diag.Message)
	}
	if message != "" && diag.Message != message {
		t.Fatalf("expected message %q, got %q", message, diag.Message)
	}
	return diag
}

func TestEvaluateAssignmentAndIdentifier(t *testing.T) {
	interp, _ := newTestInterpreter(t, nil)
	global := interp.GlobalEnvironment()
	program := ast.Prog(
		ast.Assign("greeting", ast.Str("hello")),
		ast.ID("greeting"),
	)
	val, err := interp.evaluateStatements(program.Body, global)
	if err != nil {
		t.Fatalf("evaluation failed: %v", err)
	}
	str, ok := val.(runtime.StringValue)
	if !ok || str.Val != "hello" {
		t.Fatalf("expected string hello, got %#v", val)
	}
	if _, ok := global.Get("greeting"); !ok {
		t.Fatalf("expected greeting to be bound")
	}
}

func TestRunBuiltProgram(t *testing.T) {
	interp, out := newTestInterpreter(t, nil)
	n := func() ast.Expression { return ast.ID("n") }
	program := ast.Prog(
		ast.Fn("fact", []string{"n"},
			ast.If(ast.Bin(ast.OpLess, n(), ast.Int(2)),
				ast.Blk(ast.Ret(ast.Int(1))),
				ast.Blk(ast.Ret(ast.Bin(ast.OpMultiply, n(),
					ast.Call("fact", ast.Bin(ast.OpSubtract, n(), ast.Int(1)))))),
			),
		),
		ast.Print(ast.Call("fact", ast.Int(5)), ast.Str("done")),
	)
	if err := interp.Run(program); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if out.String() != "120 done\n" {
		t.Fatalf("expected %q, got %q", "120 done\n", out.String())
	}
}

func TestDefaultFilesystemIsTheHostFilesystem(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "main.vlang")
	if err := os.WriteFile(script, []byte("print(\"from disk\")\n"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	var out bytes.Buffer
	interp := New(Options{Stdout: &out, Stdin: strings.NewReader(""), WorkDir: dir, ScriptDir: dir})
	if err := interp.RunFile(script); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if out.String() != "from disk\n" {
		t.Fatalf("expected %q, got %q", "from disk\n", out.String())
	}
}

func TestFunctionCallsCopyTheDefiningEnvironment(t *testing.T) {
	out := mustRun(t, `
x = 1
items = []
def f() { x = 2; append(items, 1); return x }
r = f()
print(x, r, items)
`)
	if out != "1 2 [1]\n" {
		t.Fatalf("expected rebinding to stay local and list mutation to be shared, got %q", out)
	}
}

func TestFunctionSeesBindingsMadeAfterDefinition(t *testing.T) {
	out := mustRun(t, "def g() { return y }\ny = 5\nprint(g())")
	if out != "5\n" {
		t.Fatalf("expected 5, got %q", out)
	}
}

func TestMissingArgumentsBindNullAndExtrasAreIgnored(t *testing.T) {
	out := mustRun(t, "def f(a, b) { return b }\nprint(f(1))\nprint(f(1, 2, 3))")
	if out != "null\n2\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestExtraArgumentsAreNotEvaluated(t *testing.T) {
	out := mustRun(t, `
def one(a) { return a }
def loud(x) { print("evaluated", x); return x }
print(one(loud(1), loud(2), nope))
f = one
print(f(3, loud(4)))
`)
	if out != "evaluated 1\n1\n3\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRecursion(t *testing.T) {
	out := mustRun(t, "def fact(n) { if (n <= 1) { return 1 } return n * fact(n - 1) }\nprint(fact(10))")
	if out != "3628800\n" {
		t.Fatalf("expected 3628800, got %q", out)
	}
}

func TestRecursionLimit(t *testing.T) {
	_, err := runSource(t, "def loop(n) { return loop(n + 1) }\nloop(0)")
	expectDiagnostic(t, err, "RecursionError", "maximum recursion depth exceeded")
}

func TestFunctionRegistryIsUpdated(t *testing.T) {
	interp, _ := newTestInterpreter(t, nil)
	if err := interp.RunString("t.vlang", "def f(a) { return a }\ndef f(a, b) { return b }"); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	fn, ok := interp.Function("f")
	if !ok {
		t.Fatalf("expected f in the function registry")
	}
	if got := strings.Join(fn.Params(), ","); got != "a,b" {
		t.Fatalf("expected redefinition to win, got params %q", got)
	}
}

func TestIfElifElse(t *testing.T) {
	out := mustRun(t, `
x = 5
if (x > 10) { print("big") } elif (x > 3) { print("a") } else { print("small") }
if (x in [1, 2]) { print("in") } else { print("out") }
`)
	if out != "a\nout\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestForAndWhileLoops(t *testing.T) {
	out := mustRun(t, `
for (v in [1, 2, 3]) { print(v) }
n = 0
while (n < 3) { n = n + 1 }
print(n, v)
for (c in "ab") { print(c) }
`)
	if out != "1\n2\n3\n3 3\na\nb\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestForOverNonIterable(t *testing.T) {
	_, err := runSource(t, "for (v in 5) { print(v) }")
	diag := expectDiagnostic(t, err, "TypeError", "'int' object is not iterable")
	if diag.Token == nil || diag.Token.Line != 1 {
		t.Fatalf("expected diagnostic anchored on line 1, got %#v", diag.Token)
	}
}

func TestPrintFormatsValues(t *testing.T) {
	out := mustRun(t, `d = {"a": 1, 2: [true, null]}
print(d, "x", 7 / 2, tuple(1), Error("m"))`)
	want := "{'a': 1, 2: [true, null]} x 3.5 (1,) Error: m\n"
	if out != want {
		t.Fatalf("expected %q, got %q", want, out)
	}
}

func TestUndefinedNames(t *testing.T) {
	_, err := runSource(t, "print(nope)")
	expectDiagnostic(t, err, "NameError", "Undefined variable: nope")

	_, err = runSource(t, "nope(1)")
	expectDiagnostic(t, err, "NameError", "Undefined function: nope")
}

func TestFunctionValuesCanBeCalledThroughVariables(t *testing.T) {
	out := mustRun(t, "def twice(f, x) { return f(f(x)) }\ndef inc(n) { return n + 1 }\nprint(twice(inc, 1), twice(str, 3))")
	if out != "3 3\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestReturnOutsideFunction(t *testing.T) {
	_, err := runSource(t, "return 1")
	expectDiagnostic(t, err, "RuntimeError", "'return' outside function")
}

func TestUncaughtRaiseBecomesRuntimeError(t *testing.T) {
	out, err := runSource(t, "print(\"start\")\nraise Error(\"boom\")\nprint(\"unreachable\")")
	if out != "start\n" {
		t.Fatalf("expected evaluation to stop at raise, got %q", out)
	}
	diag := expectDiagnostic(t, err, "RuntimeError", "Uncaught Error: boom")
	if diag.Token == nil || diag.Token.Line != 2 || diag.Token.Column != 1 {
		t.Fatalf("expected raise location 2:1, got %#v", diag.Token)
	}
	if diag.Filename != "test.vlang" {
		t.Fatalf("expected filename test.vlang, got %q", diag.Filename)
	}
}

func TestExitReturnsExitError(t *testing.T) {
	out, err := runSource(t, "print(1)\nexit(4)\nprint(2)")
	var exit *ExitError
	if !errors.As(err, &exit) {
		t.Fatalf("expected ExitError, got %#v", err)
	}
	if exit.Code != 4 || out != "1\n" {
		t.Fatalf("unexpected exit %#v with output %q", exit, out)
	}
}

func TestWithClosesResourceAndRestoresBindings(t *testing.T) {
	fs := memfs.New()
	interp, out := newTestInterpreter(t, fs)
	source := `
f = "outer"
with (open("notes.txt", "w") as f) { write(f, "hello") }
print(f)
with (open("notes.txt")) as g { print(read(g)) }
print(g)
`
	if err := interp.RunString("with.vlang", source); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	want := "outer\nhello\n<closed file 'notes.txt' mode='r'>\n"
	if out.String() != want {
		t.Fatalf("expected %q, got %q", want, out.String())
	}
	data, err := util.ReadFile(fs, "/proj/notes.txt")
	if err != nil || string(data) != "hello" {
		t.Fatalf("expected file contents hello, got %q (%v)", data, err)
	}
}

func TestWithClosesOnError(t *testing.T) {
	fs := memfs.New()
	interp, _ := newTestInterpreter(t, fs)
	err := interp.RunString("with.vlang", "h = null\nwith (open(\"x.txt\", \"w\") as h) { raise Error(\"stop\") }")
	expectDiagnostic(t, err, "RuntimeError", "Uncaught Error: stop")
	val, _ := interp.GlobalEnvironment().Get("h")
	if val.Kind() != runtime.KindNull {
		t.Fatalf("expected h restored to null, got %#v", val)
	}
}

func TestArgvReturnsScriptArguments(t *testing.T) {
	interp := New(Options{FS: memfs.New(), Stdout: &bytes.Buffer{}, WorkDir: testRoot, Args: []string{"main.vlang", "a"}})
	if err := interp.RunString("t.vlang", "args = argv()"); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	val, _ := interp.GlobalEnvironment().Get("args")
	if runtime.Repr(val) != "['main.vlang', 'a']" {
		t.Fatalf("unexpected argv %s", runtime.Repr(val))
	}
}

func TestInputReadsStdin(t *testing.T) {
	var out bytes.Buffer
	interp := New(Options{FS: memfs.New(), Stdout: &out, Stdin: strings.NewReader("Ada\n"), WorkDir: testRoot})
	if err := interp.RunString("t.vlang", "name = input(\"name? \")\nprint(\"hi\", name)"); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if out.String() != "name? hi Ada\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
	err := interp.RunString("t.vlang", "input()")
	expectDiagnostic(t, err, "IOError", "Error in built-in function 'input': EOF when reading a line")
}
