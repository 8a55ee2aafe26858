package interpreter

import (
	"testing"

	"virtolang/interpreter-go/pkg/ast"
	"virtolang/interpreter-go/pkg/runtime"
)

func TestArithmetic(t *testing.T) {
	out := mustRun(t, `
print(7 / 2, 6 / 3, 7 * 3, 2 + 3 * 4, (2 + 3) * 4)
print(-7 % 3, 7 % -3, 7 % 3, mod(-1, 5))
print(true + 1, 2 == 4 / 2, 1 - 7 / 2, -(7 / 2))
print(9223372036854775807 + 1)
`)
	want := "3.5 2.0 21 14 20\n" +
		"2 -2 1 4\n" +
		"2 true -2.5 -3.5\n" +
		"-9223372036854775808\n"
	if out != want {
		t.Fatalf("expected %q, got %q", want, out)
	}
}

func TestSequenceOperators(t *testing.T) {
	out := mustRun(t, `
print("ab" + "c", "ab" * 3, 2 * "xy", "a" * 0)
print([1] + [2, 3], [0] * 3, tuple(1) + tuple(2))
`)
	want := "abc ababab xyxy \n[1, 2, 3] [0, 0, 0] (1, 2)\n"
	if out != want {
		t.Fatalf("expected %q, got %q", want, out)
	}
}

func TestComparisonAndLogic(t *testing.T) {
	out := mustRun(t, `
print("a" < "b", [1, 2] < [1, 3], 3 >= 3, 1 != 1, null == null)
print(0 or "x", 1 and 2, null or null, not 0, not [1])
print(2 in [1, 2], "b" in "abc", "a" in {"a": 1}, 3 not in [1, 2])
l = [1]
print(l is l, [1] is [1], [1] == [1], null is null, 1 is not 2)
`)
	want := "true true true false true\n" +
		"x 2 null true false\n" +
		"true true true true\n" +
		"true false true true true\n"
	if out != want {
		t.Fatalf("expected %q, got %q", want, out)
	}
}

func TestOperatorErrors(t *testing.T) {
	cases := []struct {
		source   string
		typeName string
		message  string
	}{
		{"1 + \"a\"", "TypeError", "unsupported operand type(s) for +: 'int' and 'str'"},
		{"\"a\" + 1", "TypeError", "can only concatenate str (not \"int\") to str"},
		{"[1] + 1", "TypeError", "can only concatenate list (not \"int\") to list"},
		{"1 < \"a\"", "TypeError", "'<' not supported between instances of 'int' and 'str'"},
		{"\"a\" * \"b\"", "TypeError", "can't multiply sequence by non-int of type 'str'"},
		{"1 / 0", "ZeroDivisionError", "division by zero"},
		{"1 % 0", "ZeroDivisionError", "integer modulo by zero"},
		{"1 in 5", "TypeError", "argument of type 'int' is not iterable"},
		{"1 in \"abc\"", "TypeError", "'in <string>' requires string as left operand, not int"},
		{"-\"a\"", "TypeError", "bad operand type for unary -: 'str'"},
	}
	for _, tc := range cases {
		_, err := runSource(t, tc.source)
		diag := expectDiagnostic(t, err, tc.typeName, tc.message)
		if diag.Token == nil {
			t.Fatalf("%s: expected a source location", tc.source)
		}
	}
}

func TestIndexing(t *testing.T) {
	out := mustRun(t, `
l = [1, 2, 3]
d = {"a": [10, 20]}
print(l[0], l[-1], "héllo"[1], d["a"][1], tuple(4, 5)[1])
`)
	if out != "1 3 é 20 5\n" {
		t.Fatalf("unexpected output %q", out)
	}

	cases := []struct {
		source   string
		typeName string
		message  string
	}{
		{"[1][5]", "IndexError", "list index out of range"},
		{"\"ab\"[-3]", "IndexError", "string index out of range"},
		{"[1][\"a\"]", "TypeError", "list indices must be integers, not str"},
		{"5[0]", "TypeError", "'int' object is not subscriptable"},
		{"{\"a\": 1}[\"b\"]", "KeyError", "'b'"},
		{"{[1]: 2}", "TypeError", "unhashable type: 'list'"},
	}
	for _, tc := range cases {
		_, err := runSource(t, tc.source)
		expectDiagnostic(t, err, tc.typeName, tc.message)
	}
}

func TestBinaryOpDirect(t *testing.T) {
	val, err := binaryOp(ast.OpModulo, runtime.Float(7.5), runtime.Int(2))
	if err != nil {
		t.Fatalf("binaryOp failed: %v", err)
	}
	if f, ok := val.(runtime.FloatValue); !ok || f.Val != 1.5 {
		t.Fatalf("expected 1.5, got %#v", val)
	}

	val, err = binaryOp(ast.OpMultiply, runtime.NewList([]runtime.Value{runtime.Int(1)}), runtime.Int(-1))
	if err != nil {
		t.Fatalf("binaryOp failed: %v", err)
	}
	if l, ok := val.(*runtime.ListValue); !ok || len(l.Elements) != 0 {
		t.Fatalf("expected empty list, got %#v", val)
	}
}
