package interpreter

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"virtolang/interpreter-go/pkg/runtime"
)

func (i *Interpreter) registerCoreBuiltins(r builtinRegistry) {
	r.add("len", "x", "Return the number of items in a container.", builtinLen)

	r.add("str", "x", "Return the string form of a value.",
		func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			return runtime.StringValue{Val: runtime.ToString(args[0])}, nil
		})

	r.add("int", "x", "Convert a number or numeric string to an integer.", builtinInt)
	r.add("float", "x", "Convert a number or numeric string to a float.", builtinFloat)

	r.add("bool", "x=", "Return the truth value of x.",
		func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			if len(args) == 0 {
				return runtime.BoolValue{Val: false}, nil
			}
			return runtime.BoolValue{Val: runtime.Truthy(args[0])}, nil
		})

	r.add("type", "x", "Return the type name of a value.",
		func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			return runtime.StringValue{Val: runtime.TypeName(args[0])}, nil
		})

	r.addCooperative("input", "prompt=", "Read a line from standard input.",
		func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			if prompt, ok := optionalArg(args, 0); ok {
				if _, err := io.WriteString(i.opts.Stdout, runtime.ToString(prompt)); err != nil {
					return nil, ioErrorf("%s", err.Error())
				}
			}
			line, err := i.stdin.ReadString('\n')
			if err != nil && !(errors.Is(err, io.EOF) && line != "") {
				if errors.Is(err, io.EOF) {
					return nil, ioErrorf("EOF when reading a line")
				}
				return nil, ioErrorf("%s", err.Error())
			}
			line = strings.TrimSuffix(line, "\n")
			return runtime.StringValue{Val: strings.TrimSuffix(line, "\r")}, nil
		})

	r.addCooperative("help", "x=", "Show the documentation of a function.",
		func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			target, ok := optionalArg(args, 0)
			if !ok {
				return runtime.StringValue{Val: "Built-in functions: " + strings.Join(i.builtins.names(), ", ")}, nil
			}
			switch fn := target.(type) {
			case runtime.NativeFunctionValue:
				return runtime.StringValue{Val: signature(fn) + "\n" + fn.Doc}, nil
			case *runtime.FunctionValue:
				kind := "function"
				if fn.IsAsync() {
					kind = "async function"
				}
				return runtime.StringValue{Val: fmt.Sprintf("Help on %s %s(%s)", kind, fn.Name(), strings.Join(fn.Params(), ", "))}, nil
			default:
				return runtime.StringValue{Val: "No doc."}, nil
			}
		})

	r.addCooperative("exit", "code=", "Stop the program with an exit code.",
		func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			code, ok := optionalArg(args, 0)
			if !ok {
				return nil, &ExitError{Code: 0}
			}
			if n, isInt := runtime.AsInt(code); isInt {
				return nil, &ExitError{Code: int(n)}
			}
			return nil, &ExitError{Code: 1, Message: runtime.ToString(code)}
		})

	r.addCooperative("argv", "", "Return the script path followed by its arguments.",
		func(_ *runtime.NativeCallContext, _ []runtime.Value) (runtime.Value, error) {
			return stringList(i.opts.Args), nil
		})

	r.add("Error", "message=", "Create an exception of type Error.",
		func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			msg := ""
			if len(args) > 0 {
				msg = runtime.ToString(args[0])
			}
			return runtime.NewError("Error", msg), nil
		})

	r.add("Exception", "type_name, message=", "Create an exception with a custom type name.",
		func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			typeName, err := argString(args, 0, "type_name")
			if err != nil {
				return nil, err
			}
			msg := ""
			if len(args) > 1 {
				msg = runtime.ToString(args[1])
			}
			return runtime.NewError(typeName, msg), nil
		})
}

func builtinLen(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	var n int
	switch v := args[0].(type) {
	case runtime.StringValue:
		n = utf8.RuneCountInString(v.Val)
	case *runtime.ListValue:
		n = len(v.Elements)
	case runtime.TupleValue:
		n = len(v.Elements)
	case *runtime.DictValue:
		n = v.Len()
	case *runtime.SetValue:
		n = v.Len()
	default:
		return nil, typeErrorf("object of type '%s' has no len()", runtime.TypeName(args[0]))
	}
	return runtime.IntegerValue{Val: int64(n)}, nil
}

func builtinInt(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	switch v := args[0].(type) {
	case runtime.FloatValue:
		if math.IsInf(v.Val, 0) || math.IsNaN(v.Val) {
			return nil, valueErrorf("cannot convert float %s to integer", runtime.FormatFloat(v.Val))
		}
		return runtime.IntegerValue{Val: int64(v.Val)}, nil
	case runtime.StringValue:
		text := strings.ReplaceAll(strings.TrimSpace(v.Val), "_", "")
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil || strings.TrimSpace(v.Val) == "" {
			return nil, valueErrorf("invalid literal for int() with base 10: %s", runtime.Repr(v))
		}
		return runtime.IntegerValue{Val: n}, nil
	default:
		if n, ok := runtime.AsInt(args[0]); ok {
			return runtime.IntegerValue{Val: n}, nil
		}
		return nil, typeErrorf("int() argument must be a string or a number, not '%s'", runtime.TypeName(args[0]))
	}
}

func builtinFloat(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	if s, ok := args[0].(runtime.StringValue); ok {
		text := strings.ToLower(strings.TrimSpace(s.Val))
		switch text {
		case "inf", "+inf", "infinity":
			return runtime.FloatValue{Val: math.Inf(1)}, nil
		case "-inf", "-infinity":
			return runtime.FloatValue{Val: math.Inf(-1)}, nil
		case "nan":
			return runtime.FloatValue{Val: math.NaN()}, nil
		}
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, valueErrorf("could not convert string to float: %s", runtime.Repr(s))
		}
		return runtime.FloatValue{Val: f}, nil
	}
	if f, ok := runtime.AsFloat(args[0]); ok {
		return runtime.FloatValue{Val: f}, nil
	}
	return nil, typeErrorf("float() argument must be a string or a number, not '%s'", runtime.TypeName(args[0]))
}
