package interpreter

import (
	"fmt"
	"sort"
	"strings"

	"virtolang/interpreter-go/pkg/runtime"
)

// builtinRegistry maps builtin names to native functions.
type builtinRegistry map[string]runtime.NativeFunctionValue

// builtinError is a failure raised by a builtin with a specific exception
// type name.
type builtinError struct {
	typeName string
	message  string
}

func (e builtinError) Error() string { return e.message }

func typeErrorf(format string, args ...any) error {
	return builtinError{typeName: "TypeError", message: fmt.Sprintf(format, args...)}
}

func valueErrorf(format string, args ...any) error {
	return builtinError{typeName: "ValueError", message: fmt.Sprintf(format, args...)}
}

func indexErrorf(format string, args ...any) error {
	return builtinError{typeName: "IndexError", message: fmt.Sprintf(format, args...)}
}

func ioErrorf(format string, args ...any) error {
	return builtinError{typeName: "IOError", message: fmt.Sprintf(format, args...)}
}

func httpErrorf(format string, args ...any) error {
	return builtinError{typeName: "HTTPError", message: fmt.Sprintf(format, args...)}
}

func newBuiltinRegistry(i *Interpreter) builtinRegistry {
	r := make(builtinRegistry)
	i.registerCoreBuiltins(r)
	i.registerStringBuiltins(r)
	i.registerCollectionBuiltins(r)
	i.registerMathBuiltins(r)
	i.registerTimeBuiltins(r)
	i.registerIOBuiltins(r)
	i.registerHTTPBuiltins(r)
	i.registerAsyncBuiltins(r)
	i.registerTermBuiltins(r)
	return r
}

// add registers a builtin from a Python-style signature: "s, sep=" marks sep
// optional, a trailing "*args" makes the builtin variadic.
func (r builtinRegistry) add(name, signature, doc string, impl runtime.NativeFunc) {
	fn := runtime.NativeFunctionValue{Name: name, Doc: doc, Impl: impl}
	optional := false
	for _, part := range strings.Split(signature, ",") {
		param := strings.TrimSpace(part)
		switch {
		case param == "":
			continue
		case strings.HasPrefix(param, "*"):
			fn.Variadic = true
		case strings.HasSuffix(param, "="):
			optional = true
			fn.Params = append(fn.Params, strings.TrimSuffix(param, "="))
		default:
			fn.Params = append(fn.Params, param)
			if !optional {
				fn.Required++
			}
		}
	}
	r[name] = fn
}

// addCooperative registers a builtin that must run on the evaluation turn.
func (r builtinRegistry) addCooperative(name, signature, doc string, impl runtime.NativeFunc) {
	r.add(name, signature, doc, impl)
	fn := r[name]
	fn.Cooperative = true
	r[name] = fn
}

// alias registers an existing builtin under another name.
func (r builtinRegistry) alias(name, target string) {
	fn := r[target]
	fn.Name = name
	r[name] = fn
}

func (r builtinRegistry) names() []string {
	out := make([]string, 0, len(r))
	for name := range r {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// signature renders the parameter list shown by help().
func signature(fn runtime.NativeFunctionValue) string {
	parts := make([]string, 0, len(fn.Params)+1)
	for idx, p := range fn.Params {
		if idx >= fn.Required {
			p += "=None"
		}
		parts = append(parts, p)
	}
	if fn.Variadic {
		parts = append(parts, "*args")
	}
	return fmt.Sprintf("%s(%s)", fn.Name, strings.Join(parts, ", "))
}

//-----------------------------------------------------------------------------
// Argument helpers
//-----------------------------------------------------------------------------

func optionalArg(args []runtime.Value, idx int) (runtime.Value, bool) {
	if idx >= len(args) {
		return nil, false
	}
	if args[idx].Kind() == runtime.KindNull {
		return nil, false
	}
	return args[idx], true
}

func argString(args []runtime.Value, idx int, param string) (string, error) {
	s, ok := args[idx].(runtime.StringValue)
	if !ok {
		return "", typeErrorf("argument '%s' must be str, not %s", param, runtime.TypeName(args[idx]))
	}
	return s.Val, nil
}

func argInt(args []runtime.Value, idx int, param string) (int64, error) {
	n, ok := runtime.AsInt(args[idx])
	if !ok {
		return 0, typeErrorf("'%s' object cannot be interpreted as an integer (argument '%s')", runtime.TypeName(args[idx]), param)
	}
	return n, nil
}

func argFloat(args []runtime.Value, idx int, param string) (float64, error) {
	f, ok := runtime.AsFloat(args[idx])
	if !ok {
		return 0, typeErrorf("argument '%s' must be a real number, not %s", param, runtime.TypeName(args[idx]))
	}
	return f, nil
}

func argList(args []runtime.Value, idx int, param string) (*runtime.ListValue, error) {
	l, ok := args[idx].(*runtime.ListValue)
	if !ok {
		return nil, typeErrorf("argument '%s' must be list, not %s", param, runtime.TypeName(args[idx]))
	}
	return l, nil
}

func argDict(args []runtime.Value, idx int, param string) (*runtime.DictValue, error) {
	d, ok := args[idx].(*runtime.DictValue)
	if !ok {
		return nil, typeErrorf("argument '%s' must be dict, not %s", param, runtime.TypeName(args[idx]))
	}
	return d, nil
}

func argIterable(args []runtime.Value, idx int) ([]runtime.Value, error) {
	items, err := runtime.Iterate(args[idx])
	if err != nil {
		return nil, typeErrorf("%s", err.Error())
	}
	return items, nil
}

func stringList(items []string) *runtime.ListValue {
	out := make([]runtime.Value, len(items))
	for idx, s := range items {
		out[idx] = runtime.StringValue{Val: s}
	}
	return runtime.NewList(out)
}
