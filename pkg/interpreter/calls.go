package interpreter

import (
	"errors"
	"fmt"

	"virtolang/interpreter-go/pkg/ast"
	"virtolang/interpreter-go/pkg/diagnostics"
	"virtolang/interpreter-go/pkg/runtime"
)

// evaluateFunctionCall dispatches on the callee name: builtins first, then
// declared functions, then any callable value bound in env. Arguments are
// evaluated left to right in the caller's environment. A user function only
// evaluates as many arguments as it has parameters.
func (i *Interpreter) evaluateFunctionCall(call *ast.FunctionCall, env *runtime.Environment) (runtime.Value, error) {
	name := call.Callee.Name
	var callee runtime.Value
	if fn, ok := i.builtins[name]; ok {
		callee = fn
	} else if fn, ok := i.functions[name]; ok {
		callee = fn
	} else if val, ok := env.Get(name); ok {
		callee = val
	} else {
		return nil, runtimeError(call.Callee.Anchor(), "NameError", "Undefined function: %s", name)
	}

	argExprs := call.Arguments
	if fn, ok := callee.(*runtime.FunctionValue); ok && len(fn.Params()) < len(argExprs) {
		argExprs = argExprs[:len(fn.Params())]
	}
	args := make([]runtime.Value, 0, len(argExprs))
	for _, argExpr := range argExprs {
		val, err := i.evaluateExpression(argExpr, env)
		if err != nil {
			return nil, err
		}
		args = append(args, val)
	}
	val, err := i.callValue(callee, args, env)
	if err != nil {
		return nil, anchor(err, call.Anchor())
	}
	return val, nil
}

// callValue invokes a user function or builtin. env is the calling scope
// handed to builtins.
func (i *Interpreter) callValue(callee runtime.Value, args []runtime.Value, env *runtime.Environment) (runtime.Value, error) {
	switch fn := callee.(type) {
	case *runtime.FunctionValue:
		return i.callFunction(fn, args)
	case runtime.NativeFunctionValue:
		return i.callNative(fn, args, env)
	default:
		return nil, runtimeError(nil, "TypeError", "'%s' object is not callable", runtime.TypeName(callee))
	}
}

// callFunction runs the body in a fresh copy of the declaring environment.
// Missing arguments bind to null; extra arguments are ignored.
func (i *Interpreter) callFunction(fn *runtime.FunctionValue, args []runtime.Value) (runtime.Value, error) {
	if i.depth >= maxCallDepth {
		return nil, runtimeError(fn.Declaration.Anchor(), "RecursionError", "maximum recursion depth exceeded")
	}
	i.depth++
	defer func() { i.depth-- }()

	scope := fn.Closure.Clone()
	for idx, param := range fn.Params() {
		if idx < len(args) {
			scope.Define(param, args[idx])
		} else {
			scope.Define(param, runtime.Null)
		}
	}
	_, err := i.evaluateBlock(fn.Declaration.Body, scope)
	if err != nil {
		var ret returnSignal
		if errors.As(err, &ret) {
			return ret.value, nil
		}
		return nil, err
	}
	return runtime.Null, nil
}

// callNative checks arity, runs the builtin and reshapes its failures into
// diagnostics naming the builtin.
func (i *Interpreter) callNative(fn runtime.NativeFunctionValue, args []runtime.Value, env *runtime.Environment) (runtime.Value, error) {
	if msg := arityMessage(fn, len(args)); msg != "" {
		return nil, diagnostics.NewArgumentError(fmt.Sprintf("Error in built-in function '%s': %s", fn.Name, msg), nil)
	}
	val, err := fn.Impl(&runtime.NativeCallContext{Env: env}, args)
	if err != nil {
		return nil, wrapNativeError(fn.Name, err)
	}
	if val == nil {
		val = runtime.Null
	}
	return val, nil
}

func arityMessage(fn runtime.NativeFunctionValue, given int) string {
	if given < fn.Required {
		return fmt.Sprintf("%s() missing required argument '%s'", fn.Name, fn.Params[given])
	}
	if fn.Variadic || given <= len(fn.Params) {
		return ""
	}
	verb := "were"
	if given == 1 {
		verb = "was"
	}
	if fn.Required == len(fn.Params) {
		noun := "arguments"
		if len(fn.Params) == 1 {
			noun = "argument"
		}
		return fmt.Sprintf("%s() takes %d positional %s but %d %s given", fn.Name, len(fn.Params), noun, given, verb)
	}
	return fmt.Sprintf("%s() takes from %d to %d positional arguments but %d %s given", fn.Name, fn.Required, len(fn.Params), given, verb)
}

func wrapNativeError(name string, err error) error {
	var be builtinError
	if errors.As(err, &be) {
		message := fmt.Sprintf("Error in built-in function '%s': %s", name, be.message)
		switch be.typeName {
		case "TypeError", "ValueError":
			diag := diagnostics.NewArgumentError(message, nil)
			diag.Type = be.typeName
			return diag
		default:
			return diagnostics.NewRuntimeError(be.typeName, message, nil)
		}
	}
	var (
		rs   raiseSignal
		exit *ExitError
	)
	if errors.As(err, &rs) || errors.As(err, &exit) {
		return err
	}
	if _, ok := diagnostics.As(err); ok {
		return err
	}
	return diagnostics.NewRuntimeError("", fmt.Sprintf("Error in built-in function '%s': %s", name, err.Error()), nil)
}

// spawnCall schedules callee as a cooperative task.
func (i *Interpreter) spawnCall(label string, callee runtime.Value, args []runtime.Value, env *runtime.Environment) *runtime.TaskValue {
	return i.sched.spawn(label, func() (runtime.Value, error) {
		return i.callValue(callee, args, env)
	})
}
