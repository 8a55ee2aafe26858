package interpreter

import (
	"errors"
	"maps"
	"path/filepath"
	"slices"

	"virtolang/interpreter-go/pkg/runtime"
)

func (i *Interpreter) registerAsyncBuiltins(r builtinRegistry) {
	r.addCooperative("run", "filename", "Run another source file and merge its bindings into the calling scope.",
		func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			name, err := argString(args, 0, "filename")
			if err != nil {
				return nil, err
			}
			env := i.callerEnv(ctx)
			child := i.fork()
			scope := env.Clone()
			if err := child.runModule(i.hostPath(name), scope); err != nil {
				return nil, err
			}
			env.Merge(scope)
			maps.Copy(i.functions, child.functions)
			return runtime.Null, nil
		})

	r.addCooperative("run_async", "filename", "Run another source file as a background task.",
		func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			name, err := argString(args, 0, "filename")
			if err != nil {
				return nil, err
			}
			path := i.hostPath(name)
			child := i.fork()
			scope := i.callerEnv(ctx).Clone()
			return i.sched.spawn("run_async "+name, func() (runtime.Value, error) {
				return runtime.Null, child.runModule(path, scope)
			}), nil
		})

	r.addCooperative("async", "fn, *args", "Start fn(*args) in the background and return its task.",
		func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			callArgs := slices.Clone(args[1:])
			switch fn := args[0].(type) {
			case runtime.NativeFunctionValue:
				if !fn.Cooperative {
					return i.sched.offload(fn.Name, func() (runtime.Value, error) {
						return i.callNative(fn, callArgs, nil)
					}), nil
				}
				return i.spawnCall(fn.Name, fn, callArgs, i.callerEnv(ctx)), nil
			case *runtime.FunctionValue:
				return i.spawnCall(fn.Name(), fn, callArgs, i.callerEnv(ctx)), nil
			default:
				return nil, typeErrorf("'%s' object is not callable", runtime.TypeName(args[0]))
			}
		})

	r.addCooperative("spawn", "fn, *args", "Schedule fn(*args) as a cooperative task.",
		func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			var label string
			switch fn := args[0].(type) {
			case *runtime.FunctionValue:
				label = fn.Name()
			case runtime.NativeFunctionValue:
				label = fn.Name
			default:
				return nil, typeErrorf("'%s' object is not callable", runtime.TypeName(args[0]))
			}
			return i.spawnCall(label, args[0], slices.Clone(args[1:]), i.callerEnv(ctx)), nil
		})

	r.addCooperative("await", "task", "Wait for a task and return its result.",
		func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			return i.awaitValue(args[0])
		})
}

// callerEnv is the scope a cooperative builtin was called from.
func (i *Interpreter) callerEnv(ctx *runtime.NativeCallContext) *runtime.Environment {
	if ctx == nil || ctx.Env == nil {
		return i.global
	}
	return ctx.Env
}

// runModule evaluates the file at path in env. A top-level return ends the
// module early.
func (i *Interpreter) runModule(path string, env *runtime.Environment) error {
	program, err := i.loader.Load(path)
	if err != nil {
		return err
	}
	i.importing = append(i.importing, filepath.Clean(path))
	defer func() { i.importing = i.importing[:len(i.importing)-1] }()
	i.opts.Logger.Debug("module run", "path", path)
	_, err = i.evaluateStatements(program.Body, env)
	var ret returnSignal
	if errors.As(err, &ret) {
		return nil
	}
	return err
}
