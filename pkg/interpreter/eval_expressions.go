package interpreter

import (
	"virtolang/interpreter-go/pkg/ast"
	"virtolang/interpreter-go/pkg/runtime"
)

func (i *Interpreter) evaluateExpression(node ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	switch n := node.(type) {
	case *ast.IntegerLiteral:
		return runtime.IntegerValue{Val: n.Value}, nil
	case *ast.StringLiteral:
		return runtime.StringValue{Val: n.Value}, nil
	case *ast.BooleanLiteral:
		return runtime.BoolValue{Val: n.Value}, nil
	case *ast.NullLiteral:
		return runtime.Null, nil
	case *ast.Identifier:
		return i.evaluateIdentifier(n, env)
	case *ast.ListLiteral:
		values := make([]runtime.Value, 0, len(n.Elements))
		for _, el := range n.Elements {
			val, err := i.evaluateExpression(el, env)
			if err != nil {
				return nil, err
			}
			values = append(values, val)
		}
		return runtime.NewList(values), nil
	case *ast.DictLiteral:
		return i.evaluateDictLiteral(n, env)
	case *ast.UnaryExpression:
		return i.evaluateUnaryExpression(n, env)
	case *ast.BinaryExpression:
		return i.evaluateBinaryExpression(n, env)
	case *ast.FunctionCall:
		return i.evaluateFunctionCall(n, env)
	case *ast.IndexExpression:
		return i.evaluateIndexExpression(n, env)
	case *ast.AwaitExpression:
		val, err := i.evaluateExpression(n.Expression, env)
		if err != nil {
			return nil, err
		}
		result, err := i.awaitValue(val)
		if err != nil {
			return nil, anchor(err, n.Anchor())
		}
		return result, nil
	default:
		return nil, runtimeError(node.Anchor(), "RuntimeError", "Unknown AST node: %s", node.NodeType())
	}
}

// evaluateIdentifier looks in env first, then in the builtins.
func (i *Interpreter) evaluateIdentifier(id *ast.Identifier, env *runtime.Environment) (runtime.Value, error) {
	if val, ok := env.Get(id.Name); ok {
		return val, nil
	}
	if fn, ok := i.builtins[id.Name]; ok {
		return fn, nil
	}
	return nil, runtimeError(id.Anchor(), "NameError", "Undefined variable: %s", id.Name)
}

func (i *Interpreter) evaluateDictLiteral(lit *ast.DictLiteral, env *runtime.Environment) (runtime.Value, error) {
	dict := runtime.NewDict()
	for _, entry := range lit.Entries {
		key, err := i.evaluateExpression(entry.Key, env)
		if err != nil {
			return nil, err
		}
		val, err := i.evaluateExpression(entry.Value, env)
		if err != nil {
			return nil, err
		}
		if err := dict.Set(key, val); err != nil {
			return nil, runtimeError(entry.Key.Anchor(), "TypeError", "%s", err.Error())
		}
	}
	return dict, nil
}

// awaitValue suspends on tasks and passes every other value through.
func (i *Interpreter) awaitValue(val runtime.Value) (runtime.Value, error) {
	task, ok := val.(*runtime.TaskValue)
	if !ok {
		return val, nil
	}
	return i.sched.await(task)
}

func (i *Interpreter) evaluateIndexExpression(expr *ast.IndexExpression, env *runtime.Environment) (runtime.Value, error) {
	obj, err := i.evaluateExpression(expr.Object, env)
	if err != nil {
		return nil, err
	}
	idx, err := i.evaluateExpression(expr.Index, env)
	if err != nil {
		return nil, err
	}
	val, err := indexValue(obj, idx)
	if err != nil {
		return nil, anchor(err, expr.Anchor())
	}
	return val, nil
}

func indexValue(obj, idx runtime.Value) (runtime.Value, error) {
	switch o := obj.(type) {
	case *runtime.ListValue:
		pos, err := sequenceIndex("list", idx, len(o.Elements))
		if err != nil {
			return nil, err
		}
		return o.Elements[pos], nil
	case runtime.TupleValue:
		pos, err := sequenceIndex("tuple", idx, len(o.Elements))
		if err != nil {
			return nil, err
		}
		return o.Elements[pos], nil
	case runtime.StringValue:
		runes := []rune(o.Val)
		pos, err := sequenceIndex("string", idx, len(runes))
		if err != nil {
			return nil, err
		}
		return runtime.StringValue{Val: string(runes[pos])}, nil
	case *runtime.DictValue:
		val, found, err := o.Get(idx)
		if err != nil {
			return nil, runtimeError(nil, "TypeError", "%s", err.Error())
		}
		if !found {
			return nil, runtimeError(nil, "KeyError", "%s", runtime.Repr(idx))
		}
		return val, nil
	default:
		return nil, runtimeError(nil, "TypeError", "'%s' object is not subscriptable", runtime.TypeName(obj))
	}
}

// sequenceIndex normalises a possibly negative index into [0, length).
func sequenceIndex(kind string, idx runtime.Value, length int) (int, error) {
	pos, ok := runtime.AsInt(idx)
	if !ok {
		return 0, runtimeError(nil, "TypeError", "%s indices must be integers, not %s", kind, runtime.TypeName(idx))
	}
	if pos < 0 {
		pos += int64(length)
	}
	if pos < 0 || pos >= int64(length) {
		return 0, runtimeError(nil, "IndexError", "%s index out of range", kind)
	}
	return int(pos), nil
}
