package interpreter

import (
	"math"
	"strings"

	"virtolang/interpreter-go/pkg/ast"
	"virtolang/interpreter-go/pkg/runtime"
)

func (i *Interpreter) evaluateUnaryExpression(expr *ast.UnaryExpression, env *runtime.Environment) (runtime.Value, error) {
	operand, err := i.evaluateExpression(expr.Operand, env)
	if err != nil {
		return nil, err
	}
	switch expr.Operator {
	case ast.UnaryNot:
		return runtime.BoolValue{Val: !runtime.Truthy(operand)}, nil
	case ast.UnaryNegate:
		switch v := operand.(type) {
		case runtime.FloatValue:
			return runtime.FloatValue{Val: -v.Val}, nil
		default:
			if n, ok := runtime.AsInt(operand); ok {
				return runtime.IntegerValue{Val: -n}, nil
			}
		}
		return nil, runtimeError(expr.Anchor(), "TypeError", "bad operand type for unary -: '%s'", runtime.TypeName(operand))
	default:
		return nil, runtimeError(expr.Anchor(), "RuntimeError", "Unknown unary operator: %s", expr.Operator)
	}
}

// evaluateBinaryExpression evaluates left before right. and/or short-circuit
// and yield one of their operands.
func (i *Interpreter) evaluateBinaryExpression(expr *ast.BinaryExpression, env *runtime.Environment) (runtime.Value, error) {
	left, err := i.evaluateExpression(expr.Left, env)
	if err != nil {
		return nil, err
	}
	switch expr.Operator {
	case ast.OpAnd:
		if !runtime.Truthy(left) {
			return left, nil
		}
		return i.evaluateExpression(expr.Right, env)
	case ast.OpOr:
		if runtime.Truthy(left) {
			return left, nil
		}
		return i.evaluateExpression(expr.Right, env)
	}
	right, err := i.evaluateExpression(expr.Right, env)
	if err != nil {
		return nil, err
	}
	val, err := binaryOp(expr.Operator, left, right)
	if err != nil {
		return nil, anchor(err, expr.Anchor())
	}
	return val, nil
}

func binaryOp(op ast.BinaryOperator, left, right runtime.Value) (runtime.Value, error) {
	switch op {
	case ast.OpAdd:
		return add(left, right)
	case ast.OpSubtract, ast.OpMultiply, ast.OpDivide, ast.OpModulo:
		return arithmetic(op, left, right)
	case ast.OpEqual:
		return runtime.BoolValue{Val: runtime.Equal(left, right)}, nil
	case ast.OpNotEqual:
		return runtime.BoolValue{Val: !runtime.Equal(left, right)}, nil
	case ast.OpLess, ast.OpLessEq, ast.OpGreater, ast.OpGreaterEq:
		cmp, ok := runtime.Compare(left, right)
		if !ok {
			return nil, runtimeError(nil, "TypeError", "'%s' not supported between instances of '%s' and '%s'",
				op, runtime.TypeName(left), runtime.TypeName(right))
		}
		switch op {
		case ast.OpLess:
			return runtime.BoolValue{Val: cmp < 0}, nil
		case ast.OpLessEq:
			return runtime.BoolValue{Val: cmp <= 0}, nil
		case ast.OpGreater:
			return runtime.BoolValue{Val: cmp > 0}, nil
		default:
			return runtime.BoolValue{Val: cmp >= 0}, nil
		}
	case ast.OpIs:
		return runtime.BoolValue{Val: runtime.Identical(left, right)}, nil
	case ast.OpIsNot:
		return runtime.BoolValue{Val: !runtime.Identical(left, right)}, nil
	case ast.OpIn, ast.OpNotIn:
		found, err := runtime.Contains(right, left)
		if err != nil {
			return nil, runtimeError(nil, "TypeError", "%s", err.Error())
		}
		return runtime.BoolValue{Val: found == (op == ast.OpIn)}, nil
	default:
		return nil, runtimeError(nil, "RuntimeError", "Unknown binary operator: %s", op)
	}
}

func add(left, right runtime.Value) (runtime.Value, error) {
	switch l := left.(type) {
	case runtime.StringValue:
		if r, ok := right.(runtime.StringValue); ok {
			return runtime.StringValue{Val: l.Val + r.Val}, nil
		}
		return nil, runtimeError(nil, "TypeError", "can only concatenate str (not \"%s\") to str", runtime.TypeName(right))
	case *runtime.ListValue:
		if r, ok := right.(*runtime.ListValue); ok {
			out := make([]runtime.Value, 0, len(l.Elements)+len(r.Elements))
			out = append(append(out, l.Elements...), r.Elements...)
			return runtime.NewList(out), nil
		}
		return nil, runtimeError(nil, "TypeError", "can only concatenate list (not \"%s\") to list", runtime.TypeName(right))
	case runtime.TupleValue:
		if r, ok := right.(runtime.TupleValue); ok {
			out := make([]runtime.Value, 0, len(l.Elements)+len(r.Elements))
			out = append(append(out, l.Elements...), r.Elements...)
			return runtime.TupleValue{Elements: out}, nil
		}
	}
	return arithmetic(ast.OpAdd, left, right)
}

// arithmetic applies numeric operators. Integers stay integers except for
// true division; any float operand makes the result a float.
func arithmetic(op ast.BinaryOperator, left, right runtime.Value) (runtime.Value, error) {
	if op == ast.OpMultiply {
		if val, ok, err := repeat(left, right); ok {
			return val, err
		}
	}
	if !runtime.IsNumeric(left) || !runtime.IsNumeric(right) {
		return nil, runtimeError(nil, "TypeError", "unsupported operand type(s) for %s: '%s' and '%s'",
			op, runtime.TypeName(left), runtime.TypeName(right))
	}

	li, lInt := runtime.AsInt(left)
	ri, rInt := runtime.AsInt(right)
	if lInt && rInt {
		switch op {
		case ast.OpAdd:
			return runtime.IntegerValue{Val: li + ri}, nil
		case ast.OpSubtract:
			return runtime.IntegerValue{Val: li - ri}, nil
		case ast.OpMultiply:
			return runtime.IntegerValue{Val: li * ri}, nil
		case ast.OpDivide:
			if ri == 0 {
				return nil, runtimeError(nil, "ZeroDivisionError", "division by zero")
			}
			return runtime.FloatValue{Val: float64(li) / float64(ri)}, nil
		case ast.OpModulo:
			if ri == 0 {
				return nil, runtimeError(nil, "ZeroDivisionError", "integer modulo by zero")
			}
			m := li % ri
			if m != 0 && (m < 0) != (ri < 0) {
				m += ri
			}
			return runtime.IntegerValue{Val: m}, nil
		}
	}

	lf, _ := runtime.AsFloat(left)
	rf, _ := runtime.AsFloat(right)
	switch op {
	case ast.OpAdd:
		return runtime.FloatValue{Val: lf + rf}, nil
	case ast.OpSubtract:
		return runtime.FloatValue{Val: lf - rf}, nil
	case ast.OpMultiply:
		return runtime.FloatValue{Val: lf * rf}, nil
	case ast.OpDivide:
		if rf == 0 {
			return nil, runtimeError(nil, "ZeroDivisionError", "division by zero")
		}
		return runtime.FloatValue{Val: lf / rf}, nil
	default:
		if rf == 0 {
			return nil, runtimeError(nil, "ZeroDivisionError", "float modulo")
		}
		m := math.Mod(lf, rf)
		if m != 0 && (m < 0) != (rf < 0) {
			m += rf
		}
		return runtime.FloatValue{Val: m}, nil
	}
}

// repeat handles sequence * int in either order.
func repeat(left, right runtime.Value) (runtime.Value, bool, error) {
	seq, count := left, right
	if _, isSeq := right.(runtime.StringValue); isSeq {
		seq, count = right, left
	} else if _, isList := right.(*runtime.ListValue); isList {
		seq, count = right, left
	}
	switch s := seq.(type) {
	case runtime.StringValue:
		n, ok := runtime.AsInt(count)
		if !ok {
			return nil, true, runtimeError(nil, "TypeError", "can't multiply sequence by non-int of type '%s'", runtime.TypeName(count))
		}
		if n < 0 {
			n = 0
		}
		return runtime.StringValue{Val: strings.Repeat(s.Val, int(n))}, true, nil
	case *runtime.ListValue:
		n, ok := runtime.AsInt(count)
		if !ok {
			return nil, true, runtimeError(nil, "TypeError", "can't multiply sequence by non-int of type '%s'", runtime.TypeName(count))
		}
		out := make([]runtime.Value, 0)
		for k := int64(0); k < n; k++ {
			out = append(out, s.Elements...)
		}
		return runtime.NewList(out), true, nil
	default:
		return nil, false, nil
	}
}
