package runtime

import (
	"fmt"
	"strings"
)

// Truthy applies the language's truthiness rules: null, false, zero and empty
// strings or containers are false, everything else is true.
func Truthy(v Value) bool {
	switch val := v.(type) {
	case nil, NullValue:
		return false
	case BoolValue:
		return val.Val
	case IntegerValue:
		return val.Val != 0
	case FloatValue:
		return val.Val != 0
	case StringValue:
		return val.Val != ""
	case *ListValue:
		return len(val.Elements) > 0
	case TupleValue:
		return len(val.Elements) > 0
	case *DictValue:
		return val.Len() > 0
	case *SetValue:
		return val.Len() > 0
	default:
		return true
	}
}

// AsInt reads an integer or bool as int64.
func AsInt(v Value) (int64, bool) {
	switch val := v.(type) {
	case IntegerValue:
		return val.Val, true
	case BoolValue:
		if val.Val {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// AsFloat reads any numeric value as float64.
func AsFloat(v Value) (float64, bool) {
	if f, ok := v.(FloatValue); ok {
		return f.Val, true
	}
	if i, ok := AsInt(v); ok {
		return float64(i), true
	}
	return 0, false
}

// IsNumeric reports whether v takes part in arithmetic (bool, int, float).
func IsNumeric(v Value) bool {
	_, ok := AsFloat(v)
	return ok
}

// Equal is value equality as used by ==, in and list comparisons.
func Equal(a, b Value) bool {
	if IsNumeric(a) && IsNumeric(b) {
		ai, aInt := AsInt(a)
		bi, bInt := AsInt(b)
		if aInt && bInt {
			return ai == bi
		}
		af, _ := AsFloat(a)
		bf, _ := AsFloat(b)
		return af == bf
	}
	switch av := a.(type) {
	case nil, NullValue:
		return b == nil || b.Kind() == KindNull
	case StringValue:
		bv, ok := b.(StringValue)
		return ok && av.Val == bv.Val
	case *ListValue:
		bv, ok := b.(*ListValue)
		return ok && equalSlices(av.Elements, bv.Elements)
	case TupleValue:
		bv, ok := b.(TupleValue)
		return ok && equalSlices(av.Elements, bv.Elements)
	case *DictValue:
		bv, ok := b.(*DictValue)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		for i, k := range av.keys {
			other, found, err := bv.Get(k)
			if err != nil || !found || !Equal(av.values[i], other) {
				return false
			}
		}
		return true
	case *SetValue:
		bv, ok := b.(*SetValue)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		for _, m := range av.Members() {
			if has, _ := bv.Has(m); !has {
				return false
			}
		}
		return true
	case ErrorValue:
		bv, ok := b.(ErrorValue)
		return ok && av.TypeName == bv.TypeName && av.Message == bv.Message
	case NativeFunctionValue:
		bv, ok := b.(NativeFunctionValue)
		return ok && av.Name == bv.Name
	default:
		return a == b
	}
}

func equalSlices(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// Identical implements `is`: reference values compare by identity, scalars
// of the same kind by value.
func Identical(a, b Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch a.(type) {
	case *ListValue, *DictValue, *SetValue, *FunctionValue, *TaskValue, *FileValue, *ResponseValue:
		return a == b
	default:
		return Equal(a, b)
	}
}

// Compare orders a and b, returning -1, 0 or 1. ok is false when the two
// values have no ordering.
func Compare(a, b Value) (int, bool) {
	if IsNumeric(a) && IsNumeric(b) {
		ai, aInt := AsInt(a)
		bi, bInt := AsInt(b)
		if aInt && bInt {
			return cmpOrdered(ai, bi), true
		}
		af, _ := AsFloat(a)
		bf, _ := AsFloat(b)
		return cmpOrdered(af, bf), true
	}
	switch av := a.(type) {
	case StringValue:
		if bv, ok := b.(StringValue); ok {
			return strings.Compare(av.Val, bv.Val), true
		}
	case *ListValue:
		if bv, ok := b.(*ListValue); ok {
			return compareSlices(av.Elements, bv.Elements)
		}
	case TupleValue:
		if bv, ok := b.(TupleValue); ok {
			return compareSlices(av.Elements, bv.Elements)
		}
	}
	return 0, false
}

func cmpOrdered[T int64 | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareSlices(a, b []Value) (int, bool) {
	for i := 0; i < len(a) && i < len(b); i++ {
		if Equal(a[i], b[i]) {
			continue
		}
		return Compare(a[i], b[i])
	}
	return cmpOrdered(int64(len(a)), int64(len(b))), true
}

// Contains implements `in`.
func Contains(container, item Value) (bool, error) {
	switch c := container.(type) {
	case *ListValue:
		return containsValue(c.Elements, item), nil
	case TupleValue:
		return containsValue(c.Elements, item), nil
	case StringValue:
		s, ok := item.(StringValue)
		if !ok {
			return false, fmt.Errorf("'in <string>' requires string as left operand, not %s", TypeName(item))
		}
		return strings.Contains(c.Val, s.Val), nil
	case *DictValue:
		_, found, err := c.Get(item)
		return found, err
	case *SetValue:
		return c.Has(item)
	default:
		return false, fmt.Errorf("argument of type '%s' is not iterable", TypeName(container))
	}
}

func containsValue(values []Value, item Value) bool {
	for _, v := range values {
		if Equal(v, item) {
			return true
		}
	}
	return false
}

// Iterate lists the elements a for loop visits: list and tuple elements,
// string characters, dict keys or set members.
func Iterate(v Value) ([]Value, error) {
	switch val := v.(type) {
	case *ListValue:
		return append([]Value(nil), val.Elements...), nil
	case TupleValue:
		return val.Elements, nil
	case StringValue:
		out := make([]Value, 0, len(val.Val))
		for _, r := range val.Val {
			out = append(out, StringValue{Val: string(r)})
		}
		return out, nil
	case *DictValue:
		return val.Keys(), nil
	case *SetValue:
		return val.Members(), nil
	default:
		return nil, fmt.Errorf("'%s' object is not iterable", TypeName(v))
	}
}
