package runtime

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// HashKey is the identity of a value used as a dict key or set member.
// Numerically equal bools, integers and integral floats share a key.
type HashKey struct {
	kind Kind
	repr string
}

// UnhashableError reports a container used as a key.
type UnhashableError struct {
	Kind Kind
}

func (e UnhashableError) Error() string {
	return fmt.Sprintf("unhashable type: '%s'", e.Kind)
}

// KeyOf computes the hash key of v.
func KeyOf(v Value) (HashKey, error) {
	switch val := v.(type) {
	case NullValue:
		return HashKey{kind: KindNull}, nil
	case BoolValue:
		if val.Val {
			return HashKey{kind: KindInteger, repr: "1"}, nil
		}
		return HashKey{kind: KindInteger, repr: "0"}, nil
	case IntegerValue:
		return HashKey{kind: KindInteger, repr: strconv.FormatInt(val.Val, 10)}, nil
	case FloatValue:
		if val.Val == math.Trunc(val.Val) && math.Abs(val.Val) < 1<<63 {
			return HashKey{kind: KindInteger, repr: strconv.FormatInt(int64(val.Val), 10)}, nil
		}
		return HashKey{kind: KindFloat, repr: strconv.FormatFloat(val.Val, 'g', -1, 64)}, nil
	case StringValue:
		return HashKey{kind: KindString, repr: val.Val}, nil
	case TupleValue:
		parts := make([]string, len(val.Elements))
		for i, el := range val.Elements {
			k, err := KeyOf(el)
			if err != nil {
				return HashKey{}, err
			}
			parts[i] = fmt.Sprintf("%d:%s", k.kind, k.repr)
		}
		return HashKey{kind: KindTuple, repr: strings.Join(parts, "\x00")}, nil
	case ErrorValue:
		return HashKey{kind: KindError, repr: val.TypeName + "\x00" + val.Message}, nil
	case NativeFunctionValue:
		return HashKey{kind: KindNativeFunction, repr: val.Name}, nil
	case *FunctionValue, *TaskValue, *FileValue, *ResponseValue:
		return HashKey{kind: v.Kind(), repr: fmt.Sprintf("%p", val)}, nil
	default:
		return HashKey{}, UnhashableError{Kind: v.Kind()}
	}
}

// DictValue is an insertion-ordered mapping shared by reference.
type DictValue struct {
	keys   []Value
	values []Value
	index  map[HashKey]int
}

func (v *DictValue) Kind() Kind { return KindDict }

func NewDict() *DictValue {
	return &DictValue{index: make(map[HashKey]int)}
}

func (v *DictValue) Len() int { return len(v.keys) }

// Get looks up key; the error is non-nil only when key is unhashable.
func (v *DictValue) Get(key Value) (Value, bool, error) {
	k, err := KeyOf(key)
	if err != nil {
		return nil, false, err
	}
	idx, ok := v.index[k]
	if !ok {
		return nil, false, nil
	}
	return v.values[idx], true, nil
}

// Set inserts or replaces key. Replacing keeps the original position.
func (v *DictValue) Set(key, value Value) error {
	k, err := KeyOf(key)
	if err != nil {
		return err
	}
	if idx, ok := v.index[k]; ok {
		v.values[idx] = value
		return nil
	}
	v.index[k] = len(v.keys)
	v.keys = append(v.keys, key)
	v.values = append(v.values, value)
	return nil
}

// Delete removes key and reports whether it was present.
func (v *DictValue) Delete(key Value) (bool, error) {
	k, err := KeyOf(key)
	if err != nil {
		return false, err
	}
	idx, ok := v.index[k]
	if !ok {
		return false, nil
	}
	v.keys = append(v.keys[:idx], v.keys[idx+1:]...)
	v.values = append(v.values[:idx], v.values[idx+1:]...)
	delete(v.index, k)
	for i := idx; i < len(v.keys); i++ {
		kk, _ := KeyOf(v.keys[i])
		v.index[kk] = i
	}
	return true, nil
}

// Keys returns a copy of the keys in insertion order.
func (v *DictValue) Keys() []Value {
	return append([]Value(nil), v.keys...)
}

// Values returns a copy of the values in insertion order.
func (v *DictValue) Values() []Value {
	return append([]Value(nil), v.values...)
}

// SetValue is an insertion-ordered set of hashable values.
type SetValue struct {
	items *DictValue
}

func (v *SetValue) Kind() Kind { return KindSet }

// NewSet builds a set, dropping duplicates and failing on unhashable members.
func NewSet(members []Value) (*SetValue, error) {
	s := &SetValue{items: NewDict()}
	for _, m := range members {
		if err := s.Add(m); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (v *SetValue) Add(member Value) error {
	return v.items.Set(member, Null)
}

func (v *SetValue) Has(member Value) (bool, error) {
	_, ok, err := v.items.Get(member)
	return ok, err
}

func (v *SetValue) Len() int { return v.items.Len() }

func (v *SetValue) Members() []Value { return v.items.Keys() }
