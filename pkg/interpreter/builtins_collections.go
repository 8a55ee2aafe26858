package interpreter

import (
	"slices"

	"virtolang/interpreter-go/pkg/runtime"
)

func (i *Interpreter) registerCollectionBuiltins(r builtinRegistry) {
	r.add("sorted", "iterable", "Return a new sorted list of the items.",
		func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			items, err := argIterable(args, 0)
			if err != nil {
				return nil, err
			}
			return sortValues(items)
		})

	r.add("reverse", "iterable", "Return a new list with the items in reverse order.",
		func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			items, err := argIterable(args, 0)
			if err != nil {
				return nil, err
			}
			out := slices.Clone(items)
			slices.Reverse(out)
			return runtime.NewList(out), nil
		})

	r.add("append", "l, x", "Append x to the list in place and return the list.",
		func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			l, err := argList(args, 0, "l")
			if err != nil {
				return nil, err
			}
			l.Elements = append(l.Elements, args[1])
			return l, nil
		})

	r.add("pop", "l, index=", "Remove and return the item at index (default last).",
		func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			l, err := argList(args, 0, "l")
			if err != nil {
				return nil, err
			}
			if len(l.Elements) == 0 {
				return nil, indexErrorf("pop from empty list")
			}
			idx := int64(len(l.Elements) - 1)
			if _, ok := optionalArg(args, 1); ok {
				if idx, err = argInt(args, 1, "index"); err != nil {
					return nil, err
				}
			}
			if idx < 0 {
				idx += int64(len(l.Elements))
			}
			if idx < 0 || idx >= int64(len(l.Elements)) {
				return nil, indexErrorf("pop index out of range")
			}
			val := l.Elements[idx]
			l.Elements = slices.Delete(l.Elements, int(idx), int(idx)+1)
			return val, nil
		})

	r.add("set", "*args", "Build a set from the arguments.",
		func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			set, err := runtime.NewSet(args)
			if err != nil {
				return nil, typeErrorf("%s", err.Error())
			}
			return set, nil
		})

	r.add("tuple", "*args", "Build a tuple from the arguments.",
		func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			return runtime.TupleValue{Elements: slices.Clone(args)}, nil
		})

	r.add("list", "x=", "Build a list from an iterable.",
		func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			if _, ok := optionalArg(args, 0); !ok {
				return runtime.NewList(nil), nil
			}
			items, err := argIterable(args, 0)
			if err != nil {
				return nil, err
			}
			return runtime.NewList(slices.Clone(items)), nil
		})

	r.add("keys", "d", "Return the keys of a dict as a list.", dictKeys)
	r.add("dict_keys", "d", "Return the keys of a dict as a list.", dictKeys)

	r.add("dict_values", "d", "Return the values of a dict as a list.",
		func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			d, err := argDict(args, 0, "d")
			if err != nil {
				return nil, err
			}
			return runtime.NewList(d.Values()), nil
		})

	r.add("dict", "source=", "Build a dict, copying another dict or a list of pairs.",
		func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			out := runtime.NewDict()
			source, ok := optionalArg(args, 0)
			if !ok {
				return out, nil
			}
			if d, isDict := source.(*runtime.DictValue); isDict {
				for _, k := range d.Keys() {
					v, _, _ := d.Get(k)
					if err := out.Set(k, v); err != nil {
						return nil, typeErrorf("%s", err.Error())
					}
				}
				return out, nil
			}
			items, err := argIterable(args, 0)
			if err != nil {
				return nil, err
			}
			for idx, item := range items {
				pair, err := runtime.Iterate(item)
				if err != nil || len(pair) != 2 {
					return nil, valueErrorf("dictionary update sequence element #%d has wrong length; 2 is required", idx)
				}
				if err := out.Set(pair[0], pair[1]); err != nil {
					return nil, typeErrorf("%s", err.Error())
				}
			}
			return out, nil
		})

	r.add("dict_get", "d, key, default=", "Return d[key], or default when the key is missing.",
		func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			d, err := argDict(args, 0, "d")
			if err != nil {
				return nil, err
			}
			val, found, err := d.Get(args[1])
			if err != nil {
				return nil, typeErrorf("%s", err.Error())
			}
			if found {
				return val, nil
			}
			if def, ok := optionalArg(args, 2); ok {
				return def, nil
			}
			return runtime.Null, nil
		})

	r.add("dict_set", "d, key, value", "Set d[key] = value and return the dict.",
		func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			d, err := argDict(args, 0, "d")
			if err != nil {
				return nil, err
			}
			if err := d.Set(args[1], args[2]); err != nil {
				return nil, typeErrorf("%s", err.Error())
			}
			return d, nil
		})

	r.add("slice", "x, start, end=", "Return x[start:end] for lists, tuples and strings.",
		func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			start, err := argInt(args, 1, "start")
			if err != nil {
				return nil, err
			}
			var end *int64
			if _, ok := optionalArg(args, 2); ok {
				e, err := argInt(args, 2, "end")
				if err != nil {
					return nil, err
				}
				end = &e
			}
			switch x := args[0].(type) {
			case *runtime.ListValue:
				lo, hi := sliceBounds(start, end, len(x.Elements))
				return runtime.NewList(slices.Clone(x.Elements[lo:hi])), nil
			case runtime.TupleValue:
				lo, hi := sliceBounds(start, end, len(x.Elements))
				return runtime.TupleValue{Elements: slices.Clone(x.Elements[lo:hi])}, nil
			case runtime.StringValue:
				runes := []rune(x.Val)
				lo, hi := sliceBounds(start, end, len(runes))
				return runtime.StringValue{Val: string(runes[lo:hi])}, nil
			default:
				return nil, typeErrorf("'%s' object is not subscriptable", runtime.TypeName(args[0]))
			}
		})
}

func dictKeys(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	d, err := argDict(args, 0, "d")
	if err != nil {
		return nil, err
	}
	return runtime.NewList(d.Keys()), nil
}

// sliceBounds clamps Python-style slice bounds to [0, length].
func sliceBounds(start int64, end *int64, length int) (int, int) {
	clamp := func(n int64) int {
		if n < 0 {
			n += int64(length)
		}
		if n < 0 {
			return 0
		}
		if n > int64(length) {
			return length
		}
		return int(n)
	}
	lo, hi := clamp(start), length
	if end != nil {
		hi = clamp(*end)
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

// sortValues sorts a copy of items, failing on the first incomparable pair.
func sortValues(items []runtime.Value) (runtime.Value, error) {
	out := slices.Clone(items)
	var sortErr error
	slices.SortStableFunc(out, func(a, b runtime.Value) int {
		cmp, ok := runtime.Compare(a, b)
		if !ok && sortErr == nil {
			sortErr = typeErrorf("'<' not supported between instances of '%s' and '%s'", runtime.TypeName(a), runtime.TypeName(b))
		}
		return cmp
	})
	if sortErr != nil {
		return nil, sortErr
	}
	return runtime.NewList(out), nil
}
