package interpreter

import (
	"math"
	"math/rand/v2"

	"virtolang/interpreter-go/pkg/ast"
	"virtolang/interpreter-go/pkg/runtime"
)

// floatFunc adapts a float64 function into a one-argument builtin.
func floatFunc(fn func(float64) (float64, error)) runtime.NativeFunc {
	return func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		x, err := argFloat(args, 0, "x")
		if err != nil {
			return nil, err
		}
		out, err := fn(x)
		if err != nil {
			return nil, err
		}
		return runtime.FloatValue{Val: out}, nil
	}
}

func total(fn func(float64) float64) func(float64) (float64, error) {
	return func(x float64) (float64, error) { return fn(x), nil }
}

func (i *Interpreter) registerMathBuiltins(r builtinRegistry) {
	r.add("sin", "x", "Return the sine of x (radians).", floatFunc(total(math.Sin)))
	r.add("cos", "x", "Return the cosine of x (radians).", floatFunc(total(math.Cos)))
	r.add("tan", "x", "Return the tangent of x (radians).", floatFunc(total(math.Tan)))
	r.add("exp", "x", "Return e raised to x.", floatFunc(total(math.Exp)))
	r.add("sqrt", "x", "Return the square root of x.", floatFunc(func(x float64) (float64, error) {
		if x < 0 {
			return 0, valueErrorf("math domain error")
		}
		return math.Sqrt(x), nil
	}))

	r.add("log", "x, base=", "Return the natural logarithm of x, or the logarithm in base.",
		func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			x, err := argFloat(args, 0, "x")
			if err != nil {
				return nil, err
			}
			if x <= 0 {
				return nil, valueErrorf("math domain error")
			}
			if _, ok := optionalArg(args, 1); !ok {
				return runtime.FloatValue{Val: math.Log(x)}, nil
			}
			base, err := argFloat(args, 1, "base")
			if err != nil {
				return nil, err
			}
			if base <= 0 {
				return nil, valueErrorf("math domain error")
			}
			if base == 1 {
				return nil, builtinError{typeName: "ZeroDivisionError", message: "float division by zero"}
			}
			return runtime.FloatValue{Val: math.Log(x) / math.Log(base)}, nil
		})

	r.add("pow", "x, y", "Return x raised to y as a float.",
		func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			x, err := argFloat(args, 0, "x")
			if err != nil {
				return nil, err
			}
			y, err := argFloat(args, 1, "y")
			if err != nil {
				return nil, err
			}
			out := math.Pow(x, y)
			if math.IsNaN(out) && !math.IsNaN(x) && !math.IsNaN(y) {
				return nil, valueErrorf("math domain error")
			}
			return runtime.FloatValue{Val: out}, nil
		})

	for _, name := range []string{"sin", "cos", "tan", "sqrt", "log", "exp", "pow"} {
		r.alias("math_"+name, name)
	}

	r.add("math_pi", "", "Return the constant pi.",
		func(_ *runtime.NativeCallContext, _ []runtime.Value) (runtime.Value, error) {
			return runtime.FloatValue{Val: math.Pi}, nil
		})
	r.add("math_e", "", "Return the constant e.",
		func(_ *runtime.NativeCallContext, _ []runtime.Value) (runtime.Value, error) {
			return runtime.FloatValue{Val: math.E}, nil
		})

	r.add("square", "x", "Return x squared as a float.", floatFunc(func(x float64) (float64, error) {
		return x * x, nil
	}))

	r.add("abs", "x", "Return the absolute value of a number.",
		func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			if f, ok := args[0].(runtime.FloatValue); ok {
				return runtime.FloatValue{Val: math.Abs(f.Val)}, nil
			}
			n, ok := runtime.AsInt(args[0])
			if !ok {
				return nil, typeErrorf("bad operand type for abs(): '%s'", runtime.TypeName(args[0]))
			}
			if n < 0 {
				n = -n
			}
			return runtime.IntegerValue{Val: n}, nil
		})

	r.add("mod", "a, b", "Return a modulo b.",
		func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			return arithmetic(ast.OpModulo, args[0], args[1])
		})

	r.add("sum", "iterable", "Return the sum of the items.",
		func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			items, err := argIterable(args, 0)
			if err != nil {
				return nil, err
			}
			var acc runtime.Value = runtime.IntegerValue{Val: 0}
			for _, item := range items {
				if acc, err = add(acc, item); err != nil {
					return nil, err
				}
			}
			return acc, nil
		})

	r.add("min", "iterable, *args", "Return the smallest item.", extremum("min", -1))
	r.add("max", "iterable, *args", "Return the largest item.", extremum("max", 1))

	r.add("range", "start, stop=, step=", "Return a list of integers from start up to stop by step.",
		func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			start, err := argInt(args, 0, "start")
			if err != nil {
				return nil, err
			}
			stop, step := start, int64(1)
			start = 0
			if _, ok := optionalArg(args, 1); ok {
				start = stop
				if stop, err = argInt(args, 1, "stop"); err != nil {
					return nil, err
				}
			}
			if _, ok := optionalArg(args, 2); ok {
				if step, err = argInt(args, 2, "step"); err != nil {
					return nil, err
				}
			}
			if step == 0 {
				return nil, valueErrorf("range() arg 3 must not be zero")
			}
			var out []runtime.Value
			for n := start; (step > 0 && n < stop) || (step < 0 && n > stop); n += step {
				out = append(out, runtime.IntegerValue{Val: n})
			}
			return runtime.NewList(out), nil
		})

	r.add("is_prime", "n", "Report whether n is a prime number.",
		func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			n, err := argInt(args, 0, "n")
			if err != nil {
				return nil, err
			}
			return runtime.BoolValue{Val: isPrime(n)}, nil
		})

	r.add("random", "", "Return a random float in [0.0, 1.0).",
		func(_ *runtime.NativeCallContext, _ []runtime.Value) (runtime.Value, error) {
			return runtime.FloatValue{Val: rand.Float64()}, nil
		})

	r.add("randint", "a, b", "Return a random integer N with a <= N <= b.",
		func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			a, err := argInt(args, 0, "a")
			if err != nil {
				return nil, err
			}
			b, err := argInt(args, 1, "b")
			if err != nil {
				return nil, err
			}
			if b < a {
				return nil, valueErrorf("empty range for randrange() (%d, %d, %d)", a, b+1, b+1-a)
			}
			return runtime.IntegerValue{Val: a + rand.Int64N(b-a+1)}, nil
		})

	r.add("random_choice", "seq", "Return a random element of a non-empty sequence.",
		func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			items, err := argIterable(args, 0)
			if err != nil {
				return nil, err
			}
			if len(items) == 0 {
				return nil, indexErrorf("Cannot choose from an empty sequence")
			}
			return items[rand.IntN(len(items))], nil
		})
}

// extremum implements min and max: a single iterable argument, or the
// arguments themselves when more than one is given.
func extremum(name string, want int) runtime.NativeFunc {
	return func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		items := args
		if len(args) == 1 {
			var err error
			if items, err = argIterable(args, 0); err != nil {
				return nil, err
			}
		}
		if len(items) == 0 {
			return nil, valueErrorf("%s() arg is an empty sequence", name)
		}
		op := "<"
		if want > 0 {
			op = ">"
		}
		best := items[0]
		for _, item := range items[1:] {
			cmp, ok := runtime.Compare(item, best)
			if !ok {
				return nil, typeErrorf("'%s' not supported between instances of '%s' and '%s'",
					op, runtime.TypeName(item), runtime.TypeName(best))
			}
			if cmp == want {
				best = item
			}
		}
		return best, nil
	}
}

func isPrime(n int64) bool {
	if n < 2 {
		return false
	}
	if n%2 == 0 {
		return n == 2
	}
	for d := int64(3); d*d <= n; d += 2 {
		if n%d == 0 {
			return false
		}
	}
	return true
}
