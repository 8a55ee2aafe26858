package interpreter

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"virtolang/interpreter-go/pkg/runtime"
)

var (
	superscriptDigits = strings.NewReplacer("0", "⁰", "1", "¹", "2", "²", "3", "³", "4", "⁴", "5", "⁵", "6", "⁶", "7", "⁷", "8", "⁸", "9", "⁹")
	subscriptDigits   = strings.NewReplacer("0", "₀", "1", "₁", "2", "₂", "3", "₃", "4", "₄", "5", "₅", "6", "₆", "7", "₇", "8", "₈", "9", "₉")
)

// stringFunc adapts a str -> value function into a builtin taking "s".
func stringFunc(fn func(string) runtime.Value) runtime.NativeFunc {
	return func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		s, err := argString(args, 0, "s")
		if err != nil {
			return nil, err
		}
		return fn(s), nil
	}
}

func stringPredicate(pred func(string) bool) runtime.NativeFunc {
	return stringFunc(func(s string) runtime.Value {
		return runtime.BoolValue{Val: pred(s)}
	})
}

func (i *Interpreter) registerStringBuiltins(r builtinRegistry) {
	r.add("join", "iterable, sep=", "Join the string forms of items with sep.",
		func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			items, err := argIterable(args, 0)
			if err != nil {
				return nil, err
			}
			sep := ""
			if _, ok := optionalArg(args, 1); ok {
				if sep, err = argString(args, 1, "sep"); err != nil {
					return nil, err
				}
			}
			parts := make([]string, len(items))
			for idx, item := range items {
				parts[idx] = runtime.ToString(item)
			}
			return runtime.StringValue{Val: strings.Join(parts, sep)}, nil
		})

	r.add("split", "s, sep=", "Split s on sep, or on runs of whitespace when sep is null.",
		func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			s, err := argString(args, 0, "s")
			if err != nil {
				return nil, err
			}
			if _, ok := optionalArg(args, 1); !ok {
				return stringList(strings.Fields(s)), nil
			}
			sep, err := argString(args, 1, "sep")
			if err != nil {
				return nil, err
			}
			if sep == "" {
				return nil, valueErrorf("empty separator")
			}
			return stringList(strings.Split(s, sep)), nil
		})

	r.add("strip", "s, chars=", "Remove leading and trailing whitespace (or chars).",
		func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			s, err := argString(args, 0, "s")
			if err != nil {
				return nil, err
			}
			if _, ok := optionalArg(args, 1); ok {
				chars, err := argString(args, 1, "chars")
				if err != nil {
					return nil, err
				}
				return runtime.StringValue{Val: strings.Trim(s, chars)}, nil
			}
			return runtime.StringValue{Val: strings.TrimSpace(s)}, nil
		})

	r.add("startswith", "s, prefix", "Report whether s starts with prefix.", stringPair("prefix", strings.HasPrefix))
	r.add("endswith", "s, suffix", "Report whether s ends with suffix.", stringPair("suffix", strings.HasSuffix))

	r.add("find", "s, sub", "Return the index of the first occurrence of sub, or -1.",
		func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			s, err := argString(args, 0, "s")
			if err != nil {
				return nil, err
			}
			sub, err := argString(args, 1, "sub")
			if err != nil {
				return nil, err
			}
			idx := strings.Index(s, sub)
			if idx < 0 {
				return runtime.IntegerValue{Val: -1}, nil
			}
			return runtime.IntegerValue{Val: int64(utf8.RuneCountInString(s[:idx]))}, nil
		})

	r.add("replace", "s, old, new", "Replace every occurrence of old with new.",
		func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			s, err := argString(args, 0, "s")
			if err != nil {
				return nil, err
			}
			old, err := argString(args, 1, "old")
			if err != nil {
				return nil, err
			}
			repl, err := argString(args, 2, "new")
			if err != nil {
				return nil, err
			}
			return runtime.StringValue{Val: strings.ReplaceAll(s, old, repl)}, nil
		})

	r.add("upper", "s", "Return s in upper case.", stringFunc(func(s string) runtime.Value {
		return runtime.StringValue{Val: cases.Upper(language.Und).String(s)}
	}))
	r.add("lower", "s", "Return s in lower case.", stringFunc(func(s string) runtime.Value {
		return runtime.StringValue{Val: cases.Lower(language.Und).String(s)}
	}))
	r.add("capitalize", "s", "Upper-case the first character and lower-case the rest.", stringFunc(func(s string) runtime.Value {
		if s == "" {
			return runtime.StringValue{Val: s}
		}
		_, size := utf8.DecodeRuneInString(s)
		head := cases.Title(language.Und).String(s[:size])
		return runtime.StringValue{Val: head + cases.Lower(language.Und).String(s[size:])}
	}))
	r.add("title", "s", "Upper-case the first letter of every word.", stringFunc(func(s string) runtime.Value {
		return runtime.StringValue{Val: cases.Title(language.Und).String(s)}
	}))

	r.add("isalpha", "s", "Report whether s is non-empty and all letters.", stringPredicate(allRunes(unicode.IsLetter)))
	r.add("isdigit", "s", "Report whether s is non-empty and all digits.", stringPredicate(allRunes(unicode.IsDigit)))
	r.add("isnumeric", "s", "Report whether s is non-empty and all numeric characters.", stringPredicate(allRunes(unicode.IsNumber)))
	r.add("isspace", "s", "Report whether s is non-empty and all whitespace.", stringPredicate(allRunes(unicode.IsSpace)))
	r.add("isalnum", "s", "Report whether s is non-empty and all letters or digits.", stringPredicate(allRunes(func(c rune) bool {
		return unicode.IsLetter(c) || unicode.IsNumber(c)
	})))
	r.add("isupper", "s", "Report whether s has cased characters and all of them are upper case.", stringPredicate(func(s string) bool {
		return casedAs(s, unicode.IsUpper, unicode.IsLower)
	}))
	r.add("islower", "s", "Report whether s has cased characters and all of them are lower case.", stringPredicate(func(s string) bool {
		return casedAs(s, unicode.IsLower, unicode.IsUpper)
	}))

	r.add("superscript", "x", "Replace the digits of str(x) with superscript digits.",
		func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			return runtime.StringValue{Val: superscriptDigits.Replace(runtime.ToString(args[0]))}, nil
		})
	r.add("subscript", "x", "Replace the digits of str(x) with subscript digits.",
		func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			return runtime.StringValue{Val: subscriptDigits.Replace(runtime.ToString(args[0]))}, nil
		})

	r.add("format", "s, *args", "Substitute positional arguments into {} fields of s.",
		func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			template, err := argString(args, 0, "s")
			if err != nil {
				return nil, err
			}
			out, err := formatTemplate(template, args[1:], nil)
			if err != nil {
				return nil, err
			}
			return runtime.StringValue{Val: out}, nil
		})

	r.addCooperative("fstring", "s", "Substitute variables of the calling scope into {name} fields of s.",
		func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			template, err := argString(args, 0, "s")
			if err != nil {
				return nil, err
			}
			out, err := formatTemplate(template, nil, func(name string) (runtime.Value, bool) {
				if ctx == nil || ctx.Env == nil {
					return nil, false
				}
				return ctx.Env.Get(name)
			})
			if err != nil {
				return nil, err
			}
			return runtime.StringValue{Val: out}, nil
		})
}

func stringPair(param string, fn func(string, string) bool) runtime.NativeFunc {
	return func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		s, err := argString(args, 0, "s")
		if err != nil {
			return nil, err
		}
		other, err := argString(args, 1, param)
		if err != nil {
			return nil, err
		}
		return runtime.BoolValue{Val: fn(s, other)}, nil
	}
}

func allRunes(pred func(rune) bool) func(string) bool {
	return func(s string) bool {
		if s == "" {
			return false
		}
		for _, c := range s {
			if !pred(c) {
				return false
			}
		}
		return true
	}
}

func casedAs(s string, want, reject func(rune) bool) bool {
	cased := false
	for _, c := range s {
		if reject(c) {
			return false
		}
		if want(c) {
			cased = true
		}
	}
	return cased
}
