package runtime

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// TypeName is what the type() builtin reports. Exceptions report their own
// type name.
func TypeName(v Value) string {
	if e, ok := v.(ErrorValue); ok {
		return e.TypeName
	}
	return v.Kind().String()
}

// ToString renders v the way print and str() show it.
func ToString(v Value) string {
	switch val := v.(type) {
	case StringValue:
		return val.Val
	case ErrorValue:
		if val.TypeName == "Error" {
			return "Error: " + val.Message
		}
		return val.Message
	default:
		return Repr(v)
	}
}

// Repr renders v as it appears inside containers.
func Repr(v Value) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case NullValue:
		return "null"
	case BoolValue:
		if val.Val {
			return "true"
		}
		return "false"
	case IntegerValue:
		return strconv.FormatInt(val.Val, 10)
	case FloatValue:
		return FormatFloat(val.Val)
	case StringValue:
		return quote(val.Val)
	case *ListValue:
		return "[" + joinRepr(val.Elements) + "]"
	case TupleValue:
		if len(val.Elements) == 1 {
			return "(" + Repr(val.Elements[0]) + ",)"
		}
		return "(" + joinRepr(val.Elements) + ")"
	case *SetValue:
		if val.Len() == 0 {
			return "set()"
		}
		return "{" + joinRepr(val.Members()) + "}"
	case *DictValue:
		parts := make([]string, val.Len())
		for i, k := range val.keys {
			parts[i] = Repr(k) + ": " + Repr(val.values[i])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case *FunctionValue:
		if val.IsAsync() {
			return fmt.Sprintf("<async function %s>", val.Name())
		}
		return fmt.Sprintf("<function %s>", val.Name())
	case NativeFunctionValue:
		return fmt.Sprintf("<built-in function %s>", val.Name)
	case *TaskValue:
		return fmt.Sprintf("<Task %s>", val.Status())
	case *FileValue:
		state := "open"
		if val.Closed() {
			state = "closed"
		}
		return fmt.Sprintf("<%s file %s mode=%s>", state, quote(val.Name), quote(val.Mode))
	case ErrorValue:
		return fmt.Sprintf("%s(%s)", val.TypeName, quote(val.Message))
	case *ResponseValue:
		return fmt.Sprintf("<Response [%d]>", val.StatusCode)
	default:
		return fmt.Sprintf("<%s>", v.Kind())
	}
}

// FormatFloat prints floats the way the language always has: integral values
// keep a trailing ".0", exponents appear only for very large or small values.
func FormatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	abs := math.Abs(f)
	if abs != 0 && (abs >= 1e16 || abs < 1e-4) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".") {
		s += ".0"
	}
	return s
}

func joinRepr(values []Value) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = Repr(v)
	}
	return strings.Join(parts, ", ")
}

func quote(s string) string {
	q := byte('\'')
	if strings.Contains(s, "'") && !strings.Contains(s, "\"") {
		q = '"'
	}
	var b strings.Builder
	b.WriteByte(q)
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			if r == rune(q) {
				b.WriteByte('\\')
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte(q)
	return b.String()
}
