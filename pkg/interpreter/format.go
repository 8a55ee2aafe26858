package interpreter

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"virtolang/interpreter-go/pkg/runtime"
)

// formatTemplate expands {} fields the way str.format does: automatic or
// explicit positional indices, named fields through lookup, !r/!s
// conversions and a format spec after ':'. Doubled braces are literal.
func formatTemplate(template string, positional []runtime.Value, lookup func(string) (runtime.Value, bool)) (string, error) {
	var b strings.Builder
	auto, manual := 0, false
	usedAuto := false
	for pos := 0; pos < len(template); {
		c := template[pos]
		switch {
		case c == '{' && pos+1 < len(template) && template[pos+1] == '{':
			b.WriteByte('{')
			pos += 2
		case c == '}' && pos+1 < len(template) && template[pos+1] == '}':
			b.WriteByte('}')
			pos += 2
		case c == '}':
			return "", valueErrorf("Single '}' encountered in format string")
		case c == '{':
			end := strings.IndexByte(template[pos:], '}')
			if end < 0 {
				return "", valueErrorf("Single '{' encountered in format string")
			}
			field := template[pos+1 : pos+end]
			pos += end + 1

			name, spec, _ := strings.Cut(field, ":")
			name, conversion, _ := strings.Cut(name, "!")
			name = strings.TrimSpace(name)

			var val runtime.Value
			switch {
			case name == "":
				if manual {
					return "", valueErrorf("cannot switch from manual field specification to automatic field numbering")
				}
				usedAuto = true
				if auto >= len(positional) {
					return "", indexErrorf("Replacement index %d out of range for positional args tuple", auto)
				}
				val = positional[auto]
				auto++
			case isDigits(name):
				if usedAuto {
					return "", valueErrorf("cannot switch from automatic field numbering to manual field specification")
				}
				manual = true
				idx, _ := strconv.Atoi(name)
				if idx >= len(positional) {
					return "", indexErrorf("Replacement index %d out of range for positional args tuple", idx)
				}
				val = positional[idx]
			default:
				found := false
				if lookup != nil {
					val, found = lookup(name)
				}
				if !found {
					return "", builtinError{typeName: "KeyError", message: "'" + name + "'"}
				}
			}

			switch conversion {
			case "":
			case "r":
				val = runtime.StringValue{Val: runtime.Repr(val)}
			case "s":
				val = runtime.StringValue{Val: runtime.ToString(val)}
			default:
				return "", valueErrorf("Unknown conversion specifier %s", conversion)
			}
			text, err := applyFormatSpec(val, spec)
			if err != nil {
				return "", err
			}
			b.WriteString(text)
		default:
			b.WriteByte(c)
			pos++
		}
	}
	return b.String(), nil
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return s != ""
}

type formatSpec struct {
	fill      rune
	align     byte
	sign      byte
	width     int
	grouping  bool
	precision int
	verb      byte
}

func parseFormatSpec(spec string) (formatSpec, error) {
	fs := formatSpec{fill: ' ', precision: -1}
	rest := spec
	isAlign := func(c byte) bool { return c == '<' || c == '>' || c == '^' || c == '=' }
	if r, size := utf8.DecodeRuneInString(rest); size > 0 && len(rest) > size && isAlign(rest[size]) {
		fs.fill, fs.align = r, rest[size]
		rest = rest[size+1:]
	} else if rest != "" && isAlign(rest[0]) {
		fs.align = rest[0]
		rest = rest[1:]
	}
	if rest != "" && (rest[0] == '+' || rest[0] == '-' || rest[0] == ' ') {
		fs.sign = rest[0]
		rest = rest[1:]
	}
	if rest != "" && rest[0] == '0' {
		if fs.align == 0 {
			fs.fill, fs.align = '0', '='
		}
		rest = rest[1:]
	}
	digits := 0
	for digits < len(rest) && rest[digits] >= '0' && rest[digits] <= '9' {
		digits++
	}
	if digits > 0 {
		fs.width, _ = strconv.Atoi(rest[:digits])
		rest = rest[digits:]
	}
	if rest != "" && rest[0] == ',' {
		fs.grouping = true
		rest = rest[1:]
	}
	if rest != "" && rest[0] == '.' {
		digits = 1
		for digits < len(rest) && rest[digits] >= '0' && rest[digits] <= '9' {
			digits++
		}
		if digits == 1 {
			return fs, valueErrorf("Format specifier missing precision")
		}
		fs.precision, _ = strconv.Atoi(rest[1:digits])
		rest = rest[digits:]
	}
	if len(rest) > 1 {
		return fs, valueErrorf("Invalid format specifier '%s'", spec)
	}
	if rest != "" {
		fs.verb = rest[0]
	}
	return fs, nil
}

func applyFormatSpec(val runtime.Value, spec string) (string, error) {
	if spec == "" {
		return runtime.ToString(val), nil
	}
	fs, err := parseFormatSpec(spec)
	if err != nil {
		return "", err
	}

	numeric := runtime.IsNumeric(val)
	var body, sign string
	switch fs.verb {
	case 'f', 'F', 'e', 'E', 'g', 'G', '%':
		f, ok := runtime.AsFloat(val)
		if !ok {
			return "", valueErrorf("Unknown format code '%c' for object of type '%s'", fs.verb, runtime.TypeName(val))
		}
		body, sign = formatFloatVerb(f, fs)
	case 'd', 'x', 'X', 'o', 'b':
		n, ok := val.(runtime.IntegerValue)
		if !ok {
			if b, isBool := val.(runtime.BoolValue); isBool {
				n.Val, _ = runtime.AsInt(b)
			} else {
				return "", valueErrorf("Unknown format code '%c' for object of type '%s'", fs.verb, runtime.TypeName(val))
			}
		}
		body, sign = formatIntVerb(n.Val, fs)
	case 's', 0:
		if fs.verb == 0 && numeric {
			if f, isFloat := val.(runtime.FloatValue); isFloat && fs.precision >= 0 {
				fs.verb = 'g'
				body, sign = formatFloatVerb(f.Val, fs)
				break
			}
			if n, isInt := runtime.AsInt(val); isInt {
				body, sign = formatIntVerb(n, fs)
				break
			}
			f, _ := runtime.AsFloat(val)
			sign, body = splitSign(runtime.FormatFloat(f), fs.sign)
			break
		}
		if fs.verb == 's' && numeric {
			return "", valueErrorf("Unknown format code 's' for object of type '%s'", runtime.TypeName(val))
		}
		body = runtime.ToString(val)
		if fs.precision >= 0 && utf8.RuneCountInString(body) > fs.precision {
			body = string([]rune(body)[:fs.precision])
		}
		numeric = false
	default:
		return "", valueErrorf("Unknown format code '%c' for object of type '%s'", fs.verb, runtime.TypeName(val))
	}

	align := fs.align
	if align == 0 {
		align = '<'
		if numeric {
			align = '>'
		}
	}
	pad := fs.width - utf8.RuneCountInString(sign+body)
	if pad <= 0 {
		return sign + body, nil
	}
	fill := strings.Repeat(string(fs.fill), pad)
	switch align {
	case '>':
		return fill + sign + body, nil
	case '^':
		left := strings.Repeat(string(fs.fill), pad/2)
		right := strings.Repeat(string(fs.fill), pad-pad/2)
		return left + sign + body + right, nil
	case '=':
		return sign + fill + body, nil
	default:
		return sign + body + fill, nil
	}
}

func formatFloatVerb(f float64, fs formatSpec) (string, string) {
	prec := fs.precision
	if prec < 0 {
		prec = 6
	}
	var text string
	switch fs.verb {
	case 'f', 'F':
		text = strconv.FormatFloat(f, 'f', prec, 64)
	case 'e', 'E':
		text = strconv.FormatFloat(f, 'e', prec, 64)
	case 'g', 'G':
		if prec == 0 {
			prec = 1
		}
		text = strconv.FormatFloat(f, 'g', prec, 64)
	case '%':
		text = strconv.FormatFloat(f*100, 'f', prec, 64) + "%"
	}
	if math.IsInf(f, 0) {
		text = strings.Replace(text, "Inf", "inf", 1)
	} else if math.IsNaN(f) {
		text = "nan"
	}
	if fs.verb == 'F' || fs.verb == 'E' || fs.verb == 'G' {
		text = strings.ToUpper(text)
	}
	sign, body := splitSign(text, fs.sign)
	if fs.grouping {
		body = groupThousands(body)
	}
	return body, sign
}

func formatIntVerb(n int64, fs formatSpec) (string, string) {
	var text string
	switch fs.verb {
	case 'x':
		text = strconv.FormatInt(n, 16)
	case 'X':
		text = strings.ToUpper(strconv.FormatInt(n, 16))
	case 'o':
		text = strconv.FormatInt(n, 8)
	case 'b':
		text = strconv.FormatInt(n, 2)
	default:
		text = strconv.FormatInt(n, 10)
	}
	sign, body := splitSign(text, fs.sign)
	if fs.grouping {
		body = groupThousands(body)
	}
	return body, sign
}

// splitSign separates a leading minus and applies the requested sign mode.
func splitSign(text string, mode byte) (string, string) {
	if strings.HasPrefix(text, "-") {
		return "-", text[1:]
	}
	text = strings.TrimPrefix(text, "+")
	switch mode {
	case '+':
		return "+", text
	case ' ':
		return " ", text
	default:
		return "", text
	}
}

func groupThousands(body string) string {
	intPart, frac := body, ""
	if dot := strings.IndexAny(body, ".eE%"); dot >= 0 {
		intPart, frac = body[:dot], body[dot:]
	}
	if len(intPart) <= 3 {
		return body
	}
	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for k := lead; k < len(intPart); k += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[k : k+3])
	}
	return b.String() + frac
}
