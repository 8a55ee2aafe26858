package interpreter

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"virtolang/interpreter-go/pkg/runtime"
)

var (
	foregroundCodes = map[string]color.Attribute{
		"BLACK": color.FgBlack, "RED": color.FgRed, "GREEN": color.FgGreen, "YELLOW": color.FgYellow,
		"BLUE": color.FgBlue, "MAGENTA": color.FgMagenta, "CYAN": color.FgCyan, "WHITE": color.FgWhite,
		"LIGHTBLACK_EX": color.FgHiBlack, "LIGHTRED_EX": color.FgHiRed, "LIGHTGREEN_EX": color.FgHiGreen,
		"LIGHTYELLOW_EX": color.FgHiYellow, "LIGHTBLUE_EX": color.FgHiBlue, "LIGHTMAGENTA_EX": color.FgHiMagenta,
		"LIGHTCYAN_EX": color.FgHiCyan, "LIGHTWHITE_EX": color.FgHiWhite,
		"RESET": 39,
	}
	backgroundCodes = map[string]color.Attribute{
		"BLACK": color.BgBlack, "RED": color.BgRed, "GREEN": color.BgGreen, "YELLOW": color.BgYellow,
		"BLUE": color.BgBlue, "MAGENTA": color.BgMagenta, "CYAN": color.BgCyan, "WHITE": color.BgWhite,
		"LIGHTBLACK_EX": color.BgHiBlack, "LIGHTRED_EX": color.BgHiRed, "LIGHTGREEN_EX": color.BgHiGreen,
		"LIGHTYELLOW_EX": color.BgHiYellow, "LIGHTBLUE_EX": color.BgHiBlue, "LIGHTMAGENTA_EX": color.BgHiMagenta,
		"LIGHTCYAN_EX": color.BgHiCyan, "LIGHTWHITE_EX": color.BgHiWhite,
		"RESET": 49,
	}
	styleCodes = map[string]color.Attribute{
		"BRIGHT":    color.Bold,
		"DIM":       color.Faint,
		"NORMAL":    color.ResetBold,
		"RESET_ALL": color.Reset,
	}
)

// escapeLookup returns the escape sequence for name, or for fallback when
// the name is unknown.
func escapeLookup(codes map[string]color.Attribute, fallback string) runtime.NativeFunc {
	return func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		name, err := argString(args, 0, "name")
		if err != nil {
			return nil, err
		}
		attr, ok := codes[strings.ToUpper(name)]
		if !ok {
			attr = codes[fallback]
		}
		return runtime.StringValue{Val: fmt.Sprintf("\x1b[%dm", attr)}, nil
	}
}

func (i *Interpreter) registerTermBuiltins(r builtinRegistry) {
	r.add("colorama_fore", "name", "Return the escape sequence for a foreground colour.", escapeLookup(foregroundCodes, "RESET"))
	r.add("colorama_back", "name", "Return the escape sequence for a background colour.", escapeLookup(backgroundCodes, "RESET"))
	r.add("colorama_style", "name", "Return the escape sequence for a text style.", escapeLookup(styleCodes, "RESET_ALL"))
}
