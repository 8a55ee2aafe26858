package interpreter

import (
	"math"
	"time"

	"github.com/lestrrat-go/strftime"

	"virtolang/interpreter-go/pkg/runtime"
)

const isoLayout = "2006-01-02T15:04:05.000000"

func (i *Interpreter) registerTimeBuiltins(r builtinRegistry) {
	r.add("sleep", "seconds", "Block for the given number of seconds.",
		func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			secs, err := argFloat(args, 0, "seconds")
			if err != nil {
				return nil, err
			}
			if secs < 0 || math.IsNaN(secs) {
				return nil, valueErrorf("sleep length must be non-negative")
			}
			time.Sleep(time.Duration(secs * float64(time.Second)))
			return runtime.Null, nil
		})
	r.alias("time_sleep", "sleep")

	r.add("time", "", "Return seconds since the epoch as a float.",
		func(_ *runtime.NativeCallContext, _ []runtime.Value) (runtime.Value, error) {
			now := i.opts.Clock()
			return runtime.FloatValue{Val: float64(now.UnixNano()) / float64(time.Second)}, nil
		})
	r.add("time_timestamp", "", "Return whole seconds since the epoch.",
		func(_ *runtime.NativeCallContext, _ []runtime.Value) (runtime.Value, error) {
			return runtime.IntegerValue{Val: i.opts.Clock().Unix()}, nil
		})

	r.add("now", "", "Return the local time in ISO 8601 form.",
		func(_ *runtime.NativeCallContext, _ []runtime.Value) (runtime.Value, error) {
			return runtime.StringValue{Val: i.opts.Clock().Format(isoLayout)}, nil
		})

	r.add("strftime", "fmt", "Format the local time with a strftime pattern.",
		func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			pattern, err := argString(args, 0, "fmt")
			if err != nil {
				return nil, err
			}
			return formatTime(pattern, i.opts.Clock())
		})

	r.add("time_now", "", "Return the local time as YYYY-MM-DD HH:MM:SS.",
		func(_ *runtime.NativeCallContext, _ []runtime.Value) (runtime.Value, error) {
			return formatTime("%Y-%m-%d %H:%M:%S", i.opts.Clock())
		})
	r.add("time_utcnow", "", "Return the UTC time as YYYY-MM-DD HH:MM:SS.",
		func(_ *runtime.NativeCallContext, _ []runtime.Value) (runtime.Value, error) {
			return formatTime("%Y-%m-%d %H:%M:%S", i.opts.Clock().UTC())
		})
}

func formatTime(pattern string, t time.Time) (runtime.Value, error) {
	out, err := strftime.Format(pattern, t)
	if err != nil {
		return nil, valueErrorf("%s", err.Error())
	}
	return runtime.StringValue{Val: out}, nil
}
