package interpreter

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"virtolang/interpreter-go/pkg/runtime"
)

var openFlags = map[string]int{
	"r":  os.O_RDONLY,
	"w":  os.O_WRONLY | os.O_CREATE | os.O_TRUNC,
	"a":  os.O_WRONLY | os.O_CREATE | os.O_APPEND,
	"r+": os.O_RDWR,
	"w+": os.O_RDWR | os.O_CREATE | os.O_TRUNC,
	"a+": os.O_RDWR | os.O_CREATE | os.O_APPEND,
}

func (i *Interpreter) registerIOBuiltins(r builtinRegistry) {
	r.add("open", "filename, mode=", "Open a file; mode is one of r, w, a, r+, w+, a+.",
		func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			name, err := argString(args, 0, "filename")
			if err != nil {
				return nil, err
			}
			mode := "r"
			if _, ok := optionalArg(args, 1); ok {
				if mode, err = argString(args, 1, "mode"); err != nil {
					return nil, err
				}
			}
			flag, ok := openFlags[mode]
			if !ok {
				return nil, valueErrorf("invalid mode: '%s'", mode)
			}
			file, err := i.opts.FS.OpenFile(i.hostPath(name), flag, 0o644)
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					return nil, ioErrorf("[Errno 2] No such file or directory: '%s'", name)
				}
				return nil, ioErrorf("%s", err.Error())
			}
			return runtime.NewFileValue(name, mode, file), nil
		})

	r.add("read", "f", "Read the rest of an open file.",
		func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			f, err := argFile(args, 0)
			if err != nil {
				return nil, err
			}
			text, err := f.Read()
			if err != nil {
				return nil, ioErrorf("%s", err.Error())
			}
			return runtime.StringValue{Val: text}, nil
		})

	r.add("write", "f, data", "Write the string form of data and return the count written.",
		func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			f, err := argFile(args, 0)
			if err != nil {
				return nil, err
			}
			n, err := f.Write(runtime.ToString(args[1]))
			if err != nil {
				return nil, ioErrorf("%s", err.Error())
			}
			return runtime.IntegerValue{Val: int64(n)}, nil
		})

	r.add("close", "f", "Close an open file.",
		func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			f, err := argFile(args, 0)
			if err != nil {
				return nil, err
			}
			if err := f.Close(); err != nil {
				return nil, ioErrorf("%s", err.Error())
			}
			return runtime.Null, nil
		})
}

// hostPath resolves a script-relative file name against the working directory.
func (i *Interpreter) hostPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(i.opts.WorkDir, name)
}

func argFile(args []runtime.Value, idx int) (*runtime.FileValue, error) {
	f, ok := args[idx].(*runtime.FileValue)
	if !ok {
		return nil, typeErrorf("expected a file object, got %s", runtime.TypeName(args[idx]))
	}
	return f, nil
}
