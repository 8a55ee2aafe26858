package runtime

import (
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/go-git/go-billy/v5"

	"virtolang/interpreter-go/pkg/ast"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInteger
	KindFloat
	KindString
	KindList
	KindDict
	KindSet
	KindTuple
	KindFunction
	KindNativeFunction
	KindTask
	KindFile
	KindError
	KindResponse
)

// String returns the name reported by the type() builtin.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "NoneType"
	case KindBool:
		return "bool"
	case KindInteger:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "str"
	case KindList:
		return "list"
	case KindDict:
		return "dict"
	case KindSet:
		return "set"
	case KindTuple:
		return "tuple"
	case KindFunction:
		return "function"
	case KindNativeFunction:
		return "builtin_function_or_method"
	case KindTask:
		return "Task"
	case KindFile:
		return "file"
	case KindError:
		return "Error"
	case KindResponse:
		return "Response"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

// Closer is implemented by values that release a resource when a with block
// exits.
type Closer interface {
	Close() error
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type NullValue struct{}

func (NullValue) Kind() Kind { return KindNull }

// Null is the canonical null value.
var Null Value = NullValue{}

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }

type IntegerValue struct {
	Val int64
}

func (v IntegerValue) Kind() Kind { return KindInteger }

type FloatValue struct {
	Val float64
}

func (v FloatValue) Kind() Kind { return KindFloat }

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

// Int, Float, Str and Bool build scalar values.
func Int(v int64) Value     { return IntegerValue{Val: v} }
func Float(v float64) Value { return FloatValue{Val: v} }
func Str(v string) Value    { return StringValue{Val: v} }
func Bool(v bool) Value     { return BoolValue{Val: v} }

//-----------------------------------------------------------------------------
// Collections
//-----------------------------------------------------------------------------

// ListValue is shared by reference: every binding holding it sees mutations.
type ListValue struct {
	Elements []Value
}

func (v *ListValue) Kind() Kind { return KindList }

// NewList wraps elements without copying.
func NewList(elements []Value) *ListValue {
	if elements == nil {
		elements = make([]Value, 0)
	}
	return &ListValue{Elements: elements}
}

// TupleValue is an immutable sequence.
type TupleValue struct {
	Elements []Value
}

func (v TupleValue) Kind() Kind { return KindTuple }

//-----------------------------------------------------------------------------
// Functions
//-----------------------------------------------------------------------------

// FunctionValue is a user function. Closure is the live environment the
// function was declared in; each call runs in a clone of it.
type FunctionValue struct {
	Declaration *ast.FunctionDefinition
	Closure     *Environment
}

func (v *FunctionValue) Kind() Kind { return KindFunction }

func (v *FunctionValue) Name() string { return v.Declaration.ID.Name }

func (v *FunctionValue) Params() []string { return v.Declaration.ParamNames() }

func (v *FunctionValue) IsAsync() bool { return v.Declaration.IsAsync }

// NativeCallContext gives native functions access to the calling scope.
type NativeCallContext struct {
	Env *Environment
}

type NativeFunc func(*NativeCallContext, []Value) (Value, error)

// NativeFunctionValue is a builtin. Params names the positional parameters;
// the first Required of them are mandatory. Variadic builtins accept any
// number of arguments beyond Required. Cooperative builtins touch interpreter
// state and are never handed to the worker pool.
type NativeFunctionValue struct {
	Name        string
	Params      []string
	Required    int
	Variadic    bool
	Cooperative bool
	Doc         string
	Impl        NativeFunc
}

func (v NativeFunctionValue) Kind() Kind { return KindNativeFunction }

//-----------------------------------------------------------------------------
// Errors
//-----------------------------------------------------------------------------

// ErrorValue is a raised or raisable exception. TypeName is matched verbatim
// by except clauses.
type ErrorValue struct {
	TypeName string
	Message  string
	Payload  Value
}

func (v ErrorValue) Kind() Kind { return KindError }

// NewError builds an exception value of the given type.
func NewError(typeName, message string) ErrorValue {
	if typeName == "" {
		typeName = "Error"
	}
	return ErrorValue{TypeName: typeName, Message: message}
}

//-----------------------------------------------------------------------------
// Files
//-----------------------------------------------------------------------------

// FileValue wraps an open billy file. Close is idempotent.
type FileValue struct {
	Name string
	Mode string

	mu     sync.Mutex
	file   billy.File
	closed bool
}

func NewFileValue(name, mode string, file billy.File) *FileValue {
	return &FileValue{Name: name, Mode: mode, file: file}
}

func (v *FileValue) Kind() Kind { return KindFile }

// Read returns the remaining contents of the file.
func (v *FileValue) Read() (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return "", fmt.Errorf("I/O operation on closed file")
	}
	data, err := io.ReadAll(v.file)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Write appends text at the current offset and returns the count written.
func (v *FileValue) Write(text string) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return 0, fmt.Errorf("I/O operation on closed file")
	}
	return v.file.Write([]byte(text))
}

func (v *FileValue) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return nil
	}
	v.closed = true
	return v.file.Close()
}

func (v *FileValue) Closed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.closed
}

//-----------------------------------------------------------------------------
// HTTP
//-----------------------------------------------------------------------------

// ResponseValue is the fully-read result of an HTTP request.
type ResponseValue struct {
	StatusCode int
	Status     string
	URL        string
	Header     http.Header
	Body       []byte
}

func (v *ResponseValue) Kind() Kind { return KindResponse }

// OK mirrors the usual "status below 400" convention.
func (v *ResponseValue) OK() bool { return v.StatusCode < 400 }
