package interpreter

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"virtolang/interpreter-go/pkg/ast"
	"virtolang/interpreter-go/pkg/diagnostics"
	"virtolang/interpreter-go/pkg/driver"
	"virtolang/interpreter-go/pkg/runtime"
)

// Version is reported by --version.
const Version = "2.4"

// maxCallDepth bounds user function nesting.
const maxCallDepth = 2000

// Options configures an Interpreter. Zero values select the process
// defaults (OS filesystem, standard streams, current directory).
type Options struct {
	FS     billy.Filesystem
	Stdout io.Writer
	Stdin  io.Reader
	Logger *slog.Logger

	// SearchRoot holds the packages directory used by import.
	SearchRoot string
	// WorkDir anchors relative file paths given to open, run and import "...".
	WorkDir string
	// ScriptDir is the directory of the top-level script.
	ScriptDir string
	// Args is what argv() returns: the script path followed by its arguments.
	Args []string

	Workers    int
	HTTPClient *http.Client
	Clock      func() time.Time
}

// Interpreter evaluates VirtoLang programs.
type Interpreter struct {
	opts      Options
	global    *runtime.Environment
	functions map[string]*runtime.FunctionValue
	builtins  builtinRegistry
	resolver  *driver.Resolver
	loader    *driver.Loader
	sched     *scheduler
	stdin     *bufio.Reader
	importing []string
	depth     int
}

// New returns an interpreter with an empty global environment.
func New(opts Options) *Interpreter {
	opts = withDefaults(opts)
	i := &Interpreter{
		opts:      opts,
		global:    runtime.NewEnvironment(),
		functions: make(map[string]*runtime.FunctionValue),
		resolver:  driver.NewResolver(opts.FS, opts.SearchRoot, opts.WorkDir, opts.Logger),
		loader:    driver.NewLoader(opts.FS),
		sched:     newScheduler(opts.Workers, opts.Logger),
		stdin:     bufio.NewReader(opts.Stdin),
	}
	i.builtins = newBuiltinRegistry(i)
	return i
}

func withDefaults(opts Options) Options {
	if opts.FS == nil {
		opts.FS = osfs.New("", osfs.WithBoundOS())
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.WorkDir == "" {
		if wd, err := os.Getwd(); err == nil {
			opts.WorkDir = wd
		}
	}
	if opts.SearchRoot == "" {
		opts.SearchRoot = opts.WorkDir
	}
	if opts.ScriptDir == "" {
		opts.ScriptDir = opts.WorkDir
	}
	if opts.Workers < 1 {
		opts.Workers = driver.DefaultWorkers
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return opts
}

// fork returns an interpreter for run(): same scheduler and options, a copy
// of the function registry.
func (i *Interpreter) fork() *Interpreter {
	child := &Interpreter{
		opts:      i.opts,
		global:    i.global,
		functions: make(map[string]*runtime.FunctionValue, len(i.functions)),
		resolver:  i.resolver,
		loader:    i.loader,
		sched:     i.sched,
		stdin:     i.stdin,
		importing: append([]string(nil), i.importing...),
		depth:     i.depth,
	}
	for name, fn := range i.functions {
		child.functions[name] = fn
	}
	child.builtins = newBuiltinRegistry(child)
	return child
}

// GlobalEnvironment returns the interpreter's top-level environment.
func (i *Interpreter) GlobalEnvironment() *runtime.Environment {
	return i.global
}

// Function looks up a declared function by name.
func (i *Interpreter) Function(name string) (*runtime.FunctionValue, bool) {
	fn, ok := i.functions[name]
	return fn, ok
}

// Run executes program in the global environment, then waits for every
// spawned task to finish. Uncaught exceptions come back as diagnostics;
// exit() comes back as *ExitError.
func (i *Interpreter) Run(program *ast.Program) error {
	i.sched.acquire()
	_, err := i.evaluateStatements(program.Body, i.global)
	var exit *ExitError
	if !errors.As(err, &exit) {
		if drainErr := i.drainTasks(); err == nil {
			err = drainErr
		}
	}
	i.sched.release()
	return finalizeError(err, program)
}

// RunFile loads and runs the script at path.
func (i *Interpreter) RunFile(path string) error {
	program, err := i.loader.Load(path)
	if err != nil {
		return err
	}
	i.importing = append(i.importing, filepath.Clean(path))
	defer func() { i.importing = i.importing[:len(i.importing)-1] }()
	return i.Run(program)
}

// RunString parses and runs inline source.
func (i *Interpreter) RunString(name, source string) error {
	program, err := i.loader.LoadString(name, source)
	if err != nil {
		return err
	}
	return i.Run(program)
}

func (i *Interpreter) drainTasks() error {
	var exitErr error
	for _, task := range i.sched.drain() {
		var exit *ExitError
		if errors.As(task.Err(), &exit) {
			exitErr = exit
			continue
		}
		i.opts.Logger.Warn("task failed and was never awaited", "task", task.Label, "error", task.Err())
	}
	return exitErr
}

// finalizeError turns signals escaping the top level into diagnostics.
func finalizeError(err error, program *ast.Program) error {
	if err == nil {
		return nil
	}
	var rs raiseSignal
	if errors.As(err, &rs) {
		diag := diagnostics.NewRuntimeError("",
			fmt.Sprintf("Uncaught %s: %s", rs.value.TypeName, rs.value.Message), rs.token)
		return diag.WithSource(program.Source)
	}
	var ret returnSignal
	if errors.As(err, &ret) {
		return diagnostics.NewRuntimeError("", "'return' outside function", nil).WithSource(program.Source)
	}
	if diag, ok := diagnostics.As(err); ok {
		diag.WithSource(program.Source)
	}
	return err
}
