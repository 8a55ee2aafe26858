package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/mattn/go-isatty"

	"virtolang/interpreter-go/pkg/diagnostics"
	"virtolang/interpreter-go/pkg/driver"
	"virtolang/interpreter-go/pkg/interpreter"
)

const cliToolVersion = "VirtoLang " + interpreter.Version

const inlineName = "<inline>"

var errUsage = errors.New("Must provide a file or use -C/--code to run code.")

type cliOptions struct {
	file       string
	code       string
	hasCode    bool
	noColor    bool
	scriptArgs []string
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) > 0 {
		switch args[0] {
		case "--help", "-h":
			printUsage()
			return 0
		case "--version", "-V":
			fmt.Fprintln(os.Stdout, cliToolVersion)
			return 0
		}
	}

	opts, err := parseArgs(args)
	if err != nil {
		printUsage()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return runEntry(opts)
}

// parseArgs accepts one source (a file or -C/--code) plus flags. Everything
// after the file name is handed to the script.
func parseArgs(args []string) (cliOptions, error) {
	var opts cliOptions
	for idx := 0; idx < len(args); idx++ {
		arg := args[idx]
		if opts.file != "" {
			opts.scriptArgs = append(opts.scriptArgs, arg)
			continue
		}
		switch {
		case arg == "-C" || arg == "--code":
			if idx+1 >= len(args) {
				return opts, fmt.Errorf("argument %s: expected one argument", arg)
			}
			if opts.hasCode {
				return opts, errUsage
			}
			idx++
			opts.code, opts.hasCode = args[idx], true
		case strings.HasPrefix(arg, "--code="):
			if opts.hasCode {
				return opts, errUsage
			}
			opts.code, opts.hasCode = strings.TrimPrefix(arg, "--code="), true
		case arg == "--no-color":
			opts.noColor = true
		case arg == "--version" || arg == "-V":
			return opts, fmt.Errorf("%s must be the only argument", arg)
		case strings.HasPrefix(arg, "-") && arg != "-":
			return opts, fmt.Errorf("unrecognized argument: %s", arg)
		default:
			if opts.hasCode {
				return opts, fmt.Errorf("unrecognized argument: %s", arg)
			}
			opts.file = arg
		}
	}
	if opts.file == "" && !opts.hasCode {
		return opts, errUsage
	}
	return opts, nil
}

func runEntry(opts cliOptions) int {
	fs := osfs.New("", osfs.WithBoundOS())
	workDir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to determine working directory: %v\n", err)
		return 1
	}

	scriptDir := workDir
	argv := []string{inlineName}
	if !opts.hasCode {
		info, statErr := fs.Stat(opts.file)
		if statErr != nil || info.IsDir() {
			fmt.Fprintf(os.Stderr, "Error: %s is not a valid file.\n", opts.file)
			return 1
		}
		if filepath.Ext(opts.file) != driver.SourceExt {
			fmt.Fprintf(os.Stderr, "Error: %s is not a %s file.\n", opts.file, driver.SourceExt)
			return 1
		}
		if abs, absErr := filepath.Abs(opts.file); absErr == nil {
			scriptDir = filepath.Dir(abs)
		}
		argv = []string{opts.file}
	}
	argv = append(argv, opts.scriptArgs...)

	var manifest *driver.Manifest
	if manifestPath, ok := driver.FindManifest(fs, scriptDir); ok {
		manifest, err = driver.LoadManifest(fs, manifestPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load manifest: %v\n", err)
			return 1
		}
	}
	settings := driver.LoadSettings(workDir, manifest)
	if opts.noColor {
		settings.Color = driver.ColorNever
	}
	colorize := settings.UseColor(isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()))
	logger := driver.NewLogger(os.Stderr, settings.LogLevel)
	if manifest != nil {
		logger.Debug("manifest loaded", "path", manifest.Path, "name", manifest.Name)
	}

	interp := interpreter.New(interpreter.Options{
		FS:         fs,
		Stdout:     os.Stdout,
		Stdin:      os.Stdin,
		Logger:     logger,
		SearchRoot: settings.SearchRoot,
		WorkDir:    workDir,
		ScriptDir:  scriptDir,
		Args:       argv,
		Workers:    settings.Workers,
	})
	if opts.hasCode {
		err = interp.RunString(inlineName, opts.code)
	} else {
		err = interp.RunFile(opts.file)
	}
	return exitCode(err, colorize)
}

// exitCode reports err on stderr and maps it to the process exit status.
func exitCode(err error, colorize bool) int {
	if err == nil {
		return 0
	}
	var exit *interpreter.ExitError
	if errors.As(err, &exit) {
		if exit.Message != "" {
			fmt.Fprintln(os.Stderr, exit.Message)
		}
		return exit.Code
	}
	if diag, ok := diagnostics.As(err); ok {
		fmt.Fprintln(os.Stderr, diag.Render(colorize))
		return 1
	}
	fmt.Fprintf(os.Stderr, "Interpreter bug: %v\n", err)
	return 2
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  vlang <file.vlang> [args ...]")
	fmt.Fprintln(os.Stderr, "  vlang -C <code> | --code <code>")
	fmt.Fprintln(os.Stderr, "  vlang --version")
	fmt.Fprintln(os.Stderr, "Flags:")
	fmt.Fprintln(os.Stderr, "  --no-color   disable coloured diagnostics")
}
