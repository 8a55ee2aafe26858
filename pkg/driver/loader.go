package driver

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"virtolang/interpreter-go/pkg/ast"
	"virtolang/interpreter-go/pkg/diagnostics"
	"virtolang/interpreter-go/pkg/parser"
)

// Loader reads and parses source files from a billy filesystem.
type Loader struct {
	FS billy.Filesystem
}

func NewLoader(fs billy.Filesystem) *Loader {
	return &Loader{FS: fs}
}

// Load reads path and parses it into a program. Syntax failures come back as
// diagnostics naming the file.
func (l *Loader) Load(path string) (*ast.Program, error) {
	data, err := util.ReadFile(l.FS, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, diagnostics.NewRuntimeError("IOError", fmt.Sprintf("No such file or directory: '%s'", path), nil)
		}
		return nil, fmt.Errorf("loader: read %s: %w", path, err)
	}
	return parser.ParseProgram(path, data)
}

// LoadString parses inline source under a display name.
func (l *Loader) LoadString(name, source string) (*ast.Program, error) {
	return parser.ParseProgram(name, []byte(source))
}

// Exists reports whether path names a regular file.
func (l *Loader) Exists(path string) bool {
	info, err := l.FS.Stat(path)
	return err == nil && !info.IsDir()
}

