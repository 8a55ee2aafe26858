package driver

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"

	"virtolang/interpreter-go/pkg/diagnostics"
)

// SourceExt is appended to module names and literal import paths.
const SourceExt = ".vlang"

// Resolver maps import names to source files under a search root.
type Resolver struct {
	FS billy.Filesystem
	// Root is the module search root; packages live in Root/packages.
	Root string
	// WorkDir anchors relative literal paths.
	WorkDir string
	Logger  *slog.Logger
}

// NewResolver builds a resolver over fs. A nil logger discards output.
func NewResolver(fs billy.Filesystem, root, workDir string, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Resolver{FS: fs, Root: root, WorkDir: workDir, Logger: logger}
}

// Resolve finds the file for an import. literal marks a quoted import path;
// scriptDir is the directory of the top-level script and is only consulted
// for bare single-segment names. A miss is a ModuleNotFoundError diagnostic
// listing every path tried.
func (r *Resolver) Resolve(name string, literal bool, scriptDir string) (string, error) {
	candidates := r.Candidates(name, literal, scriptDir)
	for _, candidate := range candidates {
		if r.isFile(candidate) {
			r.Logger.Debug("module resolved", "module", name, "path", candidate, "tried", candidates)
			return candidate, nil
		}
	}
	r.Logger.Debug("module not found", "module", name, "tried", candidates)
	return "", diagnostics.NewRuntimeError("ModuleNotFoundError",
		fmt.Sprintf("Module '%s' not found. Searched: %s", name, formatPaths(candidates)), nil)
}

// Candidates lists the paths Resolve tries, in order.
func (r *Resolver) Candidates(name string, literal bool, scriptDir string) []string {
	if literal {
		path := name
		if !strings.HasSuffix(path, SourceExt) {
			path += SourceExt
		}
		if !filepath.IsAbs(path) && r.WorkDir != "" {
			path = filepath.Join(r.WorkDir, path)
		}
		return []string{path}
	}

	packages := filepath.Join(r.Root, "packages")
	parts := strings.Split(name, ".")
	if len(parts) > 1 {
		segments := append([]string{packages}, parts[:len(parts)-1]...)
		segments = append(segments, parts[len(parts)-1]+SourceExt)
		return []string{filepath.Join(segments...)}
	}

	if scriptDir == "" {
		scriptDir = r.WorkDir
	}
	return []string{
		filepath.Join(packages, name, "__init__"+SourceExt),
		filepath.Join(packages, name+SourceExt),
		filepath.Join(scriptDir, name+SourceExt),
	}
}

func (r *Resolver) isFile(path string) bool {
	info, err := r.FS.Stat(path)
	return err == nil && !info.IsDir()
}

func formatPaths(paths []string) string {
	quoted := make([]string, len(paths))
	for i, p := range paths {
		quoted[i] = "'" + p + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
