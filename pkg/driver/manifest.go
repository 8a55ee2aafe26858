package driver

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-git/go-billy/v5"
	"gopkg.in/yaml.v3"
)

// ManifestFilename is the project file discovered next to (or above) a script.
const ManifestFilename = "vlang.yml"

// ColorMode controls ANSI colouring of diagnostics.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// IsValid reports whether the colour mode is recognised.
func (c ColorMode) IsValid() bool {
	switch c {
	case ColorAuto, ColorAlways, ColorNever:
		return true
	default:
		return false
	}
}

// Manifest represents the parsed contents of vlang.yml.
type Manifest struct {
	Path     string
	Name     string
	Version  string
	Workers  int
	Color    ColorMode
	LogLevel string
}

type manifestFile struct {
	Name     string `yaml:"name"`
	Version  string `yaml:"version"`
	Workers  *int   `yaml:"workers"`
	Color    string `yaml:"color"`
	LogLevel string `yaml:"log_level"`
}

// ValidationError aggregates manifest validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// LoadManifest parses vlang.yml from fs, returning a validated manifest.
func LoadManifest(fs billy.Filesystem, path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	file, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", path, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: %s is empty", path)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", path, err)
	}

	manifest := raw.toManifest(path)
	if err := manifest.validate(raw.Workers != nil); err != nil {
		return nil, err
	}
	return manifest, nil
}

func (raw manifestFile) toManifest(path string) *Manifest {
	m := &Manifest{
		Path:     path,
		Name:     strings.TrimSpace(raw.Name),
		Version:  strings.TrimSpace(raw.Version),
		Color:    ColorMode(strings.ToLower(strings.TrimSpace(raw.Color))),
		LogLevel: strings.ToLower(strings.TrimSpace(raw.LogLevel)),
	}
	if raw.Workers != nil {
		m.Workers = *raw.Workers
	}
	return m
}

var versionPattern = regexp.MustCompile(`^\d+(\.\d+){0,2}([-+][0-9A-Za-z.-]+)?$`)

func (m *Manifest) validate(workersSet bool) error {
	var errs ValidationError
	if m.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}
	if m.Version != "" && !versionPattern.MatchString(m.Version) {
		errs.Issues = append(errs.Issues, fmt.Sprintf("version %q is not a valid version", m.Version))
	}
	if workersSet && m.Workers < 1 {
		errs.Issues = append(errs.Issues, fmt.Sprintf("workers must be at least 1, got %d", m.Workers))
	}
	if m.Color != "" && !m.Color.IsValid() {
		errs.Issues = append(errs.Issues, fmt.Sprintf("color %q must be one of auto, always, never", m.Color))
	}
	if m.LogLevel != "" {
		if _, err := ParseLogLevel(m.LogLevel); err != nil {
			errs.Issues = append(errs.Issues, err.Error())
		}
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

// ParseLogLevel maps debug, info, warn and error onto slog levels.
func ParseLogLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning", "":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelWarn, fmt.Errorf("log_level %q must be one of debug, info, warn, error", name)
	}
}

// FindManifest walks from startDir up to the filesystem root looking for
// vlang.yml. It returns the manifest path and whether one was found.
func FindManifest(fs billy.Filesystem, startDir string) (string, bool) {
	dir := filepath.Clean(startDir)
	for {
		candidate := filepath.Join(dir, ManifestFilename)
		if info, err := fs.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", false
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
