package driver

import (
	"io"
	"log/slog"

	"github.com/xyproto/env/v2"
)

// Environment variables understood by the interpreter.
const (
	EnvSearchRoot = "VLANG_PATH"
	EnvWorkers    = "VLANG_WORKERS"
	EnvLogLevel   = "VLANG_LOG"
	EnvNoColor    = "NO_COLOR"
)

// DefaultWorkers sizes the pool that runs offloaded builtin calls.
const DefaultWorkers = 4

// Settings is the effective runtime configuration after layering the
// environment over the manifest over defaults.
type Settings struct {
	SearchRoot string
	Workers    int
	LogLevel   slog.Level
	Color      ColorMode
}

// LoadSettings resolves settings for a run started in workDir. manifest may
// be nil. Invalid environment values fall back to the next layer down.
func LoadSettings(workDir string, manifest *Manifest) Settings {
	// env caches os.Environ on first use; refresh so every call sees the
	// current process environment.
	env.Load()
	s := Settings{
		SearchRoot: workDir,
		Workers:    DefaultWorkers,
		LogLevel:   slog.LevelWarn,
		Color:      ColorAuto,
	}
	if manifest != nil {
		if manifest.Workers > 0 {
			s.Workers = manifest.Workers
		}
		if manifest.Color != "" {
			s.Color = manifest.Color
		}
		if level, err := ParseLogLevel(manifest.LogLevel); err == nil && manifest.LogLevel != "" {
			s.LogLevel = level
		}
	}

	if root := env.Str(EnvSearchRoot); root != "" {
		s.SearchRoot = root
	}
	if workers := env.Int(EnvWorkers, s.Workers); workers >= 1 {
		s.Workers = workers
	}
	if env.Has(EnvLogLevel) {
		if level, err := ParseLogLevel(env.Str(EnvLogLevel)); err == nil {
			s.LogLevel = level
		}
	}
	if env.Has(EnvNoColor) {
		s.Color = ColorNever
	}
	return s
}

// UseColor decides whether diagnostics are coloured for a stream.
func (s Settings) UseColor(isTerminal bool) bool {
	switch s.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return isTerminal
	}
}

// NewLogger builds the text logger used by the CLI.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
