package driver

import (
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"

	"virtolang/interpreter-go/pkg/diagnostics"
)

func TestResolveBareNameSearchOrder(t *testing.T) {
	fs := memfs.New()
	r := NewResolver(fs, "/root", "/work", nil)

	writeFile(t, fs, "/scripts/util.vlang", "x = 1\n")
	got, err := r.Resolve("util", false, "/scripts")
	if err != nil || got != "/scripts/util.vlang" {
		t.Fatalf("expected script-dir fallback, got %q %v", got, err)
	}

	writeFile(t, fs, "/root/packages/util.vlang", "x = 2\n")
	got, _ = r.Resolve("util", false, "/scripts")
	if got != "/root/packages/util.vlang" {
		t.Fatalf("expected packages file to win, got %q", got)
	}

	writeFile(t, fs, "/root/packages/util/__init__.vlang", "x = 3\n")
	got, _ = r.Resolve("util", false, "/scripts")
	if got != "/root/packages/util/__init__.vlang" {
		t.Fatalf("expected package directory to win, got %q", got)
	}
}

func TestResolveDottedNameHasNoFallback(t *testing.T) {
	fs := memfs.New()
	writeFile(t, fs, "/scripts/b.vlang", "x = 1\n")
	r := NewResolver(fs, "/R", "/work", nil)

	_, err := r.Resolve("a.b", false, "/scripts")
	diag, ok := diagnostics.As(err)
	if !ok {
		t.Fatalf("expected diagnostic, got %#v", err)
	}
	if diag.TypeName() != "ModuleNotFoundError" {
		t.Fatalf("expected ModuleNotFoundError, got %s", diag.TypeName())
	}
	want := "Module 'a.b' not found. Searched: ['/R/packages/a/b.vlang']"
	if diag.Message != want {
		t.Fatalf("expected %q, got %q", want, diag.Message)
	}

	writeFile(t, fs, "/R/packages/a/b.vlang", "x = 2\n")
	if got, err := r.Resolve("a.b", false, "/scripts"); err != nil || got != "/R/packages/a/b.vlang" {
		t.Fatalf("expected dotted module, got %q %v", got, err)
	}
}

func TestResolveLiteralPath(t *testing.T) {
	fs := memfs.New()
	writeFile(t, fs, "/work/lib/helpers.vlang", "x = 1\n")
	r := NewResolver(fs, "/R", "/work", nil)

	for _, name := range []string{"lib/helpers", "lib/helpers.vlang", "/work/lib/helpers"} {
		got, err := r.Resolve(name, true, "")
		if err != nil || got != "/work/lib/helpers.vlang" {
			t.Fatalf("Resolve(%q) = %q, %v", name, got, err)
		}
	}
	_, err := r.Resolve("missing", true, "")
	if err == nil || !strings.Contains(err.Error(), "'/work/missing.vlang'") {
		t.Fatalf("expected literal miss to list the path, got %v", err)
	}
}

func TestResolveListsEveryCandidate(t *testing.T) {
	r := NewResolver(memfs.New(), "/R", "/work", nil)
	_, err := r.Resolve("nope", false, "/s")
	want := "Module 'nope' not found. Searched: ['/R/packages/nope/__init__.vlang', '/R/packages/nope.vlang', '/s/nope.vlang']"
	if diag, ok := diagnostics.As(err); !ok || diag.Message != want {
		t.Fatalf("expected %q, got %v", want, err)
	}
}

func TestLoaderParsesFiles(t *testing.T) {
	fs := memfs.New()
	writeFile(t, fs, "/p/main.vlang", "x = 1\nprint(x)\n")
	writeFile(t, fs, "/p/bad.vlang", "x = )\n")
	l := NewLoader(fs)

	prog, err := l.Load("/p/main.vlang")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(prog.Body) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(prog.Body))
	}
	if prog.Source == nil || prog.Source.Filename != "/p/main.vlang" {
		t.Fatalf("expected source to carry filename, got %#v", prog.Source)
	}

	_, err = l.Load("/p/bad.vlang")
	diag, ok := diagnostics.As(err)
	if !ok || diag.Kind != diagnostics.KindSyntax || diag.Filename != "/p/bad.vlang" {
		t.Fatalf("expected syntax diagnostic for bad.vlang, got %#v", err)
	}

	if _, err := l.Load("/p/none.vlang"); err == nil {
		t.Fatalf("expected missing file error")
	}
	if !l.Exists("/p/main.vlang") || l.Exists("/p") {
		t.Fatalf("unexpected Exists results")
	}
}
