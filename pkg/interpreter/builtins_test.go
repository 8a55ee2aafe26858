package interpreter

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"

	"virtolang/interpreter-go/pkg/runtime"
)

func TestStringBuiltins(t *testing.T) {
	out := mustRun(t, `
print(split("a  b c"), split("a,b,,c", ","), join(["a", 1, true], "-"), join("xyz"))
print(strip("  x  ") + "|", strip("xxhixx", "x"), upper("straße"), lower("ABC"))
print(capitalize("hELLO wORLD"), title("hello world"), find("héllo", "l"), find("abc", "z"))
print(replace("a-b-c", "-", "+"), startswith("hello", "he"), endswith("hello", "lo"))
print(isdigit("123"), isalpha(""), isalnum("a1"), isspace("  "), isupper("ABC1"), islower("abC"))
print(superscript(12), subscript("x2"), len("héllo"), str(7 / 2), type(str(1)))
`)
	want := "['a', 'b', 'c'] ['a', 'b', '', 'c'] a-1-true xyz\n" +
		"x| hi STRASSE abc\n" +
		"Hello world Hello World 2 -1\n" +
		"a+b+c true true\n" +
		"true false true true true false\n" +
		"¹² x₂ 5 3.5 str\n"
	if out != want {
		t.Fatalf("expected %q, got %q", want, out)
	}
}

func TestSplitRejectsEmptySeparator(t *testing.T) {
	_, err := runSource(t, `split("abc", "")`)
	expectDiagnostic(t, err, "ValueError", "Error in built-in function 'split': empty separator")
}

func TestConversions(t *testing.T) {
	out := mustRun(t, `
print(int("42"), int(" -7 "), int(7 / 2), int(true), float("2.5"), float(3), bool(0), bool("x"), bool())
print(type(1), type(7 / 2), type("s"), type([]), type({}), type(null), type(true))
print(type(set()), type(tuple()), type(len), type(Error("x")), type(Exception("Custom", "m")))
`)
	want := "42 -7 3 1 2.5 3.0 false true false\n" +
		"int float str list dict NoneType bool\n" +
		"set tuple builtin_function_or_method Error Custom\n"
	if out != want {
		t.Fatalf("expected %q, got %q", want, out)
	}

	_, err := runSource(t, `float("abc")`)
	expectDiagnostic(t, err, "ValueError", "Error in built-in function 'float': could not convert string to float: 'abc'")
}

func TestCollectionBuiltins(t *testing.T) {
	out := mustRun(t, `
l = [3, 1, 2]
print(sorted(l), l, reverse("abc"), list("ab"), list())
print(append(l, 4), pop(l), pop(l, 0), l)
s = set(1, 2, 2, "a")
print(len(s), 2 in s, set(), tuple(1), tuple(1, "a"))
d = dict([["a", 1], ["b", 2]])
print(d, keys(d), dict_keys(d), dict_values(d), dict_get(d, "z", 0), dict_get(d, "z"), dict_get(d, "a"))
print(dict_set(d, "c", 3), dict(d) == d, dict(d) is d, dict())
print(slice([1, 2, 3, 4], 1, -1), slice("hello", -3), slice(tuple(1, 2, 3), 5), slice("abc", 2, 1))
`)
	want := "[1, 2, 3] [3, 1, 2] ['c', 'b', 'a'] ['a', 'b'] []\n" +
		"[3, 1, 2, 4] 4 3 [1, 2]\n" +
		"3 true set() (1,) (1, 'a')\n" +
		"{'a': 1, 'b': 2} ['a', 'b'] ['a', 'b'] [1, 2] 0 null 1\n" +
		"{'a': 1, 'b': 2, 'c': 3} true false {}\n" +
		"[2, 3] llo () \n"
	if out != want {
		t.Fatalf("expected %q, got %q", want, out)
	}
}

func TestCollectionErrors(t *testing.T) {
	cases := []struct {
		source   string
		typeName string
		message  string
	}{
		{`sorted([1, "a"])`, "TypeError", "Error in built-in function 'sorted': '<' not supported between instances of 'str' and 'int'"},
		{`pop([])`, "IndexError", "Error in built-in function 'pop': pop from empty list"},
		{`pop([1], 3)`, "IndexError", "Error in built-in function 'pop': pop index out of range"},
		{`dict([[1, 2, 3]])`, "ValueError", "Error in built-in function 'dict': dictionary update sequence element #0 has wrong length; 2 is required"},
		{`append("s", 1)`, "TypeError", "Error in built-in function 'append': argument 'l' must be list, not str"},
		{`set([1])`, "TypeError", "Error in built-in function 'set': unhashable type: 'list'"},
	}
	for _, tc := range cases {
		_, err := runSource(t, tc.source)
		expectDiagnostic(t, err, tc.typeName, tc.message)
	}
}

func TestMathBuiltins(t *testing.T) {
	out := mustRun(t, `
print(abs(-3), abs(1 - 7 / 2), sqrt(16), pow(2, 10), square(3), log(1), exp(0), sin(0))
print(sum([1, 2, 3]), sum([1, 7 / 2]), sum([]), min(3, 1, 2), max([1, 5, 2]), min("b", "a"))
print(range(5), range(1, 10, 3), range(5, 0, -2), range(0))
print(is_prime(17), is_prime(1), is_prime(2), is_prime(21), math_pi() > 3, math_sqrt(9))
print(randint(4, 4), random_choice([7]))
r = random()
print(r >= 0 and r < 1)
`)
	want := "3 2.5 4.0 1024.0 9.0 0.0 1.0 0.0\n" +
		"6 4.5 0 1 5 a\n" +
		"[0, 1, 2, 3, 4] [1, 4, 7] [5, 3, 1] []\n" +
		"true false true false true 3.0\n" +
		"4 7\n" +
		"true\n"
	if out != want {
		t.Fatalf("expected %q, got %q", want, out)
	}
}

func TestMathErrors(t *testing.T) {
	cases := []struct {
		source   string
		typeName string
		message  string
	}{
		{`sqrt(-1)`, "ValueError", "Error in built-in function 'sqrt': math domain error"},
		{`log(0)`, "ValueError", "Error in built-in function 'log': math domain error"},
		{`log(8, 1)`, "ZeroDivisionError", "Error in built-in function 'log': float division by zero"},
		{`range(1, 2, 0)`, "ValueError", "Error in built-in function 'range': range() arg 3 must not be zero"},
		{`min([])`, "ValueError", "Error in built-in function 'min': min() arg is an empty sequence"},
		{`max(1, "a")`, "TypeError", "Error in built-in function 'max': '>' not supported between instances of 'str' and 'int'"},
		{`randint(5, 1)`, "ValueError", "Error in built-in function 'randint': empty range for randrange() (5, 2, -3)"},
		{`random_choice([])`, "IndexError", "Error in built-in function 'random_choice': Cannot choose from an empty sequence"},
		{`sqrt("x")`, "TypeError", "Error in built-in function 'sqrt': argument 'x' must be a real number, not str"},
	}
	for _, tc := range cases {
		_, err := runSource(t, tc.source)
		expectDiagnostic(t, err, tc.typeName, tc.message)
	}
}

func TestFormat(t *testing.T) {
	cases := []struct {
		source string
		want   string
	}{
		{`format("{} + {} = {}", 1, 2, 3)`, "1 + 2 = 3"},
		{`format("{1}{0}{1}", "a", "b")`, "bab"},
		{`format("[{0:>5}|{0:<5}|{0:^5}]", "ab")`, "[   ab|ab   | ab  ]"},
		{`format("{:*^7}", "x")`, "***x***"},
		{`format("{:.2f} {:8.3} {}", 7 / 2, 7 / 2, 7 / 2)`, "3.50      3.5 3.5"},
		{`format("{:,} {:05d} {:+d} {:x} {:X} {:b} {:o}", 1234567, 42, 5, 255, 255, 5, 8)`, "1,234,567 00042 +5 ff FF 101 10"},
		{`format("{:5}|{:<5}|", 42, 42)`, "   42|42   |"},
		{`format("{!r} {!s} {:.2}", "x", "y", "abcdef")`, "'x' y ab"},
		{`format("{:.1%}", 1 / 4)`, "25.0%"},
		{`format("{{literal}} {}", [1])`, "{literal} [1]"},
	}
	for _, tc := range cases {
		interp, out := newTestInterpreter(t, nil)
		if err := interp.RunString("fmt.vlang", "result = "+tc.source); err != nil {
			t.Fatalf("%s: %v (output %q)", tc.source, err, out.String())
		}
		val, _ := interp.GlobalEnvironment().Get("result")
		if runtime.ToString(val) != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.source, tc.want, runtime.ToString(val))
		}
	}
}

func TestFormatErrors(t *testing.T) {
	cases := []struct {
		source   string
		typeName string
		message  string
	}{
		{`format("{}")`, "IndexError", "Replacement index 0 out of range for positional args tuple"},
		{`format("{0}{}", 1)`, "ValueError", "cannot switch from manual field specification to automatic field numbering"},
		{`format("{}{0}", 1)`, "ValueError", "cannot switch from automatic field numbering to manual field specification"},
		{`format("}")`, "ValueError", "Single '}' encountered in format string"},
		{`format("{")`, "ValueError", "Single '{' encountered in format string"},
		{`format("{name}")`, "KeyError", "'name'"},
		{`format("{:d}", "s")`, "ValueError", "Unknown format code 'd' for object of type 'str'"},
	}
	for _, tc := range cases {
		_, err := runSource(t, tc.source)
		expectDiagnostic(t, err, tc.typeName, "Error in built-in function 'format': "+tc.message)
	}
}

func TestFstringReadsCallingScope(t *testing.T) {
	out := mustRun(t, `
name = "ada"
n = 3
def greet(who) { return fstring("hi {who} from {name}") }
print(fstring("hi {name}, {n:03d} {{n}}"), greet("bob"))
`)
	if out != "hi ada, 003 {n} hi bob from ada\n" {
		t.Fatalf("unexpected output %q", out)
	}

	_, err := runSource(t, `fstring("{missing}")`)
	expectDiagnostic(t, err, "KeyError", "Error in built-in function 'fstring': 'missing'")
}

func TestTimeBuiltinsUseClock(t *testing.T) {
	fixed := time.Date(2024, 3, 5, 15, 7, 9, 123456000, time.FixedZone("CET", 3600))
	var out bytes.Buffer
	interp := New(Options{
		FS:      memfs.New(),
		Stdout:  &out,
		WorkDir: testRoot,
		Clock:   func() time.Time { return fixed },
	})
	source := `
print(now())
print(strftime("%Y/%m/%d %H:%M"))
print(time_now(), "|", time_utcnow())
print(time_timestamp(), type(time()), time() > time_timestamp())
sleep(0)
time_sleep(0)
`
	if err := interp.RunString("time.vlang", source); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	want := "2024-03-05T15:07:09.123456\n" +
		"2024/03/05 15:07\n" +
		"2024-03-05 15:07:09 | 2024-03-05 14:07:09\n" +
		fmt.Sprintf("%d float true\n", fixed.Unix())
	if out.String() != want {
		t.Fatalf("expected %q, got %q", want, out.String())
	}

	_, err := runSource(t, "sleep(0 - 1)")
	expectDiagnostic(t, err, "ValueError", "Error in built-in function 'sleep': sleep length must be non-negative")
}

func TestFileBuiltins(t *testing.T) {
	fs := memfs.New()
	writeFile(t, fs, "/proj/data/in.txt", "line one\nline two")
	interp, out := newTestInterpreter(t, fs)
	source := `
f = open("data/in.txt")
print(len(read(f)), f)
close(f)
close(f)
print(f)
w = open("out.txt", "w")
print(write(w, "ab"), write(w, 12))
close(w)
a = open("out.txt", "a")
write(a, "!")
close(a)
print(read(open("/proj/out.txt", "r")))
`
	if err := interp.RunString("io.vlang", source); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	want := "17 <open file 'data/in.txt' mode='r'>\n" +
		"<closed file 'data/in.txt' mode='r'>\n" +
		"2 2\n" +
		"ab12!\n"
	if out.String() != want {
		t.Fatalf("expected %q, got %q", want, out.String())
	}
	data, err := util.ReadFile(fs, "/proj/out.txt")
	if err != nil || string(data) != "ab12!" {
		t.Fatalf("unexpected file contents %q (%v)", data, err)
	}
}

func TestFileErrors(t *testing.T) {
	cases := []struct {
		source   string
		typeName string
		message  string
	}{
		{`open("none.txt")`, "IOError", "Error in built-in function 'open': [Errno 2] No such file or directory: 'none.txt'"},
		{`open("x.txt", "z")`, "ValueError", "Error in built-in function 'open': invalid mode: 'z'"},
		{`f = open("x.txt", "w"); close(f); write(f, "a")`, "IOError", "Error in built-in function 'write': I/O operation on closed file"},
		{`read("x")`, "TypeError", "Error in built-in function 'read': expected a file object, got str"},
	}
	for _, tc := range cases {
		_, err := runSource(t, tc.source)
		expectDiagnostic(t, err, tc.typeName, tc.message)
	}
}

func newHTTPTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/hello", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Test", "yes")
		fmt.Fprint(w, "hello")
	})
	mux.HandleFunc("/echo", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		fmt.Fprintf(w, "%s %s %s", r.Method, r.Header.Get("Content-Type"), body)
	})
	mux.HandleFunc("/json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"b": 1, "a": [true, null, 2.5], "s": "x"}`)
	})
	mux.HandleFunc("/fail", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "broken", http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPBuiltins(t *testing.T) {
	srv := newHTTPTestServer(t)
	var out bytes.Buffer
	interp := New(Options{
		FS:         memfs.New(),
		Stdout:     &out,
		WorkDir:    testRoot,
		HTTPClient: srv.Client(),
	})
	interp.GlobalEnvironment().Define("base", runtime.Str(srv.URL))
	source := `
print(http_get(base + "/hello"))
print(http_post(base + "/echo", {"name": "ada", "n": 2}))
print(http_put(base + "/echo", "raw"))
print(http_delete(base + "/echo"))
print(dict_get(http_head(base + "/hello"), "X-Test"))
r = http_request("get", base + "/json")
print(http_status(r), http_ok(r), http_json(r), http_url(r) == base + "/json", type(r))
m = http_request("GET", base + "/missing")
try { http_raise_for_status(m) } except HTTPError as e { print(e) }
print(http_raise_for_status(r), http_ok(m), http_text(http_request("POST", base + "/echo", "x")))
`
	if err := interp.RunString("http.vlang", source); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	want := []string{
		"hello",
		"POST application/x-www-form-urlencoded n=2&name=ada",
		"PUT  raw",
		"DELETE  ",
		"yes",
		"200 true {'b': 1, 'a': [true, null, 2.5], 's': 'x'} true Response",
		"Error in built-in function 'http_raise_for_status': 404 Client Error: Not Found for url: " + srv.URL + "/missing",
		"null false POST  x",
	}
	got := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	if len(got) != len(want) {
		t.Fatalf("expected %d lines, got %q", len(want), out.String())
	}
	for idx := range want {
		if got[idx] != want[idx] {
			t.Fatalf("line %d: expected %q, got %q", idx+1, want[idx], got[idx])
		}
	}

	interp = New(Options{FS: memfs.New(), Stdout: &out, WorkDir: testRoot, HTTPClient: srv.Client()})
	interp.GlobalEnvironment().Define("base", runtime.Str(srv.URL))
	err := interp.RunString("http.vlang", `http_raise_for_status(http_request("GET", base + "/fail"))`)
	expectDiagnostic(t, err, "HTTPError", "Error in built-in function 'http_raise_for_status': 500 Server Error: Internal Server Error for url: "+srv.URL+"/fail")

	err = interp.RunString("http.vlang", `http_json(http_request("GET", base + "/hello"))`)
	expectDiagnostic(t, err, "ValueError", "")
}

func TestColoramaEscapes(t *testing.T) {
	out := mustRun(t, `
print(colorama_fore("red") + "x" + colorama_style("RESET_ALL"))
print(colorama_back("GREEN"), colorama_style("bright"), colorama_fore("nope"), colorama_fore("LIGHTBLUE_EX"))
`)
	want := "\x1b[31mx\x1b[0m\n\x1b[42m \x1b[1m \x1b[39m \x1b[94m\n"
	if out != want {
		t.Fatalf("expected %q, got %q", want, out)
	}
}

func TestHelp(t *testing.T) {
	interp, _ := newTestInterpreter(t, nil)
	source := `
a = help(len)
b = help(split)
c = help()
async def fetch(url, retries) { return url }
d = help(fetch)
e = help(5)
`
	if err := interp.RunString("help.vlang", source); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	get := func(name string) string {
		val, _ := interp.GlobalEnvironment().Get(name)
		return runtime.ToString(val)
	}
	if get("a") != "len(x)\nReturn the number of items in a container." {
		t.Fatalf("unexpected help(len): %q", get("a"))
	}
	if !strings.HasPrefix(get("b"), "split(s, sep=None)\n") {
		t.Fatalf("unexpected help(split): %q", get("b"))
	}
	if !strings.HasPrefix(get("c"), "Built-in functions: ") || !strings.Contains(get("c"), "http_get") {
		t.Fatalf("unexpected help(): %q", get("c"))
	}
	if get("d") != "Help on async function fetch(url, retries)" {
		t.Fatalf("unexpected help(fetch): %q", get("d"))
	}
	if get("e") != "No doc." {
		t.Fatalf("unexpected help(5): %q", get("e"))
	}
}

func TestBuiltinsShadowUserFunctions(t *testing.T) {
	out := mustRun(t, `def len(x) { return 99 }
print(len([1]))`)
	if out != "1\n" {
		t.Fatalf("expected the builtin to win, got %q", out)
	}
}
