package tglog

import (
	"errors"
	"os"
	"strings"
	"testing"
)

func TestHeader(t *testing.T) {
	t.Parallel()
	tests := []struct {
		kind  Kind
		icon  string
		label string
	}{
		{kind: KindLog, icon: "ℹ️", label: "LOG"},
		{kind: KindDebug, icon: "⚙️", label: "DEBUG"},
		{kind: KindWarn, icon: "⚠️", label: "WARN"},
		{kind: KindError, icon: "🆘", label: "ERROR"},
		{kind: Kind("fatal"), icon: "ℹ️", label: "LOG"},
		{kind: Kind(""), icon: "ℹ️", label: "LOG"},
	}
	for _, tt := range tests {
		icon, label := Header(tt.kind)
		if icon != tt.icon || label != tt.label {
			t.Fatalf("Header(%q) = %q %q, want %q %q", tt.kind, icon, label, tt.icon, tt.label)
		}
	}
}

func TestParseKind(t *testing.T) {
	t.Parallel()
	tests := []struct {
		raw  string
		want Kind
		ok   bool
	}{
		{raw: "info", want: KindLog, ok: true},
		{raw: " LOG ", want: KindLog, ok: true},
		{raw: "warning", want: KindWarn, ok: true},
		{raw: "err", want: KindError, ok: true},
		{raw: "debug", want: KindDebug, ok: true},
		{raw: "plain", want: KindPlain, ok: true},
		{raw: "loud", ok: false},
	}
	for _, tt := range tests {
		got, ok := ParseKind(tt.raw)
		if ok != tt.ok || got != tt.want {
			t.Fatalf("ParseKind(%q) = %q, %v; want %q, %v", tt.raw, got, ok, tt.want, tt.ok)
		}
	}
}

func TestFormatScenarios(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		kind Kind
		args []any
		want string
	}{
		{
			name: "plain text",
			kind: KindLog,
			args: []any{"Yuhuu!"},
			want: "<b>ℹ️ LOG</b>\n\n\n<pre>Yuhuu!</pre>\n\n",
		},
		{
			name: "object on its own line",
			kind: KindDebug,
			args: []any{"Just debugging", map[string]any{"canILogObjects": true}},
			want: "<b>⚙️ DEBUG</b>\n\n\n<pre>Just debugging\n{\n  \"canILogObjects\": true\n}</pre>\n\n",
		},
		{
			name: "array compact",
			kind: KindError,
			args: []any{"Something went wrong:", []any{1, map[string]any{"formatted": true}, "wow"}},
			want: "<b>🆘 ERROR</b>\n\n\n<pre>Something went wrong:\n[1,{\"formatted\":true},\"wow\"]</pre>\n\n",
		},
		{
			name: "mentions and tags",
			kind: KindError,
			args: []any{"@joeberetta", "#uwu", "Something went wrong:"},
			want: "<b>🆘 ERROR</b>\n#uwu\n\n<pre>Something went wrong:</pre>\n\n@joeberetta",
		},
		{
			name: "empty",
			kind: KindWarn,
			want: "<b>⚠️ WARN</b>\n\n\n<pre></pre>\n\n",
		},
		{
			name: "unknown kind",
			kind: Kind("fatal"),
			args: []any{"x"},
			want: "<b>ℹ️ LOG</b>\n\n\n<pre>x</pre>\n\n",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Format(tt.kind, tt.args...); got != tt.want {
				t.Fatalf("Format() =\n%q\nwant\n%q", got, tt.want)
			}
		})
	}
}

func TestFormatBody(t *testing.T) {
	t.Parallel()
	type user struct {
		Name string `json:"name"`
	}
	type state struct {
		code int
		msg  string
	}
	var nilErr *os.PathError
	tests := []struct {
		name string
		args []any
		body string
	}{
		{name: "primitives are space separated", args: []any{"a", 1, true, 2.5}, body: "a 1 true 2.5"},
		{name: "text after structured starts a line", args: []any{"x", map[string]int{"a": 1}, "y"}, body: "x\n{\n  \"a\": 1\n}\ny"},
		{name: "leading structured", args: []any{[]int{1, 2}}, body: "[1,2]"},
		{name: "nil is structured", args: []any{"value:", nil}, body: "value:\nnull"},
		{name: "struct", args: []any{user{Name: "bob"}}, body: "{\n  \"name\": \"bob\"\n}"},
		{name: "pointer", args: []any{&user{Name: "eve"}}, body: "{\n  \"name\": \"eve\"\n}"},
		{name: "error renders as text", args: []any{"failed:", errors.New("boom")}, body: "failed: boom"},
		{name: "bytes render as text", args: []any{[]byte("raw")}, body: "raw"},
		{name: "html is escaped", args: []any{"<script>&", map[string]string{"k": "<v>"}}, body: "&lt;script&gt;&amp;\n{\n  \"k\": \"&lt;v&gt;\"\n}"},
		{name: "prefix-only strings absorbed", args: []any{"@", "#", "text"}, body: "text"},
		{name: "map keys sorted", args: []any{map[string]int{"b": 2, "a": 1}}, body: "{\n  \"a\": 1,\n  \"b\": 2\n}"},
		{name: "unencodable falls back to %+v", args: []any{struct{ F func() }{}}, body: "{F:&lt;nil&gt;}"},
		{name: "typed nil error", args: []any{"failed:", nilErr}, body: "failed: &lt;nil&gt;"},
		{name: "unexported fields fall back to %+v", args: []any{"state", state{code: 7, msg: "x"}}, body: "state\n{code:7 msg:x}"},
		{name: "empty struct stays json", args: []any{struct{}{}}, body: "{}"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Format(KindLog, tt.args...)
			want := "<pre>" + tt.body + "</pre>"
			if !strings.Contains(got, want) {
				t.Fatalf("Format() = %q, want body %q", got, want)
			}
		})
	}
}

func TestFormatSections(t *testing.T) {
	t.Parallel()
	got := Format(KindWarn, "#db", "@alice", "slow query", "#latency", "@bob", map[string]int{"ms": 900})

	head, rest, ok := strings.Cut(got, "\n\n<pre>")
	if !ok {
		t.Fatalf("missing body block: %q", got)
	}
	if head != "<b>⚠️ WARN</b>\n#db #latency" {
		t.Fatalf("head = %q", head)
	}
	body, mentions, ok := strings.Cut(rest, "</pre>\n\n")
	if !ok {
		t.Fatalf("missing body end: %q", rest)
	}
	if mentions != "@alice @bob" {
		t.Fatalf("mentions = %q", mentions)
	}
	if strings.Contains(body, "@") || strings.Contains(body, "#") {
		t.Fatalf("body leaked tokens: %q", body)
	}
}

func TestFormatDeterministic(t *testing.T) {
	t.Parallel()
	args := []any{"state", map[string]any{"z": 1, "a": []any{"x", 2}, "m": map[string]bool{"k": true}}, "#t", "@u"}
	first := Format(KindError, args...)
	for i := 0; i < 20; i++ {
		if got := Format(KindError, args...); got != first {
			t.Fatalf("run %d differs:\n%q\n%q", i, got, first)
		}
	}
}

func TestFormatPlain(t *testing.T) {
	t.Parallel()
	got := FormatPlain("hello", "<b>bold</b>", []int{1, 2}, 3, map[string]int{"a": 1})
	want := "hello <b>bold</b> [1,2] 3 {\n  \"a\": 1\n}"
	if got != want {
		t.Fatalf("FormatPlain() = %q, want %q", got, want)
	}
	if got := FormatPlain(); got != "" {
		t.Fatalf("FormatPlain() with no args = %q, want empty", got)
	}
	var nilErr *os.PathError
	if got := FormatPlain("failed:", nilErr); got != "failed: <nil>" {
		t.Fatalf("FormatPlain() with typed nil error = %q", got)
	}
}
