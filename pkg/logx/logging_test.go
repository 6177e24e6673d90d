package logx

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func decodeLines(t *testing.T, b *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(b.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid json line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestServiceExtraWriter(t *testing.T) {
	var buf bytes.Buffer
	svc, log := New(Config{Level: "debug"}, &buf)
	defer svc.Close()

	log.With(String("component", "test")).Info("hello", Int("n", 2), Err(nil))

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("lines = %d, want 1", len(lines))
	}
	l := lines[0]
	if l["message"] != "hello" || l["component"] != "test" || l["n"] != float64(2) {
		t.Fatalf("unexpected event: %v", l)
	}
	if _, ok := l["err"]; ok {
		t.Fatal("nil error must not be logged")
	}
	if c, _ := l["caller"].(string); !strings.HasPrefix(c, "logging_test.go:") {
		t.Fatalf("caller = %q, want logging_test.go:<line>", c)
	}
}

func TestServiceApplyLevel(t *testing.T) {
	var buf bytes.Buffer
	svc, log := New(Config{Level: "warn"}, &buf)
	defer svc.Close()

	log.Info("dropped")
	log.Warn("kept")
	if got := len(decodeLines(t, &buf)); got != 1 {
		t.Fatalf("lines = %d, want 1", got)
	}

	buf.Reset()
	svc.Apply(Config{Level: "debug"})
	log.Debug("now visible")
	if got := len(decodeLines(t, &buf)); got != 1 {
		t.Fatalf("lines after Apply = %d, want 1", got)
	}
	if !log.Enabled(zerolog.DebugLevel) {
		t.Fatal("Enabled(debug) = false after Apply")
	}
}

func TestServiceFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	svc, log := New(Config{Level: "info", File: FileConfig{Enabled: true, Path: path}})

	log.Error("written to file")
	if err := svc.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(b), "written to file") {
		t.Fatalf("file content = %q", b)
	}
}

func TestZeroAndNopLoggers(t *testing.T) {
	t.Parallel()
	var zero Logger
	if !zero.IsZero() {
		t.Fatal("zero Logger should report IsZero")
	}
	zero.Error("ignored")
	Nop().Error("ignored")
	if Nop().IsZero() {
		t.Fatal("Nop() should not report IsZero")
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()
	tests := []struct {
		raw  string
		want zerolog.Level
	}{
		{raw: "trace", want: zerolog.TraceLevel},
		{raw: " Debug ", want: zerolog.DebugLevel},
		{raw: "INFO", want: zerolog.InfoLevel},
		{raw: "warning", want: zerolog.WarnLevel},
		{raw: "error", want: zerolog.ErrorLevel},
		{raw: "bogus", want: zerolog.WarnLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.raw, zerolog.WarnLevel); got != tt.want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()
	if got := Truncate("short", 10); got != "short" {
		t.Fatalf("Truncate() = %q", got)
	}
	if got := Truncate(strings.Repeat("x", 20), 12); got != "xxxxxxxxx..." {
		t.Fatalf("Truncate() = %q", got)
	}
	// two-byte runes: both cuts land mid-rune and back off
	if got := Truncate(strings.Repeat("é", 10), 12); got != "éééé..." {
		t.Fatalf("Truncate() = %q", got)
	}
	if got := Truncate(strings.Repeat("é", 10), 5); got != "éé" {
		t.Fatalf("Truncate() = %q", got)
	}
}
