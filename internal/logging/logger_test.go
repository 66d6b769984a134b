package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"DEBUG", LevelDebug, false},
		{"", LevelInfo, false},
		{"info", LevelInfo, false},
		{"warn", LevelWarn, false},
		{"warning", LevelWarn, false},
		{" error ", LevelError, false},
		{"verbose", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q): err=%v, wantErr=%v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q): got %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLevel_String(t *testing.T) {
	if got := LevelWarn.String(); got != "WARN" {
		t.Errorf("LevelWarn.String(): got %q, want WARN", got)
	}
	if got := Level(42).String(); got != "LEVEL(42)" {
		t.Errorf("Level(42).String(): got %q, want LEVEL(42)", got)
	}
}

func TestLogger_Format(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "kanji", LevelDebug)

	l.Info("recognized", "character", "山", "confidence", 0.5)

	out := buf.String()
	for _, want := range []string{"[kanji] ", "[INFO] recognized", "character=山", "confidence=0.5"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "", LevelWarn)

	l.Debug("debug message")
	l.Info("info message")
	l.Warn("warn message")
	l.Error("error message")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("messages below warn were written: %q", out)
	}
	if !strings.Contains(out, "[WARN] warn message") || !strings.Contains(out, "[ERROR] error message") {
		t.Errorf("warn/error messages missing: %q", out)
	}
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	base := New(&buf, "", LevelInfo)
	child := base.With("call_id", "abc")

	child.Info("first", "n", 1)
	base.Info("second")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "first call_id=abc n=1") {
		t.Errorf("child line: got %q, want fields call_id then n", lines[0])
	}
	if strings.Contains(lines[1], "call_id") {
		t.Errorf("parent line picked up child fields: %q", lines[1])
	}
}

func TestLogger_OddKeyValues(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "", LevelInfo)

	l.Info("msg", "key", "value", "dangling")

	out := buf.String()
	if !strings.Contains(out, "key=value") {
		t.Errorf("output %q missing key=value", out)
	}
	if strings.Contains(out, "dangling") {
		t.Errorf("dangling key should be dropped: %q", out)
	}
}

func TestDiscard(t *testing.T) {
	l := Discard()
	if l.Enabled(LevelError) {
		t.Error("Discard logger should not enable any level")
	}
	l.Error("nothing happens")
}
