package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		input string
		want  log.Level
	}{
		{input: "", want: DefaultLevel},
		{input: "debug", want: log.DebugLevel},
		{input: " INFO ", want: log.InfoLevel},
		{input: "error", want: log.ErrorLevel},
	}
	for _, tc := range cases {
		got, err := ParseLevel(tc.input)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.input, err)
		}
		if got != tc.want {
			t.Fatalf("expected %v for %q, got %v", tc.want, tc.input, got)
		}
	}
}

func TestParseLevelInvalid(t *testing.T) {
	got, err := ParseLevel("loud")
	if err == nil {
		t.Fatal("expected error")
	}
	if got != DefaultLevel {
		t.Fatalf("expected default level, got %v", got)
	}
}

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, Options{Level: "warn"})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	logger.Info("hidden")
	logger.Warn("shown", "task", 3)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("expected info to be filtered, got %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "task=3") {
		t.Fatalf("expected warn line with fields, got %q", out)
	}
}
