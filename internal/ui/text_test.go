package ui

import "testing"

func TestReflowParagraphs(t *testing.T) {
	input := "one two three four five\nsix\n\n\n  seven   eight  "

	got := ReflowParagraphs(input, 10)

	expected := "one two\nthree four\nfive six\n\nseven\neight"
	if got != expected {
		t.Fatalf("expected %q, got %q", expected, got)
	}
}

func TestReflowParagraphsEmpty(t *testing.T) {
	if got := ReflowParagraphs(" \n\n ", 20); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}

func TestIndentBlock(t *testing.T) {
	got := IndentBlock("a\nb\n", 2)
	if got != "  a\n  b" {
		t.Fatalf("unexpected indent %q", got)
	}
	if got := IndentBlock("a", 0); got != "a" {
		t.Fatalf("expected unchanged value, got %q", got)
	}
}

func TestNormalizeNewlines(t *testing.T) {
	if got := NormalizeNewlines("a\r\nb\rc"); got != "a\nb\nc" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestTerminalWidthFallback(t *testing.T) {
	original := terminalSize
	terminalSize = func() (int, int, error) { return 0, 0, errNoTerminal }
	t.Cleanup(func() { terminalSize = original })

	if got := TerminalWidth(80); got != 80 {
		t.Fatalf("expected fallback 80, got %d", got)
	}
}
