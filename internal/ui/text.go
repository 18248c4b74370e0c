package ui

import (
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
)

// NormalizeWhitespace collapses runs of whitespace to single spaces.
func NormalizeWhitespace(value string) string {
	return strings.Join(strings.Fields(value), " ")
}

// NormalizeNewlines converts CRLF and CR line endings to LF.
func NormalizeNewlines(value string) string {
	value = strings.ReplaceAll(value, "\r\n", "\n")
	return strings.ReplaceAll(value, "\r", "\n")
}

// TrimTrailingNewlines removes trailing line breaks.
func TrimTrailingNewlines(value string) string {
	return strings.TrimRight(value, "\r\n")
}

// ReflowParagraphs wraps each blank-line separated paragraph to width.
func ReflowParagraphs(value string, width int) string {
	value = strings.TrimSpace(NormalizeNewlines(value))
	if value == "" {
		return ""
	}
	paragraphs := splitParagraphs(value)
	wrapped := make([]string, 0, len(paragraphs))
	for _, paragraph := range paragraphs {
		normalized := NormalizeWhitespace(paragraph)
		if normalized == "" {
			continue
		}
		wrapped = append(wrapped, wordwrap.String(normalized, width))
	}
	return strings.Join(wrapped, "\n\n")
}

func splitParagraphs(value string) []string {
	var paragraphs []string
	var current []string
	flush := func() {
		if len(current) == 0 {
			return
		}
		paragraphs = append(paragraphs, strings.Join(current, " "))
		current = nil
	}
	for _, line := range strings.Split(value, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()
	return paragraphs
}

// IndentBlock prefixes each line with spaces.
func IndentBlock(value string, spaces int) string {
	value = TrimTrailingNewlines(value)
	if spaces <= 0 {
		return value
	}
	return indent.String(value, uint(spaces))
}

// TerminalWidth returns the width of stdout, or fallback when stdout isn't
// a terminal.
func TerminalWidth(fallback int) int {
	width, _, err := terminalSize()
	if err != nil || width <= 0 {
		return fallback
	}
	return width
}
