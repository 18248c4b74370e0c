package ui

import (
	"strings"
	"testing"
)

func TestTruncateTableCellCountsRunes(t *testing.T) {
	value := strings.Repeat("a", tableCellMaxWidth-1) + "é"

	if got := TruncateTableCell(value); got != value {
		t.Fatalf("expected value to remain untruncated, got %q", got)
	}
}

func TestTruncateTableCellIgnoresANSICodes(t *testing.T) {
	value := "\x1b[1m\x1b[36m" + strings.Repeat("a", tableCellMaxWidth) + "\x1b[0m"

	if got := TruncateTableCell(value); got != value {
		t.Fatalf("expected value to remain untruncated, got %q", got)
	}
}

func TestFormatTableNormalizesLineBreaks(t *testing.T) {
	got := FormatTable([]string{"COL"}, [][]string{{"Hello\nWorld\r\nAgain\tTab"}})

	expected := "COL\nHello World Again Tab\n"
	if got != expected {
		t.Fatalf("expected %q, got %q", expected, got)
	}
}

func TestFormatTableAlignsStyledCells(t *testing.T) {
	rows := [][]string{
		{"\x1b[1m#1\x1b[0m", "pending"},
		{"#10", "done"},
	}

	got := FormatTable([]string{"ID", "STATUS"}, rows)

	expected := "ID   STATUS\n\x1b[1m#1\x1b[0m   pending\n#10  done\n"
	if got != expected {
		t.Fatalf("expected %q, got %q", expected, got)
	}
}

func TestFormatTablePadsShortRows(t *testing.T) {
	got := FormatTable([]string{"A", "B", "C"}, [][]string{{"x"}, {"1", "2", "3", "extra"}})

	expected := "A  B  C\nx\n1  2  3\n"
	if got != expected {
		t.Fatalf("expected %q, got %q", expected, got)
	}
}

func TestTableBuilderRightAlign(t *testing.T) {
	b := NewTableBuilder([]string{"STATUS", "COUNT"}, 2).SetAlign(1, AlignRight)
	b.AddRow("pending", "3")
	b.AddRow("done", "12")

	expected := "STATUS   COUNT\npending      3\ndone        12\n"
	if got := b.String(); got != expected {
		t.Fatalf("expected %q, got %q", expected, got)
	}
	if b.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", b.Len())
	}
}

func TestTruncateWidthAddsEllipsis(t *testing.T) {
	if got := TruncateWidth("abcdefghij", 8); got != "abcde..." {
		t.Fatalf("expected abcde..., got %q", got)
	}
	if got := TruncateWidth("abc", 8); got != "abc" {
		t.Fatalf("expected short value unchanged, got %q", got)
	}
	if got := TruncateWidth("abcdef", 2); got != "..." {
		t.Fatalf("expected bare ellipsis, got %q", got)
	}
}
