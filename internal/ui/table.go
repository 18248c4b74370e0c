package ui

import (
	"strings"

	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
)

const (
	tableCellMaxWidth = 50
	tableCellEllipsis = "..."
	tableColumnGap    = "  "
)

// Align is the horizontal alignment of a table column.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// TableBuilder collects rows and renders them as an aligned table.
type TableBuilder struct {
	headers []string
	rows    [][]string
	align   map[int]Align
}

// NewTableBuilder returns a builder with room for capacity rows.
func NewTableBuilder(headers []string, capacity int) *TableBuilder {
	return &TableBuilder{headers: headers, rows: make([][]string, 0, capacity)}
}

// AddRow appends a row. Missing cells render empty; extra cells are dropped.
func (b *TableBuilder) AddRow(row ...string) {
	b.rows = append(b.rows, row)
}

// SetAlign sets the alignment of column col.
func (b *TableBuilder) SetAlign(col int, align Align) *TableBuilder {
	if b.align == nil {
		b.align = make(map[int]Align)
	}
	b.align[col] = align
	return b
}

// Len returns the number of rows added so far.
func (b *TableBuilder) Len() int {
	return len(b.rows)
}

// String renders the table.
func (b *TableBuilder) String() string {
	return formatTable(b.headers, b.rows, b.align)
}

// FormatTable renders headers and left-aligned rows. Column widths ignore
// ANSI escape sequences so styled cells still line up. Line breaks and
// tabs inside cells become spaces.
func FormatTable(headers []string, rows [][]string) string {
	return formatTable(headers, rows, nil)
}

func formatTable(headers []string, rows [][]string, align map[int]Align) string {
	grid := make([][]string, 0, len(rows)+1)
	grid = append(grid, normalizeRow(headers, len(headers)))
	for _, row := range rows {
		grid = append(grid, normalizeRow(row, len(headers)))
	}
	widths := columnWidths(grid)

	var out strings.Builder
	for _, row := range grid {
		var line strings.Builder
		for i, cell := range row {
			if i > 0 {
				line.WriteString(tableColumnGap)
			}
			pad := strings.Repeat(" ", widths[i]-ansi.PrintableRuneWidth(cell))
			if align[i] == AlignRight {
				line.WriteString(pad + cell)
			} else {
				line.WriteString(cell + pad)
			}
		}
		out.WriteString(strings.TrimRight(line.String(), " "))
		out.WriteByte('\n')
	}
	return out.String()
}

func normalizeRow(row []string, columns int) []string {
	out := make([]string, columns)
	for i := 0; i < columns && i < len(row); i++ {
		out[i] = normalizeTableCell(row[i])
	}
	return out
}

func columnWidths(grid [][]string) []int {
	if len(grid) == 0 {
		return nil
	}
	widths := make([]int, len(grid[0]))
	for _, row := range grid {
		for i, cell := range row {
			widths[i] = max(widths[i], ansi.PrintableRuneWidth(cell))
		}
	}
	return widths
}

// TruncateTableCell limits a cell to the table's maximum width.
func TruncateTableCell(value string) string {
	return TruncateWidth(normalizeTableCell(value), tableCellMaxWidth)
}

// TruncateWidth shortens value to at most width printable cells, ending
// with an ellipsis when anything was cut. Escape sequences are preserved.
func TruncateWidth(value string, width int) string {
	if ansi.PrintableRuneWidth(value) <= width {
		return value
	}
	if width <= len(tableCellEllipsis) {
		return tableCellEllipsis
	}
	return truncate.StringWithTail(value, uint(width), tableCellEllipsis)
}

var cellReplacer = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ")

func normalizeTableCell(value string) string {
	return cellReplacer.Replace(value)
}
