package model

import (
	"fmt"
	"strings"
)

// Cell represents a table cell. Text is the space-joined concatenation, in
// left-to-right order, of every text object assigned to the (row, column)
// position. FontSize and Bold are style hints for the downstream serializer.
type Cell struct {
	Text     string
	FontSize float64
	Bold     bool
	Row      int
	Col      int
}

// IsEmpty reports whether the cell contains no text.
func (c Cell) IsEmpty() bool {
	return strings.TrimSpace(c.Text) == ""
}

// Table represents a rectangular cell grid: every row has the same number of
// columns, padded with empty cells as needed. A table with fewer than two
// rows is never produced by the builder (header plus at least one data row
// is the minimum for valid output).
type Table struct {
	Rows [][]Cell

	// ColumnX holds the column boundary X coordinates (strictly increasing),
	// RowY the clustered row Y centers (non-decreasing, top to bottom).
	// Both are kept so visual elements can later be mapped onto the grid.
	ColumnX []float64
	RowY    []float64
}

// NewTable creates a table with the given dimensions, all cells empty.
func NewTable(rows, cols int) *Table {
	t := &Table{Rows: make([][]Cell, rows)}
	for i := 0; i < rows; i++ {
		t.Rows[i] = make([]Cell, cols)
		for j := 0; j < cols; j++ {
			t.Rows[i][j] = Cell{Row: i, Col: j}
		}
	}
	return t
}

// RowCount returns the number of rows.
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// ColCount returns the number of columns in the first row.
func (t *Table) ColCount() int {
	if len(t.Rows) == 0 {
		return 0
	}
	return len(t.Rows[0])
}

// GetCell returns the cell at the given position, or nil if out of bounds.
func (t *Table) GetCell(row, col int) *Cell {
	if row < 0 || row >= len(t.Rows) {
		return nil
	}
	if col < 0 || col >= len(t.Rows[row]) {
		return nil
	}
	return &t.Rows[row][col]
}

// SetCell sets the cell at the given position.
func (t *Table) SetCell(row, col int, cell Cell) error {
	if row < 0 || row >= len(t.Rows) {
		return fmt.Errorf("row index %d out of bounds", row)
	}
	if col < 0 || col >= len(t.Rows[row]) {
		return fmt.Errorf("col index %d out of bounds", col)
	}
	cell.Row = row
	cell.Col = col
	t.Rows[row][col] = cell
	return nil
}

// Strings returns the cell text as a plain 2-D slice, the shape handed to
// external spreadsheet and document serializers.
func (t *Table) Strings() [][]string {
	out := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = make([]string, len(row))
		for j, cell := range row {
			out[i][j] = cell.Text
		}
	}
	return out
}

// ToCSV converts the table to CSV format.
func (t *Table) ToCSV() string {
	var sb strings.Builder
	for _, row := range t.Rows {
		for j, cell := range row {
			text := cell.Text
			if strings.Contains(text, ",") || strings.Contains(text, "\"") || strings.Contains(text, "\n") {
				text = "\"" + strings.ReplaceAll(text, "\"", "\"\"") + "\""
			}
			sb.WriteString(text)
			if j < len(row)-1 {
				sb.WriteString(",")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// ToMarkdown converts the table to markdown format. The first row is
// rendered as the header row.
func (t *Table) ToMarkdown() string {
	if len(t.Rows) == 0 {
		return ""
	}

	var sb strings.Builder

	for j, cell := range t.Rows[0] {
		sb.WriteString("| ")
		sb.WriteString(strings.ReplaceAll(cell.Text, "\n", " "))
		sb.WriteString(" ")
		if j == len(t.Rows[0])-1 {
			sb.WriteString("|")
		}
	}
	sb.WriteString("\n")

	for j := range t.Rows[0] {
		sb.WriteString("|---")
		if j == len(t.Rows[0])-1 {
			sb.WriteString("|")
		}
	}
	sb.WriteString("\n")

	for i := 1; i < len(t.Rows); i++ {
		for j, cell := range t.Rows[i] {
			sb.WriteString("| ")
			sb.WriteString(strings.ReplaceAll(cell.Text, "\n", " "))
			sb.WriteString(" ")
			if j == len(t.Rows[i])-1 {
				sb.WriteString("|")
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// SpanType indicates the direction of a merged-cell span.
type SpanType int

const (
	SpanHorizontal SpanType = iota
	SpanVertical
)

func (s SpanType) String() string {
	if s == SpanHorizontal {
		return "horizontal"
	}
	return "vertical"
}

// MergedCellSpan is a detected region of repeated identical text indicating
// a merged cell. Horizontal spans cover columns [StartCol, EndCol] within
// Row; vertical spans cover rows [StartRow, EndRow] within Col. Spans are
// consumed by the splitter and then discarded: the final table carries no
// merge metadata.
type MergedCellSpan struct {
	Type SpanType

	// Horizontal span fields
	Row      int
	StartCol int
	EndCol   int

	// Vertical span fields
	Col      int
	StartRow int
	EndRow   int

	// Text is the single original text repeated across the span.
	Text string
}

// CellCount returns the number of cells covered by the span.
func (s MergedCellSpan) CellCount() int {
	if s.Type == SpanHorizontal {
		return s.EndCol - s.StartCol + 1
	}
	return s.EndRow - s.StartRow + 1
}

// IDCardResult is the key-value template emitted when a page is classified
// as an ID-card-style (label:value) document instead of a generic grid.
type IDCardResult struct {
	Headers []string    `json:"headers"`
	Rows    [][2]string `json:"rows"`
}
