// Package tables assembles clustered rows and column boundaries into a
// rectangular cell grid, and detects and flattens merged cells.
package tables

import (
	"math"
	"strings"

	"github.com/tsawler/gridify/model"
)

// Config holds table builder configuration.
type Config struct {
	// CellAssignTolerance is the maximum distance, in points, between an
	// object's X and a column boundary for the object to be assigned to
	// that column. Unlike the clustering tolerances this is a fixed value,
	// not font-scaled; see the package design notes.
	CellAssignTolerance float64

	// MaxContinuationLength is the longest cell text eligible for the
	// multi-line paragraph-continuation merge. Default: 50.
	MaxContinuationLength int

	// MinRows is the minimum row count for a table to be valid output.
	// Default: 2 (header plus at least one data row).
	MinRows int
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		CellAssignTolerance:   30.0,
		MaxContinuationLength: 50,
		MinRows:               2,
	}
}

// Builder assigns text objects to (row, column) cells and produces a
// rectangular table.
type Builder struct {
	config Config
}

// NewBuilder creates a builder with default configuration.
func NewBuilder() *Builder {
	return &Builder{config: DefaultConfig()}
}

// NewBuilderWithConfig creates a builder with custom configuration.
func NewBuilderWithConfig(config Config) *Builder {
	return &Builder{config: config}
}

// Build assigns each object to the nearest column boundary within tolerance,
// concatenates same-cell text left to right, merges multi-line continuation
// cells, and drops rows left entirely empty. It returns nil when the result
// has fewer than MinRows rows: such a grid is "no table found", not a table.
func (b *Builder) Build(rows []model.Row, boundaries []float64) *model.Table {
	if len(rows) == 0 || len(boundaries) == 0 {
		return nil
	}

	table := model.NewTable(len(rows), len(boundaries))
	table.ColumnX = append([]float64(nil), boundaries...)
	table.RowY = make([]float64, len(rows))

	for i, row := range rows {
		table.RowY[i] = row.YCenter
		// Items arrive pre-sorted left to right, so append order within a
		// cell is always correct.
		for _, obj := range row.Items {
			col, dist := nearestBoundary(obj.X, boundaries)
			if dist > b.config.CellAssignTolerance {
				continue
			}
			cell := table.GetCell(i, col)
			if cell.Text == "" {
				cell.FontSize = obj.FontSize
			} else {
				cell.Text += " "
			}
			cell.Text += obj.Text
			cell.Bold = cell.Bold || obj.Bold
		}
	}

	b.mergeContinuationLines(table)
	table = dropEmptyRows(table)

	if table == nil || table.RowCount() < b.config.MinRows {
		return nil
	}
	return table
}

// nearestBoundary returns the index of the closest boundary and its
// distance. Boundaries are sorted ascending, but the list is short enough
// that a linear scan reads better than a binary search.
func nearestBoundary(x float64, boundaries []float64) (int, float64) {
	best := 0
	bestDist := math.Abs(x - boundaries[0])
	for i := 1; i < len(boundaries); i++ {
		if d := math.Abs(x - boundaries[i]); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best, bestDist
}

// mergeContinuationLines applies the paragraph-continuation heuristic: a
// short, non-bold, non-header cell whose text does not end in terminal
// punctuation absorbs the same-column cell of the next row. This can merge
// unrelated short cells; that trade-off favors readable multi-line cells
// over strict correctness.
func (b *Builder) mergeContinuationLines(table *model.Table) {
	for i := 1; i < table.RowCount()-1; i++ {
		for j := 0; j < table.ColCount(); j++ {
			cell := table.GetCell(i, j)
			next := table.GetCell(i+1, j)
			if cell.IsEmpty() || next.IsEmpty() {
				continue
			}
			if cell.Bold {
				continue
			}
			if len(cell.Text) >= b.config.MaxContinuationLength {
				continue
			}
			if endsInTerminalPunctuation(cell.Text) {
				continue
			}
			cell.Text = cell.Text + " " + next.Text
			next.Text = ""
		}
	}
}

// endsInTerminalPunctuation reports whether the text ends a sentence.
func endsInTerminalPunctuation(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	switch trimmed[len(trimmed)-1] {
	case '.', '!', '?':
		return true
	}
	return false
}

// dropEmptyRows removes rows in which every cell is empty, renumbering the
// remaining cells. Returns nil if nothing remains.
func dropEmptyRows(table *model.Table) *model.Table {
	kept := table.Rows[:0:0]
	var keptY []float64
	for i, row := range table.Rows {
		empty := true
		for _, cell := range row {
			if !cell.IsEmpty() {
				empty = false
				break
			}
		}
		if !empty {
			kept = append(kept, row)
			if i < len(table.RowY) {
				keptY = append(keptY, table.RowY[i])
			}
		}
	}
	if len(kept) == 0 {
		return nil
	}

	table.Rows = kept
	table.RowY = keptY
	for i := range table.Rows {
		for j := range table.Rows[i] {
			table.Rows[i][j].Row = i
			table.Rows[i][j].Col = j
		}
	}
	return table
}
