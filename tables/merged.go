package tables

import (
	"github.com/tsawler/gridify/model"
)

// SpanConfig holds merged-cell detection configuration.
type SpanConfig struct {
	// MinHorizontalTextLen is the minimum text length (exclusive) for a
	// horizontal repeat to count as a merged cell. Default: 5.
	MinHorizontalTextLen int

	// MinVerticalTextLen is the minimum text length (exclusive) for a
	// vertical repeat to count as a merged cell. Default: 3.
	MinVerticalTextLen int
}

// DefaultSpanConfig returns sensible default configuration.
func DefaultSpanConfig() SpanConfig {
	return SpanConfig{
		MinHorizontalTextLen: 5,
		MinVerticalTextLen:   3,
	}
}

// SpanDetector finds merged-cell spans: identical non-trivial text repeated
// in adjacent cells, the footprint a merged cell leaves after text
// extraction duplicates it into every grid position it covered.
type SpanDetector struct {
	config SpanConfig
}

// NewSpanDetector creates a detector with default configuration.
func NewSpanDetector() *SpanDetector {
	return &SpanDetector{config: DefaultSpanConfig()}
}

// NewSpanDetectorWithConfig creates a detector with custom configuration.
func NewSpanDetectorWithConfig(config SpanConfig) *SpanDetector {
	return &SpanDetector{config: config}
}

// Detect scans the table for horizontal and vertical merged-cell spans.
func (d *SpanDetector) Detect(table *model.Table) []model.MergedCellSpan {
	if table == nil {
		return nil
	}
	spans := d.detectHorizontal(table)
	spans = append(spans, d.detectVertical(table)...)
	return spans
}

// detectHorizontal scans each row left to right for repeated text.
func (d *SpanDetector) detectHorizontal(table *model.Table) []model.MergedCellSpan {
	var spans []model.MergedCellSpan

	for i := 0; i < table.RowCount(); i++ {
		j := 0
		for j < table.ColCount() {
			cell := table.GetCell(i, j)
			if cell.IsEmpty() || len(cell.Text) <= d.config.MinHorizontalTextLen {
				j++
				continue
			}

			end := j
			for end+1 < table.ColCount() && table.GetCell(i, end+1).Text == cell.Text {
				end++
			}
			if end > j {
				spans = append(spans, model.MergedCellSpan{
					Type:     model.SpanHorizontal,
					Row:      i,
					StartCol: j,
					EndCol:   end,
					Text:     cell.Text,
				})
			}
			j = end + 1
		}
	}
	return spans
}

// detectVertical scans each column top to bottom for repeated text.
func (d *SpanDetector) detectVertical(table *model.Table) []model.MergedCellSpan {
	var spans []model.MergedCellSpan

	for j := 0; j < table.ColCount(); j++ {
		i := 0
		for i < table.RowCount() {
			cell := table.GetCell(i, j)
			if cell.IsEmpty() || len(cell.Text) <= d.config.MinVerticalTextLen {
				i++
				continue
			}

			end := i
			for end+1 < table.RowCount() && table.GetCell(end+1, j).Text == cell.Text {
				end++
			}
			if end > i {
				spans = append(spans, model.MergedCellSpan{
					Type:     model.SpanVertical,
					Col:      j,
					StartRow: i,
					EndRow:   end,
					Text:     cell.Text,
				})
			}
			i = end + 1
		}
	}
	return spans
}

// Split flattens detected spans in place so the grid suits spreadsheet
// output with no merge metadata.
//
// Horizontal spans have the original text redistributed character-wise
// across the span's cells, sliced sequentially, so rejoining the cells
// reproduces the original exactly. Vertical spans are left unchanged, with
// the duplicated text remaining in every row of the span; the asymmetry is
// preserved for behavioral compatibility with existing output.
func Split(table *model.Table, spans []model.MergedCellSpan) {
	if table == nil {
		return
	}
	for _, span := range spans {
		if span.Type != model.SpanHorizontal {
			continue
		}

		runes := []rune(span.Text)
		n := span.CellCount()
		perCell := (len(runes) + n - 1) / n

		pos := 0
		for col := span.StartCol; col <= span.EndCol; col++ {
			cell := table.GetCell(span.Row, col)
			if cell == nil {
				continue
			}
			end := pos + perCell
			if end > len(runes) {
				end = len(runes)
			}
			cell.Text = string(runes[pos:end])
			pos = end
		}
	}
}
