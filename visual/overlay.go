package visual

import (
	"math"

	"github.com/tidwall/rtree"

	"github.com/tsawler/gridify/model"
)

// cellRef identifies one grid cell in the spatial index.
type cellRef struct {
	row, col int
}

// BuildOverlay maps detected visual elements onto the text-derived grid so
// the serializer can draw borders and insert images into the correct
// spreadsheet cells. Detection coordinates are raster pixels at the render
// scale; they are converted to text space before matching.
//
// Borders attach to the nearest row/column index, boxes to the range of
// rows and columns they overlap, and images to the cell containing their
// center point. Elements falling outside the grid entirely are dropped.
func BuildOverlay(result Result, table *model.Table, scale float64) *model.VisualOverlay {
	if table == nil || len(table.RowY) == 0 || len(table.ColumnX) == 0 {
		return nil
	}
	if scale <= 0 {
		scale = 1.0
	}

	rowBands := rowBands(table.RowY)
	colBands := colBands(table.ColumnX)

	overlay := &model.VisualOverlay{}

	for _, line := range result.Horizontal {
		y := line.Position / scale
		if idx := nearestIndex(y, table.RowY); idx >= 0 {
			overlay.RowBorders = append(overlay.RowBorders, model.BorderHint{
				Index:     idx,
				Thickness: line.Thickness / scale,
			})
		}
	}
	for _, line := range result.Vertical {
		x := line.Position / scale
		if idx := nearestIndex(x, table.ColumnX); idx >= 0 {
			overlay.ColBorders = append(overlay.ColBorders, model.BorderHint{
				Index:     idx,
				Thickness: line.Thickness / scale,
			})
		}
	}

	for _, box := range result.Boxes {
		startRow, endRow := bandRange(box.Y/scale, (box.Y+box.Height)/scale, rowBands)
		startCol, endCol := bandRange(box.X/scale, (box.X+box.Width)/scale, colBands)
		if startRow < 0 || startCol < 0 {
			continue
		}
		overlay.Boxes = append(overlay.Boxes, model.BoxSpan{
			StartRow:   startRow,
			EndRow:     endRow,
			StartCol:   startCol,
			EndCol:     endCol,
			Confidence: box.Confidence,
		})
	}

	if len(result.Images) > 0 {
		index := buildCellIndex(rowBands, colBands)
		for _, img := range result.Images {
			center := img.BBox().Center()
			cx, cy := center.X/scale, center.Y/scale
			if ref, ok := findContainingCell(index, cx, cy); ok {
				overlay.Images = append(overlay.Images, model.ImagePlacement{
					Row:    ref.row,
					Col:    ref.col,
					Width:  img.Width,
					Height: img.Height,
				})
			}
		}
	}

	if overlay.IsEmpty() {
		return nil
	}
	return overlay
}

// band is a half-open interval [lo, hi) of one grid axis.
type band struct {
	lo, hi float64
}

// rowBands converts row Y centers into vertical bands split at midpoints
// between adjacent rows. The outermost bands extend outward by the
// neighboring half-gap.
func rowBands(rowY []float64) []band {
	n := len(rowY)
	bands := make([]band, n)
	for i := 0; i < n; i++ {
		var lo, hi float64
		switch {
		case n == 1:
			lo, hi = rowY[0]-10, rowY[0]+10
		case i == 0:
			half := (rowY[1] - rowY[0]) / 2
			lo, hi = rowY[0]-half, rowY[0]+half
		case i == n-1:
			half := (rowY[i] - rowY[i-1]) / 2
			lo, hi = rowY[i]-half, rowY[i]+half
		default:
			lo = (rowY[i-1] + rowY[i]) / 2
			hi = (rowY[i] + rowY[i+1]) / 2
		}
		bands[i] = band{lo: lo, hi: hi}
	}
	return bands
}

// colBands converts column left edges into horizontal bands: each column
// spans from its boundary to the next. The last column gets the average
// column width.
func colBands(columnX []float64) []band {
	n := len(columnX)
	bands := make([]band, n)
	for i := 0; i < n-1; i++ {
		bands[i] = band{lo: columnX[i], hi: columnX[i+1]}
	}
	lastWidth := 100.0
	if n > 1 {
		lastWidth = (columnX[n-1] - columnX[0]) / float64(n-1)
	}
	bands[n-1] = band{lo: columnX[n-1], hi: columnX[n-1] + lastWidth}
	return bands
}

// nearestIndex returns the index of the closest value, or -1 for an empty
// slice.
func nearestIndex(v float64, values []float64) int {
	best := -1
	bestDist := math.MaxFloat64
	for i, candidate := range values {
		if d := math.Abs(v - candidate); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

// bandRange returns the first and last band index overlapped by [lo, hi],
// or (-1, -1) when nothing overlaps.
func bandRange(lo, hi float64, bands []band) (int, int) {
	first, last := -1, -1
	for i, b := range bands {
		if hi < b.lo || lo >= b.hi {
			continue
		}
		if first < 0 {
			first = i
		}
		last = i
	}
	return first, last
}

// buildCellIndex inserts every cell rectangle into an R-tree for
// center-point containment queries.
func buildCellIndex(rows, cols []band) *rtree.RTreeG[cellRef] {
	var tr rtree.RTreeG[cellRef]
	for i, rb := range rows {
		for j, cb := range cols {
			tr.Insert(
				[2]float64{cb.lo, rb.lo},
				[2]float64{cb.hi, rb.hi},
				cellRef{row: i, col: j},
			)
		}
	}
	return &tr
}

// findContainingCell queries the index with a degenerate rectangle at the
// point and returns the first cell containing it.
func findContainingCell(tr *rtree.RTreeG[cellRef], x, y float64) (cellRef, bool) {
	var found cellRef
	ok := false
	tr.Search([2]float64{x, y}, [2]float64{x, y},
		func(min, max [2]float64, ref cellRef) bool {
			found = ref
			ok = true
			return false
		})
	return found, ok
}
