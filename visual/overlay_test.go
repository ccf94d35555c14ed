package visual

import (
	"testing"

	"github.com/tsawler/gridify/model"
)

func gridTable() *model.Table {
	table := model.NewTable(3, 2)
	table.RowY = []float64{100, 120, 140}
	table.ColumnX = []float64{10, 200}
	return table
}

func TestBuildOverlay_NoGrid(t *testing.T) {
	result := Result{Horizontal: []model.BorderLine{{Position: 240}}}
	if overlay := BuildOverlay(result, nil, 2.0); overlay != nil {
		t.Error("nil table should yield nil overlay")
	}

	bare := model.NewTable(2, 2) // no RowY/ColumnX recorded
	if overlay := BuildOverlay(result, bare, 2.0); overlay != nil {
		t.Error("table without grid coordinates should yield nil overlay")
	}
}

func TestBuildOverlay_EmptyResult(t *testing.T) {
	if overlay := BuildOverlay(Result{}, gridTable(), 2.0); overlay != nil {
		t.Error("empty detection result should yield nil overlay")
	}
}

func TestBuildOverlay_Borders(t *testing.T) {
	// Raster coordinates are at scale 2: pixel Y 240 is text Y 120, the
	// middle row.
	result := Result{
		Horizontal: []model.BorderLine{
			{Orientation: model.Horizontal, Position: 240, Thickness: 4},
		},
		Vertical: []model.BorderLine{
			{Orientation: model.Vertical, Position: 20, Thickness: 2},
		},
	}

	overlay := BuildOverlay(result, gridTable(), 2.0)
	if overlay == nil {
		t.Fatal("BuildOverlay returned nil")
	}
	if len(overlay.RowBorders) != 1 {
		t.Fatalf("got %d row borders, want 1", len(overlay.RowBorders))
	}
	if hint := overlay.RowBorders[0]; hint.Index != 1 || hint.Thickness != 2 {
		t.Errorf("row border = %+v, want index 1 thickness 2", hint)
	}
	if len(overlay.ColBorders) != 1 {
		t.Fatalf("got %d col borders, want 1", len(overlay.ColBorders))
	}
	if hint := overlay.ColBorders[0]; hint.Index != 0 || hint.Thickness != 1 {
		t.Errorf("col border = %+v, want index 0 thickness 1", hint)
	}
}

func TestBuildOverlay_BoxSpansCellRange(t *testing.T) {
	// Pixel box (20,190 360x60) is text box (10,95 180x30): rows 0-1,
	// column 0 only.
	result := Result{
		Boxes: []model.Box{{X: 20, Y: 190, Width: 360, Height: 60, Confidence: 0.8}},
	}

	overlay := BuildOverlay(result, gridTable(), 2.0)
	if overlay == nil {
		t.Fatal("BuildOverlay returned nil")
	}
	if len(overlay.Boxes) != 1 {
		t.Fatalf("got %d box spans, want 1", len(overlay.Boxes))
	}
	span := overlay.Boxes[0]
	want := model.BoxSpan{StartRow: 0, EndRow: 1, StartCol: 0, EndCol: 0, Confidence: 0.8}
	if span != want {
		t.Errorf("box span = %+v, want %+v", span, want)
	}
}

func TestBuildOverlay_ImagePlacedByCenter(t *testing.T) {
	// Region center pixel (100,200) is text point (50,100): first row,
	// first column. Pixel dimensions are preserved for sizing.
	result := Result{
		Images: []model.ImageRegion{{X: 80, Y: 180, Width: 40, Height: 40}},
	}

	overlay := BuildOverlay(result, gridTable(), 2.0)
	if overlay == nil {
		t.Fatal("BuildOverlay returned nil")
	}
	if len(overlay.Images) != 1 {
		t.Fatalf("got %d image placements, want 1", len(overlay.Images))
	}
	placement := overlay.Images[0]
	if placement.Row != 0 || placement.Col != 0 {
		t.Errorf("placement cell = (%d,%d), want (0,0)", placement.Row, placement.Col)
	}
	if placement.Width != 40 || placement.Height != 40 {
		t.Errorf("placement size = %vx%v, want pixel dimensions 40x40", placement.Width, placement.Height)
	}
}

func TestBuildOverlay_DropsElementsOutsideGrid(t *testing.T) {
	result := Result{
		Images: []model.ImageRegion{{X: 990, Y: 990, Width: 20, Height: 20}},
		Boxes:  []model.Box{{X: 1000, Y: 1000, Width: 50, Height: 50, Confidence: 0.8}},
	}

	if overlay := BuildOverlay(result, gridTable(), 2.0); overlay != nil {
		t.Errorf("off-grid elements should be dropped, got %+v", overlay)
	}
}

func TestBuildOverlay_ScaleOneRaster(t *testing.T) {
	// A source rendering at scale 1 gets resampled before detection, so
	// detection coordinates come back in Result.Scale, not in the source's
	// scale. A line drawn at page Y 30 must land on the row at Y 30, not
	// on the one at Y 60.
	r := whiteRaster(100, 100)
	r.Scale = 1.0
	fillDark(r, 10, 30, 89, 30)

	result := NewDetector().Detect(r)
	if result.Scale != AnalysisScale {
		t.Fatalf("result scale = %v, want %v", result.Scale, AnalysisScale)
	}
	if len(result.Horizontal) != 1 {
		t.Fatalf("got %d horizontal lines, want 1", len(result.Horizontal))
	}
	if pageY := result.Horizontal[0].Position / result.Scale; pageY < 29 || pageY > 32 {
		t.Errorf("line at page Y %v, want near 30", pageY)
	}

	table := model.NewTable(2, 1)
	table.RowY = []float64{30, 60}
	table.ColumnX = []float64{10}

	overlay := BuildOverlay(result, table, result.Scale)
	if overlay == nil {
		t.Fatal("BuildOverlay returned nil")
	}
	if len(overlay.RowBorders) != 1 {
		t.Fatalf("got %d row borders, want 1", len(overlay.RowBorders))
	}
	if hint := overlay.RowBorders[0]; hint.Index != 0 {
		t.Errorf("row border index = %d, want 0", hint.Index)
	}
}

func TestBuildOverlay_ZeroScaleTreatedAsUnscaled(t *testing.T) {
	result := Result{
		Horizontal: []model.BorderLine{{Position: 120, Thickness: 2}},
	}

	overlay := BuildOverlay(result, gridTable(), 0)
	if overlay == nil {
		t.Fatal("BuildOverlay returned nil")
	}
	if hint := overlay.RowBorders[0]; hint.Index != 1 {
		t.Errorf("row border index = %d, want 1", hint.Index)
	}
}
