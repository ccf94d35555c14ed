package tables

import (
	"strings"
	"testing"

	"github.com/tsawler/gridify/model"
)

func rowAt(y float64, objects ...model.TextObject) model.Row {
	row := model.NewRow(objects[0])
	for _, o := range objects[1:] {
		row.Append(o)
	}
	row.YCenter = y
	return row
}

func obj(text string, x float64) model.TextObject {
	return model.TextObject{Text: text, X: x, FontSize: 12, Height: 12}
}

func boldObj(text string, x float64) model.TextObject {
	o := obj(text, x)
	o.Bold = true
	return o
}

func TestBuilder_Build_SimpleGrid(t *testing.T) {
	b := NewBuilder()
	rows := []model.Row{
		rowAt(100, obj("Name", 10), obj("Age", 200)),
		rowAt(120, obj("Alice", 10), obj("30", 200)),
	}

	table := b.Build(rows, []float64{10, 200})
	if table == nil {
		t.Fatal("Build returned nil for a valid 2x2 grid")
	}
	want := [][]string{
		{"Name", "Age"},
		{"Alice", "30"},
	}
	got := table.Strings()
	for i := range want {
		for j := range want[i] {
			if got[i][j] != want[i][j] {
				t.Errorf("cell (%d,%d) = %q, want %q", i, j, got[i][j], want[i][j])
			}
		}
	}
}

func TestBuilder_Build_EmptyInput(t *testing.T) {
	b := NewBuilder()
	if table := b.Build(nil, []float64{10}); table != nil {
		t.Error("Build(nil rows) should return nil")
	}
	if table := b.Build([]model.Row{rowAt(100, obj("x", 10))}, nil); table != nil {
		t.Error("Build with no boundaries should return nil")
	}
}

func TestBuilder_Build_MinRowsGate(t *testing.T) {
	// A lone heading line does not make a table.
	b := NewBuilder()
	rows := []model.Row{rowAt(100, obj("Annual Report", 10))}
	if table := b.Build(rows, []float64{10}); table != nil {
		t.Errorf("one-row grid should be rejected, got %v", table.Strings())
	}
}

func TestBuilder_Build_ConcatenatesLeftToRight(t *testing.T) {
	b := NewBuilder()
	rows := []model.Row{
		rowAt(100, obj("Grand", 10), obj("Total", 25), obj("100", 200)),
		rowAt(120, obj("Net", 10), obj("90", 200)),
	}

	table := b.Build(rows, []float64{10, 200})
	if table == nil {
		t.Fatal("Build returned nil")
	}
	if got := table.GetCell(0, 0).Text; got != "Grand Total" {
		t.Errorf("cell (0,0) = %q, want same-cell objects joined left to right", got)
	}
}

func TestBuilder_Build_ToleranceDiscardsFarObjects(t *testing.T) {
	// X=45 is 35pt from the nearest boundary, outside the 30pt tolerance.
	b := NewBuilder()
	rows := []model.Row{
		rowAt(100, obj("a", 10), obj("stray", 45)),
		rowAt(120, obj("b", 10)),
	}

	table := b.Build(rows, []float64{10, 200})
	if table == nil {
		t.Fatal("Build returned nil")
	}
	for _, row := range table.Strings() {
		for _, text := range row {
			if strings.Contains(text, "stray") {
				t.Errorf("object outside assignment tolerance appeared in table: %v", table.Strings())
			}
		}
	}
}

func TestBuilder_Build_MergesContinuationLines(t *testing.T) {
	b := NewBuilder()
	rows := []model.Row{
		rowAt(100, boldObj("Description", 10), boldObj("Amount", 200)),
		rowAt(120, obj("Consulting services for", 10), obj("500.00", 200)),
		rowAt(140, obj("Q3 planning.", 10)),
		rowAt(160, obj("Hosting fees.", 10), obj("120.00", 200)),
	}

	table := b.Build(rows, []float64{10, 200})
	if table == nil {
		t.Fatal("Build returned nil")
	}
	if got := table.GetCell(1, 0).Text; got != "Consulting services for Q3 planning." {
		t.Errorf("continuation not merged: cell (1,0) = %q", got)
	}
	// The absorbed row held nothing else, so it is dropped entirely.
	if got := table.RowCount(); got != 3 {
		t.Errorf("RowCount = %d, want 3 after dropping the emptied continuation row", got)
	}
	if got := table.GetCell(2, 0).Text; got != "Hosting fees." {
		t.Errorf("cell (2,0) = %q, want %q", got, "Hosting fees.")
	}
}

func TestBuilder_Build_ContinuationSkipsHeaderBoldAndTerminated(t *testing.T) {
	b := NewBuilder()
	rows := []model.Row{
		rowAt(100, obj("Header", 10), obj("Value", 200)),
		rowAt(120, boldObj("Totals", 10), obj("Paid.", 200)),
		rowAt(140, obj("Done.", 10), obj("Open.", 200)),
		rowAt(160, obj("Next", 10), obj("Open.", 200)),
	}

	table := b.Build(rows, []float64{10, 200})
	if table == nil {
		t.Fatal("Build returned nil")
	}
	if got := table.RowCount(); got != 4 {
		t.Fatalf("RowCount = %d, want 4 (no merges should fire)", got)
	}
	if got := table.GetCell(1, 0).Text; got != "Totals" {
		t.Errorf("bold cell absorbed its successor: %q", got)
	}
	if got := table.GetCell(2, 0).Text; got != "Done." {
		t.Errorf("sentence-terminated cell absorbed its successor: %q", got)
	}
}

func TestBuilder_Build_ContinuationSkipsLongCells(t *testing.T) {
	long := strings.Repeat("x", 60)
	b := NewBuilder()
	rows := []model.Row{
		rowAt(100, obj("Header", 10), obj("Value", 200)),
		rowAt(120, obj(long, 10), obj("Yes.", 200)),
		rowAt(140, obj("more", 10), obj("No.", 200)),
	}

	table := b.Build(rows, []float64{10, 200})
	if table == nil {
		t.Fatal("Build returned nil")
	}
	if got := table.GetCell(1, 0).Text; got != long {
		t.Errorf("cell over the continuation length limit was merged: %q", got)
	}
}

func TestBuilder_Build_Rectangular(t *testing.T) {
	b := NewBuilder()
	rows := []model.Row{
		rowAt(100, obj("a", 10), obj("b", 200), obj("c", 400)),
		rowAt(120, obj("d", 10)),
		rowAt(140, obj("e", 200), obj("f", 400)),
	}

	table := b.Build(rows, []float64{10, 200, 400})
	if table == nil {
		t.Fatal("Build returned nil")
	}
	for i, row := range table.Rows {
		if len(row) != table.ColCount() {
			t.Errorf("row %d has %d cells, want %d", i, len(row), table.ColCount())
		}
	}
}

func TestBuilder_Build_NoTextLost(t *testing.T) {
	// Every object within assignment tolerance must surface in some cell.
	b := NewBuilder()
	rows := []model.Row{
		rowAt(100, obj("Item", 10), obj("Qty", 200), obj("Price", 400)),
		rowAt(120, obj("Widget", 10), obj("3", 200), obj("4.50", 400)),
		rowAt(140, obj("Gadget", 12), obj("7", 198), obj("9.99", 404)),
	}

	table := b.Build(rows, []float64{10, 200, 400})
	if table == nil {
		t.Fatal("Build returned nil")
	}

	var joined strings.Builder
	for _, row := range table.Strings() {
		for _, text := range row {
			joined.WriteString(text)
			joined.WriteString(" ")
		}
	}
	all := joined.String()
	for _, row := range rows {
		for _, o := range row.Items {
			if !strings.Contains(all, o.Text) {
				t.Errorf("object %q missing from table output", o.Text)
			}
		}
	}
}

func TestBuilder_Build_StyleHints(t *testing.T) {
	b := NewBuilder()
	rows := []model.Row{
		rowAt(100, boldObj("Header", 10), obj("Value", 200)),
		rowAt(120, obj("data", 10), obj("1", 200)),
	}

	table := b.Build(rows, []float64{10, 200})
	if table == nil {
		t.Fatal("Build returned nil")
	}
	if !table.GetCell(0, 0).Bold {
		t.Error("bold style hint lost on cell (0,0)")
	}
	if table.GetCell(1, 0).Bold {
		t.Error("cell (1,0) should not be bold")
	}
	if got := table.GetCell(0, 0).FontSize; got != 12 {
		t.Errorf("FontSize = %v, want 12 (first object's size)", got)
	}
}

func TestBuilder_Build_KeepsGridCoordinates(t *testing.T) {
	b := NewBuilder()
	rows := []model.Row{
		rowAt(100, obj("a", 10), obj("b", 200)),
		rowAt(120, obj("c", 10), obj("d", 200)),
	}

	table := b.Build(rows, []float64{10, 200})
	if table == nil {
		t.Fatal("Build returned nil")
	}
	if len(table.ColumnX) != 2 || table.ColumnX[0] != 10 || table.ColumnX[1] != 200 {
		t.Errorf("ColumnX = %v, want [10 200]", table.ColumnX)
	}
	if len(table.RowY) != 2 || table.RowY[0] != 100 || table.RowY[1] != 120 {
		t.Errorf("RowY = %v, want [100 120]", table.RowY)
	}
}
