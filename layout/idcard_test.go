package layout

import (
	"testing"

	"github.com/tsawler/gridify/model"
)

func labelValueTable(pairs [][2]string) *model.Table {
	table := model.NewTable(len(pairs), 2)
	for i, pair := range pairs {
		table.SetCell(i, 0, model.Cell{Text: pair[0]})
		table.SetCell(i, 1, model.Cell{Text: pair[1]})
	}
	return table
}

func objectsWithText(texts ...string) []model.TextObject {
	objects := make([]model.TextObject, len(texts))
	for i, text := range texts {
		objects[i] = model.TextObject{Text: text, X: 10, Y: float64(100 + 20*i), FontSize: 12}
	}
	return objects
}

func TestIDCardClassifier_Classify_KeywordDensity(t *testing.T) {
	c := NewIDCardClassifier()
	objects := objectsWithText("Name: Jane Roe", "ID Number: 12345", "Date of Birth: 1990-01-01")
	table := labelValueTable([][2]string{
		{"Name:", "Jane Roe"},
		{"ID Number:", "12345"},
		{"Date of Birth:", "1990-01-01"},
	})

	result := c.Classify(table, objects)
	if result == nil {
		t.Fatal("three keyword hits should classify as ID card")
	}
	if len(result.Headers) != 2 || result.Headers[0] != "Field" || result.Headers[1] != "Value" {
		t.Errorf("headers = %v, want [Field Value]", result.Headers)
	}
	want := [][2]string{
		{"Name:", "Jane Roe"},
		{"ID Number:", "12345"},
		{"Date of Birth:", "1990-01-01"},
	}
	if len(result.Rows) != len(want) {
		t.Fatalf("got %d rows, want %d", len(result.Rows), len(want))
	}
	for i, row := range result.Rows {
		if row != want[i] {
			t.Errorf("row %d = %v, want %v", i, row, want[i])
		}
	}
}

func TestIDCardClassifier_Classify_ShapeLowersKeywordBar(t *testing.T) {
	c := NewIDCardClassifier()

	// Only two keywords, but the table shows a label:value shape.
	objects := objectsWithText("Name: Jane Roe", "Address: 1 Main St")
	table := labelValueTable([][2]string{
		{"Name:", "Jane Roe"},
		{"Address:", "1 Main St"},
	})
	if c.Classify(table, objects) == nil {
		t.Error("two keywords plus label:value shape should classify as ID card")
	}

	// Same two keywords without a table should not.
	if c.Classify(nil, objects) != nil {
		t.Error("two keywords without shape should not classify as ID card")
	}
}

func TestIDCardClassifier_Classify_NotIDCard(t *testing.T) {
	c := NewIDCardClassifier()
	objects := objectsWithText("Item", "Quantity", "Price", "Widget", "3", "4.50")
	table := labelValueTable([][2]string{
		{"Item", "Quantity"},
		{"Widget", "3"},
	})

	if result := c.Classify(table, objects); result != nil {
		t.Errorf("invoice-style page classified as ID card: %+v", result)
	}
}

func TestIDCardClassifier_Classify_FallbackTemplate(t *testing.T) {
	c := NewIDCardClassifier()

	// Keyword-dense page with no extractable label:value rows falls back to
	// the blank scaffold.
	objects := objectsWithText("Name ID Date of Birth Address Photo")
	result := c.Classify(nil, objects)
	if result == nil {
		t.Fatal("keyword-dense page should classify as ID card even without a table")
	}

	want := []string{"Name", "ID Number", "Date of Birth", "Address", "Photo"}
	if len(result.Rows) != len(want) {
		t.Fatalf("got %d fallback rows, want %d", len(result.Rows), len(want))
	}
	for i, row := range result.Rows {
		if row[0] != want[i] {
			t.Errorf("fallback field %d = %q, want %q", i, row[0], want[i])
		}
		if row[1] != "" {
			t.Errorf("fallback value %d = %q, want empty", i, row[1])
		}
	}
}

func TestIDCardClassifier_Classify_SkipsBlankFieldsAndValues(t *testing.T) {
	c := NewIDCardClassifier()
	objects := objectsWithText("Name: Jane", "DOB: 1990", "Signature")
	table := labelValueTable([][2]string{
		{"Name:", "Jane"},
		{"", "orphan value"},
		{"Signature:", ""},
		{"DOB:", "1990"},
	})

	result := c.Classify(table, objects)
	if result == nil {
		t.Fatal("expected ID card classification")
	}
	if len(result.Rows) != 2 {
		t.Fatalf("got %d rows, want 2 (blank field and blank value skipped): %v", len(result.Rows), result.Rows)
	}
	if result.Rows[0][0] != "Name:" || result.Rows[1][0] != "DOB:" {
		t.Errorf("rows = %v, want Name: and DOB: entries", result.Rows)
	}
}

func TestIDCardClassifier_Classify_JoinsMultiColumnValues(t *testing.T) {
	c := NewIDCardClassifier()
	objects := objectsWithText("Address: 1 Main St Springfield", "Name: Jane", "Photo")

	table := model.NewTable(1, 3)
	table.SetCell(0, 0, model.Cell{Text: "Address:"})
	table.SetCell(0, 1, model.Cell{Text: "1 Main St"})
	table.SetCell(0, 2, model.Cell{Text: "Springfield"})

	result := c.Classify(table, objects)
	if result == nil {
		t.Fatal("expected ID card classification")
	}
	if len(result.Rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(result.Rows))
	}
	if got := result.Rows[0][1]; got != "1 Main St Springfield" {
		t.Errorf("value = %q, want cells joined with spaces", got)
	}
}
