package model

import (
	"github.com/bytedance/sonic"
)

// tableJSON is the wire shape handed to external serializers.
type tableJSON struct {
	Rows    [][]string        `json:"rows"`
	Styles  [][]cellStyleJSON `json:"styles,omitempty"`
	Columns []float64         `json:"columns,omitempty"`
}

type cellStyleJSON struct {
	FontSize float64 `json:"fontSize,omitempty"`
	Bold     bool    `json:"bold,omitempty"`
}

// ToJSON serializes the table for the external spreadsheet/document
// serializer: cell text plus per-cell style hints and column boundaries.
func (t *Table) ToJSON() ([]byte, error) {
	out := tableJSON{
		Rows:    t.Strings(),
		Columns: t.ColumnX,
	}
	out.Styles = make([][]cellStyleJSON, len(t.Rows))
	for i, row := range t.Rows {
		out.Styles[i] = make([]cellStyleJSON, len(row))
		for j, cell := range row {
			out.Styles[i][j] = cellStyleJSON{FontSize: cell.FontSize, Bold: cell.Bold}
		}
	}
	return sonic.Marshal(out)
}

// ToJSON serializes the overlay for the external serializer.
func (v *VisualOverlay) ToJSON() ([]byte, error) {
	return sonic.Marshal(v)
}

// ToJSON serializes the key-value template for the external serializer.
func (r *IDCardResult) ToJSON() ([]byte, error) {
	return sonic.Marshal(r)
}
