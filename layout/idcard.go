package layout

import (
	"strings"

	"github.com/tsawler/gridify/model"
)

// IDCardConfig holds configuration for ID-card layout classification.
type IDCardConfig struct {
	// Keywords is the label vocabulary searched for in the page text.
	Keywords []string

	// MinKeywords classifies a page as ID-card-like on keyword density
	// alone. Default: 3.
	MinKeywords int

	// MinKeywordsWithShape classifies a page as ID-card-like when the
	// table also shows a two-column label:value shape. Default: 2.
	MinKeywordsWithShape int
}

// DefaultIDCardConfig returns sensible default configuration.
func DefaultIDCardConfig() IDCardConfig {
	return IDCardConfig{
		Keywords: []string{
			"name", "id", "dob", "date of birth", "address", "photo", "signature",
		},
		MinKeywords:          3,
		MinKeywordsWithShape: 2,
	}
}

// fallbackFields is the blank user-fillable scaffold emitted when a page
// classifies as ID-card-like but no label:value rows can be extracted.
var fallbackFields = []string{"Name", "ID Number", "Date of Birth", "Address", "Photo"}

// IDCardClassifier decides whether a page is an ID-card-style (label:value)
// document and, if so, extracts a two-column key-value template in place of
// the generic grid.
type IDCardClassifier struct {
	config IDCardConfig
}

// NewIDCardClassifier creates a classifier with default configuration.
func NewIDCardClassifier() *IDCardClassifier {
	return &IDCardClassifier{config: DefaultIDCardConfig()}
}

// NewIDCardClassifierWithConfig creates a classifier with custom
// configuration.
func NewIDCardClassifierWithConfig(config IDCardConfig) *IDCardClassifier {
	return &IDCardClassifier{config: config}
}

// Classify inspects the built table and the full page text. It returns nil
// when the page is not ID-card-like; otherwise a non-empty key-value
// template. The table may be nil (no table was found on the page).
func (c *IDCardClassifier) Classify(table *model.Table, objects []model.TextObject) *model.IDCardResult {
	keywords := c.countKeywords(objects)

	isIDCard := keywords >= c.config.MinKeywords
	if !isIDCard && keywords >= c.config.MinKeywordsWithShape && hasLabelValueRow(table) {
		isIDCard = true
	}
	if !isIDCard {
		return nil
	}

	result := &model.IDCardResult{
		Headers: []string{"Field", "Value"},
		Rows:    extractFieldRows(table),
	}
	if len(result.Rows) == 0 {
		for _, field := range fallbackFields {
			result.Rows = append(result.Rows, [2]string{field, ""})
		}
	}
	return result
}

// countKeywords joins all page text, lower-cases it, and counts how many
// distinct vocabulary entries occur in it.
func (c *IDCardClassifier) countKeywords(objects []model.TextObject) int {
	var sb strings.Builder
	for _, obj := range objects {
		sb.WriteString(obj.Text)
		sb.WriteString(" ")
	}
	joined := strings.ToLower(sb.String())

	count := 0
	for _, kw := range c.config.Keywords {
		if strings.Contains(joined, kw) {
			count++
		}
	}
	return count
}

// hasLabelValueRow reports whether any table row has exactly two non-empty
// cells, the structural signal of a label:value form.
func hasLabelValueRow(table *model.Table) bool {
	if table == nil {
		return false
	}
	for _, row := range table.Rows {
		nonEmpty := 0
		for _, cell := range row {
			if !cell.IsEmpty() {
				nonEmpty++
			}
		}
		if nonEmpty == 2 {
			return true
		}
	}
	return false
}

// extractFieldRows converts table rows into field/value pairs: the first
// cell is the field, the remaining non-empty cells joined by spaces are the
// value. Rows with a blank field or blank value are skipped.
func extractFieldRows(table *model.Table) [][2]string {
	if table == nil {
		return nil
	}

	var rows [][2]string
	for _, row := range table.Rows {
		if len(row) < 2 {
			continue
		}
		field := strings.TrimSpace(row[0].Text)
		if field == "" {
			continue
		}

		var parts []string
		for _, cell := range row[1:] {
			if !cell.IsEmpty() {
				parts = append(parts, strings.TrimSpace(cell.Text))
			}
		}
		value := strings.Join(parts, " ")
		if value == "" {
			continue
		}

		rows = append(rows, [2]string{field, value})
	}
	return rows
}
