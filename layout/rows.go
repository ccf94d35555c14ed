package layout

import (
	"math"
	"sort"

	"github.com/tsawler/gridify/model"
)

// RowConfig holds configuration for row clustering.
type RowConfig struct {
	// LineHeightFactor converts a font size into an estimated line height.
	// Default: 1.2.
	LineHeightFactor float64

	// ToleranceFactor is the fraction of the line height within which an
	// object joins the current row. The tolerance scales with font size so
	// clustering stays correct across mixed font sizes. Default: 0.3.
	ToleranceFactor float64

	// MinTolerance is the floor for the vertical tolerance in points, so
	// tiny fonts still cluster. Default: 3.
	MinTolerance float64

	// MaxFontSizeRatio is the maximum relative font size difference for an
	// object to join the current row. Default: 0.2.
	MaxFontSizeRatio float64
}

// DefaultRowConfig returns sensible default configuration.
func DefaultRowConfig() RowConfig {
	return RowConfig{
		LineHeightFactor: 1.2,
		ToleranceFactor:  0.3,
		MinTolerance:     3.0,
		MaxFontSizeRatio: 0.2,
	}
}

// RowClusterer groups text objects into rows by vertical proximity.
//
// Clustering is greedy and single-pass: each object is compared only
// against the currently open row, never re-assigned. This trades optimal
// clustering for determinism and speed.
type RowClusterer struct {
	config RowConfig
}

// NewRowClusterer creates a clusterer with default configuration.
func NewRowClusterer() *RowClusterer {
	return &RowClusterer{config: DefaultRowConfig()}
}

// NewRowClustererWithConfig creates a clusterer with custom configuration.
func NewRowClustererWithConfig(config RowConfig) *RowClusterer {
	return &RowClusterer{config: config}
}

// Cluster groups the objects into rows, top to bottom. Objects within a row
// are ordered left to right. A single object produces exactly one row.
func (rc *RowClusterer) Cluster(objects []model.TextObject) []model.Row {
	if len(objects) == 0 {
		return nil
	}

	// Scan top to bottom.
	sorted := make([]model.TextObject, len(objects))
	copy(sorted, objects)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y < sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var rows []model.Row
	current := model.NewRow(sorted[0])

	for _, obj := range sorted[1:] {
		if rc.belongs(&current, obj) {
			current.Append(obj)
		} else {
			rows = append(rows, finishRow(current))
			current = model.NewRow(obj)
		}
	}
	rows = append(rows, finishRow(current))

	return rows
}

// belongs reports whether an object joins the currently open row.
func (rc *RowClusterer) belongs(row *model.Row, obj model.TextObject) bool {
	yDistance := math.Abs(row.YCenter - obj.Y)
	lineHeight := row.FontSize * rc.config.LineHeightFactor
	tolerance := math.Max(lineHeight*rc.config.ToleranceFactor, rc.config.MinTolerance)
	if yDistance > tolerance {
		return false
	}

	if row.FontSize <= 0 {
		return true
	}
	ratio := math.Abs(row.FontSize-obj.FontSize) / row.FontSize
	return ratio < rc.config.MaxFontSizeRatio
}

// finishRow orders a completed row's items left to right.
func finishRow(row model.Row) model.Row {
	sort.SliceStable(row.Items, func(i, j int) bool {
		return row.Items[i].X < row.Items[j].X
	})
	return row
}
