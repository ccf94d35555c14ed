package layout

import (
	"math"
	"sort"

	"github.com/tsawler/gridify/model"
)

// ColumnConfig holds configuration for column boundary clustering.
type ColumnConfig struct {
	// FontSizeFactor scales the average font size into the gap that starts
	// a new column cluster. Default: 2.
	FontSizeFactor float64

	// MinThreshold is the floor for the clustering gap in points.
	// Default: 20.
	MinThreshold float64
}

// DefaultColumnConfig returns sensible default configuration.
func DefaultColumnConfig() ColumnConfig {
	return ColumnConfig{
		FontSizeFactor: 2.0,
		MinThreshold:   20.0,
	}
}

// ColumnClusterer derives column boundaries by clustering the X coordinates
// observed across all rows of a page.
//
// Documents with ragged left alignment (justified prose misread as a table)
// may over- or under-segment; that is an inherent limitation of a
// text-geometry-only approach.
type ColumnClusterer struct {
	config ColumnConfig
}

// NewColumnClusterer creates a clusterer with default configuration.
func NewColumnClusterer() *ColumnClusterer {
	return &ColumnClusterer{config: DefaultColumnConfig()}
}

// NewColumnClustererWithConfig creates a clusterer with custom configuration.
func NewColumnClustererWithConfig(config ColumnConfig) *ColumnClusterer {
	return &ColumnClusterer{config: config}
}

// Boundaries returns the column left edges, strictly increasing. Each
// boundary is the arithmetic mean of one cluster of observed X values;
// a new cluster starts when the gap to the previous value exceeds
// max(averageFontSize * FontSizeFactor, MinThreshold).
func (cc *ColumnClusterer) Boundaries(rows []model.Row) []float64 {
	if len(rows) == 0 {
		return nil
	}

	// Distinct X values across every row.
	seen := make(map[float64]bool)
	var xs []float64
	for _, row := range rows {
		for _, obj := range row.Items {
			if !seen[obj.X] {
				seen[obj.X] = true
				xs = append(xs, obj.X)
			}
		}
	}
	if len(xs) == 0 {
		return nil
	}
	sort.Float64s(xs)

	threshold := math.Max(averageFontSize(rows)*cc.config.FontSizeFactor, cc.config.MinThreshold)

	var boundaries []float64
	clusterSum := xs[0]
	clusterN := 1
	prev := xs[0]

	for _, x := range xs[1:] {
		if x-prev > threshold {
			boundaries = append(boundaries, clusterSum/float64(clusterN))
			clusterSum = 0
			clusterN = 0
		}
		clusterSum += x
		clusterN++
		prev = x
	}
	boundaries = append(boundaries, clusterSum/float64(clusterN))

	return boundaries
}

// averageFontSize computes the mean row font size across the page.
func averageFontSize(rows []model.Row) float64 {
	if len(rows) == 0 {
		return 0
	}
	sum := 0.0
	for _, row := range rows {
		sum += row.FontSize
	}
	return sum / float64(len(rows))
}
