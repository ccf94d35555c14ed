// Package text normalizes raw engine text runs into positioned TextObjects.
//
// The [Collector] is the validated input boundary of the pipeline: runs with
// empty text or no usable transform are filtered here once, so downstream
// clustering never re-checks input shape. Coordinates are converted from the
// PDF's bottom-left origin to a top-left origin using the page height.
package text

import (
	"math"
	"sort"
	"strings"

	"github.com/tsawler/gridify/model"
	"github.com/tsawler/gridify/source"
)

// Config holds collector configuration.
type Config struct {
	// DefaultFontSize is used when a run's transform carries a degenerate
	// (zero) scale. Default: 10.
	DefaultFontSize float64

	// WidthFactor estimates a run's width from its text length and font
	// size when the engine supplies none. Default: 0.6.
	WidthFactor float64

	// BoldKeywords are matched case-insensitively against the font name.
	BoldKeywords []string
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		DefaultFontSize: 10.0,
		WidthFactor:     0.6,
		BoldKeywords:    []string{"Bold", "Black", "Heavy"},
	}
}

// Collector converts raw text runs into TextObjects.
type Collector struct {
	config Config
}

// NewCollector creates a collector with default configuration.
func NewCollector() *Collector {
	return &Collector{config: DefaultConfig()}
}

// NewCollectorWithConfig creates a collector with custom configuration.
func NewCollectorWithConfig(config Config) *Collector {
	return &Collector{config: config}
}

// Collect normalizes the runs of one page into TextObjects, sorted top to
// bottom then left to right. A page that yields zero objects is a
// "no content" page, not an error; the caller decides how to report it.
func (c *Collector) Collect(runs []source.TextRun, pageHeight float64, pageNumber int) []model.TextObject {
	objects := make([]model.TextObject, 0, len(runs))

	for _, run := range runs {
		if strings.TrimSpace(run.Text) == "" {
			continue
		}
		// Runs without a complete transform carry no position.
		if !run.HasTransform() {
			continue
		}

		fontSize := c.fontSize(run.Transform)
		width := run.Width
		if width <= 0 {
			width = float64(len([]rune(run.Text))) * fontSize * c.config.WidthFactor
		}

		objects = append(objects, model.TextObject{
			Text:     run.Text,
			X:        run.Transform[4],
			Y:        pageHeight - run.Transform[5],
			Width:    width,
			Height:   fontSize,
			FontSize: fontSize,
			FontName: run.FontName,
			Bold:     c.isBold(run.FontName),
			Page:     pageNumber,
		})
	}

	sort.SliceStable(objects, func(i, j int) bool {
		if objects[i].Y != objects[j].Y {
			return objects[i].Y < objects[j].Y
		}
		return objects[i].X < objects[j].X
	})

	return objects
}

// fontSize derives the font size from the Euclidean norm of the transform's
// 2x2 linear sub-block, rounded to one decimal place.
func (c *Collector) fontSize(transform []float64) float64 {
	size := math.Sqrt(transform[0]*transform[0] + transform[1]*transform[1])
	size = math.Round(size*10) / 10
	if size <= 0 {
		return c.config.DefaultFontSize
	}
	return size
}

// isBold reports whether the font name contains a bold-weight keyword.
func (c *Collector) isBold(fontName string) bool {
	lower := strings.ToLower(fontName)
	for _, kw := range c.config.BoldKeywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
