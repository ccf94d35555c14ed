// Package source defines the boundary between the layout reconstruction
// pipeline and the PDF rendering/text-extraction engine it consumes.
//
// The pipeline never talks to a PDF library directly: it is handed a
// [PageSource] at construction time, which supplies raw positioned text runs
// and, optionally, rasterized page pixels. This keeps heavy engine handles
// out of package-level state and makes the pipeline testable against
// synthetic sources.
package source

import (
	"context"
	"errors"
	"fmt"
)

// ErrRenderingUnavailable is returned by sources that can extract text but
// cannot rasterize pages. Visual element detection is skipped for such
// sources; text-based table extraction proceeds normally.
var ErrRenderingUnavailable = errors.New("page rendering not available for this source")

// TextRun is one raw text-showing operation from the PDF content stream.
// Transform is the 6-value affine text matrix [a b c d e f]; runs without a
// complete transform carry no position and are discarded by the collector.
// Width is the advance width in text space; zero means not supplied.
type TextRun struct {
	Text      string
	FontName  string
	Transform []float64
	Width     float64
}

// HasTransform reports whether the run carries a complete affine transform.
func (r TextRun) HasTransform() bool {
	return len(r.Transform) == 6
}

// Pixmap is a page rasterized to an RGBA pixel buffer. Pix holds 4 bytes
// per pixel in row-major order; Scale records the render scale relative to
// page points (2.0 means one page point covers two pixels).
type Pixmap struct {
	Width  int
	Height int
	Scale  float64
	Pix    []byte
}

// Validate checks the buffer length against the declared dimensions.
func (p *Pixmap) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("invalid pixmap dimensions %dx%d", p.Width, p.Height)
	}
	if want := p.Width * p.Height * 4; len(p.Pix) != want {
		return fmt.Errorf("pixmap buffer length %d, want %d", len(p.Pix), want)
	}
	return nil
}

// PageSource supplies per-page inputs to the pipeline. Page numbers are
// 1-based throughout. Implementations must be safe for concurrent calls on
// distinct pages; the pipeline may extract pages in parallel.
type PageSource interface {
	// PageCount returns the number of pages in the document.
	PageCount() (int, error)

	// PageSize returns the page width and height in points.
	PageSize(ctx context.Context, pageNumber int) (width, height float64, err error)

	// TextRuns returns the raw positioned text runs for a page. An empty
	// slice means the page has no extractable text (e.g. scanned pages);
	// this is not an error.
	TextRuns(ctx context.Context, pageNumber int) ([]TextRun, error)

	// RenderPage rasterizes a page at the given scale. Sources without a
	// rasterizer return ErrRenderingUnavailable.
	RenderPage(ctx context.Context, pageNumber int, scale float64) (*Pixmap, error)
}
