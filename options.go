package gridify

import (
	"io"
	"log/slog"
)

// ExtractOptions holds configuration for document extraction.
type ExtractOptions struct {
	// Page selection (1-indexed); nil means all pages.
	pages []int

	// Processing options
	suppressHeaderFooter bool
	detectVisual         bool
	classifyIDCard       bool
	renderScale          float64

	// Concurrency is the maximum number of pages processed in parallel.
	concurrency int

	logger *slog.Logger
}

// defaultOptions returns the default extraction options.
func defaultOptions() ExtractOptions {
	return ExtractOptions{
		pages:                nil,
		suppressHeaderFooter: true,
		detectVisual:         true,
		classifyIDCard:       true,
		renderScale:          2.0,
		concurrency:          4,
		logger:               slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// clone creates a deep copy of ExtractOptions.
func (o ExtractOptions) clone() ExtractOptions {
	newOpts := o
	if o.pages != nil {
		newOpts.pages = make([]int, len(o.pages))
		copy(newOpts.pages, o.pages)
	}
	return newOpts
}

// Pages restricts extraction to the given 1-indexed pages. Header/footer
// suppression still tallies every page of the document, since recurrence
// cannot be judged from a subset.
func (p *Pipeline) Pages(pages ...int) *Pipeline {
	np := p.clone()
	np.options.pages = append([]int(nil), pages...)
	return np
}

// KeepHeadersFooters disables suppression of text recurring near the page
// top and bottom across pages.
func (p *Pipeline) KeepHeadersFooters() *Pipeline {
	np := p.clone()
	np.options.suppressHeaderFooter = false
	return np
}

// WithoutVisualDetection disables rasterization and pixel analysis even for
// sources that support rendering.
func (p *Pipeline) WithoutVisualDetection() *Pipeline {
	np := p.clone()
	np.options.detectVisual = false
	return np
}

// WithoutIDCardDetection disables the label:value layout classifier; pages
// always produce a generic grid.
func (p *Pipeline) WithoutIDCardDetection() *Pipeline {
	np := p.clone()
	np.options.classifyIDCard = false
	return np
}

// RenderScale sets the raster scale requested for visual detection.
// Values at or below zero are ignored. Default: 2.
func (p *Pipeline) RenderScale(scale float64) *Pipeline {
	np := p.clone()
	if scale > 0 {
		np.options.renderScale = scale
	}
	return np
}

// Concurrency bounds how many pages are processed in parallel. Values
// below 1 are treated as 1. Default: 4.
func (p *Pipeline) Concurrency(n int) *Pipeline {
	np := p.clone()
	if n < 1 {
		n = 1
	}
	np.options.concurrency = n
	return np
}

// WithLogger sets the logger for per-page debug output. The default
// discards everything.
func (p *Pipeline) WithLogger(logger *slog.Logger) *Pipeline {
	np := p.clone()
	if logger != nil {
		np.options.logger = logger
	}
	return np
}
