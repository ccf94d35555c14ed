// Package gridify reconstructs 2-D table structure from the positioned text
// of a PDF page using geometric heuristics only: no OCR, no layout model,
// no server round-trip.
//
// Basic usage:
//
//	result, err := gridify.Open("invoice.pdf").Extract(ctx)
//	if err != nil {
//	    // handle error
//	}
//	for _, page := range result.Pages {
//	    if page.Table != nil {
//	        fmt.Println(page.Table.ToCSV())
//	    }
//	}
//	if len(result.Warnings) > 0 {
//	    log.Println("Warnings:", gridify.FormatWarnings(result.Warnings))
//	}
//
// With options:
//
//	result, err := gridify.Open("report.pdf").
//	    Pages(1, 2, 3).
//	    KeepHeadersFooters().
//	    Extract(ctx)
//
// The pipeline consumes pages from a [source.PageSource]; any engine that
// can supply positioned text runs (and optionally rasterized pixels) can
// drive it via FromSource. Per-page extraction is independent, so pages run
// in parallel, with one barrier: header/footer suppression needs every
// page's top/bottom-zone text before any page can be filtered.
package gridify

import (
	"github.com/tsawler/gridify/source"
)

// Open prepares a pipeline over a PDF file, using the built-in text-only
// PDF source. The file is opened lazily at the first terminal operation and
// closed when that operation returns.
//
// The built-in source cannot rasterize pages, so visual element detection
// is skipped; use FromSource with a rendering-capable source to enable it.
func Open(filename string) *Pipeline {
	return &Pipeline{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromSource prepares a pipeline over an already-constructed PageSource.
// The caller keeps ownership of the source and is responsible for closing
// it, if it needs closing.
func FromSource(src source.PageSource) *Pipeline {
	return &Pipeline{
		src:     src,
		options: defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	result := gridify.Must(gridify.Open("doc.pdf").Extract(ctx))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
