package source

import (
	"context"
	"fmt"
	"io"
	"sync"

	lpdf "github.com/ledongthuc/pdf"
)

// PDFSource is a PageSource backed by the ledongthuc/pdf reader. It supplies
// positioned text runs; it has no rasterizer, so RenderPage reports
// ErrRenderingUnavailable and visual detection is skipped.
type PDFSource struct {
	closer io.Closer
	reader *lpdf.Reader

	// The underlying reader is not documented as safe for concurrent page
	// access, so page reads are serialized.
	mu sync.Mutex
}

// OpenPDF opens a PDF file as a PageSource. The source must be closed when
// done.
func OpenPDF(filename string) (*PDFSource, error) {
	f, r, err := lpdf.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	return &PDFSource{closer: f, reader: r}, nil
}

// Close releases the underlying file handle.
func (s *PDFSource) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// PageCount returns the number of pages in the document.
func (s *PDFSource) PageCount() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reader.NumPage(), nil
}

// PageSize returns the page dimensions from the MediaBox, defaulting to US
// Letter when the MediaBox is absent or malformed.
func (s *PDFSource) PageSize(ctx context.Context, pageNumber int) (float64, float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	page, err := s.page(pageNumber)
	if err != nil {
		return 0, 0, err
	}

	width, height := 612.0, 792.0
	mediaBox := page.V.Key("MediaBox")
	if mediaBox.Kind() == lpdf.Array && mediaBox.Len() == 4 {
		x0 := mediaBox.Index(0).Float64()
		y0 := mediaBox.Index(1).Float64()
		x1 := mediaBox.Index(2).Float64()
		y1 := mediaBox.Index(3).Float64()
		if x1 > x0 && y1 > y0 {
			width = x1 - x0
			height = y1 - y0
		}
	}
	return width, height, nil
}

// TextRuns extracts the positioned text runs for a page. The reader reports
// font size and baseline position directly, so the affine transform is
// synthesized as a pure scale-and-translate matrix.
func (s *PDFSource) TextRuns(ctx context.Context, pageNumber int) ([]TextRun, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	page, err := s.page(pageNumber)
	if err != nil {
		return nil, err
	}

	content := page.Content()
	runs := make([]TextRun, 0, len(content.Text))
	for _, t := range content.Text {
		runs = append(runs, TextRun{
			Text:      t.S,
			FontName:  t.Font,
			Transform: []float64{t.FontSize, 0, 0, t.FontSize, t.X, t.Y},
			Width:     t.W,
		})
	}
	return runs, nil
}

// RenderPage always reports ErrRenderingUnavailable: this source has no
// rasterizer. Callers that need visual element detection must supply a
// PageSource backed by a rendering engine.
func (s *PDFSource) RenderPage(ctx context.Context, pageNumber int, scale float64) (*Pixmap, error) {
	return nil, ErrRenderingUnavailable
}

func (s *PDFSource) page(pageNumber int) (lpdf.Page, error) {
	if pageNumber < 1 || pageNumber > s.reader.NumPage() {
		return lpdf.Page{}, fmt.Errorf("page %d out of range [1, %d]", pageNumber, s.reader.NumPage())
	}
	page := s.reader.Page(pageNumber)
	if page.V.IsNull() {
		return lpdf.Page{}, fmt.Errorf("page %d could not be read", pageNumber)
	}
	return page, nil
}
