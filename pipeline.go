package gridify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/tsawler/gridify/layout"
	"github.com/tsawler/gridify/model"
	"github.com/tsawler/gridify/source"
	"github.com/tsawler/gridify/tables"
	"github.com/tsawler/gridify/text"
	"github.com/tsawler/gridify/visual"
)

const (
	// A page with fewer text objects than this and more image coverage
	// than tooVisualMinImageCoverage is refused as "too visual".
	tooVisualMaxTextObjects   = 8
	tooVisualMinImageCoverage = 0.4

	// Below this document confidence, a single low-confidence warning
	// surfaces so the caller can offer an alternative conversion path.
	lowConfidenceThreshold = 0.25
)

// PageStatus describes the outcome of extracting one page.
type PageStatus int

const (
	// PageExtracted: a valid table was produced.
	PageExtracted PageStatus = iota
	// PageIDCard: the page classified as a label:value document and a
	// key-value template was produced (a table may also be present).
	PageIDCard
	// PageNoContent: the page yielded zero usable text objects.
	PageNoContent
	// PageNoTable: text was present but did not form a valid table.
	PageNoTable
	// PageTooVisual: extraction was refused; see the Refusal field.
	PageTooVisual
	// PageSkipped: the page could not be read; see the document warnings.
	PageSkipped
)

func (s PageStatus) String() string {
	switch s {
	case PageExtracted:
		return "extracted"
	case PageIDCard:
		return "id_card"
	case PageNoContent:
		return "no_content"
	case PageNoTable:
		return "no_table"
	case PageTooVisual:
		return "too_visual"
	default:
		return "skipped"
	}
}

// PageResult is the extraction output for one page.
type PageResult struct {
	Page   int
	Status PageStatus

	// Table is the reconstructed cell grid, nil unless Status is
	// PageExtracted or PageIDCard.
	Table *model.Table

	// IDCard is the key-value template, set only when Status is PageIDCard.
	IDCard *model.IDCardResult

	// Overlay carries border and image placement hints recovered from
	// pixel analysis; nil when rendering is unavailable or found nothing.
	Overlay *model.VisualOverlay

	// Refusal is set when Status is PageTooVisual.
	Refusal *TooVisualError

	// Confidence estimates output usability for this page (0-1).
	Confidence float64
}

// Err converts a failed page status into its sentinel or typed error, for
// callers that prefer errors.Is/errors.As over switching on Status. Pages
// that produced output return nil.
func (r *PageResult) Err() error {
	switch r.Status {
	case PageNoContent:
		return ErrNoContent
	case PageNoTable:
		return ErrNoTable
	case PageTooVisual:
		return r.Refusal
	case PageSkipped:
		return fmt.Errorf("page %d skipped", r.Page)
	default:
		return nil
	}
}

// DocumentResult aggregates per-page results. Errors local to one page
// never halt processing; partial-document success is the default policy.
type DocumentResult struct {
	Pages    []PageResult
	Warnings []Warning

	// Confidence is the mean page confidence.
	Confidence float64

	// LowConfidence is the single caller-visible signal that too little of
	// the document produced usable output.
	LowConfidence bool
}

// Pipeline extracts tables from a document. Configuration methods return a
// new Pipeline instance, making chaining safe; terminal operations
// (Extract, ExtractPage) run the extraction.
type Pipeline struct {
	filename string
	src      source.PageSource

	ownsSource bool
	srcOpened  bool

	options ExtractOptions
	err     error
}

// clone creates a shallow copy with deep-copied options.
func (p *Pipeline) clone() *Pipeline {
	return &Pipeline{
		filename:   p.filename,
		src:        p.src,
		ownsSource: p.ownsSource,
		srcOpened:  p.srcOpened,
		options:    p.options.clone(),
		err:        p.err,
	}
}

// ensureSource opens the built-in PDF source if the pipeline was created
// from a filename.
func (p *Pipeline) ensureSource() error {
	if p.src != nil {
		return nil
	}
	if p.filename == "" {
		return fmt.Errorf("no source or filename specified")
	}
	src, err := source.OpenPDF(p.filename)
	if err != nil {
		return err
	}
	p.src = src
	p.ownsSource = true
	p.srcOpened = true
	return nil
}

// Close releases the source if the pipeline owns it.
func (p *Pipeline) Close() error {
	if p.ownsSource && p.srcOpened {
		p.srcOpened = false
		if closer, ok := p.src.(interface{ Close() error }); ok {
			return closer.Close()
		}
	}
	return nil
}

// collectedPage holds phase-one output for a single page.
type collectedPage struct {
	number  int
	width   float64
	height  float64
	objects []model.TextObject
	err     error
}

// Extract runs the full pipeline over the configured pages. This is a
// terminal operation: if the pipeline was opened from a filename, the
// source is closed when it returns.
//
// Extraction has two phases. Phase one collects and normalizes every
// page's text (all pages, even when only a subset is requested, because
// header/footer recurrence cannot be judged from a subset). After that
// barrier, phase two processes the requested pages independently and in
// parallel: clustering, table building, merged-cell flattening,
// classification, and best-effort visual detection.
func (p *Pipeline) Extract(ctx context.Context) (*DocumentResult, error) {
	if p.err != nil {
		return nil, p.err
	}
	if err := p.ensureSource(); err != nil {
		return nil, err
	}
	defer p.Close()

	pageCount, err := p.src.PageCount()
	if err != nil {
		return nil, fmt.Errorf("page count: %w", err)
	}
	if pageCount == 0 {
		return &DocumentResult{}, nil
	}

	requested, err := p.resolvePages(pageCount)
	if err != nil {
		return nil, err
	}

	// Phase one: collect text for every page in parallel.
	collected := make([]collectedPage, pageCount)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.options.concurrency)
	collector := text.NewCollector()

	for num := 1; num <= pageCount; num++ {
		num := num
		g.Go(func() error {
			collected[num-1] = p.collectPage(gctx, collector, num)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var warnings []Warning
	for _, page := range collected {
		if page.err != nil {
			warnings = append(warnings, Warning{
				Code:    WarnPageSkipped,
				Page:    page.number,
				Message: page.err.Error(),
			})
		}
	}

	// Barrier: the suppression tally must be complete before any page is
	// filtered.
	var suppression *layout.SuppressionSet
	if p.options.suppressHeaderFooter {
		pageTexts := make([]layout.PageText, 0, pageCount)
		for _, page := range collected {
			if page.err != nil {
				continue
			}
			pageTexts = append(pageTexts, layout.PageText{
				PageNumber: page.number,
				PageHeight: page.height,
				Objects:    page.objects,
			})
		}
		suppression = layout.NewHeaderFooterSuppressor().Analyze(pageTexts)
	}

	// Probe rendering capability once rather than warning per page.
	detectVisual := p.options.detectVisual
	if detectVisual {
		if _, err := p.src.RenderPage(ctx, requested[0], p.options.renderScale); errors.Is(err, source.ErrRenderingUnavailable) {
			detectVisual = false
			warnings = append(warnings, Warning{
				Code:    WarnRenderingUnavailable,
				Message: "source cannot rasterize pages; visual detection skipped",
			})
		}
	}

	// Phase two: process requested pages independently.
	results := make([]PageResult, len(requested))
	pageWarnings := make([][]Warning, len(requested))
	g2, gctx2 := errgroup.WithContext(ctx)
	g2.SetLimit(p.options.concurrency)

	for idx, num := range requested {
		idx, num := idx, num
		g2.Go(func() error {
			page := collected[num-1]
			if page.err != nil {
				results[idx] = PageResult{Page: num, Status: PageSkipped}
				return gctx2.Err()
			}
			objects := page.objects
			if suppression != nil {
				objects = suppression.Filter(layout.PageText{
					PageNumber: page.number,
					PageHeight: page.height,
					Objects:    objects,
				})
			}
			results[idx], pageWarnings[idx] = p.processPage(gctx2, page, objects, detectVisual)
			return gctx2.Err()
		})
	}
	if err := g2.Wait(); err != nil {
		return nil, err
	}

	for _, ws := range pageWarnings {
		warnings = append(warnings, ws...)
	}

	doc := &DocumentResult{Pages: results, Warnings: warnings}
	doc.Confidence = documentConfidence(results)
	if doc.Confidence < lowConfidenceThreshold {
		doc.LowConfidence = true
		doc.Warnings = append(doc.Warnings, Warning{
			Code:    WarnLowConfidence,
			Message: fmt.Sprintf("document confidence %.2f below %.2f", doc.Confidence, lowConfidenceThreshold),
		})
	}
	return doc, nil
}

// ExtractPage extracts a single page. Header/footer suppression still
// tallies the whole document.
func (p *Pipeline) ExtractPage(ctx context.Context, pageNumber int) (*PageResult, error) {
	doc, err := p.Pages(pageNumber).Extract(ctx)
	if err != nil {
		return nil, err
	}
	if len(doc.Pages) == 0 {
		return nil, fmt.Errorf("page %d produced no result", pageNumber)
	}
	return &doc.Pages[0], nil
}

// collectPage gathers one page's dimensions and normalized text objects.
func (p *Pipeline) collectPage(ctx context.Context, collector *text.Collector, pageNumber int) collectedPage {
	page := collectedPage{number: pageNumber}

	width, height, err := p.src.PageSize(ctx, pageNumber)
	if err != nil {
		page.err = fmt.Errorf("page size: %w", err)
		return page
	}
	page.width, page.height = width, height

	runs, err := p.src.TextRuns(ctx, pageNumber)
	if err != nil {
		page.err = fmt.Errorf("text runs: %w", err)
		return page
	}

	page.objects = collector.Collect(runs, height, pageNumber)
	p.options.logger.Debug("collected page text",
		"page", pageNumber, "runs", len(runs), "objects", len(page.objects))
	return page
}

// processPage runs clustering, table building, merged-cell flattening,
// classification, and visual detection for one page.
func (p *Pipeline) processPage(ctx context.Context, page collectedPage, objects []model.TextObject, detectVisual bool) (PageResult, []Warning) {
	result := PageResult{Page: page.number}
	var warnings []Warning

	if len(objects) == 0 {
		result.Status = PageNoContent
		return result, warnings
	}

	if isCharacterLevel(objects) {
		warnings = append(warnings, Warning{
			Code:    WarnCharacterLevelText,
			Page:    page.number,
			Message: "text arrives one character per run; column detection may over-segment",
		})
	}

	// Visual detection runs first so its image density can veto table
	// extraction. Every failure inside it degrades to an empty result.
	var visualResult visual.Result
	if detectVisual {
		visualResult = p.detectVisual(ctx, page.number)

		// Detection coordinates are in the detector's own raster scale,
		// not the scale requested from the source.
		coverage := visualResult.ImageCoverage(
			page.width*visualResult.Scale, page.height*visualResult.Scale)
		if len(objects) < tooVisualMaxTextObjects && coverage > tooVisualMinImageCoverage {
			result.Status = PageTooVisual
			result.Refusal = &TooVisualError{
				Page:          page.number,
				TextObjects:   len(objects),
				ImageCoverage: coverage,
			}
			return result, warnings
		}
	}

	rows := layout.NewRowClusterer().Cluster(objects)
	boundaries := layout.NewColumnClusterer().Boundaries(rows)
	table := tables.NewBuilder().Build(rows, boundaries)

	if table != nil {
		detector := tables.NewSpanDetector()
		spans := detector.Detect(table)
		tables.Split(table, spans)
		p.options.logger.Debug("built table",
			"page", page.number, "rows", table.RowCount(), "cols", table.ColCount(),
			"mergedSpans", len(spans))
	}

	var idCard *model.IDCardResult
	if p.options.classifyIDCard {
		idCard = layout.NewIDCardClassifier().Classify(table, objects)
	}

	if table != nil {
		result.Overlay = visual.BuildOverlay(visualResult, table, visualResult.Scale)
	}

	result.Table = table
	result.IDCard = idCard
	switch {
	case idCard != nil:
		result.Status = PageIDCard
		result.Confidence = 0.8
	case table != nil:
		result.Status = PageExtracted
		result.Confidence = tableConfidence(table)
	default:
		result.Status = PageNoTable
	}
	return result, warnings
}

// detectVisual renders and analyzes one page, degrading to empty results on
// any failure.
func (p *Pipeline) detectVisual(ctx context.Context, pageNumber int) visual.Result {
	pixmap, err := p.src.RenderPage(ctx, pageNumber, p.options.renderScale)
	if err != nil {
		p.options.logger.Debug("render failed; skipping visual detection",
			"page", pageNumber, "error", err)
		return visual.Result{}
	}
	raster, err := visual.FromPixmap(pixmap)
	if err != nil {
		p.options.logger.Debug("invalid pixmap; skipping visual detection",
			"page", pageNumber, "error", err)
		return visual.Result{}
	}
	return visual.NewDetector().Detect(raster)
}

// resolvePages validates the requested page numbers, defaulting to all.
func (p *Pipeline) resolvePages(pageCount int) ([]int, error) {
	if len(p.options.pages) == 0 {
		all := make([]int, pageCount)
		for i := range all {
			all[i] = i + 1
		}
		return all, nil
	}
	for _, num := range p.options.pages {
		if num < 1 || num > pageCount {
			return nil, fmt.Errorf("page %d out of range [1, %d]", num, pageCount)
		}
	}
	return p.options.pages, nil
}

// tableConfidence estimates usability from cell occupancy.
func tableConfidence(table *model.Table) float64 {
	total := table.RowCount() * table.ColCount()
	if total == 0 {
		return 0
	}
	occupied := 0
	for _, row := range table.Rows {
		for _, cell := range row {
			if !cell.IsEmpty() {
				occupied++
			}
		}
	}
	occupancy := float64(occupied) / float64(total)
	return 0.5 + 0.5*occupancy
}

// documentConfidence is the mean page confidence across all results.
func documentConfidence(results []PageResult) float64 {
	if len(results) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range results {
		sum += r.Confidence
	}
	return sum / float64(len(results))
}

// isCharacterLevel reports whether text arrives one character per run
// (average run length at most 2), as some generators emit.
func isCharacterLevel(objects []model.TextObject) bool {
	if len(objects) < 10 {
		return false
	}
	totalChars := 0
	for _, obj := range objects {
		totalChars += len([]rune(strings.TrimSpace(obj.Text)))
	}
	return float64(totalChars)/float64(len(objects)) <= 2.0
}
