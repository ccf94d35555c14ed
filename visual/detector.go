package visual

import (
	"math"

	"github.com/tsawler/gridify/model"
)

// DetectorConfig holds visual detection configuration.
type DetectorConfig struct {
	// DarkThreshold: grayscale values below this are "dark". Default: 200.
	DarkThreshold uint8

	// MinLineRun is the minimum run of consecutive dark pixels recorded as
	// a line segment. Default: 5.
	MinLineRun int

	// EdgeThreshold is the minimum neighbor gradient marking an edge
	// pixel. Default: 50.
	EdgeThreshold int

	// MinEdgeRatio is the minimum edge-run length for box detection, as a
	// fraction of page width (horizontal) or height (vertical).
	// Default: 0.10.
	MinEdgeRatio float64

	// CornerTolerance is the maximum misalignment, in pixels, between box
	// side intersections. Default: 5.
	CornerTolerance float64

	// BoxConfidence is assigned to every detected box. Default: 0.8.
	BoxConfidence float64

	// BlockSize is the tile edge for image-region detection. Default: 20.
	BlockSize int

	// VariationThreshold flags a block as image-like when its mean
	// absolute deviation from the block mean exceeds it. Default: 30.
	VariationThreshold float64

	// RegionMergeDistance merges flagged blocks closer than this many
	// pixels into one region. Default: 50.
	RegionMergeDistance float64
}

// DefaultDetectorConfig returns sensible default configuration.
func DefaultDetectorConfig() DetectorConfig {
	return DetectorConfig{
		DarkThreshold:       200,
		MinLineRun:          5,
		EdgeThreshold:       50,
		MinEdgeRatio:        0.10,
		CornerTolerance:     5.0,
		BoxConfidence:       0.8,
		BlockSize:           20,
		VariationThreshold:  30.0,
		RegionMergeDistance: 50.0,
	}
}

// Result holds everything recovered from one page's pixels, in raster
// coordinates at the analysis scale.
type Result struct {
	Boxes      []model.Box
	Horizontal []model.BorderLine
	Vertical   []model.BorderLine
	Images     []model.ImageRegion

	// Scale is the raster scale the coordinates above are expressed in,
	// relative to page points. Rasters arriving at other scales are
	// resampled first, so this is AnalysisScale for any non-empty result;
	// callers must divide by it, not by the scale they requested from the
	// source.
	Scale float64
}

// ImageCoverage returns the fraction of the page area covered by detected
// image regions, used by the caller's "too visual" refusal heuristic.
func (r Result) ImageCoverage(pageWidth, pageHeight float64) float64 {
	if pageWidth <= 0 || pageHeight <= 0 {
		return 0
	}
	area := 0.0
	for _, img := range r.Images {
		area += img.BBox().Area()
	}
	coverage := area / (pageWidth * pageHeight)
	if coverage > 1 {
		coverage = 1
	}
	return coverage
}

// Detector finds borders, boxes, and image regions in a rasterized page.
type Detector struct {
	config DetectorConfig
}

// NewDetector creates a detector with default configuration.
func NewDetector() *Detector {
	return &Detector{config: DefaultDetectorConfig()}
}

// NewDetectorWithConfig creates a detector with custom configuration.
func NewDetectorWithConfig(config DetectorConfig) *Detector {
	return &Detector{config: config}
}

// Detect runs all sub-detectors on the raster. Any panic during pixel
// analysis is converted to an empty result: visual enhancement must never
// block the base text-table extraction.
func (d *Detector) Detect(r *Raster) (result Result) {
	defer func() {
		if recover() != nil {
			result = Result{}
		}
	}()

	if r == nil || r.Img == nil {
		return Result{}
	}
	r = r.EnsureScale(AnalysisScale)
	result.Scale = r.Scale

	gray, w, h := r.gray()
	result.Horizontal, result.Vertical = d.detectBorders(gray, w, h)
	result.Boxes = d.detectBoxes(gray, w, h)
	result.Images = d.detectImageRegions(r)
	return result
}

// segment is one run of qualifying pixels along a scanline or column.
type segment struct {
	pos        int // Y for horizontal segments, X for vertical
	start, end int
}

// detectBorders finds dark line segments per scanline and per column, then
// merges segments on adjacent positions with overlapping extents into lines
// with thickness.
func (d *Detector) detectBorders(gray []uint8, w, h int) (horizontal, vertical []model.BorderLine) {
	dark := func(x, y int) bool { return gray[y*w+x] < d.config.DarkThreshold }

	var hSegs []segment
	for y := 0; y < h; y++ {
		runStart := -1
		for x := 0; x <= w; x++ {
			if x < w && dark(x, y) {
				if runStart < 0 {
					runStart = x
				}
				continue
			}
			if runStart >= 0 && x-runStart >= d.config.MinLineRun {
				hSegs = append(hSegs, segment{pos: y, start: runStart, end: x - 1})
			}
			runStart = -1
		}
	}

	var vSegs []segment
	for x := 0; x < w; x++ {
		runStart := -1
		for y := 0; y <= h; y++ {
			if y < h && dark(x, y) {
				if runStart < 0 {
					runStart = y
				}
				continue
			}
			if runStart >= 0 && y-runStart >= d.config.MinLineRun {
				vSegs = append(vSegs, segment{pos: x, start: runStart, end: y - 1})
			}
			runStart = -1
		}
	}

	return mergeSegments(hSegs, model.Horizontal), mergeSegments(vSegs, model.Vertical)
}

// mergeSegments folds segments on consecutive positions with overlapping
// extents into single lines, accumulating thickness. Position is averaged
// over the merged scanlines. Segments arrive ordered by pos.
func mergeSegments(segs []segment, orientation model.Orientation) []model.BorderLine {
	type building struct {
		posSum     int
		count      int
		lastPos    int
		start, end int
	}

	var open []*building
	var done []model.BorderLine

	finish := func(b *building) {
		done = append(done, model.BorderLine{
			Orientation: orientation,
			Position:    float64(b.posSum) / float64(b.count),
			Start:       float64(b.start),
			End:         float64(b.end),
			Thickness:   float64(b.count),
		})
	}

	for _, seg := range segs {
		merged := false
		for _, b := range open {
			if seg.pos == b.lastPos+1 && seg.start <= b.end && seg.end >= b.start {
				b.posSum += seg.pos
				b.count++
				b.lastPos = seg.pos
				if seg.start < b.start {
					b.start = seg.start
				}
				if seg.end > b.end {
					b.end = seg.end
				}
				merged = true
				break
			}
		}
		if !merged {
			open = append(open, &building{
				posSum: seg.pos, count: 1, lastPos: seg.pos,
				start: seg.start, end: seg.end,
			})
		}

		// Retire lines that can no longer be extended.
		kept := open[:0]
		for _, b := range open {
			if seg.pos > b.lastPos+1 {
				finish(b)
			} else {
				kept = append(kept, b)
			}
		}
		open = kept
	}
	for _, b := range open {
		finish(b)
	}

	return done
}

// edgeLine is a long straight edge-run candidate for a box side.
type edgeLine struct {
	pos        float64
	start, end float64
}

// detectBoxes performs gradient edge detection, extracts long edge-runs,
// and pairs two horizontal with two vertical lines whose intersections
// align within tolerance.
func (d *Detector) detectBoxes(gray []uint8, w, h int) []model.Box {
	threshold := d.config.EdgeThreshold

	// Gradient against immediate neighbors; border pixels have no full
	// neighborhood and are skipped.
	hEdge := make([]bool, w*h) // horizontal gradient, marks vertical sides
	vEdge := make([]bool, w*h) // vertical gradient, marks horizontal sides
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			i := y*w + x
			if abs(int(gray[i-1])-int(gray[i+1])) > threshold {
				hEdge[i] = true
			}
			if abs(int(gray[i-w])-int(gray[i+w])) > threshold {
				vEdge[i] = true
			}
		}
	}

	minHLen := int(float64(w) * d.config.MinEdgeRatio)
	minVLen := int(float64(h) * d.config.MinEdgeRatio)

	var hLines []edgeLine
	for y := 1; y < h-1; y++ {
		runStart := -1
		for x := 1; x <= w-1; x++ {
			if x < w-1 && vEdge[y*w+x] {
				if runStart < 0 {
					runStart = x
				}
				continue
			}
			if runStart >= 0 && x-runStart >= minHLen {
				hLines = append(hLines, edgeLine{pos: float64(y), start: float64(runStart), end: float64(x - 1)})
			}
			runStart = -1
		}
	}

	var vLines []edgeLine
	for x := 1; x < w-1; x++ {
		runStart := -1
		for y := 1; y <= h-1; y++ {
			if y < h-1 && hEdge[y*w+x] {
				if runStart < 0 {
					runStart = y
				}
				continue
			}
			if runStart >= 0 && y-runStart >= minVLen {
				vLines = append(vLines, edgeLine{pos: float64(x), start: float64(runStart), end: float64(y - 1)})
			}
			runStart = -1
		}
	}

	hLines = dedupeEdgeLines(hLines, d.config.CornerTolerance)
	vLines = dedupeEdgeLines(vLines, d.config.CornerTolerance)

	var boxes []model.Box
	tol := d.config.CornerTolerance
	for a := 0; a < len(hLines); a++ {
		for b := a + 1; b < len(hLines); b++ {
			top, bottom := hLines[a], hLines[b]
			if top.pos > bottom.pos {
				top, bottom = bottom, top
			}
			for c := 0; c < len(vLines); c++ {
				for e := c + 1; e < len(vLines); e++ {
					left, right := vLines[c], vLines[e]
					if left.pos > right.pos {
						left, right = right, left
					}
					if !cornersAlign(top, bottom, left, right, tol) {
						continue
					}
					box := model.Box{
						X:          left.pos,
						Y:          top.pos,
						Width:      right.pos - left.pos,
						Height:     bottom.pos - top.pos,
						Confidence: d.config.BoxConfidence,
					}
					if !containsSimilarBox(boxes, box, tol) {
						boxes = append(boxes, box)
					}
				}
			}
		}
	}

	return boxes
}

// cornersAlign checks that all four side intersections exist within
// tolerance: each horizontal side spans both vertical positions and each
// vertical side spans both horizontal positions.
func cornersAlign(top, bottom, left, right edgeLine, tol float64) bool {
	if right.pos-left.pos < tol || bottom.pos-top.pos < tol {
		return false
	}
	for _, hl := range []edgeLine{top, bottom} {
		if left.pos < hl.start-tol || left.pos > hl.end+tol {
			return false
		}
		if right.pos < hl.start-tol || right.pos > hl.end+tol {
			return false
		}
	}
	for _, vl := range []edgeLine{left, right} {
		if top.pos < vl.start-tol || top.pos > vl.end+tol {
			return false
		}
		if bottom.pos < vl.start-tol || bottom.pos > vl.end+tol {
			return false
		}
	}
	return true
}

// dedupeEdgeLines collapses lines at nearly the same position with similar
// extents, keeping the first. Edge detection yields a pair of gradient
// lines for every drawn stroke (one per side); without this collapse every
// rectangle would produce a lattice of near-duplicate boxes.
func dedupeEdgeLines(lines []edgeLine, tol float64) []edgeLine {
	var out []edgeLine
	for _, l := range lines {
		dup := false
		for _, kept := range out {
			if math.Abs(l.pos-kept.pos) <= tol &&
				math.Abs(l.start-kept.start) <= tol &&
				math.Abs(l.end-kept.end) <= tol {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, l)
		}
	}
	return out
}

// containsSimilarBox reports whether a box matching all four edges within
// tolerance was already emitted.
func containsSimilarBox(boxes []model.Box, box model.Box, tol float64) bool {
	for _, b := range boxes {
		if math.Abs(b.X-box.X) <= tol && math.Abs(b.Y-box.Y) <= tol &&
			math.Abs(b.Width-box.Width) <= tol && math.Abs(b.Height-box.Height) <= tol {
			return true
		}
	}
	return false
}

// detectImageRegions tiles the page into blocks, flags blocks whose pixel
// variation exceeds the threshold, and merges nearby flagged blocks into
// bounding-box regions.
func (d *Detector) detectImageRegions(r *Raster) []model.ImageRegion {
	bounds := r.Img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	bs := d.config.BlockSize

	var regions []model.ImageRegion
	for by := 0; by < h; by += bs {
		for bx := 0; bx < w; bx += bs {
			bw, bh := min(bs, w-bx), min(bs, h-by)
			if d.blockVariation(r, bx, by, bw, bh) > d.config.VariationThreshold {
				regions = append(regions, model.ImageRegion{
					X: float64(bx), Y: float64(by),
					Width: float64(bw), Height: float64(bh),
				})
			}
		}
	}

	return mergeRegions(regions, d.config.RegionMergeDistance)
}

// blockVariation computes the mean absolute deviation of a block's pixels
// from the block's mean RGB.
func (d *Detector) blockVariation(r *Raster, bx, by, bw, bh int) float64 {
	var sumR, sumG, sumB int
	n := bw * bh
	for y := by; y < by+bh; y++ {
		row := r.Img.Pix[y*r.Img.Stride:]
		for x := bx; x < bx+bw; x++ {
			px := row[x*4 : x*4+3]
			sumR += int(px[0])
			sumG += int(px[1])
			sumB += int(px[2])
		}
	}
	meanR := float64(sumR) / float64(n)
	meanG := float64(sumG) / float64(n)
	meanB := float64(sumB) / float64(n)

	var dev float64
	for y := by; y < by+bh; y++ {
		row := r.Img.Pix[y*r.Img.Stride:]
		for x := bx; x < bx+bw; x++ {
			px := row[x*4 : x*4+3]
			dev += math.Abs(float64(px[0])-meanR) +
				math.Abs(float64(px[1])-meanG) +
				math.Abs(float64(px[2])-meanB)
		}
	}
	return dev / float64(n) / 3
}

// mergeRegions repeatedly unions regions whose bounding boxes come within
// dist of each other until no pair qualifies.
func mergeRegions(regions []model.ImageRegion, dist float64) []model.ImageRegion {
	for {
		merged := false
		for i := 0; i < len(regions) && !merged; i++ {
			for j := i + 1; j < len(regions); j++ {
				if regionGap(regions[i], regions[j]) <= dist {
					union := regions[i].BBox().Union(regions[j].BBox())
					regions[i] = model.ImageRegion{
						X: union.X, Y: union.Y,
						Width: union.Width, Height: union.Height,
					}
					regions = append(regions[:j], regions[j+1:]...)
					merged = true
					break
				}
			}
		}
		if !merged {
			return regions
		}
	}
}

// regionGap returns the axis-aligned gap between two regions, zero when
// they touch or overlap.
func regionGap(a, b model.ImageRegion) float64 {
	dx := math.Max(0, math.Max(b.X-(a.X+a.Width), a.X-(b.X+b.Width)))
	dy := math.Max(0, math.Max(b.Y-(a.Y+a.Height), a.Y-(b.Y+b.Height)))
	return math.Max(dx, dy)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
