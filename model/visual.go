package model

// Orientation distinguishes horizontal from vertical border lines.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

func (o Orientation) String() string {
	if o == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// BorderLine is a detected straight dark line on the rasterized page.
// Position is the coordinate perpendicular to the line (Y for horizontal
// lines, X for vertical); Start and End bound its extent along the line.
// Coordinates are raster pixels at the render scale.
type BorderLine struct {
	Orientation Orientation
	Position    float64
	Start       float64
	End         float64
	Thickness   float64
}

// Length returns the extent of the line.
func (l BorderLine) Length() float64 {
	return l.End - l.Start
}

// Box is a detected rectangular outline on the rasterized page, in raster
// pixels at the render scale.
type Box struct {
	X          float64
	Y          float64
	Width      float64
	Height     float64
	Confidence float64
}

// BBox returns the box as a bounding box.
func (b Box) BBox() BBox {
	return BBox{X: b.X, Y: b.Y, Width: b.Width, Height: b.Height}
}

// ImageRegion is a high-variance pixel region judged to contain an embedded
// image (photo, logo) rather than text, in raster pixels at the render scale.
type ImageRegion struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// BBox returns the region as a bounding box.
func (r ImageRegion) BBox() BBox {
	return BBox{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

// BorderHint associates a detected border line with a grid index so the
// serializer can draw it on the correct spreadsheet row or column edge.
type BorderHint struct {
	Index     int     `json:"index"`
	Thickness float64 `json:"thickness"`
}

// BoxSpan associates a detected box with the range of grid cells it covers.
type BoxSpan struct {
	StartRow   int     `json:"startRow"`
	EndRow     int     `json:"endRow"`
	StartCol   int     `json:"startCol"`
	EndCol     int     `json:"endCol"`
	Confidence float64 `json:"confidence"`
}

// ImagePlacement associates a detected image region with its containing
// cell, keeping the region's pixel dimensions for sizing on insert.
type ImagePlacement struct {
	Row    int     `json:"row"`
	Col    int     `json:"col"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// VisualOverlay carries per-row/per-column border hints, box spans, and
// image placements recovered from pixel analysis, mapped onto the
// text-derived grid. It is optional output: visual detection is strictly
// best-effort and a page result is complete without it.
type VisualOverlay struct {
	RowBorders []BorderHint     `json:"rowBorders,omitempty"`
	ColBorders []BorderHint     `json:"colBorders,omitempty"`
	Boxes      []BoxSpan        `json:"boxes,omitempty"`
	Images     []ImagePlacement `json:"images,omitempty"`
}

// IsEmpty reports whether the overlay carries no hints at all.
func (v *VisualOverlay) IsEmpty() bool {
	return v == nil ||
		(len(v.RowBorders) == 0 && len(v.ColBorders) == 0 &&
			len(v.Boxes) == 0 && len(v.Images) == 0)
}
