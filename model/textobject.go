package model

// TextObject is one positioned run of text on a page, normalized to
// top-left-origin coordinates. TextObjects are created once per page by the
// text collector and are immutable thereafter.
type TextObject struct {
	Text     string
	X        float64 // Left edge
	Y        float64 // Top edge (top-left origin, Y grows downward)
	Width    float64
	Height   float64
	FontSize float64
	FontName string
	Bold     bool
	Page     int // 1-based page number
}

// BBox returns the bounding box of the text object.
func (t TextObject) BBox() BBox {
	return BBox{X: t.X, Y: t.Y, Width: t.Width, Height: t.Height}
}

// Row is a horizontal cluster of TextObjects judged to be on the same
// visual line. YCenter and FontSize are running averages over Items,
// maintained incrementally as objects are appended.
type Row struct {
	YCenter  float64
	FontSize float64
	Items    []TextObject // ordered left-to-right by X
}

// Append adds an object to the row and updates the running averages.
func (r *Row) Append(obj TextObject) {
	n := float64(len(r.Items))
	r.YCenter = (r.YCenter*n + obj.Y) / (n + 1)
	r.FontSize = (r.FontSize*n + obj.FontSize) / (n + 1)
	r.Items = append(r.Items, obj)
}

// NewRow starts a row seeded with a single object.
func NewRow(obj TextObject) Row {
	return Row{
		YCenter:  obj.Y,
		FontSize: obj.FontSize,
		Items:    []TextObject{obj},
	}
}
