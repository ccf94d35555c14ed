// Package visual recovers page structure invisible to text extraction
// (drawn table borders, boxes, embedded images) by analyzing rasterized
// page pixels. Detection is strictly best-effort: any failure produces
// empty results, never an error that blocks text-based extraction.
package visual

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"github.com/tsawler/gridify/source"
)

// AnalysisScale is the render scale the detector is tuned for. Pixmaps at
// other scales are resampled before analysis.
const AnalysisScale = 2.0

// Raster wraps an RGBA page image together with its scale relative to page
// points.
type Raster struct {
	Img   *image.RGBA
	Scale float64
}

// FromPixmap converts a raw pixel buffer into a Raster.
func FromPixmap(p *source.Pixmap) (*Raster, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pixmap: %w", err)
	}
	img := &image.RGBA{
		Pix:    p.Pix,
		Stride: p.Width * 4,
		Rect:   image.Rect(0, 0, p.Width, p.Height),
	}
	scale := p.Scale
	if scale <= 0 {
		scale = 1.0
	}
	return &Raster{Img: img, Scale: scale}, nil
}

// EnsureScale resamples the raster to the target scale. Rasters already at
// the target are returned unchanged.
func (r *Raster) EnsureScale(target float64) *Raster {
	if r.Scale == target || r.Scale <= 0 {
		return r
	}

	factor := target / r.Scale
	bounds := r.Img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0,
		int(float64(bounds.Dx())*factor),
		int(float64(bounds.Dy())*factor)))
	draw.BiLinear.Scale(dst, dst.Bounds(), r.Img, bounds, draw.Src, nil)

	return &Raster{Img: dst, Scale: target}
}

// gray returns the page as a flat grayscale byte plane, (r+g+b)/3 per
// pixel, plus its dimensions.
func (r *Raster) gray() ([]uint8, int, int) {
	bounds := r.Img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		row := r.Img.Pix[y*r.Img.Stride : y*r.Img.Stride+w*4]
		for x := 0; x < w; x++ {
			px := row[x*4 : x*4+3]
			out[y*w+x] = uint8((int(px[0]) + int(px[1]) + int(px[2])) / 3)
		}
	}
	return out, w, h
}
