package gridify

import (
	"errors"
	"fmt"
)

// ErrNoContent indicates a page yielded zero usable text objects. Callers
// typically skip the page or report it as a scanned document.
var ErrNoContent = errors.New("no usable text on page")

// ErrNoTable indicates a page's text did not form a valid table (fewer
// than two rows survived clustering and filtering).
var ErrNoTable = errors.New("no table found")

// TooVisualError is a typed refusal: the page has too little text and too
// much image content for geometric table extraction to produce anything
// usable. It is not a generic failure; callers are expected to offer an
// alternative path (e.g. a premium OCR conversion) rather than an error
// message.
type TooVisualError struct {
	Page          int
	TextObjects   int
	ImageCoverage float64
}

func (e *TooVisualError) Error() string {
	return fmt.Sprintf("page %d is too visual for table extraction: %d text objects, %.0f%% image coverage",
		e.Page, e.TextObjects, e.ImageCoverage*100)
}
