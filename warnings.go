package gridify

import (
	"fmt"
	"strings"
)

// WarningCode identifies the category of a non-fatal issue.
type WarningCode string

const (
	// WarnPageSkipped: a page could not be read or extracted and was
	// skipped; the rest of the document was still processed.
	WarnPageSkipped WarningCode = "page_skipped"

	// WarnCharacterLevelText: the page's text arrives one character per
	// run, which over-segments column clustering. Results may be rough.
	WarnCharacterLevelText WarningCode = "character_level_text"

	// WarnRenderingUnavailable: the source cannot rasterize pages, so
	// visual element detection was skipped.
	WarnRenderingUnavailable WarningCode = "rendering_unavailable"

	// WarnLowConfidence: too few pages produced usable output; the caller
	// should suggest an alternative conversion path to the user.
	WarnLowConfidence WarningCode = "low_confidence"
)

// Warning describes a non-fatal issue encountered during extraction.
// Processing succeeded but results may be imperfect.
type Warning struct {
	Code    WarningCode
	Page    int // 1-based; 0 for document-level warnings
	Message string
}

func (w Warning) String() string {
	if w.Page > 0 {
		return fmt.Sprintf("[%s] page %d: %s", w.Code, w.Page, w.Message)
	}
	return fmt.Sprintf("[%s] %s", w.Code, w.Message)
}

// FormatWarnings renders warnings one per line for logging.
func FormatWarnings(warnings []Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}
