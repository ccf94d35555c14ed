package layout

import (
	"regexp"
	"strings"

	"github.com/tsawler/gridify/model"
)

// PageText holds the collected text objects of a single page, the unit the
// suppressor tallies across.
type PageText struct {
	PageNumber int // 1-based
	PageHeight float64
	Objects    []model.TextObject
}

// HeaderFooterConfig holds configuration for running header/footer
// suppression.
type HeaderFooterConfig struct {
	// TopZoneRatio bounds the header zone: objects with Y below
	// TopZoneRatio * pageHeight are header candidates. Default: 0.1.
	TopZoneRatio float64

	// BottomZoneRatio bounds the footer zone: objects with Y above
	// (1 - BottomZoneRatio) * pageHeight are footer candidates. Default: 0.1.
	BottomZoneRatio float64

	// MinRecurrence is the number of pages a text must appear on, in the
	// same zone, to be suppressed. Default: 3 (more than 2 pages).
	MinRecurrence int
}

// DefaultHeaderFooterConfig returns sensible default configuration.
func DefaultHeaderFooterConfig() HeaderFooterConfig {
	return HeaderFooterConfig{
		TopZoneRatio:    0.1,
		BottomZoneRatio: 0.1,
		MinRecurrence:   3,
	}
}

// HeaderFooterSuppressor removes running headers and footers: text that
// recurs at the same page zone across several pages of a document.
type HeaderFooterSuppressor struct {
	config HeaderFooterConfig
}

// NewHeaderFooterSuppressor creates a suppressor with default configuration.
func NewHeaderFooterSuppressor() *HeaderFooterSuppressor {
	return &HeaderFooterSuppressor{config: DefaultHeaderFooterConfig()}
}

// NewHeaderFooterSuppressorWithConfig creates a suppressor with custom
// configuration.
func NewHeaderFooterSuppressorWithConfig(config HeaderFooterConfig) *HeaderFooterSuppressor {
	return &HeaderFooterSuppressor{config: config}
}

// SuppressionSet is the cross-page frequency tally. It must be fully built,
// from every page's text, before any page is filtered: this is the one
// synchronization barrier in an otherwise page-independent pipeline. Once
// built it is read-only.
type SuppressionSet struct {
	config HeaderFooterConfig
	top    map[string]bool
	bottom map[string]bool
}

// Analyze tallies top-zone and bottom-zone text across all pages and
// returns the set of texts to suppress. Single-page documents produce an
// empty set: there is nothing to compare against.
func (s *HeaderFooterSuppressor) Analyze(pages []PageText) *SuppressionSet {
	set := &SuppressionSet{
		config: s.config,
		top:    make(map[string]bool),
		bottom: make(map[string]bool),
	}

	if len(pages) < 2 {
		return set
	}

	topCounts := make(map[string]int)
	bottomCounts := make(map[string]int)

	for _, page := range pages {
		// Count each text once per page per zone.
		seenTop := make(map[string]bool)
		seenBottom := make(map[string]bool)

		for _, obj := range page.Objects {
			key := normalizeRecurring(obj.Text)
			if key == "" {
				continue
			}
			switch {
			case obj.Y < s.config.TopZoneRatio*page.PageHeight:
				if !seenTop[key] {
					seenTop[key] = true
					topCounts[key]++
				}
			case obj.Y > (1-s.config.BottomZoneRatio)*page.PageHeight:
				if !seenBottom[key] {
					seenBottom[key] = true
					bottomCounts[key]++
				}
			}
		}
	}

	for key, count := range topCounts {
		if count >= s.config.MinRecurrence {
			set.top[key] = true
		}
	}
	for key, count := range bottomCounts {
		if count >= s.config.MinRecurrence {
			set.bottom[key] = true
		}
	}

	return set
}

// Filter returns the page's objects with recurring header/footer text
// removed. Only occurrences inside the matching zone are dropped; the same
// text in the page body is kept.
func (s *SuppressionSet) Filter(page PageText) []model.TextObject {
	if len(s.top) == 0 && len(s.bottom) == 0 {
		return page.Objects
	}

	filtered := make([]model.TextObject, 0, len(page.Objects))
	for _, obj := range page.Objects {
		key := normalizeRecurring(obj.Text)
		if obj.Y < s.config.TopZoneRatio*page.PageHeight && s.top[key] {
			continue
		}
		if obj.Y > (1-s.config.BottomZoneRatio)*page.PageHeight && s.bottom[key] {
			continue
		}
		filtered = append(filtered, obj)
	}
	return filtered
}

// Suppressed reports whether a text would be dropped in the given zone.
func (s *SuppressionSet) Suppressed(text string, header bool) bool {
	key := normalizeRecurring(text)
	if header {
		return s.top[key]
	}
	return s.bottom[key]
}

var digitRuns = regexp.MustCompile(`\d+`)

// normalizeRecurring lower-cases and trims a text and collapses digit runs
// to a placeholder, so "Page 1 of 10" and "Page 6 of 10" tally as the same
// recurring footer.
func normalizeRecurring(text string) string {
	normalized := strings.ToLower(strings.TrimSpace(text))
	return digitRuns.ReplaceAllString(normalized, "#")
}
