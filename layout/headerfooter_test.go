package layout

import (
	"testing"

	"github.com/tsawler/gridify/model"
)

func pageWith(num int, height float64, objects ...model.TextObject) PageText {
	return PageText{PageNumber: num, PageHeight: height, Objects: objects}
}

func obj(text string, x, y float64) model.TextObject {
	return model.TextObject{Text: text, X: x, Y: y, FontSize: 12, Height: 12, Width: 50}
}

func TestHeaderFooterSuppressor_Analyze_SinglePageSkipped(t *testing.T) {
	s := NewHeaderFooterSuppressor()
	page := pageWith(1, 800, obj("Page 1", 10, 790))

	set := s.Analyze([]PageText{page})

	filtered := set.Filter(page)
	if len(filtered) != 1 {
		t.Errorf("single-page document: %d objects after filter, want 1 (nothing to compare against)", len(filtered))
	}
}

func TestHeaderFooterSuppressor_RecurringFooterRemoved(t *testing.T) {
	// "Page N of 10" in the bottom 10% zone on 5 of 6 pages must be
	// suppressed from every page's objects, page-number digits ignored.
	s := NewHeaderFooterSuppressor()

	var pages []PageText
	for i := 1; i <= 6; i++ {
		body := obj("body text", 10, 400)
		if i < 6 {
			pages = append(pages, pageWith(i, 800, body, obj("Page 1 of 10", 10, 780)))
		} else {
			pages = append(pages, pageWith(i, 800, body, obj("Page 6 of 10", 10, 780)))
		}
	}

	set := s.Analyze(pages)

	for _, page := range pages {
		filtered := set.Filter(page)
		if len(filtered) != 1 {
			t.Fatalf("page %d: %d objects after filter, want 1", page.PageNumber, len(filtered))
		}
		if filtered[0].Text != "body text" {
			t.Errorf("page %d kept %q, want 'body text'", page.PageNumber, filtered[0].Text)
		}
	}
}

func TestHeaderFooterSuppressor_RecurringHeaderRemoved(t *testing.T) {
	s := NewHeaderFooterSuppressor()

	var pages []PageText
	for i := 1; i <= 3; i++ {
		pages = append(pages, pageWith(i, 800,
			obj("ACME Corp Annual Report", 10, 30),
			obj("content", 10, 400),
		))
	}

	set := s.Analyze(pages)
	if !set.Suppressed("ACME Corp Annual Report", true) {
		t.Error("header recurring on 3 pages should be suppressed")
	}

	filtered := set.Filter(pages[0])
	if len(filtered) != 1 || filtered[0].Text != "content" {
		t.Errorf("filter kept %d objects, want only 'content'", len(filtered))
	}
}

func TestHeaderFooterSuppressor_TwoOccurrencesKept(t *testing.T) {
	// Recurrence on just 2 pages is below the "more than 2 pages" bar.
	s := NewHeaderFooterSuppressor()

	pages := []PageText{
		pageWith(1, 800, obj("Draft", 10, 30)),
		pageWith(2, 800, obj("Draft", 10, 30)),
		pageWith(3, 800, obj("other", 10, 30)),
	}

	set := s.Analyze(pages)
	if set.Suppressed("Draft", true) {
		t.Error("text on only 2 pages should not be suppressed")
	}
}

func TestHeaderFooterSuppressor_BodyOccurrenceKept(t *testing.T) {
	// The same text recurring in headers must survive in the page body.
	s := NewHeaderFooterSuppressor()

	var pages []PageText
	for i := 1; i <= 3; i++ {
		pages = append(pages, pageWith(i, 800,
			obj("Invoice", 10, 30),  // header zone
			obj("Invoice", 10, 400), // body
		))
	}

	set := s.Analyze(pages)
	filtered := set.Filter(pages[0])
	if len(filtered) != 1 {
		t.Fatalf("%d objects after filter, want 1", len(filtered))
	}
	if filtered[0].Y != 400 {
		t.Errorf("kept object at Y=%v, want the body occurrence at 400", filtered[0].Y)
	}
}

func TestHeaderFooterSuppressor_ZonesRespectPageHeight(t *testing.T) {
	s := NewHeaderFooterSuppressor()

	// Y=90 on a 800pt page is outside the 10% top zone (80).
	var pages []PageText
	for i := 1; i <= 4; i++ {
		pages = append(pages, pageWith(i, 800, obj("near top but not in zone", 10, 90)))
	}

	set := s.Analyze(pages)
	if set.Suppressed("near top but not in zone", true) {
		t.Error("text outside the top zone should not be suppressed")
	}
}
