// Package layout infers 2-D structure from positioned text objects using
// geometric heuristics only: no OCR, no layout model, no server round-trip.
//
// The detectors compose into a per-page sequence:
//
//   - [HeaderFooterSuppressor] - removes text recurring near the page
//     top/bottom across pages (requires all pages' text first)
//   - [RowClusterer] - groups objects into rows by vertical proximity,
//     with tolerances that scale with font size
//   - [ColumnClusterer] - derives column boundaries by clustering observed
//     X coordinates across all rows
//   - [IDCardClassifier] - decides whether a page is a label:value form
//     rather than a generic grid
//
// Each detector carries its own config struct with a DefaultXxxConfig()
// constructor.
package layout
