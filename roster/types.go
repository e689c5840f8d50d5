// Package roster turns a paginated roster document into per-day shifts.
// Extraction recovers text lines from positioned fragments; parsing locates
// one employee's row, anchors the roster week and decodes one shift per day.
package roster

import (
	"context"

	"github.com/warp/roster-engine/generic"
)

// =============================================================================
// DOCUMENT - What the decode collaborator hands us
// =============================================================================

// Fragment is one positioned run of text on a page. Y grows upwards, as in
// PDF user space, so the top of the page has the largest Y.
type Fragment struct {
	Text string
	X    float64
	Y    float64
}

// Document is a paginated source of fragments. PageFragments may block while
// the page is decoded; it must return promptly once ctx is done.
type Document interface {
	NumPages() int
	PageFragments(ctx context.Context, page int) ([]Fragment, error)
}

// =============================================================================
// EXTRACTED SHIFT
// =============================================================================

// ExtractedShift is one roster day as read from the document.
type ExtractedShift struct {
	Date      generic.TimePoint `json:"date"`
	ShiftCode string            `json:"shift_code"`
	Location  string            `json:"location"`
	HasMFS    bool              `json:"has_mfs"` // missed holiday rest
	HasMNS    bool              `json:"has_mns"` // missed weekly rest
	HasFS     bool              `json:"has_fs"`  // off-site assignment
}

// ParseResult is the outcome of parsing one employee. Found=false is a
// legitimate empty result, not an error.
type ParseResult struct {
	Found    bool
	Schedule []ExtractedShift

	// Suggestion is the closest-looking row when Found is false.
	Suggestion string

	// WeekFallback is set when no date range was found in the document and
	// the current week was used instead.
	WeekFallback bool
}

const (
	// RestLocation replaces any parsed location on rest days.
	RestLocation = "Rest"

	// UnknownLocation is used when a working day carries no location text.
	UnknownLocation = "N/A"
)
