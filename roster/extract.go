package roster

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/warp/roster-engine/generic"
)

// =============================================================================
// EXTRACTOR - Positioned fragments → ordered text lines
// =============================================================================

// DefaultLineTolerance is the largest vertical gap, in document units, between
// two fragments that still belong to the same visual line.
const DefaultLineTolerance = 5.0

// Extractor rebuilds reading-order text from a Document. Pages are decoded
// strictly in order, one at a time.
type Extractor struct {
	LineTolerance float64
	Logger        *zap.Logger
}

func NewExtractor(logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{LineTolerance: DefaultLineTolerance, Logger: logger}
}

// Lines returns every text line of the document, page order preserved.
//
// A decode failure on any page aborts the whole extraction with an error
// wrapping generic.ErrDocumentUnreadable. Cancellation of ctx abandons the
// in-flight page and returns ctx.Err(). In both cases no lines are returned.
func (e *Extractor) Lines(ctx context.Context, doc Document) ([]string, error) {
	pages := doc.NumPages()
	e.Logger.Info("starting document extraction", zap.Int("pages", pages))

	var lines []string
	for page := 1; page <= pages; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		frags, err := doc.PageFragments(ctx, page)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			e.Logger.Error("page decode failed", zap.Int("page", page), zap.Error(err))
			var docErr *generic.DocumentError
			if errors.As(err, &docErr) {
				return nil, err
			}
			return nil, &generic.DocumentError{Page: page, Err: err}
		}
		pageLines := GroupLines(frags, e.tolerance())
		e.Logger.Debug("page extracted",
			zap.Int("page", page),
			zap.Int("fragments", len(frags)),
			zap.Int("lines", len(pageLines)))
		lines = append(lines, pageLines...)
	}

	e.Logger.Info("document extraction complete", zap.Int("lines", len(lines)))
	return lines, nil
}

// Text is Lines joined with newlines.
func (e *Extractor) Text(ctx context.Context, doc Document) (string, error) {
	lines, err := e.Lines(ctx, doc)
	if err != nil {
		return "", err
	}
	return strings.Join(lines, "\n"), nil
}

func (e *Extractor) tolerance() float64 {
	if e.LineTolerance <= 0 {
		return DefaultLineTolerance
	}
	return e.LineTolerance
}

// GroupLines orders one page's fragments top-to-bottom, left-to-right and
// joins them into lines. A new line starts whenever the vertical distance to
// the previous fragment exceeds tolerance. Within a line fragments are
// re-ordered by X so that small baseline jitter cannot scramble words.
func GroupLines(frags []Fragment, tolerance float64) []string {
	if len(frags) == 0 {
		return nil
	}
	sorted := make([]Fragment, len(frags))
	copy(sorted, frags)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var lines []string
	current := []Fragment{sorted[0]}
	flush := func() {
		sort.SliceStable(current, func(i, j int) bool { return current[i].X < current[j].X })
		parts := make([]string, 0, len(current))
		for _, f := range current {
			parts = append(parts, f.Text)
		}
		lines = append(lines, strings.Join(parts, " "))
	}
	for i := 1; i < len(sorted); i++ {
		if math.Abs(sorted[i].Y-sorted[i-1].Y) > tolerance {
			flush()
			current = current[:0:0]
		}
		current = append(current, sorted[i])
	}
	flush()
	return lines
}
