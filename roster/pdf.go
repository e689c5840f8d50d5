package roster

import (
	"bytes"
	"context"
	"fmt"

	"github.com/ledongthuc/pdf"

	"github.com/warp/roster-engine/generic"
)

// =============================================================================
// PDF DOCUMENT - Decode collaborator backed by ledongthuc/pdf
// =============================================================================

// PDFDocument adapts a parsed PDF to the Document interface.
type PDFDocument struct {
	reader *pdf.Reader
}

// OpenPDF parses an in-memory PDF. Malformed input is reported as
// generic.ErrDocumentUnreadable.
func OpenPDF(data []byte) (doc *PDFDocument, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, &generic.DocumentError{Err: fmt.Errorf("%v", r)}
		}
	}()
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &generic.DocumentError{Err: err}
	}
	return &PDFDocument{reader: reader}, nil
}

func (d *PDFDocument) NumPages() int { return d.reader.NumPage() }

type pageResult struct {
	frags []Fragment
	err   error
}

// PageFragments decodes one 1-based page. The decoder itself cannot be
// interrupted, so it runs on its own goroutine and is abandoned when ctx is
// done; its late result is dropped.
func (d *PDFDocument) PageFragments(ctx context.Context, page int) ([]Fragment, error) {
	done := make(chan pageResult, 1)
	go func() {
		frags, err := d.decodePage(page)
		done <- pageResult{frags: frags, err: err}
	}()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-done:
		return res.frags, res.err
	}
}

func (d *PDFDocument) decodePage(page int) (frags []Fragment, err error) {
	defer func() {
		if r := recover(); r != nil {
			frags, err = nil, &generic.DocumentError{Page: page, Err: fmt.Errorf("%v", r)}
		}
	}()
	p := d.reader.Page(page)
	if p.V.IsNull() {
		return nil, &generic.DocumentError{Page: page, Err: fmt.Errorf("missing page object")}
	}
	return mergeGlyphs(p.Content().Text), nil
}

// mergeGlyphs joins the per-glyph text the decoder emits into word-level
// fragments: glyphs on the same baseline separated by less than a quarter of
// the font size belong to the same run.
func mergeGlyphs(glyphs []pdf.Text) []Fragment {
	var frags []Fragment
	var run []byte
	var startX, y, endX, size float64
	flush := func() {
		if len(run) > 0 {
			frags = append(frags, Fragment{Text: string(run), X: startX, Y: y})
			run = run[:0]
		}
	}
	for _, g := range glyphs {
		if g.S == " " {
			flush()
			continue
		}
		if len(run) > 0 && g.Y == y && g.X-endX < size/4 {
			run = append(run, g.S...)
			endX = g.X + g.W
			continue
		}
		flush()
		run = append(run, g.S...)
		startX, y, endX, size = g.X, g.Y, g.X+g.W, g.FontSize
	}
	flush()
	return frags
}
