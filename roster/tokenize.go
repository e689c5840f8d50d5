package roster

import (
	"regexp"
	"sort"
	"strings"
)

// =============================================================================
// TOKENIZER - Two passes over an employee's data segment
// =============================================================================

// quotedCode matches a quoted run of shift-code characters, e.g. 'TM' or '*N'.
var quotedCode = regexp.MustCompile(`'([A-Z0-9*+\- ]{1,5})'`)

var bareToken = regexp.MustCompile(`\S+`)

// token is a recognized code and its byte span [start, end) in the segment.
type token struct {
	code  string
	start int
	end   int
}

// spanSet is a list of claimed spans sorted by start, pairwise disjoint.
type spanSet []token

// overlaps reports whether [start, end) intersects any claimed span.
func (s spanSet) overlaps(start, end int) bool {
	// First span that ends after start; only it can overlap.
	i := sort.Search(len(s), func(i int) bool { return s[i].end > start })
	return i < len(s) && s[i].start < end
}

// tokenize returns the recognized codes of a segment ordered by position.
//
// Pass A claims quoted working-shift codes. Pass B claims bare tokens that are
// working, rest or no-shift codes and do not overlap a pass A span. The merged
// order is the chronological day order.
func (p *Parser) tokenize(segment string) []token {
	quoted := p.quotedTokens(segment)
	bare := p.bareTokens(segment, spanSet(quoted))

	merged := make([]token, 0, len(quoted)+len(bare))
	merged = append(merged, quoted...)
	merged = append(merged, bare...)
	sort.SliceStable(merged, func(i, j int) bool { return merged[i].start < merged[j].start })
	return merged
}

func (p *Parser) quotedTokens(segment string) []token {
	var out []token
	for _, m := range quotedCode.FindAllStringSubmatchIndex(segment, -1) {
		code := strings.TrimSpace(segment[m[2]:m[3]])
		if p.Codes.IsShift(code) {
			out = append(out, token{code: code, start: m[0], end: m[1]})
		}
	}
	return out
}

func (p *Parser) bareTokens(segment string, claimed spanSet) []token {
	var out []token
	for _, loc := range bareToken.FindAllStringIndex(segment, -1) {
		code := segment[loc[0]:loc[1]]
		if !p.Codes.IsKnown(code) || claimed.overlaps(loc[0], loc[1]) {
			continue
		}
		out = append(out, token{code: code, start: loc[0], end: loc[1]})
	}
	return out
}
