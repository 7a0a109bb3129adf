// Package selection implements the ordered, non-overlapping
// multi-range Selection, kept separate from internal/rope because
// selections are a document-level (multi-cursor) concept layered on
// top of the plain Range type that rope exposes for transaction
// bookkeeping.
package selection

import (
	"sort"

	"github.com/rivedit/riv/internal/rope"
)

// Selection is an ordered, non-overlapping set of ranges with a primary
// index, always holding at least one range.
type Selection struct {
	ranges  []rope.Range
	primary int
}

// New normalizes ranges: sorts by min-endpoint, merges
// overlapping/touching ranges, and clamps primaryIdx into range. This
// is the single constructor all mutation goes through.
func New(ranges []rope.Range, primaryIdx int) Selection {
	if len(ranges) == 0 {
		ranges = []rope.Range{{Anchor: 0, Head: 0}}
		primaryIdx = 0
	}
	type tagged struct {
		r         rope.Range
		isPrimary bool
	}
	tg := make([]tagged, len(ranges))
	for i, r := range ranges {
		tg[i] = tagged{r, i == primaryIdx}
	}
	sort.SliceStable(tg, func(i, j int) bool { return tg[i].r.From() < tg[j].r.From() })

	var merged []tagged
	for _, t := range tg {
		if len(merged) > 0 {
			last := &merged[len(merged)-1]
			if last.r.Touches(t.r) {
				wasPrimary := last.isPrimary || t.isPrimary
				last.r = last.r.Merge(t.r)
				last.isPrimary = wasPrimary
				continue
			}
		}
		merged = append(merged, t)
	}

	out := make([]rope.Range, len(merged))
	primary := 0
	for i, t := range merged {
		out[i] = t.r
		if t.isPrimary {
			primary = i
		}
	}
	return Selection{ranges: out, primary: primary}
}

// Single returns a Selection with one cursor/range.
func Single(r rope.Range) Selection { return New([]rope.Range{r}, 0) }

// Ranges returns the normalized ranges.
func (s Selection) Ranges() []rope.Range { return s.ranges }

// Len returns the number of ranges.
func (s Selection) Len() int { return len(s.ranges) }

// Primary returns the primary range.
func (s Selection) Primary() rope.Range { return s.ranges[s.primary] }

// PrimaryIndex returns the primary range's index.
func (s Selection) PrimaryIndex() int { return s.primary }

// Map translates every range through a transaction's position map and
// re-normalizes.
func (s Selection) Map(pm *rope.PosMap, assoc rope.Assoc) Selection {
	mapped := make([]rope.Range, len(s.ranges))
	for i, r := range s.ranges {
		mapped[i] = r.Map(pm, assoc)
	}
	return New(mapped, s.primary)
}

// Clamp restricts every range to [0, maxChars] and re-normalizes,
// enforcing the document invariant that selections never outlive the
// text.
func (s Selection) Clamp(maxChars int) Selection {
	clamped := make([]rope.Range, len(s.ranges))
	for i, r := range s.ranges {
		clamped[i] = r.Clamp(maxChars)
	}
	return New(clamped, s.primary)
}

// Transform applies f to every range and re-normalizes, used by cursor
// movement commands that need to touch every range uniformly.
func (s Selection) Transform(f func(rope.Range) rope.Range) Selection {
	out := make([]rope.Range, len(s.ranges))
	for i, r := range s.ranges {
		out[i] = f(r)
	}
	return New(out, s.primary)
}

// WithPrimaryIndex returns a copy with a different primary, clamped into
// range.
func (s Selection) WithPrimaryIndex(i int) Selection {
	if i < 0 {
		i = 0
	}
	if i >= len(s.ranges) {
		i = len(s.ranges) - 1
	}
	s.primary = i
	return s
}
