// Package highlight composes the syntax-highlight event stream with
// diagnostic and selection overlays, modeling overlay composition as a
// simple `Overlay.Apply(Event) []Event` function chain.
package highlight

import (
	"sort"

	"github.com/rivedit/riv/internal/document"
)

// EventKind tags one entry of the highlight stream.
type EventKind int

const (
	EventHighlightStart EventKind = iota
	EventHighlightEnd
	EventSource // a raw span of underlying document/terminal text
)

// Highlight is an opaque style tag resolved by the caller's theme.
type Highlight int

// Event is one entry of a highlight stream.
type Event struct {
	Kind       EventKind
	Highlight  Highlight
	Start, End int // only meaningful for EventSource
}

// Overlay takes a base stream and yields a new stream with its ranges'
// highlight pushed/popped at the right boundaries, splitting Source
// events as needed.
type Overlay interface {
	Apply(events []Event) []Event
}

// Compose applies overlays in order, each one layering on the previous
// output; later overlays apply "last" and so win visually, which gives
// the correct diagnostic severity ordering when overlays are supplied
// in Hint < Info < None < Warning < Error order.
func Compose(base []Event, overlays ...Overlay) []Event {
	stream := base
	for _, o := range overlays {
		stream = o.Apply(stream)
	}
	return stream
}

// RangeHighlight is a single (range, highlight) entry fed to an overlay.
type RangeHighlight struct {
	From, To  int
	Highlight Highlight
}

// MonotonicOverlay holds sorted, non-decreasing, non-overlapping ranges
// and can therefore apply in a single linear pass.
type MonotonicOverlay struct {
	ranges []RangeHighlight
}

// NewMonotonicOverlay builds an overlay from ranges already sorted by
// From ascending and non-overlapping; callers violating that contract
// will see out-of-order splits, matching the Rust original's unchecked
// "monotonic" fast path.
func NewMonotonicOverlay(ranges []RangeHighlight) *MonotonicOverlay {
	return &MonotonicOverlay{ranges: ranges}
}

// Apply implements Overlay for MonotonicOverlay.
func (o *MonotonicOverlay) Apply(events []Event) []Event {
	return applyRanges(events, o.ranges)
}

// OverlappingOverlay accepts arbitrary (possibly overlapping) ranges; it
// sorts by From before applying, unlike MonotonicOverlay which trusts
// the caller.
type OverlappingOverlay struct {
	ranges []RangeHighlight
}

func NewOverlappingOverlay(ranges []RangeHighlight) *OverlappingOverlay {
	sorted := append([]RangeHighlight(nil), ranges...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].From < sorted[j].From })
	return &OverlappingOverlay{ranges: sorted}
}

func (o *OverlappingOverlay) Apply(events []Event) []Event {
	return applyRanges(events, o.ranges)
}

// applyRanges splits Source events at every overlay range boundary and
// injects HighlightStart/End around the overlapping span.
func applyRanges(events []Event, ranges []RangeHighlight) []Event {
	var out []Event
	ri := 0
	for _, ev := range events {
		if ev.Kind != EventSource {
			out = append(out, ev)
			continue
		}
		pos := ev.Start
		for pos < ev.End {
			for ri < len(ranges) && ranges[ri].To <= pos {
				ri++
			}
			if ri >= len(ranges) || ranges[ri].From >= ev.End {
				out = append(out, Event{Kind: EventSource, Start: pos, End: ev.End})
				pos = ev.End
				break
			}
			r := ranges[ri]
			if pos < r.From {
				out = append(out, Event{Kind: EventSource, Start: pos, End: r.From})
				pos = r.From
				continue
			}
			segEnd := r.To
			if segEnd > ev.End {
				segEnd = ev.End
			}
			out = append(out, Event{Kind: EventHighlightStart, Highlight: r.Highlight})
			out = append(out, Event{Kind: EventSource, Start: pos, End: segEnd})
			out = append(out, Event{Kind: EventHighlightEnd, Highlight: r.Highlight})
			pos = segEnd
		}
	}
	return out
}

// DiagnosticsOverlay renders diagnostic severities on top of the base
// syntax stream, applying Hint first and Error last so Error always
// wins visually.
type DiagnosticsOverlay struct {
	Doc      *document.Document
	Severity *document.Severity // nil = all severities
	Theme    func(document.Severity) Highlight
}

func (o DiagnosticsOverlay) Apply(events []Event) []Event {
	order := []document.Severity{document.SeverityHint, document.SeverityInfo, document.SeverityNone, document.SeverityWarning, document.SeverityError}
	stream := events
	for _, sev := range order {
		var ranges []RangeHighlight
		for _, d := range o.Doc.Diagnostics() {
			if d.Severity != sev {
				continue
			}
			if o.Severity != nil && *o.Severity != sev {
				continue
			}
			ranges = append(ranges, RangeHighlight{From: d.Range.From(), To: d.Range.To(), Highlight: o.Theme(sev)})
		}
		if len(ranges) > 0 {
			stream = applyRanges(stream, ranges)
		}
	}
	return stream
}

// CursorOverlay draws the cursor/selection overlay in-band for
// block-cursor rendering; bar/underline cursors are left to the
// terminal and are not drawn here.
type CursorOverlay struct {
	Ranges       []RangeHighlight // From/To of selection spans
	CursorHigh   Highlight
	SelectHigh   Highlight
	DocLenChars  int
	PrimaryIsRev []bool // per-range: true if head < anchor
	Heads        []int
}

func (o CursorOverlay) Apply(events []Event) []Event {
	var ranges []RangeHighlight
	for i, r := range o.Ranges {
		from, to := r.From, r.To
		if from == to {
			// cursor at end-of-rope occupies a synthetic one-char range
			end := from + 1
			if from >= o.DocLenChars {
				end = o.DocLenChars
				if end <= from {
					end = from + 1
				}
			}
			ranges = append(ranges, RangeHighlight{From: from, To: end, Highlight: o.CursorHigh})
			continue
		}
		if i < len(o.PrimaryIsRev) && o.PrimaryIsRev[i] {
			head := o.Heads[i]
			ranges = append(ranges, RangeHighlight{From: head, To: head + 1, Highlight: o.CursorHigh})
			if head+1 < to {
				ranges = append(ranges, RangeHighlight{From: head + 1, To: to, Highlight: o.SelectHigh})
			}
			continue
		}
		ranges = append(ranges, RangeHighlight{From: from, To: to, Highlight: o.SelectHigh})
	}
	return applyRanges(events, ranges)
}
