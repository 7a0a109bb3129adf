package document

import (
	"sort"

	"github.com/rivedit/riv/internal/rope"
)

// Severity mirrors LSP DiagnosticSeverity, ordered least to most severe
// so overlay composition can apply "later severities win" by iterating
// in this order.
type Severity int

const (
	SeverityHint Severity = iota
	SeverityInfo
	SeverityNone
	SeverityWarning
	SeverityError
)

// Diagnostic is one entry in a document's diagnostic list, keyed by
// (Provider, Range.From).
type Diagnostic struct {
	Provider string
	Range    rope.Range
	Severity Severity
	Message  string
	Code     string
}

// SetDiagnostics replaces every diagnostic from provider, keeping
// diagnostics from other providers untouched, and re-sorts by
// (provider, range.start).
func (d *Document) SetDiagnostics(provider string, diags []Diagnostic) {
	kept := d.diagnostics[:0:0]
	for _, existing := range d.diagnostics {
		if existing.Provider != provider {
			kept = append(kept, existing)
		}
	}
	kept = append(kept, diags...)
	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].Provider != kept[j].Provider {
			return kept[i].Provider < kept[j].Provider
		}
		return kept[i].Range.From() < kept[j].Range.From()
	})
	d.diagnostics = kept
}

// Diagnostics returns the current diagnostic list.
func (d *Document) Diagnostics() []Diagnostic { return d.diagnostics }

func mapDiagnostics(diags []Diagnostic, pm *rope.PosMap) []Diagnostic {
	out := make([]Diagnostic, len(diags))
	for i, dg := range diags {
		dg.Range = dg.Range.Map(pm, rope.AssocAfter)
		out[i] = dg
	}
	return out
}
