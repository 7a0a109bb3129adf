package highlight

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// SyntaxEngine adapts chroma to riv's own highlight-event contract: it
// only needs to produce a HighlightStart/HighlightEnd/Source event
// stream, which is exactly chroma's tokenizer output reshaped. riv
// never depends on chroma's token *kinds* beyond mapping them to a
// Highlight id via a caller-owned table, keeping the overlay
// composition code in this package independent of any specific lexer.
type SyntaxEngine struct {
	classify func(chroma.TokenType) Highlight
}

// NewSyntaxEngine builds an engine; classify maps a chroma token type to
// a theme-facing Highlight id.
func NewSyntaxEngine(classify func(chroma.TokenType) Highlight) *SyntaxEngine {
	return &SyntaxEngine{classify: classify}
}

// Tokenize lexes source text for the named language and returns a base
// highlight event stream in document char offsets, ready to be fed
// through Compose with diagnostic/cursor overlays.
func (e *SyntaxEngine) Tokenize(language, source string) ([]Event, error) {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)
	iter, err := lexer.Tokenise(nil, source)
	if err != nil {
		return nil, err
	}

	var events []Event
	pos := 0
	for _, tok := range iter.Tokens() {
		n := countChars(tok.Value)
		if n == 0 {
			continue
		}
		hl := e.classify(tok.Type)
		events = append(events, Event{Kind: EventHighlightStart, Highlight: hl})
		events = append(events, Event{Kind: EventSource, Start: pos, End: pos + n})
		events = append(events, Event{Kind: EventHighlightEnd, Highlight: hl})
		pos += n
	}
	return events, nil
}

func countChars(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}
