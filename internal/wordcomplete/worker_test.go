package wordcomplete

import "testing"

func runWorker(w *Worker) func() {
	done := make(chan struct{})
	go func() {
		w.Run()
		close(done)
	}()
	return func() {
		w.Stop()
		<-done
	}
}

func TestWorker_QueryPrefersLineScopedMatches(t *testing.T) {
	w := NewWorker(3) // min_word_len 3
	stop := runWorker(w)
	defer stop()

	w.ReindexDocument(1, "function format() {}\nfunc fetch() {}\n")
	// synchronous channel round trip ensures the reindex above landed
	// before the query below is issued.
	w.Query(1, "zzz", 0, 1)

	got := w.Query(1, "f", 1, 10)
	if len(got) == 0 || got[0] != "fetch" {
		t.Errorf("got %v, want line-scoped match fetch first", got)
	}
}

func TestWorker_QueryRespectsLimit(t *testing.T) {
	w := NewWorker(1)
	stop := runWorker(w)
	defer stop()

	w.ReindexDocument(1, "aa ab ac ad ae\n")
	w.Query(1, "zzz", 0, 1)

	got := w.Query(1, "a", 0, 2)
	if len(got) != 2 {
		t.Errorf("got %d words, want 2 (limit)", len(got))
	}
}

func TestWorker_MinWordLenFiltersShortTokens(t *testing.T) {
	w := NewWorker(4)
	stop := runWorker(w)
	defer stop()

	w.ReindexDocument(1, "a ab abc abcd abcde\n")
	w.Query(1, "zzz", 0, 1)

	got := w.Query(1, "a", 0, 10)
	for _, word := range got {
		if len(word) < 4 {
			t.Errorf("got short word %q, want min length 4", word)
		}
	}
	if len(got) != 2 {
		t.Errorf("got %d words, want 2 (abcd, abcde)", len(got))
	}
}

func TestWorker_ReindexLinesOnlyTouchesChangedLines(t *testing.T) {
	w := NewWorker(3)
	stop := runWorker(w)
	defer stop()

	w.ReindexDocument(1, "alpha\nbeta\n")
	w.ReindexLines(1, map[int]string{1: "gamma"})
	w.Query(1, "zzz", 0, 1)

	got := w.Query(1, "", 0, 10)
	wantAlpha, wantGamma := false, false
	for _, word := range got {
		if word == "alpha" {
			wantAlpha = true
		}
		if word == "gamma" {
			wantGamma = true
		}
		if word == "beta" {
			t.Errorf("expected beta to be replaced by gamma on line 1")
		}
	}
	if !wantAlpha || !wantGamma {
		t.Errorf("got %v, want both alpha and gamma present", got)
	}
}

func TestWorker_QueryUnknownDocumentReturnsNil(t *testing.T) {
	w := NewWorker(2)
	stop := runWorker(w)
	defer stop()

	got := w.Query(99, "a", 0, 10)
	if got != nil {
		t.Errorf("got %v, want nil for unknown document", got)
	}
}
