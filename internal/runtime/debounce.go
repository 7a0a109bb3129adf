package runtime

import (
	"sync"
	"time"
)

// DebounceState is the Idle/Debouncing/InFlight state machine shared by
// the completion, signature-help and inlay-hint coordinators: an edit
// (re)starts a timer; when it fires, a request
// goes in flight; a newer edit arriving mid-flight invalidates the
// in-flight response via a generation counter rather than canceling it
// outright (matching LSP's "stale response, discard" convention).
type DebounceState struct {
	mu         sync.Mutex
	timer      *time.Timer
	deadline   time.Time
	generation int
	delay      time.Duration
}

// NewDebounceState creates a debouncer with the given settle delay.
func NewDebounceState(delay time.Duration) *DebounceState {
	return &DebounceState{delay: delay}
}

// Trigger (re)starts the debounce timer. fire is invoked on its own
// goroutine once the timer settles without being retriggered, with the
// generation number this trigger assigned; callers compare it
// against Generation() when the async response arrives to detect
// staleness.
func (d *DebounceState) Trigger(fire func(generation int)) {
	d.TriggerAfter(d.delay, fire)
}

// TriggerAfter is Trigger with a one-off delay override, used when a
// particular trigger kind needs a different settle time than the
// coordinator's default (e.g. a short trigger-char timeout vs. its
// normal auto-trigger debounce).
func (d *DebounceState) TriggerAfter(delay time.Duration, fire func(generation int)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.generation++
	gen := d.generation
	if d.timer != nil {
		d.timer.Stop()
	}
	d.deadline = time.Now().Add(delay)
	d.timer = time.AfterFunc(delay, func() { fire(gen) })
}

// TriggerAtLeast arms the timer for now+delay unless an already-armed
// deadline lies further out, in which case the later deadline stands
// (deadlines are absolute instants, so repeated triggers extend rather
// than reset when the caller wants that policy). The generation still
// advances so in-flight work reads as stale either way.
func (d *DebounceState) TriggerAtLeast(delay time.Duration, fire func(generation int)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.generation++
	gen := d.generation
	if d.timer != nil {
		d.timer.Stop()
	}
	target := time.Now().Add(delay)
	if d.deadline.After(target) {
		target = d.deadline
	}
	d.deadline = target
	d.timer = time.AfterFunc(time.Until(target), func() { fire(gen) })
}

// Bump advances the generation counter immediately, with no timer, for
// callers that skip debouncing entirely.
func (d *DebounceState) Bump() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.generation++
	return d.generation
}

// Cancel stops any pending timer without bumping the generation, used
// when the handler is torn down (e.g. the document closes).
func (d *DebounceState) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.deadline = time.Time{}
}

// Generation returns the current generation counter.
func (d *DebounceState) Generation() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.generation
}

// Stale reports whether gen is older than the current generation,
// meaning a response tagged with gen should be discarded.
func (d *DebounceState) Stale(gen int) bool {
	return gen != d.Generation()
}
