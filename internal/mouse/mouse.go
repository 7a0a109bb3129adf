// Package mouse implements hit-region tracking and click/drag/scroll
// classification shared by every mouse-interactive surface: the
// terminal panel's resize edge (a
// highlighted separator line draws when the mouse hovers the top
// edge), and modal/palette entries.
package mouse

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Rect is an axis-aligned hit region; X/Y is the top-left corner.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether (x, y) falls within the rect. The right and
// bottom edges are exclusive, matching half-open grid cell semantics. A
// zero-width or zero-height rect contains no points.
func (r Rect) Contains(x, y int) bool {
	if r.W <= 0 || r.H <= 0 {
		return false
	}
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Region is one named hit-testable rect with an attached payload.
type Region struct {
	ID   string
	Rect Rect
	Data any
}

// HitMap collects regions registered during a render pass and answers
// point queries against them. Later-added regions take priority over
// earlier ones at overlapping points, matching paint order (the last
// thing drawn is the topmost thing clickable).
type HitMap struct {
	regions []Region
}

// NewHitMap creates an empty hit map.
func NewHitMap() *HitMap { return &HitMap{} }

// Add registers a region.
func (h *HitMap) Add(id string, rect Rect, data any) {
	h.regions = append(h.regions, Region{ID: id, Rect: rect, Data: data})
}

// AddRect is a convenience form of Add taking the rect fields directly.
func (h *HitMap) AddRect(id string, x, y, w, height int, data any) {
	h.Add(id, Rect{X: x, Y: y, W: w, H: height}, data)
}

// Clear discards all registered regions; called at the start of each
// render pass before regions are re-registered for the new frame.
func (h *HitMap) Clear() { h.regions = h.regions[:0] }

// Test returns the topmost region containing (x, y), or nil.
func (h *HitMap) Test(x, y int) *Region {
	for i := len(h.regions) - 1; i >= 0; i-- {
		if h.regions[i].Rect.Contains(x, y) {
			r := h.regions[i]
			return &r
		}
	}
	return nil
}

// Regions returns a defensive copy of all registered regions.
func (h *HitMap) Regions() []Region {
	out := make([]Region, len(h.regions))
	copy(out, h.regions)
	return out
}

// doubleClickWindow is how close together two clicks on the same region
// must land to count as a double click.
const doubleClickWindow = 400 * time.Millisecond

// ClickResult is the outcome of routing one click through HandleClick.
type ClickResult struct {
	Region        *Region
	IsDoubleClick bool
}

// ActionType classifies a mouse event after HandleMouse has resolved it
// against the current hit map and drag state.
type ActionType int

const (
	ActionNone ActionType = iota
	ActionClick
	ActionDoubleClick
	ActionHover
	ActionScrollUp
	ActionScrollDown
	ActionScrollLeft
	ActionScrollRight
	ActionDrag
	ActionDragEnd
)

// Action is the normalized result of HandleMouse.
type Action struct {
	Type           ActionType
	Region         *Region
	Delta          int // scroll amount, signed
	DragDX, DragDY int // drag delta from the StartDrag anchor
}

// scrollStep is how many lines one wheel notch scrolls.
const scrollStep = 3

// Handler tracks hit regions plus click/drag state across frames.
type Handler struct {
	HitMap *HitMap

	lastClickID string
	lastClickAt time.Time

	dragging    bool
	dragRegion  string
	dragStartX  int
	dragStartY  int
	dragStartV  int
}

// NewHandler creates a handler with a fresh, empty hit map.
func NewHandler() *Handler {
	return &Handler{HitMap: NewHitMap()}
}

// Clear resets the hit map for a new render pass. Drag and click-timing
// state survive a Clear: those track user gesture state across frames,
// not what was drawn in a given frame.
func (h *Handler) Clear() { h.HitMap.Clear() }

// HandleClick resolves a click at (x, y), tracking double-click state
// per region id. A third click on the same spot starts a fresh
// single/double cycle rather than being treated as part of the pair.
func (h *Handler) HandleClick(x, y int) ClickResult {
	region := h.HitMap.Test(x, y)
	now := nowFunc()

	result := ClickResult{Region: region}
	if region != nil && h.lastClickID == region.ID && now.Sub(h.lastClickAt) <= doubleClickWindow {
		result.IsDoubleClick = true
		h.lastClickID = "" // next click starts a new pair
		h.lastClickAt = time.Time{}
		return result
	}

	if region != nil {
		h.lastClickID = region.ID
		h.lastClickAt = now
	} else {
		h.lastClickID = ""
	}
	return result
}

// nowFunc is indirected so the double-click window has a single seam if
// a future test needs to fake time; production always uses time.Now.
var nowFunc = time.Now

// StartDrag begins tracking a drag gesture anchored at (x, y) over
// region id, remembering startValue (e.g. the terminal panel's height
// percentage before the drag) so callers can compute an absolute new
// value from DragDelta without keeping their own anchor.
func (h *Handler) StartDrag(x, y int, id string, startValue int) {
	h.dragging = true
	h.dragRegion = id
	h.dragStartX, h.dragStartY = x, y
	h.dragStartV = startValue
}

// EndDrag stops tracking the current drag gesture.
func (h *Handler) EndDrag() {
	h.dragging = false
	h.dragRegion = ""
}

// IsDragging reports whether a drag gesture is in progress.
func (h *Handler) IsDragging() bool { return h.dragging }

// DragRegion returns the id passed to StartDrag, or "" if not dragging.
func (h *Handler) DragRegion() string {
	if !h.dragging {
		return ""
	}
	return h.dragRegion
}

// DragStartValue returns the startValue passed to StartDrag.
func (h *Handler) DragStartValue() int { return h.dragStartV }

// DragDelta returns the offset of (x, y) from the drag's anchor point.
func (h *Handler) DragDelta(x, y int) (dx, dy int) {
	return x - h.dragStartX, y - h.dragStartY
}

// HandleMouse is the single entry point wired from the root Update loop:
// it classifies a raw bubbletea mouse event against the current hit map
// and drag state and returns one normalized Action.
func (h *Handler) HandleMouse(msg tea.MouseMsg) Action {
	switch msg.Action {
	case tea.MouseActionPress:
		return h.handlePress(msg)
	case tea.MouseActionMotion:
		return h.handleMotion(msg)
	case tea.MouseActionRelease:
		return h.handleRelease()
	default:
		return Action{Type: ActionNone}
	}
}

func (h *Handler) handlePress(msg tea.MouseMsg) Action {
	switch msg.Button {
	case tea.MouseButtonLeft:
		click := h.HandleClick(msg.X, msg.Y)
		typ := ActionClick
		if click.IsDoubleClick {
			typ = ActionDoubleClick
		} else if click.Region == nil {
			typ = ActionNone
		}
		return Action{Type: typ, Region: click.Region}
	case tea.MouseButtonWheelUp:
		if msg.Shift {
			return Action{Type: ActionScrollLeft}
		}
		return Action{Type: ActionScrollUp, Delta: -scrollStep}
	case tea.MouseButtonWheelDown:
		if msg.Shift {
			return Action{Type: ActionScrollRight}
		}
		return Action{Type: ActionScrollDown, Delta: scrollStep}
	case tea.MouseButtonWheelLeft:
		// Mac trackpads report natural horizontal scroll inverted.
		return Action{Type: ActionScrollRight}
	case tea.MouseButtonWheelRight:
		return Action{Type: ActionScrollLeft}
	default:
		return Action{Type: ActionNone}
	}
}

func (h *Handler) handleMotion(msg tea.MouseMsg) Action {
	if h.dragging {
		dx, dy := h.DragDelta(msg.X, msg.Y)
		return Action{Type: ActionDrag, DragDX: dx, DragDY: dy}
	}
	return Action{Type: ActionHover, Region: h.HitMap.Test(msg.X, msg.Y)}
}

func (h *Handler) handleRelease() Action {
	if h.dragging {
		h.EndDrag()
		return Action{Type: ActionDragEnd}
	}
	return Action{Type: ActionNone}
}
