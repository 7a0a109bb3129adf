package terminal

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rivedit/riv/internal/config"
	"github.com/rivedit/riv/internal/mouse"
)

// PanelState is the terminal panel's visibility/focus state machine:
// Hidden -> Visible+Focused -> Hidden on toggle, with a
// visible-but-unfocused state reachable by clicking away.
type PanelState int

const (
	PanelHidden PanelState = iota
	PanelVisibleFocused
	PanelVisibleUnfocused
)

// separatorRegionID is the mouse hit-region id for the panel's resize
// affordance: a highlighted separator line draws when the mouse hovers
// the top edge.
const separatorRegionID = "terminal-separator"

// Panel owns the terminal panel's tabs and its size/focus state.
type Panel struct {
	cfg config.TerminalConfig

	state      PanelState
	heightPct  int
	tabs       []*Tab
	active     int
	nextTabID  int

	mouseHandler     *mouse.Handler
	separatorHovered bool

	screenWidth, screenHeight int
}

// NewPanel creates a panel with no tabs yet, sized from cfg.
func NewPanel(cfg config.TerminalConfig) *Panel {
	return &Panel{
		cfg:          cfg,
		state:        PanelHidden,
		heightPct:    cfg.HeightPct,
		mouseHandler: mouse.NewHandler(),
	}
}

// SetScreenSize records the full terminal dimensions so Height/Rows/Cols
// can be derived from heightPct.
func (p *Panel) SetScreenSize(width, height int) {
	p.screenWidth, p.screenHeight = width, height
}

// Height returns the panel's current height in rows.
func (p *Panel) Height() int {
	if p.state == PanelHidden {
		return 0
	}
	return p.screenHeight * p.heightPct / 100
}

// Toggle implements the Hidden <-> Visible+Focused transition.
func (p *Panel) Toggle() {
	if p.state == PanelHidden {
		p.state = PanelVisibleFocused
		if len(p.tabs) == 0 {
			_ = p.NewTab()
		}
		return
	}
	p.state = PanelHidden
}

// Unfocus moves a visible, focused panel to visible-unfocused, e.g.
// when the user clicks away. A no-op when hidden.
func (p *Panel) Unfocus() {
	if p.state == PanelVisibleFocused {
		p.state = PanelVisibleUnfocused
	}
}

// Focus returns a visible-unfocused panel to focused, e.g. when the
// user clicks back into it.
func (p *Panel) Focus() {
	if p.state == PanelVisibleUnfocused {
		p.state = PanelVisibleFocused
	}
}

// State reports the panel's current state.
func (p *Panel) State() PanelState { return p.state }

// Visible reports whether the panel occupies any screen space.
func (p *Panel) Visible() bool { return p.state != PanelHidden }

// GrowHeight and ShrinkHeight step the panel height by the configured
// percentage step, clamped to [MinHeightPct, MaxHeightPct].
func (p *Panel) GrowHeight()   { p.setHeightPct(p.heightPct + p.cfg.StepPct) }
func (p *Panel) ShrinkHeight() { p.setHeightPct(p.heightPct - p.cfg.StepPct) }

func (p *Panel) setHeightPct(pct int) {
	if pct < p.cfg.MinHeightPct {
		pct = p.cfg.MinHeightPct
	}
	if pct > p.cfg.MaxHeightPct {
		pct = p.cfg.MaxHeightPct
	}
	p.heightPct = pct
	p.resizeActiveTabs()
}

// NewTab spawns an additional shell tab using the configured shell
// command, sized to the panel's current rows/cols.
func (p *Panel) NewTab() error {
	rows, cols := p.cellSize()
	tab, err := NewTab(p.nextTabID, p.cfg.Shell, rows, cols)
	if err != nil {
		return err
	}
	p.nextTabID++
	p.tabs = append(p.tabs, tab)
	p.active = len(p.tabs) - 1
	return nil
}

// NewTabWithCommand spawns a tab running argv instead of the configured
// shell, used for debug-adapter runInTerminal requests. The new tab
// becomes active.
func (p *Panel) NewTabWithCommand(argv []string) (*Tab, error) {
	rows, cols := p.cellSize()
	tab, err := NewTab(p.nextTabID, argv, rows, cols)
	if err != nil {
		return nil, err
	}
	p.nextTabID++
	p.tabs = append(p.tabs, tab)
	p.active = len(p.tabs) - 1
	return tab, nil
}

// CloseActiveTab tears down and removes the focused tab. If it was the
// last tab, the panel hides itself.
func (p *Panel) CloseActiveTab() {
	if p.active < 0 || p.active >= len(p.tabs) {
		return
	}
	_ = p.tabs[p.active].Close()
	p.tabs = append(p.tabs[:p.active], p.tabs[p.active+1:]...)
	if p.active >= len(p.tabs) {
		p.active = len(p.tabs) - 1
	}
	if len(p.tabs) == 0 {
		p.state = PanelHidden
	}
}

// NextTab and PrevTab cycle the active tab, wrapping around.
func (p *Panel) NextTab() {
	if len(p.tabs) == 0 {
		return
	}
	p.active = (p.active + 1) % len(p.tabs)
}

func (p *Panel) PrevTab() {
	if len(p.tabs) == 0 {
		return
	}
	p.active = (p.active - 1 + len(p.tabs)) % len(p.tabs)
}

// ActiveTab returns the focused tab, or nil if there are none.
func (p *Panel) ActiveTab() *Tab {
	if p.active < 0 || p.active >= len(p.tabs) {
		return nil
	}
	return p.tabs[p.active]
}

// Tabs returns all open tabs in display order.
func (p *Panel) Tabs() []*Tab { return p.tabs }

// cellSize derives the PTY row/col count from the panel's current
// pixel-equivalent character geometry.
func (p *Panel) cellSize() (rows, cols int) {
	rows = p.Height() - 1 // reserve one row for the tab bar
	if rows < 1 {
		rows = 1
	}
	cols = p.screenWidth
	if cols < 1 {
		cols = 80
	}
	return rows, cols
}

func (p *Panel) resizeActiveTabs() {
	rows, cols := p.cellSize()
	for _, t := range p.tabs {
		t.Resize(rows, cols)
	}
}

// SeparatorHovered reports whether the mouse is currently over the
// resize affordance, so the view can draw a highlighted separator.
func (p *Panel) SeparatorHovered() bool { return p.separatorHovered }

// RegisterSeparatorHitRegion records the separator's screen rect for
// this frame's hit-testing; call once per render pass before HandleMouse.
func (p *Panel) RegisterSeparatorHitRegion(y, width int) {
	p.mouseHandler.Clear()
	p.mouseHandler.HitMap.AddRect(separatorRegionID, 0, y, width, 1, nil)
}

// HandleMouse drives hover/drag on the separator and returns true if it
// consumed the event (callers should stop further dispatch in that case).
// The panel owns its mouse.Handler so drag state stays consistent with
// the hit region registered by RegisterSeparatorHitRegion.
func (p *Panel) HandleMouse(msg tea.MouseMsg) bool {
	action := p.mouseHandler.HandleMouse(msg)
	switch action.Type {
	case mouse.ActionHover:
		p.separatorHovered = action.Region != nil && action.Region.ID == separatorRegionID
	case mouse.ActionClick:
		if action.Region != nil && action.Region.ID == separatorRegionID {
			p.mouseHandler.StartDrag(msg.X, msg.Y, separatorRegionID, p.heightPct)
			return true
		}
	case mouse.ActionDrag:
		if p.mouseHandler.DragRegion() == separatorRegionID {
			// Dragging the top edge up (negative dy) grows the panel.
			deltaRows := -action.DragDY
			deltaPct := 0
			if p.screenHeight > 0 {
				deltaPct = deltaRows * 100 / p.screenHeight
			}
			p.setHeightPct(p.mouseHandler.DragStartValue() + deltaPct)
			return true
		}
	case mouse.ActionDragEnd:
		if p.mouseHandler.DragRegion() == separatorRegionID {
			p.mouseHandler.EndDrag()
			return true
		}
	}
	return false
}
