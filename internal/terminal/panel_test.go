package terminal

import (
	"testing"

	"github.com/rivedit/riv/internal/config"
)

func testConfig() config.TerminalConfig {
	return config.TerminalConfig{
		Shell:        []string{"/bin/sh"},
		HeightPct:    40,
		MinHeightPct: 10,
		MaxHeightPct: 80,
		StepPct:      5,
	}
}

func TestPanel_HeightClamping(t *testing.T) {
	p := NewPanel(testConfig())
	p.SetScreenSize(80, 40)

	for i := 0; i < 20; i++ {
		p.GrowHeight()
	}
	if p.heightPct != 80 {
		t.Errorf("got heightPct %d, want clamped to 80", p.heightPct)
	}

	for i := 0; i < 20; i++ {
		p.ShrinkHeight()
	}
	if p.heightPct != 10 {
		t.Errorf("got heightPct %d, want clamped to 10", p.heightPct)
	}
}

func TestPanel_HeightStepsByConfiguredAmount(t *testing.T) {
	p := NewPanel(testConfig())
	p.GrowHeight()
	if p.heightPct != 45 {
		t.Errorf("got heightPct %d, want 45 (40+5)", p.heightPct)
	}
}

func TestPanel_HiddenHasZeroHeight(t *testing.T) {
	p := NewPanel(testConfig())
	p.SetScreenSize(80, 40)
	if got := p.Height(); got != 0 {
		t.Errorf("hidden panel height = %d, want 0", got)
	}
}

func TestPanel_VisibleHeightIsPercentOfScreen(t *testing.T) {
	p := NewPanel(testConfig())
	p.SetScreenSize(80, 40)
	p.state = PanelVisibleFocused
	if got := p.Height(); got != 16 { // 40% of 40
		t.Errorf("got height %d, want 16", got)
	}
}

func TestPanel_CellSizeReservesTabBarRow(t *testing.T) {
	p := NewPanel(testConfig())
	p.SetScreenSize(100, 40)
	p.state = PanelVisibleFocused
	rows, cols := p.cellSize()
	if rows != 15 { // 16 - 1 for tab bar
		t.Errorf("got rows %d, want 15", rows)
	}
	if cols != 100 {
		t.Errorf("got cols %d, want 100", cols)
	}
}
