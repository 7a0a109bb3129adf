package terminal

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/unilibs/uniwidth"

	"github.com/rivedit/riv/internal/styles"
)

var (
	separatorNormal = lipgloss.NewStyle().Foreground(styles.BorderMuted)
	separatorHover  = lipgloss.NewStyle().Foreground(styles.BorderActive).Bold(true)
)

// View renders the panel at the given width: a resize separator, a tab
// bar (when more than one tab is open), and the active tab's screen.
func (p *Panel) View(width int) string {
	if !p.Visible() {
		return ""
	}

	var b strings.Builder

	sep := separatorNormal
	if p.separatorHovered {
		sep = separatorHover
	}
	b.WriteString(sep.Render(strings.Repeat("─", width)))
	b.WriteString("\n")

	if len(p.tabs) > 1 {
		b.WriteString(p.renderTabBar(width))
		b.WriteString("\n")
	}

	tab := p.ActiveTab()
	rows, _ := p.cellSize()
	if tab == nil {
		b.WriteString(lipgloss.NewStyle().Foreground(styles.TextMuted).Render("no shell"))
		return b.String()
	}

	for row := 0; row < rows; row++ {
		b.WriteString(tab.Emulator.Row(row))
		if row < rows-1 {
			b.WriteString("\n")
		}
	}

	return b.String()
}

// maxTabTitleCells bounds how many terminal cells one tab label may
// occupy before its OSC title is truncated.
const maxTabTitleCells = 24

func (p *Panel) renderTabBar(width int) string {
	var cells []string
	for i, tab := range p.tabs {
		label := fmt.Sprintf(" %d: %s ", i+1, truncateCells(tab.Title(), maxTabTitleCells))
		cells = append(cells, styles.RenderShellTab(label, i == p.active))
	}
	return lipgloss.NewStyle().Width(width).Render(strings.Join(cells, ""))
}

// truncateCells cuts s to at most max terminal cells, measured with the
// same width tables the VT engine lays cells out with, so a wide-rune
// title never overflows its tab.
func truncateCells(s string, max int) string {
	if uniwidth.StringWidth(s) <= max {
		return s
	}
	w := 0
	for i, r := range s {
		w += uniwidth.RuneWidth(r)
		if w > max-1 {
			return s[:i] + "…"
		}
	}
	return s
}
