// Package terminal implements the integrated PTY panel: a
// bottom-pinned panel of shell tabs, each backed by a VT emulator and a
// polling PTY I/O loop. The VT engine itself is
// github.com/danielgatis/go-headless-term, imported directly rather
// than hand-copied: it is a complete, thread-safe VT220-class emulator
// built on github.com/danielgatis/go-ansicode, and reimplementing its
// parser by hand would just be a worse copy of the same library.
package terminal

import (
	"image/color"
	"sync"

	headlessterm "github.com/danielgatis/go-headless-term"
	"github.com/charmbracelet/lipgloss"
)

// Emulator owns one VT220-class terminal screen. It is safe for
// concurrent use: Feed is called from the PTY reader goroutine while
// Row/CursorPos are called from the render path.
type Emulator struct {
	mu   sync.Mutex
	term *headlessterm.Terminal

	title    string
	titleSet bool
}

// NewEmulator creates an emulator sized to rows x cols, wired to
// respond to cursor/device queries via resp (the PTY's write side) and
// to OSC 52 clipboard requests via clip.
func NewEmulator(rows, cols int, resp headlessterm.ResponseProvider, clip headlessterm.ClipboardProvider) *Emulator {
	e := &Emulator{}
	e.term = headlessterm.New(
		headlessterm.WithSize(rows, cols),
		headlessterm.WithResponse(resp),
		headlessterm.WithClipboard(clip),
		headlessterm.WithTitle(e),
	)
	return e
}

// Feed parses output bytes from the PTY and applies them to the screen.
func (e *Emulator) Feed(data []byte) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.term.Write(data)
}

// Resize propagates a panel resize to the VT engine.
func (e *Emulator) Resize(rows, cols int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.term.Resize(rows, cols)
}

// Rows and Cols report the current screen size.
func (e *Emulator) Rows() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.term.Rows()
}

func (e *Emulator) Cols() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.term.Cols()
}

// CursorPos reports the current cursor row/col and visibility.
func (e *Emulator) CursorPos() (row, col int, visible bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	row, col = e.term.CursorPos()
	return row, col, e.term.CursorVisible()
}

// HasApplicationCursor reports whether DECCKM (application cursor key
// mode) is active, which switches arrow keys from CSI to SS3 encoding.
func (e *Emulator) HasApplicationCursor() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.term.HasMode(headlessterm.ModeCursorKeys)
}

// SetTitle and PushTitle/PopTitle implement headlessterm.TitleProvider
// so OSC 0/1/2 sequences update the tab's displayed title.
func (e *Emulator) SetTitle(title string) { e.mu.Lock(); e.title = title; e.mu.Unlock() }
func (e *Emulator) PushTitle()            {}
func (e *Emulator) PopTitle()             {}

// Title returns the last title set via OSC, or "" if none.
func (e *Emulator) Title() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.title
}

// Row renders one screen row as a lipgloss-styled string, honoring
// each cell's foreground/background/bold/underline/reverse attributes.
func (e *Emulator) Row(row int) string {
	e.mu.Lock()
	defer e.mu.Unlock()

	cols := e.term.Cols()
	out := ""
	for col := 0; col < cols; col++ {
		cell := e.term.Cell(row, col)
		if cell == nil {
			out += " "
			continue
		}
		if cell.Flags&headlessterm.CellFlagWideCharSpacer != 0 {
			continue
		}
		ch := cell.Char
		if ch == 0 {
			ch = ' '
		}
		style := cellStyle(*cell)
		out += style.Render(string(ch))
	}
	return out
}

func cellStyle(cell headlessterm.Cell) lipgloss.Style {
	style := lipgloss.NewStyle()
	fg, bg := cell.Fg, cell.Bg
	if cell.Flags&headlessterm.CellFlagReverse != 0 {
		fg, bg = bg, fg
	}
	if fg != nil {
		style = style.Foreground(toLipgloss(fg))
	}
	if bg != nil {
		style = style.Background(toLipgloss(bg))
	}
	if cell.Flags&headlessterm.CellFlagBold != 0 {
		style = style.Bold(true)
	}
	if cell.Flags&(headlessterm.CellFlagUnderline|headlessterm.CellFlagDoubleUnderline) != 0 {
		style = style.Underline(true)
	}
	if cell.Flags&headlessterm.CellFlagStrike != 0 {
		style = style.Strikethrough(true)
	}
	if cell.Flags&headlessterm.CellFlagDim != 0 {
		style = style.Faint(true)
	}
	return style
}

func toLipgloss(c color.Color) lipgloss.TerminalColor {
	r, g, b, _ := c.RGBA()
	return lipgloss.Color(rgbHex(uint8(r>>8), uint8(g>>8), uint8(b>>8)))
}

const hexDigits = "0123456789abcdef"

func rgbHex(r, g, b uint8) string {
	buf := [7]byte{'#'}
	buf[1], buf[2] = hexDigits[r>>4], hexDigits[r&0xf]
	buf[3], buf[4] = hexDigits[g>>4], hexDigits[g&0xf]
	buf[5], buf[6] = hexDigits[b>>4], hexDigits[b&0xf]
	return string(buf[:])
}
