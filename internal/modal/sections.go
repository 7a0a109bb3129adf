package modal

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rivedit/riv/internal/styles"
)

// Layout constants shared by Modal and its sections.
const (
	DefaultWidth  = 50
	MinModalWidth = 30
	ModalPadding  = 6 // border(2) + padding(4)
)

// Variant selects the modal's border/title accent.
type Variant int

const (
	VariantDefault Variant = iota
	VariantInfo
	VariantWarning
	VariantDanger
)

// Option configures a Modal at construction time.
type Option func(*Modal)

// WithWidth sets the modal's preferred width (clamped to the screen).
func WithWidth(w int) Option { return func(m *Modal) { m.width = w } }

// WithVariant sets the modal's visual variant.
func WithVariant(v Variant) Option { return func(m *Modal) { m.variant = v } }

// WithHints toggles the Tab/Enter/Esc hint footer.
func WithHints(show bool) Option { return func(m *Modal) { m.showHints = show } }

// WithPrimaryAction names the action Enter triggers when the focused
// section doesn't claim the key itself.
func WithPrimaryAction(id string) Option { return func(m *Modal) { m.primaryAction = id } }

// WithCloseOnBackdropClick controls whether clicking outside the modal
// dismisses it.
func WithCloseOnBackdropClick(close bool) Option {
	return func(m *Modal) { m.closeOnBackdrop = close }
}

// WithFooter sets a fixed footer rendered outside the scroll viewport.
func WithFooter(footer string) Option { return func(m *Modal) { m.customFooter = footer } }

// FocusableInfo describes one focusable element within a section's
// rendered content, positioned relative to the section's top-left.
type FocusableInfo struct {
	ID               string
	OffsetX, OffsetY int
	Width, Height    int
}

// RenderedSection is what a Section produces for one frame.
type RenderedSection struct {
	Content    string
	Focusables []FocusableInfo
}

// Section is one row-group of a modal: it renders itself for the
// current focus/hover state and optionally consumes key input when one
// of its focusables has focus.
type Section interface {
	Render(contentWidth int, focusID, hoverID string) RenderedSection
	Update(msg tea.Msg, focusID string) (string, tea.Cmd)
}

// measureHeight counts rendered lines; a trailing newline does not add
// a line and empty content has height zero.
func measureHeight(content string) int {
	content = strings.TrimRight(content, "\n")
	if content == "" {
		return 0
	}
	return strings.Count(content, "\n") + 1
}

// --- Text ---

type textSection struct{ text string }

// Text creates a static, non-focusable text section.
func Text(s string) Section { return textSection{text: s} }

func (s textSection) Render(contentWidth int, focusID, hoverID string) RenderedSection {
	return RenderedSection{Content: lipgloss.NewStyle().Width(contentWidth).Render(s.text)}
}

func (s textSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) { return "", nil }

// --- Spacer ---

type spacerSection struct{}

// Spacer creates a one-line vertical gap.
func Spacer() Section { return spacerSection{} }

func (spacerSection) Render(contentWidth int, focusID, hoverID string) RenderedSection {
	return RenderedSection{Content: " "}
}

func (spacerSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) { return "", nil }

// --- When ---

type whenSection struct {
	cond  func() bool
	inner Section
}

// When wraps a section that only renders while cond() is true; while
// false it has zero height and the layout drops it entirely.
func When(cond func() bool, inner Section) Section {
	return whenSection{cond: cond, inner: inner}
}

func (s whenSection) Render(contentWidth int, focusID, hoverID string) RenderedSection {
	if !s.cond() {
		return RenderedSection{}
	}
	return s.inner.Render(contentWidth, focusID, hoverID)
}

func (s whenSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	if !s.cond() {
		return "", nil
	}
	return s.inner.Update(msg, focusID)
}

// --- Custom ---

type customSection struct {
	render func(contentWidth int, focusID, hoverID string) RenderedSection
	update func(msg tea.Msg, focusID string) (string, tea.Cmd)
}

// Custom creates a section from raw render/update funcs; update may be
// nil for display-only content.
func Custom(render func(contentWidth int, focusID, hoverID string) RenderedSection, update func(msg tea.Msg, focusID string) (string, tea.Cmd)) Section {
	return customSection{render: render, update: update}
}

func (s customSection) Render(contentWidth int, focusID, hoverID string) RenderedSection {
	return s.render(contentWidth, focusID, hoverID)
}

func (s customSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	if s.update == nil {
		return "", nil
	}
	return s.update(msg, focusID)
}

// --- Buttons ---

// Button is one entry of a Buttons section.
type Button struct {
	label  string
	id     string
	danger bool
}

// BtnOption configures one Button.
type BtnOption func(*Button)

// BtnDanger styles the button with the error accent.
func BtnDanger() BtnOption { return func(b *Button) { b.danger = true } }

// Btn describes a button with an action id.
func Btn(label, id string, opts ...BtnOption) Button {
	b := Button{label: label, id: id}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

type buttonsSection struct{ buttons []Button }

// Buttons creates a horizontal row of buttons; each is focusable and
// clicking or pressing Enter on one returns its id as the action.
func Buttons(buttons ...Button) Section {
	return &buttonsSection{buttons: buttons}
}

const buttonGap = 2

func (s *buttonsSection) Render(contentWidth int, focusID, hoverID string) RenderedSection {
	var parts []string
	var focusables []FocusableInfo
	x := 0
	for _, b := range s.buttons {
		style := styles.ListItemNormal.Background(styles.BgTertiary)
		switch {
		case b.id == focusID:
			style = styles.ListItemFocused
			if b.danger {
				style = style.Background(styles.Error)
			}
		case b.id == hoverID:
			style = styles.ListItemSelected
		case b.danger:
			style = styles.ListItemNormal.Foreground(styles.Error)
		}
		rendered := style.Render(b.label)
		w := lipgloss.Width(rendered)
		focusables = append(focusables, FocusableInfo{ID: b.id, OffsetX: x, OffsetY: 0, Width: w, Height: 1})
		parts = append(parts, rendered)
		x += w + buttonGap
	}
	return RenderedSection{
		Content:    strings.Join(parts, strings.Repeat(" ", buttonGap)),
		Focusables: focusables,
	}
}

func (s *buttonsSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && km.Type == tea.KeyEnter {
		for _, b := range s.buttons {
			if b.id == focusID {
				return b.id, nil // Enter on a focused button returns its id
			}
		}
	}
	return "", nil
}

// --- Checkbox ---

type checkboxSection struct {
	id      string
	label   string
	checked *bool
}

// Checkbox creates a toggleable [ ]/[x] row bound to *checked.
func Checkbox(id, label string, checked *bool) Section {
	return &checkboxSection{id: id, label: label, checked: checked}
}

func (s *checkboxSection) Render(contentWidth int, focusID, hoverID string) RenderedSection {
	box := "[ ]"
	if s.checked != nil && *s.checked {
		box = "[x]"
	}
	line := box + " " + s.label
	style := styles.ListItemNormal
	if s.id == focusID {
		style = styles.ListItemFocused
	} else if s.id == hoverID {
		style = styles.ListItemSelected
	}
	return RenderedSection{
		Content:    style.Render(line),
		Focusables: []FocusableInfo{{ID: s.id, Width: lipgloss.Width(line), Height: 1}},
	}
}

func (s *checkboxSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	if focusID != s.id || s.checked == nil {
		return "", nil
	}
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "enter", " ", "space":
			*s.checked = !*s.checked
		}
	}
	return "", nil
}

// --- Input ---

type inputSection struct {
	id    string
	label string
	input *textinput.Model
}

// InputWithLabel creates a labeled single-line text input backed by a
// bubbles textinput model the caller owns.
func InputWithLabel(id, label string, input *textinput.Model) Section {
	return &inputSection{id: id, label: label, input: input}
}

func (s *inputSection) Render(contentWidth int, focusID, hoverID string) RenderedSection {
	if s.id == focusID {
		s.input.Focus()
	} else {
		s.input.Blur()
	}
	content := styles.Muted.Render(s.label) + " " + s.input.View()
	return RenderedSection{
		Content:    content,
		Focusables: []FocusableInfo{{ID: s.id, Width: lipgloss.Width(content), Height: 1}},
	}
}

func (s *inputSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	if focusID != s.id {
		return "", nil
	}
	if km, ok := msg.(tea.KeyMsg); ok && km.Type == tea.KeyEnter {
		return "", nil // let the modal's primary action fire
	}
	var cmd tea.Cmd
	*s.input, cmd = s.input.Update(msg)
	return "", cmd
}
