// Package palette implements the command palette overlay: a
// fuzzy-filterable list of commands drawn from three layered sources —
// the active mode's keymap, a fixed list of language-server commands,
// and the editor's global commands — rendered with match
// highlighting and mouse hit regions.
package palette

import (
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rivedit/riv/internal/mouse"
)

// regionPaletteEntry is the hit-map region id shared by every rendered
// entry row; the row's entry index is carried in the region's Data.
const regionPaletteEntry = "palette-entry"

// Layer groups palette entries by where they were sourced from, driving
// both render order and section headers.
type Layer int

const (
	LayerCurrentMode Layer = iota
	LayerLanguageServer
	LayerGlobal
)

// MatchRange is one contiguous span of fuzzy-matched characters within
// an entry's Name, used to render highlighted substrings.
type MatchRange struct {
	Start, End int
}

// PaletteEntry is one selectable command row.
type PaletteEntry struct {
	Key          string // key binding chip, e.g. "space a" or "" if unbound
	Name         string
	Description  string
	Command      string // keymap/editor command identifier to dispatch
	Layer        Layer
	MatchRanges  []MatchRange
	ContextCount int // number of the active mode's bindings to this command
}

// SelectedMsg is emitted when the user confirms an entry.
type SelectedMsg struct {
	Entry PaletteEntry
}

// CancelledMsg is emitted when the palette is dismissed without a
// selection.
type CancelledMsg struct{}

// Model is the command palette's bubbletea model.
type Model struct {
	mouseHandler *mouse.Handler
	textInput    textinput.Model

	width  int
	height int

	all      []PaletteEntry // unfiltered entries for the active context
	filtered []PaletteEntry

	cursor     int
	offset     int
	maxVisible int

	showAllContexts bool
	activeContext   string // current mode name, e.g. "normal"
	serverContext   string // active language server name, e.g. "gopls"
}

// New creates a palette populated from entries (already sourced from
// the keymap registry, language-server commands, and global commands by the
// caller) for the given active mode/server context.
func New(entries []PaletteEntry, activeContext, serverContext string) Model {
	ti := textinput.New()
	ti.Placeholder = "Search commands..."
	ti.Prompt = ""
	ti.Focus()

	m := Model{
		mouseHandler:  mouse.NewHandler(),
		textInput:     ti,
		all:           entries,
		maxVisible:    12,
		activeContext: activeContext,
		serverContext: serverContext,
	}
	m.refilter()
	return m
}

// SetSize updates the palette's render dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Init satisfies tea.Model.
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, mouse, and window events.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	}

	var cmd tea.Cmd
	prevValue := m.textInput.Value()
	m.textInput, cmd = m.textInput.Update(msg)
	if m.textInput.Value() != prevValue {
		m.refilter()
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, func() tea.Msg { return CancelledMsg{} }
	case "enter":
		if m.cursor >= 0 && m.cursor < len(m.filtered) {
			entry := m.filtered[m.cursor]
			return m, func() tea.Msg { return SelectedMsg{Entry: entry} }
		}
		return m, nil
	case "tab":
		m.showAllContexts = !m.showAllContexts
		m.refilter()
		return m, nil
	case "up", "ctrl+p":
		m.moveCursor(-1)
		return m, nil
	case "down", "ctrl+n":
		m.moveCursor(1)
		return m, nil
	}

	var cmd tea.Cmd
	prevValue := m.textInput.Value()
	m.textInput, cmd = m.textInput.Update(msg)
	if m.textInput.Value() != prevValue {
		m.refilter()
	}
	return m, cmd
}

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	action := m.mouseHandler.HandleMouse(msg)
	switch action.Type {
	case mouse.ActionClick, mouse.ActionDoubleClick:
		if action.Region != nil && action.Region.ID == regionPaletteEntry {
			idx, ok := action.Region.Data.(int)
			if ok && idx >= 0 && idx < len(m.filtered) {
				m.cursor = idx
				if action.Type == mouse.ActionDoubleClick {
					entry := m.filtered[idx]
					return m, func() tea.Msg { return SelectedMsg{Entry: entry} }
				}
			}
		}
	case mouse.ActionScrollUp:
		m.moveCursor(-1)
	case mouse.ActionScrollDown:
		m.moveCursor(1)
	}
	return m, nil
}

func (m *Model) moveCursor(delta int) {
	if len(m.filtered) == 0 {
		return
	}
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.filtered) {
		m.cursor = len(m.filtered) - 1
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.maxVisible {
		m.offset = m.cursor - m.maxVisible + 1
	}
}

// refilter recomputes m.filtered from the current query and context
// toggle, keeping entries whose name fuzzy-matches the query and ordering
// them with sortFiltered (layer, then name).
func (m *Model) refilter() {
	query := strings.ToLower(strings.TrimSpace(m.textInput.Value()))

	var candidates []PaletteEntry
	for _, e := range m.all {
		// Language-server commands are scoped to the active server;
		// hide them until the user opts into "All Contexts".
		if !m.showAllContexts && e.Layer == LayerLanguageServer {
			continue
		}
		candidates = append(candidates, e)
	}

	if query == "" {
		for i := range candidates {
			candidates[i].MatchRanges = nil
		}
		m.filtered = candidates
		m.sortFiltered()
		m.cursor = 0
		m.offset = 0
		return
	}

	var matched []PaletteEntry
	for _, e := range candidates {
		ranges, ok := fuzzyMatch(strings.ToLower(e.Name), query)
		if !ok {
			continue
		}
		e.MatchRanges = ranges
		matched = append(matched, e)
	}
	m.filtered = matched
	m.sortFiltered()
	m.cursor = 0
	m.offset = 0
}

// sortFiltered orders by layer (current mode first, then language
// server, then global), then alphabetically within a layer.
func (m *Model) sortFiltered() {
	sort.SliceStable(m.filtered, func(i, j int) bool {
		a, b := m.filtered[i], m.filtered[j]
		if a.Layer != b.Layer {
			return a.Layer < b.Layer
		}
		return a.Name < b.Name
	})
}

// fuzzyMatch reports whether every rune of query appears in text in
// order (a subsequence match), returning the matched spans as
// maximal contiguous runs for highlighting.
func fuzzyMatch(text, query string) ([]MatchRange, bool) {
	if query == "" {
		return nil, true
	}

	var ranges []MatchRange
	qi := 0
	runStart := -1
	runes := []rune(text)
	qrunes := []rune(query)

	for i, r := range runes {
		if qi < len(qrunes) && r == qrunes[qi] {
			if runStart == -1 {
				runStart = i
			}
			qi++
			continue
		}
		if runStart != -1 {
			ranges = append(ranges, MatchRange{Start: runStart, End: i})
			runStart = -1
		}
	}
	if runStart != -1 {
		ranges = append(ranges, MatchRange{Start: runStart, End: len(runes)})
	}

	return ranges, qi == len(qrunes)
}

// GroupEntriesByLayer buckets entries by their Layer for sectioned
// rendering.
func GroupEntriesByLayer(entries []PaletteEntry) map[Layer][]PaletteEntry {
	groups := make(map[Layer][]PaletteEntry)
	for _, e := range entries {
		groups[e.Layer] = append(groups[e.Layer], e)
	}
	return groups
}
