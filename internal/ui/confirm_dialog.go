package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/rivedit/riv/internal/modal"
	"github.com/rivedit/riv/internal/styles"
)

// Standard dialog widths.
const (
	ModalWidthSmall  = 40
	ModalWidthMedium = 50
	ModalWidthLarge  = 70
)

// ConfirmDialog is a reusable confirmation modal with interactive buttons.
type ConfirmDialog struct {
	Title        string
	Message      string
	ConfirmLabel string         // e.g., " Confirm ", " Delete ", " Yes "
	CancelLabel  string         // e.g., " Cancel ", " No "
	BorderColor  lipgloss.Color // Modal border color
	Width        int            // Modal width (default 50)
}

// NewConfirmDialog creates a dialog with sensible defaults.
func NewConfirmDialog(title, message string) *ConfirmDialog {
	return &ConfirmDialog{
		Title:        title,
		Message:      message,
		ConfirmLabel: " Confirm ",
		CancelLabel:  " Cancel ",
		BorderColor:  styles.Primary,
		Width:        ModalWidthMedium,
	}
}

// NewQuitConfirmDialog builds the dialog riv raises when :q or ctrl+q is
// pressed against a document with unsaved changes. path is the
// document's path, or "[scratch]" for an unnamed buffer.
func NewQuitConfirmDialog(path string) *ConfirmDialog {
	d := NewConfirmDialog("Unsaved changes", "Quit without saving \""+path+"\"?")
	d.ConfirmLabel = " Discard & Quit "
	d.CancelLabel = " Stay "
	d.BorderColor = styles.Warning
	return d
}

// ToModal adapts the dialog configuration into a modal.Modal instance.
func (d *ConfirmDialog) ToModal() *modal.Modal {
	variant := modal.VariantDefault
	switch d.BorderColor {
	case styles.Error:
		variant = modal.VariantDanger
	case styles.Warning:
		variant = modal.VariantWarning
	case styles.Info:
		variant = modal.VariantInfo
	}

	return modal.New(d.Title,
		modal.WithWidth(d.Width),
		modal.WithVariant(variant),
		modal.WithPrimaryAction("confirm"),
		modal.WithHints(false),
	).
		AddSection(modal.Text(d.Message)).
		AddSection(modal.Spacer()).
		AddSection(modal.Buttons(
			modal.Btn(d.ConfirmLabel, "confirm"),
			modal.Btn(d.CancelLabel, "cancel"),
		))
}
