// Token classification and Highlight->style resolution for the render
// pass: owns the concrete chroma.TokenType -> highlight.Highlight table
// and the reverse highlight.Highlight -> lipgloss.Style table, since
// internal/highlight stays lexer- and theme-agnostic.
package app

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/charmbracelet/lipgloss"
	"github.com/rivedit/riv/internal/document"
	"github.com/rivedit/riv/internal/highlight"
	"github.com/rivedit/riv/internal/styles"
)

// Highlight ids. Values below hlFirstSyntax are reserved for overlays
// (cursor, selection, diagnostics, virtual text); syntax token classes
// start at hlFirstSyntax so DiagnosticsOverlay/CursorOverlay ids never
// collide with classifyToken's output.
const (
	hlNone highlight.Highlight = iota
	hlCursor
	hlSelection
	hlDiagnosticError
	hlDiagnosticWarning
	hlDiagnosticInfo
	hlDiagnosticHint
	hlVirtualText
	hlFirstSyntax
)

const (
	hlKeyword highlight.Highlight = hlFirstSyntax + iota
	hlString
	hlComment
	hlNumber
	hlFunction
	hlType
	hlOperator
	hlVariable
)

// classifyToken maps a chroma token type to riv's small highlight
// palette.
func classifyToken(t chroma.TokenType) highlight.Highlight {
	switch {
	case t.InCategory(chroma.Keyword):
		return hlKeyword
	case t.InCategory(chroma.Literal) && t.InSubCategory(chroma.LiteralString):
		return hlString
	case t.InCategory(chroma.LiteralString):
		return hlString
	case t.InCategory(chroma.Comment):
		return hlComment
	case t.InCategory(chroma.LiteralNumber):
		return hlNumber
	case t.InCategory(chroma.NameFunction):
		return hlFunction
	case t.InCategory(chroma.NameClass) || t.InCategory(chroma.NameBuiltin) || t.InCategory(chroma.KeywordType):
		return hlType
	case t.InCategory(chroma.Operator):
		return hlOperator
	case t.InCategory(chroma.Name):
		return hlVariable
	default:
		return hlNone
	}
}

var syntaxEngine = highlight.NewSyntaxEngine(classifyToken)

// severityHighlight maps a diagnostic severity to its overlay id, used
// as DiagnosticsOverlay.Theme.
func severityHighlight(sev document.Severity) highlight.Highlight {
	switch sev {
	case document.SeverityError:
		return hlDiagnosticError
	case document.SeverityWarning:
		return hlDiagnosticWarning
	case document.SeverityInfo:
		return hlDiagnosticInfo
	case document.SeverityHint:
		return hlDiagnosticHint
	default:
		return hlNone
	}
}

// styleFor resolves a Highlight id to a lipgloss style against the
// currently-applied theme palette (internal/styles is theme.Apply's
// target, so these colors track the active theme).
func styleFor(h highlight.Highlight) lipgloss.Style {
	switch h {
	case hlCursor:
		return lipgloss.NewStyle().Foreground(styles.BgPrimary).Background(styles.TextPrimary)
	case hlSelection:
		return lipgloss.NewStyle().Background(styles.BgTertiary)
	case hlDiagnosticError:
		return lipgloss.NewStyle().Foreground(styles.Error).Underline(true)
	case hlDiagnosticWarning:
		return lipgloss.NewStyle().Foreground(styles.Warning).Underline(true)
	case hlDiagnosticInfo:
		return lipgloss.NewStyle().Foreground(styles.Info).Underline(true)
	case hlDiagnosticHint:
		return lipgloss.NewStyle().Foreground(styles.TextMuted).Underline(true)
	case hlVirtualText:
		return lipgloss.NewStyle().Foreground(styles.TextSubtle).Italic(true)
	case hlKeyword:
		return lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	case hlString:
		return lipgloss.NewStyle().Foreground(styles.Success)
	case hlComment:
		return lipgloss.NewStyle().Foreground(styles.TextMuted).Italic(true)
	case hlNumber:
		return lipgloss.NewStyle().Foreground(styles.Accent)
	case hlFunction:
		return lipgloss.NewStyle().Foreground(styles.Secondary)
	case hlType:
		return lipgloss.NewStyle().Foreground(styles.Info).Bold(true)
	case hlOperator:
		return lipgloss.NewStyle().Foreground(styles.TextHighlight)
	case hlVariable:
		return lipgloss.NewStyle().Foreground(styles.TextPrimary)
	default:
		return lipgloss.NewStyle().Foreground(styles.TextPrimary)
	}
}
