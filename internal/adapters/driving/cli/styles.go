package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/sercha-extract/internal/core/domain"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	skipStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	headerStyle  = lipgloss.NewStyle().Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// outcomeMark renders a one-character mark for an extraction outcome.
func outcomeMark(outcome domain.FieldOutcome) string {
	switch outcome {
	case domain.OutcomeCreated, domain.OutcomeUpdated:
		return successStyle.Render("✓")
	case domain.OutcomeError:
		return failureStyle.Render("✗")
	default:
		return skipStyle.Render("·")
	}
}

// matchMark renders the pattern test verdict.
func matchMark(matched bool) string {
	if matched {
		return successStyle.Render("✓ match")
	}
	return skipStyle.Render("· no match")
}
