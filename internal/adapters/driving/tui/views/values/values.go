// Package values provides the field values view for one document.
package values

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/sercha-extract/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/sercha-extract/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/sercha-extract/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/sercha-extract/internal/core/domain"
	"github.com/custodia-labs/sercha-extract/internal/core/ports/driving"
)

// View shows stored values and, after a run, the per-field outcomes.
type View struct {
	styles     *styles.Styles
	keys       *keymap.KeyMap
	extraction driving.ExtractionService

	document *domain.Document
	values   map[string]domain.Value
	report   *domain.ExtractionReport
	loading  bool
	err      error
}

// NewView creates a new values view.
func NewView(s *styles.Styles, keys *keymap.KeyMap, extraction driving.ExtractionService) *View {
	return &View{
		styles:     s,
		keys:       keys,
		extraction: extraction,
	}
}

// SetDocument switches to doc and loads its values.
func (v *View) SetDocument(doc domain.Document) tea.Cmd {
	v.document = &doc
	v.values = nil
	v.report = nil
	v.err = nil
	return v.load()
}

func (v *View) load() tea.Cmd {
	if v.document == nil {
		return nil
	}
	v.loading = true
	svc, id := v.extraction, v.document.ID
	return func() tea.Msg {
		if svc == nil {
			return messages.ValuesLoaded{DocumentID: id, Err: errors.New("extraction service not available")}
		}
		values, err := svc.Values(context.Background(), id)
		return messages.ValuesLoaded{DocumentID: id, Values: values, Err: err}
	}
}

func (v *View) extract() tea.Cmd {
	if v.document == nil || v.extraction == nil {
		return nil
	}
	v.loading = true
	svc, doc := v.extraction, *v.document
	return func() tea.Msg {
		return messages.ExtractionCompleted{Report: svc.Run(context.Background(), &doc)}
	}
}

// Update handles messages for the values view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.ValuesLoaded:
		if v.document == nil || msg.DocumentID != v.document.ID {
			return v, nil
		}
		v.loading = false
		v.err = msg.Err
		v.values = msg.Values
		return v, nil

	case messages.ExtractionCompleted:
		if v.document == nil || msg.Report.DocumentID != v.document.ID {
			return v, nil
		}
		v.loading = false
		v.err = nil
		report := msg.Report
		v.report = &report
		return v, v.load()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keys.Back):
			return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewDocuments} }
		case key.Matches(msg, v.keys.Extract):
			return v, v.extract()
		case key.Matches(msg, v.keys.Pattern):
			if v.document != nil {
				d := *v.document
				return v, func() tea.Msg { return messages.PatternRequested{Document: d} }
			}
		}
	}
	return v, nil
}

// View renders the values view.
func (v *View) View() string {
	var b strings.Builder

	title := "Values"
	if v.document != nil {
		name := v.document.Title
		if name == "" {
			name = v.document.ID
		}
		title = "Values - " + name
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n\n")

	switch {
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n")
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading..."))
		b.WriteString("\n")
	case len(v.values) == 0:
		b.WriteString(v.styles.Muted.Render("No field values stored."))
		b.WriteString("\n")
	default:
		names := make([]string, 0, len(v.values))
		for name := range v.values {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			val := v.values[name]
			b.WriteString(fmt.Sprintf("  %s  %s %s\n",
				v.styles.FieldName.Render(name), val.String(), v.styles.Muted.Render("("+string(val.Kind)+")")))
		}
	}

	if v.report != nil {
		b.WriteString("\n")
		b.WriteString(v.styles.Subtitle.Render("Last run"))
		b.WriteString("\n")
		if len(v.report.Results) == 0 {
			b.WriteString(v.styles.Muted.Render("  No fields have extraction enabled."))
			b.WriteString("\n")
		}
		for _, res := range v.report.Results {
			line := fmt.Sprintf("  %s %s", v.styles.Outcome(res.Outcome), res.Field)
			switch {
			case res.Value != nil:
				line += " = " + res.Value.String()
			case res.Err != "":
				line += ": " + res.Err
			default:
				line += " (" + string(res.Outcome) + ")"
			}
			b.WriteString(line + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render(keymap.Render(v.keys.Extract, v.keys.Pattern, v.keys.Back)))
	return b.String()
}

// Values returns the loaded values.
func (v *View) Values() map[string]domain.Value {
	return v.values
}

// Report returns the last extraction report, or nil.
func (v *View) Report() *domain.ExtractionReport {
	return v.report
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
