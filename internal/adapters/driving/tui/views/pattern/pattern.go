// Package pattern provides an interactive pattern tester for one document.
package pattern

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/sercha-extract/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/sercha-extract/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/sercha-extract/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/sercha-extract/internal/core/domain"
	"github.com/custodia-labs/sercha-extract/internal/core/ports/driving"
)

// View evaluates a pattern against the content of one document.
// Nothing is stored.
type View struct {
	styles     *styles.Styles
	keys       *keymap.KeyMap
	extraction driving.ExtractionService

	pattern  textinput.Model
	group    textinput.Model
	dataType int
	document *domain.Document
	result   *domain.PatternTest
	err      error
}

// NewView creates a new pattern tester view.
func NewView(s *styles.Styles, keys *keymap.KeyMap, extraction driving.ExtractionService) *View {
	p := textinput.New()
	p.Placeholder = `Tutar:\s*([\d.,]+)`
	p.CharLimit = 512
	p.Width = 50
	p.Focus()

	g := textinput.New()
	g.Placeholder = "1"
	g.CharLimit = 3
	g.Width = 4
	g.SetValue(strconv.Itoa(domain.DefaultExtractionGroup))

	return &View{
		styles:     s,
		keys:       keys,
		extraction: extraction,
		pattern:    p,
		group:      g,
		dataType:   indexOf(domain.DataTypeString),
	}
}

// SetDocument selects the document the pattern is tested against.
func (v *View) SetDocument(doc domain.Document) tea.Cmd {
	v.document = &doc
	v.result = nil
	v.err = nil
	v.group.Blur()
	return v.pattern.Focus()
}

// DataType returns the type the raw match is coerced to.
func (v *View) DataType() domain.DataType {
	return domain.AllDataTypes()[v.dataType]
}

func indexOf(t domain.DataType) int {
	for i, dt := range domain.AllDataTypes() {
		if dt == t {
			return i
		}
	}
	return 0
}

func (v *View) test() tea.Cmd {
	if v.document == nil || v.extraction == nil {
		return nil
	}
	group, err := strconv.Atoi(strings.TrimSpace(v.group.Value()))
	if err != nil || group < 1 {
		v.err = domain.ErrInvalidGroup
		v.result = nil
		return nil
	}
	v.err = nil

	svc := v.extraction
	content, pattern, dataType := v.document.Content, v.pattern.Value(), v.DataType()
	return func() tea.Msg {
		return messages.PatternTested{Result: svc.TestPattern(content, pattern, group, dataType)}
	}
}

// Update handles messages for the pattern view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.PatternTested:
		result := msg.Result
		v.result = &result
		return v, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keys.Back):
			return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewDocuments} }
		case key.Matches(msg, v.keys.Select):
			return v, v.test()
		case key.Matches(msg, v.keys.NextType):
			v.dataType = (v.dataType + 1) % len(domain.AllDataTypes())
			return v, nil
		case key.Matches(msg, v.keys.Focus):
			if v.pattern.Focused() {
				v.pattern.Blur()
				return v, v.group.Focus()
			}
			v.group.Blur()
			return v, v.pattern.Focus()
		}
	}

	var cmd tea.Cmd
	if v.pattern.Focused() {
		v.pattern, cmd = v.pattern.Update(msg)
	} else {
		v.group, cmd = v.group.Update(msg)
	}
	return v, cmd
}

// View renders the pattern tester.
func (v *View) View() string {
	var b strings.Builder

	title := "Test pattern"
	if v.document != nil {
		title += " - " + v.document.ID
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n\n")

	//nolint:misspell // lipgloss.Center is the correct constant from the library
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center,
		v.styles.Subtitle.Render("Pattern "), v.styles.InputField.Render(v.pattern.View()),
		v.styles.Subtitle.Render("  Group "), v.styles.InputField.Render(v.group.View()),
	))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Type: %s\n\n", v.styles.FieldName.Render(v.DataType().String())))

	switch {
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case v.result == nil:
		b.WriteString(v.styles.Muted.Render("Press enter to test."))
	case !v.result.Matched:
		b.WriteString(v.styles.Muted.Render("· no match"))
	default:
		b.WriteString(v.styles.Success.Render("✓ match"))
		b.WriteString(fmt.Sprintf("\n  Raw:   %q\n", v.result.Raw))
		if v.result.Value == nil {
			b.WriteString(v.styles.Warning.Render(fmt.Sprintf("  Value: null (not a valid %s)", v.DataType())))
		} else {
			b.WriteString(fmt.Sprintf("  Value: %s (%s)", v.result.Value.String(), v.result.Value.Kind))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render(keymap.Render(v.keys.Select, v.keys.Focus, v.keys.NextType, v.keys.Back)))
	return b.String()
}

// Result returns the last test result, or nil.
func (v *View) Result() *domain.PatternTest {
	return v.result
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
