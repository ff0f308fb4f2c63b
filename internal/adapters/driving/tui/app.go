package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/sercha-extract/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/sercha-extract/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/sercha-extract/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/sercha-extract/internal/adapters/driving/tui/views/documents"
	"github.com/custodia-labs/sercha-extract/internal/adapters/driving/tui/views/pattern"
	"github.com/custodia-labs/sercha-extract/internal/adapters/driving/tui/views/values"
)

// App is the main TUI application following the Elm architecture.
type App struct {
	ports *Ports
	keys  *keymap.KeyMap

	documentsView *documents.View
	valuesView    *values.View
	patternView   *pattern.View

	currentView messages.ViewType

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	keys := keymap.DefaultKeyMap()

	return &App{
		ports:         ports,
		keys:          keys,
		documentsView: documents.NewView(s, keys, ports.Document),
		valuesView:    values.NewView(s, keys, ports.Extraction),
		patternView:   pattern.NewView(s, keys, ports.Extraction),
		currentView:   messages.ViewDocuments,
	}, nil
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("sercha-extract"),
		a.documentsView.Load(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// q quits everywhere except where it can be typed.
		if key.Matches(msg, a.keys.Quit) && (msg.Type == tea.KeyCtrlC || a.currentView != messages.ViewPattern) {
			return a, tea.Quit
		}
		return a, a.forward(msg)

	case messages.ViewChanged:
		a.currentView = msg.View
		if msg.View == messages.ViewDocuments {
			return a, a.documentsView.Load()
		}
		return a, nil

	case messages.DocumentSelected:
		a.currentView = messages.ViewValues
		return a, a.valuesView.SetDocument(msg.Document)

	case messages.PatternRequested:
		a.currentView = messages.ViewPattern
		return a, a.patternView.SetDocument(msg.Document)

	case messages.DocumentsLoaded:
		a.documentsView, cmd = a.documentsView.Update(msg)
		return a, cmd

	case messages.ValuesLoaded, messages.ExtractionCompleted:
		a.valuesView, cmd = a.valuesView.Update(msg)
		return a, cmd

	case messages.PatternTested:
		a.patternView, cmd = a.patternView.Update(msg)
		return a, cmd
	}

	return a, a.forward(msg)
}

// forward passes msg to the active view.
func (a *App) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewDocuments:
		a.documentsView, cmd = a.documentsView.Update(msg)
	case messages.ViewValues:
		a.valuesView, cmd = a.valuesView.Update(msg)
	case messages.ViewPattern:
		a.patternView, cmd = a.patternView.Update(msg)
	}
	return cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewValues:
		return a.valuesView.View()
	case messages.ViewPattern:
		return a.patternView.View()
	default:
		return a.documentsView.View()
	}
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Ready returns whether the app has received its dimensions.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.documentsView.SetDimensions(width, height)
}
