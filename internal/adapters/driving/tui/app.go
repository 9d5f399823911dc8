package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/sercha-ask/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/sercha-ask/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/sercha-ask/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/sercha-ask/internal/adapters/driving/tui/views/chat"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// keymap holds the keybindings shared by all views.
	keymap *keymap.KeyMap

	// chatView is the question and answer view.
	chatView *chat.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		chatView:    chat.NewView(s, km, ports.Ask, ports.Options),
		currentView: messages.ViewChat,
	}, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.chatView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("sercha-ask"),
		a.chatView.Init(),
		a.loadStats(),
	)
}

// loadStats fetches the manifest of the served index for the status bar.
func (a *App) loadStats() tea.Cmd {
	ctx, svc := a.ctx, a.ports.Ask
	return func() tea.Msg {
		m, err := svc.Stats(ctx)
		return messages.StatsLoaded{Manifest: m, Err: err}
	}
}

// Update implements tea.Model.
// It handles messages and updates the model state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		keyStr := msg.String()
		if keymap.Matches(keyStr, a.keymap.Quit) {
			return a, tea.Quit
		}
		if keymap.Matches(keyStr, a.keymap.Help) {
			return a, a.toggleHelp()
		}
		if a.currentView == messages.ViewHelp {
			// Esc from help goes back to the chat
			if keymap.Matches(keyStr, a.keymap.Back) {
				return a, a.toggleHelp()
			}
			return a, nil
		}

	case messages.ViewChanged:
		a.currentView = msg.View
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	// Answers and reloads land even while help is showing.
	a.chatView, cmd = a.chatView.Update(msg)
	return a, cmd
}

// toggleHelp switches between the chat and help views.
func (a *App) toggleHelp() tea.Cmd {
	next := messages.ViewHelp
	if a.currentView == messages.ViewHelp {
		next = messages.ViewChat
	}
	return func() tea.Msg {
		return messages.ViewChanged{View: next}
	}
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	if a.currentView == messages.ViewHelp {
		return a.viewHelp()
	}
	return a.chatView.View()
}

// viewHelp renders the keybindings grouped as in the full help.
func (a *App) viewHelp() string {
	sections := []string{a.styles.Title.Render("Help"), ""}

	for _, group := range a.keymap.FullHelp() {
		for _, b := range group {
			h := b.Help()
			sections = append(sections,
				a.styles.Subtitle.Render(fmt.Sprintf("  %-8s", h.Key))+" "+a.styles.Normal.Render(h.Desc))
		}
		sections = append(sections, "")
	}

	sections = append(sections,
		a.styles.Muted.Render(strings.Join([]string{
			"Answers come only from the indexed documents.",
			"Rebuild with 'sercha-ask index', then press ctrl+r to reload.",
		}, "\n")),
		"",
		a.styles.Help.Render("[esc] back to chat"),
	)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Chat returns the chat view.
func (a *App) Chat() *chat.View {
	return a.chatView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.chatView.Err()
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.chatView.SetDimensions(width, height)
}
