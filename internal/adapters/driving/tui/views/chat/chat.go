// Package chat provides the question and answer view for the TUI.
package chat

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/sercha-ask/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/sercha-ask/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/sercha-ask/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/sercha-ask/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/sercha-ask/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/sercha-ask/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/sercha-ask/internal/core/domain"
	"github.com/custodia-labs/sercha-ask/internal/core/ports/driving"
)

// Turn is one exchange in the transcript.
type Turn struct {
	Question string
	Answer   *domain.Answer
	Err      error
}

// View is the chat view: transcript, question input, chunk list and status bar.
type View struct {
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	input      *input.QuestionInput
	chunks     *list.ChunkList
	statusbar  *status.Bar
	spinner    spinner.Model
	transcript viewport.Model

	askService driving.AskService
	opts       domain.RetrieveOptions
	ctx        context.Context

	turns      []Turn
	asking     bool
	focusInput bool // true = typing a question, false = browsing chunks

	width  int
	height int
	ready  bool
	err    error
}

// NewView creates a new chat view.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	askService driving.AskService,
	opts domain.RetrieveOptions,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(s.Spinner))

	return &View{
		styles:     s,
		keymap:     km,
		input:      input.NewQuestionInput(s),
		chunks:     list.NewChunkList(s),
		statusbar:  status.NewBar(s, km),
		spinner:    sp,
		transcript: viewport.New(80, 14),
		askService: askService,
		opts:       opts,
		ctx:        context.Background(),
		width:      80,
		height:     24,
		focusInput: true,
	}
}

// WithContext sets the context used for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		v.transcript, cmd = v.transcript.Update(msg)
		return v, cmd

	case spinner.TickMsg:
		if !v.asking {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case messages.AnswerReceived:
		v.handleAnswer(msg)
		return v, nil

	case messages.StatsLoaded:
		if msg.Err == nil {
			v.statusbar.SetManifest(msg.Manifest)
		}
		return v, nil

	case messages.IndexReloaded:
		if msg.Err != nil {
			v.setError(msg.Err)
			return v, nil
		}
		v.statusbar.SetManifest(msg.Manifest)
		v.statusbar.Clear()
		v.statusbar.SetMessage("Index reloaded")
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()

	switch {
	case keymap.Matches(keyStr, v.keymap.ScrollUp), keymap.Matches(keyStr, v.keymap.ScrollDown):
		var cmd tea.Cmd
		v.transcript, cmd = v.transcript.Update(msg)
		return v, cmd
	case keymap.Matches(keyStr, v.keymap.Reload):
		return v, v.reload()
	case keymap.Matches(keyStr, v.keymap.Focus):
		v.toggleFocus()
		return v, nil
	}

	if !v.focusInput {
		return v.handleChunksKey(msg)
	}

	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyEnter:
		if v.asking {
			return v, nil
		}
		question := v.input.Submit()
		if question == "" {
			return v, nil
		}
		v.asking = true
		v.err = nil
		v.statusbar.SetState(status.StateAsking)
		return v, tea.Batch(v.spinner.Tick, v.ask(question))
	case tea.KeyEsc:
		v.input.Reset()
		return v, nil
	case tea.KeyUp:
		v.input.Prev()
		return v, nil
	case tea.KeyDown:
		v.input.Next()
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleChunksKey processes keys while browsing the chunk list.
func (v *View) handleChunksKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		v.toggleFocus()
		return v, nil
	}
	var cmd tea.Cmd
	v.chunks, cmd = v.chunks.Update(msg)
	return v, cmd
}

// toggleFocus moves focus between the input and the chunk list.
// The list only takes focus when there is something to browse.
func (v *View) toggleFocus() {
	if v.focusInput {
		if v.chunks.IsEmpty() {
			return
		}
		v.focusInput = false
		v.input.Blur()
		v.statusbar.SetState(status.StateBrowsing)
		return
	}
	v.focusInput = true
	v.input.Focus()
	if v.asking {
		v.statusbar.SetState(status.StateAsking)
	} else {
		v.statusbar.SetState(status.StateAnswered)
	}
}

// ask runs the question against the service off the update loop.
func (v *View) ask(question string) tea.Cmd {
	ctx, svc, opts := v.ctx, v.askService, v.opts
	return func() tea.Msg {
		if svc == nil {
			return messages.AnswerReceived{Question: question, Err: ErrNoAskService}
		}
		answer, err := svc.Ask(ctx, question, opts)
		return messages.AnswerReceived{Question: question, Answer: answer, Err: err}
	}
}

// reload asks the service to swap in the index on disk.
func (v *View) reload() tea.Cmd {
	ctx, svc := v.ctx, v.askService
	return func() tea.Msg {
		if svc == nil {
			return messages.IndexReloaded{Err: ErrNoAskService}
		}
		if err := svc.Reload(ctx); err != nil {
			return messages.IndexReloaded{Err: err}
		}
		m, err := svc.Stats(ctx)
		return messages.IndexReloaded{Manifest: m, Err: err}
	}
}

// handleAnswer records the turn and refreshes the transcript and chunk list.
func (v *View) handleAnswer(msg messages.AnswerReceived) {
	v.asking = false
	v.turns = append(v.turns, Turn{Question: msg.Question, Answer: msg.Answer, Err: msg.Err})

	if msg.Err != nil {
		v.setError(msg.Err)
	} else {
		v.err = nil
		v.statusbar.SetState(status.StateAnswered)
		v.statusbar.SetSourceCount(len(msg.Answer.Sources))
		if msg.Answer.Retrieval != nil {
			v.chunks.SetChunks(msg.Answer.Retrieval.Chunks)
		} else {
			v.chunks.SetChunks(nil)
		}
	}

	v.refreshTranscript()
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

// refreshTranscript re-renders every turn into the viewport and scrolls to the end.
func (v *View) refreshTranscript() {
	width := max(v.transcript.Width-2, 20)
	blocks := make([]string, 0, len(v.turns))
	for i := range v.turns {
		blocks = append(blocks, v.renderTurn(&v.turns[i], width))
	}
	v.transcript.SetContent(strings.Join(blocks, "\n\n"))
	v.transcript.GotoBottom()
}

// renderTurn formats one question with its answer or error.
func (v *View) renderTurn(turn *Turn, width int) string {
	lines := []string{v.styles.Question.Width(width).Render("? " + turn.Question)}

	switch {
	case turn.Err != nil:
		lines = append(lines, v.styles.Error.PaddingLeft(2).Width(width).Render(turn.Err.Error()))
	case turn.Answer == nil:
	case !turn.Answer.Answered():
		lines = append(lines, v.styles.Warning.PaddingLeft(2).Width(width).Render(turn.Answer.Text))
	default:
		lines = append(lines,
			v.styles.Answer.Width(width).Render(turn.Answer.Text),
			v.styles.Source.Width(width).Render("Sources: "+strings.Join(turn.Answer.Sources, ", ")),
		)
	}

	return strings.Join(lines, "\n")
}

// View renders the chat view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 8)
	sections = append(sections, v.styles.Title.Render("Sercha Ask"), "")

	if len(v.turns) == 0 {
		sections = append(sections, v.styles.Muted.Render("Ask anything about the indexed documents."))
	} else {
		sections = append(sections, v.transcript.View())
	}
	sections = append(sections, "")

	if v.focusInput {
		if v.asking {
			sections = append(sections, v.spinner.View()+v.styles.Muted.Render(" Thinking..."))
		} else {
			sections = append(sections, v.input.View())
		}
	} else {
		sections = append(sections, v.chunks.View())
	}

	sections = append(sections, "", v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions and lays out the components.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	// Title, input and status take about eight lines.
	body := max(height-8, 3)

	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)
	v.chunks.SetDimensions(width, body)
	v.transcript.Width = width
	v.transcript.Height = body
	v.refreshTranscript()
}

// SetManifest shows the served index in the status bar.
func (v *View) SetManifest(m *domain.Manifest) {
	v.statusbar.SetManifest(m)
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Asking returns whether a question is in flight.
func (v *View) Asking() bool {
	return v.asking
}

// Turns returns the transcript, oldest first.
func (v *View) Turns() []Turn {
	return v.turns
}

// Chunks returns the chunks behind the last answer.
func (v *View) Chunks() []domain.RetrievedChunk {
	return v.chunks.Chunks()
}

// Question returns the text currently in the input.
func (v *View) Question() string {
	return v.input.Value()
}

// SetQuestion sets the text in the input.
func (v *View) SetQuestion(q string) {
	v.input.SetValue(q)
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}

// Status returns the status bar state.
func (v *View) Status() status.State {
	return v.statusbar.State()
}

// Err returns the last error, if any.
func (v *View) Err() error {
	return v.err
}
