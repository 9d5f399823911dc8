package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-ask/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/sercha-ask/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/sercha-ask/internal/core/domain"
)

// mockAskService implements driving.AskService for testing.
type mockAskService struct {
	answer    *domain.Answer
	err       error
	manifest  *domain.Manifest
	reloadErr error

	gotQuestion string
	gotOpts     domain.RetrieveOptions
	reloads     int
}

func (m *mockAskService) Ask(_ context.Context, q string, opts domain.RetrieveOptions) (*domain.Answer, error) {
	m.gotQuestion = q
	m.gotOpts = opts
	return m.answer, m.err
}

func (m *mockAskService) Retrieve(_ context.Context, q string, _ domain.RetrieveOptions) (*domain.Retrieval, error) {
	if m.answer == nil {
		return &domain.Retrieval{Query: q}, m.err
	}
	return m.answer.Retrieval, m.err
}

func (m *mockAskService) Stats(context.Context) (*domain.Manifest, error) {
	return m.manifest, nil
}

func (m *mockAskService) Reload(context.Context) error {
	m.reloads++
	return m.reloadErr
}

func hostelAnswer() *domain.Answer {
	return &domain.Answer{
		Query:   "What is the hostel fee?",
		Text:    "The hostel fee is 20000 rupees per semester.",
		Sources: []string{"B"},
		Retrieval: &domain.Retrieval{
			Query: "What is the hostel fee?",
			Chunks: []domain.RetrievedChunk{
				{ID: 1, Text: "Hostel fee is 20000 rupees per semester.", Source: "B", Distance: 0.1},
				{ID: 3, Text: "Hostel rooms are shared.", Source: "B", Distance: 0.6},
			},
		},
	}
}

func newReadyView(svc *mockAskService) *View {
	v := NewView(nil, nil, svc, domain.RetrieveOptions{KSearch: 10, KReturn: 3})
	v.SetDimensions(120, 40)
	return v
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

// ask types question, presses enter and feeds the answer back.
func ask(t *testing.T, v *View, question string) {
	t.Helper()
	v.SetQuestion(question)
	_, cmd := v.Update(key("enter"))
	require.NotNil(t, cmd)
	require.True(t, v.Asking())
	v.Update(v.ask(question)())
}

func TestNewView(t *testing.T) {
	v := NewView(nil, nil, nil, domain.RetrieveOptions{})

	require.NotNil(t, v)
	assert.NotNil(t, v.styles)
	assert.NotNil(t, v.keymap)
	assert.False(t, v.Ready())
	assert.True(t, v.InputFocused())
	assert.Empty(t, v.Turns())
	assert.Equal(t, "Initialising...", v.View())
	assert.NotNil(t, v.Init())
}

func TestView_WindowSize(t *testing.T) {
	v := NewView(nil, nil, nil, domain.RetrieveOptions{})

	v.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	assert.True(t, v.Ready())
	assert.Contains(t, v.View(), "Ask anything")
}

func TestView_TypingGoesToInput(t *testing.T) {
	v := newReadyView(&mockAskService{})

	v.Update(key("h"))
	v.Update(key("i"))

	assert.Equal(t, "hi", v.Question())
}

func TestView_BlankQuestionIgnored(t *testing.T) {
	svc := &mockAskService{}
	v := newReadyView(svc)
	v.SetQuestion("   ")

	_, cmd := v.Update(key("enter"))

	assert.Nil(t, cmd)
	assert.False(t, v.Asking())
	assert.Empty(t, svc.gotQuestion)
}

func TestView_Ask(t *testing.T) {
	svc := &mockAskService{answer: hostelAnswer()}
	v := newReadyView(svc)

	ask(t, v, "What is the hostel fee?")

	assert.Equal(t, "What is the hostel fee?", svc.gotQuestion)
	assert.Equal(t, domain.RetrieveOptions{KSearch: 10, KReturn: 3}, svc.gotOpts)
	assert.False(t, v.Asking())
	assert.Equal(t, status.StateAnswered, v.Status())
	require.Len(t, v.Turns(), 1)
	assert.Len(t, v.Chunks(), 2)
	assert.NoError(t, v.Err())

	view := v.View()
	assert.Contains(t, view, "What is the hostel fee?")
	assert.Contains(t, view, "20000 rupees")
	assert.Contains(t, view, "Sources: B")
}

func TestView_Ask_ShowsSpinnerWhileAsking(t *testing.T) {
	v := newReadyView(&mockAskService{answer: hostelAnswer()})
	v.SetQuestion("fees?")

	v.Update(key("enter"))

	assert.Equal(t, status.StateAsking, v.Status())
	assert.Contains(t, v.View(), "Thinking...")
}

func TestView_Ask_IgnoresEnterWhileAsking(t *testing.T) {
	v := newReadyView(&mockAskService{})
	v.SetQuestion("first")
	v.Update(key("enter"))
	v.SetQuestion("second")

	_, cmd := v.Update(key("enter"))

	assert.Nil(t, cmd)
	assert.Equal(t, "second", v.Question())
}

func TestView_Ask_NoAnswer(t *testing.T) {
	svc := &mockAskService{answer: &domain.Answer{
		Query:     "unrelated",
		Text:      domain.NoAnswer,
		Sources:   []string{},
		Retrieval: &domain.Retrieval{Query: "unrelated"},
	}}
	v := newReadyView(svc)

	ask(t, v, "unrelated")

	assert.Equal(t, status.StateAnswered, v.Status())
	assert.Empty(t, v.Chunks())
	view := v.View()
	assert.Contains(t, view, domain.NoAnswer)
	assert.NotContains(t, view, "Sources:")
}

func TestView_Ask_Error(t *testing.T) {
	svc := &mockAskService{err: domain.ErrArtifactNotFound}
	v := newReadyView(svc)

	ask(t, v, "anything")

	assert.ErrorIs(t, v.Err(), domain.ErrArtifactNotFound)
	assert.Equal(t, status.StateError, v.Status())
	require.Len(t, v.Turns(), 1)
	assert.ErrorIs(t, v.Turns()[0].Err, domain.ErrArtifactNotFound)
}

func TestView_Ask_NilService(t *testing.T) {
	v := NewView(nil, nil, nil, domain.RetrieveOptions{})

	msg := v.ask("q")()

	received, ok := msg.(messages.AnswerReceived)
	require.True(t, ok)
	assert.ErrorIs(t, received.Err, ErrNoAskService)
}

func TestView_FocusChunks(t *testing.T) {
	v := newReadyView(&mockAskService{answer: hostelAnswer()})

	v.Update(key("tab"))
	assert.True(t, v.InputFocused(), "nothing to browse yet")

	ask(t, v, "hostel?")

	v.Update(key("tab"))
	assert.False(t, v.InputFocused())
	assert.Equal(t, status.StateBrowsing, v.Status())
	assert.Contains(t, v.View(), "Chunks (2)")

	v.Update(key("j"))
	assert.Equal(t, "", v.Question(), "keys go to the list")
	assert.Equal(t, 1, v.chunks.Selected())

	v.Update(key("esc"))
	assert.True(t, v.InputFocused())
	assert.Equal(t, status.StateAnswered, v.Status())
}

func TestView_History(t *testing.T) {
	v := newReadyView(&mockAskService{answer: hostelAnswer()})
	ask(t, v, "first question")

	v.Update(key("up"))
	assert.Equal(t, "first question", v.Question())

	v.Update(key("down"))
	assert.Equal(t, "", v.Question())
}

func TestView_EscClearsInput(t *testing.T) {
	v := newReadyView(&mockAskService{})
	v.SetQuestion("draft")

	v.Update(key("esc"))

	assert.Equal(t, "", v.Question())
}

func TestView_Reload(t *testing.T) {
	manifest := &domain.Manifest{BuildID: "b2", ChunkCount: 7, EmbeddingModel: "hashing-bow"}
	svc := &mockAskService{manifest: manifest}
	v := newReadyView(svc)

	_, cmd := v.Update(key("ctrl+r"))
	require.NotNil(t, cmd)
	msg := cmd()

	reloaded, ok := msg.(messages.IndexReloaded)
	require.True(t, ok)
	assert.Equal(t, 1, svc.reloads)
	assert.Same(t, manifest, reloaded.Manifest)

	v.Update(reloaded)
	assert.Equal(t, status.StateReady, v.Status())
	view := v.View()
	assert.Contains(t, view, "Index reloaded")
	assert.Contains(t, view, "7 chunks")
}

func TestView_Reload_Error(t *testing.T) {
	svc := &mockAskService{reloadErr: errors.New("artifact corrupt")}
	v := newReadyView(svc)

	_, cmd := v.Update(key("ctrl+r"))
	v.Update(cmd())

	assert.Equal(t, status.StateError, v.Status())
	assert.EqualError(t, v.Err(), "artifact corrupt")
}

func TestView_StatsLoaded(t *testing.T) {
	v := newReadyView(&mockAskService{})

	v.Update(messages.StatsLoaded{Manifest: &domain.Manifest{ChunkCount: 1, EmbeddingModel: "m"}})

	assert.Contains(t, v.View(), "1 chunk")
}

func TestView_StatsLoaded_ErrorIgnored(t *testing.T) {
	v := newReadyView(&mockAskService{})

	v.Update(messages.StatsLoaded{Err: domain.ErrArtifactNotFound})

	assert.Equal(t, status.StateReady, v.Status())
	assert.NoError(t, v.Err())
}

func TestView_ErrorOccurred(t *testing.T) {
	v := newReadyView(&mockAskService{})

	v.Update(messages.ErrorOccurred{Err: errors.New("boom")})

	assert.Equal(t, status.StateError, v.Status())
	assert.Contains(t, v.View(), "Error: boom")
}

func TestView_SpinnerTickIgnoredWhenIdle(t *testing.T) {
	v := newReadyView(&mockAskService{})

	_, cmd := v.Update(spinner.TickMsg{})

	assert.Nil(t, cmd)
}

func TestView_WithContext(t *testing.T) {
	type ctxKey string
	ctx := context.WithValue(context.Background(), ctxKey("k"), "v")
	v := NewView(nil, nil, nil, domain.RetrieveOptions{})

	assert.Same(t, v, v.WithContext(ctx))
	assert.Equal(t, ctx, v.ctx)
}
