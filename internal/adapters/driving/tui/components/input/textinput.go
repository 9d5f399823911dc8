// Package input provides the question input component for the TUI.
package input

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/sercha-ask/internal/adapters/driving/tui/styles"
)

// MaxQuestionLength bounds a single question in characters.
const MaxQuestionLength = 1000

// QuestionInput wraps a bubbles textinput and remembers asked questions.
type QuestionInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	width     int

	// history holds submitted questions, oldest first.
	history []string
	// cursor indexes history while recalling; len(history) means the live line.
	cursor int
}

// NewQuestionInput creates a new question input component.
func NewQuestionInput(s *styles.Styles) *QuestionInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = "Ask a question..."
	ti.Focus()
	ti.CharLimit = MaxQuestionLength
	ti.Width = 50

	return &QuestionInput{
		textinput: ti,
		styles:    s,
		width:     50,
	}
}

// Init initialises the question input.
func (q *QuestionInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (q *QuestionInput) Update(msg tea.Msg) (*QuestionInput, tea.Cmd) {
	var cmd tea.Cmd
	q.textinput, cmd = q.textinput.Update(msg)
	return q, cmd
}

// View renders the question input.
func (q *QuestionInput) View() string {
	label := q.styles.Title.Render("Ask: ")
	input := q.styles.InputField.Render(q.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, label, input)
}

// Submit returns the trimmed question, records it in history and clears the line.
// A blank line returns "" and leaves history untouched.
func (q *QuestionInput) Submit() string {
	question := strings.TrimSpace(q.textinput.Value())
	if question == "" {
		return ""
	}
	if n := len(q.history); n == 0 || q.history[n-1] != question {
		q.history = append(q.history, question)
	}
	q.cursor = len(q.history)
	q.textinput.Reset()
	return question
}

// Prev recalls the previous question from history.
func (q *QuestionInput) Prev() {
	if q.cursor == 0 {
		return
	}
	q.cursor--
	q.textinput.SetValue(q.history[q.cursor])
	q.textinput.CursorEnd()
}

// Next moves forward through history, ending on an empty line.
func (q *QuestionInput) Next() {
	if q.cursor >= len(q.history) {
		return
	}
	q.cursor++
	if q.cursor == len(q.history) {
		q.textinput.Reset()
		return
	}
	q.textinput.SetValue(q.history[q.cursor])
	q.textinput.CursorEnd()
}

// History returns the submitted questions, oldest first.
func (q *QuestionInput) History() []string {
	return q.history
}

// Value returns the current input value.
func (q *QuestionInput) Value() string {
	return q.textinput.Value()
}

// SetValue sets the input value.
func (q *QuestionInput) SetValue(value string) {
	q.textinput.SetValue(value)
}

// Focus sets focus on the input.
func (q *QuestionInput) Focus() tea.Cmd {
	return q.textinput.Focus()
}

// Blur removes focus from the input.
func (q *QuestionInput) Blur() {
	q.textinput.Blur()
}

// Focused returns whether the input is focused.
func (q *QuestionInput) Focused() bool {
	return q.textinput.Focused()
}

// SetWidth sets the width of the input.
func (q *QuestionInput) SetWidth(width int) {
	q.width = width
	// Account for label and padding
	inputWidth := width - 10
	if inputWidth < 20 {
		inputWidth = 20
	}
	q.textinput.Width = inputWidth
}

// Width returns the current width.
func (q *QuestionInput) Width() int {
	return q.width
}

// Reset clears the input.
func (q *QuestionInput) Reset() {
	q.textinput.Reset()
	q.cursor = len(q.history)
}
