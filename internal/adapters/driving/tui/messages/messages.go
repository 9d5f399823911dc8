// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/sercha-ask/internal/core/domain"
)

// AnswerReceived carries the result of asking a question.
type AnswerReceived struct {
	Question string
	Answer   *domain.Answer
	Err      error
}

// StatsLoaded carries the manifest of the served index.
type StatsLoaded struct {
	Manifest *domain.Manifest
	Err      error
}

// IndexReloaded signals the served index was swapped for the one on disk.
type IndexReloaded struct {
	Manifest *domain.Manifest
	Err      error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewChat is the question and answer transcript.
	ViewChat ViewType = iota
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewChat:
		return "chat"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
