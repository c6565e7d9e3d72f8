// Package bubbletea provides the Bubble Tea chat TUI for uniquest.
package bubbletea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/uniquest/uniquest"
)

// Run creates and runs the Bubble Tea TUI program. It blocks until the program
// exits. When ctx is cancelled the program quits.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}

// TurnSettledMsg carries the assistant message that settled a chat turn.
type TurnSettledMsg struct {
	Message uniquest.AssistantMessage
}

// UploadDoneMsg reports the outcome of an /upload command.
type UploadDoneMsg struct {
	Status  uniquest.Status
	Message string
}

// DocumentsMsg carries the result of a /docs command.
type DocumentsMsg struct {
	Documents []uniquest.Document
	Err       error
}
