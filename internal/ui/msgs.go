package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// ToastLevel selects the status bar treatment for a transient message.
type ToastLevel int

const (
	ToastInfo ToastLevel = iota
	ToastError
)

// Toast is a transient status bar message.
type Toast struct {
	Level ToastLevel
	Text  string
}

// ToastMsg asks the root model to show a toast. Views emit it for
// failures (rejected edits, fetch errors) and short confirmations.
type ToastMsg Toast

// ToastExpiredMsg clears a toast after its display period.
type ToastExpiredMsg struct {
	ID int
}

// ShowToast returns a command that emits a ToastMsg.
func ShowToast(level ToastLevel, text string) tea.Cmd {
	return func() tea.Msg {
		return ToastMsg{Level: level, Text: text}
	}
}

// ExpireToast returns a command that clears the identified toast after the
// given duration. The ID lets the root model ignore expirations of toasts
// that were already replaced.
func ExpireToast(id int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return ToastExpiredMsg{ID: id}
	})
}
