package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/momentum/internal/pomodoro"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewPomodoro
	viewTasks
	viewSettings
)

var viewNames = []string{"Dashboard", "Pomodoro", "Tasks", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

// pomodoroTickMsg is one armed countdown callback; gen ties it to the
// schedule generation it was armed for.
type pomodoroTickMsg struct {
	gen int
}

type pomodoroPhaseMsg struct {
	transition pomodoro.Transition
}

type openSettingsMsg struct{}

type settingsSavedMsg struct{}

type focusSavedMsg struct {
	focus string
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

// greeting picks the salutation for the hour of day.
func greeting(hour int) string {
	switch {
	case hour < 12:
		return "Good morning"
	case hour < 18:
		return "Good afternoon"
	}
	return "Good evening"
}

func formatClock(t time.Time) string {
	return t.Format("03:04 PM")
}

func errStatus(format string, err error) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: fmt.Sprintf(format, err), isError: true}
	}
}

func infoStatus(text string) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text}
	}
}

func formatMinutes(n int) string {
	return fmt.Sprintf("%d min", n)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
