package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/momentum/internal/pomodoro"
)

type pomodoroModel struct {
	timer  *pomodoro.Timer
	sched  *pomodoro.Schedule
	width  int
	height int

	bar progress.Model
}

func newPomodoroModel(t *pomodoro.Timer) pomodoroModel {
	return pomodoroModel{
		timer: t,
		sched: &pomodoro.Schedule{},
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}
}

func (p *pomodoroModel) setSize(w, h int) {
	p.width = w
	p.height = h
	p.bar.Width = max(10, min(40, w-12))
}

// schedule re-arms the countdown callback if the watched (state, timeLeft)
// pair moved. Older callbacks still in flight become stale.
func (p pomodoroModel) schedule() tea.Cmd {
	gen, arm := p.sched.Observe(p.timer)
	if !arm {
		return nil
	}
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return pomodoroTickMsg{gen: gen}
	})
}

func (p pomodoroModel) toggle() (pomodoroModel, tea.Cmd) {
	p.timer.ToggleStartPause()
	return p, p.schedule()
}

func (p pomodoroModel) update(msg tea.Msg) (pomodoroModel, tea.Cmd) {
	switch msg := msg.(type) {
	case pomodoroTickMsg:
		if !p.sched.Current(msg.gen) {
			return p, nil
		}
		tr := p.timer.Tick()
		cmd := p.schedule()
		if tr != nil {
			t := *tr
			return p, tea.Batch(cmd, func() tea.Msg {
				return pomodoroPhaseMsg{transition: t}
			})
		}
		return p, cmd

	case settingsSavedMsg:
		return p, p.schedule()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Toggle):
			return p.toggle()
		case key.Matches(msg, keys.Reset):
			p.timer.Reset()
			return p, tea.Batch(p.schedule(), infoStatus("Pomodoro reset"))
		case key.Matches(msg, keys.Settings):
			return p, func() tea.Msg { return openSettingsMsg{} }
		}
	}
	return p, nil
}

func (p pomodoroModel) view() string {
	w := p.width - 4

	title := titleStyle.Render(p.timer.Label())

	clock := pomodoro.FormatClock(p.timer.TimeLeft())
	var timeDisplay, indicator string
	switch p.timer.State() {
	case pomodoro.StateWork:
		timeDisplay = accentStyle.Bold(true).Width(w - 6).Align(lipgloss.Center).Render(clock)
		indicator = accentStyle.Render("●  WORKING")
	case pomodoro.StateBreak:
		timeDisplay = successStyle.Bold(true).Width(w - 6).Align(lipgloss.Center).Render(clock)
		indicator = successStyle.Render("●  ON BREAK")
	default:
		timeDisplay = timerStyle.Width(w - 6).Render(clock)
		indicator = mutedStyle.Render("■  STOPPED")
	}

	s := p.timer.Settings()
	summary := mutedStyle.Render(
		formatMinutes(s.WorkMinutes) + " work · " + formatMinutes(s.BreakMinutes) + " break",
	)

	startLabel := "start"
	if p.timer.Running() {
		startLabel = "pause"
	}
	controls := mutedStyle.Render("space: " + startLabel + "  r: reset  ,: settings")

	content := lipgloss.JoinVertical(lipgloss.Center,
		title,
		"",
		timeDisplay,
		indicator,
		"",
		p.bar.ViewAs(p.timer.Progress()),
		"",
		summary,
	)

	style := panelStyle
	if p.timer.Running() {
		style = activePanelStyle
	}
	return style.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Center, content, "", controls),
	)
}
