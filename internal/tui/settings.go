package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/momentum/internal/config"
	"github.com/sadopc/momentum/internal/pomodoro"
	"github.com/sadopc/momentum/internal/store"
)

type settingsModel struct {
	store  *store.Store
	timer  *pomodoro.Timer
	cfg    config.Config
	width  int
	height int

	stored     []store.Setting
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	work      *string
	brk       *string
	autoWork  *bool
	autoBreak *bool
}

func newSettingsModel(s *store.Store, t *pomodoro.Timer, cfg config.Config) settingsModel {
	w, b := "", ""
	aw, ab := false, false
	return settingsModel{
		store:     s,
		timer:     t,
		cfg:       cfg,
		work:      &w,
		brk:       &b,
		autoWork:  &aw,
		autoBreak: &ab,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	stored []store.Setting
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		stored, err := s.store.GetAllSettings()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Settings error: %v", err), isError: true}
		}
		return settingsDataMsg{stored: stored}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if data, ok := msg.(settingsDataMsg); ok {
		s.stored = data.stored
		return s, nil
	}
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Settings):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	cur := s.timer.Settings()
	*s.work = strconv.Itoa(cur.WorkMinutes)
	*s.brk = strconv.Itoa(cur.BreakMinutes)
	*s.autoWork = cur.AutoStartWork
	*s.autoBreak = cur.AutoStartBreak

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Work duration (min)").
				Value(s.work).
				Validate(minutesValidator(pomodoro.MinWorkMinutes, pomodoro.MaxWorkMinutes)),
			huh.NewInput().Title("Break duration (min)").
				Value(s.brk).
				Validate(minutesValidator(pomodoro.MinBreakMinutes, pomodoro.MaxBreakMinutes)),
			huh.NewConfirm().Title("Auto-start breaks").Value(s.autoBreak),
			huh.NewConfirm().Title("Auto-start work sessions").Value(s.autoWork),
		).Title("Pomodoro"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func minutesValidator(lo, hi int) func(string) error {
	return func(v string) error {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("enter a whole number of minutes")
		}
		if n < lo || n > hi {
			return fmt.Errorf("must be between %d and %d", lo, hi)
		}
		return nil
	}
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(msg, keys.Back) {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	switch s.form.State {
	case huh.StateCompleted:
		s.formActive = false
		s.form = nil
		return s, s.save()
	case huh.StateAborted:
		s.formActive = false
		s.form = nil
		return s, nil
	}

	return s, cmd
}

// formSettings converts the form fields into pomodoro settings.
func (s settingsModel) formSettings() (pomodoro.Settings, error) {
	work, err := strconv.Atoi(strings.TrimSpace(*s.work))
	if err != nil {
		return pomodoro.Settings{}, fmt.Errorf("work minutes: %w", err)
	}
	brk, err := strconv.Atoi(strings.TrimSpace(*s.brk))
	if err != nil {
		return pomodoro.Settings{}, fmt.Errorf("break minutes: %w", err)
	}
	return pomodoro.Settings{
		WorkMinutes:    work,
		BreakMinutes:   brk,
		AutoStartWork:  *s.autoWork,
		AutoStartBreak: *s.autoBreak,
	}, nil
}

func (s settingsModel) save() tea.Cmd {
	next, err := s.formSettings()
	if err == nil {
		err = s.timer.SaveSettings(next)
	}
	if err != nil {
		return errStatus("Settings not saved: %v", err)
	}
	return tea.Batch(
		s.refresh(),
		func() tea.Msg { return settingsSavedMsg{} },
	)
}

func (s settingsModel) view() string {
	w := s.width - 4
	title := titleStyle.Render("Settings")

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	cur := s.timer.Settings()
	notifications := "off"
	if s.timer.NotificationsOn() {
		notifications = "on"
	}

	rows := []string{
		title,
		"",
		subtitleStyle.Render("Pomodoro"),
		settingRow("Work duration", formatMinutes(cur.WorkMinutes)),
		settingRow("Break duration", formatMinutes(cur.BreakMinutes)),
		settingRow("Auto-start breaks", yesNo(cur.AutoStartBreak)),
		settingRow("Auto-start work", yesNo(cur.AutoStartWork)),
		"",
		subtitleStyle.Render("Alerts"),
		settingRow("Notifications", notifications),
		settingRow("Sound", string(s.cfg.Sound)),
		"",
		subtitleStyle.Render("Stored keys"),
	}

	if len(s.stored) == 0 {
		rows = append(rows, mutedStyle.Render("  nothing saved yet"))
	}
	for _, st := range s.stored {
		rows = append(rows, settingRow(st.Key, st.UpdatedAt.Local().Format("2006-01-02 15:04")))
	}

	rows = append(rows, "", mutedStyle.Render("Press enter to edit timer settings"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func settingRow(label, value string) string {
	l := lipgloss.NewStyle().Width(24).Render(label)
	return fmt.Sprintf("  %s %s", l, highlightStyle.Render(value))
}
