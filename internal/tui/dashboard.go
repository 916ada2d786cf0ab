package tui

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/momentum/internal/store"
)

// focusKey stores the user's main focus for the day.
const focusKey = "focus"

type dashboardModel struct {
	store  *store.Store
	width  int
	height int

	now   time.Time
	name  string
	quote string

	focus   string
	editing bool
	input   textinput.Model
}

func newDashboardModel(s *store.Store, name, quote string) dashboardModel {
	ti := textinput.New()
	ti.Placeholder = "Enter your focus..."
	ti.CharLimit = 120
	ti.Prompt = ""

	return dashboardModel{
		store: s,
		now:   time.Now(),
		name:  name,
		quote: quote,
		input: ti,
	}
}

func (d dashboardModel) Init() tea.Cmd {
	return d.loadFocus()
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
	d.input.Width = max(20, min(60, w-10))
}

func (d dashboardModel) loadFocus() tea.Cmd {
	return func() tea.Msg {
		v, err := d.store.GetSetting(focusKey)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return statusMsg{text: "Could not load focus: " + err.Error(), isError: true}
		}
		return focusSavedMsg{focus: v}
	}
}

func (d dashboardModel) saveFocus(focus string) tea.Cmd {
	return func() tea.Msg {
		if err := d.store.SetSetting(focusKey, focus); err != nil {
			return statusMsg{text: "Could not save focus: " + err.Error(), isError: true}
		}
		return focusSavedMsg{focus: focus}
	}
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		d.now = time.Time(msg)
		return d, nil

	case focusSavedMsg:
		d.focus = msg.focus
		return d, nil

	case tea.KeyMsg:
		if d.editing {
			return d.updateInput(msg)
		}
		if key.Matches(msg, keys.Focus) {
			d.editing = true
			d.input.SetValue(d.focus)
			d.input.CursorEnd()
			return d, d.input.Focus()
		}
	}
	return d, nil
}

func (d dashboardModel) updateInput(msg tea.KeyMsg) (dashboardModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Enter):
		d.editing = false
		d.input.Blur()
		return d, d.saveFocus(strings.TrimSpace(d.input.Value()))
	case key.Matches(msg, keys.Back):
		d.editing = false
		d.input.Blur()
		return d, nil
	}

	var cmd tea.Cmd
	d.input, cmd = d.input.Update(msg)
	return d, cmd
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}
	w := d.width - 4

	clock := clockStyle.Width(w).Render(formatClock(d.now))
	hello := greetingStyle.Width(w).Render(greeting(d.now.Hour()) + ", " + d.name)

	var focusBlock string
	switch {
	case d.editing:
		focusBlock = lipgloss.JoinVertical(lipgloss.Center,
			subtitleStyle.Render("What is your main focus for today?"),
			focusInputStyle.Render(d.input.View()),
			mutedStyle.Render("enter: save  esc: cancel"),
		)
	case d.focus != "":
		focusBlock = lipgloss.JoinVertical(lipgloss.Center,
			subtitleStyle.Render("TODAY"),
			titleStyle.Render(d.focus),
			mutedStyle.Render("f: change focus"),
		)
	default:
		focusBlock = lipgloss.JoinVertical(lipgloss.Center,
			subtitleStyle.Render("What is your main focus for today?"),
			mutedStyle.Render("Press f to set your focus"),
		)
	}

	center := lipgloss.JoinVertical(lipgloss.Center,
		clock,
		hello,
		"",
		"",
		focusBlock,
	)

	quote := quoteStyle.Width(w).Render("“" + d.quote + "”")

	bodyHeight := d.height - lipgloss.Height(quote) - 1
	if bodyHeight < lipgloss.Height(center) {
		bodyHeight = lipgloss.Height(center)
	}
	body := lipgloss.Place(d.width, bodyHeight, lipgloss.Center, lipgloss.Center, center)

	return lipgloss.JoinVertical(lipgloss.Center, body, quote)
}
