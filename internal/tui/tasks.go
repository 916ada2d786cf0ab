package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/momentum/internal/todo"
)

type tasksModel struct {
	list   *todo.List
	width  int
	height int

	cursor int
	adding bool
	input  textinput.Model

	chart barchart.Model
}

func newTasksModel(l *todo.List) tasksModel {
	ti := textinput.New()
	ti.Placeholder = "Add a new task..."
	ti.CharLimit = 200

	t := tasksModel{
		list:  l,
		input: ti,
		chart: barchart.New(24, 8),
	}
	t.buildChart()
	return t
}

func (t *tasksModel) setSize(w, h int) {
	t.width = w
	t.height = h
	t.input.Width = max(20, w-12)
	t.buildChart()
}

func (t tasksModel) update(msg tea.Msg) (tasksModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if t.adding {
			var cmd tea.Cmd
			t.input, cmd = t.input.Update(msg)
			return t, cmd
		}
		return t, nil
	}
	if t.adding {
		return t.updateInput(keyMsg)
	}

	tasks := t.list.Tasks()
	switch {
	case key.Matches(keyMsg, keys.Up):
		if t.cursor > 0 {
			t.cursor--
		}
	case key.Matches(keyMsg, keys.Down):
		if t.cursor < len(tasks)-1 {
			t.cursor++
		}
	case key.Matches(keyMsg, keys.New):
		t.adding = true
		t.input.SetValue("")
		return t, t.input.Focus()
	case key.Matches(keyMsg, keys.Check):
		if len(tasks) == 0 {
			return t, nil
		}
		if err := t.list.Toggle(tasks[t.cursor].ID); err != nil {
			return t, errStatus("Task error: %v", err)
		}
		t.buildChart()
	case key.Matches(keyMsg, keys.Delete):
		if len(tasks) == 0 {
			return t, nil
		}
		if err := t.list.Delete(tasks[t.cursor].ID); err != nil {
			return t, errStatus("Task error: %v", err)
		}
		if t.cursor >= t.list.Len() && t.cursor > 0 {
			t.cursor--
		}
		t.buildChart()
		return t, infoStatus("Task deleted")
	}
	return t, nil
}

func (t tasksModel) updateInput(msg tea.KeyMsg) (tasksModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Enter):
		t.adding = false
		t.input.Blur()
		task, err := t.list.Add(t.input.Value())
		if errors.Is(err, todo.ErrEmptyTask) {
			return t, nil
		}
		if err != nil {
			return t, errStatus("Task error: %v", err)
		}
		t.cursor = t.list.Len() - 1
		t.buildChart()
		return t, infoStatus("Added " + task.Text)
	case key.Matches(msg, keys.Back):
		t.adding = false
		t.input.Blur()
		return t, nil
	}

	var cmd tea.Cmd
	t.input, cmd = t.input.Update(msg)
	return t, cmd
}

func (t *tasksModel) buildChart() {
	open, done := t.list.Counts()

	t.chart = barchart.New(24, 8)
	t.chart.PushAll([]barchart.BarData{
		{
			Label: "open",
			Values: []barchart.BarValue{{
				Name:  "open",
				Value: float64(open),
				Style: lipgloss.NewStyle().Foreground(colorWarning),
			}},
		},
		{
			Label: "done",
			Values: []barchart.BarValue{{
				Name:  "done",
				Value: float64(done),
				Style: lipgloss.NewStyle().Foreground(colorSuccess),
			}},
		},
	})
	t.chart.Draw()
}

func (t tasksModel) view() string {
	w := t.width - 4
	open, done := t.list.Counts()

	header := fmt.Sprintf("%s  %s",
		titleStyle.Render("Tasks"),
		mutedStyle.Render(fmt.Sprintf("%d open · %d done", open, done)),
	)

	var rows []string
	rows = append(rows, header, "")

	if t.adding {
		rows = append(rows, activeInputStyle.Render(t.input.View()), "")
	}

	tasks := t.list.Tasks()
	if len(tasks) == 0 {
		rows = append(rows, mutedStyle.Render("  No tasks yet. Press n to add one."))
	}
	for i, task := range tasks {
		cursor := "  "
		style := normalItemStyle
		if i == t.cursor && !t.adding {
			cursor = "> "
			style = selectedItemStyle
		}
		box := "[ ]"
		text := task.Text
		if task.Completed {
			box = successStyle.Render("[✓]")
			text = doneItemStyle.Render(text)
		}
		rows = append(rows, style.Render(cursor)+box+" "+text)
	}

	hint := mutedStyle.Render("n: add  space: done/undo  d: delete  e: export")
	if t.adding {
		hint = mutedStyle.Render("enter: add  esc: cancel")
	}
	rows = append(rows, "", hint)

	list := strings.Join(rows, "\n")
	if w < 60 || t.list.Len() == 0 {
		return panelStyle.Width(w).Render(list)
	}

	chart := lipgloss.JoinVertical(lipgloss.Left, subtitleStyle.Render("Progress"), t.chart.View())
	listWidth := w - lipgloss.Width(chart) - 8
	return panelStyle.Width(w).Render(
		lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.NewStyle().Width(listWidth).Render(list),
			chart,
		),
	)
}
