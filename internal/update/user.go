package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/calldesk/internal/model"
)

func (m Model) handleUserKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.calls == nil {
		return m, nil
	}
	switch msg.String() {
	case "enter":
		switch m.Pane {
		case PaneCalls:
			if call, ok := m.currentCall(); ok {
				m.Status = StatusBar{Text: fmt.Sprintf("opening call #%d", call.ID)}
				return m, m.selectCallCmd(call.ID)
			}
		case PaneSuggestions:
			if tmpl, ok := m.currentSuggestion(); ok {
				return m, m.addSuggestionCmd(tmpl)
			}
		}
	case "esc":
		if m.Calls.Selected != nil {
			m.calls.Deselect()
			m.syncSnapshots()
			m.Pane = PaneCalls
			m.Status = StatusBar{Text: "selection cleared"}
		}
	case "n":
		m.openForm(newCallForm(nil, m.Calls.Tags))
	case "e":
		if m.Pane == PaneTasks {
			if task, ok := m.currentTask(); ok {
				m.openForm(newTaskForm(&task))
				return m, nil
			}
		}
		if m.Calls.Selected == nil {
			m.Status = StatusBar{Text: "select a call first", IsError: true}
			return m, nil
		}
		m.openForm(newCallForm(m.Calls.Selected, m.Calls.Tags))
	case "t":
		if m.Calls.Selected == nil {
			m.Status = StatusBar{Text: "select a call first", IsError: true}
			return m, nil
		}
		m.openForm(newTaskForm(nil))
	case "c":
		if m.Pane != PaneTasks {
			return m, nil
		}
		if task, ok := m.currentTask(); ok {
			return m, m.completeTaskCmd(task)
		}
	case "d":
		if m.Pane != PaneTasks {
			return m, nil
		}
		if task, ok := m.currentTask(); ok {
			c := m.calls.DeleteTask(task)
			m.Confirm = &c
		}
	case "+", "=":
		return m.shiftDays(1)
	case "-":
		return m.shiftDays(-1)
	}
	return m, nil
}

func (m Model) shiftDays(delta int) (tea.Model, tea.Cmd) {
	days := model.ClampDays(m.Calls.Days + delta)
	if days == m.Calls.Days {
		m.Status = StatusBar{Text: fmt.Sprintf("window must be %d-%d days", model.MinDays, model.MaxDays), IsError: true}
		return m, nil
	}
	m.Status = StatusBar{Text: fmt.Sprintf("showing calls from the last %d days", days)}
	return m, m.setDaysCmd(days)
}

func (m Model) currentCall() (model.Call, bool) {
	i := m.Cursors[PaneCalls]
	if i < 0 || i >= len(m.Calls.Calls) {
		return model.Call{}, false
	}
	return m.Calls.Calls[i], true
}

func (m Model) currentTask() (model.CallTask, bool) {
	i := m.Cursors[PaneTasks]
	if i < 0 || i >= len(m.Calls.Tasks) {
		return model.CallTask{}, false
	}
	return m.Calls.Tasks[i], true
}

func (m Model) currentSuggestion() (model.TemplateTask, bool) {
	i := m.Cursors[PaneSuggestions]
	if i < 0 || i >= len(m.Calls.Suggestions) {
		return model.TemplateTask{}, false
	}
	return m.Calls.Suggestions[i], true
}
