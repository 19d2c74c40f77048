package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/calldesk/internal/commands"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closePalette()
		m.Status = StatusBar{Text: "command palette closed"}
		return m, nil
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	default:
		if msg.Type == tea.KeyRunes {
			m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
			m.Palette.Input = m.commandInput.Value()
			return m, nil
		}
		m.commandInput, _ = m.commandInput.Update(msg)
		m.Palette.Input = m.commandInput.Value()
	}
	return m, nil
}

func (m *Model) closePalette() {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
}

func (m Model) executePaletteCommand() (Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	m.closePalette()
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	var next tea.Cmd
	needCalls := func() error {
		if m.calls == nil {
			return &commands.CommandError{Code: commands.ErrCodeHandlerMissing, Message: "call workspace not configured"}
		}
		return nil
	}
	res, err := commands.Execute(cmd, commands.Handlers{
		Days: func(a commands.DaysArgs) (commands.Result, error) {
			if err := needCalls(); err != nil {
				return commands.Result{}, err
			}
			m.switchMode(ModeUser)
			next = m.setDaysCmd(a.Days)
			return commands.Result{Message: fmt.Sprintf("showing calls from the last %d days", a.Days)}, nil
		},
		Open: func(a commands.OpenArgs) (commands.Result, error) {
			if err := needCalls(); err != nil {
				return commands.Result{}, err
			}
			m.switchMode(ModeUser)
			next = m.selectCallCmd(a.CallID)
			return commands.Result{Message: fmt.Sprintf("opening call #%d", a.CallID)}, nil
		},
		New: func(a commands.NewArgs) (commands.Result, error) {
			switch a.Entity {
			case commands.EntityCall:
				m.switchMode(ModeUser)
				m.openForm(newCallForm(nil, m.Calls.Tags))
			case commands.EntityTask:
				if m.Calls.Selected == nil {
					return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "select a call before adding a task"}
				}
				m.switchMode(ModeUser)
				m.openForm(newTaskForm(nil))
			case commands.EntityTag:
				m.switchMode(ModeAdmin)
				m.Pane = PaneTags
				m.openForm(newTagForm(nil))
			case commands.EntityTemplate:
				m.switchMode(ModeAdmin)
				m.Pane = PaneTemplates
				m.openForm(newTemplateForm(nil, m.AdminData.Tags))
			}
			return commands.Result{Message: fmt.Sprintf("new %s", a.Entity)}, nil
		},
		Refresh: func() (commands.Result, error) {
			next = m.refreshCmd()
			return commands.Result{Message: "refreshing"}, nil
		},
		View: func(a commands.ViewArgs) (commands.Result, error) {
			m.switchMode(Mode(a.Mode))
			return commands.Result{Message: fmt.Sprintf("%s mode", a.Mode)}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.notify("Command Failed", err.Error(), "error")
		return m, nil
	}
	m.Status = StatusBar{Text: res.Message}
	m.notify("Command", res.Message, "info")
	return m, next
}
