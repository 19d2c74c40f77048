package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/calldesk/internal/views"
	"github.com/sandeepkv93/calldesk/internal/workspace"
)

type loadMsg struct{}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return loadMsg{} },
		waitForNoticeCmd(m.notices),
		m.syncSpinner.Tick,
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(typed)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.syncSpinner, cmd = m.syncSpinner.Update(typed)
		return m, cmd
	case loadMsg:
		cmd := m.loadCmd()
		return m, cmd
	case workspaceUpdatedMsg:
		m.finishPending()
		m.syncSnapshots()
		if typed.Err != nil {
			m.LastError = typed.Err
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			m.notify("Error", typed.Err.Error(), "error")
		}
		return m, nil
	case formSubmittedMsg:
		m.finishPending()
		m.syncSnapshots()
		// A form closed before its result landed must not touch its successor.
		if m.Form == nil || m.Form.id != typed.formID {
			if typed.Err != nil {
				m.LastError = typed.Err
			}
			return m, nil
		}
		if typed.Err != nil {
			m.LastError = typed.Err
			m.Form.failed(typed.Err)
			return m, nil
		}
		m.Form = nil
		return m, nil
	case noticeMsg:
		n := typed.Notice
		m.Status = StatusBar{Text: n.Text, IsError: n.Kind == workspace.KindError}
		m.notify("calldesk", n.Text, string(n.Kind))
		return m, waitForNoticeCmd(m.notices)
	case SwitchModeMsg:
		if typed.Mode == ModeUser || typed.Mode == ModeAdmin {
			m.switchMode(typed.Mode)
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		m.notify("Status", typed.Text, string(statusKind(typed.IsError)))
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			m.notify("Error", typed.Err.Error(), "error")
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) finishPending() {
	if m.Pending > 0 {
		m.Pending--
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()
	if keyStr == "ctrl+c" {
		m.Quitting = true
		return m, tea.Quit
	}
	if m.Confirm != nil {
		return m.handleConfirmKey(msg)
	}
	if m.Form != nil {
		return m.handleFormKey(msg)
	}
	if m.Palette.Active {
		if keyStr == m.Keys.Help {
			m.HelpVisible = !m.HelpVisible
			return m, nil
		}
		return m.handlePaletteKey(msg)
	}

	switch keyStr {
	case m.Keys.Palette:
		m.Palette.Active = true
		m.Palette.Input = ""
		m.commandInput.Focus()
		m.commandInput.SetValue("")
		m.Status = StatusBar{Text: "command palette active"}
		return m, nil
	case m.Keys.User:
		m.switchMode(ModeUser)
		return m, nil
	case m.Keys.Admin:
		m.switchMode(ModeAdmin)
		return m, nil
	case m.Keys.Help:
		m.HelpVisible = !m.HelpVisible
		if m.HelpVisible {
			m.Status = StatusBar{Text: "help shown"}
		} else {
			m.Status = StatusBar{Text: "help hidden"}
		}
		return m, nil
	case m.Keys.Quit:
		m.Quitting = true
		return m, tea.Quit
	case "tab":
		m.cyclePane(1)
		return m, nil
	case "shift+tab":
		m.cyclePane(-1)
		return m, nil
	case "j", "down":
		m.moveCursor(1)
		return m, nil
	case "k", "up":
		m.moveCursor(-1)
		return m, nil
	case "r":
		m.Status = StatusBar{Text: "refreshing"}
		return m, m.refreshCmd()
	}

	if m.Mode == ModeAdmin {
		return m.handleAdminKey(msg)
	}
	return m.handleUserKey(msg)
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		c := *m.Confirm
		m.Confirm = nil
		return m, m.confirmCmd(c)
	case "n", "esc":
		m.Confirm = nil
		m.Status = StatusBar{Text: "cancelled"}
	}
	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.Form.handleKey(msg) {
	case formCancel:
		m.Form = nil
		m.Status = StatusBar{Text: "form closed"}
	case formSubmit:
		if m.Form.Submitting || !m.Form.validate() {
			return m, nil
		}
		m.Form.Submitting = true
		return m, m.submitFormCmd(m.Form)
	}
	return m, nil
}

func (m *Model) openForm(f *Form) {
	m.formSeq++
	f.id = m.formSeq
	m.Form = f
	m.Status = StatusBar{Text: strings.ToLower(f.Title())}
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	header := fmt.Sprintf("calldesk | mode: %s | pane: %s", m.Mode, m.Pane)
	if m.Mode == ModeUser && m.Calls.Selected != nil {
		header += fmt.Sprintf(" | call: #%d", m.Calls.Selected.ID)
	}
	if m.Pending > 0 {
		header += " | " + m.syncSpinner.View() + " working"
	}

	var leftPane, rightPane string
	if m.Mode == ModeAdmin {
		leftPane = m.renderTagsView()
		rightPane = m.renderTemplatesView()
	} else {
		leftPane = m.renderCallsView()
		rightPane = strings.Join([]string{
			m.renderCallDetailView(),
			m.renderTasksView(),
			m.renderSuggestionsView(),
		}, "\n\n")
	}
	rightPane += m.renderHelpIfVisible()

	return views.RenderApp(views.AppData{
		Header:       header,
		LeftPane:     leftPane,
		RightPane:    rightPane,
		Overlay:      m.renderOverlay(),
		StatusLine:   status,
		StatusError:  m.Status.IsError,
		Notification: m.renderNotificationsView(),
		Footer: fmt.Sprintf("keys: %s user | %s admin | tab pane | %s cmd | %s help | %s quit",
			m.Keys.User, m.Keys.Admin, m.Keys.Palette, m.Keys.Help, m.Keys.Quit),
	})
}
