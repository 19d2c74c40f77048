package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/sandeepkv93/calldesk/internal/views"
)

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return "\n\n" + m.renderHelpView()
}

func (m Model) renderHelpView() string {
	bindings := m.helpBindings()
	var plain []string
	for _, kb := range m.modeBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	return views.RenderHelpPanel(views.HelpPanelData{
		CurrentMode: string(m.Mode),
		Bindings:    plain,
		HelpView: m.helpModel.View(helpKeyMap{
			short: bindings,
			full:  [][]key.Binding{bindings},
		}),
	})
}

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.User, Action: "user mode"},
		{Key: m.Keys.Admin, Action: "admin mode"},
		{Key: "tab", Action: "next pane"},
		{Key: "j/k", Action: "move cursor"},
		{Key: "r", Action: "refresh"},
		{Key: m.Keys.Palette, Action: "open command palette"},
		{Key: m.Keys.Help, Action: "toggle help panel"},
		{Key: m.Keys.Quit, Action: "quit app"},
	}
}

func (m Model) modeBindings() []KeyBinding {
	if m.Mode == ModeAdmin {
		return []KeyBinding{
			{Key: "n", Action: "new tag or template task"},
			{Key: "e", Action: "edit row"},
			{Key: "d", Action: "delete row"},
		}
	}
	return []KeyBinding{
		{Key: "enter", Action: "open call / add suggested task"},
		{Key: "esc", Action: "clear selection"},
		{Key: "n", Action: "new call"},
		{Key: "e", Action: "edit call or task"},
		{Key: "t", Action: "new task on call"},
		{Key: "c", Action: "complete task"},
		{Key: "d", Action: "delete task"},
		{Key: "+/-", Action: "widen / narrow day window"},
	}
}

func (m Model) helpBindings() []key.Binding {
	out := make([]key.Binding, 0, len(m.globalBindings())+len(m.modeBindings()))
	for _, kb := range m.globalBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	for _, kb := range m.modeBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}
