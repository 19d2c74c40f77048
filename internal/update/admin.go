package update

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/calldesk/internal/model"
)

func (m Model) handleAdminKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.admin == nil {
		return m, nil
	}
	switch msg.String() {
	case "n":
		if m.Pane == PaneTags {
			m.openForm(newTagForm(nil))
		} else {
			m.openForm(newTemplateForm(nil, m.AdminData.Tags))
		}
	case "e":
		if m.Pane == PaneTags {
			if tag, ok := m.currentTag(); ok {
				m.openForm(newTagForm(&tag))
			}
		} else if tmpl, ok := m.currentTemplate(); ok {
			m.openForm(newTemplateForm(&tmpl, m.AdminData.Tags))
		}
	case "d":
		if m.Pane == PaneTags {
			if tag, ok := m.currentTag(); ok {
				c := m.admin.DeleteTag(tag)
				m.Confirm = &c
			}
		} else if tmpl, ok := m.currentTemplate(); ok {
			c := m.admin.DeleteTemplate(tmpl)
			m.Confirm = &c
		}
	}
	return m, nil
}

func (m Model) currentTag() (model.Tag, bool) {
	i := m.Cursors[PaneTags]
	if i < 0 || i >= len(m.AdminData.Tags) {
		return model.Tag{}, false
	}
	return m.AdminData.Tags[i], true
}

func (m Model) currentTemplate() (model.TemplateTask, bool) {
	i := m.Cursors[PaneTemplates]
	if i < 0 || i >= len(m.AdminData.Templates) {
		return model.TemplateTask{}, false
	}
	return m.AdminData.Templates[i], true
}
