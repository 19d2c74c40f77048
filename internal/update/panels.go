package update

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/sandeepkv93/calldesk/internal/model"
	"github.com/sandeepkv93/calldesk/internal/views"
)

const timeLayout = "2006-01-02 15:04"

func tagChip(tag model.Tag) views.TagChip {
	return views.TagChip{Name: tag.Name, Hex: model.TagColorHex(tag.ColorID)}
}

func tagChips(tags []model.Tag) []views.TagChip {
	out := make([]views.TagChip, 0, len(tags))
	for _, tag := range tags {
		out = append(out, tagChip(tag))
	}
	return out
}

func formatTime(ts model.Timestamp) string {
	if ts.IsZero() {
		return ""
	}
	return ts.Local().Format(timeLayout)
}

func (m Model) renderCallsView() string {
	rows := make([]views.CallRowData, 0, len(m.Calls.Calls))
	for _, call := range m.Calls.Calls {
		rows = append(rows, views.CallRowData{
			ID:       call.ID,
			Name:     call.Name,
			Created:  formatTime(call.CreatedAt),
			Tags:     tagChips(call.Tags),
			Selected: m.Calls.Selected != nil && m.Calls.Selected.ID == call.ID,
		})
	}
	return views.RenderCallsPanel(views.CallsPanelData{
		Days:    m.Calls.Days,
		Rows:    rows,
		Cursor:  m.Cursors[PaneCalls],
		Focused: m.Pane == PaneCalls,
	})
}

func (m Model) renderCallDetailView() string {
	sel := m.Calls.Selected
	if sel == nil {
		return views.RenderCallDetail(nil)
	}
	data := &views.CallDetailData{
		Name:    sel.Name,
		Created: formatTime(sel.CreatedAt),
		Tags:    tagChips(sel.Tags),
	}
	if !sel.UpdatedAt.Equal(sel.CreatedAt.Time) {
		data.Updated = formatTime(sel.UpdatedAt)
	}
	if sel.DescriptionText() != "" {
		data.Description = m.detailView.View()
	}
	return views.RenderCallDetail(data)
}

// syncDetailView re-renders the description markdown when the selected call
// or its description changed.
func (m *Model) syncDetailView() {
	sel := m.Calls.Selected
	source := ""
	if sel != nil {
		source = sel.DescriptionText()
	}
	if source == m.detailSource {
		return
	}
	m.detailSource = source
	content := views.RenderMarkdown(source)
	m.detailView.SetContent(content)
	m.detailView.Height = min(max(lipgloss.Height(content), 1), 12)
	m.detailView.GotoTop()
}

func (m Model) renderTasksView() string {
	if m.Calls.Selected == nil {
		return ""
	}
	rows := make([]views.TaskRowData, 0, len(m.Calls.Tasks))
	for _, task := range m.Calls.Tasks {
		kind := "ad-hoc"
		if task.Type == model.TaskTypeTemplate {
			kind = "template"
		}
		rows = append(rows, views.TaskRowData{Name: task.Name, Kind: kind, Status: task.Status.Label()})
	}
	return views.RenderTasksPanel(views.TasksPanelData{
		Rows:    rows,
		Cursor:  m.Cursors[PaneTasks],
		Focused: m.Pane == PaneTasks,
	})
}

func (m Model) renderSuggestionsView() string {
	if m.Calls.Selected == nil {
		return ""
	}
	rows := make([]views.SuggestionRowData, 0, len(m.Calls.Suggestions))
	for _, tmpl := range m.Calls.Suggestions {
		rows = append(rows, views.SuggestionRowData{Name: tmpl.Name, Tags: tagChips(tmpl.Tags)})
	}
	return views.RenderSuggestionsPanel(views.SuggestionsPanelData{
		Rows:    rows,
		Cursor:  m.Cursors[PaneSuggestions],
		Focused: m.Pane == PaneSuggestions,
	})
}

func (m Model) renderTagsView() string {
	rows := make([]views.TagRowData, 0, len(m.AdminData.Tags))
	for _, tag := range m.AdminData.Tags {
		color := tag.Color()
		rows = append(rows, views.TagRowData{Name: tag.Name, Color: views.TagChip{Name: color.Name, Hex: color.Hex}})
	}
	return views.RenderTagsPanel(views.TagsPanelData{
		Rows:    rows,
		Cursor:  m.Cursors[PaneTags],
		Focused: m.Pane == PaneTags,
	})
}

func (m Model) renderTemplatesView() string {
	rows := make([]views.TemplateRowData, 0, len(m.AdminData.Templates))
	for _, tmpl := range m.AdminData.Templates {
		rows = append(rows, views.TemplateRowData{Name: tmpl.Name, Tags: tagChips(tmpl.Tags)})
	}
	return views.RenderTemplatesPanel(views.TemplatesPanelData{
		Rows:    rows,
		Cursor:  m.Cursors[PaneTemplates],
		Focused: m.Pane == PaneTemplates,
	})
}

func (m Model) renderOverlay() string {
	switch {
	case m.Confirm != nil:
		return views.RenderConfirm(views.ConfirmData{Title: m.Confirm.Title, Message: m.Confirm.Message})
	case m.Form != nil:
		return m.Form.view()
	case m.Palette.Active:
		return views.RenderCommandPalette(true, m.commandInput.View())
	default:
		return ""
	}
}

func (m Model) renderNotificationsView() string {
	if len(m.Notifications) == 0 {
		return ""
	}
	n := m.Notifications[len(m.Notifications)-1]
	return views.RenderNotification(n.Level, n.Body)
}

func (m *Model) notify(title, body, level string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	n := Notification{
		Title: title,
		Body:  body,
		Level: level,
		At:    time.Now().UTC(),
	}
	m.Notifications = append(m.Notifications, n)
	if len(m.Notifications) > notificationHistory {
		m.Notifications = m.Notifications[len(m.Notifications)-notificationHistory:]
	}
	if m.DesktopEnabled && m.notifier != nil {
		if err := m.notifier.Send(n); err != nil {
			m.logger.Warn("desktop notification failed", "error", err)
		}
	}
}
