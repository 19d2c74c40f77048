package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

type CallRowData struct {
	ID       int64
	Name     string
	Created  string
	Tags     []TagChip
	Selected bool
}

type CallsPanelData struct {
	Days    int
	Rows    []CallRowData
	Cursor  int
	Focused bool
}

type CallDetailData struct {
	Name        string
	Created     string
	Updated     string
	Tags        []TagChip
	Description string
}

type TaskRowData struct {
	Name   string
	Kind   string
	Status string
}

type TasksPanelData struct {
	Rows    []TaskRowData
	Cursor  int
	Focused bool
}

type SuggestionRowData struct {
	Name string
	Tags []TagChip
}

type SuggestionsPanelData struct {
	Rows    []SuggestionRowData
	Cursor  int
	Focused bool
}

type TagRowData struct {
	Name  string
	Color TagChip
}

type TagsPanelData struct {
	Rows    []TagRowData
	Cursor  int
	Focused bool
}

type TemplateRowData struct {
	Name string
	Tags []TagChip
}

type TemplatesPanelData struct {
	Rows    []TemplateRowData
	Cursor  int
	Focused bool
}

type FormFieldData struct {
	Label   string
	View    string
	Focused bool
}

type FormData struct {
	Title      string
	Fields     []FormFieldData
	Error      string
	Submitting bool
}

type ConfirmData struct {
	Title   string
	Message string
}

type HelpPanelData struct {
	CurrentMode string
	Bindings    []string
	HelpView    string
}

var selectedRowStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))

func RenderCallsPanel(data CallsPanelData) string {
	var b strings.Builder
	b.WriteString(paneTitle("calls", data.Focused) + "\n")
	b.WriteString(fmt.Sprintf("last %d days  [+/-] window\n", data.Days))
	if len(data.Rows) == 0 {
		b.WriteString("(no calls in this window)")
		return b.String()
	}
	for i, row := range data.Rows {
		marker := " "
		if row.Selected {
			marker = "*"
		}
		b.WriteString(fmt.Sprintf("%s%s #%d %s  %s\n", cursorMark(i == data.Cursor && data.Focused), marker, row.ID, row.Name, mutedStyle.Render(row.Created)))
		if len(row.Tags) > 0 {
			b.WriteString("    " + RenderTagChips(row.Tags) + "\n")
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderCallDetail(data *CallDetailData) string {
	if data == nil {
		return "call:\n(select a call with [enter], or [n] to create one)"
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("call: %s\n", data.Name))
	b.WriteString(fmt.Sprintf("created: %s", data.Created))
	if data.Updated != "" {
		b.WriteString(fmt.Sprintf(" | updated: %s", data.Updated))
	}
	b.WriteString("\ntags: " + RenderTagChips(data.Tags) + "\n")
	if strings.TrimSpace(data.Description) != "" {
		b.WriteString("\n" + data.Description + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderTasksPanel(data TasksPanelData) string {
	var b strings.Builder
	b.WriteString(paneTitle("tasks", data.Focused) + "\n")
	b.WriteString("actions: [t]new [e]edit [c]complete [d]delete\n")
	if len(data.Rows) == 0 {
		b.WriteString("(no tasks)")
		return b.String()
	}
	rows := make([][]string, 0, len(data.Rows))
	for _, row := range data.Rows {
		rows = append(rows, []string{row.Name, row.Kind, row.Status})
	}
	b.WriteString(renderTable([]string{"Task", "Kind", "Status"}, rows, data.Cursor, data.Focused))
	return b.String()
}

func RenderSuggestionsPanel(data SuggestionsPanelData) string {
	var b strings.Builder
	b.WriteString(paneTitle("suggested tasks", data.Focused) + "\n")
	if len(data.Rows) == 0 {
		b.WriteString("(no suggestions)")
		return b.String()
	}
	b.WriteString("actions: [enter]add to call\n")
	for i, row := range data.Rows {
		b.WriteString(fmt.Sprintf("%s %s %s\n", cursorMark(i == data.Cursor && data.Focused), row.Name, RenderTagChips(row.Tags)))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderTagsPanel(data TagsPanelData) string {
	var b strings.Builder
	b.WriteString(paneTitle("tags", data.Focused) + "\n")
	b.WriteString("actions: [n]new [e]edit [d]delete\n")
	if len(data.Rows) == 0 {
		b.WriteString("(no tags)")
		return b.String()
	}
	rows := make([][]string, 0, len(data.Rows))
	for _, row := range data.Rows {
		rows = append(rows, []string{row.Name, RenderTagChip(row.Color)})
	}
	b.WriteString(renderTable([]string{"Tag", "Color"}, rows, data.Cursor, data.Focused))
	return b.String()
}

func RenderTemplatesPanel(data TemplatesPanelData) string {
	var b strings.Builder
	b.WriteString(paneTitle("template tasks", data.Focused) + "\n")
	b.WriteString("actions: [n]new [e]edit [d]delete\n")
	if len(data.Rows) == 0 {
		b.WriteString("(no template tasks)")
		return b.String()
	}
	rows := make([][]string, 0, len(data.Rows))
	for _, row := range data.Rows {
		rows = append(rows, []string{row.Name, RenderTagChips(row.Tags)})
	}
	b.WriteString(renderTable([]string{"Task", "Tags"}, rows, data.Cursor, data.Focused))
	return b.String()
}

func RenderForm(data FormData) string {
	var b strings.Builder
	b.WriteString(data.Title + "\n")
	b.WriteString("keys: [tab]field [ctrl+s]save [esc]cancel\n")
	for _, field := range data.Fields {
		label := field.Label + ":"
		if field.Focused {
			label = focusStyle.Render(label)
		}
		b.WriteString(label + "\n" + field.View + "\n")
	}
	if data.Error != "" {
		b.WriteString(errorStyle.Render("error: "+data.Error) + "\n")
	}
	if data.Submitting {
		b.WriteString("saving...\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderConfirm(data ConfirmData) string {
	return fmt.Sprintf("%s\n%s\n[y]es / [n]o", data.Title, data.Message)
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: %s", input)
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("notification: [%s] %s", strings.ToUpper(level), body)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help (%s mode):\n%s\n%s",
		strings.ToLower(data.CurrentMode),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}

func renderTable(headers []string, rows [][]string, cursor int, focused bool) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if focused && row == cursor {
				return selectedRowStyle
			}
			return lipgloss.NewStyle()
		})
	return t.Render()
}
