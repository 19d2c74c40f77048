package update

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/calldesk/internal/model"
	"github.com/sandeepkv93/calldesk/internal/views"
)

type FormKind string

const (
	FormCall     FormKind = "call"
	FormTask     FormKind = "task"
	FormTag      FormKind = "tag"
	FormTemplate FormKind = "template"
)

type formField int

const (
	fieldName formField = iota
	fieldDescription
	fieldTags
	fieldStatus
	fieldColor
)

const nameRequiredText = "Name is required"

// Form edits one entity. The editing pointers are nil for create forms.
type Form struct {
	id         uint64
	Kind       FormKind
	Err        string
	Submitting bool

	fields      []formField
	focus       int
	name        textinput.Model
	description textarea.Model
	tagOptions  []model.Tag
	tagCursor   int
	selected    map[int64]bool
	status      model.TaskStatus
	colorID     int

	call     *model.CallDetail
	task     *model.CallTask
	tag      *model.Tag
	template *model.TemplateTask
}

func newForm(kind FormKind, fields ...formField) *Form {
	f := &Form{
		Kind:     kind,
		fields:   fields,
		selected: make(map[int64]bool),
		status:   model.TaskStatusOpen,
		colorID:  model.ColorGray,
	}
	f.name = textinput.New()
	f.name.Prompt = "> "
	f.name.CharLimit = 200
	f.name.Width = 48
	f.name.Placeholder = "Name"
	f.name.Focus()
	return f
}

func newCallForm(editing *model.CallDetail, catalog []model.Tag) *Form {
	f := newForm(FormCall, fieldName, fieldDescription, fieldTags)
	f.description = textarea.New()
	f.description.SetWidth(54)
	f.description.SetHeight(4)
	f.description.ShowLineNumbers = false
	f.description.Placeholder = "Description (markdown)"
	f.tagOptions = catalog
	if editing != nil {
		detail := *editing
		f.call = &detail
		f.setName(detail.Name)
		f.description.SetValue(detail.DescriptionText())
		f.tagOptions = model.UniqueTags(append(append([]model.Tag(nil), catalog...), detail.Tags...))
		for _, id := range detail.TagIDs() {
			f.selected[id] = true
		}
	}
	return f
}

func newTaskForm(editing *model.CallTask) *Form {
	f := newForm(FormTask, fieldName, fieldStatus)
	if editing != nil {
		task := *editing
		f.task = &task
		f.setName(task.Name)
		if task.Status.IsValid() {
			f.status = task.Status
		}
	}
	return f
}

func newTagForm(editing *model.Tag) *Form {
	f := newForm(FormTag, fieldName, fieldColor)
	if editing != nil {
		tag := *editing
		f.tag = &tag
		f.setName(tag.Name)
		f.colorID = model.TagColorFor(tag.ColorID).ID
	}
	return f
}

func newTemplateForm(editing *model.TemplateTask, catalog []model.Tag) *Form {
	f := newForm(FormTemplate, fieldName, fieldTags)
	f.tagOptions = catalog
	if editing != nil {
		tmpl := *editing
		f.template = &tmpl
		f.setName(tmpl.Name)
		f.tagOptions = model.UniqueTags(append(append([]model.Tag(nil), catalog...), tmpl.Tags...))
		for _, id := range tmpl.TagIDs() {
			f.selected[id] = true
		}
	}
	return f
}

func (f *Form) setName(name string) {
	f.name.SetValue(name)
	f.name.CursorEnd()
}

func (f *Form) Name() string {
	return strings.TrimSpace(f.name.Value())
}

func (f *Form) Description() string {
	if f.Kind != FormCall {
		return ""
	}
	return f.description.Value()
}

func (f *Form) Status() model.TaskStatus { return f.status }

func (f *Form) ColorID() int { return f.colorID }

// TagIDs returns the selected tags in option order.
func (f *Form) TagIDs() []int64 {
	ids := make([]int64, 0, len(f.selected))
	for _, tag := range f.tagOptions {
		if f.selected[tag.ID] {
			ids = append(ids, tag.ID)
		}
	}
	return ids
}

func (f *Form) Editing() bool {
	return f.call != nil || f.task != nil || f.tag != nil || f.template != nil
}

func (f *Form) Title() string {
	verb := "New"
	if f.Editing() {
		verb = "Edit"
	}
	switch f.Kind {
	case FormCall:
		return verb + " Call"
	case FormTask:
		return verb + " Task"
	case FormTag:
		return verb + " Tag"
	default:
		return verb + " Template Task"
	}
}

func (f *Form) current() formField {
	return f.fields[f.focus]
}

func (f *Form) moveFocus(delta int) {
	f.focus = (f.focus + delta + len(f.fields)) % len(f.fields)
	f.name.Blur()
	if f.Kind == FormCall {
		f.description.Blur()
	}
	switch f.current() {
	case fieldName:
		f.name.Focus()
	case fieldDescription:
		f.description.Focus()
	}
}

// validate reports whether the form may be submitted and records the inline
// error otherwise.
func (f *Form) validate() bool {
	if err := model.ValidateName(f.name.Value()); err != nil {
		f.Err = nameRequiredText
		return false
	}
	f.Err = ""
	return true
}

type formAction int

const (
	formNone formAction = iota
	formSubmit
	formCancel
)

func (f *Form) handleKey(msg tea.KeyMsg) formAction {
	switch msg.String() {
	case "esc":
		return formCancel
	case "ctrl+s":
		return formSubmit
	case "tab":
		f.moveFocus(1)
		return formNone
	case "shift+tab":
		f.moveFocus(-1)
		return formNone
	}

	switch f.current() {
	case fieldName:
		f.name, _ = f.name.Update(msg)
	case fieldDescription:
		f.description, _ = f.description.Update(msg)
	case fieldTags:
		f.handleTagKey(msg)
	case fieldStatus:
		f.handleStatusKey(msg)
	case fieldColor:
		switch msg.String() {
		case "left", "h":
			f.colorID = model.NextColorID(f.colorID, -1)
		case "right", "l", " ":
			f.colorID = model.NextColorID(f.colorID, 1)
		}
	}
	return formNone
}

func (f *Form) handleTagKey(msg tea.KeyMsg) {
	if len(f.tagOptions) == 0 {
		return
	}
	switch msg.String() {
	case "up", "k":
		f.tagCursor = (f.tagCursor - 1 + len(f.tagOptions)) % len(f.tagOptions)
	case "down", "j":
		f.tagCursor = (f.tagCursor + 1) % len(f.tagOptions)
	case " ", "x", "enter":
		id := f.tagOptions[f.tagCursor].ID
		if f.selected[id] {
			delete(f.selected, id)
		} else {
			f.selected[id] = true
		}
	}
}

func (f *Form) handleStatusKey(msg tea.KeyMsg) {
	statuses := model.TaskStatuses()
	idx := 0
	for i, s := range statuses {
		if s == f.status {
			idx = i
		}
	}
	switch msg.String() {
	case "left", "h":
		idx = (idx - 1 + len(statuses)) % len(statuses)
	case "right", "l", " ":
		idx = (idx + 1) % len(statuses)
	default:
		return
	}
	f.status = statuses[idx]
}

func (f *Form) failed(err error) {
	f.Submitting = false
	if errors.Is(err, model.ErrNameRequired) {
		f.Err = nameRequiredText
		return
	}
	f.Err = err.Error()
}

func (f *Form) view() string {
	data := views.FormData{
		Title:      f.Title(),
		Error:      f.Err,
		Submitting: f.Submitting,
	}
	for i, field := range f.fields {
		fd := views.FormFieldData{Focused: i == f.focus}
		switch field {
		case fieldName:
			fd.Label, fd.View = "Name", f.name.View()
		case fieldDescription:
			fd.Label, fd.View = "Description", f.description.View()
		case fieldTags:
			fd.Label, fd.View = "Tags", f.tagsView(fd.Focused)
		case fieldStatus:
			fd.Label, fd.View = "Status", fmt.Sprintf("< %s >", f.status.Label())
		case fieldColor:
			color := model.TagColorFor(f.colorID)
			fd.Label, fd.View = "Color", "< "+views.RenderTagChip(views.TagChip{Name: color.Name, Hex: color.Hex})+" >"
		}
		data.Fields = append(data.Fields, fd)
	}
	return views.RenderForm(data)
}

func (f *Form) tagsView(focused bool) string {
	if len(f.tagOptions) == 0 {
		return "(no tags defined)"
	}
	lines := make([]string, 0, len(f.tagOptions))
	for i, tag := range f.tagOptions {
		cursor := " "
		if focused && i == f.tagCursor {
			cursor = ">"
		}
		check := "[ ]"
		if f.selected[tag.ID] {
			check = "[x]"
		}
		lines = append(lines, fmt.Sprintf("%s %s %s", cursor, check, views.RenderTagChip(tagChip(tag))))
	}
	return strings.Join(lines, "\n")
}
