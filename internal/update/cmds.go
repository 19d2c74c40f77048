package update

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/calldesk/internal/model"
	"github.com/sandeepkv93/calldesk/internal/workspace"
)

var errWorkspaceMissing = errors.New("update: workspace not configured")

// run executes a blocking workflow off the event loop and reports back with
// a workspaceUpdatedMsg.
func (m *Model) run(fn func(ctx context.Context) error) tea.Cmd {
	m.Pending++
	timeout := m.opTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return workspaceUpdatedMsg{Err: fn(ctx)}
	}
}

// fire runs a workflow whose outcome is reported through notices only.
func (m *Model) fire(fn func(ctx context.Context)) tea.Cmd {
	return m.run(func(ctx context.Context) error {
		fn(ctx)
		return nil
	})
}

func (m *Model) loadCmd() tea.Cmd {
	var cmds []tea.Cmd
	if m.calls != nil {
		cmds = append(cmds, m.run(m.calls.Load))
	}
	if m.admin != nil {
		cmds = append(cmds, m.run(m.admin.Load))
	}
	return tea.Batch(cmds...)
}

func (m *Model) refreshCmd() tea.Cmd {
	if m.Mode == ModeAdmin {
		if m.admin == nil {
			return nil
		}
		return m.run(m.admin.Load)
	}
	if m.calls == nil {
		return nil
	}
	calls, selected := m.calls, m.Calls.Selected
	return m.run(func(ctx context.Context) error {
		if err := calls.Load(ctx); err != nil {
			return err
		}
		if selected != nil {
			return calls.SelectCall(ctx, selected.ID)
		}
		return nil
	})
}

func (m *Model) setDaysCmd(days int) tea.Cmd {
	calls := m.calls
	return m.run(func(ctx context.Context) error {
		return calls.SetDays(ctx, days)
	})
}

func (m *Model) selectCallCmd(id int64) tea.Cmd {
	calls := m.calls
	return m.run(func(ctx context.Context) error {
		return calls.SelectCall(ctx, id)
	})
}

func (m *Model) completeTaskCmd(task model.CallTask) tea.Cmd {
	calls := m.calls
	return m.fire(func(ctx context.Context) {
		calls.CompleteTask(ctx, task)
	})
}

func (m *Model) addSuggestionCmd(tmpl model.TemplateTask) tea.Cmd {
	calls := m.calls
	return m.fire(func(ctx context.Context) {
		calls.AddSuggestedTask(ctx, tmpl)
	})
}

func (m *Model) confirmCmd(c workspace.Confirmation) tea.Cmd {
	return m.fire(c.Confirm)
}

// submitFormCmd sends the form to the workspace that owns its entity.
func (m *Model) submitFormCmd(f *Form) tea.Cmd {
	m.Pending++
	timeout := m.opTimeout
	calls, admin := m.calls, m.admin
	name, description, tagIDs := f.Name(), f.Description(), f.TagIDs()
	status, colorID := f.Status(), f.ColorID()
	kind, formID := f.Kind, f.id
	call, task, tag, tmpl := f.call, f.task, f.tag, f.template
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		var err error
		switch {
		case (kind == FormCall || kind == FormTask) && calls == nil,
			(kind == FormTag || kind == FormTemplate) && admin == nil:
			return formSubmittedMsg{formID: formID, Err: errWorkspaceMissing}
		}
		switch kind {
		case FormCall:
			err = calls.SaveCall(ctx, call, workspace.CallInput{Name: name, Description: description, TagIDs: tagIDs})
		case FormTask:
			err = calls.SaveTask(ctx, task, workspace.TaskInput{Name: name, Status: status})
		case FormTag:
			err = admin.SaveTag(ctx, tag, name, colorID)
		case FormTemplate:
			err = admin.SaveTemplate(ctx, tmpl, name, tagIDs)
		}
		return formSubmittedMsg{formID: formID, Err: err}
	}
}

func waitForNoticeCmd(ch <-chan workspace.Notice) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return nil
		}
		return noticeMsg{Notice: n}
	}
}
