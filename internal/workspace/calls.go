// Package workspace holds the controllers behind the user and admin screens.
// They own all in-memory entity state and keep it consistent with the server
// by refetching after every mutation.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/sandeepkv93/calldesk/internal/model"
	"github.com/sandeepkv93/calldesk/internal/suggest"
	"golang.org/x/sync/errgroup"
)

// CallAPI is the part of the remote API the call workspace uses.
type CallAPI interface {
	suggest.Source
	taskRemover

	ListCalls(ctx context.Context, days int) ([]model.Call, error)
	GetCall(ctx context.Context, id int64) (model.CallDetail, error)
	CreateCall(ctx context.Context, name string, description *string, tagIDs []int64) (model.CallDetail, error)
	UpdateCall(ctx context.Context, id int64, name string, description *string, tagIDs []int64) (model.CallDetail, error)
	ListCallTasks(ctx context.Context, callID int64) ([]model.CallTask, error)
	CreateAdHocTask(ctx context.Context, callID int64, name string, status model.TaskStatus) (model.Task, error)
	UpdateCallTask(ctx context.Context, id, callID int64, name string, status model.TaskStatus) (model.CallTask, error)
	LinkTemplateTask(ctx context.Context, templateID, callID int64) (model.CallTask, error)
	ListTags(ctx context.Context) ([]model.Tag, error)
}

type CallState struct {
	Days        int
	Calls       []model.Call
	Selected    *model.CallDetail
	Tasks       []model.CallTask
	Suggestions []model.TemplateTask
	Tags        []model.Tag
}

// CallInput is what the call form submits.
type CallInput struct {
	Name        string
	Description string
	TagIDs      []int64
}

func (in CallInput) description() *string {
	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		return nil
	}
	return &desc
}

// TaskInput is what the call task form submits.
type TaskInput struct {
	Name   string
	Status model.TaskStatus
}

type CallWorkspace struct {
	guarded
	api     CallAPI
	outcome outcome
	logger  *slog.Logger
	state   CallState
}

func NewCallWorkspace(api CallAPI, notifier Notifier, logger *slog.Logger) *CallWorkspace {
	logger = orDiscard(logger)
	return &CallWorkspace{
		api:     api,
		outcome: outcome{notifier: orDiscardNotifier(notifier), logger: logger},
		logger:  logger,
		state:   CallState{Days: model.DefaultDays},
	}
}

// Snapshot returns a copy of the current state.
func (w *CallWorkspace) Snapshot() CallState {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := CallState{
		Days:        w.state.Days,
		Calls:       slices.Clone(w.state.Calls),
		Tasks:       slices.Clone(w.state.Tasks),
		Suggestions: slices.Clone(w.state.Suggestions),
		Tags:        slices.Clone(w.state.Tags),
	}
	if w.state.Selected != nil {
		selected := *w.state.Selected
		out.Selected = &selected
	}
	return out
}

// Load fetches the call list and the tag catalog.
func (w *CallWorkspace) Load(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return w.RefreshCalls(ctx) })
	g.Go(func() error { return w.RefreshTags(ctx) })
	return g.Wait()
}

func (w *CallWorkspace) RefreshCalls(ctx context.Context) error {
	w.mu.Lock()
	days := w.state.Days
	w.mu.Unlock()
	_, err := refetch(ctx, &w.guarded, slotCalls,
		func(ctx context.Context) ([]model.Call, error) { return w.api.ListCalls(ctx, days) },
		func(calls []model.Call) { w.state.Calls = model.SortCallsNewestFirst(calls) },
	)
	if err != nil {
		w.logger.WarnContext(ctx, "refresh calls failed", "days", days, "error", err)
		return fmt.Errorf("load calls: %w", err)
	}
	return nil
}

func (w *CallWorkspace) RefreshTags(ctx context.Context) error {
	_, err := refetch(ctx, &w.guarded, slotTags, w.api.ListTags,
		func(tags []model.Tag) { w.state.Tags = tags },
	)
	if err != nil {
		w.logger.WarnContext(ctx, "refresh tags failed", "error", err)
		return fmt.Errorf("load tags: %w", err)
	}
	return nil
}

// SetDays changes the trailing window of the call list and reloads it. The
// selected call is not affected.
func (w *CallWorkspace) SetDays(ctx context.Context, days int) error {
	if err := w.UseDays(days); err != nil {
		return err
	}
	return w.RefreshCalls(ctx)
}

// UseDays sets the window without fetching; the next load uses it.
func (w *CallWorkspace) UseDays(days int) error {
	if err := model.ValidateDays(days); err != nil {
		return err
	}
	w.mu.Lock()
	w.state.Days = days
	w.mu.Unlock()
	return nil
}

// SelectCall loads a call's detail and then its tasks and suggestions.
func (w *CallWorkspace) SelectCall(ctx context.Context, id int64) error {
	applied, err := w.refreshDetail(ctx, id)
	if err != nil {
		return err
	}
	if !applied {
		return nil
	}
	return w.refreshSelection(ctx)
}

// Deselect clears the selection and everything derived from it. Fetches
// still in flight for the old selection are discarded when they land.
func (w *CallWorkspace) Deselect() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.invalidate(slotDetail, slotTasks, slotSuggestions)
	w.state.Selected = nil
	w.state.Tasks = nil
	w.state.Suggestions = nil
}

func (w *CallWorkspace) selectedCall() (model.CallDetail, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state.Selected == nil {
		return model.CallDetail{}, false
	}
	return *w.state.Selected, true
}

func (w *CallWorkspace) refreshDetail(ctx context.Context, id int64) (bool, error) {
	applied, err := refetch(ctx, &w.guarded, slotDetail,
		func(ctx context.Context) (model.CallDetail, error) { return w.api.GetCall(ctx, id) },
		func(detail model.CallDetail) {
			if w.state.Selected == nil || w.state.Selected.ID != detail.ID {
				w.invalidate(slotTasks, slotSuggestions)
				w.state.Tasks = nil
				w.state.Suggestions = nil
			}
			w.state.Selected = &detail
		},
	)
	if err != nil {
		w.logger.WarnContext(ctx, "load call failed", "call_id", id, "error", err)
		return false, fmt.Errorf("load call %d: %w", id, err)
	}
	return applied, nil
}

// refreshSelection reloads the read models that depend on the selected call.
func (w *CallWorkspace) refreshSelection(ctx context.Context) error {
	return errors.Join(w.refreshTasks(ctx), w.refreshSuggestions(ctx))
}

func (w *CallWorkspace) refreshTasks(ctx context.Context) error {
	call, ok := w.selectedCall()
	if !ok {
		return nil
	}
	_, err := refetch(ctx, &w.guarded, slotTasks,
		func(ctx context.Context) ([]model.CallTask, error) { return w.api.ListCallTasks(ctx, call.ID) },
		func(tasks []model.CallTask) {
			if w.state.Selected != nil && w.state.Selected.ID == call.ID {
				w.state.Tasks = tasks
			}
		},
	)
	if err != nil {
		w.logger.WarnContext(ctx, "load call tasks failed", "call_id", call.ID, "error", err)
		return fmt.Errorf("load tasks for call %d: %w", call.ID, err)
	}
	return nil
}

// refreshSuggestions recomputes suggestions for the selected call. A failed
// computation leaves the list empty rather than partially filled.
func (w *CallWorkspace) refreshSuggestions(ctx context.Context) error {
	call, ok := w.selectedCall()
	if !ok {
		return nil
	}
	n := w.begin(slotSuggestions)
	suggestions, err := suggest.Resolve(ctx, w.api, call.Tags)
	w.commit(slotSuggestions, n, func() {
		if w.state.Selected != nil && w.state.Selected.ID == call.ID {
			w.state.Suggestions = suggestions
		}
	})
	if err != nil {
		w.logger.WarnContext(ctx, "resolve suggestions failed", "call_id", call.ID, "error", err)
		return fmt.Errorf("suggestions for call %d: %w", call.ID, err)
	}
	return nil
}

// SaveCall creates a call, or updates editing when it is non-nil, then
// reloads the call list and shows the saved call. A blank name fails before
// any request is made. The error is returned so the form can stay open.
func (w *CallWorkspace) SaveCall(ctx context.Context, editing *model.CallDetail, in CallInput) error {
	if err := model.ValidateName(in.Name); err != nil {
		return err
	}
	name := strings.TrimSpace(in.Name)
	verb := "created"
	var savedID int64
	mutate := func(ctx context.Context) error {
		if editing != nil {
			verb = "updated"
			savedID = editing.ID
			_, err := w.api.UpdateCall(ctx, editing.ID, name, in.description(), in.TagIDs)
			return err
		}
		saved, err := w.api.CreateCall(ctx, name, in.description(), in.TagIDs)
		savedID = saved.ID
		return err
	}
	showSaved := func(ctx context.Context) error {
		applied, err := w.refreshDetail(ctx, savedID)
		if err != nil || !applied {
			return err
		}
		if err := w.refreshSelection(ctx); err != nil {
			w.logger.WarnContext(ctx, "refresh saved call selection failed", "call_id", savedID, "error", err)
		}
		return nil
	}

	err := mutateThenRefetch(ctx, mutate, w.RefreshCalls, showSaved)
	w.outcome.report(ctx, err, fmt.Sprintf("Call '%s' %s successfully!", name, verb), "Failed to save call.")
	return err
}

// SaveTask creates an ad-hoc task on the selected call, or updates editing
// when it is non-nil. Without a selection it does nothing.
func (w *CallWorkspace) SaveTask(ctx context.Context, editing *model.CallTask, in TaskInput) error {
	draft := model.CallTask{
		Task:   model.Task{Name: in.Name, Type: model.TaskTypeAdHoc},
		Status: in.Status,
	}
	if editing != nil {
		draft.Type = editing.Type
	}
	if draft.Status == "" {
		draft.Status = model.TaskStatusOpen
	}
	if err := draft.Validate(); err != nil {
		return err
	}
	status := draft.Status
	call, ok := w.selectedCall()
	if !ok {
		return nil
	}
	name := strings.TrimSpace(in.Name)
	verb := "created"
	mutate := func(ctx context.Context) error {
		if editing != nil {
			verb = "updated"
			_, err := w.api.UpdateCallTask(ctx, editing.ID, call.ID, name, status)
			return err
		}
		_, err := w.api.CreateAdHocTask(ctx, call.ID, name, status)
		return err
	}

	err := mutateThenRefetch(ctx, mutate, w.refreshTasks)
	w.outcome.report(ctx, err, fmt.Sprintf("Task '%s' %s successfully!", name, verb), "Failed to save task.")
	return err
}

// CompleteTask marks task completed on the selected call. Failures are
// notified and logged, not returned.
func (w *CallWorkspace) CompleteTask(ctx context.Context, task model.CallTask) {
	call, ok := w.selectedCall()
	if !ok {
		return
	}
	done := task.Completed()
	err := mutateThenRefetch(ctx, func(ctx context.Context) error {
		_, err := w.api.UpdateCallTask(ctx, done.ID, call.ID, done.Name, done.Status)
		return err
	}, w.refreshTasks)
	w.outcome.report(ctx, err, fmt.Sprintf("Task '%s' marked as completed!", task.Name), "Failed to complete task.")
}

// AddSuggestedTask links a suggested template onto the selected call.
func (w *CallWorkspace) AddSuggestedTask(ctx context.Context, tmpl model.TemplateTask) {
	call, ok := w.selectedCall()
	if !ok {
		return
	}
	err := mutateThenRefetch(ctx, func(ctx context.Context) error {
		_, err := w.api.LinkTemplateTask(ctx, tmpl.ID, call.ID)
		return err
	}, w.refreshTasks)
	w.outcome.report(ctx, err, fmt.Sprintf("Task '%s' added to call!", tmpl.Name), "Failed to add task to call.")
}

// DeleteTask asks for confirmation before removing task from the selected
// call. Template tasks are unlinked; ad-hoc tasks are deleted.
func (w *CallWorkspace) DeleteTask(task model.CallTask) Confirmation {
	return Confirmation{
		Title:   "Delete Task",
		Message: fmt.Sprintf("Are you sure you want to delete task '%s'?", task.Name),
		confirm: func(ctx context.Context) { w.removeTask(ctx, task) },
	}
}

func (w *CallWorkspace) removeTask(ctx context.Context, task model.CallTask) {
	call, ok := w.selectedCall()
	if !ok {
		return
	}
	variant, err := variantOf(task)
	if err != nil {
		w.outcome.report(ctx, err, "", "Failed to delete task.")
		return
	}
	err = mutateThenRefetch(ctx, func(ctx context.Context) error {
		return variant.remove(ctx, w.api, call.ID)
	}, w.refreshTasks)
	w.outcome.report(ctx, err, variant.removedNotice(task.Name), "Failed to delete task.")
}
