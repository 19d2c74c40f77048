package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/sandeepkv93/calldesk/internal/model"
	"golang.org/x/sync/errgroup"
)

// AdminAPI is the part of the remote API the admin workspace uses.
type AdminAPI interface {
	ListTags(ctx context.Context) ([]model.Tag, error)
	CreateTag(ctx context.Context, name string, colorID int) (model.Tag, error)
	UpdateTag(ctx context.Context, id int64, name string, colorID int) (model.Tag, error)
	DeleteTag(ctx context.Context, id int64) error
	ListTemplateTasks(ctx context.Context) ([]model.TemplateTask, error)
	CreateTemplateTask(ctx context.Context, name string, tagIDs []int64) (model.TemplateTask, error)
	UpdateTemplateTask(ctx context.Context, id int64, name string, tagIDs []int64) (model.TemplateTask, error)
	DeleteTemplateTask(ctx context.Context, id int64) error
}

type AdminState struct {
	Tags      []model.Tag
	Templates []model.TemplateTask
}

type AdminWorkspace struct {
	guarded
	api     AdminAPI
	outcome outcome
	logger  *slog.Logger
	state   AdminState
}

func NewAdminWorkspace(api AdminAPI, notifier Notifier, logger *slog.Logger) *AdminWorkspace {
	logger = orDiscard(logger)
	return &AdminWorkspace{
		api:     api,
		outcome: outcome{notifier: orDiscardNotifier(notifier), logger: logger},
		logger:  logger,
	}
}

func (w *AdminWorkspace) Snapshot() AdminState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return AdminState{
		Tags:      slices.Clone(w.state.Tags),
		Templates: slices.Clone(w.state.Templates),
	}
}

// Load fetches the tag and template catalogs in parallel. Each list is
// applied on its own; one failing does not hold back the other.
func (w *AdminWorkspace) Load(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return w.refreshTags(ctx) })
	g.Go(func() error { return w.refreshTemplates(ctx) })
	return g.Wait()
}

func (w *AdminWorkspace) refreshTags(ctx context.Context) error {
	_, err := refetch(ctx, &w.guarded, slotTags, w.api.ListTags,
		func(tags []model.Tag) { w.state.Tags = tags },
	)
	if err != nil {
		w.logger.WarnContext(ctx, "refresh tags failed", "error", err)
		return fmt.Errorf("load tags: %w", err)
	}
	return nil
}

func (w *AdminWorkspace) refreshTemplates(ctx context.Context) error {
	_, err := refetch(ctx, &w.guarded, slotTemplates, w.api.ListTemplateTasks,
		func(templates []model.TemplateTask) { w.state.Templates = templates },
	)
	if err != nil {
		w.logger.WarnContext(ctx, "refresh template tasks failed", "error", err)
		return fmt.Errorf("load template tasks: %w", err)
	}
	return nil
}

// SaveTag creates a tag, or updates editing when it is non-nil, then reloads
// the tag list.
func (w *AdminWorkspace) SaveTag(ctx context.Context, editing *model.Tag, name string, colorID int) error {
	if err := model.ValidateName(name); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	colorID = model.TagColorFor(colorID).ID
	verb := "created"
	err := mutateThenRefetch(ctx, func(ctx context.Context) error {
		if editing != nil {
			verb = "updated"
			_, err := w.api.UpdateTag(ctx, editing.ID, name, colorID)
			return err
		}
		_, err := w.api.CreateTag(ctx, name, colorID)
		return err
	}, w.refreshTags)
	w.outcome.report(ctx, err, fmt.Sprintf("Tag '%s' %s successfully", name, verb), "Failed to save tag")
	return err
}

func (w *AdminWorkspace) DeleteTag(tag model.Tag) Confirmation {
	return Confirmation{
		Title:   "Delete Tag",
		Message: fmt.Sprintf("Are you sure you want to delete tag '%s'?", tag.Name),
		confirm: func(ctx context.Context) {
			err := mutateThenRefetch(ctx, func(ctx context.Context) error {
				return w.api.DeleteTag(ctx, tag.ID)
			}, w.refreshTags)
			w.outcome.report(ctx, err, fmt.Sprintf("Tag '%s' deleted successfully", tag.Name), "Failed to delete tag")
		},
	}
}

// SaveTemplate creates a template task, or updates editing when it is
// non-nil, then reloads the template list.
func (w *AdminWorkspace) SaveTemplate(ctx context.Context, editing *model.TemplateTask, name string, tagIDs []int64) error {
	if err := model.ValidateName(name); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	verb := "created"
	err := mutateThenRefetch(ctx, func(ctx context.Context) error {
		if editing != nil {
			verb = "updated"
			_, err := w.api.UpdateTemplateTask(ctx, editing.ID, name, tagIDs)
			return err
		}
		_, err := w.api.CreateTemplateTask(ctx, name, tagIDs)
		return err
	}, w.refreshTemplates)
	w.outcome.report(ctx, err, fmt.Sprintf("Task '%s' %s successfully", name, verb), "Failed to save task")
	return err
}

func (w *AdminWorkspace) DeleteTemplate(tmpl model.TemplateTask) Confirmation {
	return Confirmation{
		Title:   "Delete Task",
		Message: fmt.Sprintf("Are you sure you want to delete task '%s'?", tmpl.Name),
		confirm: func(ctx context.Context) {
			err := mutateThenRefetch(ctx, func(ctx context.Context) error {
				return w.api.DeleteTemplateTask(ctx, tmpl.ID)
			}, w.refreshTemplates)
			w.outcome.report(ctx, err, fmt.Sprintf("Task '%s' deleted successfully", tmpl.Name), "Failed to delete task")
		},
	}
}
