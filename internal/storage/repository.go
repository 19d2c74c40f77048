package storage

import (
	"context"
	"errors"
	"time"

	"github.com/sandeepkv93/calldesk/internal/model"
)

var (
	ErrNotFound    = errors.New("storage: not found")
	ErrNotTemplate = errors.New("storage: task is not a template")
	ErrConflict    = errors.New("storage: conflict")
)

// Repository persists calls, tags and tasks. Deleting a tag or task only
// deactivates it; inactive rows are hidden from every read.
type Repository interface {
	ListTags(ctx context.Context) ([]model.Tag, error)
	GetTag(ctx context.Context, id int64) (model.Tag, error)
	CreateTag(ctx context.Context, in TagWrite) (model.Tag, error)
	UpdateTag(ctx context.Context, id int64, in TagWrite) (model.Tag, error)
	DeactivateTag(ctx context.Context, id int64) error
	TagSuggestions(ctx context.Context, id int64) (model.TagSuggestions, error)

	ListTasks(ctx context.Context) ([]model.Task, error)
	DeactivateTask(ctx context.Context, id int64) error
	DeactivateTemplateTask(ctx context.Context, id int64) error
	CreateAdHocTask(ctx context.Context, callID int64, name string, status model.TaskStatus) (model.Task, error)
	UpdateCallTask(ctx context.Context, id, callID int64, name string, status model.TaskStatus) (model.CallTask, error)
	ListCallTasks(ctx context.Context, callID int64) ([]model.CallTask, error)

	ListTemplateTasks(ctx context.Context) ([]model.TemplateTask, error)
	GetTemplateTask(ctx context.Context, id int64) (model.TemplateTask, error)
	CreateTemplateTask(ctx context.Context, in TemplateWrite) (model.TemplateTask, error)
	UpdateTemplateTask(ctx context.Context, id int64, in TemplateWrite) (model.TemplateTask, error)
	LinkTemplateTask(ctx context.Context, templateID, callID int64) (model.CallTask, error)
	UnlinkTemplateTask(ctx context.Context, templateID, callID int64) error

	ListCalls(ctx context.Context, since time.Time) ([]model.Call, error)
	GetCall(ctx context.Context, id int64) (model.CallDetail, error)
	CreateCall(ctx context.Context, in CallWrite) (model.CallDetail, error)
	UpdateCall(ctx context.Context, id int64, in CallWrite) (model.CallDetail, error)
}
