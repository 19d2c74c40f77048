package workspace

import (
	"context"
	"fmt"

	"github.com/sandeepkv93/calldesk/internal/model"
)

type taskRemover interface {
	DeleteTask(ctx context.Context, id int64) error
	UnlinkTemplateTask(ctx context.Context, templateID, callID int64) error
}

// callTaskVariant is a call task seen through its origin. Template-derived
// tasks are detached from the call; ad-hoc tasks are deleted outright.
type callTaskVariant interface {
	remove(ctx context.Context, api taskRemover, callID int64) error
	removedNotice(name string) string
}

type templateLink struct {
	templateID int64
}

func (v templateLink) remove(ctx context.Context, api taskRemover, callID int64) error {
	return api.UnlinkTemplateTask(ctx, v.templateID, callID)
}

func (templateLink) removedNotice(name string) string {
	return fmt.Sprintf("Task '%s' removed from call successfully!", name)
}

type adHocTask struct {
	taskID int64
}

func (v adHocTask) remove(ctx context.Context, api taskRemover, _ int64) error {
	return api.DeleteTask(ctx, v.taskID)
}

func (adHocTask) removedNotice(name string) string {
	return fmt.Sprintf("Task '%s' deleted successfully!", name)
}

func variantOf(task model.CallTask) (callTaskVariant, error) {
	switch task.Type {
	case model.TaskTypeTemplate:
		return templateLink{templateID: task.ID}, nil
	case model.TaskTypeAdHoc:
		return adHocTask{taskID: task.ID}, nil
	default:
		return nil, fmt.Errorf("%w: %q", model.ErrInvalidTaskType, task.Type)
	}
}
