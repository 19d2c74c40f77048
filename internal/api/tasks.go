package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sandeepkv93/calldesk/internal/model"
)

type adHocTaskPayload struct {
	Name   string           `json:"name"`
	Type   model.TaskType   `json:"type"`
	CallID int64            `json:"call_id"`
	Status model.TaskStatus `json:"status"`
}

type callTaskUpdatePayload struct {
	CallID int64            `json:"call_id"`
	Status model.TaskStatus `json:"status"`
	Name   string           `json:"name"`
}

type templatePayload struct {
	Name   string         `json:"name"`
	Type   model.TaskType `json:"type,omitempty"`
	TagIDs []int64        `json:"tag_ids"`
}

func (c *Client) ListTasks(ctx context.Context) ([]model.Task, error) {
	var out []model.Task
	if err := c.do(ctx, http.MethodGet, "/tasks", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateAdHocTask(ctx context.Context, callID int64, name string, status model.TaskStatus) (model.Task, error) {
	if status == "" {
		status = model.TaskStatusOpen
	}
	var out model.Task
	err := c.do(ctx, http.MethodPost, "/tasks", nil, adHocTaskPayload{
		Name:   name,
		Type:   model.TaskTypeAdHoc,
		CallID: callID,
		Status: status,
	}, &out)
	return out, err
}

// UpdateCallTask renames a task and sets its status on the given call.
func (c *Client) UpdateCallTask(ctx context.Context, id, callID int64, name string, status model.TaskStatus) (model.CallTask, error) {
	var out model.CallTask
	err := c.do(ctx, http.MethodPatch, idPath("/tasks/%d", id), nil, callTaskUpdatePayload{
		CallID: callID,
		Status: status,
		Name:   name,
	}, &out)
	return out, err
}

func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, idPath("/tasks/%d", id), nil, nil, nil)
}

func (c *Client) ListTemplateTasks(ctx context.Context) ([]model.TemplateTask, error) {
	var out []model.TemplateTask
	if err := c.do(ctx, http.MethodGet, "/tasks/template/list", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateTemplateTask(ctx context.Context, name string, tagIDs []int64) (model.TemplateTask, error) {
	var out model.TemplateTask
	err := c.do(ctx, http.MethodPost, "/tasks/template", nil, templatePayload{
		Name:   name,
		Type:   model.TaskTypeTemplate,
		TagIDs: nonNilIDs(tagIDs),
	}, &out)
	return out, err
}

func (c *Client) UpdateTemplateTask(ctx context.Context, id int64, name string, tagIDs []int64) (model.TemplateTask, error) {
	var out model.TemplateTask
	err := c.do(ctx, http.MethodPatch, idPath("/tasks/template/%d", id), nil, templatePayload{
		Name:   name,
		TagIDs: nonNilIDs(tagIDs),
	}, &out)
	return out, err
}

func (c *Client) DeleteTemplateTask(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, idPath("/tasks/template/%d", id), nil, nil, nil)
}

// LinkTemplateTask attaches a template to a call as an open call task.
func (c *Client) LinkTemplateTask(ctx context.Context, templateID, callID int64) (model.CallTask, error) {
	var out model.CallTask
	err := c.do(ctx, http.MethodPost, idPath("/tasks/template/%d/link", templateID), callQuery(callID), nil, &out)
	return out, err
}

// UnlinkTemplateTask detaches a template from a call. The template survives.
func (c *Client) UnlinkTemplateTask(ctx context.Context, templateID, callID int64) error {
	return c.do(ctx, http.MethodPost, idPath("/tasks/template/%d/unlink", templateID), callQuery(callID), nil, nil)
}

func callQuery(callID int64) url.Values {
	return url.Values{"call_id": {strconv.FormatInt(callID, 10)}}
}
