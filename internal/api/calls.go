package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sandeepkv93/calldesk/internal/model"
)

type callPayload struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	TagIDs      []int64 `json:"tag_ids"`
}

// ListCalls returns calls created within the trailing days window. A
// non-positive days leaves the window to the server default.
func (c *Client) ListCalls(ctx context.Context, days int) ([]model.Call, error) {
	var query url.Values
	if days > 0 {
		query = url.Values{"days": {strconv.Itoa(days)}}
	}
	var out []model.Call
	if err := c.do(ctx, http.MethodGet, "/calls", query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetCall(ctx context.Context, id int64) (model.CallDetail, error) {
	var out model.CallDetail
	err := c.do(ctx, http.MethodGet, idPath("/calls/%d", id), nil, nil, &out)
	return out, err
}

func (c *Client) CreateCall(ctx context.Context, name string, description *string, tagIDs []int64) (model.CallDetail, error) {
	var out model.CallDetail
	err := c.do(ctx, http.MethodPost, "/calls", nil, callPayload{
		Name:        name,
		Description: description,
		TagIDs:      nonNilIDs(tagIDs),
	}, &out)
	return out, err
}

func (c *Client) UpdateCall(ctx context.Context, id int64, name string, description *string, tagIDs []int64) (model.CallDetail, error) {
	var out model.CallDetail
	err := c.do(ctx, http.MethodPatch, idPath("/calls/%d", id), nil, callPayload{
		Name:        name,
		Description: description,
		TagIDs:      nonNilIDs(tagIDs),
	}, &out)
	return out, err
}

// ListCallTasks returns the tasks bound to a call with their per-call status.
func (c *Client) ListCallTasks(ctx context.Context, callID int64) ([]model.CallTask, error) {
	var out []model.CallTask
	if err := c.do(ctx, http.MethodGet, idPath("/calls/%d/tasks", callID), nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
