package api

import (
	"context"
	"net/http"

	"github.com/sandeepkv93/calldesk/internal/model"
)

type tagPayload struct {
	Name    string `json:"name"`
	ColorID int    `json:"color_id"`
}

func (c *Client) ListTags(ctx context.Context) ([]model.Tag, error) {
	var out []model.Tag
	if err := c.do(ctx, http.MethodGet, "/tags", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetTag(ctx context.Context, id int64) (model.Tag, error) {
	var out model.Tag
	err := c.do(ctx, http.MethodGet, idPath("/tags/%d", id), nil, nil, &out)
	return out, err
}

func (c *Client) CreateTag(ctx context.Context, name string, colorID int) (model.Tag, error) {
	var out model.Tag
	err := c.do(ctx, http.MethodPost, "/tags", nil, tagPayload{Name: name, ColorID: colorID}, &out)
	return out, err
}

func (c *Client) UpdateTag(ctx context.Context, id int64, name string, colorID int) (model.Tag, error) {
	var out model.Tag
	err := c.do(ctx, http.MethodPatch, idPath("/tags/%d", id), nil, tagPayload{Name: name, ColorID: colorID}, &out)
	return out, err
}

func (c *Client) DeleteTag(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, idPath("/tags/%d", id), nil, nil, nil)
}

// TagSuggestedTasks returns the tag with the template tasks associated to it.
func (c *Client) TagSuggestedTasks(ctx context.Context, id int64) (model.TagSuggestions, error) {
	var out model.TagSuggestions
	err := c.do(ctx, http.MethodGet, idPath("/tags/%d/suggested-tasks", id), nil, nil, &out)
	return out, err
}
