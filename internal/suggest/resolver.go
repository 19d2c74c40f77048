// Package suggest computes the template tasks suggested for a call from the
// call's tags.
package suggest

import (
	"context"
	"fmt"

	"github.com/sandeepkv93/calldesk/internal/model"
	"golang.org/x/sync/errgroup"
)

// Source is the subset of the API the resolver reads from.
type Source interface {
	TagSuggestedTasks(ctx context.Context, tagID int64) (model.TagSuggestions, error)
	ListTemplateTasks(ctx context.Context) ([]model.TemplateTask, error)
}

// Resolve returns the template tasks suggested by any of tags, each at most
// once, in template catalog order. No request is made when tags is empty.
// Any failed fetch fails the whole computation and yields a nil list.
func Resolve(ctx context.Context, src Source, tags []model.Tag) ([]model.TemplateTask, error) {
	tags = model.UniqueTags(tags)
	if len(tags) == 0 {
		return nil, nil
	}

	perTag := make([][]model.Task, len(tags))
	g, gctx := errgroup.WithContext(ctx)
	for i, tag := range tags {
		g.Go(func() error {
			res, err := src.TagSuggestedTasks(gctx, tag.ID)
			if err != nil {
				return fmt.Errorf("suggested tasks for tag %d: %w", tag.ID, err)
			}
			perTag[i] = res.SuggestedTasks
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ids := make(map[int64]struct{})
	for _, tasks := range perTag {
		for _, task := range tasks {
			ids[task.ID] = struct{}{}
		}
	}

	catalog, err := src.ListTemplateTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("template catalog: %w", err)
	}
	out := make([]model.TemplateTask, 0, len(ids))
	for _, tmpl := range catalog {
		if _, ok := ids[tmpl.ID]; !ok {
			continue
		}
		out = append(out, tmpl)
		delete(ids, tmpl.ID)
	}
	return out, nil
}
