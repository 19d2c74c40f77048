package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/sandeepkv93/calldesk/internal/model"
)

// testClock starts at a fixed instant and advances a second per reading.
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.now = c.now.Add(time.Second)
	return c.now
}

func setupRepo(t *testing.T) (*SQLiteRepository, *testClock) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "calldesk-test.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}

	clock := &testClock{now: time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)}
	repo, err := NewSQLiteRepository(db, WithClock(clock.Now))
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	return repo, clock
}

func mustTag(t *testing.T, repo *SQLiteRepository, name string, color int) model.Tag {
	t.Helper()
	tag, err := repo.CreateTag(context.Background(), TagWrite{Name: name, ColorID: color})
	if err != nil {
		t.Fatalf("create tag %s: %v", name, err)
	}
	return tag
}

func mustTemplate(t *testing.T, repo *SQLiteRepository, name string, tagIDs ...int64) model.TemplateTask {
	t.Helper()
	task, err := repo.CreateTemplateTask(context.Background(), TemplateWrite{Name: name, TagIDs: tagIDs})
	if err != nil {
		t.Fatalf("create template %s: %v", name, err)
	}
	return task
}

func mustCall(t *testing.T, repo *SQLiteRepository, name string, tagIDs ...int64) model.CallDetail {
	t.Helper()
	call, err := repo.CreateCall(context.Background(), CallWrite{Name: name, TagIDs: tagIDs})
	if err != nil {
		t.Fatalf("create call %s: %v", name, err)
	}
	return call
}

func strPtr(v string) *string {
	return &v
}

func TestTagCRUDAndList(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	billing := mustTag(t, repo, "billing", model.ColorBlue)
	if !billing.IsActive || billing.ColorID != model.ColorBlue {
		t.Fatalf("unexpected created tag: %+v", billing)
	}
	mustTag(t, repo, "outage", model.ColorRed)

	if _, err := repo.CreateTag(ctx, TagWrite{Name: "billing"}); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict for duplicate name, got %v", err)
	}
	if _, err := repo.CreateTag(ctx, TagWrite{Name: "  "}); !errors.Is(err, model.ErrNameRequired) {
		t.Fatalf("expected name required, got %v", err)
	}

	updated, err := repo.UpdateTag(ctx, billing.ID, TagWrite{Name: "payments", ColorID: 99})
	if err != nil {
		t.Fatalf("update tag: %v", err)
	}
	if updated.Name != "payments" || updated.ColorID != model.ColorGray {
		t.Fatalf("unexpected updated tag: %+v", updated)
	}
	if !updated.UpdatedAt.After(updated.CreatedAt.Time) {
		t.Fatalf("expected updated_at to advance: %+v", updated)
	}

	if err := repo.DeactivateTag(ctx, billing.ID); err != nil {
		t.Fatalf("deactivate tag: %v", err)
	}
	if err := repo.DeactivateTag(ctx, billing.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found on second deactivate, got %v", err)
	}
	if _, err := repo.GetTag(ctx, billing.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected inactive tag hidden, got %v", err)
	}
	if _, err := repo.UpdateTag(ctx, billing.ID, TagWrite{Name: "x"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found on update of inactive tag, got %v", err)
	}

	tags, err := repo.ListTags(ctx)
	if err != nil {
		t.Fatalf("list tags: %v", err)
	}
	if len(tags) != 1 || tags[0].Name != "outage" {
		t.Fatalf("unexpected tags: %+v", tags)
	}
}

func TestTagSuggestionsOnlyActiveTemplates(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	billing := mustTag(t, repo, "billing", model.ColorBlue)
	refund := mustTemplate(t, repo, "Refund", billing.ID)
	retired := mustTemplate(t, repo, "Retired", billing.ID)
	mustTemplate(t, repo, "Unrelated")

	if err := repo.DeactivateTemplateTask(ctx, retired.ID); err != nil {
		t.Fatalf("deactivate template: %v", err)
	}

	got, err := repo.TagSuggestions(ctx, billing.ID)
	if err != nil {
		t.Fatalf("tag suggestions: %v", err)
	}
	if got.ID != billing.ID || len(got.SuggestedTasks) != 1 || got.SuggestedTasks[0].ID != refund.ID {
		t.Fatalf("unexpected suggestions: %+v", got)
	}

	if _, err := repo.TagSuggestions(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestTemplateTaskCRUD(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	billing := mustTag(t, repo, "billing", model.ColorBlue)
	outage := mustTag(t, repo, "outage", model.ColorRed)
	gone := mustTag(t, repo, "gone", model.ColorGreen)
	if err := repo.DeactivateTag(ctx, gone.ID); err != nil {
		t.Fatalf("deactivate tag: %v", err)
	}

	created := mustTemplate(t, repo, "Refund", billing.ID, gone.ID, billing.ID)
	if created.Type != model.TaskTypeTemplate {
		t.Fatalf("expected template type, got %q", created.Type)
	}
	if len(created.Tags) != 1 || created.Tags[0].ID != billing.ID {
		t.Fatalf("expected only active tags attached once, got %+v", created.Tags)
	}

	updated, err := repo.UpdateTemplateTask(ctx, created.ID, TemplateWrite{Name: "Refund v2", TagIDs: []int64{outage.ID}})
	if err != nil {
		t.Fatalf("update template: %v", err)
	}
	if updated.Name != "Refund v2" || len(updated.Tags) != 1 || updated.Tags[0].ID != outage.ID {
		t.Fatalf("unexpected updated template: %+v", updated)
	}

	cleared, err := repo.UpdateTemplateTask(ctx, created.ID, TemplateWrite{Name: "Refund v2"})
	if err != nil {
		t.Fatalf("clear template tags: %v", err)
	}
	if cleared.Tags == nil || len(cleared.Tags) != 0 {
		t.Fatalf("expected empty non-nil tags, got %#v", cleared.Tags)
	}

	templates, err := repo.ListTemplateTasks(ctx)
	if err != nil {
		t.Fatalf("list templates: %v", err)
	}
	if len(templates) != 1 || templates[0].ID != created.ID {
		t.Fatalf("unexpected templates: %+v", templates)
	}

	if err := repo.DeactivateTemplateTask(ctx, created.ID); err != nil {
		t.Fatalf("deactivate template: %v", err)
	}
	if _, err := repo.GetTemplateTask(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found after deactivate, got %v", err)
	}
	templates, err = repo.ListTemplateTasks(ctx)
	if err != nil {
		t.Fatalf("list templates: %v", err)
	}
	if len(templates) != 0 {
		t.Fatalf("expected no templates, got %+v", templates)
	}
}

func TestCallCRUDAndWindow(t *testing.T) {
	repo, clock := setupRepo(t)
	ctx := context.Background()

	billing := mustTag(t, repo, "billing", model.ColorBlue)
	gone := mustTag(t, repo, "gone", model.ColorGreen)
	if err := repo.DeactivateTag(ctx, gone.ID); err != nil {
		t.Fatalf("deactivate tag: %v", err)
	}

	older := mustCall(t, repo, "Older")
	clock.now = clock.now.Add(48 * time.Hour)
	cutoff := clock.now
	newer, err := repo.CreateCall(ctx, CallWrite{Name: " Newer ", Description: strPtr("   "), TagIDs: []int64{billing.ID, gone.ID}})
	if err != nil {
		t.Fatalf("create call: %v", err)
	}
	if newer.Name != "Newer" || newer.Description != nil {
		t.Fatalf("expected trimmed name and null description, got %+v", newer.Call)
	}
	if len(newer.Tags) != 1 || newer.Tags[0].ID != billing.ID {
		t.Fatalf("expected only active tag, got %+v", newer.Tags)
	}
	if newer.Tasks == nil || len(newer.Tasks) != 0 {
		t.Fatalf("expected empty tasks, got %#v", newer.Tasks)
	}

	all, err := repo.ListCalls(ctx, time.Time{})
	if err != nil {
		t.Fatalf("list calls: %v", err)
	}
	if len(all) != 2 || all[0].ID != newer.ID || all[1].ID != older.ID {
		t.Fatalf("expected newest first, got %+v", all)
	}
	if all[1].Tags == nil {
		t.Fatalf("expected non-nil tags on untagged call")
	}

	recent, err := repo.ListCalls(ctx, cutoff)
	if err != nil {
		t.Fatalf("list recent calls: %v", err)
	}
	if len(recent) != 1 || recent[0].ID != newer.ID {
		t.Fatalf("expected only newer call in window, got %+v", recent)
	}

	updated, err := repo.UpdateCall(ctx, older.ID, CallWrite{Name: "Older", Description: strPtr("Customer *angry*"), TagIDs: []int64{billing.ID}})
	if err != nil {
		t.Fatalf("update call: %v", err)
	}
	if updated.DescriptionText() != "Customer *angry*" || len(updated.Tags) != 1 {
		t.Fatalf("unexpected updated call: %+v", updated.Call)
	}
	if !updated.CreatedAt.Equal(older.CreatedAt.Time) {
		t.Fatalf("created_at changed on update")
	}

	cleared, err := repo.UpdateCall(ctx, older.ID, CallWrite{Name: "Older"})
	if err != nil {
		t.Fatalf("clear call: %v", err)
	}
	if cleared.Description != nil || len(cleared.Tags) != 0 {
		t.Fatalf("expected description and tags cleared, got %+v", cleared.Call)
	}

	if _, err := repo.UpdateCall(ctx, 999, CallWrite{Name: "x"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found on update, got %v", err)
	}
	if _, err := repo.GetCall(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found on get, got %v", err)
	}
	if _, err := repo.CreateCall(ctx, CallWrite{Name: ""}); !errors.Is(err, model.ErrNameRequired) {
		t.Fatalf("expected name required, got %v", err)
	}
}

func TestCallTasksLifecycle(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	call := mustCall(t, repo, "Call")
	refund := mustTemplate(t, repo, "Refund")

	linked, err := repo.LinkTemplateTask(ctx, refund.ID, call.ID)
	if err != nil {
		t.Fatalf("link template: %v", err)
	}
	if linked.Status != model.TaskStatusOpen || linked.CallID != call.ID {
		t.Fatalf("unexpected link result: %+v", linked)
	}

	adHoc, err := repo.CreateAdHocTask(ctx, call.ID, "Call back", "")
	if err != nil {
		t.Fatalf("create ad hoc: %v", err)
	}
	if adHoc.Type != model.TaskTypeAdHoc {
		t.Fatalf("expected ad hoc type, got %q", adHoc.Type)
	}

	done, err := repo.UpdateCallTask(ctx, refund.ID, call.ID, "Refund", model.TaskStatusCompleted)
	if err != nil {
		t.Fatalf("complete task: %v", err)
	}
	if done.Status != model.TaskStatusCompleted {
		t.Fatalf("expected completed, got %q", done.Status)
	}

	relinked, err := repo.LinkTemplateTask(ctx, refund.ID, call.ID)
	if err != nil {
		t.Fatalf("relink template: %v", err)
	}
	if relinked.Status != model.TaskStatusCompleted {
		t.Fatalf("expected relink to keep status, got %q", relinked.Status)
	}

	tasks, err := repo.ListCallTasks(ctx, call.ID)
	if err != nil {
		t.Fatalf("list call tasks: %v", err)
	}
	if len(tasks) != 2 || tasks[0].ID != refund.ID || tasks[1].ID != adHoc.ID {
		t.Fatalf("unexpected call tasks: %+v", tasks)
	}

	detail, err := repo.GetCall(ctx, call.ID)
	if err != nil {
		t.Fatalf("get call: %v", err)
	}
	if len(detail.Tasks) != 2 {
		t.Fatalf("expected call detail to carry tasks, got %+v", detail.Tasks)
	}

	if err := repo.DeactivateTask(ctx, adHoc.ID); err != nil {
		t.Fatalf("deactivate task: %v", err)
	}
	if err := repo.UnlinkTemplateTask(ctx, refund.ID, call.ID); err != nil {
		t.Fatalf("unlink template: %v", err)
	}
	if err := repo.UnlinkTemplateTask(ctx, refund.ID, call.ID); err != nil {
		t.Fatalf("second unlink should be a no-op: %v", err)
	}
	tasks, err = repo.ListCallTasks(ctx, call.ID)
	if err != nil {
		t.Fatalf("list call tasks: %v", err)
	}
	if len(tasks) != 0 {
		t.Fatalf("expected no call tasks, got %+v", tasks)
	}
	if _, err := repo.GetTemplateTask(ctx, refund.ID); err != nil {
		t.Fatalf("template should survive unlink: %v", err)
	}
}

func TestCallTaskErrors(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	call := mustCall(t, repo, "Call")
	other := mustCall(t, repo, "Other")
	adHoc, err := repo.CreateAdHocTask(ctx, call.ID, "Call back", model.TaskStatusInProgress)
	if err != nil {
		t.Fatalf("create ad hoc: %v", err)
	}

	if _, err := repo.LinkTemplateTask(ctx, adHoc.ID, call.ID); !errors.Is(err, ErrNotTemplate) {
		t.Fatalf("expected not template on link, got %v", err)
	}
	if err := repo.UnlinkTemplateTask(ctx, adHoc.ID, call.ID); !errors.Is(err, ErrNotTemplate) {
		t.Fatalf("expected not template on unlink, got %v", err)
	}
	if err := repo.DeactivateTemplateTask(ctx, adHoc.ID); !errors.Is(err, ErrNotTemplate) {
		t.Fatalf("expected not template on template delete, got %v", err)
	}
	if _, err := repo.CreateAdHocTask(ctx, 999, "Orphan", ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for unknown call, got %v", err)
	}
	if _, err := repo.CreateAdHocTask(ctx, call.ID, "Bad", "paused"); !errors.Is(err, model.ErrInvalidTaskStatus) {
		t.Fatalf("expected invalid status, got %v", err)
	}
	if _, err := repo.UpdateCallTask(ctx, adHoc.ID, other.ID, "Call back", model.TaskStatusCompleted); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for unbound call, got %v", err)
	}
	if _, err := repo.ListCallTasks(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for unknown call, got %v", err)
	}

	refund := mustTemplate(t, repo, "Refund")
	if _, err := repo.LinkTemplateTask(ctx, refund.ID, 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for unknown call on link, got %v", err)
	}

	tasks, err := repo.ListTasks(ctx)
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected both tasks listed, got %+v", tasks)
	}
}
