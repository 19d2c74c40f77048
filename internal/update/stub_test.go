package update

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sandeepkv93/calldesk/internal/model"
)

var errStub = errors.New("stub failure")

// stubAPI is a small in-memory backend for driving the model end to end.
type stubAPI struct {
	mu        sync.Mutex
	log       []string
	failOn    map[string]bool
	nextID    int64
	calls     []model.CallDetail
	tasks     map[int64][]model.CallTask
	tags      []model.Tag
	templates []model.TemplateTask
	lastDays  int
}

func newStubAPI() *stubAPI {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	billing := model.Tag{ID: 1, Name: "billing", ColorID: model.ColorBlue, IsActive: true}
	outage := model.Tag{ID: 2, Name: "outage", ColorID: model.ColorRed, IsActive: true}
	desc := "Customer *angry*"
	return &stubAPI{
		failOn: map[string]bool{},
		nextID: 100,
		calls: []model.CallDetail{
			{Call: model.Call{ID: 1, Name: "Older", CreatedAt: model.NewTimestamp(base), UpdatedAt: model.NewTimestamp(base)}},
			{Call: model.Call{ID: 2, Name: "Newer", Description: &desc, CreatedAt: model.NewTimestamp(base.Add(time.Hour)), UpdatedAt: model.NewTimestamp(base.Add(time.Hour)), Tags: []model.Tag{billing, outage}}},
		},
		tasks: map[int64][]model.CallTask{
			2: {
				{Task: model.Task{ID: 10, Name: "Refund", Type: model.TaskTypeTemplate, IsActive: true}, CallID: 2, Status: model.TaskStatusOpen},
				{Task: model.Task{ID: 11, Name: "Call back", Type: model.TaskTypeAdHoc, IsActive: true}, CallID: 2, Status: model.TaskStatusOpen},
			},
		},
		tags: []model.Tag{billing, outage},
		templates: []model.TemplateTask{
			{Task: model.Task{ID: 10, Name: "Refund", Type: model.TaskTypeTemplate}, Tags: []model.Tag{billing}},
			{Task: model.Task{ID: 20, Name: "Status page", Type: model.TaskTypeTemplate}, Tags: []model.Tag{outage}},
		},
	}
}

func (s *stubAPI) record(format string, args ...any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	name := fmt.Sprintf(format, args...)
	s.log = append(s.log, name)
	if s.failOn[name] {
		return errStub
	}
	return nil
}

func (s *stubAPI) fail(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failOn[name] = true
}

func (s *stubAPI) called(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, entry := range s.log {
		if entry == name {
			return true
		}
	}
	return false
}

func (s *stubAPI) ListCalls(_ context.Context, days int) ([]model.Call, error) {
	if err := s.record("ListCalls"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastDays = days
	out := make([]model.Call, 0, len(s.calls))
	for _, c := range s.calls {
		out = append(out, c.Call)
	}
	return out, nil
}

func (s *stubAPI) GetCall(_ context.Context, id int64) (model.CallDetail, error) {
	if err := s.record("GetCall:%d", id); err != nil {
		return model.CallDetail{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.calls {
		if c.ID == id {
			return c, nil
		}
	}
	return model.CallDetail{}, errStub
}

func (s *stubAPI) CreateCall(_ context.Context, name string, description *string, tagIDs []int64) (model.CallDetail, error) {
	if err := s.record("CreateCall:%s", name); err != nil {
		return model.CallDetail{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	now := model.NewTimestamp(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	c := model.CallDetail{Call: model.Call{ID: s.nextID, Name: name, Description: description, CreatedAt: now, UpdatedAt: now, Tags: s.tagsFor(tagIDs)}}
	s.calls = append(s.calls, c)
	return c, nil
}

func (s *stubAPI) UpdateCall(_ context.Context, id int64, name string, description *string, tagIDs []int64) (model.CallDetail, error) {
	if err := s.record("UpdateCall:%d:%s", id, name); err != nil {
		return model.CallDetail{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.calls {
		if s.calls[i].ID == id {
			s.calls[i].Name = name
			s.calls[i].Description = description
			s.calls[i].Tags = s.tagsFor(tagIDs)
			return s.calls[i], nil
		}
	}
	return model.CallDetail{}, errStub
}

func (s *stubAPI) tagsFor(ids []int64) []model.Tag {
	var out []model.Tag
	for _, id := range ids {
		for _, tag := range s.tags {
			if tag.ID == id {
				out = append(out, tag)
			}
		}
	}
	return out
}

func (s *stubAPI) ListCallTasks(_ context.Context, callID int64) ([]model.CallTask, error) {
	if err := s.record("ListCallTasks:%d", callID); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.CallTask(nil), s.tasks[callID]...), nil
}

func (s *stubAPI) CreateAdHocTask(_ context.Context, callID int64, name string, status model.TaskStatus) (model.Task, error) {
	if err := s.record("CreateTask:%d:%s", callID, name); err != nil {
		return model.Task{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	task := model.Task{ID: s.nextID, Name: name, Type: model.TaskTypeAdHoc, IsActive: true}
	s.tasks[callID] = append(s.tasks[callID], model.CallTask{Task: task, CallID: callID, Status: status})
	return task, nil
}

func (s *stubAPI) UpdateCallTask(_ context.Context, id, callID int64, name string, status model.TaskStatus) (model.CallTask, error) {
	if err := s.record("UpdateTask:%d:%s:%s", id, name, status); err != nil {
		return model.CallTask{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, task := range s.tasks[callID] {
		if task.ID == id {
			s.tasks[callID][i].Name = name
			s.tasks[callID][i].Status = status
			return s.tasks[callID][i], nil
		}
	}
	return model.CallTask{}, errStub
}

func (s *stubAPI) LinkTemplateTask(_ context.Context, templateID, callID int64) (model.CallTask, error) {
	if err := s.record("Link:%d:%d", templateID, callID); err != nil {
		return model.CallTask{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tmpl := range s.templates {
		if tmpl.ID == templateID {
			ct := model.CallTask{Task: tmpl.Task, CallID: callID, Status: model.TaskStatusOpen}
			s.tasks[callID] = append(s.tasks[callID], ct)
			return ct, nil
		}
	}
	return model.CallTask{}, errStub
}

func (s *stubAPI) DeleteTask(_ context.Context, id int64) error {
	if err := s.record("DeleteTask:%d", id); err != nil {
		return err
	}
	s.removeTask(id)
	return nil
}

func (s *stubAPI) UnlinkTemplateTask(_ context.Context, templateID, callID int64) error {
	if err := s.record("Unlink:%d:%d", templateID, callID); err != nil {
		return err
	}
	s.removeTask(templateID)
	return nil
}

func (s *stubAPI) removeTask(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for callID, tasks := range s.tasks {
		kept := tasks[:0]
		for _, task := range tasks {
			if task.ID != id {
				kept = append(kept, task)
			}
		}
		s.tasks[callID] = kept
	}
}

func (s *stubAPI) TagSuggestedTasks(_ context.Context, tagID int64) (model.TagSuggestions, error) {
	if err := s.record("Suggested:%d", tagID); err != nil {
		return model.TagSuggestions{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := model.TagSuggestions{}
	for _, tag := range s.tags {
		if tag.ID == tagID {
			out.Tag = tag
		}
	}
	for _, tmpl := range s.templates {
		for _, tag := range tmpl.Tags {
			if tag.ID == tagID {
				out.SuggestedTasks = append(out.SuggestedTasks, tmpl.Task)
			}
		}
	}
	return out, nil
}

func (s *stubAPI) ListTemplateTasks(context.Context) ([]model.TemplateTask, error) {
	if err := s.record("ListTemplateTasks"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.TemplateTask(nil), s.templates...), nil
}

func (s *stubAPI) ListTags(context.Context) ([]model.Tag, error) {
	if err := s.record("ListTags"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Tag(nil), s.tags...), nil
}

func (s *stubAPI) CreateTag(_ context.Context, name string, colorID int) (model.Tag, error) {
	if err := s.record("CreateTag:%s:%d", name, colorID); err != nil {
		return model.Tag{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	tag := model.Tag{ID: s.nextID, Name: name, ColorID: colorID, IsActive: true}
	s.tags = append(s.tags, tag)
	return tag, nil
}

func (s *stubAPI) UpdateTag(_ context.Context, id int64, name string, colorID int) (model.Tag, error) {
	if err := s.record("UpdateTag:%d:%s:%d", id, name, colorID); err != nil {
		return model.Tag{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tags {
		if s.tags[i].ID == id {
			s.tags[i].Name = name
			s.tags[i].ColorID = colorID
			return s.tags[i], nil
		}
	}
	return model.Tag{}, errStub
}

func (s *stubAPI) DeleteTag(_ context.Context, id int64) error {
	if err := s.record("DeleteTag:%d", id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.tags[:0]
	for _, tag := range s.tags {
		if tag.ID != id {
			kept = append(kept, tag)
		}
	}
	s.tags = kept
	return nil
}

func (s *stubAPI) CreateTemplateTask(_ context.Context, name string, tagIDs []int64) (model.TemplateTask, error) {
	if err := s.record("CreateTemplate:%s:%v", name, tagIDs); err != nil {
		return model.TemplateTask{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	tmpl := model.TemplateTask{Task: model.Task{ID: s.nextID, Name: name, Type: model.TaskTypeTemplate}, Tags: s.tagsFor(tagIDs)}
	s.templates = append(s.templates, tmpl)
	return tmpl, nil
}

func (s *stubAPI) UpdateTemplateTask(_ context.Context, id int64, name string, tagIDs []int64) (model.TemplateTask, error) {
	if err := s.record("UpdateTemplate:%d:%s:%v", id, name, tagIDs); err != nil {
		return model.TemplateTask{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.templates {
		if s.templates[i].ID == id {
			s.templates[i].Name = name
			s.templates[i].Tags = s.tagsFor(tagIDs)
			return s.templates[i], nil
		}
	}
	return model.TemplateTask{}, errStub
}

func (s *stubAPI) DeleteTemplateTask(_ context.Context, id int64) error {
	if err := s.record("DeleteTemplate:%d", id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.templates[:0]
	for _, tmpl := range s.templates {
		if tmpl.ID != id {
			kept = append(kept, tmpl)
		}
	}
	s.templates = kept
	return nil
}
