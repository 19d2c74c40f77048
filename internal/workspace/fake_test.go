package workspace

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sandeepkv93/calldesk/internal/model"
)

var errBoom = errors.New("boom")

// fakeAPI is an in-memory server double that records every call by name.
type fakeAPI struct {
	mu        sync.Mutex
	calls     []string
	fail      map[string]error
	nextID    int64
	days      []int
	callList  []model.Call
	details   map[int64]model.CallDetail
	tasks     map[int64][]model.CallTask
	tags      []model.Tag
	templates []model.TemplateTask
	byTag     map[int64][]model.Task
	lastTask  struct {
		id     int64
		callID int64
		name   string
		status model.TaskStatus
	}
	lastCall struct {
		name        string
		description *string
		tagIDs      []int64
	}
	lastTag struct {
		name    string
		colorID int
	}
	gate map[string]chan struct{}
}

func newFakeAPI() *fakeAPI {
	base := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	tags := []model.Tag{
		{ID: 1, Name: "billing", ColorID: model.ColorBlue, IsActive: true},
		{ID: 2, Name: "outage", ColorID: model.ColorRed, IsActive: true},
	}
	f := &fakeAPI{
		fail:   map[string]error{},
		gate:   map[string]chan struct{}{},
		nextID: 100,
		callList: []model.Call{
			{ID: 1, Name: "Older", CreatedAt: model.NewTimestamp(base)},
			{ID: 2, Name: "Newer", CreatedAt: model.NewTimestamp(base.Add(time.Hour)), Tags: tags},
		},
		details: map[int64]model.CallDetail{},
		tasks: map[int64][]model.CallTask{
			2: {
				{Task: model.Task{ID: 10, Name: "Refund", Type: model.TaskTypeTemplate}, CallID: 2, Status: model.TaskStatusOpen},
				{Task: model.Task{ID: 11, Name: "Call back", Type: model.TaskTypeAdHoc}, CallID: 2, Status: model.TaskStatusInProgress},
			},
		},
		tags: tags,
		templates: []model.TemplateTask{
			{Task: model.Task{ID: 20, Name: "Verify identity", Type: model.TaskTypeTemplate}},
			{Task: model.Task{ID: 10, Name: "Refund", Type: model.TaskTypeTemplate}},
			{Task: model.Task{ID: 30, Name: "Status page", Type: model.TaskTypeTemplate}},
		},
		byTag: map[int64][]model.Task{
			1: {{ID: 10}, {ID: 20}},
			2: {{ID: 30}, {ID: 10}},
		},
	}
	for _, c := range f.callList {
		f.details[c.ID] = model.CallDetail{Call: c}
	}
	return f
}

func (f *fakeAPI) record(name string) error {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	err := f.fail[name]
	gate := f.gate[name]
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return err
}

func (f *fakeAPI) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakeAPI) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

func (f *fakeAPI) failOn(name string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[name] = err
}

func (f *fakeAPI) ListCalls(_ context.Context, days int) ([]model.Call, error) {
	if err := f.record("ListCalls"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.days = append(f.days, days)
	out := make([]model.Call, len(f.callList))
	copy(out, f.callList)
	return out, nil
}

func (f *fakeAPI) GetCall(_ context.Context, id int64) (model.CallDetail, error) {
	if err := f.record(fmt.Sprintf("GetCall:%d", id)); err != nil {
		return model.CallDetail{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.details[id]
	if !ok {
		return model.CallDetail{}, errors.New("not found")
	}
	return d, nil
}

func (f *fakeAPI) CreateCall(_ context.Context, name string, description *string, tagIDs []int64) (model.CallDetail, error) {
	if err := f.record("CreateCall"); err != nil {
		return model.CallDetail{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastCall.name, f.lastCall.description, f.lastCall.tagIDs = name, description, tagIDs
	f.nextID++
	call := model.Call{ID: f.nextID, Name: name, Description: description, CreatedAt: model.NewTimestamp(time.Now().UTC())}
	for _, id := range tagIDs {
		for _, tag := range f.tags {
			if tag.ID == id {
				call.Tags = append(call.Tags, tag)
			}
		}
	}
	f.callList = append(f.callList, call)
	f.details[call.ID] = model.CallDetail{Call: call}
	return f.details[call.ID], nil
}

func (f *fakeAPI) UpdateCall(_ context.Context, id int64, name string, description *string, tagIDs []int64) (model.CallDetail, error) {
	if err := f.record("UpdateCall"); err != nil {
		return model.CallDetail{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastCall.name, f.lastCall.description, f.lastCall.tagIDs = name, description, tagIDs
	d := f.details[id]
	d.Name = name
	d.Description = description
	f.details[id] = d
	for i := range f.callList {
		if f.callList[i].ID == id {
			f.callList[i].Name = name
		}
	}
	return d, nil
}

func (f *fakeAPI) ListCallTasks(_ context.Context, callID int64) ([]model.CallTask, error) {
	if err := f.record("ListCallTasks"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.CallTask, len(f.tasks[callID]))
	copy(out, f.tasks[callID])
	return out, nil
}

func (f *fakeAPI) CreateAdHocTask(_ context.Context, callID int64, name string, status model.TaskStatus) (model.Task, error) {
	if err := f.record("CreateAdHocTask"); err != nil {
		return model.Task{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	task := model.Task{ID: f.nextID, Name: name, Type: model.TaskTypeAdHoc}
	f.tasks[callID] = append(f.tasks[callID], model.CallTask{Task: task, CallID: callID, Status: status})
	return task, nil
}

func (f *fakeAPI) UpdateCallTask(_ context.Context, id, callID int64, name string, status model.TaskStatus) (model.CallTask, error) {
	if err := f.record("UpdateCallTask"); err != nil {
		return model.CallTask{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastTask.id, f.lastTask.callID, f.lastTask.name, f.lastTask.status = id, callID, name, status
	for i, t := range f.tasks[callID] {
		if t.ID == id {
			f.tasks[callID][i].Name = name
			f.tasks[callID][i].Status = status
			return f.tasks[callID][i], nil
		}
	}
	return model.CallTask{}, errors.New("not found")
}

func (f *fakeAPI) DeleteTask(_ context.Context, id int64) error {
	if err := f.record(fmt.Sprintf("DeleteTask:%d", id)); err != nil {
		return err
	}
	f.removeTask(id)
	return nil
}

func (f *fakeAPI) UnlinkTemplateTask(_ context.Context, templateID, callID int64) error {
	if err := f.record(fmt.Sprintf("Unlink:%d:%d", templateID, callID)); err != nil {
		return err
	}
	f.removeTask(templateID)
	return nil
}

func (f *fakeAPI) removeTask(id int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for callID, tasks := range f.tasks {
		kept := tasks[:0]
		for _, t := range tasks {
			if t.ID != id {
				kept = append(kept, t)
			}
		}
		f.tasks[callID] = kept
	}
}

func (f *fakeAPI) LinkTemplateTask(_ context.Context, templateID, callID int64) (model.CallTask, error) {
	if err := f.record(fmt.Sprintf("Link:%d:%d", templateID, callID)); err != nil {
		return model.CallTask{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, tmpl := range f.templates {
		if tmpl.ID == templateID {
			ct := model.CallTask{Task: tmpl.Task, CallID: callID, Status: model.TaskStatusOpen}
			f.tasks[callID] = append(f.tasks[callID], ct)
			return ct, nil
		}
	}
	return model.CallTask{}, errors.New("not found")
}

func (f *fakeAPI) ListTags(context.Context) ([]model.Tag, error) {
	if err := f.record("ListTags"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Tag, len(f.tags))
	copy(out, f.tags)
	return out, nil
}

func (f *fakeAPI) CreateTag(_ context.Context, name string, colorID int) (model.Tag, error) {
	if err := f.record("CreateTag"); err != nil {
		return model.Tag{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastTag.name, f.lastTag.colorID = name, colorID
	f.nextID++
	tag := model.Tag{ID: f.nextID, Name: name, ColorID: colorID, IsActive: true}
	f.tags = append(f.tags, tag)
	return tag, nil
}

func (f *fakeAPI) UpdateTag(_ context.Context, id int64, name string, colorID int) (model.Tag, error) {
	if err := f.record("UpdateTag"); err != nil {
		return model.Tag{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastTag.name, f.lastTag.colorID = name, colorID
	for i := range f.tags {
		if f.tags[i].ID == id {
			f.tags[i].Name = name
			f.tags[i].ColorID = colorID
			return f.tags[i], nil
		}
	}
	return model.Tag{}, errors.New("not found")
}

func (f *fakeAPI) DeleteTag(_ context.Context, id int64) error {
	if err := f.record(fmt.Sprintf("DeleteTag:%d", id)); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.tags[:0]
	for _, tag := range f.tags {
		if tag.ID != id {
			kept = append(kept, tag)
		}
	}
	f.tags = kept
	return nil
}

func (f *fakeAPI) TagSuggestedTasks(_ context.Context, tagID int64) (model.TagSuggestions, error) {
	if err := f.record("TagSuggestedTasks"); err != nil {
		return model.TagSuggestions{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return model.TagSuggestions{Tag: model.Tag{ID: tagID}, SuggestedTasks: f.byTag[tagID]}, nil
}

func (f *fakeAPI) ListTemplateTasks(context.Context) ([]model.TemplateTask, error) {
	if err := f.record("ListTemplateTasks"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.TemplateTask, len(f.templates))
	copy(out, f.templates)
	return out, nil
}

func (f *fakeAPI) CreateTemplateTask(_ context.Context, name string, tagIDs []int64) (model.TemplateTask, error) {
	if err := f.record("CreateTemplateTask"); err != nil {
		return model.TemplateTask{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	tmpl := model.TemplateTask{Task: model.Task{ID: f.nextID, Name: name, Type: model.TaskTypeTemplate}}
	f.templates = append(f.templates, tmpl)
	return tmpl, nil
}

func (f *fakeAPI) UpdateTemplateTask(_ context.Context, id int64, name string, tagIDs []int64) (model.TemplateTask, error) {
	if err := f.record("UpdateTemplateTask"); err != nil {
		return model.TemplateTask{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.templates {
		if f.templates[i].ID == id {
			f.templates[i].Name = name
			return f.templates[i], nil
		}
	}
	return model.TemplateTask{}, errors.New("not found")
}

func (f *fakeAPI) DeleteTemplateTask(_ context.Context, id int64) error {
	if err := f.record(fmt.Sprintf("DeleteTemplateTask:%d", id)); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.templates[:0]
	for _, tmpl := range f.templates {
		if tmpl.ID != id {
			kept = append(kept, tmpl)
		}
	}
	f.templates = kept
	return nil
}

type recordingNotifier struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *recordingNotifier) Notify(kind Kind, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, Notice{Kind: kind, Text: text})
}

func (r *recordingNotifier) last() Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return Notice{}
	}
	return r.notices[len(r.notices)-1]
}

func (r *recordingNotifier) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.notices)
}
