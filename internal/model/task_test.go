package model

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestCallTaskValidateSuccess(t *testing.T) {
	task := CallTask{
		Task:   Task{ID: 1, Name: "Send follow-up email", Type: TaskTypeAdHoc, IsActive: true},
		CallID: 4,
		Status: TaskStatusOpen,
	}
	if err := task.Validate(); err != nil {
		t.Fatalf("expected valid task, got error: %v", err)
	}
}

func TestCallTaskValidateInvalidEnums(t *testing.T) {
	task := CallTask{
		Task:   Task{ID: 1, Name: "Bad type", Type: TaskType("recurring")},
		Status: TaskStatusOpen,
	}
	err := task.Validate()
	if err == nil || !errors.Is(err, ErrInvalidTaskType) {
		t.Fatalf("expected ErrInvalidTaskType, got: %v", err)
	}

	task.Type = TaskTypeTemplate
	task.Status = TaskStatus("blocked")
	err = task.Validate()
	if err == nil || !errors.Is(err, ErrInvalidTaskStatus) {
		t.Fatalf("expected ErrInvalidTaskStatus, got: %v", err)
	}

	task.Status = TaskStatusInProgress
	task.Name = "   "
	if err := task.Validate(); !errors.Is(err, ErrNameRequired) {
		t.Fatalf("expected ErrNameRequired, got: %v", err)
	}
}

func TestCallTaskCompletedKeepsName(t *testing.T) {
	task := CallTask{
		Task:   Task{ID: 9, Name: "Verify account", Type: TaskTypeTemplate},
		CallID: 2,
		Status: TaskStatusInProgress,
	}
	done := task.Completed()
	if done.Status != TaskStatusCompleted {
		t.Fatalf("status = %q, want completed", done.Status)
	}
	if done.Name != task.Name || done.ID != task.ID || done.CallID != task.CallID {
		t.Fatalf("completed task changed identity or name: %+v", done)
	}
	if task.Status != TaskStatusInProgress {
		t.Fatalf("original task mutated: %q", task.Status)
	}
}

func TestCallTaskDecodesFlattenedJSON(t *testing.T) {
	raw := `{"id":3,"name":"Escalate","type":"template","is_active":true,
		"created_at":"2025-06-01T10:00:00.123456","updated_at":"2025-06-01T10:00:00Z",
		"call_id":12,"status":"in_progress"}`
	var task CallTask
	if err := json.Unmarshal([]byte(raw), &task); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if task.ID != 3 || task.Type != TaskTypeTemplate || task.CallID != 12 || task.Status != TaskStatusInProgress {
		t.Fatalf("unexpected task: %+v", task)
	}
	if task.CreatedAt.Year() != 2025 || task.CreatedAt.Location().String() != "UTC" {
		t.Fatalf("unexpected created_at: %v", task.CreatedAt)
	}
}

func TestTemplateTaskTagIDsDeduplicates(t *testing.T) {
	tmpl := TemplateTask{Tags: []Tag{{ID: 2}, {ID: 5}, {ID: 2}}}
	got := tmpl.TagIDs()
	if len(got) != 2 || got[0] != 2 || got[1] != 5 {
		t.Fatalf("TagIDs() = %v", got)
	}
}
