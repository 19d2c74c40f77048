package model

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTaskType   = errors.New("model: invalid task type")
	ErrInvalidTaskStatus = errors.New("model: invalid task status")
)

type TaskType string

const (
	TaskTypeTemplate TaskType = "template"
	TaskTypeAdHoc    TaskType = "ad_hoc"
)

func (t TaskType) IsValid() bool {
	switch t {
	case TaskTypeTemplate, TaskTypeAdHoc:
		return true
	default:
		return false
	}
}

type TaskStatus string

const (
	TaskStatusOpen       TaskStatus = "open"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// TaskStatuses lists the statuses in the order forms cycle through them.
func TaskStatuses() []TaskStatus {
	return []TaskStatus{TaskStatusOpen, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled}
}

func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusOpen, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled:
		return true
	default:
		return false
	}
}

// Label is the human readable form used by tables and forms.
func (s TaskStatus) Label() string {
	switch s {
	case TaskStatusOpen:
		return "Open"
	case TaskStatusInProgress:
		return "In progress"
	case TaskStatusCompleted:
		return "Completed"
	case TaskStatusCancelled:
		return "Cancelled"
	default:
		return string(s)
	}
}

type Task struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Type      TaskType  `json:"type"`
	IsActive  bool      `json:"is_active"`
	CreatedAt Timestamp `json:"created_at"`
	UpdatedAt Timestamp `json:"updated_at"`
}

// TemplateTask is a reusable task definition classified by tags.
type TemplateTask struct {
	Task
	Tags []Tag `json:"tags"`
}

// CallTask is a task instance bound to a single call.
type CallTask struct {
	Task
	CallID int64      `json:"call_id"`
	Status TaskStatus `json:"status"`
}

func (t CallTask) Validate() error {
	if err := ValidateName(t.Name); err != nil {
		return err
	}
	if !t.Type.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidTaskType, t.Type)
	}
	if !t.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidTaskStatus, t.Status)
	}
	return nil
}

// Completed returns a copy of t with status completed. The name is kept.
func (t CallTask) Completed() CallTask {
	t.Status = TaskStatusCompleted
	return t
}

// TagIDs returns the ids of the template's tags.
func (t TemplateTask) TagIDs() []int64 {
	return tagIDs(t.Tags)
}
