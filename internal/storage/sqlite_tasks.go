package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/sandeepkv93/calldesk/internal/model"
)

const taskColumns = `id, name, type, is_active, created_at, updated_at`

func (r *SQLiteRepository) ListTasks(ctx context.Context) ([]model.Task, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE is_active = 1 ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, task)
	}
	return out, rows.Err()
}

func getTask(ctx context.Context, q queryer, id int64) (model.Task, error) {
	row := q.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ? AND is_active = 1`, id)
	task, err := scanTask(row)
	if err != nil {
		return model.Task{}, notFound(err)
	}
	return task, nil
}

func getTemplate(ctx context.Context, q queryer, id int64) (model.Task, error) {
	task, err := getTask(ctx, q, id)
	if err != nil {
		return model.Task{}, err
	}
	if task.Type != model.TaskTypeTemplate {
		return model.Task{}, fmt.Errorf("%w: task %d is %s", ErrNotTemplate, id, task.Type)
	}
	return task, nil
}

func callExists(ctx context.Context, q queryer, id int64) error {
	var found int64
	err := q.QueryRowContext(ctx, `SELECT id FROM calls WHERE id = ?`, id).Scan(&found)
	return notFound(err)
}

func normalizeStatus(status model.TaskStatus) (model.TaskStatus, error) {
	if status == "" {
		return model.TaskStatusOpen, nil
	}
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q", model.ErrInvalidTaskStatus, status)
	}
	return status, nil
}

// CreateAdHocTask creates a task owned by a single call and binds it with
// the given status, open when empty.
func (r *SQLiteRepository) CreateAdHocTask(ctx context.Context, callID int64, name string, status model.TaskStatus) (model.Task, error) {
	if err := model.ValidateName(name); err != nil {
		return model.Task{}, err
	}
	status, err := normalizeStatus(status)
	if err != nil {
		return model.Task{}, err
	}

	var out model.Task
	err = r.withTx(ctx, func(tx *sql.Tx) error {
		if err := callExists(ctx, tx, callID); err != nil {
			return err
		}
		id, err := r.insertTask(ctx, tx, name, model.TaskTypeAdHoc)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO calls_tasks (call_id, task_id, status) VALUES (?, ?, ?)`, callID, id, status); err != nil {
			return constraintError(err)
		}
		out, err = getTask(ctx, tx, id)
		return err
	})
	return out, err
}

func (r *SQLiteRepository) insertTask(ctx context.Context, q queryer, name string, kind model.TaskType) (int64, error) {
	now := r.stamp()
	res, err := q.ExecContext(ctx, `
		INSERT INTO tasks (name, type, is_active, created_at, updated_at)
		VALUES (?, ?, 1, ?, ?)`, strings.TrimSpace(name), kind, now, now)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// UpdateCallTask renames the task and sets its status on callID. The task
// must already be bound to the call.
func (r *SQLiteRepository) UpdateCallTask(ctx context.Context, id, callID int64, name string, status model.TaskStatus) (model.CallTask, error) {
	if err := model.ValidateName(name); err != nil {
		return model.CallTask{}, err
	}
	status, err := normalizeStatus(status)
	if err != nil {
		return model.CallTask{}, err
	}

	var out model.CallTask
	err = r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := getTask(ctx, tx, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `UPDATE calls_tasks SET status = ? WHERE call_id = ? AND task_id = ?`, status, callID, id)
		if err != nil {
			return err
		}
		if err := checkRowsAffected(res); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `UPDATE tasks SET name = ?, updated_at = ? WHERE id = ?`, strings.TrimSpace(name), r.stamp(), id); err != nil {
			return err
		}
		out, err = getCallTask(ctx, tx, id, callID)
		return err
	})
	return out, err
}

func getCallTask(ctx context.Context, q queryer, id, callID int64) (model.CallTask, error) {
	row := q.QueryRowContext(ctx, `
		SELECT t.id, t.name, t.type, t.is_active, t.created_at, t.updated_at, ct.call_id, ct.status
		FROM calls_tasks ct
		JOIN tasks t ON t.id = ct.task_id
		WHERE ct.task_id = ? AND ct.call_id = ? AND t.is_active = 1`, id, callID)
	var out model.CallTask
	task, err := scanTask(row, &out.CallID, &out.Status)
	if err != nil {
		return model.CallTask{}, notFound(err)
	}
	out.Task = task
	return out, nil
}

// ListCallTasks returns the active tasks bound to the call.
func (r *SQLiteRepository) ListCallTasks(ctx context.Context, callID int64) ([]model.CallTask, error) {
	if err := callExists(ctx, r.db, callID); err != nil {
		return nil, err
	}
	return listCallTasks(ctx, r.db, callID)
}

func listCallTasks(ctx context.Context, q queryer, callID int64) ([]model.CallTask, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT t.id, t.name, t.type, t.is_active, t.created_at, t.updated_at, ct.call_id, ct.status
		FROM calls_tasks ct
		JOIN tasks t ON t.id = ct.task_id
		WHERE ct.call_id = ? AND t.is_active = 1
		ORDER BY t.id`, callID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.CallTask, 0)
	for rows.Next() {
		var item model.CallTask
		task, err := scanTask(rows, &item.CallID, &item.Status)
		if err != nil {
			return nil, err
		}
		item.Task = task
		out = append(out, item)
	}
	return out, rows.Err()
}

// DeactivateTask hides the task and drops every call binding it had.
func (r *SQLiteRepository) DeactivateTask(ctx context.Context, id int64) error {
	return r.deactivateTask(ctx, id, false)
}

// DeactivateTemplateTask is DeactivateTask restricted to templates.
func (r *SQLiteRepository) DeactivateTemplateTask(ctx context.Context, id int64) error {
	return r.deactivateTask(ctx, id, true)
}

func (r *SQLiteRepository) deactivateTask(ctx context.Context, id int64, templateOnly bool) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if templateOnly {
			if _, err := getTemplate(ctx, tx, id); err != nil {
				return err
			}
		}
		res, err := tx.ExecContext(ctx, `UPDATE tasks SET is_active = 0, updated_at = ? WHERE id = ? AND is_active = 1`, r.stamp(), id)
		if err != nil {
			return err
		}
		if err := checkRowsAffected(res); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `DELETE FROM calls_tasks WHERE task_id = ?`, id)
		return err
	})
}

func (r *SQLiteRepository) ListTemplateTasks(ctx context.Context) ([]model.TemplateTask, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE is_active = 1 AND type = ? ORDER BY id`, model.TaskTypeTemplate)
	if err != nil {
		return nil, err
	}
	var tasks []model.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			_ = rows.Close()
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	_ = rows.Close()
	return withTemplateTags(ctx, r.db, tasks)
}

func withTemplateTags(ctx context.Context, q queryer, tasks []model.Task) ([]model.TemplateTask, error) {
	ids := make([]int64, len(tasks))
	for i, task := range tasks {
		ids[i] = task.ID
	}
	tags, err := taskTags.load(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	out := make([]model.TemplateTask, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, model.TemplateTask{Task: task, Tags: tagsOrEmpty(tags[task.ID])})
	}
	return out, nil
}

func (r *SQLiteRepository) GetTemplateTask(ctx context.Context, id int64) (model.TemplateTask, error) {
	return getTemplateTask(ctx, r.db, id)
}

func getTemplateTask(ctx context.Context, q queryer, id int64) (model.TemplateTask, error) {
	task, err := getTemplate(ctx, q, id)
	if err != nil {
		return model.TemplateTask{}, err
	}
	out, err := withTemplateTags(ctx, q, []model.Task{task})
	if err != nil {
		return model.TemplateTask{}, err
	}
	return out[0], nil
}

func (r *SQLiteRepository) CreateTemplateTask(ctx context.Context, in TemplateWrite) (model.TemplateTask, error) {
	if err := model.ValidateName(in.Name); err != nil {
		return model.TemplateTask{}, err
	}
	var out model.TemplateTask
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		id, err := r.insertTask(ctx, tx, in.Name, model.TaskTypeTemplate)
		if err != nil {
			return err
		}
		if err := taskTags.replace(ctx, tx, id, in.TagIDs); err != nil {
			return err
		}
		out, err = getTemplateTask(ctx, tx, id)
		return err
	})
	return out, err
}

// UpdateTemplateTask renames the template and replaces its tag set.
func (r *SQLiteRepository) UpdateTemplateTask(ctx context.Context, id int64, in TemplateWrite) (model.TemplateTask, error) {
	if err := model.ValidateName(in.Name); err != nil {
		return model.TemplateTask{}, err
	}
	var out model.TemplateTask
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := getTemplate(ctx, tx, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `UPDATE tasks SET name = ?, updated_at = ? WHERE id = ?`, strings.TrimSpace(in.Name), r.stamp(), id); err != nil {
			return err
		}
		if err := taskTags.replace(ctx, tx, id, in.TagIDs); err != nil {
			return err
		}
		var err error
		out, err = getTemplateTask(ctx, tx, id)
		return err
	})
	return out, err
}

// LinkTemplateTask binds the template to the call with status open. Linking
// an already bound template keeps its current status.
func (r *SQLiteRepository) LinkTemplateTask(ctx context.Context, templateID, callID int64) (model.CallTask, error) {
	var out model.CallTask
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := getTemplate(ctx, tx, templateID); err != nil {
			return err
		}
		if err := callExists(ctx, tx, callID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO calls_tasks (call_id, task_id, status) VALUES (?, ?, ?)`,
			callID, templateID, model.TaskStatusOpen); err != nil {
			return err
		}
		var err error
		out, err = getCallTask(ctx, tx, templateID, callID)
		return err
	})
	return out, err
}

// UnlinkTemplateTask removes the binding. Unlinking an unbound template is a
// no-op.
func (r *SQLiteRepository) UnlinkTemplateTask(ctx context.Context, templateID, callID int64) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := getTemplate(ctx, tx, templateID); err != nil {
			return err
		}
		if err := callExists(ctx, tx, callID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM calls_tasks WHERE call_id = ? AND task_id = ?`, callID, templateID)
		return err
	})
}
