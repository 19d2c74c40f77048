package storage

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/sandeepkv93/calldesk/internal/model"
)

const callColumns = `id, name, description, created_at, updated_at`

// ListCalls returns calls created at or after since, newest first, with
// their active tags.
func (r *SQLiteRepository) ListCalls(ctx context.Context, since time.Time) ([]model.Call, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+callColumns+` FROM calls
		WHERE created_at >= ?
		ORDER BY created_at DESC, id DESC`, formatTime(since))
	if err != nil {
		return nil, err
	}
	calls := make([]model.Call, 0)
	for rows.Next() {
		call, err := scanCall(rows)
		if err != nil {
			_ = rows.Close()
			return nil, err
		}
		calls = append(calls, call)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	_ = rows.Close()

	ids := make([]int64, len(calls))
	for i, call := range calls {
		ids[i] = call.ID
	}
	tags, err := callTags.load(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}
	for i := range calls {
		calls[i].Tags = tagsOrEmpty(tags[calls[i].ID])
	}
	return calls, nil
}

func (r *SQLiteRepository) GetCall(ctx context.Context, id int64) (model.CallDetail, error) {
	return getCall(ctx, r.db, id)
}

func getCall(ctx context.Context, q queryer, id int64) (model.CallDetail, error) {
	row := q.QueryRowContext(ctx, `SELECT `+callColumns+` FROM calls WHERE id = ?`, id)
	call, err := scanCall(row)
	if err != nil {
		return model.CallDetail{}, notFound(err)
	}
	tags, err := callTags.load(ctx, q, []int64{id})
	if err != nil {
		return model.CallDetail{}, err
	}
	call.Tags = tagsOrEmpty(tags[id])

	bound, err := listCallTasks(ctx, q, id)
	if err != nil {
		return model.CallDetail{}, err
	}
	out := model.CallDetail{Call: call, Tasks: make([]model.Task, 0, len(bound))}
	for _, task := range bound {
		out.Tasks = append(out.Tasks, task.Task)
	}
	return out, nil
}

// CreateCall stores the call and attaches the active subset of in.TagIDs.
// A blank description is stored as null.
func (r *SQLiteRepository) CreateCall(ctx context.Context, in CallWrite) (model.CallDetail, error) {
	if err := model.ValidateName(in.Name); err != nil {
		return model.CallDetail{}, err
	}
	var out model.CallDetail
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		now := r.stamp()
		res, err := tx.ExecContext(ctx, `
			INSERT INTO calls (name, description, created_at, updated_at)
			VALUES (?, ?, ?, ?)`, strings.TrimSpace(in.Name), nullString(in.Description), now, now)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		if err := callTags.replace(ctx, tx, id, in.TagIDs); err != nil {
			return err
		}
		out, err = getCall(ctx, tx, id)
		return err
	})
	return out, err
}

// UpdateCall replaces name, description and tags. A null or blank
// description clears it.
func (r *SQLiteRepository) UpdateCall(ctx context.Context, id int64, in CallWrite) (model.CallDetail, error) {
	if err := model.ValidateName(in.Name); err != nil {
		return model.CallDetail{}, err
	}
	var out model.CallDetail
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE calls SET name = ?, description = ?, updated_at = ?
			WHERE id = ?`, strings.TrimSpace(in.Name), nullString(in.Description), r.stamp(), id)
		if err != nil {
			return err
		}
		if err := checkRowsAffected(res); err != nil {
			return err
		}
		if err := callTags.replace(ctx, tx, id, in.TagIDs); err != nil {
			return err
		}
		out, err = getCall(ctx, tx, id)
		return err
	})
	return out, err
}
