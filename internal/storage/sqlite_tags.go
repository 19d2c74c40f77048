package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandeepkv93/calldesk/internal/model"
)

const tagColumns = `id, name, color_id, is_active, created_at, updated_at`

func (r *SQLiteRepository) ListTags(ctx context.Context) ([]model.Tag, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+tagColumns+` FROM tags WHERE is_active = 1 ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Tag, 0)
	for rows.Next() {
		tag, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, tag)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetTag(ctx context.Context, id int64) (model.Tag, error) {
	return getTag(ctx, r.db, id)
}

func getTag(ctx context.Context, q queryer, id int64) (model.Tag, error) {
	row := q.QueryRowContext(ctx, `SELECT `+tagColumns+` FROM tags WHERE id = ? AND is_active = 1`, id)
	tag, err := scanTag(row)
	if err != nil {
		return model.Tag{}, notFound(err)
	}
	return tag, nil
}

func (r *SQLiteRepository) CreateTag(ctx context.Context, in TagWrite) (model.Tag, error) {
	if err := model.ValidateName(in.Name); err != nil {
		return model.Tag{}, err
	}
	now := r.stamp()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO tags (name, color_id, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		strings.TrimSpace(in.Name), model.TagColorFor(in.ColorID).ID, boolInt(true), now, now,
	)
	if err != nil {
		return model.Tag{}, constraintError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Tag{}, err
	}
	return r.GetTag(ctx, id)
}

func (r *SQLiteRepository) UpdateTag(ctx context.Context, id int64, in TagWrite) (model.Tag, error) {
	if err := model.ValidateName(in.Name); err != nil {
		return model.Tag{}, err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE tags SET name = ?, color_id = ?, updated_at = ?
		WHERE id = ? AND is_active = 1`,
		strings.TrimSpace(in.Name), model.TagColorFor(in.ColorID).ID, r.stamp(), id,
	)
	if err != nil {
		return model.Tag{}, constraintError(err)
	}
	if err := checkRowsAffected(res); err != nil {
		return model.Tag{}, err
	}
	return r.GetTag(ctx, id)
}

// DeactivateTag hides the tag. Existing associations stay in place but
// every read filters inactive tags out.
func (r *SQLiteRepository) DeactivateTag(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE tags SET is_active = 0, updated_at = ? WHERE id = ? AND is_active = 1`, r.stamp(), id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

// TagSuggestions returns the tag with the active template tasks carrying it.
func (r *SQLiteRepository) TagSuggestions(ctx context.Context, id int64) (model.TagSuggestions, error) {
	tag, err := r.GetTag(ctx, id)
	if err != nil {
		return model.TagSuggestions{}, err
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT t.id, t.name, t.type, t.is_active, t.created_at, t.updated_at
		FROM tasks t
		JOIN tasks_tags tt ON tt.task_id = t.id
		WHERE tt.tag_id = ? AND t.is_active = 1 AND t.type = ?
		ORDER BY t.id`, id, model.TaskTypeTemplate)
	if err != nil {
		return model.TagSuggestions{}, err
	}
	defer rows.Close()

	out := model.TagSuggestions{Tag: tag, SuggestedTasks: make([]model.Task, 0)}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return model.TagSuggestions{}, err
		}
		out.SuggestedTasks = append(out.SuggestedTasks, task)
	}
	return out, rows.Err()
}

// tagLink names an association table between an owner and tags.
type tagLink struct {
	table  string
	column string
}

var (
	callTags = tagLink{table: "calls_tags", column: "call_id"}
	taskTags = tagLink{table: "tasks_tags", column: "task_id"}
)

// replace swaps the owner's tags for the active subset of tagIDs.
func (l tagLink) replace(ctx context.Context, q queryer, ownerID int64, tagIDs []int64) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM `+l.table+` WHERE `+l.column+` = ?`, ownerID); err != nil {
		return fmt.Errorf("clear %s: %w", l.table, err)
	}
	for _, tagID := range tagIDs {
		_, err := q.ExecContext(ctx, `
			INSERT OR IGNORE INTO `+l.table+` (`+l.column+`, tag_id)
			SELECT ?, id FROM tags WHERE id = ? AND is_active = 1`, ownerID, tagID)
		if err != nil {
			return fmt.Errorf("attach tag %d: %w", tagID, err)
		}
	}
	return nil
}

// load returns the active tags of each owner keyed by owner id.
func (l tagLink) load(ctx context.Context, q queryer, ownerIDs []int64) (map[int64][]model.Tag, error) {
	out := make(map[int64][]model.Tag, len(ownerIDs))
	if len(ownerIDs) == 0 {
		return out, nil
	}
	rows, err := q.QueryContext(ctx, `
		SELECT x.`+l.column+`, t.id, t.name, t.color_id, t.is_active, t.created_at, t.updated_at
		FROM `+l.table+` x
		JOIN tags t ON t.id = x.tag_id
		WHERE t.is_active = 1 AND x.`+l.column+` IN (`+placeholders(len(ownerIDs))+`)
		ORDER BY t.id`, int64Args(ownerIDs)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var ownerID int64
		tag, err := scanTag(ownerScanner{rows: rows, owner: &ownerID})
		if err != nil {
			return nil, err
		}
		out[ownerID] = append(out[ownerID], tag)
	}
	return out, rows.Err()
}

// ownerScanner prepends the owner id column to a tag scan.
type ownerScanner struct {
	rows  scanner
	owner *int64
}

func (s ownerScanner) Scan(dest ...any) error {
	return s.rows.Scan(append([]any{s.owner}, dest...)...)
}

func tagsOrEmpty(tags []model.Tag) []model.Tag {
	if tags == nil {
		return []model.Tag{}
	}
	return tags
}
