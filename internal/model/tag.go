package model

// Tag classifies calls and template tasks.
type Tag struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	ColorID   int       `json:"color_id"`
	IsActive  bool      `json:"is_active"`
	CreatedAt Timestamp `json:"created_at"`
	UpdatedAt Timestamp `json:"updated_at"`
}

// Color resolves the tag's palette entry, falling back to gray.
func (t Tag) Color() TagColor {
	return TagColorFor(t.ColorID)
}

// TagSuggestions is a tag together with the template tasks it suggests.
type TagSuggestions struct {
	Tag
	SuggestedTasks []Task `json:"suggested_tasks"`
}

// UniqueTags drops repeated tag ids, keeping first occurrence order.
func UniqueTags(tags []Tag) []Tag {
	seen := make(map[int64]struct{}, len(tags))
	out := make([]Tag, 0, len(tags))
	for _, tag := range tags {
		if _, ok := seen[tag.ID]; ok {
			continue
		}
		seen[tag.ID] = struct{}{}
		out = append(out, tag)
	}
	return out
}

func tagIDs(tags []Tag) []int64 {
	out := make([]int64, 0, len(tags))
	for _, tag := range UniqueTags(tags) {
		out = append(out, tag.ID)
	}
	return out
}
