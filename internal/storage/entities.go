package storage

// CallWrite is the full replacement payload for a call.
type CallWrite struct {
	Name        string
	Description *string
	TagIDs      []int64
}

// TagWrite is the full replacement payload for a tag.
type TagWrite struct {
	Name    string
	ColorID int
}

// TemplateWrite is the full replacement payload for a template task.
type TemplateWrite struct {
	Name   string
	TagIDs []int64
}
