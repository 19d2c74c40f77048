package model

import (
	"cmp"
	"slices"
)

type Call struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   Timestamp `json:"created_at"`
	UpdatedAt   Timestamp `json:"updated_at"`
	Tags        []Tag     `json:"tags"`
}

// CallDetail is the single-call read model, which also carries the call's tasks.
type CallDetail struct {
	Call
	Tasks []Task `json:"tasks"`
}

// DescriptionText returns the description or "" when it is null.
func (c Call) DescriptionText() string {
	if c.Description == nil {
		return ""
	}
	return *c.Description
}

func (c Call) TagIDs() []int64 {
	return tagIDs(c.Tags)
}

// SortCallsNewestFirst returns a copy of calls ordered by created_at
// descending. Calls created at the same instant keep their input order.
func SortCallsNewestFirst(calls []Call) []Call {
	out := slices.Clone(calls)
	slices.SortStableFunc(out, func(a, b Call) int {
		return cmp.Compare(b.CreatedAt.UnixNano(), a.CreatedAt.UnixNano())
	})
	return out
}
