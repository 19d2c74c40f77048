package model

import (
	"errors"
	"testing"
	"time"
)

func TestSortCallsNewestFirst(t *testing.T) {
	t1 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	t3 := t2.Add(time.Hour)
	inputs := [][]Call{
		{{ID: 1, CreatedAt: NewTimestamp(t1)}, {ID: 2, CreatedAt: NewTimestamp(t2)}, {ID: 3, CreatedAt: NewTimestamp(t3)}},
		{{ID: 3, CreatedAt: NewTimestamp(t3)}, {ID: 1, CreatedAt: NewTimestamp(t1)}, {ID: 2, CreatedAt: NewTimestamp(t2)}},
		{{ID: 2, CreatedAt: NewTimestamp(t2)}, {ID: 3, CreatedAt: NewTimestamp(t3)}, {ID: 1, CreatedAt: NewTimestamp(t1)}},
	}
	for _, in := range inputs {
		got := SortCallsNewestFirst(in)
		if got[0].ID != 3 || got[1].ID != 2 || got[2].ID != 1 {
			t.Fatalf("order = [%d %d %d], want [3 2 1]", got[0].ID, got[1].ID, got[2].ID)
		}
	}
}

func TestSortCallsNewestFirstIsStable(t *testing.T) {
	at := NewTimestamp(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	in := []Call{{ID: 7, CreatedAt: at}, {ID: 4, CreatedAt: at}, {ID: 9, CreatedAt: at}}
	got := SortCallsNewestFirst(in)
	if got[0].ID != 7 || got[1].ID != 4 || got[2].ID != 9 {
		t.Fatalf("equal timestamps reordered: %+v", got)
	}
	if &got[0] == &in[0] {
		t.Fatal("expected a copy")
	}
}

func TestValidateDays(t *testing.T) {
	for _, ok := range []int{1, 7, 30} {
		if err := ValidateDays(ok); err != nil {
			t.Fatalf("ValidateDays(%d): %v", ok, err)
		}
	}
	for _, bad := range []int{0, -3, 31} {
		if err := ValidateDays(bad); !errors.Is(err, ErrInvalidDays) {
			t.Fatalf("ValidateDays(%d) = %v, want ErrInvalidDays", bad, err)
		}
	}
	if ClampDays(0) != 1 || ClampDays(45) != 30 || ClampDays(12) != 12 {
		t.Fatal("ClampDays out of range")
	}
}

func TestValidateName(t *testing.T) {
	if err := ValidateName(" \t "); !errors.Is(err, ErrNameRequired) {
		t.Fatalf("blank name: %v", err)
	}
	if err := ValidateName("Billing"); err != nil {
		t.Fatalf("valid name: %v", err)
	}
}

func TestCallDescriptionText(t *testing.T) {
	if got := (Call{}).DescriptionText(); got != "" {
		t.Fatalf("nil description = %q", got)
	}
	desc := "Customer asked about *invoices*"
	if got := (Call{Description: &desc}).DescriptionText(); got != desc {
		t.Fatalf("description = %q", got)
	}
}
