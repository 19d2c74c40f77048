package model

import (
	"errors"
	"fmt"
	"strings"
)

const (
	MinDays     = 1
	MaxDays     = 30
	DefaultDays = 7
)

var (
	ErrNameRequired = errors.New("model: name is required")
	ErrInvalidDays  = errors.New("model: days must be between 1 and 30")
)

// ValidateName is the only hard validation forms apply.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameRequired
	}
	return nil
}

func ValidateDays(days int) error {
	if days < MinDays || days > MaxDays {
		return fmt.Errorf("%w, got %d", ErrInvalidDays, days)
	}
	return nil
}

// ClampDays keeps a window adjustment inside the allowed range.
func ClampDays(days int) int {
	return min(max(days, MinDays), MaxDays)
}
