package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidLeadTime   = errors.New("model: invalid reminder lead time")
	ErrLeadsWithoutStart = errors.New("model: lead times require a start time")
)

type Task struct {
	ID          string
	Title       string
	Notes       string
	Completed   bool
	StartAt     *time.Time
	LeadMinutes []int
	CreatedAt   time.Time
	CompletedAt *time.Time
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return errors.New("model: task title is required")
	}
	if t.CreatedAt.IsZero() {
		return errors.New("model: task created_at is required")
	}
	if len(t.LeadMinutes) > 0 && t.StartAt == nil {
		return ErrLeadsWithoutStart
	}
	for _, lead := range t.LeadMinutes {
		if lead <= 0 {
			return fmt.Errorf("%w: %d", ErrInvalidLeadTime, lead)
		}
	}
	if t.Completed && t.CompletedAt == nil {
		return errors.New("model: completed_at is required when task is completed")
	}
	if !t.Completed && t.CompletedAt != nil {
		return errors.New("model: completed_at must be nil when task is not completed")
	}
	return nil
}

// NormalizeLeads deduplicates and sorts lead times ascending, dropping
// non-positive values.
func NormalizeLeads(leads []int) []int {
	seen := make(map[int]bool, len(leads))
	out := make([]int, 0, len(leads))
	for _, lead := range leads {
		if lead <= 0 || seen[lead] {
			continue
		}
		seen[lead] = true
		out = append(out, lead)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j] < out[j-1]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
