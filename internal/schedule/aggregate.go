package schedule

import (
	"math"
	"strings"
	"time"

	"github.com/afreitas/revisio/internal/domain"
)

// KPIs summarizes a scope's sessions for the dashboard header.
type KPIs struct {
	OverdueCount    int
	DueSoonCount    int
	AverageAccuracy *int // nil when there are no sessions
}

// Aggregate computes the dashboard KPIs over all sessions. Reviewed
// sessions count toward the accuracy average but never toward the overdue
// or due-soon buckets.
func Aggregate(sessions []domain.Session, now time.Time) KPIs {
	var k KPIs
	if len(sessions) == 0 {
		return k
	}
	sum := 0
	for _, s := range sessions {
		switch Classify(s, now) {
		case domain.StatusOverdue:
			k.OverdueCount++
		case domain.StatusDueSoon:
			k.DueSoonCount++
		}
		sum += s.Accuracy
	}
	avg := int(math.Round(float64(sum) / float64(len(sessions))))
	k.AverageAccuracy = &avg
	return k
}

// FilterSpec selects sessions for display. Status "all" or empty keeps
// every status; Text matches case-insensitively against the topic.
type FilterSpec struct {
	Status string
	Text   string
}

// Filter returns the sessions matching both predicates, preserving order.
// The input slice is never mutated.
func Filter(sessions []domain.Session, spec FilterSpec, now time.Time) []domain.Session {
	text := strings.ToLower(strings.TrimSpace(spec.Text))
	byStatus := spec.Status != "" && spec.Status != "all"

	out := make([]domain.Session, 0, len(sessions))
	for _, s := range sessions {
		if byStatus && Classify(s, now) != domain.Status(spec.Status) {
			continue
		}
		if text != "" && !strings.Contains(strings.ToLower(s.Topic), text) {
			continue
		}
		out = append(out, s)
	}
	return out
}
