package schedule

import (
	"testing"
	"time"

	"github.com/afreitas/revisio/internal/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestClassify(t *testing.T) {
	next := day(2024, 3, 15)
	base := domain.Session{Topic: "Arrhythmias", NextReviewAt: next}

	testCases := []struct {
		name     string
		session  domain.Session
		now      time.Time
		expected domain.Status
	}{
		{name: "due today is dueSoon", session: base, now: next, expected: domain.StatusDueSoon},
		{name: "one day past due is overdue", session: base, now: day(2024, 3, 16), expected: domain.StatusOverdue},
		{name: "due in seven days is dueSoon", session: base, now: day(2024, 3, 8), expected: domain.StatusDueSoon},
		{name: "due in eight days is open", session: base, now: day(2024, 3, 7), expected: domain.StatusOpen},
		{name: "long overdue", session: base, now: day(2024, 6, 1), expected: domain.StatusOverdue},
		{
			name:     "reviewed overrides overdue dates",
			session:  domain.Session{Topic: "x", NextReviewAt: next, Reviewed: true},
			now:      day(2024, 6, 1),
			expected: domain.StatusDone,
		},
		{
			// The comparison works on calendar days, so late-evening "now"
			// on the due date is still dueSoon, not overdue.
			name:     "time of day is ignored",
			session:  base,
			now:      time.Date(2024, 3, 15, 23, 59, 0, 0, time.UTC),
			expected: domain.StatusDueSoon,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(tc.session, tc.now)
			if got != tc.expected {
				t.Errorf("Classify() = %v, want %v", got, tc.expected)
			}
		})
	}
}

func TestStatusLabel(t *testing.T) {
	next := day(2024, 3, 15)
	s := domain.Session{Topic: "x", NextReviewAt: next}

	testCases := []struct {
		name     string
		session  domain.Session
		now      time.Time
		expected string
	}{
		{name: "reviewed", session: domain.Session{Reviewed: true}, now: next, expected: "reviewed"},
		{name: "due today", session: s, now: next, expected: "due today"},
		{name: "overdue by three", session: s, now: day(2024, 3, 18), expected: "overdue by 3 day(s)"},
		{name: "due in five", session: s, now: day(2024, 3, 10), expected: "due in 5 day(s)"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			status := Classify(tc.session, tc.now)
			got := StatusLabel(status, tc.session, tc.now)
			if got != tc.expected {
				t.Errorf("StatusLabel() = %q, want %q", got, tc.expected)
			}
		})
	}
}
