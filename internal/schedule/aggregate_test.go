package schedule

import (
	"testing"

	"github.com/afreitas/revisio/internal/domain"
)

func TestAggregate(t *testing.T) {
	now := day(2024, 3, 15)

	t.Run("empty collection has no average", func(t *testing.T) {
		k := Aggregate(nil, now)
		if k.AverageAccuracy != nil {
			t.Errorf("AverageAccuracy = %v, want nil", *k.AverageAccuracy)
		}
		if k.OverdueCount != 0 || k.DueSoonCount != 0 {
			t.Errorf("counts = %d/%d, want 0/0", k.OverdueCount, k.DueSoonCount)
		}
	})

	t.Run("counts and average", func(t *testing.T) {
		sessions := []domain.Session{
			{Topic: "a", Accuracy: 80, NextReviewAt: day(2024, 3, 10)},                 // overdue
			{Topic: "b", Accuracy: 60, NextReviewAt: day(2024, 3, 18)},                 // dueSoon
			{Topic: "c", Accuracy: 90, NextReviewAt: day(2024, 4, 20)},                 // open
			{Topic: "d", Accuracy: 50, NextReviewAt: day(2024, 3, 1), Reviewed: true},  // done
		}
		k := Aggregate(sessions, now)
		if k.OverdueCount != 1 {
			t.Errorf("OverdueCount = %d, want 1", k.OverdueCount)
		}
		if k.DueSoonCount != 1 {
			t.Errorf("DueSoonCount = %d, want 1", k.DueSoonCount)
		}
		if k.AverageAccuracy == nil || *k.AverageAccuracy != 70 {
			t.Errorf("AverageAccuracy = %v, want 70", k.AverageAccuracy)
		}
	})

	t.Run("average rounds", func(t *testing.T) {
		sessions := []domain.Session{
			{Accuracy: 80, NextReviewAt: day(2024, 4, 20)},
			{Accuracy: 60, NextReviewAt: day(2024, 4, 20)},
			{Accuracy: 71, NextReviewAt: day(2024, 4, 20)},
		}
		k := Aggregate(sessions, now)
		if k.AverageAccuracy == nil || *k.AverageAccuracy != 70 {
			// mean of 80, 60, 71 is 70.33
			t.Errorf("AverageAccuracy = %v, want 70", k.AverageAccuracy)
		}
	})
}

func TestFilter(t *testing.T) {
	now := day(2024, 3, 15)
	sessions := []domain.Session{
		{Topic: "Cardio basics", Accuracy: 80, NextReviewAt: day(2024, 3, 10)},  // overdue
		{Topic: "Cardio advanced", Accuracy: 60, NextReviewAt: day(2024, 4, 20)}, // open
		{Topic: "Neurology", Accuracy: 90, NextReviewAt: day(2024, 3, 1)},        // overdue
	}

	testCases := []struct {
		name     string
		spec     FilterSpec
		expected []string
	}{
		{name: "no filter keeps all", spec: FilterSpec{}, expected: []string{"Cardio basics", "Cardio advanced", "Neurology"}},
		{name: "status all keeps all", spec: FilterSpec{Status: "all"}, expected: []string{"Cardio basics", "Cardio advanced", "Neurology"}},
		{name: "by status", spec: FilterSpec{Status: "overdue"}, expected: []string{"Cardio basics", "Neurology"}},
		{name: "by text is case-insensitive", spec: FilterSpec{Text: "cardio"}, expected: []string{"Cardio basics", "Cardio advanced"}},
		{name: "status and text are conjunctive", spec: FilterSpec{Status: "overdue", Text: "cardio"}, expected: []string{"Cardio basics"}},
		{name: "whitespace text is a no-op", spec: FilterSpec{Text: "   "}, expected: []string{"Cardio basics", "Cardio advanced", "Neurology"}},
		{name: "no match", spec: FilterSpec{Status: "dueSoon", Text: "cardio"}, expected: []string{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Filter(sessions, tc.spec, now)
			if len(got) != len(tc.expected) {
				t.Fatalf("got %d sessions, want %d", len(got), len(tc.expected))
			}
			for i, s := range got {
				if s.Topic != tc.expected[i] {
					t.Errorf("session %d = %q, want %q", i, s.Topic, tc.expected[i])
				}
			}
		})
	}

	t.Run("input is not mutated", func(t *testing.T) {
		before := sessions[0]
		Filter(sessions, FilterSpec{Status: "overdue"}, now)
		if sessions[0] != before {
			t.Error("Filter mutated the input slice")
		}
	})
}
