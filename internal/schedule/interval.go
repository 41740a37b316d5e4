package schedule

import "github.com/afreitas/revisio/internal/domain"

// FallbackIntervalDays is returned when no band covers the accuracy.
const FallbackIntervalDays = 7

// SelectIntervalDays returns the review interval for the given accuracy.
// Accuracy is clamped into [0,100] and bands are evaluated in stored order;
// the first band containing the accuracy wins, so overlapping bands are
// resolved by order, not by narrowest match. Accuracies outside every band
// fall back to FallbackIntervalDays. Total: never fails.
func SelectIntervalDays(accuracy int, rules []domain.Rule) int {
	a := clamp(accuracy, 0, 100)
	for _, r := range rules {
		if a >= r.Min && a <= r.Max {
			return r.Days
		}
	}
	return FallbackIntervalDays
}
