package schedule

import (
	"fmt"
	"time"

	"github.com/afreitas/revisio/internal/domain"
)

// DueSoonWindowDays is the span of the dueSoon bucket, in calendar days
// from today inclusive.
const DueSoonWindowDays = 7

// Classify derives a session's status relative to now. A reviewed session
// is done regardless of its dates; otherwise the calendar-day distance to
// NextReviewAt decides the bucket.
func Classify(s domain.Session, now time.Time) domain.Status {
	if s.Reviewed {
		return domain.StatusDone
	}
	diff := DaysBetween(now, s.NextReviewAt)
	switch {
	case diff < 0:
		return domain.StatusOverdue
	case diff <= DueSoonWindowDays:
		return domain.StatusDueSoon
	default:
		return domain.StatusOpen
	}
}

// StatusLabel renders the human label for a session's status. The day
// counts use the same calendar-day arithmetic as Classify.
func StatusLabel(status domain.Status, s domain.Session, now time.Time) string {
	if status == domain.StatusDone {
		return "reviewed"
	}
	diff := DaysBetween(now, s.NextReviewAt)
	switch {
	case diff < 0:
		return fmt.Sprintf("overdue by %d day(s)", -diff)
	case diff == 0:
		return "due today"
	default:
		return fmt.Sprintf("due in %d day(s)", diff)
	}
}
