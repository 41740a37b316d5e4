package schedule

import (
	"math"
	"strings"
	"time"

	"github.com/afreitas/revisio/internal/domain"
)

// SessionInput carries the raw form values for one logged study session.
type SessionInput struct {
	Topic            string
	StudiedAt        string // 2006-01-02
	QuestionsTotal   int
	QuestionsCorrect int
}

// NewSession validates the input and derives the scheduling fields from the
// rules in effect right now. Checks run in a fixed order and the first
// failure wins, so the same malformed input always reports the same error.
// The ID and CreatedAt fields are left for the store to assign.
func NewSession(in SessionInput, rules []domain.Rule) (domain.Session, error) {
	studiedAt, err := ParseDate(strings.TrimSpace(in.StudiedAt))
	if err != nil {
		return domain.Session{}, &ValidationError{Field: "studiedAt", Err: ErrInvalidDate}
	}
	topic := strings.TrimSpace(in.Topic)
	if topic == "" {
		return domain.Session{}, &ValidationError{Field: "topic", Err: ErrMissingTopic}
	}
	if in.QuestionsTotal <= 0 {
		return domain.Session{}, &ValidationError{Field: "questionsTotal", Err: ErrInvalidTotal}
	}
	if in.QuestionsCorrect < 0 || in.QuestionsCorrect > in.QuestionsTotal {
		return domain.Session{}, &ValidationError{Field: "questionsCorrect", Err: ErrInvalidCorrect}
	}

	accuracy := int(math.Round(100 * float64(in.QuestionsCorrect) / float64(in.QuestionsTotal)))
	days := SelectIntervalDays(accuracy, rules)

	return domain.Session{
		Topic:            topic,
		StudiedAt:        studiedAt,
		QuestionsTotal:   in.QuestionsTotal,
		QuestionsCorrect: in.QuestionsCorrect,
		Accuracy:         accuracy,
		IntervalDays:     days,
		NextReviewAt:     AddDays(studiedAt, days),
	}, nil
}

// ToggleReviewed flips the reviewed flag. Transitioning to reviewed stamps
// ReviewedAt with now's calendar date; transitioning back clears it. The
// input session is not mutated; all other fields carry over unchanged.
func ToggleReviewed(s domain.Session, now time.Time) domain.Session {
	if s.Reviewed {
		s.Reviewed = false
		s.ReviewedAt = nil
		return s
	}
	at := Date(now)
	s.Reviewed = true
	s.ReviewedAt = &at
	return s
}
