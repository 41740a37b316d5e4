package domain

import "time"

// Status classifies a session relative to the current date.
type Status string

const (
	StatusDone    Status = "done"
	StatusOverdue Status = "overdue"
	StatusDueSoon Status = "dueSoon"
	StatusOpen    Status = "open"
)

// Rule maps a closed accuracy band [Min, Max] to the number of days until
// the next review. A rule set is an ordered sequence of rules; bands may
// overlap and are evaluated in stored order.
type Rule struct {
	Min  int `koanf:"min" validate:"gte=0,lte=100"`
	Max  int `koanf:"max" validate:"gte=0,lte=100,gtefield=Min"`
	Days int `koanf:"days" validate:"gte=0"`
}

// Session represents one logged study session and its scheduling state.
// Accuracy, IntervalDays and NextReviewAt are derived from the rule set in
// effect at creation time and never recomputed afterwards.
type Session struct {
	ID               string
	Scope            string
	Topic            string
	StudiedAt        time.Time // calendar date, midnight UTC
	QuestionsTotal   int
	QuestionsCorrect int
	Accuracy         int       // 0..100
	IntervalDays     int
	NextReviewAt     time.Time // StudiedAt + IntervalDays days
	Reviewed         bool
	ReviewedAt       *time.Time // nil while not reviewed
	CreatedAt        time.Time
}

// Topic is a study subject synced from a catalog source.
type Topic struct {
	Name     string
	Notes    string
	SourceID int64
}
