package web

import (
	"github.com/afreitas/revisio/internal/domain"
	"github.com/afreitas/revisio/internal/schedule"
)

type notice struct {
	Kind string // "ok" or "err"
	Text string
}

type statusOption struct {
	Value string
	Label string
}

type kpisView struct {
	OverdueCount int
	DueSoonCount int
	AverageText  string
}

type sessionRowView struct {
	ID           string
	Topic        string
	StudiedAt    string
	Accuracy     int
	NextReviewAt string
	Reviewed     bool
	StatusLabel  string
	BadgeClass   string
}

type dashboardView struct {
	KPIs          kpisView
	Filter        schedule.FilterSpec
	StatusOptions []statusOption
	Sessions      []sessionRowView
}

type sessionFormView struct {
	Topic            string
	StudiedAt        string
	QuestionsTotal   string
	QuestionsCorrect string
	Topics           []string
	Notice           *notice
}

type previewView struct {
	Message      string
	Accuracy     int
	IntervalDays int
	NextReviewAt string
}

type rulesView struct {
	Rules       []domain.Rule
	FieldErrors []string
	Notice      *notice
}

type rulesPreviewView struct {
	Accuracy     int
	IntervalDays int
	Fallback     bool
}

type sourceRowView struct {
	ID          int64
	Path        string
	Type        string
	LastScanned string
}

type sourceListView struct {
	Sources []sourceRowView
	Notice  string
}
