package storage

import (
	"context"
	"errors"
	"time"

	"github.com/afreitas/revisio/internal/domain"
)

// ErrNotFound is returned when a referenced record or rule set is absent.
var ErrNotFound = errors.New("storage: not found")

// Store is the persistence contract the scheduling layer consumes. Every
// method is keyed by an opaque scope identifier; one scope's data is never
// visible to another.
type Store interface {
	// GetRules returns the scope's saved rule set in stored order, or
	// ErrNotFound when the scope has never saved one.
	GetRules(ctx context.Context, scope string) ([]domain.Rule, error)
	// ReplaceRules overwrites the scope's rule set wholesale. Concurrent
	// writers follow last-write-wins; there is no merging.
	ReplaceRules(ctx context.Context, scope string, rules []domain.Rule) error

	// AppendSession persists a new session and returns it with its
	// store-assigned ID and creation timestamp filled in.
	AppendSession(ctx context.Context, scope string, s domain.Session) (domain.Session, error)
	// GetSession returns one session by ID, or ErrNotFound.
	GetSession(ctx context.Context, scope, id string) (domain.Session, error)
	// SetReviewed updates only the reviewed flag and date of an existing
	// session. Returns ErrNotFound for an unknown ID.
	SetReviewed(ctx context.Context, scope, id string, reviewed bool, reviewedAt *time.Time) error
	// ListSessions returns the scope's sessions newest-created-first.
	ListSessions(ctx context.Context, scope string) ([]domain.Session, error)

	// Subscribe delivers the scope's full session snapshot, newest-created-
	// first, once on subscription and again after every change, until the
	// returned cancel func is called. At most one subscription is active per
	// scope; subscribing again cancels the previous one.
	Subscribe(scope string) (<-chan []domain.Session, func())

	// ListTopics returns the synced topic catalog across all sources,
	// sorted by name.
	ListTopics(ctx context.Context) ([]domain.Topic, error)
}
