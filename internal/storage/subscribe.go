package storage

import (
	"context"
	"log/slog"

	"github.com/afreitas/revisio/internal/domain"
)

type subscription struct {
	ch   chan []domain.Session
	done chan struct{}
}

// Subscribe registers the scope's single active subscriber. The channel
// carries the scope's full session snapshot (never a delta): once right
// away, then again after every change, with unconsumed snapshots coalesced
// to the latest. Subscribing to a scope cancels its previous subscription,
// so a scope switch never leaks stale updates into the new view.
func (db *DB) Subscribe(scope string) (<-chan []domain.Session, func()) {
	sub := &subscription{
		ch:   make(chan []domain.Session, 1),
		done: make(chan struct{}),
	}

	db.mu.Lock()
	if prev, ok := db.subs[scope]; ok {
		close(prev.done)
	}
	db.subs[scope] = sub
	db.mu.Unlock()

	db.notify(scope)

	cancel := func() {
		db.mu.Lock()
		defer db.mu.Unlock()
		select {
		case <-sub.done:
			// Already cancelled, or displaced by a newer subscription.
		default:
			close(sub.done)
			if db.subs[scope] == sub {
				delete(db.subs, scope)
			}
		}
	}
	return sub.ch, cancel
}

// notify queries the scope's current snapshot and hands it to the active
// subscriber, if any. Called synchronously after every session mutation.
// notifyMu serializes the query with the delivery so a slower, older
// snapshot can never displace a newer one.
func (db *DB) notify(scope string) {
	db.notifyMu.Lock()
	defer db.notifyMu.Unlock()

	db.mu.Lock()
	sub, ok := db.subs[scope]
	db.mu.Unlock()
	if !ok {
		return
	}

	sessions, err := db.ListSessions(context.Background(), scope)
	if err != nil {
		slog.Error("failed to build subscription snapshot", "scope", scope, "error", err)
		return
	}

	select {
	case <-sub.done:
		return
	default:
	}
	// The buffer holds at most one snapshot; dropping an unconsumed stale
	// one keeps the subscriber on the latest view without blocking writes.
	select {
	case <-sub.ch:
	default:
	}
	select {
	case sub.ch <- sessions:
	default:
	}
}
