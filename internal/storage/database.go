package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Registers the sqlite driver

	"github.com/afreitas/revisio/internal/domain"
	"github.com/afreitas/revisio/internal/schedule"
)

// createdAtLayout is fixed width, unlike RFC3339Nano which trims trailing
// fractional zeros, so created_at strings sort lexicographically in
// chronological order.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

// DB is the sqlite-backed Store implementation.
type DB struct {
	conn *sql.DB

	mu       sync.Mutex
	subs     map[string]*subscription
	notifyMu sync.Mutex
}

var _ Store = (*DB)(nil)

// Open creates a new database connection and ensures the schema is up to date.
func Open(dsn string) (*DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &DB{conn: db, subs: make(map[string]*subscription)}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// GetRules returns the scope's saved rule set in stored order.
func (db *DB) GetRules(ctx context.Context, scope string) ([]domain.Rule, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT min, max, days
		FROM rules WHERE scope = ?
		ORDER BY position
	`, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to get rules for scope %s: %w", scope, err)
	}
	defer rows.Close()

	var rules []domain.Rule
	for rows.Next() {
		var r domain.Rule
		if err := rows.Scan(&r.Min, &r.Max, &r.Days); err != nil {
			return nil, fmt.Errorf("failed to scan rule row: %w", err)
		}
		rules = append(rules, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rule rows: %w", err)
	}
	if len(rules) == 0 {
		return nil, ErrNotFound
	}
	return rules, nil
}

// ReplaceRules overwrites the scope's rule set wholesale in one transaction.
func (db *DB) ReplaceRules(ctx context.Context, scope string, rules []domain.Rule) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin rules transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM rules WHERE scope = ?`, scope); err != nil {
		return fmt.Errorf("failed to clear rules for scope %s: %w", scope, err)
	}
	for i, r := range rules {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO rules (scope, position, min, max, days)
			VALUES (?, ?, ?, ?, ?)
		`, scope, i, r.Min, r.Max, r.Days); err != nil {
			return fmt.Errorf("failed to insert rule %d for scope %s: %w", i, scope, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit rules for scope %s: %w", scope, err)
	}
	return nil
}

// AppendSession assigns the session an ID and creation timestamp, persists
// it, and notifies the scope's subscriber.
func (db *DB) AppendSession(ctx context.Context, scope string, s domain.Session) (domain.Session, error) {
	s.ID = uuid.NewString()
	s.Scope = scope
	s.CreatedAt = time.Now().UTC()

	var reviewedAt sql.NullString
	if s.ReviewedAt != nil {
		reviewedAt = sql.NullString{String: s.ReviewedAt.Format(schedule.DateLayout), Valid: true}
	}

	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO sessions (id, scope, topic, studied_at, questions_total, questions_correct,
			accuracy, interval_days, next_review_at, reviewed, reviewed_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		s.ID,
		s.Scope,
		s.Topic,
		s.StudiedAt.Format(schedule.DateLayout),
		s.QuestionsTotal,
		s.QuestionsCorrect,
		s.Accuracy,
		s.IntervalDays,
		s.NextReviewAt.Format(schedule.DateLayout),
		s.Reviewed,
		reviewedAt,
		s.CreatedAt.Format(createdAtLayout),
	)
	if err != nil {
		return domain.Session{}, fmt.Errorf("failed to insert session %s: %w", s.ID, err)
	}

	db.notify(scope)
	return s, nil
}

// GetSession returns one session by ID within the scope.
func (db *DB) GetSession(ctx context.Context, scope, id string) (domain.Session, error) {
	row := db.conn.QueryRowContext(ctx, `
		SELECT id, scope, topic, studied_at, questions_total, questions_correct,
			accuracy, interval_days, next_review_at, reviewed, reviewed_at, created_at
		FROM sessions WHERE scope = ? AND id = ?
	`, scope, id)

	s, err := scanSession(row)
	if err == sql.ErrNoRows {
		return domain.Session{}, ErrNotFound
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("failed to get session %s: %w", id, err)
	}
	return s, nil
}

// SetReviewed updates only the reviewed flag and date of an existing
// session, leaving the frozen scheduling fields untouched.
func (db *DB) SetReviewed(ctx context.Context, scope, id string, reviewed bool, reviewedAt *time.Time) error {
	var at sql.NullString
	if reviewedAt != nil {
		at = sql.NullString{String: reviewedAt.Format(schedule.DateLayout), Valid: true}
	}

	res, err := db.conn.ExecContext(ctx, `
		UPDATE sessions
		SET reviewed = ?, reviewed_at = ?
		WHERE scope = ? AND id = ?
	`, reviewed, at, scope, id)
	if err != nil {
		return fmt.Errorf("failed to update reviewed for session %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update of session %s: %w", id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	db.notify(scope)
	return nil
}

// ListSessions returns the scope's sessions newest-created-first. An empty
// scope yields an empty slice, not an error.
func (db *DB) ListSessions(ctx context.Context, scope string) ([]domain.Session, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, scope, topic, studied_at, questions_total, questions_correct,
			accuracy, interval_days, next_review_at, reviewed, reviewed_at, created_at
		FROM sessions WHERE scope = ?
		ORDER BY created_at DESC, rowid DESC
	`, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions for scope %s: %w", scope, err)
	}
	defer rows.Close()

	sessions := []domain.Session{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session row: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read session rows: %w", err)
	}
	return sessions, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSession(sc scanner) (domain.Session, error) {
	var (
		s          domain.Session
		studiedAt  string
		nextReview string
		reviewedAt sql.NullString
		createdAt  string
	)
	if err := sc.Scan(
		&s.ID,
		&s.Scope,
		&s.Topic,
		&studiedAt,
		&s.QuestionsTotal,
		&s.QuestionsCorrect,
		&s.Accuracy,
		&s.IntervalDays,
		&nextReview,
		&s.Reviewed,
		&reviewedAt,
		&createdAt,
	); err != nil {
		return domain.Session{}, err
	}

	var err error
	if s.StudiedAt, err = schedule.ParseDate(studiedAt); err != nil {
		return domain.Session{}, fmt.Errorf("bad studied_at %q: %w", studiedAt, err)
	}
	if s.NextReviewAt, err = schedule.ParseDate(nextReview); err != nil {
		return domain.Session{}, fmt.Errorf("bad next_review_at %q: %w", nextReview, err)
	}
	if reviewedAt.Valid {
		at, err := schedule.ParseDate(reviewedAt.String)
		if err != nil {
			return domain.Session{}, fmt.Errorf("bad reviewed_at %q: %w", reviewedAt.String, err)
		}
		s.ReviewedAt = &at
	}
	if s.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return domain.Session{}, fmt.Errorf("bad created_at %q: %w", createdAt, err)
	}
	return s, nil
}
