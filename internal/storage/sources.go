package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/afreitas/revisio/internal/domain"
)

// Source is a topic-catalog origin, either a local path or a git URL.
type Source struct {
	ID          int64
	Path        string
	Type        string // "local" or "git"
	LastScanned sql.NullString
}

// InsertSource inserts a new source and returns its ID.
func (db *DB) InsertSource(ctx context.Context, path, sourceType string) (int64, error) {
	res, err := db.conn.ExecContext(ctx, `
		INSERT INTO sources (path, type)
		VALUES (?, ?)
	`, path, sourceType)
	if err != nil {
		return 0, fmt.Errorf("failed to insert source %s: %w", path, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for source %s: %w", path, err)
	}
	return id, nil
}

// FindSourceByPath retrieves a source by its path, or nil when unknown.
func (db *DB) FindSourceByPath(ctx context.Context, path string) (*Source, error) {
	var s Source
	row := db.conn.QueryRowContext(ctx, `
		SELECT id, path, type, last_scanned
		FROM sources WHERE path = ?
	`, path)

	err := row.Scan(&s.ID, &s.Path, &s.Type, &s.LastScanned)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find source by path %s: %w", path, err)
	}
	return &s, nil
}

// GetAllSources retrieves all stored sources.
func (db *DB) GetAllSources(ctx context.Context) ([]Source, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, path, type, last_scanned
		FROM sources
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get all sources: %w", err)
	}
	defer rows.Close()

	var sources []Source
	for rows.Next() {
		var s Source
		if err := rows.Scan(&s.ID, &s.Path, &s.Type, &s.LastScanned); err != nil {
			return nil, fmt.Errorf("failed to scan source row: %w", err)
		}
		sources = append(sources, s)
	}
	return sources, rows.Err()
}

// DeleteSource removes a source and its synced topics.
func (db *DB) DeleteSource(ctx context.Context, id int64) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin source delete: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM topics WHERE source_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete topics for source %d: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sources WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete source %d: %w", id, err)
	}
	return tx.Commit()
}

// UpdateSourceLastScanned stamps the source with the current time.
func (db *DB) UpdateSourceLastScanned(ctx context.Context, sourceID int64) error {
	_, err := db.conn.ExecContext(ctx, `
		UPDATE sources
		SET last_scanned = ?
		WHERE id = ?
	`, time.Now().UTC().Format(time.RFC3339), sourceID)
	if err != nil {
		return fmt.Errorf("failed to update last scanned for source ID %d: %w", sourceID, err)
	}
	return nil
}

// UpsertTopic inserts or refreshes one topic under a source.
func (db *DB) UpsertTopic(ctx context.Context, t domain.Topic) error {
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO topics (name, notes, source_id)
		VALUES (?, ?, ?)
		ON CONFLICT(name, source_id) DO UPDATE SET notes = excluded.notes
	`, t.Name, t.Notes, t.SourceID)
	if err != nil {
		return fmt.Errorf("failed to upsert topic %s: %w", t.Name, err)
	}
	return nil
}

// ListTopicsBySource returns the topics synced from one source.
func (db *DB) ListTopicsBySource(ctx context.Context, sourceID int64) ([]domain.Topic, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT name, notes, source_id
		FROM topics WHERE source_id = ?
	`, sourceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get topics for source ID %d: %w", sourceID, err)
	}
	defer rows.Close()

	var topics []domain.Topic
	for rows.Next() {
		var t domain.Topic
		if err := rows.Scan(&t.Name, &t.Notes, &t.SourceID); err != nil {
			return nil, fmt.Errorf("failed to scan topic row: %w", err)
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

// DeleteTopic removes one topic from a source.
func (db *DB) DeleteTopic(ctx context.Context, sourceID int64, name string) error {
	_, err := db.conn.ExecContext(ctx, `
		DELETE FROM topics
		WHERE source_id = ? AND name = ?
	`, sourceID, name)
	if err != nil {
		return fmt.Errorf("failed to delete topic %s: %w", name, err)
	}
	return nil
}

// ListTopics returns the whole topic catalog, sorted by name.
func (db *DB) ListTopics(ctx context.Context) ([]domain.Topic, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT name, notes, source_id
		FROM topics
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}
	defer rows.Close()

	var topics []domain.Topic
	for rows.Next() {
		var t domain.Topic
		if err := rows.Scan(&t.Name, &t.Notes, &t.SourceID); err != nil {
			return nil, fmt.Errorf("failed to scan topic row: %w", err)
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}
