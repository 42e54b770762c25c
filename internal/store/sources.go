package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"distill/internal/content"
)

// SaveSource inserts or replaces a source keyed by its content fingerprint
// and returns the fingerprint. Saving the same URL again overwrites the
// stored metadata without disturbing cached transcripts or articles.
func (s *Store) SaveSource(ctx context.Context, src content.Source) (string, error) {
	contentID := content.Fingerprint(src.URL)
	if _, err := s.execWithRetry(
		ctx,
		`INSERT OR REPLACE INTO sources (
            content_id, url, title, source_type, duration_seconds,
            published_at, feed_url, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		contentID,
		src.URL,
		nullableString(src.Title),
		src.Kind,
		src.DurationSeconds,
		nullableTime(src.PublishedAt),
		nullableString(src.FeedURL),
		nowStamp(),
	); err != nil {
		return "", fmt.Errorf("save source: %w", err)
	}
	return contentID, nil
}

// ResolveContentID expands a fingerprint prefix, as printed by the history
// listing, to the full stored content ID. At least four characters are
// required and the prefix must match exactly one source.
func (s *Store) ResolveContentID(ctx context.Context, prefix string) (string, error) {
	if len(prefix) < 4 {
		return "", fmt.Errorf("content ID %q is too short; give at least 4 characters", prefix)
	}

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT content_id FROM sources
         WHERE substr(content_id, 1, length(?)) = ?
         LIMIT 2`,
		prefix, prefix,
	)
	if err != nil {
		return "", fmt.Errorf("resolve content id: %w", err)
	}
	defer rows.Close()

	var matches []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("resolve content id: %w", err)
		}
		matches = append(matches, id)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("resolve content id: %w", err)
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no source matches content ID %q", prefix)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("content ID %q is ambiguous; give more characters", prefix)
	}
}

// GetSource fetches a source by content fingerprint, or nil when unknown.
func (s *Store) GetSource(ctx context.Context, contentID string) (*content.Source, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT url, title, source_type, duration_seconds, published_at, feed_url
         FROM sources WHERE content_id = ?`,
		contentID,
	)

	var (
		url         string
		title       sql.NullString
		sourceType  string
		duration    sql.NullInt64
		publishedAt sql.NullString
		feedURL     sql.NullString
	)
	if err := row.Scan(&url, &title, &sourceType, &duration, &publishedAt, &feedURL); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get source: %w", err)
	}

	return &content.Source{
		URL:             url,
		Title:           title.String,
		Kind:            content.Kind(sourceType),
		DurationSeconds: int(duration.Int64),
		PublishedAt:     timePointer(publishedAt),
		FeedURL:         feedURL.String,
	}, nil
}
