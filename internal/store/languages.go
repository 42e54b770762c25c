package store

import (
	"context"
	"database/sql"
	"fmt"
)

// SaveFeedLanguage records a transcription language chosen for a feed,
// bumping the recency stamp when the pair already exists.
func (s *Store) SaveFeedLanguage(ctx context.Context, feedURL, language string) error {
	now := nowStamp()
	if err := s.execWithoutResultRetry(
		ctx,
		`INSERT INTO feed_languages (feed_url, language, used_at)
         VALUES (?, ?, ?)
         ON CONFLICT(feed_url, language) DO UPDATE SET used_at = ?`,
		feedURL,
		language,
		now,
		now,
	); err != nil {
		return fmt.Errorf("save feed language: %w", err)
	}
	return nil
}

// RecentLanguages returns recently chosen transcription languages, most
// recent first. A feed URL scopes the history to that feed; with an empty
// URL each language appears once with its most recent use anywhere.
func (s *Store) RecentLanguages(ctx context.Context, feedURL string, limit int) ([]FeedLanguage, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if feedURL != "" {
		rows, err = s.db.QueryContext(
			ctx,
			`SELECT language, feed_url, used_at
             FROM feed_languages
             WHERE feed_url = ?
             ORDER BY used_at DESC
             LIMIT ?`,
			feedURL,
			limit,
		)
	} else {
		rows, err = s.db.QueryContext(
			ctx,
			`SELECT language, MAX(feed_url) AS feed_url, MAX(used_at) AS used_at
             FROM feed_languages
             GROUP BY language
             ORDER BY MAX(used_at) DESC
             LIMIT ?`,
			limit,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("recent languages: %w", err)
	}
	defer rows.Close()

	var langs []FeedLanguage
	for rows.Next() {
		var (
			language string
			feed     sql.NullString
			usedRaw  sql.NullString
		)
		if err := rows.Scan(&language, &feed, &usedRaw); err != nil {
			return nil, err
		}
		entry := FeedLanguage{FeedURL: feed.String, Language: language}
		if used, err := parseTimeString(usedRaw.String); err == nil {
			entry.UsedAt = used
		}
		langs = append(langs, entry)
	}
	return langs, rows.Err()
}
