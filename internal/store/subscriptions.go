package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"distill/internal/content"
)

// SaveSubscription adds or refreshes a subscription. An existing favorite
// flag survives the upsert; check state resets as for a fresh subscription.
func (s *Store) SaveSubscription(ctx context.Context, feedURL, title string, autoProcess bool) error {
	var favorite sql.NullInt64
	row := s.db.QueryRowContext(ctx, `SELECT favorite FROM subscriptions WHERE feed_url = ?`, feedURL)
	if err := row.Scan(&favorite); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("read favorite: %w", err)
	}

	if err := s.execWithoutResultRetry(
		ctx,
		`INSERT OR REPLACE INTO subscriptions (
            feed_url, title, auto_process, favorite, created_at
        ) VALUES (?, ?, ?, ?, ?)`,
		feedURL,
		nullableString(title),
		boolToInt(autoProcess),
		favorite.Int64,
		nowStamp(),
	); err != nil {
		return fmt.Errorf("save subscription: %w", err)
	}
	return nil
}

// Subscriptions lists every subscription, favorites first and newest first
// within each group.
func (s *Store) Subscriptions(ctx context.Context) ([]Subscription, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT feed_url, title, last_checked, last_episode_date, auto_process, favorite, created_at
         FROM subscriptions
         ORDER BY favorite DESC, created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []Subscription
	for rows.Next() {
		var (
			feedURL     string
			title       sql.NullString
			lastChecked sql.NullString
			lastEpisode sql.NullString
			autoProcess sql.NullInt64
			favorite    sql.NullInt64
			createdRaw  sql.NullString
		)
		if err := rows.Scan(&feedURL, &title, &lastChecked, &lastEpisode, &autoProcess, &favorite, &createdRaw); err != nil {
			return nil, err
		}
		sub := Subscription{
			FeedURL:         feedURL,
			Title:           title.String,
			LastChecked:     timePointer(lastChecked),
			LastEpisodeDate: timePointer(lastEpisode),
			AutoProcess:     autoProcess.Int64 != 0,
			Favorite:        favorite.Int64 != 0,
		}
		if created, err := parseTimeString(createdRaw.String); err == nil {
			sub.CreatedAt = created
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// MarkSubscriptionChecked stamps a subscription as checked now. A non-nil
// episode date replaces the stored one; nil leaves it untouched.
func (s *Store) MarkSubscriptionChecked(ctx context.Context, feedURL string, lastEpisode *time.Time) error {
	if err := s.execWithoutResultRetry(
		ctx,
		`UPDATE subscriptions
         SET last_checked = ?, last_episode_date = COALESCE(?, last_episode_date)
         WHERE feed_url = ?`,
		nowStamp(),
		nullableTime(lastEpisode),
		feedURL,
	); err != nil {
		return fmt.Errorf("mark subscription checked: %w", err)
	}
	return nil
}

// SetFavorite flips the favorite flag on a subscription. The boolean result
// reports whether the feed was subscribed at all.
func (s *Store) SetFavorite(ctx context.Context, feedURL string, favorite bool) (bool, error) {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE subscriptions SET favorite = ? WHERE feed_url = ?`,
		boolToInt(favorite),
		feedURL,
	)
	if err != nil {
		return false, fmt.Errorf("set favorite: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// DeleteSubscription removes a subscription, reporting whether it existed.
func (s *Store) DeleteSubscription(ctx context.Context, feedURL string) (bool, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM subscriptions WHERE feed_url = ?`, feedURL)
	if err != nil {
		return false, fmt.Errorf("delete subscription: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// RecentFeeds lists podcast feeds seen in processed sources that have no
// subscription yet, most recently used first.
func (s *Store) RecentFeeds(ctx context.Context, limit int) ([]RecentFeed, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT s.feed_url, s.title, MAX(s.created_at) AS last_used
         FROM sources s
         LEFT JOIN subscriptions sub ON s.feed_url = sub.feed_url
         WHERE s.source_type = ? AND s.feed_url IS NOT NULL AND sub.feed_url IS NULL
         GROUP BY s.feed_url
         ORDER BY MAX(s.created_at) DESC
         LIMIT ?`,
		content.KindPodcast,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent feeds: %w", err)
	}
	defer rows.Close()

	var feeds []RecentFeed
	for rows.Next() {
		var (
			feedURL string
			title   sql.NullString
			usedRaw sql.NullString
		)
		if err := rows.Scan(&feedURL, &title, &usedRaw); err != nil {
			return nil, err
		}
		feed := RecentFeed{FeedURL: feedURL, Title: title.String}
		if used, err := parseTimeString(usedRaw.String); err == nil {
			feed.LastUsed = used
		}
		feeds = append(feeds, feed)
	}
	return feeds, rows.Err()
}
