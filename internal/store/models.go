package store

import (
	"time"

	"distill/internal/content"
)

// HistoryEntry is one row of processing history: an article joined with the
// source it was generated from.
type HistoryEntry struct {
	ArticleID int64
	ContentID string
	Style     content.Style
	Title     string
	Format    content.Format
	CreatedAt time.Time
	URL       string
	Kind      content.Kind
}

// Subscription is a tracked podcast feed.
type Subscription struct {
	FeedURL         string
	Title           string
	LastChecked     *time.Time
	LastEpisodeDate *time.Time
	AutoProcess     bool
	Favorite        bool
	CreatedAt       time.Time
}

// RecentFeed is a podcast feed seen in processed sources that has no
// subscription yet.
type RecentFeed struct {
	FeedURL  string
	Title    string
	LastUsed time.Time
}

// FeedLanguage records a transcription language previously chosen for a feed.
type FeedLanguage struct {
	FeedURL  string
	Language string
	UsedAt   time.Time
}
