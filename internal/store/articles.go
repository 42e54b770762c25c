package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"distill/internal/content"
)

// storedArticle is the JSON shape persisted in articles.body_json. Keeping
// an explicit struct here pins the stored format independently of the
// content types.
type storedArticle struct {
	ContentID string          `json:"content_id"`
	Title     string          `json:"title"`
	Subtitle  string          `json:"subtitle,omitempty"`
	Summary   string          `json:"summary,omitempty"`
	Sections  []storedSection `json:"sections"`
	Style     string          `json:"style"`
	Source    storedSource    `json:"source"`
}

type storedSection struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

type storedSource struct {
	URL             string     `json:"url"`
	Title           string     `json:"title,omitempty"`
	SourceType      string     `json:"source_type"`
	DurationSeconds int        `json:"duration_seconds,omitempty"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
	FeedURL         string     `json:"feed_url,omitempty"`
}

func encodeArticle(article content.Article) ([]byte, error) {
	stored := storedArticle{
		ContentID: article.ContentID,
		Title:     article.Title,
		Subtitle:  article.Subtitle,
		Summary:   article.Summary,
		Sections:  make([]storedSection, 0, len(article.Sections)),
		Style:     string(article.Style),
		Source: storedSource{
			URL:             article.Source.URL,
			Title:           article.Source.Title,
			SourceType:      string(article.Source.Kind),
			DurationSeconds: article.Source.DurationSeconds,
			PublishedAt:     article.Source.PublishedAt,
			FeedURL:         article.Source.FeedURL,
		},
	}
	for _, section := range article.Sections {
		stored.Sections = append(stored.Sections, storedSection{Heading: section.Heading, Body: section.Body})
	}
	return json.Marshal(stored)
}

func decodeArticle(body []byte) (*content.Article, error) {
	var stored storedArticle
	if err := json.Unmarshal(body, &stored); err != nil {
		return nil, err
	}
	article := &content.Article{
		ContentID: stored.ContentID,
		Title:     stored.Title,
		Subtitle:  stored.Subtitle,
		Summary:   stored.Summary,
		Style:     content.Style(stored.Style),
		Source: content.Source{
			URL:             stored.Source.URL,
			Title:           stored.Source.Title,
			Kind:            content.Kind(stored.Source.SourceType),
			DurationSeconds: stored.Source.DurationSeconds,
			PublishedAt:     stored.Source.PublishedAt,
			FeedURL:         stored.Source.FeedURL,
		},
	}
	for _, section := range stored.Sections {
		article.Sections = append(article.Sections, content.Section{Heading: section.Heading, Body: section.Body})
	}
	return article, nil
}

// SaveArticle appends a generated article and returns its row ID. Articles
// are never replaced; regenerating content adds a new row.
func (s *Store) SaveArticle(ctx context.Context, article content.Article, outputPath string, format content.Format) (int64, error) {
	body, err := encodeArticle(article)
	if err != nil {
		return 0, fmt.Errorf("marshal article: %w", err)
	}

	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO articles (
            content_id, style, title, body_json, output_path, format, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		article.ContentID,
		article.Style,
		nullableString(article.Title),
		string(body),
		nullableString(outputPath),
		nullableString(string(format)),
		nowStamp(),
	)
	if err != nil {
		return 0, fmt.Errorf("save article: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// GetArticle fetches an article by row ID, or nil when unknown.
func (s *Store) GetArticle(ctx context.Context, id int64) (*content.Article, error) {
	row := s.db.QueryRowContext(ctx, `SELECT body_json FROM articles WHERE id = ?`, id)

	var body string
	if err := row.Scan(&body); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get article: %w", err)
	}
	article, err := decodeArticle([]byte(body))
	if err != nil {
		return nil, fmt.Errorf("decode article %d: %w", id, err)
	}
	return article, nil
}

// ArticlesForContent returns every article generated for a content ID,
// newest first.
func (s *Store) ArticlesForContent(ctx context.Context, contentID string) ([]content.Article, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT body_json FROM articles WHERE content_id = ? ORDER BY created_at DESC, id DESC`,
		contentID,
	)
	if err != nil {
		return nil, fmt.Errorf("articles for content: %w", err)
	}
	defer rows.Close()

	var articles []content.Article
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, err
		}
		article, err := decodeArticle([]byte(body))
		if err != nil {
			return nil, fmt.Errorf("decode article: %w", err)
		}
		articles = append(articles, *article)
	}
	return articles, rows.Err()
}

// History lists recent article generations joined with their sources,
// newest first.
func (s *Store) History(ctx context.Context, limit int) ([]HistoryEntry, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT a.id, a.content_id, a.style, a.title, a.format, a.created_at, s.url, s.source_type
         FROM articles a
         JOIN sources s ON a.content_id = s.content_id
         ORDER BY a.created_at DESC, a.id DESC
         LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var (
			id         int64
			contentID  string
			style      string
			title      sql.NullString
			format     sql.NullString
			createdRaw sql.NullString
			url        string
			sourceType string
		)
		if err := rows.Scan(&id, &contentID, &style, &title, &format, &createdRaw, &url, &sourceType); err != nil {
			return nil, err
		}
		entry := HistoryEntry{
			ArticleID: id,
			ContentID: contentID,
			Style:     content.Style(style),
			Title:     title.String,
			Format:    content.Format(format.String),
			URL:       url,
			Kind:      content.Kind(sourceType),
		}
		if created, err := parseTimeString(createdRaw.String); err == nil {
			entry.CreatedAt = created
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
