package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"distill/internal/content"
)

// SaveTranscript inserts or replaces the transcript for a content ID.
// Segments are stored as a JSON array alongside the full text.
func (s *Store) SaveTranscript(ctx context.Context, tr content.Transcript) error {
	segments := tr.Segments
	if segments == nil {
		segments = []content.Segment{}
	}
	segmentsJSON, err := json.Marshal(segments)
	if err != nil {
		return fmt.Errorf("marshal segments: %w", err)
	}

	if err := s.execWithoutResultRetry(
		ctx,
		`INSERT OR REPLACE INTO transcripts (
            content_id, text, segments_json, language, method, created_at
        ) VALUES (?, ?, ?, ?, ?, ?)`,
		tr.ContentID,
		tr.Text,
		string(segmentsJSON),
		nullableString(tr.Language),
		nullableString(string(tr.Method)),
		nowStamp(),
	); err != nil {
		return fmt.Errorf("save transcript: %w", err)
	}
	return nil
}

// GetTranscript returns the cached transcript for a content ID, or nil when
// none is stored. An empty language reads back as "en" and an empty method
// as captions.
func (s *Store) GetTranscript(ctx context.Context, contentID string) (*content.Transcript, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT text, segments_json, language, method FROM transcripts WHERE content_id = ?`,
		contentID,
	)

	var (
		text         string
		segmentsJSON sql.NullString
		language     sql.NullString
		method       sql.NullString
	)
	if err := row.Scan(&text, &segmentsJSON, &language, &method); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transcript: %w", err)
	}

	tr := &content.Transcript{
		ContentID: contentID,
		Text:      text,
		Language:  language.String,
		Method:    content.Method(method.String),
	}
	if tr.Language == "" {
		tr.Language = "en"
	}
	if tr.Method == "" {
		tr.Method = content.MethodCaptions
	}
	if segmentsJSON.Valid && segmentsJSON.String != "" {
		if err := json.Unmarshal([]byte(segmentsJSON.String), &tr.Segments); err != nil {
			return nil, fmt.Errorf("decode segments: %w", err)
		}
	}
	return tr, nil
}
