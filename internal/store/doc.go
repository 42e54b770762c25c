// Package store persists sources, transcripts, articles, and podcast
// subscriptions in SQLite.
//
// Sources and transcripts are keyed by content fingerprint and replaced on
// save, so reprocessing a URL refreshes metadata while cached transcripts
// keep their identity. Articles are append-only; regenerating content adds
// rows, and History joins them back to their sources. Subscriptions track
// podcast feeds with a favorite flag that survives re-subscribing, and
// feed_languages remembers per-feed transcription language choices.
//
// The schema lives in embedded migrations applied in filename order and
// recorded in a schema_migrations table, so existing databases pick up new
// columns on open. All timestamps are stored as RFC 3339 UTC text.
package store
