// Package podcast resolves RSS and Atom podcast feeds into episodes.
//
// This package handles:
//   - Feed parsing with audio URL extraction from enclosures
//   - Duration parsing across the formats itunes:duration appears in
//   - Episode audio download for transcription
//
// Entries without a resolvable audio URL are silently dropped, so every
// returned episode can actually be processed.
package podcast
