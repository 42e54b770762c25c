// Package youtube resolves YouTube videos into sources and transcripts.
//
// This package handles:
//   - Video ID extraction from watch, youtu.be, embed, and shorts URLs
//   - Metadata lookup via yt-dlp with a watch-page scrape fallback
//   - Caption track retrieval straight from the watch page
//   - Audio extraction via yt-dlp for videos without captions
//
// Every URL variant canonicalizes to the same watch URL, so content
// identifiers stay stable across however the user pasted the link.
package youtube
