package podcast

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"distill/internal/content"
	"distill/internal/services"
)

// Episode is a single entry of a podcast feed that carries audio.
type Episode struct {
	Title           string
	AudioURL        string
	PublishedAt     *time.Time
	DurationSeconds int
	Description     string
}

// Feed is a parsed podcast feed with its playable episodes.
type Feed struct {
	Title       string
	FeedURL     string
	Description string
	Episodes    []Episode
}

// ParseFeed fetches and parses an RSS or Atom feed, keeping only entries
// with a resolvable audio URL. Episodes stay in feed order.
func (s *Service) ParseFeed(ctx context.Context, feedURL string) (Feed, error) {
	parsed, err := s.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return Feed{}, services.Wrap(services.ErrValidation, "podcast", "parse feed", "unreadable or malformed feed", err)
	}

	feed := Feed{
		Title:       strings.TrimSpace(parsed.Title),
		FeedURL:     feedURL,
		Description: strings.TrimSpace(parsed.Description),
	}
	if feed.Title == "" {
		feed.Title = "Unknown Podcast"
	}

	for _, item := range parsed.Items {
		if item == nil {
			continue
		}
		audio := audioURL(item)
		if audio == "" {
			continue
		}
		episode := Episode{
			Title:       strings.TrimSpace(item.Title),
			AudioURL:    audio,
			Description: strings.TrimSpace(item.Description),
		}
		if episode.Title == "" {
			episode.Title = "Untitled Episode"
		}
		if item.PublishedParsed != nil {
			published := item.PublishedParsed.UTC()
			episode.PublishedAt = &published
		}
		if item.ITunesExt != nil {
			episode.DurationSeconds = parseDuration(item.ITunesExt.Duration)
		}
		feed.Episodes = append(feed.Episodes, episode)
	}
	return feed, nil
}

// EpisodeSource converts an episode into a source record keyed by its
// audio URL.
func EpisodeSource(episode Episode, feedURL string) content.Source {
	return content.Source{
		URL:             episode.AudioURL,
		Title:           episode.Title,
		Kind:            content.KindPodcast,
		DurationSeconds: episode.DurationSeconds,
		PublishedAt:     episode.PublishedAt,
		FeedURL:         feedURL,
	}
}

// audioURL prefers enclosures that declare an audio MIME type. Feeds with
// missing or generic enclosure types fall back to a file extension check.
func audioURL(item *gofeed.Item) string {
	for _, enclosure := range item.Enclosures {
		if enclosure != nil && strings.HasPrefix(enclosure.Type, "audio/") {
			return enclosure.URL
		}
	}
	for _, enclosure := range item.Enclosures {
		if enclosure != nil && hasAudioExtension(enclosure.URL) {
			return enclosure.URL
		}
	}
	if hasAudioExtension(item.Link) {
		return item.Link
	}
	return ""
}

var audioExtensions = map[string]struct{}{
	".mp3":  {},
	".m4a":  {},
	".m4b":  {},
	".aac":  {},
	".ogg":  {},
	".oga":  {},
	".opus": {},
	".wav":  {},
	".flac": {},
}

func hasAudioExtension(rawURL string) bool {
	trimmed := rawURL
	if i := strings.IndexAny(trimmed, "?#"); i >= 0 {
		trimmed = trimmed[:i]
	}
	dot := strings.LastIndex(trimmed, ".")
	if dot < 0 {
		return false
	}
	_, ok := audioExtensions[strings.ToLower(trimmed[dot:])]
	return ok
}

// parseDuration handles the three shapes itunes:duration appears in:
// HH:MM:SS, MM:SS, and bare seconds. Anything else counts as unknown.
func parseDuration(value string) int {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if strings.Contains(value, ":") {
		parts := strings.Split(value, ":")
		numbers := make([]int, len(parts))
		for i, part := range parts {
			n, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return 0
			}
			numbers[i] = n
		}
		switch len(numbers) {
		case 3:
			return numbers[0]*3600 + numbers[1]*60 + numbers[2]
		case 2:
			return numbers[0]*60 + numbers[1]
		default:
			return 0
		}
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return n
}
