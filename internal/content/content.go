package content

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Kind identifies where a piece of content came from.
type Kind string

const (
	KindYouTube Kind = "youtube"
	KindPodcast Kind = "podcast"
)

var allKinds = []Kind{KindYouTube, KindPodcast}

// Method identifies how a transcript was produced.
type Method string

const (
	MethodCaptions     Method = "captions"
	MethodWhisperLocal Method = "whisper_local"
	MethodWhisperAPI   Method = "whisper_api"
)

var allMethods = []Method{MethodCaptions, MethodWhisperLocal, MethodWhisperAPI}

// Format identifies an output rendering for a generated article.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatEPUB     Format = "epub"
)

var allFormats = []Format{FormatMarkdown, FormatHTML, FormatEPUB}

// AllFormats returns the ordered list of known output formats.
func AllFormats() []Format {
	cp := make([]Format, len(allFormats))
	copy(cp, allFormats)
	return cp
}

// ParseFormat converts a string into a known Format.
func ParseFormat(value string) (Format, bool) {
	normalized := Format(strings.ToLower(strings.TrimSpace(value)))
	for _, format := range allFormats {
		if normalized == format {
			return format, true
		}
	}
	return "", false
}

// Extension returns the file extension for the format, dot included.
func (f Format) Extension() string {
	switch f {
	case FormatHTML:
		return ".html"
	case FormatEPUB:
		return ".epub"
	default:
		return ".md"
	}
}

// Style selects how much of the source material an article preserves.
type Style string

const (
	StyleDetailed Style = "detailed"
	StyleConcise  Style = "concise"
	StyleSummary  Style = "summary"
	StyleBullets  Style = "bullets"
)

var allStyles = []Style{StyleDetailed, StyleConcise, StyleSummary, StyleBullets}

var styleSet = func() map[Style]struct{} {
	set := make(map[Style]struct{}, len(allStyles))
	for _, style := range allStyles {
		set[style] = struct{}{}
	}
	return set
}()

// AllStyles returns the ordered list of known styles.
func AllStyles() []Style {
	cp := make([]Style, len(allStyles))
	copy(cp, allStyles)
	return cp
}

// ParseStyle converts a string into a known Style.
func ParseStyle(value string) (Style, bool) {
	normalized := Style(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := styleSet[normalized]
	return normalized, ok
}

// ParseKind converts a string into a known Kind.
func ParseKind(value string) (Kind, bool) {
	normalized := Kind(strings.ToLower(strings.TrimSpace(value)))
	for _, kind := range allKinds {
		if normalized == kind {
			return kind, true
		}
	}
	return "", false
}

// ParseMethod converts a string into a known Method.
func ParseMethod(value string) (Method, bool) {
	normalized := Method(strings.ToLower(strings.TrimSpace(value)))
	for _, method := range allMethods {
		if normalized == method {
			return method, true
		}
	}
	return "", false
}

// Source describes a single piece of content before transcription.
type Source struct {
	URL             string
	Title           string
	Kind            Kind
	DurationSeconds int
	PublishedAt     *time.Time
	FeedURL         string
}

// Segment is one timed span of a transcript.
type Segment struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Text    string  `json:"text"`
	Speaker string  `json:"speaker,omitempty"`
}

// Transcript is the full text of a source plus its timed segments.
type Transcript struct {
	ContentID string
	Text      string
	Segments  []Segment
	Language  string
	Method    Method
}

// Section is one heading/body pair of a generated article.
type Section struct {
	Heading string
	Body    string
}

// Article is the structured output of article generation.
type Article struct {
	ContentID string
	Title     string
	Subtitle  string
	Summary   string
	Sections  []Section
	Style     Style
	Source    Source
}

// Fingerprint derives the stable content identifier for a canonical URL.
// The same URL always maps to the same identifier, so cached transcripts
// and generated articles can be looked up without refetching anything.
func Fingerprint(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}
