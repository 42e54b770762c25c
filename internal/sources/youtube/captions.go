package youtube

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"html"
	"regexp"
	"strings"

	"distill/internal/content"
	"distill/internal/services"
)

var captionTracksPattern = regexp.MustCompile(`"captionTracks":(\[.*?\])`)

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"`
}

type timedTextDoc struct {
	Texts []timedText `xml:"text"`
}

type timedText struct {
	Start float64 `xml:"start,attr"`
	Dur   float64 `xml:"dur,attr"`
	Body  string  `xml:",chardata"`
}

// FetchCaptions pulls the caption track for a video straight off the watch
// page. Manually authored English tracks win over auto-generated ones.
// services.ErrNotFound means the video simply has no captions, which is the
// signal to fall back to audio transcription.
func (s *Service) FetchCaptions(ctx context.Context, videoID string) (content.Transcript, error) {
	resp, err := s.client.R().SetContext(ctx).Get(s.watchPageURL(videoID))
	if err != nil {
		return content.Transcript{}, services.Wrap(services.ErrTransient, "youtube", "fetch captions", "fetch watch page", err)
	}
	if resp.IsError() {
		return content.Transcript{}, services.Wrap(services.ErrTransient, "youtube", "fetch captions", fmt.Sprintf("watch page returned status %d", resp.StatusCode()), nil)
	}

	match := captionTracksPattern.FindStringSubmatch(resp.String())
	if match == nil {
		return content.Transcript{}, services.Wrap(services.ErrNotFound, "youtube", "fetch captions", "video has no caption tracks", nil)
	}
	var tracks []captionTrack
	if err := json.Unmarshal([]byte(match[1]), &tracks); err != nil {
		return content.Transcript{}, services.Wrap(services.ErrParse, "youtube", "fetch captions", "decode caption track list", err)
	}
	if len(tracks) == 0 {
		return content.Transcript{}, services.Wrap(services.ErrNotFound, "youtube", "fetch captions", "video has no caption tracks", nil)
	}

	track := pickTrack(tracks)
	segments, err := s.fetchTrack(ctx, track.BaseURL)
	if err != nil {
		return content.Transcript{}, err
	}
	if len(segments) == 0 {
		return content.Transcript{}, services.Wrap(services.ErrNotFound, "youtube", "fetch captions", "caption track was empty", nil)
	}

	texts := make([]string, len(segments))
	for i, segment := range segments {
		texts[i] = segment.Text
	}
	language := track.LanguageCode
	if language == "" {
		language = "en"
	}
	return content.Transcript{
		ContentID: content.Fingerprint(CanonicalURL(videoID)),
		Text:      strings.Join(texts, " "),
		Segments:  segments,
		Language:  language,
		Method:    content.MethodCaptions,
	}, nil
}

// pickTrack prefers manual English captions, then auto-generated English,
// then whatever the first track is.
func pickTrack(tracks []captionTrack) captionTrack {
	for _, track := range tracks {
		if strings.HasPrefix(track.LanguageCode, "en") && track.Kind != "asr" {
			return track
		}
	}
	for _, track := range tracks {
		if strings.HasPrefix(track.LanguageCode, "en") {
			return track
		}
	}
	return tracks[0]
}

func (s *Service) fetchTrack(ctx context.Context, trackURL string) ([]content.Segment, error) {
	resp, err := s.client.R().SetContext(ctx).Get(trackURL)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "youtube", "fetch captions", "fetch caption track", err)
	}
	if resp.IsError() {
		return nil, services.Wrap(services.ErrTransient, "youtube", "fetch captions", fmt.Sprintf("caption track returned status %d", resp.StatusCode()), nil)
	}
	var doc timedTextDoc
	if err := xml.Unmarshal(resp.Body(), &doc); err != nil {
		return nil, services.Wrap(services.ErrParse, "youtube", "fetch captions", "decode caption track", err)
	}
	segments := make([]content.Segment, 0, len(doc.Texts))
	for _, text := range doc.Texts {
		body := strings.TrimSpace(html.UnescapeString(text.Body))
		if body == "" {
			continue
		}
		segments = append(segments, content.Segment{
			Start: text.Start,
			End:   text.Start + text.Dur,
			Text:  body,
		})
	}
	return segments, nil
}
