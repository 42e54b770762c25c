package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"distill/internal/content"
	"distill/internal/services"
)

type videoInfo struct {
	Title      string  `json:"title"`
	Duration   float64 `json:"duration"`
	UploadDate string  `json:"upload_date"`
}

// FetchMetadata resolves title, duration, and publish date for a video.
// yt-dlp is authoritative; when it is missing or fails the watch page is
// scraped instead so metadata never blocks the pipeline on its own.
func (s *Service) FetchMetadata(ctx context.Context, videoID string) (content.Source, error) {
	src, toolErr := s.metadataFromTool(ctx, videoID)
	if toolErr == nil {
		return src, nil
	}
	src, scrapeErr := s.scrapeMetadata(ctx, videoID)
	if scrapeErr != nil {
		return content.Source{}, services.Wrap(services.ErrExternalTool, "youtube", "fetch metadata", "yt-dlp failed and watch page scrape failed", toolErr)
	}
	return src, nil
}

func (s *Service) metadataFromTool(ctx context.Context, videoID string) (content.Source, error) {
	out, err := s.runner(ctx, s.binary, "--dump-json", "--no-download", CanonicalURL(videoID))
	if err != nil {
		return content.Source{}, err
	}
	var info videoInfo
	if err := json.Unmarshal(out, &info); err != nil {
		return content.Source{}, fmt.Errorf("decode %s output: %w", s.binary, err)
	}
	src := content.Source{
		URL:             CanonicalURL(videoID),
		Title:           strings.TrimSpace(info.Title),
		Kind:            content.KindYouTube,
		DurationSeconds: int(info.Duration),
	}
	if src.Title == "" {
		src.Title = "Unknown Title"
	}
	if published, err := time.Parse("20060102", info.UploadDate); err == nil {
		src.PublishedAt = &published
	}
	return src, nil
}

func (s *Service) scrapeMetadata(ctx context.Context, videoID string) (content.Source, error) {
	resp, err := s.client.R().SetContext(ctx).Get(s.watchPageURL(videoID))
	if err != nil {
		return content.Source{}, fmt.Errorf("fetch watch page: %w", err)
	}
	if resp.IsError() {
		return content.Source{}, fmt.Errorf("fetch watch page: status %d", resp.StatusCode())
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(resp.String()))
	if err != nil {
		return content.Source{}, fmt.Errorf("parse watch page: %w", err)
	}
	src := content.Source{
		URL:   CanonicalURL(videoID),
		Title: pageTitle(doc, videoID),
		Kind:  content.KindYouTube,
	}
	if duration, ok := doc.Find(`meta[itemprop="duration"]`).Attr("content"); ok {
		src.DurationSeconds = parseISODuration(duration)
	}
	return src, nil
}

func pageTitle(doc *goquery.Document, videoID string) string {
	if title, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		if title = strings.TrimSpace(title); title != "" {
			return title
		}
	}
	title := strings.TrimSpace(doc.Find("title").First().Text())
	title = strings.TrimSpace(strings.TrimSuffix(title, "- YouTube"))
	if title != "" {
		return title
	}
	return "YouTube Video " + videoID
}

var isoDurationPattern = regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

func parseISODuration(value string) int {
	match := isoDurationPattern.FindStringSubmatch(value)
	if match == nil {
		return 0
	}
	total := 0
	for i, unit := range []int{3600, 60, 1} {
		if match[i+1] == "" {
			continue
		}
		n, err := strconv.Atoi(match[i+1])
		if err != nil {
			return 0
		}
		total += n * unit
	}
	return total
}
