package podcast

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"distill/internal/services"
)

// Download fetches an episode's audio file and returns its path. The file
// is named after the last URL path element, query string stripped. An empty
// outputDir means a fresh temporary directory; the caller owns cleanup.
func (s *Service) Download(ctx context.Context, audioURL, outputDir string) (string, error) {
	if outputDir == "" {
		dir, err := os.MkdirTemp("", "distill-")
		if err != nil {
			return "", services.Wrap(services.ErrTransient, "podcast", "download episode", "create temp directory", err)
		}
		outputDir = dir
	} else if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", services.Wrap(services.ErrTransient, "podcast", "download episode", "create output directory", err)
	}

	path := filepath.Join(outputDir, episodeFilename(audioURL))
	resp, err := s.client.R().SetContext(ctx).SetOutput(path).Get(audioURL)
	if err != nil {
		_ = os.Remove(path)
		return "", services.Wrap(services.ErrTransient, "podcast", "download episode", "fetch audio", err)
	}
	if resp.IsError() {
		_ = os.Remove(path)
		return "", services.Wrap(services.ErrTransient, "podcast", "download episode", fmt.Sprintf("audio fetch returned status %d", resp.StatusCode()), nil)
	}
	return path, nil
}

func episodeFilename(audioURL string) string {
	trimmed := audioURL
	if i := strings.IndexAny(trimmed, "?#"); i >= 0 {
		trimmed = trimmed[:i]
	}
	name := trimmed[strings.LastIndex(trimmed, "/")+1:]
	if name == "" {
		return "episode.mp3"
	}
	return name
}

// TitleFromAudioURL derives a display title from the audio file name:
// "deep-dive_ep42.mp3" becomes "Deep Dive Ep42". Returns "" when the URL
// yields nothing usable.
func TitleFromAudioURL(audioURL string) string {
	base := episodeFilename(audioURL)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	cleaned := strings.Builder{}
	prevSpace := false
	for _, r := range base {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			cleaned.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '.':
			if !prevSpace {
				cleaned.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	title := strings.TrimSpace(cleaned.String())
	if title == "" {
		return ""
	}
	return cases.Title(language.Und).String(title)
}
