package youtube

import (
	"context"
	"os"
	"path/filepath"

	"distill/internal/services"
)

// DownloadAudio extracts the audio track of a video to an MP3 file via
// yt-dlp and returns the file path. An empty outputDir means a fresh
// temporary directory; the caller owns cleanup either way.
func (s *Service) DownloadAudio(ctx context.Context, videoID, outputDir string) (string, error) {
	if outputDir == "" {
		dir, err := os.MkdirTemp("", "distill-")
		if err != nil {
			return "", services.Wrap(services.ErrExternalTool, "youtube", "download audio", "create temp directory", err)
		}
		outputDir = dir
	} else if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", services.Wrap(services.ErrExternalTool, "youtube", "download audio", "create output directory", err)
	}

	path := filepath.Join(outputDir, videoID+".mp3")
	if _, err := s.runner(ctx, s.binary, "-x", "--audio-format", "mp3", "-o", path, CanonicalURL(videoID)); err != nil {
		return "", services.Wrap(services.ErrExternalTool, "youtube", "download audio", "extract audio track", err)
	}
	return path, nil
}
