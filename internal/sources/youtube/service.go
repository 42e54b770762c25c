package youtube

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultBaseURL = "https://www.youtube.com"

// Service fetches video metadata and caption transcripts. Metadata comes
// from yt-dlp with a page-scrape fallback; captions come straight from the
// watch page so no external tool is needed on the happy path.
type Service struct {
	client  *resty.Client
	binary  string
	baseURL string
	runner  func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewService creates a YouTube service with the default yt-dlp binary and
// HTTP client.
func NewService() *Service {
	service := &Service{
		client: resty.New().
			SetTimeout(30 * time.Second).
			SetHeader("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"),
		binary:  "yt-dlp",
		baseURL: defaultBaseURL,
	}
	service.runner = service.run
	return service
}

// WithCommandRunner overrides process execution for tests.
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) ([]byte, error)) {
	if runner != nil {
		s.runner = runner
	}
}

// WithHTTPClient overrides the HTTP client for tests.
func (s *Service) WithHTTPClient(client *resty.Client) {
	if client != nil {
		s.client = client
	}
}

// WithBaseURL points watch-page requests at a different host for tests.
func (s *Service) WithBaseURL(baseURL string) {
	if baseURL != "" {
		s.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

func (s *Service) run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return nil, fmt.Errorf("%s failed: %w: %s", name, err, detail)
		}
		return nil, fmt.Errorf("%s failed: %w", name, err)
	}
	return stdout.Bytes(), nil
}

func (s *Service) watchPageURL(videoID string) string {
	return s.baseURL + "/watch?v=" + videoID
}
