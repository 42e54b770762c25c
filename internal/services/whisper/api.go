package whisper

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"distill/internal/content"
	"distill/internal/retry"
	"distill/internal/services"
)

const (
	defaultAPIBaseURL = "https://api.openai.com"
	apiModel          = "whisper-1"

	// Files above the API upload limit get split into ten-minute chunks.
	maxUploadBytes = 25 * 1024 * 1024
	chunkSeconds   = "600"
)

// APIBackend transcribes audio through the OpenAI transcription endpoint.
// Files above the upload limit are split with ffmpeg and stitched back
// together with accumulated time offsets.
type APIBackend struct {
	apiKey       string
	baseURL      string
	client       *resty.Client
	ffmpegBinary string
	runner       func(ctx context.Context, name string, args ...string) ([]byte, error)
	policy       retry.Policy
}

// NewAPIBackend creates an API transcription backend. The key is required
// up front so misconfiguration surfaces before any audio is downloaded.
func NewAPIBackend(apiKey string) (*APIBackend, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "whisper", "new backend",
			"api key required; set whisper.api_key or OPENAI_API_KEY", nil)
	}
	return &APIBackend{
		apiKey:       strings.TrimSpace(apiKey),
		baseURL:      defaultAPIBaseURL,
		client:       resty.New().SetTimeout(10 * time.Minute),
		ffmpegBinary: "ffmpeg",
		runner:       runCommand,
		policy:       retry.Default(),
	}, nil
}

// WithHTTPClient overrides the HTTP client for tests.
func (b *APIBackend) WithHTTPClient(client *resty.Client) {
	if client != nil {
		b.client = client
	}
}

// WithBaseURL points uploads at a different host for tests.
func (b *APIBackend) WithBaseURL(baseURL string) {
	if baseURL != "" {
		b.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithCommandRunner overrides process execution for tests.
func (b *APIBackend) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) ([]byte, error)) {
	if runner != nil {
		b.runner = runner
	}
}

// WithRetryPolicy overrides the default retry policy (useful for tests).
func (b *APIBackend) WithRetryPolicy(policy retry.Policy) {
	b.policy = policy
}

// Transcribe uploads the audio file, splitting it first when it exceeds the
// API's 25 MB limit.
func (b *APIBackend) Transcribe(ctx context.Context, audioPath, language string) (string, []content.Segment, error) {
	info, err := os.Stat(audioPath)
	if err != nil {
		return "", nil, services.Wrap(services.ErrValidation, "whisper", "transcribe", "audio file not readable", err)
	}
	if info.Size() > maxUploadBytes {
		return b.transcribeChunked(ctx, audioPath, language)
	}
	return b.transcribeSingle(ctx, audioPath, language)
}

func (b *APIBackend) transcribeSingle(ctx context.Context, audioPath, language string) (string, []content.Segment, error) {
	var text string
	var segments []content.Segment
	err := b.policy.Do(ctx, retryableError, func(ctx context.Context) error {
		uploaded, parsed, err := b.upload(ctx, audioPath, language)
		if err != nil {
			return err
		}
		text = uploaded
		segments = parsed
		return nil
	})
	if err != nil {
		return "", nil, b.classify(err)
	}
	return text, segments, nil
}

func (b *APIBackend) upload(ctx context.Context, audioPath, language string) (string, []content.Segment, error) {
	form := map[string]string{
		"model":           apiModel,
		"response_format": "verbose_json",
	}
	if language != "" && language != "auto" {
		form["language"] = language
	}

	resp, err := b.client.R().
		SetContext(ctx).
		SetAuthToken(b.apiKey).
		SetFile("file", audioPath).
		SetFormData(form).
		Post(b.baseURL + "/v1/audio/transcriptions")
	if err != nil {
		return "", nil, fmt.Errorf("whisper request: %w", err)
	}
	if resp.IsError() {
		retryAfter, _ := parseRetryAfter(resp.Header().Get("Retry-After"))
		return "", nil, &httpStatusError{
			StatusCode: resp.StatusCode(),
			Body:       strings.TrimSpace(resp.String()),
			retryAfter: retryAfter,
		}
	}
	text, segments, err := parseVerboseResult(resp.Body())
	if err != nil {
		return "", nil, fmt.Errorf("whisper request: decode response: %w", err)
	}
	return text, segments, nil
}

// transcribeChunked splits the audio into ten-minute pieces with ffmpeg,
// transcribes each in order, and shifts segment timestamps by the end of
// the previous chunk's last segment.
func (b *APIBackend) transcribeChunked(ctx context.Context, audioPath, language string) (string, []content.Segment, error) {
	chunkDir, err := os.MkdirTemp("", "distill-chunks-")
	if err != nil {
		return "", nil, services.Wrap(services.ErrExternalTool, "whisper", "transcribe", "create chunk directory", err)
	}
	defer os.RemoveAll(chunkDir)

	pattern := filepath.Join(chunkDir, "chunk_%03d.mp3")
	if _, err := b.runner(ctx, b.ffmpegBinary,
		"-i", audioPath,
		"-f", "segment",
		"-segment_time", chunkSeconds,
		"-c", "copy",
		pattern,
	); err != nil {
		return "", nil, services.Wrap(services.ErrExternalTool, "whisper", "transcribe", "split audio", err)
	}

	chunks, err := filepath.Glob(filepath.Join(chunkDir, "chunk_*.mp3"))
	if err != nil {
		return "", nil, services.Wrap(services.ErrExternalTool, "whisper", "transcribe", "list chunks", err)
	}
	if len(chunks) == 0 {
		return "", nil, services.Wrap(services.ErrExternalTool, "whisper", "transcribe", "ffmpeg produced no chunks", nil)
	}
	sort.Strings(chunks)

	var texts []string
	var all []content.Segment
	offset := 0.0
	for _, chunk := range chunks {
		text, segments, err := b.transcribeSingle(ctx, chunk, language)
		if err != nil {
			return "", nil, err
		}
		texts = append(texts, text)
		for _, segment := range segments {
			segment.Start += offset
			segment.End += offset
			all = append(all, segment)
		}
		if len(segments) > 0 {
			offset = all[len(all)-1].End
		}
	}
	return strings.Join(texts, " "), all, nil
}

type httpStatusError struct {
	StatusCode int
	Body       string
	retryAfter time.Duration
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("whisper request: http %d: %s", e.StatusCode, e.Body)
}

// RetryAfter exposes the server-requested delay to the retry policy.
func (e *httpStatusError) RetryAfter() time.Duration { return e.retryAfter }

func transientStatus(code int) bool {
	return code == http.StatusRequestTimeout ||
		code == http.StatusTooManyRequests ||
		code >= http.StatusInternalServerError
}

func retryableError(err error) bool {
	var statusErr *httpStatusError
	if errors.As(err, &statusErr) {
		return transientStatus(statusErr.StatusCode)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return true
	}
	return false
}

func (b *APIBackend) classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var statusErr *httpStatusError
	if errors.As(err, &statusErr) {
		switch {
		case transientStatus(statusErr.StatusCode):
			return services.Wrap(services.ErrTransient, "whisper", "transcribe", "request failed", err)
		case statusErr.StatusCode == http.StatusUnauthorized || statusErr.StatusCode == http.StatusForbidden:
			return services.Wrap(services.ErrConfiguration, "whisper", "transcribe", "authentication rejected", err)
		default:
			return services.Wrap(services.ErrValidation, "whisper", "transcribe", "request rejected", err)
		}
	}
	return services.Wrap(services.ErrTransient, "whisper", "transcribe", "request failed", err)
}

func parseRetryAfter(value string) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return 0, false
		}
		return time.Duration(seconds) * time.Second, true
	}
	if when, err := http.ParseTime(value); err == nil {
		delay := time.Until(when)
		if delay < 0 {
			return 0, false
		}
		return delay, true
	}
	return 0, false
}
