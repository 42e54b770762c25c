package whisper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"distill/internal/config"
	"distill/internal/content"
	"distill/internal/services"
)

// Backend transcribes an audio file into full text plus timed segments.
// language is a code like "en", or "auto" for detection.
type Backend interface {
	Transcribe(ctx context.Context, audioPath, language string) (string, []content.Segment, error)
}

// NewBackend selects the transcription backend named by configuration.
func NewBackend(cfg *config.Config) (Backend, error) {
	switch cfg.Whisper.Backend {
	case "api":
		return NewAPIBackend(cfg.Whisper.APIKey)
	case "local", "":
		return NewLocalBackend(cfg.Whisper.Model), nil
	default:
		return nil, services.Wrap(services.ErrConfiguration, "whisper", "select backend",
			fmt.Sprintf("unknown backend %q", cfg.Whisper.Backend), nil)
	}
}

// Method reports which transcript method a backend produces, for the
// stored record.
func Method(backend Backend) content.Method {
	if _, ok := backend.(*APIBackend); ok {
		return content.MethodWhisperAPI
	}
	return content.MethodWhisperLocal
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
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

// verboseResult is the JSON shape shared by the whisper CLI output file and
// the API's verbose_json response format.
type verboseResult struct {
	Text     string `json:"text"`
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

func parseVerboseResult(data []byte) (string, []content.Segment, error) {
	var result verboseResult
	if err := json.Unmarshal(data, &result); err != nil {
		return "", nil, err
	}
	segments := make([]content.Segment, 0, len(result.Segments))
	for _, segment := range result.Segments {
		segments = append(segments, content.Segment{
			Start: segment.Start,
			End:   segment.End,
			Text:  strings.TrimSpace(segment.Text),
		})
	}
	return strings.TrimSpace(result.Text), segments, nil
}
