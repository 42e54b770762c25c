package whisper

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"distill/internal/content"
	"distill/internal/services"
)

const defaultLocalModel = "base"

// LocalBackend shells out to the whisper CLI and reads its JSON output.
type LocalBackend struct {
	model  string
	binary string
	runner func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewLocalBackend creates a local transcription backend for the given model.
func NewLocalBackend(model string) *LocalBackend {
	if model == "" {
		model = defaultLocalModel
	}
	return &LocalBackend{
		model:  model,
		binary: "whisper",
		runner: runCommand,
	}
}

// WithCommandRunner overrides process execution for tests.
func (b *LocalBackend) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) ([]byte, error)) {
	if runner != nil {
		b.runner = runner
	}
}

// Transcribe runs the whisper CLI against the audio file. Output goes to a
// temporary directory; whisper names the JSON file after the audio basename.
func (b *LocalBackend) Transcribe(ctx context.Context, audioPath, language string) (string, []content.Segment, error) {
	outputDir, err := os.MkdirTemp("", "distill-whisper-")
	if err != nil {
		return "", nil, services.Wrap(services.ErrExternalTool, "whisper", "transcribe", "create output directory", err)
	}
	defer os.RemoveAll(outputDir)

	args := []string{
		audioPath,
		"--model", b.model,
		"--output_format", "json",
		"--output_dir", outputDir,
	}
	if language != "" && language != "auto" {
		args = append(args, "--language", language)
	}
	if _, err := b.runner(ctx, b.binary, args...); err != nil {
		return "", nil, services.Wrap(services.ErrExternalTool, "whisper", "transcribe", "run whisper", err)
	}

	base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	data, err := os.ReadFile(filepath.Join(outputDir, base+".json"))
	if err != nil {
		return "", nil, services.Wrap(services.ErrExternalTool, "whisper", "transcribe", "read whisper output", err)
	}
	text, segments, err := parseVerboseResult(data)
	if err != nil {
		return "", nil, services.Wrap(services.ErrExternalTool, "whisper", "transcribe", "decode whisper output", err)
	}
	return text, segments, nil
}
