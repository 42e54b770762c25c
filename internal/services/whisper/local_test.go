package whisper

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"distill/internal/services"
)

func argValue(args []string, flag string) string {
	for i, arg := range args {
		if arg == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

const localResultJSON = `{
	"text": " Hello world. This is a test. ",
	"segments": [
		{"start": 0.0, "end": 3.0, "text": " Hello world."},
		{"start": 3.0, "end": 6.0, "text": " This is a test."}
	]
}`

func writingRunner(t *testing.T, captured *[]string) func(ctx context.Context, name string, args ...string) ([]byte, error) {
	t.Helper()
	return func(ctx context.Context, name string, args ...string) ([]byte, error) {
		if name != "whisper" {
			t.Errorf("expected whisper binary, got %q", name)
		}
		if captured != nil {
			*captured = append([]string(nil), args...)
		}
		outputDir := argValue(args, "--output_dir")
		if outputDir == "" {
			t.Error("expected --output_dir argument")
			return nil, nil
		}
		base := filepath.Base(args[0])
		base = base[:len(base)-len(filepath.Ext(base))]
		return nil, os.WriteFile(filepath.Join(outputDir, base+".json"), []byte(localResultJSON), 0o644)
	}
}

func TestLocalBackendTranscribe(t *testing.T) {
	audioPath := filepath.Join(t.TempDir(), "episode.mp3")

	var capturedArgs []string
	backend := NewLocalBackend("base")
	backend.WithCommandRunner(writingRunner(t, &capturedArgs))

	text, segments, err := backend.Transcribe(context.Background(), audioPath, "en")
	if err != nil {
		t.Fatalf("Transcribe returned error: %v", err)
	}

	if text != "Hello world. This is a test." {
		t.Fatalf("unexpected text %q", text)
	}
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}
	if segments[0].Start != 0 || segments[0].End != 3 || segments[0].Text != "Hello world." {
		t.Fatalf("unexpected first segment: %+v", segments[0])
	}
	if segments[1].Start != 3 || segments[1].End != 6 || segments[1].Text != "This is a test." {
		t.Fatalf("unexpected second segment: %+v", segments[1])
	}

	if capturedArgs[0] != audioPath {
		t.Fatalf("expected audio path as first arg, got %q", capturedArgs[0])
	}
	if model := argValue(capturedArgs, "--model"); model != "base" {
		t.Fatalf("expected model base, got %q", model)
	}
	if format := argValue(capturedArgs, "--output_format"); format != "json" {
		t.Fatalf("expected json output format, got %q", format)
	}
	if lang := argValue(capturedArgs, "--language"); lang != "en" {
		t.Fatalf("expected language en, got %q", lang)
	}
}

func TestLocalBackendAutoLanguageOmitsFlag(t *testing.T) {
	audioPath := filepath.Join(t.TempDir(), "episode.mp3")

	var capturedArgs []string
	backend := NewLocalBackend("small")
	backend.WithCommandRunner(writingRunner(t, &capturedArgs))

	if _, _, err := backend.Transcribe(context.Background(), audioPath, "auto"); err != nil {
		t.Fatalf("Transcribe returned error: %v", err)
	}
	for _, arg := range capturedArgs {
		if arg == "--language" {
			t.Fatalf("expected no --language flag for auto, got args %v", capturedArgs)
		}
	}
	if model := argValue(capturedArgs, "--model"); model != "small" {
		t.Fatalf("expected model small, got %q", model)
	}
}

func TestLocalBackendDefaultsModel(t *testing.T) {
	var capturedArgs []string
	backend := NewLocalBackend("")
	backend.WithCommandRunner(writingRunner(t, &capturedArgs))

	if _, _, err := backend.Transcribe(context.Background(), filepath.Join(t.TempDir(), "a.mp3"), "en"); err != nil {
		t.Fatalf("Transcribe returned error: %v", err)
	}
	if model := argValue(capturedArgs, "--model"); model != "base" {
		t.Fatalf("expected default model base, got %q", model)
	}
}

func TestLocalBackendToolFailure(t *testing.T) {
	backend := NewLocalBackend("base")
	backend.WithCommandRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return nil, errors.New("model download failed")
	})

	if _, _, err := backend.Transcribe(context.Background(), "audio.mp3", "en"); !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}

func TestLocalBackendMissingOutput(t *testing.T) {
	backend := NewLocalBackend("base")
	backend.WithCommandRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return nil, nil
	})

	if _, _, err := backend.Transcribe(context.Background(), "audio.mp3", "en"); !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}
