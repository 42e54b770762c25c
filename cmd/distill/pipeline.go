package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"distill/internal/article"
	"distill/internal/config"
	"distill/internal/content"
	"distill/internal/deliver"
	"distill/internal/logging"
	"distill/internal/output"
	"distill/internal/services"
	"distill/internal/services/claude"
	"distill/internal/services/whisper"
	"distill/internal/store"
	"distill/internal/textutil"
)

// generateFlags are shared by every command that produces an article.
type generateFlags struct {
	format          string
	style           string
	outputDir       string
	language        string
	articleLanguage string
	send            string
}

func (f *generateFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.format, "format", "f", "", "Output format: markdown, html, or epub (default from config)")
	flags.StringVarP(&f.style, "style", "s", "", "Article style: detailed, concise, summary, or bullets (default from config)")
	flags.StringVarP(&f.outputDir, "output", "o", "", "Directory for the rendered article (default from config)")
	flags.StringVarP(&f.language, "language", "l", "", `Transcription language code, for example "en" or "sv"`)
	flags.StringVar(&f.articleLanguage, "article-language", "", "Write the article in this language instead of the transcript language")
	flags.StringVar(&f.send, "send", "", `Deliver the article after rendering ("email")`)
}

// generateOptions are the resolved flag values with config defaults applied.
type generateOptions struct {
	Format          content.Format
	Style           content.Style
	OutputDir       string
	Language        string
	ArticleLanguage string
	Send            string
}

func (f *generateFlags) resolve(cfg *config.Config) (generateOptions, error) {
	formatValue := firstNonEmpty(f.format, cfg.General.DefaultFormat)
	format, ok := content.ParseFormat(formatValue)
	if !ok {
		return generateOptions{}, fmt.Errorf("unknown format %q (expected markdown, html, or epub)", formatValue)
	}

	styleValue := firstNonEmpty(f.style, cfg.General.DefaultStyle)
	style, ok := content.ParseStyle(styleValue)
	if !ok {
		return generateOptions{}, fmt.Errorf("unknown style %q (expected detailed, concise, summary, or bullets)", styleValue)
	}

	outputDir := cfg.General.OutputDir
	if f.outputDir != "" {
		expanded, err := config.ExpandPath(f.outputDir)
		if err != nil {
			return generateOptions{}, err
		}
		outputDir = expanded
	}

	if f.send != "" && f.send != "email" {
		return generateOptions{}, fmt.Errorf("unknown delivery method %q (only email is supported)", f.send)
	}

	return generateOptions{
		Format:          format,
		Style:           style,
		OutputDir:       outputDir,
		Language:        f.language,
		ArticleLanguage: f.articleLanguage,
		Send:            f.send,
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// pipeline bundles what a processing command needs: resolved config, the
// open database, a logger, and command output.
type pipeline struct {
	cfg    *config.Config
	store  *store.Store
	logger *slog.Logger
	out    io.Writer
}

// newPipeline acquires the single-instance processing lock and opens the
// database. The returned cleanup releases both; callers defer it
// immediately.
func newPipeline(cctx *commandContext, out io.Writer) (*pipeline, func(), error) {
	cfg, err := cctx.ensureConfig()
	if err != nil {
		return nil, nil, err
	}

	logger, err := logging.New(logging.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	if err != nil {
		return nil, nil, err
	}

	lock := flock.New(cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return nil, nil, fmt.Errorf("acquire processing lock: %w", err)
	}
	if !locked {
		return nil, nil, errors.New("another distill invocation is already processing; wait for it to finish")
	}

	st, err := store.Open(cfg)
	if err != nil {
		_ = lock.Unlock()
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	cleanup := func() {
		if err := st.Close(); err != nil {
			logger.Warn("close database", logging.Error(err))
		}
		if err := lock.Unlock(); err != nil {
			logger.Warn("release processing lock", logging.Error(err))
		}
	}
	return &pipeline{cfg: cfg, store: st, logger: logger, out: out}, cleanup, nil
}

// runContext tags the context with a fresh run ID so every log line from
// this invocation can be correlated.
func (p *pipeline) runContext(parent context.Context) context.Context {
	return services.WithRunID(parent, uuid.NewString())
}

// generateAndSave runs the back half of the pipeline: article generation,
// rendering, persistence, and optional delivery.
func (p *pipeline) generateAndSave(ctx context.Context, transcript *content.Transcript, source content.Source, opts generateOptions, articleLang string) error {
	ctx = services.WithStep(ctx, "generate")
	client := claude.NewClient(claude.Config{
		APIKey:         p.cfg.Claude.APIKey,
		BaseURL:        p.cfg.Claude.BaseURL,
		Model:          p.cfg.Claude.Model,
		MaxTokens:      p.cfg.Claude.MaxTokens,
		TimeoutSeconds: p.cfg.Claude.TimeoutSeconds,
	})
	generator := article.NewGenerator(client, p.logger)

	fmt.Fprintf(p.out, "Generating %s article with %s...\n", opts.Style, client.Model())
	art, err := generator.Generate(ctx, transcript, source, opts.Style, articleLang)
	if err != nil {
		return err
	}

	baseName := textutil.SanitizeFileName(art.Title, textutil.ShortID(art.ContentID))
	path, err := output.Write(*art, opts.OutputDir, baseName, opts.Format)
	if err != nil {
		return err
	}
	if _, err := p.store.SaveArticle(ctx, *art, path, opts.Format); err != nil {
		return err
	}
	fmt.Fprintf(p.out, "Saved %s\n", path)

	if opts.Send == "email" {
		ctx = services.WithStep(ctx, "deliver")
		if err := deliver.NewService(p.cfg).Send(ctx, *art); err != nil {
			return err
		}
		fmt.Fprintf(p.out, "Emailed to %s\n", p.cfg.Email.To)
	}
	return nil
}

// transcribeAudio runs the configured whisper backend over a downloaded
// audio file. An empty language falls back to the configured default.
func (p *pipeline) transcribeAudio(ctx context.Context, audioPath, contentID, language string) (*content.Transcript, error) {
	ctx = services.WithStep(ctx, "transcribe")
	backend, err := whisper.NewBackend(p.cfg)
	if err != nil {
		return nil, err
	}
	if language == "" {
		language = p.cfg.Whisper.Language
	}

	fmt.Fprintf(p.out, "Transcribing with the %s whisper backend (this can take a while)...\n", p.cfg.Whisper.Backend)
	text, segments, err := backend.Transcribe(ctx, audioPath, language)
	if err != nil {
		return nil, err
	}
	return &content.Transcript{
		ContentID: contentID,
		Text:      text,
		Segments:  segments,
		Language:  language,
		Method:    whisper.Method(backend),
	}, nil
}

// removeAudioDir drops the temporary download directory once transcription
// no longer needs the file.
func (p *pipeline) removeAudioDir(audioPath string) {
	if audioPath == "" {
		return
	}
	if err := os.RemoveAll(filepath.Dir(audioPath)); err != nil {
		p.logger.Warn("remove temporary audio", logging.Error(err))
	}
}
