package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"distill/internal/content"
	"distill/internal/logging"
	"distill/internal/services"
	"distill/internal/sources/youtube"
)

func newYouTubeCommand(cctx *commandContext) *cobra.Command {
	flags := &generateFlags{}

	cmd := &cobra.Command{
		Use:   "youtube <url>",
		Short: "Turn a YouTube video into an article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			videoID, ok := youtube.ExtractVideoID(args[0])
			if !ok {
				return fmt.Errorf("unrecognized YouTube URL %q", args[0])
			}

			p, cleanup, err := newPipeline(cctx, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer cleanup()

			opts, err := flags.resolve(p.cfg)
			if err != nil {
				return err
			}

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()
			return runYouTube(ctx, p, videoID, opts)
		},
	}
	flags.register(cmd)
	return cmd
}

func runYouTube(ctx context.Context, p *pipeline, videoID string, opts generateOptions) error {
	canonical := youtube.CanonicalURL(videoID)
	contentID := content.Fingerprint(canonical)
	ctx = services.WithContentID(p.runContext(ctx), contentID)

	svc := youtube.NewService()

	transcript, err := p.store.GetTranscript(ctx, contentID)
	if err != nil {
		return err
	}
	var source *content.Source
	if transcript != nil {
		if source, err = p.store.GetSource(ctx, contentID); err != nil {
			return err
		}
	}

	if transcript != nil && source != nil {
		fmt.Fprintln(p.out, "Using cached transcript.")
	} else {
		transcript, err = fetchYouTubeTranscript(ctx, p, svc, videoID, opts.Language)
		if err != nil {
			return err
		}

		src := lookupYouTubeSource(ctx, p, svc, videoID)
		source = &src
		if _, err := p.store.SaveSource(ctx, src); err != nil {
			return err
		}
		if err := p.store.SaveTranscript(ctx, *transcript); err != nil {
			return err
		}
	}

	articleLang := firstNonEmpty(opts.ArticleLanguage, opts.Language, p.cfg.Whisper.Language)
	return p.generateAndSave(ctx, transcript, *source, opts, articleLang)
}

// fetchYouTubeTranscript prefers published captions; when the video has
// none it downloads the audio track and runs whisper instead.
func fetchYouTubeTranscript(ctx context.Context, p *pipeline, svc *youtube.Service, videoID, language string) (*content.Transcript, error) {
	fmt.Fprintln(p.out, "Fetching captions...")
	transcript, err := svc.FetchCaptions(ctx, videoID)
	if err == nil {
		return &transcript, nil
	}
	if !errors.Is(err, services.ErrNotFound) {
		return nil, err
	}

	fmt.Fprintln(p.out, "No captions published; downloading audio instead.")
	audioPath, err := svc.DownloadAudio(ctx, videoID, "")
	if err != nil {
		return nil, err
	}
	defer p.removeAudioDir(audioPath)

	return p.transcribeAudio(ctx, audioPath, content.Fingerprint(youtube.CanonicalURL(videoID)), language)
}

// lookupYouTubeSource never fails the run: when metadata cannot be fetched
// the article still carries the canonical URL and a placeholder title.
func lookupYouTubeSource(ctx context.Context, p *pipeline, svc *youtube.Service, videoID string) content.Source {
	source, err := svc.FetchMetadata(ctx, videoID)
	if err != nil {
		p.logger.Warn("fetch video metadata", logging.Error(err))
		return content.Source{
			URL:   youtube.CanonicalURL(videoID),
			Title: "YouTube Video " + videoID,
			Kind:  content.KindYouTube,
		}
	}
	return source
}
