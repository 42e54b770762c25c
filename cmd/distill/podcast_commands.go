package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"distill/internal/content"
	"distill/internal/logging"
	"distill/internal/services"
	"distill/internal/sources/podcast"
)

const episodeListLimit = 20

func stdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func newPodcastCommand(cctx *commandContext) *cobra.Command {
	flags := &generateFlags{}
	var episodeFlag int

	cmd := &cobra.Command{
		Use:   "podcast <feed-url>",
		Short: "Browse a podcast feed and turn one episode into an article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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
			return runPodcast(ctx, p, cmd, args[0], episodeFlag, opts)
		},
	}
	cmd.Flags().IntVarP(&episodeFlag, "episode", "e", 0, "Episode number to process (1 = newest); skips the interactive prompt")
	flags.register(cmd)
	return cmd
}

func runPodcast(ctx context.Context, p *pipeline, cmd *cobra.Command, feedURL string, episodeNumber int, opts generateOptions) error {
	ctx = p.runContext(ctx)

	fmt.Fprintf(p.out, "Parsing feed %s...\n", feedURL)
	svc := podcast.NewService()
	feed, err := svc.ParseFeed(ctx, feedURL)
	if err != nil {
		return err
	}
	if len(feed.Episodes) == 0 {
		fmt.Fprintln(p.out, "The feed has no playable episodes.")
		return nil
	}

	if episodeNumber == 0 {
		if !stdinIsTerminal() {
			return fmt.Errorf("stdin is not a terminal; pass --episode to pick one of the %d episodes", len(feed.Episodes))
		}
		episodeNumber, err = promptEpisode(cmd, p, feed)
		if err != nil {
			return err
		}
	}
	if episodeNumber < 1 || episodeNumber > len(feed.Episodes) {
		return fmt.Errorf("episode %d out of range (the feed has %d)", episodeNumber, len(feed.Episodes))
	}
	episode := feed.Episodes[episodeNumber-1]
	source := podcast.EpisodeSource(episode, feedURL)

	// Reuse the language previously chosen for this feed unless the flag
	// overrides it.
	language := opts.Language
	if language == "" {
		if recent, err := p.store.RecentLanguages(ctx, feedURL, 1); err == nil && len(recent) > 0 {
			language = recent[0].Language
		}
	}

	return processPodcastSource(ctx, p, svc, source, opts, language)
}

// promptEpisode lists the newest episodes and reads a selection from stdin.
func promptEpisode(cmd *cobra.Command, p *pipeline, feed podcast.Feed) (int, error) {
	shown := len(feed.Episodes)
	if shown > episodeListLimit {
		shown = episodeListLimit
	}
	rows := make([][]string, 0, shown)
	for i, episode := range feed.Episodes[:shown] {
		published := "Unknown"
		if episode.PublishedAt != nil {
			published = episode.PublishedAt.Format("2006-01-02")
		}
		rows = append(rows, []string{strconv.Itoa(i + 1), episode.Title, published})
	}

	fmt.Fprintf(p.out, "\n%s\n", feed.Title)
	fmt.Fprintln(p.out, renderTable([]string{"#", "Title", "Published"}, rows))
	fmt.Fprintf(p.out, "Select an episode (1-%d): ", shown)

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil {
		return 0, fmt.Errorf("read episode selection: %w", err)
	}
	choice, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, fmt.Errorf("invalid episode selection %q", strings.TrimSpace(line))
	}
	return choice, nil
}

func newPodcastEpisodeCommand(cctx *commandContext) *cobra.Command {
	flags := &generateFlags{}
	var title string

	cmd := &cobra.Command{
		Use:   "podcast-episode <audio-url>",
		Short: "Turn a single podcast episode into an article by its audio URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, cleanup, err := newPipeline(cctx, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer cleanup()

			opts, err := flags.resolve(p.cfg)
			if err != nil {
				return err
			}

			audioURL := args[0]
			if title == "" {
				title = podcast.TitleFromAudioURL(audioURL)
			}
			if title == "" {
				title = "Podcast Episode"
			}
			source := content.Source{
				URL:   audioURL,
				Title: title,
				Kind:  content.KindPodcast,
			}

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()
			return processPodcastSource(p.runContext(ctx), p, podcast.NewService(), source, opts, opts.Language)
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "Episode title for the article (default derived from the URL)")
	flags.register(cmd)
	return cmd
}

// processPodcastSource is the shared back half of both podcast commands:
// reuse a cached transcript or download and transcribe, persist, generate.
func processPodcastSource(ctx context.Context, p *pipeline, svc *podcast.Service, source content.Source, opts generateOptions, language string) error {
	contentID := content.Fingerprint(source.URL)
	ctx = services.WithContentID(ctx, contentID)

	transcript, err := p.store.GetTranscript(ctx, contentID)
	if err != nil {
		return err
	}
	if transcript != nil {
		fmt.Fprintln(p.out, "Using cached transcript.")
	} else {
		fmt.Fprintf(p.out, "Downloading %s...\n", source.Title)
		audioPath, err := svc.Download(ctx, source.URL, "")
		if err != nil {
			return err
		}
		defer p.removeAudioDir(audioPath)

		transcript, err = p.transcribeAudio(ctx, audioPath, contentID, language)
		if err != nil {
			return err
		}
		if source.FeedURL != "" && transcript.Language != "" {
			if err := p.store.SaveFeedLanguage(ctx, source.FeedURL, transcript.Language); err != nil {
				p.logger.Warn("record feed language", logging.Error(err))
			}
		}
	}

	if _, err := p.store.SaveSource(ctx, source); err != nil {
		return err
	}
	if err := p.store.SaveTranscript(ctx, *transcript); err != nil {
		return err
	}

	articleLang := firstNonEmpty(opts.ArticleLanguage, language, p.cfg.Whisper.Language)
	return p.generateAndSave(ctx, transcript, source, opts, articleLang)
}
