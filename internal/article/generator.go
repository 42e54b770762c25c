package article

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"distill/internal/content"
	"distill/internal/logging"
)

const (
	// singlePassCharLimit approximates 50k tokens at 4 chars/token. Inputs
	// at or below this size are generated in one completion call.
	singlePassCharLimit = 200_000

	chunkSizeChars    = 200_000
	chunkOverlapChars = 2_000
)

// Completer is the text-completion capability the generator drives. The
// claude client satisfies it; tests substitute scripted fakes.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Generator turns a transcript into a structured article, choosing between
// the single-pass and chunked strategies based on input size.
type Generator struct {
	completer Completer
	logger    *slog.Logger
}

// NewGenerator constructs a Generator. A nil logger disables logging.
func NewGenerator(completer Completer, logger *slog.Logger) *Generator {
	return &Generator{
		completer: completer,
		logger:    logging.NewComponentLogger(logger, "generator"),
	}
}

// Generate produces an article from the transcript in the requested style and
// language. Inputs over the single-pass limit are split into overlapping
// chunks, each summarized in order with its own completion call, and the
// ordered summaries synthesized with a final call. Calls run strictly
// sequentially; any failed call or unparseable response fails the whole run
// with nothing partial kept.
func (g *Generator) Generate(ctx context.Context, transcript *content.Transcript, source content.Source, style content.Style, lang string) (*content.Article, error) {
	logger := logging.WithContext(ctx, g.logger)
	if transcript == nil {
		return nil, fmt.Errorf("generate article: nil transcript")
	}
	if lang == "" {
		lang = "en"
	}

	text := transcript.Text
	logger.Info(
		"generating article",
		logging.String("style", string(style)),
		logging.String("language", lang),
		logging.Int("chars", len(text)),
		logging.Int("estimated_tokens", estimateTokens(text)),
	)

	if len(text) <= singlePassCharLimit {
		return g.generateSinglePass(ctx, transcript, source, style, lang)
	}
	return g.generateChunked(ctx, transcript, source, style, lang)
}

func (g *Generator) generateSinglePass(ctx context.Context, transcript *content.Transcript, source content.Source, style content.Style, lang string) (*content.Article, error) {
	system, user := generationPrompt(transcript.Text, source, style, lang)
	raw, err := g.completer.Complete(ctx, system, user)
	if err != nil {
		return nil, fmt.Errorf("generate article: %w", err)
	}
	return parseArticle(raw, transcript.ContentID, style, source)
}

func (g *Generator) generateChunked(ctx context.Context, transcript *content.Transcript, source content.Source, style content.Style, lang string) (*content.Article, error) {
	logger := logging.WithContext(ctx, g.logger)
	chunks := slices.Collect(Chunks(transcript.Text, chunkSizeChars, chunkOverlapChars))
	logger.Info("transcript exceeds single-pass limit, using chunked strategy", logging.Int("chunks", len(chunks)))

	summaries := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		// Chunk summaries run without a system prompt; only the final
		// synthesis call carries the article-writer role.
		summary, err := g.completer.Complete(ctx, "", chunkPrompt(chunk, i+1, len(chunks)))
		if err != nil {
			return nil, fmt.Errorf("summarize chunk %d/%d: %w", i+1, len(chunks), err)
		}
		summaries = append(summaries, summary)
		logger.Info("summarized chunk", logging.Int("chunk", i+1), logging.Int("total", len(chunks)))
	}

	system, user := synthesisPrompt(summaries, source, style, lang)
	raw, err := g.completer.Complete(ctx, system, user)
	if err != nil {
		return nil, fmt.Errorf("synthesize article: %w", err)
	}
	return parseArticle(raw, transcript.ContentID, style, source)
}

func estimateTokens(text string) int {
	return len(text) / 4
}
