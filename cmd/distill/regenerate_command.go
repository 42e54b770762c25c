package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"distill/internal/services"
)

func newRegenerateCommand(cctx *commandContext) *cobra.Command {
	flags := &generateFlags{}

	cmd := &cobra.Command{
		Use:   "regenerate <content-id>",
		Short: "Generate a fresh article from a cached transcript",
		Long: `Generate a fresh article from a transcript cached by an earlier run,
without refetching anything. Useful for trying another style, format, or
language. The content ID prefix comes from the history listing.`,
		Args: cobra.ExactArgs(1),
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
			return runRegenerate(ctx, p, args[0], opts)
		},
	}
	flags.register(cmd)
	return cmd
}

func runRegenerate(ctx context.Context, p *pipeline, idArg string, opts generateOptions) error {
	ctx = p.runContext(ctx)

	contentID, err := p.store.ResolveContentID(ctx, idArg)
	if err != nil {
		return err
	}
	ctx = services.WithContentID(ctx, contentID)

	source, err := p.store.GetSource(ctx, contentID)
	if err != nil {
		return err
	}
	if source == nil {
		return fmt.Errorf("no source recorded for %s (see distill history)", idArg)
	}
	transcript, err := p.store.GetTranscript(ctx, contentID)
	if err != nil {
		return err
	}
	if transcript == nil {
		return fmt.Errorf("no cached transcript for %s; process the source again first", idArg)
	}

	fmt.Fprintf(p.out, "Regenerating from the cached transcript of %q.\n", source.Title)
	articleLang := firstNonEmpty(opts.ArticleLanguage, opts.Language, transcript.Language)
	return p.generateAndSave(ctx, transcript, *source, opts, articleLang)
}
