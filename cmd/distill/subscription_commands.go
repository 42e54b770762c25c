package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"distill/internal/sources/podcast"
	"distill/internal/store"
)

func newSubscribeCommand(cctx *commandContext) *cobra.Command {
	var autoProcess bool
	var favorite bool

	cmd := &cobra.Command{
		Use:   "subscribe <feed-url>",
		Short: "Subscribe to a podcast feed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			feedURL := args[0]
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("auto-process") {
				autoProcess = cfg.Subscriptions.AutoProcess
			}

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			out := cmd.OutOrStdout()
			title := ""
			if feed, err := podcast.NewService().ParseFeed(ctx, feedURL); err == nil {
				title = feed.Title
			} else {
				fmt.Fprintf(out, "Could not read the feed title yet: %v\n", err)
			}

			return cctx.withStore(func(st *store.Store) error {
				if err := st.SaveSubscription(ctx, feedURL, title, autoProcess); err != nil {
					return err
				}
				if cmd.Flags().Changed("favorite") {
					if _, err := st.SetFavorite(ctx, feedURL, favorite); err != nil {
						return err
					}
				}
				name := title
				if name == "" {
					name = feedURL
				}
				fmt.Fprintf(out, "Subscribed to %s\n", name)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&autoProcess, "auto-process", false, "Flag new episodes for processing during sync (default from config)")
	cmd.Flags().BoolVar(&favorite, "favorite", false, "Pin the feed to the top of the subscription list")
	return cmd
}

func newUnsubscribeCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "unsubscribe <feed-url>",
		Short: "Remove a podcast feed subscription",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			feedURL := args[0]
			return cctx.withStore(func(st *store.Store) error {
				deleted, err := st.DeleteSubscription(cmd.Context(), feedURL)
				if err != nil {
					return err
				}
				if !deleted {
					return fmt.Errorf("no subscription found for %s", feedURL)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Unsubscribed from %s\n", feedURL)
				return nil
			})
		},
	}
}

func newSubscriptionsCommand(cctx *commandContext) *cobra.Command {
	var showRecent bool

	cmd := &cobra.Command{
		Use:   "subscriptions",
		Short: "List podcast feed subscriptions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.withStore(func(st *store.Store) error {
				ctx := cmd.Context()
				out := cmd.OutOrStdout()

				subs, err := st.Subscriptions(ctx)
				if err != nil {
					return err
				}
				if len(subs) == 0 {
					fmt.Fprintln(out, "No subscriptions yet. Add one with: distill subscribe <feed-url>")
				} else {
					rows := make([][]string, 0, len(subs))
					for _, sub := range subs {
						title := sub.Title
						if title == "" {
							title = "Unknown"
						}
						lastChecked := "Never"
						if sub.LastChecked != nil {
							lastChecked = sub.LastChecked.Format("2006-01-02 15:04")
						}
						rows = append(rows, []string{
							title,
							sub.FeedURL,
							lastChecked,
							yesNo(sub.AutoProcess),
							yesNo(sub.Favorite),
						})
					}
					fmt.Fprintln(out, renderTable([]string{"Title", "Feed URL", "Last Checked", "Auto", "Favorite"}, rows))
				}

				if !showRecent {
					return nil
				}
				recent, err := st.RecentFeeds(ctx, 10)
				if err != nil {
					return err
				}
				if len(recent) == 0 {
					return nil
				}
				fmt.Fprintln(out, "Recently processed feeds without a subscription:")
				rows := make([][]string, 0, len(recent))
				for _, feed := range recent {
					title := feed.Title
					if title == "" {
						title = "Unknown"
					}
					rows = append(rows, []string{title, feed.FeedURL, feed.LastUsed.Format("2006-01-02")})
				}
				fmt.Fprintln(out, renderTable([]string{"Title", "Feed URL", "Last Used"}, rows))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&showRecent, "recent", false, "Also list recently processed feeds you have not subscribed to")
	return cmd
}

func newSyncCommand(cctx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Check subscribed feeds for new episodes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			return cctx.withStore(func(st *store.Store) error {
				subs, err := st.Subscriptions(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(subs) == 0 {
					fmt.Fprintln(out, "No subscriptions to sync.")
					return nil
				}

				interval := time.Duration(cfg.Subscriptions.CheckIntervalHours) * time.Hour
				svc := podcast.NewService()
				for _, sub := range subs {
					name := sub.Title
					if name == "" {
						name = sub.FeedURL
					}
					if !force && interval > 0 && sub.LastChecked != nil && time.Since(*sub.LastChecked) < interval {
						fmt.Fprintf(out, "%s: checked recently, skipping (use --force to check anyway)\n", name)
						continue
					}

					feed, err := svc.ParseFeed(ctx, sub.FeedURL)
					if err != nil {
						// One broken feed must not block the rest.
						fmt.Fprintf(out, "%s: %v\n", name, err)
						continue
					}
					if len(feed.Episodes) == 0 {
						if err := st.MarkSubscriptionChecked(ctx, sub.FeedURL, nil); err != nil {
							return err
						}
						fmt.Fprintf(out, "%s: no episodes\n", name)
						continue
					}

					latest := feed.Episodes[0]
					if err := st.MarkSubscriptionChecked(ctx, sub.FeedURL, latest.PublishedAt); err != nil {
						return err
					}
					if isNewEpisode(sub.LastEpisodeDate, latest.PublishedAt) {
						fmt.Fprintf(out, "%s: new episode %q\n", name, latest.Title)
						if sub.AutoProcess {
							fmt.Fprintf(out, "  process it with: distill podcast %s --episode 1\n", sub.FeedURL)
						}
					} else {
						fmt.Fprintf(out, "%s: up to date\n", name)
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Check every feed even if it was checked recently")
	return cmd
}

func isNewEpisode(previous, latest *time.Time) bool {
	if latest == nil {
		return false
	}
	if previous == nil {
		return true
	}
	return latest.After(*previous)
}
