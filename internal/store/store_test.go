package store_test

import (
	"context"
	"testing"
	"time"

	"distill/internal/content"
	"distill/internal/store"
	"distill/internal/testsupport"
)

func makeSource(url string) content.Source {
	published := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return content.Source{
		URL:             url,
		Title:           "Test Video",
		Kind:            content.KindYouTube,
		DurationSeconds: 600,
		PublishedAt:     &published,
	}
}

func makePodcastSource(url, feedURL string) content.Source {
	return content.Source{
		URL:     url,
		Title:   "Episode",
		Kind:    content.KindPodcast,
		FeedURL: feedURL,
	}
}

func makeTranscript(contentID string) content.Transcript {
	return content.Transcript{
		ContentID: contentID,
		Text:      "Hello world. This is a test transcript.",
		Segments: []content.Segment{
			{Start: 0, End: 3, Text: "Hello world."},
			{Start: 3, End: 6, Text: "This is a test transcript."},
		},
		Language: "en",
		Method:   content.MethodCaptions,
	}
}

func makeArticle(contentID string, src content.Source) content.Article {
	return content.Article{
		ContentID: contentID,
		Title:     "Test Article",
		Subtitle:  "A test subtitle",
		Summary:   "This is a test summary.",
		Sections: []content.Section{
			{Heading: "Introduction", Body: "Some intro text."},
			{Heading: "Main Points", Body: "Key takeaways."},
		},
		Style:  content.StyleDetailed,
		Source: src,
	}
}

func TestOpenAppliesMigrations(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	url := "https://www.youtube.com/watch?v=abc123"
	contentID, err := st.SaveSource(ctx, makeSource(url))
	if err != nil {
		t.Fatalf("SaveSource failed: %v", err)
	}
	if contentID != content.Fingerprint(url) {
		t.Fatalf("unexpected content ID %q", contentID)
	}

	// The favorite column arrives in a later migration than the base tables.
	found, err := st.SetFavorite(ctx, "https://example.com/feed.xml", true)
	if err != nil {
		t.Fatalf("SetFavorite failed: %v", err)
	}
	if found {
		t.Fatal("expected no subscription to update")
	}

	if err := st.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	src, err := reopened.GetSource(ctx, contentID)
	if err != nil {
		t.Fatalf("GetSource failed: %v", err)
	}
	if src == nil || src.Title != "Test Video" {
		t.Fatalf("unexpected source after reopen: %#v", src)
	}
}

func TestSaveSourceReplacesByURL(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	src := makeSource("https://www.youtube.com/watch?v=abc123")
	first, err := st.SaveSource(ctx, src)
	if err != nil {
		t.Fatalf("SaveSource failed: %v", err)
	}

	src.Title = "Updated Title"
	second, err := st.SaveSource(ctx, src)
	if err != nil {
		t.Fatalf("second SaveSource failed: %v", err)
	}
	if first != second {
		t.Fatalf("expected stable content ID, got %q then %q", first, second)
	}

	got, err := st.GetSource(ctx, first)
	if err != nil {
		t.Fatalf("GetSource failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected source")
	}
	if got.Title != "Updated Title" {
		t.Fatalf("expected updated title, got %q", got.Title)
	}
	if got.Kind != content.KindYouTube || got.DurationSeconds != 600 {
		t.Fatalf("unexpected source fields: %#v", got)
	}
	if got.PublishedAt == nil || !got.PublishedAt.Equal(*src.PublishedAt) {
		t.Fatalf("expected published_at preserved, got %v", got.PublishedAt)
	}
}

func TestGetSourceMissing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	src, err := st.GetSource(context.Background(), "nonexistent")
	if err != nil {
		t.Fatalf("GetSource failed: %v", err)
	}
	if src != nil {
		t.Fatalf("expected nil source, got %#v", src)
	}
}

func TestResolveContentID(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	full, err := st.SaveSource(ctx, makeSource("https://www.youtube.com/watch?v=abc123"))
	if err != nil {
		t.Fatalf("SaveSource failed: %v", err)
	}
	if _, err := st.SaveSource(ctx, makeSource("https://www.youtube.com/watch?v=xyz789")); err != nil {
		t.Fatalf("second SaveSource failed: %v", err)
	}

	got, err := st.ResolveContentID(ctx, full[:12])
	if err != nil {
		t.Fatalf("ResolveContentID failed: %v", err)
	}
	if got != full {
		t.Fatalf("expected %q, got %q", full, got)
	}

	if got, err = st.ResolveContentID(ctx, full); err != nil || got != full {
		t.Fatalf("full ID should resolve to itself, got %q err %v", got, err)
	}

	if _, err := st.ResolveContentID(ctx, "ab"); err == nil {
		t.Fatal("expected error for a too-short prefix")
	}
	if _, err := st.ResolveContentID(ctx, "ffffffffffff"); err == nil {
		t.Fatal("expected error for an unknown prefix")
	}
}

func TestTranscriptRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	contentID := testsupport.SaveSource(t, st, makeSource("https://www.youtube.com/watch?v=abc123"))
	if err := st.SaveTranscript(ctx, makeTranscript(contentID)); err != nil {
		t.Fatalf("SaveTranscript failed: %v", err)
	}

	tr, err := st.GetTranscript(ctx, contentID)
	if err != nil {
		t.Fatalf("GetTranscript failed: %v", err)
	}
	if tr == nil {
		t.Fatal("expected transcript")
	}
	if tr.Text != "Hello world. This is a test transcript." {
		t.Fatalf("unexpected text %q", tr.Text)
	}
	if len(tr.Segments) != 2 || tr.Segments[1].Text != "This is a test transcript." {
		t.Fatalf("unexpected segments: %#v", tr.Segments)
	}
	if tr.Language != "en" || tr.Method != content.MethodCaptions {
		t.Fatalf("unexpected language/method: %q %q", tr.Language, tr.Method)
	}

	missing, err := st.GetTranscript(ctx, "nonexistent")
	if err != nil {
		t.Fatalf("GetTranscript missing failed: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil transcript, got %#v", missing)
	}
}

func TestTranscriptDefaultsLanguageAndMethod(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	contentID := testsupport.SaveSource(t, st, makeSource("https://www.youtube.com/watch?v=abc123"))
	if err := st.SaveTranscript(ctx, content.Transcript{ContentID: contentID, Text: "bare"}); err != nil {
		t.Fatalf("SaveTranscript failed: %v", err)
	}

	tr, err := st.GetTranscript(ctx, contentID)
	if err != nil {
		t.Fatalf("GetTranscript failed: %v", err)
	}
	if tr.Language != "en" {
		t.Fatalf("expected default language en, got %q", tr.Language)
	}
	if tr.Method != content.MethodCaptions {
		t.Fatalf("expected default method captions, got %q", tr.Method)
	}
	if len(tr.Segments) != 0 {
		t.Fatalf("expected no segments, got %#v", tr.Segments)
	}
}

func TestArticlesAppendOnly(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	src := makeSource("https://www.youtube.com/watch?v=abc123")
	contentID := testsupport.SaveSource(t, st, src)

	article := makeArticle(contentID, src)
	firstID, err := st.SaveArticle(ctx, article, "", "")
	if err != nil {
		t.Fatalf("SaveArticle failed: %v", err)
	}
	article.Style = content.StyleConcise
	secondID, err := st.SaveArticle(ctx, article, "/tmp/out.md", content.FormatMarkdown)
	if err != nil {
		t.Fatalf("second SaveArticle failed: %v", err)
	}
	if firstID == secondID {
		t.Fatalf("expected distinct article IDs, got %d twice", firstID)
	}

	articles, err := st.ArticlesForContent(ctx, contentID)
	if err != nil {
		t.Fatalf("ArticlesForContent failed: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(articles))
	}
	if articles[0].Style != content.StyleConcise || articles[1].Style != content.StyleDetailed {
		t.Fatalf("expected newest first, got %q then %q", articles[0].Style, articles[1].Style)
	}
}

func TestArticleRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	src := makeSource("https://www.youtube.com/watch?v=abc123")
	contentID := testsupport.SaveSource(t, st, src)

	id, err := st.SaveArticle(ctx, makeArticle(contentID, src), "/tmp/test.md", content.FormatMarkdown)
	if err != nil {
		t.Fatalf("SaveArticle failed: %v", err)
	}

	got, err := st.GetArticle(ctx, id)
	if err != nil {
		t.Fatalf("GetArticle failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected article")
	}
	if got.Title != "Test Article" || got.Subtitle != "A test subtitle" || got.Summary != "This is a test summary." {
		t.Fatalf("unexpected article fields: %#v", got)
	}
	if len(got.Sections) != 2 || got.Sections[0].Heading != "Introduction" || got.Sections[1].Body != "Key takeaways." {
		t.Fatalf("unexpected sections: %#v", got.Sections)
	}
	if got.Style != content.StyleDetailed {
		t.Fatalf("unexpected style %q", got.Style)
	}
	if got.Source.URL != src.URL || got.Source.Kind != content.KindYouTube {
		t.Fatalf("unexpected embedded source: %#v", got.Source)
	}

	missing, err := st.GetArticle(ctx, id+100)
	if err != nil {
		t.Fatalf("GetArticle missing failed: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil article, got %#v", missing)
	}
}

func TestHistoryNewestFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	videoSrc := makeSource("https://www.youtube.com/watch?v=abc123")
	videoID := testsupport.SaveSource(t, st, videoSrc)
	episodeSrc := makePodcastSource("https://example.com/ep1.mp3", "https://example.com/feed.xml")
	episodeID := testsupport.SaveSource(t, st, episodeSrc)

	if _, err := st.SaveArticle(ctx, makeArticle(videoID, videoSrc), "", content.FormatMarkdown); err != nil {
		t.Fatalf("SaveArticle failed: %v", err)
	}
	middleID, err := st.SaveArticle(ctx, makeArticle(episodeID, episodeSrc), "", content.FormatHTML)
	if err != nil {
		t.Fatalf("SaveArticle failed: %v", err)
	}
	lastID, err := st.SaveArticle(ctx, makeArticle(videoID, videoSrc), "", content.FormatEPUB)
	if err != nil {
		t.Fatalf("SaveArticle failed: %v", err)
	}

	entries, err := st.History(ctx, 2)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ArticleID != lastID || entries[1].ArticleID != middleID {
		t.Fatalf("expected newest first, got IDs %d,%d", entries[0].ArticleID, entries[1].ArticleID)
	}
	if entries[0].URL != videoSrc.URL || entries[0].Kind != content.KindYouTube {
		t.Fatalf("expected source fields joined in: %#v", entries[0])
	}
	if entries[0].Format != content.FormatEPUB {
		t.Fatalf("expected epub format, got %q", entries[0].Format)
	}
	if entries[1].Kind != content.KindPodcast {
		t.Fatalf("expected podcast kind, got %q", entries[1].Kind)
	}
	if entries[0].CreatedAt.IsZero() {
		t.Fatal("expected created_at populated")
	}
}

func TestSubscriptionUpsertPreservesFavorite(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	feed := "https://example.com/feed.xml"
	if err := st.SaveSubscription(ctx, feed, "My Podcast", true); err != nil {
		t.Fatalf("SaveSubscription failed: %v", err)
	}
	found, err := st.SetFavorite(ctx, feed, true)
	if err != nil {
		t.Fatalf("SetFavorite failed: %v", err)
	}
	if !found {
		t.Fatal("expected subscription to exist")
	}

	if err := st.SaveSubscription(ctx, feed, "Renamed Podcast", false); err != nil {
		t.Fatalf("re-subscribe failed: %v", err)
	}

	subs, err := st.Subscriptions(ctx)
	if err != nil {
		t.Fatalf("Subscriptions failed: %v", err)
	}
	if len(subs) != 1 {
		t.Fatalf("expected 1 subscription, got %d", len(subs))
	}
	if !subs[0].Favorite {
		t.Fatal("expected favorite flag to survive upsert")
	}
	if subs[0].Title != "Renamed Podcast" || subs[0].AutoProcess {
		t.Fatalf("expected refreshed fields, got %#v", subs[0])
	}
}

func TestSubscriptionsFavoritesFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	feeds := []string{
		"https://example.com/a.xml",
		"https://example.com/b.xml",
		"https://example.com/c.xml",
	}
	for _, feed := range feeds {
		if err := st.SaveSubscription(ctx, feed, "", false); err != nil {
			t.Fatalf("SaveSubscription %s failed: %v", feed, err)
		}
	}
	if _, err := st.SetFavorite(ctx, feeds[1], true); err != nil {
		t.Fatalf("SetFavorite failed: %v", err)
	}

	subs, err := st.Subscriptions(ctx)
	if err != nil {
		t.Fatalf("Subscriptions failed: %v", err)
	}
	if len(subs) != 3 {
		t.Fatalf("expected 3 subscriptions, got %d", len(subs))
	}
	if subs[0].FeedURL != feeds[1] {
		t.Fatalf("expected favorite first, got %q", subs[0].FeedURL)
	}
	if subs[1].FeedURL != feeds[2] || subs[2].FeedURL != feeds[0] {
		t.Fatalf("expected newest first after favorites, got %q,%q", subs[1].FeedURL, subs[2].FeedURL)
	}
}

func TestMarkSubscriptionChecked(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	feed := "https://example.com/feed.xml"
	if err := st.SaveSubscription(ctx, feed, "", false); err != nil {
		t.Fatalf("SaveSubscription failed: %v", err)
	}

	episode := time.Date(2024, 1, 15, 8, 30, 0, 0, time.UTC)
	if err := st.MarkSubscriptionChecked(ctx, feed, &episode); err != nil {
		t.Fatalf("MarkSubscriptionChecked failed: %v", err)
	}

	subs, err := st.Subscriptions(ctx)
	if err != nil {
		t.Fatalf("Subscriptions failed: %v", err)
	}
	if subs[0].LastChecked == nil {
		t.Fatal("expected last_checked set")
	}
	if subs[0].LastEpisodeDate == nil || !subs[0].LastEpisodeDate.Equal(episode) {
		t.Fatalf("expected episode date stored, got %v", subs[0].LastEpisodeDate)
	}

	// A nil episode date leaves the stored one in place.
	if err := st.MarkSubscriptionChecked(ctx, feed, nil); err != nil {
		t.Fatalf("second MarkSubscriptionChecked failed: %v", err)
	}
	subs, err = st.Subscriptions(ctx)
	if err != nil {
		t.Fatalf("Subscriptions failed: %v", err)
	}
	if subs[0].LastEpisodeDate == nil || !subs[0].LastEpisodeDate.Equal(episode) {
		t.Fatalf("expected episode date preserved, got %v", subs[0].LastEpisodeDate)
	}
}

func TestDeleteSubscription(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	feed := "https://example.com/feed.xml"
	if err := st.SaveSubscription(ctx, feed, "", false); err != nil {
		t.Fatalf("SaveSubscription failed: %v", err)
	}

	deleted, err := st.DeleteSubscription(ctx, feed)
	if err != nil {
		t.Fatalf("DeleteSubscription failed: %v", err)
	}
	if !deleted {
		t.Fatal("expected subscription deleted")
	}

	deleted, err = st.DeleteSubscription(ctx, feed)
	if err != nil {
		t.Fatalf("second DeleteSubscription failed: %v", err)
	}
	if deleted {
		t.Fatal("expected nothing left to delete")
	}
}

func TestRecentFeedsExcludesSubscribed(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	testsupport.SaveSource(t, st, makePodcastSource("https://a.example/ep1.mp3", "https://a.example/feed.xml"))
	testsupport.SaveSource(t, st, makePodcastSource("https://b.example/ep1.mp3", "https://b.example/feed.xml"))
	testsupport.SaveSource(t, st, makeSource("https://www.youtube.com/watch?v=abc123"))
	testsupport.SaveSource(t, st, makePodcastSource("https://c.example/ep1.mp3", "https://c.example/feed.xml"))

	if err := st.SaveSubscription(ctx, "https://b.example/feed.xml", "", false); err != nil {
		t.Fatalf("SaveSubscription failed: %v", err)
	}

	feeds, err := st.RecentFeeds(ctx, 10)
	if err != nil {
		t.Fatalf("RecentFeeds failed: %v", err)
	}
	if len(feeds) != 2 {
		t.Fatalf("expected 2 feeds, got %d: %#v", len(feeds), feeds)
	}
	if feeds[0].FeedURL != "https://c.example/feed.xml" || feeds[1].FeedURL != "https://a.example/feed.xml" {
		t.Fatalf("unexpected feed order: %q, %q", feeds[0].FeedURL, feeds[1].FeedURL)
	}
}

func TestFeedLanguageRecency(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	feed1 := "https://a.example/feed.xml"
	feed2 := "https://b.example/feed.xml"
	for _, pair := range []struct{ feed, lang string }{
		{feed1, "en"},
		{feed1, "es"},
		{feed2, "fr"},
	} {
		if err := st.SaveFeedLanguage(ctx, pair.feed, pair.lang); err != nil {
			t.Fatalf("SaveFeedLanguage %s/%s failed: %v", pair.feed, pair.lang, err)
		}
	}

	scoped, err := st.RecentLanguages(ctx, feed1, 5)
	if err != nil {
		t.Fatalf("RecentLanguages scoped failed: %v", err)
	}
	if len(scoped) != 2 || scoped[0].Language != "es" || scoped[1].Language != "en" {
		t.Fatalf("unexpected scoped languages: %#v", scoped)
	}

	all, err := st.RecentLanguages(ctx, "", 5)
	if err != nil {
		t.Fatalf("RecentLanguages all failed: %v", err)
	}
	if len(all) != 3 || all[0].Language != "fr" {
		t.Fatalf("unexpected global languages: %#v", all)
	}

	// Re-using a language bumps it back to the front.
	if err := st.SaveFeedLanguage(ctx, feed1, "en"); err != nil {
		t.Fatalf("SaveFeedLanguage bump failed: %v", err)
	}
	scoped, err = st.RecentLanguages(ctx, feed1, 5)
	if err != nil {
		t.Fatalf("RecentLanguages after bump failed: %v", err)
	}
	if scoped[0].Language != "en" {
		t.Fatalf("expected en first after bump, got %q", scoped[0].Language)
	}
}
