package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"distill/internal/sources/podcast"
)

func promptFeed() podcast.Feed {
	published := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	return podcast.Feed{
		Title: "Test Show",
		Episodes: []podcast.Episode{
			{Title: "Newest", PublishedAt: &published},
			{Title: "Older"},
		},
	}
}

func TestPromptEpisodeReadsSelection(t *testing.T) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetIn(strings.NewReader("2\n"))

	choice, err := promptEpisode(cmd, &pipeline{out: &buf}, promptFeed())
	if err != nil {
		t.Fatalf("promptEpisode: %v", err)
	}
	if choice != 2 {
		t.Fatalf("expected choice 2, got %d", choice)
	}

	listing := buf.String()
	requireContains(t, listing, "Test Show")
	requireContains(t, listing, "Newest")
	requireContains(t, listing, "2024-03-10")
	// Episodes without a publish date show a placeholder.
	requireContains(t, listing, "Unknown")
}

func TestPromptEpisodeRejectsGarbage(t *testing.T) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetIn(strings.NewReader("first\n"))

	if _, err := promptEpisode(cmd, &pipeline{out: &buf}, promptFeed()); err == nil {
		t.Fatal("expected error for non-numeric selection")
	}
}
