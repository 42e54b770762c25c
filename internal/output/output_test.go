package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"distill/internal/content"
)

func sampleArticle() content.Article {
	published := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	return content.Article{
		ContentID: "abc123",
		Title:     "Understanding Go Iterators",
		Subtitle:  "A practical tour",
		Summary:   "Iterators arrived in Go 1.23.",
		Sections: []content.Section{
			{Heading: "Background", Body: "Range over func began as an experiment."},
			{Heading: "The Design", Body: "Seq and Seq2 cover most cases."},
		},
		Style: content.StyleDetailed,
		Source: content.Source{
			URL:         "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			Title:       "Go Team Talk",
			Kind:        content.KindYouTube,
			PublishedAt: &published,
		},
	}
}

func TestMarkdownLayout(t *testing.T) {
	expected := `# Understanding Go Iterators

*A practical tour*

> **TLDR:** Iterators arrived in Go 1.23.

*Source: [Go Team Talk](https://www.youtube.com/watch?v=dQw4w9WgXcQ) | Published: 2024-01-15*

## Background

Range over func began as an experiment.

## The Design

Seq and Seq2 cover most cases.
`
	if got := Markdown(sampleArticle()); got != expected {
		t.Fatalf("unexpected markdown:\n%s", got)
	}
}

func TestMarkdownOmitsEmptyOptionalParts(t *testing.T) {
	article := content.Article{
		Title:    "Bare Article",
		Summary:  "Short.",
		Sections: []content.Section{{Heading: "Only", Body: "Body."}},
		Source: content.Source{
			URL:   "https://example.com/feed.mp3",
			Title: "Feed",
			Kind:  content.KindPodcast,
		},
	}

	expected := `# Bare Article

> **TLDR:** Short.

*Source: [Feed](https://example.com/feed.mp3)*

## Only

Body.
`
	if got := Markdown(article); got != expected {
		t.Fatalf("unexpected markdown:\n%s", got)
	}
}

func TestHTMLWrapsConvertedMarkdown(t *testing.T) {
	article := sampleArticle()
	article.Title = "Iterators & Generators"

	page, err := HTML(article)
	if err != nil {
		t.Fatalf("HTML returned error: %v", err)
	}

	for _, want := range []string{
		"<!DOCTYPE html>",
		"<title>Iterators &amp; Generators</title>",
		"<h1>Iterators &amp; Generators</h1>",
		"<strong>TLDR:</strong>",
		"<blockquote>",
		`<a href="https://www.youtube.com/watch?v=dQw4w9WgXcQ">Go Team Talk</a>`,
		"<h2>Background</h2>",
		"<h2>The Design</h2>",
	} {
		if !strings.Contains(page, want) {
			t.Fatalf("expected page to contain %q\n%s", want, page)
		}
	}
}

func TestEPUBWritesArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "article.epub")
	if err := EPUB(sampleArticle(), path); err != nil {
		t.Fatalf("EPUB returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read epub: %v", err)
	}
	if len(data) < 4 || data[0] != 'P' || data[1] != 'K' {
		t.Fatalf("expected zip container, got leading bytes %q", data[:4])
	}
}

func TestWriteDispatchesOnFormat(t *testing.T) {
	article := sampleArticle()
	dir := t.TempDir()

	tests := []struct {
		format content.Format
		ext    string
	}{
		{format: content.FormatMarkdown, ext: ".md"},
		{format: content.FormatHTML, ext: ".html"},
		{format: content.FormatEPUB, ext: ".epub"},
	}

	for _, tt := range tests {
		path, err := Write(article, dir, "article", tt.format)
		if err != nil {
			t.Fatalf("Write(%s) returned error: %v", tt.format, err)
		}
		if filepath.Ext(path) != tt.ext {
			t.Fatalf("expected extension %s, got %s", tt.ext, path)
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat %s: %v", path, err)
		}
		if info.Size() == 0 {
			t.Fatalf("expected non-empty file at %s", path)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "article.md"))
	if err != nil {
		t.Fatalf("read markdown: %v", err)
	}
	if string(data) != Markdown(article) {
		t.Fatal("markdown file does not match renderer output")
	}
}
