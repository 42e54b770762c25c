package podcast

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"distill/internal/services"
)

func TestDownloadEpisode(t *testing.T) {
	audio := []byte("fake mp3 payload")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/files/episode-42.mp3" {
			t.Errorf("unexpected path: %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write(audio)
	}))
	defer server.Close()

	outputDir := t.TempDir()
	path, err := NewService().Download(context.Background(), server.URL+"/files/episode-42.mp3?token=abc", outputDir)
	if err != nil {
		t.Fatalf("Download returned error: %v", err)
	}

	if expected := filepath.Join(outputDir, "episode-42.mp3"); path != expected {
		t.Fatalf("expected path %q, got %q", expected, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read downloaded file: %v", err)
	}
	if string(data) != string(audio) {
		t.Fatalf("downloaded contents do not match: %q", data)
	}
}

func TestDownloadEpisodeHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	outputDir := t.TempDir()
	if _, err := NewService().Download(context.Background(), server.URL+"/gone.mp3", outputDir); !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient error, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(outputDir, "gone.mp3")); !os.IsNotExist(err) {
		t.Fatalf("expected partial download to be removed, stat err: %v", err)
	}
}

func TestEpisodeFilename(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{url: "https://example.com/shows/ep.mp3?token=1", want: "ep.mp3"},
		{url: "https://example.com/shows/e42.m4a#t=10", want: "e42.m4a"},
		{url: "https://example.com/", want: "episode.mp3"},
	}
	for _, tt := range tests {
		if got := episodeFilename(tt.url); got != tt.want {
			t.Fatalf("episodeFilename(%q) = %q, expected %q", tt.url, got, tt.want)
		}
	}
}

func TestTitleFromAudioURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{url: "https://cdn.example.com/shows/deep-dive_ep42.mp3?token=1", want: "Deep Dive Ep42"},
		{url: "https://cdn.example.com/the.big.interview.m4a", want: "The Big Interview"},
		{url: "https://cdn.example.com/", want: "Episode"},
		{url: "https://cdn.example.com/----.mp3", want: ""},
	}
	for _, tt := range tests {
		if got := TitleFromAudioURL(tt.url); got != tt.want {
			t.Fatalf("TitleFromAudioURL(%q) = %q, expected %q", tt.url, got, tt.want)
		}
	}
}
