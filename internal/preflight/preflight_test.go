package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"distill/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckDiskSpace_OK(t *testing.T) {
	result := CheckDiskSpace("test", t.TempDir())
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
	if !strings.Contains(result.Detail, "GiB free") {
		t.Fatalf("expected free-space figure in detail, got: %s", result.Detail)
	}
}

func TestCheckDiskSpace_MissingPath(t *testing.T) {
	result := CheckDiskSpace("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing path")
	}
}

func TestBinaryRequirements_FollowBackend(t *testing.T) {
	names := func(reqs []Requirement) []string {
		out := make([]string, 0, len(reqs))
		for _, req := range reqs {
			out = append(out, req.Name)
		}
		return out
	}

	local := names(binaryRequirements("local"))
	if len(local) != 2 || local[0] != "yt-dlp" || local[1] != "whisper" {
		t.Fatalf("unexpected local requirements: %v", local)
	}

	api := names(binaryRequirements("api"))
	if len(api) != 2 || api[0] != "yt-dlp" || api[1] != "ffmpeg" {
		t.Fatalf("unexpected api requirements: %v", api)
	}
}

func TestCheckBinaries_ReportsMissing(t *testing.T) {
	binDir := t.TempDir()
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(filepath.Join(binDir, "yt-dlp"), script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	t.Setenv("PATH", binDir)

	results := CheckBinaries("local")
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if !results[0].Passed {
		t.Fatalf("expected yt-dlp stub to be found: %s", results[0].Detail)
	}
	if results[1].Passed {
		t.Fatal("expected whisper to be missing")
	}
	if !strings.Contains(results[1].Detail, "not found") {
		t.Fatalf("expected not-found detail, got: %s", results[1].Detail)
	}
}

func TestCheckClaude_MissingKey(t *testing.T) {
	result := CheckClaude(context.Background(), config.Claude{})
	if result.Passed {
		t.Fatal("expected failure for missing key")
	}
	if result.Detail != "API key missing" {
		t.Fatalf("unexpected detail: %s", result.Detail)
	}
}

func TestCheckClaude_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "good-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"OK"}]}`))
	}))
	defer srv.Close()

	result := CheckClaude(context.Background(), config.Claude{APIKey: "good-key", BaseURL: srv.URL})
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
}

func TestCheckClaude_BadKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	result := CheckClaude(context.Background(), config.Claude{APIKey: "bad-key", BaseURL: srv.URL})
	if result.Passed {
		t.Fatal("expected failure for rejected key")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	results := RunAll(context.Background(), nil)
	if results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_CoversConfiguredChecks(t *testing.T) {
	cfg := config.Default()
	cfg.General.DataDir = t.TempDir()
	cfg.General.OutputDir = t.TempDir()
	cfg.Claude.APIKey = ""

	results := RunAll(context.Background(), &cfg)
	// Data dir, output dir, free space, yt-dlp, whisper, Claude API.
	if len(results) != 6 {
		t.Fatalf("expected 6 results, got %d", len(results))
	}
	byName := map[string]Result{}
	for _, r := range results {
		byName[r.Name] = r
	}
	for _, name := range []string{"Data directory", "Output directory", "Free space", "yt-dlp", "whisper", "Claude API"} {
		if _, ok := byName[name]; !ok {
			t.Fatalf("expected check %q in results", name)
		}
	}
	if byName["Claude API"].Passed {
		t.Fatal("expected Claude check to fail without a key")
	}
}
