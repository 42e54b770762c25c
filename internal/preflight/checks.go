package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"distill/internal/config"
	"distill/internal/services/claude"
)

// Audio downloads plus whisper output need head room under the data dir.
const minFreeBytes = 1 << 30

// Requirement describes an external binary the pipeline shells out to.
type Requirement struct {
	Name        string
	Command     string
	Description string
}

// CheckClaude verifies that the Anthropic API is reachable and the key is
// valid. It uses a 30-second timeout and a single attempt (no retries).
func CheckClaude(ctx context.Context, cfg config.Claude) Result {
	const name = "Claude API"

	if strings.TrimSpace(cfg.APIKey) == "" {
		return Result{Name: name, Detail: "API key missing"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client := claude.NewClient(claude.Config{
		APIKey:         cfg.APIKey,
		BaseURL:        cfg.BaseURL,
		Model:          cfg.Model,
		MaxTokens:      cfg.MaxTokens,
		TimeoutSeconds: cfg.TimeoutSeconds,
	})
	if err := client.HealthCheck(checkCtx); err != nil {
		return Result{Name: name, Detail: summarizeClaudeError(err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("API reachable (%s)", client.Model())}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckDiskSpace verifies the filesystem holding path has room for audio
// downloads and transcription output.
func CheckDiskSpace(name, path string) Result {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	free := uint64(stat.Bavail) * uint64(stat.Bsize)
	detail := fmt.Sprintf("%s (%.1f GiB free)", path, float64(free)/float64(1<<30))
	if free < minFreeBytes {
		return Result{Name: name, Detail: detail + " (below 1 GiB minimum)"}
	}
	return Result{Name: name, Passed: true, Detail: detail}
}

// CheckBinaries reports availability of every external tool the configured
// whisper backend and the source fetchers can invoke.
func CheckBinaries(whisperBackend string) []Result {
	results := make([]Result, 0, 2)
	for _, req := range binaryRequirements(whisperBackend) {
		results = append(results, checkBinary(req))
	}
	return results
}

func binaryRequirements(whisperBackend string) []Requirement {
	requirements := []Requirement{
		{
			Name:        "yt-dlp",
			Command:     "yt-dlp",
			Description: "YouTube metadata and audio download",
		},
	}
	switch whisperBackend {
	case "api":
		requirements = append(requirements, Requirement{
			Name:        "ffmpeg",
			Command:     "ffmpeg",
			Description: "splits large audio files for API transcription",
		})
	default:
		requirements = append(requirements, Requirement{
			Name:        "whisper",
			Command:     "whisper",
			Description: "local transcription",
		})
	}
	return requirements
}

func checkBinary(req Requirement) Result {
	command := strings.TrimSpace(req.Command)
	if command == "" {
		return Result{Name: req.Name, Detail: "command not configured"}
	}
	resolved, err := exec.LookPath(command)
	if err != nil {
		return Result{Name: req.Name, Detail: fmt.Sprintf("binary %q not found (%s)", command, req.Description)}
	}
	return Result{Name: req.Name, Passed: true, Detail: resolved}
}

// summarizeClaudeError produces a human-readable summary for health check failures.
func summarizeClaudeError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "health check timed out (API unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "health check timed out (API unreachable)"
	}
	return err.Error()
}
