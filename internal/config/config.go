package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// General contains output locations and rendering defaults.
type General struct {
	OutputDir     string `toml:"output_dir"`
	DataDir       string `toml:"data_dir"`
	DefaultFormat string `toml:"default_format"`
	DefaultStyle  string `toml:"default_style"`
}

// Whisper contains transcription settings.
type Whisper struct {
	Backend  string `toml:"backend"`
	Model    string `toml:"model"`
	Language string `toml:"language"`
	APIKey   string `toml:"api_key"`
}

// Claude contains article generation settings.
type Claude struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	MaxTokens      int    `toml:"max_tokens"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Email contains delivery settings for sending articles via Resend.
type Email struct {
	From   string `toml:"from"`
	To     string `toml:"to"`
	APIKey string `toml:"api_key"`
}

// Subscriptions contains feed subscription settings.
type Subscriptions struct {
	CheckIntervalHours int  `toml:"check_interval_hours"`
	AutoProcess        bool `toml:"auto_process"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for Distill.
//
// Configuration sections by subsystem:
//   - General: output directory, state directory, rendering defaults
//   - Whisper: transcription backend, model, and language
//   - Claude: article generation model and limits
//   - Email: article delivery via the Resend API
//   - Subscriptions: feed check interval and auto processing
//   - Logging: log format and level
type Config struct {
	General       General       `toml:"general"`
	Whisper       Whisper       `toml:"whisper"`
	Claude        Claude        `toml:"claude"`
	Email         Email         `toml:"email"`
	Subscriptions Subscriptions `toml:"subscriptions"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/distill/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
//
// Config file path resolution:
//  1. Explicit path argument
//  2. DISTILL_CONFIG environment variable
//  3. ~/.config/distill/config.toml
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		path = strings.TrimSpace(os.Getenv("DISTILL_CONFIG"))
	}
	if path == "" {
		path = "~/.config/distill/config.toml"
	}
	expanded, err := expandPath(path)
	if err != nil {
		return "", false, err
	}
	info, err := os.Stat(expanded)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return expanded, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	if info.IsDir() {
		return "", false, fmt.Errorf("config path %q is a directory", expanded)
	}
	return expanded, true, nil
}

// EnsureDirectories creates the output and data directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.General.OutputDir, c.General.DataDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DatabasePath returns the location of the SQLite database.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.General.DataDir, "distill.db")
}

// LockPath returns the location of the data directory lock file.
func (c *Config) LockPath() string {
	return filepath.Join(c.General.DataDir, "distill.lock")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
