package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"distill/internal/language"
)

// applyEnvOverrides applies DISTILL_* environment variables on top of file
// values. These are distill's own override namespace, so the environment
// wins over the config file.
func (c *Config) applyEnvOverrides() error {
	overrides := map[string]*string{
		"DISTILL_OUTPUT_DIR":       &c.General.OutputDir,
		"DISTILL_DATA_DIR":         &c.General.DataDir,
		"DISTILL_DEFAULT_FORMAT":   &c.General.DefaultFormat,
		"DISTILL_DEFAULT_STYLE":    &c.General.DefaultStyle,
		"DISTILL_WHISPER_BACKEND":  &c.Whisper.Backend,
		"DISTILL_WHISPER_MODEL":    &c.Whisper.Model,
		"DISTILL_WHISPER_LANGUAGE": &c.Whisper.Language,
		"DISTILL_CLAUDE_MODEL":     &c.Claude.Model,
	}
	for name, target := range overrides {
		if value, ok := os.LookupEnv(name); ok && strings.TrimSpace(value) != "" {
			*target = strings.TrimSpace(value)
		}
	}
	if value, ok := os.LookupEnv("DISTILL_CLAUDE_MAX_TOKENS"); ok && strings.TrimSpace(value) != "" {
		tokens, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("DISTILL_CLAUDE_MAX_TOKENS must be an integer, got %q", value)
		}
		c.Claude.MaxTokens = tokens
	}
	return nil
}

func (c *Config) normalize() error {
	if err := c.normalizeGeneral(); err != nil {
		return err
	}
	c.normalizeWhisper()
	c.normalizeClaude()
	c.normalizeEmail()
	c.normalizeSubscriptions()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeGeneral() error {
	var err error
	if strings.TrimSpace(c.General.OutputDir) == "" {
		c.General.OutputDir = defaultOutputDir
	}
	if c.General.OutputDir, err = expandPath(c.General.OutputDir); err != nil {
		return fmt.Errorf("general.output_dir: %w", err)
	}
	if strings.TrimSpace(c.General.DataDir) == "" {
		c.General.DataDir = defaultDataDir
	}
	if c.General.DataDir, err = expandPath(c.General.DataDir); err != nil {
		return fmt.Errorf("general.data_dir: %w", err)
	}
	c.General.DefaultFormat = strings.ToLower(strings.TrimSpace(c.General.DefaultFormat))
	if c.General.DefaultFormat == "" {
		c.General.DefaultFormat = defaultFormat
	}
	c.General.DefaultStyle = strings.ToLower(strings.TrimSpace(c.General.DefaultStyle))
	if c.General.DefaultStyle == "" {
		c.General.DefaultStyle = defaultStyle
	}
	return nil
}

func (c *Config) normalizeWhisper() {
	c.Whisper.Backend = strings.ToLower(strings.TrimSpace(c.Whisper.Backend))
	if c.Whisper.Backend == "" {
		c.Whisper.Backend = defaultWhisperBackend
	}
	c.Whisper.Model = strings.TrimSpace(c.Whisper.Model)
	if c.Whisper.Model == "" {
		c.Whisper.Model = defaultWhisperModel
	}
	c.Whisper.Language = language.Normalize(c.Whisper.Language)
	if c.Whisper.Language == "" {
		c.Whisper.Language = defaultWhisperLanguage
	}
	c.Whisper.APIKey = strings.TrimSpace(c.Whisper.APIKey)
	if c.Whisper.APIKey == "" {
		if value, ok := os.LookupEnv("OPENAI_API_KEY"); ok {
			c.Whisper.APIKey = strings.TrimSpace(value)
		}
	}
}

func (c *Config) normalizeClaude() {
	c.Claude.APIKey = strings.TrimSpace(c.Claude.APIKey)
	if c.Claude.APIKey == "" {
		if value, ok := os.LookupEnv("ANTHROPIC_API_KEY"); ok {
			c.Claude.APIKey = strings.TrimSpace(value)
		}
	}
	c.Claude.BaseURL = strings.TrimSpace(c.Claude.BaseURL)
	if c.Claude.BaseURL == "" {
		c.Claude.BaseURL = defaultClaudeBaseURL
	}
	c.Claude.Model = strings.TrimSpace(c.Claude.Model)
	if c.Claude.Model == "" {
		c.Claude.Model = defaultClaudeModel
	}
	if c.Claude.MaxTokens <= 0 {
		c.Claude.MaxTokens = defaultClaudeMaxTokens
	}
	if c.Claude.TimeoutSeconds <= 0 {
		c.Claude.TimeoutSeconds = defaultClaudeTimeout
	}
}

func (c *Config) normalizeEmail() {
	c.Email.From = strings.TrimSpace(c.Email.From)
	if c.Email.From == "" {
		c.Email.From = defaultEmailFrom
	}
	c.Email.To = strings.TrimSpace(c.Email.To)
	c.Email.APIKey = strings.TrimSpace(c.Email.APIKey)
	if c.Email.APIKey == "" {
		if value, ok := os.LookupEnv("RESEND_API_KEY"); ok {
			c.Email.APIKey = strings.TrimSpace(value)
		}
	}
}

func (c *Config) normalizeSubscriptions() {
	if c.Subscriptions.CheckIntervalHours <= 0 {
		c.Subscriptions.CheckIntervalHours = defaultCheckIntervalHours
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
