package config

import (
	"errors"
	"fmt"
	"strings"

	"distill/internal/content"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateGeneral(); err != nil {
		return err
	}
	if err := c.validateWhisper(); err != nil {
		return err
	}
	if err := c.validateClaude(); err != nil {
		return err
	}
	if err := c.validateSubscriptions(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateGeneral() error {
	if _, ok := content.ParseFormat(c.General.DefaultFormat); !ok {
		return fmt.Errorf("general.default_format must be one of markdown, html, epub, got %q", c.General.DefaultFormat)
	}
	if _, ok := content.ParseStyle(c.General.DefaultStyle); !ok {
		return fmt.Errorf("general.default_style must be one of detailed, concise, summary, bullets, got %q", c.General.DefaultStyle)
	}
	return nil
}

func (c *Config) validateWhisper() error {
	switch c.Whisper.Backend {
	case "local", "api":
	default:
		return fmt.Errorf("whisper.backend must be \"local\" or \"api\", got %q", c.Whisper.Backend)
	}
	if strings.TrimSpace(c.Whisper.Model) == "" {
		return errors.New("whisper.model must be set")
	}
	if c.Whisper.Backend == "api" && c.Whisper.APIKey == "" {
		return errors.New("whisper.api_key must be set when whisper.backend is \"api\" (or set OPENAI_API_KEY)")
	}
	return nil
}

func (c *Config) validateClaude() error {
	if c.Claude.MaxTokens <= 0 {
		return errors.New("claude.max_tokens must be positive")
	}
	if c.Claude.TimeoutSeconds <= 0 {
		return errors.New("claude.timeout_seconds must be positive")
	}
	if strings.TrimSpace(c.Claude.Model) == "" {
		return errors.New("claude.model must be set")
	}
	return nil
}

func (c *Config) validateSubscriptions() error {
	if c.Subscriptions.CheckIntervalHours <= 0 {
		return errors.New("subscriptions.check_interval_hours must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level)
	}
}
