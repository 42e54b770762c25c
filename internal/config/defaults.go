package config

const (
	defaultOutputDir          = "~/Documents/distill"
	defaultDataDir            = "~/.local/share/distill"
	defaultFormat             = "markdown"
	defaultStyle              = "detailed"
	defaultWhisperBackend     = "local"
	defaultWhisperModel       = "base"
	defaultWhisperLanguage    = "en"
	defaultClaudeBaseURL      = "https://api.anthropic.com"
	defaultClaudeModel        = "claude-sonnet-4-6"
	defaultClaudeMaxTokens    = 8192
	defaultClaudeTimeout      = 600
	defaultEmailFrom          = "Distill <distill@resend.dev>"
	defaultCheckIntervalHours = 24
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		General: General{
			OutputDir:     defaultOutputDir,
			DataDir:       defaultDataDir,
			DefaultFormat: defaultFormat,
			DefaultStyle:  defaultStyle,
		},
		Whisper: Whisper{
			Backend:  defaultWhisperBackend,
			Model:    defaultWhisperModel,
			Language: defaultWhisperLanguage,
		},
		Claude: Claude{
			BaseURL:        defaultClaudeBaseURL,
			Model:          defaultClaudeModel,
			MaxTokens:      defaultClaudeMaxTokens,
			TimeoutSeconds: defaultClaudeTimeout,
		},
		Email: Email{
			From: defaultEmailFrom,
		},
		Subscriptions: Subscriptions{
			CheckIntervalHours: defaultCheckIntervalHours,
			AutoProcess:        false,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
