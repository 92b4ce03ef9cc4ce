package config

const (
	defaultConfigPath            = "~/.config/standup/config.toml"
	defaultDataDir               = "~/.local/share/standup"
	defaultLogDir                = "~/.local/share/standup/logs"
	defaultServerBind            = "127.0.0.1:7410"
	defaultServerReadTimeout     = 30
	defaultServerWriteTimeout    = 120
	defaultMaxUploadMiB          = 25
	defaultLLMBaseURL            = "https://api.openai.com/v1/chat/completions"
	defaultLLMModel              = "gpt-5.1-2025-11-13"
	defaultLLMTitle              = "Standup Notes"
	defaultLLMTimeoutSeconds     = 60
	defaultTranscriptionBaseURL  = "https://api.openai.com/v1/audio/transcriptions"
	defaultTranscriptionModel    = "whisper-1"
	defaultTranscriptionLanguage = "en"
	defaultClientServerURL       = "http://127.0.0.1:7410"
	defaultClientTimeoutSeconds  = 90
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Server: Server{
			Bind:                defaultServerBind,
			ReadTimeoutSeconds:  defaultServerReadTimeout,
			WriteTimeoutSeconds: defaultServerWriteTimeout,
			MaxUploadMiB:        defaultMaxUploadMiB,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			Title:          defaultLLMTitle,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
		},
		Transcription: Transcription{
			BaseURL:  defaultTranscriptionBaseURL,
			Model:    defaultTranscriptionModel,
			Language: defaultTranscriptionLanguage,
		},
		Client: Client{
			ServerURL:      defaultClientServerURL,
			TimeoutSeconds: defaultClientTimeoutSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
