package testsupport

import (
	"path/filepath"
	"testing"

	"standup/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Provider keys are left empty so AI calls take their fallback paths unless
// a test opts in.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Server.Bind = "127.0.0.1:0"
	cfgVal.LLM.APIKey = ""
	cfgVal.Transcription.APIKey = ""
	cfgVal.Logging.Journal = false

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithLLM points the structuring and classification client at baseURL.
func WithLLM(baseURL, apiKey string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.LLM.BaseURL = baseURL
		b.cfg.LLM.APIKey = apiKey
	}
}

// WithTranscription points the speech-to-text client at baseURL.
func WithTranscription(baseURL, apiKey string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Transcription.BaseURL = baseURL
		b.cfg.Transcription.APIKey = apiKey
	}
}

// WithAPIToken requires bearer authentication on the HTTP server.
func WithAPIToken(token string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Server.APIToken = token
	}
}
