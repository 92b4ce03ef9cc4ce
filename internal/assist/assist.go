package assist

import (
	"log/slog"

	"standup/internal/config"
	"standup/internal/services/llm"
	"standup/internal/services/transcription"
)

// Services bundles the assistants built from one configuration.
type Services struct {
	Processor   *Processor
	Classifier  *Classifier
	Transcriber *Transcriber
}

// NewFromConfig wires the model clients described by cfg. Requests are
// one-shot: a failed completion falls back instead of retrying.
func NewFromConfig(cfg *config.Config, logger *slog.Logger) *Services {
	llmCfg := cfg.GetLLM()
	chat := llm.NewClient(llm.Config{
		APIKey:         llmCfg.APIKey,
		BaseURL:        llmCfg.BaseURL,
		Model:          llmCfg.Model,
		Referer:        llmCfg.Referer,
		Title:          llmCfg.Title,
		TimeoutSeconds: llmCfg.TimeoutSeconds,
		ProxyAddr:      llmCfg.ProxyAddr,
	}, llm.WithRetryMaxAttempts(1))

	sttCfg := cfg.GetTranscription()
	stt := transcription.NewClient(transcription.Config{
		APIKey:         sttCfg.APIKey,
		BaseURL:        sttCfg.BaseURL,
		Model:          sttCfg.Model,
		Language:       sttCfg.Language,
		TimeoutSeconds: sttCfg.TimeoutSeconds,
		ProxyAddr:      sttCfg.ProxyAddr,
	})

	return &Services{
		Processor:   NewProcessor(chat, logger),
		Classifier:  NewClassifier(chat, logger),
		Transcriber: NewTranscriber(stt, logger),
	}
}
