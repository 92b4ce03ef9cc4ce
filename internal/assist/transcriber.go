package assist

import (
	"context"
	"errors"
	"log/slog"

	"standup/internal/logging"
	"standup/internal/services"
	"standup/internal/services/transcription"
)

// Recognizer is the speech-to-text client surface.
type Recognizer interface {
	Configured() bool
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)
}

// Transcriber converts audio to text. It has no fallback.
type Transcriber struct {
	client Recognizer
	logger *slog.Logger
}

// NewTranscriber constructs a Transcriber around client.
func NewTranscriber(client Recognizer, logger *slog.Logger) *Transcriber {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Transcriber{client: client, logger: logging.NewComponentLogger(logger, "transcriber")}
}

// Transcribe returns the recognized text. Errors carry a services marker:
// ErrConfiguration for a missing key, ErrValidation for empty audio, and
// ErrExternal for provider failures.
func (t *Transcriber) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	logger := logging.WithContext(ctx, t.logger)
	if t.client == nil || !t.client.Configured() {
		return "", services.Wrap(services.ErrConfiguration, "transcriber", "transcribe", "", transcription.ErrMissingAPIKey)
	}
	if len(audio) == 0 {
		return "", services.Wrap(services.ErrValidation, "transcriber", "transcribe", "", transcription.ErrEmptyAudio)
	}

	text, err := t.client.Transcribe(ctx, audio, filename)
	if err != nil {
		marker := services.ErrExternal
		switch {
		case errors.Is(err, transcription.ErrEmptyAudio):
			marker = services.ErrValidation
		case errors.Is(err, transcription.ErrMissingAPIKey):
			marker = services.ErrConfiguration
		case errors.Is(err, context.DeadlineExceeded):
			marker = services.ErrTimeout
		}
		logger.Error("transcription failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "transcription_failed"),
			logging.String(logging.FieldErrorHint, "check transcription.api_key and provider status"),
			logging.Int("audio_bytes", len(audio)),
		)
		return "", services.Wrap(marker, "transcriber", "transcribe", "", err)
	}
	logger.Info("audio transcribed",
		logging.Int("audio_bytes", len(audio)),
		logging.Int("text_length", len(text)),
	)
	return text, nil
}
