package assist

import (
	"context"
	"errors"
	"testing"

	"standup/internal/services"
	"standup/internal/services/transcription"
)

type stubRecognizer struct {
	configured bool
	text       string
	err        error
}

func (s stubRecognizer) Configured() bool { return s.configured }

func (s stubRecognizer) Transcribe(context.Context, []byte, string) (string, error) {
	return s.text, s.err
}

func TestTranscribeMissingKey(t *testing.T) {
	tr := NewTranscriber(stubRecognizer{}, nil)
	_, err := tr.Transcribe(context.Background(), []byte("audio"), "a.webm")
	if !errors.Is(err, services.ErrConfiguration) || !errors.Is(err, transcription.ErrMissingAPIKey) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if msg := services.Message(err); msg != "OpenAI API key is not configured" {
		t.Fatalf("Message = %q", msg)
	}
}

func TestTranscribeEmptyAudio(t *testing.T) {
	tr := NewTranscriber(stubRecognizer{configured: true}, nil)
	_, err := tr.Transcribe(context.Background(), nil, "a.webm")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if msg := services.Message(err); msg != "No audio data provided" {
		t.Fatalf("Message = %q", msg)
	}
}

func TestTranscribeProviderError(t *testing.T) {
	tr := NewTranscriber(stubRecognizer{configured: true, err: &transcription.APIError{StatusCode: 429, Message: "slow down"}}, nil)
	_, err := tr.Transcribe(context.Background(), []byte("audio"), "a.webm")
	if !errors.Is(err, services.ErrExternal) {
		t.Fatalf("expected external error, got %v", err)
	}
	if msg := services.Message(err); msg != "Rate limit exceeded. Please try again later." {
		t.Fatalf("Message = %q", msg)
	}
}

func TestTranscribeSuccess(t *testing.T) {
	tr := NewTranscriber(stubRecognizer{configured: true, text: "hello"}, nil)
	got, err := tr.Transcribe(context.Background(), []byte("audio"), "a.webm")
	if err != nil || got != "hello" {
		t.Fatalf("Transcribe = %q, %v", got, err)
	}
}
