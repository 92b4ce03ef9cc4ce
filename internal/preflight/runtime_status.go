package preflight

import (
	"strings"

	"standup/internal/config"
)

// LLMFromConfig summarizes the structuring model configuration without
// contacting it.
func LLMFromConfig(cfg *config.Config) Result {
	const name = "LLM"

	if cfg == nil {
		return Result{Name: name, Detail: "Unknown"}
	}
	llmCfg := cfg.GetLLM()
	if !llmCfg.Configured() {
		return Result{Name: name, Detail: "Missing API key (rule-based fallback active)"}
	}
	if strings.TrimSpace(llmCfg.Model) == "" {
		return Result{Name: name, Detail: "Missing model"}
	}
	return Result{Name: name, Passed: true, Detail: llmCfg.Model}
}

// TranscriptionFromConfig summarizes the speech-to-text configuration.
// Transcription has no fallback, so a missing key is reported plainly.
func TranscriptionFromConfig(cfg *config.Config) Result {
	const name = "Transcription"

	if cfg == nil {
		return Result{Name: name, Detail: "Unknown"}
	}
	sttCfg := cfg.GetTranscription()
	if !sttCfg.Configured() {
		return Result{Name: name, Detail: "Missing API key (transcription unavailable)"}
	}
	detail := sttCfg.Model
	if sttCfg.Language != "" {
		detail += " (" + sttCfg.Language + ")"
	}
	return Result{Name: name, Passed: true, Detail: detail}
}
