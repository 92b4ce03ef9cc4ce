// Package assist fronts the model-backed operations behind the note API:
// structuring a free-form note, classifying the day against the task
// taxonomy, and transcribing recorded audio.
//
// Structuring and classification never fail because of the provider. When
// the key is missing, the call errors, or the reply cannot be used, they
// fall back to local heuristics and log the decision. Transcription has no
// local substitute and reports provider failures to the caller.
package assist
