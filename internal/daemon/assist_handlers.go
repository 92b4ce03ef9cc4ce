package daemon

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"standup/internal/api"
	"standup/internal/logging"
	"standup/internal/services"
)

func (s *apiServer) handleProcess(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(s, w, r, http.MethodPost)
		return
	}
	var req api.ProcessRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.RawText) == "" {
		s.writeError(w, r, http.StatusBadRequest, "No text provided for processing")
		return
	}
	result, err := s.daemon.services.Processor.Process(r.Context(), req.RawText)
	if err != nil {
		s.writeFailure(w, r, err, "Failed to process notes")
		return
	}
	s.writeData(w, r, api.FromProcessed(result))
}

func (s *apiServer) handleClassify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(s, w, r, http.MethodPost)
		return
	}
	var req api.ClassifyRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	input := req.Input()
	if input.Empty() {
		s.writeError(w, r, http.StatusBadRequest, "No content provided for classification")
		return
	}
	result := s.daemon.services.Classifier.Classify(r.Context(), input)
	s.writeData(w, r, api.FromClassification(result))
}

// handleTranscribe accepts a multipart upload with the recording in the
// "audio" field. Every transcription failure is reported as a 500 carrying
// the provider message.
func (s *apiServer) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(s, w, r, http.MethodPost)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, r, http.StatusRequestEntityTooLarge, "audio upload exceeds the size limit")
			return
		}
		s.writeError(w, r, http.StatusBadRequest, "No audio file provided")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("audio")
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, "No audio file provided")
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		s.writeFailure(w, r, err, "Failed to process audio")
		return
	}

	text, err := s.daemon.services.Transcriber.Transcribe(r.Context(), audio, header.Filename)
	if err != nil {
		s.log(r.Context()).Warn("transcription request failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "transcription_failed"),
			logging.String(logging.FieldErrorHint, "check transcription.api_key and provider status"),
			logging.String(logging.FieldImpact, "audio was not transcribed"),
		)
		s.writeError(w, r, http.StatusInternalServerError, services.Message(err))
		return
	}
	writeEnvelope(w, http.StatusOK, api.Envelope{Success: true, Text: &text}, s.log(r.Context()))
}
