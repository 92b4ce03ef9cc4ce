package daemon

import (
	"net/http"
	"strings"
	"time"

	"standup/internal/api"
	"standup/internal/export"
	"standup/internal/logging"
	"standup/internal/notes"
)

func (s *apiServer) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(s, w, r, http.MethodGet)
		return
	}
	ctx := r.Context()
	query := r.URL.Query()

	var (
		list     []notes.DailyNote
		err      error
		filename = export.Filename(0, 0)
	)
	yearParam, monthParam := strings.TrimSpace(query.Get("year")), strings.TrimSpace(query.Get("month"))
	if yearParam != "" || monthParam != "" {
		year, month, ok := s.parseMonth(w, r, yearParam, monthParam)
		if !ok {
			return
		}
		list, err = s.daemon.store.Month(ctx, year, month)
		filename = export.Filename(year, month)
	} else {
		list, err = s.daemon.store.List(ctx, 0, 0)
	}
	if err != nil {
		s.writeFailure(w, r, err, "Failed to export notes")
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	if err := export.Write(w, list); err != nil {
		s.log(ctx).Error("failed to write export", logging.Error(err))
		return
	}
	s.log(ctx).Info("notes exported", logging.Int("rows", len(list)), logging.String("filename", filename))
}

func (s *apiServer) handleTaxonomy(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(s, w, r, http.MethodGet)
		return
	}
	s.writeData(w, r, api.Taxonomy())
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(s, w, r, http.MethodGet)
		return
	}
	status := s.daemon.Status(r.Context())
	payload := api.ServerStatus{
		Running:                 status.Running,
		PID:                     status.PID,
		DatabasePath:            status.DatabasePath,
		LockFilePath:            status.LockFilePath,
		NoteCount:               status.NoteCount,
		Model:                   status.Model,
		LLMConfigured:           status.LLMConfigured,
		TranscriptionConfigured: status.TranscriptionConfigured,
	}
	if !status.StartedAt.IsZero() {
		payload.StartedAt = status.StartedAt.Format(time.RFC3339)
	}
	s.writeData(w, r, payload)
}
