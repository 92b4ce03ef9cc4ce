package daemon

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"standup/internal/api"
	"standup/internal/logging"
	"standup/internal/services"
)

const (
	defaultPageLimit = 30
	maxPageLimit     = 500
)

func (s *apiServer) handleNotes(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listNotes(w, r)
	case http.MethodPost:
		s.createNote(w, r)
	default:
		methodNotAllowed(s, w, r, http.MethodGet, http.MethodPost)
	}
}

func (s *apiServer) handleNote(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("date")
	r = r.WithContext(services.WithNoteDate(r.Context(), date))
	switch r.Method {
	case http.MethodGet:
		s.getNote(w, r, date)
	case http.MethodPut:
		s.updateNote(w, r, date)
	case http.MethodDelete:
		s.deleteNote(w, r, date)
	default:
		methodNotAllowed(s, w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

func (s *apiServer) listNotes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	store := s.daemon.store
	query := r.URL.Query()

	if date := strings.TrimSpace(query.Get("date")); date != "" {
		s.getNote(w, r.WithContext(services.WithNoteDate(ctx, date)), date)
		return
	}

	yearParam, monthParam := strings.TrimSpace(query.Get("year")), strings.TrimSpace(query.Get("month"))
	if yearParam != "" && monthParam != "" {
		year, month, ok := s.parseMonth(w, r, yearParam, monthParam)
		if !ok {
			return
		}
		list, err := store.Month(ctx, year, month)
		if err != nil {
			s.writeFailure(w, r, err, "Failed to fetch notes")
			return
		}
		s.writeData(w, r, api.FromNotes(list))
		return
	}

	limit, err := intParam(query.Get("limit"), defaultPageLimit)
	if err != nil || limit <= 0 {
		s.writeError(w, r, http.StatusBadRequest, "limit must be a positive integer")
		return
	}
	limit = min(limit, maxPageLimit)
	offset, err := intParam(query.Get("offset"), 0)
	if err != nil || offset < 0 {
		s.writeError(w, r, http.StatusBadRequest, "offset must be a non-negative integer")
		return
	}

	list, err := store.List(ctx, limit, offset)
	if err != nil {
		s.writeFailure(w, r, err, "Failed to fetch notes")
		return
	}
	total, err := store.Count(ctx)
	if err != nil {
		s.writeFailure(w, r, err, "Failed to fetch notes")
		return
	}
	data, err := api.MarshalData(api.FromNotes(list))
	if err != nil {
		s.writeFailure(w, r, err, "Failed to fetch notes")
		return
	}
	writeEnvelope(w, http.StatusOK, api.Envelope{
		Success:    true,
		Data:       data,
		Pagination: &api.Pagination{Limit: limit, Offset: offset, Total: total},
	}, s.log(ctx))
}

func (s *apiServer) getNote(w http.ResponseWriter, r *http.Request, date string) {
	note, err := s.daemon.store.Get(r.Context(), date)
	if err != nil {
		s.writeFailure(w, r, err, "Failed to fetch note")
		return
	}
	// A missing note is a successful lookup with null data.
	s.writeData(w, r, api.FromNote(note))
}

func (s *apiServer) createNote(w http.ResponseWriter, r *http.Request) {
	var in api.NoteInput
	if !s.decodeJSON(w, r, &in) {
		return
	}
	if in.Date.Null || strings.TrimSpace(in.Date.Value) == "" ||
		in.RawText.Null || strings.TrimSpace(in.RawText.Value) == "" {
		s.writeError(w, r, http.StatusBadRequest, "Date and rawText are required")
		return
	}
	ctx := services.WithNoteDate(r.Context(), in.Date.Value)
	s.saveNote(w, r.WithContext(ctx), in.Date.Value, in)
}

func (s *apiServer) updateNote(w http.ResponseWriter, r *http.Request, date string) {
	var in api.NoteInput
	if !s.decodeJSON(w, r, &in) {
		return
	}
	s.saveNote(w, r, date, in)
}

func (s *apiServer) saveNote(w http.ResponseWriter, r *http.Request, date string, in api.NoteInput) {
	note, err := s.daemon.store.Upsert(r.Context(), date, in.Patch())
	if err != nil {
		s.writeFailure(w, r, err, "Failed to save note")
		return
	}
	s.log(r.Context()).Info("note saved",
		logging.String("note_id", note.ID),
		logging.String(logging.FieldNoteDate, note.Date),
	)
	s.writeData(w, r, api.FromNote(note))
}

func (s *apiServer) deleteNote(w http.ResponseWriter, r *http.Request, date string) {
	result, err := s.daemon.store.Delete(r.Context(), date)
	if err != nil {
		s.writeFailure(w, r, err, "Failed to delete note")
		return
	}
	logger := s.log(r.Context())
	env := api.Envelope{Success: true}
	if data, err := api.MarshalData(api.DeleteResult{Deleted: result.Rows, Lenient: result.Lenient}); err == nil {
		env.Data = data
	}
	switch {
	case !result.Matched:
		env.Message = "Note already deleted or not found"
		logger.Info("note delete matched nothing")
	case result.Lenient:
		logging.WarnWithContext(logger, "note deleted by day range", "lenient_delete",
			logging.Int64("rows", result.Rows),
			logging.String(logging.FieldErrorHint, "stored key carried a time component"),
			logging.String(logging.FieldImpact, "none; note removed"),
		)
	default:
		logger.Info("note deleted")
	}
	writeEnvelope(w, http.StatusOK, env, logger)
}

func (s *apiServer) parseMonth(w http.ResponseWriter, r *http.Request, yearParam, monthParam string) (int, time.Month, bool) {
	year, err := strconv.Atoi(yearParam)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, "year must be an integer")
		return 0, 0, false
	}
	month, err := strconv.Atoi(monthParam)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, "month must be an integer")
		return 0, 0, false
	}
	if month < 1 || month > 12 {
		s.writeError(w, r, http.StatusBadRequest, "month must be between 1 and 12")
		return 0, 0, false
	}
	return year, time.Month(month), true
}

func intParam(value string, fallback int) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	return strconv.Atoi(value)
}
