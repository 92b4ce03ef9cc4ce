package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"standup/internal/api"
	"standup/internal/config"
	"standup/internal/logging"
	"standup/internal/services"
)

const (
	requestIDHeader = "X-Request-ID"
	maxJSONBody     = 1 << 20
)

type apiServer struct {
	bind      string
	token     string
	maxUpload int64
	logger    *slog.Logger
	daemon    *Daemon

	mu       sync.Mutex
	listener net.Listener
	server   *http.Server
	handler  http.Handler
}

func newAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) *apiServer {
	srv := &apiServer{
		bind:      strings.TrimSpace(cfg.Server.Bind),
		token:     strings.TrimSpace(cfg.Server.APIToken),
		maxUpload: int64(cfg.Server.MaxUploadMiB) << 20,
		logger:    logging.NewComponentLogger(logger, "api-server"),
		daemon:    d,
	}
	if srv.maxUpload <= 0 {
		srv.maxUpload = 25 << 20
	}

	mux := http.NewServeMux()
	srv.route(mux, "/api/notes", srv.handleNotes)
	srv.route(mux, "/api/notes/{date}", srv.handleNote)
	srv.route(mux, "/api/process", srv.handleProcess)
	srv.route(mux, "/api/classify", srv.handleClassify)
	srv.route(mux, "/api/transcribe", srv.handleTranscribe)
	srv.route(mux, "/api/export.csv", srv.handleExport)
	srv.route(mux, "/api/taxonomy", srv.handleTaxonomy)
	srv.route(mux, "/api/status", srv.handleStatus)
	srv.route(mux, "/", func(w http.ResponseWriter, r *http.Request) {
		srv.writeError(w, r, http.StatusNotFound, "not found")
	})
	srv.handler = mux

	readTimeout := time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second
	writeTimeout := time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second
	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       60 * time.Second,
	}
	return srv
}

// route registers handler behind the shared middleware chain. The pattern is
// attached to the request context for logging.
func (s *apiServer) route(mux *http.ServeMux, pattern string, handler http.HandlerFunc) {
	wrapped := authMiddleware(s.token, handler)
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)

		ctx := services.WithRequestID(r.Context(), requestID)
		ctx = services.WithRoute(ctx, pattern)
		r = r.WithContext(ctx)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		defer func() {
			if recovered := recover(); recovered != nil {
				s.log(ctx).Error("api handler panic",
					logging.String(logging.FieldEventType, "handler_panic"),
					logging.Any("panic", recovered),
				)
				if !rec.wroteHeader {
					s.writeError(rec, r, http.StatusInternalServerError, "internal server error")
				}
			}
			s.log(ctx).Debug("api request",
				logging.String("method", r.Method),
				logging.String("path", r.URL.Path),
				logging.Int("status", rec.status),
				logging.Duration("duration", time.Since(start)),
			)
		}()
		wrapped(rec, r)
	})
}

func (s *apiServer) start(ctx context.Context) error {
	if s.bind == "" {
		return errors.New("server.bind is empty")
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.server.Shutdown(shutdownCtx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *apiServer) address() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// decodeJSON reads a bounded JSON body into target.
func (s *apiServer) decodeJSON(w http.ResponseWriter, r *http.Request, target any) bool {
	body := http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(body).Decode(target); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

func (s *apiServer) writeData(w http.ResponseWriter, r *http.Request, payload any) {
	data, err := api.MarshalData(payload)
	if err != nil {
		s.log(r.Context()).Error("failed to encode response data", logging.Error(err))
		s.writeError(w, r, http.StatusInternalServerError, "failed to encode response")
		return
	}
	writeEnvelope(w, http.StatusOK, api.Envelope{Success: true, Data: data}, s.log(r.Context()))
}

func (s *apiServer) writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeEnvelope(w, status, errorEnvelope(message), s.log(r.Context()))
}

// writeFailure translates err into an error envelope. Client errors expose
// their message; anything else is logged and reported with fallback.
func (s *apiServer) writeFailure(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := errorStatus(err)
	if status >= http.StatusInternalServerError {
		s.log(r.Context()).Error(fallback,
			logging.Error(err),
			logging.String(logging.FieldEventType, "request_failed"),
		)
		s.writeError(w, r, status, fallback)
		return
	}
	s.writeError(w, r, status, services.Message(err))
}

func (s *apiServer) log(ctx context.Context) *slog.Logger {
	return logging.WithContext(ctx, s.logger)
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func errorEnvelope(message string) api.Envelope {
	return api.Envelope{Success: false, Error: message}
}

func writeEnvelope(w http.ResponseWriter, status int, payload api.Envelope, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && logger != nil {
		logger.Error("failed to encode response", logging.Error(err))
	}
}

func methodNotAllowed(s *apiServer, w http.ResponseWriter, r *http.Request, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	s.writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(status int) {
	if !r.wroteHeader {
		r.status = status
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	r.wroteHeader = true
	return r.ResponseWriter.Write(b)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}
