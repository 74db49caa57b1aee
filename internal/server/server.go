// Package server exposes the engine over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/interviewai/case-coach/internal/engine"
	"github.com/interviewai/case-coach/internal/interview"
)

const (
	// CredentialHeader carries a caller-owned provider API key.
	CredentialHeader = "X-Api-Key"
	requestIDHeader  = "X-Request-Id"

	maxBodyBytes    = 1 << 20
	shutdownTimeout = 10 * time.Second
)

// Generator is the part of the engine the handlers call.
type Generator interface {
	BeginCase(ctx context.Context, ic interview.Context, opts ...engine.CallOption) (*interview.CaseSetup, error)
	NextFollowUp(ctx context.Context, req engine.FollowUpRequest, opts ...engine.CallOption) (*interview.FollowUpTurn, error)
}

type Handler struct {
	gen    Generator
	logger *zap.Logger
}

func New(gen Generator, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{gen: gen, logger: log}
}

// Router returns a router with every route and middleware registered.
func (h *Handler) Router() *mux.Router {
	router := mux.NewRouter()
	router.Use(h.requestLogger)
	h.RegisterRoutes(router)
	return router
}

func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/v1/case-setups", h.CreateCaseSetup).Methods(http.MethodPost)
	router.HandleFunc("/v1/follow-ups", h.CreateFollowUp).Methods(http.MethodPost)
	router.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)
}

func (h *Handler) CreateCaseSetup(w http.ResponseWriter, r *http.Request) {
	var ic interview.Context
	if !h.decode(w, r, &ic) {
		return
	}

	setup, err := h.gen.BeginCase(r.Context(), ic, callOptions(r)...)
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, setup)
}

func (h *Handler) CreateFollowUp(w http.ResponseWriter, r *http.Request) {
	var req engine.FollowUpRequest
	if !h.decode(w, r, &req) {
		return
	}

	turn, err := h.gen.NextFollowUp(r.Context(), req, callOptions(r)...)
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, turn)
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func callOptions(r *http.Request) []engine.CallOption {
	credential := strings.TrimSpace(r.Header.Get(CredentialHeader))
	if credential == "" {
		return nil
	}
	return []engine.CallOption{engine.WithCredential(credential)}
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		h.logger.Debug("rejecting request body", zap.String("path", r.URL.Path), zap.Error(err))
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return false
	}
	return true
}

func (h *Handler) writeEngineError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, interview.ErrInvalidInput) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.logger.Error("engine call failed", zap.String("path", r.URL.Path), zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		h.logger.Info("handled request",
			zap.String("request_id", id),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Bool("caller_credential", r.Header.Get(CredentialHeader) != ""),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// Run serves handler on addr until ctx is cancelled.
func Run(ctx context.Context, addr string, handler http.Handler, log *zap.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", addr))
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
