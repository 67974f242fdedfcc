// Package server exposes the pipeline over HTTP for prompt debugging.
package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/ivan-hilckov/lucidum/pkg/analyzer"
	"github.com/ivan-hilckov/lucidum/pkg/generator"
	"github.com/ivan-hilckov/lucidum/pkg/logging"
	"github.com/ivan-hilckov/lucidum/pkg/prompts"
	"github.com/ivan-hilckov/lucidum/pkg/roles"
	"github.com/pkg/errors"
)

const (
	maxBodyBytes    = 1 << 20
	shutdownTimeout = 10 * time.Second
)

// Pipeline is the part of *generator.Generator the server uses.
type Pipeline interface {
	Generate(ctx context.Context, req generator.Request) (result generator.Result)
	Analyze(ctx context.Context, jobDescription, keywordPrompt string) (analysis analyzer.JobAnalysis, role roles.ID)
	Catalog() (c *roles.Catalog)
}

// Config configures the server.
type Config struct {
	Addr string
	// RequestTimeout bounds each request. Zero disables the limit.
	RequestTimeout time.Duration
	// Metrics is mounted at /metrics when non-nil.
	Metrics http.Handler
}

// Server is the debug HTTP surface.
type Server struct {
	cfg      Config
	router   *chi.Mux
	pipeline Pipeline
	composer *prompts.Composer
	logger   *logging.Logger
}

// New builds the router. A nil logger discards output.
func New(cfg Config, pipeline Pipeline, logger *logging.Logger) (s *Server) {
	if logger == nil {
		logger = logging.NewNop()
	}

	s = &Server{
		cfg:      cfg,
		router:   chi.NewRouter(),
		pipeline: pipeline,
		composer: prompts.NewComposer(pipeline.Catalog()),
		logger:   logger,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	if s.cfg.RequestTimeout > 0 {
		s.router.Use(middleware.Timeout(s.cfg.RequestTimeout))
	}

	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/prompts", s.handlePrompts)
	s.router.Post("/analyze-job", s.handleAnalyze)
	s.router.Post("/generate", s.handleGenerate)
	if s.cfg.Metrics != nil {
		s.router.Method(http.MethodGet, "/metrics", s.cfg.Metrics)
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// PromptsResponse lists the prompts currently in effect.
type PromptsResponse struct {
	KeywordExtractionPrompt string             `json:"keyword_extraction_prompt"`
	SystemPrompt            string             `json:"system_prompt"`
	FallbackPrompt          string             `json:"fallback_prompt"`
	Roles                   []roles.Definition `json:"roles"`
}

// AnalyzeRequest is the body of POST /analyze-job.
type AnalyzeRequest struct {
	JobDescription      string `json:"job_description"`
	CustomKeywordPrompt string `json:"custom_keyword_prompt,omitempty"`
}

// AnalyzeResponse is the analysis plus the persona it selects.
type AnalyzeResponse struct {
	Analysis  analyzer.JobAnalysis `json:"analysis"`
	Role      roles.ID             `json:"role"`
	RoleLabel string               `json:"role_label"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePrompts(w http.ResponseWriter, _ *http.Request) {
	systemPrompt, err := s.composer.BuildSystemPrompt(roles.CorporateRecruiter, nil, "", "")
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.writeJSON(w, http.StatusOK, PromptsResponse{
		KeywordExtractionPrompt: analyzer.DefaultKeywordPrompt,
		SystemPrompt:            systemPrompt,
		FallbackPrompt:          prompts.FallbackSystemPrompt,
		Roles:                   s.pipeline.Catalog().Definitions(),
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.JobDescription) == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("job description is required"))
		return
	}

	analysis, role := s.pipeline.Analyze(r.Context(), req.JobDescription, req.CustomKeywordPrompt)
	label, _ := s.pipeline.Catalog().GetLabel(role)

	s.writeJSON(w, http.StatusOK, AnalyzeResponse{Analysis: analysis, Role: role, RoleLabel: label})
}

// handleGenerate always answers 200 for a valid request: the pipeline
// reports failures inside the result.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generator.Request
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	result := s.pipeline.Generate(r.Context(), req)
	s.writeJSON(w, http.StatusOK, result)
}

func decode(w http.ResponseWriter, r *http.Request, dst any) (err error) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	err = dec.Decode(dst)
	if err != nil {
		err = errors.Wrap(err, "invalid JSON body")
	}
	return err
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

// Run serves on cfg.Addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) (err error) {
	var ln net.Listener
	ln, err = net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		err = errors.Wrapf(err, "failed to listen on %s", s.cfg.Addr)
		return err
	}

	err = s.Serve(ctx, ln)
	return err
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) (err error) {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.logger.Info("debug server listening", "addr", ln.Addr().String())

	select {
	case err = <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down debug server")
	err = srv.Shutdown(shutdownCtx)
	if err != nil {
		err = errors.Wrap(err, "graceful shutdown failed")
		return err
	}

	if serveErr := <-errCh; serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
		err = serveErr
	}
	return err
}
