// Package http serves drilling table generation and export over a JSON API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aretw0/drillsim"
	"github.com/aretw0/drillsim/pkg/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Engine is the part of drillsim.Engine the server drives.
type Engine interface {
	Generate(ctx context.Context, req domain.GenerationRequest) (*domain.Table, error)
	GenerateAndExport(ctx context.Context, req domain.GenerationRequest, target domain.ExportTarget) (*domain.Table, string, error)
	Formats() []domain.Format
}

var _ Engine = (*drillsim.Engine)(nil)

// Server handles the API routes.
type Server struct {
	Engine   Engine
	Request  domain.GenerationRequest // defaults for fields a request omits
	Target   domain.ExportTarget      // Directory is fixed; Prefix and Format are defaults
	Logger   *slog.Logger
	gatherer prometheus.Gatherer
}

// Option configures the Server.
type Option func(*Server)

// WithDefaults sets the request and export target used for omitted fields.
// Clients can never choose the export directory.
func WithDefaults(req domain.GenerationRequest, target domain.ExportTarget) Option {
	return func(s *Server) {
		s.Request = req
		s.Target = target
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.Logger = logger
		}
	}
}

// WithMetrics exposes g on GET /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) (http.Handler, error) {
	server := &Server{
		Engine:  engine,
		Request: domain.DefaultRequest(),
		Target:  domain.DefaultExportTarget(),
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(server)
	}

	doc, err := GetSwagger()
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI spec: %w", err)
	}
	router, err := newRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to build OpenAPI router: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(rawSpec)
	})
	if server.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(server.gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(validateRequests(router))
		r.Get("/health", server.GetHealth)
		r.Get("/info", server.GetInfo(doc.Info.Version))
		r.Get("/channels", server.ListChannels)
		r.Get("/formats", server.ListFormats)
		r.Post("/generate", server.Generate)
		r.Post("/export", server.Export)
	})

	return r, nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(apiVersion string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"app":         "drillsim-http",
			"version":     strings.TrimSpace(drillsim.Version),
			"api_version": apiVersion,
		})
	}
}

type channelView struct {
	domain.ChannelSpec
	Column string `json:"column"`
}

// ListChannels handles the GET /channels request.
func (s *Server) ListChannels(w http.ResponseWriter, r *http.Request) {
	channels, err := s.defaultRequest().Channels()
	if err != nil {
		s.fail(w, r, "ListChannels", err)
		return
	}
	views := make([]channelView, len(channels))
	for i, c := range channels {
		views[i] = channelView{ChannelSpec: c, Column: c.Column()}
	}
	writeJSON(w, http.StatusOK, views)
}

// ListFormats handles the GET /formats request.
func (s *Server) ListFormats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Engine.Formats())
}

type generateBody struct {
	domain.GenerationRequest
	Head *int `json:"head,omitempty"`
}

// Generate handles the POST /generate request.
func (s *Server) Generate(w http.ResponseWriter, r *http.Request) {
	body := generateBody{GenerationRequest: s.defaultRequest()}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	table, err := s.Engine.Generate(r.Context(), body.GenerationRequest)
	if err != nil {
		s.fail(w, r, "Generate", err)
		return
	}
	if body.Head != nil {
		table = table.Head(*body.Head)
	}
	writeJSON(w, http.StatusOK, table)
}

type exportBody struct {
	domain.GenerationRequest
	Prefix string `json:"prefix,omitempty"`
	Format string `json:"format,omitempty"`
}

type exportResult struct {
	RunID  string        `json:"run_id"`
	Path   string        `json:"path"`
	File   string        `json:"file"`
	Format domain.Format `json:"format"`
	Seed   int64         `json:"seed"`
	Rows   int           `json:"rows"`
}

// Export handles the POST /export request.
// With ?download=true the written file is streamed back as an attachment.
func (s *Server) Export(w http.ResponseWriter, r *http.Request) {
	runID := uuid.NewString()
	logger := s.Logger.With("run_id", runID)

	body := exportBody{GenerationRequest: s.defaultRequest()}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	target := s.Target
	if body.Prefix != "" {
		target.Prefix = body.Prefix
	}
	if body.Format != "" {
		format, err := domain.ParseFormat(body.Format)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		target.Format = format
	}

	table, path, err := s.Engine.GenerateAndExport(r.Context(), body.GenerationRequest, target)
	if err != nil {
		s.fail(w, r, "Export", err, "run_id", runID)
		return
	}
	logger.Info("export served", "path", path, "seed", table.Seed(), "rows", table.Len())

	download, _ := strconv.ParseBool(r.URL.Query().Get("download"))
	if download {
		s.stream(w, path, target.Format, runID, table.Seed(), logger)
		return
	}

	writeJSON(w, http.StatusOK, exportResult{
		RunID:  runID,
		Path:   path,
		File:   filepath.Base(path),
		Format: target.Format,
		Seed:   table.Seed(),
		Rows:   table.Len(),
	})
}

func (s *Server) stream(w http.ResponseWriter, path string, format domain.Format, runID string, seed int64, logger *slog.Logger) {
	f, err := os.Open(path)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		logger.Error("failed to open exported file", "path", path, "err", err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", contentType(format))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(path)))
	w.Header().Set("X-Drillsim-Run-Id", runID)
	w.Header().Set("X-Drillsim-Seed", strconv.FormatInt(seed, 10))
	if _, err := io.Copy(w, f); err != nil {
		logger.Warn("download interrupted", "path", path, "err", err)
	}
}

func contentType(format domain.Format) string {
	switch format {
	case domain.FormatCSV:
		return "text/csv"
	case domain.FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/octet-stream"
}

// defaultRequest returns a copy of s.Request safe to decode into.
func (s *Server) defaultRequest() domain.GenerationRequest {
	req := s.Request
	req.MaxSteps = maps.Clone(s.Request.MaxSteps)
	if s.Request.Seed != nil {
		seed := *s.Request.Seed
		req.Seed = &seed
	}
	return req
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, op string, err error, attrs ...any) {
	status := statusFor(err)
	attrs = append(attrs, "err", err, "status", status)
	if status >= http.StatusInternalServerError {
		s.Logger.ErrorContext(r.Context(), op+" failed", attrs...)
	} else {
		s.Logger.WarnContext(r.Context(), op+" rejected", attrs...)
	}
	writeError(w, status, err)
}

func statusFor(err error) int {
	switch {
	case domain.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNamingExhaustion):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
