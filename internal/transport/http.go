package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rpggio/timetrack/internal/domain/errs"
	"github.com/rpggio/timetrack/internal/domain/report"
)

// ExportService renders CSV exports.
type ExportService interface {
	Export(ctx context.Context, w io.Writer, f report.Filter) (int, error)
	ExportFileName(f report.Filter) string
}

// Options configures the HTTP router.
type Options struct {
	// MCP serves the streamable MCP endpoint.
	MCP     http.Handler
	Reports ExportService
	// Token guards every route but /health when set.
	Token  string
	Logger *slog.Logger
}

// Server wires HTTP handlers.
type Server struct {
	reports ExportService
	logger  *slog.Logger
}

// NewServer creates an HTTP server router with middleware.
func NewServer(opts Options) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	srv := &Server{reports: opts.Reports, logger: opts.Logger}
	if srv.logger == nil {
		srv.logger = slog.New(slog.DiscardHandler)
	}

	r.Get("/health", srv.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(opts.Token))
		if opts.MCP != nil {
			r.Handle("/mcp", opts.MCP)
			r.Handle("/mcp/*", opts.MCP)
		}
		if opts.Reports != nil {
			r.Get("/export.csv", srv.handleExport)
		}
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleExport serves GET /export.csv?project_id=&from=&to=.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	// Buffered so a failure can still produce an error status.
	var buf bytes.Buffer
	rows, err := s.reports.Export(r.Context(), &buf, filter)
	if err != nil {
		s.writeError(w, err)
		return
	}

	name := s.reports.ExportFileName(filter)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("X-Export-Rows", strconv.Itoa(rows))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
	s.logger.Info("csv export served", "file", name, "rows", rows)
}

func parseFilter(r *http.Request) (report.Filter, error) {
	q := r.URL.Query()
	var f report.Filter
	if raw := q.Get("project_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return f, fmt.Errorf("%w: project_id must be an integer", errs.ErrValidation)
		}
		f.ProjectID = &id
	}
	var err error
	if f.From, err = report.ParseDate(q.Get("from")); err != nil {
		return f, err
	}
	if f.To, err = report.ParseDate(q.Get("to")); err != nil {
		return f, err
	}
	return f, nil
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errs.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, errs.ErrNotFound):
		status = http.StatusNotFound
	default:
		s.logger.Error("export failed", "error", err)
	}
	http.Error(w, err.Error(), status)
}
