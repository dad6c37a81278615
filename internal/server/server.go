// Package server serves a rendered site for preview, with a small JSON API
// for ages and recorded card versions.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pfrederiksen/uww-referees/internal/age"
	"github.com/pfrederiksen/uww-referees/internal/history"
	"github.com/pfrederiksen/uww-referees/internal/logger"
	"github.com/pfrederiksen/uww-referees/internal/referee"
)

// Config holds server configuration.
type Config struct {
	Listen  string // host:port
	SiteDir string // directory containing the rendered site
}

// VersionLister lists the recorded versions of a referee
type VersionLister interface {
	Versions(ctx context.Context, idNumber int) ([]history.Version, error)
}

// Server is the preview server.
type Server struct {
	cfg        Config
	versions   VersionLister
	today      func() age.CalendarDate
	router     chi.Router
	httpServer *http.Server
}

// New creates a server. versions may be nil, which disables the versions
// endpoint.
func New(cfg Config, versions VersionLister) *Server {
	s := &Server{
		cfg:      cfg,
		versions: versions,
		today:    age.Today,
	}
	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/api/age", s.handleAge)
	if s.versions != nil {
		r.Get("/api/referees/{id}/versions", s.handleVersions)
	}

	// Static files (must be registered after API routes).
	r.Handle("/*", http.FileServer(http.Dir(s.cfg.SiteDir)))

	return r
}

// Router returns the chi router.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured address.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info("Preview server listening", logger.Fields{"addr": s.cfg.Listen, "site_dir": s.cfg.SiteDir})
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

type ageResponse struct {
	Birthdate string `json:"birthdate"`
	Today     string `json:"today"`
	Age       string `json:"age"`
	Years     int    `json:"years"`
	Months    int    `json:"months"`
	Days      int    `json:"days"`
}

// handleAge serves GET /api/age?birthdate=YYYY-MM-DD[&today=YYYY-MM-DD]
func (s *Server) handleAge(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("birthdate")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "birthdate is required")
		return
	}
	birth, err := age.ParseISO(raw)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid birthdate")
		return
	}

	today := s.today()
	if t := r.URL.Query().Get("today"); t != "" {
		if today, err = age.ParseISO(t); err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid today")
			return
		}
	}
	if today.Before(birth) {
		writeError(w, http.StatusUnprocessableEntity, "birthdate is after today")
		return
	}

	b := age.Between(birth, today)
	writeJSON(w, http.StatusOK, ageResponse{
		Birthdate: birth.String(),
		Today:     today.String(),
		Age:       b.String(),
		Years:     b.Years,
		Months:    b.Months,
		Days:      b.Days,
	})
}

type versionResponse struct {
	RecordedOn    string          `json:"recorded_on"`
	Status        string          `json:"status"`
	ChangedFields []string        `json:"changed_fields"`
	Referee       referee.Referee `json:"referee"`
}

// handleVersions serves GET /api/referees/{id}/versions, newest first
func (s *Server) handleVersions(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid referee id")
		return
	}

	versions, err := s.versions.Versions(r.Context(), id)
	if err != nil {
		logger.Error("Listing versions failed", logger.Fields{"id_number": id}, err)
		writeError(w, http.StatusInternalServerError, "listing versions failed")
		return
	}
	if len(versions) == 0 {
		writeError(w, http.StatusNotFound, "referee not found")
		return
	}

	out := make([]versionResponse, 0, len(versions))
	for _, v := range versions {
		changed := v.ChangedFields
		if changed == nil {
			changed = []string{}
		}
		out = append(out, versionResponse{
			RecordedOn:    v.RecordedOn,
			Status:        v.Status,
			ChangedFields: changed,
			Referee:       v.Referee,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logger.Debug("Request served", logger.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"request_id": middleware.GetReqID(r.Context()),
			"duration":   time.Since(start).String(),
		})
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
