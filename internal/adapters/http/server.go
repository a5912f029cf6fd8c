// Package http exposes the engine over a small JSON API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/douglas-run/douglas/pkg/domain"
	"github.com/douglas-run/douglas/pkg/ports"
)

// Engine defines what the HTTP surface needs from the core.
type Engine interface {
	Run(ctx context.Context, name, input string) (domain.DisplayOutput, error)
	List() ([]*domain.Galaxy, []ports.Problem)
}

// Server implements the JSON handlers.
type Server struct {
	engine Engine
	logger *slog.Logger
}

// NewHandler creates the HTTP handler for the engine.
func NewHandler(engine Engine, logger *slog.Logger) http.Handler {
	s := &Server{engine: engine, logger: logger}

	r := chi.NewRouter()
	r.Get("/healthz", s.health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Get("/galaxies", s.listGalaxies)
	r.Post("/galaxies/{name}/run", s.runGalaxy)
	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type listResponse struct {
	Galaxies []*domain.Galaxy `json:"galaxies"`
	Problems []problemDTO     `json:"problems,omitempty"`
}

type problemDTO struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

func (s *Server) listGalaxies(w http.ResponseWriter, r *http.Request) {
	galaxies, problems := s.engine.List()

	resp := listResponse{Galaxies: galaxies}
	for _, p := range problems {
		resp.Problems = append(resp.Problems, problemDTO{Path: p.Path, Error: p.Err.Error()})
	}
	writeJSON(w, http.StatusOK, resp)
}

type runRequest struct {
	Input string `json:"input"`
}

func (s *Server) runGalaxy(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var body runRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
	}

	out, err := s.engine.Run(r.Context(), name, body.Input)
	if err != nil {
		s.logger.Warn("run failed", "galaxy", name, "err", err)
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// statusFor maps the error taxonomy onto HTTP statuses: unknown Galaxy
// is 404, a bad definition or mode is the caller's problem, an LLM or
// store failure is upstream.
func statusFor(err error) int {
	var parseErr *domain.ParseError
	var configErr *domain.ConfigError
	var llmErr *domain.LLMError

	switch {
	case errors.Is(err, domain.ErrGalaxyNotFound):
		return http.StatusNotFound
	case errors.As(err, &parseErr), errors.As(err, &configErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &llmErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
