package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/slok/stepviz/internal/app/generate"
	"github.com/slok/stepviz/internal/catalog"
	"github.com/slok/stepviz/internal/log"
	"github.com/slok/stepviz/internal/model"
	"github.com/slok/stepviz/internal/storage"
)

// ServiceConfig is the configuration for the HTTP API server.
type ServiceConfig struct {
	Generate *generate.Service
	Catalog  *catalog.Catalog
	// Repository is optional. Without it the fixture endpoints return 404.
	Repository storage.Repository
	Logger     log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Generate == nil {
		return fmt.Errorf("generate service is required")
	}
	if c.Catalog == nil {
		return fmt.Errorf("catalog is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "httpapi.Server"})
	return nil
}

// Server exposes the catalog and the generation engine over HTTP.
type Server struct {
	generate *generate.Service
	catalog  *catalog.Catalog
	repo     storage.Repository
	logger   log.Logger
}

// NewServer creates a new HTTP API server.
func NewServer(cfg ServiceConfig) (*Server, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Server{
		generate: cfg.Generate,
		catalog:  cfg.Catalog,
		repo:     cfg.Repository,
		logger:   cfg.Logger,
	}, nil
}

// Handler returns the routed HTTP handler for the API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/algorithms", s.handleListAlgorithms)
	mux.HandleFunc("POST /api/generate", s.handleGenerate)
	mux.HandleFunc("GET /api/sequences", s.handleListSequences)
	mux.HandleFunc("GET /api/sequences/{algorithmID}", s.handleGetSequence)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type algorithmResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Category        string `json:"category"`
	Description     string `json:"description"`
	Difficulty      string `json:"difficulty"`
	TimeComplexity  string `json:"timeComplexity"`
	SpaceComplexity string `json:"spaceComplexity"`
}

func (s *Server) handleListAlgorithms(w http.ResponseWriter, r *http.Request) {
	category := model.AlgorithmCategory(r.URL.Query().Get("category"))
	if category != "" && !category.Valid() {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("unknown category %q", category))
		return
	}

	infos := s.catalog.List(category)
	resp := make([]algorithmResponse, len(infos))
	for i, info := range infos {
		resp[i] = algorithmResponse{
			ID:              info.ID,
			Name:            info.Name,
			Category:        string(info.Category),
			Description:     info.Description,
			Difficulty:      info.Difficulty,
			TimeComplexity:  info.TimeComplexity,
			SpaceComplexity: info.SpaceComplexity,
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"algorithms": resp})
}

type generateRequest struct {
	AlgorithmID string       `json:"algorithmId"`
	Inputs      model.Inputs `json:"inputs,omitempty"`
	MaxSteps    int          `json:"maxSteps,omitempty"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	if strings.TrimSpace(req.AlgorithmID) == "" {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("algorithmId is required"))
		return
	}
	if req.MaxSteps < 0 {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("maxSteps must be >= 0"))
		return
	}

	seq, err := s.generate.Run(r.Context(), generate.Request{
		AlgorithmID: req.AlgorithmID,
		Inputs:      req.Inputs,
		MaxSteps:    req.MaxSteps,
	})
	if err != nil {
		s.writeError(w, statusForError(err), err)
		return
	}

	writeJSON(w, http.StatusOK, seq)
}

func (s *Server) handleListSequences(w http.ResponseWriter, r *http.Request) {
	if s.repo == nil {
		s.writeError(w, http.StatusNotFound, fmt.Errorf("fixture store not configured"))
		return
	}

	refs, err := s.repo.ListSequences(r.Context())
	if err != nil {
		s.writeError(w, statusForError(err), err)
		return
	}

	resp := make([]map[string]any, len(refs))
	for i, ref := range refs {
		resp[i] = map[string]any{
			"id":          ref.ID,
			"algorithmId": ref.AlgorithmID,
			"stepCount":   ref.StepCount,
			"generatedAt": ref.GeneratedAt,
			"generatedBy": ref.GeneratedBy,
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"sequences": resp})
}

func (s *Server) handleGetSequence(w http.ResponseWriter, r *http.Request) {
	if s.repo == nil {
		s.writeError(w, http.StatusNotFound, fmt.Errorf("fixture store not configured"))
		return
	}

	seq, err := s.repo.GetSequence(r.Context(), r.PathValue("algorithmID"))
	if err != nil {
		s.writeError(w, statusForError(err), err)
		return
	}

	writeJSON(w, http.StatusOK, seq)
}

// statusForError maps domain errors to HTTP status codes. Generation failures
// are the client's problem (bad inputs or a misbehaving producer), not the
// server's, hence 422.
func statusForError(err error) int {
	var genErr *model.GenerationError
	switch {
	case errors.As(err, &genErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrNotValid):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Errorf("Request failed: %s", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
