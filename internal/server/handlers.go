package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hyperjump/buildbot/internal/models"
	"go.uber.org/zap"
)

// handleAdvise is the advisory endpoint: it validates the request shape,
// dispatches to the new-build or upgrade flow, and maps engine errors to
// client responses. Validation failures return before any model call.
func (s *Server) handleAdvise(w http.ResponseWriter, r *http.Request) {
	var req models.AdvisoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request: body must be a JSON object")
		return
	}
	if err := req.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.logger.Debug("advisory request",
		zap.String("request_type", req.RequestType),
		zap.Float64("upgrade_budget", req.UpgradeBudget),
	)

	build, err := s.advisor.Suggest(r.Context(), req.ToBuildRequest())
	if err != nil {
		s.respondAdvisoryError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, build)
}

// respondAdvisoryError maps engine error kinds to status codes and response
// shapes. Infeasible requests echo the model's budget figures; output errors
// carry a truncated raw prefix; everything else is a generic 500.
func (s *Server) respondAdvisoryError(w http.ResponseWriter, err error) {
	var infeasible *models.InfeasibleError
	if errors.As(err, &infeasible) {
		s.respondJSON(w, http.StatusBadRequest, map[string]any{
			"reply":           infeasible.Reply(),
			"buildName":       "Request Error",
			"error":           infeasible.Reason,
			"requestedBudget": infeasible.RequestedBudget,
			"minimumRequired": infeasible.MinimumRequired,
		})
		return
	}
	var output *models.OutputError
	if errors.As(err, &output) {
		s.logger.Error("model output unusable", zap.String("reason", output.Reason), zap.String("raw", output.Raw))
		s.respondJSON(w, http.StatusInternalServerError, map[string]string{
			"error": output.Reason,
			"raw":   output.Raw,
		})
		return
	}
	if errors.Is(err, models.ErrMissingCredentials) {
		s.logger.Error("advisory request rejected: model credentials missing")
		s.respondError(w, http.StatusInternalServerError, "AI service config error")
		return
	}
	s.logger.Error("advisory request failed", zap.Error(err))
	s.respondError(w, http.StatusInternalServerError, "internal server error")
}

func (s *Server) handleMethodNotAllowedPost(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Allow", http.MethodPost)
	s.respondError(w, http.StatusMethodNotAllowed, "method "+r.Method+" not allowed")
}

type searchRequest struct {
	Query    string `json:"query"`
	Category string `json:"category,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if s.index == nil {
		s.respondError(w, http.StatusNotImplemented, "search not enabled")
		return
	}
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Query == "" {
		s.respondError(w, http.StatusBadRequest, "query is required")
		return
	}
	if req.Limit <= 0 {
		req.Limit = s.config.Search.DefaultLimit
	}
	if req.Limit > s.config.Search.MaxLimit {
		req.Limit = s.config.Search.MaxLimit
	}
	s.logger.Debug("part search request", zap.String("query", req.Query), zap.String("category", req.Category), zap.Int("limit", req.Limit))
	parts, err := s.index.Search(r.Context(), req.Query, req.Category, req.Limit)
	if err != nil {
		s.logger.Error("part search failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"parts": parts, "count": len(parts)})
}

func (s *Server) handlePartCounts(w http.ResponseWriter, r *http.Request) {
	snap := s.catalog.Snapshot()
	s.respondJSON(w, http.StatusOK, map[string]any{"categories": snap.Counts(), "total": snap.Len()})
}

func (s *Server) handlePartCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	parts := s.catalog.Snapshot().Category(category)
	if parts == nil {
		parts = []models.Part{}
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"category": category, "parts": parts})
}

func (s *Server) handlePart(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	id := chi.URLParam(r, "id")
	part, ok := s.catalog.Snapshot().Lookup(category, id)
	if !ok {
		s.respondError(w, http.StatusNotFound, "part not found")
		return
	}
	s.respondJSON(w, http.StatusOK, part)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap := s.catalog.Snapshot()
	resp := map[string]any{
		"parts":      snap.Counts(),
		"part_total": snap.Len(),
	}
	if s.index != nil {
		resp["search_index_size"] = s.index.Size()
	}
	if s.audit != nil {
		count, err := s.audit.Count(r.Context())
		if err != nil {
			s.logger.Error("status: audit count failed", zap.Error(err))
		} else {
			resp["advisory_requests"] = count
		}
	}
	resp["config"] = map[string]any{
		"catalog_dir": s.config.Catalog.Dir,
		"model":       s.config.Model.Name,
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
