package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/DrDeath22/packdex/pkg/cache"
	pkgerrors "github.com/DrDeath22/packdex/pkg/errors"
	"github.com/DrDeath22/packdex/pkg/export"
	"github.com/DrDeath22/packdex/pkg/resolver"
	"github.com/DrDeath22/packdex/pkg/store"
)

// errorResponse is the JSON error payload.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListNames(w http.ResponseWriter, r *http.Request) {
	names, err := s.store.Names(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"names": names})
}

func (s *Server) handleListVersions(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	records, err := s.store.ListByName(r.Context(), name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if len(records) == 0 {
		s.writeError(w, pkgerrors.New(pkgerrors.ErrCodeRecordNotFound, "no versions stored for %s", name))
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"name": name, "versions": records})
}

func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	version := chi.URLParam(r, "version")
	rec, err := s.store.Get(r.Context(), name, version)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

// resolveRequest is the POST /v1/resolve payload.
type resolveRequest struct {
	Name     string `json:"name"`
	Version  string `json:"version"`
	MaxDepth int    `json:"max_depth,omitempty"`
	Refresh  bool   `json:"refresh,omitempty"` // bypass the result cache
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, pkgerrors.Wrap(pkgerrors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}
	if req.Name == "" || req.Version == "" {
		s.writeError(w, pkgerrors.New(pkgerrors.ErrCodeInvalidInput, "name and version are required"))
		return
	}

	opts := resolver.Options{MaxDepth: req.MaxDepth}.WithDefaults()
	key := cache.ResolveKey(req.Name, req.Version, opts.MaxDepth)

	if !req.Refresh {
		if data, hit, err := s.cache.Get(r.Context(), key); err == nil && hit {
			s.logger.Debug("resolve cache hit", "name", req.Name, "version", req.Version)
			s.writeRawJSON(w, http.StatusOK, data)
			return
		}
	}

	g, err := s.resolver.Resolve(r.Context(), req.Name, req.Version, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	data, err := export.MarshalJSON(g)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.cache.Set(r.Context(), key, data, s.cacheTTL); err != nil {
		s.logger.Warn("cache resolve result", "err", err)
	}
	s.writeRawJSON(w, http.StatusOK, data)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}

func (s *Server) writeRawJSON(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		s.logger.Error("write response", "err", err)
	}
}

// writeError maps an error to an HTTP status via its structured code,
// falling back to store sentinels and 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := pkgerrors.GetCode(err)
	if code == "" {
		switch {
		case errors.Is(err, store.ErrNotFound):
			code = pkgerrors.ErrCodeRecordNotFound
		case errors.Is(err, store.ErrDuplicateRecord):
			code = pkgerrors.ErrCodeDuplicateRecord
		default:
			code = pkgerrors.ErrCodeInternal
		}
	}

	status := http.StatusInternalServerError
	switch code {
	case pkgerrors.ErrCodeRecordNotFound:
		status = http.StatusNotFound
	case pkgerrors.ErrCodeDuplicateRecord:
		status = http.StatusConflict
	case pkgerrors.ErrCodeCyclicDependency, pkgerrors.ErrCodeUnsatisfiedRequirement:
		status = http.StatusUnprocessableEntity
	case pkgerrors.ErrCodeInvalidInput, pkgerrors.ErrCodeInvalidRecipe, pkgerrors.ErrCodeInvalidRef, pkgerrors.ErrCodeInvalidFormat:
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	s.writeJSON(w, status, errorResponse{Code: string(code), Message: pkgerrors.UserMessage(err)})
}
