package httpserver

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/yyybbbyyyb/aiverse-backend/internal/domain"
	"github.com/yyybbbyyyb/aiverse-backend/internal/repository"
)

type typeCreateRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

type typeResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

type tagCreateRequest struct {
	Name string `json:"name" validate:"required"`
}

type tagResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func (s *Server) handleListTypes(w http.ResponseWriter, r *http.Request) {
	types, err := s.repo.Taxonomy.ListTypes(r.Context())
	if err != nil {
		s.logger.Printf("list types error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list types")
		return
	}

	items := make([]typeResponse, 0, len(types))
	for _, t := range types {
		items = append(items, typeResponse{ID: t.ID, Name: t.Name, Description: t.Description, CreatedAt: t.CreatedAt})
	}
	s.respondJSON(w, http.StatusOK, listResponse{Count: len(items), Items: items})
}

func (s *Server) handleCreateType(w http.ResponseWriter, r *http.Request) {
	if !s.verifyBearer(r.Header.Get("Authorization")) {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
		return
	}

	var req typeCreateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if !s.validateRequest(w, &req) {
		return
	}

	t, err := s.repo.Taxonomy.CreateType(r.Context(), strings.TrimSpace(req.Name), strings.TrimSpace(req.Description))
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			s.respondError(w, http.StatusConflict, "CONFLICT", "Type name already exists")
			return
		}
		s.logger.Printf("create type error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create type")
		return
	}

	s.respondJSON(w, http.StatusCreated, typeResponse{ID: t.ID, Name: t.Name, Description: t.Description, CreatedAt: t.CreatedAt})
}

func (s *Server) handleDeleteType(w http.ResponseWriter, r *http.Request) {
	if !s.verifyBearer(r.Header.Get("Authorization")) {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
		return
	}

	if err := s.repo.Taxonomy.DeleteType(r.Context(), chi.URLParam(r, "typeID")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
			return
		}
		s.logger.Printf("delete type error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete type")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListTags(w http.ResponseWriter, r *http.Request) {
	entityID := strings.TrimSpace(r.URL.Query().Get("entity"))

	tags, err := s.repo.Taxonomy.ListTags(r.Context(), entityID)
	if err != nil {
		s.logger.Printf("list tags error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list tags")
		return
	}

	items := toTagResponses(tags)
	s.respondJSON(w, http.StatusOK, listResponse{Count: len(items), Items: items})
}

func (s *Server) handleCreateTag(w http.ResponseWriter, r *http.Request) {
	if !s.verifyBearer(r.Header.Get("Authorization")) {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
		return
	}

	var req tagCreateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if !s.validateRequest(w, &req) {
		return
	}

	tag, err := s.repo.Taxonomy.CreateTag(r.Context(), strings.TrimSpace(req.Name))
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			s.respondError(w, http.StatusConflict, "CONFLICT", "Tag name already exists")
			return
		}
		s.logger.Printf("create tag error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create tag")
		return
	}

	s.respondJSON(w, http.StatusCreated, tagResponse{ID: tag.ID, Name: tag.Name, CreatedAt: tag.CreatedAt})
}

func toTagResponses(tags []domain.EntityTag) []tagResponse {
	items := make([]tagResponse, 0, len(tags))
	for _, tag := range tags {
		items = append(items, tagResponse{ID: tag.ID, Name: tag.Name, CreatedAt: tag.CreatedAt})
	}
	return items
}
