package httpserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/yyybbbyyyb/aiverse-backend/internal/domain"
	"github.com/yyybbbyyyb/aiverse-backend/internal/repository"
)

type ratingCreateRequest struct {
	EntityID string `json:"entityId" validate:"required,uuid"`
	Content  string `json:"content"`
	Kind     int16  `json:"kind" validate:"oneof=0 1"`
	Scores   [4]int `json:"scores" validate:"dive,min=0,max=5"`
}

type ratingUpdateRequest struct {
	Content *string `json:"content"`
	Kind    *int16  `json:"kind" validate:"omitempty,oneof=0 1"`
	Scores  *[4]int `json:"scores" validate:"omitempty,dive,min=0,max=5"`
}

type ratingResponse struct {
	ID        string    `json:"id"`
	EntityID  string    `json:"entityId"`
	AuthorID  string    `json:"authorId"`
	Content   string    `json:"content"`
	Kind      int16     `json:"kind"`
	Scores    [4]int    `json:"scores"`
	CreatedAt time.Time `json:"createdAt"`
}

func (s *Server) handleCreateRating(w http.ResponseWriter, r *http.Request) {
	userID := currentUserID(r)
	if userID == "" {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
		return
	}

	var req ratingCreateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if !s.validateRequest(w, &req) {
		return
	}

	if _, err := s.repo.Entities.GetByID(r.Context(), req.EntityID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
			return
		}
		s.logger.Printf("resolve entity for rating error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create rating")
		return
	}

	rating, err := s.repo.Ratings.Create(r.Context(), repository.RatingCreateParams{
		EntityID: req.EntityID,
		AuthorID: userID,
		Content:  strings.TrimSpace(req.Content),
		Kind:     req.Kind,
		Scores:   req.Scores,
	})
	if err != nil {
		s.logger.Printf("create rating error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create rating")
		return
	}

	s.respondJSON(w, http.StatusCreated, toRatingResponse(rating))
}

func (s *Server) handleUpdateRating(w http.ResponseWriter, r *http.Request) {
	rating, ok := s.authorizeRatingMutation(w, r)
	if !ok {
		return
	}

	var req ratingUpdateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if !s.validateRequest(w, &req) {
		return
	}

	updated, err := s.repo.Ratings.Update(r.Context(), rating.ID, repository.RatingUpdateParams{
		Content: req.Content,
		Kind:    req.Kind,
		Scores:  req.Scores,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
			return
		}
		s.logger.Printf("update rating error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update rating")
		return
	}

	s.respondJSON(w, http.StatusOK, toRatingResponse(updated))
}

func (s *Server) handleDeleteRating(w http.ResponseWriter, r *http.Request) {
	rating, ok := s.authorizeRatingMutation(w, r)
	if !ok {
		return
	}

	if err := s.repo.Ratings.Delete(r.Context(), rating.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
			return
		}
		s.logger.Printf("delete rating error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete rating")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListRatings(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	entityID := strings.TrimSpace(query.Get("entity"))
	if entityID == "" {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "entity parameter is required")
		return
	}
	page, err := s.parsePageParams(query)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	var kind *int16
	if val := strings.TrimSpace(query.Get("kind")); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil || (parsed != domain.RatingKindShort && parsed != domain.RatingKindLong) {
			s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid kind value")
			return
		}
		k := int16(parsed)
		kind = &k
	}

	all, err := s.repo.Ratings.ListByEntity(r.Context(), entityID, kind)
	if err != nil {
		s.logger.Printf("list ratings error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list ratings")
		return
	}

	window := pageWindow(all, page)
	items := make([]ratingResponse, 0, len(window))
	for _, rating := range window {
		items = append(items, toRatingResponse(rating))
	}
	s.respondJSON(w, http.StatusOK, newListResponse(all, page, items))
}

// authorizeRatingMutation loads the target rating and checks the caller
// may change it: the author always may, anyone else needs the service
// bearer token. Writes the error envelope itself on failure.
func (s *Server) authorizeRatingMutation(w http.ResponseWriter, r *http.Request) (domain.Rating, bool) {
	userID := currentUserID(r)
	if userID == "" && !s.verifyBearer(r.Header.Get("Authorization")) {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
		return domain.Rating{}, false
	}

	rating, err := s.repo.Ratings.GetByID(r.Context(), chi.URLParam(r, "ratingID"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
			return domain.Rating{}, false
		}
		s.logger.Printf("fetch rating error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch rating")
		return domain.Rating{}, false
	}

	if rating.AuthorID != userID && !s.verifyBearer(r.Header.Get("Authorization")) {
		s.respondError(w, http.StatusForbidden, "PERMISSION_DENIED", "Only the author may change this rating")
		return domain.Rating{}, false
	}
	return rating, true
}

func toRatingResponse(rating domain.Rating) ratingResponse {
	return ratingResponse{
		ID:        rating.ID,
		EntityID:  rating.EntityID,
		AuthorID:  rating.AuthorID,
		Content:   rating.Content,
		Kind:      rating.Kind,
		Scores:    rating.Scores,
		CreatedAt: rating.CreatedAt,
	}
}
