package httpserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/yyybbbyyyb/aiverse-backend/internal/domain"
	"github.com/yyybbbyyyb/aiverse-backend/internal/engine"
	"github.com/yyybbbyyyb/aiverse-backend/internal/repository"
)

type entityCreateRequest struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	URL         string   `json:"url" validate:"omitempty,url"`
	TypeID      string   `json:"typeId" validate:"required,uuid"`
	TagIDs      []string `json:"tagIds" validate:"omitempty,dive,uuid"`
}

type entityUpdateRequest struct {
	Name        *string   `json:"name" validate:"omitempty,min=1"`
	Description *string   `json:"description"`
	URL         *string   `json:"url" validate:"omitempty,url"`
	TypeID      *string   `json:"typeId" validate:"omitempty,uuid"`
	TagIDs      *[]string `json:"tagIds" validate:"omitempty,dive,uuid"`
}

type entityResponse struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	URL          string     `json:"url"`
	TypeID       string     `json:"typeId"`
	TypeName     string     `json:"typeName,omitempty"`
	Scores       [4]float64 `json:"scores"`
	AverageScore float64    `json:"averageScore"`
	LikeCount    int64      `json:"likeCount"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

type entityDetailResponse struct {
	entityResponse
	Tags    []tagResponse `json:"tags"`
	LikedBy bool          `json:"likedByUser"`
}

type snapshotResponse struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	TypeID       string     `json:"typeId"`
	TypeName     string     `json:"typeName"`
	Scores       [4]float64 `json:"scores"`
	AverageScore float64    `json:"averageScore"`
	LikeCount    int64      `json:"likeCount"`
	LikedByUser  bool       `json:"likedByUser"`
}

type recommendationResponse struct {
	snapshotResponse
	Reason string `json:"reason"`
}

type similarResponse struct {
	snapshotResponse
	Similarity float64 `json:"similarity"`
}

type typeCountResponse struct {
	TypeID   string `json:"typeId"`
	TypeName string `json:"typeName"`
	Count    int64  `json:"count"`
}

func (s *Server) handleListEntities(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, err := s.parsePageParams(query)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	var filters repository.EntityListFilters
	if val := strings.TrimSpace(query.Get("type")); val != "" {
		filters.TypeID = &val
	}
	filters.Ordering = strings.TrimSpace(query.Get("ordering"))

	all, err := s.repo.Entities.List(r.Context(), filters)
	if err != nil {
		s.logger.Printf("list entities error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list entities")
		return
	}

	window := pageWindow(all, page)
	items := make([]entityResponse, 0, len(window))
	for _, item := range window {
		items = append(items, toEntityResponse(item.Entity, item.TypeName, item.LikeCount))
	}
	s.respondJSON(w, http.StatusOK, newListResponse(all, page, items))
}

func (s *Server) handleCreateEntity(w http.ResponseWriter, r *http.Request) {
	if !s.verifyBearer(r.Header.Get("Authorization")) {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
		return
	}

	var req entityCreateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if !s.validateRequest(w, &req) {
		return
	}

	if _, err := s.repo.Taxonomy.GetTypeByID(r.Context(), req.TypeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "typeId references an unknown type")
			return
		}
		s.logger.Printf("resolve type error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create entity")
		return
	}

	entity, err := s.repo.Entities.Create(r.Context(), repository.EntityCreateParams{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		URL:         strings.TrimSpace(req.URL),
		TypeID:      req.TypeID,
	})
	if err != nil {
		s.logger.Printf("create entity error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create entity")
		return
	}

	if len(req.TagIDs) > 0 {
		if err := s.repo.Taxonomy.SetEntityTags(r.Context(), entity.ID, req.TagIDs); err != nil {
			s.logger.Printf("set entity tags error: %v", err)
			s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to attach tags")
			return
		}
	}

	s.respondJSON(w, http.StatusCreated, toEntityResponse(entity, "", 0))
}

func (s *Server) handleGetEntity(w http.ResponseWriter, r *http.Request) {
	entityID := chi.URLParam(r, "entityID")
	userID := currentUserID(r)

	entity, err := s.repo.Entities.GetByID(r.Context(), entityID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
			return
		}
		s.logger.Printf("get entity error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch entity")
		return
	}

	var (
		entityType domain.EntityType
		tags       []domain.EntityTag
		likeCount  int64
		liked      bool
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		entityType, err = s.repo.Taxonomy.GetTypeByID(ctx, entity.TypeID)
		return err
	})
	g.Go(func() error {
		var err error
		tags, err = s.repo.Taxonomy.ListTags(ctx, entity.ID)
		return err
	})
	g.Go(func() error {
		var err error
		likeCount, err = s.repo.Likes.CountForEntity(ctx, entity.ID)
		return err
	})
	if userID != "" {
		g.Go(func() error {
			var err error
			liked, err = s.repo.Likes.Exists(ctx, userID, entity.ID)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Printf("load entity detail error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch entity")
		return
	}

	resp := entityDetailResponse{
		entityResponse: toEntityResponse(entity, entityType.Name, likeCount),
		Tags:           toTagResponses(tags),
		LikedBy:        liked,
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateEntity(w http.ResponseWriter, r *http.Request) {
	if !s.verifyBearer(r.Header.Get("Authorization")) {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
		return
	}
	entityID := chi.URLParam(r, "entityID")

	var req entityUpdateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if !s.validateRequest(w, &req) {
		return
	}

	if req.TypeID != nil {
		if _, err := s.repo.Taxonomy.GetTypeByID(r.Context(), *req.TypeID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "typeId references an unknown type")
				return
			}
			s.logger.Printf("resolve type error: %v", err)
			s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update entity")
			return
		}
	}

	entity, err := s.repo.Entities.Update(r.Context(), entityID, repository.EntityUpdateParams{
		Name:        req.Name,
		Description: req.Description,
		URL:         req.URL,
		TypeID:      req.TypeID,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
			return
		}
		s.logger.Printf("update entity error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update entity")
		return
	}

	if req.TagIDs != nil {
		if err := s.repo.Taxonomy.SetEntityTags(r.Context(), entity.ID, *req.TagIDs); err != nil {
			s.logger.Printf("set entity tags error: %v", err)
			s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to attach tags")
			return
		}
	}

	s.respondJSON(w, http.StatusOK, toEntityResponse(entity, "", 0))
}

func (s *Server) handleDeleteEntity(w http.ResponseWriter, r *http.Request) {
	if !s.verifyBearer(r.Header.Get("Authorization")) {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
		return
	}

	if err := s.repo.Entities.Delete(r.Context(), chi.URLParam(r, "entityID")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
			return
		}
		s.logger.Printf("delete entity error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete entity")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLikeEntity(w http.ResponseWriter, r *http.Request) {
	userID := currentUserID(r)
	if userID == "" {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
		return
	}
	entityID := chi.URLParam(r, "entityID")

	if _, err := s.repo.Entities.GetByID(r.Context(), entityID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
			return
		}
		s.logger.Printf("resolve entity for like error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to like entity")
		return
	}

	like, err := s.repo.Likes.Create(r.Context(), userID, entityID)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			s.respondError(w, http.StatusConflict, "CONFLICT", "Entity already liked")
			return
		}
		s.logger.Printf("create like error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to like entity")
		return
	}

	s.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"entityId":  like.EntityID,
		"userId":    like.UserID,
		"createdAt": like.CreatedAt,
	})
}

func (s *Server) handleUnlikeEntity(w http.ResponseWriter, r *http.Request) {
	userID := currentUserID(r)
	if userID == "" {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
		return
	}

	err := s.repo.Likes.Delete(r.Context(), userID, chi.URLParam(r, "entityID"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
			return
		}
		s.logger.Printf("delete like error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to unlike entity")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	k, err := parseTopK(r.URL.Query().Get("k"), s.cfg.RecommendTopN)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	snaps, err := s.repo.Entities.Snapshots(r.Context(), currentUserID(r))
	if err != nil {
		s.logger.Printf("load snapshots error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to build recommendations")
		return
	}

	recs := engine.Recommend(snaps, k)
	items := make([]recommendationResponse, 0, len(recs))
	for _, rec := range recs {
		items = append(items, recommendationResponse{
			snapshotResponse: toSnapshotResponse(rec.Snapshot),
			Reason:           rec.Reason,
		})
	}
	s.respondJSON(w, http.StatusOK, listResponse{Count: len(items), Items: items})
}

func (s *Server) handleRecommendSimilar(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	entityID := strings.TrimSpace(query.Get("entity"))
	if entityID == "" {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "entity parameter is required")
		return
	}
	k, err := parseTopK(query.Get("k"), s.cfg.SimilarTopN)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	snaps, err := s.repo.Entities.Snapshots(r.Context(), currentUserID(r))
	if err != nil {
		s.logger.Printf("load snapshots error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to build recommendations")
		return
	}

	results, err := engine.SimilarTo(snaps, entityID, k)
	if err != nil {
		if errors.Is(err, engine.ErrEntityNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
			return
		}
		s.logger.Printf("similarity error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to build recommendations")
		return
	}

	items := make([]similarResponse, 0, len(results))
	for _, res := range results {
		items = append(items, similarResponse{
			snapshotResponse: toSnapshotResponse(res.Snapshot),
			Similarity:       res.Similarity,
		})
	}
	s.respondJSON(w, http.StatusOK, listResponse{Count: len(items), Items: items})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	// The query is validated before the index is consulted; a blank
	// query never reaches the full-text collaborator.
	q := strings.TrimSpace(query.Get("q"))
	if q == "" {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "q parameter is required")
		return
	}
	page, err := s.parsePageParams(query)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	var (
		snaps      []engine.Snapshot
		candidates []string
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		snaps, err = s.repo.Entities.Snapshots(ctx, currentUserID(r))
		return err
	})
	g.Go(func() error {
		var err error
		candidates, err = s.index.Lookup(ctx, q)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Printf("search error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to search entities")
		return
	}

	opts := engine.SearchOptions{Ordering: strings.TrimSpace(query.Get("ordering"))}
	if val := strings.TrimSpace(query.Get("type")); val != "" {
		opts.TypeID = val
	}

	all := engine.Search(snaps, candidates, opts)
	window := pageWindow(all, page)
	items := make([]snapshotResponse, 0, len(window))
	for _, snap := range window {
		items = append(items, toSnapshotResponse(snap))
	}
	s.respondJSON(w, http.StatusOK, newListResponse(all, page, items))
}

func (s *Server) handleEntityStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := s.repo.Entities.StatsByType(r.Context())
	if err != nil {
		s.logger.Printf("entity statistics error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to compute statistics")
		return
	}

	items := make([]typeCountResponse, 0, len(stats))
	for _, tc := range stats {
		items = append(items, typeCountResponse{TypeID: tc.TypeID, TypeName: tc.TypeName, Count: tc.Count})
	}
	s.respondJSON(w, http.StatusOK, listResponse{Count: len(items), Items: items})
}

func parseTopK(raw string, fallback int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	k, err := strconv.Atoi(raw)
	if err != nil || k < 1 {
		return 0, errors.New("invalid k value")
	}
	return k, nil
}

func toEntityResponse(entity domain.Entity, typeName string, likeCount int64) entityResponse {
	return entityResponse{
		ID:           entity.ID,
		Name:         entity.Name,
		Description:  entity.Description,
		URL:          entity.URL,
		TypeID:       entity.TypeID,
		TypeName:     typeName,
		Scores:       entity.Scores,
		AverageScore: entity.AverageScore(),
		LikeCount:    likeCount,
		CreatedAt:    entity.CreatedAt,
		UpdatedAt:    entity.UpdatedAt,
	}
}

func toSnapshotResponse(snap engine.Snapshot) snapshotResponse {
	return snapshotResponse{
		ID:           snap.ID,
		Name:         snap.Name,
		Description:  snap.Description,
		TypeID:       snap.TypeID,
		TypeName:     snap.TypeName,
		Scores:       snap.Scores,
		AverageScore: snap.AverageScore(),
		LikeCount:    snap.LikeCount,
		LikedByUser:  snap.LikedByUser,
	}
}
