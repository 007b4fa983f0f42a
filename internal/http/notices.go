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

type noticeCreateRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content"`
}

type noticeUpdateRequest struct {
	Title   *string `json:"title" validate:"omitempty,min=1"`
	Content *string `json:"content"`
}

type noticeResponse struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"authorId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

func (s *Server) handleListNotices(w http.ResponseWriter, r *http.Request) {
	page, err := s.parsePageParams(r.URL.Query())
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	all, err := s.repo.Notices.List(r.Context())
	if err != nil {
		s.logger.Printf("list notices error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list notices")
		return
	}

	window := pageWindow(all, page)
	items := make([]noticeResponse, 0, len(window))
	for _, notice := range window {
		items = append(items, toNoticeResponse(notice))
	}
	s.respondJSON(w, http.StatusOK, newListResponse(all, page, items))
}

func (s *Server) handleCreateNotice(w http.ResponseWriter, r *http.Request) {
	author, ok := s.requireStaffUser(w, r)
	if !ok {
		return
	}

	var req noticeCreateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if !s.validateRequest(w, &req) {
		return
	}

	notice, err := s.repo.Notices.Create(r.Context(), author.ID, strings.TrimSpace(req.Title), strings.TrimSpace(req.Content))
	if err != nil {
		s.logger.Printf("create notice error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create notice")
		return
	}

	s.respondJSON(w, http.StatusCreated, toNoticeResponse(notice))
}

func (s *Server) handleUpdateNotice(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireStaffUser(w, r); !ok {
		return
	}

	var req noticeUpdateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if !s.validateRequest(w, &req) {
		return
	}

	notice, err := s.repo.Notices.Update(r.Context(), chi.URLParam(r, "noticeID"), req.Title, req.Content)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
			return
		}
		s.logger.Printf("update notice error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update notice")
		return
	}

	s.respondJSON(w, http.StatusOK, toNoticeResponse(notice))
}

func (s *Server) handleDeleteNotice(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireStaffUser(w, r); !ok {
		return
	}

	if err := s.repo.Notices.Delete(r.Context(), chi.URLParam(r, "noticeID")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
			return
		}
		s.logger.Printf("delete notice error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete notice")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toNoticeResponse(notice domain.Notice) noticeResponse {
	return noticeResponse{
		ID:        notice.ID,
		AuthorID:  notice.AuthorID,
		Title:     notice.Title,
		Content:   notice.Content,
		CreatedAt: notice.CreatedAt,
	}
}
