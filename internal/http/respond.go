package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/yyybbbyyyb/aiverse-backend/internal/domain"
	"github.com/yyybbbyyyb/aiverse-backend/internal/repository"
)

const maxRequestBody = 1 << 20 // 1 MiB

type errorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// listResponse is the paginated collection envelope. Page and PageSize
// are present only when the caller asked for a page; without a page
// parameter the full set is returned.
type listResponse struct {
	Count    int         `json:"count"`
	Page     *int        `json:"page,omitempty"`
	PageSize *int        `json:"pageSize,omitempty"`
	Items    interface{} `json:"items"`
}

type pageParams struct {
	page     int
	pageSize int
}

// parsePageParams reads page and page_size from the query. A missing
// page parameter means no pagination at all, not page one.
func (s *Server) parsePageParams(query url.Values) (*pageParams, error) {
	raw := strings.TrimSpace(query.Get("page"))
	if raw == "" {
		return nil, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return nil, fmt.Errorf("invalid page value")
	}

	size := s.cfg.DefaultPageSize
	if val := strings.TrimSpace(query.Get("page_size")); val != "" {
		size, err = strconv.Atoi(val)
		if err != nil || size < 1 {
			return nil, fmt.Errorf("invalid page_size value")
		}
		if size > s.cfg.MaxPageSize {
			size = s.cfg.MaxPageSize
		}
	}
	return &pageParams{page: page, pageSize: size}, nil
}

// pageWindow slices items down to the requested page. A page past the
// end of the set is empty, not an error.
func pageWindow[T any](items []T, p *pageParams) []T {
	if p == nil {
		return items
	}
	start := (p.page - 1) * p.pageSize
	if start >= len(items) {
		return []T{}
	}
	end := start + p.pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func newListResponse[T any](all []T, p *pageParams, serialized interface{}) listResponse {
	resp := listResponse{Count: len(all), Items: serialized}
	if p != nil {
		resp.Page = &p.page
		resp.PageSize = &p.pageSize
	}
	return resp
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	return nil
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			s.logger.Printf("failed to encode response: %v", err)
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, code, message string) {
	s.respondJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

func (s *Server) respondDecodeError(w http.ResponseWriter, err error) {
	var syntaxError *json.SyntaxError
	var typeError *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxError):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Malformed JSON payload")
	case errors.As(err, &typeError):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", fmt.Sprintf("Invalid value for field %s", typeError.Field))
	case errors.Is(err, io.EOF):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Request body cannot be empty")
	default:
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Unable to parse request body")
	}
}

// validateRequest runs struct validation and writes the field-level
// error envelope itself. Returns true when the request is valid.
func (s *Server) validateRequest(w http.ResponseWriter, req interface{}) bool {
	err := s.validate.Struct(req)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		s.logger.Printf("request validation error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to validate request")
		return false
	}

	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		details[fe.Field()] = validationMessage(fe)
	}
	s.respondJSON(w, http.StatusUnprocessableEntity, errorResponse{
		Code:    "VALIDATION_ERROR",
		Message: "Request validation failed",
		Details: details,
	})
	return false
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of %s", fe.Param())
	case "uuid":
		return "must be a valid UUID"
	case "e164":
		return "must be an E.164 phone number"
	case "url":
		return "must be a valid URL"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

func (s *Server) verifyBearer(header string) bool {
	if header == "" {
		return false
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	return token == s.cfg.AuthToken
}

// currentUserID reads the caller identity; an empty result means the
// request is anonymous.
func currentUserID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("X-User-Id"))
}

// requireStaffUser resolves the caller to a staff user, writing the
// error envelope itself when the caller is missing or not staff.
func (s *Server) requireStaffUser(w http.ResponseWriter, r *http.Request) (domain.User, bool) {
	userID := currentUserID(r)
	if userID == "" {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
		return domain.User{}, false
	}

	user, err := s.repo.Users.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
			return domain.User{}, false
		}
		s.logger.Printf("resolve user %s failed: %v", userID, err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to resolve user")
		return domain.User{}, false
	}
	if !user.IsStaff {
		s.respondError(w, http.StatusForbidden, "PERMISSION_DENIED", "Staff access required")
		return domain.User{}, false
	}
	return user, true
}
