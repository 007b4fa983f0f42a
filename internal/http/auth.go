package httpserver

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/yyybbbyyyb/aiverse-backend/internal/repository"
)

type phoneCodeRequest struct {
	Phone string `json:"phone" validate:"required,e164"`
}

type phoneCodeVerifyRequest struct {
	Phone string `json:"phone" validate:"required,e164"`
	Code  string `json:"code" validate:"required,len=4,numeric"`
}

func (s *Server) handleRequestPhoneCode(w http.ResponseWriter, r *http.Request) {
	var req phoneCodeRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if !s.validateRequest(w, &req) {
		return
	}

	code, err := generateCode()
	if err != nil {
		s.logger.Printf("generate phone code error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to issue verification code")
		return
	}

	ttl := time.Duration(s.cfg.PhoneCodeTTLSecs) * time.Second
	if err := s.repo.PhoneCodes.Put(r.Context(), req.Phone, code, ttl); err != nil {
		s.logger.Printf("store phone code error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to issue verification code")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(s.cfg.SMSTimeoutSecs)*time.Second)
	defer cancel()
	if err := s.sms.SendCode(ctx, req.Phone, code); err != nil {
		s.logger.Printf("send phone code failed for %s: %v", req.Phone, err)
		s.respondError(w, http.StatusBadGateway, "INTERNAL_ERROR", "Failed to deliver verification code")
		return
	}

	s.respondJSON(w, http.StatusAccepted, map[string]string{"status": "sent"})
}

func (s *Server) handleVerifyPhoneCode(w http.ResponseWriter, r *http.Request) {
	var req phoneCodeVerifyRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if !s.validateRequest(w, &req) {
		return
	}

	err := s.repo.PhoneCodes.Verify(r.Context(), req.Phone, req.Code)
	switch {
	case err == nil:
		resp := map[string]string{"status": "verified"}
		// A verified phone that already belongs to an account resolves
		// to that account's id.
		user, err := s.repo.Users.GetByPhone(r.Context(), req.Phone)
		switch {
		case err == nil:
			resp["userId"] = user.ID
		case !errors.Is(err, repository.ErrNotFound):
			s.logger.Printf("resolve user by phone error: %v", err)
			s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to verify code")
			return
		}
		s.respondJSON(w, http.StatusOK, resp)
	case errors.Is(err, repository.ErrNotFound):
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", "No active code for this phone")
	case errors.Is(err, repository.ErrCodeMismatch):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Code does not match")
	default:
		s.logger.Printf("verify phone code error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to verify code")
	}
}

// generateCode draws a 4-digit verification code from crypto/rand.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d", n.Int64()), nil
}
