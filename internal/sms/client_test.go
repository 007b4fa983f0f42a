package sms

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *HTTPClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewHTTPClient(server.URL, "test-key", 2*time.Second, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	return client
}

func TestHTTPClientSendCode(t *testing.T) {
	var gotKey string
	var gotBody sendRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-API-Key")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(sendResponse{Code: "OK"})
	})

	if err := client.SendCode(context.Background(), "+15550001111", "1234"); err != nil {
		t.Fatalf("SendCode: %v", err)
	}
	if gotKey != "test-key" {
		t.Fatalf("api key header = %q, want test-key", gotKey)
	}
	if gotBody.Phone != "+15550001111" || gotBody.Code != "1234" {
		t.Fatalf("payload = %+v", gotBody)
	}
}

func TestHTTPClientSendCode_Rejected(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(sendResponse{Code: "REJECTED", Message: "number blocked"})
	})

	err := client.SendCode(context.Background(), "+15550001111", "1234")
	if !errors.Is(err, ErrDeliveryFailed) {
		t.Fatalf("expected ErrDeliveryFailed, got %v", err)
	}
}

func TestHTTPClientSendCode_GatewayError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	if err := client.SendCode(context.Background(), "+15550001111", "1234"); err == nil {
		t.Fatalf("expected error for 500 response")
	}
}
