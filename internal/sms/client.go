package sms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrDeliveryFailed is returned when the gateway rejects a message.
var ErrDeliveryFailed = errors.New("sms: delivery failed")

// Client defines the contract for the SMS delivery gateway.
type Client interface {
	SendCode(ctx context.Context, phone, code string) error
}

// HTTPClient implements Client over the gateway's HTTP API.
type HTTPClient struct {
	baseURL *url.URL
	apiKey  string
	client  *http.Client
	logger  *log.Logger
}

// NewHTTPClient constructs a new HTTP-backed SMS client.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration, logger *log.Logger) (*HTTPClient, error) {
	if logger == nil {
		logger = log.Default()
	}
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse sms url: %w", err)
	}
	return &HTTPClient{
		baseURL: parsed,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   timeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   timeout,
				ResponseHeaderTimeout: timeout,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		logger: logger,
	}, nil
}

type sendRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

type sendResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SendCode delivers a verification code to a phone number. The gateway
// answers 200 with a body code of "OK" on acceptance; anything else is
// a delivery failure.
func (c *HTTPClient) SendCode(ctx context.Context, phone, code string) error {
	endpoint := c.baseURL.ResolveReference(&url.URL{Path: "/send"})

	payload, err := json.Marshal(sendRequest{Phone: phone, Code: code})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), strings.NewReader(string(payload)))
	if err != nil {
		return err
	}
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Printf("sms: unexpected status %d for phone %q", resp.StatusCode, phone)
		return fmt.Errorf("sms: gateway returned %d", resp.StatusCode)
	}

	var body sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("decode sms response: %w", err)
	}
	if body.Code != "OK" {
		c.logger.Printf("sms: gateway rejected message for %q: %s", phone, body.Message)
		return fmt.Errorf("%w: %s", ErrDeliveryFailed, body.Message)
	}
	return nil
}
