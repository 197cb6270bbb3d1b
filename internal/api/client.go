// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api implements the HTTP client for the Risk Pro Actief portal API.
//
// The client owns outbound-request authentication: it reads the token store
// at call time - not a cached copy - and attaches the bearer header when a
// token is present. A logout that clears the store therefore stops further
// authenticated calls immediately, with no client state to invalidate.
package api

import (
	"bytes"
	"context"
	"crypto/sha256"
	"crypto/tls"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/jeranaias/riskportal-tui/internal/credstore"
)

// Configuration constants for the portal API.
const (
	// DefaultBaseURL is the portal API base URL for local development.
	DefaultBaseURL = "http://localhost:5002"

	// DefaultTimeout is the default timeout for API requests.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxRetries is the retry budget for idempotent requests.
	DefaultMaxRetries = 3

	// retryBaseDelay is the base delay for exponential backoff.
	retryBaseDelay = 500 * time.Millisecond

	// retryMaxDelay is the maximum delay for exponential backoff.
	retryMaxDelay = 5 * time.Second

	// MaxResponseSize is the maximum allowed response body size.
	// SECURITY: Response size limit prevents memory exhaustion.
	MaxResponseSize = 4 * 1024 * 1024 // 4MB limit

	// defaultRequestsPerSecond throttles outgoing calls so a misbehaving
	// view loop cannot hammer the portal.
	defaultRequestsPerSecond = 10
)

// sharedHTTPClient is used by all portal clients.
// PERFORMANCE: Connection pooling reduces TCP handshake overhead.
// SECURITY: TLS 1.2 minimum when the portal is served over HTTPS.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	},
	Timeout: DefaultTimeout,
}

// Error variables for common portal API failures (spec'd taxonomy).
var (
	// ErrNoCredential indicates no token is stored. This is the normal
	// unauthenticated state, not a failure.
	ErrNoCredential = errors.New("no credential stored")

	// ErrVerificationRejected indicates the portal rejected the stored
	// token (expired or revoked session).
	ErrVerificationRejected = errors.New("credential rejected by portal")

	// ErrTransportFailure indicates the portal was unreachable or returned
	// a malformed response.
	ErrTransportFailure = errors.New("portal unreachable")
)

// APIError represents an error payload from the portal API.
type APIError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("portal error (HTTP %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("portal error (HTTP %d)", e.Status)
}

// errorResponse is the portal's error payload shape. The Flask backend is
// inconsistent about the field name, so both are accepted.
type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (e errorResponse) text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

// =============================================================================
// CLIENT
// =============================================================================

// Client is a client for the Risk Pro Actief portal API.
//
// The token store is consulted on every request; the client never caches the
// credential itself.
type Client struct {
	baseURL    string
	tokens     credstore.TokenStore
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int
}

// NewClient creates a portal client reading credentials from the given store.
func NewClient(baseURL string, tokens credstore.TokenStore) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		tokens:     tokens,
		httpClient: sharedHTTPClient,
		limiter:    rate.NewLimiter(rate.Limit(defaultRequestsPerSecond), defaultRequestsPerSecond),
		maxRetries: DefaultMaxRetries,
	}
}

// WithHTTPClient sets a custom HTTP client (used by tests).
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// WithMaxRetries sets the retry budget for idempotent requests.
func (c *Client) WithMaxRetries(maxRetries int) *Client {
	c.maxRetries = maxRetries
	return c
}

// BaseURL returns the configured portal base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// HasCredential reports whether a token is currently stored.
func (c *Client) HasCredential() bool {
	_, ok := c.tokens.Get()
	return ok
}

// TokenFingerprint returns a short SHA-256 fingerprint of the stored token
// for diagnostics.
// SECURITY: Never expose token fragments - log the fingerprint instead.
func (c *Client) TokenFingerprint() string {
	token, ok := c.tokens.Get()
	if !ok {
		return "none"
	}
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:4])
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

// setHeaders sets the standard headers for a portal request.
//
// The bearer header is derived from the token store at call time. This is
// the request-authentication contract: no token in the store, no header.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "riskportal/"+Version)
	req.Header.Set("X-Request-Id", uuid.NewString())

	if token, ok := c.tokens.Get(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// Version is the client version reported in the User-Agent header.
// Overridden at build time by main.
var Version = "0.1.0"

// logRequest logs an API request without exposing sensitive data.
// SECURITY: Never log headers (bearer token) or bodies (passwords).
func (c *Client) logRequest(req *http.Request) {
	log.Printf("API Request: %s %s", req.Method, req.URL.Path)
}

// logResponse logs an API response with duration.
func (c *Client) logResponse(resp *http.Response, duration time.Duration) {
	log.Printf("API Response: %d %s (%v)", resp.StatusCode, resp.Status, duration)
}

// calculateBackoff returns the delay before the given retry attempt.
func (c *Client) calculateBackoff(attempt int) time.Duration {
	delay := retryBaseDelay * time.Duration(1<<uint(attempt-1))
	if delay > retryMaxDelay {
		delay = retryMaxDelay
	}
	return delay
}

// isRetryable reports whether the request should be retried: transport
// errors and 5xx responses only. 4xx responses are final.
func isRetryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status >= 500
	}
	// Transport-level failures (connection refused, DNS, timeouts).
	return err != nil
}

// readResponse reads the response body with a size limit.
// SECURITY: Response size limit prevents memory exhaustion.
func readResponse(resp *http.Response) ([]byte, error) {
	limitedReader := io.LimitReader(resp.Body, MaxResponseSize)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}

// do performs a single request and decodes a 2xx JSON response into out.
// Non-2xx responses are returned as *APIError with the portal's message.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)
	c.logRequest(req)

	start := time.Now()
	resp, err := c.httpClient.Do(req)

	// SECURITY: Drop the bearer header from the request object after
	// dispatch so later error paths cannot log it.
	req.Header.Del("Authorization")

	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransportFailure, err)
	}
	defer resp.Body.Close()
	c.logResponse(resp, time.Since(start))

	data, err := readResponse(resp)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransportFailure, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp errorResponse
		_ = json.Unmarshal(data, &errResp)
		return &APIError{Status: resp.StatusCode, Message: errResp.text()}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("%w: malformed response: %v", ErrTransportFailure, err)
		}
	}
	return nil
}

// get performs a GET with retry and exponential backoff for transient
// failures. Only GETs are retried: everything mutating goes through do
// exactly once.
func (c *Client) get(ctx context.Context, path string, out any) error {
	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.calculateBackoff(attempt)):
			}
		}

		err := c.do(ctx, http.MethodGet, path, nil, out)
		if err == nil {
			return nil
		}
		if !isRetryable(err) {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("max retries exceeded: %w", lastErr)
}
