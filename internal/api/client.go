// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api implements the client for the knowledge-assistant backend.
//
// This is the only component in knowdesk that performs network I/O.
// Every outgoing request consults the credential store synchronously
// before dispatch and attaches the bearer token when one exists; no
// other component constructs HTTP requests.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/morganforge/knowdesk-tui/internal/credstore"
)

// Configuration constants for the backend API.
const (
	// DefaultTimeout is the default timeout for API requests.
	DefaultTimeout = 60 * time.Second

	// MaxResponseSize is the maximum allowed response body size.
	// Response size limit prevents memory exhaustion on a misbehaving
	// server.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB
)

// userAgent identifies the client to the backend.
const userAgent = "knowdesk/1.0"

// =============================================================================
// ERRORS
// =============================================================================

// AuthError is returned when the backend rejects a login or
// registration attempt. Detail carries the server-supplied message,
// suitable for showing to the user as-is.
type AuthError struct {
	Detail string
	Status int
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	return fmt.Sprintf("auth failed (HTTP %d): %s", e.Status, e.Detail)
}

// ChatError is returned for any non-success outcome of a chat query:
// server errors, expired or invalid tokens, and transport failures.
// Status is 0 when the request never reached the server.
type ChatError struct {
	Detail string
	Status int
}

// Error implements the error interface.
func (e *ChatError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("chat request failed: %s", e.Detail)
	}
	return fmt.Sprintf("chat request failed (HTTP %d): %s", e.Status, e.Detail)
}

// genericErrorDetail is shown when a failure response carries no
// usable detail message.
const genericErrorDetail = "request failed, please try again"

// =============================================================================
// WIRE TYPES
// =============================================================================

// authRequest is the body for login and register.
type authRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authResponse is the success body for login and register.
type authResponse struct {
	AccessToken string         `json:"access_token"`
	User        credstore.User `json:"user"`
}

// chatRequest is the body for a chat query.
type chatRequest struct {
	Query          string `json:"query"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// ChatResponse is the structured answer from the assistant.
type ChatResponse struct {
	Answer    string   `json:"answer"`
	Sources   []string `json:"sources"`
	ToolsUsed []string `json:"tools_used"`

	// Optional metadata some backend versions report.
	ModelUsed        string  `json:"model_used,omitempty"`
	ProcessingTimeMs float64 `json:"processing_time_ms,omitempty"`
}

// detailResponse is the failure body shape for all endpoints.
type detailResponse struct {
	Detail string `json:"detail"`
}

// =============================================================================
// CLIENT
// =============================================================================

// CredentialSource supplies the current credential at dispatch time.
// *credstore.Store satisfies it; tests substitute a fake.
type CredentialSource interface {
	Get() (credstore.Credential, bool)
}

// Client communicates with the knowledge-assistant backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	creds      CredentialSource
}

// NewClient creates a client for the given base URL, reading the bearer
// token from creds before every request.
func NewClient(baseURL string, creds CredentialSource) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		creds:      creds,
	}
}

// WithTimeout sets the per-request timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.httpClient.Timeout = timeout
	return c
}

// BaseURL returns the configured backend root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// setHeaders sets the fixed headers and, when a credential exists,
// the bearer authorization. An anonymous request simply goes out
// without the header; the server decides whether that is acceptable.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	if c.creds != nil {
		if cred, ok := c.creds.Get(); ok {
			req.Header.Set("Authorization", "Bearer "+cred.Token)
		}
	}
}

// logRequest logs an API request without exposing sensitive data:
// no headers (may contain auth), no body (may contain passwords).
func logRequest(req *http.Request) {
	log.Printf("API request: %s %s", req.Method, req.URL.Path)
}

// logResponse logs status and duration only, never the body.
func logResponse(resp *http.Response, duration time.Duration) {
	log.Printf("API response: %d (%v)", resp.StatusCode, duration)
}

// readResponse reads the response body with a size limit.
func readResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}

// extractDetail pulls the {detail} message out of a failure body,
// falling back to a generic message when the body is not the expected
// shape.
func extractDetail(body []byte) string {
	var dr detailResponse
	if err := json.Unmarshal(body, &dr); err == nil && strings.TrimSpace(dr.Detail) != "" {
		return dr.Detail
	}
	return genericErrorDetail
}

// post performs a single JSON POST and returns the raw body on 2xx.
// Non-2xx outcomes are returned via toErr so each operation maps them
// to its own error type.
func (c *Client) post(ctx context.Context, path string, reqBody any, toErr func(status int, detail string) error) ([]byte, error) {
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	logRequest(req)
	start := time.Now()
	resp, err := c.httpClient.Do(req)

	// Drop the authorization header reference immediately so it can
	// never leak through later logging of the request value.
	req.Header.Del("Authorization")

	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	logResponse(resp, time.Since(start))

	body, err := readResponse(resp)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, toErr(resp.StatusCode, extractDetail(body))
	}
	return body, nil
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Login authenticates with email and password. On success the returned
// credential is ready to hand to the credential store. Rejected
// credentials come back as *AuthError with the server's message.
func (c *Client) Login(ctx context.Context, email, password string) (credstore.Credential, error) {
	return c.authenticate(ctx, "/auth/login", email, password)
}

// Register creates a new account. Failures such as a duplicate email
// come back as *AuthError, analogous to Login.
func (c *Client) Register(ctx context.Context, email, password string) (credstore.Credential, error) {
	return c.authenticate(ctx, "/auth/register", email, password)
}

func (c *Client) authenticate(ctx context.Context, path, email, password string) (credstore.Credential, error) {
	body, err := c.post(ctx, path, authRequest{Email: email, Password: password},
		func(status int, detail string) error {
			return &AuthError{Detail: detail, Status: status}
		})
	if err != nil {
		if authErr, ok := err.(*AuthError); ok {
			return credstore.Credential{}, authErr
		}
		// Transport failures become an AuthError too: the auth flow
		// has exactly one error surface.
		return credstore.Credential{}, &AuthError{Detail: err.Error()}
	}

	var ar authResponse
	if err := json.Unmarshal(body, &ar); err != nil {
		return credstore.Credential{}, &AuthError{Detail: genericErrorDetail}
	}
	if strings.TrimSpace(ar.AccessToken) == "" {
		return credstore.Credential{}, &AuthError{Detail: genericErrorDetail}
	}

	return credstore.Credential{Token: ar.AccessToken, User: ar.User}, nil
}

// SendChatQuery submits a query to the assistant and returns the
// structured response. Any non-success outcome, including auth expiry
// and transport failure, is a *ChatError; nothing is retried.
func (c *Client) SendChatQuery(ctx context.Context, query, conversationID string) (*ChatResponse, error) {
	if strings.TrimSpace(query) == "" {
		return nil, &ChatError{Detail: "query must not be empty"}
	}

	body, err := c.post(ctx, "/chat", chatRequest{Query: query, ConversationID: conversationID},
		func(status int, detail string) error {
			return &ChatError{Detail: detail, Status: status}
		})
	if err != nil {
		if chatErr, ok := err.(*ChatError); ok {
			return nil, chatErr
		}
		return nil, &ChatError{Detail: err.Error()}
	}

	var cr ChatResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return nil, &ChatError{Detail: "malformed response from server"}
	}
	return &cr, nil
}
