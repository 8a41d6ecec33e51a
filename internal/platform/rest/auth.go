package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/parlo-app/parlo-api/internal/store"
)

// Credential is an issued bearer token plus the identity it names.
type Credential struct {
	Token  string
	UserID uuid.UUID
}

// Login exchanges an email/password pair for a bearer token. It uses its own
// short-lived HTTP client so it can run before a Client exists.
func Login(ctx context.Context, baseURL, email, password string, timeout time.Duration) (*Credential, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	body, err := json.Marshal(struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("failed to encode login request: %w", err)
	}

	endpoint := strings.TrimRight(baseURL, "/") + "/api/auth/login"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	hc := &http.Client{Timeout: timeout}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		var payload errorPayload
		_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&payload)
		detail := payload.Error
		if detail == "" {
			detail = resp.Status
		}
		if resp.StatusCode == http.StatusUnauthorized {
			return nil, fmt.Errorf("%w: %s", store.ErrUnauthorized, detail)
		}
		if resp.StatusCode >= 500 {
			return nil, fmt.Errorf("%w: %s", store.ErrUnavailable, detail)
		}
		return nil, fmt.Errorf("login failed with status %d: %s", resp.StatusCode, detail)
	}

	var payload struct {
		Token  string `json:"token"`
		UserID string `json:"user_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: malformed login response: %v", store.ErrUnavailable, err)
	}

	userID, err := uuid.Parse(payload.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed user id in login response: %v", store.ErrUnavailable, err)
	}

	return &Credential{Token: payload.Token, UserID: userID}, nil
}
