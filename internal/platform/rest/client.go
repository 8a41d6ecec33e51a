// Package rest implements the client side of the card service's HTTP
// contract. Client satisfies the store.ProficiencyStore and
// store.AnswerStatsStore interfaces, translating HTTP status codes and
// transport failures into the store error taxonomy so review sessions never
// see HTTP details.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/parlo-app/parlo-api/internal/domain"
	"github.com/parlo-app/parlo-api/internal/store"
)

// DefaultTimeout bounds every request so a stalled server surfaces as
// store.ErrUnavailable instead of hanging a review.
const DefaultTimeout = 5 * time.Second

// TokenSource supplies the bearer token attached to each request.
// Implementations may refresh tokens; Client calls it per request.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource returning a fixed token, typically the one
// issued at login.
type StaticToken string

// Token implements TokenSource.
func (t StaticToken) Token(ctx context.Context) (string, error) {
	return string(t), nil
}

// Client is an HTTP client for the card service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	logger     *slog.Logger
}

// Ensure Client satisfies the review engine's store contracts.
var (
	_ store.ProficiencyStore = (*Client)(nil)
	_ store.AnswerStatsStore = (*Client)(nil)
)

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client entirely.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a Client for the service at baseURL. If log is nil, a
// default logger is used.
func NewClient(baseURL string, tokens TokenSource, log *slog.Logger, opts ...Option) *Client {
	if log == nil {
		log = slog.Default()
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		tokens:     tokens,
		logger:     log.With(slog.String("component", "rest_client")),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Wire types mirroring the server's JSON contract.

type cardPayload struct {
	ID         uuid.UUID `json:"id"`
	OwnerID    uuid.UUID `json:"owner_id"`
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	Category   string    `json:"category"`
	SourceLang string    `json:"source_lang"`
	TargetLang string    `json:"target_lang"`
	Level      int       `json:"level"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type cardListPayload struct {
	Cards []cardPayload `json:"cards"`
}

type cardEnvelopePayload struct {
	Card cardPayload `json:"card"`
}

type tallyPayload struct {
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
}

type errorPayload struct {
	Error string `json:"error"`
}

func (p cardPayload) toDomain() *domain.Card {
	return &domain.Card{
		ID:         p.ID,
		OwnerID:    p.OwnerID,
		Question:   p.Question,
		Answer:     p.Answer,
		Category:   p.Category,
		SourceLang: p.SourceLang,
		TargetLang: p.TargetLang,
		Level:      p.Level,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

// FetchAll implements store.ProficiencyStore.FetchAll.
func (c *Client) FetchAll(ctx context.Context, ownerID uuid.UUID) ([]*domain.Card, error) {
	endpoint := c.baseURL + "/api/cards"
	if ownerID != uuid.Nil {
		endpoint += "?owner=" + url.QueryEscape(ownerID.String())
	}

	var payload cardListPayload
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &payload); err != nil {
		return nil, err
	}

	cards := make([]*domain.Card, 0, len(payload.Cards))
	for _, p := range payload.Cards {
		cards = append(cards, p.toDomain())
	}
	return cards, nil
}

// UpdateLevel implements store.ProficiencyStore.UpdateLevel. The returned
// card is the server's stored row, which callers adopt as authoritative.
func (c *Client) UpdateLevel(ctx context.Context, cardID uuid.UUID, level int) (*domain.Card, error) {
	endpoint := fmt.Sprintf("%s/api/cards/%s/level", c.baseURL, cardID)

	body := struct {
		Level int `json:"level"`
	}{Level: level}

	var payload cardEnvelopePayload
	if err := c.do(ctx, http.MethodPatch, endpoint, body, &payload); err != nil {
		return nil, err
	}
	return payload.Card.toDomain(), nil
}

// RecordAnswer implements store.AnswerStatsStore.RecordAnswer.
func (c *Client) RecordAnswer(ctx context.Context, ownerID uuid.UUID, correct bool) error {
	endpoint := c.baseURL + "/api/answers"

	body := struct {
		Correct *bool `json:"correct"`
	}{Correct: &correct}

	return c.do(ctx, http.MethodPost, endpoint, body, nil)
}

// Tally implements store.AnswerStatsStore.Tally.
func (c *Client) Tally(ctx context.Context, ownerID uuid.UUID) (*domain.AnswerTally, error) {
	endpoint := c.baseURL + "/api/answers"

	var payload tallyPayload
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &payload); err != nil {
		return nil, err
	}

	return &domain.AnswerTally{
		OwnerID:   ownerID,
		Correct:   payload.Correct,
		Incorrect: payload.Incorrect,
	}, nil
}

// do performs one authenticated request and decodes the response into out
// (when out is non-nil). All failure modes collapse into the store error
// taxonomy.
func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("%w: no credential available: %v", store.ErrUnauthorized, err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Timeouts, refused connections, DNS failures.
		c.logger.Debug("request failed",
			slog.String("method", method),
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: malformed response body: %v", store.ErrUnavailable, err)
		}
		return nil
	}

	return c.mapStatus(resp)
}

// mapStatus converts a non-2xx response into a store error.
func (c *Client) mapStatus(resp *http.Response) error {
	var payload errorPayload
	_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&payload)
	detail := payload.Error
	if detail == "" {
		detail = resp.Status
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %s", store.ErrUnauthorized, detail)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", store.ErrCardNotFound, detail)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: %s", store.ErrUnavailable, detail)
	default:
		return fmt.Errorf("%w: unexpected status %d: %s", store.ErrUnavailable, resp.StatusCode, detail)
	}
}
