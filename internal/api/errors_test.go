package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/parlo-app/parlo-api/internal/service/auth"
	"github.com/parlo-app/parlo-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "unauthorized", err: store.ErrUnauthorized, expected: http.StatusUnauthorized},
		{name: "invalid_token", err: auth.ErrInvalidToken, expected: http.StatusUnauthorized},
		{name: "expired_token", err: auth.ErrExpiredToken, expected: http.StatusUnauthorized},
		{name: "invalid_credentials", err: auth.ErrInvalidCredentials, expected: http.StatusUnauthorized},
		{name: "not_found", err: store.ErrNotFound, expected: http.StatusNotFound},
		{name: "card_not_found", err: store.ErrCardNotFound, expected: http.StatusNotFound},
		{name: "wrapped_not_found", err: fmt.Errorf("lookup: %w", store.ErrCardNotFound), expected: http.StatusNotFound},
		{name: "email_exists", err: store.ErrEmailExists, expected: http.StatusConflict},
		{name: "invalid_entity", err: store.ErrInvalidEntity, expected: http.StatusBadRequest},
		{name: "unavailable", err: store.ErrUnavailable, expected: http.StatusServiceUnavailable},
		{name: "unknown", err: errors.New("mystery"), expected: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	// Internal detail must never leak into client-facing messages.
	err := fmt.Errorf("%w: pq: connection to postgres://user:hunter2@db failed", store.ErrUnavailable)

	msg := GetSafeErrorMessage(err)

	assert.Equal(t, "Service temporarily unavailable", msg)
	assert.NotContains(t, msg, "hunter2")

	assert.Equal(t, "Card not found", GetSafeErrorMessage(store.ErrCardNotFound))
	assert.Equal(t, "Invalid email or password", GetSafeErrorMessage(auth.ErrInvalidCredentials))
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(errors.New("mystery")))
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
}
