package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/parlo-app/parlo-api/internal/config"
	"github.com/parlo-app/parlo-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService(t *testing.T) auth.JWTService {
	t.Helper()
	svc, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:            "0123456789abcdef0123456789abcdef",
		TokenLifetimeMinutes: 60,
	})
	require.NoError(t, err)
	return svc
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	jwtService := newTestJWTService(t)
	middleware := NewAuthMiddleware(jwtService)

	t.Run("valid_token_passes_user_id", func(t *testing.T) {
		t.Parallel()

		userID := uuid.New()
		token, err := jwtService.GenerateToken(context.Background(), userID)
		require.NoError(t, err)

		var seenID uuid.UUID
		var seenOK bool
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seenID, seenOK = GetUserID(r)
			w.WriteHeader(http.StatusOK)
		})

		r := httptest.NewRequest(http.MethodGet, "/api/cards", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		middleware.Authenticate(next).ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		require.True(t, seenOK)
		assert.Equal(t, userID, seenID)
	})

	t.Run("missing_header", func(t *testing.T) {
		t.Parallel()

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run without a credential")
		})

		r := httptest.NewRequest(http.MethodGet, "/api/cards", nil)
		w := httptest.NewRecorder()
		middleware.Authenticate(next).ServeHTTP(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed_header", func(t *testing.T) {
		t.Parallel()

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run without a credential")
		})

		for _, header := range []string{"Basic abc", "Bearer", "token-without-scheme"} {
			r := httptest.NewRequest(http.MethodGet, "/api/cards", nil)
			r.Header.Set("Authorization", header)
			w := httptest.NewRecorder()
			middleware.Authenticate(next).ServeHTTP(w, r)

			assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
		}
	})

	t.Run("invalid_token", func(t *testing.T) {
		t.Parallel()

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run with a bad token")
		})

		r := httptest.NewRequest(http.MethodGet, "/api/cards", nil)
		r.Header.Set("Authorization", "Bearer not.a.valid.jwt")
		w := httptest.NewRecorder()
		middleware.Authenticate(next).ServeHTTP(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
