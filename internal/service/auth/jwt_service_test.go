package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/parlo-app/parlo-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef" // 32 chars

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:            testSecret,
		TokenLifetimeMinutes: 60,
	}
}

func TestNewJWTService(t *testing.T) {
	t.Parallel()

	t.Run("valid_config", func(t *testing.T) {
		t.Parallel()

		svc, err := NewJWTService(testAuthConfig())

		require.NoError(t, err)
		require.NotNil(t, svc)
	})

	t.Run("short_secret_rejected", func(t *testing.T) {
		t.Parallel()

		cfg := testAuthConfig()
		cfg.JWTSecret = "too-short"

		_, err := NewJWTService(cfg)

		assert.Error(t, err)
	})
}

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()

	svc, err := NewJWTService(testAuthConfig())
	require.NoError(t, err)

	userID := uuid.New()
	token, err := svc.GenerateToken(context.Background(), userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
}

func TestValidateTokenFailures(t *testing.T) {
	t.Parallel()

	t.Run("empty_token", func(t *testing.T) {
		t.Parallel()

		svc, err := NewJWTService(testAuthConfig())
		require.NoError(t, err)

		_, err = svc.ValidateToken(context.Background(), "")

		assert.ErrorIs(t, err, ErrMissingToken)
	})

	t.Run("garbage_token", func(t *testing.T) {
		t.Parallel()

		svc, err := NewJWTService(testAuthConfig())
		require.NoError(t, err)

		_, err = svc.ValidateToken(context.Background(), "not.a.jwt")

		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong_signing_key", func(t *testing.T) {
		t.Parallel()

		issuer, err := NewJWTService(testAuthConfig())
		require.NoError(t, err)

		otherCfg := testAuthConfig()
		otherCfg.JWTSecret = "fedcba9876543210fedcba9876543210"
		verifier, err := NewJWTService(otherCfg)
		require.NoError(t, err)

		token, err := issuer.GenerateToken(context.Background(), uuid.New())
		require.NoError(t, err)

		_, err = verifier.ValidateToken(context.Background(), token)

		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired_token", func(t *testing.T) {
		t.Parallel()

		svc := &hmacJWTService{
			signingKey:    []byte(testSecret),
			tokenLifetime: time.Hour,
			timeFunc:      time.Now,
			clockSkew:     2 * time.Minute,
		}

		// Issue a token from far enough in the past that the lifetime plus
		// the clock skew allowance is exhausted.
		issued := time.Now().Add(-2 * time.Hour)
		svc.timeFunc = func() time.Time { return issued }
		token, err := svc.GenerateToken(context.Background(), uuid.New())
		require.NoError(t, err)

		svc.timeFunc = time.Now
		_, err = svc.ValidateToken(context.Background(), token)

		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("within_clock_skew_accepted", func(t *testing.T) {
		t.Parallel()

		svc := &hmacJWTService{
			signingKey:    []byte(testSecret),
			tokenLifetime: time.Hour,
			timeFunc:      time.Now,
			clockSkew:     2 * time.Minute,
		}

		// Expired one minute ago, inside the two-minute leeway.
		issued := time.Now().Add(-61 * time.Minute)
		svc.timeFunc = func() time.Time { return issued }
		token, err := svc.GenerateToken(context.Background(), uuid.New())
		require.NoError(t, err)

		svc.timeFunc = time.Now
		_, err = svc.ValidateToken(context.Background(), token)

		assert.NoError(t, err)
	})
}

func TestBcryptVerifier(t *testing.T) {
	t.Parallel()

	verifier := NewBcryptVerifier(4) // minimum cost for fast tests

	hash, err := verifier.Hash("correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.NoError(t, verifier.Compare(hash, "correct horse battery staple"))
	assert.Error(t, verifier.Compare(hash, "wrong password"))
}

func TestBcryptVerifierCostFallback(t *testing.T) {
	t.Parallel()

	// Out-of-range costs fall back to the library default rather than
	// failing at hash time.
	verifier := NewBcryptVerifier(99)

	hash, err := verifier.Hash("some password")
	require.NoError(t, err)
	assert.NoError(t, verifier.Compare(hash, "some password"))
}
