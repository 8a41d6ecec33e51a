package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected slog.Level
		wantErr  bool
	}{
		{input: "debug", expected: slog.LevelDebug},
		{input: "info", expected: slog.LevelInfo},
		{input: "warn", expected: slog.LevelWarn},
		{input: "error", expected: slog.LevelError},
		{input: "WARN", expected: slog.LevelWarn},
		{input: "", expected: slog.LevelInfo},
		{input: "verbose", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run("level_"+tt.input, func(t *testing.T) {
			t.Parallel()

			level, err := parseLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, level)
		})
	}
}

func TestSetupRejectsBadLevel(t *testing.T) {
	_, err := Setup(Config{Level: "loud"})
	assert.Error(t, err)
}

func TestContextRoundTrip(t *testing.T) {
	t.Parallel()

	base := slog.Default().With(slog.String("trace_id", "abc"))
	ctx := WithLogger(context.Background(), base)

	assert.Equal(t, base, FromContext(ctx))
	assert.Equal(t, base, FromContextOrDefault(ctx, slog.Default()))
}

func TestFromContextFallsBack(t *testing.T) {
	t.Parallel()

	fallback := slog.Default().With(slog.String("component", "test"))

	assert.Equal(t, fallback, FromContextOrDefault(context.Background(), fallback))
	assert.NotNil(t, FromContext(context.Background()))
}
