package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswerTallyRecord(t *testing.T) {
	t.Parallel()

	tally := NewAnswerTally(uuid.New())

	tally.Record(true)
	tally.Record(true)
	tally.Record(false)

	assert.Equal(t, 2, tally.Correct)
	assert.Equal(t, 1, tally.Incorrect)
}

func TestAccuracyPercent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		correct   int
		incorrect int
		expected  float64
		ok        bool
	}{
		{name: "no_answers_undefined", correct: 0, incorrect: 0, expected: 0, ok: false},
		{name: "all_correct", correct: 5, incorrect: 0, expected: 100, ok: true},
		{name: "all_incorrect", correct: 0, incorrect: 4, expected: 0, ok: true},
		{name: "four_of_five", correct: 4, incorrect: 1, expected: 80, ok: true},
		{name: "one_of_three_rounded", correct: 1, incorrect: 2, expected: 33.33, ok: true},
		{name: "two_of_three_rounded", correct: 2, incorrect: 1, expected: 66.67, ok: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pct, ok := AccuracyPercent(tt.correct, tt.incorrect)

			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.expected, pct, 0.0001)
		})
	}
}

func TestAnswerTallyValidate(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()

		tally := NewAnswerTally(uuid.New())
		require.NoError(t, tally.Validate())
	})

	t.Run("nil_owner_rejected", func(t *testing.T) {
		t.Parallel()

		tally := &AnswerTally{}
		assert.ErrorIs(t, tally.Validate(), ErrTallyOwnerIDEmpty)
	})

	t.Run("negative_count_rejected", func(t *testing.T) {
		t.Parallel()

		tally := &AnswerTally{OwnerID: uuid.New(), Correct: -1}
		assert.ErrorIs(t, tally.Validate(), ErrNegativeCount)
	})
}
