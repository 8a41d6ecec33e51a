package srs

import (
	"testing"

	"github.com/google/uuid"
	"github.com/parlo-app/parlo-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		current  int
		correct  bool
		expected int
	}{
		{name: "correct_moves_up", current: 2, correct: true, expected: 3},
		{name: "incorrect_moves_down", current: 3, correct: false, expected: 2},
		{name: "correct_at_ceiling_stays", current: 5, correct: true, expected: 5},
		{name: "incorrect_at_floor_stays", current: 1, correct: false, expected: 1},
		{name: "correct_from_floor", current: 1, correct: true, expected: 2},
		{name: "incorrect_from_ceiling", current: 5, correct: false, expected: 4},
		{name: "out_of_range_low_clamped_first", current: 0, correct: false, expected: 1},
		{name: "out_of_range_high_clamped_first", current: 9, correct: true, expected: 5},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, NextLevel(tt.current, tt.correct))
		})
	}
}

func TestIsCorrect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		guess    string
		answer   string
		expected bool
	}{
		{name: "exact_match", guess: "Hola", answer: "Hola", expected: true},
		{name: "case_insensitive", guess: "hola", answer: "Hola", expected: true},
		{name: "surrounding_whitespace_ignored", guess: "  Hola  ", answer: "Hola", expected: true},
		{name: "wrong_answer", guess: "Adios", answer: "Hola", expected: false},
		{name: "interior_whitespace_significant", guess: "Ho la", answer: "Hola", expected: false},
		{name: "empty_guess", guess: "", answer: "Hola", expected: false},
		{name: "both_empty", guess: "", answer: "", expected: true},
		{name: "whitespace_only_guess_vs_empty", guess: "   ", answer: "", expected: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, IsCorrect(tt.guess, tt.answer))
		})
	}
}

func cardAtLevel(level int) *domain.Card {
	return &domain.Card{
		ID:       uuid.New(),
		OwnerID:  uuid.New(),
		Question: "q",
		Answer:   "a",
		Category: "greetings",
		Level:    level,
	}
}

func TestOrderForReview(t *testing.T) {
	t.Parallel()

	t.Run("weakest_first", func(t *testing.T) {
		t.Parallel()

		c1 := cardAtLevel(4)
		c2 := cardAtLevel(1)
		c3 := cardAtLevel(3)

		ordered := OrderForReview([]*domain.Card{c1, c2, c3})

		require.Len(t, ordered, 3)
		assert.Equal(t, c2.ID, ordered[0].ID)
		assert.Equal(t, c3.ID, ordered[1].ID)
		assert.Equal(t, c1.ID, ordered[2].ID)
	})

	t.Run("ties_keep_input_order", func(t *testing.T) {
		t.Parallel()

		c1 := cardAtLevel(2)
		c2 := cardAtLevel(2)
		c3 := cardAtLevel(2)

		ordered := OrderForReview([]*domain.Card{c1, c2, c3})

		require.Len(t, ordered, 3)
		assert.Equal(t, c1.ID, ordered[0].ID)
		assert.Equal(t, c2.ID, ordered[1].ID)
		assert.Equal(t, c3.ID, ordered[2].ID)
	})

	t.Run("input_not_modified", func(t *testing.T) {
		t.Parallel()

		c1 := cardAtLevel(5)
		c2 := cardAtLevel(1)
		input := []*domain.Card{c1, c2}

		_ = OrderForReview(input)

		assert.Equal(t, c1.ID, input[0].ID)
		assert.Equal(t, c2.ID, input[1].ID)
	})

	t.Run("empty_input", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, OrderForReview(nil))
	})
}

func TestSelectNext(t *testing.T) {
	t.Parallel()

	t.Run("advances_past_current_in_fresh_order", func(t *testing.T) {
		t.Parallel()

		// Current card was just promoted to level 2, so it sorts after the
		// still-weak card. The next selection must be the other card, not
		// the one just answered.
		answered := cardAtLevel(2)
		weak := cardAtLevel(1)

		next := SelectNext([]*domain.Card{answered, weak}, answered.ID)

		require.NotNil(t, next)
		assert.Equal(t, weak.ID, next.ID)
	})

	t.Run("wraps_past_the_end", func(t *testing.T) {
		t.Parallel()

		first := cardAtLevel(1)
		last := cardAtLevel(5)

		next := SelectNext([]*domain.Card{first, last}, last.ID)

		require.NotNil(t, next)
		assert.Equal(t, first.ID, next.ID)
	})

	t.Run("single_card_selects_itself", func(t *testing.T) {
		t.Parallel()

		only := cardAtLevel(3)

		next := SelectNext([]*domain.Card{only}, only.ID)

		require.NotNil(t, next)
		assert.Equal(t, only.ID, next.ID)
	})

	t.Run("unknown_current_restarts_at_weakest", func(t *testing.T) {
		t.Parallel()

		weak := cardAtLevel(1)
		strong := cardAtLevel(4)

		next := SelectNext([]*domain.Card{strong, weak}, uuid.New())

		require.NotNil(t, next)
		assert.Equal(t, weak.ID, next.ID)
	})

	t.Run("empty_set_returns_nil", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, SelectNext(nil, uuid.New()))
	})
}

func TestLevelHistogram(t *testing.T) {
	t.Parallel()

	t.Run("all_levels_present", func(t *testing.T) {
		t.Parallel()

		hist := LevelHistogram(nil)

		require.Len(t, hist, 5)
		for lvl := domain.MinLevel; lvl <= domain.MaxLevel; lvl++ {
			assert.Zero(t, hist[lvl])
		}
	})

	t.Run("counts_by_level", func(t *testing.T) {
		t.Parallel()

		cards := []*domain.Card{
			cardAtLevel(1),
			cardAtLevel(1),
			cardAtLevel(3),
			cardAtLevel(5),
		}

		hist := LevelHistogram(cards)

		assert.Equal(t, 2, hist[1])
		assert.Equal(t, 0, hist[2])
		assert.Equal(t, 1, hist[3])
		assert.Equal(t, 0, hist[4])
		assert.Equal(t, 1, hist[5])
	})
}
