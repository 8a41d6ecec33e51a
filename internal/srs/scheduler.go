package srs

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/parlo-app/parlo-api/internal/domain"
)

// NextLevel computes a card's proficiency level after an answer: one step up
// on a correct answer, one step down on an incorrect one, clamped to the
// [domain.MinLevel, domain.MaxLevel] scale. Levels never graduate out of the
// rotation; a card at the ceiling stays there until it is missed again.
// Total over its domain, no error conditions.
func NextLevel(current int, correct bool) int {
	current = domain.ClampLevel(current)
	if correct {
		return domain.ClampLevel(current + 1)
	}
	return domain.ClampLevel(current - 1)
}

// OrderForReview returns the cards ordered ascending by proficiency level so
// that the weakest cards come up first. Ties keep their original order. The
// input slice is not modified. Callers must re-derive the order from the
// latest known levels on every selection; it is never cached, because levels
// change between selections.
func OrderForReview(cards []*domain.Card) []*domain.Card {
	ordered := make([]*domain.Card, len(cards))
	copy(ordered, cards)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Level < ordered[j].Level
	})
	return ordered
}

// SelectNext picks the card to present after a correct answer: the one
// following the current card in the freshly computed review order, wrapping
// to the first card after the last. The order reflects the latest
// acknowledged levels, including the write for the answer just given, so the
// current card's position is located by identity rather than by a cached
// index. When the current card is no longer in the set, selection restarts
// at the weakest card. Returns nil for an empty set.
//
// An incorrect answer never reaches this function: the session re-presents
// the same card until it is answered correctly, so a weak card is not
// abandoned before reinforcement.
func SelectNext(cards []*domain.Card, currentID uuid.UUID) *domain.Card {
	if len(cards) == 0 {
		return nil
	}

	ordered := OrderForReview(cards)
	at := -1
	for i, c := range ordered {
		if c.ID == currentID {
			at = i
			break
		}
	}
	return ordered[(at+1)%len(ordered)]
}

// IsCorrect reports whether a guess matches the expected answer. Matching is
// the canonical rule for the whole system: case-insensitive, ignoring leading
// and trailing whitespace, otherwise exact equality. No partial credit and no
// locale-aware normalization beyond simple case folding, so results are
// deterministic across platforms.
func IsCorrect(guess, answer string) bool {
	return strings.EqualFold(strings.TrimSpace(guess), strings.TrimSpace(answer))
}

// LevelHistogram counts cards at each proficiency level. The returned map
// has an entry for every level in [domain.MinLevel, domain.MaxLevel], even
// when the count is zero.
func LevelHistogram(cards []*domain.Card) map[int]int {
	hist := make(map[int]int, domain.MaxLevel-domain.MinLevel+1)
	for lvl := domain.MinLevel; lvl <= domain.MaxLevel; lvl++ {
		hist[lvl] = 0
	}
	for _, c := range cards {
		hist[domain.ClampLevel(c.Level)]++
	}
	return hist
}
