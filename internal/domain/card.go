package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Proficiency level bounds. Every card sits somewhere on this scale;
// level 1 is "just learning", level 5 is "well known".
const (
	MinLevel = 1
	MaxLevel = 5
)

// Card-specific validation errors
var (
	// ErrCardIDEmpty is returned when a card ID is empty or nil.
	ErrCardIDEmpty = errors.New("card ID cannot be empty")

	// ErrCardOwnerIDEmpty is returned when a card's owner ID is empty or nil.
	ErrCardOwnerIDEmpty = errors.New("card owner ID cannot be empty")

	// ErrCardQuestionEmpty is returned when a card's question text is empty.
	ErrCardQuestionEmpty = errors.New("card question cannot be empty")

	// ErrCardAnswerEmpty is returned when a card's answer text is empty.
	ErrCardAnswerEmpty = errors.New("card answer cannot be empty")

	// ErrCardCategoryEmpty is returned when a card's category label is empty.
	ErrCardCategoryEmpty = errors.New("card category cannot be empty")
)

// Card is a single question/answer flashcard belonging to one owner.
// The proficiency level is the only field the review engine mutates;
// everything else is set by deck authoring.
type Card struct {
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

// ClampLevel forces a level into the valid [MinLevel, MaxLevel] range.
func ClampLevel(level int) int {
	if level < MinLevel {
		return MinLevel
	}
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}

// NewCard creates a new Card owned by the given user. It generates a new
// UUID, starts the card at MinLevel, and sets the timestamps.
// Returns an error if validation fails.
func NewCard(ownerID uuid.UUID, question, answer, category, sourceLang, targetLang string) (*Card, error) {
	now := time.Now().UTC()
	card := &Card{
		ID:         uuid.New(),
		OwnerID:    ownerID,
		Question:   question,
		Answer:     answer,
		Category:   category,
		SourceLang: sourceLang,
		TargetLang: targetLang,
		Level:      MinLevel,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
// Returns an error if any field fails validation.
func (c *Card) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCardIDEmpty
	}

	if c.OwnerID == uuid.Nil {
		return ErrCardOwnerIDEmpty
	}

	if strings.TrimSpace(c.Question) == "" {
		return ErrCardQuestionEmpty
	}

	if strings.TrimSpace(c.Answer) == "" {
		return ErrCardAnswerEmpty
	}

	if strings.TrimSpace(c.Category) == "" {
		return ErrCardCategoryEmpty
	}

	if c.Level < MinLevel || c.Level > MaxLevel {
		return ErrInvalidLevel
	}

	return nil
}

// SetLevel replaces the card's proficiency level, clamping it into the
// valid range, and refreshes the UpdatedAt timestamp.
func (c *Card) SetLevel(level int) {
	c.Level = ClampLevel(level)
	c.UpdatedAt = time.Now().UTC()
}

// Clone returns a copy of the card. Sessions hand copies outward so that
// callers can never mutate the working set by reference.
func (c *Card) Clone() *Card {
	dup := *c
	return &dup
}
