package api

import (
	"time"

	"github.com/parlo-app/parlo-api/internal/domain"
)

// CardResponse represents the response data for a card.
type CardResponse struct {
	ID         string    `json:"id"`
	OwnerID    string    `json:"owner_id"`
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	Category   string    `json:"category"`
	SourceLang string    `json:"source_lang"`
	TargetLang string    `json:"target_lang"`
	Level      int       `json:"level"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CardListResponse wraps a card collection.
type CardListResponse struct {
	Cards []CardResponse `json:"cards"`
}

// CardEnvelope wraps a single card, the authoritative post-write state.
type CardEnvelope struct {
	Card CardResponse `json:"card"`
}

// TallyResponse represents the response data for an answer tally.
// Accuracy is null until the first answer is recorded.
type TallyResponse struct {
	Correct   int      `json:"correct"`
	Incorrect int      `json:"incorrect"`
	Accuracy  *float64 `json:"accuracy"`
}

func cardToResponse(card *domain.Card) CardResponse {
	return CardResponse{
		ID:         card.ID.String(),
		OwnerID:    card.OwnerID.String(),
		Question:   card.Question,
		Answer:     card.Answer,
		Category:   card.Category,
		SourceLang: card.SourceLang,
		TargetLang: card.TargetLang,
		Level:      card.Level,
		CreatedAt:  card.CreatedAt,
		UpdatedAt:  card.UpdatedAt,
	}
}

func tallyToResponse(t *domain.AnswerTally) TallyResponse {
	resp := TallyResponse{
		Correct:   t.Correct,
		Incorrect: t.Incorrect,
	}
	if pct, ok := t.Accuracy(); ok {
		resp.Accuracy = &pct
	}
	return resp
}
