package domain

import (
	"errors"
	"math"

	"github.com/google/uuid"
)

// ErrTallyOwnerIDEmpty is returned when a tally's owner ID is empty or nil.
var ErrTallyOwnerIDEmpty = errors.New("answer tally owner ID cannot be empty")

// AnswerTally is the running count of correct and incorrect answers a user
// has given across all reviews. Both counts only ever grow; the tally is
// observational and never feeds back into scheduling.
type AnswerTally struct {
	OwnerID   uuid.UUID `json:"owner_id"`
	Correct   int       `json:"correct"`
	Incorrect int       `json:"incorrect"`
}

// NewAnswerTally creates an empty tally for the given owner.
func NewAnswerTally(ownerID uuid.UUID) *AnswerTally {
	return &AnswerTally{OwnerID: ownerID}
}

// Validate checks if the AnswerTally has valid data.
func (t *AnswerTally) Validate() error {
	if t.OwnerID == uuid.Nil {
		return ErrTallyOwnerIDEmpty
	}

	if t.Correct < 0 || t.Incorrect < 0 {
		return ErrNegativeCount
	}

	return nil
}

// Record adds one answer to the tally.
func (t *AnswerTally) Record(correct bool) {
	if correct {
		t.Correct++
	} else {
		t.Incorrect++
	}
}

// Accuracy returns the percentage of correct answers rounded to two decimal
// places. The second return value is false when no answers have been
// recorded yet: the percentage is undefined then, never 0.00.
func (t *AnswerTally) Accuracy() (float64, bool) {
	return AccuracyPercent(t.Correct, t.Incorrect)
}

// AccuracyPercent computes correct/(correct+incorrect)*100 rounded to two
// decimal places. ok is false when there are no answers at all.
func AccuracyPercent(correct, incorrect int) (pct float64, ok bool) {
	total := correct + incorrect
	if total == 0 {
		return 0, false
	}
	pct = float64(correct) / float64(total) * 100
	return math.Round(pct*100) / 100, true
}
