package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/parlo-app/parlo-api/internal/domain"
)

// ProficiencyStore is the durable record of each card's mastery level, as
// seen by a review session. The owner is implied by the session's credential;
// implementations forward that credential with every call.
//
// This is the narrow client-facing contract. The server-side CardStore below
// extends it for deck management.
type ProficiencyStore interface {
	// FetchAll retrieves every card belonging to the owner, in stable
	// creation order.
	// Returns ErrUnauthorized if the credential is absent or invalid.
	// Returns ErrUnavailable on transport or storage failure.
	FetchAll(ctx context.Context, ownerID uuid.UUID) ([]*domain.Card, error)

	// UpdateLevel durably replaces a card's proficiency level and returns
	// the authoritative post-write card. Writing the same level twice yields
	// the same stored result. Callers must adopt the returned card rather
	// than assume the locally computed value landed.
	// Returns ErrCardNotFound if the id does not belong to an existing card.
	// Returns ErrUnavailable on transport or storage failure.
	UpdateLevel(ctx context.Context, cardID uuid.UUID, level int) (*domain.Card, error)
}

// AnswerStatsStore keeps the running correct/incorrect tally per user.
// Stats are observational: a lost write is tolerated (at-most-one-lost-
// sample) and callers never retry automatically within a submission.
type AnswerStatsStore interface {
	// RecordAnswer increments exactly one of the two counters. A returned
	// error means "not recorded" and nothing more.
	RecordAnswer(ctx context.Context, ownerID uuid.UUID, correct bool) error

	// Tally retrieves the owner's current tally. Owners with no recorded
	// answers get an empty tally, not an error.
	Tally(ctx context.Context, ownerID uuid.UUID) (*domain.AnswerTally, error)
}

// CardStore is the server-of-record persistence contract for cards. It
// scopes every operation by owner so one user can never touch another's
// deck.
type CardStore interface {
	// FetchAll retrieves all cards for an owner in stable creation order.
	FetchAll(ctx context.Context, ownerID uuid.UUID) ([]*domain.Card, error)

	// UpdateLevel replaces the level of the owner's card and returns the
	// stored row. The write is idempotent.
	// Returns ErrCardNotFound if the card does not exist for this owner.
	UpdateLevel(ctx context.Context, ownerID, cardID uuid.UUID, level int) (*domain.Card, error)

	// CreateMultiple saves a batch of cards atomically. Run it within a
	// transaction via WithTx and RunInTransaction.
	CreateMultiple(ctx context.Context, cards []*domain.Card) error

	// Delete removes the owner's card.
	// Returns ErrCardNotFound if the card does not exist for this owner.
	Delete(ctx context.Context, ownerID, cardID uuid.UUID) error

	// WithTx returns a CardStore bound to the given transaction.
	WithTx(tx *sql.Tx) CardStore
}

// TallyStore is the server-of-record persistence contract for answer
// tallies.
type TallyStore interface {
	AnswerStatsStore

	// WithTx returns a TallyStore bound to the given transaction.
	WithTx(tx *sql.Tx) TallyStore
}

// UserStore is the persistence contract for the authentication
// collaborator's accounts.
type UserStore interface {
	// Create saves a new user. The HashedPassword field must already be set.
	// Returns ErrEmailExists if the email is taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByEmail retrieves a user by email.
	// Returns ErrUserNotFound if no such user exists.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetByID retrieves a user by ID.
	// Returns ErrUserNotFound if no such user exists.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}
