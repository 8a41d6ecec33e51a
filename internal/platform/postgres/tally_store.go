package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/parlo-app/parlo-api/internal/domain"
	"github.com/parlo-app/parlo-api/internal/platform/logger"
	"github.com/parlo-app/parlo-api/internal/store"
)

// PostgresTallyStore implements the store.TallyStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTallyStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTallyStore creates a new PostgreSQL implementation of the
// TallyStore interface.
func NewPostgresTallyStore(db store.DBTX, log *slog.Logger) *PostgresTallyStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &PostgresTallyStore{
		db:     db,
		logger: log.With(slog.String("component", "tally_store")),
	}
}

// Ensure PostgresTallyStore implements store.TallyStore interface
var _ store.TallyStore = (*PostgresTallyStore)(nil)

// WithTx returns a TallyStore bound to the given transaction.
func (s *PostgresTallyStore) WithTx(tx *sql.Tx) store.TallyStore {
	return &PostgresTallyStore{
		db:     tx,
		logger: s.logger,
	}
}

// RecordAnswer implements store.AnswerStatsStore.RecordAnswer.
// The first answer for an owner creates the row; later answers increment
// one counter in place. Single-statement upsert keeps concurrent
// submissions from losing increments.
func (s *PostgresTallyStore) RecordAnswer(ctx context.Context, ownerID uuid.UUID, correct bool) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO answer_tallies (owner_id, correct_count, incorrect_count, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (owner_id) DO UPDATE
		SET correct_count   = answer_tallies.correct_count + $2,
		    incorrect_count = answer_tallies.incorrect_count + $3,
		    updated_at      = $4
	`

	correctInc, incorrectInc := 0, 1
	if correct {
		correctInc, incorrectInc = 1, 0
	}

	_, err := s.db.ExecContext(ctx, query, ownerID, correctInc, incorrectInc, time.Now().UTC())
	if err != nil {
		log.Error("failed to record answer",
			slog.String("owner_id", ownerID.String()),
			slog.Bool("correct", correct),
			slog.String("error", err.Error()))
		return MapError(err)
	}

	return nil
}

// Tally implements store.AnswerStatsStore.Tally.
// Owners with no recorded answers get a zero tally, not an error.
func (s *PostgresTallyStore) Tally(ctx context.Context, ownerID uuid.UUID) (*domain.AnswerTally, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT owner_id, correct_count, incorrect_count
		FROM answer_tallies
		WHERE owner_id = $1
	`

	tally := &domain.AnswerTally{OwnerID: ownerID}
	err := s.db.QueryRowContext(ctx, query, ownerID).Scan(
		&tally.OwnerID,
		&tally.Correct,
		&tally.Incorrect,
	)
	if err != nil {
		if IsNoRows(err) {
			return &domain.AnswerTally{OwnerID: ownerID}, nil
		}
		log.Error("failed to fetch tally",
			slog.String("owner_id", ownerID.String()),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return tally, nil
}
