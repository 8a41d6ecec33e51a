package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/parlo-app/parlo-api/internal/domain"
	"github.com/parlo-app/parlo-api/internal/platform/logger"
	"github.com/parlo-app/parlo-api/internal/store"
)

// PostgresCardStore implements the store.CardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardStore creates a new PostgreSQL implementation of the
// CardStore interface. The caller owns the connection's lifecycle.
// If logger is nil, a default logger will be used.
func NewPostgresCardStore(db store.DBTX, log *slog.Logger) *PostgresCardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &PostgresCardStore{
		db:     db,
		logger: log.With(slog.String("component", "card_store")),
	}
}

// Ensure PostgresCardStore implements store.CardStore interface
var _ store.CardStore = (*PostgresCardStore)(nil)

// WithTx returns a CardStore bound to the given transaction.
func (s *PostgresCardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &PostgresCardStore{
		db:     tx,
		logger: s.logger,
	}
}

const cardColumns = "id, owner_id, question, answer, category, source_lang, target_lang, level, created_at, updated_at"

// FetchAll implements store.CardStore.FetchAll.
// Cards come back in creation order so level-sorting downstream is stable
// across fetches.
func (s *PostgresCardStore) FetchAll(ctx context.Context, ownerID uuid.UUID) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + cardColumns + `
		FROM cards
		WHERE owner_id = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		log.Error("failed to query cards",
			slog.String("owner_id", ownerID.String()),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var cards []*domain.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			log.Error("failed to scan card row",
				slog.String("owner_id", ownerID.String()),
				slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return cards, nil
}

// UpdateLevel implements store.CardStore.UpdateLevel.
// The level is clamped before the write, so an out-of-range request stores
// the nearest valid level rather than failing. The returned card is the
// authoritative stored row.
func (s *PostgresCardStore) UpdateLevel(
	ctx context.Context,
	ownerID, cardID uuid.UUID,
	level int,
) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE cards
		SET level = $1, updated_at = $2
		WHERE id = $3 AND owner_id = $4
		RETURNING ` + cardColumns + `
	`

	row := s.db.QueryRowContext(ctx, query,
		domain.ClampLevel(level),
		time.Now().UTC(),
		cardID,
		ownerID,
	)

	card, err := scanCard(row)
	if err != nil {
		if IsNoRows(err) {
			return nil, fmt.Errorf("%w: %v", store.ErrCardNotFound, err)
		}
		log.Error("failed to update card level",
			slog.String("card_id", cardID.String()),
			slog.Int("level", level),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return card, nil
}

// CreateMultiple implements store.CardStore.CreateMultiple.
// Atomicity comes from the caller running this inside a transaction via
// WithTx; each insert here fails the whole batch.
func (s *PostgresCardStore) CreateMultiple(ctx context.Context, cards []*domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO cards (` + cardColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	stmt, err := s.db.PrepareContext(ctx, query)
	if err != nil {
		return MapError(err)
	}
	defer func() { _ = stmt.Close() }()

	for _, card := range cards {
		if err := card.Validate(); err != nil {
			return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
		}

		_, err := stmt.ExecContext(ctx,
			card.ID,
			card.OwnerID,
			card.Question,
			card.Answer,
			card.Category,
			card.SourceLang,
			card.TargetLang,
			card.Level,
			card.CreatedAt,
			card.UpdatedAt,
		)
		if err != nil {
			log.Error("failed to insert card",
				slog.String("card_id", card.ID.String()),
				slog.String("error", err.Error()))
			return MapError(err)
		}
	}

	log.Debug("created cards", slog.Int("count", len(cards)))
	return nil
}

// Delete implements store.CardStore.Delete.
func (s *PostgresCardStore) Delete(ctx context.Context, ownerID, cardID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		DELETE FROM cards
		WHERE id = $1 AND owner_id = $2
	`

	result, err := s.db.ExecContext(ctx, query, cardID, ownerID)
	if err != nil {
		log.Error("failed to delete card",
			slog.String("card_id", cardID.String()),
			slog.String("error", err.Error()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "card"); err != nil {
		return fmt.Errorf("%w: %v", store.ErrCardNotFound, err)
	}

	return nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*domain.Card, error) {
	var card domain.Card
	err := row.Scan(
		&card.ID,
		&card.OwnerID,
		&card.Question,
		&card.Answer,
		&card.Category,
		&card.SourceLang,
		&card.TargetLang,
		&card.Level,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &card, nil
}
