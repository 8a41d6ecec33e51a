package api

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/parlo-app/parlo-api/internal/api/shared"
	"github.com/parlo-app/parlo-api/internal/domain"
	"github.com/parlo-app/parlo-api/internal/platform/logger"
	"github.com/parlo-app/parlo-api/internal/redact"
	"github.com/parlo-app/parlo-api/internal/store"
)

// CardHandler handles card-related HTTP requests.
type CardHandler struct {
	cardStore store.CardStore
	db        *sql.DB
	logger    *slog.Logger
}

// NewCardHandler creates a new CardHandler. db is used for transactional
// batch creation.
func NewCardHandler(cardStore store.CardStore, db *sql.DB, log *slog.Logger) *CardHandler {
	if log == nil {
		panic("logger cannot be nil for CardHandler")
	}
	return &CardHandler{
		cardStore: cardStore,
		db:        db,
		logger:    log.With(slog.String("component", "card_handler")),
	}
}

// ListCards handles GET /cards requests. It returns every card belonging to
// the authenticated owner. An optional owner query parameter must match the
// token's owner.
func (h *CardHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	ownerID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || ownerID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	if q := r.URL.Query().Get("owner"); q != "" {
		requested, err := uuid.Parse(q)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid owner ID format")
			return
		}
		if requested != ownerID {
			shared.RespondWithError(w, r, http.StatusForbidden, "Cannot read another user's cards")
			return
		}
	}

	cards, err := h.cardStore.FetchAll(r.Context(), ownerID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), "Failed to list cards", err)
		return
	}

	resp := CardListResponse{Cards: make([]CardResponse, 0, len(cards))}
	for _, c := range cards {
		resp.Cards = append(resp.Cards, cardToResponse(c))
	}

	log.Debug("cards listed",
		slog.String("owner_id", ownerID.String()),
		slog.Int("count", len(cards)))
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// UpdateLevelRequest is the body of PATCH /cards/{id}/level.
type UpdateLevelRequest struct {
	Level int `json:"level" validate:"required,gte=1,lte=5"`
}

// UpdateLevel handles PATCH /cards/{id}/level requests. The write is
// idempotent and the response carries the authoritative stored card.
func (h *CardHandler) UpdateLevel(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	ownerID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || ownerID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	cardID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid card ID format")
		return
	}

	var req UpdateLevelRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Validation error", err)
		return
	}

	card, err := h.cardStore.UpdateLevel(r.Context(), ownerID, cardID, req.Level)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("card level updated",
		slog.String("card_id", cardID.String()),
		slog.Int("level", card.Level))
	shared.RespondWithJSON(w, r, http.StatusOK, CardEnvelope{Card: cardToResponse(card)})
}

// CreateCardRequest describes one card in a POST /cards batch.
type CreateCardRequest struct {
	Question   string `json:"question"    validate:"required"`
	Answer     string `json:"answer"      validate:"required"`
	Category   string `json:"category"    validate:"required"`
	SourceLang string `json:"source_lang" validate:"required"`
	TargetLang string `json:"target_lang" validate:"required"`
}

// CreateCardsRequest is the body of POST /cards.
type CreateCardsRequest struct {
	Cards []CreateCardRequest `json:"cards" validate:"required,min=1,dive"`
}

// CreateCards handles POST /cards requests, creating the batch atomically.
func (h *CardHandler) CreateCards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	ownerID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || ownerID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req CreateCardsRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Validation error", err)
		return
	}

	cards := make([]*domain.Card, 0, len(req.Cards))
	for _, c := range req.Cards {
		card, err := domain.NewCard(ownerID, c.Question, c.Answer, c.Category, c.SourceLang, c.TargetLang)
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid card data", err)
			return
		}
		cards = append(cards, card)
	}

	err := store.RunInTransaction(r.Context(), h.db, func(ctx context.Context, tx *sql.Tx) error {
		return h.cardStore.WithTx(tx).CreateMultiple(ctx, cards)
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), "Failed to create cards", err)
		return
	}

	resp := CardListResponse{Cards: make([]CardResponse, 0, len(cards))}
	for _, c := range cards {
		resp.Cards = append(resp.Cards, cardToResponse(c))
	}

	log.Debug("cards created",
		slog.String("owner_id", ownerID.String()),
		slog.Int("count", len(cards)))
	shared.RespondWithJSON(w, r, http.StatusCreated, resp)
}

// DeleteCard handles DELETE /cards/{id} requests.
func (h *CardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || ownerID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	cardID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid card ID format")
		return
	}

	if err := h.cardStore.Delete(r.Context(), ownerID, cardID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
