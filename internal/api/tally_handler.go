package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/parlo-app/parlo-api/internal/api/shared"
	"github.com/parlo-app/parlo-api/internal/platform/logger"
	"github.com/parlo-app/parlo-api/internal/store"
)

// TallyHandler handles answer-tally HTTP requests.
type TallyHandler struct {
	tallyStore store.TallyStore
	logger     *slog.Logger
}

// NewTallyHandler creates a new TallyHandler.
func NewTallyHandler(tallyStore store.TallyStore, log *slog.Logger) *TallyHandler {
	if log == nil {
		panic("logger cannot be nil for TallyHandler")
	}
	return &TallyHandler{
		tallyStore: tallyStore,
		logger:     log.With(slog.String("component", "tally_handler")),
	}
}

// RecordAnswerRequest is the body of POST /answers.
type RecordAnswerRequest struct {
	Correct *bool `json:"correct" validate:"required"`
}

// RecordAnswer handles POST /answers requests, incrementing exactly one of
// the owner's two counters. Clients treat any non-2xx status as "not
// recorded" and do not retry within the same submission.
func (h *TallyHandler) RecordAnswer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	ownerID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || ownerID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req RecordAnswerRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Validation error", err)
		return
	}

	if err := h.tallyStore.RecordAnswer(r.Context(), ownerID, *req.Correct); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), "Failed to record answer", err)
		return
	}

	log.Debug("answer recorded",
		slog.String("owner_id", ownerID.String()),
		slog.Bool("correct", *req.Correct))
	w.WriteHeader(http.StatusOK)
}

// GetTally handles GET /answers requests, returning the owner's running
// tally. Owners with no recorded answers get zero counts and a null
// accuracy.
func (h *TallyHandler) GetTally(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || ownerID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	tally, err := h.tallyStore.Tally(r.Context(), ownerID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), "Failed to get tally", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tallyToResponse(tally))
}
