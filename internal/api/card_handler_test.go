package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/parlo-app/parlo-api/internal/api/shared"
	"github.com/parlo-app/parlo-api/internal/domain"
	"github.com/parlo-app/parlo-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockCardStore is a testify mock for store.CardStore.
type mockCardStore struct {
	mock.Mock
}

func (m *mockCardStore) FetchAll(ctx context.Context, ownerID uuid.UUID) ([]*domain.Card, error) {
	args := m.Called(ctx, ownerID)
	if cards := args.Get(0); cards != nil {
		return cards.([]*domain.Card), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCardStore) UpdateLevel(ctx context.Context, ownerID, cardID uuid.UUID, level int) (*domain.Card, error) {
	args := m.Called(ctx, ownerID, cardID, level)
	if card := args.Get(0); card != nil {
		return card.(*domain.Card), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCardStore) CreateMultiple(ctx context.Context, cards []*domain.Card) error {
	args := m.Called(ctx, cards)
	return args.Error(0)
}

func (m *mockCardStore) Delete(ctx context.Context, ownerID, cardID uuid.UUID) error {
	args := m.Called(ctx, ownerID, cardID)
	return args.Error(0)
}

func (m *mockCardStore) WithTx(tx *sql.Tx) store.CardStore {
	return m
}

// authedRequest builds a request carrying the authenticated owner ID, as the
// auth middleware would.
func authedRequest(method, target string, body string, ownerID uuid.UUID) *http.Request {
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	ctx := context.WithValue(r.Context(), shared.UserIDContextKey, ownerID)
	return r.WithContext(ctx)
}

// withURLParam attaches a chi route parameter to the request.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func ownedCard(owner uuid.UUID, level int) *domain.Card {
	return &domain.Card{
		ID:       uuid.New(),
		OwnerID:  owner,
		Question: "Hello",
		Answer:   "Hola",
		Category: "greetings",
		Level:    level,
	}
}

func TestListCards(t *testing.T) {
	t.Parallel()

	owner := uuid.New()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		cardStore := new(mockCardStore)
		cards := []*domain.Card{ownedCard(owner, 1), ownedCard(owner, 3)}
		cardStore.On("FetchAll", mock.Anything, owner).Return(cards, nil)

		handler := NewCardHandler(cardStore, nil, slog.Default())
		w := httptest.NewRecorder()
		handler.ListCards(w, authedRequest(http.MethodGet, "/api/cards", "", owner))

		require.Equal(t, http.StatusOK, w.Code)

		var resp CardListResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		require.Len(t, resp.Cards, 2)
		assert.Equal(t, cards[0].ID.String(), resp.Cards[0].ID)
	})

	t.Run("owner_param_must_match_token", func(t *testing.T) {
		t.Parallel()

		handler := NewCardHandler(new(mockCardStore), nil, slog.Default())
		w := httptest.NewRecorder()
		target := "/api/cards?owner=" + uuid.New().String()
		handler.ListCards(w, authedRequest(http.MethodGet, target, "", owner))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("malformed_owner_param", func(t *testing.T) {
		t.Parallel()

		handler := NewCardHandler(new(mockCardStore), nil, slog.Default())
		w := httptest.NewRecorder()
		handler.ListCards(w, authedRequest(http.MethodGet, "/api/cards?owner=not-a-uuid", "", owner))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing_credential", func(t *testing.T) {
		t.Parallel()

		handler := NewCardHandler(new(mockCardStore), nil, slog.Default())
		w := httptest.NewRecorder()
		handler.ListCards(w, httptest.NewRequest(http.MethodGet, "/api/cards", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("store_unavailable", func(t *testing.T) {
		t.Parallel()

		cardStore := new(mockCardStore)
		cardStore.On("FetchAll", mock.Anything, owner).
			Return(nil, fmt.Errorf("%w: db down", store.ErrUnavailable))

		handler := NewCardHandler(cardStore, nil, slog.Default())
		w := httptest.NewRecorder()
		handler.ListCards(w, authedRequest(http.MethodGet, "/api/cards", "", owner))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestUpdateLevel(t *testing.T) {
	t.Parallel()

	owner := uuid.New()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		card := ownedCard(owner, 3)
		cardStore := new(mockCardStore)
		cardStore.On("UpdateLevel", mock.Anything, owner, card.ID, 3).Return(card, nil)

		handler := NewCardHandler(cardStore, nil, slog.Default())
		w := httptest.NewRecorder()
		r := authedRequest(http.MethodPatch, "/api/cards/"+card.ID.String()+"/level", `{"level":3}`, owner)
		handler.UpdateLevel(w, withURLParam(r, "id", card.ID.String()))

		require.Equal(t, http.StatusOK, w.Code)

		var resp CardEnvelope
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, card.ID.String(), resp.Card.ID)
		assert.Equal(t, 3, resp.Card.Level)
	})

	t.Run("level_out_of_range", func(t *testing.T) {
		t.Parallel()

		cardID := uuid.New()
		handler := NewCardHandler(new(mockCardStore), nil, slog.Default())

		for _, body := range []string{`{"level":0}`, `{"level":6}`, `{"level":-1}`, `{}`} {
			w := httptest.NewRecorder()
			r := authedRequest(http.MethodPatch, "/api/cards/"+cardID.String()+"/level", body, owner)
			handler.UpdateLevel(w, withURLParam(r, "id", cardID.String()))

			assert.Equal(t, http.StatusBadRequest, w.Code, "body %s", body)
		}
	})

	t.Run("malformed_card_id", func(t *testing.T) {
		t.Parallel()

		handler := NewCardHandler(new(mockCardStore), nil, slog.Default())
		w := httptest.NewRecorder()
		r := authedRequest(http.MethodPatch, "/api/cards/nope/level", `{"level":3}`, owner)
		handler.UpdateLevel(w, withURLParam(r, "id", "nope"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("card_not_found", func(t *testing.T) {
		t.Parallel()

		cardID := uuid.New()
		cardStore := new(mockCardStore)
		cardStore.On("UpdateLevel", mock.Anything, owner, cardID, 2).
			Return(nil, fmt.Errorf("%w: no row", store.ErrCardNotFound))

		handler := NewCardHandler(cardStore, nil, slog.Default())
		w := httptest.NewRecorder()
		r := authedRequest(http.MethodPatch, "/api/cards/"+cardID.String()+"/level", `{"level":2}`, owner)
		handler.UpdateLevel(w, withURLParam(r, "id", cardID.String()))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCreateCardsValidation(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	handler := NewCardHandler(new(mockCardStore), nil, slog.Default())

	t.Run("empty_batch_rejected", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		handler.CreateCards(w, authedRequest(http.MethodPost, "/api/cards", `{"cards":[]}`, owner))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing_fields_rejected", func(t *testing.T) {
		t.Parallel()

		body := `{"cards":[{"question":"Hello"}]}`
		w := httptest.NewRecorder()
		handler.CreateCards(w, authedRequest(http.MethodPost, "/api/cards", body, owner))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDeleteCard(t *testing.T) {
	t.Parallel()

	owner := uuid.New()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		cardID := uuid.New()
		cardStore := new(mockCardStore)
		cardStore.On("Delete", mock.Anything, owner, cardID).Return(nil)

		handler := NewCardHandler(cardStore, nil, slog.Default())
		w := httptest.NewRecorder()
		r := authedRequest(http.MethodDelete, "/api/cards/"+cardID.String(), "", owner)
		handler.DeleteCard(w, withURLParam(r, "id", cardID.String()))

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("not_found", func(t *testing.T) {
		t.Parallel()

		cardID := uuid.New()
		cardStore := new(mockCardStore)
		cardStore.On("Delete", mock.Anything, owner, cardID).
			Return(fmt.Errorf("%w: no row", store.ErrCardNotFound))

		handler := NewCardHandler(cardStore, nil, slog.Default())
		w := httptest.NewRecorder()
		r := authedRequest(http.MethodDelete, "/api/cards/"+cardID.String(), "", owner)
		handler.DeleteCard(w, withURLParam(r, "id", cardID.String()))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
