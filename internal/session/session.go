package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/parlo-app/parlo-api/internal/domain"
	"github.com/parlo-app/parlo-api/internal/platform/logger"
	"github.com/parlo-app/parlo-api/internal/srs"
	"github.com/parlo-app/parlo-api/internal/store"
)

// DefaultAdvanceDelay is how long a correct answer's feedback stays on
// screen before the next card is presented.
const DefaultAdvanceDelay = 2 * time.Second

// Session-level errors.
var (
	// ErrEmptyCategory is returned by LoadCategory when the owner has no
	// cards in the chosen category. A user-facing empty state, not a fault.
	ErrEmptyCategory = errors.New("no cards in category")

	// ErrNoActiveCard is returned by SubmitAnswer when no category is
	// loaded or the working set has drained.
	ErrNoActiveCard = errors.New("no active card")

	// ErrNotSaved wraps a failed durable level write: the answer was
	// resolved but progress was not saved, and the card and cursor are
	// unchanged so the user may retry the same answer.
	ErrNotSaved = errors.New("progress not saved")
)

// Feedback messages surfaced to the UI.
const (
	feedbackCorrect   = "Correct!"
	feedbackIncorrect = "Incorrect. The answer is shown; try again."
	feedbackNotSaved  = "Progress not saved. Check your connection and retry."
	feedbackGone      = "That card was removed. Moving on."
)

// Result reports what a single SubmitAnswer call did.
type Result struct {
	// Correct is the outcome of the answer match.
	Correct bool
	// Saved is true once the durable level write was acknowledged.
	Saved bool
	// CardDropped is true when the card vanished server-side and was
	// removed from the working set.
	CardDropped bool
	// Level is the acknowledged post-write level (only valid when Saved).
	Level int
}

// Stats is a point-in-time snapshot of a session's aggregates.
type Stats struct {
	// Histogram counts cards at each proficiency level 1..5, computed
	// fresh from the current working set.
	Histogram map[int]int
	// Correct and Incorrect are the session-local answer counters.
	Correct   int
	Incorrect int
}

// Accuracy returns the session accuracy percentage rounded to two decimal
// places; ok is false when no answers have been recorded yet.
func (s Stats) Accuracy() (float64, bool) {
	return domain.AccuracyPercent(s.Correct, s.Incorrect)
}

// Session drives one interactive review pass over a single category. It
// sequences the scheduler with the two stores and keeps its local view
// consistent with durable state: the in-memory level and cursor only move
// after the server of record acknowledges the write.
//
// A session assumes a single interaction stream: the UI must not issue a
// second SubmitAnswer while one is pending. The mutex below protects the
// state against the advance timer, not against concurrent submissions.
type Session struct {
	cards  store.ProficiencyStore
	stats  store.AnswerStatsStore
	owner  uuid.UUID
	logger *slog.Logger

	advanceDelay time.Duration

	mu           sync.Mutex
	epoch        uint64
	category     string
	set          []*domain.Card
	current      *domain.Card
	correct      int
	incorrect    int
	answerHidden bool
	feedback     string
	pending      *time.Timer
	closed       bool
}

// Option configures a Session.
type Option func(*Session)

// WithAdvanceDelay overrides the delay between a correct answer and the
// next card. A zero delay advances synchronously.
func WithAdvanceDelay(d time.Duration) Option {
	return func(s *Session) {
		s.advanceDelay = d
	}
}

// New creates a Session for the given owner on top of the two stores.
func New(
	cards store.ProficiencyStore,
	stats store.AnswerStatsStore,
	owner uuid.UUID,
	log *slog.Logger,
	opts ...Option,
) *Session {
	if cards == nil {
		panic("cards store cannot be nil")
	}
	if stats == nil {
		panic("stats store cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	s := &Session{
		cards:        cards,
		stats:        stats,
		owner:        owner,
		logger:       log.With(slog.String("component", "review_session")),
		advanceDelay: DefaultAdvanceDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadCategory fetches the owner's cards, keeps the ones in the given
// category, and starts a fresh pass with the weakest card first. Any
// previous pass is torn down: its pending advance and in-flight writes can
// no longer touch the new state.
//
// Returns ErrEmptyCategory when nothing matches. Returns an error wrapping
// store.ErrUnauthorized when the credential is missing or invalid; that is
// fatal to the session and the caller must route the user back through
// authentication.
func (s *Session) LoadCategory(ctx context.Context, category string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	all, err := s.cards.FetchAll(ctx, s.owner)
	if err != nil {
		if errors.Is(err, store.ErrUnauthorized) {
			log.Warn("session start rejected, credential invalid",
				slog.String("owner_id", s.owner.String()))
			return fmt.Errorf("cannot start review session: %w", err)
		}
		return fmt.Errorf("failed to load cards: %w", err)
	}

	matched := make([]*domain.Card, 0, len(all))
	for _, c := range all {
		if strings.EqualFold(c.Category, category) {
			matched = append(matched, c.Clone())
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.teardownLocked()

	if len(matched) == 0 {
		s.category = category
		s.set = nil
		s.current = nil
		s.correct = 0
		s.incorrect = 0
		s.feedback = ""
		return ErrEmptyCategory
	}

	s.category = category
	s.set = matched
	s.current = srs.OrderForReview(matched)[0]
	s.correct = 0
	s.incorrect = 0
	s.answerHidden = true
	s.feedback = ""

	log.Debug("category loaded",
		slog.String("category", category),
		slog.Int("cards", len(matched)))
	return nil
}

// Current returns a copy of the card being presented, or nil when the
// session has no active card.
func (s *Session) Current() *domain.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	return s.current.Clone()
}

// AnswerHidden reports whether the UI should obscure the answer text.
func (s *Session) AnswerHidden() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.answerHidden
}

// Feedback returns the last user-facing feedback message.
func (s *Session) Feedback() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.feedback
}

// SubmitAnswer resolves the guess against the current card, records the
// outcome, and persists the new proficiency level. The session's own view
// of the card and the cursor move only after the durable write is
// acknowledged; on failure both stay exactly as they were and the returned
// error wraps ErrNotSaved so the caller can invite a retry.
//
// The stats write is best-effort: a failure there is logged and never
// blocks progress.
func (s *Session) SubmitAnswer(ctx context.Context, guess string) (Result, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	s.mu.Lock()
	if s.closed || s.current == nil {
		s.mu.Unlock()
		return Result{}, ErrNoActiveCard
	}
	card := s.current
	epoch := s.epoch
	s.mu.Unlock()

	correct := srs.IsCorrect(guess, card.Answer)

	// Supplementary tally; scheduling never depends on it, so a lost
	// sample is tolerated and not retried within this submission.
	if err := s.stats.RecordAnswer(ctx, s.owner, correct); err != nil {
		log.Warn("answer tally not recorded",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
	}

	newLevel := srs.NextLevel(card.Level, correct)
	updated, err := s.cards.UpdateLevel(ctx, card.ID, newLevel)
	if err != nil {
		if store.IsNotFoundError(err) {
			// Card deleted concurrently: drop it and continue with the rest.
			return s.dropCard(log, epoch, card.ID, correct)
		}

		s.mu.Lock()
		if s.epoch == epoch && !s.closed {
			s.feedback = feedbackNotSaved
		}
		s.mu.Unlock()
		log.Warn("level write failed, session state unchanged",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return Result{Correct: correct}, fmt.Errorf("%w: %v", ErrNotSaved, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.epoch != epoch || s.closed {
		// The write landed durably but this pass is gone; a defunct
		// session must not leak state into its successor.
		log.Debug("discarding stale level write",
			slog.String("card_id", card.ID.String()))
		return Result{Correct: correct, Saved: true, Level: updated.Level}, nil
	}

	// A new answer supersedes any advance still pending from the previous
	// one; on an incorrect answer the same card must stay put.
	s.cancelPendingLocked()

	s.adoptLocked(updated)

	if correct {
		s.correct++
		s.answerHidden = true
		s.feedback = feedbackCorrect
		s.current = updated.Clone()
		s.scheduleAdvanceLocked(epoch)
	} else {
		// Try-again policy: the answer stays visible as a hint and the
		// same card is re-presented immediately.
		s.incorrect++
		s.answerHidden = false
		s.feedback = feedbackIncorrect
		s.current = updated.Clone()
	}

	return Result{Correct: correct, Saved: true, Level: updated.Level}, nil
}

// Stats returns the per-level histogram for the working set plus the
// session counters. The histogram is recomputed on every call from the
// latest acknowledged levels.
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		Histogram: srs.LevelHistogram(s.set),
		Correct:   s.correct,
		Incorrect: s.incorrect,
	}
}

// Close tears the session down. In-flight writes still land durably, but
// their completions are discarded rather than applied to a dead session.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teardownLocked()
	s.closed = true
	s.current = nil
	s.set = nil
}

// adoptLocked replaces the working-set entry matching the acknowledged
// card. Only the one affected card changes; nothing is refetched.
func (s *Session) adoptLocked(updated *domain.Card) {
	for i, c := range s.set {
		if c.ID == updated.ID {
			s.set[i] = updated.Clone()
			return
		}
	}
}

// dropCard removes a card that vanished server-side and re-selects the
// current card from the remainder.
func (s *Session) dropCard(log *slog.Logger, epoch uint64, cardID uuid.UUID, correct bool) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.epoch != epoch || s.closed {
		return Result{Correct: correct, CardDropped: true}, nil
	}

	s.cancelPendingLocked()

	// The tally store already saw this answer, so the session counters
	// move even though the level write was lost with the card.
	if correct {
		s.correct++
	} else {
		s.incorrect++
	}

	kept := s.set[:0]
	for _, c := range s.set {
		if c.ID != cardID {
			kept = append(kept, c)
		}
	}
	s.set = kept

	log.Debug("card dropped from working set",
		slog.String("card_id", cardID.String()),
		slog.Int("remaining", len(s.set)))

	if len(s.set) == 0 {
		s.current = nil
		s.feedback = feedbackGone
		return Result{Correct: correct, CardDropped: true}, nil
	}

	s.current = srs.OrderForReview(s.set)[0].Clone()
	s.answerHidden = true
	s.feedback = feedbackGone
	return Result{Correct: correct, CardDropped: true}, nil
}

// scheduleAdvanceLocked arranges the move to the next card after the
// feedback delay. The continuation is tagged with the session epoch so a
// teardown during the delay window cancels it instead of mutating a
// successor session.
func (s *Session) scheduleAdvanceLocked(epoch uint64) {
	s.cancelPendingLocked()
	if s.advanceDelay <= 0 {
		s.advanceLocked(epoch)
		return
	}
	var t *time.Timer
	t = time.AfterFunc(s.advanceDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		// Stop cannot reach a callback already waiting on the lock, so a
		// superseded timer has to notice on its own.
		if s.pending != t {
			return
		}
		s.pending = nil
		s.advanceLocked(epoch)
	})
	s.pending = t
}

// advanceLocked moves on to the next card in ascending-level order, wrapping
// past the end. The order is derived from the latest acknowledged levels,
// including the write that triggered this advance.
func (s *Session) advanceLocked(epoch uint64) {
	if s.epoch != epoch || s.closed || s.current == nil {
		return
	}
	next := srs.SelectNext(s.set, s.current.ID)
	if next == nil {
		s.current = nil
		return
	}
	s.current = next.Clone()
	s.answerHidden = true
}

// teardownLocked bumps the epoch and cancels any pending advance, so stale
// completions are ignored from here on.
func (s *Session) teardownLocked() {
	s.epoch++
	s.cancelPendingLocked()
}

func (s *Session) cancelPendingLocked() {
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
}
