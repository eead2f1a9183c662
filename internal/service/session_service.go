package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"wordstake/internal/cache"
	"wordstake/internal/config"
	"wordstake/internal/game"
	"wordstake/internal/model"
	"wordstake/internal/repository"
)

const (
	minGuesses = 3
	maxGuesses = 6
)

// SessionService owns the per-wallet active game map and runs the session
// state machine: Active -> Won | Lost | Abandoned, all terminal.
type SessionService struct {
	sessions    cache.SessionCache
	wordRepo    repository.WordRepo
	depositRepo repository.DepositRepo
	completions repository.CompletionRepo
	streakSvc   *StreakService
	clock       *game.Clock
	pause       PauseQuery
	broadcaster Broadcaster

	throttle       time.Duration
	expiry         time.Duration
	defaultGuesses int
}

// NewSessionService creates a new session service
func NewSessionService(
	sessions cache.SessionCache,
	wordRepo repository.WordRepo,
	depositRepo repository.DepositRepo,
	completions repository.CompletionRepo,
	streakSvc *StreakService,
	clock *game.Clock,
	pause PauseQuery,
	cfg *config.Config,
) *SessionService {
	return &SessionService{
		sessions:       sessions,
		wordRepo:       wordRepo,
		depositRepo:    depositRepo,
		completions:    completions,
		streakSvc:      streakSvc,
		clock:          clock,
		pause:          pause,
		throttle:       cfg.GuessThrottle,
		expiry:         cfg.SessionExpiry,
		defaultGuesses: cfg.DefaultGuesses,
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *SessionService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Create starts a new game for the wallet in the current period. The word
// comes from the wallet's first unused assignment, else at random from the
// answer pool.
func (s *SessionService) Create(ctx context.Context, walletID string, guesses int) (*model.GameSession, error) {
	if s.pause.IsPaused() {
		return nil, game.ErrPaused
	}

	if guesses == 0 {
		guesses = s.defaultGuesses
	}
	if guesses < minGuesses {
		guesses = minGuesses
	}
	if guesses > maxGuesses {
		guesses = maxGuesses
	}

	period := s.clock.Current().String()

	has, err := s.depositRepo.Has(ctx, walletID, period)
	if err != nil {
		return nil, fmt.Errorf("failed to check deposit: %w", err)
	}
	if !has {
		return nil, game.ErrDepositRequired
	}

	played, err := s.completions.HasPlayed(ctx, walletID, period)
	if err != nil {
		return nil, fmt.Errorf("failed to check completions: %w", err)
	}
	if played {
		return nil, game.ErrAlreadyPlayed
	}

	answer, assignmentID, err := s.drawWord(ctx, walletID)
	if err != nil {
		return nil, fmt.Errorf("failed to draw word: %w", err)
	}

	now := time.Now()
	session := &model.GameSession{
		ID:           "g_" + uuid.New().String()[:8],
		WalletID:     walletID,
		Answer:       answer,
		AssignmentID: assignmentID,
		Guesses:      []model.Guess{},
		MaxGuesses:   guesses,
		Status:       model.SessionActive,
		Period:       period,
		StartedAt:    now,
	}

	created, err := s.sessions.Reserve(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve session: %w", err)
	}
	if !created {
		return nil, game.ErrSessionConflict
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToWallet(walletID, "session_started", map[string]interface{}{
			"sessionId":  session.ID,
			"walletId":   walletID,
			"maxGuesses": session.MaxGuesses,
			"period":     period,
		})
	}

	return session, nil
}

// Guess scores one attempt against the session's answer and applies any
// terminal transition.
func (s *SessionService) Guess(ctx context.Context, sessionID, walletID, word string) (*model.GameSession, error) {
	if s.pause.IsPaused() {
		return nil, game.ErrPaused
	}

	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, game.ErrNotFound
	}
	if session.WalletID != walletID {
		return nil, game.ErrForbidden
	}
	if session.Status.Terminal() {
		return nil, game.ErrSessionComplete
	}

	now := time.Now()
	if now.Sub(session.StartedAt) > s.expiry {
		return nil, game.ErrSessionExpired
	}
	if len(session.Guesses) > 0 && now.Sub(session.LastGuessAt) < s.throttle {
		return nil, game.ErrRateLimited
	}

	word = strings.ToLower(strings.TrimSpace(word))
	marks, err := game.CheckGuess(word, session.Answer)
	if err != nil {
		return nil, err
	}

	session.Guesses = append(session.Guesses, model.Guess{
		Word:      word,
		Marks:     marks,
		GuessedAt: now,
	})
	session.LastGuessAt = now

	won := game.IsWinning(marks)
	if won {
		session.Status = model.SessionWon
		session.CompletedAt = &now
	} else if len(session.Guesses) >= session.MaxGuesses {
		session.Status = model.SessionLost
		session.CompletedAt = &now
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToWallet(walletID, "guess_scored", map[string]interface{}{
			"sessionId":   session.ID,
			"walletId":    walletID,
			"marks":       marks,
			"guessNumber": len(session.Guesses),
		})
	}

	if session.Status.Terminal() {
		outcome := game.OutcomeLoss
		if won {
			outcome = game.OutcomeWin
		}
		if err := s.Finalize(ctx, session, outcome); err != nil {
			return nil, err
		}
	}

	return session, nil
}

// Abandon ends an active session as a loss for streak purposes. It is the
// cleanup primitive, so it is accepted while paused and is idempotent on
// already-terminal sessions.
func (s *SessionService) Abandon(ctx context.Context, sessionID, walletID string) (*model.GameSession, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, game.ErrNotFound
	}
	if session.WalletID != walletID {
		return nil, game.ErrForbidden
	}
	if session.Status.Terminal() {
		return session, nil
	}

	now := time.Now()
	session.Status = model.SessionAbandoned
	session.CompletedAt = &now

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	if err := s.Finalize(ctx, session, game.OutcomeIncomplete); err != nil {
		return nil, err
	}

	return session, nil
}

// Active returns the wallet's live (or just-finished, pre-sweep) session.
func (s *SessionService) Active(ctx context.Context, walletID string) (*model.GameSession, error) {
	return s.sessions.GetByWallet(ctx, walletID)
}

// Finalize records the terminal bookkeeping for a session: the durable
// completion, the streak outcome, and the consumed word assignment. The
// period sweep calls this too, with the session already marked terminal.
func (s *SessionService) Finalize(ctx context.Context, session *model.GameSession, outcome game.Outcome) error {
	period, err := game.ParsePeriod(session.Period)
	if err != nil {
		return fmt.Errorf("corrupt session period %q: %w", session.Period, err)
	}

	completion := &model.Completion{
		WalletID:    session.WalletID,
		SessionID:   session.ID,
		Period:      session.Period,
		Status:      session.Status,
		GuessCount:  len(session.Guesses),
		CompletedAt: *session.CompletedAt,
	}
	if err := s.completions.Create(ctx, completion); err != nil {
		return fmt.Errorf("failed to record completion: %w", err)
	}

	if _, err := s.streakSvc.Record(ctx, session.WalletID, outcome, period); err != nil {
		return err
	}

	if session.AssignmentID != "" {
		if err := s.wordRepo.MarkUsed(ctx, session.AssignmentID); err != nil {
			return fmt.Errorf("failed to mark assignment used: %w", err)
		}
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToWallet(session.WalletID, "session_complete", map[string]interface{}{
			"sessionId": session.ID,
			"walletId":  session.WalletID,
			"status":    session.Status,
			"answer":    session.Answer,
		})
	}

	return nil
}

func (s *SessionService) drawWord(ctx context.Context, walletID string) (word, assignmentID string, err error) {
	assignment, err := s.wordRepo.NextUnused(ctx, walletID)
	if err != nil {
		return "", "", err
	}
	if assignment != nil {
		return assignment.Word, assignment.ID, nil
	}
	word, err = s.wordRepo.RandomAnswer(ctx)
	return word, "", err
}
