package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"wordstake/internal/cache"
	"wordstake/internal/model"
	"wordstake/internal/repository"
)

// Leaderboard snapshot depth captured on finish.
const snapshotSize = 3

var (
	ErrAlreadyFinished = errors.New("game is already finished")
	ErrNotFinished     = errors.New("game is not finished")
)

// AdminService owns the process-wide overlay state: the pause flag that
// gates mutating game operations and the finish flag with its immutable
// leaderboard snapshot. It implements PauseQuery.
type AdminService struct {
	mu    sync.RWMutex
	state model.OverlayState

	sessions    cache.SessionCache
	leaderboard cache.LeaderboardCache
	streakRepo  repository.StreakRepo
	depositRepo repository.DepositRepo
	completions repository.CompletionRepo
	wordRepo    repository.WordRepo
	streakSvc   *StreakService
	broadcaster Broadcaster
}

// NewAdminService creates a new admin service
func NewAdminService(
	sessions cache.SessionCache,
	leaderboard cache.LeaderboardCache,
	streakRepo repository.StreakRepo,
	depositRepo repository.DepositRepo,
	completions repository.CompletionRepo,
	wordRepo repository.WordRepo,
	streakSvc *StreakService,
) *AdminService {
	return &AdminService{
		sessions:    sessions,
		leaderboard: leaderboard,
		streakRepo:  streakRepo,
		depositRepo: depositRepo,
		completions: completions,
		wordRepo:    wordRepo,
		streakSvc:   streakSvc,
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *AdminService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// IsPaused implements PauseQuery.
func (s *AdminService) IsPaused() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Paused
}

// State returns a copy of the overlay state.
func (s *AdminService) State() model.OverlayState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Pause blocks createSession and submitGuess until Resume. Idempotent.
func (s *AdminService) Pause(adminID string) model.OverlayState {
	s.mu.Lock()
	if !s.state.Paused {
		now := time.Now()
		s.state.Paused = true
		s.state.PausedBy = adminID
		s.state.PausedAt = &now
	}
	state := s.state
	s.mu.Unlock()

	log.Printf("Admin %s paused the game", adminID)
	s.broadcast("paused", map[string]interface{}{"by": adminID})
	return state
}

// Resume clears the pause flag. Idempotent.
func (s *AdminService) Resume(adminID string) model.OverlayState {
	s.mu.Lock()
	s.state.Paused = false
	s.state.PausedBy = ""
	s.state.PausedAt = nil
	state := s.state
	s.mu.Unlock()

	log.Printf("Admin %s resumed the game", adminID)
	s.broadcast("resumed", map[string]interface{}{"by": adminID})
	return state
}

// Finish captures a top-3 leaderboard snapshot from the full streak set and
// marks the game finished.
func (s *AdminService) Finish(ctx context.Context, adminID string) (*model.LeaderboardSnapshot, error) {
	s.mu.Lock()
	if s.state.Finished {
		s.mu.Unlock()
		return nil, ErrAlreadyFinished
	}
	s.mu.Unlock()

	snapshot, err := s.streakSvc.Snapshot(ctx, snapshotSize)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot leaderboard: %w", err)
	}

	s.mu.Lock()
	now := time.Now()
	s.state.Finished = true
	s.state.FinishedBy = adminID
	s.state.FinishedAt = &now
	s.state.Snapshot = snapshot
	s.mu.Unlock()

	log.Printf("Admin %s finished the game (%d leaderboard entries)", adminID, len(snapshot.Entries))
	s.broadcast("finished", map[string]interface{}{
		"by":       adminID,
		"snapshot": snapshot,
	})
	return snapshot, nil
}

// Cancel clears the finish flag and discards the snapshot.
func (s *AdminService) Cancel(adminID string) error {
	s.mu.Lock()
	if !s.state.Finished {
		s.mu.Unlock()
		return ErrNotFinished
	}
	s.state.Finished = false
	s.state.FinishedBy = ""
	s.state.FinishedAt = nil
	s.state.Snapshot = nil
	s.mu.Unlock()

	log.Printf("Admin %s cancelled the finish", adminID)
	s.broadcast("cancelled", map[string]interface{}{"by": adminID})
	return nil
}

// Reset wipes sessions, streaks, deposits, the leaderboard and all word
// assignments, and clears the overlay flags with them. The overlay lock is
// held throughout so no flag survives a partially applied reset.
func (s *AdminService) Reset(ctx context.Context, adminID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear sessions: %w", err)
	}
	if err := s.streakRepo.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear streaks: %w", err)
	}
	if err := s.depositRepo.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear deposits: %w", err)
	}
	if err := s.completions.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear completions: %w", err)
	}
	if err := s.leaderboard.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear leaderboard: %w", err)
	}
	if err := s.wordRepo.ClearAssignments(ctx); err != nil {
		return fmt.Errorf("failed to clear word assignments: %w", err)
	}

	s.state = model.OverlayState{}

	log.Printf("Admin %s reset all game state", adminID)
	s.broadcast("reset", map[string]interface{}{"by": adminID})
	return nil
}

// QueueWord queues an admin word assignment that pre-empts random word
// selection for the wallet's next session.
func (s *AdminService) QueueWord(ctx context.Context, adminID, walletID, word string) (*model.WordAssignment, error) {
	assignment := &model.WordAssignment{
		WalletID:   walletID,
		Word:       word,
		AssignedBy: adminID,
	}
	if err := s.wordRepo.Queue(ctx, assignment); err != nil {
		return nil, fmt.Errorf("failed to queue word assignment: %w", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToWallet(walletID, "word_assigned", map[string]interface{}{
			"walletId":   walletID,
			"assignedBy": adminID,
		})
	}
	return assignment, nil
}

func (s *AdminService) broadcast(msgType string, payload interface{}) {
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToAll(msgType, payload)
	}
}
