package service

import (
	"context"
	"log"
	"sync"
	"time"

	"wordstake/internal/cache"
	"wordstake/internal/game"
	"wordstake/internal/model"
	"wordstake/internal/repository"
)

// PeriodService runs the boundary-reconciliation sweep: abandoning stale
// sessions, settling every live streak against the period that just ended,
// and refreshing word assignments for the new one.
type PeriodService struct {
	clock       *game.Clock
	sessions    cache.SessionCache
	streakRepo  repository.StreakRepo
	completions repository.CompletionRepo
	wordRepo    repository.WordRepo
	sessionSvc  *SessionService
	streakSvc   *StreakService
	pause       PauseQuery
	broadcaster Broadcaster

	// running guarantees sweeps never overlap.
	running sync.Mutex
}

// NewPeriodService creates a new period service
func NewPeriodService(
	clock *game.Clock,
	sessions cache.SessionCache,
	streakRepo repository.StreakRepo,
	completions repository.CompletionRepo,
	wordRepo repository.WordRepo,
	sessionSvc *SessionService,
	streakSvc *StreakService,
	pause PauseQuery,
) *PeriodService {
	return &PeriodService{
		clock:       clock,
		sessions:    sessions,
		streakRepo:  streakRepo,
		completions: completions,
		wordRepo:    wordRepo,
		sessionSvc:  sessionSvc,
		streakSvc:   streakSvc,
		pause:       pause,
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *PeriodService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Run fires Sweep at every period boundary until ctx is cancelled.
func (s *PeriodService) Run(ctx context.Context) {
	go func() {
		for {
			wait := s.clock.UntilBoundary()
			select {
			case <-ctx.Done():
				return
			case <-time.After(wait + 100*time.Millisecond):
				s.Sweep(ctx)
			}
		}
	}()
}

// Sweep reconciles the boundary between the previous and current periods.
// It refuses to overlap itself; a tick arriving while a sweep is still in
// flight is skipped, not queued. Per-wallet failures are logged and the
// sweep moves on.
func (s *PeriodService) Sweep(ctx context.Context) {
	if !s.running.TryLock() {
		log.Println("Period sweep already running, skipping")
		return
	}
	defer s.running.Unlock()

	ended := s.clock.Previous()
	current := s.clock.Current()

	if s.pause.IsPaused() {
		log.Printf("Period sweep for %s skipped: game is paused", ended)
		return
	}

	log.Printf("Period sweep: %s -> %s", ended, current)

	// Steps 1-2: settle and evict every session from the ended period.
	// Sessions already stamped with the current period (created in the gap
	// between the boundary and this tick) are left alone.
	processed := make(map[string]bool)
	sessions, err := s.sessions.All(ctx)
	if err != nil {
		log.Printf("Period sweep: failed to list sessions: %v", err)
		sessions = nil
	}
	for _, session := range sessions {
		if session.Period == current.String() {
			continue
		}
		if !session.Status.Terminal() {
			now := time.Now()
			session.Status = model.SessionAbandoned
			session.CompletedAt = &now
			if err := s.sessionSvc.Finalize(ctx, session, game.OutcomeIncomplete); err != nil {
				log.Printf("Period sweep: failed to abandon session %s: %v", session.ID, err)
				continue
			}
			processed[session.WalletID] = true
			log.Printf("Period sweep: abandoned session %s (wallet %s)", session.ID, session.WalletID)
		}
		// Terminal sessions were settled synchronously at completion;
		// step 3 sees the recorded outcome and preserves winners on its
		// own. Either way the slot is freed for the new period.
		if err := s.sessions.Delete(ctx, session); err != nil {
			log.Printf("Period sweep: failed to evict session %s: %v", session.ID, err)
		}
	}

	// Step 3: settle every remaining nonzero streak against the ended
	// period. Winners keep their streak untouched; everyone else resets.
	recs, err := s.streakRepo.AllWithStreak(ctx)
	if err != nil {
		log.Printf("Period sweep: failed to list streaks: %v", err)
		recs = nil
	}
	for _, rec := range recs {
		if processed[rec.WalletID] {
			continue
		}
		won, err := s.completions.WonInPeriod(ctx, rec.WalletID, ended.String())
		if err != nil {
			log.Printf("Period sweep: failed to check outcome for wallet %s: %v", rec.WalletID, err)
			continue
		}
		if won {
			if s.broadcaster != nil {
				s.broadcaster.BroadcastToWallet(rec.WalletID, "streak_preserved", map[string]interface{}{
					"walletId":      rec.WalletID,
					"currentStreak": rec.CurrentStreak,
					"period":        current.String(),
				})
			}
			continue
		}
		if _, err := s.streakSvc.Record(ctx, rec.WalletID, game.OutcomeLoss, ended); err != nil {
			log.Printf("Period sweep: failed to reset streak for wallet %s: %v", rec.WalletID, err)
		}
	}

	// Step 4: refresh system word assignments for the new period.
	s.refreshAssignments(ctx)

	// Step 5: tell everyone the board is fresh.
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToAll("period_transition", map[string]interface{}{
			"endedPeriod":   ended.String(),
			"currentPeriod": current.String(),
		})
	}
}

// refreshAssignments queues a system word for every known wallet that has
// no unused assignment. Admin-queued words survive untouched and keep
// precedence.
func (s *PeriodService) refreshAssignments(ctx context.Context) {
	recs, err := s.streakRepo.All(ctx)
	if err != nil {
		log.Printf("Period sweep: failed to list wallets for assignment refresh: %v", err)
		return
	}
	for _, rec := range recs {
		has, err := s.wordRepo.HasUnused(ctx, rec.WalletID)
		if err != nil || has {
			if err != nil {
				log.Printf("Period sweep: failed to check assignments for wallet %s: %v", rec.WalletID, err)
			}
			continue
		}
		word, err := s.wordRepo.RandomAnswer(ctx)
		if err != nil {
			log.Printf("Period sweep: failed to draw word for wallet %s: %v", rec.WalletID, err)
			continue
		}
		assignment := &model.WordAssignment{
			WalletID:   rec.WalletID,
			Word:       word,
			AssignedBy: model.AssignedBySystem,
		}
		if err := s.wordRepo.Queue(ctx, assignment); err != nil {
			log.Printf("Period sweep: failed to queue word for wallet %s: %v", rec.WalletID, err)
		}
	}
}
