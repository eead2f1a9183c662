package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"wordstake/internal/cache"
	"wordstake/internal/game"
	"wordstake/internal/model"
	"wordstake/internal/repository"
)

// StreakService applies ledger outcomes to wallets and keeps the redis
// leaderboard in step with the durable streak records.
type StreakService struct {
	streakRepo  repository.StreakRepo
	leaderboard cache.LeaderboardCache
	broadcaster Broadcaster
}

// NewStreakService creates a new streak service
func NewStreakService(streakRepo repository.StreakRepo, leaderboard cache.LeaderboardCache) *StreakService {
	return &StreakService{
		streakRepo:  streakRepo,
		leaderboard: leaderboard,
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *StreakService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Record applies an outcome for period to the wallet's streak and persists
// the result.
func (s *StreakService) Record(ctx context.Context, walletID string, outcome game.Outcome, period game.Period) (*model.StreakRecord, error) {
	rec, err := s.streakRepo.Get(ctx, walletID)
	if err != nil {
		return nil, fmt.Errorf("failed to get streak: %w", err)
	}
	if rec == nil {
		rec = &model.StreakRecord{WalletID: walletID}
	}

	rec.SetState(game.ApplyOutcome(rec.State(), outcome, period))

	if err := s.streakRepo.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to save streak: %w", err)
	}
	if err := s.leaderboard.UpdateStreak(ctx, walletID, rec.MaxStreak); err != nil {
		return nil, fmt.Errorf("failed to update leaderboard: %w", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToWallet(walletID, "streak_changed", map[string]interface{}{
			"walletId":      walletID,
			"outcome":       outcome,
			"currentStreak": rec.CurrentStreak,
			"maxStreak":     rec.MaxStreak,
		})
	}

	return rec, nil
}

// Get retrieves a wallet's streak record, or nil if it has none.
func (s *StreakService) Get(ctx context.Context, walletID string) (*model.StreakRecord, error) {
	return s.streakRepo.Get(ctx, walletID)
}

// Rank returns the wallet's 1-indexed leaderboard position, 0 if it has
// never placed.
func (s *StreakService) Rank(ctx context.Context, walletID string) (int64, error) {
	return s.leaderboard.GetRank(ctx, walletID)
}

// Top returns the leaderboard from redis.
func (s *StreakService) Top(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	return s.leaderboard.GetTop(ctx, limit)
}

// Snapshot builds an immutable leaderboard snapshot from the full streak
// set in mongo, sorted by max streak descending.
func (s *StreakService) Snapshot(ctx context.Context, limit int) (*model.LeaderboardSnapshot, error) {
	recs, err := s.streakRepo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list streaks: %w", err)
	}

	sort.Slice(recs, func(i, j int) bool {
		return recs[i].MaxStreak > recs[j].MaxStreak
	})
	if len(recs) > limit {
		recs = recs[:limit]
	}

	entries := make([]model.LeaderboardEntry, len(recs))
	for i, rec := range recs {
		entries[i] = model.LeaderboardEntry{
			WalletID:      rec.WalletID,
			MaxStreak:     rec.MaxStreak,
			CurrentStreak: rec.CurrentStreak,
			Rank:          i + 1,
		}
	}

	return &model.LeaderboardSnapshot{
		Entries:    entries,
		CapturedAt: time.Now(),
	}, nil
}
