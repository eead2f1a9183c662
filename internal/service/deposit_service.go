package service

import (
	"context"
	"fmt"

	"wordstake/internal/game"
	"wordstake/internal/model"
	"wordstake/internal/repository"
)

// DepositService records per-period deposits and handles the grace-period
// fold just after a boundary.
type DepositService struct {
	depositRepo repository.DepositRepo
	clock       *game.Clock
	broadcaster Broadcaster
}

// NewDepositService creates a new deposit service
func NewDepositService(depositRepo repository.DepositRepo, clock *game.Clock) *DepositService {
	return &DepositService{
		depositRepo: depositRepo,
		clock:       clock,
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *DepositService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Record credits a deposit to the current period. Inside the grace window a
// deposit made against the previous period is folded forward instead of
// rejected or duplicated.
func (s *DepositService) Record(ctx context.Context, walletID, proofToken string, amount float64) (*model.DepositRecord, error) {
	now := s.clock.Time()
	current := s.clock.Current().String()

	has, err := s.depositRepo.Has(ctx, walletID, current)
	if err != nil {
		return nil, fmt.Errorf("failed to check deposit: %w", err)
	}
	if has {
		return nil, game.ErrDuplicateDeposit
	}

	if s.clock.InGrace(now) {
		previous := s.clock.Previous().String()
		folded, err := s.depositRepo.Convert(ctx, walletID, previous, current)
		if err != nil {
			return nil, fmt.Errorf("failed to fold deposit: %w", err)
		}
		if folded {
			dep, err := s.depositRepo.Get(ctx, walletID, current)
			if err != nil {
				return nil, fmt.Errorf("failed to load folded deposit: %w", err)
			}
			s.broadcastRecorded(dep)
			return dep, nil
		}
	}

	dep := &model.DepositRecord{
		WalletID:   walletID,
		Period:     current,
		ProofToken: proofToken,
		Amount:     amount,
		RecordedAt: now,
	}
	if err := s.depositRepo.Create(ctx, dep); err != nil {
		return nil, fmt.Errorf("failed to record deposit: %w", err)
	}

	s.broadcastRecorded(dep)
	return dep, nil
}

// HasForCurrentPeriod reports whether the wallet has paid into the period
// in progress.
func (s *DepositService) HasForCurrentPeriod(ctx context.Context, walletID string) (bool, error) {
	return s.depositRepo.Has(ctx, walletID, s.clock.Current().String())
}

func (s *DepositService) broadcastRecorded(dep *model.DepositRecord) {
	if s.broadcaster == nil || dep == nil {
		return
	}
	s.broadcaster.BroadcastToWallet(dep.WalletID, "deposit_recorded", map[string]interface{}{
		"walletId":      dep.WalletID,
		"period":        dep.Period,
		"amount":        dep.Amount,
		"isGracePeriod": dep.IsGracePeriod,
	})
}
