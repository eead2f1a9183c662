package model

import (
	"time"

	"wordstake/internal/game"
)

// StreakRecord tracks a wallet's run of consecutive winning periods.
type StreakRecord struct {
	WalletID           string    `json:"walletId" bson:"_id"`
	CurrentStreak      int       `json:"currentStreak" bson:"currentStreak"`
	MaxStreak          int       `json:"maxStreak" bson:"maxStreak"`
	LastRecordedPeriod string    `json:"lastRecordedPeriod" bson:"lastRecordedPeriod"`
	UpdatedAt          time.Time `json:"updatedAt" bson:"updatedAt"`
}

// State extracts the pure ledger view of the record.
func (r *StreakRecord) State() game.StreakState {
	return game.StreakState{
		Current:    r.CurrentStreak,
		Max:        r.MaxStreak,
		LastPeriod: r.LastRecordedPeriod,
	}
}

// SetState writes a ledger result back onto the record.
func (r *StreakRecord) SetState(st game.StreakState) {
	r.CurrentStreak = st.Current
	r.MaxStreak = st.Max
	r.LastRecordedPeriod = st.LastPeriod
	r.UpdatedAt = time.Now()
}

// Completion is the durable record of a terminal session, scoped to the
// period it finished in. It answers "did this wallet win period P" and
// "has this wallet already played period P".
type Completion struct {
	ID          string        `json:"id" bson:"_id,omitempty"`
	WalletID    string        `json:"walletId" bson:"walletId"`
	SessionID   string        `json:"sessionId" bson:"sessionId"`
	Period      string        `json:"period" bson:"period"`
	Status      SessionStatus `json:"status" bson:"status"`
	GuessCount  int           `json:"guessCount" bson:"guessCount"`
	CompletedAt time.Time     `json:"completedAt" bson:"completedAt"`
}
