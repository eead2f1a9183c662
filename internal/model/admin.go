package model

import "time"

// LeaderboardEntry is one row of a leaderboard, ranked by max streak.
type LeaderboardEntry struct {
	WalletID      string `json:"walletId" bson:"walletId"`
	MaxStreak     int    `json:"maxStreak" bson:"maxStreak"`
	CurrentStreak int    `json:"currentStreak" bson:"currentStreak"`
	Rank          int    `json:"rank" bson:"rank"`
}

// LeaderboardSnapshot is the immutable top-3 captured when the game is
// finished.
type LeaderboardSnapshot struct {
	Entries    []LeaderboardEntry `json:"entries" bson:"entries"`
	CapturedAt time.Time          `json:"capturedAt" bson:"capturedAt"`
}

// OverlayState is the process-wide admin control record. All mutating game
// operations consult it; only authenticated admin actions change it.
type OverlayState struct {
	Paused   bool       `json:"paused"`
	PausedBy string     `json:"pausedBy,omitempty"`
	PausedAt *time.Time `json:"pausedAt,omitempty"`

	Finished   bool                 `json:"finished"`
	FinishedBy string               `json:"finishedBy,omitempty"`
	FinishedAt *time.Time           `json:"finishedAt,omitempty"`
	Snapshot   *LeaderboardSnapshot `json:"leaderboardSnapshot,omitempty"`
}
