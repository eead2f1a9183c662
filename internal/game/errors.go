package game

import "errors"

// Expected game outcomes surfaced to callers. Transport maps these to HTTP
// statuses; services wrap everything else with fmt.Errorf.
var (
	ErrInvalidWord      = errors.New("word must be exactly 5 letters a-z")
	ErrMissingParams    = errors.New("missing required parameters")
	ErrStaleTimestamp   = errors.New("timestamp outside allowed window")
	ErrBadSignature     = errors.New("signature verification failed")
	ErrSessionConflict  = errors.New("wallet already has an active session")
	ErrDepositRequired  = errors.New("no deposit recorded for current period")
	ErrAlreadyPlayed    = errors.New("wallet already completed a game this period")
	ErrNotFound         = errors.New("session not found")
	ErrForbidden        = errors.New("session belongs to another wallet")
	ErrSessionComplete  = errors.New("session is already complete")
	ErrSessionExpired   = errors.New("session expired")
	ErrRateLimited      = errors.New("guessing too fast")
	ErrPaused           = errors.New("game is paused")
	ErrDuplicateDeposit = errors.New("deposit already recorded for this period")
)
