package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"wordstake/internal/game"
	"wordstake/internal/service"
)

// Helper functions
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeGameError maps the expected game error set onto HTTP statuses and
// falls back to 500 for anything unexpected.
func writeGameError(w http.ResponseWriter, err error) {
	writeError(w, statusFor(err), err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrInvalidWord),
		errors.Is(err, game.ErrMissingParams):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrStaleTimestamp),
		errors.Is(err, game.ErrBadSignature),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, game.ErrDepositRequired):
		return http.StatusPaymentRequired
	case errors.Is(err, game.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, game.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrSessionConflict),
		errors.Is(err, game.ErrAlreadyPlayed),
		errors.Is(err, game.ErrDuplicateDeposit),
		errors.Is(err, game.ErrSessionComplete),
		errors.Is(err, game.ErrSessionExpired),
		errors.Is(err, service.ErrAlreadyFinished),
		errors.Is(err, service.ErrNotFinished):
		return http.StatusConflict
	case errors.Is(err, game.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, game.ErrPaused):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
