package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"wordstake/internal/game"
	"wordstake/internal/service"
)

// LeaderboardHandler handles leaderboard and period-clock endpoints
type LeaderboardHandler struct {
	streakSvc *service.StreakService
	clock     *game.Clock
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(streakSvc *service.StreakService, clock *game.Clock) *LeaderboardHandler {
	return &LeaderboardHandler{
		streakSvc: streakSvc,
		clock:     clock,
	}
}

// Top handles GET /v1/leaderboard
func (h *LeaderboardHandler) Top(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if s := r.URL.Query().Get("top"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			limit = n
		}
	}

	entries, err := h.streakSvc.Top(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"leaderboard": entries})
}

// Streak handles GET /v1/streak/{wallet}
func (h *LeaderboardHandler) Streak(w http.ResponseWriter, r *http.Request) {
	walletID := mux.Vars(r)["wallet"]

	rec, err := h.streakSvc.Get(r.Context(), walletID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if rec == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"walletId":      walletID,
			"currentStreak": 0,
			"maxStreak":     0,
			"rank":          0,
		})
		return
	}

	rank, err := h.streakSvc.Rank(r.Context(), walletID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"walletId":           rec.WalletID,
		"currentStreak":      rec.CurrentStreak,
		"maxStreak":          rec.MaxStreak,
		"lastRecordedPeriod": rec.LastRecordedPeriod,
		"updatedAt":          rec.UpdatedAt,
		"rank":               rank,
	})
}

// Period handles GET /v1/period
func (h *LeaderboardHandler) Period(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"currentPeriod":  h.clock.Current().String(),
		"previousPeriod": h.clock.Previous().String(),
		"nextBoundary":   h.clock.NextBoundary().UTC().Format(time.RFC3339),
		"secondsLeft":    int(h.clock.UntilBoundary().Seconds()),
	})
}
