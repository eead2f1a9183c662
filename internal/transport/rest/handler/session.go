package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"wordstake/internal/service"
)

// Signed action names. Each mutating call signs
// "<namespace>-<action>-<sessionId>-<data>-<timestamp>".
const (
	actionCreate  = "create"
	actionGuess   = "guess"
	actionAbandon = "abandon"
)

// SessionHandler handles game session endpoints
type SessionHandler struct {
	sessionSvc *service.SessionService
	authSvc    *service.AuthService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionSvc *service.SessionService, authSvc *service.AuthService) *SessionHandler {
	return &SessionHandler{
		sessionSvc: sessionSvc,
		authSvc:    authSvc,
	}
}

// CreateSessionRequest is the request body for starting a game
type CreateSessionRequest struct {
	WalletID   string `json:"wallet"`
	MaxGuesses int    `json:"maxGuesses"`
	Timestamp  int64  `json:"ts"`
	Signature  string `json:"sig"`
}

// Create handles POST /v1/session
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	data := strconv.Itoa(req.MaxGuesses)
	if err := h.authSvc.VerifyWalletRequest(req.WalletID, actionCreate, "", data, req.Timestamp, req.Signature); err != nil {
		writeGameError(w, err)
		return
	}

	session, err := h.sessionSvc.Create(r.Context(), req.WalletID, req.MaxGuesses)
	if err != nil {
		writeGameError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, session.View())
}

// GuessRequest is the request body for submitting a guess
type GuessRequest struct {
	WalletID  string `json:"wallet"`
	Guess     string `json:"guess"`
	Timestamp int64  `json:"ts"`
	Signature string `json:"sig"`
}

// Guess handles POST /v1/session/{id}/guess
func (h *SessionHandler) Guess(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req GuessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.authSvc.VerifyWalletRequest(req.WalletID, actionGuess, sessionID, req.Guess, req.Timestamp, req.Signature); err != nil {
		writeGameError(w, err)
		return
	}

	session, err := h.sessionSvc.Guess(r.Context(), sessionID, req.WalletID, req.Guess)
	if err != nil {
		writeGameError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, session.View())
}

// AbandonRequest is the request body for abandoning a session
type AbandonRequest struct {
	WalletID  string `json:"wallet"`
	Timestamp int64  `json:"ts"`
	Signature string `json:"sig"`
}

// Abandon handles POST /v1/session/{id}/abandon
func (h *SessionHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req AbandonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.authSvc.VerifyWalletRequest(req.WalletID, actionAbandon, sessionID, "", req.Timestamp, req.Signature); err != nil {
		writeGameError(w, err)
		return
	}

	session, err := h.sessionSvc.Abandon(r.Context(), sessionID, req.WalletID)
	if err != nil {
		writeGameError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, session.View())
}

// Active handles GET /v1/session/active/{wallet}
func (h *SessionHandler) Active(w http.ResponseWriter, r *http.Request) {
	walletID := mux.Vars(r)["wallet"]

	session, err := h.sessionSvc.Active(r.Context(), walletID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if session == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"session": nil})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"session": session.View()})
}
