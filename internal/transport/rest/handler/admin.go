package handler

import (
	"encoding/json"
	"net/http"

	"wordstake/internal/game"
	"wordstake/internal/model"
	"wordstake/internal/service"
	"wordstake/internal/transport/rest/middleware"
)

// AdminHandler handles the admin control overlay endpoints
type AdminHandler struct {
	authSvc  *service.AuthService
	adminSvc *service.AdminService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(authSvc *service.AuthService, adminSvc *service.AdminService) *AdminHandler {
	return &AdminHandler{
		authSvc:  authSvc,
		adminSvc: adminSvc,
	}
}

// Login handles POST /v1/admin/login
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.AdminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.authSvc.Login(req.Username, req.Password)
	if err != nil {
		writeGameError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// State handles GET /v1/admin/state
func (h *AdminHandler) State(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.adminSvc.State())
}

// Pause handles POST /v1/admin/pause
func (h *AdminHandler) Pause(w http.ResponseWriter, r *http.Request) {
	adminID := middleware.GetAdminID(r.Context())
	writeJSON(w, http.StatusOK, h.adminSvc.Pause(adminID))
}

// Resume handles POST /v1/admin/resume
func (h *AdminHandler) Resume(w http.ResponseWriter, r *http.Request) {
	adminID := middleware.GetAdminID(r.Context())
	writeJSON(w, http.StatusOK, h.adminSvc.Resume(adminID))
}

// Finish handles POST /v1/admin/finish
func (h *AdminHandler) Finish(w http.ResponseWriter, r *http.Request) {
	adminID := middleware.GetAdminID(r.Context())

	snapshot, err := h.adminSvc.Finish(r.Context(), adminID)
	if err != nil {
		writeGameError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"snapshot": snapshot})
}

// Cancel handles POST /v1/admin/cancel
func (h *AdminHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	adminID := middleware.GetAdminID(r.Context())

	if err := h.adminSvc.Cancel(adminID); err != nil {
		writeGameError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

// Reset handles POST /v1/admin/reset
func (h *AdminHandler) Reset(w http.ResponseWriter, r *http.Request) {
	adminID := middleware.GetAdminID(r.Context())

	if err := h.adminSvc.Reset(r.Context(), adminID); err != nil {
		writeGameError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// QueueWordRequest is the request body for queueing a word assignment
type QueueWordRequest struct {
	WalletID string `json:"wallet"`
	Word     string `json:"word"`
}

// QueueWord handles POST /v1/admin/words
func (h *AdminHandler) QueueWord(w http.ResponseWriter, r *http.Request) {
	adminID := middleware.GetAdminID(r.Context())

	var req QueueWordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.WalletID == "" {
		writeError(w, http.StatusBadRequest, "wallet is required")
		return
	}
	if err := game.ValidateWord(req.Word); err != nil {
		writeGameError(w, err)
		return
	}

	assignment, err := h.adminSvc.QueueWord(r.Context(), adminID, req.WalletID, req.Word)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, assignment)
}
