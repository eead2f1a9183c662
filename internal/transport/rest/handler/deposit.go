package handler

import (
	"encoding/json"
	"net/http"

	"wordstake/internal/service"
)

// DepositHandler handles deposit endpoints
type DepositHandler struct {
	depositSvc *service.DepositService
}

// NewDepositHandler creates a new deposit handler
func NewDepositHandler(depositSvc *service.DepositService) *DepositHandler {
	return &DepositHandler{depositSvc: depositSvc}
}

// DepositRequest is the request body for recording a deposit. The proof
// token is the on-chain transaction signature, accepted as already proven.
type DepositRequest struct {
	WalletID   string  `json:"wallet"`
	ProofToken string  `json:"proof"`
	Amount     float64 `json:"amount"`
}

// Record handles POST /v1/deposit
func (h *DepositHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.WalletID == "" || req.ProofToken == "" {
		writeError(w, http.StatusBadRequest, "wallet and proof are required")
		return
	}

	dep, err := h.depositSvc.Record(r.Context(), req.WalletID, req.ProofToken, req.Amount)
	if err != nil {
		writeGameError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dep)
}
