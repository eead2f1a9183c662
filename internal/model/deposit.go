package model

import "time"

// DepositRecord is one wallet's entry stake for one period. The proof token
// is an opaque transaction signature accepted as already proven.
type DepositRecord struct {
	ID            string    `json:"id" bson:"_id,omitempty"`
	WalletID      string    `json:"walletId" bson:"walletId"`
	Period        string    `json:"period" bson:"period"`
	ProofToken    string    `json:"proofToken" bson:"proofToken"`
	Amount        float64   `json:"amount" bson:"amount"`
	RecordedAt    time.Time `json:"recordedAt" bson:"recordedAt"`
	IsGracePeriod bool      `json:"isGracePeriod" bson:"isGracePeriod"`
}
