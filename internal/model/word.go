package model

import "time"

// AssignedBySystem marks assignments queued by the period sweep rather than
// an admin.
const AssignedBySystem = "system"

// WordAssignment is a queued word that pre-empts random selection for a
// wallet's next session. First unused entry wins.
type WordAssignment struct {
	ID         string    `json:"id" bson:"_id,omitempty"`
	WalletID   string    `json:"walletId" bson:"walletId"`
	Word       string    `json:"word" bson:"word"`
	AssignedAt time.Time `json:"assignedAt" bson:"assignedAt"`
	AssignedBy string    `json:"assignedBy" bson:"assignedBy"`
	Used       bool      `json:"used" bson:"used"`
}

// AnswerWord is one entry in the answer pool.
type AnswerWord struct {
	Word    string    `json:"word" bson:"_id"`
	AddedAt time.Time `json:"addedAt" bson:"addedAt"`
}
