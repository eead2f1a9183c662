package service

// Broadcaster interface for WebSocket broadcasting (avoids import cycle).
// Delivery is best-effort; a failed broadcast never rolls back state.
type Broadcaster interface {
	BroadcastToWallet(walletID string, msgType string, payload interface{})
	BroadcastToAll(msgType string, payload interface{})
}

// PauseQuery is the read-only view of the admin overlay that mutating game
// operations consult. AdminService implements it.
type PauseQuery interface {
	IsPaused() bool
}
