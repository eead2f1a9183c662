package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Game events
const (
	MsgSessionStarted   MessageType = "session_started"
	MsgGuessScored      MessageType = "guess_scored"
	MsgSessionComplete  MessageType = "session_complete"
	MsgStreakChanged    MessageType = "streak_changed"
	MsgStreakPreserved  MessageType = "streak_preserved"
	MsgPeriodTransition MessageType = "period_transition"
	MsgDepositRecorded  MessageType = "deposit_recorded"
	MsgWordAssigned     MessageType = "word_assigned"
)

// Overlay events
const (
	MsgPaused    MessageType = "paused"
	MsgResumed   MessageType = "resumed"
	MsgFinished  MessageType = "finished"
	MsgCancelled MessageType = "cancelled"
	MsgReset     MessageType = "reset"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub manages WebSocket connections: one stream per wallet plus any number
// of watcher streams that see everything.
type Hub struct {
	walletConns map[string]*Connection
	watchers    map[*Connection]bool

	mu sync.RWMutex

	// Channels for coordination
	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
}

// Connection represents a WebSocket connection
type Connection struct {
	WalletID  string // Empty for watcher connections
	IsWatcher bool
	Send      chan []byte
	Hub       *Hub
}

// BroadcastMessage is a message to broadcast
type BroadcastMessage struct {
	ToWallet string // Empty means everyone
	Message  *Message
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		walletConns: make(map[string]*Connection),
		watchers:    make(map[*Connection]bool),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		broadcast:   make(chan *BroadcastMessage, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if conn.IsWatcher {
				h.watchers[conn] = true
				log.Println("Watcher connected")
			} else {
				if existing, ok := h.walletConns[conn.WalletID]; ok {
					close(existing.Send)
				}
				h.walletConns[conn.WalletID] = conn
				log.Printf("Wallet %s connected", conn.WalletID)
			}
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			if conn.IsWatcher {
				if h.watchers[conn] {
					delete(h.watchers, conn)
					close(conn.Send)
					log.Println("Watcher disconnected")
				}
			} else {
				if existing, ok := h.walletConns[conn.WalletID]; ok && existing == conn {
					delete(h.walletConns, conn.WalletID)
					close(conn.Send)
					log.Printf("Wallet %s disconnected", conn.WalletID)
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Message)

			if msg.ToWallet != "" {
				if conn, ok := h.walletConns[msg.ToWallet]; ok {
					select {
					case conn.Send <- data:
					default:
						// Drop message if buffer full
					}
				}
				// Watchers mirror every wallet event.
				for conn := range h.watchers {
					select {
					case conn.Send <- data:
					default:
					}
				}
			} else {
				for _, conn := range h.walletConns {
					select {
					case conn.Send <- data:
					default:
					}
				}
				for conn := range h.watchers {
					select {
					case conn.Send <- data:
					default:
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// BroadcastToWallet sends a message to one wallet (implements service.Broadcaster)
func (h *Hub) BroadcastToWallet(walletID string, msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		ToWallet: walletID,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}

// BroadcastToAll sends a message to every connection (implements service.Broadcaster)
func (h *Hub) BroadcastToAll(msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}
