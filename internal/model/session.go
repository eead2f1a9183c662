package model

import (
	"time"

	"wordstake/internal/game"
)

type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionWon       SessionStatus = "won"
	SessionLost      SessionStatus = "lost"
	SessionAbandoned SessionStatus = "abandoned"
)

// Terminal reports whether the status permits no further transitions.
func (s SessionStatus) Terminal() bool {
	return s == SessionWon || s == SessionLost || s == SessionAbandoned
}

// Guess is a single scored attempt within a session.
type Guess struct {
	Word      string      `json:"word" bson:"word"`
	Marks     []game.Mark `json:"marks" bson:"marks"`
	GuessedAt time.Time   `json:"guessedAt" bson:"guessedAt"`
}

// GameSession is one wallet's game for a period. This is the internal
// representation (cached and archived in full); clients only ever see the
// View, which hides the answer until the session is terminal.
type GameSession struct {
	ID       string `json:"id" bson:"_id,omitempty"`
	WalletID string `json:"walletId" bson:"walletId"`
	Answer   string `json:"answer" bson:"answer"`
	// AssignmentID links the consumed WordAssignment so it can be marked
	// used on completion. Empty when the word was drawn from the pool.
	AssignmentID string        `json:"assignmentId,omitempty" bson:"assignmentId,omitempty"`
	Guesses      []Guess       `json:"guesses" bson:"guesses"`
	MaxGuesses   int           `json:"maxGuesses" bson:"maxGuesses"`
	Status       SessionStatus `json:"status" bson:"status"`
	Period       string        `json:"period" bson:"period"`
	StartedAt    time.Time     `json:"startedAt" bson:"startedAt"`
	LastGuessAt  time.Time     `json:"lastGuessAt" bson:"lastGuessAt"`
	CompletedAt  *time.Time    `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
}

// SessionView is the session as returned to clients. The answer is only
// populated once the game is over.
type SessionView struct {
	ID          string        `json:"id"`
	WalletID    string        `json:"walletId"`
	Answer      string        `json:"answer,omitempty"`
	Guesses     []Guess       `json:"guesses"`
	MaxGuesses  int           `json:"maxGuesses"`
	Status      SessionStatus `json:"status"`
	Period      string        `json:"period"`
	StartedAt   time.Time     `json:"startedAt"`
	CompletedAt *time.Time    `json:"completedAt,omitempty"`
}

// View builds the client-facing form of the session.
func (s *GameSession) View() *SessionView {
	v := &SessionView{
		ID:          s.ID,
		WalletID:    s.WalletID,
		Guesses:     s.Guesses,
		MaxGuesses:  s.MaxGuesses,
		Status:      s.Status,
		Period:      s.Period,
		StartedAt:   s.StartedAt,
		CompletedAt: s.CompletedAt,
	}
	if s.Status.Terminal() {
		v.Answer = s.Answer
	}
	return v
}
