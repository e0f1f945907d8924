package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ChatTurn is one question/response exchange with the advisor. Turns are
// append-only and ordered by creation time.
type ChatTurn struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Question  string    `json:"question"`
	Response  string    `json:"response"`
	Career    string    `json:"career,omitempty"` // career selected when the question was asked
}
