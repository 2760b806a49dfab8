// Package gamesessions hosts live party games. A session pairs a game name
// with the JSON state of its reducer and advances it one action at a time.
package gamesessions

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	ErrSessionNotFound = errors.New("game session not found")
	ErrSessionExists   = errors.New("game session already exists")
	ErrUnknownGame     = errors.New("unknown game")
	// ErrConflict is returned when concurrent writers kept winning the race
	// for the same session.
	ErrConflict = errors.New("game session is busy")
)

type Session struct {
	ID        string          `json:"id"`
	Game      string          `json:"game"`
	OwnerID   string          `json:"ownerId,omitempty"`
	State     json.RawMessage `json:"state"`
	Version   int             `json:"version"`
	Over      bool            `json:"over"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Store keeps sessions for a limited time. Implementations must make Update
// atomic for a single session.
type Store interface {
	Create(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Update(ctx context.Context, id string, fn func(*Session) error) (*Session, error)
	Delete(ctx context.Context, id string) error
}

const (
	idLength  = 6
	idLetters = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// NewID returns a short join code without look-alike characters.
func NewID() string {
	const max = byte(255 - (256 % len(idLetters)))

	out := make([]byte, 0, idLength)
	buf := make([]byte, idLength*2)

	for len(out) < idLength {
		if _, err := rand.Read(buf); err != nil {
			panic(fmt.Sprintf("crypto/rand: %v", err))
		}
		for _, b := range buf {
			if b <= max {
				out = append(out, idLetters[int(b)%len(idLetters)])
				if len(out) == idLength {
					break
				}
			}
		}
	}
	return string(out)
}
