package gamesessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"PartyHub/games/registry"
)

const createAttempts = 5

type Service struct {
	store Store
	games *registry.Registry
	now   func() time.Time
	newID func() string
}

func NewService(store Store, games *registry.Registry) *Service {
	return &Service{
		store: store,
		games: games,
		now:   time.Now,
		newID: NewID,
	}
}

// Games lists the games sessions can be created for.
func (s *Service) Games() []string {
	return s.games.Names()
}

// Create starts a new session of game. ownerID may be empty for guests.
func (s *Service) Create(ctx context.Context, game, ownerID string, setup json.RawMessage) (*Session, error) {
	g, ok := s.games.Lookup(game)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGame, game)
	}

	state, err := g.New(setup)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	sess := &Session{
		Game:      game,
		OwnerID:   ownerID,
		State:     state,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// ids are short, so retry on the rare collision
	for i := 0; i < createAttempts; i++ {
		sess.ID = s.newID()
		err = s.store.Create(ctx, sess)
		if !errors.Is(err, ErrSessionExists) {
			break
		}
	}
	if err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Session, error) {
	return s.store.Get(ctx, id)
}

// Apply runs action through the session's reducer and stores the result.
func (s *Service) Apply(ctx context.Context, id string, action json.RawMessage) (*Session, error) {
	return s.store.Update(ctx, id, func(sess *Session) error {
		g, ok := s.games.Lookup(sess.Game)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownGame, sess.Game)
		}

		next, err := g.Apply(sess.State, action)
		if err != nil {
			return err
		}
		over, err := g.Over(next)
		if err != nil {
			return err
		}

		sess.State = next
		sess.Over = over
		sess.Version++
		sess.UpdatedAt = s.now().UTC()
		return nil
	})
}

// End discards a session.
func (s *Service) End(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}
