// Package registry exposes every party game behind one JSON-in/JSON-out
// interface so sessions can store and advance any game without knowing its
// concrete state type.
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"PartyHub/games/taboo"
	"PartyHub/games/trivia"
)

var ErrBadPayload = errors.New("malformed game payload")

type Game interface {
	Name() string
	New(setup json.RawMessage) (json.RawMessage, error)
	Apply(state, action json.RawMessage) (json.RawMessage, error)
	Over(state json.RawMessage) (bool, error)
}

// Define adapts a typed reducer to Game.
func Define[S, A, C any](name string, newFn func(C) (S, error), reduce func(S, A) (S, error), over func(S) bool) Game {
	return &definition[S, A, C]{name: name, newFn: newFn, reduce: reduce, over: over}
}

type definition[S, A, C any] struct {
	name   string
	newFn  func(C) (S, error)
	reduce func(S, A) (S, error)
	over   func(S) bool
}

func (d *definition[S, A, C]) Name() string { return d.name }

func (d *definition[S, A, C]) New(setup json.RawMessage) (json.RawMessage, error) {
	var c C
	if err := decode(setup, &c); err != nil {
		return nil, err
	}
	s, err := d.newFn(c)
	if err != nil {
		return nil, err
	}
	return json.Marshal(s)
}

func (d *definition[S, A, C]) Apply(state, action json.RawMessage) (json.RawMessage, error) {
	var s S
	if err := decode(state, &s); err != nil {
		return nil, err
	}
	var a A
	if err := decode(action, &a); err != nil {
		return nil, err
	}
	next, err := d.reduce(s, a)
	if err != nil {
		return nil, err
	}
	return json.Marshal(next)
}

func (d *definition[S, A, C]) Over(state json.RawMessage) (bool, error) {
	var s S
	if err := decode(state, &s); err != nil {
		return false, err
	}
	return d.over(s), nil
}

func decode(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	return nil
}

type Registry struct {
	mu    sync.RWMutex
	games map[string]Game
}

func New(gs ...Game) *Registry {
	r := &Registry{games: make(map[string]Game, len(gs))}
	for _, g := range gs {
		r.Register(g)
	}
	return r
}

// Default returns a registry holding every built-in game.
func Default() *Registry {
	return New(
		Define(taboo.Name, taboo.New, taboo.Reduce, taboo.Over),
		Define(trivia.Name, trivia.New, trivia.Reduce, trivia.Over),
	)
}

func (r *Registry) Register(g Game) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.games[g.Name()] = g
}

func (r *Registry) Lookup(name string) (Game, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.games[name]
	return g, ok
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.games))
	for n := range r.games {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
