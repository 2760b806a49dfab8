// Package deck implements a draw pile over a fixed pool of card ids. Draws
// never repeat an id until every id in the pool has been used, at which point
// the pile reshuffles the whole pool.
package deck

import (
	"errors"
	"math/rand/v2"
)

var ErrEmptyDeck = errors.New("deck is empty")

// Deck is a value type; Draw returns a new Deck and never touches the slices
// of the one it was given.
type Deck struct {
	Pool       []string `json:"pool"`
	Used       []string `json:"used"`
	Seed       uint64   `json:"seed"`
	Reshuffles int      `json:"reshuffles"`
}

// New builds a deck over ids, dropping empty and repeated ids.
func New(ids []string, seed uint64) (Deck, error) {
	pool := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		pool = append(pool, id)
	}
	if len(pool) == 0 {
		return Deck{}, ErrEmptyDeck
	}
	return Deck{Pool: pool, Seed: seed}, nil
}

// Remaining returns how many ids can be drawn before the next reshuffle.
func (d Deck) Remaining() int {
	return len(d.available())
}

// Draw picks the next id. The pick is a pure function of the deck value.
func Draw(d Deck) (Deck, string, error) {
	if len(d.Pool) == 0 {
		return d, "", ErrEmptyDeck
	}

	next := Deck{
		Pool:       d.Pool,
		Used:       append([]string(nil), d.Used...),
		Seed:       d.Seed,
		Reshuffles: d.Reshuffles,
	}

	avail := next.available()
	if len(avail) == 0 {
		next.Used = nil
		next.Reshuffles++
		avail = next.Pool
	}

	rng := rand.New(rand.NewPCG(next.Seed, uint64(next.Reshuffles)<<32|uint64(len(next.Used))))
	id := avail[rng.IntN(len(avail))]
	next.Used = append(next.Used, id)

	return next, id, nil
}

func (d Deck) available() []string {
	if len(d.Used) == 0 {
		return d.Pool
	}
	used := make(map[string]bool, len(d.Used))
	for _, id := range d.Used {
		used[id] = true
	}
	out := make([]string, 0, len(d.Pool)-len(used))
	for _, id := range d.Pool {
		if !used[id] {
			out = append(out, id)
		}
	}
	return out
}
