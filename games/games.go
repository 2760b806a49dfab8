// Package games holds the pieces shared by every party game reducer: the
// phase machine and the errors a reducer can return.
package games

import (
	"errors"
	"strings"
)

// Phase is the stage a game is in. Every game walks the same machine:
// setup -> instructions -> playing <-> round_summary -> game_over.
type Phase string

const (
	PhaseSetup        Phase = "setup"
	PhaseInstructions Phase = "instructions"
	PhasePlaying      Phase = "playing"
	PhaseRoundSummary Phase = "round_summary"
	PhaseGameOver     Phase = "game_over"
)

var (
	ErrInvalidAction    = errors.New("action not allowed in current phase")
	ErrUnknownAction    = errors.New("unknown action")
	ErrNotEnoughPlayers = errors.New("not enough players")
	ErrDuplicatePlayer  = errors.New("duplicate player name")
	ErrInvalidChoice    = errors.New("invalid answer choice")
)

// NormalizePlayers trims player names, drops blanks and rejects duplicates.
func NormalizePlayers(names []string) ([]string, error) {
	out := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if seen[n] {
			return nil, ErrDuplicatePlayer
		}
		seen[n] = true
		out = append(out, n)
	}
	return out, nil
}
