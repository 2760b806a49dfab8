// Package taboo is the forbidden-word party game: a describer gets a card and
// has to make their team guess the word without saying any of the forbidden
// ones before the turn timer runs out.
package taboo

import (
	"fmt"

	"PartyHub/games"
	"PartyHub/games/deck"
)

const (
	Name = "taboo"

	DefaultTeams       = 2
	DefaultTurnSeconds = 60
	DefaultRounds      = 3
)

type Card struct {
	ID        string   `json:"id"`
	Word      string   `json:"word"`
	Forbidden []string `json:"forbidden"`
}

type Team struct {
	Name    string   `json:"name"`
	Players []string `json:"players"`
	Score   int      `json:"score"`
	// Index into Players of whoever describes on this team's next turn.
	Describer int `json:"describer"`
}

// TurnStats counts what happened during the current (or last) turn and is
// what the round summary shows.
type TurnStats struct {
	Correct int `json:"correct"`
	Skipped int `json:"skipped"`
	Buzzed  int `json:"buzzed"`
}

type Setup struct {
	Players     []string `json:"players"`
	Teams       int      `json:"teams"`
	TurnSeconds int      `json:"turnSeconds"`
	Rounds      int      `json:"rounds"`
	SkipPenalty int      `json:"skipPenalty"`
	Cards       []Card   `json:"cards,omitempty"`
	Seed        uint64   `json:"seed"`
}

type State struct {
	Phase       games.Phase `json:"phase"`
	Teams       []Team      `json:"teams"`
	ActiveTeam  int         `json:"activeTeam"`
	Round       int         `json:"round"`
	Rounds      int         `json:"rounds"`
	TurnSeconds int         `json:"turnSeconds"`
	TimeLeft    int         `json:"timeLeft"`
	SkipPenalty int         `json:"skipPenalty"`
	Cards       []Card      `json:"cards"`
	Deck        deck.Deck   `json:"deck"`
	Current     string      `json:"current,omitempty"`
	Turn        TurnStats   `json:"turn"`
}

type ActionType string

const (
	ActionStart     ActionType = "start"
	ActionBeginTurn ActionType = "begin_turn"
	ActionCorrect   ActionType = "correct"
	ActionSkip      ActionType = "skip"
	ActionBuzz      ActionType = "buzz"
	ActionTick      ActionType = "tick"
	ActionEndTurn   ActionType = "end_turn"
	ActionReset     ActionType = "reset"
)

type Action struct {
	Type    ActionType `json:"type"`
	Seconds int        `json:"seconds,omitempty"`
}

// New validates setup and returns a game in the setup phase. Players are dealt
// into teams round-robin in the order given.
func New(setup Setup) (State, error) {
	players, err := games.NormalizePlayers(setup.Players)
	if err != nil {
		return State{}, err
	}

	teams := setup.Teams
	if teams < 2 {
		teams = DefaultTeams
	}
	// every team needs a describer and at least one guesser
	if len(players) < teams*2 {
		return State{}, fmt.Errorf("%w: need %d, got %d", games.ErrNotEnoughPlayers, teams*2, len(players))
	}

	cards := uniqueCards(setup.Cards)
	if len(cards) == 0 {
		cards = DefaultCards()
	}
	ids := make([]string, len(cards))
	for i, c := range cards {
		ids[i] = c.ID
	}
	d, err := deck.New(ids, setup.Seed)
	if err != nil {
		return State{}, err
	}

	s := State{
		Phase:       games.PhaseSetup,
		Teams:       make([]Team, teams),
		Round:       1,
		Rounds:      orDefault(setup.Rounds, DefaultRounds),
		TurnSeconds: orDefault(setup.TurnSeconds, DefaultTurnSeconds),
		SkipPenalty: max(setup.SkipPenalty, 0),
		Cards:       cards,
		Deck:        d,
	}
	for i := range s.Teams {
		s.Teams[i].Name = fmt.Sprintf("Team %d", i+1)
	}
	for i, p := range players {
		t := &s.Teams[i%teams]
		t.Players = append(t.Players, p)
	}

	return s, nil
}

// Reduce computes the state that follows a. The input state is never
// modified; on error it is returned unchanged.
func Reduce(s State, a Action) (State, error) {
	switch a.Type {
	case ActionStart:
		if s.Phase != games.PhaseSetup {
			return s, invalid(s, a)
		}
		next := s.clone()
		next.Phase = games.PhaseInstructions
		return next, nil

	case ActionBeginTurn:
		if s.Phase != games.PhaseInstructions && s.Phase != games.PhaseRoundSummary {
			return s, invalid(s, a)
		}
		next := s.clone()
		next.Phase = games.PhasePlaying
		next.TimeLeft = next.TurnSeconds
		next.Turn = TurnStats{}
		return next.draw()

	case ActionCorrect, ActionSkip, ActionBuzz:
		if s.Phase != games.PhasePlaying {
			return s, invalid(s, a)
		}
		next := s.clone()
		team := &next.Teams[next.ActiveTeam]
		switch a.Type {
		case ActionCorrect:
			team.Score++
			next.Turn.Correct++
		case ActionSkip:
			team.Score -= next.SkipPenalty
			next.Turn.Skipped++
		case ActionBuzz:
			team.Score--
			next.Turn.Buzzed++
		}
		return next.draw()

	case ActionTick:
		if s.Phase != games.PhasePlaying {
			return s, invalid(s, a)
		}
		next := s.clone()
		next.TimeLeft -= max(a.Seconds, 1)
		if next.TimeLeft <= 0 {
			next.TimeLeft = 0
			next.endTurn()
		}
		return next, nil

	case ActionEndTurn:
		if s.Phase != games.PhasePlaying {
			return s, invalid(s, a)
		}
		next := s.clone()
		next.endTurn()
		return next, nil

	case ActionReset:
		if s.Phase != games.PhaseGameOver {
			return s, invalid(s, a)
		}
		next := s.clone()
		for i := range next.Teams {
			next.Teams[i].Score = 0
			next.Teams[i].Describer = 0
		}
		next.Phase = games.PhaseInstructions
		next.ActiveTeam = 0
		next.Round = 1
		next.TimeLeft = 0
		next.Turn = TurnStats{}
		return next, nil
	}

	return s, fmt.Errorf("%w: %q", games.ErrUnknownAction, a.Type)
}

// Over reports whether the game has finished.
func Over(s State) bool {
	return s.Phase == games.PhaseGameOver
}

// Describer returns who describes during the active team's turn.
func Describer(s State) string {
	if len(s.Teams) == 0 {
		return ""
	}
	t := s.Teams[s.ActiveTeam]
	if len(t.Players) == 0 {
		return ""
	}
	return t.Players[t.Describer%len(t.Players)]
}

// CurrentCard returns the card being described, if any.
func CurrentCard(s State) (Card, bool) {
	if s.Current == "" {
		return Card{}, false
	}
	for _, c := range s.Cards {
		if c.ID == s.Current {
			return c, true
		}
	}
	return Card{}, false
}

// Winners returns the indexes of the top-scoring teams; ties return several.
func Winners(s State) []int {
	var out []int
	best := 0
	for i, t := range s.Teams {
		switch {
		case len(out) == 0 || t.Score > best:
			best = t.Score
			out = []int{i}
		case t.Score == best:
			out = append(out, i)
		}
	}
	return out
}

func (s State) clone() State {
	next := s
	next.Teams = make([]Team, len(s.Teams))
	copy(next.Teams, s.Teams)
	return next
}

func (s State) draw() (State, error) {
	d, id, err := deck.Draw(s.Deck)
	if err != nil {
		return s, err
	}
	s.Deck = d
	s.Current = id
	return s, nil
}

// endTurn hands the turn to the next team. Once every team has played the
// round advances, and after the last round the game is over.
func (s *State) endTurn() {
	t := &s.Teams[s.ActiveTeam]
	t.Describer = (t.Describer + 1) % len(t.Players)
	s.Current = ""

	s.ActiveTeam++
	if s.ActiveTeam == len(s.Teams) {
		s.ActiveTeam = 0
		s.Round++
	}

	if s.Round > s.Rounds {
		s.Round = s.Rounds
		s.Phase = games.PhaseGameOver
		return
	}
	s.Phase = games.PhaseRoundSummary
}

func invalid(s State, a Action) error {
	return fmt.Errorf("%w: %s during %s", games.ErrInvalidAction, a.Type, s.Phase)
}

func uniqueCards(cards []Card) []Card {
	seen := make(map[string]bool, len(cards))
	out := make([]Card, 0, len(cards))
	for _, c := range cards {
		if c.ID == "" || seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		out = append(out, c)
	}
	return out
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
