// Package trivia is a turn-based quiz: players take turns answering a
// multiple-choice question drawn from the pool until everyone has answered
// their share.
package trivia

import (
	"fmt"

	"PartyHub/games"
	"PartyHub/games/deck"
)

const (
	Name = "trivia"

	DefaultQuestionsPerPlayer = 3
	DefaultTurnSeconds        = 30

	// Choice recorded when the timer runs out before an answer.
	NoChoice = -1
)

type Question struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"prompt"`
	Choices []string `json:"choices"`
	Answer  int      `json:"answer"`
	Points  int      `json:"points,omitempty"`
}

type Player struct {
	Name    string `json:"name"`
	Score   int    `json:"score"`
	Correct int    `json:"correct"`
}

type Result struct {
	Player     string `json:"player"`
	QuestionID string `json:"questionId"`
	Choice     int    `json:"choice"`
	Correct    bool   `json:"correct"`
	Points     int    `json:"points"`
}

type Setup struct {
	Players            []string   `json:"players"`
	QuestionsPerPlayer int        `json:"questionsPerPlayer"`
	TurnSeconds        int        `json:"turnSeconds"`
	Questions          []Question `json:"questions,omitempty"`
	Seed               uint64     `json:"seed"`
}

type State struct {
	Phase       games.Phase `json:"phase"`
	Players     []Player    `json:"players"`
	Turn        int         `json:"turn"`
	Asked       int         `json:"asked"`
	Total       int         `json:"total"`
	TurnSeconds int         `json:"turnSeconds"`
	TimeLeft    int         `json:"timeLeft"`
	Questions   []Question  `json:"questions"`
	Deck        deck.Deck   `json:"deck"`
	Current     string      `json:"current,omitempty"`
	LastResult  *Result     `json:"lastResult,omitempty"`
}

type ActionType string

const (
	ActionStart     ActionType = "start"
	ActionBeginTurn ActionType = "begin_turn"
	ActionAnswer    ActionType = "answer"
	ActionTick      ActionType = "tick"
	ActionNext      ActionType = "next"
	ActionReset     ActionType = "reset"
)

type Action struct {
	Type    ActionType `json:"type"`
	Choice  *int       `json:"choice"`
	Seconds int        `json:"seconds,omitempty"`
}

func New(setup Setup) (State, error) {
	names, err := games.NormalizePlayers(setup.Players)
	if err != nil {
		return State{}, err
	}
	if len(names) == 0 {
		return State{}, fmt.Errorf("%w: need 1, got 0", games.ErrNotEnoughPlayers)
	}

	questions := validQuestions(setup.Questions)
	if len(questions) == 0 {
		questions = DefaultQuestions()
	}
	ids := make([]string, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}
	d, err := deck.New(ids, setup.Seed)
	if err != nil {
		return State{}, err
	}

	perPlayer := setup.QuestionsPerPlayer
	if perPlayer <= 0 {
		perPlayer = DefaultQuestionsPerPlayer
	}
	turnSeconds := setup.TurnSeconds
	if turnSeconds <= 0 {
		turnSeconds = DefaultTurnSeconds
	}

	s := State{
		Phase:       games.PhaseSetup,
		Players:     make([]Player, len(names)),
		Total:       perPlayer * len(names),
		TurnSeconds: turnSeconds,
		Questions:   questions,
		Deck:        d,
	}
	for i, n := range names {
		s.Players[i].Name = n
	}
	return s, nil
}

// Reduce computes the state that follows a without modifying s.
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
		if s.Phase != games.PhaseInstructions {
			return s, invalid(s, a)
		}
		return s.clone().deal()

	case ActionAnswer:
		if s.Phase != games.PhasePlaying {
			return s, invalid(s, a)
		}
		q, ok := CurrentQuestion(s)
		if !ok {
			return s, invalid(s, a)
		}
		if a.Choice == nil {
			return s, fmt.Errorf("%w: no choice given", games.ErrInvalidChoice)
		}
		choice := *a.Choice
		if choice < 0 || choice >= len(q.Choices) {
			return s, fmt.Errorf("%w: %d", games.ErrInvalidChoice, choice)
		}
		next := s.clone()
		next.score(q, choice)
		return next, nil

	case ActionTick:
		if s.Phase != games.PhasePlaying {
			return s, invalid(s, a)
		}
		next := s.clone()
		next.TimeLeft -= max(a.Seconds, 1)
		if next.TimeLeft <= 0 {
			next.TimeLeft = 0
			if q, ok := CurrentQuestion(s); ok {
				next.score(q, NoChoice)
			}
		}
		return next, nil

	case ActionNext:
		if s.Phase != games.PhaseRoundSummary {
			return s, invalid(s, a)
		}
		next := s.clone()
		if next.Asked >= next.Total {
			next.Phase = games.PhaseGameOver
			return next, nil
		}
		next.Turn = (next.Turn + 1) % len(next.Players)
		return next.deal()

	case ActionReset:
		if s.Phase != games.PhaseGameOver {
			return s, invalid(s, a)
		}
		next := s.clone()
		for i := range next.Players {
			next.Players[i].Score = 0
			next.Players[i].Correct = 0
		}
		next.Phase = games.PhaseInstructions
		next.Turn = 0
		next.Asked = 0
		next.TimeLeft = 0
		next.Current = ""
		next.LastResult = nil
		return next, nil
	}

	return s, fmt.Errorf("%w: %q", games.ErrUnknownAction, a.Type)
}

func Over(s State) bool {
	return s.Phase == games.PhaseGameOver
}

// CurrentPlayer returns whose turn it is.
func CurrentPlayer(s State) string {
	if len(s.Players) == 0 {
		return ""
	}
	return s.Players[s.Turn%len(s.Players)].Name
}

func CurrentQuestion(s State) (Question, bool) {
	if s.Current == "" {
		return Question{}, false
	}
	for _, q := range s.Questions {
		if q.ID == s.Current {
			return q, true
		}
	}
	return Question{}, false
}

// Winners returns the indexes of the top-scoring players.
func Winners(s State) []int {
	var out []int
	best := 0
	for i, p := range s.Players {
		switch {
		case len(out) == 0 || p.Score > best:
			best = p.Score
			out = []int{i}
		case p.Score == best:
			out = append(out, i)
		}
	}
	return out
}

func (s State) clone() State {
	next := s
	next.Players = make([]Player, len(s.Players))
	copy(next.Players, s.Players)
	if s.LastResult != nil {
		r := *s.LastResult
		next.LastResult = &r
	}
	return next
}

// deal draws the next question for the current player.
func (s State) deal() (State, error) {
	d, id, err := deck.Draw(s.Deck)
	if err != nil {
		return s, err
	}
	s.Deck = d
	s.Current = id
	s.Phase = games.PhasePlaying
	s.TimeLeft = s.TurnSeconds
	s.LastResult = nil
	return s, nil
}

func (s *State) score(q Question, choice int) {
	r := Result{
		Player:     CurrentPlayer(*s),
		QuestionID: q.ID,
		Choice:     choice,
		Correct:    choice == q.Answer,
	}
	if r.Correct {
		r.Points = max(q.Points, 1)
		p := &s.Players[s.Turn%len(s.Players)]
		p.Score += r.Points
		p.Correct++
	}
	s.LastResult = &r
	s.Asked++
	s.Current = ""
	s.Phase = games.PhaseRoundSummary
}

func invalid(s State, a Action) error {
	return fmt.Errorf("%w: %s during %s", games.ErrInvalidAction, a.Type, s.Phase)
}

// validQuestions drops questions without an id, with fewer than two choices
// or whose answer is out of range, and repeated ids.
func validQuestions(qs []Question) []Question {
	seen := make(map[string]bool, len(qs))
	out := make([]Question, 0, len(qs))
	for _, q := range qs {
		if q.ID == "" || seen[q.ID] || len(q.Choices) < 2 || q.Answer < 0 || q.Answer >= len(q.Choices) {
			continue
		}
		seen[q.ID] = true
		out = append(out, q)
	}
	return out
}
