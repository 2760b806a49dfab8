package trivia

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PartyHub/games"
)

func started(t *testing.T, setup Setup) State {
	t.Helper()
	s, err := New(setup)
	require.NoError(t, err)
	s, err = Reduce(s, Action{Type: ActionStart})
	require.NoError(t, err)
	s, err = Reduce(s, Action{Type: ActionBeginTurn})
	require.NoError(t, err)
	return s
}

func TestNew(t *testing.T) {
	s, err := New(Setup{Players: []string{"ana", " ben ", ""}, QuestionsPerPlayer: 2})
	require.NoError(t, err)

	assert.Equal(t, games.PhaseSetup, s.Phase)
	assert.Equal(t, []Player{{Name: "ana"}, {Name: "ben"}}, s.Players)
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, DefaultTurnSeconds, s.TurnSeconds)
	assert.Len(t, s.Questions, len(DefaultQuestions()))

	_, err = New(Setup{Players: []string{" "}})
	assert.ErrorIs(t, err, games.ErrNotEnoughPlayers)
}

func TestNewDropsBrokenQuestions(t *testing.T) {
	s, err := New(Setup{
		Players: []string{"ana"},
		Questions: []Question{
			{ID: "ok", Choices: []string{"a", "b"}, Answer: 1},
			{ID: "one-choice", Choices: []string{"a"}, Answer: 0},
			{ID: "bad-answer", Choices: []string{"a", "b"}, Answer: 2},
			{ID: "ok", Choices: []string{"c", "d"}, Answer: 0},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"ok"}, s.Deck.Pool)
}

func TestAnswerScoresAndAdvances(t *testing.T) {
	questions := []Question{
		{ID: "q1", Choices: []string{"a", "b"}, Answer: 0, Points: 3},
		{ID: "q2", Choices: []string{"a", "b"}, Answer: 0, Points: 3},
	}
	s := started(t, Setup{Players: []string{"ana", "ben"}, QuestionsPerPlayer: 1, Questions: questions})

	assert.Equal(t, games.PhasePlaying, s.Phase)
	assert.Equal(t, "ana", CurrentPlayer(s))
	assert.Equal(t, 30, s.TimeLeft)

	s, err := Reduce(s, Action{Type: ActionAnswer, Choice: pick(0)})
	require.NoError(t, err)
	assert.Equal(t, games.PhaseRoundSummary, s.Phase)
	require.NotNil(t, s.LastResult)
	assert.True(t, s.LastResult.Correct)
	assert.Equal(t, 3, s.Players[0].Score)
	assert.Equal(t, 1, s.Asked)

	s, err = Reduce(s, Action{Type: ActionNext})
	require.NoError(t, err)
	assert.Equal(t, games.PhasePlaying, s.Phase)
	assert.Equal(t, "ben", CurrentPlayer(s))
	assert.Nil(t, s.LastResult)

	s, err = Reduce(s, Action{Type: ActionAnswer, Choice: pick(1)})
	require.NoError(t, err)
	assert.False(t, s.LastResult.Correct)
	assert.Equal(t, 0, s.Players[1].Score)

	s, err = Reduce(s, Action{Type: ActionNext})
	require.NoError(t, err)
	assert.True(t, Over(s))
	assert.Equal(t, []int{0}, Winners(s))
}

func TestTimeoutCountsAsWrongAnswer(t *testing.T) {
	s := started(t, Setup{Players: []string{"ana"}, TurnSeconds: 5})

	s, err := Reduce(s, Action{Type: ActionTick, Seconds: 3})
	require.NoError(t, err)
	assert.Equal(t, 2, s.TimeLeft)
	assert.Equal(t, games.PhasePlaying, s.Phase)

	s, err = Reduce(s, Action{Type: ActionTick, Seconds: 3})
	require.NoError(t, err)
	assert.Equal(t, games.PhaseRoundSummary, s.Phase)
	require.NotNil(t, s.LastResult)
	assert.Equal(t, NoChoice, s.LastResult.Choice)
	assert.False(t, s.LastResult.Correct)
	assert.Equal(t, 1, s.Asked)
}

func pick(i int) *int { return &i }

func TestInvalidChoice(t *testing.T) {
	s := started(t, Setup{Players: []string{"ana"}})

	got, err := Reduce(s, Action{Type: ActionAnswer, Choice: pick(9)})
	assert.ErrorIs(t, err, games.ErrInvalidChoice)
	assert.Equal(t, s, got)
}

func TestAnswerWithoutChoice(t *testing.T) {
	s := started(t, Setup{Players: []string{"ana"}})

	var a Action
	require.NoError(t, json.Unmarshal([]byte(`{"type":"answer"}`), &a))
	got, err := Reduce(s, a)
	assert.ErrorIs(t, err, games.ErrInvalidChoice)
	assert.Equal(t, s, got)
	assert.Equal(t, games.PhasePlaying, got.Phase)
	assert.Equal(t, 0, got.Asked)
	assert.Nil(t, got.LastResult)
}

func TestPhaseGuards(t *testing.T) {
	s, err := New(Setup{Players: []string{"ana"}})
	require.NoError(t, err)

	for _, a := range []ActionType{ActionBeginTurn, ActionAnswer, ActionTick, ActionNext, ActionReset} {
		_, err := Reduce(s, Action{Type: a})
		assert.ErrorIs(t, err, games.ErrInvalidAction, "action %s", a)
	}
	_, err = Reduce(s, Action{Type: "shout"})
	assert.ErrorIs(t, err, games.ErrUnknownAction)
}

func TestReset(t *testing.T) {
	s := started(t, Setup{Players: []string{"ana"}, QuestionsPerPlayer: 1})
	q, ok := CurrentQuestion(s)
	require.True(t, ok)

	s, err := Reduce(s, Action{Type: ActionAnswer, Choice: pick(q.Answer)})
	require.NoError(t, err)
	s, err = Reduce(s, Action{Type: ActionNext})
	require.NoError(t, err)
	require.True(t, Over(s))

	s, err = Reduce(s, Action{Type: ActionReset})
	require.NoError(t, err)
	assert.Equal(t, games.PhaseInstructions, s.Phase)
	assert.Equal(t, 0, s.Players[0].Score)
	assert.Equal(t, 0, s.Asked)
}

func TestReduceIsPure(t *testing.T) {
	s := started(t, Setup{Players: []string{"ana", "ben"}, Seed: 5})
	q, _ := CurrentQuestion(s)

	a, errA := Reduce(s, Action{Type: ActionAnswer, Choice: pick(q.Answer)})
	b, errB := Reduce(s, Action{Type: ActionAnswer, Choice: pick(q.Answer)})

	require.NoError(t, errA)
	require.NoError(t, errB)
	assert.Equal(t, a, b)
	assert.Equal(t, 0, s.Players[0].Score)
	assert.Nil(t, s.LastResult)
	assert.Equal(t, games.PhasePlaying, s.Phase)
}
