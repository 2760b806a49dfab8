package gamesessions

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PartyHub/games"
	"PartyHub/games/registry"
	"PartyHub/games/taboo"
)

const tabooSetup = `{"players":["ana","ben","cai","dee"],"rounds":1,"seed":7}`

func newService(t *testing.T) *Service {
	t.Helper()
	return NewService(NewMemoryStore(time.Hour), registry.Default())
}

func TestCreateAndGet(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	sess, err := svc.Create(ctx, "taboo", "user-1", json.RawMessage(tabooSetup))
	require.NoError(t, err)
	assert.Len(t, sess.ID, idLength)
	assert.Equal(t, "taboo", sess.Game)
	assert.Equal(t, "user-1", sess.OwnerID)
	assert.False(t, sess.Over)

	got, err := svc.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)
	assert.JSONEq(t, string(sess.State), string(got.State))
}

func TestCreateUnknownGame(t *testing.T) {
	_, err := newService(t).Create(context.Background(), "charades", "", nil)
	assert.ErrorIs(t, err, ErrUnknownGame)
}

func TestCreateRetriesOnCollision(t *testing.T) {
	svc := newService(t)
	ids := []string{"AAAAAA", "AAAAAA", "BBBBBB"}
	svc.newID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}

	first, err := svc.Create(context.Background(), "taboo", "", json.RawMessage(tabooSetup))
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), "taboo", "", json.RawMessage(tabooSetup))
	require.NoError(t, err)

	assert.Equal(t, "AAAAAA", first.ID)
	assert.Equal(t, "BBBBBB", second.ID)
}

func TestApplyAdvancesState(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	sess, err := svc.Create(ctx, "taboo", "", json.RawMessage(tabooSetup))
	require.NoError(t, err)

	for _, a := range []string{`{"type":"start"}`, `{"type":"begin_turn"}`, `{"type":"correct"}`} {
		sess, err = svc.Apply(ctx, sess.ID, json.RawMessage(a))
		require.NoError(t, err)
	}
	assert.Equal(t, 3, sess.Version)

	var s taboo.State
	require.NoError(t, json.Unmarshal(sess.State, &s))
	assert.Equal(t, games.PhasePlaying, s.Phase)
	assert.Equal(t, 1, s.Teams[0].Score)
}

func TestApplyRejectedActionKeepsState(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	sess, err := svc.Create(ctx, "taboo", "", json.RawMessage(tabooSetup))
	require.NoError(t, err)

	_, err = svc.Apply(ctx, sess.ID, json.RawMessage(`{"type":"correct"}`))
	assert.ErrorIs(t, err, games.ErrInvalidAction)

	got, err := svc.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Version)
	assert.JSONEq(t, string(sess.State), string(got.State))
}

func TestApplyMarksOver(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	sess, err := svc.Create(ctx, "taboo", "", json.RawMessage(tabooSetup))
	require.NoError(t, err)

	actions := []string{
		`{"type":"start"}`,
		`{"type":"begin_turn"}`, `{"type":"end_turn"}`,
		`{"type":"begin_turn"}`, `{"type":"end_turn"}`,
	}
	for _, a := range actions {
		sess, err = svc.Apply(ctx, sess.ID, json.RawMessage(a))
		require.NoError(t, err)
	}
	assert.True(t, sess.Over)
}

func TestEnd(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	sess, err := svc.Create(ctx, "trivia", "", json.RawMessage(`{"players":["solo"]}`))
	require.NoError(t, err)

	require.NoError(t, svc.End(ctx, sess.ID))
	_, err = svc.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, svc.End(ctx, sess.ID), ErrSessionNotFound)
}

func TestConcurrentApplyIsSerialized(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	sess, err := svc.Create(ctx, "taboo", "", json.RawMessage(tabooSetup))
	require.NoError(t, err)
	for _, a := range []string{`{"type":"start"}`, `{"type":"begin_turn"}`} {
		_, err = svc.Apply(ctx, sess.ID, json.RawMessage(a))
		require.NoError(t, err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Apply(ctx, sess.ID, json.RawMessage(`{"type":"correct"}`))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := svc.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, 22, got.Version)

	var s taboo.State
	require.NoError(t, json.Unmarshal(got.State, &s))
	assert.Equal(t, 20, s.Teams[0].Score)
}

func TestMemoryStoreExpires(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, &Session{ID: "X"}))

	now = now.Add(30 * time.Second)
	_, err := store.Update(ctx, "X", func(s *Session) error { s.Version++; return nil })
	require.NoError(t, err)

	// the update pushed expiry out again
	now = now.Add(45 * time.Second)
	_, err = store.Get(ctx, "X")
	require.NoError(t, err)

	now = now.Add(time.Minute)
	_, err = store.Get(ctx, "X")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemoryStoreSweepsAbandonedSessions(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 1000; i++ {
		require.NoError(t, store.Create(ctx, &Session{ID: fmt.Sprintf("S%04d", i)}))
	}
	assert.Len(t, store.sessions, 1000)

	now = now.Add(24 * time.Hour)
	require.NoError(t, store.Create(ctx, &Session{ID: "FRESH"}))
	assert.Len(t, store.sessions, 1)
	assert.Contains(t, store.sessions, "FRESH")
}

func TestNewID(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewID()
		require.Len(t, id, idLength)
		for _, r := range id {
			assert.Contains(t, idLetters, string(r))
		}
		seen[id] = true
	}
	assert.Greater(t, len(seen), 90)
}
