package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"PartyHub/services/gamesessions"
	redis_utils "PartyHub/services/redis/utils"
)

// Optimistic-lock attempts before an update gives up with ErrConflict.
const maxUpdateRetries = 10

// SessionStore keeps game sessions in Redis.
// Key format: "game_session:{id}"
// TTL: refreshed on every write
type SessionStore struct {
	rc  *RedisClient
	ttl time.Duration
}

func NewSessionStore(rc *RedisClient, ttl time.Duration) *SessionStore {
	return &SessionStore{rc: rc, ttl: ttl}
}

// Create stores a new session. It fails with ErrSessionExists if the id is
// already taken.
func (s *SessionStore) Create(ctx context.Context, sess *gamesessions.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("error marshaling game session: %w", err)
	}

	ok, err := s.rc.client.SetNX(ctx, redis_utils.FormatGameSessionKey(sess.ID), data, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("error saving game session: %w", err)
	}
	if !ok {
		return gamesessions.ErrSessionExists
	}
	return nil
}

// Get retrieves a session
func (s *SessionStore) Get(ctx context.Context, id string) (*gamesessions.Session, error) {
	data, err := s.rc.client.Get(ctx, redis_utils.FormatGameSessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, gamesessions.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error getting game session: %w", err)
	}
	return unmarshalSession(data)
}

// Update reads the session, applies fn and writes it back inside a
// WATCH/MULTI transaction. A concurrent write makes the transaction fail and
// the whole read-modify-write is retried.
func (s *SessionStore) Update(ctx context.Context, id string, fn func(*gamesessions.Session) error) (*gamesessions.Session, error) {
	key := redis_utils.FormatGameSessionKey(id)

	var result *gamesessions.Session
	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return gamesessions.ErrSessionNotFound
		}
		if err != nil {
			return fmt.Errorf("error getting game session: %w", err)
		}

		sess, err := unmarshalSession(data)
		if err != nil {
			return err
		}
		if err := fn(sess); err != nil {
			return err
		}

		out, err := json.Marshal(sess)
		if err != nil {
			return fmt.Errorf("error marshaling game session: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, s.ttl)
			return nil
		})
		if err == nil {
			result = sess
		}
		return err
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := s.rc.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return result, nil
	}
	return nil, gamesessions.ErrConflict
}

// Delete removes a session
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	n, err := s.rc.client.Del(ctx, redis_utils.FormatGameSessionKey(id)).Result()
	if err != nil {
		return fmt.Errorf("error deleting game session: %w", err)
	}
	if n == 0 {
		return gamesessions.ErrSessionNotFound
	}
	return nil
}

func unmarshalSession(data []byte) (*gamesessions.Session, error) {
	var sess gamesessions.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("error unmarshaling game session: %w", err)
	}
	return &sess, nil
}
