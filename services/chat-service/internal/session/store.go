package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dhruvldrp9/Doctor-Appointment-System/services/chat-service/internal/flow"
)

// Store keeps conversation state in Redis, one key per session id. A
// missing or expired key reads back as a fresh idle state.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

func (s *Store) Load(ctx context.Context, sessionID string) (flow.State, error) {
	raw, err := s.rdb.Get(ctx, key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return flow.State{Kind: flow.KindIdle}, nil
	}
	if err != nil {
		return flow.State{}, fmt.Errorf("load session: %w", err)
	}

	var state flow.State
	if err := json.Unmarshal(raw, &state); err != nil {
		// Corrupt state; restart the conversation rather than fail it.
		return flow.State{Kind: flow.KindIdle}, nil
	}
	if state.Kind == "" {
		state.Kind = flow.KindIdle
	}
	return state, nil
}

func (s *Store) Save(ctx context.Context, sessionID string, state flow.State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.rdb.Set(ctx, key(sessionID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func key(sessionID string) string {
	return "chat:session:" + sessionID
}
