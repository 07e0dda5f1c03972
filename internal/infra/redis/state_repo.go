package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"telegram-file-convert/internal/domain"
	"telegram-file-convert/internal/domain/ports/repository"
)

var _ repository.StateRepository = (*StateRepo)(nil)

// StateRepo keeps each user's pending action in Redis so any update worker
// (or bot replica) sees the same state. Entries expire: users get the TTL to
// finish a flow before the bot forgets the selected tool.
type StateRepo struct {
	client RedisClient
	ttl    time.Duration
}

func NewStateRepo(client RedisClient, ttl time.Duration) *StateRepo {
	return &StateRepo{client: client, ttl: ttl}
}

func (s *StateRepo) stateKey(tgID int64) string {
	return fmt.Sprintf("pending_action:%d", tgID)
}

func (s *StateRepo) Set(ctx context.Context, tgID int64, state *repository.PendingAction) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.stateKey(tgID), data, s.ttl)
}

func (s *StateRepo) Get(ctx context.Context, tgID int64) (*repository.PendingAction, error) {
	data, err := s.client.Get(ctx, s.stateKey(tgID))
	if err != nil {
		if IsNil(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	var state repository.PendingAction
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *StateRepo) Clear(ctx context.Context, tgID int64) error {
	return s.client.Del(ctx, s.stateKey(tgID))
}
