package citas

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const confirmedKeyPrefix = "praxia:confirmed_cita:"

// ConfirmedMessageStore holds the one-shot "cita confirmada" banner for a
// session. Unlike the draft and pending stores it is durable (no TTL): the
// redirect home after payment may outlive the session slot, and the banner
// must survive it. The consumer owns the display timer and clears the slot
// when done; the store has no notion of elapsed time.
type ConfirmedMessageStore struct {
	redis *redis.Client
}

func NewConfirmedMessageStore(client *redis.Client) *ConfirmedMessageStore {
	if client == nil {
		panic("citas: redis client cannot be nil")
	}
	return &ConfirmedMessageStore{redis: client}
}

func confirmedKey(sessionID string) string {
	return confirmedKeyPrefix + sessionID
}

func (s *ConfirmedMessageStore) Save(ctx context.Context, sessionID string, msg ConfirmedCitaMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("citas: failed to marshal confirmed message: %w", err)
	}
	if err := s.redis.Set(ctx, confirmedKey(sessionID), data, 0).Err(); err != nil {
		return fmt.Errorf("citas: failed to persist confirmed message: %w", err)
	}
	return nil
}

// Read returns the stored message, or nil when absent or malformed.
func (s *ConfirmedMessageStore) Read(ctx context.Context, sessionID string) (*ConfirmedCitaMessage, error) {
	data, err := s.redis.Get(ctx, confirmedKey(sessionID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("citas: failed to load confirmed message: %w", err)
	}
	var msg ConfirmedCitaMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, nil
	}
	return &msg, nil
}

// Clear removes the message. Idempotent.
func (s *ConfirmedMessageStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.redis.Del(ctx, confirmedKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("citas: failed to clear confirmed message: %w", err)
	}
	return nil
}
