package citas

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const pendingKeyPrefix = "praxia:pending_payment:"

// PendingPaymentStore tracks the single not-yet-paid reservation of a
// session. Session-scoped like the draft: an unpaid reservation has no
// value once the session is gone (the upstream hold expires on its own).
type PendingPaymentStore struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewPendingPaymentStore(client *redis.Client, sessionTTL time.Duration) *PendingPaymentStore {
	if client == nil {
		panic("citas: redis client cannot be nil")
	}
	return &PendingPaymentStore{redis: client, ttl: sessionTTL}
}

func pendingKey(sessionID string) string {
	return pendingKeyPrefix + sessionID
}

// Save persists the session, unconditionally overwriting any existing one.
func (s *PendingPaymentStore) Save(ctx context.Context, sessionID string, session PendingPaymentSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("citas: failed to marshal pending payment: %w", err)
	}
	if err := s.redis.Set(ctx, pendingKey(sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("citas: failed to persist pending payment: %w", err)
	}
	return nil
}

// Read returns the pending session, or nil when absent or malformed.
func (s *PendingPaymentStore) Read(ctx context.Context, sessionID string) (*PendingPaymentSession, error) {
	data, err := s.redis.Get(ctx, pendingKey(sessionID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("citas: failed to load pending payment: %w", err)
	}
	var session PendingPaymentSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, nil
	}
	return &session, nil
}

// Clear removes the pending session. Idempotent.
func (s *PendingPaymentStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.redis.Del(ctx, pendingKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("citas: failed to clear pending payment: %w", err)
	}
	return nil
}
