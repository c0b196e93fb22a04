package citas

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const draftKeyPrefix = "praxia:cita_draft:"

// DraftStore persists the in-progress booking draft, one slot per browsing
// session. Keys carry the session TTL so an abandoned draft ages out with
// the session, the way sessionStorage did in the portal.
type DraftStore struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewDraftStore(client *redis.Client, sessionTTL time.Duration) *DraftStore {
	if client == nil {
		panic("citas: redis client cannot be nil")
	}
	return &DraftStore{redis: client, ttl: sessionTTL}
}

func draftKey(sessionID string) string {
	return draftKeyPrefix + sessionID
}

// Read returns the current draft for the session. Absent, malformed, or
// unreachable state all read as an empty draft; a fresh wizard is always a
// safe answer.
func (s *DraftStore) Read(ctx context.Context, sessionID string) CitaDraft {
	raw, err := s.readRaw(ctx, sessionID)
	if err != nil {
		return CitaDraft{}
	}
	return decodeDraft(raw)
}

// Merge shallow-merges patch onto the stored draft, persists the result
// and returns it. Fields absent from the patch are left untouched; a field
// present in the patch wins, even when set to its zero value. A failed
// read aborts the merge: rebasing the patch onto a falsely empty draft
// would overwrite every prior field.
func (s *DraftStore) Merge(ctx context.Context, sessionID string, patch map[string]json.RawMessage) (CitaDraft, error) {
	current, err := s.readRaw(ctx, sessionID)
	if err != nil {
		return CitaDraft{}, err
	}
	for field, value := range patch {
		current[field] = value
	}
	data, err := json.Marshal(current)
	if err != nil {
		return CitaDraft{}, fmt.Errorf("citas: failed to marshal draft: %w", err)
	}
	if err := s.redis.Set(ctx, draftKey(sessionID), data, s.ttl).Err(); err != nil {
		return CitaDraft{}, fmt.Errorf("citas: failed to persist draft: %w", err)
	}
	return decodeDraft(current), nil
}

// Clear removes the persisted draft. Clearing an absent draft is a no-op.
func (s *DraftStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.redis.Del(ctx, draftKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("citas: failed to clear draft: %w", err)
	}
	return nil
}

// readRaw loads the stored draft as a field map. Absence and corrupt
// content degrade to an empty map; a transport failure is reported so the
// caller can tell a missing draft from an unreadable one.
func (s *DraftStore) readRaw(ctx context.Context, sessionID string) (map[string]json.RawMessage, error) {
	data, err := s.redis.Get(ctx, draftKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("citas: failed to read draft: %w", err)
	}
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return map[string]json.RawMessage{}, nil
	}
	return raw, nil
}

func decodeDraft(raw map[string]json.RawMessage) CitaDraft {
	if len(raw) == 0 {
		return CitaDraft{}
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return CitaDraft{}
	}
	var draft CitaDraft
	if err := json.Unmarshal(data, &draft); err != nil {
		return CitaDraft{}
	}
	return draft
}
