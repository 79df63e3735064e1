package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"
)

type memoryEntry struct {
	raw       []byte
	expiresAt time.Time
}

type memoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore keeps sessions in process. Values round-trip through JSON so
// both backends return the same types.
func NewMemoryStore() Store {
	return &memoryStore{entries: map[string]memoryEntry{}, now: time.Now}
}

func (s *memoryStore) Load(_ context.Context, id string) (map[string]any, error) {
	s.mu.Lock()
	entry, ok := s.entries[id]
	if ok && !entry.expiresAt.IsZero() && s.now().After(entry.expiresAt) {
		delete(s.entries, id)
		ok = false
	}
	s.mu.Unlock()

	data := map[string]any{}
	if !ok {
		return data, nil
	}
	if err := json.Unmarshal(entry.raw, &data); err != nil {
		return nil, errors.Wrap(err, "failed to decode session")
	}

	return data, nil
}

func (s *memoryStore) Save(_ context.Context, id string, data map[string]any, ttl time.Duration) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return errors.Wrap(err, "failed to encode session")
	}

	entry := memoryEntry{raw: raw}
	if ttl > 0 {
		entry.expiresAt = s.now().Add(ttl)
	}

	s.mu.Lock()
	s.entries[id] = entry
	s.mu.Unlock()

	return nil
}

func (s *memoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()

	return nil
}
