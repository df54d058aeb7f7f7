package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

type memorySession struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemorySessionRepository keeps sessions in process with the same ttl rules
// as the redis repository. Entries are encoded so callers never share state
// with the store.
func NewMemorySessionRepository(ttl time.Duration) SessionRepository {
	return &memorySession{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (that *memorySession) CreateOrUpdate(_ context.Context, session *entity.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("could not marshal session: %w", err)
	}

	entry := memoryEntry{payload: payload}
	if that.ttl > 0 {
		entry.expiresAt = that.now().Add(that.ttl)
	}

	that.mu.Lock()
	that.sweep()
	that.entries[session.ID] = entry
	that.mu.Unlock()

	return nil
}

// sweep drops every expired entry, including ones nobody will look up again.
// Callers hold the write lock.
func (that *memorySession) sweep() {
	if that.ttl <= 0 {
		return
	}

	for id, entry := range that.entries {
		if that.expired(entry) {
			delete(that.entries, id)
		}
	}
}

func (that *memorySession) GetByID(_ context.Context, id string) (*entity.Session, error) {
	that.mu.RLock()
	entry, ok := that.entries[id]
	that.mu.RUnlock()

	if !ok {
		return nil, ErrSessionNotFound
	}

	if that.expired(entry) {
		that.mu.Lock()
		delete(that.entries, id)
		that.mu.Unlock()

		return nil, ErrSessionNotFound
	}

	var existingSession entity.Session
	if err := json.Unmarshal(entry.payload, &existingSession); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &existingSession, nil
}

func (that *memorySession) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	entry, ok := that.entries[id]
	if !ok || that.expired(entry) {
		delete(that.entries, id)
		return ErrSessionNotFound
	}

	delete(that.entries, id)

	return nil
}

func (that *memorySession) expired(entry memoryEntry) bool {
	return !entry.expiresAt.IsZero() && !that.now().Before(entry.expiresAt)
}
