// Package session keeps session snapshots between requests.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/SscSPs/ledger_desk/internal/apperrors"
	portsrepo "github.com/SscSPs/ledger_desk/internal/core/ports/repositories"
)

type memoryEntry struct {
	snapshot  portsrepo.SessionSnapshot
	expiresAt time.Time
}

// MemoryStore keeps snapshots in process. Sessions do not survive a restart.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

var _ portsrepo.SessionStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry), now: time.Now}
}

func (m *MemoryStore) SaveSession(_ context.Context, sessionID string, snapshot portsrepo.SessionSnapshot, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[sessionID] = memoryEntry{snapshot: snapshot, expiresAt: m.now().Add(ttl)}
	return nil
}

func (m *MemoryStore) FindSession(_ context.Context, sessionID string) (*portsrepo.SessionSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[sessionID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if !m.now().Before(entry.expiresAt) {
		delete(m.entries, sessionID)
		return nil, apperrors.ErrNotFound
	}
	snap := entry.snapshot
	return &snap, nil
}

func (m *MemoryStore) DeleteSession(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, sessionID)
	return nil
}
