// Package store persists web sessions: opaque session IDs mapped to the
// OAuth credentials obtained in the callback exchange.
//
// The in-memory implementation serves single-process deployments; the Redis
// implementation is selected when a redis address is configured, so sessions
// survive restarts and can be shared across replicas.
package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/abhiiee-sharma/yt-spotify/internal/shared"
)

// DefaultTTL bounds how long an unrefreshed session stays valid.
const DefaultTTL = time.Hour

// Session holds one authenticated caller's credentials and profile.
type Session struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	UserID       string `json:"userId"`
	DisplayName  string `json:"displayName"`
	Email        string `json:"email,omitempty"`
}

// Store defines session persistence operations.
type Store interface {
	// Put stores a session under the given ID, refreshing its TTL.
	Put(ctx context.Context, sessionID string, session Session) error

	// Get retrieves a session; returns [shared.ErrSessionNotFound] when the
	// ID is unknown or expired.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Delete removes a session.
	Delete(ctx context.Context, sessionID string) error
}

type memoryEntry struct {
	session   Session
	expiresAt time.Time
}

// MemoryStore keeps sessions in process memory with lazy TTL eviction.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore creates an in-memory session store. A non-positive ttl
// falls back to [DefaultTTL].
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (m *MemoryStore) Put(ctx context.Context, sessionID string, session Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[sessionID] = memoryEntry{
		session:   session,
		expiresAt: m.now().Add(m.ttl),
	}
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, sessionID string) (*Session, error) {
	m.mu.RLock()
	entry, ok := m.entries[sessionID]
	m.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrSessionNotFound, sessionID)
	}

	if m.now().After(entry.expiresAt) {
		m.mu.Lock()
		delete(m.entries, sessionID)
		m.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", shared.ErrSessionNotFound, sessionID)
	}

	session := entry.session
	return &session, nil
}

func (m *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, sessionID)
	return nil
}
