package memory

import (
	"context"
	"sync"

	"github.com/patrimonia/portal/pkg/backend"
)

// Store holds every session's client-local storage in process memory. The
// default driver for development and tests.
type Store struct {
	mu    sync.RWMutex
	items map[string]map[string]string
}

func NewStore() *Store {
	return &Store{items: make(map[string]map[string]string)}
}

// Namespace returns the storage view for one session.
func (s *Store) Namespace(sessionID string) backend.Storage {
	return &namespace{store: s, sessionID: sessionID}
}

// DropSession removes every key belonging to a session.
func (s *Store) DropSession(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, sessionID)
}

type namespace struct {
	store     *Store
	sessionID string
}

func (n *namespace) GetItem(_ context.Context, key string) (string, error) {
	n.store.mu.RLock()
	defer n.store.mu.RUnlock()
	return n.store.items[n.sessionID][key], nil
}

func (n *namespace) SetItem(_ context.Context, key, value string) error {
	n.store.mu.Lock()
	defer n.store.mu.Unlock()
	bucket, ok := n.store.items[n.sessionID]
	if !ok {
		bucket = make(map[string]string)
		n.store.items[n.sessionID] = bucket
	}
	bucket[key] = value
	return nil
}

func (n *namespace) RemoveItem(_ context.Context, key string) error {
	n.store.mu.Lock()
	defer n.store.mu.Unlock()
	delete(n.store.items[n.sessionID], key)
	return nil
}
