package backend

import (
	"context"
	"sync"
)

// TokenStore holds the current access token (persisted via Storage) and the
// anti-forgery token (in memory, never persisted across sessions). The store
// is not a synchronization point for refreshes; that is the refresh
// coordinator's job.
type TokenStore struct {
	storage Storage

	mu   sync.RWMutex
	csrf string
}

func NewTokenStore(storage Storage) *TokenStore {
	return &TokenStore{storage: storage}
}

// AccessToken reads the persisted bearer token. An empty string means the
// session is unauthenticated.
func (s *TokenStore) AccessToken(ctx context.Context) (string, error) {
	return s.storage.GetItem(ctx, StorageKeyToken)
}

func (s *TokenStore) SetAccessToken(ctx context.Context, token string) error {
	return s.storage.SetItem(ctx, StorageKeyToken, token)
}

// CsrfToken returns the current in-memory anti-forgery token, or an empty
// string when none has been fetched yet.
func (s *TokenStore) CsrfToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.csrf
}

// SetCsrfToken overwrites the anti-forgery token. Called after every fetch
// and after every successful refresh cycle.
func (s *TokenStore) SetCsrfToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.csrf = token
}

// SetUser persists the serialized session profile under the "user" key.
func (s *TokenStore) SetUser(ctx context.Context, serialized string) error {
	return s.storage.SetItem(ctx, StorageKeyUser, serialized)
}

// User reads the serialized session profile, empty when logged out.
func (s *TokenStore) User(ctx context.Context) (string, error) {
	return s.storage.GetItem(ctx, StorageKeyUser)
}

// ClearSession removes the persisted access token and user profile. Used on
// logout and on unrecoverable auth failure.
func (s *TokenStore) ClearSession(ctx context.Context) error {
	if err := s.storage.RemoveItem(ctx, StorageKeyToken); err != nil {
		return err
	}
	return s.storage.RemoveItem(ctx, StorageKeyUser)
}

func (s *TokenStore) Storage() Storage {
	return s.storage
}
