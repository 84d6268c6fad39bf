package backend

import "context"

// Storage keys shared with the front-end session contract.
const (
	StorageKeyToken           = "token"
	StorageKeyUser            = "user"
	StorageKeyLoginInProgress = "loginInProgress"
)

// Storage is the client-local storage abstraction backing a logical session.
// Implementations can keep values in memory, Redis or Postgres. GetItem
// returns an empty string (and no error) for absent keys.
type Storage interface {
	GetItem(ctx context.Context, key string) (string, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}
