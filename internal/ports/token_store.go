package ports

import "context"

// TokenStore holds the bearer credential separately from the session record,
// so the identity file never contains the secret itself.
type TokenStore interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
