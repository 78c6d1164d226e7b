package ports

import (
	"context"

	"github.com/bnema/taskline-cli/internal/domain"
)

// SessionRepository persists the logged-in identity across process restarts.
// The bearer token lives in the TokenStore, not here. Load returns ok=false
// when no durable record exists; implementations must treat malformed
// durable data the same way and discard the corrupt record so it cannot
// poison subsequent loads.
type SessionRepository interface {
	Load(ctx context.Context) (domain.User, bool, error)
	Save(ctx context.Context, user domain.User) error
	Clear(ctx context.Context) error
}
