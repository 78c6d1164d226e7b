package ports

import (
	"context"

	"github.com/bnema/taskline-cli/internal/domain"
)

// TodoStore is the source of truth for one user's todo collection. The
// remote API client and the local file store both implement it; either way
// the returned records carry store-assigned IDs, which always supersede
// client-provisional ones.
type TodoStore interface {
	List(ctx context.Context) ([]domain.Todo, error)
	Create(ctx context.Context, draft domain.TodoDraft) (domain.Todo, error)
	Update(ctx context.Context, todo domain.Todo) (domain.Todo, error)
	Delete(ctx context.Context, id domain.TodoID) error
}

// TodoPurger wipes any durably-stored todo data for a user. Invoked on
// logout so a later login on the same machine cannot see stale records.
type TodoPurger interface {
	PurgeUser(ctx context.Context, userID domain.UserID) error
}
