package ports

import (
	"context"

	"github.com/bnema/taskline-cli/internal/domain"
)

type SignupRequest struct {
	Name     string
	Email    string
	Password string
}

// AuthClient talks to the unauthenticated auth endpoints. Both calls return
// the identity plus the bearer token the server issued for it.
type AuthClient interface {
	Signup(ctx context.Context, req SignupRequest) (domain.User, string, error)
	Login(ctx context.Context, email, password string) (domain.User, string, error)
}
