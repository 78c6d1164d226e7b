package application

import (
	"context"
	"fmt"

	"github.com/bnema/taskline-cli/internal/domain"
	"github.com/bnema/taskline-cli/internal/ports"
)

// AuthService runs the signup and login flows: local validation first, then
// the remote call, then committing the resulting session. Validation
// failures never reach the network, and a failed remote call leaves the
// session untouched.
type AuthService struct {
	client   ports.AuthClient
	sessions *SessionStore
}

func NewAuthService(client ports.AuthClient, sessions *SessionStore) *AuthService {
	return &AuthService{client: client, sessions: sessions}
}

func (a *AuthService) Signup(ctx context.Context, name, email, password string) (domain.User, error) {
	if err := domain.ValidateName(name); err != nil {
		return domain.User{}, err
	}
	if err := domain.ValidateEmail(email); err != nil {
		return domain.User{}, err
	}
	if err := domain.ValidatePassword(password); err != nil {
		return domain.User{}, err
	}

	user, token, err := a.client.Signup(ctx, ports.SignupRequest{Name: name, Email: email, Password: password})
	if err != nil {
		return domain.User{}, fmt.Errorf("sign up: %w", err)
	}

	if err := a.sessions.Login(ctx, user, token); err != nil {
		return domain.User{}, fmt.Errorf("commit session after signup: %w", err)
	}

	return user, nil
}

func (a *AuthService) Login(ctx context.Context, email, password string) (domain.User, error) {
	if err := domain.ValidateEmail(email); err != nil {
		return domain.User{}, err
	}
	if err := domain.ValidatePassword(password); err != nil {
		return domain.User{}, err
	}

	user, token, err := a.client.Login(ctx, email, password)
	if err != nil {
		return domain.User{}, fmt.Errorf("log in: %w", err)
	}

	if err := a.sessions.Login(ctx, user, token); err != nil {
		return domain.User{}, fmt.Errorf("commit session after login: %w", err)
	}

	return user, nil
}
