package application

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bnema/taskline-cli/internal/domain"
	"github.com/bnema/taskline-cli/internal/ports"
)

// TokenKey is where the bearer credential lives in the token store.
const TokenKey = "taskline/session/token"

var (
	ErrIncompleteIdentity = errors.New("identity record is incomplete")
	ErrMissingToken       = errors.New("credential token is empty")
)

// SessionSnapshot is a consistent read of the session state. IsLoggedIn is
// true iff both the identity and the token are present.
type SessionSnapshot struct {
	User       domain.User
	Token      string
	IsLoggedIn bool
	Loading    bool
}

// SessionStore is the single source of truth for who is logged in and with
// what credential. The identity record and the token are persisted through
// separate ports; the in-memory state only ever commits both together.
type SessionStore struct {
	repo   ports.SessionRepository
	tokens ports.TokenStore
	purger ports.TodoPurger

	mu       sync.RWMutex
	session  domain.Session
	loggedIn bool
	loading  bool
}

func NewSessionStore(repo ports.SessionRepository, tokens ports.TokenStore, purger ports.TodoPurger) *SessionStore {
	return &SessionStore{
		repo:   repo,
		tokens: tokens,
		purger: purger,
		// loading stays true until the first Restore completes.
		loading: true,
	}
}

// Restore loads any previously persisted session. Missing, legacy
// (identity without token) and malformed durable data all degrade to "no
// session"; corrupt records are discarded by the repository so they cannot
// poison the next start. The loading flag drops unconditionally when done.
func (s *SessionStore) Restore(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.loading = false }()

	user, ok, err := s.repo.Load(ctx)
	if err != nil || !ok {
		return
	}

	token, err := s.tokens.Get(ctx, TokenKey)
	if err != nil || token == "" {
		return
	}

	session := domain.Session{User: user, Token: token}
	if !session.Valid() {
		return
	}

	s.session = session
	s.loggedIn = true
}

// Login commits a fully-populated identity plus credential, durably and in
// memory. Repeated calls overwrite the previous session. The token is
// stored first and rolled back if the identity record cannot be saved, so
// the durable state never holds a credential without its owner.
func (s *SessionStore) Login(ctx context.Context, user domain.User, token string) error {
	if user.ID == "" || user.Email == "" || user.Name == "" {
		return ErrIncompleteIdentity
	}
	if token == "" {
		return ErrMissingToken
	}

	if err := s.tokens.Put(ctx, TokenKey, token); err != nil {
		return fmt.Errorf("store session token: %w", err)
	}

	if err := s.repo.Save(ctx, user); err != nil {
		if rollbackErr := s.tokens.Delete(ctx, TokenKey); rollbackErr != nil {
			return fmt.Errorf("save session record and rollback stored token: %w", errors.Join(err, rollbackErr))
		}
		return fmt.Errorf("save session record: %w", err)
	}

	s.mu.Lock()
	s.session = domain.Session{User: user, Token: token}
	s.loggedIn = true
	s.mu.Unlock()

	return nil
}

// Logout clears the in-memory session and erases the durable record, the
// stored token, and any durably-stored todo data for the user. No-op when
// already logged out. The in-memory state is cleared even when one of the
// durable erasures fails; the failures are joined and returned.
func (s *SessionStore) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loggedIn {
		return nil
	}
	userID := s.session.User.ID

	var errs []error
	if err := s.repo.Clear(ctx); err != nil {
		errs = append(errs, fmt.Errorf("clear session record: %w", err))
	}
	if err := s.tokens.Delete(ctx, TokenKey); err != nil {
		errs = append(errs, fmt.Errorf("delete session token: %w", err))
	}
	if s.purger != nil {
		if err := s.purger.PurgeUser(ctx, userID); err != nil {
			errs = append(errs, fmt.Errorf("purge stored todos: %w", err))
		}
	}

	s.session = domain.Session{}
	s.loggedIn = false

	return errors.Join(errs...)
}

// Snapshot returns the latest committed state; no partial state is ever
// observable.
func (s *SessionStore) Snapshot() SessionSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return SessionSnapshot{
		User:       s.session.User,
		Token:      s.session.Token,
		IsLoggedIn: s.loggedIn,
		Loading:    s.loading,
	}
}

// Current returns the active session, or ErrNotLoggedIn while the store is
// restoring or after logout.
func (s *SessionStore) Current() (domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.loading || !s.loggedIn {
		return domain.Session{}, domain.ErrNotLoggedIn
	}

	return s.session, nil
}
