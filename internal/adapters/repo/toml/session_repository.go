package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/bnema/taskline-cli/internal/domain"
	"github.com/bnema/taskline-cli/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const sessionTempFilePattern = ".session-*.toml.tmp"

// SessionRepository persists the logged-in identity in a single TOML file.
// A malformed record is deleted on load and reported as absent, so one bad
// write cannot wedge every subsequent start.
type SessionRepository struct {
	sessionPath string
	mu          *sync.RWMutex
}

var _ ports.SessionRepository = (*SessionRepository)(nil)

func NewSessionRepository(cfg *viper.Viper) (*SessionRepository, error) {
	sessionPath, err := resolvePath(cfg, sessionPathKey, sessionFileName)
	if err != nil {
		return nil, err
	}

	return &SessionRepository{sessionPath: sessionPath, mu: lockForPath(sessionPath)}, nil
}

func (r *SessionRepository) Load(ctx context.Context) (domain.User, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.sessionPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, fmt.Errorf("read session file: %w", err)
	}

	var file sessionFileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return domain.User{}, false, r.discardCorrupt()
	}
	if err := file.validateVersion(); err != nil {
		return domain.User{}, false, r.discardCorrupt()
	}
	if file.User.ID == "" {
		return domain.User{}, false, r.discardCorrupt()
	}

	user := domain.User{
		ID:    domain.UserID(file.User.ID),
		Email: file.User.Email,
		Name:  file.User.Name,
	}

	return user, true, nil
}

func (r *SessionRepository) Save(ctx context.Context, user domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file := sessionFileSchema{
		User: userSchema{
			ID:    string(user.ID),
			Email: user.Email,
			Name:  user.Name,
		},
	}
	file.applyDefaults()

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode session file: %w", err)
	}

	return writeFileAtomic(r.sessionPath, data, sessionTempFilePattern)
}

func (r *SessionRepository) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	err := os.Remove(r.sessionPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete session file: %w", err)
	}

	return nil
}

func (r *SessionRepository) discardCorrupt() error {
	err := os.Remove(r.sessionPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("discard corrupt session file: %w", err)
	}

	return nil
}
