package toml

import (
	"fmt"
	"time"
)

const currentTodosSchemaVersion = 1

type todosFileSchema struct {
	Version int          `toml:"version"`
	Todos   []todoSchema `toml:"todos"`
}

type todoSchema struct {
	ID          string    `toml:"id"`
	Title       string    `toml:"title"`
	Description string    `toml:"description,omitempty"`
	Completed   bool      `toml:"completed"`
	UserID      string    `toml:"user_id"`
	CreatedAt   time.Time `toml:"created_at,omitempty"`
	UpdatedAt   time.Time `toml:"updated_at,omitempty"`
}

func (s *todosFileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentTodosSchemaVersion
	}
}

func (s todosFileSchema) validateVersion() error {
	if s.Version > currentTodosSchemaVersion {
		return fmt.Errorf("unsupported todos schema version %d (current %d)", s.Version, currentTodosSchemaVersion)
	}

	return nil
}
