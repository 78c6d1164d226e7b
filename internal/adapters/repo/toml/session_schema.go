package toml

import "fmt"

const currentSessionSchemaVersion = 1

type sessionFileSchema struct {
	Version int        `toml:"version"`
	User    userSchema `toml:"user"`
}

type userSchema struct {
	ID    string `toml:"id"`
	Email string `toml:"email"`
	Name  string `toml:"name"`
}

func (s *sessionFileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSessionSchemaVersion
	}
}

func (s sessionFileSchema) validateVersion() error {
	if s.Version > currentSessionSchemaVersion {
		return fmt.Errorf("unsupported session schema version %d (current %d)", s.Version, currentSessionSchemaVersion)
	}

	return nil
}
