package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/bnema/taskline-cli/internal/adapters/api"
	tomlrepo "github.com/bnema/taskline-cli/internal/adapters/repo/toml"
	filestore "github.com/bnema/taskline-cli/internal/adapters/secrets/file"
	"github.com/bnema/taskline-cli/internal/application"
	"github.com/bnema/taskline-cli/internal/domain"
	"github.com/bnema/taskline-cli/internal/ports"
	"github.com/spf13/viper"
)

const (
	storageRemote = "remote"
	storageLocal  = "local"
)

type app struct {
	sessions    *application.SessionStore
	auth        *application.AuthService
	apiClient   *api.Client
	todoRepo    *tomlrepo.TodoRepository
	storage     string
	restoreOnce sync.Once
}

func wireApp() (*app, error) {
	sessionRepo, err := tomlrepo.NewSessionRepository(viper.New())
	if err != nil {
		return nil, fmt.Errorf("wire session repository: %w", err)
	}

	todoRepo, err := tomlrepo.NewTodoRepository(viper.New())
	if err != nil {
		return nil, fmt.Errorf("wire todo repository: %w", err)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	tokens := filestore.NewStore(filepath.Join(homeDir, ".taskline", "secrets"))
	apiClient := api.NewClient(envOrDefault("TL_API_BASE_URL", "http://localhost:8000"), http.DefaultClient)
	sessions := application.NewSessionStore(sessionRepo, tokens, todoRepo)

	return &app{
		sessions:  sessions,
		auth:      application.NewAuthService(apiClient, sessions),
		apiClient: apiClient,
		todoRepo:  todoRepo,
		storage:   envOrDefault("TL_STORAGE", storageRemote),
	}, nil
}

// restore replays the persisted session exactly once per process.
func (a *app) restore(ctx context.Context) {
	a.restoreOnce.Do(func() {
		a.sessions.Restore(ctx)
	})
}

// todoList builds the controller for the current user, backed by the
// remote API or the local file store depending on configuration. Commands
// that mutate or read tasks refuse to run without a restored login.
func (a *app) todoList(ctx context.Context) (*application.TodoList, domain.User, error) {
	a.restore(ctx)

	session, err := a.sessions.Current()
	if err != nil {
		return nil, domain.User{}, fmt.Errorf("%w (run `tl login` or `tl signup` first)", err)
	}

	var store ports.TodoStore
	if a.storage == storageLocal {
		store = a.todoRepo.ForUser(session.User.ID)
	} else {
		store = a.apiClient.WithToken(session.Token)
	}

	return application.NewTodoList(store, session.User.ID), session.User, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
