package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/bnema/taskline-cli/internal/domain"
	"github.com/bnema/taskline-cli/internal/ports"
	"github.com/google/uuid"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const todosTempFilePattern = ".todos-*.toml.tmp"

// TodoRepository is the local (pre-remote) todo backend: one TOML file
// holding every user's records, scoped per user on access. IDs are minted
// locally with uuid. Malformed file content is purged and treated as empty.
type TodoRepository struct {
	todosPath string
	clock     ports.Clock
	mu        *sync.RWMutex
}

var _ ports.TodoPurger = (*TodoRepository)(nil)

func NewTodoRepository(cfg *viper.Viper) (*TodoRepository, error) {
	todosPath, err := resolvePath(cfg, todosPathKey, todosFileName)
	if err != nil {
		return nil, err
	}

	return &TodoRepository{
		todosPath: todosPath,
		clock:     ports.SystemClock{},
		mu:        lockForPath(todosPath),
	}, nil
}

// ForUser returns a store view scoped to one user's collection.
func (r *TodoRepository) ForUser(userID domain.UserID) *UserTodoStore {
	return &UserTodoStore{repo: r, userID: userID}
}

// PurgeUser erases every stored record of the user. Called on logout so a
// later login on the same machine starts clean.
func (r *TodoRepository) PurgeUser(ctx context.Context, userID domain.UserID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}

	kept := file.Todos[:0]
	for _, entry := range file.Todos {
		if entry.UserID != string(userID) {
			kept = append(kept, entry)
		}
	}
	file.Todos = kept

	return r.writeSchema(file)
}

func (r *TodoRepository) readSchema() (todosFileSchema, error) {
	data, err := os.ReadFile(r.todosPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return todosFileSchema{}, nil
		}
		return todosFileSchema{}, fmt.Errorf("read todos file: %w", err)
	}

	var file todosFileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return todosFileSchema{}, r.discardCorrupt()
	}
	if err := file.validateVersion(); err != nil {
		return todosFileSchema{}, r.discardCorrupt()
	}
	file.applyDefaults()

	return file, nil
}

func (r *TodoRepository) writeSchema(file todosFileSchema) error {
	file.applyDefaults()

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode todos file: %w", err)
	}

	return writeFileAtomic(r.todosPath, data, todosTempFilePattern)
}

func (r *TodoRepository) discardCorrupt() error {
	err := os.Remove(r.todosPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("discard corrupt todos file: %w", err)
	}

	return nil
}

// UserTodoStore implements the todo store against the local file, scoped to
// one user.
type UserTodoStore struct {
	repo   *TodoRepository
	userID domain.UserID
}

var _ ports.TodoStore = (*UserTodoStore)(nil)

func (s *UserTodoStore) List(ctx context.Context) ([]domain.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.repo.mu.RLock()
	defer s.repo.mu.RUnlock()

	file, err := s.repo.readSchema()
	if err != nil {
		return nil, err
	}

	todos := make([]domain.Todo, 0, len(file.Todos))
	for _, entry := range file.Todos {
		if entry.UserID != string(s.userID) {
			continue
		}
		todos = append(todos, fromTodoSchema(entry))
	}

	return todos, nil
}

func (s *UserTodoStore) Create(ctx context.Context, draft domain.TodoDraft) (domain.Todo, error) {
	if err := ctx.Err(); err != nil {
		return domain.Todo{}, err
	}

	s.repo.mu.Lock()
	defer s.repo.mu.Unlock()

	file, err := s.repo.readSchema()
	if err != nil {
		return domain.Todo{}, err
	}

	todo := domain.Todo{
		ID:          domain.TodoID(uuid.NewString()),
		Title:       draft.Title,
		Description: draft.Description,
		UserID:      s.userID,
	}

	entry := toTodoSchema(todo)
	now := s.repo.clock.Now().UTC()
	entry.CreatedAt = now
	entry.UpdatedAt = now
	file.Todos = append(file.Todos, entry)

	if err := s.repo.writeSchema(file); err != nil {
		return domain.Todo{}, err
	}

	return todo, nil
}

func (s *UserTodoStore) Update(ctx context.Context, todo domain.Todo) (domain.Todo, error) {
	if err := ctx.Err(); err != nil {
		return domain.Todo{}, err
	}

	s.repo.mu.Lock()
	defer s.repo.mu.Unlock()

	file, err := s.repo.readSchema()
	if err != nil {
		return domain.Todo{}, err
	}

	for i, entry := range file.Todos {
		if entry.ID != string(todo.ID) || entry.UserID != string(s.userID) {
			continue
		}

		todo.UserID = s.userID
		updated := toTodoSchema(todo)
		updated.CreatedAt = entry.CreatedAt
		updated.UpdatedAt = s.repo.clock.Now().UTC()
		file.Todos[i] = updated
		if err := s.repo.writeSchema(file); err != nil {
			return domain.Todo{}, err
		}

		return todo, nil
	}

	return domain.Todo{}, domain.ErrTodoNotFound
}

func (s *UserTodoStore) Delete(ctx context.Context, id domain.TodoID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.repo.mu.Lock()
	defer s.repo.mu.Unlock()

	file, err := s.repo.readSchema()
	if err != nil {
		return err
	}

	for i, entry := range file.Todos {
		if entry.ID != string(id) || entry.UserID != string(s.userID) {
			continue
		}

		file.Todos = append(file.Todos[:i], file.Todos[i+1:]...)
		return s.repo.writeSchema(file)
	}

	return domain.ErrTodoNotFound
}

func toTodoSchema(todo domain.Todo) todoSchema {
	return todoSchema{
		ID:          string(todo.ID),
		Title:       todo.Title,
		Description: todo.Description,
		Completed:   todo.Completed,
		UserID:      string(todo.UserID),
	}
}

func fromTodoSchema(entry todoSchema) domain.Todo {
	return domain.Todo{
		ID:          domain.TodoID(entry.ID),
		Title:       entry.Title,
		Description: entry.Description,
		Completed:   entry.Completed,
		UserID:      domain.UserID(entry.UserID),
	}
}
