package application

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bnema/taskline-cli/internal/domain"
	"github.com/bnema/taskline-cli/internal/ports"
)

var ErrNotLoaded = errors.New("todo collection not loaded")

// Counts are derived from the current collection on every call, never
// cached, so they cannot drift from the items themselves.
type Counts struct {
	Active    int
	Completed int
}

// TodoList owns the in-memory todo collection for one authenticated user
// and keeps it in sync with its backing store. Mutations are never
// optimistic: the local copy only changes after the store confirmed the
// write, and the store's returned representation always wins, including its
// assigned ID. All writes to the collection are serialized.
type TodoList struct {
	store  ports.TodoStore
	userID domain.UserID

	mu     sync.Mutex
	items  []domain.Todo
	loaded bool
}

func NewTodoList(store ports.TodoStore, userID domain.UserID) *TodoList {
	return &TodoList{store: store, userID: userID}
}

// Load fetches the user's full collection and replaces the in-memory one.
// On failure the collection stays as it was: empty before the first load,
// the previous snapshot afterwards.
func (l *TodoList) Load(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	fetched, err := l.store.List(ctx)
	if err != nil {
		return fmt.Errorf("load todos: %w", err)
	}

	items := make([]domain.Todo, 0, len(fetched))
	for _, item := range fetched {
		item = l.scope(item)
		if item.UserID != l.userID {
			continue
		}
		items = append(items, item)
	}

	l.items = items
	l.loaded = true

	return nil
}

// Add validates the title, persists a new item through the store and
// appends the confirmed record. The store-assigned ID replaces any
// provisional one, so a later reload sees the same identifier.
func (l *TodoList) Add(ctx context.Context, title, description string) (domain.Todo, error) {
	trimmed, err := domain.ValidateTitle(title)
	if err != nil {
		return domain.Todo{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.loaded {
		return domain.Todo{}, ErrNotLoaded
	}

	created, err := l.store.Create(ctx, domain.TodoDraft{Title: trimmed, Description: description})
	if err != nil {
		return domain.Todo{}, fmt.Errorf("create todo: %w", err)
	}
	created = l.scope(created)

	if i := l.indexOf(created.ID); i >= 0 {
		l.items[i] = created
	} else {
		l.items = append(l.items, created)
	}

	return created, nil
}

// Toggle flips the completion flag of one item. The full item state is
// written to the store and the local copy is replaced with the store's
// response; the flip is confirmed, not optimistic-only.
func (l *TodoList) Toggle(ctx context.Context, id domain.TodoID) (domain.Todo, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(id)
	if i < 0 {
		return domain.Todo{}, domain.ErrTodoNotFound
	}

	updated := l.items[i]
	updated.Completed = !updated.Completed

	stored, err := l.store.Update(ctx, updated)
	if err != nil {
		return domain.Todo{}, fmt.Errorf("toggle todo %s: %w", id, err)
	}

	l.items[i] = l.scope(stored)

	return l.items[i], nil
}

// Edit replaces title and description of one item, keeping its completion
// flag. Same confirmation rule as Toggle.
func (l *TodoList) Edit(ctx context.Context, id domain.TodoID, title, description string) (domain.Todo, error) {
	trimmed, err := domain.ValidateTitle(title)
	if err != nil {
		return domain.Todo{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(id)
	if i < 0 {
		return domain.Todo{}, domain.ErrTodoNotFound
	}

	updated := l.items[i]
	updated.Title = trimmed
	updated.Description = description

	stored, err := l.store.Update(ctx, updated)
	if err != nil {
		return domain.Todo{}, fmt.Errorf("edit todo %s: %w", id, err)
	}

	l.items[i] = l.scope(stored)

	return l.items[i], nil
}

// Remove deletes one item. The local copy stays in place unless the
// backing delete succeeded; removing it early would let a reload resurrect
// a supposedly deleted item.
func (l *TodoList) Remove(ctx context.Context, id domain.TodoID) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(id)
	if i < 0 {
		return domain.ErrTodoNotFound
	}

	if err := l.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete todo %s: %w", id, err)
	}

	l.items = append(l.items[:i], l.items[i+1:]...)

	return nil
}

// ClearCompleted deletes every completed item through the store. Items
// whose delete fails stay in the collection; the failures are joined into
// the returned error. Returns how many items were removed.
func (l *TodoList) ClearCompleted(ctx context.Context) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.loaded {
		return 0, ErrNotLoaded
	}

	kept := make([]domain.Todo, 0, len(l.items))
	removed := 0
	var errs []error
	for _, item := range l.items {
		if !item.Completed {
			kept = append(kept, item)
			continue
		}
		if err := l.store.Delete(ctx, item.ID); err != nil {
			errs = append(errs, fmt.Errorf("delete todo %s: %w", item.ID, err))
			kept = append(kept, item)
			continue
		}
		removed++
	}

	l.items = kept

	return removed, errors.Join(errs...)
}

// Filtered returns a copy of the items matching the filter, in collection
// order. It never mutates the underlying collection.
func (l *TodoList) Filtered(filter domain.Filter) []domain.Todo {
	l.mu.Lock()
	defer l.mu.Unlock()

	view := make([]domain.Todo, 0, len(l.items))
	for _, item := range l.items {
		if filter.Matches(item) {
			view = append(view, item)
		}
	}

	return view
}

func (l *TodoList) Counts() Counts {
	l.mu.Lock()
	defer l.mu.Unlock()

	counts := Counts{}
	for _, item := range l.items {
		if item.Completed {
			counts.Completed++
		} else {
			counts.Active++
		}
	}

	return counts
}

func (l *TodoList) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.items)
}

// Reset discards the collection, e.g. when the session's user changes.
func (l *TodoList) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.items = nil
	l.loaded = false
}

// scope fills in the owning user on records the store returned without one.
func (l *TodoList) scope(item domain.Todo) domain.Todo {
	if item.UserID == "" {
		item.UserID = l.userID
	}
	return item
}

func (l *TodoList) indexOf(id domain.TodoID) int {
	for i, item := range l.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}
