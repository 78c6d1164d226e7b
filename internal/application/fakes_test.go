package application

import (
	"context"
	"fmt"

	"github.com/bnema/taskline-cli/internal/domain"
	"github.com/bnema/taskline-cli/internal/ports"
)

type fakeSessionRepo struct {
	user     domain.User
	hasUser  bool
	loadErr  error
	saveErr  error
	clearErr error
	clears   int
}

var _ ports.SessionRepository = (*fakeSessionRepo)(nil)

func (r *fakeSessionRepo) Load(context.Context) (domain.User, bool, error) {
	if r.loadErr != nil {
		return domain.User{}, false, r.loadErr
	}
	return r.user, r.hasUser, nil
}

func (r *fakeSessionRepo) Save(_ context.Context, user domain.User) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.user = user
	r.hasUser = true
	return nil
}

func (r *fakeSessionRepo) Clear(context.Context) error {
	r.clears++
	if r.clearErr != nil {
		return r.clearErr
	}
	r.user = domain.User{}
	r.hasUser = false
	return nil
}

type fakeTokenStore struct {
	values  map[string]string
	getErr  error
	putErr  error
	deleted []string
}

var _ ports.TokenStore = (*fakeTokenStore)(nil)

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{values: map[string]string{}}
}

func (s *fakeTokenStore) Get(_ context.Context, key string) (string, error) {
	if s.getErr != nil {
		return "", s.getErr
	}
	return s.values[key], nil
}

func (s *fakeTokenStore) Put(_ context.Context, key, value string) error {
	if s.putErr != nil {
		return s.putErr
	}
	s.values[key] = value
	return nil
}

func (s *fakeTokenStore) Delete(_ context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	delete(s.values, key)
	return nil
}

type fakePurger struct {
	purged []domain.UserID
	err    error
}

var _ ports.TodoPurger = (*fakePurger)(nil)

func (p *fakePurger) PurgeUser(_ context.Context, userID domain.UserID) error {
	if p.err != nil {
		return p.err
	}
	p.purged = append(p.purged, userID)
	return nil
}

// fakeTodoStore behaves like the remote store: it assigns its own IDs on
// create and echoes back the stored representation on update.
type fakeTodoStore struct {
	items     []domain.Todo
	userID    domain.UserID
	nextID    int
	listErr   error
	createErr error
	updateErr error
	deleteErr error
}

var _ ports.TodoStore = (*fakeTodoStore)(nil)

func newFakeTodoStore(userID domain.UserID) *fakeTodoStore {
	return &fakeTodoStore{userID: userID}
}

func (s *fakeTodoStore) List(context.Context) ([]domain.Todo, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]domain.Todo, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *fakeTodoStore) Create(_ context.Context, draft domain.TodoDraft) (domain.Todo, error) {
	if s.createErr != nil {
		return domain.Todo{}, s.createErr
	}
	s.nextID++
	item := domain.Todo{
		ID:          domain.TodoID(fmt.Sprintf("srv-%d", s.nextID)),
		Title:       draft.Title,
		Description: draft.Description,
		UserID:      s.userID,
	}
	s.items = append(s.items, item)
	return item, nil
}

func (s *fakeTodoStore) Update(_ context.Context, todo domain.Todo) (domain.Todo, error) {
	if s.updateErr != nil {
		return domain.Todo{}, s.updateErr
	}
	for i := range s.items {
		if s.items[i].ID == todo.ID {
			s.items[i] = todo
			return todo, nil
		}
	}
	return domain.Todo{}, domain.ErrTodoNotFound
}

func (s *fakeTodoStore) Delete(_ context.Context, id domain.TodoID) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return domain.ErrTodoNotFound
}

type fakeAuthClient struct {
	user      domain.User
	token     string
	signupErr error
	loginErr  error
	calls     int
}

var _ ports.AuthClient = (*fakeAuthClient)(nil)

func (c *fakeAuthClient) Signup(_ context.Context, req ports.SignupRequest) (domain.User, string, error) {
	c.calls++
	if c.signupErr != nil {
		return domain.User{}, "", c.signupErr
	}
	user := c.user
	if user.Name == "" {
		user = domain.User{ID: "u-new", Email: req.Email, Name: req.Name}
	}
	return user, c.token, nil
}

func (c *fakeAuthClient) Login(_ context.Context, email, _ string) (domain.User, string, error) {
	c.calls++
	if c.loginErr != nil {
		return domain.User{}, "", c.loginErr
	}
	user := c.user
	if user.Email == "" {
		user.Email = email
	}
	return user, c.token, nil
}
