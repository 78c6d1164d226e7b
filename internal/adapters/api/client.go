package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bnema/taskline-cli/internal/domain"
	"github.com/bnema/taskline-cli/internal/ports"
)

const maxResponseBytes = 1 << 20

// Client talks to the task API. A zero token is fine for the auth
// endpoints; todo operations require one (WithToken).
type Client struct {
	baseURL        string
	httpClient     *http.Client
	token          string
	requestTimeout time.Duration
}

var (
	_ ports.AuthClient = (*Client)(nil)
	_ ports.TodoStore  = (*Client)(nil)
)

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		httpClient:     httpClient,
		requestTimeout: 30 * time.Second,
	}
}

// WithToken returns a copy of the client that authenticates every request
// with the given bearer credential.
func (c *Client) WithToken(token string) *Client {
	clone := *c
	clone.token = token
	return &clone
}

func (c *Client) Signup(ctx context.Context, req ports.SignupRequest) (domain.User, string, error) {
	body := signupRequest{Name: req.Name, Email: req.Email, Password: req.Password}

	var resp signupResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/signup", body, &resp); err != nil {
		return domain.User{}, "", fmt.Errorf("signup request: %w", err)
	}
	if resp.ID == "" {
		return domain.User{}, "", errors.New("signup response missing user id")
	}
	if resp.AccessToken == "" {
		return domain.User{}, "", errors.New("signup response missing access token")
	}

	// The signup response carries no user object; the identity is the
	// request's name and email plus the server-assigned id.
	user := domain.User{ID: domain.UserID(resp.ID), Email: req.Email, Name: req.Name}

	return user, resp.AccessToken, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	body := loginRequest{Email: email, Password: password}

	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", body, &resp); err != nil {
		return domain.User{}, "", fmt.Errorf("login request: %w", err)
	}
	if resp.User.ID == "" || resp.AccessToken == "" {
		return domain.User{}, "", errors.New("login response missing user or access token")
	}

	return resp.User.toDomain(), resp.AccessToken, nil
}

func (c *Client) List(ctx context.Context) ([]domain.Todo, error) {
	var records []todoRecord
	if err := c.do(ctx, http.MethodGet, "/api/v1/todos", nil, &records); err != nil {
		return nil, fmt.Errorf("list todos request: %w", err)
	}

	todos := make([]domain.Todo, 0, len(records))
	for _, record := range records {
		todos = append(todos, record.toDomain())
	}

	return todos, nil
}

func (c *Client) Create(ctx context.Context, draft domain.TodoDraft) (domain.Todo, error) {
	body := todoDraftBody{Title: draft.Title, Description: draft.Description}

	var record todoRecord
	if err := c.do(ctx, http.MethodPost, "/api/v1/todos", body, &record); err != nil {
		return domain.Todo{}, fmt.Errorf("create todo request: %w", err)
	}

	return record.toDomain(), nil
}

func (c *Client) Update(ctx context.Context, todo domain.Todo) (domain.Todo, error) {
	body := todoUpdateBody{Title: todo.Title, Description: todo.Description, Completed: todo.Completed}

	var record todoRecord
	err := c.do(ctx, http.MethodPut, "/api/v1/todos/"+url.PathEscape(string(todo.ID)), body, &record)
	if err != nil {
		return domain.Todo{}, fmt.Errorf("update todo request: %w", err)
	}

	return record.toDomain(), nil
}

func (c *Client) Delete(ctx context.Context, id domain.TodoID) error {
	err := c.do(ctx, http.MethodDelete, "/api/v1/todos/"+url.PathEscape(string(id)), nil, nil)
	if err != nil {
		return fmt.Errorf("delete todo request: %w", err)
	}

	return nil
}

// Ping checks the API's health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.do(ctx, http.MethodGet, "/api/v1/healthz", nil, nil); err != nil {
		return fmt.Errorf("health check request: %w", err)
	}

	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(requestCtx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("perform request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		if resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: %s", domain.ErrTodoNotFound, decodeDetail(payload))
		}
		return &StatusError{StatusCode: resp.StatusCode, Detail: decodeDetail(payload)}
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func (c *Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.requestTimeout <= 0 {
		return ctx, func() {}
	}

	return context.WithTimeout(ctx, c.requestTimeout)
}

// StatusError is a non-2xx API response. Detail carries the server's
// explanation when it sent one.
type StatusError struct {
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}

	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}
