package api

import (
	"encoding/json"
	"strings"

	"github.com/bnema/taskline-cli/internal/domain"
)

// Wire records use the store's `_id` field; the mapping to domain `id`
// happens here and nowhere else.

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupResponse struct {
	ID          string `json:"_id"`
	AccessToken string `json:"access_token"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	User        userRecord `json:"user"`
	AccessToken string     `json:"access_token"`
}

type userRecord struct {
	ID    string `json:"_id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (r userRecord) toDomain() domain.User {
	return domain.User{
		ID:    domain.UserID(r.ID),
		Email: r.Email,
		Name:  r.Name,
	}
}

type todoRecord struct {
	ID          string `json:"_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	UserID      string `json:"userId"`
}

func (r todoRecord) toDomain() domain.Todo {
	return domain.Todo{
		ID:          domain.TodoID(r.ID),
		Title:       r.Title,
		Description: r.Description,
		Completed:   r.Completed,
		UserID:      domain.UserID(r.UserID),
	}
}

type todoDraftBody struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type todoUpdateBody struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// decodeDetail extracts the server's detail field from an error payload,
// falling back to the raw body text.
func decodeDetail(payload []byte) string {
	var parsed errorResponse
	if err := json.Unmarshal(payload, &parsed); err == nil && parsed.Detail != "" {
		return parsed.Detail
	}

	return strings.TrimSpace(string(payload))
}
