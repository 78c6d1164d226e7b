package domain

import "errors"

var (
	ErrTodoNotFound  = errors.New("todo not found")
	ErrNotLoggedIn   = errors.New("not logged in")
	ErrUnknownFilter = errors.New("unknown filter")

	ErrEmptyTitle       = errors.New("title must not be empty")
	ErrMissingName      = errors.New("name must not be empty")
	ErrInvalidEmail     = errors.New("invalid email address")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
)
