package auth

import "errors"

var (
	ErrNotFound        = errors.New("auth: not found")
	ErrInvalidInput    = errors.New("auth: invalid input")
	ErrUnauthenticated = errors.New("auth: unauthenticated")
	ErrUnauthorized    = errors.New("auth: unauthorized")
)
