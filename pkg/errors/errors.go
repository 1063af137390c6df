package errors

import (
	"errors"
)

var (
	ErrBadRequest     = errors.New("bad request")
	ErrPlayerNotFound = errors.New("player not found")
	ErrNilPlayer      = errors.New("player is nil")
	ErrUnauthorized   = errors.New("unauthorized")
)
