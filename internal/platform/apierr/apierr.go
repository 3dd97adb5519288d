package apierr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/yungbote/leettrack-backend/internal/services"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

var errInternal = errors.New("internal error")

// FromService maps a cache-engine error onto the HTTP status and code clients see.
// Unclassified errors are reported as a generic internal error so store or
// driver details never leak into responses.
func FromService(err error) *Error {
	var ae *Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &ae):
		return ae
	case errors.Is(err, services.ErrInvalidUsername):
		return New(http.StatusBadRequest, "invalid_username", err)
	case errors.Is(err, services.ErrUserNotFound):
		return New(http.StatusNotFound, "user_not_found", err)
	case errors.Is(err, services.ErrUpstreamUnavailable):
		return New(http.StatusBadGateway, "upstream_unavailable", services.ErrUpstreamUnavailable)
	default:
		return New(http.StatusInternalServerError, "internal_error", errInternal)
	}
}
