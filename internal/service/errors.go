package service

import (
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/khaja/internal/auth"
	"github.com/mmynk/khaja/internal/validation"
)

var (
	// errAuthRequired is returned when a handler runs without an identity.
	errAuthRequired = errors.New("authentication required")
	// errAccountNotFound is returned for a valid token whose user was removed.
	errAccountNotFound = errors.New("account not found")
)

// toConnectError maps domain errors to Connect status codes. Validation
// messages are passed through unchanged so clients can show them.
func toConnectError(err error) *connect.Error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr
	}

	switch {
	case errors.Is(err, validation.ErrMemberNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, validation.ErrMemberInUse):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, validation.ErrDuplicateName), errors.Is(err, auth.ErrEmailExists):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case validation.IsValidationError(err),
		errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, auth.ErrInvalidEmail):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, errAuthRequired):
		return connect.NewError(connect.CodeUnauthenticated, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
