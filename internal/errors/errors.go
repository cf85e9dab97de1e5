package errors

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	NotFound         = errors.New("not found")
	PermissionDenied = errors.New("permission denied")
	Conflict         = errors.New("conflict")
	Unavailable      = errors.New("unavailable")
	Validation       = errors.New("validation error")
	Unauthenticated  = errors.New("unauthenticated")
)

// Error carries a sentinel kind plus a message that is safe to show to a client.
type Error struct {
	Err     error
	Message string
	Field   string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NotFoundf(resource, id string) *Error {
	return &Error{Err: NotFound, Message: fmt.Sprintf("%s not found with id %s", resource, id)}
}

func Invalid(field, message string) *Error {
	return &Error{Err: Validation, Message: message, Field: field}
}

func Denied(message string) *Error {
	return &Error{Err: PermissionDenied, Message: message}
}

func Conflictf(resource, id string) *Error {
	return &Error{Err: Conflict, Message: fmt.Sprintf("%s conflict with id %s", resource, id)}
}

func Unauthenticatedf(message string) *Error {
	return &Error{Err: Unauthenticated, Message: message}
}

// FromStatus translates a Firestore/gRPC failure into one of the sentinels above.
// Errors that are not gRPC statuses, and codes without a mapping, are returned unchanged.
// FailedPrecondition stays unmapped: Firestore uses it for queries missing an index.
func FromStatus(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", Unavailable, err)
	}

	s, ok := status.FromError(err)
	if !ok {
		return err
	}

	switch s.Code() {
	case codes.NotFound:
		return fmt.Errorf("%w: %s", NotFound, s.Message())
	case codes.PermissionDenied:
		return fmt.Errorf("%w: %s", PermissionDenied, s.Message())
	case codes.Unauthenticated:
		return fmt.Errorf("%w: %s", Unauthenticated, s.Message())
	case codes.AlreadyExists, codes.Aborted:
		return fmt.Errorf("%w: %s", Conflict, s.Message())
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted:
		return fmt.Errorf("%w: %s", Unavailable, s.Message())
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", Validation, s.Message())
	}
	return err
}

// Kind reports which sentinel err wraps, or nil.
func Kind(err error) error {
	for _, k := range []error{NotFound, PermissionDenied, Conflict, Unavailable, Validation, Unauthenticated} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
