package errors

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	ErrConversationAlreadyExists = fmt.Errorf("conversation already exists for this pair")
	ErrUserAlreadyExists         = fmt.Errorf("user already exists")
	ErrUserNotFound              = fmt.Errorf("user not found")
	ErrInvalidCredentials        = fmt.Errorf("invalid credentials")
	ErrInvalidPassword           = fmt.Errorf("password does not meet complexity requirements")
	ErrTokenGeneration           = fmt.Errorf("failed to generate token")
	ErrUnauthenticated           = fmt.Errorf("authentication required")
	ErrCorruptedRecord           = fmt.Errorf("corrupted record")
	ErrUnknownStoreDriver        = fmt.Errorf("unknown store driver")
	ErrWorkerPanic               = fmt.Errorf("worker panicked")
	ErrIndexQueueFull            = fmt.Errorf("index queue is full")
	ErrInvalidCursor             = fmt.Errorf("invalid cursor")
)

// Is forwards to the standard library so callers need a single errors import.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As forwards to the standard library.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// MapToGRPCError translates domain sentinels into gRPC status errors.
// Anything unknown becomes codes.Internal without leaking its text.
func MapToGRPCError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, ErrUserAlreadyExists):
		return status.Error(codes.AlreadyExists, ErrUserAlreadyExists.Error())
	case errors.Is(err, ErrInvalidCredentials):
		return status.Error(codes.Unauthenticated, ErrInvalidCredentials.Error())
	case errors.Is(err, ErrUnauthenticated):
		return status.Error(codes.Unauthenticated, ErrUnauthenticated.Error())
	case errors.Is(err, ErrInvalidPassword):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
