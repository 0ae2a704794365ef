// Package domain contains core concepts of the chat system.
// This file defines Result, the two-case outcome returned by fallible chat operations.
package domain

type resultKind uint8

const (
	unset resultKind = iota
	failure
	success
)

// Result carries either a failure payload F or a success payload S, never both.
// It is immutable once built; use Fail or Succeed to build one.
// The zero Result is neither a failure nor a success.
type Result[F, S any] struct {
	kind    resultKind
	failure F
	success S
}

// Fail wraps a failure payload.
func Fail[F, S any](f F) Result[F, S] {
	return Result[F, S]{kind: failure, failure: f}
}

// Succeed wraps a success payload.
func Succeed[F, S any](s S) Result[F, S] {
	return Result[F, S]{kind: success, success: s}
}

func (r Result[F, S]) IsFailure() bool {
	return r.kind == failure
}

func (r Result[F, S]) IsSuccess() bool {
	return r.kind == success
}

// Failure returns the failure payload, or the zero F when r is not a failure.
func (r Result[F, S]) Failure() F {
	return r.failure
}

// Success returns the success payload, or the zero S when r is not a success.
func (r Result[F, S]) Success() S {
	return r.success
}

// Value returns whichever payload r holds. Check IsFailure before interpreting it.
func (r Result[F, S]) Value() any {
	switch r.kind {
	case failure:
		return r.failure
	case success:
		return r.success
	default:
		return nil
	}
}
