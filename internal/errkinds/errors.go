// Package errkinds defines the structured error kinds absorb can
// surface, so callers can branch on error.Is/errors.As instead of
// matching against formatted strings.
package errkinds

import (
	"errors"
	"fmt"
)

// Sentinel kinds. Wrap one of these with the richer types below when a
// path, commit id, or reason needs to travel with the error.
var (
	// ErrRepositoryUnavailable means the store could not be opened or HEAD
	// could not be resolved. Always fatal before any work begins.
	ErrRepositoryUnavailable = errors.New("repository unavailable")

	// ErrUnsafeState means a safety precondition failed: detached HEAD
	// without --force-detach, a merge in progress, or similar. Fatal
	// unless the corresponding override applies.
	ErrUnsafeState = errors.New("unsafe repository state")

	// ErrEmptyInput means there is nothing staged to absorb.
	ErrEmptyInput = errors.New("nothing staged to absorb")

	// ErrUnabsorbableHunk means a hunk commuted past the entire stack, or
	// failed the commutation safety check, without finding a target.
	ErrUnabsorbableHunk = errors.New("hunk could not be absorbed")

	// ErrWriteFailure means an object-store write or ref update failed
	// partway through emitting fixup commits.
	ErrWriteFailure = errors.New("failed to write fixup commit")
)

// UnsafeStateError carries the specific reason a safety precondition
// failed, for diagnostics that name the exact condition rather than a
// generic message.
type UnsafeStateError struct {
	Reason string
}

func (e *UnsafeStateError) Error() string {
	return fmt.Sprintf("unsafe repository state: %s", e.Reason)
}

func (e *UnsafeStateError) Is(target error) bool {
	return target == ErrUnsafeState
}

// NewUnsafeStateError constructs an UnsafeStateError.
func NewUnsafeStateError(reason string) *UnsafeStateError {
	return &UnsafeStateError{Reason: reason}
}

// UnabsorbableHunkError names the hunk (by path and the new-side line it
// starts at) that could not be attributed, and why.
type UnabsorbableHunkError struct {
	Path    string
	NewLine int
	Reason  string
}

func (e *UnabsorbableHunkError) Error() string {
	return fmt.Sprintf("%s:%d left unabsorbed: %s", e.Path, e.NewLine, e.Reason)
}

func (e *UnabsorbableHunkError) Is(target error) bool {
	return target == ErrUnabsorbableHunk
}

// NewUnabsorbableHunkError constructs an UnabsorbableHunkError.
func NewUnabsorbableHunkError(path string, newLine int, reason string) *UnabsorbableHunkError {
	return &UnabsorbableHunkError{Path: path, NewLine: newLine, Reason: reason}
}

// WriteFailureError names the target commit whose fixup failed to write
// and wraps the underlying object-store error.
type WriteFailureError struct {
	TargetCommit string
	Err          error
}

func (e *WriteFailureError) Error() string {
	return fmt.Sprintf("failed to write fixup for %s: %v", e.TargetCommit, e.Err)
}

func (e *WriteFailureError) Is(target error) bool {
	return target == ErrWriteFailure
}

func (e *WriteFailureError) Unwrap() error {
	return e.Err
}

// NewWriteFailureError constructs a WriteFailureError.
func NewWriteFailureError(targetCommit string, err error) *WriteFailureError {
	return &WriteFailureError{TargetCommit: targetCommit, Err: err}
}

// RepositoryError wraps a low-level repository-open or HEAD-resolution
// failure with the operation that failed.
type RepositoryError struct {
	Op  string
	Err error
}

func (e *RepositoryError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RepositoryError) Is(target error) bool {
	return target == ErrRepositoryUnavailable
}

func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// NewRepositoryError constructs a RepositoryError.
func NewRepositoryError(op string, err error) *RepositoryError {
	return &RepositoryError{Op: op, Err: err}
}
