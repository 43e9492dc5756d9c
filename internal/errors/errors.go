// internal/errors/errors.go
package appErrors

import (
    "errors"
    "fmt"
)

// ErrScorerUnavailable means the external sentiment model could not be reached
// or returned an unusable response. The raw cause is kept for logging.
type ErrScorerUnavailable struct {
    Err error
}

func (e *ErrScorerUnavailable) Error() string {
    return fmt.Sprintf("sentiment scorer unavailable: %v", e.Err)
}

func (e *ErrScorerUnavailable) Unwrap() error { return e.Err }

func NewScorerUnavailable(err error) error {
    return &ErrScorerUnavailable{Err: err}
}

// ErrStoreUnavailable means a post store read or write failed.
type ErrStoreUnavailable struct {
    Op  string
    Err error
}

func (e *ErrStoreUnavailable) Error() string {
    return fmt.Sprintf("post store unavailable during %s: %v", e.Op, e.Err)
}

func (e *ErrStoreUnavailable) Unwrap() error { return e.Err }

func NewStoreUnavailable(op string, err error) error {
    return &ErrStoreUnavailable{Op: op, Err: err}
}

// ErrInvalidRequest means the caller supplied an unusable request, e.g. an
// empty phrase or an empty keyword list.
type ErrInvalidRequest struct {
    Reason string
}

func (e *ErrInvalidRequest) Error() string {
    return fmt.Sprintf("invalid request: %s", e.Reason)
}

func NewInvalidRequest(reason string) error {
    return &ErrInvalidRequest{Reason: reason}
}

// ErrPartialBatchFailure is returned by SaveAll when some but not all posts
// were persisted. Committed counts the writes already acknowledged before the
// failing one; FailedIndex/FailedID identify the post whose write failed.
type ErrPartialBatchFailure struct {
    Committed   int
    FailedIndex int
    FailedID    string
    Err         error
}

func (e *ErrPartialBatchFailure) Error() string {
    return fmt.Sprintf("batch save failed at index %d (post %s) after %d committed: %v",
        e.FailedIndex, e.FailedID, e.Committed, e.Err)
}

func (e *ErrPartialBatchFailure) Unwrap() error { return e.Err }

func NewPartialBatchFailure(committed, failedIndex int, failedID string, err error) error {
    return &ErrPartialBatchFailure{
        Committed:   committed,
        FailedIndex: failedIndex,
        FailedID:    failedID,
        Err:         err,
    }
}

// ====================== Kind checks ======================

func IsScorerUnavailable(err error) bool {
    var target *ErrScorerUnavailable
    return errors.As(err, &target)
}

func IsStoreUnavailable(err error) bool {
    var target *ErrStoreUnavailable
    return errors.As(err, &target)
}

func IsInvalidRequest(err error) bool {
    var target *ErrInvalidRequest
    return errors.As(err, &target)
}

func IsPartialBatchFailure(err error) bool {
    var target *ErrPartialBatchFailure
    return errors.As(err, &target)
}
