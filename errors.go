package aggregen

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/syssam/aggregen/dialect/sql"
)

// Standard sentinel errors returned by generated aggregate code.
var (
	// ErrNotFound is returned when the major row of an aggregate does not exist.
	ErrNotFound = errors.New("aggregen: aggregate not found")

	// ErrPersistence is returned when the underlying storage call fails.
	ErrPersistence = errors.New("aggregen: persistence failed")
)

// NotFoundError represents an error when an aggregate is not found.
type NotFoundError struct {
	label string
	key   any // Optional: the key that was searched for
}

// Error returns the error string.
func (e *NotFoundError) Error() string {
	if e.key != nil {
		return fmt.Sprintf("aggregen: %s not found (key=%v)", e.label, e.key)
	}
	return fmt.Sprintf("aggregen: %s not found", e.label)
}

// Is reports whether the target error matches NotFoundError.
// This allows errors.Is(notFoundErr, ErrNotFound) to return true.
func (e *NotFoundError) Is(err error) bool {
	return err == ErrNotFound
}

// Label returns the table label.
func (e *NotFoundError) Label() string {
	return e.label
}

// Key returns the key that was searched for, if available.
func (e *NotFoundError) Key() any {
	return e.key
}

// NewNotFoundError returns a new NotFoundError for the given table.
func NewNotFoundError(label string) *NotFoundError {
	return &NotFoundError{label: label}
}

// NewNotFoundErrorWithKey returns a new NotFoundError with the key that was searched for.
func NewNotFoundErrorWithKey(label string, key any) *NotFoundError {
	return &NotFoundError{label: label, key: key}
}

// IsNotFound returns true if the error is a NotFoundError.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var e *NotFoundError
	return errors.As(err, &e) || errors.Is(err, ErrNotFound)
}

// PersistenceError wraps an opaque storage failure with the cascade step
// that produced it. The underlying error is not interpreted further.
type PersistenceError struct {
	Op    string // Operation (e.g., "insert", "update", "delete", "select")
	Table string // Table the statement targeted
	Err   error  // Underlying driver error
}

// Error returns the error string.
func (e *PersistenceError) Error() string {
	return fmt.Sprintf("aggregen: %s %s: %v", e.Op, e.Table, e.Err)
}

// Unwrap returns the underlying error.
func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Is reports whether the target matches the sentinel error for PersistenceError.
func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

// NewPersistenceError returns a new PersistenceError. A nil err yields nil,
// and errors that already carry a PersistenceError are returned untouched.
// Constraint violations reported by the driver are wrapped in a
// ConstraintError first.
func NewPersistenceError(op, table string, err error) error {
	if err == nil {
		return nil
	}
	if IsPersistence(err) || IsNotFound(err) {
		return err
	}
	if kind := constraintKind(err); kind != "" && !IsConstraintError(err) {
		err = NewConstraintError(fmt.Sprintf("%s violation on %s", kind, table), err)
	}
	return &PersistenceError{Op: op, Table: table, Err: err}
}

func constraintKind(err error) string {
	switch {
	case sql.IsUniqueConstraintError(err):
		return "unique"
	case sql.IsForeignKeyConstraintError(err):
		return "foreign key"
	case sql.IsCheckConstraintError(err):
		return "check"
	default:
		return ""
	}
}

// IsPersistence returns true if the error is a PersistenceError.
func IsPersistence(err error) bool {
	if err == nil {
		return false
	}
	var e *PersistenceError
	return errors.As(err, &e)
}

// ConstraintError represents a database constraint violation error.
type ConstraintError struct {
	msg  string
	wrap error
}

// Error returns the error string.
func (e ConstraintError) Error() string {
	return fmt.Sprintf("aggregen: constraint failed: %s", e.msg)
}

// Unwrap returns the underlying error.
func (e ConstraintError) Unwrap() error {
	return e.wrap
}

// NewConstraintError returns a new ConstraintError with the given message.
func NewConstraintError(msg string, wrap error) error {
	return ConstraintError{msg: msg, wrap: wrap}
}

// IsConstraintError returns true if the error is a ConstraintError.
func IsConstraintError(err error) bool {
	if err == nil {
		return false
	}
	var e ConstraintError
	return errors.As(err, &e)
}

// Status maps a cascade error to a response status and a message that is
// safe to show to API callers. Internal details are never exposed for
// persistence failures.
func Status(err error) (int, string) {
	switch {
	case err == nil:
		return http.StatusOK, http.StatusText(http.StatusOK)
	case IsNotFound(err):
		return http.StatusNotFound, err.Error()
	case IsConstraintError(err):
		return http.StatusConflict, "aggregen: constraint failed"
	default:
		return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
	}
}
