package replicas

import (
	"errors"
	"fmt"
)

var (
	ErrBackendUnavailable    = errors.New("backend is unavailable")
	ErrUnrecognizedOperation = errors.New("unrecognized operation")
	ErrConflictingRole       = errors.New("operation is declared with both primary and replica roles")
	ErrEmptyOperation        = errors.New("operation name should not be empty")
	ErrInvalidRole           = errors.New("role must be primary or replica")
	ErrClosed                = errors.New("pool is closed")
	ErrExists                = errors.New("replica exists")
	ErrEmptyName             = errors.New("replica name should not be empty")
)

// UnrecognizedOperationError is returned when an operation absent from the
// role table is forwarded through a proxying connection.
type UnrecognizedOperationError struct {
	Operation string
}

// Error converts an UnrecognizedOperationError to a string.
func (e UnrecognizedOperationError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnrecognizedOperation, e.Operation)
}

// Is reports whether target is ErrUnrecognizedOperation.
func (e UnrecognizedOperationError) Is(target error) bool {
	return target == ErrUnrecognizedOperation
}

// ConflictingRoleError names an operation found in both declaration lists.
type ConflictingRoleError struct {
	Operation string
}

func (e ConflictingRoleError) Error() string {
	return fmt.Sprintf("%s: %q", ErrConflictingRole, e.Operation)
}

func (e ConflictingRoleError) Is(target error) bool {
	return target == ErrConflictingRole
}
