// internal/errors/errors.go
package appErrors

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateEmail is matched by every DuplicateEmailError.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrStorageUnavailable wraps any backend failure that is not a constraint violation.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrCustomerNotFound is matched by every CustomerNotFoundError.
	ErrCustomerNotFound = errors.New("customer not found")

	ErrInvalidCustomer = errors.New("invalid customer")
)

// DuplicateEmailError is returned when an insert violates the unique email constraint.
type DuplicateEmailError struct {
	Email string
	Err   error
}

func (e *DuplicateEmailError) Error() string {
	return fmt.Sprintf("customer with email %q already exists", e.Email)
}

func (e *DuplicateEmailError) Is(target error) bool {
	return target == ErrDuplicateEmail
}

func (e *DuplicateEmailError) Unwrap() error {
	return e.Err
}

// Helper constructor
func NewDuplicateEmail(email string, cause error) error {
	return &DuplicateEmailError{Email: email, Err: cause}
}

// CustomerNotFoundError carries the key the lookup was made with (id or email).
type CustomerNotFoundError struct {
	Key string
}

func (e *CustomerNotFoundError) Error() string {
	return fmt.Sprintf("customer %s not found", e.Key)
}

func (e *CustomerNotFoundError) Is(target error) bool {
	return target == ErrCustomerNotFound
}

func NewCustomerNotFoundByID(id int64) error {
	return &CustomerNotFoundError{Key: fmt.Sprintf("with ID %d", id)}
}

func NewCustomerNotFoundByEmail(email string) error {
	return &CustomerNotFoundError{Key: fmt.Sprintf("with email %q", email)}
}

// StorageError wraps a backend failure while staying matchable as ErrStorageUnavailable.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Op, ErrStorageUnavailable, e.Err)
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorageUnavailable
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func NewStorageError(op string, cause error) error {
	return &StorageError{Op: op, Err: cause}
}
