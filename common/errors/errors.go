package errors

import (
	"errors"
	"fmt"

	goerrors "github.com/go-errors/errors"
)

type ErrorType string

const (
	ErrTypeInvalidInput ErrorType = "INVALID_INPUT"
	ErrTypeRejected     ErrorType = "REJECTED"
	ErrTypeInternal     ErrorType = "INTERNAL"
	ErrTypeUnavailable  ErrorType = "UNAVAILABLE"
)

type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
	Stack   []byte
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func (e *DomainError) StackTrace() []byte {
	return e.Stack
}

func New(errType ErrorType, message string, err error) *DomainError {
	var stack []byte
	if err != nil {
		var stackErr *goerrors.Error
		if errors.As(err, &stackErr) {
			stack = stackErr.Stack()
		} else {
			stack = goerrors.Wrap(err, 2).Stack()
		}
	} else {
		stack = goerrors.New(message).Stack()
	}

	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
		Stack:   stack,
	}
}

// IsType reports whether err carries a DomainError of the given type anywhere in its chain.
func IsType(err error, errType ErrorType) bool {
	var de *DomainError
	if !errors.As(err, &de) {
		return false
	}
	return de.Type == errType
}

func InvalidInput(message string, err error) *DomainError {
	return New(ErrTypeInvalidInput, message, err)
}

func Rejected(message string, err error) *DomainError {
	return New(ErrTypeRejected, message, err)
}

func Internal(message string, err error) *DomainError {
	return New(ErrTypeInternal, message, err)
}

func Unavailable(message string, err error) *DomainError {
	return New(ErrTypeUnavailable, message, err)
}
