package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies business errors so the HTTP layer can map them to status
// codes without string matching.
type Kind int

const (
	KindValidation Kind = iota
	KindNotFound
	KindInsufficientStock
	KindConflict
	KindPersistence
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func InsufficientStock(productName string) *Error {
	return &Error{Kind: KindInsufficientStock, Message: "Insufficient stock for product: " + productName}
}

func Conflict(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func Persistence(err error) *Error {
	return &Error{Kind: KindPersistence, Message: "Internal server error", Err: err}
}

// KindOf returns the kind of err, or KindPersistence for anything that is
// not an *Error (unexpected storage/driver failures).
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindPersistence
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
