package errors

import (
	"errors"
	"fmt"
)

// Kind classifies an AppError so controllers can map it to an HTTP status
// without matching on message text.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindConflict
	KindCapacityExceeded
	KindValidation
	KindUnauthorized
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindCapacityExceeded:
		return "capacity_exceeded"
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	default:
		return "internal"
	}
}

// AppError is the error type repositories and services return. Err keeps
// the underlying cause for logging, Message is safe to show to clients.
type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func New(kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...interface{}) *AppError {
	return &AppError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

func NotFound(entity string) *AppError {
	return &AppError{Kind: KindNotFound, Message: entity + " tidak ditemukan"}
}

func Conflict(message string) *AppError {
	return &AppError{Kind: KindConflict, Message: message}
}

func CapacityExceeded(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindCapacityExceeded, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Internal(err error) *AppError {
	return &AppError{Kind: KindInternal, Message: "terjadi kesalahan internal", Err: err}
}

// KindOf returns the Kind of err, or KindInternal for plain errors.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsKind reports whether err is an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

var (
	ErrEmptyAuthHeader   = New(KindUnauthorized, "authorization header kosong")
	ErrInvalidAuthHeader = New(KindUnauthorized, "format authorization header tidak valid")
	ErrInvalidToken      = New(KindUnauthorized, "token tidak valid")
	ErrTokenExpired      = New(KindUnauthorized, "token sudah kadaluarsa")
	ErrTokenIsNotAccess  = New(KindUnauthorized, "refresh token tidak bisa dipakai sebagai access token")
	ErrInvalidCredential = New(KindUnauthorized, "email atau password salah")
	ErrForbidden         = New(KindForbidden, "akses ditolak")
)
