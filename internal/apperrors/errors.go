package apperrors

import (
	"errors"
	"fmt"
)

// Code классифицирует ошибку для вызывающей стороны
type Code string

const (
	CodeValidation          Code = "validation_error"
	CodeConflict            Code = "conflict_detected"
	CodeNotFound            Code = "not_found"
	CodeDuplicateEnrollment Code = "duplicate_enrollment"
	CodeCapacityExceeded    Code = "capacity_exceeded"
	CodePersistence         Code = "persistence_error"
	CodeUnknown             Code = "unknown"
)

// Базовые ошибки, с которыми сравнивают через errors.Is
var (
	ErrValidation          = errors.New("validation failed")
	ErrConflictDetected    = errors.New("schedule conflict detected")
	ErrNotFound            = errors.New("not found")
	ErrDuplicateEnrollment = errors.New("student is already enrolled")
	ErrCapacityExceeded    = errors.New("course offering has no available seats")
	ErrPersistence         = errors.New("persistence failure")
)

var sentinels = map[Code]error{
	CodeValidation:          ErrValidation,
	CodeConflict:            ErrConflictDetected,
	CodeNotFound:            ErrNotFound,
	CodeDuplicateEnrollment: ErrDuplicateEnrollment,
	CodeCapacityExceeded:    ErrCapacityExceeded,
	CodePersistence:         ErrPersistence,
}

// Error ошибка прикладного уровня с кодом
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is сопоставляет ошибку с базовой ошибкой её кода
func (e *Error) Is(target error) bool {
	sentinel, ok := sentinels[e.Code]
	return ok && sentinel == target
}

// New создаёт ошибку с кодом и сообщением
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf как New, но с форматированием
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap оборачивает err кодом
func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// Persistence помечает ошибку хранилища. Ошибки, у которых уже есть код, не перекрашиваются.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return Wrap(CodePersistence, op, err)
}

// CodeOf возвращает код ошибки или CodeUnknown
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	for code, sentinel := range sentinels {
		if errors.Is(err, sentinel) {
			return code
		}
	}
	return CodeUnknown
}

// MessageOf возвращает сообщение без цепочки обёрток
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
