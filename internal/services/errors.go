package services

import "errors"

type ErrorCode string

const (
	ErrorInvalid   ErrorCode = "invalid"
	ErrorForbidden ErrorCode = "forbidden"
	ErrorNotFound  ErrorCode = "not_found"
	ErrorStorage   ErrorCode = "storage"
)

// ServiceError carries a machine-readable code so callers can tell "no data"
// apart from "storage failed" or "no such record".
type ServiceError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *ServiceError) Error() string { return e.Message }

func (e *ServiceError) Unwrap() error { return e.Err }

func NewInvalidError(msg string) error   { return &ServiceError{Code: ErrorInvalid, Message: msg} }
func NewForbiddenError(msg string) error { return &ServiceError{Code: ErrorForbidden, Message: msg} }
func NewNotFoundError(msg string) error  { return &ServiceError{Code: ErrorNotFound, Message: msg} }

func NewStorageError(msg string, err error) error {
	return &ServiceError{Code: ErrorStorage, Message: msg, Err: err}
}

func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// storageErr passes ServiceErrors through and wraps anything else as storage.
func storageErr(msg string, err error) error {
	if _, ok := AsServiceError(err); ok {
		return err
	}
	return NewStorageError(msg, err)
}
