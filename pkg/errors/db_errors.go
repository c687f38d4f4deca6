package custom_error

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

type CustomError interface {
	Error() string
}

type UniqueViolationError struct {
	message string
	code    string
}

type ForeignKeyViolationError struct {
	message string
	code    string
}

func (e *UniqueViolationError) Error() string {
	return fmt.Sprintf("%s (code: %s)", e.message, e.code)
}

func (f *ForeignKeyViolationError) Error() string {
	return fmt.Sprintf("%s (code: %s)", f.message, f.code)
}

func WrapDBError(message, code string) CustomError {
	switch code {
	case pgUniqueViolation:
		return &UniqueViolationError{
			message: message,
			code:    code,
		}
	case pgForeignKeyViolation:
		return &ForeignKeyViolationError{
			message: "Value is already used by other resources " + message,
			code:    code,
		}
	default:
		return fmt.Errorf("uncategorized error occurred with code %s: %s", code, message)
	}
}

// IsUniqueViolation reports whether err is a Postgres duplicate-key error.
// Used for order-number collision retries and active-alert dedup.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgUniqueViolation
	}
	var uniqueErr *UniqueViolationError
	return errors.As(err, &uniqueErr)
}
