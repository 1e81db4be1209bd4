package store

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

var (
	// ErrColumnNotFound means a result set lacks a column the mapping expects.
	ErrColumnNotFound = errors.New("column not found")
	// ErrNullValue is returned when a required column or parameter is NULL.
	ErrNullValue = errors.New("unexpected null value")
	// ErrUnsupportedValue is returned when a value cannot be converted to the requested type.
	ErrUnsupportedValue = errors.New("unsupported value")
	// ErrValueTooLong is returned when a text value exceeds its declared size.
	ErrValueTooLong = errors.New("value exceeds declared size")
	// ErrInvalidParamName is returned for output parameters that are not plain identifiers.
	ErrInvalidParamName = errors.New("invalid parameter name")
)

// ER_DUP_ENTRY
const errDuplicateEntry = 1062

// IsDuplicateKey reports whether err, or anything it wraps, is a unique
// constraint violation.
func IsDuplicateKey(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == errDuplicateEntry
}
