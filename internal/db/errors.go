package db

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

// MySQL server error numbers this package classifies.
const (
	errUnknownDatabase     = 1049 // ER_BAD_DB_ERROR
	errDuplicateEntry      = 1062 // ER_DUP_ENTRY
	errMultiplePrimaryKeys = 1068 // ER_MULTIPLE_PRI_KEY
)

// ErrNotConnected is returned when an operation runs before Connect or after Close.
var ErrNotConnected = errors.New("connector is not connected")

// ErrInvalidIdentifier is returned when a table or column name cannot be
// safely interpolated into SQL text.
var ErrInvalidIdentifier = errors.New("invalid identifier")

// ConnectionError reports a failure to reach or keep a server connection.
type ConnectionError struct {
	Addr string
	Err  error
}

func (e *ConnectionError) Error() string {
	if e.Addr == "" {
		return fmt.Sprintf("connection error: %v", e.Err)
	}
	return fmt.Sprintf("connection error (%s): %v", e.Addr, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// QueryError reports a failed statement. The underlying driver error is
// preserved as-is; constraint violations are classified, not recovered.
type QueryError struct {
	Statement string
	Err       error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query error executing %q: %v", e.Statement, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// IsDuplicateEntry reports whether err is a MySQL duplicate-entry violation,
// such as inserting the same row into a unique column twice.
func IsDuplicateEntry(err error) bool {
	return hasMySQLNumber(err, errDuplicateEntry)
}

// IsDuplicateKeyDefinition reports whether err came from defining a primary
// key on a table that already has one.
func IsDuplicateKeyDefinition(err error) bool {
	return hasMySQLNumber(err, errMultiplePrimaryKeys)
}

// IsUnknownDatabase reports whether err is a MySQL unknown-database error.
func IsUnknownDatabase(err error) bool {
	return hasMySQLNumber(err, errUnknownDatabase)
}

func hasMySQLNumber(err error, number uint16) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == number
}
