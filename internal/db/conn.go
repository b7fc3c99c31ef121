package db

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/madsbk/sqlbridge/pkg/config"
)

// Connector owns a single MySQL connection handle.
type Connector struct {
	db       *sql.DB
	addr     string
	database string
}

// Connect opens a connection with the given credentials and verifies it with
// a ping. The database may be empty to connect without selecting one.
func Connect(ctx context.Context, creds config.Credentials, database string) (*Connector, error) {
	addr := fmt.Sprintf("%s:%d", creds.Host, creds.Port)

	sqlDB, err := sql.Open("mysql", creds.DSN(database))
	if err != nil {
		return nil, &ConnectionError{Addr: addr, Err: err}
	}

	// One connection, mirroring the single connection/cursor model. This also
	// makes session state such as USE stick for the connector's lifetime.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(60 * time.Minute)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, &ConnectionError{Addr: addr, Err: err}
	}

	return &Connector{db: sqlDB, addr: addr, database: database}, nil
}

// ConnectFromEnvFile reads the named credential string from an env file and
// connects with it.
func ConnectFromEnvFile(ctx context.Context, path, key, database string) (*Connector, error) {
	creds, err := config.CredentialsFromEnvFile(path, key)
	if err != nil {
		return nil, err
	}
	return Connect(ctx, creds, database)
}

// Ping verifies the connection is still alive.
func (c *Connector) Ping(ctx context.Context) error {
	if c.db == nil {
		return &ConnectionError{Addr: c.addr, Err: ErrNotConnected}
	}
	if err := c.db.PingContext(ctx); err != nil {
		return &ConnectionError{Addr: c.addr, Err: err}
	}
	return nil
}

// Database returns the currently selected database name, if any.
func (c *Connector) Database() string {
	return c.database
}

// Close releases the connection handle. Safe to call on a nil handle.
func (c *Connector) Close() error {
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$]*$`)

// quoteIdentifier validates a table or column name and wraps it in backticks.
// Names are interpolated into SQL text (placeholders cannot stand in for
// identifiers), so anything outside the safe character set is rejected.
func quoteIdentifier(name string) (string, error) {
	if !identifierPattern.MatchString(name) {
		return "", &QueryError{Statement: name, Err: ErrInvalidIdentifier}
	}
	return "`" + name + "`", nil
}

func (c *Connector) handle() (*sql.DB, error) {
	if c == nil || c.db == nil {
		return nil, &ConnectionError{Err: ErrNotConnected}
	}
	return c.db, nil
}
