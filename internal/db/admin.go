package db

import (
	"context"
	"fmt"
	"strings"
)

// CreateDatabaseOptions controls CreateDatabase behavior.
type CreateDatabaseOptions struct {
	// Use selects the database right after creating it.
	Use bool
	// Overwrite drops any existing database of the same name first.
	Overwrite bool
}

// CreateDatabase creates a database if it does not exist.
func (c *Connector) CreateDatabase(ctx context.Context, name string, opts CreateDatabaseOptions) error {
	handle, err := c.handle()
	if err != nil {
		return err
	}

	quoted, err := quoteIdentifier(name)
	if err != nil {
		return err
	}

	if opts.Overwrite {
		stmt := fmt.Sprintf("DROP DATABASE IF EXISTS %s", quoted)
		if _, err := handle.ExecContext(ctx, stmt); err != nil {
			return &QueryError{Statement: stmt, Err: err}
		}
	}

	stmt := fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", quoted)
	if _, err := handle.ExecContext(ctx, stmt); err != nil {
		return &QueryError{Statement: stmt, Err: err}
	}

	if opts.Use {
		return c.UseDatabase(ctx, name)
	}
	return nil
}

// UseDatabase selects the database for subsequent statements. The selection
// sticks because the connector holds exactly one connection.
func (c *Connector) UseDatabase(ctx context.Context, name string) error {
	handle, err := c.handle()
	if err != nil {
		return err
	}

	quoted, err := quoteIdentifier(name)
	if err != nil {
		return err
	}

	stmt := "USE " + quoted
	if _, err := handle.ExecContext(ctx, stmt); err != nil {
		return &QueryError{Statement: stmt, Err: err}
	}
	c.database = name
	return nil
}

// DropDatabase removes a database if it exists.
func (c *Connector) DropDatabase(ctx context.Context, name string) error {
	handle, err := c.handle()
	if err != nil {
		return err
	}

	quoted, err := quoteIdentifier(name)
	if err != nil {
		return err
	}

	stmt := fmt.Sprintf("DROP DATABASE IF EXISTS %s", quoted)
	if _, err := handle.ExecContext(ctx, stmt); err != nil {
		return &QueryError{Statement: stmt, Err: err}
	}
	if c.database == name {
		c.database = ""
	}
	return nil
}

// CreateTable creates a table from a list of column definitions, each a DDL
// fragment like "id tinyint unsigned unique". Overwrite drops any existing
// table of the same name first.
func (c *Connector) CreateTable(ctx context.Context, table string, columnDefs []string, overwrite bool) error {
	handle, err := c.handle()
	if err != nil {
		return err
	}

	quoted, err := quoteIdentifier(table)
	if err != nil {
		return err
	}
	if len(columnDefs) == 0 {
		return &QueryError{Statement: table, Err: fmt.Errorf("table %s has no column definitions", table)}
	}

	if overwrite {
		stmt := fmt.Sprintf("DROP TABLE IF EXISTS %s", quoted)
		if _, err := handle.ExecContext(ctx, stmt); err != nil {
			return &QueryError{Statement: stmt, Err: err}
		}
	}

	stmt := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", quoted, strings.Join(columnDefs, ", "))
	if _, err := handle.ExecContext(ctx, stmt); err != nil {
		return &QueryError{Statement: stmt, Err: err}
	}
	return nil
}

// DropTable removes a table if it exists.
func (c *Connector) DropTable(ctx context.Context, table string) error {
	handle, err := c.handle()
	if err != nil {
		return err
	}

	quoted, err := quoteIdentifier(table)
	if err != nil {
		return err
	}

	stmt := fmt.Sprintf("DROP TABLE IF EXISTS %s", quoted)
	if _, err := handle.ExecContext(ctx, stmt); err != nil {
		return &QueryError{Statement: stmt, Err: err}
	}
	return nil
}

// Tables lists the tables of the selected database.
func (c *Connector) Tables(ctx context.Context) ([]string, error) {
	return c.firstColumn(ctx, "SHOW TABLES")
}

// Columns lists the column names of a table in definition order.
func (c *Connector) Columns(ctx context.Context, table string) ([]string, error) {
	quoted, err := quoteIdentifier(table)
	if err != nil {
		return nil, err
	}
	return c.firstColumn(ctx, "SHOW COLUMNS FROM "+quoted)
}

// HasTable reports whether the named table exists in the selected database.
func (c *Connector) HasTable(ctx context.Context, table string) (bool, error) {
	tables, err := c.Tables(ctx)
	if err != nil {
		return false, err
	}
	for _, t := range tables {
		if t == table {
			return true, nil
		}
	}
	return false, nil
}

func (c *Connector) firstColumn(ctx context.Context, sqlText string) ([]string, error) {
	result, err := c.Query(ctx, sqlText)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(result.Rows))
	for _, row := range result.Rows {
		if len(row) > 0 {
			names = append(names, row[0])
		}
	}
	return names, nil
}
