package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/madsbk/sqlbridge/internal/models"
)

// SplitStatements breaks a script into individual statements on semicolons.
// The driver rejects multi-statement text by default, so scripts are executed
// one statement at a time. Semicolons inside string literals are not handled.
func SplitStatements(script string) []string {
	parts := strings.Split(script, ";")
	statements := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			statements = append(statements, trimmed)
		}
	}
	return statements
}

// Execute runs each statement of the script in order and returns the total
// rows affected. Execution stops at the first failure; the underlying driver
// error propagates inside a *QueryError.
func (c *Connector) Execute(ctx context.Context, script string) (int64, error) {
	handle, err := c.handle()
	if err != nil {
		return 0, err
	}

	var total int64
	for _, stmt := range SplitStatements(script) {
		res, err := handle.ExecContext(ctx, stmt)
		if err != nil {
			return total, &QueryError{Statement: stmt, Err: err}
		}
		if n, err := res.RowsAffected(); err == nil {
			total += n
		}
	}
	return total, nil
}

// Query runs a row-returning statement and renders every cell as a string.
func (c *Connector) Query(ctx context.Context, sqlText string) (*models.ResultSet, error) {
	handle, err := c.handle()
	if err != nil {
		return nil, err
	}

	rows, err := handle.QueryContext(ctx, sqlText)
	if err != nil {
		return nil, &QueryError{Statement: sqlText, Err: err}
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, &QueryError{Statement: sqlText, Err: err}
	}

	result := &models.ResultSet{
		Columns: columns,
		Rows:    make([][]string, 0),
	}

	raw := make([]sql.RawBytes, len(columns))
	scanTargets := make([]interface{}, len(columns))
	for i := range raw {
		scanTargets[i] = &raw[i]
	}

	for rows.Next() {
		if err := rows.Scan(scanTargets...); err != nil {
			return nil, &QueryError{Statement: sqlText, Err: fmt.Errorf("scan row: %w", err)}
		}
		row := make([]string, len(columns))
		for i, cell := range raw {
			row[i] = string(cell)
		}
		result.Rows = append(result.Rows, row)
	}

	if err := rows.Err(); err != nil {
		return nil, &QueryError{Statement: sqlText, Err: fmt.Errorf("iterate rows: %w", err)}
	}

	return result, nil
}

// ExecuteMany prepares a statement once and runs it for every argument row.
// The rows run inside a transaction so a partial batch never commits.
func (c *Connector) ExecuteMany(ctx context.Context, sqlText string, argRows [][]interface{}) (int64, error) {
	handle, err := c.handle()
	if err != nil {
		return 0, err
	}

	tx, err := handle.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, sqlText)
	if err != nil {
		err = &QueryError{Statement: sqlText, Err: err}
		return 0, err
	}
	defer stmt.Close()

	var total int64
	for _, args := range argRows {
		var res sql.Result
		res, err = stmt.ExecContext(ctx, args...)
		if err != nil {
			err = &QueryError{Statement: sqlText, Err: err}
			return total, err
		}
		if n, raErr := res.RowsAffected(); raErr == nil {
			total += n
		}
	}

	if err = tx.Commit(); err != nil {
		return total, fmt.Errorf("commit transaction: %w", err)
	}

	return total, nil
}
