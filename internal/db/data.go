package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/madsbk/sqlbridge/internal/models"
)

// Assignment sets one column in an UPDATE.
type Assignment struct {
	Column string
	Value  interface{}
}

// Condition restricts an UPDATE or DELETE. Operator must be one of the
// comparison operators accepted by validOperators.
type Condition struct {
	Column   string
	Operator string
	Value    interface{}
}

var validOperators = map[string]bool{
	"=": true, "!=": true, "<>": true,
	"<": true, "<=": true, ">": true, ">=": true,
	"like": true, "LIKE": true,
}

// InsertRows inserts the rows into the table using a prepared multi-use
// statement. Column order follows the columns argument; pass the result of
// Columns to use the table's own order.
func (c *Connector) InsertRows(ctx context.Context, table string, columns []string, rows [][]interface{}) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	quotedTable, err := quoteIdentifier(table)
	if err != nil {
		return 0, err
	}
	quotedColumns := make([]string, len(columns))
	for i, column := range columns {
		if quotedColumns[i], err = quoteIdentifier(column); err != nil {
			return 0, err
		}
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quotedTable, strings.Join(quotedColumns, ", "), placeholders)

	return c.ExecuteMany(ctx, stmt, rows)
}

// Select returns the given columns of a table. A nil or empty column list
// selects everything.
func (c *Connector) Select(ctx context.Context, table string, columns []string) (*models.ResultSet, error) {
	quotedTable, err := quoteIdentifier(table)
	if err != nil {
		return nil, err
	}

	projection := "*"
	if len(columns) > 0 {
		quoted := make([]string, len(columns))
		for i, column := range columns {
			if quoted[i], err = quoteIdentifier(column); err != nil {
				return nil, err
			}
		}
		projection = strings.Join(quoted, ", ")
	}

	return c.Query(ctx, fmt.Sprintf("SELECT %s FROM %s", projection, quotedTable))
}

// Update sets columns on the rows matching every condition and returns the
// number of rows changed.
func (c *Connector) Update(ctx context.Context, table string, assignments []Assignment, conditions []Condition) (int64, error) {
	handle, err := c.handle()
	if err != nil {
		return 0, err
	}

	quotedTable, err := quoteIdentifier(table)
	if err != nil {
		return 0, err
	}
	if len(assignments) == 0 {
		return 0, nil
	}

	setParts := make([]string, 0, len(assignments))
	args := make([]interface{}, 0, len(assignments)+len(conditions))
	for _, a := range assignments {
		quoted, err := quoteIdentifier(a.Column)
		if err != nil {
			return 0, err
		}
		setParts = append(setParts, quoted+" = ?")
		args = append(args, a.Value)
	}

	whereClause, whereArgs, err := buildWhere(conditions)
	if err != nil {
		return 0, err
	}
	args = append(args, whereArgs...)

	stmt := fmt.Sprintf("UPDATE %s SET %s%s", quotedTable, strings.Join(setParts, ", "), whereClause)
	res, err := handle.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, &QueryError{Statement: stmt, Err: err}
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return affected, nil
}

// Delete removes the rows matching every condition and returns the number of
// rows removed. An empty condition list is rejected rather than emptying the
// table.
func (c *Connector) Delete(ctx context.Context, table string, conditions []Condition) (int64, error) {
	handle, err := c.handle()
	if err != nil {
		return 0, err
	}

	quotedTable, err := quoteIdentifier(table)
	if err != nil {
		return 0, err
	}
	if len(conditions) == 0 {
		return 0, &QueryError{Statement: table, Err: fmt.Errorf("delete from %s requires at least one condition", table)}
	}

	whereClause, args, err := buildWhere(conditions)
	if err != nil {
		return 0, err
	}

	stmt := fmt.Sprintf("DELETE FROM %s%s", quotedTable, whereClause)
	res, err := handle.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, &QueryError{Statement: stmt, Err: err}
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return affected, nil
}

func buildWhere(conditions []Condition) (string, []interface{}, error) {
	if len(conditions) == 0 {
		return "", nil, nil
	}

	parts := make([]string, 0, len(conditions))
	args := make([]interface{}, 0, len(conditions))
	for _, cond := range conditions {
		quoted, err := quoteIdentifier(cond.Column)
		if err != nil {
			return "", nil, err
		}
		if !validOperators[cond.Operator] {
			return "", nil, &QueryError{Statement: cond.Operator, Err: fmt.Errorf("unsupported operator %q", cond.Operator)}
		}
		parts = append(parts, fmt.Sprintf("%s %s ?", quoted, cond.Operator))
		args = append(args, cond.Value)
	}

	return " WHERE " + strings.Join(parts, " AND "), args, nil
}
