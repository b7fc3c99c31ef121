package db

import (
	"context"
	"fmt"
	"strings"
)

// AddPrimaryKey promotes a column to the table's primary key. Running this
// against a table that already has a primary key fails with a driver error
// classified by IsDuplicateKeyDefinition.
func (c *Connector) AddPrimaryKey(ctx context.Context, table, column string) error {
	handle, err := c.handle()
	if err != nil {
		return err
	}

	quotedTable, err := quoteIdentifier(table)
	if err != nil {
		return err
	}
	quotedColumn, err := quoteIdentifier(column)
	if err != nil {
		return err
	}

	stmt := fmt.Sprintf("ALTER TABLE %s ADD PRIMARY KEY (%s)", quotedTable, quotedColumn)
	if _, err := handle.ExecContext(ctx, stmt); err != nil {
		return &QueryError{Statement: stmt, Err: err}
	}
	return nil
}

// AddForeignKey adds a foreign key on table.column referencing
// refTable.refColumn. An empty refColumn reuses the column name.
func (c *Connector) AddForeignKey(ctx context.Context, table, column, refTable, refColumn string) error {
	handle, err := c.handle()
	if err != nil {
		return err
	}

	if refColumn == "" {
		refColumn = column
	}

	quotedTable, err := quoteIdentifier(table)
	if err != nil {
		return err
	}
	quotedColumn, err := quoteIdentifier(column)
	if err != nil {
		return err
	}
	quotedRefTable, err := quoteIdentifier(refTable)
	if err != nil {
		return err
	}
	quotedRefColumn, err := quoteIdentifier(refColumn)
	if err != nil {
		return err
	}

	stmt := fmt.Sprintf("ALTER TABLE %s ADD FOREIGN KEY (%s) REFERENCES %s (%s)",
		quotedTable, quotedColumn, quotedRefTable, quotedRefColumn)
	if _, err := handle.ExecContext(ctx, stmt); err != nil {
		return &QueryError{Statement: stmt, Err: err}
	}
	return nil
}

var validJoinTypes = map[string]bool{
	"inner": true, "left": true, "right": true, "cross": true,
}

// JoinClause builds a FROM fragment joining the tables pairwise on the given
// columns: the first table joins each later table i on columns[i-1]. The
// result can be passed to Query as part of a SELECT.
func JoinClause(tables []string, joinType string, columns []string) (string, error) {
	if len(tables) < 2 {
		return "", fmt.Errorf("join requires at least two tables, got %d", len(tables))
	}
	if len(columns) < len(tables)-1 {
		return "", fmt.Errorf("join of %d tables requires %d columns, got %d", len(tables), len(tables)-1, len(columns))
	}
	if !validJoinTypes[strings.ToLower(joinType)] {
		return "", fmt.Errorf("unsupported join type %q", joinType)
	}

	quotedTables := make([]string, len(tables))
	for i, table := range tables {
		quoted, err := quoteIdentifier(table)
		if err != nil {
			return "", err
		}
		quotedTables[i] = quoted
	}

	var b strings.Builder
	b.WriteString(quotedTables[0])
	for i, table := range quotedTables[1:] {
		column, err := quoteIdentifier(columns[i])
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, " %s JOIN %s ON %s.%s = %s.%s",
			strings.ToUpper(joinType), table, quotedTables[0], column, table, column)
	}
	return b.String(), nil
}
