package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
)

func TestSplitStatements_SplitsOnSemicolons(t *testing.T) {
	script := "create table t (id tinyint); insert into t values (1);\n insert into t values (2)"

	statements := SplitStatements(script)

	assert.Equal(t, []string{
		"create table t (id tinyint)",
		"insert into t values (1)",
		"insert into t values (2)",
	}, statements)
}

func TestSplitStatements_EmptyScript(t *testing.T) {
	assert.Empty(t, SplitStatements(""))
	assert.Empty(t, SplitStatements(" ;  ; \n"))
}

func TestQuoteIdentifier(t *testing.T) {
	quoted, err := quoteIdentifier("orders_combined")
	assert.NoError(t, err)
	assert.Equal(t, "`orders_combined`", quoted)

	for _, bad := range []string{"", "orders; drop table x", "a b", "`x`", "1st"} {
		_, err := quoteIdentifier(bad)
		assert.ErrorIs(t, err, ErrInvalidIdentifier, "identifier %q should be rejected", bad)
	}
}

func TestIsDuplicateEntry_ClassifiesWrappedDriverError(t *testing.T) {
	driverErr := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry '1' for key 'order_id'"}
	err := &QueryError{Statement: "insert into orders values (1)", Err: driverErr}

	assert.True(t, IsDuplicateEntry(err))
	assert.True(t, IsDuplicateEntry(fmt.Errorf("load table: %w", err)))
	assert.False(t, IsDuplicateKeyDefinition(err))
	assert.False(t, IsDuplicateEntry(errors.New("plain error")))
}

func TestIsDuplicateKeyDefinition_Classifies1068(t *testing.T) {
	driverErr := &mysql.MySQLError{Number: 1068, Message: "Multiple primary key defined"}
	err := &QueryError{Statement: "alter table orders add primary key (order_id)", Err: driverErr}

	assert.True(t, IsDuplicateKeyDefinition(err))
	assert.False(t, IsDuplicateEntry(err))
}

func TestIsUnknownDatabase_Classifies1049(t *testing.T) {
	driverErr := &mysql.MySQLError{Number: 1049, Message: "Unknown database 'new_database2'"}

	assert.True(t, IsUnknownDatabase(&QueryError{Statement: "use new_database2", Err: driverErr}))
	assert.False(t, IsUnknownDatabase(errors.New("something else")))
}

func TestExecute_WhenNotConnected_ThenConnectionError(t *testing.T) {
	var c Connector

	_, err := c.Execute(context.Background(), "select 1")

	var connErr *ConnectionError
	assert.True(t, errors.As(err, &connErr))
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestQuery_WhenNotConnected_ThenConnectionError(t *testing.T) {
	var c Connector

	_, err := c.Query(context.Background(), "select 1")

	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestBuildWhere_JoinsConditionsWithAnd(t *testing.T) {
	clause, args, err := buildWhere([]Condition{
		{Column: "product_name", Operator: "=", Value: "Phone"},
		{Column: "price", Operator: ">=", Value: 100},
	})

	assert.NoError(t, err)
	assert.Equal(t, " WHERE `product_name` = ? AND `price` >= ?", clause)
	assert.Equal(t, []interface{}{"Phone", 100}, args)
}

func TestBuildWhere_RejectsUnsupportedOperator(t *testing.T) {
	_, _, err := buildWhere([]Condition{{Column: "id", Operator: "; drop", Value: 1}})

	var queryErr *QueryError
	assert.True(t, errors.As(err, &queryErr))
}

func TestJoinClause_BuildsPairwiseJoins(t *testing.T) {
	clause, err := JoinClause(
		[]string{"orders", "products", "customers"},
		"inner",
		[]string{"product_id", "customer_id"},
	)

	assert.NoError(t, err)
	assert.Equal(t,
		"`orders` INNER JOIN `products` ON `orders`.`product_id` = `products`.`product_id`"+
			" INNER JOIN `customers` ON `orders`.`customer_id` = `customers`.`customer_id`",
		clause)
}

func TestJoinClause_Validation(t *testing.T) {
	_, err := JoinClause([]string{"orders"}, "inner", nil)
	assert.Error(t, err)

	_, err = JoinClause([]string{"orders", "products"}, "sideways", []string{"product_id"})
	assert.Error(t, err)

	_, err = JoinClause([]string{"orders", "products"}, "inner", nil)
	assert.Error(t, err)
}

func TestConnectionError_CarriesAddress(t *testing.T) {
	err := &ConnectionError{Addr: "localhost:3306", Err: errors.New("dial refused")}

	assert.Contains(t, err.Error(), "localhost:3306")
	assert.Contains(t, err.Error(), "dial refused")
}
