package models

// QueryRequest is the request body for running a row-returning statement.
type QueryRequest struct {
	SQL string `json:"sql" binding:"required"`
}

// ExecRequest is the request body for running a script of statements.
type ExecRequest struct {
	SQL string `json:"sql" binding:"required"`
}

// ResultSet holds the rows returned by a query. Cell values are rendered as
// strings; NULL becomes the empty string.
type ResultSet struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// ExecResult reports the outcome of an executed script.
type ExecResult struct {
	Statements   int   `json:"statements"`
	RowsAffected int64 `json:"rows_affected"`
}

// TableColumns describes one table's column names.
type TableColumns struct {
	Table   string   `json:"table"`
	Columns []string `json:"columns"`
}
