package fakes

import (
	"context"
	"sync"

	"github.com/madsbk/sqlbridge/internal/models"
)

// FakeExecutor is an in-memory stand-in for the connector behind the API.
type FakeExecutor struct {
	mu sync.Mutex

	QueryResult  *models.ResultSet
	QueryErr     error
	ExecAffected int64
	ExecErr      error
	TableNames   []string
	TablesErr    error
	ColumnNames  map[string][]string
	ColumnsErr   error
	PingErr      error

	ExecutedScripts []string
	QueriedSQL      []string
}

func NewFakeExecutor() *FakeExecutor {
	return &FakeExecutor{ColumnNames: make(map[string][]string)}
}

func (f *FakeExecutor) Query(_ context.Context, sqlText string) (*models.ResultSet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.QueriedSQL = append(f.QueriedSQL, sqlText)
	if f.QueryErr != nil {
		return nil, f.QueryErr
	}
	if f.QueryResult != nil {
		return f.QueryResult, nil
	}
	return &models.ResultSet{Columns: []string{}, Rows: [][]string{}}, nil
}

func (f *FakeExecutor) Execute(_ context.Context, script string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ExecutedScripts = append(f.ExecutedScripts, script)
	if f.ExecErr != nil {
		return 0, f.ExecErr
	}
	return f.ExecAffected, nil
}

func (f *FakeExecutor) Tables(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.TablesErr != nil {
		return nil, f.TablesErr
	}
	return f.TableNames, nil
}

func (f *FakeExecutor) Columns(_ context.Context, table string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ColumnsErr != nil {
		return nil, f.ColumnsErr
	}
	return f.ColumnNames[table], nil
}

func (f *FakeExecutor) Ping(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.PingErr
}
