package fakes

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/madsbk/sqlbridge/internal/db"
)

// FakeStore is an in-memory implementation of the loader's Store interface.
// Error fields let tests inject failures per table.
type FakeStore struct {
	mu sync.Mutex

	Databases   []string
	Selected    string
	tables      map[string]*fakeTable
	primaryKeys map[string]string
	foreignKeys map[string][]string

	CreateTableErr map[string]error
	InsertErr      map[string]error
	PrimaryKeyErr  map[string]error
	ForeignKeyErr  map[string]error
}

type fakeTable struct {
	columnDefs []string
	rows       [][]interface{}
}

func NewFakeStore() *FakeStore {
	return &FakeStore{
		tables:      make(map[string]*fakeTable),
		primaryKeys: make(map[string]string),
		foreignKeys: make(map[string][]string),
	}
}

func (f *FakeStore) CreateDatabase(_ context.Context, name string, opts db.CreateDatabaseOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Databases = append(f.Databases, name)
	if opts.Use {
		f.Selected = name
	}
	return nil
}

func (f *FakeStore) CreateTable(_ context.Context, table string, columnDefs []string, _ bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.CreateTableErr[table]; err != nil {
		return err
	}
	f.tables[table] = &fakeTable{columnDefs: columnDefs}
	return nil
}

// Columns derives column names from the first word of each DDL fragment,
// matching how the real connector reports definition order.
func (f *FakeStore) Columns(_ context.Context, table string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tables[table]
	if !ok {
		return nil, fmt.Errorf("table %s does not exist", table)
	}
	columns := make([]string, 0, len(t.columnDefs))
	for _, def := range t.columnDefs {
		fields := strings.Fields(def)
		if len(fields) > 0 {
			columns = append(columns, fields[0])
		}
	}
	return columns, nil
}

func (f *FakeStore) InsertRows(_ context.Context, table string, _ []string, rows [][]interface{}) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.InsertErr[table]; err != nil {
		return 0, err
	}
	t, ok := f.tables[table]
	if !ok {
		return 0, fmt.Errorf("table %s does not exist", table)
	}
	t.rows = append(t.rows, rows...)
	return int64(len(rows)), nil
}

func (f *FakeStore) AddPrimaryKey(_ context.Context, table, column string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.PrimaryKeyErr[table]; err != nil {
		return err
	}
	f.primaryKeys[table] = column
	return nil
}

func (f *FakeStore) AddForeignKey(_ context.Context, table, column, refTable, refColumn string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.ForeignKeyErr[table]; err != nil {
		return err
	}
	if refColumn == "" {
		refColumn = column
	}
	f.foreignKeys[table] = append(f.foreignKeys[table], fmt.Sprintf("%s.%s -> %s.%s", table, column, refTable, refColumn))
	return nil
}

// Rows returns the rows inserted into a table.
func (f *FakeStore) Rows(table string) [][]interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.tables[table]; ok {
		return t.rows
	}
	return nil
}

// PrimaryKey returns the primary key column recorded for a table.
func (f *FakeStore) PrimaryKey(table string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.primaryKeys[table]
}

// ForeignKeys returns the foreign key wirings recorded for a table.
func (f *FakeStore) ForeignKeys(table string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.foreignKeys[table]
}
