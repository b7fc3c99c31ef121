package models

import "time"

// TableLoadStatus is the per-table outcome of a dataset load.
type TableLoadStatus string

const (
	TableLoadStatusLoaded  TableLoadStatus = "loaded"
	TableLoadStatusEmpty   TableLoadStatus = "empty"
	TableLoadStatusFailed  TableLoadStatus = "failed"
	TableLoadStatusSkipped TableLoadStatus = "skipped"
)

// TableLoad reports the outcome of loading one table.
type TableLoad struct {
	Table        string          `json:"table"`
	RowsInserted int64           `json:"rows_inserted"`
	Status       TableLoadStatus `json:"status"`
	Error        string          `json:"error,omitempty"`
}

// LoadReport summarizes a completed dataset load.
type LoadReport struct {
	ID         string      `json:"id"`
	Database   string      `json:"database"`
	StartedAt  time.Time   `json:"started_at"`
	FinishedAt time.Time   `json:"finished_at"`
	Tables     []TableLoad `json:"tables"`
}

// RowsInserted sums the inserted rows across all tables.
func (r *LoadReport) RowsInserted() int64 {
	var total int64
	for _, t := range r.Tables {
		total += t.RowsInserted
	}
	return total
}

// Failed reports whether any table in the load failed.
func (r *LoadReport) Failed() bool {
	for _, t := range r.Tables {
		if t.Status == TableLoadStatusFailed {
			return true
		}
	}
	return false
}
