package models

import "time"

// AuditKind distinguishes the operations recorded on the audit stream.
type AuditKind string

const (
	AuditKindLoad AuditKind = "dataset_load"
	AuditKindExec AuditKind = "script_exec"
)

// AuditEvent is the record published to Kafka for each audited operation.
type AuditEvent struct {
	ID           string    `json:"id"`
	Kind         AuditKind `json:"kind"`
	Database     string    `json:"database,omitempty"`
	Tables       []string  `json:"tables,omitempty"`
	RowsAffected int64     `json:"rows_affected"`
	Succeeded    bool      `json:"succeeded"`
	OccurredAt   time.Time `json:"occurred_at"`
}
