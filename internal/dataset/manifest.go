package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// manifestSchema validates manifests before any SQL runs. Field-level
// failures are reported back to the caller verbatim.
const manifestSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["database", "tables"],
	"properties": {
		"database": {"type": "string", "minLength": 1},
		"overwrite": {"type": "boolean"},
		"tables": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["name", "columns"],
				"properties": {
					"name": {"type": "string", "minLength": 1},
					"columns": {
						"type": "array",
						"minItems": 1,
						"items": {"type": "string", "minLength": 1}
					},
					"data": {"type": "string"},
					"primary_key": {"type": "string"},
					"foreign_keys": {
						"type": "array",
						"items": {
							"type": "object",
							"required": ["column", "references"],
							"properties": {
								"column": {"type": "string", "minLength": 1},
								"references": {
									"type": "object",
									"required": ["table"],
									"properties": {
										"table": {"type": "string", "minLength": 1},
										"column": {"type": "string"}
									}
								}
							}
						}
					}
				}
			}
		}
	}
}`

// Manifest describes a dataset load: the target database and the tables to
// create and fill.
type Manifest struct {
	Database  string      `json:"database"`
	Overwrite bool        `json:"overwrite,omitempty"`
	Tables    []TableSpec `json:"tables"`
}

// TableSpec describes one table: its column DDL fragments, an optional CSV
// data file and optional key wiring.
type TableSpec struct {
	Name        string       `json:"name"`
	Columns     []string     `json:"columns"`
	Data        string       `json:"data,omitempty"`
	PrimaryKey  string       `json:"primary_key,omitempty"`
	ForeignKeys []ForeignKey `json:"foreign_keys,omitempty"`
}

// ForeignKey wires a column to another table's column.
type ForeignKey struct {
	Column     string    `json:"column"`
	References Reference `json:"references"`
}

// Reference names the referenced table and column. An empty column reuses the
// referencing column's name.
type Reference struct {
	Table  string `json:"table"`
	Column string `json:"column,omitempty"`
}

// ParseManifest validates raw JSON against the manifest schema and decodes it.
func ParseManifest(raw []byte) (*Manifest, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(manifestSchema),
		gojsonschema.NewBytesLoader(raw),
	)
	if err != nil {
		return nil, fmt.Errorf("validate manifest: %w", err)
	}

	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}
		return nil, fmt.Errorf("invalid manifest: %s", strings.Join(details, "; "))
	}

	var manifest Manifest
	if err := json.Unmarshal(raw, &manifest); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	return &manifest, nil
}

// LoadManifest reads and parses a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	return ParseManifest(raw)
}
