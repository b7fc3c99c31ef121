package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
)

// ReadCSV reads a CSV file and returns the header columns and the data rows.
// The first row must be a header; every data row must have the same number of
// fields as the header.
func ReadCSV(path string) ([]string, [][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open csv %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("csv %s is empty, expected a header row", path)
	}

	return records[0], records[1:], nil
}

// RowsToArgs converts string rows into driver argument rows.
func RowsToArgs(rows [][]string) [][]interface{} {
	args := make([][]interface{}, len(rows))
	for i, row := range rows {
		converted := make([]interface{}, len(row))
		for j, cell := range row {
			converted[j] = cell
		}
		args[i] = converted
	}
	return args
}
