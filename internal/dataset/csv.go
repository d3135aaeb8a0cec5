package dataset

import (
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
)

// LoadCSV reads a CSV file into a Dataset. The first row is treated as
// headers (column names). The respondent-identity column is matched
// case-insensitively against the header row; an empty idColumn falls back
// to the first header.
func LoadCSV(path, idColumn string, rowLevel bool) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %s: %w", path, err)
	}

	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: parse %s: %w", path, err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("csv: %s is empty (no header row)", path)
	}

	headers := records[0]
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}

	resolvedID := headers[0]
	if idColumn != "" {
		found := false
		for _, h := range headers {
			if strings.EqualFold(h, idColumn) {
				resolvedID = h
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("csv: respondent column %q not found in %s", idColumn, path)
		}
	}

	rows := make([]Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(Row, len(headers))
		for j, h := range headers {
			if j < len(record) {
				row[h] = record[j]
			}
		}
		rows = append(rows, row)
	}

	sum := sha256.Sum256(data)

	return &Dataset{
		Rows:               rows,
		Columns:            headers,
		RespondentIDColumn: resolvedID,
		RowLevel:           rowLevel,
		Version:            path + "@" + hex.EncodeToString(sum[:8]),
	}, nil
}
