// Package dataset holds the in-memory representation of a parsed survey
// response table and the row accessors the analysis engine reads through.
package dataset

import (
	"strconv"
	"strings"
)

// Row represents a single response row with column name to value mapping.
type Row map[string]string

// Clean normalizes a raw cell value: surrounding whitespace and a single
// layer of matching quotes are stripped.
func Clean(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			s = strings.TrimSpace(s[1 : len(s)-1])
		}
	}
	return s
}

// String returns the cleaned value of a column. A missing column or an
// empty cell reports ok=false, so callers exclude the row from both
// numerator and denominator instead of treating it as an answer.
func (r Row) String(column string) (string, bool) {
	raw, found := r[column]
	if !found {
		return "", false
	}
	v := Clean(raw)
	if v == "" {
		return "", false
	}
	return v, true
}

// Numeric returns the column value parsed as a float. Non-numeric and
// missing values report ok=false.
func (r Row) Numeric(column string) (float64, bool) {
	v, ok := r.String(column)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Truthy reports whether any of the given columns holds a selected marker
// (1, true, y — case-insensitive) on this row.
func (r Row) Truthy(columns ...string) bool {
	for _, col := range columns {
		v, ok := r.String(col)
		if !ok {
			continue
		}
		switch strings.ToLower(v) {
		case "1", "true", "y", "yes":
			return true
		}
	}
	return false
}

// Dataset is an ordered collection of response rows plus the column
// metadata the engine needs to resolve respondents and segments.
type Dataset struct {
	Rows []Row `json:"rows"`
	// Columns preserves the original header order.
	Columns []string `json:"columns"`
	// RespondentIDColumn designates the respondent-identity column. Two
	// rows with the same cleaned identity belong to the same respondent.
	RespondentIDColumn string `json:"respondent_id_column"`
	// RowLevel marks product-matrix datasets where each row is a distinct
	// (respondent, product) evaluation.
	RowLevel bool `json:"is_row_level_test"`
	// Version identifies the loaded data for cache keying. Typically the
	// source path plus a content hash; empty disables memoization.
	Version string `json:"version,omitempty"`
}

// RespondentID returns the cleaned respondent identity of a row.
// Rows without an identity value report ok=false.
func (d *Dataset) RespondentID(r Row) (string, bool) {
	return r.String(d.RespondentIDColumn)
}

// Respondents returns the distinct cleaned respondent identities across
// the given rows, in first-seen order.
func (d *Dataset) Respondents(rows []Row) []string {
	seen := make(map[string]struct{}, len(rows))
	var ids []string
	for _, row := range rows {
		id, ok := d.RespondentID(row)
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// HasColumn reports whether the dataset's header row contains the column.
func (d *Dataset) HasColumn(name string) bool {
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// DistinctValues returns the distinct cleaned, non-empty values of a
// column across all rows, in first-seen order.
func (d *Dataset) DistinctValues(column string) []string {
	seen := make(map[string]struct{})
	var values []string
	for _, row := range d.Rows {
		v, ok := row.String(column)
		if !ok {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	return values
}
