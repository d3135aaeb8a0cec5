package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain", input: "West", expected: "West"},
		{name: "surrounding whitespace", input: "  West  ", expected: "West"},
		{name: "double quotes", input: `"West"`, expected: "West"},
		{name: "single quotes", input: "'West'", expected: "West"},
		{name: "quotes then whitespace inside", input: `" West "`, expected: "West"},
		{name: "mismatched quotes kept", input: `"West'`, expected: `"West'`},
		{name: "only one layer stripped", input: `""West""`, expected: `"West"`},
		{name: "empty", input: "", expected: ""},
		{name: "lone quote", input: `"`, expected: `"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, Clean(tt.input))
		})
	}
}

func TestRowString(t *testing.T) {
	row := Row{"Region": " West ", "Empty": "  ", "Quoted": `"East"`}

	v, ok := row.String("Region")
	require.True(t, ok)
	require.Equal(t, "West", v)

	v, ok = row.String("Quoted")
	require.True(t, ok)
	require.Equal(t, "East", v)

	_, ok = row.String("Empty")
	require.False(t, ok, "whitespace-only cell must not count as an answer")

	_, ok = row.String("Missing")
	require.False(t, ok)
}

func TestRowNumeric(t *testing.T) {
	row := Row{"Rank": "2", "Score": " 3.5 ", "Text": "first", "Blank": ""}

	v, ok := row.Numeric("Rank")
	require.True(t, ok)
	require.Equal(t, 2.0, v)

	v, ok = row.Numeric("Score")
	require.True(t, ok)
	require.Equal(t, 3.5, v)

	_, ok = row.Numeric("Text")
	require.False(t, ok)
	_, ok = row.Numeric("Blank")
	require.False(t, ok)
}

func TestRowTruthy(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected bool
	}{
		{name: "one", value: "1", expected: true},
		{name: "quoted one", value: `"1"`, expected: true},
		{name: "true", value: "true", expected: true},
		{name: "TRUE", value: "TRUE", expected: true},
		{name: "Y", value: "Y", expected: true},
		{name: "yes", value: "yes", expected: true},
		{name: "zero", value: "0", expected: false},
		{name: "empty", value: "", expected: false},
		{name: "arbitrary text", value: "selected", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := Row{"Col": tt.value}
			require.Equal(t, tt.expected, row.Truthy("Col"))
		})
	}

	t.Run("any of several columns", func(t *testing.T) {
		row := Row{"A": "0", "B": "1"}
		require.True(t, row.Truthy("A", "B"))
		require.False(t, row.Truthy("A"))
	})
}

func TestRespondentsDeduplicatesFirstSeen(t *testing.T) {
	ds := &Dataset{
		RespondentIDColumn: "ID",
		Rows: []Row{
			{"ID": "r2"},
			{"ID": "r1"},
			{"ID": "r2"},
			{"ID": ""},
			{"ID": " r1 "},
		},
	}

	require.Equal(t, []string{"r2", "r1"}, ds.Respondents(ds.Rows))
}

func TestDistinctValuesFirstSeenOrder(t *testing.T) {
	ds := &Dataset{
		Rows: []Row{
			{"Region": "West"},
			{"Region": "East"},
			{"Region": `"West"`},
			{"Region": ""},
			{"Region": "North"},
		},
	}

	require.Equal(t, []string{"West", "East", "North"}, ds.DistinctValues("Region"))
}

func TestLoadCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "responses.csv")
	content := "Respondent ID,Region, Age \nr1,West,18-24\nr2,East,25-34\nr1,West,18-24\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	ds, err := LoadCSV(path, "respondent id", false)
	require.NoError(t, err)

	require.Equal(t, []string{"Respondent ID", "Region", "Age"}, ds.Columns)
	require.Equal(t, "Respondent ID", ds.RespondentIDColumn)
	require.Len(t, ds.Rows, 3)
	require.Equal(t, []string{"r1", "r2"}, ds.Respondents(ds.Rows))
	require.False(t, ds.RowLevel)
	require.NotEmpty(t, ds.Version)

	// Same content loads to the same version; changed content does not.
	again, err := LoadCSV(path, "Respondent ID", false)
	require.NoError(t, err)
	require.Equal(t, ds.Version, again.Version)

	require.NoError(t, os.WriteFile(path, []byte(content+"r3,North,35-44\n"), 0o644))
	changed, err := LoadCSV(path, "Respondent ID", false)
	require.NoError(t, err)
	require.NotEqual(t, ds.Version, changed.Version)
}

func TestLoadCSVErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadCSV(filepath.Join(dir, "nope.csv"), "", false)
		require.Error(t, err)
	})

	t.Run("empty file", func(t *testing.T) {
		path := filepath.Join(dir, "empty.csv")
		require.NoError(t, os.WriteFile(path, nil, 0o644))
		_, err := LoadCSV(path, "", false)
		require.ErrorContains(t, err, "empty")
	})

	t.Run("unknown respondent column", func(t *testing.T) {
		path := filepath.Join(dir, "data.csv")
		require.NoError(t, os.WriteFile(path, []byte("A,B\n1,2\n"), 0o644))
		_, err := LoadCSV(path, "Respondent ID", false)
		require.ErrorContains(t, err, "respondent column")
	})

	t.Run("id column defaults to first header", func(t *testing.T) {
		path := filepath.Join(dir, "default.csv")
		require.NoError(t, os.WriteFile(path, []byte("A,B\n1,2\n"), 0o644))
		ds, err := LoadCSV(path, "", false)
		require.NoError(t, err)
		require.Equal(t, "A", ds.RespondentIDColumn)
	})
}

func TestLoadCSVRaggedRows(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ragged.csv")
	require.NoError(t, os.WriteFile(path, []byte("ID,Region,Age\nr1,West\nr2,East,25-34,extra\n"), 0o644))

	ds, err := LoadCSV(path, "ID", false)
	require.NoError(t, err)
	require.Len(t, ds.Rows, 2)

	_, ok := ds.Rows[0].String("Age")
	require.False(t, ok, "short row leaves trailing columns missing")
	v, ok := ds.Rows[1].String("Age")
	require.True(t, ok)
	require.Equal(t, "25-34", v)
}
