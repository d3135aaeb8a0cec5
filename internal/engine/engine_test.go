package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/surveylens/surveylens/internal/adjust"
	"github.com/surveylens/surveylens/internal/dataset"
	"github.com/surveylens/surveylens/internal/series"
	"github.com/surveylens/surveylens/internal/survey"
)

func testEngine(cacheCapacity int) *Engine {
	ds := &dataset.Dataset{
		RespondentIDColumn: "ID",
		Columns:            []string{"ID", "Plan", "Age", "Q1 Brand A", "Q1 Brand B"},
		Version:            "test.csv@deadbeef",
		Rows: []dataset.Row{
			{"ID": "r1", "Plan": "Free", "Age": "Young", "Q1 Brand A": "1", "Q1 Brand B": "0"},
			{"ID": "r2", "Plan": "Free", "Age": "Old", "Q1 Brand A": "0", "Q1 Brand B": "1"},
			{"ID": "r3", "Plan": "Paid", "Age": "Young", "Q1 Brand A": "1", "Q1 Brand B": "1"},
			{"ID": "r4", "Plan": "Paid", "Age": "Old", "Q1 Brand A": "1", "Q1 Brand B": "0"},
		},
	}
	questions := []*survey.QuestionDef{
		{
			ID:    "brands",
			Label: "Which brands have you purchased?",
			Type:  survey.TypeMulti,
			Options: []survey.OptionColumn{
				{Label: "Brand A", Header: "Q1 Brand A"},
				{Label: "Brand B", Header: "Q1 Brand B"},
			},
		},
		{ID: "plan", Label: "Plan", Type: survey.TypeSingle, SingleSourceColumn: "Plan"},
	}
	return New(ds, questions, cacheCapacity)
}

func TestQuestionLookup(t *testing.T) {
	eng := testEngine(0)

	q, err := eng.Question("brands")
	require.NoError(t, err)
	require.Equal(t, "brands", q.ID)

	_, err = eng.Question("nope")
	require.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestSeriesMemoization(t *testing.T) {
	eng := testEngine(8)
	q, err := eng.Question("brands")
	require.NoError(t, err)
	groups := []survey.GroupDef{survey.OverallGroup()}

	first := eng.Series(q, groups, series.SortDesc)
	second := eng.Series(q, groups, series.SortDesc)
	require.Same(t, first, second, "identical inputs hit the memo cache")

	third := eng.Series(q, groups, series.SortAsc)
	require.NotSame(t, first, third, "a different sort order is a different key")
}

func TestSeriesWithoutCache(t *testing.T) {
	eng := testEngine(0)
	q, err := eng.Question("brands")
	require.NoError(t, err)
	groups := []survey.GroupDef{survey.OverallGroup()}

	first := eng.Series(q, groups, series.SortNone)
	second := eng.Series(q, groups, series.SortNone)
	require.NotSame(t, first, second)
	require.Equal(t, first, second, "results stay value-identical either way")
}

func TestAllSeriesCoversEveryQuestion(t *testing.T) {
	eng := testEngine(8)
	results := eng.AllSeries([]survey.GroupDef{survey.OverallGroup()}, series.SortNone)

	require.Len(t, results, 2)
	require.Contains(t, results, "brands")
	require.Contains(t, results, "plan")
	require.NotNil(t, results["brands"])
}

func TestAnalyzeMemoization(t *testing.T) {
	eng := testEngine(8)
	q, err := eng.Question("brands")
	require.NoError(t, err)
	cmp := adjust.Comparison{Column: "Plan", GroupA: "Free", GroupB: "Paid"}

	first, err := eng.Analyze(q, cmp, []string{"Age"}, "Brand A")
	require.NoError(t, err)
	second, err := eng.Analyze(q, cmp, []string{"Age"}, "Brand A")
	require.NoError(t, err)
	require.Same(t, first, second)

	other, err := eng.Analyze(q, cmp, []string{"Age"}, "Brand B")
	require.NoError(t, err)
	require.NotSame(t, first, other)
}

func TestAnalyzeErrorNotCached(t *testing.T) {
	eng := testEngine(8)
	q, err := eng.Question("brands")
	require.NoError(t, err)
	cmp := adjust.Comparison{Column: "Plan", GroupA: "Free", GroupB: "Paid"}

	_, err = eng.Analyze(q, cmp, []string{"Age"}, "Brand Z")
	require.Error(t, err)
}

func TestQuestionIDsSorted(t *testing.T) {
	eng := testEngine(0)
	require.Equal(t, []string{"brands", "plan"}, eng.QuestionIDs())
}

func TestNewDisablesCacheWithoutVersion(t *testing.T) {
	ds := &dataset.Dataset{RespondentIDColumn: "ID"}
	eng := New(ds, nil, 8)
	require.Nil(t, eng.seriesCache, "unversioned data cannot be safely memoized")
}
