package adjust

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/surveylens/surveylens/internal/dataset"
	"github.com/surveylens/surveylens/internal/survey"
)

func TestAnalyzeRejectsRankingQuestions(t *testing.T) {
	ds := &dataset.Dataset{RespondentIDColumn: "ID", Rows: []dataset.Row{{"ID": "r1"}}}
	q := &survey.QuestionDef{
		ID:      "pref",
		Type:    survey.TypeRanking,
		Options: []survey.OptionColumn{{Label: "Taste", Header: "Q3 Taste"}},
	}

	_, err := Analyze(ds, q, Comparison{Column: "Plan", GroupA: "A", GroupB: "B"}, nil, nil, "")
	require.ErrorContains(t, err, "ranking")
}

func TestAnalyzeRejectsUnknownOption(t *testing.T) {
	ds := buildTestDataset(map[[2]string][2]int{
		{"Free", "Young"}: {1, 2},
		{"Paid", "Young"}: {1, 2},
	})
	q := satisfactionQuestion()

	_, err := Analyze(ds, q, Comparison{Column: "Plan", GroupA: "Free", GroupB: "Paid"}, []string{"Age"}, nil, "Maybe")
	require.ErrorContains(t, err, `"Maybe"`)
}

func TestAnalyzeHeadlineDefaultsToFirstOption(t *testing.T) {
	ds := buildTestDataset(map[[2]string][2]int{
		{"Free", "Young"}: {2, 4},
		{"Paid", "Young"}: {3, 4},
	})
	q := satisfactionQuestion()

	analysis, err := Analyze(ds, q, Comparison{Column: "Plan", GroupA: "Free", GroupB: "Paid"}, []string{"Age"}, nil, "")
	require.NoError(t, err)

	// The first distinct Satisfied value in row order is "Yes".
	require.Equal(t, "Yes", analysis.Stratified.Option)
	require.Equal(t, "Yes", analysis.Propensity.Option)
}

func TestAnalyzeHeadlineOptionCaseInsensitive(t *testing.T) {
	ds := buildTestDataset(map[[2]string][2]int{
		{"Free", "Young"}: {2, 4},
		{"Paid", "Young"}: {3, 4},
	})
	q := satisfactionQuestion()

	analysis, err := Analyze(ds, q, Comparison{Column: "Plan", GroupA: "Free", GroupB: "Paid"}, []string{"Age"}, nil, "yes")
	require.NoError(t, err)
	require.Equal(t, "Yes", analysis.Stratified.Option, "canonical label wins over the request's casing")
}

func TestAnalyzeRanksOptionsByAdjustedGap(t *testing.T) {
	// Yes/No are complements, so both options show the same |gap| and the
	// stable sort preserves their resolved order; the significance flag
	// fires at 5 points.
	ds := buildTestDataset(map[[2]string][2]int{
		{"Free", "Young"}: {2, 10}, // 20%
		{"Free", "Old"}:   {2, 10},
		{"Paid", "Young"}: {8, 10}, // 80%
		{"Paid", "Old"}:   {8, 10},
	})
	q := satisfactionQuestion()

	analysis, err := Analyze(ds, q, Comparison{Column: "Plan", GroupA: "Free", GroupB: "Paid"}, []string{"Age"}, nil, "")
	require.NoError(t, err)

	require.Len(t, analysis.OptionResults, 2)
	for i := 1; i < len(analysis.OptionResults); i++ {
		require.GreaterOrEqual(t,
			math.Abs(analysis.OptionResults[i-1].AdjustedDifference),
			math.Abs(analysis.OptionResults[i].AdjustedDifference))
	}

	yes := analysis.OptionResults[0]
	require.Equal(t, 60.0, yes.AdjustedDifference)
	require.True(t, yes.IsSignificant)

	require.Equal(t, 2, analysis.Summary.SignificantCount)
	require.Equal(t, yes.Option, analysis.Summary.LargestGapOption)
	require.Contains(t, analysis.Summary.Interpretation, "Paid")
	require.Contains(t, analysis.Summary.Interpretation, "more likely")
}

func TestAnalyzeNoSignificantGaps(t *testing.T) {
	ds := buildTestDataset(map[[2]string][2]int{
		{"Free", "Young"}: {5, 10}, // 50%
		{"Free", "Old"}:   {5, 10},
		{"Paid", "Young"}: {5, 10}, // 50%
		{"Paid", "Old"}:   {5, 10},
	})
	q := satisfactionQuestion()

	analysis, err := Analyze(ds, q, Comparison{Column: "Plan", GroupA: "Free", GroupB: "Paid"}, []string{"Age"}, nil, "")
	require.NoError(t, err)

	require.Equal(t, 0, analysis.Summary.SignificantCount)
	require.Empty(t, analysis.Summary.LargestGapOption)
	require.Contains(t, analysis.Summary.Interpretation, "behave similarly")
	for _, or := range analysis.OptionResults {
		require.False(t, or.IsSignificant)
	}
}
