// Package series assembles per-option, per-group answer distributions —
// the rows consumed by charts — including pairwise significance tests and
// stable option ordering.
package series

import (
	"sort"

	"github.com/surveylens/surveylens/internal/dataset"
	"github.com/surveylens/surveylens/internal/resolve"
	"github.com/surveylens/surveylens/internal/segment"
	"github.com/surveylens/surveylens/internal/statistics"
	"github.com/surveylens/surveylens/internal/survey"
)

// SortOrder selects explicit sorting of options by their overall value.
type SortOrder string

const (
	SortNone SortOrder = ""
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// GroupSummary is one group's tally for a single answer option. Ranking
// questions report the average rank in Percent and the respondent count in
// both Count and Denominator.
type GroupSummary struct {
	Label       string  `json:"label"`
	Count       int     `json:"count"`
	Denominator int     `json:"denominator"`
	Percent     float64 `json:"percent"`
}

// PairTest is one pairwise chi-square result between two groups.
type PairTest struct {
	GroupA      string  `json:"group_a"`
	GroupB      string  `json:"group_b"`
	ChiSquare   float64 `json:"chi_square"`
	Significant bool    `json:"significant"`
}

// DataPoint is one output row per answer option.
type DataPoint struct {
	Option string `json:"option"`
	// OptionDisplay carries a trailing "*" when at least one pairwise
	// test is significant. Display only; numbers are never altered.
	OptionDisplay  string             `json:"option_display"`
	Significance   []PairTest         `json:"significance"`
	GroupSummaries []GroupSummary     `json:"group_summaries"`
	Values         map[string]float64 `json:"values"`
	// OverallValue is always computed against the full, unfiltered
	// dataset: it is the default sort key and top-N selection key even
	// when "Overall" is not a selected group.
	OverallValue float64 `json:"__overallValue"`
}

// GroupRef pairs a group's display label with its value key.
type GroupRef struct {
	Label string `json:"label"`
	Key   string `json:"key"`
}

// Result is the full chart-ready output for one question.
type Result struct {
	Data   []DataPoint `json:"data"`
	Groups []GroupRef  `json:"groups"`
}

// Build computes one DataPoint per non-empty answer option of the
// question across the given groups. The computation is pure: identical
// inputs always produce byte-identical results.
func Build(ds *dataset.Dataset, q *survey.QuestionDef, groups []survey.GroupDef, idx survey.Index, order SortOrder) *Result {
	options := q.ResolveOptions(ds)

	resolutions := make([]*resolve.Resolution, len(groups))
	for i, g := range groups {
		rows, _ := segment.Partition(ds, g, idx)
		resolutions[i] = resolve.Resolve(ds, rows, q, options)
	}
	overall := resolve.Resolve(ds, ds.Rows, q, options)

	result := &Result{
		Data:   make([]DataPoint, 0, len(options)),
		Groups: make([]GroupRef, 0, len(groups)),
	}
	for _, g := range groups {
		result.Groups = append(result.Groups, GroupRef{Label: g.Label, Key: g.Key})
	}

	for _, opt := range options {
		dp := buildPoint(q, opt, groups, resolutions, overall)
		result.Data = append(result.Data, dp)
	}

	sortPoints(result.Data, q, order)
	return result
}

func buildPoint(q *survey.QuestionDef, opt survey.OptionColumn, groups []survey.GroupDef, resolutions []*resolve.Resolution, overall *resolve.Resolution) DataPoint {
	dp := DataPoint{
		Option:        opt.Label,
		OptionDisplay: opt.Label,
		Values:        make(map[string]float64, len(groups)),
	}

	if q.Type == survey.TypeRanking {
		for i, g := range groups {
			avg := statistics.RoundStable(resolutions[i].AvgRank[opt.Label])
			n := resolutions[i].RankN[opt.Label]
			dp.GroupSummaries = append(dp.GroupSummaries, GroupSummary{
				Label:       g.Label,
				Count:       n,
				Denominator: n,
				Percent:     avg,
			})
			dp.Values[g.Key] = avg
		}
		dp.OverallValue = statistics.RoundStable(overall.AvgRank[opt.Label])
		return dp
	}

	for i, g := range groups {
		t := resolutions[i].Tallies[opt.Label]
		pct := statistics.Percent(t.Count, t.Denominator)
		dp.GroupSummaries = append(dp.GroupSummaries, GroupSummary{
			Label:       g.Label,
			Count:       t.Count,
			Denominator: t.Denominator,
			Percent:     pct,
		})
		dp.Values[g.Key] = pct
	}
	ot := overall.Tallies[opt.Label]
	dp.OverallValue = statistics.Percent(ot.Count, ot.Denominator)

	dp.Significance = pairTests(dp.GroupSummaries)
	for _, pt := range dp.Significance {
		if pt.Significant {
			dp.OptionDisplay = opt.Label + "*"
			break
		}
	}
	return dp
}

// pairTests runs the chi-square test for every unordered pair of groups.
// Pairs with a zero denominator or degenerate margins are skipped.
func pairTests(summaries []GroupSummary) []PairTest {
	var tests []PairTest
	for i := 0; i < len(summaries); i++ {
		for j := i + 1; j < len(summaries); j++ {
			s1, s2 := summaries[i], summaries[j]
			if s1.Denominator == 0 || s2.Denominator == 0 {
				continue
			}
			chi, significant, ok := statistics.Significant2x2(
				s1.Count, s1.Denominator-s1.Count,
				s2.Count, s2.Denominator-s2.Count,
			)
			if !ok {
				continue
			}
			tests = append(tests, PairTest{
				GroupA:      s1.Label,
				GroupB:      s2.Label,
				ChiSquare:   statistics.RoundStable(chi),
				Significant: significant,
			})
		}
	}
	return tests
}

// sortPoints orders the data points. Money/income questions always sort
// by parsed monetary magnitude ascending, overriding the requested order;
// otherwise an explicit asc/desc sort by overall value applies; otherwise
// the original column order is preserved.
func sortPoints(points []DataPoint, q *survey.QuestionDef, order SortOrder) {
	if IsMoneyLabel(q.Label) {
		sort.SliceStable(points, func(i, j int) bool {
			return MoneySortValue(points[i].Option) < MoneySortValue(points[j].Option)
		})
		return
	}

	switch order {
	case SortAsc:
		sort.SliceStable(points, func(i, j int) bool {
			return points[i].OverallValue < points[j].OverallValue
		})
	case SortDesc:
		sort.SliceStable(points, func(i, j int) bool {
			return points[i].OverallValue > points[j].OverallValue
		})
	}
}
