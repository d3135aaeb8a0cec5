// Package segment partitions dataset rows into named groups by segment
// filters. Filters within one column are OR'd, filters across distinct
// columns are AND'd, and the reserved value "Overall" is no constraint.
package segment

import (
	"github.com/surveylens/surveylens/internal/dataset"
	"github.com/surveylens/surveylens/internal/resolve"
	"github.com/surveylens/surveylens/internal/survey"
)

// Partition resolves a group definition into its concrete row subset and
// distinct respondent-identity set.
func Partition(ds *dataset.Dataset, group survey.GroupDef, idx survey.Index) ([]dataset.Row, map[string]struct{}) {
	if group.Label == survey.OverallLabel {
		return ds.Rows, respondentSet(ds, ds.Rows)
	}

	// Collect effective constraints per column, dropping "Overall" values.
	byColumn := make(map[string][]string)
	var columns []string
	for _, seg := range group.Segments {
		if seg.Value == survey.OverallLabel {
			continue
		}
		if _, seen := byColumn[seg.Column]; !seen {
			columns = append(columns, seg.Column)
		}
		byColumn[seg.Column] = append(byColumn[seg.Column], seg.Value)
	}
	if len(columns) == 0 {
		return ds.Rows, respondentSet(ds, ds.Rows)
	}

	// A segment column that is itself a question id resolves membership
	// the way that question's answers resolve, not by column equality.
	memberSets := make(map[string]map[string]struct{})
	for _, col := range columns {
		q, isQuestion := idx[col]
		if !isQuestion {
			continue
		}
		members := make(map[string]struct{})
		for _, v := range byColumn[col] {
			for id := range resolve.Members(ds, q, v) {
				members[id] = struct{}{}
			}
		}
		memberSets[col] = members
	}

	var rows []dataset.Row
	for _, row := range ds.Rows {
		if matchesAll(ds, row, columns, byColumn, memberSets) {
			rows = append(rows, row)
		}
	}
	return rows, respondentSet(ds, rows)
}

// PartitionAll resolves every group in order, returning parallel slices.
func PartitionAll(ds *dataset.Dataset, groups []survey.GroupDef, idx survey.Index) [][]dataset.Row {
	subsets := make([][]dataset.Row, len(groups))
	for i, g := range groups {
		subsets[i], _ = Partition(ds, g, idx)
	}
	return subsets
}

func matchesAll(ds *dataset.Dataset, row dataset.Row, columns []string, byColumn map[string][]string, memberSets map[string]map[string]struct{}) bool {
	for _, col := range columns {
		if members, isQuestion := memberSets[col]; isQuestion {
			id, ok := ds.RespondentID(row)
			if !ok {
				return false
			}
			if _, member := members[id]; !member {
				return false
			}
			continue
		}

		v, ok := row.String(col)
		if !ok {
			return false
		}
		matched := false
		for _, want := range byColumn[col] {
			if v == dataset.Clean(want) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

func respondentSet(ds *dataset.Dataset, rows []dataset.Row) map[string]struct{} {
	set := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		if id, ok := ds.RespondentID(row); ok {
			set[id] = struct{}{}
		}
	}
	return set
}
