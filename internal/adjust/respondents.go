// Package adjust implements the confounder-adjustment analyses: direct
// stratified standardization and propensity-score reweighting, plus the
// per-option ranking that orders answer options by adjusted effect size.
package adjust

import (
	"github.com/surveylens/surveylens/internal/dataset"
	"github.com/surveylens/surveylens/internal/resolve"
	"github.com/surveylens/surveylens/internal/survey"
)

// Comparison names the primary segment dimension being isolated: one
// column (or question id) and the two group values to compare. GroupA is
// the reference group, GroupB the target whose composition gets adjusted.
type Comparison struct {
	Column string `json:"column"`
	GroupA string `json:"group_a"`
	GroupB string `json:"group_b"`
}

// respondent is the per-person view both analyses work from: primary
// group membership, first-seen control-variable values, and the
// answered/selected flags for the target option.
type respondent struct {
	id       string
	group    string // GroupA, GroupB, or "" when in neither
	profile  map[string]string
	answered bool
	selected bool
}

// buildRespondents collapses the row-level dataset into one record per
// respondent. Control values and primary-column values follow the
// first-seen rule; a missing control column simply leaves that profile
// entry absent.
func buildRespondents(ds *dataset.Dataset, q *survey.QuestionDef, options []survey.OptionColumn, optionLabel string, cmp Comparison, controls []string, idx survey.Index) []*respondent {
	flags := resolve.OptionFlags(ds, q, options, optionLabel)

	membersA, membersB := comparisonMembers(ds, cmp, idx)

	byID := make(map[string]*respondent)
	var ordered []*respondent
	for _, row := range ds.Rows {
		id, ok := ds.RespondentID(row)
		if !ok {
			continue
		}
		r, seen := byID[id]
		if !seen {
			r = &respondent{id: id, profile: make(map[string]string, len(controls))}
			if _, inA := membersA[id]; inA {
				r.group = cmp.GroupA
			} else if _, inB := membersB[id]; inB {
				r.group = cmp.GroupB
			}
			f := flags[id]
			r.answered = f.Answered
			r.selected = f.Selected
			byID[id] = r
			ordered = append(ordered, r)
		}
		for _, control := range controls {
			if _, have := r.profile[control]; have {
				continue
			}
			if v, ok := row.String(control); ok {
				r.profile[control] = v
			}
		}
	}
	return ordered
}

// comparisonMembers resolves which respondents belong to each primary
// group. A comparison column that is a question id resolves membership
// the way that question's answers resolve; otherwise membership is the
// first-seen cleaned column value.
func comparisonMembers(ds *dataset.Dataset, cmp Comparison, idx survey.Index) (membersA, membersB map[string]struct{}) {
	if q, isQuestion := idx[cmp.Column]; isQuestion {
		return resolve.Members(ds, q, cmp.GroupA), resolve.Members(ds, q, cmp.GroupB)
	}

	membersA = make(map[string]struct{})
	membersB = make(map[string]struct{})
	firstValue := make(map[string]string)
	for _, row := range ds.Rows {
		id, ok := ds.RespondentID(row)
		if !ok {
			continue
		}
		if _, seen := firstValue[id]; seen {
			continue
		}
		v, ok := row.String(cmp.Column)
		if !ok {
			continue
		}
		firstValue[id] = v
	}
	for id, v := range firstValue {
		switch v {
		case dataset.Clean(cmp.GroupA):
			membersA[id] = struct{}{}
		case dataset.Clean(cmp.GroupB):
			membersB[id] = struct{}{}
		}
	}
	return membersA, membersB
}

// controlValues returns each control's distinct values in first-seen
// respondent order, restricted to the given respondents.
func controlValues(respondents []*respondent, controls []string) map[string][]string {
	values := make(map[string][]string, len(controls))
	seen := make(map[string]map[string]struct{}, len(controls))
	for _, control := range controls {
		seen[control] = make(map[string]struct{})
	}
	for _, r := range respondents {
		for _, control := range controls {
			v, ok := r.profile[control]
			if !ok {
				continue
			}
			if _, dup := seen[control][v]; dup {
				continue
			}
			seen[control][v] = struct{}{}
			values[control] = append(values[control], v)
		}
	}
	return values
}
