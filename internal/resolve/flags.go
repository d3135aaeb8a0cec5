package resolve

import (
	"strings"

	"github.com/surveylens/surveylens/internal/dataset"
	"github.com/surveylens/surveylens/internal/survey"
)

// Flags is one respondent's relationship to a single answer option.
// Selected implies Answered.
type Flags struct {
	Answered bool
	Selected bool
}

// OptionFlags returns each respondent's answered/selected flags for one
// target option, deduplicated by respondent identity. The confounder
// analyses consume these to tally arbitrary sub-populations without
// re-scanning rows. Ranking questions have no answered/selected
// semantics and yield an empty map.
func OptionFlags(ds *dataset.Dataset, q *survey.QuestionDef, options []survey.OptionColumn, label string) map[string]Flags {
	flags := make(map[string]Flags)

	switch {
	case q.Type == survey.TypeRanking:
		return flags

	case q.Type == survey.TypeSingle:
		firstValue := make(map[string]string)
		for _, row := range ds.Rows {
			id, ok := ds.RespondentID(row)
			if !ok {
				continue
			}
			if _, seen := firstValue[id]; seen {
				continue
			}
			v, ok := row.String(q.SingleSourceColumn)
			if !ok {
				continue
			}
			firstValue[id] = v
		}
		for id, v := range firstValue {
			flags[id] = Flags{Answered: true, Selected: strings.EqualFold(v, label)}
		}

	case q.UsesTextSummary():
		for _, row := range ds.Rows {
			id, ok := ds.RespondentID(row)
			if !ok {
				continue
			}
			text, ok := row.String(q.TextSummaryColumn)
			if !ok {
				continue
			}
			f := flags[id]
			f.Answered = true
			if textContains(text, label) {
				f.Selected = true
			}
			flags[id] = f
		}

	default:
		var target *survey.OptionColumn
		for i := range options {
			if strings.EqualFold(options[i].Label, label) {
				target = &options[i]
				break
			}
		}
		for _, row := range ds.Rows {
			id, ok := ds.RespondentID(row)
			if !ok {
				continue
			}
			f := flags[id]
			for _, opt := range options {
				if row.Truthy(opt.Headers()...) {
					f.Answered = true
					break
				}
			}
			if target != nil && row.Truthy(target.Headers()...) {
				f.Selected = true
			}
			if f.Answered || f.Selected {
				flags[id] = f
			}
		}
	}

	return flags
}
