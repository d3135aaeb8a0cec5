// Package resolve implements answer resolution: deciding, per question and
// row subset, who counts as having answered and which options they chose.
package resolve

import (
	"strings"

	"github.com/surveylens/surveylens/internal/dataset"
	"github.com/surveylens/surveylens/internal/survey"
)

// Tally is the (selected, answered) pair for one answer option.
type Tally struct {
	Count       int `json:"count"`
	Denominator int `json:"denominator"`
}

// Resolution holds per-option tallies for one row subset. Ranking
// questions populate AvgRank instead of Tallies: the value is the mean
// rank across respondents who ranked the option (lower = more preferred),
// not a percentage.
type Resolution struct {
	Tallies map[string]Tally   `json:"tallies,omitempty"`
	AvgRank map[string]float64 `json:"avg_rank,omitempty"`
	RankN   map[string]int     `json:"rank_n,omitempty"`
}

// Resolve computes per-option tallies for the given rows. Options are
// passed in resolved against the full dataset so single-select option sets
// stay stable across subsets.
func Resolve(ds *dataset.Dataset, rows []dataset.Row, q *survey.QuestionDef, options []survey.OptionColumn) *Resolution {
	switch {
	case q.Type == survey.TypeRanking:
		return resolveRanking(ds, rows, options)
	case q.Type == survey.TypeSingle:
		return resolveSingle(ds, rows, q, options)
	case q.UsesTextSummary():
		if q.Level == survey.LevelRow {
			return resolveTextRows(rows, q, options)
		}
		return resolveTextRespondents(ds, rows, q, options)
	default:
		if q.Level == survey.LevelRow {
			return resolveMultiRows(rows, options)
		}
		return resolveMultiRespondents(ds, rows, options)
	}
}

// resolveSingle counts distinct respondents by their first-seen non-empty
// value in the source column.
func resolveSingle(ds *dataset.Dataset, rows []dataset.Row, q *survey.QuestionDef, options []survey.OptionColumn) *Resolution {
	firstValue := make(map[string]string)
	for _, row := range rows {
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

	denominator := len(firstValue)
	res := &Resolution{Tallies: make(map[string]Tally, len(options))}
	for _, opt := range options {
		count := 0
		for _, v := range firstValue {
			if strings.EqualFold(v, opt.Label) {
				count++
			}
		}
		res.Tallies[opt.Label] = Tally{Count: count, Denominator: denominator}
	}
	return res
}

// resolveMultiRespondents deduplicates by respondent: a respondent counts
// once toward the denominator if any option column is truthy on any of
// their rows, and once toward an option if that option's headers are
// truthy anywhere.
func resolveMultiRespondents(ds *dataset.Dataset, rows []dataset.Row, options []survey.OptionColumn) *Resolution {
	answered := make(map[string]struct{})
	selected := make(map[string]map[string]struct{}, len(options))
	for _, opt := range options {
		selected[opt.Label] = make(map[string]struct{})
	}

	for _, row := range rows {
		id, ok := ds.RespondentID(row)
		if !ok {
			continue
		}
		for _, opt := range options {
			if row.Truthy(opt.Headers()...) {
				answered[id] = struct{}{}
				selected[opt.Label][id] = struct{}{}
			}
		}
	}

	res := &Resolution{Tallies: make(map[string]Tally, len(options))}
	for _, opt := range options {
		res.Tallies[opt.Label] = Tally{
			Count:       len(selected[opt.Label]),
			Denominator: len(answered),
		}
	}
	return res
}

// resolveMultiRows counts every qualifying row without respondent
// deduplication: each row is a distinct product evaluation.
func resolveMultiRows(rows []dataset.Row, options []survey.OptionColumn) *Resolution {
	answered := 0
	counts := make(map[string]int, len(options))

	for _, row := range rows {
		rowAnswered := false
		for _, opt := range options {
			if row.Truthy(opt.Headers()...) {
				rowAnswered = true
				counts[opt.Label]++
			}
		}
		if rowAnswered {
			answered++
		}
	}

	res := &Resolution{Tallies: make(map[string]Tally, len(options))}
	for _, opt := range options {
		res.Tallies[opt.Label] = Tally{Count: counts[opt.Label], Denominator: answered}
	}
	return res
}

// resolveTextRespondents reads a pipe-delimited text-summary column:
// answered means a non-empty text value, selection means the option label
// appears among the pipe-split tokens.
func resolveTextRespondents(ds *dataset.Dataset, rows []dataset.Row, q *survey.QuestionDef, options []survey.OptionColumn) *Resolution {
	answered := make(map[string]struct{})
	selected := make(map[string]map[string]struct{}, len(options))
	for _, opt := range options {
		selected[opt.Label] = make(map[string]struct{})
	}

	for _, row := range rows {
		id, ok := ds.RespondentID(row)
		if !ok {
			continue
		}
		text, ok := row.String(q.TextSummaryColumn)
		if !ok {
			continue
		}
		answered[id] = struct{}{}
		for _, opt := range options {
			if textContains(text, opt.Label) {
				selected[opt.Label][id] = struct{}{}
			}
		}
	}

	res := &Resolution{Tallies: make(map[string]Tally, len(options))}
	for _, opt := range options {
		res.Tallies[opt.Label] = Tally{
			Count:       len(selected[opt.Label]),
			Denominator: len(answered),
		}
	}
	return res
}

func resolveTextRows(rows []dataset.Row, q *survey.QuestionDef, options []survey.OptionColumn) *Resolution {
	answered := 0
	counts := make(map[string]int, len(options))

	for _, row := range rows {
		text, ok := row.String(q.TextSummaryColumn)
		if !ok {
			continue
		}
		answered++
		for _, opt := range options {
			if textContains(text, opt.Label) {
				counts[opt.Label]++
			}
		}
	}

	res := &Resolution{Tallies: make(map[string]Tally, len(options))}
	for _, opt := range options {
		res.Tallies[opt.Label] = Tally{Count: counts[opt.Label], Denominator: answered}
	}
	return res
}

// resolveRanking averages the first-seen positive numeric rank per
// respondent per option. There is no denominator/percent semantics.
func resolveRanking(ds *dataset.Dataset, rows []dataset.Row, options []survey.OptionColumn) *Resolution {
	type rankState struct {
		sum float64
		n   int
	}
	ranks := make(map[string]*rankState, len(options))
	seen := make(map[string]map[string]struct{}, len(options))
	for _, opt := range options {
		ranks[opt.Label] = &rankState{}
		seen[opt.Label] = make(map[string]struct{})
	}

	for _, row := range rows {
		id, ok := ds.RespondentID(row)
		if !ok {
			continue
		}
		for _, opt := range options {
			if _, dup := seen[opt.Label][id]; dup {
				continue
			}
			rank, found := firstNumeric(row, opt.Headers())
			if !found || rank <= 0 {
				continue
			}
			seen[opt.Label][id] = struct{}{}
			ranks[opt.Label].sum += rank
			ranks[opt.Label].n++
		}
	}

	res := &Resolution{
		AvgRank: make(map[string]float64, len(options)),
		RankN:   make(map[string]int, len(options)),
	}
	for _, opt := range options {
		st := ranks[opt.Label]
		if st.n > 0 {
			res.AvgRank[opt.Label] = st.sum / float64(st.n)
		} else {
			res.AvgRank[opt.Label] = 0
		}
		res.RankN[opt.Label] = st.n
	}
	return res
}

func firstNumeric(row dataset.Row, headers []string) (float64, bool) {
	for _, h := range headers {
		if v, ok := row.Numeric(h); ok {
			return v, true
		}
	}
	return 0, false
}

// textContains reports whether the pipe-delimited text holds the label as
// a token, compared case-insensitively after trimming.
func textContains(text, label string) bool {
	for _, token := range strings.Split(text, "|") {
		if strings.EqualFold(strings.TrimSpace(token), strings.TrimSpace(label)) {
			return true
		}
	}
	return false
}

// Members returns the distinct respondents whose answer to the question
// matches the given value, used when a segment column is itself a
// question id. Single-select membership follows the first-seen value rule;
// multi-select membership means a truthy marker on the matching option or
// a matching text-summary token.
func Members(ds *dataset.Dataset, q *survey.QuestionDef, value string) map[string]struct{} {
	members := make(map[string]struct{})

	switch q.Type {
	case survey.TypeSingle:
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
			if strings.EqualFold(v, value) {
				members[id] = struct{}{}
			}
		}

	case survey.TypeMulti:
		if q.UsesTextSummary() {
			for _, row := range ds.Rows {
				id, ok := ds.RespondentID(row)
				if !ok {
					continue
				}
				text, ok := row.String(q.TextSummaryColumn)
				if ok && textContains(text, value) {
					members[id] = struct{}{}
				}
			}
			break
		}
		var match *survey.OptionColumn
		for i := range q.Options {
			if strings.EqualFold(q.Options[i].Label, value) {
				match = &q.Options[i]
				break
			}
		}
		if match == nil {
			break
		}
		for _, row := range ds.Rows {
			id, ok := ds.RespondentID(row)
			if !ok {
				continue
			}
			if row.Truthy(match.Headers()...) {
				members[id] = struct{}{}
			}
		}
	}

	return members
}
