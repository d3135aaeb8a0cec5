package adjust

import (
	"strings"

	"github.com/surveylens/surveylens/internal/dataset"
	"github.com/surveylens/surveylens/internal/statistics"
	"github.com/surveylens/surveylens/internal/survey"
)

// GroupCell is one primary group's tally within a stratum or overall.
type GroupCell struct {
	Count       int     `json:"count"`
	Denominator int     `json:"denominator"`
	Percent     float64 `json:"percent"`
}

// Stratum is one control-variable combination and both groups' tallies
// restricted to it.
type Stratum struct {
	Label      string               `json:"label"`
	Segments   []survey.SegmentDef  `json:"segments"`
	Groups     map[string]GroupCell `json:"groups"`
	SampleSize int                  `json:"sample_size"`
	// Weight is the stratum's standard-population weight: the product of
	// its control values' marginal proportions. This assumes the controls
	// are independent; the true joint frequency is deliberately not used,
	// for compatibility with the established output.
	Weight float64 `json:"weight"`
}

// SegmentDistribution is one control value's marginal share of the full
// respondent population.
type SegmentDistribution struct {
	Segment    string  `json:"segment"`
	Value      string  `json:"value"`
	Count      int     `json:"count"`
	Proportion float64 `json:"proportion"`
}

// StratifiedResult is the output of direct standardization for one answer
// option across the two primary groups.
type StratifiedResult struct {
	Option        string                `json:"option"`
	GroupA        string                `json:"group_a"`
	GroupB        string                `json:"group_b"`
	Controls      []string              `json:"controls"`
	Strata        []Stratum             `json:"strata"`
	Distributions []SegmentDistribution `json:"distributions"`

	RawA      GroupCell `json:"raw_a"`
	RawB      GroupCell `json:"raw_b"`
	AdjustedA float64   `json:"adjusted_a"`
	AdjustedB float64   `json:"adjusted_b"`

	// RawDifference is B minus A on overall percentages; AdjustedDifference
	// is the same on standardized percentages. CompositionEffect is the
	// portion of the raw gap explained by differing demographic makeup.
	RawDifference      float64 `json:"raw_difference"`
	AdjustedDifference float64 `json:"adjusted_difference"`
	CompositionEffect  float64 `json:"composition_effect"`
}

// Standardize cross-tabulates respondents by every combination of control
// values and produces a demographically standardized comparison of the
// two primary groups for one answer option.
func Standardize(ds *dataset.Dataset, q *survey.QuestionDef, optionLabel string, cmp Comparison, controls []string, idx survey.Index) *StratifiedResult {
	options := q.ResolveOptions(ds)
	respondents := buildRespondents(ds, q, options, optionLabel, cmp, controls, idx)

	result := &StratifiedResult{
		Option:   optionLabel,
		GroupA:   cmp.GroupA,
		GroupB:   cmp.GroupB,
		Controls: controls,
	}

	result.RawA = tallyGroup(respondents, cmp.GroupA, nil)
	result.RawB = tallyGroup(respondents, cmp.GroupB, nil)
	result.RawDifference = statistics.RoundStable(result.RawB.Percent - result.RawA.Percent)

	values := controlValues(respondents, controls)
	marginals := marginalProportions(respondents, controls, values)
	result.Distributions = marginals

	proportion := make(map[string]map[string]float64, len(controls))
	for _, m := range marginals {
		if proportion[m.Segment] == nil {
			proportion[m.Segment] = make(map[string]float64)
		}
		proportion[m.Segment][m.Value] = m.Proportion
	}

	combos := crossProduct(controls, values)
	for _, combo := range combos {
		stratum := Stratum{
			Label:    comboLabel(combo),
			Segments: combo,
			Groups:   make(map[string]GroupCell, 2),
			Weight:   1,
		}
		for _, seg := range combo {
			stratum.Weight *= proportion[seg.Column][seg.Value]
		}
		for _, r := range respondents {
			if matchesCombo(r, combo) {
				stratum.SampleSize++
			}
		}
		stratum.Groups[cmp.GroupA] = tallyGroup(respondents, cmp.GroupA, combo)
		stratum.Groups[cmp.GroupB] = tallyGroup(respondents, cmp.GroupB, combo)
		result.Strata = append(result.Strata, stratum)
	}

	result.AdjustedA = adjustedPercent(result.Strata, cmp.GroupA)
	result.AdjustedB = adjustedPercent(result.Strata, cmp.GroupB)
	result.AdjustedDifference = statistics.RoundStable(result.AdjustedB - result.AdjustedA)
	result.CompositionEffect = statistics.RoundStable(result.RawDifference - result.AdjustedDifference)

	return result
}

// tallyGroup computes a group's (count, denominator, percent) over the
// respondents matching the given stratum combo. A nil combo means the
// whole population (the unadjusted tally).
func tallyGroup(respondents []*respondent, group string, combo []survey.SegmentDef) GroupCell {
	cell := GroupCell{}
	for _, r := range respondents {
		if r.group != group || !matchesCombo(r, combo) {
			continue
		}
		if r.answered {
			cell.Denominator++
			if r.selected {
				cell.Count++
			}
		}
	}
	cell.Percent = statistics.Percent(cell.Count, cell.Denominator)
	return cell
}

func matchesCombo(r *respondent, combo []survey.SegmentDef) bool {
	for _, seg := range combo {
		if r.profile[seg.Column] != seg.Value {
			return false
		}
	}
	return true
}

// marginalProportions computes each control value's share of the
// respondents holding any value for that control.
func marginalProportions(respondents []*respondent, controls []string, values map[string][]string) []SegmentDistribution {
	var distributions []SegmentDistribution
	for _, control := range controls {
		totals := make(map[string]int, len(values[control]))
		withValue := 0
		for _, r := range respondents {
			v, ok := r.profile[control]
			if !ok {
				continue
			}
			withValue++
			totals[v]++
		}
		for _, v := range values[control] {
			proportion := 0.0
			if withValue > 0 {
				proportion = float64(totals[v]) / float64(withValue)
			}
			distributions = append(distributions, SegmentDistribution{
				Segment:    control,
				Value:      v,
				Count:      totals[v],
				Proportion: proportion,
			})
		}
	}
	return distributions
}

// crossProduct enumerates the full cartesian product of control values.
// An empty control list yields one global stratum.
func crossProduct(controls []string, values map[string][]string) [][]survey.SegmentDef {
	combos := [][]survey.SegmentDef{nil}
	for _, control := range controls {
		if len(values[control]) == 0 {
			continue
		}
		var next [][]survey.SegmentDef
		for _, combo := range combos {
			for _, v := range values[control] {
				extended := make([]survey.SegmentDef, len(combo), len(combo)+1)
				copy(extended, combo)
				extended = append(extended, survey.SegmentDef{Column: control, Value: v})
				next = append(next, extended)
			}
		}
		combos = next
	}
	return combos
}

func comboLabel(combo []survey.SegmentDef) string {
	if len(combo) == 0 {
		return "All respondents"
	}
	parts := make([]string, 0, len(combo))
	for _, seg := range combo {
		parts = append(parts, seg.Column+"="+seg.Value)
	}
	return strings.Join(parts, " / ")
}

// adjustedPercent is the weighted average of a group's per-stratum
// percentages, restricted to strata where the group has a nonzero
// denominator, using the standard-population weights.
func adjustedPercent(strata []Stratum, group string) float64 {
	var weighted, totalWeight float64
	for _, s := range strata {
		cell := s.Groups[group]
		if cell.Denominator == 0 || s.Weight == 0 {
			continue
		}
		weighted += s.Weight * cell.Percent
		totalWeight += s.Weight
	}
	if totalWeight == 0 {
		return 0
	}
	return statistics.RoundStable(weighted / totalWeight)
}
