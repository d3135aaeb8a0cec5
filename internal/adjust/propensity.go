package adjust

import (
	"strings"

	"github.com/surveylens/surveylens/internal/dataset"
	"github.com/surveylens/surveylens/internal/statistics"
	"github.com/surveylens/surveylens/internal/survey"
)

const (
	// propensityFloor / propensityCeil clip scores before converting to
	// odds, and weightCap bounds the variance contribution of extreme
	// strata.
	propensityFloor = 0.05
	propensityCeil  = 0.95
	weightCap       = 10.0
)

// Estimator produces a propensity score — the probability that a
// respondent with the given demographic profile belongs to the reference
// group. The default implementation is a Laplace-smoothed stratified
// frequency table, not a fitted model; it sits behind this interface so a
// logistic-regression estimator can replace it without touching callers.
type Estimator interface {
	Score(profileKey string) float64
}

// FrequencyEstimator estimates propensity from exact profile-key counts:
//
//	p = (referenceCount + 0.5) / (totalCount + 1)
//
// Exact-key matching degrades with many control variables (sparse
// profiles); the smoothing keeps degenerate cells away from 0 and 1.
type FrequencyEstimator struct {
	reference map[string]int
	total     map[string]int
}

// NewFrequencyEstimator counts reference-group membership per profile key
// across the given respondents.
func NewFrequencyEstimator(respondents []*respondent, referenceGroup string, controls []string) *FrequencyEstimator {
	e := &FrequencyEstimator{
		reference: make(map[string]int),
		total:     make(map[string]int),
	}
	for _, r := range respondents {
		key, ok := profileKey(r, controls)
		if !ok {
			continue
		}
		e.total[key]++
		if r.group == referenceGroup {
			e.reference[key]++
		}
	}
	return e
}

// Score implements Estimator.
func (e *FrequencyEstimator) Score(key string) float64 {
	return (float64(e.reference[key]) + 0.5) / (float64(e.total[key]) + 1)
}

// Weight is one respondent's propensity score and inverse-probability
// weight.
type Weight struct {
	RespondentID  string  `json:"respondent_id"`
	OriginalGroup string  `json:"original_group"`
	Propensity    float64 `json:"propensity_score"`
	Weight        float64 `json:"weight"`
}

// Balance reports one control value's share of the target group before
// and after weighting, against the reference group's share, so a caller
// can confirm the reweighting moved the target distribution toward the
// reference.
type Balance struct {
	Segment      string  `json:"segment"`
	Value        string  `json:"value"`
	Reference    float64 `json:"reference"`
	TargetBefore float64 `json:"target_before"`
	TargetAfter  float64 `json:"target_after"`
}

// PropensityResult is the reweighted comparison for one answer option.
type PropensityResult struct {
	Option         string   `json:"option"`
	ReferenceGroup string   `json:"reference_group"`
	TargetGroup    string   `json:"target_group"`
	Weights        []Weight `json:"weights"`

	ReferencePercent      float64 `json:"reference_percent"`
	TargetPercent         float64 `json:"target_percent"`
	WeightedTargetPercent float64 `json:"weighted_target_percent"`
	AdjustedDifference    float64 `json:"adjusted_difference"`

	// EffectiveSampleSize is Kish's (sum w)^2 / sum w^2 over the target
	// weights. A value much smaller than TargetSampleSize signals
	// unstable weighting and must be surfaced, not hidden.
	EffectiveSampleSize float64 `json:"effective_sample_size"`
	TargetSampleSize    int     `json:"target_sample_size"`

	Balance []Balance `json:"balance"`
}

// Reweight computes propensity scores and inverse-probability weights,
// then produces the reweighted comparison of the target group (GroupB)
// against the reference group (GroupA) for one answer option.
func Reweight(ds *dataset.Dataset, q *survey.QuestionDef, optionLabel string, cmp Comparison, controls []string, idx survey.Index) *PropensityResult {
	options := q.ResolveOptions(ds)
	respondents := buildRespondents(ds, q, options, optionLabel, cmp, controls, idx)
	return reweight(respondents, optionLabel, cmp, controls, nil)
}

// reweight is the pure core; a non-nil estimator overrides the default
// frequency table (the seam used by tests and future model swaps).
func reweight(respondents []*respondent, optionLabel string, cmp Comparison, controls []string, estimator Estimator) *PropensityResult {
	result := &PropensityResult{
		Option:         optionLabel,
		ReferenceGroup: cmp.GroupA,
		TargetGroup:    cmp.GroupB,
	}

	// Only respondents in either primary group with a complete profile
	// participate; a missing control value excludes the respondent.
	var pool []*respondent
	for _, r := range respondents {
		if r.group == "" {
			continue
		}
		if _, ok := profileKey(r, controls); !ok {
			continue
		}
		pool = append(pool, r)
	}

	if estimator == nil {
		estimator = NewFrequencyEstimator(pool, cmp.GroupA, controls)
	}

	var (
		targetWeights []float64
		weightedSel   float64
		weightedAns   float64
	)
	weightOf := make(map[*respondent]float64, len(pool))
	for _, r := range pool {
		key, _ := profileKey(r, controls)
		p := estimator.Score(key)

		w := 1.0
		if r.group == cmp.GroupB {
			clipped := statistics.Clip(p, propensityFloor, propensityCeil)
			w = clipped / (1 - clipped)
			if w > weightCap {
				w = weightCap
			}
			weightOf[r] = w
			result.TargetSampleSize++
			targetWeights = append(targetWeights, w)
			if r.answered {
				weightedAns += w
				if r.selected {
					weightedSel += w
				}
			}
		}

		result.Weights = append(result.Weights, Weight{
			RespondentID:  r.id,
			OriginalGroup: r.group,
			Propensity:    p,
			Weight:        w,
		})
	}

	result.ReferencePercent = groupPercent(pool, cmp.GroupA)
	result.TargetPercent = groupPercent(pool, cmp.GroupB)
	if weightedAns > 0 {
		result.WeightedTargetPercent = statistics.RoundStable(weightedSel / weightedAns * 100)
	}
	result.AdjustedDifference = statistics.RoundStable(result.WeightedTargetPercent - result.ReferencePercent)
	result.EffectiveSampleSize = statistics.EffectiveSampleSize(targetWeights)
	result.Balance = balanceDiagnostics(pool, cmp, controls, weightOf)

	return result
}

func groupPercent(pool []*respondent, group string) float64 {
	count, denominator := 0, 0
	for _, r := range pool {
		if r.group != group || !r.answered {
			continue
		}
		denominator++
		if r.selected {
			count++
		}
	}
	return statistics.Percent(count, denominator)
}

// balanceDiagnostics compares each control value's weighted and
// unweighted share of the target group against the reference group.
func balanceDiagnostics(pool []*respondent, cmp Comparison, controls []string, weightOf map[*respondent]float64) []Balance {
	values := controlValues(pool, controls)

	var diagnostics []Balance
	for _, control := range controls {
		for _, v := range values[control] {
			var refTotal, refWith float64
			var tgtTotal, tgtWith float64
			var wTotal, wWith float64
			for _, r := range pool {
				has := r.profile[control] == v
				switch r.group {
				case cmp.GroupA:
					refTotal++
					if has {
						refWith++
					}
				case cmp.GroupB:
					tgtTotal++
					if has {
						tgtWith++
					}
					w := weightOf[r]
					wTotal += w
					if has {
						wWith += w
					}
				}
			}
			b := Balance{Segment: control, Value: v}
			if refTotal > 0 {
				b.Reference = refWith / refTotal
			}
			if tgtTotal > 0 {
				b.TargetBefore = tgtWith / tgtTotal
			}
			if wTotal > 0 {
				b.TargetAfter = wWith / wTotal
			}
			diagnostics = append(diagnostics, b)
		}
	}
	return diagnostics
}

// profileKey joins a respondent's control values into the exact-match
// grouping key. ok=false means at least one control value is missing.
func profileKey(r *respondent, controls []string) (string, bool) {
	parts := make([]string, 0, len(controls))
	for _, control := range controls {
		v, ok := r.profile[control]
		if !ok {
			return "", false
		}
		parts = append(parts, control+"="+v)
	}
	return strings.Join(parts, "|"), true
}
