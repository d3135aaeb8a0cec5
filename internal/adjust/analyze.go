package adjust

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/surveylens/surveylens/internal/dataset"
	"github.com/surveylens/surveylens/internal/survey"
)

// SignificantGapPoints is the adjusted-difference magnitude (in
// percentage points) above which an option counts as significant in the
// per-option ranking.
const SignificantGapPoints = 5.0

// OptionResult summarizes the stratified adjustment for one answer option.
type OptionResult struct {
	Option             string  `json:"option"`
	RawDifference      float64 `json:"raw_difference"`
	AdjustedDifference float64 `json:"adjusted_difference"`
	CompositionEffect  float64 `json:"composition_effect"`
	IsSignificant      bool    `json:"is_significant"`
}

// Summary carries the natural-language reading of the full analysis.
type Summary struct {
	Interpretation   string  `json:"interpretation"`
	SignificantCount int     `json:"significant_count"`
	LargestGapOption string  `json:"largest_gap_option,omitempty"`
	LargestGap       float64 `json:"largest_gap,omitempty"`
}

// FullAnalysis bundles both confounder analyses with the per-option
// ranking. Stratified and Propensity cover the headline option; the
// option results rank every answer option by adjusted effect size.
type FullAnalysis struct {
	Stratified    *StratifiedResult `json:"stratified_results"`
	Propensity    *PropensityResult `json:"propensity_results"`
	OptionResults []OptionResult    `json:"option_results"`
	Summary       Summary           `json:"summary"`
}

// Analyze runs the stratified standardizer for every answer option of the
// question, computes both adjustments for the headline option (first
// option when empty), and synthesizes the interpretation. Ranking
// questions have no percent semantics to adjust and are rejected.
func Analyze(ds *dataset.Dataset, q *survey.QuestionDef, cmp Comparison, controls []string, idx survey.Index, headlineOption string) (*FullAnalysis, error) {
	if q.Type == survey.TypeRanking {
		return nil, fmt.Errorf("adjust: question %s is a ranking question; confounder analysis requires percent semantics", q.ID)
	}

	options := q.ResolveOptions(ds)
	if len(options) == 0 {
		return nil, fmt.Errorf("adjust: question %s has no answer options", q.ID)
	}

	if headlineOption == "" {
		headlineOption = options[0].Label
	}
	found := false
	for _, opt := range options {
		if strings.EqualFold(opt.Label, headlineOption) {
			headlineOption = opt.Label
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("adjust: question %s has no option %q", q.ID, headlineOption)
	}

	analysis := &FullAnalysis{
		Stratified: Standardize(ds, q, headlineOption, cmp, controls, idx),
		Propensity: Reweight(ds, q, headlineOption, cmp, controls, idx),
	}

	for _, opt := range options {
		sr := Standardize(ds, q, opt.Label, cmp, controls, idx)
		analysis.OptionResults = append(analysis.OptionResults, OptionResult{
			Option:             opt.Label,
			RawDifference:      sr.RawDifference,
			AdjustedDifference: sr.AdjustedDifference,
			CompositionEffect:  sr.CompositionEffect,
			IsSignificant:      math.Abs(sr.AdjustedDifference) >= SignificantGapPoints,
		})
	}

	sort.SliceStable(analysis.OptionResults, func(i, j int) bool {
		return math.Abs(analysis.OptionResults[i].AdjustedDifference) > math.Abs(analysis.OptionResults[j].AdjustedDifference)
	})

	analysis.Summary = summarize(cmp, analysis.OptionResults)
	return analysis, nil
}

// summarize produces the plain-language interpretation of the ranked
// option results. Pure reducer, no new statistics.
func summarize(cmp Comparison, results []OptionResult) Summary {
	s := Summary{}
	var significant []OptionResult
	for _, r := range results {
		if r.IsSignificant {
			significant = append(significant, r)
		}
	}
	s.SignificantCount = len(significant)

	if len(significant) == 0 {
		s.Interpretation = fmt.Sprintf(
			"After adjusting for demographic composition, no answer option differs between %q and %q by %.0f points or more. The groups behave similarly once their makeup is accounted for.",
			cmp.GroupA, cmp.GroupB, SignificantGapPoints)
		return s
	}

	top := significant[0]
	s.LargestGapOption = top.Option
	s.LargestGap = top.AdjustedDifference

	direction := "more"
	if top.AdjustedDifference < 0 {
		direction = "less"
	}
	s.Interpretation = fmt.Sprintf(
		"%q respondents are %.1f points %s likely than %q to choose %q after demographic adjustment (raw gap %.1f, of which %.1f points reflect composition).",
		cmp.GroupB, math.Abs(top.AdjustedDifference), direction, cmp.GroupA, top.Option,
		top.RawDifference, top.CompositionEffect)
	if len(significant) > 1 {
		s.Interpretation += fmt.Sprintf(" %d other option(s) also show adjusted gaps of %.0f points or more.",
			len(significant)-1, SignificantGapPoints)
	}
	return s
}
