package reporting

import (
	"fmt"
	"strings"

	"github.com/surveylens/surveylens/internal/adjust"
	"github.com/surveylens/surveylens/internal/series"
)

// FormatAnalysisReport renders a full confounder analysis as markdown.
func FormatAnalysisReport(a *adjust.FullAnalysis) string {
	var b strings.Builder

	st := a.Stratified
	b.WriteString("# Confounder analysis\n\n")
	b.WriteString(fmt.Sprintf("Comparing **%s** vs **%s** on option **%s**, controlling for %s.\n\n",
		st.GroupA, st.GroupB, st.Option, joinOr(st.Controls, "nothing")))

	b.WriteString("## Summary\n\n")
	b.WriteString(a.Summary.Interpretation + "\n\n")

	b.WriteString("## Stratified standardization\n\n")
	b.WriteString(fmt.Sprintf("- Raw: %s %.1f%% vs %s %.1f%% (difference %.1f points)\n",
		st.GroupA, st.RawA.Percent, st.GroupB, st.RawB.Percent, st.RawDifference))
	b.WriteString(fmt.Sprintf("- Adjusted: %s %.1f%% vs %s %.1f%% (difference %.1f points)\n",
		st.GroupA, st.AdjustedA, st.GroupB, st.AdjustedB, st.AdjustedDifference))
	b.WriteString(fmt.Sprintf("- Composition effect: %.1f points — %s\n\n",
		st.CompositionEffect, InterpretComposition(st.RawDifference, st.CompositionEffect)))

	if len(st.Strata) > 0 {
		b.WriteString("| Stratum | n | Weight | " + st.GroupA + " | " + st.GroupB + " |\n")
		b.WriteString("|---------|---|--------|------|------|\n")
		for _, s := range st.Strata {
			cellA := s.Groups[st.GroupA]
			cellB := s.Groups[st.GroupB]
			b.WriteString(fmt.Sprintf("| %s | %d | %.3f | %.1f%% (%d/%d) | %.1f%% (%d/%d) |\n",
				s.Label, s.SampleSize, s.Weight,
				cellA.Percent, cellA.Count, cellA.Denominator,
				cellB.Percent, cellB.Count, cellB.Denominator))
		}
		b.WriteString("\n")
	}

	pr := a.Propensity
	b.WriteString("## Propensity reweighting\n\n")
	b.WriteString(fmt.Sprintf("- %s (reference): %.1f%%\n", pr.ReferenceGroup, pr.ReferencePercent))
	b.WriteString(fmt.Sprintf("- %s unweighted: %.1f%%, reweighted: %.1f%% (adjusted difference %.1f points)\n",
		pr.TargetGroup, pr.TargetPercent, pr.WeightedTargetPercent, pr.AdjustedDifference))
	b.WriteString(fmt.Sprintf("- %s\n\n", InterpretEffectiveSampleSize(pr.EffectiveSampleSize, pr.TargetSampleSize)))

	if len(pr.Balance) > 0 {
		b.WriteString("| Control | Value | Reference | Target before | Target after |\n")
		b.WriteString("|---------|-------|-----------|---------------|--------------|\n")
		for _, bal := range pr.Balance {
			b.WriteString(fmt.Sprintf("| %s | %s | %.1f%% | %.1f%% | %.1f%% |\n",
				bal.Segment, bal.Value, bal.Reference*100, bal.TargetBefore*100, bal.TargetAfter*100))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Options ranked by adjusted effect\n\n")
	b.WriteString("| Option | Raw diff | Adjusted diff | Composition | Significant |\n")
	b.WriteString("|--------|----------|---------------|-------------|-------------|\n")
	for _, or := range a.OptionResults {
		marker := ""
		if or.IsSignificant {
			marker = "yes"
		}
		b.WriteString(fmt.Sprintf("| %s | %+.1f | %+.1f | %+.1f | %s |\n",
			or.Option, or.RawDifference, or.AdjustedDifference, or.CompositionEffect, marker))
	}

	return b.String()
}

// FormatSeriesMarkdown renders a series result as a markdown table.
func FormatSeriesMarkdown(r *series.Result, questionLabel string) string {
	var b strings.Builder

	b.WriteString("# " + questionLabel + "\n\n")
	b.WriteString("| Option |")
	for _, g := range r.Groups {
		b.WriteString(" " + g.Label + " |")
	}
	b.WriteString("\n|--------|")
	for range r.Groups {
		b.WriteString("------|")
	}
	b.WriteString("\n")

	for _, dp := range r.Data {
		b.WriteString("| " + dp.OptionDisplay + " |")
		for i := range r.Groups {
			gs := dp.GroupSummaries[i]
			b.WriteString(fmt.Sprintf(" %.1f%% (%d/%d) |", gs.Percent, gs.Count, gs.Denominator))
		}
		b.WriteString("\n")
	}

	b.WriteString("\nOptions marked with * differ significantly between at least one pair of groups (chi-square, p < 0.05).\n")
	return b.String()
}

func joinOr(items []string, empty string) string {
	if len(items) == 0 {
		return empty
	}
	return strings.Join(items, ", ")
}
