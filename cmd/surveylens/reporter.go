package main

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/surveylens/surveylens/internal/adjust"
	"github.com/surveylens/surveylens/internal/reporting"
	"github.com/surveylens/surveylens/internal/series"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer formats counts with thousands separators for table output.
var printer = message.NewPrinter(language.English)

func formatSeries(r *series.Result, questionLabel, format string) string {
	if format == "markdown" {
		return reporting.FormatSeriesMarkdown(r, questionLabel)
	}
	return renderSeriesTable(r, questionLabel)
}

// renderSeriesTable renders an aligned plain-text table of the series.
func renderSeriesTable(r *series.Result, questionLabel string) string {
	var b strings.Builder
	b.WriteString(questionLabel + "\n")

	headers := make([]string, 0, len(r.Groups)+1)
	headers = append(headers, "Option")
	for _, g := range r.Groups {
		headers = append(headers, g.Label)
	}

	rows := make([][]string, 0, len(r.Data))
	for _, dp := range r.Data {
		row := make([]string, 0, len(headers))
		row = append(row, dp.OptionDisplay)
		for i := range r.Groups {
			gs := dp.GroupSummaries[i]
			row = append(row, printer.Sprintf("%.1f%% (%d/%d)", gs.Percent, gs.Count, gs.Denominator))
		}
		rows = append(rows, row)
	}

	writeAligned(&b, headers, rows)
	b.WriteString("* at least one pairwise difference is significant (chi-square, p < 0.05)\n")
	return b.String()
}

// formatAnalysis renders the confounder analysis for the terminal.
func formatAnalysis(a *adjust.FullAnalysis, format string) string {
	if format == "markdown" {
		return reporting.FormatAnalysisReport(a)
	}

	var b strings.Builder
	st := a.Stratified
	pr := a.Propensity

	b.WriteString(fmt.Sprintf("Comparison: %s vs %s on %q (controls: %s)\n\n",
		st.GroupA, st.GroupB, st.Option, strings.Join(st.Controls, ", ")))
	b.WriteString(a.Summary.Interpretation + "\n\n")

	b.WriteString(fmt.Sprintf("Raw:        %s %.1f%%  %s %.1f%%  (diff %+.1f)\n",
		st.GroupA, st.RawA.Percent, st.GroupB, st.RawB.Percent, st.RawDifference))
	b.WriteString(fmt.Sprintf("Adjusted:   %s %.1f%%  %s %.1f%%  (diff %+.1f)  %s\n",
		st.GroupA, st.AdjustedA, st.GroupB, st.AdjustedB, st.AdjustedDifference,
		reporting.InterpretGap(st.AdjustedDifference)))
	b.WriteString(fmt.Sprintf("Composition effect: %+.1f points\n", st.CompositionEffect))
	b.WriteString(fmt.Sprintf("Propensity: %s reweighted %.1f%% vs %s %.1f%%  (diff %+.1f)\n",
		pr.TargetGroup, pr.WeightedTargetPercent, pr.ReferenceGroup, pr.ReferencePercent, pr.AdjustedDifference))
	b.WriteString(reporting.InterpretEffectiveSampleSize(pr.EffectiveSampleSize, pr.TargetSampleSize) + "\n\n")

	headers := []string{"Option", "Raw diff", "Adj diff", "Composition", "Significant"}
	rows := make([][]string, 0, len(a.OptionResults))
	for _, or := range a.OptionResults {
		marker := ""
		if or.IsSignificant {
			marker = "yes"
		}
		rows = append(rows, []string{
			or.Option,
			fmt.Sprintf("%+.1f", or.RawDifference),
			fmt.Sprintf("%+.1f", or.AdjustedDifference),
			fmt.Sprintf("%+.1f", or.CompositionEffect),
			marker,
		})
	}
	writeAligned(&b, headers, rows)
	return b.String()
}

// writeAligned writes a header row, separator, and data rows padded to
// the widest cell per column (display width, not byte length).
func writeAligned(b *strings.Builder, headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	writeRow := func(cells []string) {
		for i, cell := range cells {
			if i > 0 {
				b.WriteString("  ")
			}
			b.WriteString(runewidth.FillRight(cell, widths[i]))
		}
		b.WriteString("\n")
	}

	writeRow(headers)
	for i, w := range widths {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(strings.Repeat("-", w))
	}
	b.WriteString("\n")
	for _, row := range rows {
		writeRow(row)
	}
}
