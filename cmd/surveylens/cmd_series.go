package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/spf13/cobra"
	"github.com/surveylens/surveylens/internal/series"
)

func newSeriesCommand() *cobra.Command {
	var (
		flags     loadFlags
		questionID string
		groupArgs []string
		sortOrder string
		format    string
		outPath   string
		all       bool
	)

	cmd := &cobra.Command{
		Use:   "series",
		Short: "Compute the answer distribution for a question",
		Long: `Compute per-option, per-group answer distributions for a question.

Groups are defined by repeated --group Column=Value flags; the literal
value "Overall" selects every respondent. Options flagged with * differ
significantly between at least one pair of groups (chi-square, p < 0.05).

Writing to a path ending in .gz compresses the JSON output.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "table" && format != "json" && format != "markdown" {
				return fmt.Errorf("unsupported format %q: must be table, json or markdown", format)
			}
			if !all && questionID == "" {
				return fmt.Errorf("--question is required (or use --all)")
			}

			eng, cfg, err := loadEngine(flags)
			if err != nil {
				return err
			}

			groups, err := parseGroupArgs(groupArgs)
			if err != nil {
				return err
			}

			requested := sortOrder
			if requested == "" {
				requested = cfg.Defaults.SortOrder
			}
			if requested == "none" {
				requested = ""
			}
			order := series.SortOrder(requested)
			if order != series.SortNone && order != series.SortAsc && order != series.SortDesc {
				return fmt.Errorf("unsupported sort order %q: must be asc, desc or none", requested)
			}

			if all {
				results := eng.AllSeries(groups, order)
				return writeOutput(cmd, outPath, format, func() any { return results }, func() string {
					var b strings.Builder
					for _, id := range eng.QuestionIDs() {
						q, _ := eng.Question(id)
						b.WriteString(formatSeries(results[id], q.Label, format))
						b.WriteString("\n")
					}
					return b.String()
				})
			}

			q, err := eng.Question(questionID)
			if err != nil {
				return err
			}
			result := eng.Series(q, groups, order)
			return writeOutput(cmd, outPath, format, func() any { return result }, func() string {
				return formatSeries(result, q.Label, format)
			})
		},
	}

	cmd.Flags().StringVarP(&flags.dataPath, "data", "d", "", "CSV dataset path (default from .surveylens.yaml)")
	cmd.Flags().StringVar(&flags.questionsPath, "questions", "", "Question config path (default from .surveylens.yaml)")
	cmd.Flags().BoolVar(&flags.rowLevel, "row-level", false, "Treat the dataset as a row-level (product-matrix) test")
	cmd.Flags().StringVarP(&questionID, "question", "q", "", "Question id to compute")
	cmd.Flags().BoolVar(&all, "all", false, "Compute every configured question")
	cmd.Flags().StringArrayVarP(&groupArgs, "group", "g", nil, "Group filter Column=Value (repeatable; \"Overall\" for all rows)")
	cmd.Flags().StringVar(&sortOrder, "sort", "", "Option sort order: asc, desc or none")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table, json or markdown")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write output to a file (.gz compresses)")

	return cmd
}

// writeOutput routes the result to stdout or a file. JSON is forced when
// writing to a file; a .gz suffix adds gzip compression.
func writeOutput(cmd *cobra.Command, outPath, format string, jsonValue func() any, text func() string) error {
	if outPath == "" {
		if format == "json" {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(jsonValue())
		}
		fmt.Fprint(cmd.OutOrStdout(), text())
		return nil
	}

	data, err := json.MarshalIndent(jsonValue(), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outPath, err)
	}
	defer f.Close() //nolint:errcheck

	if strings.HasSuffix(outPath, ".gz") {
		zw := gzip.NewWriter(f)
		if _, err := zw.Write(data); err != nil {
			return fmt.Errorf("writing %s: %w", outPath, err)
		}
		if err := zw.Close(); err != nil {
			return fmt.Errorf("closing gzip stream: %w", err)
		}
	} else if _, err := f.Write(data); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", outPath)
	return nil
}
