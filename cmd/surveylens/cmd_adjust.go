package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/surveylens/surveylens/internal/adjust"
)

func newAdjustCommand() *cobra.Command {
	var (
		flags      loadFlags
		questionID string
		compare    string
		groupA     string
		groupB     string
		controls   []string
		option     string
		format     string
		outPath    string
	)

	cmd := &cobra.Command{
		Use:   "adjust",
		Short: "Compare two groups with demographic adjustment",
		Long: `Compare one answer option between two groups while controlling for
demographic composition.

Two complementary adjustments run side by side: direct stratified
standardization over the cross-product of the control columns, and
propensity-score reweighting of the target group toward the reference
group. Group A is the reference; group B is the target being adjusted.`,
		Example: `  surveylens adjust -q nps --compare Region -a West -b East --control Age --control Income
  surveylens adjust -q brand --compare plan_type -a Free -b Paid --control Age --option "Brand A" -f json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "table" && format != "json" && format != "markdown" {
				return fmt.Errorf("unsupported format %q: must be table, json or markdown", format)
			}
			if questionID == "" {
				return fmt.Errorf("--question is required")
			}
			if compare == "" || groupA == "" || groupB == "" {
				return fmt.Errorf("--compare, --group-a and --group-b are all required")
			}
			if len(controls) == 0 {
				return fmt.Errorf("at least one --control column is required")
			}

			eng, _, err := loadEngine(flags)
			if err != nil {
				return err
			}
			q, err := eng.Question(questionID)
			if err != nil {
				return err
			}

			cmp := adjust.Comparison{Column: compare, GroupA: groupA, GroupB: groupB}
			analysis, err := eng.Analyze(q, cmp, controls, option)
			if err != nil {
				return err
			}

			return writeOutput(cmd, outPath, format, func() any { return analysis }, func() string {
				return formatAnalysis(analysis, format)
			})
		},
	}

	cmd.Flags().StringVarP(&flags.dataPath, "data", "d", "", "CSV dataset path (default from .surveylens.yaml)")
	cmd.Flags().StringVar(&flags.questionsPath, "questions", "", "Question config path (default from .surveylens.yaml)")
	cmd.Flags().BoolVar(&flags.rowLevel, "row-level", false, "Treat the dataset as a row-level (product-matrix) test")
	cmd.Flags().StringVarP(&questionID, "question", "q", "", "Question id to analyze")
	cmd.Flags().StringVar(&compare, "compare", "", "Column (or question id) defining the two groups")
	cmd.Flags().StringVarP(&groupA, "group-a", "a", "", "Reference group value")
	cmd.Flags().StringVarP(&groupB, "group-b", "b", "", "Target group value (gets adjusted)")
	cmd.Flags().StringArrayVar(&controls, "control", nil, "Demographic control column (repeatable)")
	cmd.Flags().StringVar(&option, "option", "", "Headline answer option (default: the question's first option)")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table, json or markdown")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write output to a file (.gz compresses)")

	return cmd
}
