package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/surveylens/surveylens/internal/survey"
)

func newQuestionsCommand() *cobra.Command {
	var (
		flags  loadFlags
		format string
	)

	cmd := &cobra.Command{
		Use:   "questions",
		Short: "List the configured questions",
		Long: `List every configured question with its type, counting level and
options, resolved against the loaded dataset. Single-choice questions
show the distinct answer values found in their source column.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "table" && format != "json" {
				return fmt.Errorf("unsupported format %q: must be table or json", format)
			}

			eng, _, err := loadEngine(flags)
			if err != nil {
				return err
			}

			type questionInfo struct {
				ID      string   `json:"id"`
				Label   string   `json:"label"`
				Type    string   `json:"type"`
				Level   string   `json:"level"`
				Options []string `json:"options"`
			}

			infos := make([]questionInfo, 0, len(eng.Questions))
			for _, id := range eng.QuestionIDs() {
				q := eng.Index[id]
				options := q.ResolveOptions(eng.Dataset)
				labels := make([]string, 0, len(options))
				for _, opt := range options {
					labels = append(labels, opt.Label)
				}
				level := q.Level
				if level == "" {
					level = survey.LevelRespondent
				}
				infos = append(infos, questionInfo{
					ID:      q.ID,
					Label:   q.Label,
					Type:    string(q.Type),
					Level:   string(level),
					Options: labels,
				})
			}

			return writeOutput(cmd, "", format, func() any { return infos }, func() string {
				var b strings.Builder
				headers := []string{"ID", "Label", "Type", "Level", "Options"}
				rows := make([][]string, 0, len(infos))
				for _, info := range infos {
					rows = append(rows, []string{
						info.ID, info.Label, info.Type, info.Level,
						fmt.Sprintf("%d: %s", len(info.Options), strings.Join(info.Options, ", ")),
					})
				}
				writeAligned(&b, headers, rows)
				return b.String()
			})
		},
	}

	cmd.Flags().StringVarP(&flags.dataPath, "data", "d", "", "CSV dataset path (default from .surveylens.yaml)")
	cmd.Flags().StringVar(&flags.questionsPath, "questions", "", "Question config path (default from .surveylens.yaml)")
	cmd.Flags().BoolVar(&flags.rowLevel, "row-level", false, "Treat the dataset as a row-level (product-matrix) test")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table or json")

	return cmd
}
