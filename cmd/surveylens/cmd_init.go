package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/surveylens/surveylens/internal/survey"
	"github.com/surveylens/surveylens/internal/wizard"
)

func newInitCommand() *cobra.Command {
	var (
		outPath string
		force   bool
	)

	cmd := &cobra.Command{
		Use:   "init [question-id]",
		Short: "Create a starter questions.yaml interactively",
		Long: `Walk through an interactive wizard that collects one question
definition and writes a starter questions.yaml. Edit the file afterwards
to add more questions; surveylens validates it on every load.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(outPath); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", outPath)
			}

			initialID := ""
			if len(args) > 0 {
				initialID = args[0]
			}

			spec, err := wizard.RunQuestionWizard(cmd.InOrStdin(), cmd.OutOrStdout(), initialID)
			if err != nil {
				return err
			}

			content, err := wizard.GenerateQuestionsYAML(spec)
			if err != nil {
				return err
			}

			// Round-trip through the loader so the wizard can never emit a
			// config surveylens would refuse to load.
			if _, _, err := survey.ParseConfig([]byte(content)); err != nil {
				return fmt.Errorf("generated config is invalid: %w", err)
			}

			if err := os.WriteFile(outPath, []byte(content), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", outPath, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "questions.yaml", "Where to write the question config")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	return cmd
}
