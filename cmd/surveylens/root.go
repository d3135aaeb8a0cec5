package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "surveylens",
		Short: "surveylens - segmented survey-response analysis",
		Long: `Surveylens computes segmented, statistically-adjusted answer
distributions from parsed survey-response tables.

It partitions respondents into groups by segment filters, computes
per-option percentages with consistent counting semantics, flags
significant group differences, and isolates true segment effects from
demographic composition via stratified standardization and
propensity-score reweighting.`,
		Version:      version,
		SilenceUsage: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}

	// Add subcommands
	cmd.AddCommand(newSeriesCommand())
	cmd.AddCommand(newAdjustCommand())
	cmd.AddCommand(newQuestionsCommand())
	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newInitCommand())

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}
