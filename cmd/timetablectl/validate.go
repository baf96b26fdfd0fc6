package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/engine"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Print the feasibility report of a snapshot",
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	_, logr, file, err := setup()
	if err != nil {
		return err
	}
	defer logr.Sync() //nolint:errcheck

	report := engine.Validate(file.Input())
	logr.Info("snapshot validated",
		zap.String("snapshot", snapshotPath),
		zap.Bool("feasible", report.Feasible),
		zap.Int("issues", len(report.Issues)),
		zap.Int("warnings", len(report.Warnings)),
	)
	return printJSON(cmd.OutOrStdout(), report)
}
