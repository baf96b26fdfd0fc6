package main

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/snapshot"
	"github.com/noah-isme/sma-timetable-api/pkg/config"
	"github.com/noah-isme/sma-timetable-api/pkg/logger"
)

var snapshotPath string

var rootCmd = &cobra.Command{
	Use:          "timetablectl",
	Short:        "Validate and generate school timetables from snapshot files",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&snapshotPath, "snapshot", "s", "snapshot.yaml", "school snapshot file (.yaml, .yml or .json)")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

// setup loads service configuration for defaults and the snapshot named by --snapshot.
func setup() (*config.Config, *zap.Logger, *snapshot.File, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	logr, err := logger.New(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	file, err := snapshot.Load(snapshotPath)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, logr, file, nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
