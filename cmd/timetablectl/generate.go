package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/engine"
)

var (
	solverCmd    string
	timeLimit    time.Duration
	autoMappings bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a timetable for a snapshot and print it",
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&solverCmd, "solver-cmd", "", "external solver command; empty uses EXTERNAL_SOLVER_COMMAND when ENABLE_EXTERNAL_SOLVER is set")
	generateCmd.Flags().DurationVar(&timeLimit, "time-limit", 0, "time limit hint for the external solver")
	generateCmd.Flags().BoolVar(&autoMappings, "auto-mappings", false, "create missing class subject mappings before generating")
	rootCmd.AddCommand(generateCmd)
}

type generateOutput struct {
	Solver       engine.SolverName     `json:"solver"`
	SlotCount    int                   `json:"slotCount"`
	Warnings     []string              `json:"warnings"`
	Stats        engine.LoadStats      `json:"stats"`
	AutoMappings []engine.ClassSubject `json:"autoMappings,omitempty"`
	Timetable    []engine.Slot         `json:"timetable"`
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, logr, file, err := setup()
	if err != nil {
		return err
	}
	defer logr.Sync() //nolint:errcheck

	command := solverCmd
	if command == "" && cfg.Solver.Enabled {
		command = cfg.Solver.Command
	}
	limit := timeLimit
	if limit <= 0 {
		limit = cfg.Solver.TimeLimit
	}

	opts := []engine.GeneratorOption{
		engine.WithTimeLimit(limit),
		engine.WithUnscheduledLimit(cfg.Timetable.UnscheduledLimit),
	}
	if command != "" {
		solver, err := engine.NewProcessSolver(command, cfg.Solver.Grace)
		if err != nil {
			return err
		}
		opts = append(opts, engine.WithExternalSolver(solver))
	}

	out := generateOutput{Warnings: []string{}}
	if autoMappings {
		plan := engine.PlanMappings(file.Classes, file.Subjects, file.Teachers, file.Mappings)
		file.Mappings = append(file.Mappings, plan.Create...)
		out.AutoMappings = plan.Create
		out.Warnings = append(out.Warnings, plan.Warnings...)
	}

	start := time.Now()
	result, err := engine.NewGenerator(opts...).Generate(ctx, file.Input())
	if err != nil {
		var failure *engine.Failure
		if errors.As(err, &failure) {
			logr.Warn("timetable not generated", zap.String("kind", string(failure.Kind)), zap.Duration("duration", time.Since(start)))
			if printErr := printJSON(cmd.OutOrStdout(), failure); printErr != nil {
				return printErr
			}
			return fmt.Errorf("%s %s", failure.Message, failure.Reason)
		}
		return err
	}
	if result.Fallback != nil {
		logr.Warn("external solver failed, using heuristic", zap.Error(result.Fallback))
	}
	logr.Info("timetable generated",
		zap.String("solver", string(result.Solver)),
		zap.Int("slots", len(result.Slots)),
		zap.Duration("duration", time.Since(start)),
	)

	out.Solver = result.Solver
	out.SlotCount = len(result.Slots)
	out.Warnings = append(out.Warnings, result.Warnings...)
	out.Stats = result.Stats
	out.Timetable = result.Slots
	return printJSON(cmd.OutOrStdout(), out)
}
