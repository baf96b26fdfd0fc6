package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Solver failure codes.
const (
	SolverSpawnError   = "SOLVER_SPAWN_ERROR"
	SolverRuntimeError = "SOLVER_RUNTIME_ERROR"
	SolverBadOutput    = "SOLVER_BAD_OUTPUT"
	SolverTimeout      = "SOLVER_TIMEOUT"
	SolverRejected     = "SOLVER_REJECTED"
)

// SolverResponse is the single reply an external solver writes.
type SolverResponse struct {
	OK       bool     `json:"ok"`
	Slots    []Slot   `json:"slots,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// SolverError explains why an external solver result was not adopted.
type SolverError struct {
	Code string
	Err  error
}

func (e *SolverError) Error() string {
	if e.Err == nil {
		return e.Code
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *SolverError) Unwrap() error { return e.Err }

// ExternalSolver delegates a placement problem to an out-of-process optimizer.
type ExternalSolver interface {
	Solve(ctx context.Context, p Problem) (*SolverResponse, error)
}

// ProcessSolver runs a solver executable, writing the problem as JSON to its
// stdin and reading one JSON response from stdout.
type ProcessSolver struct {
	path  string
	args  []string
	grace time.Duration
}

// NewProcessSolver parses a command line such as "python3 scripts/solver.py".
// The process is killed once the problem's time limit plus grace elapses.
func NewProcessSolver(command string, grace time.Duration) (*ProcessSolver, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil, errors.New("solver command is empty")
	}
	if grace < 0 {
		grace = 0
	}
	return &ProcessSolver{path: fields[0], args: fields[1:], grace: grace}, nil
}

// Solve implements ExternalSolver.
func (s *ProcessSolver) Solve(ctx context.Context, p Problem) (*SolverResponse, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, &SolverError{Code: SolverSpawnError, Err: fmt.Errorf("encode problem: %w", err)}
	}

	limit := time.Duration(p.TimeLimitSec) * time.Second
	if limit <= 0 {
		limit = DefaultSolverTimeLimit
	}
	runCtx, cancel := context.WithTimeout(ctx, limit+s.grace)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, s.path, s.args...)
	cmd.Stdin = bytes.NewReader(payload)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	runErr := cmd.Run()
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return nil, &SolverError{Code: SolverTimeout, Err: fmt.Errorf("no response within %s", limit+s.grace)}
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			return nil, &SolverError{Code: SolverRuntimeError, Err: fmt.Errorf("%w: %s", runErr, strings.TrimSpace(stderr.String()))}
		}
		return nil, &SolverError{Code: SolverSpawnError, Err: runErr}
	}

	out := bytes.TrimSpace(stdout.Bytes())
	if len(out) == 0 {
		if stderr.Len() > 0 {
			return nil, &SolverError{Code: SolverRuntimeError, Err: errors.New(strings.TrimSpace(stderr.String()))}
		}
		return nil, &SolverError{Code: SolverBadOutput, Err: errors.New("empty output")}
	}

	var resp SolverResponse
	if err := json.Unmarshal(out, &resp); err != nil {
		return nil, &SolverError{Code: SolverBadOutput, Err: err}
	}
	return &resp, nil
}
