package engine

import (
	"context"
	"errors"
	"time"
)

// DefaultSolverTimeLimit is the time limit hint sent to external solvers when none is configured.
const DefaultSolverTimeLimit = 25 * time.Second

// DefaultUnscheduledLimit caps the unscheduled list attached to a failure.
const DefaultUnscheduledLimit = 50

// Input errors abort generation before any computation.
var (
	ErrNoClasses  = errors.New("no classes found")
	ErrNoMappings = errors.New("no class-subject mappings found")
)

// SolverName identifies which solver produced a timetable.
type SolverName string

// Solver names reported in results.
const (
	SolverExternal  SolverName = "External"
	SolverHeuristic SolverName = "Heuristic"
)

// FailureKind distinguishes why generation was rejected.
type FailureKind string

// Failure kinds.
const (
	FailureInfeasible  FailureKind = "INFEASIBLE"
	FailureUnscheduled FailureKind = "UNSCHEDULED"
)

// Failure is the payload returned when no timetable can be produced.
type Failure struct {
	Kind        FailureKind   `json:"-"`
	Message     string        `json:"error"`
	Reason      string        `json:"reason"`
	Validation  *Report       `json:"validation,omitempty"`
	Unscheduled []Unscheduled `json:"unscheduled,omitempty"`
}

func (f *Failure) Error() string { return f.Message }

// Result is a successfully generated timetable.
type Result struct {
	Solver     SolverName
	Slots      []Slot
	Warnings   []string
	Validation Report
	Stats      LoadStats
	// Fallback is set when an enabled external solver failed and the heuristic ran instead.
	Fallback error
}

// Generator runs the allocate, validate and schedule pipeline.
type Generator struct {
	solver           ExternalSolver
	timeLimit        time.Duration
	unscheduledLimit int
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithExternalSolver enables the external solver ahead of the heuristic.
func WithExternalSolver(s ExternalSolver) GeneratorOption {
	return func(g *Generator) { g.solver = s }
}

// WithTimeLimit sets the time limit hint passed to the external solver.
func WithTimeLimit(d time.Duration) GeneratorOption {
	return func(g *Generator) {
		if d > 0 {
			g.timeLimit = d
		}
	}
}

// WithUnscheduledLimit caps the unscheduled items reported on failure.
func WithUnscheduledLimit(n int) GeneratorOption {
	return func(g *Generator) {
		if n > 0 {
			g.unscheduledLimit = n
		}
	}
}

// NewGenerator builds a Generator. Without options it only uses the heuristic.
func NewGenerator(opts ...GeneratorOption) *Generator {
	g := &Generator{timeLimit: DefaultSolverTimeLimit, unscheduledLimit: DefaultUnscheduledLimit}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate produces a timetable for the snapshot. It returns ErrNoClasses or
// ErrNoMappings for empty input and a *Failure when the snapshot is infeasible
// or the heuristic cannot place every period.
func (g *Generator) Generate(ctx context.Context, in Input) (*Result, error) {
	if len(in.Classes) == 0 {
		return nil, ErrNoClasses
	}
	if len(in.Mappings) == 0 {
		return nil, ErrNoMappings
	}

	report, alloc := validate(in)
	if !report.Feasible {
		return nil, &Failure{
			Kind:       FailureInfeasible,
			Message:    "Timetable cannot be generated due to feasibility constraints.",
			Reason:     "Resolve the listed issues and try again.",
			Validation: &report,
		}
	}

	problem := BuildProblem(in, alloc, g.timeLimit)
	result := &Result{Validation: report, Warnings: []string{}}

	if g.solver != nil {
		resp, err := g.solver.Solve(ctx, problem)
		switch {
		case err != nil:
			result.Fallback = err
		case resp == nil || !resp.OK || resp.Slots == nil:
			result.Fallback = rejection(resp)
		default:
			result.Solver = SolverExternal
			result.Slots = normalizeSlots(resp.Slots)
			result.Warnings = append(result.Warnings, resp.Warnings...)
			result.Stats = ComputeLoadStats(result.Slots)
			return result, nil
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	outcome := Schedule(problem)
	if !outcome.OK {
		unscheduled := outcome.Unscheduled
		if len(unscheduled) > g.unscheduledLimit {
			unscheduled = unscheduled[:g.unscheduledLimit]
		}
		return nil, &Failure{
			Kind:        FailureUnscheduled,
			Message:     "Timetable generation failed.",
			Reason:      "No complete feasible schedule could be generated with current constraints.",
			Validation:  &report,
			Unscheduled: unscheduled,
		}
	}

	result.Solver = SolverHeuristic
	result.Slots = outcome.Slots
	result.Stats = ComputeLoadStats(result.Slots)
	return result, nil
}

// timeLimitSeconds rounds up so a positive sub-second limit still reaches the
// solver as one second rather than zero.
func timeLimitSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}

// BuildProblem converts an allocation into the placement problem handed to solvers.
// Teacher capacities are the allocator's effective capacities.
func BuildProblem(in Input, alloc Allocation, timeLimit time.Duration) Problem {
	days := SchedulingDays()
	assembly, hasAssembly := in.Config.AssemblyPeriod()

	p := Problem{
		Days:         days,
		PeriodsByDay: PeriodsForDay(days, in.Config.Periods(), false),
		HasAssembly:  hasAssembly,
		AssemblySlot: assembly,
		Classes:      make([]ClassSections, 0, len(in.Classes)),
		Requirements: alloc.Requirements,
		Teachers:     make([]TeacherCapacity, 0, len(in.Teachers)),
		LabIDs:       make([]string, 0, len(in.Labs)),
		TimeLimitSec: timeLimitSeconds(timeLimit),
	}
	for _, cls := range in.Classes {
		p.Classes = append(p.Classes, ClassSections{ID: cls.ID, Sections: cls.SectionIDs()})
	}
	for _, t := range in.Teachers {
		unavailable := t.Unavailable
		if unavailable == nil {
			unavailable = Availability{}
		}
		p.Teachers = append(p.Teachers, TeacherCapacity{
			ID:                t.ID,
			MaxPeriodsPerWeek: alloc.TeacherCap[t.ID],
			Unavailable:       unavailable,
		})
	}
	for _, lab := range in.Labs {
		p.LabIDs = append(p.LabIDs, lab.ID)
	}
	return p
}

func rejection(resp *SolverResponse) error {
	if resp == nil {
		return &SolverError{Code: SolverBadOutput, Err: errors.New("no response")}
	}
	if resp.Error != "" {
		return &SolverError{Code: SolverRejected, Err: errors.New(resp.Error)}
	}
	return &SolverError{Code: SolverRejected}
}

func normalizeSlots(slots []Slot) []Slot {
	out := make([]Slot, len(slots))
	for i, s := range slots {
		s.RoomType = ParseRoomType(string(s.RoomType))
		s.Locked = false
		out[i] = s
	}
	return out
}
