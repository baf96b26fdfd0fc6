package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/engine"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type timetableSlotStore interface {
	ReplaceForSchool(ctx context.Context, exec sqlx.ExtContext, schoolID string, slots []models.TimetableSlot) error
	ListByClassSection(ctx context.Context, schoolID, classID, sectionID string) ([]models.TimetableSlot, error)
	ListByTeacher(ctx context.Context, schoolID, teacherID string) ([]models.TimetableSlot, error)
}

type generationLocker interface {
	Lock(ctx context.Context, schoolID string) (func(), error)
}

type mappingEnsurer interface {
	EnsureSnapshot(ctx context.Context, snapshot *Snapshot) (*dto.MappingResult, error)
}

// TimetableServiceConfig governs generation behaviour.
type TimetableServiceConfig struct {
	AutoMappings       bool
	UnscheduledLimit   int
	SolverTimeLimit    time.Duration
	ValidationCacheTTL time.Duration
	// Solver is tried ahead of the heuristic when set.
	Solver engine.ExternalSolver
}

// TimetableService validates school data and generates, persists and serves timetables.
type TimetableService struct {
	loader    snapshotSource
	mappings  mappingEnsurer
	slots     timetableSlotStore
	locker    generationLocker
	tx        txProvider
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       TimetableServiceConfig
}

// NewTimetableService wires timetable dependencies. cache and mappings may be nil.
func NewTimetableService(
	loader snapshotSource,
	mappings mappingEnsurer,
	slots timetableSlotStore,
	locker generationLocker,
	tx txProvider,
	cache *CacheService,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg TimetableServiceConfig,
) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.UnscheduledLimit <= 0 {
		cfg.UnscheduledLimit = engine.DefaultUnscheduledLimit
	}
	if cfg.SolverTimeLimit <= 0 {
		cfg.SolverTimeLimit = engine.DefaultSolverTimeLimit
	}
	return &TimetableService{
		loader:    loader,
		mappings:  mappings,
		slots:     slots,
		locker:    locker,
		tx:        tx,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
}

// Validate returns the feasibility report of the school's current data.
func (s *TimetableService) Validate(ctx context.Context, schoolID string) (*engine.Report, error) {
	if err := requireID("schoolId", schoolID); err != nil {
		return nil, err
	}
	snapshot, err := s.loader.Load(ctx, schoolID)
	if err != nil {
		return nil, err
	}

	key := validationCacheKey(schoolID, snapshot.Fingerprint())
	var cached engine.Report
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	report := engine.Validate(snapshot.Input())
	s.metrics.RecordValidationIssues(engine.CountByType(report.Issues))
	s.cache.Set(ctx, key, report, s.cfg.ValidationCacheTTL)
	return &report, nil
}

// Generate builds a timetable for the school and replaces the stored one.
// Only one generation per school runs at a time.
func (s *TimetableService) Generate(ctx context.Context, schoolID string, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResponse, error) {
	if err := requireID("schoolId", schoolID); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generation request")
	}

	start := time.Now()
	release, err := s.locker.Lock(ctx, schoolID)
	if err != nil {
		if errors.Is(err, appErrors.ErrGenerationInProgress) {
			s.metrics.ObserveGeneration("", OutcomeConflict, time.Since(start))
		}
		return nil, err
	}
	defer release()

	snapshot, err := s.loader.Load(ctx, schoolID)
	if err != nil {
		s.metrics.ObserveGeneration("", OutcomeError, time.Since(start))
		return nil, err
	}

	warnings := []string{}
	created := 0
	if s.autoMappings(req) {
		result, err := s.mappings.EnsureSnapshot(ctx, snapshot)
		if err != nil {
			s.metrics.ObserveGeneration("", OutcomeError, time.Since(start))
			return nil, err
		}
		created = len(result.Created)
		warnings = appendUnique(warnings, result.Warnings...)
	}

	s.logger.Info("timetable generation started",
		zap.String("school_id", schoolID),
		zap.Int("classes", len(snapshot.Classes)),
		zap.Int("mappings", len(snapshot.Mappings)),
		zap.Int("teachers", len(snapshot.Teachers)),
	)

	result, err := s.generator(req).Generate(ctx, snapshot.Input())
	if err != nil {
		return nil, s.generationError(schoolID, err, start)
	}
	if result.Fallback != nil {
		s.recordFallback(schoolID, result.Fallback)
	}

	solver := string(result.Solver)
	if err := s.persist(ctx, schoolID, result.Slots); err != nil {
		s.metrics.ObserveGeneration(solver, OutcomeError, time.Since(start))
		return nil, err
	}
	s.cache.Invalidate(ctx, validationCachePattern(schoolID))

	elapsed := time.Since(start)
	s.metrics.ObserveGeneration(solver, OutcomeSuccess, elapsed)
	s.logger.Info("timetable generated",
		zap.String("school_id", schoolID),
		zap.String("solver", solver),
		zap.Int("slots", len(result.Slots)),
		zap.Int("auto_mappings", created),
		zap.Duration("duration", elapsed),
	)

	return &dto.GenerateTimetableResponse{
		Message:             fmt.Sprintf("Timetable generated using %s solver. Slots: %d.", solver, len(result.Slots)),
		Solver:              solver,
		SlotCount:           len(result.Slots),
		AutoMappingsCreated: created,
		Warnings:            appendUnique(warnings, result.Warnings...),
		Stats:               result.Stats,
	}, nil
}

// ClassTimetable returns the stored timetable of one class section grouped by day.
func (s *TimetableService) ClassTimetable(ctx context.Context, schoolID, classID, sectionID string) (*dto.TimetableView, error) {
	if err := requireID("schoolId", schoolID); err != nil {
		return nil, err
	}
	if err := requireID("classId", classID); err != nil {
		return nil, err
	}
	if err := requireID("sectionId", sectionID); err != nil {
		return nil, err
	}
	rows, err := s.slots.ListByClassSection(ctx, schoolID, classID, sectionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class timetable")
	}
	return groupedView(rows), nil
}

// TeacherTimetable returns the stored timetable of one teacher grouped by day.
func (s *TimetableService) TeacherTimetable(ctx context.Context, schoolID, teacherID string) (*dto.TimetableView, error) {
	if err := requireID("schoolId", schoolID); err != nil {
		return nil, err
	}
	if err := requireID("teacherId", teacherID); err != nil {
		return nil, err
	}
	rows, err := s.slots.ListByTeacher(ctx, schoolID, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher timetable")
	}
	return groupedView(rows), nil
}

func (s *TimetableService) autoMappings(req dto.GenerateTimetableRequest) bool {
	if s.mappings == nil {
		return false
	}
	if req.AutoMappings != nil {
		return *req.AutoMappings
	}
	return s.cfg.AutoMappings
}

func (s *TimetableService) generator(req dto.GenerateTimetableRequest) *engine.Generator {
	timeLimit := s.cfg.SolverTimeLimit
	if req.TimeLimitSec > 0 {
		timeLimit = time.Duration(req.TimeLimitSec) * time.Second
	}
	opts := []engine.GeneratorOption{
		engine.WithTimeLimit(timeLimit),
		engine.WithUnscheduledLimit(s.cfg.UnscheduledLimit),
	}
	if s.cfg.Solver != nil {
		opts = append(opts, engine.WithExternalSolver(s.cfg.Solver))
	}
	return engine.NewGenerator(opts...)
}

// generationError translates engine errors into API errors and records the outcome.
func (s *TimetableService) generationError(schoolID string, err error, start time.Time) error {
	elapsed := time.Since(start)

	switch {
	case errors.Is(err, engine.ErrNoClasses):
		s.metrics.ObserveGeneration("", OutcomeError, elapsed)
		return appErrors.Clone(appErrors.ErrValidation, "No classes found")
	case errors.Is(err, engine.ErrNoMappings):
		s.metrics.ObserveGeneration("", OutcomeError, elapsed)
		return appErrors.Clone(appErrors.ErrValidation, "No class-subject mappings found")
	}

	var failure *engine.Failure
	if errors.As(err, &failure) {
		if failure.Kind == engine.FailureInfeasible {
			if failure.Validation != nil {
				s.metrics.RecordValidationIssues(engine.CountByType(failure.Validation.Issues))
			}
			s.metrics.ObserveGeneration("", OutcomeInfeasible, elapsed)
			s.logger.Info("timetable infeasible", zap.String("school_id", schoolID), zap.Int("issues", issueCount(failure)))
			return appErrors.Wrap(failure, appErrors.ErrTimetableInfeasible.Code, appErrors.ErrTimetableInfeasible.Status, failure.Message)
		}
		s.metrics.ObserveGeneration(string(engine.SolverHeuristic), OutcomeUnscheduled, elapsed)
		s.logger.Warn("timetable generation failed", zap.String("school_id", schoolID), zap.Int("unscheduled", len(failure.Unscheduled)))
		return appErrors.Wrap(failure, appErrors.ErrTimetableGenerationFailed.Code, appErrors.ErrTimetableGenerationFailed.Status, failure.Message)
	}

	s.metrics.ObserveGeneration("", OutcomeError, elapsed)
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate timetable")
}

func (s *TimetableService) recordFallback(schoolID string, err error) {
	code := engine.SolverRuntimeError
	var solverErr *engine.SolverError
	if errors.As(err, &solverErr) {
		code = solverErr.Code
	}
	s.metrics.RecordSolverFallback(code)
	s.logger.Warn("external solver failed, using heuristic",
		zap.String("school_id", schoolID),
		zap.String("code", code),
		zap.Error(err),
	)
}

func (s *TimetableService) persist(ctx context.Context, schoolID string, slots []engine.Slot) (err error) {
	rows := make([]models.TimetableSlot, 0, len(slots))
	for _, slot := range slots {
		rows = append(rows, models.NewTimetableSlot(schoolID, slot))
	}

	start := time.Now()
	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.slots.ReplaceForSchool(ctx, tx, schoolID, rows); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save timetable")
	}
	if err = tx.Commit(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit timetable")
	}
	s.metrics.ObserveDBQuery("replace_timetable_slots", time.Since(start))
	return nil
}

func groupedView(rows []models.TimetableSlot) *dto.TimetableView {
	slots := make([]engine.Slot, 0, len(rows))
	for _, row := range rows {
		slots = append(slots, row.ToEngine())
	}
	return &dto.TimetableView{Timetable: engine.GroupSlots(slots)}
}

func requireID(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return appErrors.Clone(appErrors.ErrValidation, field+" is required")
	}
	return nil
}

func issueCount(f *engine.Failure) int {
	if f.Validation == nil {
		return 0
	}
	return len(f.Validation.Issues)
}

func appendUnique(dst []string, values ...string) []string {
	seen := make(map[string]struct{}, len(dst)+len(values))
	for _, v := range dst {
		seen[v] = struct{}{}
	}
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		dst = append(dst, v)
	}
	return dst
}

func validationCacheKey(schoolID, fingerprint string) string {
	return "timetable:validation:" + schoolID + ":" + fingerprint
}

func validationCachePattern(schoolID string) string {
	return "timetable:validation:" + schoolID + ":*"
}
