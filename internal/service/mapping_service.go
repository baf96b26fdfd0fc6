package service

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/engine"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

type classSubjectWriter interface {
	CreateBatch(ctx context.Context, exec sqlx.ExtContext, mappings []models.ClassSubject) error
}

type snapshotSource interface {
	Load(ctx context.Context, schoolID string) (*Snapshot, error)
}

// MappingService fills in class subject rows that a school has not configured yet.
type MappingService struct {
	loader  snapshotSource
	writer  classSubjectWriter
	tx      txProvider
	metrics *MetricsService
	logger  *zap.Logger
}

// NewMappingService wires the mapping service.
func NewMappingService(loader snapshotSource, writer classSubjectWriter, tx txProvider, metrics *MetricsService, logger *zap.Logger) *MappingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MappingService{loader: loader, writer: writer, tx: tx, metrics: metrics, logger: logger}
}

// Ensure loads the school and creates any missing mappings.
func (s *MappingService) Ensure(ctx context.Context, schoolID string) (*dto.MappingResult, error) {
	snapshot, err := s.loader.Load(ctx, schoolID)
	if err != nil {
		return nil, err
	}
	return s.EnsureSnapshot(ctx, snapshot)
}

// EnsureSnapshot creates the mappings missing from snapshot and appends them
// to snapshot.Mappings so callers can continue without reloading.
func (s *MappingService) EnsureSnapshot(ctx context.Context, snapshot *Snapshot) (*dto.MappingResult, error) {
	plan := engine.PlanMappings(snapshot.Classes, snapshot.Subjects, snapshot.Teachers, snapshot.Mappings)
	result := &dto.MappingResult{Created: plan.Create, Warnings: plan.Warnings}
	if len(plan.Create) == 0 {
		return result, nil
	}

	rows := make([]models.ClassSubject, 0, len(plan.Create))
	for _, m := range plan.Create {
		rows = append(rows, models.NewClassSubject(snapshot.SchoolID, m))
	}

	start := time.Now()
	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.writer.CreateBatch(ctx, tx, rows); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create class subject mappings")
	}
	if err = tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit class subject mappings")
	}
	s.metrics.ObserveDBQuery("create_class_subjects", time.Since(start))

	snapshot.Mappings = append(snapshot.Mappings, plan.Create...)
	s.logger.Info("auto mappings created",
		zap.String("school_id", snapshot.SchoolID),
		zap.Int("created", len(plan.Create)),
		zap.Int("warnings", len(plan.Warnings)),
	)
	return result, nil
}
