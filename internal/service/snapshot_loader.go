package service

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/sma-timetable-api/internal/engine"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

type classGroupReader interface {
	ListBySchool(ctx context.Context, schoolID string) ([]models.ClassGroup, error)
}

type subjectReader interface {
	ListBySchool(ctx context.Context, schoolID string) ([]models.Subject, error)
}

type classSubjectReader interface {
	ListBySchool(ctx context.Context, schoolID string) ([]models.ClassSubject, error)
}

type teacherReader interface {
	ListBySchool(ctx context.Context, schoolID string) ([]models.Teacher, error)
}

type labRoomReader interface {
	ListBySchool(ctx context.Context, schoolID string) ([]models.LabRoom, error)
}

type schoolSettingReader interface {
	FindBySchool(ctx context.Context, schoolID string) (*models.SchoolSetting, error)
}

// SnapshotReaders groups the repositories a snapshot is read from.
type SnapshotReaders struct {
	Classes  classGroupReader
	Subjects subjectReader
	Mappings classSubjectReader
	Teachers teacherReader
	Labs     labRoomReader
	Settings schoolSettingReader
}

// Snapshot is the engine view of one school's data at a point in time.
type Snapshot struct {
	SchoolID string
	Classes  []engine.ClassGroup
	Subjects []engine.Subject
	Mappings []engine.ClassSubject
	Teachers []engine.Teacher
	Labs     []engine.LabRoom
	Settings models.SchoolSetting
}

// Input returns the engine input for the snapshot.
func (s *Snapshot) Input() engine.Input {
	return engine.Input{
		Classes:  s.Classes,
		Mappings: s.Mappings,
		Teachers: s.Teachers,
		Labs:     s.Labs,
		Config:   s.Settings.ToEngine(),
	}
}

// Fingerprint hashes the engine input. Two snapshots with the same fingerprint
// validate identically.
func (s *Snapshot) Fingerprint() string {
	payload, err := json.Marshal(s.Input())
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:16])
}

// SnapshotLoader reads every table the engine needs for a school concurrently.
type SnapshotLoader struct {
	readers              SnapshotReaders
	metrics              *MetricsService
	defaultPeriodsPerDay int
	defaultMaxPerWeek    int
}

// NewSnapshotLoader constructs a loader.
func NewSnapshotLoader(readers SnapshotReaders, metrics *MetricsService, defaultPeriodsPerDay, defaultMaxPerWeek int) *SnapshotLoader {
	return &SnapshotLoader{
		readers:              readers,
		metrics:              metrics,
		defaultPeriodsPerDay: defaultPeriodsPerDay,
		defaultMaxPerWeek:    defaultMaxPerWeek,
	}
}

// Load reads the school snapshot. A school without settings gets the defaults.
func (l *SnapshotLoader) Load(ctx context.Context, schoolID string) (*Snapshot, error) {
	var (
		classes  []models.ClassGroup
		subjects []models.Subject
		mappings []models.ClassSubject
		teachers []models.Teacher
		labs     []models.LabRoom
		setting  *models.SchoolSetting
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		defer l.observe("list_class_groups", time.Now())
		classes, err = l.readers.Classes.ListBySchool(gctx, schoolID)
		return err
	})
	g.Go(func() (err error) {
		defer l.observe("list_subjects", time.Now())
		subjects, err = l.readers.Subjects.ListBySchool(gctx, schoolID)
		return err
	})
	g.Go(func() (err error) {
		defer l.observe("list_class_subjects", time.Now())
		mappings, err = l.readers.Mappings.ListBySchool(gctx, schoolID)
		return err
	})
	g.Go(func() (err error) {
		defer l.observe("list_teachers", time.Now())
		teachers, err = l.readers.Teachers.ListBySchool(gctx, schoolID)
		return err
	})
	g.Go(func() (err error) {
		defer l.observe("list_lab_rooms", time.Now())
		labs, err = l.readers.Labs.ListBySchool(gctx, schoolID)
		return err
	})
	g.Go(func() error {
		defer l.observe("find_school_settings", time.Now())
		found, err := l.readers.Settings.FindBySchool(gctx, schoolID)
		if errors.Is(err, sql.ErrNoRows) {
			fallback := models.DefaultSchoolSetting(schoolID, l.defaultPeriodsPerDay)
			setting = &fallback
			return nil
		}
		setting = found
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load school data")
	}

	snapshot := &Snapshot{
		SchoolID: schoolID,
		Classes:  make([]engine.ClassGroup, 0, len(classes)),
		Subjects: make([]engine.Subject, 0, len(subjects)),
		Mappings: make([]engine.ClassSubject, 0, len(mappings)),
		Teachers: make([]engine.Teacher, 0, len(teachers)),
		Labs:     make([]engine.LabRoom, 0, len(labs)),
		Settings: *setting,
	}
	for _, c := range classes {
		snapshot.Classes = append(snapshot.Classes, c.ToEngine())
	}
	for _, s := range subjects {
		snapshot.Subjects = append(snapshot.Subjects, s.ToEngine())
	}
	for _, m := range mappings {
		snapshot.Mappings = append(snapshot.Mappings, m.ToEngine())
	}
	for _, t := range teachers {
		converted, err := t.ToEngine(l.defaultMaxPerWeek)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "invalid teacher availability")
		}
		snapshot.Teachers = append(snapshot.Teachers, converted)
	}
	for _, lab := range labs {
		snapshot.Labs = append(snapshot.Labs, lab.ToEngine())
	}
	return snapshot, nil
}

func (l *SnapshotLoader) observe(label string, start time.Time) {
	l.metrics.ObserveDBQuery(label, time.Since(start))
}
