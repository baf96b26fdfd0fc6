package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/engine"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

type txProviderMock struct {
	db   *sqlx.DB
	mock sqlmock.Sqlmock
}

func newTxProviderMock(t *testing.T) (txProvider, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	t.Cleanup(func() { db.Close() })
	return &txProviderMock{db: sqlxdb, mock: mock}, mock
}

func (t *txProviderMock) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	return t.db.BeginTxx(ctx, opts)
}

type snapshotSourceStub struct {
	snapshot *Snapshot
	err      error
	calls    int
}

func (s *snapshotSourceStub) Load(_ context.Context, _ string) (*Snapshot, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.snapshot, nil
}

type mappingEnsurerStub struct {
	result *dto.MappingResult
	err    error
	calls  int
}

func (m *mappingEnsurerStub) EnsureSnapshot(_ context.Context, _ *Snapshot) (*dto.MappingResult, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

type slotStoreStub struct {
	replaced   []models.TimetableSlot
	replaceErr error
	listed     []models.TimetableSlot
	calls      int
}

func (s *slotStoreStub) ReplaceForSchool(_ context.Context, _ sqlx.ExtContext, _ string, slots []models.TimetableSlot) error {
	s.calls++
	if s.replaceErr != nil {
		return s.replaceErr
	}
	s.replaced = slots
	return nil
}

func (s *slotStoreStub) ListByClassSection(_ context.Context, _, _, _ string) ([]models.TimetableSlot, error) {
	return s.listed, nil
}

func (s *slotStoreStub) ListByTeacher(_ context.Context, _, _ string) ([]models.TimetableSlot, error) {
	return s.listed, nil
}

type lockerStub struct {
	err      error
	released int
}

func (l *lockerStub) Lock(_ context.Context, _ string) (func(), error) {
	if l.err != nil {
		return nil, l.err
	}
	return func() { l.released++ }, nil
}

type memoryCacheRepo struct {
	mu       sync.Mutex
	entries  map[string][]byte
	deleted  []string
	getCalls int
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{entries: make(map[string][]byte)}
}

func (m *memoryCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalls++
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(_ context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, pattern)
	m.entries = make(map[string][]byte)
	return nil
}

// feasibleSnapshot is one class with a single five-period subject.
func feasibleSnapshot() *Snapshot {
	return &Snapshot{
		SchoolID: "school-1",
		Classes:  []engine.ClassGroup{{ID: "C1", Name: "Grade 1", Sections: []string{"A"}}},
		Subjects: []engine.Subject{{ID: "S1", PeriodsPerWeek: 5}},
		Mappings: []engine.ClassSubject{{ID: "CS01", ClassGroupID: "C1", SubjectID: "S1", TeacherID: "T1", PeriodsPerWeek: 5}},
		Teachers: []engine.Teacher{{ID: "T1", SubjectIDs: []string{"S1"}, MaxPeriodsPerWeek: 20}},
		Settings: models.DefaultSchoolSetting("school-1", 8),
	}
}
