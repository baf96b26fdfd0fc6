package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-api/internal/engine"
	"github.com/noah-isme/sma-timetable-api/internal/models"
)

func TestClassGroupRepositoryListBySchool(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewClassGroupRepository(db)

	rows := sqlmock.NewRows([]string{"id", "school_id", "name", "sections", "subject_ids", "created_at", "updated_at"}).
		AddRow("C1", "school-1", "Grade 10", "{A,B}", "{}", time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM class_groups WHERE school_id = $1")).
		WithArgs("school-1").
		WillReturnRows(rows)

	classes, err := repo.ListBySchool(context.Background(), "school-1")
	require.NoError(t, err)
	require.Len(t, classes, 1)
	assert.Equal(t, []string{"A", "B"}, classes[0].ToEngine().Sections)
	assert.Empty(t, classes[0].SubjectIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryListBySchool(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	rows := sqlmock.NewRows([]string{"id", "school_id", "full_name", "subject_ids", "class_group_ids", "level", "max_periods_per_week", "unavailable", "preferred_off_periods", "created_at", "updated_at"}).
		AddRow("T1", "school-1", "Teacher A", "{MATH,PHYS}", "{C1}", nil, 0, `{"MON":[0,1]}`, "{7}", time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM teachers WHERE school_id = $1")).
		WithArgs("school-1").
		WillReturnRows(rows)

	teachers, err := repo.ListBySchool(context.Background(), "school-1")
	require.NoError(t, err)
	require.Len(t, teachers, 1)

	converted, err := teachers[0].ToEngine(20)
	require.NoError(t, err)
	assert.Equal(t, []string{"MATH", "PHYS"}, converted.SubjectIDs)
	assert.Equal(t, 20, converted.MaxPeriodsPerWeek)
	assert.Equal(t, []int{0, 1}, converted.Unavailable[engine.Monday])
	assert.Equal(t, []int{7}, converted.PreferredOffPeriods)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubjectAndLabRepositories(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("FROM subjects WHERE school_id = $1")).
		WithArgs("school-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "school_id", "name", "periods_per_week", "room_type", "requires_consecutive", "consecutive_size", "teacher_id", "created_at", "updated_at"}).
			AddRow("CHEM", "school-1", "Chemistry", 4, "lab", true, 2, "T1", time.Now(), time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta("FROM lab_rooms WHERE school_id = $1")).
		WithArgs("school-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "school_id", "name", "capacity", "created_at"}).
			AddRow("L1", "school-1", "Lab 1", 30, time.Now()))

	subjects, err := NewSubjectRepository(db).ListBySchool(context.Background(), "school-1")
	require.NoError(t, err)
	require.Len(t, subjects, 1)
	assert.Equal(t, engine.RoomLab, subjects[0].ToEngine().RoomType)
	assert.Equal(t, "T1", subjects[0].ToEngine().TeacherID)

	labs, err := NewLabRoomRepository(db).ListBySchool(context.Background(), "school-1")
	require.NoError(t, err)
	assert.Equal(t, []engine.LabRoom{{ID: "L1", Name: "Lab 1", Capacity: 30}}, []engine.LabRoom{labs[0].ToEngine()})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSchoolSettingRepositoryFindBySchoolMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSchoolSettingRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM school_settings WHERE school_id = $1")).
		WithArgs("school-1").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindBySchool(context.Background(), "school-1")
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassSubjectRepositoryCreateBatch(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewClassSubjectRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO class_subjects")).
		WithArgs("CS01", "school-1", "C1", "MATH", "T1", 5, "CLASSROOM", false, 2, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO class_subjects")).
		WithArgs("CS02", "school-1", "C1", "ART", nil, 1, "SPECIAL_ROOM", false, 2, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	rows := []models.ClassSubject{
		models.NewClassSubject("school-1", engine.ClassSubject{ID: "CS01", ClassGroupID: "C1", SubjectID: "MATH", TeacherID: "T1", PeriodsPerWeek: 5, RoomType: engine.RoomClassroom, ConsecutiveSize: 2}),
		models.NewClassSubject("school-1", engine.ClassSubject{ID: "CS02", ClassGroupID: "C1", SubjectID: "ART", PeriodsPerWeek: 1, RoomType: engine.RoomSpecial, ConsecutiveSize: 2}),
	}
	require.NoError(t, repo.CreateBatch(context.Background(), nil, rows))
	assert.False(t, rows[0].CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassSubjectRepositoryListBySchool(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewClassSubjectRepository(db)

	rows := sqlmock.NewRows([]string{"id", "school_id", "class_group_id", "subject_id", "teacher_id", "periods_per_week", "room_type", "requires_consecutive", "consecutive_size", "created_at"}).
		AddRow("CS01", "school-1", "C1", "MATH", nil, 5, "", false, 0, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM class_subjects WHERE school_id = $1")).
		WithArgs("school-1").
		WillReturnRows(rows)

	mappings, err := repo.ListBySchool(context.Background(), "school-1")
	require.NoError(t, err)
	require.Len(t, mappings, 1)
	converted := mappings[0].ToEngine()
	assert.Empty(t, converted.TeacherID)
	assert.Equal(t, engine.RoomClassroom, converted.RoomType)
	assert.NoError(t, mock.ExpectationsWereMet())
}
