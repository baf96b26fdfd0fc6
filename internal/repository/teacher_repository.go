package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// TeacherRepository reads teachers and their scheduling constraints.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository instantiates the repository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

// ListBySchool returns the teachers of the school ordered by id.
func (r *TeacherRepository) ListBySchool(ctx context.Context, schoolID string) ([]models.Teacher, error) {
	const query = `SELECT id, school_id, full_name, subject_ids, class_group_ids, level, max_periods_per_week, unavailable, preferred_off_periods, created_at, updated_at
FROM teachers WHERE school_id = $1 ORDER BY id ASC`
	var teachers []models.Teacher
	if err := r.db.SelectContext(ctx, &teachers, query, schoolID); err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	return teachers, nil
}
