package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// SubjectRepository reads subjects scoped to a school.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository constructs the repository.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// ListBySchool returns the subjects of the school ordered by id.
func (r *SubjectRepository) ListBySchool(ctx context.Context, schoolID string) ([]models.Subject, error) {
	const query = `SELECT id, school_id, name, periods_per_week, room_type, requires_consecutive, consecutive_size, teacher_id, created_at, updated_at
FROM subjects WHERE school_id = $1 ORDER BY id ASC`
	var subjects []models.Subject
	if err := r.db.SelectContext(ctx, &subjects, query, schoolID); err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	return subjects, nil
}
