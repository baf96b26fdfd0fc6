package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// ClassSubjectRepository manages class-subject mappings.
type ClassSubjectRepository struct {
	db *sqlx.DB
}

// NewClassSubjectRepository creates a new repository.
func NewClassSubjectRepository(db *sqlx.DB) *ClassSubjectRepository {
	return &ClassSubjectRepository{db: db}
}

func (r *ClassSubjectRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// ListBySchool returns every mapping of the school in insertion order.
func (r *ClassSubjectRepository) ListBySchool(ctx context.Context, schoolID string) ([]models.ClassSubject, error) {
	const query = `SELECT id, school_id, class_group_id, subject_id, teacher_id, periods_per_week, room_type, requires_consecutive, consecutive_size, created_at
FROM class_subjects WHERE school_id = $1 ORDER BY created_at ASC, id ASC`
	var mappings []models.ClassSubject
	if err := r.db.SelectContext(ctx, &mappings, query, schoolID); err != nil {
		return nil, fmt.Errorf("list class subjects: %w", err)
	}
	return mappings, nil
}

// CreateBatch inserts mappings. Pairs already present for the school are left untouched.
func (r *ClassSubjectRepository) CreateBatch(ctx context.Context, exec sqlx.ExtContext, mappings []models.ClassSubject) error {
	if len(mappings) == 0 {
		return nil
	}
	target := r.exec(exec)
	now := time.Now().UTC()

	const query = `
INSERT INTO class_subjects (id, school_id, class_group_id, subject_id, teacher_id, periods_per_week, room_type, requires_consecutive, consecutive_size, created_at)
VALUES (:id, :school_id, :class_group_id, :subject_id, :teacher_id, :periods_per_week, :room_type, :requires_consecutive, :consecutive_size, :created_at)
ON CONFLICT (school_id, class_group_id, subject_id) DO NOTHING`

	for i := range mappings {
		mapping := &mappings[i]
		if mapping.CreatedAt.IsZero() {
			mapping.CreatedAt = now
		}
		if _, err := sqlx.NamedExecContext(ctx, target, query, mapping); err != nil {
			return fmt.Errorf("insert class subject: %w", err)
		}
	}
	return nil
}
