package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// ClassGroupRepository reads class groups scoped to a school.
type ClassGroupRepository struct {
	db *sqlx.DB
}

// NewClassGroupRepository creates a new repository.
func NewClassGroupRepository(db *sqlx.DB) *ClassGroupRepository {
	return &ClassGroupRepository{db: db}
}

// ListBySchool returns every class group of the school ordered by id.
func (r *ClassGroupRepository) ListBySchool(ctx context.Context, schoolID string) ([]models.ClassGroup, error) {
	const query = `SELECT id, school_id, name, sections, subject_ids, created_at, updated_at
FROM class_groups WHERE school_id = $1 ORDER BY id ASC`
	var classes []models.ClassGroup
	if err := r.db.SelectContext(ctx, &classes, query, schoolID); err != nil {
		return nil, fmt.Errorf("list class groups: %w", err)
	}
	return classes, nil
}
