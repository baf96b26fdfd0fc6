package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// LabRoomRepository reads the lab pool of a school.
type LabRoomRepository struct {
	db *sqlx.DB
}

// NewLabRoomRepository constructs the repository.
func NewLabRoomRepository(db *sqlx.DB) *LabRoomRepository {
	return &LabRoomRepository{db: db}
}

// ListBySchool returns the labs of the school ordered by id.
func (r *LabRoomRepository) ListBySchool(ctx context.Context, schoolID string) ([]models.LabRoom, error) {
	const query = `SELECT id, school_id, name, capacity, created_at FROM lab_rooms WHERE school_id = $1 ORDER BY id ASC`
	var labs []models.LabRoom
	if err := r.db.SelectContext(ctx, &labs, query, schoolID); err != nil {
		return nil, fmt.Errorf("list lab rooms: %w", err)
	}
	return labs, nil
}
