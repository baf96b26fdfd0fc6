package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

const slotInsertBatchSize = 200

// TimetableSlotRepository persists generated timetables.
type TimetableSlotRepository struct {
	db *sqlx.DB
}

// NewTimetableSlotRepository builds repository.
func NewTimetableSlotRepository(db *sqlx.DB) *TimetableSlotRepository {
	return &TimetableSlotRepository{db: db}
}

func (r *TimetableSlotRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// ReplaceForSchool deletes every slot of the school and inserts slots in
// batches. Callers pass a transaction so readers never observe a partial timetable.
func (r *TimetableSlotRepository) ReplaceForSchool(ctx context.Context, exec sqlx.ExtContext, schoolID string, slots []models.TimetableSlot) error {
	target := r.exec(exec)
	if _, err := target.ExecContext(ctx, `DELETE FROM timetable_slots WHERE school_id = $1`, schoolID); err != nil {
		return fmt.Errorf("clear timetable slots: %w", err)
	}
	if len(slots) == 0 {
		return nil
	}

	const query = `
INSERT INTO timetable_slots (id, school_id, class_group_id, section_id, day, period, subject_id, teacher_id, lab_room_id, room_type, locked, created_at)
VALUES (:id, :school_id, :class_group_id, :section_id, :day, :period, :subject_id, :teacher_id, :lab_room_id, :room_type, :locked, :created_at)`

	now := time.Now().UTC()
	for i := range slots {
		slot := &slots[i]
		slot.SchoolID = schoolID
		if slot.ID == "" {
			slot.ID = uuid.NewString()
		}
		if slot.CreatedAt.IsZero() {
			slot.CreatedAt = now
		}
	}

	for start := 0; start < len(slots); start += slotInsertBatchSize {
		end := start + slotInsertBatchSize
		if end > len(slots) {
			end = len(slots)
		}
		if _, err := sqlx.NamedExecContext(ctx, target, query, slots[start:end]); err != nil {
			return fmt.Errorf("insert timetable slots: %w", err)
		}
	}
	return nil
}

// ListByClassSection returns the slots of one class section.
func (r *TimetableSlotRepository) ListByClassSection(ctx context.Context, schoolID, classID, sectionID string) ([]models.TimetableSlot, error) {
	const query = `SELECT id, school_id, class_group_id, section_id, day, period, subject_id, teacher_id, lab_room_id, room_type, locked, created_at
FROM timetable_slots WHERE school_id = $1 AND class_group_id = $2 AND section_id = $3 ORDER BY day ASC, period ASC`
	var slots []models.TimetableSlot
	if err := r.db.SelectContext(ctx, &slots, query, schoolID, classID, sectionID); err != nil {
		return nil, fmt.Errorf("list class timetable: %w", err)
	}
	return slots, nil
}

// ListByTeacher returns the slots taught by a teacher.
func (r *TimetableSlotRepository) ListByTeacher(ctx context.Context, schoolID, teacherID string) ([]models.TimetableSlot, error) {
	const query = `SELECT id, school_id, class_group_id, section_id, day, period, subject_id, teacher_id, lab_room_id, room_type, locked, created_at
FROM timetable_slots WHERE school_id = $1 AND teacher_id = $2 ORDER BY day ASC, period ASC`
	var slots []models.TimetableSlot
	if err := r.db.SelectContext(ctx, &slots, query, schoolID, teacherID); err != nil {
		return nil, fmt.Errorf("list teacher timetable: %w", err)
	}
	return slots, nil
}
