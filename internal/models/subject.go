package models

import (
	"time"

	"github.com/noah-isme/sma-timetable-api/internal/engine"
)

// Subject represents an academic subject and its scheduling defaults.
type Subject struct {
	ID                  string    `db:"id" json:"id"`
	SchoolID            string    `db:"school_id" json:"school_id"`
	Name                string    `db:"name" json:"name"`
	PeriodsPerWeek      int       `db:"periods_per_week" json:"periods_per_week"`
	RoomType            string    `db:"room_type" json:"room_type"`
	RequiresConsecutive bool      `db:"requires_consecutive" json:"requires_consecutive"`
	ConsecutiveSize     int       `db:"consecutive_size" json:"consecutive_size"`
	TeacherID           *string   `db:"teacher_id" json:"teacher_id,omitempty"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time `db:"updated_at" json:"updated_at"`
}

// ToEngine converts the row into the engine representation.
func (s Subject) ToEngine() engine.Subject {
	return engine.Subject{
		ID:                  s.ID,
		Name:                s.Name,
		PeriodsPerWeek:      s.PeriodsPerWeek,
		RoomType:            engine.ParseRoomType(s.RoomType),
		RequiresConsecutive: s.RequiresConsecutive,
		ConsecutiveSize:     s.ConsecutiveSize,
		TeacherID:           deref(s.TeacherID),
	}
}
