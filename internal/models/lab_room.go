package models

import (
	"time"

	"github.com/noah-isme/sma-timetable-api/internal/engine"
)

// LabRoom is a shared laboratory in a school's lab pool.
type LabRoom struct {
	ID        string    `db:"id" json:"id"`
	SchoolID  string    `db:"school_id" json:"school_id"`
	Name      string    `db:"name" json:"name"`
	Capacity  int       `db:"capacity" json:"capacity"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ToEngine converts the row into the engine representation.
func (l LabRoom) ToEngine() engine.LabRoom {
	return engine.LabRoom{ID: l.ID, Name: l.Name, Capacity: l.Capacity}
}
