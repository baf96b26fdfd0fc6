package models

import (
	"time"

	"github.com/lib/pq"

	"github.com/noah-isme/sma-timetable-api/internal/engine"
)

// ClassGroup represents a class and the sections it is split into.
type ClassGroup struct {
	ID         string         `db:"id" json:"id"`
	SchoolID   string         `db:"school_id" json:"school_id"`
	Name       string         `db:"name" json:"name"`
	Sections   pq.StringArray `db:"sections" json:"sections"`
	SubjectIDs pq.StringArray `db:"subject_ids" json:"subject_ids"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at" json:"updated_at"`
}

// ToEngine converts the row into the engine representation.
func (c ClassGroup) ToEngine() engine.ClassGroup {
	return engine.ClassGroup{
		ID:         c.ID,
		Name:       c.Name,
		Sections:   []string(c.Sections),
		SubjectIDs: []string(c.SubjectIDs),
	}
}

// ClassSubject maps a subject onto a class with its weekly load and optional teacher.
type ClassSubject struct {
	ID                  string    `db:"id" json:"id"`
	SchoolID            string    `db:"school_id" json:"school_id"`
	ClassGroupID        string    `db:"class_group_id" json:"class_group_id"`
	SubjectID           string    `db:"subject_id" json:"subject_id"`
	TeacherID           *string   `db:"teacher_id" json:"teacher_id,omitempty"`
	PeriodsPerWeek      int       `db:"periods_per_week" json:"periods_per_week"`
	RoomType            string    `db:"room_type" json:"room_type"`
	RequiresConsecutive bool      `db:"requires_consecutive" json:"requires_consecutive"`
	ConsecutiveSize     int       `db:"consecutive_size" json:"consecutive_size"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
}

// ToEngine converts the row into the engine representation.
func (m ClassSubject) ToEngine() engine.ClassSubject {
	return engine.ClassSubject{
		ID:                  m.ID,
		ClassGroupID:        m.ClassGroupID,
		SubjectID:           m.SubjectID,
		TeacherID:           deref(m.TeacherID),
		PeriodsPerWeek:      m.PeriodsPerWeek,
		RoomType:            engine.ParseRoomType(m.RoomType),
		RequiresConsecutive: m.RequiresConsecutive,
		ConsecutiveSize:     m.ConsecutiveSize,
	}
}

// NewClassSubject builds a row for schoolID from an engine mapping.
func NewClassSubject(schoolID string, m engine.ClassSubject) ClassSubject {
	return ClassSubject{
		ID:                  m.ID,
		SchoolID:            schoolID,
		ClassGroupID:        m.ClassGroupID,
		SubjectID:           m.SubjectID,
		TeacherID:           optional(m.TeacherID),
		PeriodsPerWeek:      m.PeriodsPerWeek,
		RoomType:            string(m.RoomType),
		RequiresConsecutive: m.RequiresConsecutive,
		ConsecutiveSize:     m.ConsecutiveSize,
	}
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
