package models

import (
	"time"

	"github.com/noah-isme/sma-timetable-api/internal/engine"
)

// TimetableSlot is one persisted period of a generated timetable.
type TimetableSlot struct {
	ID           string    `db:"id" json:"id"`
	SchoolID     string    `db:"school_id" json:"school_id"`
	ClassGroupID string    `db:"class_group_id" json:"class_group_id"`
	SectionID    string    `db:"section_id" json:"section_id"`
	Day          string    `db:"day" json:"day"`
	Period       int       `db:"period" json:"period"`
	SubjectID    string    `db:"subject_id" json:"subject_id"`
	TeacherID    string    `db:"teacher_id" json:"teacher_id"`
	LabRoomID    string    `db:"lab_room_id" json:"lab_room_id"`
	RoomType     string    `db:"room_type" json:"room_type"`
	Locked       bool      `db:"locked" json:"locked"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// NewTimetableSlot builds a row for schoolID from an engine slot.
func NewTimetableSlot(schoolID string, s engine.Slot) TimetableSlot {
	return TimetableSlot{
		SchoolID:     schoolID,
		ClassGroupID: s.ClassGroupID,
		SectionID:    s.SectionID,
		Day:          string(s.Day),
		Period:       s.Period,
		SubjectID:    s.SubjectID,
		TeacherID:    s.TeacherID,
		LabRoomID:    s.LabRoomID,
		RoomType:     string(engine.ParseRoomType(string(s.RoomType))),
		Locked:       s.Locked,
	}
}

// ToEngine converts the row into the engine representation.
func (t TimetableSlot) ToEngine() engine.Slot {
	return engine.Slot{
		ClassGroupID: t.ClassGroupID,
		SectionID:    t.SectionID,
		Day:          engine.Day(t.Day),
		Period:       t.Period,
		SubjectID:    t.SubjectID,
		TeacherID:    t.TeacherID,
		LabRoomID:    t.LabRoomID,
		RoomType:     engine.ParseRoomType(t.RoomType),
		Locked:       t.Locked,
	}
}
