package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"

	"github.com/noah-isme/sma-timetable-api/internal/engine"
)

// Teacher represents an instructor together with scheduling constraints.
type Teacher struct {
	ID                  string         `db:"id" json:"id"`
	SchoolID            string         `db:"school_id" json:"school_id"`
	FullName            string         `db:"full_name" json:"full_name"`
	SubjectIDs          pq.StringArray `db:"subject_ids" json:"subject_ids"`
	ClassGroupIDs       pq.StringArray `db:"class_group_ids" json:"class_group_ids"`
	Level               *string        `db:"level" json:"level,omitempty"`
	MaxPeriodsPerWeek   int            `db:"max_periods_per_week" json:"max_periods_per_week"`
	Unavailable         types.JSONText `db:"unavailable" json:"unavailable"`
	PreferredOffPeriods pq.Int64Array  `db:"preferred_off_periods" json:"preferred_off_periods"`
	CreatedAt           time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time      `db:"updated_at" json:"updated_at"`
}

// ToEngine converts the row into the engine representation. A zero weekly
// maximum is replaced by defaultMax.
func (t Teacher) ToEngine(defaultMax int) (engine.Teacher, error) {
	unavailable := engine.Availability{}
	if len(t.Unavailable) > 0 && string(t.Unavailable) != "null" {
		if err := json.Unmarshal(t.Unavailable, &unavailable); err != nil {
			return engine.Teacher{}, fmt.Errorf("decode unavailability for teacher %s: %w", t.ID, err)
		}
	}

	maxPeriods := t.MaxPeriodsPerWeek
	if maxPeriods <= 0 {
		maxPeriods = defaultMax
	}

	off := make([]int, 0, len(t.PreferredOffPeriods))
	for _, p := range t.PreferredOffPeriods {
		off = append(off, int(p))
	}

	return engine.Teacher{
		ID:                  t.ID,
		Name:                t.FullName,
		SubjectIDs:          []string(t.SubjectIDs),
		ClassGroupIDs:       []string(t.ClassGroupIDs),
		Level:               deref(t.Level),
		MaxPeriodsPerWeek:   maxPeriods,
		Unavailable:         unavailable,
		PreferredOffPeriods: off,
	}, nil
}
