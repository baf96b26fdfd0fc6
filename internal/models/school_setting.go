package models

import (
	"time"

	"github.com/lib/pq"

	"github.com/noah-isme/sma-timetable-api/internal/engine"
)

// SchoolSetting holds the per-school timetable shape.
type SchoolSetting struct {
	SchoolID              string         `db:"school_id" json:"school_id"`
	PeriodDuration        int            `db:"period_duration" json:"period_duration"`
	PeriodsPerDay         int            `db:"periods_per_day" json:"periods_per_day"`
	WorkingDays           int            `db:"working_days" json:"working_days"`
	WorkingDayNames       pq.StringArray `db:"working_day_names" json:"working_day_names"`
	StartTime             string         `db:"start_time" json:"start_time"`
	HasMorningAssembly    bool           `db:"has_morning_assembly" json:"has_morning_assembly"`
	MorningAssemblyPeriod int            `db:"morning_assembly_period" json:"morning_assembly_period"`
	SaturdayHalfDay       bool           `db:"saturday_half_day" json:"saturday_half_day"`
	UpdatedAt             time.Time      `db:"updated_at" json:"updated_at"`
}

// DefaultSchoolSetting is used when a school has not saved any settings yet.
func DefaultSchoolSetting(schoolID string, periodsPerDay int) SchoolSetting {
	if periodsPerDay <= 0 {
		periodsPerDay = 8
	}
	return SchoolSetting{
		SchoolID:        schoolID,
		PeriodDuration:  45,
		PeriodsPerDay:   periodsPerDay,
		WorkingDays:     5,
		WorkingDayNames: pq.StringArray{"MON", "TUE", "WED", "THU", "FRI"},
		StartTime:       "08:00",
	}
}

// ToEngine converts the row into the engine schedule configuration.
func (s SchoolSetting) ToEngine() engine.ScheduleConfig {
	return engine.ScheduleConfig{
		PeriodsPerDay:         s.PeriodsPerDay,
		WorkingDays:           s.WorkingDays,
		HasMorningAssembly:    s.HasMorningAssembly,
		MorningAssemblyPeriod: s.MorningAssemblyPeriod,
		SaturdayHalfDay:       s.SaturdayHalfDay,
	}
}
