package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// SchoolSettingRepository reads per-school timetable settings.
type SchoolSettingRepository struct {
	db *sqlx.DB
}

// NewSchoolSettingRepository constructs the repository.
func NewSchoolSettingRepository(db *sqlx.DB) *SchoolSettingRepository {
	return &SchoolSettingRepository{db: db}
}

// FindBySchool returns the settings row. sql.ErrNoRows is wrapped when the school has none.
func (r *SchoolSettingRepository) FindBySchool(ctx context.Context, schoolID string) (*models.SchoolSetting, error) {
	const query = `SELECT school_id, period_duration, periods_per_day, working_days, working_day_names, start_time,
has_morning_assembly, morning_assembly_period, saturday_half_day, updated_at
FROM school_settings WHERE school_id = $1`
	var setting models.SchoolSetting
	if err := r.db.GetContext(ctx, &setting, query, schoolID); err != nil {
		return nil, fmt.Errorf("find school settings: %w", err)
	}
	return &setting, nil
}
