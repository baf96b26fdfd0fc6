package dto

import "github.com/noah-isme/sma-timetable-api/internal/engine"

// GenerateTimetableRequest tunes a single generation run. Both fields are optional.
type GenerateTimetableRequest struct {
	AutoMappings *bool `json:"autoMappings"`
	TimeLimitSec int   `json:"timeLimitSec" validate:"omitempty,min=1,max=600"`
}

// GenerateTimetableResponse is returned after a timetable is persisted.
type GenerateTimetableResponse struct {
	Message             string           `json:"message"`
	Solver              string           `json:"solver"`
	SlotCount           int              `json:"slotCount"`
	AutoMappingsCreated int              `json:"autoMappingsCreated"`
	Warnings            []string         `json:"warnings"`
	Stats               engine.LoadStats `json:"stats"`
}

// MappingResult reports class subject rows created by auto mapping.
type MappingResult struct {
	Created  []engine.ClassSubject `json:"created"`
	Warnings []string              `json:"warnings"`
}

// TimetableView groups the slots of a class section or teacher by day.
type TimetableView struct {
	Timetable map[engine.Day][]engine.Slot `json:"timetable"`
}
