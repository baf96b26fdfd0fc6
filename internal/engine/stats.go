package engine

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// LoadStats summarises how evenly a timetable spreads periods across teachers.
type LoadStats struct {
	SlotCount         int     `json:"slotCount"`
	LabSlotCount      int     `json:"labSlotCount"`
	TeacherCount      int     `json:"teacherCount"`
	TeacherLoadMean   float64 `json:"teacherLoadMean"`
	TeacherLoadStdDev float64 `json:"teacherLoadStdDev"`
	TeacherLoadMax    int     `json:"teacherLoadMax"`
}

// ComputeLoadStats derives load statistics from per-teacher slot counts.
// The standard deviation is the population deviation.
func ComputeLoadStats(slots []Slot) LoadStats {
	stats := LoadStats{SlotCount: len(slots)}
	loads := make(map[string]float64)
	for _, s := range slots {
		if s.LabRoomID != "" {
			stats.LabSlotCount++
		}
		if s.TeacherID != "" {
			loads[s.TeacherID]++
		}
	}
	if len(loads) == 0 {
		return stats
	}

	ids := make([]string, 0, len(loads))
	for id := range loads {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	values := make([]float64, len(ids))
	for i, id := range ids {
		values[i] = loads[id]
	}

	stats.TeacherCount = len(values)
	stats.TeacherLoadMean, stats.TeacherLoadStdDev = stat.PopMeanStdDev(values, nil)
	stats.TeacherLoadMax = int(floats.Max(values))
	return stats
}
