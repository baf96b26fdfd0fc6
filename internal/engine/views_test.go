package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupSlotsOrdersByPeriod(t *testing.T) {
	grouped := GroupSlots([]Slot{
		{Day: Tuesday, Period: 3, SubjectID: "B"},
		{Day: Tuesday, Period: 1, SubjectID: "A"},
		{Day: Monday, Period: 0, SubjectID: "C"},
		{Day: "SUN", Period: 0, SubjectID: "D"},
	})

	for _, d := range DayOrder {
		_, ok := grouped[d]
		assert.True(t, ok, "missing %s", d)
	}
	require.Len(t, grouped[Tuesday], 2)
	assert.Equal(t, "A", grouped[Tuesday][0].SubjectID)
	assert.Equal(t, "B", grouped[Tuesday][1].SubjectID)
	assert.Empty(t, grouped[Saturday])
	assert.Len(t, grouped["SUN"], 1)
}

func TestComputeLoadStats(t *testing.T) {
	stats := ComputeLoadStats([]Slot{
		{TeacherID: "T1"}, {TeacherID: "T1"}, {TeacherID: "T1", LabRoomID: "L1"},
		{TeacherID: "T2"},
	})

	assert.Equal(t, 4, stats.SlotCount)
	assert.Equal(t, 1, stats.LabSlotCount)
	assert.Equal(t, 2, stats.TeacherCount)
	assert.InDelta(t, 2.0, stats.TeacherLoadMean, 1e-9)
	assert.InDelta(t, 1.0, stats.TeacherLoadStdDev, 1e-9)
	assert.Equal(t, 3, stats.TeacherLoadMax)

	assert.Equal(t, LoadStats{}, ComputeLoadStats(nil))
}
