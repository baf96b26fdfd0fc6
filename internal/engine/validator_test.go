package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFeasibleSingleSubject(t *testing.T) {
	in := singleSubjectInput(8, 5, Teacher{ID: "T1", SubjectIDs: []string{"S1"}, MaxPeriodsPerWeek: 20})

	report := Validate(in)

	assert.True(t, report.Feasible)
	assert.Empty(t, report.Issues)
	assert.Equal(t, []DiagnosticType{ClassUnderCapacity}, diagnosticTypes(report.Warnings))
	assert.Equal(t, 35, report.Warnings[0].FreePeriodsPerSection)
	assert.Equal(t, 40, report.Summary.TotalWeekSlotsPerSection)
	assert.Equal(t, 1, report.Summary.WarningCount)
	assert.Equal(t, 5, report.Metrics.ClassWeeklyDemand["C1"])
	assert.Equal(t, 1, report.Metrics.ClassSections["C1"])
	assert.Equal(t, 5, report.Metrics.TeacherWeeklyDemand["T1"])
	assert.Equal(t, 20, report.Metrics.TeacherWeeklyCapacity["T1"])
}

func TestValidateConsecutiveBlockLongerThanDay(t *testing.T) {
	in := singleSubjectInput(3, 4, Teacher{ID: "T1", SubjectIDs: []string{"S1"}, MaxPeriodsPerWeek: 20})
	in.Mappings[0].RequiresConsecutive = true
	in.Mappings[0].ConsecutiveSize = 4

	report := Validate(in)

	assert.False(t, report.Feasible)
	types := diagnosticTypes(report.Issues)
	assert.Contains(t, types, ConsecutiveImpossible)
	assert.Contains(t, types, ConsecutiveNoFeasibleWindow)
	for _, issue := range report.Issues {
		if issue.Type == ConsecutiveImpossible {
			assert.Equal(t, 4, issue.ConsecutiveSize)
			assert.Equal(t, 3, issue.MaxDaySlots)
		}
	}
}

func TestValidateOverloadedSoleTeacher(t *testing.T) {
	in := Input{
		Classes:  []ClassGroup{{ID: "C1", Sections: []string{"A", "B"}}},
		Mappings: []ClassSubject{{ClassGroupID: "C1", SubjectID: "S1", PeriodsPerWeek: 5}},
		Teachers: []Teacher{{ID: "T1", SubjectIDs: []string{"S1"}, MaxPeriodsPerWeek: 2}},
		Config:   ScheduleConfig{PeriodsPerDay: 8},
	}

	report := Validate(in)

	assert.False(t, report.Feasible)
	assert.Equal(t, []DiagnosticType{
		TeacherOverloadUnavoidable,
		TeacherOverloadUnavoidable,
		TeacherOverload,
	}, diagnosticTypes(report.Issues))
	overload := report.Issues[2]
	assert.Equal(t, 10, overload.Demand)
	assert.Equal(t, 2, overload.Capacity)
	assert.Equal(t, 8, overload.Shortage)
}

func TestValidateLabPoolWithinCapacity(t *testing.T) {
	in := Input{
		Classes: []ClassGroup{{ID: "C1", Sections: []string{"A", "B", "C"}}},
		Mappings: []ClassSubject{{
			ClassGroupID: "C1", SubjectID: "CHEM", TeacherID: "T1", PeriodsPerWeek: 6, RoomType: RoomLab,
		}},
		Teachers: []Teacher{{ID: "T1", SubjectIDs: []string{"CHEM"}, MaxPeriodsPerWeek: 20}},
		Labs:     []LabRoom{{ID: "L1"}, {ID: "L2"}},
		Config:   ScheduleConfig{PeriodsPerDay: 8},
	}

	report := Validate(in)

	assert.True(t, report.Feasible)
	assert.Equal(t, 18, report.Metrics.TotalLabDemand)
	assert.Equal(t, 80, report.Metrics.TotalLabCapacity)
}

func TestValidateLabShortage(t *testing.T) {
	in := Input{
		Classes: []ClassGroup{{ID: "C1", Sections: []string{"A", "B"}}},
		Mappings: []ClassSubject{{
			ClassGroupID: "C1", SubjectID: "CHEM", PeriodsPerWeek: 6, RoomType: RoomLabroom,
		}},
		Teachers: []Teacher{
			{ID: "T1", SubjectIDs: []string{"CHEM"}},
			{ID: "T2", SubjectIDs: []string{"CHEM"}},
		},
		Config: ScheduleConfig{PeriodsPerDay: 1},
	}

	report := Validate(in)

	assert.False(t, report.Feasible)
	types := diagnosticTypes(report.Issues)
	assert.Contains(t, types, LabCapacityShortage)
	assert.Contains(t, types, ClassOverCapacity)
	assert.Contains(t, types, SchoolOverCapacity)
}

func TestValidateClassOverCapacity(t *testing.T) {
	in := singleSubjectInput(2, 12, Teacher{ID: "T1", SubjectIDs: []string{"S1"}, MaxPeriodsPerWeek: 20})

	report := Validate(in)

	require.False(t, report.Feasible)
	var found bool
	for _, issue := range report.Issues {
		if issue.Type == ClassOverCapacity {
			found = true
			assert.Equal(t, 12, issue.DemandPerSection)
			assert.Equal(t, 10, issue.AvailablePerSection)
			assert.Equal(t, 2, issue.Shortage)
		}
	}
	assert.True(t, found)
	assert.Contains(t, diagnosticTypes(report.Issues), TeacherAvailableSlotShortage)
}

func TestValidateNoFeasibleConsecutiveWindow(t *testing.T) {
	blocked := []int{1, 3}
	teacher := Teacher{
		ID:                "T1",
		SubjectIDs:        []string{"S1"},
		MaxPeriodsPerWeek: 20,
		Unavailable: Availability{
			Monday: blocked, Tuesday: blocked, Wednesday: blocked, Thursday: blocked, Friday: blocked,
		},
	}
	in := singleSubjectInput(4, 3, teacher)
	in.Mappings[0].RequiresConsecutive = true
	in.Mappings[0].ConsecutiveSize = 3

	report := Validate(in)

	assert.Equal(t, []DiagnosticType{ConsecutiveNoFeasibleWindow}, diagnosticTypes(report.Issues))
	assert.Equal(t, "T1", report.Issues[0].TeacherID)
}

func TestValidateAssemblyBreaksConsecutiveWindow(t *testing.T) {
	in := singleSubjectInput(3, 2, Teacher{ID: "T1", SubjectIDs: []string{"S1"}, MaxPeriodsPerWeek: 20})
	in.Config.MorningAssemblyPeriod = 1
	in.Mappings[0].RequiresConsecutive = true
	in.Mappings[0].ConsecutiveSize = 2

	report := Validate(in)

	types := diagnosticTypes(report.Issues)
	assert.Contains(t, types, ConsecutiveNoFeasibleWindow)
	assert.NotContains(t, types, ConsecutiveImpossible)
	assert.Equal(t, 2, report.Summary.PeriodsByDay[Monday])
	assert.Equal(t, 3, report.Summary.RawPeriodsByDay[Monday])
}

func TestValidateCountsReallocations(t *testing.T) {
	in := singleSubjectInput(8, 4, Teacher{ID: "T1", SubjectIDs: []string{"S1"}})
	in.Mappings[0].TeacherID = "GONE"

	report := Validate(in)

	assert.True(t, report.Feasible)
	assert.Equal(t, 1, report.AllocationSummary.ReallocatedCount)
}

func TestValidateIsIdempotent(t *testing.T) {
	in := Input{
		Classes: []ClassGroup{{ID: "C1", Sections: []string{"A", "B"}}, {ID: "C2"}},
		Mappings: []ClassSubject{
			{ClassGroupID: "C1", SubjectID: "S1", TeacherID: "T2", PeriodsPerWeek: 5},
			{ClassGroupID: "C2", SubjectID: "S2", PeriodsPerWeek: 4, RequiresConsecutive: true},
		},
		Teachers: []Teacher{
			{ID: "T1", SubjectIDs: []string{"S1", "S2"}, MaxPeriodsPerWeek: 6},
			{ID: "T2", SubjectIDs: []string{"S1"}, MaxPeriodsPerWeek: 4},
		},
		Labs:   []LabRoom{{ID: "L1"}},
		Config: ScheduleConfig{PeriodsPerDay: 6, HasMorningAssembly: true},
	}

	assert.Equal(t, Validate(in), Validate(in))
}
