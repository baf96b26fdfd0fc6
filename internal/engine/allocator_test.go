package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocateKeepsPreferredTeacher(t *testing.T) {
	in := singleSubjectInput(8, 5, Teacher{ID: "T1", SubjectIDs: []string{"S1"}, MaxPeriodsPerWeek: 20})
	in.Teachers = append(in.Teachers, Teacher{ID: "T0", SubjectIDs: []string{"S1"}, MaxPeriodsPerWeek: 20})

	alloc := Allocate(in)

	require.Len(t, alloc.Requirements, 1)
	assert.Equal(t, "T1", alloc.Requirements[0].TeacherID)
	assert.Equal(t, RoomClassroom, alloc.Requirements[0].RoomType)
	assert.Equal(t, 2, alloc.Requirements[0].ConsecutiveSize)
	assert.Empty(t, alloc.Issues)
	assert.Empty(t, alloc.Warnings)
	assert.Equal(t, 5, alloc.TeacherUsed["T1"])
	assert.Equal(t, 20, alloc.TeacherCap["T1"])
}

func TestAllocateReallocatesWhenPreferredTeacherIsFull(t *testing.T) {
	in := Input{
		Classes: []ClassGroup{{ID: "C1", Sections: []string{"A", "B"}}},
		Mappings: []ClassSubject{{
			ClassGroupID: "C1", SubjectID: "S1", TeacherID: "T1", PeriodsPerWeek: 3,
		}},
		Teachers: []Teacher{
			{ID: "T1", SubjectIDs: []string{"S1"}, MaxPeriodsPerWeek: 4},
			{ID: "T2", SubjectIDs: []string{"S1"}, MaxPeriodsPerWeek: 20},
		},
	}

	alloc := Allocate(in)

	require.Len(t, alloc.Requirements, 2)
	assert.Equal(t, "T1", alloc.Requirements[0].TeacherID)
	assert.Equal(t, "T2", alloc.Requirements[1].TeacherID)
	require.Len(t, alloc.Warnings, 1)
	warning := alloc.Warnings[0]
	assert.Equal(t, TeacherReallocated, warning.Type)
	assert.Equal(t, "B", warning.SectionID)
	assert.Equal(t, "T1", warning.FromTeacherID)
	assert.Equal(t, "T2", warning.ToTeacherID)
	assert.Empty(t, alloc.Issues)
}

func TestAllocatePrefersClassAllowListThenLoad(t *testing.T) {
	in := Input{
		Classes: []ClassGroup{{ID: "C1"}},
		Mappings: []ClassSubject{
			{ClassGroupID: "C1", SubjectID: "S1", PeriodsPerWeek: 2},
			{ClassGroupID: "C1", SubjectID: "S2", PeriodsPerWeek: 2},
		},
		Teachers: []Teacher{
			{ID: "T1", SubjectIDs: []string{"S1", "S2"}},
			{ID: "T2", SubjectIDs: []string{"S1"}, ClassGroupIDs: []string{"C1"}},
			{ID: "T3", SubjectIDs: []string{"S2"}},
		},
	}

	alloc := Allocate(in)

	require.Len(t, alloc.Requirements, 2)
	assert.Equal(t, "A", alloc.Requirements[0].SectionID)
	assert.Equal(t, "T2", alloc.Requirements[0].TeacherID, "allow-listed teacher wins")
	assert.Equal(t, "T1", alloc.Requirements[1].TeacherID, "equal load keeps input order")
	assert.Empty(t, alloc.Warnings, "mappings without a teacher never warn")
}

func TestAllocateNoEligibleTeacherSkipsMapping(t *testing.T) {
	in := singleSubjectInput(8, 4, Teacher{ID: "T1", SubjectIDs: []string{"OTHER"}})

	alloc := Allocate(in)

	assert.Empty(t, alloc.Requirements)
	require.Len(t, alloc.Issues, 1)
	assert.Equal(t, NoEligibleTeacher, alloc.Issues[0].Type)
	assert.Equal(t, "C1", alloc.Issues[0].ClassGroupID)
	assert.Equal(t, "S1", alloc.Issues[0].SubjectID)
}

func TestAllocateUnavoidableOverload(t *testing.T) {
	in := Input{
		Classes:  []ClassGroup{{ID: "C1", Sections: []string{"A", "B"}}},
		Mappings: []ClassSubject{{ClassGroupID: "C1", SubjectID: "S1", PeriodsPerWeek: 5}},
		Teachers: []Teacher{{ID: "T1", SubjectIDs: []string{"S1"}, MaxPeriodsPerWeek: 2}},
	}

	alloc := Allocate(in)

	require.Len(t, alloc.Requirements, 2)
	assert.Equal(t, []DiagnosticType{TeacherOverloadUnavoidable, TeacherOverloadUnavoidable}, diagnosticTypes(alloc.Issues))
	assert.Equal(t, "A", alloc.Issues[0].SectionID)
	assert.Equal(t, "B", alloc.Issues[1].SectionID)
	assert.Equal(t, 10, alloc.TeacherUsed["T1"])
	assert.Equal(t, 2, alloc.TeacherCap["T1"])
}

func TestAllocateSkipsZeroLoadMappings(t *testing.T) {
	in := singleSubjectInput(8, 0, Teacher{ID: "T1", SubjectIDs: []string{"S1"}})

	alloc := Allocate(in)

	assert.Empty(t, alloc.Requirements)
	assert.Empty(t, alloc.Issues)
}

func TestAllocateIsDeterministic(t *testing.T) {
	in := Input{
		Classes: []ClassGroup{{ID: "C1", Sections: []string{"A", "B", "C"}}, {ID: "C2"}},
		Mappings: []ClassSubject{
			{ClassGroupID: "C1", SubjectID: "S1", PeriodsPerWeek: 4},
			{ClassGroupID: "C2", SubjectID: "S1", PeriodsPerWeek: 4},
			{ClassGroupID: "C1", SubjectID: "S2", PeriodsPerWeek: 6, RoomType: "lab"},
		},
		Teachers: []Teacher{
			{ID: "T1", SubjectIDs: []string{"S1", "S2"}, MaxPeriodsPerWeek: 10},
			{ID: "T2", SubjectIDs: []string{"S1"}, MaxPeriodsPerWeek: 10},
			{ID: "T3", SubjectIDs: []string{"S2"}, MaxPeriodsPerWeek: 12},
		},
	}

	assert.Equal(t, Allocate(in), Allocate(in))
}
