package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func singleSubjectInput(periodsPerDay, periodsPerWeek int, teacher Teacher) Input {
	return Input{
		Classes: []ClassGroup{{ID: "C1", Name: "Grade 1", Sections: []string{"A"}}},
		Mappings: []ClassSubject{{
			ID: "CS01", ClassGroupID: "C1", SubjectID: "S1", TeacherID: teacher.ID, PeriodsPerWeek: periodsPerWeek,
		}},
		Teachers: []Teacher{teacher},
		Config:   ScheduleConfig{PeriodsPerDay: periodsPerDay, WorkingDays: 5},
	}
}

func diagnosticTypes(items []Diagnostic) []DiagnosticType {
	out := make([]DiagnosticType, 0, len(items))
	for _, item := range items {
		out = append(out, item.Type)
	}
	return out
}

// assertNoDoubleBooking checks the section, teacher and lab uniqueness of slots.
func assertNoDoubleBooking(t *testing.T, slots []Slot) {
	t.Helper()
	sections := make(map[string]struct{})
	teachers := make(map[string]struct{})
	labs := make(map[string]struct{})
	for _, s := range slots {
		sectionKey := fmt.Sprintf("%s|%s|%s|%d", s.ClassGroupID, s.SectionID, s.Day, s.Period)
		_, dup := sections[sectionKey]
		assert.False(t, dup, "section double booked at %s", sectionKey)
		sections[sectionKey] = struct{}{}

		teacherKey := fmt.Sprintf("%s|%s|%d", s.TeacherID, s.Day, s.Period)
		_, dup = teachers[teacherKey]
		assert.False(t, dup, "teacher double booked at %s", teacherKey)
		teachers[teacherKey] = struct{}{}

		if s.LabRoomID != "" {
			labKey := fmt.Sprintf("%s|%s|%d", s.LabRoomID, s.Day, s.Period)
			_, dup = labs[labKey]
			assert.False(t, dup, "lab double booked at %s", labKey)
			labs[labKey] = struct{}{}
		}
	}
}

// assertConservation checks that placed plus unscheduled periods match each requirement.
func assertConservation(t *testing.T, reqs []Requirement, out Outcome) {
	t.Helper()
	key := func(classID, sectionID, subjectID string) string {
		return classID + "|" + sectionID + "|" + subjectID
	}
	got := make(map[string]int)
	for _, s := range out.Slots {
		got[key(s.ClassGroupID, s.SectionID, s.SubjectID)]++
	}
	for _, u := range out.Unscheduled {
		got[key(u.ClassGroupID, u.SectionID, u.SubjectID)] += u.Remaining
	}
	want := make(map[string]int)
	for _, r := range reqs {
		want[key(r.ClassGroupID, r.SectionID, r.SubjectID)] += r.PeriodsPerWeek
	}
	assert.Equal(t, want, got)
}
