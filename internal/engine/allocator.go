package engine

import (
	"fmt"
	"sort"
)

// Allocation is the outcome of assigning teachers to every class section requirement.
type Allocation struct {
	Requirements []Requirement
	Issues       []Diagnostic
	Warnings     []Diagnostic
	TeacherUsed  map[string]int
	TeacherCap   map[string]int
}

// Allocate assigns a teacher to every (class, section, subject) requirement in
// a single greedy pass. Classes, mappings, sections and teachers are visited in
// input order so identical snapshots yield identical allocations.
func Allocate(in Input) Allocation {
	days := SchedulingDays()
	alloc := Allocation{
		Requirements: []Requirement{},
		Issues:       []Diagnostic{},
		Warnings:     []Diagnostic{},
		TeacherUsed:  make(map[string]int, len(in.Teachers)),
		TeacherCap:   make(map[string]int, len(in.Teachers)),
	}

	teacherByID := make(map[string]Teacher, len(in.Teachers))
	for _, t := range in.Teachers {
		if _, seen := teacherByID[t.ID]; seen {
			continue
		}
		teacherByID[t.ID] = t
		alloc.TeacherCap[t.ID] = EffectiveCapacity(t, in.Config, days)
		alloc.TeacherUsed[t.ID] = 0
	}

	mappingsByClass := make(map[string][]ClassSubject)
	for _, m := range in.Mappings {
		mappingsByClass[m.ClassGroupID] = append(mappingsByClass[m.ClassGroupID], m)
	}

	hasCapacity := func(t Teacher, weekly int) bool {
		return alloc.TeacherUsed[t.ID]+weekly <= alloc.TeacherCap[t.ID]
	}

	for _, cls := range in.Classes {
		for _, m := range mappingsByClass[cls.ID] {
			weekly := m.PeriodsPerWeek
			if weekly <= 0 {
				continue
			}

			eligible := make([]Teacher, 0, len(in.Teachers))
			for _, t := range in.Teachers {
				if IsEligible(t, cls.ID, m.SubjectID, false) {
					eligible = append(eligible, t)
				}
			}
			if len(eligible) == 0 {
				alloc.Issues = append(alloc.Issues, Diagnostic{
					Type:         NoEligibleTeacher,
					ClassGroupID: cls.ID,
					SubjectID:    m.SubjectID,
					Detail:       fmt.Sprintf("No eligible teacher found for %s subject %s.", cls.ID, m.SubjectID),
				})
				continue
			}

			for _, sectionID := range cls.SectionIDs() {
				var chosen *Teacher

				if preferred, ok := teacherByID[m.TeacherID]; ok && m.TeacherID != "" {
					if IsEligible(preferred, cls.ID, m.SubjectID, false) && hasCapacity(preferred, weekly) {
						chosen = &preferred
					}
				}

				if chosen == nil {
					candidates := make([]Teacher, 0, len(eligible))
					for _, t := range eligible {
						if hasCapacity(t, weekly) {
							candidates = append(candidates, t)
						}
					}
					sort.SliceStable(candidates, func(i, j int) bool {
						pi, pj := classPreference(candidates[i], cls.ID), classPreference(candidates[j], cls.ID)
						if pi != pj {
							return pi < pj
						}
						return alloc.TeacherUsed[candidates[i].ID] < alloc.TeacherUsed[candidates[j].ID]
					})
					if len(candidates) > 0 {
						chosen = &candidates[0]
					}
				}

				if chosen == nil {
					byLoad := append([]Teacher(nil), eligible...)
					sort.SliceStable(byLoad, func(i, j int) bool {
						return alloc.TeacherUsed[byLoad[i].ID] < alloc.TeacherUsed[byLoad[j].ID]
					})
					chosen = &byLoad[0]
					alloc.Issues = append(alloc.Issues, Diagnostic{
						Type:         TeacherOverloadUnavoidable,
						ClassGroupID: cls.ID,
						SectionID:    sectionID,
						SubjectID:    m.SubjectID,
						TeacherID:    chosen.ID,
						Detail: fmt.Sprintf("Insufficient teacher capacity for %s-%s subject %s; assigning %s exceeds capacity.",
							cls.ID, sectionID, m.SubjectID, chosen.ID),
					})
				}

				alloc.TeacherUsed[chosen.ID] += weekly

				if m.TeacherID != "" && m.TeacherID != chosen.ID {
					alloc.Warnings = append(alloc.Warnings, Diagnostic{
						Type:          TeacherReallocated,
						ClassGroupID:  cls.ID,
						SectionID:     sectionID,
						SubjectID:     m.SubjectID,
						FromTeacherID: m.TeacherID,
						ToTeacherID:   chosen.ID,
						Detail: fmt.Sprintf("Reallocated %s-%s %s from %s to %s.",
							cls.ID, sectionID, m.SubjectID, m.TeacherID, chosen.ID),
					})
				}

				consecutive := m.ConsecutiveSize
				if consecutive <= 0 {
					consecutive = defaultConsecutiveSize
				}
				alloc.Requirements = append(alloc.Requirements, Requirement{
					ClassGroupID:        cls.ID,
					SectionID:           sectionID,
					SubjectID:           m.SubjectID,
					TeacherID:           chosen.ID,
					PeriodsPerWeek:      weekly,
					RoomType:            ParseRoomType(string(m.RoomType)),
					RequiresConsecutive: m.RequiresConsecutive,
					ConsecutiveSize:     consecutive,
				})
			}
		}
	}

	return alloc
}

// classPreference ranks teachers explicitly allow-listed for the class first.
func classPreference(t Teacher, classID string) int {
	if t.allowsClass(classID) {
		return 0
	}
	return 1
}
