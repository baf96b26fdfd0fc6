package engine

import (
	"fmt"
	"regexp"
	"strconv"
)

// MappingPlan lists the class subject rows missing from a school and the
// warnings raised while planning them.
type MappingPlan struct {
	Create   []ClassSubject
	Warnings []string
}

// PlanMappings proposes a ClassSubject row for every (class, subject) pair not
// already mapped. A class with no subject list takes every subject. Teachers
// are picked among strict-eligible staff: the subject's default teacher first,
// otherwise whoever holds the fewest mappings so far.
func PlanMappings(classes []ClassGroup, subjects []Subject, teachers []Teacher, existing []ClassSubject) MappingPlan {
	plan := MappingPlan{Create: []ClassSubject{}, Warnings: []string{}}

	subjectByID := make(map[string]Subject, len(subjects))
	allSubjects := make([]string, 0, len(subjects))
	for _, s := range subjects {
		if _, seen := subjectByID[s.ID]; !seen {
			allSubjects = append(allSubjects, s.ID)
		}
		subjectByID[s.ID] = s
	}

	mapped := make(map[string]struct{}, len(existing))
	ids := make([]string, 0, len(existing))
	assigned := make(map[string]int)
	for _, m := range existing {
		mapped[mappingKey(m.ClassGroupID, m.SubjectID)] = struct{}{}
		ids = append(ids, m.ID)
		if m.TeacherID != "" {
			assigned[m.TeacherID]++
		}
	}

	for _, cls := range classes {
		wanted := cls.SubjectIDs
		if len(wanted) == 0 {
			wanted = allSubjects
		}

		for _, subjectID := range wanted {
			key := mappingKey(cls.ID, subjectID)
			if _, ok := mapped[key]; ok {
				continue
			}
			subject, ok := subjectByID[subjectID]
			if !ok {
				plan.Warnings = append(plan.Warnings, fmt.Sprintf("Class %s references unknown subject %s", cls.ID, subjectID))
				continue
			}

			teacherID := pickMappingTeacher(cls.ID, subject, teachers, assigned)
			id := NextID("CS", ids)
			ids = append(ids, id)

			periods := subject.PeriodsPerWeek
			if periods <= 0 {
				periods = defaultMappingPeriods
			}
			consecutive := subject.ConsecutiveSize
			if consecutive <= 0 {
				consecutive = defaultConsecutiveSize
			}
			plan.Create = append(plan.Create, ClassSubject{
				ID:                  id,
				ClassGroupID:        cls.ID,
				SubjectID:           subjectID,
				TeacherID:           teacherID,
				PeriodsPerWeek:      periods,
				RoomType:            ParseRoomType(string(subject.RoomType)),
				RequiresConsecutive: subject.RequiresConsecutive,
				ConsecutiveSize:     consecutive,
			})
			mapped[key] = struct{}{}

			if teacherID == "" {
				plan.Warnings = append(plan.Warnings, fmt.Sprintf("No teacher found for class %s, subject %s", cls.ID, subjectID))
			}
		}
	}
	return plan
}

func pickMappingTeacher(classID string, subject Subject, teachers []Teacher, assigned map[string]int) string {
	if subject.TeacherID != "" {
		for _, t := range teachers {
			if t.ID != subject.TeacherID {
				continue
			}
			if IsEligible(t, classID, subject.ID, true) {
				assigned[t.ID]++
				return t.ID
			}
			break
		}
	}

	chosen := ""
	best := 0
	for _, t := range teachers {
		if !IsEligible(t, classID, subject.ID, true) {
			continue
		}
		if chosen == "" || assigned[t.ID] < best {
			chosen, best = t.ID, assigned[t.ID]
		}
	}
	if chosen != "" {
		assigned[chosen]++
	}
	return chosen
}

var trailingDigits = regexp.MustCompile(`(\d+)$`)

// NextID returns prefix followed by one more than the largest numeric suffix in
// existing, zero padded to two digits.
func NextID(prefix string, existing []string) string {
	highest := 0
	for _, id := range existing {
		match := trailingDigits.FindStringSubmatch(id)
		if match == nil {
			continue
		}
		n, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		if n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("%s%02d", prefix, highest+1)
}

func mappingKey(classID, subjectID string) string {
	return classID + "::" + subjectID
}
