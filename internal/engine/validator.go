package engine

import "fmt"

// Summary describes the grid and input sizes a report was computed against.
type Summary struct {
	IssueCount               int         `json:"issueCount"`
	WarningCount             int         `json:"warningCount"`
	Classes                  int         `json:"classes"`
	Mappings                 int         `json:"mappings"`
	Teachers                 int         `json:"teachers"`
	LabRooms                 int         `json:"labRooms"`
	Days                     []Day       `json:"days"`
	HasAssembly              bool        `json:"hasAssembly"`
	AssemblySlot             int         `json:"assemblySlot"`
	RawPeriodsByDay          map[Day]int `json:"rawPeriodsByDay"`
	PeriodsByDay             map[Day]int `json:"periodsByDay"`
	TotalWeekSlotsPerSection int         `json:"totalWeekSlotsPerSection"`
}

// AllocationSummary reports how far the allocator drifted from stored preferences.
type AllocationSummary struct {
	ReallocatedCount int `json:"reallocatedCount"`
}

// Metrics are the aggregate demand and supply figures behind the issues.
type Metrics struct {
	ClassSections         map[string]int `json:"classSections"`
	ClassWeeklyDemand     map[string]int `json:"classWeeklyDemand"`
	TeacherWeeklyDemand   map[string]int `json:"teacherWeeklyDemand"`
	TeacherWeeklyCapacity map[string]int `json:"teacherWeeklyCapacity"`
	TotalLabDemand        int            `json:"totalLabDemand"`
	TotalLabCapacity      int            `json:"totalLabCapacity"`
}

// Report is the feasibility verdict for a snapshot. Warnings never affect Feasible.
type Report struct {
	Feasible          bool              `json:"feasible"`
	Summary           Summary           `json:"summary"`
	AllocationSummary AllocationSummary `json:"allocationSummary"`
	Issues            []Diagnostic      `json:"issues"`
	Warnings          []Diagnostic      `json:"warnings"`
	Metrics           Metrics           `json:"metrics"`
}

// Validate allocates teachers and checks whether the resulting demand can fit
// the weekly grid, teacher capacity and lab pool.
func Validate(in Input) Report {
	report, _ := validate(in)
	return report
}

func validate(in Input) (Report, Allocation) {
	shape := NewShape(in.Config)
	alloc := Allocate(in)

	teacherByID := make(map[string]Teacher, len(in.Teachers))
	for _, t := range in.Teachers {
		if _, seen := teacherByID[t.ID]; !seen {
			teacherByID[t.ID] = t
		}
	}

	issues := append([]Diagnostic{}, alloc.Issues...)
	warnings := append([]Diagnostic{}, alloc.Warnings...)
	metrics := Metrics{
		ClassSections:         make(map[string]int, len(in.Classes)),
		ClassWeeklyDemand:     make(map[string]int, len(in.Classes)),
		TeacherWeeklyDemand:   make(map[string]int, len(in.Teachers)),
		TeacherWeeklyCapacity: make(map[string]int, len(in.Teachers)),
		TotalLabCapacity:      len(in.Labs) * shape.TotalWeekSlotsPerSection,
	}

	byClass := make(map[string][]Requirement, len(in.Classes))
	for _, r := range alloc.Requirements {
		byClass[r.ClassGroupID] = append(byClass[r.ClassGroupID], r)
	}

	available := shape.TotalWeekSlotsPerSection
	schoolDemand := 0
	sectionCount := 0

	for _, cls := range in.Classes {
		sections := len(cls.SectionIDs())
		sectionCount += sections
		metrics.ClassSections[cls.ID] = sections

		perSection := make(map[string]int)
		for _, r := range byClass[cls.ID] {
			perSection[r.SectionID] += r.PeriodsPerWeek
		}
		demand := 0
		for _, total := range perSection {
			if total > demand {
				demand = total
			}
		}
		metrics.ClassWeeklyDemand[cls.ID] = demand
		schoolDemand += demand * sections

		switch {
		case demand > available:
			issues = append(issues, Diagnostic{
				Type:                ClassOverCapacity,
				ClassGroupID:        cls.ID,
				ClassName:           cls.Name,
				DemandPerSection:    demand,
				AvailablePerSection: available,
				Shortage:            demand - available,
				Detail: fmt.Sprintf("Class %s requires %d periods/section but only %d slots are available.",
					cls.ID, demand, available),
			})
		case demand < available:
			warnings = append(warnings, Diagnostic{
				Type:                  ClassUnderCapacity,
				ClassGroupID:          cls.ID,
				ClassName:             cls.Name,
				DemandPerSection:      demand,
				AvailablePerSection:   available,
				FreePeriodsPerSection: available - demand,
				Detail:                fmt.Sprintf("Class %s has %d free periods/section.", cls.ID, available-demand),
			})
		}

		for _, r := range byClass[cls.ID] {
			switch _, known := teacherByID[r.TeacherID]; {
			case r.TeacherID == "":
				issues = append(issues, Diagnostic{
					Type:         UnassignedTeacher,
					ClassGroupID: cls.ID,
					SubjectID:    r.SubjectID,
					Detail:       fmt.Sprintf("No teacher assigned for %s subject %s.", cls.ID, r.SubjectID),
				})
			case !known:
				issues = append(issues, Diagnostic{
					Type:         InvalidTeacher,
					ClassGroupID: cls.ID,
					SubjectID:    r.SubjectID,
					TeacherID:    r.TeacherID,
					Detail: fmt.Sprintf("Teacher %s assigned to %s subject %s does not exist.",
						r.TeacherID, cls.ID, r.SubjectID),
				})
			default:
				metrics.TeacherWeeklyDemand[r.TeacherID] += r.PeriodsPerWeek
			}

			if r.RoomType.NeedsLab() {
				metrics.TotalLabDemand += r.PeriodsPerWeek
			}

			if r.RequiresConsecutive {
				if block := r.BlockSize(); block > shape.MaxDaySlots {
					issues = append(issues, Diagnostic{
						Type:            ConsecutiveImpossible,
						ClassGroupID:    cls.ID,
						SubjectID:       r.SubjectID,
						ConsecutiveSize: block,
						MaxDaySlots:     shape.MaxDaySlots,
						Detail: fmt.Sprintf("Consecutive size %d cannot fit in day max %d for %s subject %s.",
							block, shape.MaxDaySlots, cls.ID, r.SubjectID),
					})
				}
			}
		}
	}

	for _, t := range in.Teachers {
		capacity := alloc.TeacherCap[t.ID]
		demand := alloc.TeacherUsed[t.ID]
		if demand == 0 {
			demand = metrics.TeacherWeeklyDemand[t.ID]
		}
		metrics.TeacherWeeklyCapacity[t.ID] = capacity

		if demand > capacity {
			issues = append(issues, Diagnostic{
				Type:        TeacherOverload,
				TeacherID:   t.ID,
				TeacherName: t.Name,
				Demand:      demand,
				Capacity:    capacity,
				Shortage:    demand - capacity,
				Detail:      fmt.Sprintf("Teacher %s demand %d exceeds weekly capacity %d.", t.ID, demand, capacity),
			})
		}

		practical := PracticalCapacity(t, in.Config, shape.Days)
		if demand > practical {
			issues = append(issues, Diagnostic{
				Type:           TeacherAvailableSlotShortage,
				TeacherID:      t.ID,
				TeacherName:    t.Name,
				Demand:         demand,
				AvailableSlots: practical,
				Shortage:       demand - practical,
				Detail: fmt.Sprintf("Teacher %s demand %d exceeds practical available slots %d after unavailability/assembly.",
					t.ID, demand, practical),
			})
		}
	}

	if metrics.TotalLabDemand > metrics.TotalLabCapacity {
		issues = append(issues, Diagnostic{
			Type:     LabCapacityShortage,
			Demand:   metrics.TotalLabDemand,
			Capacity: metrics.TotalLabCapacity,
			Shortage: metrics.TotalLabDemand - metrics.TotalLabCapacity,
			LabRooms: len(in.Labs),
			Detail: fmt.Sprintf("Total LAB demand %d exceeds lab capacity %d.",
				metrics.TotalLabDemand, metrics.TotalLabCapacity),
		})
	}

	if schoolCapacity := sectionCount * available; schoolDemand > schoolCapacity {
		issues = append(issues, Diagnostic{
			Type:     SchoolOverCapacity,
			Demand:   schoolDemand,
			Capacity: schoolCapacity,
			Shortage: schoolDemand - schoolCapacity,
			Detail: fmt.Sprintf("Total school demand %d exceeds total section capacity %d.",
				schoolDemand, schoolCapacity),
		})
	}

	for _, cls := range in.Classes {
		for _, r := range byClass[cls.ID] {
			if !r.RequiresConsecutive {
				continue
			}
			t, ok := teacherByID[r.TeacherID]
			if r.TeacherID == "" || !ok {
				continue
			}
			block := r.BlockSize()
			if shape.hasWindow(t, block) {
				continue
			}
			issues = append(issues, Diagnostic{
				Type:            ConsecutiveNoFeasibleWindow,
				ClassGroupID:    cls.ID,
				SubjectID:       r.SubjectID,
				TeacherID:       r.TeacherID,
				ConsecutiveSize: block,
				Detail: fmt.Sprintf("No feasible consecutive window of size %d exists for teacher %s on any day.",
					block, r.TeacherID),
			})
		}
	}

	report := Report{
		Feasible: len(issues) == 0,
		Summary: Summary{
			IssueCount:               len(issues),
			WarningCount:             len(warnings),
			Classes:                  len(in.Classes),
			Mappings:                 len(in.Mappings),
			Teachers:                 len(in.Teachers),
			LabRooms:                 len(in.Labs),
			Days:                     shape.Days,
			HasAssembly:              shape.HasAssembly,
			AssemblySlot:             shape.AssemblySlot,
			RawPeriodsByDay:          shape.RawPeriodsByDay,
			PeriodsByDay:             shape.PeriodsByDay,
			TotalWeekSlotsPerSection: shape.TotalWeekSlotsPerSection,
		},
		AllocationSummary: AllocationSummary{
			ReallocatedCount: CountByType(warnings)[TeacherReallocated],
		},
		Issues:   issues,
		Warnings: warnings,
		Metrics:  metrics,
	}
	return report, alloc
}
