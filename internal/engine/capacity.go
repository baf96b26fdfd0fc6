package engine

import "math"

var schedulingDays = []Day{Monday, Tuesday, Wednesday, Thursday, Friday}

// SchedulingDays returns the days generation places periods on. The set is
// fixed to Monday through Friday and does not follow the configured working days.
func SchedulingDays() []Day {
	return append([]Day(nil), schedulingDays...)
}

// DisplayDays returns the first workingDays entries of DayOrder, clamped to 1..6.
func DisplayDays(workingDays int) []Day {
	if workingDays <= 0 {
		workingDays = 5
	}
	if workingDays > len(DayOrder) {
		workingDays = len(DayOrder)
	}
	return append([]Day(nil), DayOrder[:workingDays]...)
}

// PeriodsForDay assigns periodsPerDay to each day, halving Saturday when requested.
func PeriodsForDay(days []Day, periodsPerDay int, saturdayHalfDay bool) map[Day]int {
	out := make(map[Day]int, len(days))
	for _, d := range days {
		out[d] = periodsPerDay
	}
	if _, ok := out[Saturday]; ok && saturdayHalfDay {
		half := int(math.Ceil(float64(periodsPerDay) / 2))
		if half < 1 {
			half = 1
		}
		out[Saturday] = half
	}
	return out
}

// IsEligible reports whether the teacher may teach subjectID to classID. The
// class allow-list only applies in strict mode; an empty list allows every class.
func IsEligible(t Teacher, classID, subjectID string, strict bool) bool {
	if !contains(t.SubjectIDs, subjectID) {
		return false
	}
	if !strict {
		return true
	}
	return len(t.ClassGroupIDs) == 0 || t.allowsClass(classID)
}

// PracticalCapacity counts the periods a teacher can actually be placed in
// across days once assembly and declared unavailability are removed.
func PracticalCapacity(t Teacher, cfg ScheduleConfig, days []Day) int {
	raw := PeriodsForDay(days, cfg.Periods(), false)
	assembly, hasAssembly := cfg.AssemblyPeriod()

	available := 0
	for _, day := range days {
		periods := raw[day]
		blocked := make(map[int]struct{}, len(t.Unavailable[day])+1)
		for _, p := range t.Unavailable[day] {
			if p >= 0 && p < periods {
				blocked[p] = struct{}{}
			}
		}
		if hasAssembly && assembly < periods {
			blocked[assembly] = struct{}{}
		}
		if free := periods - len(blocked); free > 0 {
			available += free
		}
	}
	return available
}

// EffectiveCapacity is the smaller of the configured weekly maximum and the practical capacity.
func EffectiveCapacity(t Teacher, cfg ScheduleConfig, days []Day) int {
	practical := PracticalCapacity(t, cfg, days)
	if limit := t.maxPeriods(); limit < practical {
		return limit
	}
	return practical
}

// Shape is the resolved period grid used for feasibility checks.
type Shape struct {
	Days                     []Day
	RawPeriodsByDay          map[Day]int
	PeriodsByDay             map[Day]int
	HasAssembly              bool
	AssemblySlot             int
	TotalWeekSlotsPerSection int
	MaxDaySlots              int
}

// NewShape resolves the scheduling grid for cfg. PeriodsByDay excludes the
// assembly period on days where it falls inside the raw range.
func NewShape(cfg ScheduleConfig) Shape {
	days := SchedulingDays()
	assembly, hasAssembly := cfg.AssemblyPeriod()
	shape := Shape{
		Days:            days,
		RawPeriodsByDay: PeriodsForDay(days, cfg.Periods(), false),
		PeriodsByDay:    make(map[Day]int, len(days)),
		HasAssembly:     hasAssembly,
		AssemblySlot:    assembly,
	}
	for i, day := range days {
		raw := shape.RawPeriodsByDay[day]
		if shape.blocksAssembly(raw) {
			raw--
		}
		if raw < 0 {
			raw = 0
		}
		shape.PeriodsByDay[day] = raw
		shape.TotalWeekSlotsPerSection += raw
		if i == 0 || raw > shape.MaxDaySlots {
			shape.MaxDaySlots = raw
		}
	}
	return shape
}

func (s Shape) blocksAssembly(rawPeriods int) bool {
	return s.HasAssembly && s.AssemblySlot >= 0 && s.AssemblySlot < rawPeriods
}

// hasWindow reports whether some day offers size contiguous periods that are
// free of assembly and the teacher's declared unavailability.
func (s Shape) hasWindow(t Teacher, size int) bool {
	for _, day := range s.Days {
		raw := s.RawPeriodsByDay[day]
		run := 0
		for p := 0; p < raw; p++ {
			if t.Unavailable.Blocks(day, p) || (s.blocksAssembly(raw) && p == s.AssemblySlot) {
				run = 0
				continue
			}
			run++
			if run >= size {
				return true
			}
		}
	}
	return false
}
