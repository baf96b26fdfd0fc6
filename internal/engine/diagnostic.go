package engine

// DiagnosticType is the machine readable tag of an issue or warning.
type DiagnosticType string

// Allocation diagnostics.
const (
	NoEligibleTeacher          DiagnosticType = "NO_ELIGIBLE_TEACHER"
	TeacherOverloadUnavoidable DiagnosticType = "TEACHER_OVERLOAD_UNAVOIDABLE"
	TeacherReallocated         DiagnosticType = "TEACHER_REALLOCATED"
)

// Feasibility diagnostics.
const (
	ClassOverCapacity            DiagnosticType = "CLASS_OVER_CAPACITY"
	ClassUnderCapacity           DiagnosticType = "CLASS_UNDER_CAPACITY"
	UnassignedTeacher            DiagnosticType = "UNASSIGNED_TEACHER"
	InvalidTeacher               DiagnosticType = "INVALID_TEACHER"
	ConsecutiveImpossible        DiagnosticType = "CONSECUTIVE_IMPOSSIBLE"
	ConsecutiveNoFeasibleWindow  DiagnosticType = "CONSECUTIVE_NO_FEASIBLE_WINDOW"
	TeacherOverload              DiagnosticType = "TEACHER_OVERLOAD"
	TeacherAvailableSlotShortage DiagnosticType = "TEACHER_AVAILABLE_SLOT_SHORTAGE"
	LabCapacityShortage          DiagnosticType = "LAB_CAPACITY_SHORTAGE"
	SchoolOverCapacity           DiagnosticType = "SCHOOL_OVER_CAPACITY"
)

// Diagnostic describes an issue (blocking) or a warning (informational).
// Only the fields relevant to the type are populated.
type Diagnostic struct {
	Type                  DiagnosticType `json:"type"`
	ClassGroupID          string         `json:"classGroupId,omitempty"`
	ClassName             string         `json:"className,omitempty"`
	SectionID             string         `json:"sectionId,omitempty"`
	SubjectID             string         `json:"subjectId,omitempty"`
	TeacherID             string         `json:"teacherId,omitempty"`
	TeacherName           string         `json:"teacherName,omitempty"`
	FromTeacherID         string         `json:"fromTeacherId,omitempty"`
	ToTeacherID           string         `json:"toTeacherId,omitempty"`
	Demand                int            `json:"demand,omitempty"`
	Capacity              int            `json:"capacity,omitempty"`
	Shortage              int            `json:"shortage,omitempty"`
	DemandPerSection      int            `json:"demandPerSection,omitempty"`
	AvailablePerSection   int            `json:"availablePerSection,omitempty"`
	FreePeriodsPerSection int            `json:"freePeriodsPerSection,omitempty"`
	AvailableSlots        int            `json:"availableSlots,omitempty"`
	ConsecutiveSize       int            `json:"consecutiveSize,omitempty"`
	MaxDaySlots           int            `json:"maxDaySlots,omitempty"`
	LabRooms              int            `json:"labRooms,omitempty"`
	Detail                string         `json:"detail"`
}

// CountByType tallies diagnostics per type tag.
func CountByType(items []Diagnostic) map[DiagnosticType]int {
	out := make(map[DiagnosticType]int, len(items))
	for _, item := range items {
		out[item.Type]++
	}
	return out
}
