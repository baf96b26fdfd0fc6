package engine

import "strings"

// Day identifies a weekday column of the timetable grid.
type Day string

// Weekdays known to the grid, in display order.
const (
	Monday    Day = "MON"
	Tuesday   Day = "TUE"
	Wednesday Day = "WED"
	Thursday  Day = "THU"
	Friday    Day = "FRI"
	Saturday  Day = "SAT"
)

// DayOrder lists every day a slot can be grouped under.
var DayOrder = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// RoomType tags the kind of room a subject is taught in.
type RoomType string

// Supported room types.
const (
	RoomClassroom RoomType = "CLASSROOM"
	RoomLab       RoomType = "LAB"
	RoomLabroom   RoomType = "LABROOM"
	RoomSpecial   RoomType = "SPECIAL_ROOM"
)

// ParseRoomType normalises a stored room type, defaulting to CLASSROOM.
func ParseRoomType(raw string) RoomType {
	switch RoomType(strings.ToUpper(strings.TrimSpace(raw))) {
	case RoomLab:
		return RoomLab
	case RoomLabroom:
		return RoomLabroom
	case RoomSpecial:
		return RoomSpecial
	default:
		return RoomClassroom
	}
}

// NeedsLab reports whether the room type draws from the shared lab pool.
func (r RoomType) NeedsLab() bool {
	normalized := ParseRoomType(string(r))
	return normalized == RoomLab || normalized == RoomLabroom
}

const (
	defaultSection           = "A"
	defaultPeriodsPerDay     = 8
	defaultMaxPeriodsPerWeek = 20
	defaultConsecutiveSize   = 2
	defaultMappingPeriods    = 4
)

// ClassGroup is a grade or cohort split into one or more sections.
type ClassGroup struct {
	ID         string   `json:"id"`
	Name       string   `json:"name,omitempty"`
	Sections   []string `json:"sections"`
	SubjectIDs []string `json:"subjectIds,omitempty"`
}

// SectionIDs returns the class sections, falling back to a single "A" section.
func (c ClassGroup) SectionIDs() []string {
	if len(c.Sections) == 0 {
		return []string{defaultSection}
	}
	return c.Sections
}

// Subject is the template used when class subject rows are created.
type Subject struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name,omitempty"`
	PeriodsPerWeek      int      `json:"periodsPerWeek"`
	RoomType            RoomType `json:"roomType"`
	RequiresConsecutive bool     `json:"requiresConsecutive"`
	ConsecutiveSize     int      `json:"consecutiveSize"`
	TeacherID           string   `json:"teacherId,omitempty"`
}

// ClassSubject maps a subject onto a class with its weekly load and an advisory teacher.
type ClassSubject struct {
	ID                  string   `json:"id"`
	ClassGroupID        string   `json:"classGroupId"`
	SubjectID           string   `json:"subjectId"`
	TeacherID           string   `json:"teacherId"`
	PeriodsPerWeek      int      `json:"periodsPerWeek"`
	RoomType            RoomType `json:"roomType"`
	RequiresConsecutive bool     `json:"requiresConsecutive"`
	ConsecutiveSize     int      `json:"consecutiveSize"`
}

// Availability maps a day to the period indexes a teacher cannot take.
type Availability map[Day][]int

// Blocks reports whether the period is declared unavailable on day.
func (a Availability) Blocks(day Day, period int) bool {
	for _, p := range a[day] {
		if p == period {
			return true
		}
	}
	return false
}

// Teacher carries the eligibility and capacity inputs for a staff member.
type Teacher struct {
	ID                  string       `json:"id"`
	Name                string       `json:"name,omitempty"`
	SubjectIDs          []string     `json:"subjectIds"`
	ClassGroupIDs       []string     `json:"classGroupIds"`
	Level               string       `json:"level,omitempty"`
	MaxPeriodsPerWeek   int          `json:"maxPeriodsPerWeek"`
	Unavailable         Availability `json:"unavailable"`
	PreferredOffPeriods []int        `json:"preferredOffPeriods,omitempty"`
}

func (t Teacher) maxPeriods() int {
	if t.MaxPeriodsPerWeek <= 0 {
		return defaultMaxPeriodsPerWeek
	}
	return t.MaxPeriodsPerWeek
}

func (t Teacher) allowsClass(classID string) bool {
	return contains(t.ClassGroupIDs, classID)
}

// LabRoom is an interchangeable lab in the school's pool.
type LabRoom struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	Capacity int    `json:"capacity,omitempty"`
}

// ScheduleConfig drives the shape of the period grid.
type ScheduleConfig struct {
	PeriodsPerDay         int  `json:"periodsPerDay"`
	WorkingDays           int  `json:"workingDays"`
	HasMorningAssembly    bool `json:"hasMorningAssembly"`
	MorningAssemblyPeriod int  `json:"morningAssemblyPeriod"`
	SaturdayHalfDay       bool `json:"saturdayHalfDay"`
}

// Periods returns the configured periods per day or the default of 8.
func (c ScheduleConfig) Periods() int {
	if c.PeriodsPerDay <= 0 {
		return defaultPeriodsPerDay
	}
	return c.PeriodsPerDay
}

// AssemblyPeriod returns the 0-based assembly period and whether assembly is in effect.
func (c ScheduleConfig) AssemblyPeriod() (int, bool) {
	slot := c.MorningAssemblyPeriod
	if slot < 0 {
		return -1, false
	}
	return slot, c.HasMorningAssembly || slot > 0
}

// Requirement is one (class, section, subject) teaching obligation.
type Requirement struct {
	ClassGroupID        string   `json:"classGroupId"`
	SectionID           string   `json:"sectionId"`
	SubjectID           string   `json:"subjectId"`
	TeacherID           string   `json:"teacherId"`
	PeriodsPerWeek      int      `json:"periodsPerWeek"`
	RoomType            RoomType `json:"roomType"`
	RequiresConsecutive bool     `json:"requiresConsecutive"`
	ConsecutiveSize     int      `json:"consecutiveSize"`
}

// BlockSize is the number of contiguous periods a single placement must cover.
func (r Requirement) BlockSize() int {
	if !r.RequiresConsecutive {
		return 1
	}
	return consecutiveBlock(r.ConsecutiveSize)
}

func consecutiveBlock(size int) int {
	if size < 2 {
		return 2
	}
	return size
}

// Slot is one scheduled (day, period) for a class section.
type Slot struct {
	ClassGroupID string   `json:"classGroupId"`
	SectionID    string   `json:"sectionId"`
	Day          Day      `json:"day"`
	Period       int      `json:"period"`
	SubjectID    string   `json:"subjectId"`
	TeacherID    string   `json:"teacherId"`
	LabRoomID    string   `json:"labRoomId"`
	RoomType     RoomType `json:"roomType"`
	Locked       bool     `json:"locked"`
}

// Input is the snapshot of school data the engine computes over.
type Input struct {
	Classes  []ClassGroup   `json:"classes"`
	Mappings []ClassSubject `json:"mappings"`
	Teachers []Teacher      `json:"teachers"`
	Labs     []LabRoom      `json:"labs"`
	Config   ScheduleConfig `json:"settings"`
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
