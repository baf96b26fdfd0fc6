package engine

import "sort"

// ClassSections lists the sections of one class in a solver problem.
type ClassSections struct {
	ID       string   `json:"id"`
	Sections []string `json:"sections"`
}

// TeacherCapacity is the per-teacher capacity and availability a solver honours.
type TeacherCapacity struct {
	ID                string       `json:"id"`
	MaxPeriodsPerWeek int          `json:"maxPeriodsPerWeek"`
	Unavailable       Availability `json:"unavailable"`
}

// Problem is the placement input shared by the heuristic and external solvers.
type Problem struct {
	Days         []Day             `json:"days"`
	PeriodsByDay map[Day]int       `json:"periodsByDay"`
	HasAssembly  bool              `json:"hasAssembly"`
	AssemblySlot int               `json:"assemblySlot"`
	Classes      []ClassSections   `json:"classes"`
	Requirements []Requirement     `json:"requirements"`
	Teachers     []TeacherCapacity `json:"teachers"`
	LabIDs       []string          `json:"labIds"`
	TimeLimitSec int               `json:"timeLimitSec"`
}

// Unscheduled records the periods of a requirement the heuristic could not place.
type Unscheduled struct {
	ClassGroupID string `json:"classGroupId"`
	SectionID    string `json:"sectionId"`
	SubjectID    string `json:"subjectId"`
	TeacherID    string `json:"teacherId"`
	Remaining    int    `json:"remaining"`
}

// Outcome is the result of a heuristic run.
type Outcome struct {
	OK          bool
	Slots       []Slot
	Unscheduled []Unscheduled
}

// Schedule places every requirement on the weekly grid greedily without
// backtracking. Larger blocks go first; each block takes the first start that
// keeps the section, teacher and lab pool free.
func Schedule(p Problem) Outcome {
	a := newArena(p)

	ordered := append([]Requirement(nil), p.Requirements...)
	sort.SliceStable(ordered, func(i, j int) bool {
		bi, bj := ordered[i].BlockSize(), ordered[j].BlockSize()
		if bi != bj {
			return bi > bj
		}
		return ordered[i].PeriodsPerWeek > ordered[j].PeriodsPerWeek
	})

	out := Outcome{Slots: []Slot{}, Unscheduled: []Unscheduled{}}
	for _, req := range ordered {
		remaining := req.PeriodsPerWeek
		block := req.BlockSize()
		perDay := make([]int, len(a.days))

		for remaining > 0 {
			size := block
			if remaining < size {
				size = 1
			}
			placed, ok := a.placeBlock(req, size, perDay)
			if !ok {
				break
			}
			out.Slots = append(out.Slots, placed...)
			remaining -= size
		}

		if remaining > 0 {
			out.Unscheduled = append(out.Unscheduled, Unscheduled{
				ClassGroupID: req.ClassGroupID,
				SectionID:    req.SectionID,
				SubjectID:    req.SubjectID,
				TeacherID:    req.TeacherID,
				Remaining:    remaining,
			})
		}
	}

	out.OK = len(out.Unscheduled) == 0
	return out
}

// arena holds the occupancy grids of a single run. Sections, teachers and labs
// are interned to dense ids; every grid is indexed by day*width+period.
type arena struct {
	days     []Day
	periods  []int
	width    int
	assembly int

	sectionIDs  map[string]int
	sectionBusy [][]bool

	teacherIDs     map[string]int
	teacherBusy    [][]bool
	teacherBlocked [][]bool
	teacherLoad    []int
	teacherCap     []int

	labs    []string
	labBusy [][]bool
}

func newArena(p Problem) *arena {
	a := &arena{
		days:       p.Days,
		periods:    make([]int, len(p.Days)),
		assembly:   -1,
		sectionIDs: make(map[string]int),
		teacherIDs: make(map[string]int, len(p.Teachers)),
		labs:       p.LabIDs,
	}
	for i, day := range p.Days {
		a.periods[i] = p.PeriodsByDay[day]
		if a.periods[i] > a.width {
			a.width = a.periods[i]
		}
	}
	if p.HasAssembly && p.AssemblySlot >= 0 {
		a.assembly = p.AssemblySlot
	}
	for _, t := range p.Teachers {
		if _, seen := a.teacherIDs[t.ID]; seen {
			continue
		}
		idx := a.teacher(t.ID)
		a.teacherCap[idx] = t.MaxPeriodsPerWeek
		for d, day := range a.days {
			for _, period := range t.Unavailable[day] {
				if period >= 0 && period < a.width {
					a.teacherBlocked[idx][d*a.width+period] = true
				}
			}
		}
	}
	a.labBusy = make([][]bool, len(a.labs))
	for i := range a.labBusy {
		a.labBusy[i] = a.grid()
	}
	return a
}

func (a *arena) grid() []bool {
	return make([]bool, len(a.days)*a.width)
}

func (a *arena) section(classID, sectionID string) int {
	key := classID + "\x00" + sectionID
	if idx, ok := a.sectionIDs[key]; ok {
		return idx
	}
	idx := len(a.sectionBusy)
	a.sectionIDs[key] = idx
	a.sectionBusy = append(a.sectionBusy, a.grid())
	return idx
}

// teacher interns id; teachers missing from the problem get zero capacity.
func (a *arena) teacher(id string) int {
	if idx, ok := a.teacherIDs[id]; ok {
		return idx
	}
	idx := len(a.teacherBusy)
	a.teacherIDs[id] = idx
	a.teacherBusy = append(a.teacherBusy, a.grid())
	a.teacherBlocked = append(a.teacherBlocked, a.grid())
	a.teacherLoad = append(a.teacherLoad, 0)
	a.teacherCap = append(a.teacherCap, 0)
	return idx
}

func (a *arena) freeLab(cell int) int {
	for i := range a.labs {
		if !a.labBusy[i][cell] {
			return i
		}
	}
	return -1
}

// placeBlock commits the first feasible run of size periods. Days are tried
// in fixed order, but days already holding fewer periods of the requirement
// come first so its periods spread across the week.
func (a *arena) placeBlock(req Requirement, size int, perDay []int) ([]Slot, bool) {
	sec := a.section(req.ClassGroupID, req.SectionID)
	tch := a.teacher(req.TeacherID)
	if a.teacherLoad[tch]+size > a.teacherCap[tch] {
		return nil, false
	}
	needsLab := req.RoomType.NeedsLab()
	labs := make([]int, size)

	order := make([]int, len(a.days))
	for d := range order {
		order[d] = d
	}
	sort.SliceStable(order, func(i, j int) bool { return perDay[order[i]] < perDay[order[j]] })

	for _, d := range order {
		for start := 0; start+size <= a.periods[d]; start++ {
			if !a.fits(d, start, size, sec, tch, needsLab, labs) {
				continue
			}
			perDay[d] += size
			return a.commit(req, d, start, size, sec, tch, labs), true
		}
	}
	return nil, false
}

func (a *arena) fits(d, start, size, sec, tch int, needsLab bool, labs []int) bool {
	for i := 0; i < size; i++ {
		period := start + i
		cell := d*a.width + period
		if period == a.assembly {
			return false
		}
		if a.sectionBusy[sec][cell] || a.teacherBusy[tch][cell] || a.teacherBlocked[tch][cell] {
			return false
		}
		labs[i] = -1
		if needsLab {
			if labs[i] = a.freeLab(cell); labs[i] < 0 {
				return false
			}
		}
	}
	return true
}

func (a *arena) commit(req Requirement, d, start, size, sec, tch int, labs []int) []Slot {
	slots := make([]Slot, 0, size)
	for i := 0; i < size; i++ {
		period := start + i
		cell := d*a.width + period
		a.sectionBusy[sec][cell] = true
		a.teacherBusy[tch][cell] = true

		labID := ""
		if labs[i] >= 0 {
			a.labBusy[labs[i]][cell] = true
			labID = a.labs[labs[i]]
		}
		slots = append(slots, Slot{
			ClassGroupID: req.ClassGroupID,
			SectionID:    req.SectionID,
			Day:          a.days[d],
			Period:       period,
			SubjectID:    req.SubjectID,
			TeacherID:    req.TeacherID,
			LabRoomID:    labID,
			RoomType:     ParseRoomType(string(req.RoomType)),
		})
	}
	a.teacherLoad[tch] += size
	return slots
}
