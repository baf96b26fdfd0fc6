package engine

import "sort"

// GroupSlots buckets slots by day, ordered by period. Every day in DayOrder is
// present even when empty; slots on other day keys are kept under their own key.
func GroupSlots(slots []Slot) map[Day][]Slot {
	out := make(map[Day][]Slot, len(DayOrder))
	for _, d := range DayOrder {
		out[d] = []Slot{}
	}
	for _, s := range slots {
		out[s.Day] = append(out[s.Day], s)
	}
	for day := range out {
		daySlots := out[day]
		sort.SliceStable(daySlots, func(i, j int) bool { return daySlots[i].Period < daySlots[j].Period })
	}
	return out
}
