package domain

import (
	"sort"
	"time"
)

// Block is a contiguous run of same-kind, same-assignee-set slots: the unit
// reported to users. Blocks are derived once from a final ScheduleState.
type Block struct {
	Date      time.Time
	Start     time.Time
	End       time.Time
	ShiftKind ShiftKind
	Assignees []string
}

// DurationHours returns the block's length in hours.
func (b Block) DurationHours() float64 {
	return b.End.Sub(b.Start).Hours()
}

// DeriveBlocks coalesces contiguous same-assignee-set, same-kind slots into
// blocks, per the Schedule entity definition in §3. Slots are processed in
// (date, shift kind, start_hour) order; assignee-set equality is order-insensitive.
func DeriveBlocks(state *ScheduleState) []Block {
	catalog := state.Catalog()
	slots := catalog.Slots()

	ordered := make([]int, len(slots))
	for i := range ordered {
		ordered[i] = i
	}
	sort.Slice(ordered, func(i, j int) bool {
		a, b := slots[ordered[i]], slots[ordered[j]]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.ShiftKind != b.ShiftKind {
			return a.ShiftKind < b.ShiftKind
		}
		return a.StartHour < b.StartHour
	})

	var blocks []Block
	var current *Block
	var currentSlot TimeSlot

	flush := func() {
		if current != nil {
			blocks = append(blocks, *current)
			current = nil
		}
	}

	for _, idx := range ordered {
		slot := slots[idx]
		assignees := state.Assignees(idx)

		if current != nil &&
			sameDate(currentSlot.Date, slot.Date) &&
			currentSlot.ShiftKind == slot.ShiftKind &&
			currentSlot.StartHour+currentSlot.DurationHours == slot.StartHour &&
			sameAssigneeSet(current.Assignees, assignees) {
			current.End = current.End.Add(time.Duration(slot.DurationHours) * time.Hour)
			currentSlot = slot
			continue
		}

		flush()

		if len(assignees) == 0 {
			currentSlot = slot
			continue
		}

		start := dateAtHour(slot.Date, slot.StartHour)
		end := start.Add(time.Duration(slot.DurationHours) * time.Hour)
		sorted := make([]string, len(assignees))
		copy(sorted, assignees)
		sort.Strings(sorted)

		current = &Block{
			Date:      slot.Date,
			Start:     start,
			End:       end,
			ShiftKind: slot.ShiftKind,
			Assignees: sorted,
		}
		currentSlot = slot
	}
	flush()

	return blocks
}

func dateAtHour(date time.Time, hour int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), hour, 0, 0, 0, date.Location())
}

func sameAssigneeSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	sa := make(map[string]struct{}, len(a))
	for _, id := range a {
		sa[id] = struct{}{}
	}
	for _, id := range b {
		if _, ok := sa[id]; !ok {
			return false
		}
	}
	return true
}

// WorkerTotal summarizes one worker's assigned hours against their target.
type WorkerTotal struct {
	WorkerID string
	Name     string
	Hours    int
	Desired  int
}

// ComputeWorkerTotals returns per-worker hour totals for every active worker
// in roster, in roster order.
func ComputeWorkerTotals(state *ScheduleState, roster *Roster) []WorkerTotal {
	active := roster.Active()
	totals := make([]WorkerTotal, 0, len(active))
	for _, w := range active {
		totals = append(totals, WorkerTotal{
			WorkerID: w.ID,
			Name:     w.Name,
			Hours:    state.Hours(w.ID),
			Desired:  w.DesiredHours,
		})
	}
	return totals
}
