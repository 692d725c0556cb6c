package services

import (
	"sort"

	"github.com/Vamsichris04/finals-scheduler/internal/scheduling/domain"
)

// MoveKind names one of the shared neighborhood moves. GA mutation, GA
// repair, SA neighbor generation and CSP's phase-2 local search all draw
// from this same set, per §9's "nested-collection moves" design note.
type MoveKind int

const (
	MoveExtend MoveKind = iota
	MoveSwap
	MoveShrink
	MoveReassign
	MoveFillEmpty
)

// AllMoveKinds is the fixed, order-stable set of moves a solver chooses
// uniformly from.
var AllMoveKinds = []MoveKind{MoveExtend, MoveSwap, MoveShrink, MoveReassign, MoveFillEmpty}

// bestUnderHoursWorker picks, deterministically, the candidate furthest
// below its desired hours (ties broken by fewer current hours, then id).
// Shared by GA repair, the fill-empty move and CSP's constructive phase.
func bestUnderHoursWorker(state *domain.ScheduleState, candidates []*domain.Worker) *domain.Worker {
	if len(candidates) == 0 {
		return nil
	}
	sorted := make([]*domain.Worker, len(candidates))
	copy(sorted, candidates)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		aDev := a.DesiredHours - state.Hours(a.ID)
		bDev := b.DesiredHours - state.Hours(b.ID)
		if aDev != bDev {
			return aDev > bDev
		}
		ah, bh := state.Hours(a.ID), state.Hours(b.ID)
		if ah != bh {
			return ah < bh
		}
		return a.ID < b.ID
	})
	return sorted[0]
}

// fillSlot assigns eligible workers to a slot, preferring under-hours
// workers, until target occupants are reached, staff_max is hit, or
// candidates are exhausted. Returns the number of workers added.
func fillSlot(env *Environment, state *domain.ScheduleState, slot domain.TimeSlot, capHours, target int) int {
	if target > slot.StaffMax {
		target = slot.StaffMax
	}
	added := 0
	for state.Count(slot.SlotIndex) < target {
		candidates := env.EligibleForSlot(state, slot, capHours)
		if len(candidates) == 0 {
			break
		}
		pick := bestUnderHoursWorker(state, candidates)
		if pick == nil {
			break
		}
		if err := state.Assign(slot.SlotIndex, pick.ID); err != nil {
			break
		}
		added++
	}
	return added
}

// extendMove adds one eligible worker to a randomly chosen under-capacity
// slot. Returns true if a change was made. Returns ErrSlotAtCapacity when
// every slot in the catalog is already at staff_max, so no extension exists
// anywhere; an ordinary empty-candidate miss returns (false, nil).
func extendMove(env *Environment, state *domain.ScheduleState, rng *RNG) (bool, error) {
	slots := env.Catalog().Slots()
	order := rng.permutation(len(slots))
	capHours := env.Config().MaxHours

	roomFound := false
	for _, idx := range order {
		slot := slots[idx]
		if state.Count(idx) >= slot.StaffMax {
			continue
		}
		roomFound = true
		candidates := env.EligibleForSlot(state, slot, capHours)
		if len(candidates) == 0 {
			continue
		}
		pick := candidates[rng.Intn(len(candidates))]
		return state.Assign(idx, pick.ID) == nil, nil
	}
	if !roomFound {
		return false, domain.ErrSlotAtCapacity
	}
	return false, nil
}

// shrinkMove removes one assignee from a randomly chosen slot that would
// remain at or above staff_min after removal. Returns ErrSlotBelowMinimum
// when every slot in the catalog is already at staff_min, so no shrink
// exists anywhere; an ordinary empty-assignee miss returns (false, nil).
func shrinkMove(env *Environment, state *domain.ScheduleState, rng *RNG) (bool, error) {
	slots := env.Catalog().Slots()
	order := rng.permutation(len(slots))

	roomFound := false
	for _, idx := range order {
		slot := slots[idx]
		if state.Count(idx) <= slot.StaffMin {
			continue
		}
		roomFound = true
		assignees := state.Assignees(idx)
		if len(assignees) == 0 {
			continue
		}
		pick := assignees[rng.Intn(len(assignees))]
		return state.Unassign(idx, pick) == nil, nil
	}
	if !roomFound {
		return false, domain.ErrSlotBelowMinimum
	}
	return false, nil
}

// swapMove exchanges the full assignee sets of two slots that share day,
// kind and duration.
func swapMove(env *Environment, state *domain.ScheduleState, rng *RNG) bool {
	slots := env.Catalog().Slots()
	if len(slots) < 2 {
		return false
	}
	order := rng.permutation(len(slots))

	for _, i := range order {
		for _, j := range order {
			if i == j {
				continue
			}
			a, b := slots[i], slots[j]
			if !a.SameDayKindAndDuration(b) {
				continue
			}
			setA := append([]string(nil), state.Assignees(a.SlotIndex)...)
			setB := append([]string(nil), state.Assignees(b.SlotIndex)...)
			if sameSet(setA, setB) {
				continue
			}
			for _, id := range setA {
				_ = state.Unassign(a.SlotIndex, id)
			}
			for _, id := range setB {
				_ = state.Unassign(b.SlotIndex, id)
			}
			for _, id := range setB {
				_ = state.Assign(a.SlotIndex, id)
			}
			for _, id := range setA {
				_ = state.Assign(b.SlotIndex, id)
			}
			return true
		}
	}
	return false
}

// reassignMove replaces one assignee of a randomly chosen occupied slot
// with another eligible worker.
func reassignMove(env *Environment, state *domain.ScheduleState, rng *RNG) bool {
	slots := env.Catalog().Slots()
	order := rng.permutation(len(slots))
	capHours := env.Config().MaxHours

	for _, idx := range order {
		slot := slots[idx]
		assignees := state.Assignees(idx)
		if len(assignees) == 0 {
			continue
		}
		outgoing := assignees[rng.Intn(len(assignees))]

		candidates := env.EligibleForSlot(state, slot, capHours)
		if len(candidates) == 0 {
			continue
		}
		incoming := candidates[rng.Intn(len(candidates))]
		if incoming.ID == outgoing {
			continue
		}
		if err := state.Unassign(idx, outgoing); err != nil {
			continue
		}
		if err := state.Assign(idx, incoming.ID); err != nil {
			_ = state.Assign(idx, outgoing)
			continue
		}
		return true
	}
	return false
}

// fillEmptyMove populates a randomly chosen empty slot with up to staff_min
// eligible workers.
func fillEmptyMove(env *Environment, state *domain.ScheduleState, rng *RNG) bool {
	slots := env.Catalog().Slots()
	order := rng.permutation(len(slots))
	capHours := env.Config().MaxHours

	for _, idx := range order {
		slot := slots[idx]
		if state.Count(idx) != 0 {
			continue
		}
		if fillSlot(env, state, slot, capHours, slot.StaffMin) > 0 {
			return true
		}
	}
	return false
}

// ApplyMove dispatches to the named move, returning whether the state
// changed. The error return surfaces ErrSlotAtCapacity / ErrSlotBelowMinimum
// from extend/shrink when the whole catalog is pinned at that bound; callers
// that only care whether a neighbor was produced may discard it.
func ApplyMove(kind MoveKind, env *Environment, state *domain.ScheduleState, rng *RNG) (bool, error) {
	switch kind {
	case MoveExtend:
		return extendMove(env, state, rng)
	case MoveSwap:
		return swapMove(env, state, rng), nil
	case MoveShrink:
		return shrinkMove(env, state, rng)
	case MoveReassign:
		return reassignMove(env, state, rng), nil
	case MoveFillEmpty:
		return fillEmptyMove(env, state, rng), nil
	default:
		return false, nil
	}
}

// Repair removes assignees who have become unavailable (e.g. after
// crossover stitched together incompatible parents) and tops up any slot
// left under staff_min from eligible candidates. Grounded on §4.6's GA
// repair step; the GA applies it to every crossover child.
func Repair(env *Environment, state *domain.ScheduleState) {
	capHours := env.Config().MaxHours

	for _, slot := range env.Catalog().Slots() {
		for _, workerID := range append([]string(nil), state.Assignees(slot.SlotIndex)...) {
			w, ok := env.Roster().ByID(workerID)
			if !ok || !w.IsAvailable(slot.Date, slot.StartMinute(), slot.EndMinute()) {
				_ = state.Unassign(slot.SlotIndex, workerID)
			}
		}
	}

	for _, slot := range env.Catalog().Slots() {
		fillSlot(env, state, slot, capHours, slot.StaffMin)
	}
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]struct{}, len(a))
	for _, id := range a {
		seen[id] = struct{}{}
	}
	for _, id := range b {
		if _, ok := seen[id]; !ok {
			return false
		}
	}
	return true
}

// permutation returns a random permutation of [0, n) drawn from g.
func (g *RNG) permutation(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	g.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
