package services

import (
	"context"
	"sort"
	"time"

	"github.com/Vamsichris04/finals-scheduler/internal/scheduling/domain"
)

// GreedySolver is the deterministic "autoAssignFinals" baseline (§4.5): for
// each day, it generates hour-aligned 2-4 hour candidate blocks, greedily
// keeps a non-overlapping subset, fills each with an eligible, fairness
// ordered worker pool, then runs balanceHours to top up under-target
// workers on spare Remote capacity. Its output seeds GA/SA initial
// populations and is itself a deliverable.
type GreedySolver struct{}

// NewGreedySolver constructs the baseline solver.
func NewGreedySolver() *GreedySolver { return &GreedySolver{} }

// Algorithm identifies this solver for run metadata.
func (s *GreedySolver) Algorithm() domain.Algorithm { return domain.Greedy }

type dayBlock struct {
	date  time.Time
	start int
	end   int // exclusive, hours
}

// Solve builds the baseline schedule. Greedy is purely deterministic: seed
// is not used, and a draw in the fairness ordering falls back to worker id,
// so reruns with the same input always produce the same output.
func (s *GreedySolver) Solve(ctx context.Context, env *Environment, seed int64, maxTime time.Duration) (Result, error) {
	start := time.Now()
	state := env.NewState()

	lastPicked := make(map[string]int)
	tick := 0

	for _, day := range operatingDays(env.Catalog()) {
		for _, blk := range greedyCandidateBlocks(day) {
			fillBlock(env, state, blk, domain.Window, lastPicked, &tick)
			fillBlock(env, state, blk, domain.Remote, lastPicked, &tick)
		}
	}

	balanceHours(env, state)

	penalty, breakdown := env.Evaluate(state)
	return Result{
		Algorithm: domain.Greedy,
		State:     state,
		Penalty:   penalty,
		Breakdown: breakdown,
		Converged: true,
		Runtime:   time.Since(start),
	}, nil
}

// operatingDays groups the catalog's slots by date and returns each day's
// overall hour span, in date order.
func operatingDays(catalog *domain.Catalog) []dayBlock {
	byDate := make(map[string]*dayBlock)
	var order []string

	for _, slot := range catalog.Slots() {
		key := slot.Date.Format("2006-01-02")
		d, ok := byDate[key]
		if !ok {
			d = &dayBlock{date: slot.Date, start: slot.StartHour, end: slot.StartHour + slot.DurationHours}
			byDate[key] = d
			order = append(order, key)
		}
		if slot.StartHour < d.start {
			d.start = slot.StartHour
		}
		if end := slot.StartHour + slot.DurationHours; end > d.end {
			d.end = end
		}
	}

	sort.Strings(order)
	days := make([]dayBlock, len(order))
	for i, key := range order {
		days[i] = *byDate[key]
	}
	return days
}

// greedyCandidateBlocks enumerates 2/3/4-hour hour-aligned blocks within a
// day's operating span and keeps a non-overlapping subset: sorted by start
// ascending then duration descending, a block is kept if its start is at or
// after the previous kept block's end.
func greedyCandidateBlocks(day dayBlock) []dayBlock {
	type candidate struct {
		start, duration int
	}
	var candidates []candidate
	for start := day.start; start < day.end; start++ {
		for _, duration := range []int{4, 3, 2} {
			if start+duration <= day.end {
				candidates = append(candidates, candidate{start: start, duration: duration})
			}
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].start != candidates[j].start {
			return candidates[i].start < candidates[j].start
		}
		return candidates[i].duration > candidates[j].duration
	})

	var kept []dayBlock
	cursor := day.start
	for _, c := range candidates {
		if c.start < cursor {
			continue
		}
		kept = append(kept, dayBlock{date: day.date, start: c.start, end: c.start + c.duration})
		cursor = c.start + c.duration
	}
	return kept
}

// fillBlock computes the eligible pool for one block+kind and assigns
// workers to every hourly catalog slot the block spans.
func fillBlock(env *Environment, state *domain.ScheduleState, blk dayBlock, kind domain.ShiftKind, lastPicked map[string]int, tick *int) {
	staffMin, staffMax := domain.WindowMin, domain.WindowMax
	if kind == domain.Remote {
		staffMin, staffMax = domain.RemoteMin, domain.RemoteMax
	}

	cfg := env.Config()
	pool := eligiblePool(env, state, blk, cfg.TargetHours)
	if len(pool) < staffMin {
		pool = eligiblePool(env, state, blk, cfg.MaxHours)
	}

	sortByFairness(pool, state, lastPicked, cfg.TargetHours)

	n := staffMax
	if len(pool) < n {
		n = len(pool)
	}
	picked := pool[:n]

	for _, w := range picked {
		lastPicked[w.ID] = *tick
		*tick++
	}

	assignBlockToWorkers(env, state, blk, kind, picked)
}

// eligiblePool returns active workers available for the block's whole span
// whose projected hours would not exceed capHours.
func eligiblePool(env *Environment, state *domain.ScheduleState, blk dayBlock, capHours int) []*domain.Worker {
	startMin := blk.start * 60
	endMin := blk.end * 60
	duration := blk.end - blk.start

	var out []*domain.Worker
	for _, w := range env.Roster().Active() {
		if !w.IsAvailable(blk.date, startMin, endMin) {
			continue
		}
		if state.Hours(w.ID)+duration > capHours {
			continue
		}
		out = append(out, w)
	}
	return out
}

// sortByFairness orders candidates: under-target first, then fewer hours so
// far, then less-recently-assigned (round-robin tie-break), then id for
// full determinism.
func sortByFairness(pool []*domain.Worker, state *domain.ScheduleState, lastPicked map[string]int, target int) {
	sort.Slice(pool, func(i, j int) bool {
		a, b := pool[i], pool[j]
		aUnder := state.Hours(a.ID) < target
		bUnder := state.Hours(b.ID) < target
		if aUnder != bUnder {
			return aUnder
		}
		if state.Hours(a.ID) != state.Hours(b.ID) {
			return state.Hours(a.ID) < state.Hours(b.ID)
		}
		aLast, aOK := lastPicked[a.ID]
		bLast, bOK := lastPicked[b.ID]
		if !aOK {
			aLast = -1
		}
		if !bOK {
			bLast = -1
		}
		if aLast != bLast {
			return aLast < bLast
		}
		return a.ID < b.ID
	})
}

// assignBlockToWorkers assigns every worker in workers to each hourly
// catalog slot matching (date, kind, hour) for hour in [blk.start, blk.end).
func assignBlockToWorkers(env *Environment, state *domain.ScheduleState, blk dayBlock, kind domain.ShiftKind, workers []*domain.Worker) {
	for _, slot := range env.Catalog().Slots() {
		if slot.ShiftKind != kind || !sameCalendarDate(slot.Date, blk.date) {
			continue
		}
		if slot.StartHour < blk.start || slot.StartHour >= blk.end {
			continue
		}
		for _, w := range workers {
			if !state.HasWorker(slot.SlotIndex, w.ID) {
				_ = state.Assign(slot.SlotIndex, w.ID)
			}
		}
	}
}

func sameCalendarDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// balanceHours tops up under-target workers by adding them to Remote slots
// with spare capacity where they are eligible and not already present,
// until they reach TargetHours or no more slots qualify. Idempotent: a
// worker already at or above target is skipped, and re-running after a
// prior balance pass finds no further eligible spare capacity to add.
func balanceHours(env *Environment, state *domain.ScheduleState) {
	target := env.Config().TargetHours

	active := make([]*domain.Worker, len(env.Roster().Active()))
	copy(active, env.Roster().Active())
	sort.Slice(active, func(i, j int) bool { return active[i].ID < active[j].ID })

	for _, w := range active {
		for state.Hours(w.ID) < target {
			slot, ok := spareRemoteSlot(env, state, w, target)
			if !ok {
				break
			}
			if err := state.Assign(slot.SlotIndex, w.ID); err != nil {
				break
			}
		}
	}
}

// spareRemoteSlot finds the earliest (by slot index) Remote slot with spare
// capacity where w is eligible, not already present, and assignment would
// not push w over target.
func spareRemoteSlot(env *Environment, state *domain.ScheduleState, w *domain.Worker, target int) (domain.TimeSlot, bool) {
	for _, slot := range env.Catalog().Slots() {
		if slot.ShiftKind != domain.Remote {
			continue
		}
		if state.Count(slot.SlotIndex) >= slot.StaffMax {
			continue
		}
		if state.HasWorker(slot.SlotIndex, w.ID) {
			continue
		}
		if !w.IsAvailable(slot.Date, slot.StartMinute(), slot.EndMinute()) {
			continue
		}
		if state.Hours(w.ID)+slot.DurationHours > target {
			continue
		}
		return slot, true
	}
	return domain.TimeSlot{}, false
}
