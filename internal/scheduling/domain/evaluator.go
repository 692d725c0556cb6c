package domain

import "sort"

// EvaluatorConfig holds the tunable weights and hour caps for the penalty
// function. Relative ordering (hard > soft) must be preserved: no soft
// improvement may mask a hard violation.
type EvaluatorConfig struct {
	CoverageUnderWeight     float64
	CoverageOverWeight      float64
	WorkerConflictWeight    float64
	CommuterViolationWeight float64
	HourOverWeight          float64
	HourUnderWeight         float64
	DesiredDeviationWeight  float64
	TierMismatchWeight      float64
	MorningOverloadWeight   float64
	FairnessVarianceWeight  float64
	ShiftLengthWeight       float64

	TargetHours int
	MaxHours    int
	MinHours    int

	MinShiftHours float64
	MaxShiftHours float64

	// MorningOverloadThreshold is the number of pre-09:00 shifts a worker may
	// have before morning_overload starts counting excess.
	MorningOverloadThreshold int
}

// DefaultEvaluatorConfig returns the suggested default weights from §4.4.
func DefaultEvaluatorConfig() EvaluatorConfig {
	return EvaluatorConfig{
		CoverageUnderWeight:      200,
		CoverageOverWeight:       50,
		WorkerConflictWeight:     500,
		CommuterViolationWeight:  300,
		HourOverWeight:           100,
		HourUnderWeight:          10,
		DesiredDeviationWeight:   2,
		TierMismatchWeight:       5,
		MorningOverloadWeight:    20,
		FairnessVarianceWeight:   1,
		ShiftLengthWeight:        20,
		TargetHours:              15,
		MaxHours:                 20,
		MinHours:                 14,
		MinShiftHours:            1.5,
		MaxShiftHours:            6,
		MorningOverloadThreshold: 2,
	}
}

// Breakdown reports the raw (unweighted) occurrence counts per violation
// category, used by both the weighted penalty sum and the validator report.
type Breakdown struct {
	CoverageUnder     int
	CoverageOver      int
	WorkerConflict    int
	CommuterViolation int
	HourOver          int
	HourUnder         int
	DesiredDeviation  int
	TierMismatch      int
	MorningOverload   int
	FairnessVariance  float64
	ShiftLength       int

	// UncoveredSlots lists the indices of slots with coverage_under > 0,
	// surfaced by the validator.
	UncoveredSlots []int
}

// Penalty computes the weighted sum for this breakdown under cfg.
func (b Breakdown) Penalty(cfg EvaluatorConfig) float64 {
	return float64(b.CoverageUnder)*cfg.CoverageUnderWeight +
		float64(b.CoverageOver)*cfg.CoverageOverWeight +
		float64(b.WorkerConflict)*cfg.WorkerConflictWeight +
		float64(b.CommuterViolation)*cfg.CommuterViolationWeight +
		float64(b.HourOver)*cfg.HourOverWeight +
		float64(b.HourUnder)*cfg.HourUnderWeight +
		float64(b.DesiredDeviation)*cfg.DesiredDeviationWeight +
		float64(b.TierMismatch)*cfg.TierMismatchWeight +
		float64(b.MorningOverload)*cfg.MorningOverloadWeight +
		b.FairnessVariance*cfg.FairnessVarianceWeight +
		float64(b.ShiftLength)*cfg.ShiftLengthWeight
}

// Evaluator is the sole source of truth for solution quality. It is shared
// read-only across solvers within a run.
type Evaluator struct {
	roster *Roster
	cfg    EvaluatorConfig
}

// NewEvaluator binds a roster and configuration to an Evaluator.
func NewEvaluator(roster *Roster, cfg EvaluatorConfig) *Evaluator {
	return &Evaluator{roster: roster, cfg: cfg}
}

// Config returns the evaluator's configuration.
func (e *Evaluator) Config() EvaluatorConfig { return e.cfg }

// Evaluate computes (penalty, breakdown) for state. penalty is non-negative;
// 0 means a perfect schedule.
func (e *Evaluator) Evaluate(state *ScheduleState) (float64, Breakdown) {
	var b Breakdown
	catalog := state.Catalog()

	preNoonCount := make(map[string]int)

	for idx, slot := range catalog.Slots() {
		assignees := state.Assignees(idx)
		count := len(assignees)

		if count < slot.StaffMin {
			b.CoverageUnder += slot.StaffMin - count
			b.UncoveredSlots = append(b.UncoveredSlots, idx)
		}
		if count > slot.StaffMax {
			b.CoverageOver += count - slot.StaffMax
		}

		for _, workerID := range assignees {
			w, ok := e.roster.ByID(workerID)
			if !ok {
				continue
			}

			if busyConflict(w, slot) {
				b.WorkerConflict++
			}

			if w.IsCommuter && slot.StartHour < 9 {
				b.CommuterViolation++
			}

			if tierMismatch(w.Tier, slot.ShiftKind) {
				b.TierMismatch++
			}

			if slot.StartHour < 9 {
				preNoonCount[workerID]++
			}
		}
	}

	for _, w := range e.roster.Active() {
		if count := preNoonCount[w.ID]; count > e.cfg.MorningOverloadThreshold {
			b.MorningOverload += count - e.cfg.MorningOverloadThreshold
		}
	}

	active := e.roster.Active()
	hours := make([]int, 0, len(active))
	for _, w := range active {
		h := state.Hours(w.ID)
		hours = append(hours, h)

		if h > e.cfg.MaxHours {
			b.HourOver += h - e.cfg.MaxHours
		}
		if h < e.cfg.MinHours {
			b.HourUnder += e.cfg.MinHours - h
		}
		dev := h - w.DesiredHours
		if dev < 0 {
			dev = -dev
		}
		b.DesiredDeviation += dev
	}

	b.FairnessVariance = variance(hours)
	b.ShiftLength = shiftLengthViolations(state, e.cfg)

	sort.Ints(b.UncoveredSlots)

	return b.Penalty(e.cfg), b
}

func busyConflict(w *Worker, slot TimeSlot) bool {
	for _, busy := range w.BusyIntervals {
		if busy.Conflicts(slot.Date, slot.StartMinute(), slot.EndMinute()) {
			return true
		}
	}
	return false
}

func tierMismatch(tier Tier, kind ShiftKind) bool {
	if kind == Window && tier.PrefersRemote() {
		return true
	}
	if kind == Remote && !tier.PrefersRemote() {
		return true
	}
	return false
}

func variance(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += float64(v)
	}
	mean := sum / float64(len(values))

	var sq float64
	for _, v := range values {
		d := float64(v) - mean
		sq += d * d
	}
	return sq / float64(len(values))
}

type workerRun struct {
	workerID string
	date     string
	kind     ShiftKind
	startHr  int
	hours    int
}

// shiftLengthViolations counts, per worker, contiguous same-kind runs on the
// same day whose coalesced length falls outside [MinShiftHours, MaxShiftHours].
func shiftLengthViolations(state *ScheduleState, cfg EvaluatorConfig) int {
	catalog := state.Catalog()
	slots := catalog.Slots()

	order := make([]int, len(slots))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		a, b := slots[order[i]], slots[order[j]]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.ShiftKind != b.ShiftKind {
			return a.ShiftKind < b.ShiftKind
		}
		return a.StartHour < b.StartHour
	})

	open := make(map[string]*workerRun)
	var runs []workerRun
	seenThisSlot := make(map[string]bool)

	closeMissing := func(dateKey string, kind ShiftKind) {
		for id, r := range open {
			if r.date == dateKey && r.kind == kind && !seenThisSlot[id] {
				runs = append(runs, *r)
				delete(open, id)
			}
		}
	}

	for _, idx := range order {
		slot := slots[idx]
		dateKey := slot.Date.Format("2006-01-02")
		for k := range seenThisSlot {
			delete(seenThisSlot, k)
		}

		for _, workerID := range state.Assignees(idx) {
			seenThisSlot[workerID] = true
			if r, ok := open[workerID]; ok && r.date == dateKey && r.kind == slot.ShiftKind && r.startHr+r.hours == slot.StartHour {
				r.hours += slot.DurationHours
				continue
			}
			if r, ok := open[workerID]; ok {
				runs = append(runs, *r)
			}
			open[workerID] = &workerRun{workerID: workerID, date: dateKey, kind: slot.ShiftKind, startHr: slot.StartHour, hours: slot.DurationHours}
		}

		closeMissing(dateKey, slot.ShiftKind)
	}
	for _, r := range open {
		runs = append(runs, *r)
	}

	violations := 0
	for _, r := range runs {
		h := float64(r.hours)
		if h < cfg.MinShiftHours || h > cfg.MaxShiftHours {
			violations++
		}
	}
	return violations
}
