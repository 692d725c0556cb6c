package domain

import "time"

// Tier is a worker's seniority level. Tier 1-2 prefer Window shifts,
// Tier 3-4 prefer Remote shifts (soft preference only).
type Tier int

const (
	Tier1 Tier = 1
	Tier2 Tier = 2
	Tier3 Tier = 3
	Tier4 Tier = 4
)

// IsValid reports whether the tier is within the domain {1,2,3,4}.
func (t Tier) IsValid() bool {
	return t >= Tier1 && t <= Tier4
}

// PrefersRemote reports the soft preference used by tier_mismatch scoring.
func (t Tier) PrefersRemote() bool {
	return t == Tier3 || t == Tier4
}

// BusyInterval is an exam or other commitment that excludes a worker from
// overlapping slots. Minutes are minutes-from-midnight on Date.
type BusyInterval struct {
	Date         time.Time
	StartMinute  int
	EndMinute    int
}

// Conflicts reports whether the interval overlaps (date, start, end) per the
// half-open conflict predicate: same date and s0 < e1 && s1 > e0.
func (b BusyInterval) Conflicts(date time.Time, startMinute, endMinute int) bool {
	if !sameDate(b.Date, date) {
		return false
	}
	return b.StartMinute < endMinute && startMinute < b.EndMinute
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Worker is an input record from the roster. Worker records are immutable
// for the duration of a single optimization run.
type Worker struct {
	ID            string
	Name          string
	Email         string
	Tier          Tier
	IsCommuter    bool
	IsActive      bool
	DesiredHours  int
	BusyIntervals []BusyInterval
	// IsFloater is not present on the canonical worker schema; the source
	// material references it inconsistently in greedy logic. Defaults to
	// false and is otherwise unused by the evaluator.
	IsFloater bool
}

// NewWorker validates and constructs a Worker.
func NewWorker(id, name, email string, tier Tier, isCommuter, isActive bool, desiredHours int, busy []BusyInterval) (*Worker, error) {
	if !tier.IsValid() {
		return nil, ErrInvalidTier
	}
	if desiredHours < 10 || desiredHours > 20 {
		return nil, ErrInvalidDesiredHours
	}
	if err := validateNonOverlapping(busy); err != nil {
		return nil, err
	}

	sorted := make([]BusyInterval, len(busy))
	copy(sorted, busy)

	return &Worker{
		ID:            id,
		Name:          name,
		Email:         email,
		Tier:          tier,
		IsCommuter:    isCommuter,
		IsActive:      isActive,
		DesiredHours:  desiredHours,
		BusyIntervals: sorted,
	}, nil
}

func validateNonOverlapping(busy []BusyInterval) error {
	for i := 0; i < len(busy); i++ {
		for j := i + 1; j < len(busy); j++ {
			if busy[i].Conflicts(busy[j].Date, busy[j].StartMinute, busy[j].EndMinute) {
				return ErrOverlappingBusyInterval
			}
		}
	}
	return nil
}

// CommuterCutoffMinute is the minute-of-day before which commuters cannot start a shift (09:00).
const CommuterCutoffMinute = 9 * 60

// IsAvailable reports whether the worker can be assigned a slot running
// [startMinute, endMinute) on date: active, commuter cutoff, no busy conflict.
func (w *Worker) IsAvailable(date time.Time, startMinute, endMinute int) bool {
	if !w.IsActive {
		return false
	}
	if w.IsCommuter && startMinute < CommuterCutoffMinute {
		return false
	}
	for _, busy := range w.BusyIntervals {
		if busy.Conflicts(date, startMinute, endMinute) {
			return false
		}
	}
	return true
}

// Roster is an ordered collection of workers, keyed for deterministic iteration.
type Roster struct {
	workers []*Worker
	byID    map[string]*Worker
}

// NewRoster validates uniqueness of ids and builds a Roster.
func NewRoster(workers []*Worker) (*Roster, error) {
	byID := make(map[string]*Worker, len(workers))
	for _, w := range workers {
		if _, exists := byID[w.ID]; exists {
			return nil, ErrDuplicateWorkerID
		}
		byID[w.ID] = w
	}
	return &Roster{workers: workers, byID: byID}, nil
}

// All returns every worker in the order given to NewRoster.
func (r *Roster) All() []*Worker { return r.workers }

// Active returns active workers in the order given to NewRoster.
func (r *Roster) Active() []*Worker {
	active := make([]*Worker, 0, len(r.workers))
	for _, w := range r.workers {
		if w.IsActive {
			active = append(active, w)
		}
	}
	return active
}

// ByID looks up a worker by id.
func (r *Roster) ByID(id string) (*Worker, bool) {
	w, ok := r.byID[id]
	return w, ok
}

// Len returns the number of workers in the roster (active and inactive).
func (r *Roster) Len() int { return len(r.workers) }
