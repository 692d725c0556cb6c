package domain

import "errors"

var (
	// ErrInvalidTier is returned when a worker's tier is outside {1,2,3,4}.
	ErrInvalidTier = errors.New("worker tier must be between 1 and 4")
	// ErrInvalidDesiredHours is returned when desired_hours falls outside [10, 20].
	ErrInvalidDesiredHours = errors.New("desired hours must be between 10 and 20")
	// ErrDuplicateWorkerID is returned when two workers in a roster share an id.
	ErrDuplicateWorkerID = errors.New("duplicate worker id in roster")
	// ErrOverlappingBusyInterval is returned when a worker's busy intervals overlap.
	ErrOverlappingBusyInterval = errors.New("worker busy intervals overlap")
	// ErrEmptyActiveRoster is returned when no active worker remains after filtering.
	ErrEmptyActiveRoster = errors.New("no active workers in roster")

	// ErrInvalidTimeRange is returned when a slot or interval has end <= start.
	ErrInvalidTimeRange = errors.New("end must be after start")
	// ErrDuplicateSlot is returned when two slots share (date, start_hour, shift_kind).
	ErrDuplicateSlot = errors.New("duplicate slot for date, start hour and shift kind")
	// ErrInvalidStaffingBounds is returned when staff_min > staff_max.
	ErrInvalidStaffingBounds = errors.New("staff_min must not exceed staff_max")
	// ErrEmptyOperatingWindow is returned when an operating window has zero length.
	ErrEmptyOperatingWindow = errors.New("operating window has zero length")

	// ErrSlotIndexOutOfRange is returned when a move references an unknown slot.
	ErrSlotIndexOutOfRange = errors.New("slot index out of range")
	// ErrWorkerNotAssigned is returned when a move tries to remove a worker who is not assigned.
	ErrWorkerNotAssigned = errors.New("worker is not assigned to slot")
	// ErrWorkerAlreadyAssigned is returned when a move tries to add a worker already present.
	ErrWorkerAlreadyAssigned = errors.New("worker is already assigned to slot")
	// ErrSlotAtCapacity is returned when an extend move finds every slot
	// already at staff_max, so no extension exists anywhere in the catalog.
	ErrSlotAtCapacity = errors.New("slot is at maximum staffing")
	// ErrSlotBelowMinimum is returned when a shrink move finds every slot
	// already at staff_min, so no shrink exists anywhere in the catalog.
	ErrSlotBelowMinimum = errors.New("slot would drop below minimum staffing")

	// ErrUnknownWeekType is returned when a catalog is requested for an unrecognized week type.
	ErrUnknownWeekType = errors.New("unknown week type")
	// ErrUnknownAlgorithm is returned when a solver registry lookup misses.
	ErrUnknownAlgorithm = errors.New("unknown solver algorithm")

	// ErrRunAlreadyStarted is returned when Start is called on a non-pending run.
	ErrRunAlreadyStarted = errors.New("schedule run has already started")
	// ErrRunNotRunning is returned when Complete is called on a run that is not running,
	// or Fail on a run that is neither pending nor running.
	ErrRunNotRunning = errors.New("schedule run is not running")
	// ErrRunNotFound is returned by a ScheduleRunRepository when no run matches.
	ErrRunNotFound = errors.New("schedule run not found")
)
