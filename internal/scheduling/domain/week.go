package domain

import "time"

// WeekType selects the operating-hour template used to build a slot catalog.
type WeekType string

const (
	FinalsWeek  WeekType = "finals"
	RegularWeek WeekType = "regular"
)

// OperatingWindow is the open hour-range for a single day.
type OperatingWindow struct {
	Date      time.Time
	DayOfWeek DayOfWeek
	StartHour int
	EndHour   int // exclusive
}

// Validate reports ErrEmptyOperatingWindow when the window has zero length.
func (w OperatingWindow) Validate() error {
	if w.EndHour <= w.StartHour {
		return ErrEmptyOperatingWindow
	}
	return nil
}

// BuildOperatingWindows returns the fixed operating-hour windows for a week
// type, anchored at weekStart (expected to be the Monday of the target week).
//
// Finals week: Mon-Thu 07:00-20:00, Fri 07:00-17:00 (five fixed dates).
// Windows start on whole hours: the weekday windows begin at 07:00, not
// 07:30, and no half-hour slot exists.
// Regular week: finals windows plus Sat 10:00-18:00.
func BuildOperatingWindows(weekType WeekType, weekStart time.Time) ([]OperatingWindow, error) {
	monday := time.Date(weekStart.Year(), weekStart.Month(), weekStart.Day(), 0, 0, 0, 0, weekStart.Location())

	windows := []OperatingWindow{
		{Date: monday, DayOfWeek: Monday, StartHour: 7, EndHour: 20},
		{Date: monday.AddDate(0, 0, 1), DayOfWeek: Tuesday, StartHour: 7, EndHour: 20},
		{Date: monday.AddDate(0, 0, 2), DayOfWeek: Wednesday, StartHour: 7, EndHour: 20},
		{Date: monday.AddDate(0, 0, 3), DayOfWeek: Thursday, StartHour: 7, EndHour: 20},
		{Date: monday.AddDate(0, 0, 4), DayOfWeek: Friday, StartHour: 7, EndHour: 17},
	}

	switch weekType {
	case FinalsWeek:
		// kept as-is
	case RegularWeek:
		windows = append(windows, OperatingWindow{
			Date:      monday.AddDate(0, 0, 5),
			DayOfWeek: Saturday,
			StartHour: 10,
			EndHour:   18,
		})
	default:
		return nil, ErrUnknownWeekType
	}

	for _, w := range windows {
		if err := w.Validate(); err != nil {
			return nil, err
		}
	}

	return windows, nil
}

// BuildHourlySlotCatalog emits, for every hour of every operating window and
// every shift kind, a one-hour slot with the kind's staffing bounds. This is
// the slot model used by the GA, SA and CSP solvers.
func BuildHourlySlotCatalog(weekType WeekType, weekStart time.Time) (*Catalog, error) {
	windows, err := BuildOperatingWindows(weekType, weekStart)
	if err != nil {
		return nil, err
	}

	var slots []TimeSlot
	for _, w := range windows {
		for hour := w.StartHour; hour < w.EndHour; hour++ {
			slots = append(slots,
				TimeSlot{
					Date:          w.Date,
					DayOfWeek:     w.DayOfWeek,
					StartHour:     hour,
					DurationHours: 1,
					ShiftKind:     Window,
					StaffMin:      WindowMin,
					StaffMax:      WindowMax,
				},
				TimeSlot{
					Date:          w.Date,
					DayOfWeek:     w.DayOfWeek,
					StartHour:     hour,
					DurationHours: 1,
					ShiftKind:     Remote,
					StaffMin:      RemoteMin,
					StaffMax:      RemoteMax,
				},
			)
		}
	}

	return NewCatalog(slots)
}
