package services

import "github.com/Vamsichris04/finals-scheduler/internal/scheduling/domain"

// QualityClass classifies a solution by its total penalty (§4.10).
type QualityClass string

const (
	QualityPerfect     QualityClass = "Perfect"
	QualityExcellent   QualityClass = "Excellent"
	QualityGood        QualityClass = "Good"
	QualityNeedsReview QualityClass = "Needs Review"
)

// ValidationReport is quick_validate's output: a quality class plus the
// per-category violation counts and the list of under-covered slots.
type ValidationReport struct {
	Quality        QualityClass
	Penalty        float64
	Breakdown      domain.Breakdown
	UncoveredSlots []int
}

// QuickValidate classifies env's evaluation of state by total penalty.
func QuickValidate(env *Environment, state *domain.ScheduleState) ValidationReport {
	penalty, breakdown := env.Evaluate(state)
	return ValidationReport{
		Quality:        classify(penalty),
		Penalty:        penalty,
		Breakdown:      breakdown,
		UncoveredSlots: breakdown.UncoveredSlots,
	}
}

func classify(penalty float64) QualityClass {
	switch {
	case penalty == 0:
		return QualityPerfect
	case penalty < 500:
		return QualityExcellent
	case penalty <= 1500:
		return QualityGood
	default:
		return QualityNeedsReview
	}
}
