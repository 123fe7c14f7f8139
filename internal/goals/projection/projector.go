// Package projection holds the calendar math for goal metrics: the
// monthly target curve, re-attachment of recorded facts after a curve is
// regenerated, and the week-number calendar for action items. Everything
// here is pure; callers on the merge path, the demo path and the
// single-cell edit path all go through the same functions.
package projection

import (
	"math"
	"time"

	"github.com/lifetribe/goals-backend/internal/goals/domain"
)

// The projection window spans 11 calendar years: the year before the
// metric's start plus the following ten. Wide enough for decade goals,
// and the year before the start is always visible.
const (
	WindowYears  = 11
	WindowPoints = WindowYears * 12
)

// Project computes the fixed-length monthly target series for a metric.
// Months are zero-indexed (0 = January). Points strictly before the start
// have a nil target; points between start and deadline interpolate
// linearly, rounded to 2 decimals; points past the deadline hold the
// target value. Actual and Note are always empty in a fresh series.
func Project(startValue, targetValue float64, startYear, startMonth, deadlineYear, deadlineMonth int) []domain.MonthlyProjectionPoint {
	totalMonths := (deadlineYear-startYear)*12 + deadlineMonth - startMonth
	step := 0.0
	if totalMonths > 0 {
		step = (targetValue - startValue) / float64(totalMonths)
	}

	series := make([]domain.MonthlyProjectionPoint, 0, WindowPoints)
	for year := startYear - 1; year < startYear-1+WindowYears; year++ {
		for month := 0; month < 12; month++ {
			p := domain.MonthlyProjectionPoint{
				Month: MonthLabel(month),
				Year:  year,
			}

			elapsed := (year-startYear)*12 + month - startMonth
			switch {
			case elapsed < 0:
				// before the start: no target
			case elapsed == 0:
				v := startValue
				p.Target = &v
			case elapsed >= totalMonths:
				v := targetValue
				p.Target = &v
			default:
				v := round2(startValue + step*float64(elapsed))
				p.Target = &v
			}

			series = append(series, p)
		}
	}
	return series
}

// MonthLabel returns the short label for a zero-indexed month ("Jan").
func MonthLabel(month int) string {
	return time.Month(month + 1).String()[:3]
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
