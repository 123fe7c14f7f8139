package projection

import "github.com/lifetribe/goals-backend/internal/goals/domain"

// Reattach copies recorded facts (Actual, Note) from a previously stored
// series onto a freshly projected one, matching by (month, year). Targets
// always come from the fresh series, so editing a metric's start, target
// or dates regenerates the curve without erasing observed history.
func Reattach(fresh, prior []domain.MonthlyProjectionPoint) []domain.MonthlyProjectionPoint {
	if len(prior) == 0 {
		return fresh
	}

	type key struct {
		month string
		year  int
	}
	facts := make(map[key]domain.MonthlyProjectionPoint, len(prior))
	for _, p := range prior {
		facts[key{p.Month, p.Year}] = p
	}

	out := make([]domain.MonthlyProjectionPoint, len(fresh))
	copy(out, fresh)
	for i := range out {
		if old, ok := facts[key{out[i].Month, out[i].Year}]; ok {
			out[i].Actual = old.Actual
			out[i].Note = old.Note
		}
	}
	return out
}
