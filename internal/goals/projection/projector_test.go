package projection

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifetribe/goals-backend/internal/goals/domain"
)

func findPoint(t *testing.T, series []domain.MonthlyProjectionPoint, month string, year int) domain.MonthlyProjectionPoint {
	t.Helper()
	for _, p := range series {
		if p.Month == month && p.Year == year {
			return p
		}
	}
	t.Fatalf("point (%s %d) not in series", month, year)
	return domain.MonthlyProjectionPoint{}
}

func TestProject_WindowSize(t *testing.T) {
	series := Project(0, 120, 2026, 0, 2026, 11)
	assert.Len(t, series, WindowPoints)

	// exactly one point per (month, year) pair
	type key struct {
		month string
		year  int
	}
	seen := make(map[key]bool, len(series))
	for _, p := range series {
		k := key{p.Month, p.Year}
		assert.False(t, seen[k], "duplicate point %s %d", p.Month, p.Year)
		seen[k] = true
	}
}

func TestProject_Deterministic(t *testing.T) {
	a, err := json.Marshal(Project(10, 250, 2026, 3, 2028, 6))
	require.NoError(t, err)
	b, err := json.Marshal(Project(10, 250, 2026, 3, 2028, 6))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestProject_BoundaryClamping(t *testing.T) {
	series := Project(0, 120, 2026, 0, 2026, 11)

	t.Run("before start has no target", func(t *testing.T) {
		p := findPoint(t, series, "Dec", 2025)
		assert.Nil(t, p.Target)
	})

	t.Run("start month holds start value", func(t *testing.T) {
		p := findPoint(t, series, "Jan", 2026)
		require.NotNil(t, p.Target)
		assert.Equal(t, 0.0, *p.Target)
	})

	t.Run("past deadline holds target value", func(t *testing.T) {
		p := findPoint(t, series, "Jan", 2027)
		require.NotNil(t, p.Target)
		assert.Equal(t, 120.0, *p.Target)

		last := series[len(series)-1]
		require.NotNil(t, last.Target)
		assert.Equal(t, 120.0, *last.Target)
	})
}

func TestProject_LinearInterpolation(t *testing.T) {
	series := Project(0, 120, 2026, 0, 2026, 11)

	p := findPoint(t, series, "Jul", 2026) // month index 6
	require.NotNil(t, p.Target)
	assert.InDelta(t, 65.45, *p.Target, 0.001)
}

func TestProject_DecreasingMetric(t *testing.T) {
	// target below start: lower is better, curve descends
	series := Project(90, 70, 2026, 0, 2026, 10)

	start := findPoint(t, series, "Jan", 2026)
	mid := findPoint(t, series, "Jun", 2026)
	end := findPoint(t, series, "Nov", 2026)

	require.NotNil(t, start.Target)
	require.NotNil(t, mid.Target)
	require.NotNil(t, end.Target)
	assert.Equal(t, 90.0, *start.Target)
	assert.Equal(t, 80.0, *mid.Target)
	assert.Equal(t, 70.0, *end.Target)
}

func TestProject_ZeroSpan(t *testing.T) {
	series := Project(5, 50, 2026, 4, 2026, 4)

	start := findPoint(t, series, "May", 2026)
	require.NotNil(t, start.Target)
	assert.Equal(t, 5.0, *start.Target)

	next := findPoint(t, series, "Jun", 2026)
	require.NotNil(t, next.Target)
	assert.Equal(t, 50.0, *next.Target)
}

func TestProject_FreshSeriesHasNoFacts(t *testing.T) {
	for _, p := range Project(0, 120, 2026, 0, 2026, 11) {
		assert.Nil(t, p.Actual)
		assert.Empty(t, p.Note)
	}
}

func TestReattach_PreservesFactsAcrossRegeneration(t *testing.T) {
	prior := Project(0, 120, 2026, 0, 2026, 11)
	for i := range prior {
		if prior[i].Month == "Mar" && prior[i].Year == 2026 {
			actual := 42.0
			prior[i].Actual = &actual
			prior[i].Note = "slipped"
		}
	}

	// user raised the target; curve regenerates
	fresh := Project(0, 240, 2026, 0, 2026, 11)
	merged := Reattach(fresh, prior)

	p := findPoint(t, merged, "Mar", 2026)
	require.NotNil(t, p.Actual)
	assert.Equal(t, 42.0, *p.Actual)
	assert.Equal(t, "slipped", p.Note)

	// target reflects the new curve, not the old one
	require.NotNil(t, p.Target)
	assert.InDelta(t, 43.64, *p.Target, 0.001)
}

func TestReattach_TargetAlwaysFromFresh(t *testing.T) {
	prior := Project(0, 100, 2026, 0, 2026, 9)
	fresh := Project(0, 200, 2026, 0, 2026, 9)

	merged := Reattach(fresh, prior)
	for i := range merged {
		assert.Equal(t, fresh[i].Target, merged[i].Target)
	}
}

func TestReattach_EmptyPrior(t *testing.T) {
	fresh := Project(0, 100, 2026, 0, 2026, 9)
	assert.Equal(t, fresh, Reattach(fresh, nil))
}

func TestWeekRoundTrip(t *testing.T) {
	// the write path and the read path must agree for every week,
	// leap years included
	for _, year := range []int{2024, 2025, 2026, 2028} {
		for week := 1; week <= 52; week++ {
			date := WeekDate(week, year)
			assert.Equal(t, week, WeekNumber(date), "week %d of %d", week, year)
			assert.Equal(t, year, date.Year())
		}
	}
}

func TestWeekDate_Anchor(t *testing.T) {
	assert.Equal(t, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), WeekDate(1, 2026))
	assert.Equal(t, time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC), WeekDate(3, 2026))
}

func TestMonthLabel(t *testing.T) {
	assert.Equal(t, "Jan", MonthLabel(0))
	assert.Equal(t, "Dec", MonthLabel(11))
}
