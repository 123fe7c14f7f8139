package projection

import "time"

// The week calendar anchors week N of a year at January 1st plus N-1
// whole weeks. WeekDate and WeekNumber are exact inverses for every week
// that starts inside the year, and both the write path (storing an action
// item's due date) and the read path (deriving its week number back) use
// them. Week 1 always begins on January 1st regardless of weekday.

// WeekDate returns the first day of the given week of a year.
func WeekDate(week, year int) time.Time {
	jan1 := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return jan1.AddDate(0, 0, (week-1)*7)
}

// WeekNumber derives the week number of a date within its own year.
func WeekNumber(date time.Time) int {
	return (date.YearDay()-1)/7 + 1
}
