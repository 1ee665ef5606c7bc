package odds

import "time"

// MaxWeek is the last week of the regular season.
const MaxWeek = 18

// WeekWindow returns the commence-time window of the NFL week containing now:
// the most recent Tuesday 05:00 UTC through the following Tuesday 04:59 UTC.
func WeekWindow(now time.Time) (time.Time, time.Time) {
	now = now.UTC()
	daysSinceTuesday := (int(now.Weekday()) - int(time.Tuesday) + 7) % 7
	tuesday := now.AddDate(0, 0, -daysSinceTuesday)
	from := time.Date(tuesday.Year(), tuesday.Month(), tuesday.Day(), 5, 0, 0, 0, time.UTC)
	to := from.Add(7*24*time.Hour - time.Minute)
	return from, to
}

// CurrentWeek returns the season week for now, clamped to 1..MaxWeek.
func CurrentWeek(seasonStart, now time.Time) int {
	days := int(now.Sub(seasonStart).Hours() / 24)
	if days < 0 {
		return 1
	}
	week := days/7 + 1
	if week > MaxWeek {
		return MaxWeek
	}
	return week
}

// SeasonWeekWindow returns the WeekWindow of a given season week. The window
// is taken around mid-week so a season_start on any weekday lands in week 1.
func SeasonWeekWindow(seasonStart time.Time, week int) (time.Time, time.Time) {
	week = min(max(week, 1), MaxWeek)
	return WeekWindow(seasonStart.AddDate(0, 0, 7*(week-1)+3))
}
