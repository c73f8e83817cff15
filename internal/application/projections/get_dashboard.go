// Package projections builds read models for the dashboard and status
// surfaces. Projections never mutate state.
package projections

import (
	"time"

	holidayDomain "holidayreminder/internal/domain/holiday"
)

// upcomingWindowDays is how far ahead the dashboard looks.
const upcomingWindowDays = 30

// UpcomingHoliday is one row of the dashboard's upcoming list.
type UpcomingHoliday struct {
	Name        string
	Date        string // localized long form
	Status      string // countdown in Indonesian
	Description string // markdown, rendered by the view layer
}

// CalendarDay is a single cell of the month grid. Day is 0 for padding
// cells outside the month.
type CalendarDay struct {
	Day     int
	Today   bool
	Holiday bool
	Events  []string
}

// CalendarMonth is one month laid out Monday-first.
type CalendarMonth struct {
	Title string
	Weeks [][]CalendarDay
}

// DashboardResult carries the output of the dashboard projection.
type DashboardResult struct {
	Today        string
	HolidayCount int
	Receivers    []string
	Upcoming     []UpcomingHoliday
	Calendar     []CalendarMonth
}

// GetDashboard assembles the dashboard read model for the given moment:
// the upcoming window, and month grids for the current and next month.
// PRE: none
// POST: Result is fully populated; holidays outside the window are excluded
func GetDashboard(now time.Time, holidays []holidayDomain.Holiday, receivers []string) DashboardResult {
	result := DashboardResult{
		Today:        holidayDomain.FormatLongDate(now),
		HolidayCount: len(holidays),
		Receivers:    receivers,
	}

	for _, h := range holidayDomain.FilterByRange(holidays, now, 0, upcomingWindowDays) {
		result.Upcoming = append(result.Upcoming, UpcomingHoliday{
			Name:        h.Name,
			Date:        holidayDomain.FormatLongDate(h.Date),
			Status:      holidayDomain.Status(now, h.Date),
			Description: h.Description,
		})
	}

	next := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	result.Calendar = []CalendarMonth{
		buildMonth(now, now.Year(), now.Month(), holidays),
		buildMonth(now, next.Year(), next.Month(), holidays),
	}
	return result
}

// buildMonth lays one month out as Monday-first weeks with holiday markers.
func buildMonth(today time.Time, year int, month time.Month, holidays []holidayDomain.Holiday) CalendarMonth {
	events := make(map[int][]string)
	for _, h := range holidays {
		if h.Date.Year() == year && h.Date.Month() == month {
			events[h.Date.Day()] = append(events[h.Date.Day()], h.Name)
		}
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()
	// Monday = column 0.
	lead := (int(first.Weekday()) + 6) % 7

	cm := CalendarMonth{Title: holidayDomain.MonthName(month) + " " + first.Format("2006")}
	week := make([]CalendarDay, 0, 7)
	for i := 0; i < lead; i++ {
		week = append(week, CalendarDay{})
	}
	for day := 1; day <= daysInMonth; day++ {
		week = append(week, CalendarDay{
			Day:     day,
			Today:   today.Year() == year && today.Month() == month && today.Day() == day,
			Holiday: len(events[day]) > 0,
			Events:  events[day],
		})
		if len(week) == 7 {
			cm.Weeks = append(cm.Weeks, week)
			week = make([]CalendarDay, 0, 7)
		}
	}
	if len(week) > 0 {
		for len(week) < 7 {
			week = append(week, CalendarDay{})
		}
		cm.Weeks = append(cm.Weeks, week)
	}
	return cm
}
