package holiday

import (
	"fmt"
	"time"
)

// Indonesian day and month names used in notification emails and the
// dashboard. The upstream API serves Indonesian national holidays, so the
// user-facing strings stay in Indonesian.
var (
	indonesianDays = map[time.Weekday]string{
		time.Monday:    "Senin",
		time.Tuesday:   "Selasa",
		time.Wednesday: "Rabu",
		time.Thursday:  "Kamis",
		time.Friday:    "Jumat",
		time.Saturday:  "Sabtu",
		time.Sunday:    "Minggu",
	}

	indonesianMonths = map[time.Month]string{
		time.January:   "Januari",
		time.February:  "Februari",
		time.March:     "Maret",
		time.April:     "April",
		time.May:       "Mei",
		time.June:      "Juni",
		time.July:      "Juli",
		time.August:    "Agustus",
		time.September: "September",
		time.October:   "Oktober",
		time.November:  "November",
		time.December:  "Desember",
	}
)

// FormatLongDate renders a date as "Senin, 01 April 2025" (weekday, day,
// full month name, year).
func FormatLongDate(t time.Time) string {
	return fmt.Sprintf("%s, %02d %s %d",
		indonesianDays[t.Weekday()], t.Day(), indonesianMonths[t.Month()], t.Year())
}

// MonthName returns the Indonesian month name.
func MonthName(m time.Month) string {
	return indonesianMonths[m]
}

// Status describes a date relative to today using the status rule shared by
// emails and the dashboard: past dates report how many days ago, today is
// "Hari Ini", and future dates report the days remaining.
// PRE: both times are valid
// POST: Returns a non-empty human-readable string
func Status(today, date time.Time) string {
	diff := daysBetween(today, date)
	switch {
	case diff < 0:
		return fmt.Sprintf("Sudah lewat %d hari", -diff)
	case diff == 0:
		return "Hari Ini"
	default:
		return fmt.Sprintf("%d hari lagi", diff)
	}
}
