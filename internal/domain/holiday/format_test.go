package holiday_test

import (
	"testing"
	"time"

	"holidayreminder/internal/domain/holiday"
)

// TestStatus tests the status rule shared by emails and the dashboard.
func TestStatus(t *testing.T) {
	today := date(2025, 3, 29)

	tests := []struct {
		name string
		d    time.Time
		want string
	}{
		{"future", date(2025, 4, 1), "3 hari lagi"},
		{"tomorrow", date(2025, 3, 30), "1 hari lagi"},
		{"today", date(2025, 3, 29), "Hari Ini"},
		{"yesterday", date(2025, 3, 28), "Sudah lewat 1 hari"},
		{"far past", date(2025, 3, 1), "Sudah lewat 28 hari"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := holiday.Status(today, tt.d); got != tt.want {
				t.Errorf("Status(%v, %v) = %q, want %q", today, tt.d, got, tt.want)
			}
		})
	}
}

// TestFormatLongDate tests Indonesian weekday/day/month/year formatting.
func TestFormatLongDate(t *testing.T) {
	tests := []struct {
		d    time.Time
		want string
	}{
		// 2025-04-01 is a Tuesday.
		{date(2025, 4, 1), "Selasa, 01 April 2025"},
		// 2025-12-25 is a Thursday.
		{date(2025, 12, 25), "Kamis, 25 Desember 2025"},
		// 2025-08-17 is a Sunday.
		{date(2025, 8, 17), "Minggu, 17 Agustus 2025"},
	}

	for _, tt := range tests {
		if got := holiday.FormatLongDate(tt.d); got != tt.want {
			t.Errorf("FormatLongDate(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
