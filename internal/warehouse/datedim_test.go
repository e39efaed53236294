package warehouse

import (
	"testing"
	"time"
)

func TestDateKey(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want int
	}{
		{"regular date", time.Date(2006, 2, 14, 0, 0, 0, 0, time.UTC), 20060214},
		{"single digit month and day", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), 20240105},
		{"end of year", time.Date(1999, 12, 31, 0, 0, 0, 0, time.UTC), 19991231},
		{"range start", DateDimStart, 19000101},
		{"range end", DateDimEnd, 21001231},
		{"time of day ignored", time.Date(2025, 6, 30, 23, 59, 59, 0, time.UTC), 20250630},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DateKey(tt.date); got != tt.want {
				t.Errorf("DateKey(%v) = %d, want %d", tt.date, got, tt.want)
			}
		})
	}
}

func TestDateKeyOrdering(t *testing.T) {
	// Keys must sort the same way as the dates they encode; range scans on
	// fact date keys depend on this.
	prev := 0
	for d := time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC); d.Year() < 2026; d = d.AddDate(0, 0, 1) {
		key := DateKey(d)
		if key <= prev {
			t.Fatalf("DateKey not monotonic at %v: %d <= %d", d, key, prev)
		}
		prev = key
	}
}

func TestISOWeekday(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want int
	}{
		{"monday", time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), 1},
		{"wednesday", time.Date(2024, 7, 3, 0, 0, 0, 0, time.UTC), 3},
		{"saturday", time.Date(2024, 7, 6, 0, 0, 0, 0, time.UTC), 6},
		{"sunday", time.Date(2024, 7, 7, 0, 0, 0, 0, time.UTC), 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ISOWeekday(tt.date); got != tt.want {
				t.Errorf("ISOWeekday(%v) = %d, want %d", tt.date, got, tt.want)
			}
		})
	}
}

func TestNewDateRow(t *testing.T) {
	// 2024-07-06 is a Saturday in Q3
	row := NewDateRow(time.Date(2024, 7, 6, 0, 0, 0, 0, time.UTC))

	if row.DateKey != 20240706 {
		t.Errorf("DateKey = %d, want 20240706", row.DateKey)
	}
	if row.Year != 2024 {
		t.Errorf("Year = %d, want 2024", row.Year)
	}
	if row.Quarter != 3 {
		t.Errorf("Quarter = %d, want 3", row.Quarter)
	}
	if row.Month != 7 {
		t.Errorf("Month = %d, want 7", row.Month)
	}
	if row.DayOfMonth != 6 {
		t.Errorf("DayOfMonth = %d, want 6", row.DayOfMonth)
	}
	if row.DayOfWeek != 6 {
		t.Errorf("DayOfWeek = %d, want 6", row.DayOfWeek)
	}
	if !row.IsWeekend {
		t.Error("Expected IsWeekend true for Saturday")
	}
}

func TestNewDateRowQuarters(t *testing.T) {
	tests := []struct {
		month int
		want  int
	}{
		{1, 1}, {3, 1}, {4, 2}, {6, 2}, {7, 3}, {9, 3}, {10, 4}, {12, 4},
	}

	for _, tt := range tests {
		row := NewDateRow(time.Date(2024, time.Month(tt.month), 15, 0, 0, 0, 0, time.UTC))
		if row.Quarter != tt.want {
			t.Errorf("month %d: Quarter = %d, want %d", tt.month, row.Quarter, tt.want)
		}
	}
}

func TestNewDateRowWeekday(t *testing.T) {
	// 2024-07-03 is a Wednesday
	row := NewDateRow(time.Date(2024, 7, 3, 0, 0, 0, 0, time.UTC))
	if row.IsWeekend {
		t.Error("Expected IsWeekend false for Wednesday")
	}
}
