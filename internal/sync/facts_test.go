package sync

import (
	"testing"
	"time"
)

func TestDurationDays(t *testing.T) {
	start := time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		end  *time.Time
		want *int
	}{
		{"open rental", nil, nil},
		{"returned same day", timePtr(start.Add(6 * time.Hour)), intPtr(0)},
		{"returned two days later", timePtr(start.AddDate(0, 0, 2)), intPtr(2)},
		{"returned after nine days", timePtr(start.AddDate(0, 0, 9)), intPtr(9)},
		{"partial day rounds down", timePtr(start.Add(47 * time.Hour)), intPtr(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := durationDays(start, tt.end)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("durationDays = %v, want %v", got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Errorf("durationDays = %d, want %d", *got, *tt.want)
			}
		})
	}
}

func TestFirstErr(t *testing.T) {
	if err := firstErr(nil, nil, nil); err != nil {
		t.Errorf("firstErr of nils = %v, want nil", err)
	}

	want := &UnresolvedReferenceError{Dimension: DimFilm, NaturalKey: 3}
	if err := firstErr(nil, want, nil); err != want {
		t.Errorf("firstErr = %v, want %v", err, want)
	}
}

func timePtr(t time.Time) *time.Time { return &t }
func intPtr(n int) *int              { return &n }
