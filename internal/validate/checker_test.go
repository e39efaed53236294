package validate

import (
	"testing"
	"time"
)

func TestCheckMatch(t *testing.T) {
	tests := []struct {
		name  string
		check Check
		want  bool
	}{
		{
			name:  "equal counts match",
			check: Check{Label: "films", Kind: KindRowCount, Source: 200, Warehouse: 200},
			want:  true,
		},
		{
			name:  "differing counts mismatch",
			check: Check{Label: "films", Kind: KindRowCount, Source: 200, Warehouse: 199},
			want:  false,
		},
		{
			name:  "equal totals match",
			check: Check{Label: "revenue", Kind: KindTotal, Source: 123456, Warehouse: 123456},
			want:  true,
		},
		{
			// Totals are integer cents, so a one-cent delta is detected.
			name:  "one cent off mismatch",
			check: Check{Label: "revenue", Kind: KindTotal, Source: 123456, Warehouse: 123457},
			want:  false,
		},
		{
			name:  "both empty match",
			check: Check{Label: "payments", Kind: KindRowCount, Source: 0, Warehouse: 0},
			want:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.check.Match(); got != tt.want {
				t.Errorf("Match() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCheckDelta(t *testing.T) {
	check := Check{Source: 100, Warehouse: 97}
	if check.Delta() != -3 {
		t.Errorf("Delta() = %d, want -3", check.Delta())
	}

	check = Check{Source: 100, Warehouse: 105}
	if check.Delta() != 5 {
		t.Errorf("Delta() = %d, want 5", check.Delta())
	}
}

func TestReportMismatches(t *testing.T) {
	report := &Report{
		Window: 30 * 24 * time.Hour,
		Checks: []Check{
			{Label: "films", Kind: KindRowCount, Source: 10, Warehouse: 10},
			{Label: "rentals", Kind: KindRowCount, Source: 50, Warehouse: 48},
			{Label: "revenue", Kind: KindTotal, Source: 9900, Warehouse: 9900},
		},
	}

	mismatches := report.Mismatches()
	if len(mismatches) != 1 {
		t.Fatalf("Mismatches() returned %d checks, want 1", len(mismatches))
	}
	if mismatches[0].Label != "rentals" {
		t.Errorf("Mismatch label = %q, want 'rentals'", mismatches[0].Label)
	}
}

func TestReportNoMismatches(t *testing.T) {
	report := &Report{
		Checks: []Check{
			{Label: "films", Source: 10, Warehouse: 10},
		},
	}
	if got := report.Mismatches(); got != nil {
		t.Errorf("Mismatches() = %v, want nil", got)
	}
}
