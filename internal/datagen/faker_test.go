package datagen

import (
	"testing"
	"time"
)

func TestFakerReproducibility(t *testing.T) {
	f1 := NewFakerWithSeed(42)
	f2 := NewFakerWithSeed(42)

	for i := 0; i < 10; i++ {
		if a, b := f1.Int(1, 1000), f2.Int(1, 1000); a != b {
			t.Fatalf("Seeded fakers diverged at iteration %d: %d != %d", i, a, b)
		}
	}
}

func TestFakerIntRange(t *testing.T) {
	f := NewFaker()
	for i := 0; i < 100; i++ {
		n := f.Int(3, 7)
		if n < 3 || n > 7 {
			t.Fatalf("Int(3, 7) = %d, out of range", n)
		}
	}
}

func TestFakerFloat64Range(t *testing.T) {
	f := NewFaker()
	for i := 0; i < 100; i++ {
		v := f.Float64(0.99, 9.99)
		if v < 0.99 || v > 9.99 {
			t.Fatalf("Float64(0.99, 9.99) = %f, out of range", v)
		}
	}
}

func TestFakerDigits(t *testing.T) {
	f := NewFaker()
	s := f.Digits(5)
	if len(s) != 5 {
		t.Errorf("Digits(5) returned %q, want 5 characters", s)
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			t.Errorf("Digits(5) returned non-digit character in %q", s)
		}
	}
}

func TestFakerDateRange(t *testing.T) {
	f := NewFaker()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 50; i++ {
		d := f.DateRange(start, end)
		if d.Before(start) || d.After(end) {
			t.Fatalf("DateRange returned %v, outside [%v, %v]", d, start, end)
		}
	}
}

func TestChoose(t *testing.T) {
	f := NewFaker()
	items := []string{"G", "PG", "PG-13", "R", "NC-17"}

	for i := 0; i < 50; i++ {
		got := Choose(f, items)
		found := false
		for _, item := range items {
			if got == item {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("Choose returned %q, not in input slice", got)
		}
	}
}

func TestChooseEmpty(t *testing.T) {
	f := NewFaker()
	if got := Choose(f, []string{}); got != "" {
		t.Errorf("Choose of empty slice = %q, want zero value", got)
	}
}
