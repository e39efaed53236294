package sync

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestSummaryCounts(t *testing.T) {
	sum := newSummary(ModeIncremental)

	sum.add("dim_film", 3)
	sum.add("dim_film", 2)
	sum.add("fact_rental", 10)
	sum.skipRow("fact_rental")
	sum.skipRow("fact_rental")
	sum.skipRow("bridge_film_actor")

	if sum.Mode != ModeIncremental {
		t.Errorf("Mode = %q, want %q", sum.Mode, ModeIncremental)
	}
	if sum.Loaded["dim_film"] != 5 {
		t.Errorf("Loaded[dim_film] = %d, want 5", sum.Loaded["dim_film"])
	}
	if sum.Loaded["fact_rental"] != 10 {
		t.Errorf("Loaded[fact_rental] = %d, want 10", sum.Loaded["fact_rental"])
	}
	if sum.TotalSkipped() != 3 {
		t.Errorf("TotalSkipped = %d, want 3", sum.TotalSkipped())
	}
}

func TestUnresolvedPolicySkip(t *testing.T) {
	unresolved := &UnresolvedReferenceError{Dimension: DimCustomer, NaturalKey: 42}
	wrapped := fmt.Errorf("fact_payment: %w", unresolved)

	skipPolicy := unresolvedPolicy{skipUnresolved: true}
	failPolicy := unresolvedPolicy{skipUnresolved: false}

	sum := newSummary(ModeFull)
	if !skipPolicy.skip(wrapped, "fact_payment", sum) {
		t.Error("skip policy should skip an unresolved reference")
	}
	if sum.Skipped["fact_payment"] != 1 {
		t.Errorf("Skipped[fact_payment] = %d, want 1", sum.Skipped["fact_payment"])
	}

	if failPolicy.skip(wrapped, "fact_payment", sum) {
		t.Error("fail policy must never skip")
	}

	// Only unresolved references are skippable; other errors stay fatal.
	if skipPolicy.skip(errors.New("connection reset"), "fact_payment", sum) {
		t.Error("skip policy must not swallow unrelated errors")
	}
}

func TestUnresolvedReferenceErrorMessage(t *testing.T) {
	err := &UnresolvedReferenceError{Dimension: DimFilm, NaturalKey: 7}
	msg := err.Error()
	if msg == "" {
		t.Fatal("Error() returned empty string")
	}
	for _, want := range []string{"film", "7"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error message %q missing %q", msg, want)
		}
	}
}
