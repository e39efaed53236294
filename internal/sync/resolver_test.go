package sync

import (
	"errors"
	"testing"
)

func TestResolverResolve(t *testing.T) {
	res := NewResolver()
	res.keys[DimFilm] = map[int]int{10: 1, 11: 2}
	res.keys[DimCustomer] = map[int]int{5: 9}

	key, err := res.Resolve(DimFilm, 10)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if key != 1 {
		t.Errorf("Resolve(DimFilm, 10) = %d, want 1", key)
	}

	key, err = res.Resolve(DimCustomer, 5)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if key != 9 {
		t.Errorf("Resolve(DimCustomer, 5) = %d, want 9", key)
	}
}

func TestResolverResolveUnknownKey(t *testing.T) {
	res := NewResolver()
	res.keys[DimFilm] = map[int]int{10: 1}

	_, err := res.Resolve(DimFilm, 999)
	if err == nil {
		t.Fatal("Expected error for unknown natural key")
	}

	var unresolved *UnresolvedReferenceError
	if !errors.As(err, &unresolved) {
		t.Fatalf("Expected *UnresolvedReferenceError, got %T", err)
	}
	if unresolved.Dimension != DimFilm {
		t.Errorf("Dimension = %q, want %q", unresolved.Dimension, DimFilm)
	}
	if unresolved.NaturalKey != 999 {
		t.Errorf("NaturalKey = %d, want 999", unresolved.NaturalKey)
	}
}

func TestResolverResolveUnloadedDimension(t *testing.T) {
	res := NewResolver()

	_, err := res.Resolve(DimActor, 1)
	var unresolved *UnresolvedReferenceError
	if !errors.As(err, &unresolved) {
		t.Fatalf("Expected *UnresolvedReferenceError, got %T", err)
	}
}

func TestResolverSize(t *testing.T) {
	res := NewResolver()
	if res.Size(DimStore) != 0 {
		t.Errorf("Size of empty resolver = %d, want 0", res.Size(DimStore))
	}

	res.keys[DimStore] = map[int]int{1: 1, 2: 2}
	if res.Size(DimStore) != 2 {
		t.Errorf("Size(DimStore) = %d, want 2", res.Size(DimStore))
	}
}
