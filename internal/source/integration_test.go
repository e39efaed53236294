//-------------------------------------------------------------------------
//
// pgEdge Warehouse Sync
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

//go:build integration
// +build integration

// Integration tests for the source reader.
// Run with: go test -tags=integration ./internal/source/...
// Requires PostgreSQL to be available.

package source_test

import (
	"context"
	"testing"
	"time"

	"github.com/pgEdge/pgedge-dwsync/internal/config"
	"github.com/pgEdge/pgedge-dwsync/internal/seed"
	"github.com/pgEdge/pgedge-dwsync/internal/source"
	"github.com/pgEdge/pgedge-dwsync/internal/testutil"
)

func TestReaderIntegration(t *testing.T) {
	baseConnStr := testutil.SkipIfNoPostgres(t)
	ctx := context.Background()

	connStr := testutil.CreateTestDB(t, baseConnStr, "src")
	cleanup := testutil.NewTestCleanup(t, baseConnStr,
		testutil.GetDBNameFromConnStr(connStr))
	t.Cleanup(cleanup.Cleanup)

	pool := testutil.ConnectTestDB(t, connStr)
	cleanup.AddPool(pool)

	if err := seed.CreateSchema(ctx, pool); err != nil {
		t.Fatalf("Failed to create source schema: %v", err)
	}
	seedCfg := config.SeedConfig{Films: 15, Customers: 8, Days: 20}
	if err := seed.NewSeederWithSeed(7).Run(ctx, pool, seedCfg); err != nil {
		t.Fatalf("Failed to seed source: %v", err)
	}

	reader := source.NewReader(pool)

	if err := reader.Ping(ctx); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}

	// A nil watermark fetches everything
	t.Run("FetchAll", func(t *testing.T) {
		films, err := reader.Films(ctx, nil)
		if err != nil {
			t.Fatalf("Films failed: %v", err)
		}
		if len(films) != 15 {
			t.Errorf("Films returned %d rows, want 15", len(films))
		}
		for _, f := range films {
			if f.Title == "" {
				t.Errorf("Film %d has empty title", f.FilmID)
			}
			if f.Language == "" {
				t.Errorf("Film %d has empty language", f.FilmID)
			}
		}

		customers, err := reader.Customers(ctx, nil)
		if err != nil {
			t.Fatalf("Customers failed: %v", err)
		}
		if len(customers) != 8 {
			t.Errorf("Customers returned %d rows, want 8", len(customers))
		}
		for _, c := range customers {
			// City and country come from the address join
			if c.City == "" || c.Country == "" {
				t.Errorf("Customer %d missing address detail", c.CustomerID)
			}
		}

		stores, err := reader.Stores(ctx, nil)
		if err != nil {
			t.Fatalf("Stores failed: %v", err)
		}
		if len(stores) != 2 {
			t.Errorf("Stores returned %d rows, want 2", len(stores))
		}

		rentals, err := reader.Rentals(ctx, nil)
		if err != nil {
			t.Fatalf("Rentals failed: %v", err)
		}
		if len(rentals) != 8*6 {
			t.Errorf("Rentals returned %d rows, want %d", len(rentals), 8*6)
		}
		for _, r := range rentals {
			// Film and store ride along from the inventory join
			if r.FilmID < 1 || r.FilmID > 15 {
				t.Errorf("Rental %d has film_id %d out of range", r.RentalID, r.FilmID)
			}
			if r.StoreID != 1 && r.StoreID != 2 {
				t.Errorf("Rental %d has store_id %d out of range", r.RentalID, r.StoreID)
			}
		}
	})

	// A future watermark fetches nothing
	t.Run("FetchSinceFuture", func(t *testing.T) {
		future := time.Now().UTC().Add(time.Hour)
		films, err := reader.Films(ctx, &future)
		if err != nil {
			t.Fatalf("Films failed: %v", err)
		}
		if len(films) != 0 {
			t.Errorf("Films since future returned %d rows, want 0", len(films))
		}

		payments, err := reader.Payments(ctx, &future)
		if err != nil {
			t.Fatalf("Payments failed: %v", err)
		}
		if len(payments) != 0 {
			t.Errorf("Payments since future returned %d rows, want 0", len(payments))
		}
	})

	// Only rows strictly newer than the watermark are fetched
	t.Run("FetchSinceCutoff", func(t *testing.T) {
		cutoff := time.Now().UTC()
		if _, err := pool.Exec(ctx, `
            UPDATE actor SET last_update = now() WHERE actor_id IN (1, 2, 3)
        `); err != nil {
			t.Fatalf("Failed to touch actors: %v", err)
		}

		actors, err := reader.Actors(ctx, &cutoff)
		if err != nil {
			t.Fatalf("Actors failed: %v", err)
		}
		if len(actors) != 3 {
			t.Errorf("Actors since cutoff returned %d rows, want 3", len(actors))
		}
	})
}
