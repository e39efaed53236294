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

// Integration tests for warehouse schema, date dimension, and watermarks.
// Run with: go test -tags=integration ./internal/warehouse/...
// Requires PostgreSQL to be available.

package warehouse_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pgEdge/pgedge-dwsync/internal/testutil"
	"github.com/pgEdge/pgedge-dwsync/internal/warehouse"
)

func setupWarehouse(t *testing.T) *pgxpool.Pool {
	t.Helper()

	baseConnStr := testutil.SkipIfNoPostgres(t)
	connStr := testutil.CreateTestDB(t, baseConnStr, "wh")
	cleanup := testutil.NewTestCleanup(t, baseConnStr,
		testutil.GetDBNameFromConnStr(connStr))
	t.Cleanup(cleanup.Cleanup)

	pool := testutil.ConnectTestDB(t, connStr)
	cleanup.AddPool(pool)

	if err := warehouse.CreateSchema(context.Background(), pool); err != nil {
		t.Fatalf("CreateSchema failed: %v", err)
	}
	return pool
}

func TestCreateSchemaIdempotent(t *testing.T) {
	pool := setupWarehouse(t)

	// A second run against existing tables must not error
	if err := warehouse.CreateSchema(context.Background(), pool); err != nil {
		t.Fatalf("Repeated CreateSchema failed: %v", err)
	}
}

func TestPopulateDateDim(t *testing.T) {
	pool := setupWarehouse(t)
	ctx := context.Background()

	if err := warehouse.PopulateDateDim(ctx, pool); err != nil {
		t.Fatalf("PopulateDateDim failed: %v", err)
	}

	var count int64
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM dim_date`).Scan(&count); err != nil {
		t.Fatalf("Failed to count dim_date: %v", err)
	}
	// One row per day, 1900-01-01 through 2100-12-31
	if count != 73414 {
		t.Errorf("dim_date has %d rows, want 73414", count)
	}

	// Leap day is present with correct attributes
	var year, quarter, month, day int
	var isWeekend bool
	err := pool.QueryRow(ctx, `
        SELECT year, quarter, month, day_of_month, is_weekend
        FROM dim_date WHERE date_key = 20240229
    `).Scan(&year, &quarter, &month, &day, &isWeekend)
	if err != nil {
		t.Fatalf("Leap day 20240229 missing from dim_date: %v", err)
	}
	if year != 2024 || quarter != 1 || month != 2 || day != 29 {
		t.Errorf("Leap day attributes wrong: %d Q%d %d-%d", year, quarter, month, day)
	}

	// Repopulation is a no-op, not a duplication
	if err := warehouse.PopulateDateDim(ctx, pool); err != nil {
		t.Fatalf("Repeated PopulateDateDim failed: %v", err)
	}
	var after int64
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM dim_date`).Scan(&after); err != nil {
		t.Fatalf("Failed to count dim_date: %v", err)
	}
	if after != count {
		t.Errorf("Repopulation changed dim_date from %d to %d rows", count, after)
	}
}

func TestWatermarkStore(t *testing.T) {
	pool := setupWarehouse(t)
	ctx := context.Background()
	marks := warehouse.NewWatermarkStore(pool)

	if err := marks.Init(ctx, warehouse.Entities); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	// Never-synced entity reads as null, sentinel through GetOrSentinel
	ts, err := marks.Get(ctx, "film")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ts != nil {
		t.Errorf("Fresh watermark = %v, want nil", ts)
	}

	sentinel, err := marks.GetOrSentinel(ctx, "film")
	if err != nil {
		t.Fatalf("GetOrSentinel failed: %v", err)
	}
	if !sentinel.Equal(warehouse.SentinelWatermark) {
		t.Errorf("GetOrSentinel = %v, want %v", sentinel, warehouse.SentinelWatermark)
	}

	// Set stores the timestamp
	mark := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	if err := marks.Set(ctx, "film", mark); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := marks.GetOrSentinel(ctx, "film")
	if err != nil {
		t.Fatalf("GetOrSentinel failed: %v", err)
	}
	if !got.Equal(mark) {
		t.Errorf("Watermark = %v, want %v", got, mark)
	}

	// Set never moves a watermark backwards
	earlier := mark.Add(-time.Hour)
	if err := marks.Set(ctx, "film", earlier); err != nil {
		t.Fatalf("Set with earlier timestamp failed: %v", err)
	}
	got, err = marks.GetOrSentinel(ctx, "film")
	if err != nil {
		t.Fatalf("GetOrSentinel failed: %v", err)
	}
	if !got.Equal(mark) {
		t.Errorf("Watermark moved backwards to %v, want %v", got, mark)
	}

	// Re-running Init leaves existing watermarks untouched
	if err := marks.Init(ctx, warehouse.Entities); err != nil {
		t.Fatalf("Repeated Init failed: %v", err)
	}
	got, err = marks.GetOrSentinel(ctx, "film")
	if err != nil {
		t.Fatalf("GetOrSentinel failed: %v", err)
	}
	if !got.Equal(mark) {
		t.Errorf("Init reset watermark to %v, want %v", got, mark)
	}

	// Setting a watermark for an unregistered entity is an error
	if err := marks.Set(ctx, "unknown_entity", mark); err == nil {
		t.Error("Set for unregistered entity should error")
	}
}
