//-------------------------------------------------------------------------
//
// pgEdge Warehouse Sync
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package warehouse

import (
	"context"
	"fmt"
	"time"

	"github.com/pgEdge/pgedge-dwsync/internal/db"
)

// SentinelWatermark stands in for a null watermark: sync everything.
var SentinelWatermark = time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)

// WatermarkStore reads and writes the per-entity sync_state rows. A null
// last_update means the entity has never been synced.
//
// Callers must only Set a watermark after the owning entity's load has
// completed without error, and only inside the run transaction, so a rolled
// back run never advances any watermark.
type WatermarkStore struct {
	db db.DB
}

// NewWatermarkStore creates a store bound to a warehouse connection or
// transaction.
func NewWatermarkStore(conn db.DB) *WatermarkStore {
	return &WatermarkStore{db: conn}
}

// Init ensures one sync_state row exists per entity, with a null watermark
// for rows it creates. Existing watermarks are left untouched.
func (s *WatermarkStore) Init(ctx context.Context, entities []string) error {
	for _, entity := range entities {
		_, err := s.db.Exec(ctx, `
            INSERT INTO sync_state (table_name) VALUES ($1)
            ON CONFLICT (table_name) DO NOTHING
        `, entity)
		if err != nil {
			return fmt.Errorf("failed to init sync_state for %s: %w", entity, err)
		}
	}
	return nil
}

// Get returns the watermark for an entity, or nil when it has never synced.
func (s *WatermarkStore) Get(ctx context.Context, entity string) (*time.Time, error) {
	var ts *time.Time
	err := s.db.QueryRow(ctx, `
        SELECT last_update FROM sync_state WHERE table_name = $1
    `, entity).Scan(&ts)
	if err != nil {
		return nil, fmt.Errorf("failed to read watermark for %s: %w", entity, err)
	}
	return ts, nil
}

// GetOrSentinel returns the watermark for an entity, substituting the
// far-past sentinel when it is null.
func (s *WatermarkStore) GetOrSentinel(ctx context.Context, entity string) (time.Time, error) {
	ts, err := s.Get(ctx, entity)
	if err != nil {
		return time.Time{}, err
	}
	if ts == nil {
		return SentinelWatermark, nil
	}
	return *ts, nil
}

// Set advances the watermark for an entity. Watermarks are monotonically
// non-decreasing across successful runs; Set never moves one backwards.
func (s *WatermarkStore) Set(ctx context.Context, entity string, ts time.Time) error {
	tag, err := s.db.Exec(ctx, `
        UPDATE sync_state SET last_update = $2
        WHERE table_name = $1
          AND (last_update IS NULL OR last_update <= $2)
    `, entity, ts)
	if err != nil {
		return fmt.Errorf("failed to set watermark for %s: %w", entity, err)
	}
	if tag.RowsAffected() == 0 {
		// Either the row is missing (init was skipped) or ts is in the past.
		var exists bool
		if err := s.db.QueryRow(ctx, `
            SELECT EXISTS (SELECT 1 FROM sync_state WHERE table_name = $1)
        `, entity).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check sync_state for %s: %w", entity, err)
		}
		if !exists {
			return fmt.Errorf("no sync_state row for %s; run init first", entity)
		}
	}
	return nil
}
